package value_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"saltmarket/internal/domain/value"
)

func TestDealStatusCanTransitionTo(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name    string
		from    value.DealStatus
		to      value.DealStatus
		allowed bool
	}{
		{name: "negotiating to accepted", from: value.DealStatusNegotiating, to: value.DealStatusAccepted, allowed: true},
		{name: "negotiating to rejected", from: value.DealStatusNegotiating, to: value.DealStatusRejected, allowed: true},
		{name: "negotiating to completed", from: value.DealStatusNegotiating, to: value.DealStatusCompleted, allowed: false},
		{name: "accepted to completed", from: value.DealStatusAccepted, to: value.DealStatusCompleted, allowed: true},
		{name: "accepted to rejected", from: value.DealStatusAccepted, to: value.DealStatusRejected, allowed: false},
		{name: "completed is terminal", from: value.DealStatusCompleted, to: value.DealStatusAccepted, allowed: false},
		{name: "rejected is terminal", from: value.DealStatusRejected, to: value.DealStatusNegotiating, allowed: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			rq.Equal(tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestDealStatusTerminal(t *testing.T) {
	rq := require.New(t)

	rq.False(value.DealStatusNegotiating.Terminal())
	rq.False(value.DealStatusAccepted.Terminal())
	rq.True(value.DealStatusCompleted.Terminal())
	rq.True(value.DealStatusRejected.Terminal())
}

func TestParseDealStatus(t *testing.T) {
	rq := require.New(t)

	status, err := value.ParseDealStatus("ACCEPTED")
	rq.NoError(err)
	rq.Equal(value.DealStatusAccepted, status)

	_, err = value.ParseDealStatus("negotiating")
	rq.Error(err)
}

func TestParseReliability(t *testing.T) {
	rq := require.New(t)

	reliability, err := value.ParseReliability("High")
	rq.NoError(err)
	rq.Equal(value.ReliabilityHigh, reliability)

	_, err = value.ParseReliability("Ultra")
	rq.Error(err)
}
