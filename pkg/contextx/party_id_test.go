package contextx_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"saltmarket/pkg/contextx"
)

func TestPartyID(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	var testPartyIDEmpty contextx.PartyID

	testPartyIDNotEmpty := contextx.PartyID("test-party-id")

	partyID, err := contextx.PartyIDFromContext(ctx)
	rq.Equal(testPartyIDEmpty, partyID)
	rq.ErrorIs(err, contextx.ErrNoValue)
	rq.ErrorContains(err, "party id: no value in context")

	ctx = contextx.WithPartyID(ctx, testPartyIDNotEmpty)

	partyID, err = contextx.PartyIDFromContext(ctx)
	rq.Equal(testPartyIDNotEmpty, partyID)
	rq.NoError(err)
}
