package value

import (
	"fmt"

	"saltmarket/internal/domain"
	"saltmarket/pkg/errcodes"
)

// DealStatus is the lifecycle state of a deal.
type DealStatus string

const (
	DealStatusNegotiating DealStatus = "NEGOTIATING"
	DealStatusAccepted    DealStatus = "ACCEPTED"
	DealStatusCompleted   DealStatus = "COMPLETED"
	DealStatusRejected    DealStatus = "REJECTED"
)

func (s DealStatus) String() string {
	return string(s)
}

// Terminal reports whether no further transition is allowed.
func (s DealStatus) Terminal() bool {
	return s == DealStatusCompleted || s == DealStatusRejected
}

// CanTransitionTo validates the lifecycle:
// NEGOTIATING -> ACCEPTED | REJECTED, ACCEPTED -> COMPLETED.
func (s DealStatus) CanTransitionTo(next DealStatus) bool {
	switch s {
	case DealStatusNegotiating:
		return next == DealStatusAccepted || next == DealStatusRejected
	case DealStatusAccepted:
		return next == DealStatusCompleted
	default:
		return false
	}
}

func ParseDealStatus(raw string) (DealStatus, error) {
	switch DealStatus(raw) {
	case DealStatusNegotiating, DealStatusAccepted, DealStatusCompleted, DealStatusRejected:
		return DealStatus(raw), nil
	}

	return "", domain.NewError(errcodes.InvalidDealStatus, fmt.Sprintf("unknown deal status %q", raw))
}
