package value

import (
	"fmt"

	"saltmarket/internal/domain"
	"saltmarket/pkg/errcodes"
)

// Reliability is the seller tier shown alongside an offer.
type Reliability string

const (
	ReliabilityHigh   Reliability = "High"
	ReliabilityMedium Reliability = "Medium"
	ReliabilityLow    Reliability = "Low"
)

func (r Reliability) String() string {
	return string(r)
}

func ParseReliability(raw string) (Reliability, error) {
	switch Reliability(raw) {
	case ReliabilityHigh, ReliabilityMedium, ReliabilityLow:
		return Reliability(raw), nil
	}

	return "", domain.NewError(errcodes.InvalidReliability, fmt.Sprintf("unknown reliability %q", raw))
}
