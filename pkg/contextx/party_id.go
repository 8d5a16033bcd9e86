package contextx

import (
	"context"
	"fmt"
)

// PartyID identifies the acting marketplace party (landowner or seller).
type PartyID string

type contextKeyPartyID struct{}

func (p PartyID) String() string {
	return string(p)
}

func WithPartyID(ctx context.Context, partyID PartyID) context.Context {
	return context.WithValue(ctx, contextKeyPartyID{}, partyID)
}

func PartyIDFromContext(ctx context.Context) (PartyID, error) {
	partyID, ok := ctx.Value(contextKeyPartyID{}).(PartyID)
	if !ok {
		return "", fmt.Errorf("party id: %w", ErrNoValue)
	}

	return partyID, nil
}
