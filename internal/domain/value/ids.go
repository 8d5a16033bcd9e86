package value

import (
	"saltmarket/internal/domain"
	"saltmarket/pkg/errcodes"
)

type (
	// OfferID identifies a published seller offer.
	OfferID string
	// DealID identifies a deal record.
	DealID string
	// PartyID identifies a landowner or a seller.
	PartyID string
	// NotificationID identifies a notification.
	NotificationID string
	// BatchID correlates deals created by one bundled acceptance.
	BatchID string
)

func (id OfferID) String() string        { return string(id) }
func (id DealID) String() string         { return string(id) }
func (id PartyID) String() string        { return string(id) }
func (id NotificationID) String() string { return string(id) }
func (id BatchID) String() string        { return string(id) }

func ParseOfferID(raw string) (OfferID, error) {
	if raw == "" {
		return "", domain.NewError(errcodes.InvalidOfferID, "empty offer id")
	}

	return OfferID(raw), nil
}

func ParseDealID(raw string) (DealID, error) {
	if raw == "" {
		return "", domain.NewError(errcodes.InvalidDealID, "empty deal id")
	}

	return DealID(raw), nil
}

func ParsePartyID(raw string) (PartyID, error) {
	if raw == "" {
		return "", domain.NewError(errcodes.InvalidPartyID, "empty party id")
	}

	return PartyID(raw), nil
}

func ParseNotificationID(raw string) (NotificationID, error) {
	if raw == "" {
		return "", domain.NewError(errcodes.ValidationError, "empty notification id")
	}

	return NotificationID(raw), nil
}
