package deal

import (
	"fmt"
	"time"

	"github.com/rs/xid"

	"saltmarket/internal/domain/entity"
	"saltmarket/internal/domain/value"
)

func newOfferNotification(offer entity.SellerOffer, recipient value.PartyID) entity.Notification {
	return entity.Notification{
		ID:          value.NotificationID(xid.New().String()),
		Type:        value.NotificationNewOffer,
		Title:       "New offer published",
		Message:     fmt.Sprintf("%s is buying up to %.1f t at %.2f per ton", offer.Name, offer.DemandTons, offer.PricePerTon),
		RecipientID: recipient,
		Timestamp:   time.Now(),
	}
}

func newProposalNotification(deal entity.Deal) entity.Notification {
	return entity.Notification{
		ID:          value.NotificationID(xid.New().String()),
		Type:        value.NotificationNewOffer,
		Title:       "New deal proposal",
		Message:     fmt.Sprintf("%s proposes %.1f t at %.2f per ton", deal.SellerName, deal.Quantity, deal.PricePerTon),
		RecipientID: deal.LandownerID,
		DealID:      &deal.ID,
		Timestamp:   time.Now(),
	}
}

func acceptedNotification(deal entity.Deal, recipient value.PartyID) entity.Notification {
	return entity.Notification{
		ID:          value.NotificationID(xid.New().String()),
		Type:        value.NotificationDealAccepted,
		Title:       "Deal accepted",
		Message:     fmt.Sprintf("%s accepted %.1f t at %.2f per ton (total %.2f)", deal.LandownerName, deal.Quantity, deal.PricePerTon, deal.TotalPrice),
		RecipientID: recipient,
		DealID:      &deal.ID,
		Timestamp:   time.Now(),
	}
}

func completedNotification(deal entity.Deal) entity.Notification {
	return entity.Notification{
		ID:          value.NotificationID(xid.New().String()),
		Type:        value.NotificationDealComplete,
		Title:       "Deal completed",
		Message:     fmt.Sprintf("Deal with %s for %.1f t is completed", deal.SellerName, deal.Quantity),
		RecipientID: deal.LandownerID,
		DealID:      &deal.ID,
		Timestamp:   time.Now(),
	}
}

func counterNotification(deal entity.Deal, msg entity.NegotiationMessage, recipient value.PartyID) entity.Notification {
	text := msg.Message
	if msg.PricePerTon != nil {
		text = fmt.Sprintf("%s (proposed %.2f per ton)", text, *msg.PricePerTon)
	}

	return entity.Notification{
		ID:          value.NotificationID(xid.New().String()),
		Type:        value.NotificationCounterOffer,
		Title:       "Counter offer",
		Message:     text,
		RecipientID: recipient,
		DealID:      &deal.ID,
		Timestamp:   time.Now(),
	}
}
