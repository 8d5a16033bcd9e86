package entity

import (
	"time"

	"saltmarket/internal/domain/value"
)

// Notification is mutated only by read-state toggles. Growth is bounded by the
// retention worker, which keeps the newest records per recipient.
type Notification struct {
	ID          value.NotificationID   `json:"id"`
	Type        value.NotificationType `json:"type"`
	Title       string                 `json:"title"`
	Message     string                 `json:"message"`
	RecipientID value.PartyID          `json:"recipient_id"`
	DealID      *value.DealID          `json:"deal_id,omitempty"`
	Read        bool                   `json:"read"`
	Timestamp   time.Time              `json:"timestamp"`
}
