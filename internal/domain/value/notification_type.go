package value

import (
	"fmt"

	"saltmarket/internal/domain"
	"saltmarket/pkg/errcodes"
)

type NotificationType string

const (
	NotificationNewOffer     NotificationType = "NEW_OFFER"
	NotificationDealAccepted NotificationType = "DEAL_ACCEPTED"
	NotificationDealComplete NotificationType = "DEAL_COMPLETED"
	NotificationCounterOffer NotificationType = "COUNTER_OFFER"
)

func (t NotificationType) String() string {
	return string(t)
}

func ParseNotificationType(raw string) (NotificationType, error) {
	switch NotificationType(raw) {
	case NotificationNewOffer, NotificationDealAccepted, NotificationDealComplete, NotificationCounterOffer:
		return NotificationType(raw), nil
	}

	return "", domain.NewError(errcodes.ValidationError, fmt.Sprintf("unknown notification type %q", raw))
}
