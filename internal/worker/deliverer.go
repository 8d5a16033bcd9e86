package worker

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"saltmarket/internal/domain/entity"
	"saltmarket/internal/infrastructure/dispatch"
)

type notificationStore interface {
	Store(ctx context.Context, notification entity.Notification) error
}

type opsAlerter interface {
	SendNotification(ctx context.Context, notification entity.Notification) error
}

// NotificationDeliverer is the asynq handler for queued notifications: it
// persists the record and optionally mirrors it to the ops chat. Persistence
// failure fails the task so asynq retries; a failed ops alert does not.
type NotificationDeliverer struct {
	store  notificationStore
	alerts opsAlerter
}

func NewNotificationDeliverer(store notificationStore) *NotificationDeliverer {
	return &NotificationDeliverer{store: store}
}

func (d *NotificationDeliverer) WithOpsAlerts(alerts opsAlerter) *NotificationDeliverer {
	d.alerts = alerts
	return d
}

func (d *NotificationDeliverer) HandleDeliver(ctx context.Context, task *asynq.Task) error {
	notification, err := dispatch.DecodeNotification(task)
	if err != nil {
		return fmt.Errorf("dispatch.DecodeNotification: %w", err)
	}

	if err := d.store.Store(ctx, notification); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}

	notificationsDelivered.Inc()

	if d.alerts != nil {
		if err := d.alerts.SendNotification(ctx, notification); err != nil {
			logger(ctx).Error("ops alert failed",
				"notification_id", notification.ID.String(),
				"error", err,
			)
		}
	}

	return nil
}
