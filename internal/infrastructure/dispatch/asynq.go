package dispatch

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"

	"saltmarket/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// TypeNotificationDeliver is the asynq task pattern for notification
// delivery.
const TypeNotificationDeliver = "notification:deliver"

const QueueNotifications = "notifications"

// AsynqDispatcher enqueues notifications for asynchronous, at-least-once
// delivery. Deal mutations never block on delivery.
type AsynqDispatcher struct {
	client *asynq.Client
}

func NewAsynqDispatcher(client *asynq.Client) *AsynqDispatcher {
	return &AsynqDispatcher{client: client}
}

func (d *AsynqDispatcher) Dispatch(ctx context.Context, notification entity.Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	task := asynq.NewTask(TypeNotificationDeliver, payload, asynq.Queue(QueueNotifications))

	if _, err := d.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("client.EnqueueContext: %w", err)
	}

	return nil
}

// DecodeNotification unpacks a delivery task payload.
func DecodeNotification(task *asynq.Task) (entity.Notification, error) {
	var notification entity.Notification
	if err := json.Unmarshal(task.Payload(), &notification); err != nil {
		return entity.Notification{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	return notification, nil
}
