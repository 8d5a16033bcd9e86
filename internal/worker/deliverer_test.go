package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"saltmarket/internal/domain/entity"
	"saltmarket/internal/infrastructure/dispatch"
	"saltmarket/internal/worker"
)

type fakeStore struct {
	stored []entity.Notification
	err    error
}

func (s *fakeStore) Store(_ context.Context, notification entity.Notification) error {
	if s.err != nil {
		return s.err
	}

	s.stored = append(s.stored, notification)

	return nil
}

type fakeAlerter struct {
	alerted []entity.Notification
	err     error
}

func (a *fakeAlerter) SendNotification(_ context.Context, notification entity.Notification) error {
	a.alerted = append(a.alerted, notification)

	return a.err
}

func deliveryTask(t *testing.T, notification entity.Notification) *asynq.Task {
	t.Helper()

	payload, err := json.Marshal(notification)
	require.NoError(t, err)

	return asynq.NewTask(dispatch.TypeNotificationDeliver, payload)
}

func TestHandleDeliverPersists(t *testing.T) {
	rq := require.New(t)

	store := &fakeStore{}
	deliverer := worker.NewNotificationDeliverer(store)

	notification := entity.Notification{ID: "n1", RecipientID: "lo-1", Title: "New offer"}

	rq.NoError(deliverer.HandleDeliver(context.Background(), deliveryTask(t, notification)))
	rq.Len(store.stored, 1)
	rq.Equal(notification.ID, store.stored[0].ID)
}

func TestHandleDeliverStoreFailureRetries(t *testing.T) {
	rq := require.New(t)

	store := &fakeStore{err: errors.New("connection reset")}
	deliverer := worker.NewNotificationDeliverer(store)

	err := deliverer.HandleDeliver(context.Background(), deliveryTask(t, entity.Notification{ID: "n1"}))
	rq.Error(err)
}

func TestHandleDeliverOpsAlertFailureIsSwallowed(t *testing.T) {
	rq := require.New(t)

	store := &fakeStore{}
	alerter := &fakeAlerter{err: errors.New("telegram down")}
	deliverer := worker.NewNotificationDeliverer(store).WithOpsAlerts(alerter)

	rq.NoError(deliverer.HandleDeliver(context.Background(), deliveryTask(t, entity.Notification{ID: "n1"})))
	rq.Len(store.stored, 1)
	rq.Len(alerter.alerted, 1)
}
