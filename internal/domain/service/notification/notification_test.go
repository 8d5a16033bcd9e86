package notification_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"saltmarket/internal/domain/entity"
	"saltmarket/internal/domain/service/notification"
	"saltmarket/internal/domain/value"
)

type fakeRepo struct {
	stored       []entity.Notification
	prunedToKeep int
}

func (r *fakeRepo) Create(_ context.Context, n *entity.Notification) error {
	r.stored = append(r.stored, *n)

	return nil
}

func (r *fakeRepo) ListByRecipient(_ context.Context, recipientID value.PartyID, _, _ int) ([]entity.Notification, error) {
	var result []entity.Notification

	for _, n := range r.stored {
		if n.RecipientID == recipientID {
			result = append(result, n)
		}
	}

	return result, nil
}

func (r *fakeRepo) MarkRead(_ context.Context, id value.NotificationID) error {
	for i := range r.stored {
		if r.stored[i].ID == id {
			r.stored[i].Read = true
		}
	}

	return nil
}

func (r *fakeRepo) MarkAllRead(_ context.Context, recipientID value.PartyID) error {
	for i := range r.stored {
		if r.stored[i].RecipientID == recipientID {
			r.stored[i].Read = true
		}
	}

	return nil
}

func (r *fakeRepo) PruneToLast(_ context.Context, keepPerRecipient int) (int64, error) {
	r.prunedToKeep = keepPerRecipient

	return 7, nil
}

func TestStoreAndList(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := &fakeRepo{}
	svc := notification.NewService(repo)

	rq.NoError(svc.Store(ctx, entity.Notification{ID: "n1", RecipientID: "lo-1", Type: value.NotificationNewOffer}))
	rq.NoError(svc.Store(ctx, entity.Notification{ID: "n2", RecipientID: "lo-2", Type: value.NotificationNewOffer}))

	listed, err := svc.ListByRecipient(ctx, "lo-1", 50, 0)
	rq.NoError(err)
	rq.Len(listed, 1)
	rq.Equal(value.NotificationID("n1"), listed[0].ID)
}

func TestMarkRead(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := &fakeRepo{}
	svc := notification.NewService(repo)

	rq.NoError(svc.Store(ctx, entity.Notification{ID: "n1", RecipientID: "lo-1"}))
	rq.NoError(svc.Store(ctx, entity.Notification{ID: "n2", RecipientID: "lo-1"}))

	rq.NoError(svc.MarkRead(ctx, "n1"))
	rq.True(repo.stored[0].Read)
	rq.False(repo.stored[1].Read)

	rq.NoError(svc.MarkAllRead(ctx, "lo-1"))
	rq.True(repo.stored[1].Read)
}

func TestPruneUsesRetention(t *testing.T) {
	rq := require.New(t)

	repo := &fakeRepo{}
	svc := notification.NewService(repo).WithRetention(25)

	pruned, err := svc.Prune(context.Background())
	rq.NoError(err)
	rq.EqualValues(7, pruned)
	rq.Equal(25, repo.prunedToKeep)
}

func TestRetentionGuardsNonPositive(t *testing.T) {
	rq := require.New(t)

	repo := &fakeRepo{}
	svc := notification.NewService(repo).WithRetention(0)

	_, err := svc.Prune(context.Background())
	rq.NoError(err)
	rq.Equal(notification.DefaultRetentionPerRecipient, repo.prunedToKeep)
}
