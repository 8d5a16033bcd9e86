package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"

	"saltmarket/internal/domain"
	"saltmarket/internal/domain/entity"
	"saltmarket/internal/domain/value"
	"saltmarket/pkg/errcodes"
)

const notificationColumns = `id, type, title, message, recipient_id, deal_id, read, created_at`

type NotificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	query := `
		INSERT INTO notifications (id, type, title, message, recipient_id, deal_id, read, created_at)
		VALUES (:id, :type, :title, :message, :recipient_id, :deal_id, :read, :created_at)`

	var dealID *string
	if notification.DealID != nil {
		d := notification.DealID.String()
		dealID = &d
	}

	params := map[string]any{
		"id":           notification.ID.String(),
		"type":         notification.Type.String(),
		"title":        notification.Title,
		"message":      notification.Message,
		"recipient_id": notification.RecipientID.String(),
		"deal_id":      dealID,
		"read":         notification.Read,
		"created_at":   notification.Timestamp,
	}

	if _, err := r.db.NamedExecContext(ctx, query, params); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to insert notification")
	}

	return nil
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID value.PartyID, limit, offset int) ([]entity.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var schemas []notificationSchema
	if err := r.db.SelectContext(ctx, &schemas, query, recipientID.String(), limit, offset); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list notifications")
	}

	notifications := make([]entity.Notification, 0, len(schemas))
	for _, s := range schemas {
		notification, err := s.toDomain()
		if err != nil {
			return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to convert notification")
		}
		notifications = append(notifications, notification)
	}

	return notifications, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id value.NotificationID) error {
	query := `UPDATE notifications SET read = TRUE WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id.String())
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to mark notification read")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	if rows == 0 {
		return domain.NewError(errcodes.NotificationNotFound, "notification not found")
	}

	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID value.PartyID) error {
	query := `UPDATE notifications SET read = TRUE WHERE recipient_id = $1 AND read = FALSE`

	if _, err := r.db.ExecContext(ctx, query, recipientID.String()); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to mark notifications read")
	}

	return nil
}

// PruneToLast removes everything but the newest keepPerRecipient records for
// each recipient and returns how many rows were deleted.
func (r *NotificationRepository) PruneToLast(ctx context.Context, keepPerRecipient int) (int64, error) {
	query := `
		DELETE FROM notifications
		WHERE id IN (
			SELECT id FROM (
				SELECT id,
				       ROW_NUMBER() OVER (PARTITION BY recipient_id ORDER BY created_at DESC) AS rn
				FROM notifications
			) ranked
			WHERE ranked.rn > $1
		)`

	res, err := r.db.ExecContext(ctx, query, keepPerRecipient)
	if err != nil {
		return 0, domain.WrapError(err, errcodes.InternalServerError, "failed to prune notifications")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	return rows, nil
}
