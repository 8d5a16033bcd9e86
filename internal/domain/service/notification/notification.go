package notification

import (
	"context"
	"fmt"

	"saltmarket/internal/domain/entity"
	"saltmarket/internal/domain/value"
)

// DefaultRetentionPerRecipient bounds notification growth: older records
// beyond this count are pruned per recipient.
const DefaultRetentionPerRecipient = 200

type Repository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	ListByRecipient(ctx context.Context, recipientID value.PartyID, limit, offset int) ([]entity.Notification, error)
	MarkRead(ctx context.Context, id value.NotificationID) error
	MarkAllRead(ctx context.Context, recipientID value.PartyID) error
	PruneToLast(ctx context.Context, keepPerRecipient int) (int64, error)
}

// Service owns the notification collection. Records are append-only except
// for read-state toggles; removal happens only through retention pruning.
type Service struct {
	repo      Repository
	retention int
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:      repo,
		retention: DefaultRetentionPerRecipient,
	}
}

func (s *Service) WithRetention(keepPerRecipient int) *Service {
	if keepPerRecipient > 0 {
		s.retention = keepPerRecipient
	}
	return s
}

// Store persists a dispatched notification. Called by the delivery worker.
func (s *Service) Store(ctx context.Context, notification entity.Notification) error {
	if err := s.repo.Create(ctx, &notification); err != nil {
		return fmt.Errorf("repo.Create: %w", err)
	}

	return nil
}

func (s *Service) ListByRecipient(ctx context.Context, recipientID value.PartyID, limit, offset int) ([]entity.Notification, error) {
	notifications, err := s.repo.ListByRecipient(ctx, recipientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("repo.ListByRecipient: %w", err)
	}

	return notifications, nil
}

func (s *Service) MarkRead(ctx context.Context, id value.NotificationID) error {
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return fmt.Errorf("repo.MarkRead: %w", err)
	}

	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, recipientID value.PartyID) error {
	if err := s.repo.MarkAllRead(ctx, recipientID); err != nil {
		return fmt.Errorf("repo.MarkAllRead: %w", err)
	}

	return nil
}

// Prune drops everything beyond the retention window and returns the number
// of removed records.
func (s *Service) Prune(ctx context.Context) (int64, error) {
	pruned, err := s.repo.PruneToLast(ctx, s.retention)
	if err != nil {
		return 0, fmt.Errorf("repo.PruneToLast: %w", err)
	}

	return pruned, nil
}
