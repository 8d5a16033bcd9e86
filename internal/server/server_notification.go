package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/samber/lo"

	"saltmarket/internal/domain/entity"
	"saltmarket/internal/domain/value"
	"saltmarket/pkg/httpx/reply"
	"saltmarket/pkg/rest"
)

type notificationService interface {
	ListByRecipient(ctx context.Context, recipientID value.PartyID, limit, offset int) ([]entity.Notification, error)
	MarkRead(ctx context.Context, id value.NotificationID) error
	MarkAllRead(ctx context.Context, recipientID value.PartyID) error
}

type NotificationServer struct {
	notificationService notificationService
}

func NewNotificationServer(notificationService notificationService) NotificationServer {
	return NotificationServer{
		notificationService: notificationService,
	}
}

func (s NotificationServer) getV1Notifications(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	recipientID, err := value.ParsePartyID(r.URL.Query().Get("recipientId"))
	if err != nil {
		return fmt.Errorf("value.ParsePartyID: %w", err)
	}

	limit, offset, err := paging(r)
	if err != nil {
		return err
	}

	notifications, err := s.notificationService.ListByRecipient(ctx, recipientID, limit, offset)
	if err != nil {
		return fmt.Errorf("notificationService.ListByRecipient: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, lo.Map(notifications, func(n entity.Notification, _ int) rest.Notification {
		return newRESTNotification(n)
	}))

	return nil
}

func (s NotificationServer) postV1NotificationRead(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := value.ParseNotificationID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParseNotificationID: %w", err)
	}

	if err := s.notificationService.MarkRead(ctx, id); err != nil {
		return fmt.Errorf("notificationService.MarkRead: %w", err)
	}

	reply.OK(w)

	return nil
}

func (s NotificationServer) postV1NotificationsReadAll(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	recipientID, err := value.ParsePartyID(r.URL.Query().Get("recipientId"))
	if err != nil {
		return fmt.Errorf("value.ParsePartyID: %w", err)
	}

	if err := s.notificationService.MarkAllRead(ctx, recipientID); err != nil {
		return fmt.Errorf("notificationService.MarkAllRead: %w", err)
	}

	reply.OK(w)

	return nil
}
