// Package service implements the business logic layer of the application.
package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"pixelaura/internal/middleware"
	"pixelaura/internal/models"
	"pixelaura/internal/observability"
	"pixelaura/internal/repository"
)

// Publisher pushes a rendered notification payload to a user's realtime channel.
type Publisher interface {
	PublishUser(ctx context.Context, userID uint, payload string) error
}

// NotificationService stores notifications and fans them out over the
// realtime channel. Storage is authoritative, publishing is best-effort.
type NotificationService struct {
	repo      repository.NotificationRepository
	userRepo  repository.UserRepository
	publisher Publisher
}

func NewNotificationService(
	repo repository.NotificationRepository,
	userRepo repository.UserRepository,
	publisher Publisher,
) *NotificationService {
	return &NotificationService{
		repo:      repo,
		userRepo:  userRepo,
		publisher: publisher,
	}
}

// Fanout renders, stores and publishes one notification. Self-notifications
// are dropped, nobody is told about their own actions.
func (s *NotificationService) Fanout(
	ctx context.Context, receiverID, senderID uint, nctx models.NotificationContext,
) error {
	if receiverID == senderID {
		return nil
	}

	senderHandle := ""
	if sender, err := s.userRepo.GetByID(ctx, senderID); err == nil {
		senderHandle = sender.Handle
	}

	notification := &models.Notification{
		ReceiverID: receiverID,
		SenderID:   senderID,
		Context:    nctx,
		Message:    models.RenderNotification(nctx, senderHandle),
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}

	observability.NotificationFanouts.WithLabelValues(string(nctx)).Inc()

	if s.publisher != nil {
		payload, err := json.Marshal(notification)
		if err == nil {
			if pubErr := s.publisher.PublishUser(ctx, receiverID, string(payload)); pubErr != nil {
				middleware.Logger.WarnContext(ctx, "notification publish failed",
					slog.Any("receiver_id", receiverID),
					slog.String("context", string(nctx)),
					slog.String("error", pubErr.Error()),
				)
			}
		}
	}

	return nil
}

func (s *NotificationService) List(ctx context.Context, userID uint, limit, offset int) ([]models.Notification, error) {
	return s.repo.ListForUser(ctx, userID, limit, offset)
}
