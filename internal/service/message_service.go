package service

import (
	"context"
	"log/slog"
	"strings"

	"pixelaura/internal/cache"
	"pixelaura/internal/middleware"
	"pixelaura/internal/models"
	"pixelaura/internal/repository"
)

// MessageService handles direct messages and the derived conversation views.
type MessageService struct {
	messages      repository.MessageRepository
	users         repository.UserRepository
	notifications *NotificationService
}

func NewMessageService(
	messages repository.MessageRepository,
	users repository.UserRepository,
	notifications *NotificationService,
) *MessageService {
	return &MessageService{
		messages:      messages,
		users:         users,
		notifications: notifications,
	}
}

// Send validates and persists a direct message, then notifies the receiver.
func (s *MessageService) Send(ctx context.Context, senderID, receiverID uint, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Please enter a message.")
	}
	if senderID == receiverID {
		return nil, models.NewValidationError("You can't message yourself.")
	}
	if _, err := s.users.GetByID(ctx, receiverID); err != nil {
		return nil, err
	}

	message := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := s.messages.Send(ctx, message); err != nil {
		return nil, err
	}

	// Both participants' conversation lists changed
	cache.InvalidateConversations(ctx, senderID)
	cache.InvalidateConversations(ctx, receiverID)

	if s.notifications != nil {
		if err := s.notifications.Fanout(ctx, receiverID, senderID, models.NotificationContextMessage); err != nil {
			middleware.Logger.WarnContext(ctx, "message notification failed",
				slog.Any("receiver_id", receiverID),
				slog.String("error", err.Error()),
			)
		}
	}
	return message, nil
}

// Conversation returns the message history with a peer, oldest first. Opening
// a conversation marks the peer's messages as read.
func (s *MessageService) Conversation(ctx context.Context, viewerID, peerID uint, limit, offset int) ([]*models.Message, error) {
	if err := s.messages.MarkConversationRead(ctx, viewerID, peerID); err != nil {
		return nil, err
	}
	// Unread counts changed, drop the cached list
	cache.InvalidateConversations(ctx, viewerID)

	return s.messages.ConversationBetween(ctx, viewerID, peerID, limit, offset)
}

// Conversations returns the viewer's conversation list, newest first, served
// through a short-lived cache.
func (s *MessageService) Conversations(ctx context.Context, viewerID uint) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := cache.Aside(ctx, cache.ConversationKey(viewerID), &conversations, cache.ConversationTTL, func() error {
		var fetchErr error
		conversations, fetchErr = s.messages.Conversations(ctx, viewerID)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	return conversations, nil
}
