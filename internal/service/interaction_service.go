package service

import (
	"context"
	"log/slog"

	"pixelaura/internal/middleware"
	"pixelaura/internal/models"
	"pixelaura/internal/repository"
)

// InteractionService wraps the like/repost/download toggles with the business
// rules the repositories do not know about: self-interaction guards and
// notification fan-out.
type InteractionService struct {
	interactions  repository.InteractionRepository
	userRepo      repository.UserRepository
	notifications *NotificationService
}

func NewInteractionService(
	interactions repository.InteractionRepository,
	userRepo repository.UserRepository,
	notifications *NotificationService,
) *InteractionService {
	return &InteractionService{
		interactions:  interactions,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

// notify fans out best-effort. A failed notification never fails the
// interaction that triggered it.
func (s *InteractionService) notify(ctx context.Context, receiverID, senderID uint, nctx models.NotificationContext) {
	if s.notifications == nil {
		return
	}
	if err := s.notifications.Fanout(ctx, receiverID, senderID, nctx); err != nil {
		middleware.Logger.WarnContext(ctx, "notification fanout failed",
			slog.String("context", string(nctx)),
			slog.Any("receiver_id", receiverID),
			slog.String("error", err.Error()),
		)
	}
}

// ToggleLike flips the viewer's like on a post. Only the transition into the
// liked state notifies the author.
func (s *InteractionService) ToggleLike(ctx context.Context, userID, postID uint) (*models.Post, error) {
	post, err := s.interactions.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID == userID {
		return nil, models.NewValidationError("You can't like your own post.")
	}

	liked, post, err := s.interactions.ToggleLike(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if liked {
		s.notify(ctx, post.UserID, userID, models.NotificationContextLike)
	}
	return post, nil
}

// ToggleRepost flips the viewer's repost of a post. The reposting user's
// current display fields are snapshotted onto the repost.
func (s *InteractionService) ToggleRepost(ctx context.Context, userID, postID uint) (*models.Post, error) {
	post, err := s.interactions.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID == userID {
		return nil, models.NewValidationError("You can't repost your own post.")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	reposted, post, err := s.interactions.ToggleRepost(ctx, user, postID)
	if err != nil {
		return nil, err
	}
	if reposted {
		s.notify(ctx, post.UserID, userID, models.NotificationContextRepost)
	}
	return post, nil
}

// Download counts a download of a post's image. Not a toggle, every download
// counts and notifies again.
func (s *InteractionService) Download(ctx context.Context, userID, postID uint) (*models.Post, error) {
	post, err := s.interactions.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.ImageURL == "" {
		return nil, models.NewValidationError("No image to download.")
	}

	post, err = s.interactions.IncrementDownload(ctx, postID)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, post.UserID, userID, models.NotificationContextDownload)
	return post, nil
}
