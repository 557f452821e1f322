package service

import (
	"context"
	"log/slog"
	"strings"

	"pixelaura/internal/middleware"
	"pixelaura/internal/models"
	"pixelaura/internal/repository"
)

// SocialService manages the follow graph and user discovery.
type SocialService struct {
	follows       repository.FollowRepository
	users         repository.UserRepository
	notifications *NotificationService
}

func NewSocialService(
	follows repository.FollowRepository,
	users repository.UserRepository,
	notifications *NotificationService,
) *SocialService {
	return &SocialService{
		follows:       follows,
		users:         users,
		notifications: notifications,
	}
}

// ToggleFollow flips the follow edge and reports the resulting state. Only
// the transition into following notifies the followee.
func (s *SocialService) ToggleFollow(ctx context.Context, followerID, followeeID uint) (bool, error) {
	following, err := s.follows.ToggleFollow(ctx, followerID, followeeID)
	if err != nil {
		return false, err
	}
	if following && s.notifications != nil {
		if err := s.notifications.Fanout(ctx, followeeID, followerID, models.NotificationContextFollow); err != nil {
			middleware.Logger.WarnContext(ctx, "follow notification failed",
				slog.Any("followee_id", followeeID),
				slog.String("error", err.Error()),
			)
		}
	}
	return following, nil
}

func (s *SocialService) Following(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	return s.follows.Following(ctx, userID, limit, offset)
}

func (s *SocialService) Followers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	return s.follows.Followers(ctx, userID, limit, offset)
}

// IsFollowing reports whether follower currently follows followee.
func (s *SocialService) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.follows.IsFollowing(ctx, followerID, followeeID)
}

// Suggestions lists users the viewer does not follow yet.
func (s *SocialService) Suggestions(ctx context.Context, viewerID uint, limit, offset int) ([]models.User, error) {
	return s.users.List(ctx, viewerID, limit, offset)
}

func (s *SocialService) SearchUsers(ctx context.Context, viewerID uint, query string, limit, offset int) ([]models.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.User{}, nil
	}
	return s.users.Search(ctx, viewerID, query, limit, offset)
}
