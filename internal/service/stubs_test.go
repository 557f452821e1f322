package service

import (
	"context"
	"errors"
	"testing"

	"pixelaura/internal/models"
	"pixelaura/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn        func(context.Context, *models.Post) error
	getByIDFn       func(context.Context, uint, uint) (*models.Post, error)
	getByUserIDFn   func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	listFn          func(context.Context, int, int, uint) ([]*models.Post, error)
	searchFn        func(context.Context, string, int, int, uint) ([]*models.Post, error)
	deleteFn        func(context.Context, uint) error
	repostsByUserFn func(context.Context, uint, int, int) ([]*models.Repost, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.getByUserIDFn(ctx, userID, limit, offset, currentUserID)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset, currentUserID)
}
func (s *postRepoStub) Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.searchFn(ctx, query, limit, offset, currentUserID)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) RepostsByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Repost, error) {
	return s.repostsByUserFn(ctx, userID, limit, offset)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:      func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:     func(_ context.Context, _, _ uint) (*models.Post, error) { return &models.Post{}, nil },
		getByUserIDFn: func(_ context.Context, _ uint, _, _ int, _ uint) ([]*models.Post, error) { return nil, nil },
		listFn:        func(_ context.Context, _, _ int, _ uint) ([]*models.Post, error) { return nil, nil },
		searchFn:      func(_ context.Context, _ string, _, _ int, _ uint) ([]*models.Post, error) { return nil, nil },
		deleteFn:      func(_ context.Context, _ uint) error { return nil },
		repostsByUserFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Repost, error) {
			return nil, nil
		},
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn             func(context.Context, uint) (*models.User, error)
	getByEmailFn          func(context.Context, string) (*models.User, error)
	getByHandleFn         func(context.Context, string) (*models.User, error)
	createFn              func(context.Context, *models.User) error
	updateFn              func(context.Context, *models.User) error
	updateProfileFn       func(context.Context, uint, repository.ProfileUpdate) (*models.User, error)
	deleteFn              func(context.Context, uint) error
	listFn                func(context.Context, uint, int, int) ([]models.User, error)
	searchFn              func(context.Context, uint, string, int, int) ([]models.User, error)
	createPasswordResetFn func(context.Context, *models.PasswordReset) error
	getPasswordResetFn    func(context.Context, string) (*models.PasswordReset, error)
	deletePasswordResetFn func(context.Context, uint) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByHandle(ctx context.Context, handle string) (*models.User, error) {
	return s.getByHandleFn(ctx, handle)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) UpdateProfile(ctx context.Context, id uint, update repository.ProfileUpdate) (*models.User, error) {
	return s.updateProfileFn(ctx, id, update)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, viewerID uint, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, viewerID, limit, offset)
}
func (s *userRepoStub) Search(ctx context.Context, viewerID uint, query string, limit, offset int) ([]models.User, error) {
	return s.searchFn(ctx, viewerID, query, limit, offset)
}
func (s *userRepoStub) CreatePasswordReset(ctx context.Context, reset *models.PasswordReset) error {
	return s.createPasswordResetFn(ctx, reset)
}
func (s *userRepoStub) GetPasswordReset(ctx context.Context, token string) (*models.PasswordReset, error) {
	return s.getPasswordResetFn(ctx, token)
}
func (s *userRepoStub) DeletePasswordReset(ctx context.Context, id uint) error {
	return s.deletePasswordResetFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "Stub User", Handle: "@stub"}, nil
		},
		getByEmailFn:  func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByHandleFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:      func(_ context.Context, _ *models.User) error { return nil },
		updateFn:      func(_ context.Context, _ *models.User) error { return nil },
		updateProfileFn: func(_ context.Context, id uint, _ repository.ProfileUpdate) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
		deleteFn: func(_ context.Context, _ uint) error { return nil },
		listFn:   func(_ context.Context, _ uint, _, _ int) ([]models.User, error) { return nil, nil },
		searchFn: func(_ context.Context, _ uint, _ string, _, _ int) ([]models.User, error) {
			return nil, nil
		},
		createPasswordResetFn: func(_ context.Context, _ *models.PasswordReset) error { return nil },
		getPasswordResetFn:    func(_ context.Context, _ string) (*models.PasswordReset, error) { return nil, nil },
		deletePasswordResetFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// interactionRepoStub is a stub for repository.InteractionRepository.
type interactionRepoStub struct {
	toggleLikeFn        func(context.Context, uint, uint) (bool, *models.Post, error)
	toggleRepostFn      func(context.Context, *models.User, uint) (bool, *models.Post, error)
	incrementDownloadFn func(context.Context, uint) (*models.Post, error)
	getPostFn           func(context.Context, uint) (*models.Post, error)
}

func (s *interactionRepoStub) ToggleLike(ctx context.Context, userID, postID uint) (bool, *models.Post, error) {
	return s.toggleLikeFn(ctx, userID, postID)
}
func (s *interactionRepoStub) ToggleRepost(ctx context.Context, user *models.User, postID uint) (bool, *models.Post, error) {
	return s.toggleRepostFn(ctx, user, postID)
}
func (s *interactionRepoStub) IncrementDownload(ctx context.Context, postID uint) (*models.Post, error) {
	return s.incrementDownloadFn(ctx, postID)
}
func (s *interactionRepoStub) GetPost(ctx context.Context, postID uint) (*models.Post, error) {
	return s.getPostFn(ctx, postID)
}

func noopInteractionRepo() *interactionRepoStub {
	return &interactionRepoStub{
		toggleLikeFn: func(_ context.Context, _, postID uint) (bool, *models.Post, error) {
			return true, &models.Post{ID: postID}, nil
		},
		toggleRepostFn: func(_ context.Context, _ *models.User, postID uint) (bool, *models.Post, error) {
			return true, &models.Post{ID: postID}, nil
		},
		incrementDownloadFn: func(_ context.Context, postID uint) (*models.Post, error) {
			return &models.Post{ID: postID}, nil
		},
		getPostFn: func(_ context.Context, postID uint) (*models.Post, error) {
			return &models.Post{ID: postID}, nil
		},
	}
}

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	toggleFollowFn func(context.Context, uint, uint) (bool, error)
	isFollowingFn  func(context.Context, uint, uint) (bool, error)
	followingFn    func(context.Context, uint, int, int) ([]models.User, error)
	followersFn    func(context.Context, uint, int, int) ([]models.User, error)
}

func (s *followRepoStub) ToggleFollow(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.toggleFollowFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.isFollowingFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) Following(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	return s.followingFn(ctx, userID, limit, offset)
}
func (s *followRepoStub) Followers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	return s.followersFn(ctx, userID, limit, offset)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		toggleFollowFn: func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		isFollowingFn:  func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		followingFn:    func(_ context.Context, _ uint, _, _ int) ([]models.User, error) { return nil, nil },
		followersFn:    func(_ context.Context, _ uint, _, _ int) ([]models.User, error) { return nil, nil },
	}
}

// messageRepoStub is a stub for repository.MessageRepository.
type messageRepoStub struct {
	sendFn                 func(context.Context, *models.Message) error
	conversationBetweenFn  func(context.Context, uint, uint, int, int) ([]*models.Message, error)
	markConversationReadFn func(context.Context, uint, uint) error
	conversationsFn        func(context.Context, uint) ([]models.Conversation, error)
}

func (s *messageRepoStub) Send(ctx context.Context, message *models.Message) error {
	return s.sendFn(ctx, message)
}
func (s *messageRepoStub) ConversationBetween(ctx context.Context, viewerID, peerID uint, limit, offset int) ([]*models.Message, error) {
	return s.conversationBetweenFn(ctx, viewerID, peerID, limit, offset)
}
func (s *messageRepoStub) MarkConversationRead(ctx context.Context, viewerID, peerID uint) error {
	return s.markConversationReadFn(ctx, viewerID, peerID)
}
func (s *messageRepoStub) Conversations(ctx context.Context, viewerID uint) ([]models.Conversation, error) {
	return s.conversationsFn(ctx, viewerID)
}

func noopMessageRepo() *messageRepoStub {
	return &messageRepoStub{
		sendFn: func(_ context.Context, m *models.Message) error {
			m.ID = 1
			m.ReadBy = []uint{m.SenderID}
			return nil
		},
		conversationBetweenFn: func(_ context.Context, _, _ uint, _, _ int) ([]*models.Message, error) {
			return nil, nil
		},
		markConversationReadFn: func(_ context.Context, _, _ uint) error { return nil },
		conversationsFn: func(_ context.Context, _ uint) ([]models.Conversation, error) {
			return []models.Conversation{}, nil
		},
	}
}

// notificationRepoStub is a stub for repository.NotificationRepository.
type notificationRepoStub struct {
	createFn      func(context.Context, *models.Notification) error
	listForUserFn func(context.Context, uint, int, int) ([]models.Notification, error)
}

func (s *notificationRepoStub) Create(ctx context.Context, notification *models.Notification) error {
	return s.createFn(ctx, notification)
}
func (s *notificationRepoStub) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.Notification, error) {
	return s.listForUserFn(ctx, userID, limit, offset)
}

func noopNotificationRepo() *notificationRepoStub {
	return &notificationRepoStub{
		createFn: func(_ context.Context, _ *models.Notification) error { return nil },
		listForUserFn: func(_ context.Context, _ uint, _, _ int) ([]models.Notification, error) {
			return nil, nil
		},
	}
}

// publisherStub records published payloads.
type publisherStub struct {
	publishUserFn func(context.Context, uint, string) error
}

func (s *publisherStub) PublishUser(ctx context.Context, userID uint, payload string) error {
	return s.publishUserFn(ctx, userID, payload)
}

// relayStub is a stub for ImageRelay.
type relayStub struct {
	uploadFn func(context.Context, []byte) (string, error)
}

func (s *relayStub) Upload(ctx context.Context, image []byte) (string, error) {
	return s.uploadFn(ctx, image)
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

// assertUnauthorizedError asserts that err is an AppError with code UNAUTHORIZED.
func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
}
