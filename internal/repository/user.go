package repository

import (
	"context"
	"errors"

	"pixelaura/internal/cache"
	"pixelaura/internal/models"

	"gorm.io/gorm"
)

// ProfileUpdate carries the editable profile fields. Nil means "leave unchanged".
type ProfileUpdate struct {
	Username       *string
	Bio            *string
	ProfilePicture *string
	Header         *string
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByHandle(ctx context.Context, handle string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, id uint, update ProfileUpdate) (*models.User, error)
	Delete(ctx context.Context, id uint) error
	// List returns users the viewer does not already follow, newest first.
	List(ctx context.Context, viewerID uint, limit, offset int) ([]models.User, error)
	Search(ctx context.Context, viewerID uint, query string, limit, offset int) ([]models.User, error)
	CreatePasswordReset(ctx context.Context, reset *models.PasswordReset) error
	GetPasswordReset(ctx context.Context, token string) (*models.PasswordReset, error)
	DeletePasswordReset(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	key := cache.UserKey(id)

	err := cache.Aside(ctx, key, &user, cache.UserTTL, func() error {
		if err := readDB(r.db).WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := readDB(r.db).WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByHandle(ctx context.Context, handle string) (*models.User, error) {
	var user models.User
	if err := readDB(r.db).WithContext(ctx).Where("handle = ?", handle).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("User already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

// UpdateProfile applies a partial profile edit. When display fields change
// (username or profile picture) a pending propagation job is enqueued in the
// same transaction, so an accepted edit always reaches historical posts.
func (r *userRepository) UpdateProfile(ctx context.Context, id uint, update ProfileUpdate) (*models.User, error) {
	var user models.User

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}

		displayChanged := false
		if update.Username != nil && *update.Username != user.Username {
			user.Username = *update.Username
			displayChanged = true
		}
		if update.ProfilePicture != nil && *update.ProfilePicture != user.ProfilePicture {
			user.ProfilePicture = *update.ProfilePicture
			displayChanged = true
		}
		if update.Bio != nil {
			user.Bio = *update.Bio
		}
		if update.Header != nil {
			user.Header = *update.Header
		}

		if err := tx.Save(&user).Error; err != nil {
			return models.NewInternalError(err)
		}

		if displayChanged {
			job := models.ProfilePropagation{
				UserID:          user.ID,
				Username:        user.Username,
				Handle:          user.Handle,
				ProfileImageURL: user.ProfilePicture,
				Status:          models.PropagationStatusPending,
			}
			if err := tx.Create(&job).Error; err != nil {
				return models.NewInternalError(err)
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	cache.InvalidateUser(ctx, id)
	return &user, nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.User{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

// followedExpr annotates each row with whether viewerID follows it.
func followedExpr(db *gorm.DB, viewerID uint) *gorm.DB {
	return db.Select(
		"users.*, EXISTS(SELECT 1 FROM follows WHERE follows.follower_id = ? AND follows.followee_id = users.id) AS followed",
		viewerID,
	)
}

func (r *userRepository) List(ctx context.Context, viewerID uint, limit, offset int) ([]models.User, error) {
	var users []models.User
	q := readDB(r.db).WithContext(ctx).Model(&models.User{}).
		Where("users.id <> ?", viewerID).
		Where("NOT EXISTS(SELECT 1 FROM follows WHERE follows.follower_id = ? AND follows.followee_id = users.id)", viewerID).
		Order("users.created_at DESC").
		Limit(limit).Offset(offset)
	if err := q.Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) Search(ctx context.Context, viewerID uint, query string, limit, offset int) ([]models.User, error) {
	var users []models.User
	pattern := "%" + query + "%"
	q := readDB(r.db).WithContext(ctx).Model(&models.User{})
	q = followedExpr(q, viewerID).
		Where("users.id <> ?", viewerID).
		Where("users.username LIKE ? OR users.handle LIKE ?", pattern, pattern).
		Order("users.username ASC").
		Limit(limit).Offset(offset)
	if err := q.Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) CreatePasswordReset(ctx context.Context, reset *models.PasswordReset) error {
	if err := r.db.WithContext(ctx).Create(reset).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) GetPasswordReset(ctx context.Context, token string) (*models.PasswordReset, error) {
	var reset models.PasswordReset
	if err := readDB(r.db).WithContext(ctx).Where("token = ?", token).First(&reset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &reset, nil
}

func (r *userRepository) DeletePasswordReset(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.PasswordReset{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
