package repository

import (
	"context"
	"errors"

	"pixelaura/internal/cache"
	"pixelaura/internal/models"

	"gorm.io/gorm"
)

// FollowRepository defines persistence operations for the social graph.
type FollowRepository interface {
	// ToggleFollow flips the follow edge from follower to followee and
	// adjusts both users' counters in one transaction. Returns whether the
	// edge exists after the call.
	ToggleFollow(ctx context.Context, followerID, followeeID uint) (bool, error)
	IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error)
	Following(ctx context.Context, userID uint, limit, offset int) ([]models.User, error)
	Followers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository returns a new FollowRepository implementation.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) ToggleFollow(ctx context.Context, followerID, followeeID uint) (bool, error) {
	if followerID == followeeID {
		return false, models.NewValidationError("You can't follow yourself.")
	}

	var following bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var followee models.User
		if err := tx.First(&followee, followeeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", followeeID)
			}
			return models.NewInternalError(err)
		}

		res := tx.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
			Delete(&models.Follow{})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}

		delta := -1
		if res.RowsAffected == 0 {
			// No edge existed, create one
			edge := models.Follow{FollowerID: followerID, FolloweeID: followeeID}
			if err := tx.Create(&edge).Error; err != nil {
				if isUniqueConstraintError(err) {
					// Concurrent toggle won the insert, treat as already following
					following = true
					return nil
				}
				return models.NewInternalError(err)
			}
			delta = 1
			following = true
		}

		if err := tx.Model(&models.User{}).Where("id = ?", followerID).
			UpdateColumn("following_count", gorm.Expr("following_count + ?", delta)).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Model(&models.User{}).Where("id = ?", followeeID).
			UpdateColumn("followers_count", gorm.Expr("followers_count + ?", delta)).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return false, err
	}
	cache.InvalidateUser(ctx, followerID)
	cache.InvalidateUser(ctx, followeeID)
	return following, nil
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *followRepository) Following(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	var users []models.User
	if err := readDB(r.db).WithContext(ctx).Model(&models.User{}).
		Select("users.*, ? AS followed", true).
		Joins("JOIN follows ON follows.followee_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *followRepository) Followers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	var users []models.User
	if err := readDB(r.db).WithContext(ctx).Model(&models.User{}).
		Select("users.*, EXISTS(SELECT 1 FROM follows f2 WHERE f2.follower_id = ? AND f2.followee_id = users.id) AS followed", userID).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followee_id = ?", userID).
		Order("follows.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
