package repository

import (
	"context"
	"errors"

	"pixelaura/internal/cache"
	"pixelaura/internal/models"

	"gorm.io/gorm"
)

// InteractionRepository flips like/repost membership and bumps counters.
// Each toggle runs in a single transaction so the membership table and the
// denormalized counter can never disagree.
type InteractionRepository interface {
	// ToggleLike returns whether the viewer likes the post after the call,
	// plus the post with its refreshed counter.
	ToggleLike(ctx context.Context, userID, postID uint) (bool, *models.Post, error)
	// ToggleRepost inserts or removes the repost snapshot and adjusts the
	// counter. The reposting user supplies the snapshot display fields.
	ToggleRepost(ctx context.Context, user *models.User, postID uint) (bool, *models.Post, error)
	// IncrementDownload bumps the download counter. Downloads are not a
	// toggle, every download counts again.
	IncrementDownload(ctx context.Context, postID uint) (*models.Post, error)
	GetPost(ctx context.Context, postID uint) (*models.Post, error)
}

type interactionRepository struct {
	db *gorm.DB
}

// NewInteractionRepository returns a new InteractionRepository implementation.
func NewInteractionRepository(db *gorm.DB) InteractionRepository {
	return &interactionRepository{db: db}
}

func (r *interactionRepository) GetPost(ctx context.Context, postID uint) (*models.Post, error) {
	var post models.Post
	if err := readDB(r.db).WithContext(ctx).First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *interactionRepository) ToggleLike(ctx context.Context, userID, postID uint) (bool, *models.Post, error) {
	var (
		liked bool
		post  models.Post
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", postID)
			}
			return models.NewInternalError(err)
		}

		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.PostLike{})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}

		delta := -1
		if res.RowsAffected == 0 {
			like := models.PostLike{PostID: postID, UserID: userID}
			if err := tx.Create(&like).Error; err != nil {
				if isUniqueConstraintError(err) {
					// A concurrent toggle won the insert and already bumped
					// the counter. Re-read so the snapshot matches its commit.
					if err := tx.First(&post, postID).Error; err != nil {
						return models.NewInternalError(err)
					}
					post.Liked = true
					liked = true
					return nil
				}
				return models.NewInternalError(err)
			}
			delta = 1
			liked = true
		}

		if err := tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("likes", gorm.Expr("likes + ?", delta)).Error; err != nil {
			return models.NewInternalError(err)
		}
		post.Likes += delta
		post.Liked = liked
		return nil
	})

	if err != nil {
		return false, nil, err
	}
	cache.InvalidatePost(ctx, postID)
	return liked, &post, nil
}

func (r *interactionRepository) ToggleRepost(ctx context.Context, user *models.User, postID uint) (bool, *models.Post, error) {
	var (
		reposted bool
		post     models.Post
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", postID)
			}
			return models.NewInternalError(err)
		}

		res := tx.Unscoped().
			Where("original_post_id = ? AND reposted_by_id = ?", postID, user.ID).
			Delete(&models.Repost{})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}

		delta := -1
		if res.RowsAffected == 0 {
			snapshot := models.Repost{
				OriginalPostID:   post.ID,
				OriginalAuthorID: post.UserID,
				RepostedByID:     user.ID,
				Username:         user.Username,
				Handle:           user.Handle,
				ProfileImageURL:  user.ProfilePicture,
				Text:             post.Text,
				ImageURL:         post.ImageURL,
			}
			if err := tx.Create(&snapshot).Error; err != nil {
				if isUniqueConstraintError(err) {
					if err := tx.First(&post, postID).Error; err != nil {
						return models.NewInternalError(err)
					}
					post.Reposted = true
					reposted = true
					return nil
				}
				return models.NewInternalError(err)
			}
			delta = 1
			reposted = true
		}

		if err := tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("reposts", gorm.Expr("reposts + ?", delta)).Error; err != nil {
			return models.NewInternalError(err)
		}
		post.Reposts += delta
		post.Reposted = reposted
		return nil
	})

	if err != nil {
		return false, nil, err
	}
	cache.InvalidatePost(ctx, postID)
	return reposted, &post, nil
}

func (r *interactionRepository) IncrementDownload(ctx context.Context, postID uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", postID)
			}
			return models.NewInternalError(err)
		}
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("downloads", gorm.Expr("downloads + 1")).Error; err != nil {
			return models.NewInternalError(err)
		}
		post.Downloads++
		return nil
	})
	if err != nil {
		return nil, err
	}
	cache.InvalidatePost(ctx, postID)
	return &post, nil
}
