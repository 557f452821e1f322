package repository

import (
	"context"
	"errors"

	"pixelaura/internal/cache"
	"pixelaura/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error)
	List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error)
	Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error)
	Delete(ctx context.Context, id uint) error
	RepostsByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Repost, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// applyPostDetails annotates rows with the viewer's like/repost membership.
func applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	if currentUserID != 0 {
		return db.Select(
			"posts.*, "+
				"EXISTS(SELECT 1 FROM post_likes WHERE post_likes.post_id = posts.id AND post_likes.user_id = ?) AS liked, "+
				"EXISTS(SELECT 1 FROM reposts WHERE reposts.original_post_id = posts.id AND reposts.reposted_by_id = ? AND reposts.deleted_at IS NULL) AS reposted",
			currentUserID, currentUserID,
		)
	}
	return db.Select("posts.*, false AS liked, false AS reposted")
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post

	fetch := func(db *gorm.DB) error {
		if err := applyPostDetails(db.WithContext(ctx).Model(&models.Post{}), currentUserID).
			First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	}

	// Viewer annotations make the row user-specific, cache only anonymous reads
	if currentUserID == 0 {
		err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
			return fetch(readDB(r.db))
		})
		if err != nil {
			return nil, err
		}
		return &post, nil
	}

	if err := fetch(readDB(r.db)); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := applyPostDetails(readDB(r.db).WithContext(ctx).Model(&models.Post{}), currentUserID).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	// The liked/reposted flags make feed slices viewer-specific, so the
	// cache key carries the viewer. The short TTL bounds staleness.
	key := cache.FeedKey(currentUserID, offset, limit)
	err := cache.Aside(ctx, key, &posts, cache.FeedTTL, func() error {
		return applyPostDetails(readDB(r.db).WithContext(ctx).Model(&models.Post{}), currentUserID).
			Order("created_at DESC").
			Limit(limit).
			Offset(offset).
			Find(&posts).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	pattern := "%" + query + "%"
	err := applyPostDetails(readDB(r.db).WithContext(ctx).Model(&models.Post{}), currentUserID).
		Where("text LIKE ?", pattern).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Post{}, id).Error; err != nil {
			return models.NewInternalError(err)
		}
		// Repost snapshots of a deleted post disappear from timelines with it
		if err := tx.Where("original_post_id = ?", id).Delete(&models.Repost{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

func (r *postRepository) RepostsByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Repost, error) {
	var reposts []*models.Repost
	// Repost snapshots carry no viewer-specific fields, one cached slice
	// serves every viewer of the timeline.
	key := cache.TimelineKey(userID, offset, limit)
	err := cache.Aside(ctx, key, &reposts, cache.FeedTTL, func() error {
		return readDB(r.db).WithContext(ctx).
			Where("reposted_by_id = ?", userID).
			Order("created_at DESC").
			Limit(limit).
			Offset(offset).
			Find(&reposts).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return reposts, nil
}
