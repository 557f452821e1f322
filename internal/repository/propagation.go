package repository

import (
	"context"
	"time"

	"pixelaura/internal/models"

	"gorm.io/gorm"
)

// PropagationRepository manages tracked profile propagation jobs.
type PropagationRepository interface {
	Pending(ctx context.Context, limit int) ([]models.ProfilePropagation, error)
	PendingCount(ctx context.Context) (int64, error)
	// Apply copies the job's display fields onto the user's posts and
	// repost snapshots and marks the job done, all in one transaction.
	Apply(ctx context.Context, job *models.ProfilePropagation) error
	// MarkAttempt bumps the attempt counter after a failed Apply.
	MarkAttempt(ctx context.Context, job *models.ProfilePropagation) error
	ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.ProfilePropagation, error)
}

type propagationRepository struct {
	db *gorm.DB
}

// NewPropagationRepository returns a new PropagationRepository implementation.
func NewPropagationRepository(db *gorm.DB) PropagationRepository {
	return &propagationRepository{db: db}
}

func (r *propagationRepository) Pending(ctx context.Context, limit int) ([]models.ProfilePropagation, error) {
	var jobs []models.ProfilePropagation
	err := r.db.WithContext(ctx).
		Where("status = ?", models.PropagationStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&jobs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return jobs, nil
}

func (r *propagationRepository) PendingCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProfilePropagation{}).
		Where("status = ?", models.PropagationStatusPending).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *propagationRepository) Apply(ctx context.Context, job *models.ProfilePropagation) error {
	now := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).
			Where("user_id = ?", job.UserID).
			Updates(map[string]interface{}{
				"username":          job.Username,
				"handle":            job.Handle,
				"profile_image_url": job.ProfileImageURL,
			}).Error; err != nil {
			return models.NewInternalError(err)
		}

		if err := tx.Model(&models.Repost{}).
			Where("reposted_by_id = ?", job.UserID).
			Updates(map[string]interface{}{
				"username":          job.Username,
				"handle":            job.Handle,
				"profile_image_url": job.ProfileImageURL,
			}).Error; err != nil {
			return models.NewInternalError(err)
		}

		return tx.Model(job).Updates(map[string]interface{}{
			"status":       models.PropagationStatusDone,
			"attempts":     gorm.Expr("attempts + 1"),
			"completed_at": &now,
		}).Error
	})
	if err != nil {
		return err
	}
	job.Status = models.PropagationStatusDone
	job.Attempts++
	job.CompletedAt = &now
	return nil
}

func (r *propagationRepository) MarkAttempt(ctx context.Context, job *models.ProfilePropagation) error {
	if err := r.db.WithContext(ctx).Model(job).
		UpdateColumn("attempts", gorm.Expr("attempts + 1")).Error; err != nil {
		return models.NewInternalError(err)
	}
	job.Attempts++
	return nil
}

func (r *propagationRepository) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.ProfilePropagation, error) {
	var jobs []models.ProfilePropagation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&jobs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return jobs, nil
}
