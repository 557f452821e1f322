package models

import (
	"time"
)

// PropagationStatus is the lifecycle of a profile propagation job.
type PropagationStatus string

const (
	// PropagationStatusPending means the job has not been fully applied yet.
	PropagationStatusPending PropagationStatus = "pending"
	// PropagationStatusDone means every historical record carries the new fields.
	PropagationStatusDone PropagationStatus = "done"
)

// ProfilePropagation is a tracked background job created when a user's
// display fields change. The worker copies the new values onto the user's
// historical posts and repost snapshots. The row is enqueued in the same
// transaction as the profile update, so an accepted edit is never silently
// half-propagated: until the worker finishes, the job stays pending and is
// retried on the next sweep.
type ProfilePropagation struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	UserID          uint              `gorm:"not null;index" json:"user_id"`
	Username        string            `gorm:"not null" json:"username"`
	Handle          string            `gorm:"not null" json:"handle"`
	ProfileImageURL string            `json:"profile_image_url"`
	Status          PropagationStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	Attempts        int               `gorm:"not null;default:0" json:"attempts"`
	CompletedAt     *time.Time        `json:"completed_at,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (ProfilePropagation) TableName() string {
	return "profile_propagations"
}
