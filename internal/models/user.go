// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultAvatarURL is assigned to accounts that never uploaded a profile picture.
const DefaultAvatarURL = "https://i.imgur.com/Z0IXdLS.png"

// User represents a PixelAura account. FollowersCount and FollowingCount are
// denormalized from the follows table and are authoritative: they only change
// inside the same transaction that flips a follow edge.
type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Username       string         `gorm:"not null" json:"username"`
	Handle         string         `gorm:"unique;not null" json:"handle"`
	Email          string         `gorm:"unique;not null" json:"email"`
	Password       string         `gorm:"not null" json:"-"`
	Bio            string         `json:"bio"`
	ProfilePicture string         `json:"profile_picture"`
	Header         string         `json:"header"`
	FollowersCount int            `gorm:"not null;default:0" json:"followers_count"`
	FollowingCount int            `gorm:"not null;default:0" json:"following_count"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	Posts          []Post         `gorm:"foreignKey:UserID" json:"posts,omitempty"`

	// Followed indicates whether the requesting user follows this user (computed)
	Followed bool `gorm:"->;-:migration" json:"followed"`
}

// Follow is one edge of the social graph: follower follows followee.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follow_edge" json:"follower_id"`
	FolloweeID uint      `gorm:"not null;uniqueIndex:idx_follow_edge;index" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "follows"
}

// PasswordReset is an issued password-reset token. Delivery is out of scope;
// the token is persisted so a future redemption endpoint can verify it.
type PasswordReset struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Token     string    `gorm:"unique;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
