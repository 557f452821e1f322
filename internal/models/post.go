package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is a feed entry. Username, Handle and ProfileImageURL are the author's
// display fields snapshotted at creation time so feed reads need no join;
// profile edits reach old posts through the propagation worker.
// Likes, Reposts and Downloads are denormalized counters kept in lockstep
// with their membership tables by single-transaction toggles.
type Post struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UserID          uint           `gorm:"not null;index" json:"user_id"`
	Username        string         `gorm:"not null" json:"username"`
	Handle          string         `gorm:"not null" json:"handle"`
	ProfileImageURL string         `json:"profile_image_url"`
	Text            string         `gorm:"type:text" json:"text"`
	ImageURL        string         `json:"image_url"`
	Likes           int            `gorm:"not null;default:0" json:"likes"`
	Reposts         int            `gorm:"not null;default:0" json:"reposts"`
	Downloads       int            `gorm:"not null;default:0" json:"downloads"`
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Liked/Reposted indicate the requesting user's membership (computed at query time)
	Liked    bool `gorm:"->;-:migration" json:"liked"`
	Reposted bool `gorm:"->;-:migration" json:"reposted"`
}

// PostLike records membership in a post's likedBy set.
type PostLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_like" json:"post_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_like" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Repost is both the membership record in a post's repostedBy set and the
// content snapshot shown on the reposting user's timeline. Display fields are
// duplicated at repost time, the same way posts snapshot their author.
type Repost struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	OriginalPostID    uint           `gorm:"not null;uniqueIndex:idx_repost_membership" json:"original_post_id"`
	OriginalAuthorID  uint           `gorm:"not null;index" json:"original_author_id"`
	RepostedByID      uint           `gorm:"not null;uniqueIndex:idx_repost_membership;index" json:"reposted_by_id"`
	Username          string         `gorm:"not null" json:"username"`
	Handle            string         `gorm:"not null" json:"handle"`
	ProfileImageURL   string         `json:"profile_image_url"`
	Text              string         `gorm:"type:text" json:"text"`
	ImageURL          string         `json:"image_url"`
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM
func (Repost) TableName() string {
	return "reposts"
}
