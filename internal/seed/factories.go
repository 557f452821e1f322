// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"pixelaura/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options tunes the seeder output.
type Options struct {
	// SkipBcrypt stores the plain seed password, skipping the hash cost.
	// Dev-only convenience for seeding thousands of users.
	SkipBcrypt bool
	// MaxDays spreads created_at timestamps over the past N days.
	MaxDays int
	// DryRun logs what would be created without touching the database.
	DryRun bool
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{
		db:     db,
		opts:   opts,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		nextID: 1000,
	}
}

// pastTimestamp returns a created_at spread over the configured window.
func (f *Factory) pastTimestamp() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	handle := strings.ToLower(gofakeit.Username()) + fmt.Sprintf("%d", gofakeit.Number(100, 999))
	user := &models.User{
		Username:       gofakeit.Name(),
		Handle:         "@" + handle,
		Email:          fmt.Sprintf("%s@example.com", handle),
		Bio:            gofakeit.Sentence(10),
		ProfilePicture: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s %s", user.Username, user.Handle)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost constructs a post with the author's display fields snapshotted,
// the same way the API does at creation time, but does not persist it.
func (f *Factory) BuildPost(user *models.User, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		UserID:          user.ID,
		Username:        user.Username,
		Handle:          user.Handle,
		ProfileImageURL: user.ProfilePicture,
		Text:            gofakeit.Sentence(f.rng.Intn(15) + 3),
		CreatedAt:       f.pastTimestamp(),
	}

	// Roughly 40% of seed posts carry an image
	if f.rng.Float32() < 0.4 {
		post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
	}

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePost constructs and persists a sample `models.Post` for the given user.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := f.BuildPost(user, overrides...)

	if f.opts.DryRun {
		f.nextID++
		post.ID = f.nextID
		log.Printf("[dry-run] CreatePost: user=%d text=%q", post.UserID, post.Text)
		return post, nil
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreatePostsBatch persists multiple posts in a single DB call when possible.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	if f.opts.DryRun {
		for _, p := range posts {
			f.nextID++
			p.ID = f.nextID
		}
		log.Printf("[dry-run] CreatePostsBatch: %d posts (no DB write)", len(posts))
		return nil
	}
	return f.db.Create(&posts).Error
}

// CreateLike persists a like from `user` on `post` and bumps the counter,
// keeping the membership table and the denormalized count in lockstep.
func (f *Factory) CreateLike(user *models.User, post *models.Post) error {
	return f.db.Transaction(func(tx *gorm.DB) error {
		like := &models.PostLike{UserID: user.ID, PostID: post.ID}
		if err := tx.Create(like).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", post.ID).
			UpdateColumn("likes", gorm.Expr("likes + 1")).Error
	})
}

// CreateRepost persists a repost snapshot from `user` of `post` and bumps the counter.
func (f *Factory) CreateRepost(user *models.User, post *models.Post) error {
	return f.db.Transaction(func(tx *gorm.DB) error {
		repost := &models.Repost{
			OriginalPostID:   post.ID,
			OriginalAuthorID: post.UserID,
			RepostedByID:     user.ID,
			Username:         user.Username,
			Handle:           user.Handle,
			ProfileImageURL:  user.ProfilePicture,
			Text:             post.Text,
			ImageURL:         post.ImageURL,
		}
		if err := tx.Create(repost).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", post.ID).
			UpdateColumn("reposts", gorm.Expr("reposts + 1")).Error
	})
}

// CreateFollow persists a follow edge and adjusts both users' counters.
func (f *Factory) CreateFollow(follower, followee *models.User) error {
	return f.db.Transaction(func(tx *gorm.DB) error {
		edge := &models.Follow{FollowerID: follower.ID, FolloweeID: followee.ID}
		if err := tx.Create(edge).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", follower.ID).
			UpdateColumn("following_count", gorm.Expr("following_count + 1")).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", followee.ID).
			UpdateColumn("followers_count", gorm.Expr("followers_count + 1")).Error
	})
}

// CreateMessage constructs and persists a direct message from sender to
// receiver, with the sender's read receipt written alongside.
func (f *Factory) CreateMessage(sender, receiver *models.User, overrides ...func(*models.Message)) (*models.Message, error) {
	message := &models.Message{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Content:    gofakeit.Sentence(10),
		CreatedAt:  f.pastTimestamp(),
	}

	for _, override := range overrides {
		override(message)
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		read := &models.MessageRead{MessageID: message.ID, UserID: sender.ID}
		return tx.Create(read).Error
	})
	if err != nil {
		return nil, err
	}
	return message, nil
}

// CreateNotification persists a stored notification for the receiver.
func (f *Factory) CreateNotification(receiver, sender *models.User, nctx models.NotificationContext) (*models.Notification, error) {
	notification := &models.Notification{
		ReceiverID: receiver.ID,
		SenderID:   sender.ID,
		Context:    nctx,
		Message:    models.RenderNotification(nctx, sender.Handle),
	}
	if err := f.db.Create(notification).Error; err != nil {
		return nil, err
	}
	return notification, nil
}
