package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"pixelaura/internal/middleware"
	"pixelaura/internal/models"
	"pixelaura/internal/repository"
)

// ImageRelay uploads image bytes to the external image host and returns the
// hosted URL.
type ImageRelay interface {
	Upload(ctx context.Context, image []byte) (string, error)
}

// CreatePostInput carries everything needed to create a post.
type CreatePostInput struct {
	UserID uint
	Text   string
	Image  []byte
}

// TimelineEntry is one row of a user's timeline: either an original post or a
// repost snapshot, merged into a single chronological stream.
type TimelineEntry struct {
	Kind      string         `json:"kind"`
	Post      *models.Post   `json:"post,omitempty"`
	Repost    *models.Repost `json:"repost,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// PostService handles post creation and reads. The author's display fields are
// snapshotted onto each post at creation time.
type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	relay    ImageRelay
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository, relay ImageRelay) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
		relay:    relay,
	}
}

// CreatePost validates the input, relays the image to the external host and
// persists the post with the author's snapshot. When the relay fails and the
// post has text it degrades to a text-only post instead of failing outright.
func (s *PostService) CreatePost(ctx context.Context, input CreatePostInput) (*models.Post, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" && len(input.Image) == 0 {
		return nil, models.NewValidationError("Please enter text or select an image.")
	}

	author, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	imageURL := ""
	if len(input.Image) > 0 && s.relay != nil {
		imageURL, err = s.relay.Upload(ctx, input.Image)
		if err != nil {
			if text == "" {
				return nil, models.NewValidationError("Image upload failed. Please try again.")
			}
			// Post survives without its image
			middleware.Logger.WarnContext(ctx, "image relay failed, posting text only",
				slog.Any("user_id", input.UserID),
				slog.String("error", err.Error()),
			)
			imageURL = ""
		}
	}

	post := &models.Post{
		UserID:          author.ID,
		Username:        author.Username,
		Handle:          author.Handle,
		ProfileImageURL: author.ProfilePicture,
		Text:            text,
		ImageURL:        imageURL,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, viewerID)
}

func (s *PostService) GetFeed(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.List(ctx, limit, offset, viewerID)
}

func (s *PostService) Search(ctx context.Context, query string, limit, offset int, viewerID uint) ([]*models.Post, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*models.Post{}, nil
	}
	return s.postRepo.Search(ctx, query, limit, offset, viewerID)
}

func (s *PostService) GetUserPosts(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]*models.Post, error) {
	return s.postRepo.GetByUserID(ctx, userID, limit, offset, viewerID)
}

// Timeline merges a user's original posts and repost snapshots into one
// newest-first stream.
func (s *PostService) Timeline(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]TimelineEntry, error) {
	// Both sources are fetched up to limit+offset, merged, then windowed,
	// because the offset may fall on either side of the merge.
	fetch := limit + offset

	posts, err := s.postRepo.GetByUserID(ctx, userID, fetch, 0, viewerID)
	if err != nil {
		return nil, err
	}
	reposts, err := s.postRepo.RepostsByUser(ctx, userID, fetch, 0)
	if err != nil {
		return nil, err
	}

	entries := make([]TimelineEntry, 0, len(posts)+len(reposts))
	for _, p := range posts {
		entries = append(entries, TimelineEntry{Kind: "post", Post: p, CreatedAt: p.CreatedAt})
	}
	for _, r := range reposts {
		entries = append(entries, TimelineEntry{Kind: "repost", Repost: r, CreatedAt: r.CreatedAt})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})

	if offset >= len(entries) {
		return []TimelineEntry{}, nil
	}
	entries = entries[offset:]
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// DeletePost removes a post after verifying ownership.
func (s *PostService) DeletePost(ctx context.Context, postID, userID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, 0)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewUnauthorizedError("You can only delete your own posts.")
	}
	return s.postRepo.Delete(ctx, postID)
}
