package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix         = "user:%d"
	PostKeyPrefix         = "post:%d"
	FeedKeyPrefix         = "feed:%d:p%d:l%d"
	TimelineKeyPrefix     = "timeline:%d:p%d:l%d"
	ConversationKeyPrefix = "conversations:%d"
)

const (
	UserTTL         = 5 * time.Minute
	PostTTL         = 30 * time.Minute
	FeedTTL         = 30 * time.Second
	ConversationTTL = 30 * time.Second
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

// FeedKey identifies a viewer's paginated feed slice. Feed pages are cached
// briefly: interactions invalidate individual posts but not every feed slice,
// so a short TTL bounds staleness instead.
func FeedKey(viewerID uint, page, limit int) string {
	return fmt.Sprintf(FeedKeyPrefix, viewerID, page, limit)
}

// TimelineKey identifies one page of a user's repost snapshots, the
// viewer-independent half of the profile timeline.
func TimelineKey(userID uint, page, limit int) string {
	return fmt.Sprintf(TimelineKeyPrefix, userID, page, limit)
}

func ConversationKey(userID uint) string {
	return fmt.Sprintf(ConversationKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

func InvalidateConversations(ctx context.Context, userID uint) {
	Invalidate(ctx, ConversationKey(userID))
}
