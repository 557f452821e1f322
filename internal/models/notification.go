package models

import (
	"fmt"
	"time"
)

// NotificationContext tags what a notification is about.
type NotificationContext string

const (
	NotificationContextLike     NotificationContext = "like"
	NotificationContextRepost   NotificationContext = "repost"
	NotificationContextDownload NotificationContext = "download"
	NotificationContextFollow   NotificationContext = "follow"
	NotificationContextMessage  NotificationContext = "message"
)

// Notification is stored per receiver. Message is rendered from the sender's
// handle at fan-out time; there is no idempotency key and no read lifecycle,
// repeated triggers simply append again.
type Notification struct {
	ID         uint                `gorm:"primaryKey" json:"id"`
	ReceiverID uint                `gorm:"not null;index" json:"receiver_id"`
	SenderID   uint                `gorm:"not null" json:"sender_id"`
	Context    NotificationContext `gorm:"type:varchar(20);not null" json:"context"`
	Message    string              `gorm:"not null" json:"message"`
	CreatedAt  time.Time           `gorm:"index" json:"created_at"`
}

// RenderNotification formats the per-context notification text from the
// sender's handle.
func RenderNotification(ctx NotificationContext, senderHandle string) string {
	if senderHandle == "" {
		senderHandle = "@user"
	}
	switch ctx {
	case NotificationContextLike:
		return fmt.Sprintf("%s liked your post", senderHandle)
	case NotificationContextRepost:
		return fmt.Sprintf("%s reposted your post", senderHandle)
	case NotificationContextDownload:
		return fmt.Sprintf("%s downloaded your post", senderHandle)
	case NotificationContextFollow:
		return fmt.Sprintf("%s followed you", senderHandle)
	case NotificationContextMessage:
		return fmt.Sprintf("%s sent you a message", senderHandle)
	default:
		return fmt.Sprintf("%s did something", senderHandle)
	}
}
