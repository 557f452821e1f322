package models

import (
	"time"
)

// Message is one direct message. Conversation identity is derived, never
// stored: two messages belong to the same conversation iff their sorted
// (sender, receiver) pairs are equal.
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"not null;index:idx_message_pair" json:"sender_id"`
	ReceiverID uint      `gorm:"not null;index:idx_message_pair" json:"receiver_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`

	// ReadBy is loaded from message_reads (computed at query time)
	ReadBy []uint `gorm:"-" json:"read_by"`
}

// MessageRead records membership in a message's readBy set. The sender's row
// is written in the same transaction as the message itself.
type MessageRead struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MessageID uint      `gorm:"not null;uniqueIndex:idx_message_read" json:"message_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_message_read" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Conversation is a derived view: the latest message exchanged with a peer
// plus the viewer's unread count. One entry per sorted participant pair.
type Conversation struct {
	PeerID      uint      `json:"peer_id"`
	PeerHandle  string    `json:"peer_handle"`
	PeerName    string    `json:"peer_name"`
	PeerAvatar  string    `json:"peer_avatar"`
	LastMessage Message   `json:"last_message"`
	Outgoing    bool      `json:"outgoing"`
	UnreadCount int       `json:"unread_count"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PairKey returns the canonical conversation identity for two users,
// independent of message direction.
func PairKey(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}
