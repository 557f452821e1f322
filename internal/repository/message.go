package repository

import (
	"context"

	"pixelaura/internal/models"

	"gorm.io/gorm"
)

// MessageRepository defines persistence operations for direct messages.
// Conversations are not stored: every query filters on the sorted participant
// pair instead.
type MessageRepository interface {
	// Send persists the message and the sender's read receipt in one
	// transaction, so a sent message is never unread by its own author.
	Send(ctx context.Context, message *models.Message) error
	// ConversationBetween returns the messages exchanged between the two
	// users, oldest first, with ReadBy populated.
	ConversationBetween(ctx context.Context, viewerID, peerID uint, limit, offset int) ([]*models.Message, error)
	// MarkConversationRead adds the viewer's read receipt to every message
	// in the conversation that does not have one yet.
	MarkConversationRead(ctx context.Context, viewerID, peerID uint) error
	// Conversations derives the viewer's conversation list: one entry per
	// peer with the latest message and the viewer's unread count.
	Conversations(ctx context.Context, viewerID uint) ([]models.Conversation, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository returns a new MessageRepository implementation.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Send(ctx context.Context, message *models.Message) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return models.NewInternalError(err)
		}
		receipt := models.MessageRead{MessageID: message.ID, UserID: message.SenderID}
		if err := tx.Create(&receipt).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	message.ReadBy = []uint{message.SenderID}
	return nil
}

func pairWhere(db *gorm.DB, a, b uint) *gorm.DB {
	lo, hi := models.PairKey(a, b)
	return db.Where(
		"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		lo, hi, hi, lo,
	)
}

func (r *messageRepository) ConversationBetween(ctx context.Context, viewerID, peerID uint, limit, offset int) ([]*models.Message, error) {
	var messages []*models.Message
	err := pairWhere(readDB(r.db).WithContext(ctx), viewerID, peerID).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	if err := r.loadReadBy(ctx, messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) loadReadBy(ctx context.Context, messages []*models.Message) error {
	if len(messages) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(messages))
	byID := make(map[uint]*models.Message, len(messages))
	for _, m := range messages {
		ids = append(ids, m.ID)
		byID[m.ID] = m
		m.ReadBy = []uint{}
	}

	var reads []models.MessageRead
	if err := readDB(r.db).WithContext(ctx).
		Where("message_id IN ?", ids).
		Find(&reads).Error; err != nil {
		return models.NewInternalError(err)
	}
	for _, read := range reads {
		if m, ok := byID[read.MessageID]; ok {
			m.ReadBy = append(m.ReadBy, read.UserID)
		}
	}
	return nil
}

func (r *messageRepository) MarkConversationRead(ctx context.Context, viewerID, peerID uint) error {
	// INSERT..SELECT keeps this a single statement, the unique index on
	// (message_id, user_id) makes re-marking a no-op race-free.
	err := r.db.WithContext(ctx).Exec(`
		INSERT INTO message_reads (message_id, user_id, created_at)
		SELECT m.id, ?, CURRENT_TIMESTAMP
		FROM messages m
		WHERE m.sender_id = ? AND m.receiver_id = ?
		  AND NOT EXISTS (
			SELECT 1 FROM message_reads mr
			WHERE mr.message_id = m.id AND mr.user_id = ?
		  )`,
		viewerID, peerID, viewerID, viewerID,
	).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *messageRepository) Conversations(ctx context.Context, viewerID uint) ([]models.Conversation, error) {
	// The viewer's full message history is fetched unpaginated and grouped
	// by peer here, because the latest-message-per-pair window is awkward
	// to express portably in SQL. Unread counts stay in SQL below.
	var messages []models.Message
	err := readDB(r.db).WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", viewerID, viewerID).
		Order("created_at DESC").
		Find(&messages).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(messages) == 0 {
		return []models.Conversation{}, nil
	}

	type unreadRow struct {
		SenderID uint
		Count    int
	}
	var unread []unreadRow
	err = readDB(r.db).WithContext(ctx).Model(&models.Message{}).
		Select("messages.sender_id AS sender_id, COUNT(*) AS count").
		Where("messages.receiver_id = ?", viewerID).
		Where("NOT EXISTS (SELECT 1 FROM message_reads mr WHERE mr.message_id = messages.id AND mr.user_id = ?)", viewerID).
		Group("messages.sender_id").
		Scan(&unread).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	unreadByPeer := make(map[uint]int, len(unread))
	for _, row := range unread {
		unreadByPeer[row.SenderID] = row.Count
	}

	// Messages arrive newest first, so the first message per peer is the
	// latest one and insertion order is already the sort order.
	conversations := make([]models.Conversation, 0)
	seen := make(map[uint]bool)
	peerIDs := make([]uint, 0)
	for _, m := range messages {
		peerID := m.SenderID
		if m.SenderID == viewerID {
			peerID = m.ReceiverID
		}
		if seen[peerID] {
			continue
		}
		seen[peerID] = true
		peerIDs = append(peerIDs, peerID)
		conversations = append(conversations, models.Conversation{
			PeerID:      peerID,
			LastMessage: m,
			Outgoing:    m.SenderID == viewerID,
			UnreadCount: unreadByPeer[peerID],
			UpdatedAt:   m.CreatedAt,
		})
	}

	var peers []models.User
	if err := readDB(r.db).WithContext(ctx).Where("id IN ?", peerIDs).Find(&peers).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	peerByID := make(map[uint]models.User, len(peers))
	for _, p := range peers {
		peerByID[p.ID] = p
	}
	for i := range conversations {
		if p, ok := peerByID[conversations[i].PeerID]; ok {
			conversations[i].PeerHandle = p.Handle
			conversations[i].PeerName = p.Username
			conversations[i].PeerAvatar = p.ProfilePicture
		}
	}

	return conversations, nil
}
