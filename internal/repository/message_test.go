package repository

import (
	"context"
	"testing"

	"pixelaura/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageRepository_SendAddsSenderReceipt(t *testing.T) {
	repo := NewMessageRepository(testDB)
	ctx := context.Background()

	alice := createTestUser(t)
	bob := createTestUser(t)

	msg := &models.Message{SenderID: alice.ID, ReceiverID: bob.ID, Content: "hey"}
	require.NoError(t, repo.Send(ctx, msg))
	require.NotZero(t, msg.ID)
	assert.Equal(t, []uint{alice.ID}, msg.ReadBy)

	var receipt models.MessageRead
	require.NoError(t, testDB.Where("message_id = ? AND user_id = ?", msg.ID, alice.ID).First(&receipt).Error)
}

func TestMessageRepository_ConversationBetween(t *testing.T) {
	repo := NewMessageRepository(testDB)
	ctx := context.Background()

	alice := createTestUser(t)
	bob := createTestUser(t)
	carol := createTestUser(t)

	require.NoError(t, repo.Send(ctx, &models.Message{SenderID: alice.ID, ReceiverID: bob.ID, Content: "first"}))
	require.NoError(t, repo.Send(ctx, &models.Message{SenderID: bob.ID, ReceiverID: alice.ID, Content: "second"}))
	// Noise from another pair must not leak in
	require.NoError(t, repo.Send(ctx, &models.Message{SenderID: alice.ID, ReceiverID: carol.ID, Content: "other"}))

	msgs, err := repo.ConversationBetween(ctx, alice.ID, bob.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Content)
	assert.Equal(t, "second", msgs[1].Content)
	assert.Equal(t, []uint{alice.ID}, msgs[0].ReadBy)

	// Direction does not matter
	same, err := repo.ConversationBetween(ctx, bob.ID, alice.ID, 50, 0)
	require.NoError(t, err)
	assert.Len(t, same, 2)
}

func TestMessageRepository_MarkConversationRead(t *testing.T) {
	repo := NewMessageRepository(testDB)
	ctx := context.Background()

	alice := createTestUser(t)
	bob := createTestUser(t)

	require.NoError(t, repo.Send(ctx, &models.Message{SenderID: alice.ID, ReceiverID: bob.ID, Content: "one"}))
	require.NoError(t, repo.Send(ctx, &models.Message{SenderID: alice.ID, ReceiverID: bob.ID, Content: "two"}))

	require.NoError(t, repo.MarkConversationRead(ctx, bob.ID, alice.ID))

	msgs, err := repo.ConversationBetween(ctx, bob.ID, alice.ID, 50, 0)
	require.NoError(t, err)
	for _, m := range msgs {
		assert.ElementsMatch(t, []uint{alice.ID, bob.ID}, m.ReadBy)
	}

	// Idempotent: marking again must not fail or duplicate receipts
	require.NoError(t, repo.MarkConversationRead(ctx, bob.ID, alice.ID))
	var receipts int64
	testDB.Model(&models.MessageRead{}).
		Joins("JOIN messages ON messages.id = message_reads.message_id").
		Where("messages.sender_id = ? AND messages.receiver_id = ?", alice.ID, bob.ID).
		Count(&receipts)
	assert.EqualValues(t, 4, receipts) // two senders + two readers
}

func TestMessageRepository_Conversations(t *testing.T) {
	repo := NewMessageRepository(testDB)
	ctx := context.Background()

	alice := createTestUser(t)
	bob := createTestUser(t)
	carol := createTestUser(t)

	require.NoError(t, repo.Send(ctx, &models.Message{SenderID: bob.ID, ReceiverID: alice.ID, Content: "from bob"}))
	require.NoError(t, repo.Send(ctx, &models.Message{SenderID: bob.ID, ReceiverID: alice.ID, Content: "from bob again"}))
	require.NoError(t, repo.Send(ctx, &models.Message{SenderID: alice.ID, ReceiverID: carol.ID, Content: "to carol"}))

	convs, err := repo.Conversations(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, convs, 2)

	// Newest conversation first
	assert.Equal(t, carol.ID, convs[0].PeerID)
	assert.True(t, convs[0].Outgoing)
	assert.Equal(t, 0, convs[0].UnreadCount)
	assert.Equal(t, carol.Handle, convs[0].PeerHandle)

	assert.Equal(t, bob.ID, convs[1].PeerID)
	assert.False(t, convs[1].Outgoing)
	assert.Equal(t, 2, convs[1].UnreadCount)
	assert.Equal(t, "from bob again", convs[1].LastMessage.Content)

	// Reading collapses the unread count
	require.NoError(t, repo.MarkConversationRead(ctx, alice.ID, bob.ID))
	convs, err = repo.Conversations(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, convs[1].UnreadCount)
}

func TestMessageRepository_ConversationsEmpty(t *testing.T) {
	repo := NewMessageRepository(testDB)

	loner := createTestUser(t)
	convs, err := repo.Conversations(context.Background(), loner.ID)
	require.NoError(t, err)
	assert.Empty(t, convs)
}
