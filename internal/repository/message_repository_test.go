package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamline/unibox/internal/models"
	"github.com/teamline/unibox/internal/repository"
)

func TestMessageRepository_CreateOutbound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := repository.NewMessageRepository(db)
	ctx := context.Background()

	contactID, err := insertTestContact(db, "Ada", "+15551230001")
	require.NoError(t, err)
	senderID := uuid.New().String()

	msg, err := repo.CreateOutbound(ctx, contactID, senderID, "on my way", models.ChannelSMS)
	require.NoError(t, err)
	assert.Equal(t, models.DirectionOutbound, msg.Direction)
	assert.Equal(t, senderID, msg.SenderID.String)

	// Outbound messages never show as unread.
	assert.True(t, msg.Read)
}

func TestMessageRepository_CreateOutbound_NoSender(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := repository.NewMessageRepository(db)

	contactID, err := insertTestContact(db, "Ada", "+15551230001")
	require.NoError(t, err)

	msg, err := repo.CreateOutbound(context.Background(), contactID, "", "scheduled send", models.ChannelWhatsApp)
	require.NoError(t, err)
	assert.False(t, msg.SenderID.Valid)
}

func TestMessageRepository_CreateInbound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := repository.NewMessageRepository(db)

	contactID, err := insertTestContact(db, "Ada", "+15551230001")
	require.NoError(t, err)

	msg, err := repo.CreateInbound(context.Background(), contactID, "hello", models.ChannelSMS)
	require.NoError(t, err)
	assert.Equal(t, models.DirectionInbound, msg.Direction)
	assert.False(t, msg.SenderID.Valid)
	assert.False(t, msg.Read)
}

func TestMessageRepository_ListByContact(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := repository.NewMessageRepository(db)
	ctx := context.Background()

	contactID, err := insertTestContact(db, "Ada", "+15551230001")
	require.NoError(t, err)
	otherID, err := insertTestContact(db, "Grace", "+15551230002")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = repo.CreateInbound(ctx, contactID, "message", models.ChannelSMS)
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}
	last, err := repo.CreateInbound(ctx, contactID, "latest", models.ChannelSMS)
	require.NoError(t, err)
	_, err = repo.CreateInbound(ctx, otherID, "someone else", models.ChannelSMS)
	require.NoError(t, err)

	messages, err := repo.ListByContact(ctx, contactID, 10)
	require.NoError(t, err)
	require.Len(t, messages, 4)
	assert.Equal(t, last.ID, messages[0].ID)

	limited, err := repo.ListByContact(ctx, contactID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestMessageRepository_MarkRead(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := repository.NewMessageRepository(db)
	ctx := context.Background()

	contactID, err := insertTestContact(db, "Ada", "+15551230001")
	require.NoError(t, err)

	msg, err := repo.CreateInbound(ctx, contactID, "hello", models.ChannelSMS)
	require.NoError(t, err)

	require.NoError(t, repo.MarkRead(ctx, msg.ID))

	var read bool
	require.NoError(t, db.Get(&read, "SELECT read FROM messages WHERE id = $1", msg.ID))
	assert.True(t, read)

	err = repo.MarkRead(ctx, uuid.New().String())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMessageRepository_CountByChannel(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := repository.NewMessageRepository(db)
	ctx := context.Background()

	contactID, err := insertTestContact(db, "Ada", "+15551230001")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = repo.CreateInbound(ctx, contactID, "sms", models.ChannelSMS)
		require.NoError(t, err)
	}
	_, err = repo.CreateOutbound(ctx, contactID, "", "wa", models.ChannelWhatsApp)
	require.NoError(t, err)

	counts, err := repo.CountByChannel(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts[models.ChannelSMS])
	assert.Equal(t, int64(1), counts[models.ChannelWhatsApp])
	assert.Zero(t, counts[models.ChannelEmail])
}
