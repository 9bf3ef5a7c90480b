package store

import (
	"testing"
	"time"

	"github.com/sanchar-app/chat_backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendRoomMessage(t *testing.T) {
	db := openTestDB(t)
	d := NewDirectory(db)
	m := NewMessages(db)
	ann := createTestUser(t, db, "Ann", "ann@example.com")
	room := createTestRoom(t, db, d, "general", ann.ID)

	message, err := m.AppendRoomMessage(room.ID, ann.ID, "hi")
	require.NoError(t, err)
	assert.Equal(t, "hi", message.Content)
	require.NotNil(t, message.RoomID)
	assert.Equal(t, room.ID, *message.RoomID)
	assert.Nil(t, message.DirectMessageID)
	assert.Equal(t, "Ann", message.User.Name)
	assert.Equal(t, "ann@example.com", message.User.Email)
}

func TestAppendRoomMessage_RoomMustExist(t *testing.T) {
	db := openTestDB(t)
	m := NewMessages(db)
	ann := createTestUser(t, db, "Ann", "ann@example.com")

	_, err := m.AppendRoomMessage(99, ann.ID, "hi")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAppendRoomMessage_EmptyContent(t *testing.T) {
	db := openTestDB(t)
	d := NewDirectory(db)
	m := NewMessages(db)
	ann := createTestUser(t, db, "Ann", "ann@example.com")
	room := createTestRoom(t, db, d, "general", ann.ID)

	_, err := m.AppendRoomMessage(room.ID, ann.ID, "   ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRoomMessages_CreationOrderWithAuthors(t *testing.T) {
	db := openTestDB(t)
	d := NewDirectory(db)
	m := NewMessages(db)
	ann := createTestUser(t, db, "Ann", "ann@example.com")
	room := createTestRoom(t, db, d, "general", ann.ID)

	for _, content := range []string{"one", "two", "three"} {
		_, err := m.AppendRoomMessage(room.ID, ann.ID, content)
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	messages, err := m.RoomMessages(room.ID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "one", messages[0].Content)
	assert.Equal(t, "two", messages[1].Content)
	assert.Equal(t, "three", messages[2].Content)
	for _, message := range messages {
		assert.Equal(t, "Ann", message.User.Name)
	}
}

func TestAppendDirectMessage_ParticipantsOnly(t *testing.T) {
	db := openTestDB(t)
	d := NewDirectory(db)
	m := NewMessages(db)
	ann := createTestUser(t, db, "Ann", "ann@example.com")
	bob := createTestUser(t, db, "Bob", "bob@example.com")
	eve := createTestUser(t, db, "Eve", "eve@example.com")

	thread, err := d.FindOrCreateDirectThread(ann.ID, bob.ID)
	require.NoError(t, err)

	message, err := m.AppendDirectMessage(thread.ID, ann.ID, "hello")
	require.NoError(t, err)
	require.NotNil(t, message.DirectMessageID)
	assert.Equal(t, thread.ID, *message.DirectMessageID)
	assert.Nil(t, message.RoomID)

	_, err = m.AppendDirectMessage(thread.ID, eve.ID, "intruding")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestEditMessage(t *testing.T) {
	db := openTestDB(t)
	d := NewDirectory(db)
	m := NewMessages(db)
	ann := createTestUser(t, db, "Ann", "ann@example.com")
	bob := createTestUser(t, db, "Bob", "bob@example.com")
	room := createTestRoom(t, db, d, "general", ann.ID)

	message, err := m.AppendRoomMessage(room.ID, ann.ID, "original")
	require.NoError(t, err)

	_, err = m.Edit(message.ID+100, ann.ID, "whatever")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = m.Edit(message.ID, bob.ID, "hijacked")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = m.Edit(message.ID, ann.ID, "   ")
	assert.ErrorIs(t, err, ErrValidation)

	unchanged, err := m.ByID(message.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", unchanged.Content, "failed edits must not change content")

	time.Sleep(2 * time.Millisecond)
	edited, err := m.Edit(message.ID, ann.ID, "  fixed  ")
	require.NoError(t, err)
	assert.Equal(t, "fixed", edited.Content)
	assert.Equal(t, message.CreatedAt.Unix(), edited.CreatedAt.Unix())
	assert.True(t, edited.UpdatedAt.After(edited.CreatedAt) || edited.UpdatedAt.Equal(edited.CreatedAt))
}

func TestToggleReaction_Involution(t *testing.T) {
	db := openTestDB(t)
	d := NewDirectory(db)
	m := NewMessages(db)
	ann := createTestUser(t, db, "Ann", "ann@example.com")
	room := createTestRoom(t, db, d, "general", ann.ID)

	message, err := m.AppendRoomMessage(room.ID, ann.ID, "hi")
	require.NoError(t, err)

	withReaction, err := m.ToggleReaction(message.ID, ann.ID, "👍")
	require.NoError(t, err)
	require.Len(t, withReaction.Reactions, 1)
	assert.Equal(t, "👍", withReaction.Reactions[0].Emoji)

	// Toggling the same triple again removes it.
	without, err := m.ToggleReaction(message.ID, ann.ID, "👍")
	require.NoError(t, err)
	assert.Empty(t, without.Reactions)

	var count int64
	require.NoError(t, db.Model(&models.Reaction{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestToggleReaction_DistinctEmojisCoexist(t *testing.T) {
	db := openTestDB(t)
	d := NewDirectory(db)
	m := NewMessages(db)
	ann := createTestUser(t, db, "Ann", "ann@example.com")
	room := createTestRoom(t, db, d, "general", ann.ID)

	message, err := m.AppendRoomMessage(room.ID, ann.ID, "hi")
	require.NoError(t, err)

	_, err = m.ToggleReaction(message.ID, ann.ID, "👍")
	require.NoError(t, err)
	updated, err := m.ToggleReaction(message.ID, ann.ID, "🎉")
	require.NoError(t, err)
	assert.Len(t, updated.Reactions, 2)

	grouped := updated.GroupedReactions()
	assert.Len(t, grouped["👍"], 1)
	assert.Len(t, grouped["🎉"], 1)
}

func TestToggleReaction_MessageNotFound(t *testing.T) {
	db := openTestDB(t)
	m := NewMessages(db)
	ann := createTestUser(t, db, "Ann", "ann@example.com")

	_, err := m.ToggleReaction(7, ann.ID, "👍")
	assert.ErrorIs(t, err, ErrNotFound)
}
