package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sanchar-app/chat_backend/models"
	"gorm.io/gorm"
)

// Messages appends and mutates chat messages for rooms and direct-message
// threads. Ownership is enforced here, not at the HTTP boundary.
type Messages struct {
	db *gorm.DB
}

func NewMessages(db *gorm.DB) *Messages {
	return &Messages{db: db}
}

// AppendRoomMessage persists a message in a room and returns it with the
// author embedded.
func (m *Messages) AppendRoomMessage(roomID, authorID uint, content string) (models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Message{}, fmt.Errorf("%w: content is required", ErrValidation)
	}

	var room models.Room
	if err := m.db.First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Message{}, fmt.Errorf("%w: room %d", ErrNotFound, roomID)
		}
		return models.Message{}, err
	}

	message := models.Message{
		Content: content,
		UserID:  authorID,
		RoomID:  &room.ID,
	}
	if err := m.db.Create(&message).Error; err != nil {
		return models.Message{}, err
	}
	return m.ByID(message.ID)
}

// AppendDirectMessage persists a message in a direct-message thread.
func (m *Messages) AppendDirectMessage(threadID, authorID uint, content string) (models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Message{}, fmt.Errorf("%w: content is required", ErrValidation)
	}

	var thread models.DirectMessage
	if err := m.db.First(&thread, threadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Message{}, fmt.Errorf("%w: conversation %d", ErrNotFound, threadID)
		}
		return models.Message{}, err
	}
	if thread.UserOneID != authorID && thread.UserTwoID != authorID {
		return models.Message{}, fmt.Errorf("%w: not a participant", ErrForbidden)
	}

	message := models.Message{
		Content:         content,
		UserID:          authorID,
		DirectMessageID: &thread.ID,
	}
	if err := m.db.Create(&message).Error; err != nil {
		return models.Message{}, err
	}
	return m.ByID(message.ID)
}

// Edit replaces a message's content in place. Only the author may edit;
// created_at is never touched.
func (m *Messages) Edit(messageID, actingUserID uint, content string) (models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Message{}, fmt.Errorf("%w: content is required", ErrValidation)
	}

	var message models.Message
	if err := m.db.First(&message, messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Message{}, fmt.Errorf("%w: message not found", ErrNotFound)
		}
		return models.Message{}, err
	}
	if message.UserID != actingUserID {
		return models.Message{}, fmt.Errorf("%w: not the author", ErrForbidden)
	}

	if err := m.db.Model(&message).Update("content", content).Error; err != nil {
		return models.Message{}, err
	}
	return m.ByID(messageID)
}

// ToggleReaction adds the (message, user, emoji) reaction, or removes it
// if it already exists. Applying it twice is a no-op overall.
func (m *Messages) ToggleReaction(messageID, actingUserID uint, emoji string) (models.Message, error) {
	if emoji == "" {
		return models.Message{}, fmt.Errorf("%w: emoji is required", ErrValidation)
	}

	var message models.Message
	if err := m.db.First(&message, messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Message{}, fmt.Errorf("%w: message not found", ErrNotFound)
		}
		return models.Message{}, err
	}

	var existing models.Reaction
	err := m.db.Where("message_id = ? AND user_id = ? AND emoji = ?",
		messageID, actingUserID, emoji).First(&existing).Error
	switch {
	case err == nil:
		if err := m.db.Delete(&existing).Error; err != nil {
			return models.Message{}, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		reaction := models.Reaction{MessageID: messageID, UserID: actingUserID, Emoji: emoji}
		if err := m.db.Create(&reaction).Error; err != nil {
			return models.Message{}, err
		}
	default:
		return models.Message{}, err
	}

	return m.ByID(messageID)
}

// RoomMessages lists a room's messages oldest first.
func (m *Messages) RoomMessages(roomID uint) ([]models.Message, error) {
	var messages []models.Message
	err := m.db.Where("room_id = ?", roomID).
		Order("created_at ASC").
		Preload("User").
		Preload("Reactions").
		Preload("Reactions.User").
		Find(&messages).Error
	return messages, err
}

// DirectMessages lists a thread's messages oldest first.
func (m *Messages) DirectMessages(threadID uint) ([]models.Message, error) {
	var messages []models.Message
	err := m.db.Where("direct_message_id = ?", threadID).
		Order("created_at ASC").
		Preload("User").
		Preload("Reactions").
		Preload("Reactions.User").
		Find(&messages).Error
	return messages, err
}

// ByID fetches one message with its author and reactions embedded.
func (m *Messages) ByID(id uint) (models.Message, error) {
	var message models.Message
	err := m.db.
		Preload("User").
		Preload("Reactions").
		Preload("Reactions.User").
		First(&message, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Message{}, fmt.Errorf("%w: message not found", ErrNotFound)
		}
		return models.Message{}, err
	}
	return message, nil
}
