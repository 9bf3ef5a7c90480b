package models

import (
	"time"
)

// Message belongs to exactly one of a room or a direct-message thread;
// the other foreign key stays NULL for its whole lifetime.
type Message struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Content         string     `gorm:"type:text;not null" json:"content"`
	UserID          uint       `json:"user_id"`
	User            User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	RoomID          *uint      `gorm:"index" json:"room_id,omitempty"`
	DirectMessageID *uint      `gorm:"index" json:"direct_message_id,omitempty"`
	Reactions       []Reaction `gorm:"foreignKey:MessageID" json:"reactions"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// GroupedReactions is a display convenience for clients: reactions keyed
// by emoji, not an invariant of the stored data.
func (m *Message) GroupedReactions() map[string][]Reaction {
	if len(m.Reactions) == 0 {
		return map[string][]Reaction{}
	}
	grouped := make(map[string][]Reaction, len(m.Reactions))
	for _, r := range m.Reactions {
		grouped[r.Emoji] = append(grouped[r.Emoji], r)
	}
	return grouped
}

type Reaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MessageID uint      `gorm:"not null;uniqueIndex:idx_message_user_emoji" json:"message_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_message_user_emoji" json:"user_id"`
	Emoji     string    `gorm:"size:32;not null;uniqueIndex:idx_message_user_emoji" json:"emoji"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
