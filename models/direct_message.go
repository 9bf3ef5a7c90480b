package models

import (
	"time"
)

// DirectMessage is the single conversation between two users. The pair is
// stored canonically (UserOneID < UserTwoID) so the unique index covers
// both orientations of a lookup.
type DirectMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserOneID uint      `gorm:"not null;uniqueIndex:idx_dm_pair" json:"user_one_id"`
	UserTwoID uint      `gorm:"not null;uniqueIndex:idx_dm_pair" json:"user_two_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `gorm:"foreignKey:DirectMessageID" json:"messages,omitempty"`
}

// CanonicalPair orders two user ids so (a,b) and (b,a) name the same thread.
func CanonicalPair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}
