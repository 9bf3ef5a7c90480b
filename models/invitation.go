package models

import (
	"time"
)

const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationRejected = "rejected"
)

// Invitation is unique per (room, invitee) only while pending; a rejected
// invitation does not block a later re-invite.
type Invitation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RoomID    uint      `gorm:"not null;uniqueIndex:idx_invitation_pending,where:status = 'pending'" json:"room_id"`
	Room      Room      `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	InviterID uint      `gorm:"not null" json:"inviter_id"`
	Inviter   User      `gorm:"foreignKey:InviterID" json:"inviter,omitempty"`
	InviteeID uint      `gorm:"not null;uniqueIndex:idx_invitation_pending,where:status = 'pending'" json:"invitee_id"`
	Invitee   User      `gorm:"foreignKey:InviteeID" json:"invitee,omitempty"`
	Status    string    `gorm:"size:20;default:'pending'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
