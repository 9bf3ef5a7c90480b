package store

import (
	"errors"
	"fmt"

	"github.com/sanchar-app/chat_backend/models"
	"github.com/sanchar-app/chat_backend/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Directory resolves conversations: direct-message threads per user pair,
// rooms by join key, and the invitation lifecycle.
type Directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

// FindOrCreateDirectThread returns the single thread for an unordered user
// pair, creating it on first contact. Concurrent first messages from both
// sides are resolved by the unique index on the canonical pair, not by a
// check-then-insert race.
func (d *Directory) FindOrCreateDirectThread(a, b uint) (models.DirectMessage, error) {
	if a == 0 || b == 0 || a == b {
		return models.DirectMessage{}, fmt.Errorf("%w: invalid user pair", ErrValidation)
	}

	one, two := models.CanonicalPair(a, b)

	// Both ends must be real accounts; nothing else stops a thread from
	// pointing at a user id that was never registered.
	var count int64
	if err := d.db.Model(&models.User{}).Where("id IN ?", []uint{one, two}).Count(&count).Error; err != nil {
		return models.DirectMessage{}, err
	}
	if count != 2 {
		return models.DirectMessage{}, fmt.Errorf("%w: user not found", ErrNotFound)
	}

	thread := models.DirectMessage{UserOneID: one, UserTwoID: two}
	if err := d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&thread).Error; err != nil {
		return models.DirectMessage{}, err
	}

	// Re-read so the loser of a conflicting insert still gets the row.
	if err := d.db.Where("user_one_id = ? AND user_two_id = ?", one, two).First(&thread).Error; err != nil {
		return models.DirectMessage{}, err
	}
	return thread, nil
}

// DirectThreadBetween looks up the pair's thread without creating one.
func (d *Directory) DirectThreadBetween(a, b uint) (models.DirectMessage, error) {
	one, two := models.CanonicalPair(a, b)
	var thread models.DirectMessage
	if err := d.db.Where("user_one_id = ? AND user_two_id = ?", one, two).First(&thread).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DirectMessage{}, fmt.Errorf("%w: no conversation", ErrNotFound)
		}
		return models.DirectMessage{}, err
	}
	return thread, nil
}

// ThreadByID fetches a direct-message thread or reports NotFound.
func (d *Directory) ThreadByID(id uint) (models.DirectMessage, error) {
	var thread models.DirectMessage
	if err := d.db.First(&thread, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DirectMessage{}, fmt.Errorf("%w: no conversation", ErrNotFound)
		}
		return models.DirectMessage{}, err
	}
	return thread, nil
}

// IsThreadParticipant reports whether a user belongs to a thread.
func (d *Directory) IsThreadParticipant(threadID, userID uint) (bool, error) {
	var thread models.DirectMessage
	if err := d.db.First(&thread, threadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return thread.UserOneID == userID || thread.UserTwoID == userID, nil
}

// CreateRoom creates a room with its creator and the given members. Public
// rooms get a generated join key; private rooms are invite-only.
func (d *Directory) CreateRoom(name string, private bool, creatorID uint, memberIDs []uint) (models.Room, error) {
	if name == "" {
		return models.Room{}, fmt.Errorf("%w: name is required", ErrValidation)
	}

	room := models.Room{
		Name:      name,
		Private:   private,
		CreatedBy: creatorID,
	}
	if !private {
		key, err := utils.GenerateJoinKey()
		if err != nil {
			return models.Room{}, err
		}
		room.JoinKey = &key
	}

	members := map[uint]bool{creatorID: true}
	for _, id := range memberIDs {
		if id != 0 {
			members[id] = true
		}
	}

	err := d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&room).Error; err != nil {
			return err
		}
		for id := range members {
			if err := tx.Create(&models.RoomUser{RoomID: room.ID, UserID: id}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Room{}, err
	}

	if err := d.db.Preload("Users").First(&room, room.ID).Error; err != nil {
		return models.Room{}, err
	}
	return room, nil
}

// RoomByID fetches a room or reports NotFound.
func (d *Directory) RoomByID(id uint) (models.Room, error) {
	var room models.Room
	if err := d.db.First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Room{}, fmt.Errorf("%w: room %d", ErrNotFound, id)
		}
		return models.Room{}, err
	}
	return room, nil
}

// RoomByJoinKey resolves a join key to its room.
func (d *Directory) RoomByJoinKey(key string) (models.Room, error) {
	var room models.Room
	if err := d.db.Where("join_key = ?", key).First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Room{}, fmt.Errorf("%w: invalid join key", ErrNotFound)
		}
		return models.Room{}, err
	}
	return room, nil
}

// JoinRoomByKey adds the user to the room behind a join key.
func (d *Directory) JoinRoomByKey(key string, userID uint) (models.Room, error) {
	room, err := d.RoomByJoinKey(key)
	if err != nil {
		return models.Room{}, err
	}

	member, err := d.IsRoomMember(room.ID, userID)
	if err != nil {
		return models.Room{}, err
	}
	if member {
		return models.Room{}, fmt.Errorf("%w: already in room", ErrConflict)
	}

	if err := d.db.Create(&models.RoomUser{RoomID: room.ID, UserID: userID}).Error; err != nil {
		return models.Room{}, err
	}
	return room, nil
}

// IsRoomMember reports whether a user belongs to a room.
func (d *Directory) IsRoomMember(roomID, userID uint) (bool, error) {
	var membership models.RoomUser
	err := d.db.Where("room_id = ? AND user_id = ?", roomID, userID).First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// RoomsForUser lists the rooms the user is a member of.
func (d *Directory) RoomsForUser(userID uint) ([]models.Room, error) {
	var rooms []models.Room
	err := d.db.
		Joins("JOIN room_users ON room_users.room_id = rooms.id").
		Where("room_users.user_id = ?", userID).
		Preload("Users").
		Find(&rooms).Error
	return rooms, err
}

// SendInvitation invites a user (resolved by email) into a room.
func (d *Directory) SendInvitation(roomID, inviterID uint, inviteeEmail string) (models.Invitation, error) {
	var invitee models.User
	if err := d.db.Where("email = ?", inviteeEmail).First(&invitee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Invitation{}, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return models.Invitation{}, err
	}

	if _, err := d.RoomByID(roomID); err != nil {
		return models.Invitation{}, err
	}

	member, err := d.IsRoomMember(roomID, invitee.ID)
	if err != nil {
		return models.Invitation{}, err
	}
	if member {
		return models.Invitation{}, fmt.Errorf("%w: user is already in the room", ErrConflict)
	}

	var existing models.Invitation
	err = d.db.Where("room_id = ? AND invitee_id = ? AND status = ?",
		roomID, invitee.ID, models.InvitationPending).First(&existing).Error
	if err == nil {
		return models.Invitation{}, fmt.Errorf("%w: invitation already sent", ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Invitation{}, err
	}

	invitation := models.Invitation{
		RoomID:    roomID,
		InviterID: inviterID,
		InviteeID: invitee.ID,
		Status:    models.InvitationPending,
	}
	if err := d.db.Create(&invitation).Error; err != nil {
		return models.Invitation{}, err
	}

	if err := d.db.Preload("Room").Preload("Inviter").Preload("Invitee").
		First(&invitation, invitation.ID).Error; err != nil {
		return models.Invitation{}, err
	}
	return invitation, nil
}

// PendingInvitations lists a user's pending invitations with room and
// inviter summaries embedded.
func (d *Directory) PendingInvitations(userID uint) ([]models.Invitation, error) {
	var invitations []models.Invitation
	err := d.db.
		Where("invitee_id = ? AND status = ?", userID, models.InvitationPending).
		Preload("Room").
		Preload("Inviter").
		Order("created_at DESC").
		Find(&invitations).Error
	return invitations, err
}

// AcceptInvitation flips a pending invitation to accepted and creates the
// membership in the same transaction, so a partial state is never visible.
func (d *Directory) AcceptInvitation(id, actingUserID uint) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		invitation, err := lockInvitation(tx, id, actingUserID)
		if err != nil {
			return err
		}

		if err := tx.Model(&invitation).Update("status", models.InvitationAccepted).Error; err != nil {
			return err
		}
		return tx.Create(&models.RoomUser{RoomID: invitation.RoomID, UserID: actingUserID}).Error
	})
}

// RejectInvitation flips a pending invitation to rejected.
func (d *Directory) RejectInvitation(id, actingUserID uint) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		invitation, err := lockInvitation(tx, id, actingUserID)
		if err != nil {
			return err
		}
		return tx.Model(&invitation).Update("status", models.InvitationRejected).Error
	})
}

func lockInvitation(tx *gorm.DB, id, actingUserID uint) (models.Invitation, error) {
	var invitation models.Invitation
	if err := tx.First(&invitation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invitation, fmt.Errorf("%w: invitation not found", ErrNotFound)
		}
		return invitation, err
	}
	if invitation.InviteeID != actingUserID {
		return invitation, fmt.Errorf("%w: not the invitee", ErrForbidden)
	}
	if invitation.Status != models.InvitationPending {
		return invitation, fmt.Errorf("%w: invitation already processed", ErrConflict)
	}
	return invitation, nil
}
