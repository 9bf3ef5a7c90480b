package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sanchar-app/chat_backend/store"
)

type InvitationController struct {
	Directory *store.Directory
}

type SendInvitationInput struct {
	RoomID uint   `json:"roomId" binding:"required" example:"1"`
	Email  string `json:"email" binding:"required,email" example:"friend@example.com"`
}

// SendInvitation godoc
// @Summary Invite a user to a room
// @Description Invites a user, resolved by email, to join a room
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param invitation body SendInvitationInput true "Invitation"
// @Success 201 {object} map[string]interface{} "Created invitation"
// @Failure 400 {object} map[string]interface{} "Already a member or already invited"
// @Failure 404 {object} map[string]interface{} "User or room not found"
// @Router /invitations/send [post]
func (i *InvitationController) SendInvitation(c *gin.Context) {
	userID := currentUserID(c)

	var input SendInvitationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	invitation, err := i.Directory.SendInvitation(input.RoomID, userID, input.Email)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "invitation": invitation})
}

// PendingInvitations godoc
// @Summary List the caller's pending invitations
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Invitations with room and inviter"
// @Router /invitations [get]
func (i *InvitationController) PendingInvitations(c *gin.Context) {
	userID := currentUserID(c)

	invitations, err := i.Directory.PendingInvitations(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch invitations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "invitations": invitations})
}

// AcceptInvitation godoc
// @Summary Accept an invitation
// @Description Accepts a pending invitation and joins the room atomically
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Invitation ID"
// @Success 200 {object} map[string]interface{} "Accepted"
// @Failure 400 {object} map[string]interface{} "Not pending"
// @Failure 403 {object} map[string]interface{} "Not the invitee"
// @Failure 404 {object} map[string]interface{} "Not found"
// @Router /invitations/{id}/accept [post]
func (i *InvitationController) AcceptInvitation(c *gin.Context) {
	userID := currentUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid invitation ID"})
		return
	}

	if err := i.Directory.AcceptInvitation(uint(id), userID); err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RejectInvitation godoc
// @Summary Reject an invitation
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Invitation ID"
// @Success 200 {object} map[string]interface{} "Rejected"
// @Failure 403 {object} map[string]interface{} "Not the invitee"
// @Failure 404 {object} map[string]interface{} "Not found"
// @Router /invitations/{id}/reject [post]
func (i *InvitationController) RejectInvitation(c *gin.Context) {
	userID := currentUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid invitation ID"})
		return
	}

	if err := i.Directory.RejectInvitation(uint(id), userID); err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
