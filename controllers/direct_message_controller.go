package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sanchar-app/chat_backend/models"
	"github.com/sanchar-app/chat_backend/store"
)

type DirectMessageController struct {
	Directory *store.Directory
	Messages  *store.Messages
}

type SendDirectMessageInput struct {
	ReceiverID uint   `json:"receiverId" binding:"required" example:"2"`
	Content    string `json:"content" binding:"required" example:"hello"`
}

// SendDirectMessage godoc
// @Summary Send a direct message
// @Description Persists a direct message and returns the canonical record.
// @Description The client separately pushes a fan-out notification over the
// @Description socket carrying this message's id.
// @Tags direct-messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param message body SendDirectMessageInput true "Message"
// @Success 201 {object} map[string]interface{} "Persisted message with embedded author"
// @Failure 400 {object} map[string]interface{} "Missing data"
// @Router /direct-messages [post]
func (d *DirectMessageController) SendDirectMessage(c *gin.Context) {
	userID := currentUserID(c)

	var input SendDirectMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	thread, err := d.Directory.FindOrCreateDirectThread(userID, input.ReceiverID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	message, err := d.Messages.AppendDirectMessage(thread.ID, userID, input.Content)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": message})
}

// DirectMessages godoc
// @Summary Get the conversation with another user
// @Description Returns the direct messages between the caller and the given user, oldest first
// @Tags direct-messages
// @Produce json
// @Security BearerAuth
// @Param userId path int true "Counterpart user ID"
// @Success 200 {object} map[string]interface{} "Messages, empty if no conversation yet"
// @Router /direct-messages/{userId} [get]
func (d *DirectMessageController) DirectMessages(c *gin.Context) {
	userID := currentUserID(c)

	counterpartID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid user ID"})
		return
	}

	thread, err := d.Directory.DirectThreadBetween(userID, uint(counterpartID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// No conversation yet is not an error.
			c.JSON(http.StatusOK, gin.H{"success": true, "messages": []models.Message{}})
			return
		}
		respondStoreError(c, err)
		return
	}

	messages, err := d.Messages.DirectMessages(thread.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "messages": messages})
}
