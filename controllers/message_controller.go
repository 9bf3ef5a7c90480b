package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sanchar-app/chat_backend/store"
)

type MessageController struct {
	Messages *store.Messages
}

type EditMessageInput struct {
	Content string `json:"content" binding:"required" example:"edited text"`
}

type ReactionInput struct {
	Emoji string `json:"emoji" binding:"required" example:"👍"`
}

// EditMessage godoc
// @Summary Edit a message
// @Description Replaces a message's content in place; only the author may edit
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Param message body EditMessageInput true "New content"
// @Success 200 {object} map[string]interface{} "Updated message with reactions"
// @Failure 400 {object} map[string]interface{} "Empty content"
// @Failure 403 {object} map[string]interface{} "Not the author"
// @Failure 404 {object} map[string]interface{} "Not found"
// @Router /messages/{id} [patch]
func (m *MessageController) EditMessage(c *gin.Context) {
	userID := currentUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid message ID"})
		return
	}

	var input EditMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	message, err := m.Messages.Edit(uint(id), userID, input.Content)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"message":          message,
		"groupedReactions": message.GroupedReactions(),
	})
}

// ToggleReaction godoc
// @Summary Toggle a reaction
// @Description Adds the caller's emoji reaction to a message, or removes it if present
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Param reaction body ReactionInput true "Emoji"
// @Success 200 {object} map[string]interface{} "Message with its full reaction set"
// @Failure 404 {object} map[string]interface{} "Message not found"
// @Router /messages/{id}/reactions [post]
func (m *MessageController) ToggleReaction(c *gin.Context) {
	userID := currentUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid message ID"})
		return
	}

	var input ReactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	message, err := m.Messages.ToggleReaction(uint(id), userID, input.Emoji)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"message":          message,
		"groupedReactions": message.GroupedReactions(),
	})
}
