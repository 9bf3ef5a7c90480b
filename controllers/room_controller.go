package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sanchar-app/chat_backend/store"
)

type RoomController struct {
	Directory *store.Directory
	Messages  *store.Messages
}

type CreateRoomInput struct {
	Name      string `json:"name" binding:"required" example:"general"`
	UserIDs   []uint `json:"userIds"`
	IsPrivate bool   `json:"isPrivate"`
}

type JoinRoomInput struct {
	JoinKey string `json:"joinKey" binding:"required" example:"A1B2C3D4"`
}

// CreateRoom godoc
// @Summary Create a new room
// @Description Creates a room with the given participants; public rooms get a join key
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param room body CreateRoomInput true "Room creation"
// @Success 201 {object} map[string]interface{} "Created room with participants"
// @Failure 400 {object} map[string]interface{} "Invalid input"
// @Router /rooms [post]
func (r *RoomController) CreateRoom(c *gin.Context) {
	userID := currentUserID(c)

	var input CreateRoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	room, err := r.Directory.CreateRoom(input.Name, input.IsPrivate, userID, input.UserIDs)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "room": room})
}

// JoinRoom godoc
// @Summary Join a room by key
// @Description Adds the caller to the room behind a join key
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body JoinRoomInput true "Join key"
// @Success 200 {object} map[string]interface{} "Joined room"
// @Failure 400 {object} map[string]interface{} "Already a member"
// @Failure 404 {object} map[string]interface{} "Invalid join key"
// @Router /rooms/join [post]
func (r *RoomController) JoinRoom(c *gin.Context) {
	userID := currentUserID(c)

	var input JoinRoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	room, err := r.Directory.JoinRoomByKey(input.JoinKey, userID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "room": room})
}

// UserRooms godoc
// @Summary List the caller's rooms
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Rooms"
// @Router /rooms/user [get]
func (r *RoomController) UserRooms(c *gin.Context) {
	userID := currentUserID(c)

	rooms, err := r.Directory.RoomsForUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch rooms"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "rooms": rooms})
}

// RoomMessages godoc
// @Summary Get all messages for a room
// @Description Returns a room's messages oldest first with embedded authors
// @Tags rooms
// @Produce json
// @Param roomId path int true "Room ID"
// @Success 200 {object} map[string]interface{} "List of messages"
// @Failure 400 {object} map[string]interface{} "Invalid room ID"
// @Router /rooms/{roomId}/messages [get]
func (r *RoomController) RoomMessages(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("roomId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid room ID"})
		return
	}

	messages, err := r.Messages.RoomMessages(uint(roomID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "messages": messages})
}
