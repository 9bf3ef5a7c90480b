package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sanchar-app/chat_backend/models"
	"gorm.io/gorm"
)

type UserController struct {
	DB *gorm.DB
}

type UpdateUserInput struct {
	Name string `json:"name" binding:"required"`
}

// UpdateUser godoc
// @Summary Update the caller's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body UpdateUserInput true "New name"
// @Success 200 {object} map[string]interface{} "Updated user"
// @Failure 400 {object} map[string]interface{} "Empty name"
// @Router /users/update [patch]
func (u *UserController) UpdateUser(c *gin.Context) {
	userID := currentUserID(c)

	var input UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Name is required"})
		return
	}

	var user models.User
	if err := u.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update user"})
		return
	}

	if err := u.DB.Model(&user).Update("name", name).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": gin.H{
		"id":       user.ID,
		"name":     name,
		"email":    user.Email,
		"isOnline": user.IsOnline,
	}})
}

// ListUsers godoc
// @Summary List all other users
// @Description Returns every user except the caller, ordered by name
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Users"
// @Router /users [get]
func (u *UserController) ListUsers(c *gin.Context) {
	userID := currentUserID(c)

	var users []models.User
	if err := u.DB.Where("id <> ?", userID).Order("name ASC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch users"})
		return
	}

	list := make([]gin.H, 0, len(users))
	for _, user := range users {
		list = append(list, gin.H{
			"id":       user.ID,
			"name":     user.Name,
			"email":    user.Email,
			"isOnline": user.IsOnline,
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "users": list})
}
