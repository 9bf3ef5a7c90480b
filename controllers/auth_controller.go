package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sanchar-app/chat_backend/mailer"
	"github.com/sanchar-app/chat_backend/models"
	"github.com/sanchar-app/chat_backend/utils"
	"gorm.io/gorm"
)

type AuthController struct {
	DB     *gorm.DB
	Mailer *mailer.Mailer
}

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register godoc
// @Summary Register a new user
// @Description Creates an account and sends a verification email
// @Tags auth
// @Accept json
// @Produce json
// @Param user body RegisterInput true "Registration"
// @Success 201 {object} map[string]interface{} "User registered"
// @Failure 400 {object} map[string]interface{} "Invalid input or duplicate email"
// @Router /auth/register [post]
func (a *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	var existingUser models.User
	if result := a.DB.Where("email = ?", input.Email).First(&existingUser); result.RowsAffected > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "User with this email already exists"})
		return
	}

	token := utils.GenerateVerificationToken()
	expiry := time.Now().Add(24 * time.Hour)
	user := models.User{
		Name:                    input.Name,
		Email:                   input.Email,
		Password:                input.Password,
		VerificationToken:       &token,
		VerificationTokenExpiry: &expiry,
	}

	if result := a.DB.Create(&user); result.Error != nil {
		// The lookup above is only a fast path; a concurrent registration
		// for the same email lands here through the unique constraint.
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "User with this email already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create user"})
		return
	}

	// Delivery is best-effort; registration never fails on SMTP trouble.
	if a.Mailer != nil {
		if err := a.Mailer.SendVerification(user.Email, user.Name, token); err != nil {
			log.Printf("error sending verification email to %s: %v", user.Email, err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":             true,
		"user":                user.Public(),
		"verificationPending": true,
	})
}

// Login godoc
// @Summary Authenticate a user
// @Description Validates credentials and issues a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginInput true "Credentials"
// @Success 200 {object} map[string]interface{} "Token and user"
// @Failure 401 {object} map[string]interface{} "Invalid credentials"
// @Router /auth/login [post]
func (a *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	var user models.User
	if result := a.DB.Where("email = ?", input.Email).First(&user); result.Error != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid email or password"})
		return
	}

	if err := user.ValidatePassword(input.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid email or password"})
		return
	}

	// Whether unverified accounts may log in is a deployment policy.
	if os.Getenv("REQUIRE_VERIFIED_EMAIL") == "true" && !user.EmailVerified {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Email not verified"})
		return
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user":    user.Public(),
	})
}

// VerifyEmail godoc
// @Summary Verify an email address
// @Description Consumes a verification token and redirects to login
// @Tags auth
// @Produce json
// @Param token query string true "Verification token"
// @Success 302 {string} string "Redirect to login"
// @Failure 400 {object} map[string]interface{} "Invalid or expired token"
// @Router /auth/verify-email [get]
func (a *AuthController) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Verification token is required"})
		return
	}

	var user models.User
	result := a.DB.Where("verification_token = ? AND verification_token_expiry > ?", token, time.Now()).
		First(&user)
	if result.Error != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid or expired verification token"})
		return
	}

	updates := map[string]interface{}{
		"email_verified":            true,
		"verification_token":        nil,
		"verification_token_expiry": nil,
	}
	if err := a.DB.Model(&user).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to verify email"})
		return
	}

	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "http://localhost:8080"
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("%s/login?verified=true", appURL))
}
