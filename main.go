package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sanchar-app/chat_backend/controllers"
	"github.com/sanchar-app/chat_backend/database"
	"github.com/sanchar-app/chat_backend/docs"
	"github.com/sanchar-app/chat_backend/mailer"
	"github.com/sanchar-app/chat_backend/middleware"
	"github.com/sanchar-app/chat_backend/store"
	"github.com/sanchar-app/chat_backend/websocket"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Sanchar Chat API
// @version         1.0
// @description     API server for the Sanchar team-chat application
// @host            localhost:8080
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Initialize database
	db := database.Connect()
	database.Migrate(db)

	// Set up Swagger info
	docs.SwaggerInfo.Title = "Sanchar Chat API"
	docs.SwaggerInfo.Description = "API server for the Sanchar team-chat application"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = "localhost:" + os.Getenv("PORT")
	if docs.SwaggerInfo.Host == "localhost:" {
		docs.SwaggerInfo.Host = "localhost:8080"
	}
	docs.SwaggerInfo.BasePath = "/"
	docs.SwaggerInfo.Schemes = []string{"http"}

	// Stores and real-time hub
	directory := store.NewDirectory(db)
	messages := store.NewMessages(db)

	hub := websocket.NewHub()
	gateway := websocket.NewGateway(hub, db, directory, messages)
	go hub.Run()

	authController := &controllers.AuthController{DB: db, Mailer: mailer.NewFromEnv()}
	roomController := &controllers.RoomController{Directory: directory, Messages: messages}
	invitationController := &controllers.InvitationController{Directory: directory}
	directMessageController := &controllers.DirectMessageController{Directory: directory, Messages: messages}
	messageController := &controllers.MessageController{Messages: messages}
	userController := &controllers.UserController{DB: db}

	// Set up router
	router := gin.Default()

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Authentication routes
	auth := router.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.GET("/verify-email", authController.VerifyEmail)
	}

	// Room message history is readable without a token
	router.GET("/rooms/:roomId/messages", roomController.RoomMessages)

	// Protected routes
	api := router.Group("/")
	api.Use(middleware.JWTAuth())
	{
		// Room routes
		api.POST("/rooms", roomController.CreateRoom)
		api.POST("/rooms/join", roomController.JoinRoom)
		api.GET("/rooms/user", roomController.UserRooms)

		// Invitation routes
		api.POST("/invitations/send", invitationController.SendInvitation)
		api.GET("/invitations", invitationController.PendingInvitations)
		api.POST("/invitations/:id/accept", invitationController.AcceptInvitation)
		api.POST("/invitations/:id/reject", invitationController.RejectInvitation)

		// Direct message routes
		api.POST("/direct-messages", directMessageController.SendDirectMessage)
		api.GET("/direct-messages/:userId", directMessageController.DirectMessages)

		// Message routes
		api.PATCH("/messages/:id", messageController.EditMessage)
		api.POST("/messages/:id/reactions", messageController.ToggleReaction)

		// User routes
		api.PATCH("/users/update", userController.UpdateUser)
		api.GET("/users", userController.ListUsers)
	}

	// WebSocket route
	router.GET("/ws", gateway.HandleConnection)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server running on port %s", port)
	log.Printf("Swagger documentation available at http://localhost:%s/swagger/index.html", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
