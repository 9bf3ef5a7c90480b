package store

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/sanchar-app/chat_backend/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB gives each test its own in-memory database running the same
// gorm code as the postgres deployment.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.RoomUser{},
		&models.Invitation{},
		&models.DirectMessage{},
		&models.Message{},
		&models.Reaction{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name, email string) models.User {
	t.Helper()

	user := models.User{Name: name, Email: email, Password: "secret1"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createTestRoom(t *testing.T, db *gorm.DB, d *Directory, name string, creatorID uint) models.Room {
	t.Helper()

	room, err := d.CreateRoom(name, false, creatorID, nil)
	require.NoError(t, err)
	return room
}
