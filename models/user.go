package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	ID                      uint       `gorm:"primaryKey" json:"id"`
	Name                    string     `gorm:"size:255;not null" json:"name"`
	Email                   string     `gorm:"size:255;not null;unique" json:"email"`
	Password                string     `gorm:"size:255;not null" json:"-"`
	IsOnline                bool       `gorm:"default:false" json:"isOnline"`
	EmailVerified           bool       `gorm:"default:false" json:"emailVerified"`
	VerificationToken       *string    `gorm:"size:64;index" json:"-"`
	VerificationTokenExpiry *time.Time `json:"-"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
	Rooms                   []Room     `gorm:"many2many:room_users;" json:"-"`
}

// PublicUser is the embedded-author projection carried on every message,
// so clients never need a follow-up lookup.
type PublicUser struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}

// BeforeSave hashes the password before saving to the database
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.Password != "" && !isBcryptHash(u.Password) {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.Password = string(hashedPassword)
	}
	return nil
}

// ValidatePassword checks if the provided password matches the stored hash
func (u *User) ValidatePassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}

func isBcryptHash(s string) bool {
	return len(s) == 60 && s[0] == '$' && s[1] == '2'
}
