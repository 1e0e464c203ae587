package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is the identity record behind the access gateway. The inventory core
// never touches this table except through login and seeding.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username" validate:"required"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	TokenVersion string    `gorm:"type:varchar(255);default:''" json:"-"` // For single session enforcement
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}
