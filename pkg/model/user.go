package model

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is an admin account. Password always holds a bcrypt hash.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserName  string    `gorm:"uniqueIndex;size:64;not null" json:"userName"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	FirstName string    `gorm:"size:128" json:"firstName"`
	LastName  string    `gorm:"size:128" json:"lastName"`
	Active    bool      `gorm:"not null" json:"active"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SetPassword replaces the stored hash with a fresh bcrypt hash of plain.
func (u *User) SetPassword(plain string) error {
	if plain == "" {
		return &ValidationError{Field: "password", Message: "password is required"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// CheckPassword reports whether plain matches the stored hash.
func (u *User) CheckPassword(plain string) bool {
	if u.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

func (u *User) Validate() error {
	u.UserName = strings.TrimSpace(u.UserName)
	if u.UserName == "" {
		return &ValidationError{Field: "userName", Message: "user name is required"}
	}
	if u.Password == "" {
		return &ValidationError{Field: "password", Message: "password is required"}
	}
	if _, err := bcrypt.Cost([]byte(u.Password)); err != nil {
		return &ValidationError{Field: "password", Message: "password is not hashed"}
	}
	return nil
}

func (u *User) BeforeSave(_ *gorm.DB) error {
	return u.Validate()
}
