package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered reader. Passwords are stored as bcrypt hashes only.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:250;not null" json:"name"`
	Email     string    `gorm:"size:250;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"size:250;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

func (u User) String() string {
	return u.Name
}
