package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID        string `gorm:"primaryKey;size:36"`
	Email     string `gorm:"uniqueIndex;not null;size:100"`
	Username  string `gorm:"not null;size:50"`
	Password  string `gorm:"not null"`
	Role      string `gorm:"size:16;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// Identity is the caller resolved from an access token. It is only a claim:
// the guard still checks that the user row exists.
type Identity struct {
	ID    string
	Email string
	Role  string
}
