package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const DefaultProfilePicURL = "https://www.gravatar.com/avatar/?d=mp"

type User struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string         `gorm:"size:100;not null" json:"name"`
	Username      string         `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email         string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password      string         `gorm:"not null" json:"-"`
	ProfilePicURL string         `gorm:"size:2048" json:"profile_pic_url"`
	Role          string         `gorm:"size:20;not null;default:'user'" json:"role"`
	IsVerified    bool           `gorm:"not null;default:false" json:"is_verified"`
	IsDisabled    bool           `gorm:"not null;default:false" json:"is_disabled"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// Active reports whether the account may appear in reads: not disabled
// and not soft-deleted. Disabled or deleted users are filtered lazily at
// read time, never compacted out of stored sets.
func (u *User) Active() bool {
	return !u.IsDisabled && !u.DeletedAt.Valid
}
