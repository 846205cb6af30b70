package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email          string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordDigest string    `json:"-"` // empty for OAuth-only accounts
	IsVerified     bool      `json:"isVerified" gorm:"not null;default:false"`

	Avatar      string   `json:"avatar,omitempty"`
	FullName    string   `json:"fullName,omitempty"`
	Bio         string   `json:"bio,omitempty"`
	Location    string   `json:"location,omitempty"`
	Interests   []string `json:"interests" gorm:"serializer:json"`
	DateOfBirth string   `json:"dateOfBirth,omitempty"`

	OAuthProvider string `json:"-" gorm:"column:oauth_provider"`
	OAuthID       string `json:"-" gorm:"column:oauth_id"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
