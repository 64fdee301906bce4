package models

import (
	"time"
)

// Profile mirrors the hosted identity provider's user record. The provider owns
// credentials; this table only carries the public-facing fields.
type Profile struct {
	ID              string    `gorm:"type:uuid;primaryKey" json:"id"`
	FullName        string    `json:"full_name"`
	Email           string    `gorm:"unique" json:"email"`
	AvatarURL       string    `json:"avatar_url"`
	Bio             string    `gorm:"type:text" json:"bio"`
	IsActive        bool      `gorm:"default:true" json:"is_active"`
	ProfileComplete bool      `gorm:"default:false" json:"profile_complete"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}
