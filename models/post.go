package models

import (
	"time"
)

type Post struct {
	ID        int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string      `gorm:"type:uuid;index;not null" json:"user_id"`
	Content   string      `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Media     []PostMedia `gorm:"foreignKey:PostID" json:"post_media"`
}

func (Post) TableName() string {
	return "posts"
}
