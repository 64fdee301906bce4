package models

import (
	"time"
)

// Comment is a single comment or reply on a post. Replies is never persisted;
// it is filled in by the comment-tree builder when serving nested responses.
type Comment struct {
	ID              int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID          int64      `gorm:"index;not null" json:"post_id"`
	UserID          string     `gorm:"type:uuid;index;not null" json:"user_id"`
	Content         string     `gorm:"type:text;not null" json:"content"`
	ParentCommentID *int64     `gorm:"index" json:"parent_comment_id"`
	CreatedAt       time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Replies         []*Comment `gorm:"-" json:"replies"`

	Author *Profile `gorm:"foreignKey:UserID;references:ID" json:"profiles,omitempty"`
}

func (Comment) TableName() string {
	return "comments"
}
