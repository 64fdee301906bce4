package models

import (
	"time"
)

const (
	ConnectionStatusPending  = "pending"
	ConnectionStatusAccepted = "accepted"
	ConnectionStatusRejected = "rejected"

	ConnectionTypeVibeMatch   = "vibe_match"
	ConnectionTypeEmailInvite = "email_invite"
)

// Connection links two users as an unordered pair. User1/User2 carry whatever
// ordering the creating flow used; lookups must check both orderings.
type Connection struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	User1           string    `gorm:"column:user_1;type:uuid;index;not null" json:"user_1"`
	User2           string    `gorm:"column:user_2;type:uuid;index;not null" json:"user_2"`
	Status          string    `gorm:"size:20;default:'pending'" json:"status"`
	ConnectionType  string    `gorm:"size:30" json:"connection_type"`
	SimilarityScore *float64  `json:"similarity_score,omitempty"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Connection) TableName() string {
	return "connections"
}

// Involves reports whether the given user is one side of the pair.
func (c *Connection) Involves(userID string) bool {
	return c.User1 == userID || c.User2 == userID
}

// PeerOf returns the other side of the pair, or "" when userID is not involved.
func (c *Connection) PeerOf(userID string) string {
	switch userID {
	case c.User1:
		return c.User2
	case c.User2:
		return c.User1
	}
	return ""
}
