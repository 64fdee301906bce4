package models

import (
	"time"
)

const (
	SelfieStatusPending = "pending"
	SelfieStatusMatched = "matched"
)

// SelfieCandidate is one pending upload awaiting a vibe match. The image bytes
// and embedding live in the matcher service; this row only tracks consumption.
type SelfieCandidate struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"type:uuid;index;not null" json:"user_id"`
	Status    string    `gorm:"size:20;default:'pending';index" json:"status"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (SelfieCandidate) TableName() string {
	return "selfie_candidates"
}
