package models

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// Document is one chunk of school reference material (schedules,
// announcements, handbook sections) with its embedding, searched by the
// QA fallback via pgvector nearest-neighbor ordering.
type Document struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"`
	Source    string          `gorm:"size:128;index"`
	Title     string          `gorm:"size:256"`
	Content   string          `gorm:"type:text;not null"`
	Embedding pgvector.Vector `gorm:"type:vector(1536)"` // OpenAI embedding size
	CreatedAt time.Time
	UpdatedAt time.Time
}
