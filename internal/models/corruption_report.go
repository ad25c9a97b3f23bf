package models

import "time"

// CorruptionReport is the structured ticket produced when a user completes
// the guided corruption-report flow. TicketID is the short public id the
// user receives for tracking; the four free-text fields mirror the four
// questions the flow asks.
type CorruptionReport struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	TicketID   string    `gorm:"size:16;uniqueIndex;not null"`
	UserID     string    `gorm:"size:64;not null;index"`
	Status     string    `gorm:"size:16;default:open;index"` // open, in_progress, resolved, archived
	Involved   string    `gorm:"type:text"`
	Location   string    `gorm:"type:text"`
	Time       string    `gorm:"type:text"`
	Chronology string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"index"`
	UpdatedAt  time.Time
}
