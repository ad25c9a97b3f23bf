package models

import "time"

// PsychReport holds one counseling session aggregated into a single row,
// written when the session ends (stage complete, user stop, declined
// confirmation, or idle timeout). Message is the user's utterances joined
// in order; Severity is the highest level observed during the session.
// ChatLogID points at the first user message of the session.
type PsychReport struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	ChatLogID *uint     `gorm:"index"`
	UserID    string    `gorm:"size:64;not null;index"`
	Username  string    `gorm:"size:64"`
	Message   string    `gorm:"type:text;not null"`
	Summary   string    `gorm:"type:text"`
	Severity  string    `gorm:"size:16;not null;index"`     // general, elevated, critical
	Status    string    `gorm:"size:16;default:open;index"` // open, in_progress, resolved, archived
	Metadata  string    `gorm:"type:jsonb"`
	CreatedAt time.Time `gorm:"index"`
}
