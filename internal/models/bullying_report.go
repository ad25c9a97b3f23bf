package models

import "time"

// BullyingReport is created in a single turn the moment a bullying signal
// is detected. ChatLogID points at the user row that triggered it, so a
// report can always be traced back to the exact message.
type BullyingReport struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	ChatLogID   *uint  `gorm:"uniqueIndex"`
	UserID      string `gorm:"size:64;not null;index"`
	Username    string `gorm:"size:64"`
	Description string `gorm:"type:text;not null"`
	Category    string `gorm:"size:16;not null;index"`        // physical, sexual, general
	Severity    string `gorm:"size:16;not null;index"`        // low, medium, high, critical
	Status      string `gorm:"size:16;default:pending;index"` // pending, in_progress, resolved, spam
	Priority    bool   `gorm:"default:false"`
	AssignedTo  string `gorm:"size:64"`
	DueAt       *time.Time
	Escalated   bool      `gorm:"default:false"`
	Notes       string    `gorm:"type:text"`
	Metadata    string    `gorm:"type:jsonb"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
	ResolvedAt  *time.Time

	Events []BullyingReportEvent `gorm:"foreignKey:ReportID"`
}

// BullyingReportEvent is the append-only audit trail for a report. Every
// status, assignment, or notes change from the dashboard inserts one row
// with the acting admin and a JSON payload of what changed.
type BullyingReportEvent struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	ReportID  uint   `gorm:"not null;index"`
	Actor     string `gorm:"size:64;not null"`
	EventType string `gorm:"size:32;not null"` // status_change, assignment, notes, escalation
	Payload   string `gorm:"type:jsonb"`
	CreatedAt time.Time

	Report BullyingReport `gorm:"foreignKey:ReportID"`
}
