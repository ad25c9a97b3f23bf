package models

import "time"

// WebUser is an account for the web chat and admin dashboard. Telegram
// users are identified by their Telegram id and never get a row here.
type WebUser struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"size:64;uniqueIndex;not null"`
	DisplayName  string `gorm:"size:128"`
	Email        string `gorm:"size:128"`
	PasswordHash string `gorm:"size:128;not null"`
	Role         string `gorm:"size:16;default:student"` // student, teacher, admin
	IsTester     bool   `gorm:"default:false"`
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}
