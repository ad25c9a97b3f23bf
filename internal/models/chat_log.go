package models

import "time"

// ChatLog is the append-only conversation log. Every processed user turn
// appends one role=user row; every delivered reply appends one
// role=assistant row. Rows are never updated after insert.
type ChatLog struct {
	ID             uint   `gorm:"primaryKey;autoIncrement"`
	UserID         string `gorm:"size:64;not null;index:idx_chat_user_created"`
	Username       string `gorm:"size:64"`
	Role           string `gorm:"size:16;not null"` // "user" or "assistant"
	Topic          string `gorm:"size:32;index"`    // channel tag: telegram, web, voice
	Message        string `gorm:"type:text;not null"`
	ResponseTimeMs *int
	CreatedAt      time.Time `gorm:"index:idx_chat_user_created"`
}

// ChatFeedback records a like/dislike a web user left on an assistant
// reply. One row per (chat log, user) pair; changing your mind replaces
// the row.
type ChatFeedback struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	ChatLogID    uint   `gorm:"not null;uniqueIndex:idx_feedback_log_user"`
	UserID       string `gorm:"size:64;not null;uniqueIndex:idx_feedback_log_user"`
	FeedbackType string `gorm:"size:8;not null"` // "like" or "dislike"
	CreatedAt    time.Time

	ChatLog ChatLog `gorm:"foreignKey:ChatLogID"`
}
