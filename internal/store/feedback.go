package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sdnsembar01/aska/internal/models"
)

// SetFeedback records a like or dislike on an assistant chat row. A
// second call from the same user replaces the earlier value. Returns
// ErrNotFound when the chat row does not exist.
func (s *Store) SetFeedback(ctx context.Context, chatLogID uint, userID, feedbackType string) (*models.ChatFeedback, error) {
	if feedbackType != "like" && feedbackType != "dislike" {
		return nil, fmt.Errorf("store: invalid feedback type %q", feedbackType)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.ChatLog{}).Where("id = ?", chatLogID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("store: check chat row: %w", err)
	}
	if count == 0 {
		return nil, ErrNotFound
	}

	fb := models.ChatFeedback{
		ChatLogID:    chatLogID,
		UserID:       userID,
		FeedbackType: feedbackType,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_log_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"feedback_type"}),
	}).Create(&fb).Error
	if err != nil {
		return nil, fmt.Errorf("store: set feedback: %w", err)
	}
	return &fb, nil
}

// DeleteFeedback removes a feedback row, but only for its author.
func (s *Store) DeleteFeedback(ctx context.Context, id uint, userID string) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.ChatFeedback{})
	if result.Error != nil {
		return fmt.Errorf("store: delete feedback: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FeedbackStatus returns the user's feedback rows for the given chat log
// ids, keyed by chat log id.
func (s *Store) FeedbackStatus(ctx context.Context, userID string, chatLogIDs []uint) (map[uint]models.ChatFeedback, error) {
	status := make(map[uint]models.ChatFeedback)
	if len(chatLogIDs) == 0 {
		return status, nil
	}
	var rows []models.ChatFeedback
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND chat_log_id IN ?", userID, chatLogIDs).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("store: feedback status: %w", err)
	}
	for _, row := range rows {
		status[row.ChatLogID] = row
	}
	return status, nil
}

// FindUserByUsername looks up a web account for login.
func (s *Store) FindUserByUsername(ctx context.Context, username string) (*models.WebUser, error) {
	var user models.WebUser
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: find user: %w", err)
	}
	return &user, nil
}

// TouchLastLogin stamps the user's last successful login.
func (s *Store) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	err := s.db.WithContext(ctx).
		Model(&models.WebUser{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
	if err != nil {
		return fmt.Errorf("store: touch last login: %w", err)
	}
	return nil
}
