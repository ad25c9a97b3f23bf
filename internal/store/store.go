// Package store is the persistence adapter for the conversation engine:
// the append-only chat log, the three report tables, and chat feedback.
// Dashboard-side queries live in internal/dashboard; this package only
// covers what the router and the web API need per turn.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/sdnsembar01/aska/internal/models"
)

// AssistantName is the username recorded on assistant chat rows.
const AssistantName = "ASKA"

// Chat log roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrNotFound is returned when a referenced row does not exist or the
// caller is not its author.
var ErrNotFound = errors.New("store: not found")

// Store wraps the GORM handle behind the operations the router needs.
type Store struct {
	db *gorm.DB
}

// New creates a Store.
func New(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("store: db handle is required")
	}
	return &Store{db: db}, nil
}

// LogUserMessage appends a role=user chat row and returns its id.
func (s *Store) LogUserMessage(ctx context.Context, userID, username, text, topic string) (uint, error) {
	row := models.ChatLog{
		UserID:   userID,
		Username: username,
		Role:     RoleUser,
		Topic:    topic,
		Message:  text,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, fmt.Errorf("store: log user message: %w", err)
	}
	return row.ID, nil
}

// LogAssistantReply appends a role=assistant chat row. responseTimeMs is
// recorded when non-nil (the QA fallback measures it; scripted flows
// don't).
func (s *Store) LogAssistantReply(ctx context.Context, userID, text, topic string, responseTimeMs *int) (uint, error) {
	row := models.ChatLog{
		UserID:         userID,
		Username:       AssistantName,
		Role:           RoleAssistant,
		Topic:          topic,
		Message:        text,
		ResponseTimeMs: responseTimeMs,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, fmt.Errorf("store: log assistant reply: %w", err)
	}
	return row.ID, nil
}

// ChatHistory returns the user's chat rows newest first.
func (s *Store) ChatHistory(ctx context.Context, userID string, limit, offset int) ([]models.ChatLog, error) {
	var rows []models.ChatLog
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("store: chat history: %w", err)
	}
	return rows, nil
}

// CreateBullyingReport inserts a bullying report row.
func (s *Store) CreateBullyingReport(ctx context.Context, report *models.BullyingReport) error {
	if err := s.db.WithContext(ctx).Create(report).Error; err != nil {
		return fmt.Errorf("store: create bullying report: %w", err)
	}
	return nil
}

// CreateCorruptionReport inserts a corruption ticket row.
func (s *Store) CreateCorruptionReport(ctx context.Context, report *models.CorruptionReport) error {
	if err := s.db.WithContext(ctx).Create(report).Error; err != nil {
		return fmt.Errorf("store: create corruption report: %w", err)
	}
	return nil
}

// CreatePsychReport inserts the aggregated counseling report row.
func (s *Store) CreatePsychReport(ctx context.Context, report *models.PsychReport) error {
	if err := s.db.WithContext(ctx).Create(report).Error; err != nil {
		return fmt.Errorf("store: create psych report: %w", err)
	}
	return nil
}
