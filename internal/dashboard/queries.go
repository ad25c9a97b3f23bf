package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sdnsembar01/aska/internal/models"
)

// ErrNotFound is returned when a report lookup matches nothing.
var ErrNotFound = errors.New("dashboard: not found")

var bullyingStatuses = map[string]bool{
	"pending":     true,
	"in_progress": true,
	"resolved":    true,
	"spam":        true,
}

var corruptionStatuses = map[string]bool{
	"open":        true,
	"in_progress": true,
	"resolved":    true,
	"archived":    true,
}

// BullyingRow holds one queue entry for display.
type BullyingRow struct {
	ID         uint       `json:"id"`
	UserID     string     `json:"user_id"`
	Username   string     `json:"username,omitempty"`
	Category   string     `json:"category"`
	Severity   string     `json:"severity"`
	Status     string     `json:"status"`
	AssignedTo string     `json:"assigned_to,omitempty"`
	Excerpt    string     `json:"excerpt"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// BullyingQueue returns reports newest first, optionally filtered by status.
func BullyingQueue(db *gorm.DB, status string) ([]BullyingRow, error) {
	q := db.Model(&models.BullyingReport{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var reports []models.BullyingReport
	if err := q.Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, err
	}

	rows := make([]BullyingRow, len(reports))
	for i, r := range reports {
		rows[i] = BullyingRow{
			ID:         r.ID,
			UserID:     r.UserID,
			Username:   r.Username,
			Category:   r.Category,
			Severity:   r.Severity,
			Status:     r.Status,
			AssignedTo: r.AssignedTo,
			Excerpt:    excerpt(r.Description, 120),
			CreatedAt:  r.CreatedAt,
			ResolvedAt: r.ResolvedAt,
		}
	}
	return rows, nil
}

// BullyingEventRow is one audit-trail entry.
type BullyingEventRow struct {
	ID        uint            `json:"id"`
	Actor     string          `json:"actor"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// BullyingDetail is the full report plus its audit trail.
type BullyingDetail struct {
	ID          uint               `json:"id"`
	UserID      string             `json:"user_id"`
	Username    string             `json:"username,omitempty"`
	Description string             `json:"description"`
	Category    string             `json:"category"`
	Severity    string             `json:"severity"`
	Status      string             `json:"status"`
	AssignedTo  string             `json:"assigned_to,omitempty"`
	Notes       string             `json:"notes,omitempty"`
	ChatLogID   *uint              `json:"chat_log_id,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	ResolvedAt  *time.Time         `json:"resolved_at,omitempty"`
	Events      []BullyingEventRow `json:"events"`
}

// GetBullyingDetail loads one report with its events, oldest event first.
func GetBullyingDetail(db *gorm.DB, id uint) (*BullyingDetail, error) {
	var report models.BullyingReport
	err := db.Preload("Events", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("id ASC")
	}).First(&report, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	events := make([]BullyingEventRow, len(report.Events))
	for i, e := range report.Events {
		events[i] = BullyingEventRow{
			ID:        e.ID,
			Actor:     e.Actor,
			EventType: e.EventType,
			Payload:   json.RawMessage(e.Payload),
			CreatedAt: e.CreatedAt,
		}
	}
	return &BullyingDetail{
		ID:          report.ID,
		UserID:      report.UserID,
		Username:    report.Username,
		Description: report.Description,
		Category:    report.Category,
		Severity:    report.Severity,
		Status:      report.Status,
		AssignedTo:  report.AssignedTo,
		Notes:       report.Notes,
		ChatLogID:   report.ChatLogID,
		CreatedAt:   report.CreatedAt,
		UpdatedAt:   report.UpdatedAt,
		ResolvedAt:  report.ResolvedAt,
		Events:      events,
	}, nil
}

// BullyingUpdate describes one dashboard change to a report. Empty fields
// are left untouched.
type BullyingUpdate struct {
	Actor      string
	Status     string
	AssignedTo string
	Notes      string
}

// UpdateBullyingReport applies the change and appends one audit event per
// touched field, all in a single transaction. A move to resolved or spam
// stamps ResolvedAt.
func UpdateBullyingReport(db *gorm.DB, id uint, update BullyingUpdate) error {
	if update.Actor == "" {
		return fmt.Errorf("dashboard: actor is required")
	}
	if update.Status != "" && !bullyingStatuses[update.Status] {
		return fmt.Errorf("dashboard: unknown status %q", update.Status)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var report models.BullyingReport
		if err := tx.First(&report, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		now := time.Now().UTC()
		if update.Status != "" && update.Status != report.Status {
			payload, _ := json.Marshal(map[string]string{
				"from": report.Status,
				"to":   update.Status,
			})
			if err := tx.Create(&models.BullyingReportEvent{
				ReportID:  report.ID,
				Actor:     update.Actor,
				EventType: "status_change",
				Payload:   string(payload),
			}).Error; err != nil {
				return err
			}
			report.Status = update.Status
			if update.Status == "resolved" || update.Status == "spam" {
				report.ResolvedAt = &now
			}
		}
		if update.AssignedTo != "" && update.AssignedTo != report.AssignedTo {
			payload, _ := json.Marshal(map[string]string{
				"from": report.AssignedTo,
				"to":   update.AssignedTo,
			})
			if err := tx.Create(&models.BullyingReportEvent{
				ReportID:  report.ID,
				Actor:     update.Actor,
				EventType: "assignment",
				Payload:   string(payload),
			}).Error; err != nil {
				return err
			}
			report.AssignedTo = update.AssignedTo
		}
		if update.Notes != "" {
			payload, _ := json.Marshal(map[string]string{"notes": update.Notes})
			if err := tx.Create(&models.BullyingReportEvent{
				ReportID:  report.ID,
				Actor:     update.Actor,
				EventType: "notes",
				Payload:   string(payload),
			}).Error; err != nil {
				return err
			}
			report.Notes = update.Notes
		}

		return tx.Save(&report).Error
	})
}

// CorruptionRow holds one ticket for the list view.
type CorruptionRow struct {
	ID        uint      `json:"id"`
	TicketID  string    `json:"ticket_id"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	Involved  string    `json:"involved"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}

// CorruptionList returns tickets newest first, optionally by status.
func CorruptionList(db *gorm.DB, status string) ([]CorruptionRow, error) {
	q := db.Model(&models.CorruptionReport{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var reports []models.CorruptionReport
	if err := q.Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, err
	}

	rows := make([]CorruptionRow, len(reports))
	for i, r := range reports {
		rows[i] = CorruptionRow{
			ID:        r.ID,
			TicketID:  r.TicketID,
			UserID:    r.UserID,
			Status:    r.Status,
			Involved:  excerpt(r.Involved, 80),
			Location:  excerpt(r.Location, 80),
			CreatedAt: r.CreatedAt,
		}
	}
	return rows, nil
}

// GetCorruptionByTicket resolves a ticket id (case-insensitive) to the
// full report. This backs the status link the bot hands out.
func GetCorruptionByTicket(db *gorm.DB, ticketID string) (*models.CorruptionReport, error) {
	var report models.CorruptionReport
	err := db.Where("upper(ticket_id) = upper(?)", ticketID).First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// UpdateCorruptionStatus moves a ticket to a new status.
func UpdateCorruptionStatus(db *gorm.DB, ticketID, status string) error {
	if !corruptionStatuses[status] {
		return fmt.Errorf("dashboard: unknown status %q", status)
	}
	res := db.Model(&models.CorruptionReport{}).
		Where("upper(ticket_id) = upper(?)", ticketID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// PsychUserRow groups a user's counseling sessions for the overview.
type PsychUserRow struct {
	UserID       string    `json:"user_id"`
	Username     string    `json:"username,omitempty"`
	SessionCount int       `json:"session_count"`
	MaxSeverity  string    `json:"max_severity"`
	OpenCount    int       `json:"open_count"`
	LastSession  time.Time `json:"last_session"`
}

// PsychOverview returns one row per user across all their sessions, most
// recently active first. Severity aggregation follows the session
// ranking: critical above elevated above general.
func PsychOverview(db *gorm.DB) ([]PsychUserRow, error) {
	var reports []models.PsychReport
	if err := db.Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, err
	}

	rank := map[string]int{"general": 1, "elevated": 2, "critical": 3}
	byUser := make(map[string]*PsychUserRow)
	var order []string
	for _, r := range reports {
		row, ok := byUser[r.UserID]
		if !ok {
			row = &PsychUserRow{
				UserID:      r.UserID,
				Username:    r.Username,
				MaxSeverity: r.Severity,
				LastSession: r.CreatedAt,
			}
			byUser[r.UserID] = row
			order = append(order, r.UserID)
		}
		row.SessionCount++
		if rank[r.Severity] > rank[row.MaxSeverity] {
			row.MaxSeverity = r.Severity
		}
		if r.Status == "open" {
			row.OpenCount++
		}
	}

	rows := make([]PsychUserRow, 0, len(order))
	for _, id := range order {
		rows = append(rows, *byUser[id])
	}
	return rows, nil
}

// PsychSessionRow is one persisted counseling session.
type PsychSessionRow struct {
	ID        uint            `json:"id"`
	Summary   string          `json:"summary"`
	Message   string          `json:"message"`
	Severity  string          `json:"severity"`
	Status    string          `json:"status"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// PsychSessionsForUser returns a user's sessions newest first.
func PsychSessionsForUser(db *gorm.DB, userID string) ([]PsychSessionRow, error) {
	var reports []models.PsychReport
	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, err
	}

	rows := make([]PsychSessionRow, len(reports))
	for i, r := range reports {
		rows[i] = PsychSessionRow{
			ID:        r.ID,
			Summary:   r.Summary,
			Message:   r.Message,
			Severity:  r.Severity,
			Status:    r.Status,
			Metadata:  json.RawMessage(r.Metadata),
			CreatedAt: r.CreatedAt,
		}
	}
	return rows, nil
}

// Stats is the headline numbers block for the admin landing view.
type Stats struct {
	TotalMessages     int64            `json:"total_messages"`
	UniqueUsers       int64            `json:"unique_users"`
	MessagesByTopic   map[string]int64 `json:"messages_by_topic"`
	AvgResponseTimeMs *float64         `json:"avg_response_time_ms,omitempty"`
	BullyingPending   int64            `json:"bullying_pending"`
	CorruptionOpen    int64            `json:"corruption_open"`
	PsychOpen         int64            `json:"psych_open"`
}

// GetStats aggregates chat and report counts. Rows from testerIDs are
// excluded so internal test traffic does not skew the numbers.
func GetStats(db *gorm.DB, testerIDs []string) (*Stats, error) {
	chats := func() *gorm.DB {
		q := db.Model(&models.ChatLog{})
		if len(testerIDs) > 0 {
			q = q.Where("user_id NOT IN ?", testerIDs)
		}
		return q
	}

	stats := &Stats{MessagesByTopic: make(map[string]int64)}
	if err := chats().Count(&stats.TotalMessages).Error; err != nil {
		return nil, err
	}
	if err := chats().Distinct("user_id").Count(&stats.UniqueUsers).Error; err != nil {
		return nil, err
	}

	type topicCount struct {
		Topic string
		Count int64
	}
	var topics []topicCount
	if err := chats().Select("topic, count(*) as count").
		Group("topic").Find(&topics).Error; err != nil {
		return nil, err
	}
	for _, tc := range topics {
		stats.MessagesByTopic[tc.Topic] = tc.Count
	}

	var avg struct{ Avg *float64 }
	if err := chats().Select("avg(response_time_ms) as avg").
		Where("response_time_ms IS NOT NULL").
		Scan(&avg).Error; err != nil {
		return nil, err
	}
	stats.AvgResponseTimeMs = avg.Avg

	if err := db.Model(&models.BullyingReport{}).
		Where("status = ?", "pending").Count(&stats.BullyingPending).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.CorruptionReport{}).
		Where("status = ?", "open").Count(&stats.CorruptionOpen).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.PsychReport{}).
		Where("status = ?", "open").Count(&stats.PsychOpen).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

func excerpt(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
