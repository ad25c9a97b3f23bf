package dashboard

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sdnsembar01/aska/internal/models"
)

// reportEvent holds data for a new-report SSE event.
type reportEvent struct {
	ID           uint   `json:"id"`
	UserID       string `json:"user_id"`
	Category     string `json:"category"`
	Severity     string `json:"severity"`
	Excerpt      string `json:"excerpt"`
	PendingCount int64  `json:"pending_count"`
}

// handleSSE streams newly inserted bullying reports so an open admin view
// can alert without refreshing. It polls the table; report volume is low
// enough that a listener channel would be overkill.
func handleSSE(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")

		writeSSE(c.Writer, "connected", map[string]string{"type": "connected"})
		c.Writer.Flush()

		// Only alert on reports created after the stream opened.
		var lastSeenID uint
		var latest models.BullyingReport
		if err := db.Order("id DESC").Limit(1).First(&latest).Error; err == nil {
			lastSeenID = latest.ID
		}

		ctx := c.Request.Context()
		ticker := time.NewTicker(3 * time.Second)
		heartbeat := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		defer heartbeat.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-heartbeat.C:
				writeSSE(c.Writer, "heartbeat", map[string]string{
					"timestamp": time.Now().UTC().Format(time.RFC3339),
				})
				c.Writer.Flush()
			case <-ticker.C:
				var fresh []models.BullyingReport
				db.Where("id > ?", lastSeenID).Order("id ASC").Find(&fresh)
				if len(fresh) == 0 {
					continue
				}
				lastSeenID = fresh[len(fresh)-1].ID

				var pending int64
				db.Model(&models.BullyingReport{}).
					Where("status = ?", "pending").Count(&pending)

				for _, r := range fresh {
					writeSSE(c.Writer, "bullying_report", reportEvent{
						ID:           r.ID,
						UserID:       r.UserID,
						Category:     r.Category,
						Severity:     r.Severity,
						Excerpt:      excerpt(r.Description, 120),
						PendingCount: pending,
					})
				}
				c.Writer.Flush()
			}
		}
	}
}

// writeSSE writes a single SSE event to the writer.
func writeSSE(w io.Writer, event string, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, string(jsonData))
}
