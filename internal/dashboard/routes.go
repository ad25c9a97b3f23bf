package dashboard

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// registerRoutes sets up the admin JSON API on the Gin router.
func registerRoutes(router *gin.Engine, db *gorm.DB, testerIDs []string) {
	api := router.Group("/api")

	api.GET("/stats", handleStats(db, testerIDs))

	api.GET("/bullying", handleBullyingQueue(db))
	api.GET("/bullying/:id", handleBullyingDetail(db))
	api.POST("/bullying/:id", handleBullyingUpdate(db))

	api.GET("/corruption", handleCorruptionList(db))
	api.GET("/corruption/:ticket", handleCorruptionDetail(db))
	api.POST("/corruption/:ticket/status", handleCorruptionStatus(db))

	api.GET("/psych", handlePsychOverview(db))
	api.GET("/psych/users/:user_id", handlePsychSessions(db))

	api.GET("/events", handleSSE(db))
}

func handleStats(db *gorm.DB, testerIDs []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ids := testerIDs
		if c.Query("include_testers") == "1" {
			ids = nil
		}
		stats, err := GetStats(db, ids)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func handleBullyingQueue(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := BullyingQueue(db, c.Query("status"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"reports": rows})
	}
}

func handleBullyingDetail(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
			return
		}
		detail, err := GetBullyingDetail(db, uint(id))
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		default:
			c.JSON(http.StatusOK, detail)
		}
	}
}

type bullyingUpdateRequest struct {
	Actor      string `json:"actor" binding:"required"`
	Status     string `json:"status"`
	AssignedTo string `json:"assigned_to"`
	Notes      string `json:"notes"`
}

func handleBullyingUpdate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
			return
		}
		var req bullyingUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "actor is required"})
			return
		}

		err = UpdateBullyingReport(db, uint(id), BullyingUpdate{
			Actor:      req.Actor,
			Status:     req.Status,
			AssignedTo: req.AssignedTo,
			Notes:      req.Notes,
		})
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		case err != nil:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusOK, gin.H{"ok": true})
		}
	}
}

func handleCorruptionList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := CorruptionList(db, c.Query("status"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"reports": rows})
	}
}

func handleCorruptionDetail(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := GetCorruptionByTicket(db, c.Param("ticket"))
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		default:
			c.JSON(http.StatusOK, gin.H{
				"ticket_id":  report.TicketID,
				"status":     report.Status,
				"involved":   report.Involved,
				"location":   report.Location,
				"time":       report.Time,
				"chronology": report.Chronology,
				"created_at": report.CreatedAt,
			})
		}
	}
}

type corruptionStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func handleCorruptionStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req corruptionStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
			return
		}
		err := UpdateCorruptionStatus(db, c.Param("ticket"), req.Status)
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
		case err != nil:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusOK, gin.H{"ok": true})
		}
	}
}

func handlePsychOverview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := PsychOverview(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"users": rows})
	}
}

func handlePsychSessions(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := PsychSessionsForUser(db, c.Param("user_id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"sessions": rows})
	}
}
