package web

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/sdnsembar01/aska/internal/store"
)

const authHeaderPrefix = "Bearer "

// requireAuth resolves the bearer token and stashes the account on the
// gin context. Everything behind it answers 401 as JSON.
func (s *server) requireAuth(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), authHeaderPrefix)
	if token == "" || token == c.GetHeader("Authorization") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	user, ok := s.sessions.resolve(token)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Set("user", user)
	c.Set("token", token)
	c.Next()
}

func currentUser(c *gin.Context) authedUser {
	return c.MustGet("user").(authedUser)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	account, err := s.store.FindUserByUsername(c.Request.Context(), req.Username)
	if err == nil {
		err = bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password))
	}
	if err != nil {
		// Same answer for unknown user and wrong password.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token := s.sessions.issue(authedUser{
		ID:          account.ID,
		Username:    account.Username,
		DisplayName: account.DisplayName,
		Role:        account.Role,
	})
	if err := s.store.TouchLastLogin(c.Request.Context(), account.ID, time.Now()); err != nil {
		log.Printf("web: touch last login: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{
		"token":        token,
		"username":     account.Username,
		"display_name": account.DisplayName,
		"role":         account.Role,
	})
}

func (s *server) handleLogout(c *gin.Context) {
	s.sessions.revoke(c.MustGet("token").(string))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

func (s *server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}
	user := currentUser(c)
	name := user.DisplayName
	if name == "" {
		name = user.Username
	}

	replies, err := s.engine.Ask(c.Request.Context(), ChatUserID(user.ID), name, req.Message)
	if err != nil {
		log.Printf("web: chat: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"replies": replies})
}

type historyEntry struct {
	ID             uint      `json:"id"`
	Role           string    `json:"role"`
	Message        string    `json:"message"`
	Topic          string    `json:"topic,omitempty"`
	ResponseTimeMs *int      `json:"response_time_ms,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func (s *server) handleHistory(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	user := currentUser(c)

	rows, err := s.store.ChatHistory(c.Request.Context(), ChatUserID(user.ID), historyPageSize, offset)
	if err != nil {
		log.Printf("web: history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	entries := make([]historyEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, historyEntry{
			ID:             row.ID,
			Role:           row.Role,
			Message:        row.Message,
			Topic:          row.Topic,
			ResponseTimeMs: row.ResponseTimeMs,
			CreatedAt:      row.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"entries":   entries,
		"offset":    offset,
		"page_size": historyPageSize,
	})
}

type feedbackRequest struct {
	ChatLogID    uint   `json:"chat_log_id" binding:"required"`
	FeedbackType string `json:"feedback_type" binding:"required"`
}

func (s *server) handleSetFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chat_log_id and feedback_type are required"})
		return
	}
	user := currentUser(c)

	feedback, err := s.store.SetFeedback(c.Request.Context(), req.ChatLogID, ChatUserID(user.ID), req.FeedbackType)
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "chat message not found"})
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{
			"id":            feedback.ID,
			"chat_log_id":   feedback.ChatLogID,
			"feedback_type": feedback.FeedbackType,
		})
	}
}

func (s *server) handleDeleteFeedback(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid feedback id"})
		return
	}
	user := currentUser(c)

	err = s.store.DeleteFeedback(c.Request.Context(), uint(id), ChatUserID(user.ID))
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "feedback not found"})
	case err != nil:
		log.Printf("web: delete feedback: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	default:
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func (s *server) handleFeedbackStatus(c *gin.Context) {
	raw := c.Query("chat_log_ids")
	if raw == "" {
		c.JSON(http.StatusOK, gin.H{"status": gin.H{}})
		return
	}
	var ids []uint
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat_log_ids"})
			return
		}
		ids = append(ids, uint(id))
	}
	user := currentUser(c)

	status, err := s.store.FeedbackStatus(c.Request.Context(), ChatUserID(user.ID), ids)
	if err != nil {
		log.Printf("web: feedback status: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	out := make(map[string]gin.H, len(status))
	for chatLogID, feedback := range status {
		out[strconv.FormatUint(uint64(chatLogID), 10)] = gin.H{
			"id":            feedback.ID,
			"feedback_type": feedback.FeedbackType,
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": out})
}
