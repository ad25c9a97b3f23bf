package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sdnsembar01/aska/internal/db"
	"github.com/sdnsembar01/aska/internal/models"
	"github.com/sdnsembar01/aska/internal/store"
)

type echoEngine struct{ asked []string }

func (e *echoEngine) Ask(ctx context.Context, userID, userName, text string) ([]string, error) {
	e.asked = append(e.asked, text)
	return []string{"jawaban untuk: " + text}, nil
}

type webFixture struct {
	router *gin.Engine
	store  *store.Store
	gdb    *gorm.DB
	engine *echoEngine
}

func newWebFixture(t *testing.T) *webFixture {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	st, err := store.New(gdb)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("rahasia123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	if err := gdb.Create(&models.WebUser{
		Username:     "siswa1",
		DisplayName:  "Siswa Satu",
		PasswordHash: string(hash),
		Role:         "student",
	}).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	engine := &echoEngine{}
	router, err := newRouter(StartOpts{Store: st, Engine: engine})
	if err != nil {
		t.Fatalf("newRouter: %v", err)
	}
	return &webFixture{router: router, store: st, gdb: gdb, engine: engine}
}

func (f *webFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *webFixture) login(t *testing.T) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/login", "", gin.H{
		"username": "siswa1", "password": "rahasia123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if out.Token == "" {
		t.Fatal("empty token")
	}
	return out.Token
}

func TestLoginRejectsBadPassword(t *testing.T) {
	f := newWebFixture(t)
	rec := f.do(t, http.MethodPost, "/api/login", "", gin.H{
		"username": "siswa1", "password": "salah",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	f := newWebFixture(t)
	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/api/chat"},
		{http.MethodGet, "/api/history"},
		{http.MethodPost, "/api/feedback"},
		{http.MethodGet, "/api/feedback/status"},
	} {
		rec := f.do(t, route.method, route.path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s status = %d, want 401", route.method, route.path, rec.Code)
		}
		if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "application/json") {
			t.Fatalf("%s %s content type = %q, want JSON", route.method, route.path, got)
		}
	}
}

func TestChatRoundTrip(t *testing.T) {
	f := newWebFixture(t)
	token := f.login(t)

	rec := f.do(t, http.MethodPost, "/api/chat", token, gin.H{"message": "jadwal kelas 5a"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Replies []string `json:"replies"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Replies) != 1 || out.Replies[0] != "jawaban untuk: jadwal kelas 5a" {
		t.Fatalf("replies = %v", out.Replies)
	}
	if len(f.engine.asked) != 1 {
		t.Fatalf("engine asked %d times", len(f.engine.asked))
	}
}

func TestHistoryScopedAndPaged(t *testing.T) {
	f := newWebFixture(t)
	token := f.login(t)
	ctx := context.Background()
	userID := ChatUserID(1)

	for i := 0; i < 12; i++ {
		if _, err := f.store.LogUserMessage(ctx, userID, "Siswa Satu", fmt.Sprintf("pesan %d", i), "web"); err != nil {
			t.Fatalf("seed row: %v", err)
		}
	}
	// Another user's rows must never show up.
	if _, err := f.store.LogUserMessage(ctx, "web-999", "Lain", "punya orang lain", "web"); err != nil {
		t.Fatalf("seed row: %v", err)
	}

	rec := f.do(t, http.MethodGet, "/api/history", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Entries []historyEntry `json:"entries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Entries) != historyPageSize {
		t.Fatalf("got %d entries, want %d", len(out.Entries), historyPageSize)
	}
	for _, entry := range out.Entries {
		if entry.Message == "punya orang lain" {
			t.Fatal("history leaked another user's rows")
		}
	}

	rec = f.do(t, http.MethodGet, "/api/history?offset=10", token, nil)
	var page2 struct {
		Entries []historyEntry `json:"entries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &page2); err != nil {
		t.Fatalf("decode page 2: %v", err)
	}
	if len(page2.Entries) != 2 {
		t.Fatalf("page 2 has %d entries, want 2", len(page2.Entries))
	}
}

func TestFeedbackLifecycleOverHTTP(t *testing.T) {
	f := newWebFixture(t)
	token := f.login(t)
	ctx := context.Background()

	replyID, err := f.store.LogAssistantReply(ctx, ChatUserID(1), "ini jawabannya", "web", nil)
	if err != nil {
		t.Fatalf("seed reply: %v", err)
	}

	rec := f.do(t, http.MethodPost, "/api/feedback", token, gin.H{
		"chat_log_id": replyID, "feedback_type": "like",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("set feedback status %d: %s", rec.Code, rec.Body.String())
	}
	var set struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &set); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = f.do(t, http.MethodGet, fmt.Sprintf("/api/feedback/status?chat_log_ids=%d", replyID), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status endpoint %d: %s", rec.Code, rec.Body.String())
	}
	var status struct {
		Status map[string]struct {
			FeedbackType string `json:"feedback_type"`
		} `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if got := status.Status[fmt.Sprint(replyID)].FeedbackType; got != "like" {
		t.Fatalf("feedback type = %q, want like", got)
	}

	rec = f.do(t, http.MethodDelete, fmt.Sprintf("/api/feedback/%d", set.ID), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status %d: %s", rec.Code, rec.Body.String())
	}
	rec = f.do(t, http.MethodDelete, fmt.Sprintf("/api/feedback/%d", set.ID), token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status %d, want 404", rec.Code)
	}
}

func TestFeedbackOnMissingRowIs404(t *testing.T) {
	f := newWebFixture(t)
	token := f.login(t)
	rec := f.do(t, http.MethodPost, "/api/feedback", token, gin.H{
		"chat_log_id": 9999, "feedback_type": "like",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newWebFixture(t)
	token := f.login(t)

	if rec := f.do(t, http.MethodPost, "/api/logout", token, nil); rec.Code != http.StatusOK {
		t.Fatalf("logout status %d", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/api/history", token, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token still accepted, status %d", rec.Code)
	}
}
