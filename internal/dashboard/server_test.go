package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sdnsembar01/aska/internal/db"
	"github.com/sdnsembar01/aska/internal/models"
)

func TestNewRouter_NilDB(t *testing.T) {
	_, err := newRouter(StartOpts{DB: nil})
	if err == nil {
		t.Fatal("expected error for nil db")
	}
	if !strings.Contains(err.Error(), "db is required") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "db is required")
	}
}

type dashFixture struct {
	router *gin.Engine
	gdb    *gorm.DB
}

func newDashFixture(t *testing.T, testerIDs ...string) *dashFixture {
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
	router, err := newRouter(StartOpts{DB: gdb, TesterIDs: testerIDs})
	if err != nil {
		t.Fatalf("newRouter: %v", err)
	}
	return &dashFixture{router: router, gdb: gdb}
}

func (f *dashFixture) get(t *testing.T, path string, out any) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if out != nil && rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return rec.Code
}

func (f *dashFixture) post(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload bytes.Buffer
	if err := json.NewEncoder(&payload).Encode(body); err != nil {
		t.Fatalf("encode body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func seedBullying(t *testing.T, gdb *gorm.DB, userID, severity, status string) uint {
	t.Helper()
	report := models.BullyingReport{
		UserID:      userID,
		Username:    "Budi",
		Description: "dipalak di kantin setiap hari",
		Category:    "general",
		Severity:    severity,
		Status:      status,
	}
	if err := gdb.Create(&report).Error; err != nil {
		t.Fatalf("seed bullying report: %v", err)
	}
	return report.ID
}

func TestBullyingQueueFiltersByStatus(t *testing.T) {
	f := newDashFixture(t)
	seedBullying(t, f.gdb, "111", "high", "pending")
	seedBullying(t, f.gdb, "222", "low", "resolved")

	var out struct {
		Reports []BullyingRow `json:"reports"`
	}
	if code := f.get(t, "/api/bullying?status=pending", &out); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(out.Reports) != 1 {
		t.Fatalf("got %d reports, want 1", len(out.Reports))
	}
	if out.Reports[0].UserID != "111" || out.Reports[0].Severity != "high" {
		t.Fatalf("unexpected row: %+v", out.Reports[0])
	}

	if code := f.get(t, "/api/bullying", &out); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(out.Reports) != 2 {
		t.Fatalf("unfiltered got %d reports, want 2", len(out.Reports))
	}
}

func TestBullyingUpdateAppendsEvents(t *testing.T) {
	f := newDashFixture(t)
	id := seedBullying(t, f.gdb, "111", "high", "pending")

	rec := f.post(t, fmt.Sprintf("/api/bullying/%d", id), gin.H{
		"actor":       "bu.ani",
		"status":      "in_progress",
		"assigned_to": "pak.guru.bk",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status %d: %s", rec.Code, rec.Body.String())
	}

	var detail BullyingDetail
	if code := f.get(t, fmt.Sprintf("/api/bullying/%d", id), &detail); code != http.StatusOK {
		t.Fatalf("detail status = %d", code)
	}
	if detail.Status != "in_progress" || detail.AssignedTo != "pak.guru.bk" {
		t.Fatalf("report not updated: %+v", detail)
	}
	if len(detail.Events) != 2 {
		t.Fatalf("got %d events, want 2 (status_change + assignment)", len(detail.Events))
	}
	if detail.Events[0].EventType != "status_change" || detail.Events[0].Actor != "bu.ani" {
		t.Fatalf("first event = %+v", detail.Events[0])
	}
	if !strings.Contains(string(detail.Events[0].Payload), `"to":"in_progress"`) {
		t.Fatalf("status payload = %s", detail.Events[0].Payload)
	}
	if detail.Events[1].EventType != "assignment" {
		t.Fatalf("second event = %+v", detail.Events[1])
	}
}

func TestBullyingResolveStampsResolvedAt(t *testing.T) {
	f := newDashFixture(t)
	id := seedBullying(t, f.gdb, "111", "high", "pending")

	rec := f.post(t, fmt.Sprintf("/api/bullying/%d", id), gin.H{
		"actor": "bu.ani", "status": "resolved",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status %d", rec.Code)
	}
	var detail BullyingDetail
	f.get(t, fmt.Sprintf("/api/bullying/%d", id), &detail)
	if detail.ResolvedAt == nil {
		t.Fatal("ResolvedAt not stamped")
	}
}

func TestBullyingUpdateRejectsUnknownStatus(t *testing.T) {
	f := newDashFixture(t)
	id := seedBullying(t, f.gdb, "111", "high", "pending")

	rec := f.post(t, fmt.Sprintf("/api/bullying/%d", id), gin.H{
		"actor": "bu.ani", "status": "closed",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestBullyingDetailNotFound(t *testing.T) {
	f := newDashFixture(t)
	if code := f.get(t, "/api/bullying/999", nil); code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", code)
	}
}

func TestCorruptionTicketLookupAndStatus(t *testing.T) {
	f := newDashFixture(t)
	if err := f.gdb.Create(&models.CorruptionReport{
		TicketID:   "A1B2C3D4",
		UserID:     "333",
		Status:     "open",
		Involved:   "oknum TU",
		Location:   "ruang TU",
		Time:       "kemarin sore",
		Chronology: "diminta uang administrasi tanpa kuitansi",
	}).Error; err != nil {
		t.Fatalf("seed corruption report: %v", err)
	}

	// Lookup is case-insensitive, as the public link may be retyped.
	var detail struct {
		TicketID string `json:"ticket_id"`
		Status   string `json:"status"`
		Involved string `json:"involved"`
	}
	if code := f.get(t, "/api/corruption/a1b2c3d4", &detail); code != http.StatusOK {
		t.Fatalf("lookup status = %d", code)
	}
	if detail.TicketID != "A1B2C3D4" || detail.Involved != "oknum TU" {
		t.Fatalf("detail = %+v", detail)
	}

	rec := f.post(t, "/api/corruption/A1B2C3D4/status", gin.H{"status": "in_progress"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status update = %d: %s", rec.Code, rec.Body.String())
	}
	f.get(t, "/api/corruption/A1B2C3D4", &detail)
	if detail.Status != "in_progress" {
		t.Fatalf("status = %q, want in_progress", detail.Status)
	}

	rec = f.post(t, "/api/corruption/FFFFFFFF/status", gin.H{"status": "resolved"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown ticket status = %d, want 404", rec.Code)
	}
}

func TestPsychOverviewGroupsByUser(t *testing.T) {
	f := newDashFixture(t)
	base := time.Now().Add(-time.Hour)
	sessions := []models.PsychReport{
		{UserID: "444", Username: "Sari", Message: "a", Severity: "general", Status: "resolved", CreatedAt: base},
		{UserID: "444", Username: "Sari", Message: "b", Severity: "critical", Status: "open", CreatedAt: base.Add(10 * time.Minute)},
		{UserID: "555", Username: "Dewi", Message: "c", Severity: "elevated", Status: "open", CreatedAt: base.Add(20 * time.Minute)},
	}
	for i := range sessions {
		if err := f.gdb.Create(&sessions[i]).Error; err != nil {
			t.Fatalf("seed psych report: %v", err)
		}
	}

	var out struct {
		Users []PsychUserRow `json:"users"`
	}
	if code := f.get(t, "/api/psych", &out); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(out.Users) != 2 {
		t.Fatalf("got %d users, want 2", len(out.Users))
	}
	// Newest activity first.
	if out.Users[0].UserID != "555" {
		t.Fatalf("first user = %q, want 555", out.Users[0].UserID)
	}
	var sari PsychUserRow
	for _, u := range out.Users {
		if u.UserID == "444" {
			sari = u
		}
	}
	if sari.SessionCount != 2 || sari.MaxSeverity != "critical" || sari.OpenCount != 1 {
		t.Fatalf("aggregation wrong: %+v", sari)
	}

	var detail struct {
		Sessions []PsychSessionRow `json:"sessions"`
	}
	if code := f.get(t, "/api/psych/users/444", &detail); code != http.StatusOK {
		t.Fatalf("sessions status = %d", code)
	}
	if len(detail.Sessions) != 2 || detail.Sessions[0].Severity != "critical" {
		t.Fatalf("sessions = %+v", detail.Sessions)
	}
}

func TestStatsExcludesTesters(t *testing.T) {
	f := newDashFixture(t, "999")
	rows := []models.ChatLog{
		{UserID: "111", Role: "user", Topic: "telegram", Message: "halo"},
		{UserID: "111", Role: "assistant", Topic: "telegram", Message: "hai", ResponseTimeMs: intPtr(120)},
		{UserID: "999", Role: "user", Topic: "telegram", Message: "uji coba"},
	}
	for i := range rows {
		if err := f.gdb.Create(&rows[i]).Error; err != nil {
			t.Fatalf("seed chat log: %v", err)
		}
	}
	seedBullying(t, f.gdb, "111", "high", "pending")

	var stats Stats
	if code := f.get(t, "/api/stats", &stats); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if stats.TotalMessages != 2 {
		t.Fatalf("TotalMessages = %d, want 2 (tester excluded)", stats.TotalMessages)
	}
	if stats.UniqueUsers != 1 {
		t.Fatalf("UniqueUsers = %d, want 1", stats.UniqueUsers)
	}
	if stats.BullyingPending != 1 {
		t.Fatalf("BullyingPending = %d, want 1", stats.BullyingPending)
	}
	if stats.AvgResponseTimeMs == nil || *stats.AvgResponseTimeMs != 120 {
		t.Fatalf("AvgResponseTimeMs = %v, want 120", stats.AvgResponseTimeMs)
	}

	if code := f.get(t, "/api/stats?include_testers=1", &stats); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if stats.TotalMessages != 3 {
		t.Fatalf("TotalMessages = %d, want 3 with testers included", stats.TotalMessages)
	}
}

func intPtr(v int) *int { return &v }
