package models

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

// gormTag extracts the gorm tag from a struct field.
func gormTag(t *testing.T, typ reflect.Type, fieldName string) string {
	t.Helper()
	f, ok := typ.FieldByName(fieldName)
	if !ok {
		t.Fatalf("%s.%s: field not found", typ.Name(), fieldName)
	}
	return f.Tag.Get("gorm")
}

// assertGormTag checks that a struct field's gorm tag contains the expected value.
func assertGormTag(t *testing.T, typ reflect.Type, fieldName, expected string) {
	t.Helper()
	tag := gormTag(t, typ, fieldName)
	if !strings.Contains(tag, expected) {
		t.Errorf("%s.%s gorm tag = %q, want to contain %q", typ.Name(), fieldName, tag, expected)
	}
}

// assertFieldType checks that a struct field has the expected Go type.
func assertFieldType(t *testing.T, typ reflect.Type, fieldName, expectedType string) {
	t.Helper()
	f, ok := typ.FieldByName(fieldName)
	if !ok {
		t.Fatalf("%s.%s: field not found", typ.Name(), fieldName)
	}
	got := f.Type.String()
	if got != expectedType {
		t.Errorf("%s.%s type = %q, want %q", typ.Name(), fieldName, got, expectedType)
	}
}

func TestChatLog_Fields(t *testing.T) {
	typ := reflect.TypeOf(ChatLog{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "ID", "autoIncrement")
	assertGormTag(t, typ, "UserID", "size:64")
	assertGormTag(t, typ, "UserID", "not null")
	assertGormTag(t, typ, "UserID", "idx_chat_user_created")
	assertGormTag(t, typ, "Role", "size:16")
	assertGormTag(t, typ, "Role", "not null")
	assertGormTag(t, typ, "Topic", "size:32")
	assertGormTag(t, typ, "Topic", "index")
	assertGormTag(t, typ, "Message", "type:text")
	assertGormTag(t, typ, "Message", "not null")
	assertGormTag(t, typ, "CreatedAt", "idx_chat_user_created")

	assertFieldType(t, typ, "ID", "uint")
	assertFieldType(t, typ, "ResponseTimeMs", "*int")
	assertFieldType(t, typ, "CreatedAt", "time.Time")
}

func TestChatFeedback_Fields(t *testing.T) {
	typ := reflect.TypeOf(ChatFeedback{})

	// One feedback row per (chat log, user) pair.
	assertGormTag(t, typ, "ChatLogID", "uniqueIndex:idx_feedback_log_user")
	assertGormTag(t, typ, "UserID", "uniqueIndex:idx_feedback_log_user")
	assertGormTag(t, typ, "FeedbackType", "size:8")
	assertGormTag(t, typ, "FeedbackType", "not null")
	assertGormTag(t, typ, "ChatLog", "foreignKey:ChatLogID")

	assertFieldType(t, typ, "ChatLogID", "uint")
	assertFieldType(t, typ, "ChatLog", "models.ChatLog")
}

func TestBullyingReport_Fields(t *testing.T) {
	typ := reflect.TypeOf(BullyingReport{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "ChatLogID", "uniqueIndex")
	assertGormTag(t, typ, "UserID", "size:64")
	assertGormTag(t, typ, "UserID", "index")
	assertGormTag(t, typ, "Description", "type:text")
	assertGormTag(t, typ, "Description", "not null")
	assertGormTag(t, typ, "Category", "size:16")
	assertGormTag(t, typ, "Category", "index")
	assertGormTag(t, typ, "Severity", "size:16")
	assertGormTag(t, typ, "Severity", "index")
	assertGormTag(t, typ, "Status", "default:pending")
	assertGormTag(t, typ, "Status", "index")
	assertGormTag(t, typ, "Priority", "default:false")
	assertGormTag(t, typ, "Escalated", "default:false")
	assertGormTag(t, typ, "AssignedTo", "size:64")
	assertGormTag(t, typ, "Notes", "type:text")
	assertGormTag(t, typ, "Metadata", "type:jsonb")

	assertFieldType(t, typ, "ChatLogID", "*uint")
	assertFieldType(t, typ, "DueAt", "*time.Time")
	assertFieldType(t, typ, "ResolvedAt", "*time.Time")
	assertFieldType(t, typ, "Priority", "bool")
	assertFieldType(t, typ, "Escalated", "bool")
}

func TestBullyingReport_Relations(t *testing.T) {
	typ := reflect.TypeOf(BullyingReport{})

	assertGormTag(t, typ, "Events", "foreignKey:ReportID")
	assertFieldType(t, typ, "Events", "[]models.BullyingReportEvent")
}

func TestBullyingReportEvent_Fields(t *testing.T) {
	typ := reflect.TypeOf(BullyingReportEvent{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "ReportID", "not null")
	assertGormTag(t, typ, "ReportID", "index")
	assertGormTag(t, typ, "Actor", "size:64")
	assertGormTag(t, typ, "Actor", "not null")
	assertGormTag(t, typ, "EventType", "size:32")
	assertGormTag(t, typ, "Payload", "type:jsonb")
	assertGormTag(t, typ, "Report", "foreignKey:ReportID")

	assertFieldType(t, typ, "ReportID", "uint")
	assertFieldType(t, typ, "CreatedAt", "time.Time")
}

func TestCorruptionReport_Fields(t *testing.T) {
	typ := reflect.TypeOf(CorruptionReport{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "TicketID", "size:16")
	assertGormTag(t, typ, "TicketID", "uniqueIndex")
	assertGormTag(t, typ, "TicketID", "not null")
	assertGormTag(t, typ, "UserID", "size:64")
	assertGormTag(t, typ, "UserID", "index")
	assertGormTag(t, typ, "Status", "default:open")
	assertGormTag(t, typ, "Status", "index")
	assertGormTag(t, typ, "Involved", "type:text")
	assertGormTag(t, typ, "Location", "type:text")
	assertGormTag(t, typ, "Time", "type:text")
	assertGormTag(t, typ, "Chronology", "type:text")

	assertFieldType(t, typ, "TicketID", "string")
	assertFieldType(t, typ, "CreatedAt", "time.Time")
	assertFieldType(t, typ, "UpdatedAt", "time.Time")
}

func TestPsychReport_Fields(t *testing.T) {
	typ := reflect.TypeOf(PsychReport{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "ChatLogID", "index")
	assertGormTag(t, typ, "UserID", "size:64")
	assertGormTag(t, typ, "UserID", "index")
	assertGormTag(t, typ, "Message", "type:text")
	assertGormTag(t, typ, "Message", "not null")
	assertGormTag(t, typ, "Summary", "type:text")
	assertGormTag(t, typ, "Severity", "size:16")
	assertGormTag(t, typ, "Severity", "index")
	assertGormTag(t, typ, "Status", "default:open")
	assertGormTag(t, typ, "Metadata", "type:jsonb")

	assertFieldType(t, typ, "ChatLogID", "*uint")
	assertFieldType(t, typ, "CreatedAt", "time.Time")
}

func TestWebUser_Fields(t *testing.T) {
	typ := reflect.TypeOf(WebUser{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "Username", "size:64")
	assertGormTag(t, typ, "Username", "uniqueIndex")
	assertGormTag(t, typ, "Username", "not null")
	assertGormTag(t, typ, "PasswordHash", "size:128")
	assertGormTag(t, typ, "PasswordHash", "not null")
	assertGormTag(t, typ, "Role", "default:student")
	assertGormTag(t, typ, "IsTester", "default:false")

	assertFieldType(t, typ, "IsTester", "bool")
	assertFieldType(t, typ, "LastLoginAt", "*time.Time")
}

func TestDocument_Fields(t *testing.T) {
	typ := reflect.TypeOf(Document{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "Source", "size:128")
	assertGormTag(t, typ, "Source", "index")
	assertGormTag(t, typ, "Title", "size:256")
	assertGormTag(t, typ, "Content", "type:text")
	assertGormTag(t, typ, "Content", "not null")
	assertGormTag(t, typ, "Embedding", "type:vector(1536)")

	assertFieldType(t, typ, "Embedding", "pgvector.Vector")
}

func TestChatLog_Instantiation(t *testing.T) {
	ms := 420
	now := time.Now()
	row := ChatLog{
		ID:             1,
		UserID:         "123456789",
		Username:       "budi",
		Role:           "assistant",
		Topic:          "telegram",
		Message:        "Halo! Ada yang bisa ASKA bantu?",
		ResponseTimeMs: &ms,
		CreatedAt:      now,
	}
	if row.Role != "assistant" {
		t.Errorf("Role = %q, want %q", row.Role, "assistant")
	}
	if *row.ResponseTimeMs != 420 {
		t.Errorf("ResponseTimeMs = %d, want 420", *row.ResponseTimeMs)
	}
}

func TestBullyingReport_Instantiation(t *testing.T) {
	logID := uint(42)
	r := BullyingReport{
		ChatLogID:   &logID,
		UserID:      "123456789",
		Username:    "budi",
		Description: "aku ditendang sama kakak kelas",
		Category:    "physical",
		Severity:    "high",
		Status:      "pending",
		Metadata:    `{"source":"telegram"}`,
	}
	if r.Category != "physical" {
		t.Errorf("Category = %q, want %q", r.Category, "physical")
	}
	if *r.ChatLogID != 42 {
		t.Errorf("ChatLogID = %d, want 42", *r.ChatLogID)
	}
	if r.ResolvedAt != nil {
		t.Error("ResolvedAt should be nil for a pending report")
	}
}

func TestCorruptionReport_Instantiation(t *testing.T) {
	r := CorruptionReport{
		TicketID:   "A1B2C3D4",
		UserID:     "123456789",
		Status:     "open",
		Involved:   "Pak X",
		Location:   "ruang TU",
		Time:       "kemarin sore",
		Chronology: "beliau minta uang tambahan untuk formulir",
	}
	if r.TicketID != "A1B2C3D4" {
		t.Errorf("TicketID = %q, want %q", r.TicketID, "A1B2C3D4")
	}
	if r.Status != "open" {
		t.Errorf("Status = %q, want %q", r.Status, "open")
	}
}

func TestPsychReport_Instantiation(t *testing.T) {
	logID := uint(7)
	r := PsychReport{
		ChatLogID: &logID,
		UserID:    "123456789",
		Username:  "budi",
		Message:   "aku sedih banget nggak kuat\n\nudah seminggu gini terus",
		Severity:  "elevated",
		Status:    "open",
		Metadata:  `{"ended_by":"stage_complete","message_count":2}`,
	}
	if r.Severity != "elevated" {
		t.Errorf("Severity = %q, want %q", r.Severity, "elevated")
	}
	if !strings.Contains(r.Message, "\n\n") {
		t.Error("Message should join utterances with a blank line")
	}
}
