package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sdnsembar01/aska/internal/ai"
	"github.com/sdnsembar01/aska/internal/db"
	"github.com/sdnsembar01/aska/internal/models"
	"github.com/sdnsembar01/aska/internal/responses"
	"github.com/sdnsembar01/aska/internal/store"
	"github.com/sdnsembar01/aska/internal/textnorm"
)

type fakeQA struct {
	answer string
	found  bool
	err    error
	asked  []string
}

func (f *fakeQA) Answer(ctx context.Context, question string, history []ai.Turn) (string, bool, error) {
	f.asked = append(f.asked, question)
	return f.answer, f.found, f.err
}

type routerFixture struct {
	router   *Router
	adapter  *MockAdapter
	sessions *SessionStore
	clock    *fakeClock
	gdb      *gorm.DB
}

func newRouterFixture(t *testing.T, qa QAService) *routerFixture {
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

	clock := newFakeClock()
	sessions := newTestSessions(t, clock)
	adapter := NewMockAdapter()
	if err := adapter.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	router, err := NewRouter(RouterOpts{
		Store:         st,
		Sessions:      sessions,
		Adapter:       adapter,
		Norm:          textnorm.NewNormalizer("tanyaaska_bot"),
		QA:            qa,
		PublicBaseURL: "https://aska.example.id",
		Seed:          1,
		RetryDelay:    time.Millisecond,
		Out:           io.Discard,
	})
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	return &routerFixture{router: router, adapter: adapter, sessions: sessions, clock: clock, gdb: gdb}
}

var msgSeq int

func (f *routerFixture) say(t *testing.T, text string) string {
	t.Helper()
	msgSeq++
	before := f.adapter.SentCount()
	f.router.Handle(context.Background(), InboundMessage{
		Channel:   ChannelTelegram,
		ChatID:    "chat-1",
		MessageID: fmt.Sprintf("m-%d", msgSeq),
		UserID:    "u1",
		UserName:  "budi",
		Text:      text,
		Timestamp: f.clock.Now(),
	})
	if f.adapter.SentCount() == before {
		return ""
	}
	last, _ := f.adapter.LastSent()
	return last.Text
}

func TestRouter_BullyingSingleTurn(t *testing.T) {
	f := newRouterFixture(t, nil)

	reply := f.say(t, "aku ditendang sama kakak kelas")
	if reply != responses.BullyingAckFallback(responses.BullyingPhysical) {
		t.Fatalf("unexpected ack: %q", reply)
	}

	var report models.BullyingReport
	if err := f.gdb.First(&report).Error; err != nil {
		t.Fatalf("load report: %v", err)
	}
	if report.Category != responses.BullyingPhysical {
		t.Fatalf("category = %q, want physical", report.Category)
	}
	if report.Severity != responses.SeverityHigh {
		t.Fatalf("severity = %q, want high", report.Severity)
	}
	if report.Status != "pending" {
		t.Fatalf("status = %q, want pending", report.Status)
	}
	if report.ChatLogID == nil {
		t.Fatal("report not linked to the chat row")
	}

	// No session lingers; the flow is one turn.
	if f.sessions.Session(Key(ChannelTelegram, "u1")).hasFlows() {
		t.Fatal("bullying must not open a session")
	}
}

func TestRouter_CorruptionHappyPath(t *testing.T) {
	f := newRouterFixture(t, nil)

	if reply := f.say(t, "aku mau lapor korupsi dana kantin"); !strings.Contains(reply, "Pelaku:") {
		t.Fatalf("expected first question, got %q", reply)
	}
	if reply := f.say(t, "pak budi bendahara"); !strings.Contains(reply, "Lokasi:") {
		t.Fatalf("expected location question, got %q", reply)
	}
	if reply := f.say(t, "ruang tata usaha"); !strings.Contains(reply, "Waktu:") {
		t.Fatalf("expected time question, got %q", reply)
	}
	if reply := f.say(t, "kemarin siang jam istirahat"); !strings.Contains(reply, "Kronologi:") {
		t.Fatalf("expected chronology question, got %q", reply)
	}

	summary := f.say(t, "uang kas dipakai buat keperluan pribadi")
	for _, part := range []string{"pak budi bendahara", "ruang tata usaha", "kemarin siang jam istirahat", "Ketik 'benar'"} {
		if !strings.Contains(summary, part) {
			t.Fatalf("summary missing %q:\n%s", part, summary)
		}
	}

	success := f.say(t, "benar")
	if !strings.Contains(success, "Nomor tiketmu") {
		t.Fatalf("expected success message, got %q", success)
	}

	var report models.CorruptionReport
	if err := f.gdb.First(&report).Error; err != nil {
		t.Fatalf("load report: %v", err)
	}
	if !regexp.MustCompile(`^[0-9A-F]{8}$`).MatchString(report.TicketID) {
		t.Fatalf("ticket id %q not 8 uppercase hex chars", report.TicketID)
	}
	if report.Status != "open" {
		t.Fatalf("status = %q, want open", report.Status)
	}
	if report.Involved != "pak budi bendahara" {
		t.Fatalf("involved = %q", report.Involved)
	}
	if !strings.Contains(success, report.TicketID) {
		t.Fatal("success message does not carry the ticket id")
	}

	if f.sessions.Session(Key(ChannelTelegram, "u1")).Corruption != nil {
		t.Fatal("session not cleared after finalize")
	}
}

func TestRouter_CorruptionEditAndCancel(t *testing.T) {
	f := newRouterFixture(t, nil)

	f.say(t, "mau lapor korupsi nih")
	f.say(t, "oknum guru olahraga")
	f.say(t, "gudang alat")
	f.say(t, "minggu lalu")
	f.say(t, "dana beli bola dipotong")

	if reply := f.say(t, "edit"); reply != responses.CorruptionEditPromptText {
		t.Fatalf("expected edit menu, got %q", reply)
	}
	if reply := f.say(t, "2"); !strings.Contains(reply, "ubah bagian 'location'") {
		t.Fatalf("expected location edit intro, got %q", reply)
	}
	if reply := f.say(t, "lapangan belakang"); !strings.Contains(reply, "lapangan belakang") {
		t.Fatalf("edited value missing from summary: %q", reply)
	}

	if reply := f.say(t, "batal"); reply != responses.CorruptionCancelText {
		t.Fatalf("expected cancel text, got %q", reply)
	}
	if f.sessions.Session(Key(ChannelTelegram, "u1")).Corruption != nil {
		t.Fatal("session survived cancel")
	}
	var count int64
	f.gdb.Model(&models.CorruptionReport{}).Count(&count)
	if count != 0 {
		t.Fatalf("cancelled report was persisted, count = %d", count)
	}
}

func TestRouter_PsychAggregatedOnTimeout(t *testing.T) {
	f := newRouterFixture(t, nil)

	if reply := f.say(t, "aku lagi sedih banget pengen nangis"); !strings.Contains(reply, "iya atau enggak") {
		t.Fatalf("expected confirmation prompt, got %q", reply)
	}
	f.say(t, "iya")
	f.say(t, "nilai ulanganku jelek terus padahal udah belajar")

	// Nothing persisted while the session runs.
	var count int64
	f.gdb.Model(&models.PsychReport{}).Count(&count)
	if count != 0 {
		t.Fatalf("report written mid-session, count = %d", count)
	}

	f.clock.Advance(DefaultFlowTimeout + time.Second)
	f.say(t, "halo")

	sent := f.adapter.AllSent()
	if len(sent) < 2 {
		t.Fatalf("expected timeout notice plus fresh reply, got %d sends", len(sent))
	}
	if sent[len(sent)-2].Text != responses.PsychTimeoutMessage {
		t.Fatalf("second-to-last send = %q, want timeout notice", sent[len(sent)-2].Text)
	}

	var report models.PsychReport
	if err := f.gdb.First(&report).Error; err != nil {
		t.Fatalf("load report: %v", err)
	}
	if !strings.Contains(report.Metadata, `"ended_by":"timeout"`) {
		t.Fatalf("metadata = %q, want ended_by timeout", report.Metadata)
	}
	if report.Severity != responses.PsychGeneral {
		t.Fatalf("severity = %q, want general", report.Severity)
	}
	if !strings.Contains(report.Message, "nilai ulanganku jelek") {
		t.Fatalf("transcript missing the story: %q", report.Message)
	}
	if f.sessions.Session(Key(ChannelTelegram, "u1")).Psych != nil {
		t.Fatal("psych session survived the timeout")
	}
}

func TestRouter_PsychDeclineStillRecorded(t *testing.T) {
	f := newRouterFixture(t, nil)

	f.say(t, "pengen cerita, lagi down banget")
	if reply := f.say(t, "nggak jadi"); reply != responses.PsychDeclineText {
		t.Fatalf("expected decline text, got %q", reply)
	}

	var report models.PsychReport
	if err := f.gdb.First(&report).Error; err != nil {
		t.Fatalf("load report: %v", err)
	}
	if !strings.Contains(report.Metadata, `"ended_by":"declined_confirmation"`) {
		t.Fatalf("metadata = %q", report.Metadata)
	}
}

func TestRouter_DuplicateSuppressed(t *testing.T) {
	f := newRouterFixture(t, nil)

	first := f.say(t, "halo")
	if first == responses.DuplicateNotice {
		t.Fatalf("first message flagged as duplicate")
	}
	second := f.say(t, "halo")
	if second != responses.DuplicateNotice {
		t.Fatalf("second message got %q, want the duplicate notice", second)
	}

	var count int64
	f.gdb.Model(&models.ChatLog{}).Where("role = ?", store.RoleUser).Count(&count)
	if count != 1 {
		t.Fatalf("user rows = %d, want 1 (duplicates are not persisted)", count)
	}
}

func TestRouter_RedeliveryIgnored(t *testing.T) {
	f := newRouterFixture(t, nil)

	msg := InboundMessage{
		Channel: ChannelTelegram, ChatID: "chat-1", MessageID: "same-id",
		UserID: "u1", UserName: "budi", Text: "halo",
	}
	f.router.Handle(context.Background(), msg)
	f.router.Handle(context.Background(), msg)

	if got := f.adapter.SentCount(); got != 1 {
		t.Fatalf("sent %d replies to a redelivered message, want 1", got)
	}
}

func TestRouter_TeacherGrading(t *testing.T) {
	f := newRouterFixture(t, nil)
	key := Key(ChannelTelegram, "u1")

	intro := f.say(t, "kasih soal matematika kelas 5 dong")
	if !strings.Contains(intro, "Soal ") {
		t.Fatalf("expected a question intro, got %q", intro)
	}
	sess := f.sessions.Session(key).Teacher
	if sess == nil {
		t.Fatal("no teacher session after start")
	}
	if sess.GradeHint != 5 || sess.SubjectHint != "Matematika" {
		t.Fatalf("hints = (%d, %q)", sess.GradeHint, sess.SubjectHint)
	}

	// Pin the question so grading is deterministic.
	sess.Question = responses.PracticeQuestion{
		Subject: "Matematika", GradeMin: 5, GradeMax: 5,
		Question: "Berapa 7 x 8?", Answer: "56",
		Explanation: "7 x 8 = 56.",
		Source:      responses.QuestionSourceStatic,
	}

	wrong := f.say(t, "54")
	if !strings.Contains(wrong, "Belum tepat nih. Jawaban yang benar: 56.") {
		t.Fatalf("wrong-answer feedback missing: %q", wrong)
	}
	if sess.Attempt != 2 {
		t.Fatalf("attempt = %d, want 2", sess.Attempt)
	}
	if !strings.Contains(wrong, "Berapa 7 x 8?") {
		t.Fatalf("wrong answer must re-show the question: %q", wrong)
	}

	sentBefore := sess.Question.Question
	correct := f.say(t, "56")
	if !strings.Contains(correct, "Mantap, jawaban kamu benar!") {
		t.Fatalf("correct-answer feedback missing: %q", correct)
	}
	if sess.Attempt != 1 {
		t.Fatalf("attempt = %d after correct answer, want 1", sess.Attempt)
	}
	if sess.Question.Question == sentBefore {
		t.Fatal("correct answer must roll to a new question")
	}

	if reply := f.say(t, "udahan"); reply != responses.TeacherFarewellText {
		t.Fatalf("expected farewell, got %q", reply)
	}
	if f.sessions.Session(key).Teacher != nil {
		t.Fatal("teacher session survived stop")
	}
}

func TestRouter_TeacherNextWithoutSession(t *testing.T) {
	f := newRouterFixture(t, nil)
	if reply := f.say(t, "ganti soal"); reply != responses.TeacherNoSessionText {
		t.Fatalf("got %q", reply)
	}
}

func TestRouter_QANoData(t *testing.T) {
	qa := &fakeQA{found: false}
	f := newRouterFixture(t, qa)

	reply := f.say(t, "jadwal kelas 5a besok apa ya")
	if reply != responses.NoDataResponse {
		t.Fatalf("got %q, want the no-data reply", reply)
	}
	if len(qa.asked) != 1 {
		t.Fatalf("qa asked %d times, want 1", len(qa.asked))
	}
	// Relative day words are rewritten to concrete dates before retrieval.
	if strings.Contains(qa.asked[0], "besok") {
		t.Fatalf("question not rewritten: %q", qa.asked[0])
	}

	var row models.ChatLog
	if err := f.gdb.Where("role = ?", store.RoleAssistant).First(&row).Error; err != nil {
		t.Fatalf("load assistant row: %v", err)
	}
	if row.ResponseTimeMs == nil {
		t.Fatal("response_time_ms not recorded on the QA path")
	}
}

func TestRouter_QAErrorFallsBackToTechnicalIssue(t *testing.T) {
	f := newRouterFixture(t, &fakeQA{err: errors.New("embedding service down")})
	if reply := f.say(t, "jam berapa upacara senin"); reply != responses.TechnicalIssueResponse {
		t.Fatalf("got %q", reply)
	}
}

func TestRouter_SendRetriesThenPlainFallback(t *testing.T) {
	f := newRouterFixture(t, &fakeQA{answer: "**Jadwal besok**: Matematika", found: true})

	for i := 0; i < sendRetries; i++ {
		f.adapter.QueueSendError(errors.New("telegram 502"))
	}
	reply := f.say(t, "jadwal besok apa ya")
	if reply != "Jadwal besok: Matematika" {
		t.Fatalf("fallback send = %q, want markdown stripped", reply)
	}
	last, _ := f.adapter.LastSent()
	if last.Markdown {
		t.Fatal("fallback send must be plain text")
	}
}
