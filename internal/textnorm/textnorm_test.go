package textnorm

import (
	"strings"
	"testing"
	"time"
)

func TestNormalize_Lowercase(t *testing.T) {
	n := NewNormalizer("tanyaaska_bot")
	got := n.Normalize("Halo ASKA, Apa Kabar?")
	if got != "halo aska, apa kabar?" {
		t.Errorf("Normalize() = %q", got)
	}
}

func TestNormalize_Aliases(t *testing.T) {
	n := NewNormalizer("")
	tests := []struct {
		in   string
		want string
	}{
		{"berapa umur pendaftar termuda", "berapa umur termuda"},
		{"usia pendaftar rata-rata", "umur rata-rata"},
		{"pendaftar termuda siapa", "umur terendah siapa"},
		{"usia paling tua berapa", "umur tertinggi berapa"},
		{"ranking kelas berapa", "urutan kelas berapa"},
		{"kapan anbk sd", "jadwal anbk sd"},
		{"anbk sd kapan ya", "jadwal anbk sd ya"},
		{"jadwal anbk", "jadwal anbk sd"},
		{"jadwal anbk sd", "jadwal anbk sd"},
	}
	for _, tt := range tests {
		if got := n.Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	n := NewNormalizer("tanyaaska_bot")
	inputs := []string{
		"Jadwal ANBK besok gimana?",
		"**Halo** @tanyaaska_bot, ranking berapa?",
		"usia pendaftar   paling   tua",
		"jadwal anbk sd",
	}
	for _, in := range inputs {
		once := n.Normalize(in)
		twice := n.Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent on %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestNormalize_CollapsesWhitespace(t *testing.T) {
	n := NewNormalizer("")
	got := n.Normalize("  halo   dunia \n baru ")
	if got != "halo dunia baru" {
		t.Errorf("Normalize() = %q", got)
	}
}

func TestReplaceBotMentions(t *testing.T) {
	n := NewNormalizer("tanyaaska_bot")
	tests := []struct {
		in   string
		want string
	}{
		{"@tanyaaska_bot jadwal besok apa", "ASKA jadwal besok apa"},
		{"@TanyaAska_Bot halo", "ASKA halo"},
		{"@ss01ju_bot masih aktif?", "ASKA masih aktif?"},
		{"@orang_lain halo", "@orang_lain halo"},
		{"tanpa mention", "tanpa mention"},
	}
	for _, tt := range tests {
		if got := n.ReplaceBotMentions(tt.in); got != tt.want {
			t.Errorf("ReplaceBotMentions(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"**penting** banget", "penting banget"},
		{"## Judul\nisi", "Judul\nisi"},
		{"tanpa markdown", "tanpa markdown"},
		{"**a** dan **b**", "a dan b"},
	}
	for _, tt := range tests {
		if got := StripMarkdown(tt.in); got != tt.want {
			t.Errorf("StripMarkdown(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRemoveTrailingSignature(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Jawaban lengkap.\n- ASKA", "Jawaban lengkap."},
		{"Jawaban lengkap. - aska", "Jawaban lengkap."},
		{"Jawaban lengkap.\n– ASKA  ", "Jawaban lengkap."},
		{"ASKA di tengah - bukan signature", "ASKA di tengah - bukan signature"},
	}
	for _, tt := range tests {
		if got := RemoveTrailingSignature(tt.in); got != tt.want {
			t.Errorf("RemoveTrailingSignature(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Halo, apa kabar? (baik)")
	want := []string{"Halo", "apa", "kabar", "baik"}
	if len(got) != len(want) {
		t.Fatalf("Tokenize() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Tokenize()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDetectClassCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"jadwal kelas 5a besok", "5a"},
		{"jadwal kelas 5 a", "5a"},
		{"jadwal kelas v-a", "5a"},
		{"jadwal kelas 6b", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := DetectClassCode(tt.in); got != tt.want {
			t.Errorf("DetectClassCode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatIndonesianDate(t *testing.T) {
	d := time.Date(2026, time.August, 17, 0, 0, 0, 0, time.UTC)
	if got := FormatIndonesianDate(d); got != "17 Agustus 2026" {
		t.Errorf("FormatIndonesianDate() = %q", got)
	}
}

func TestRewriteScheduleQuery(t *testing.T) {
	// Monday 2026-01-05 in Jakarta; tomorrow is Selasa 6 Januari 2026.
	now := time.Date(2026, time.January, 5, 10, 0, 0, 0, Jakarta())

	got := RewriteScheduleQuery("jadwal kelas 5a besok apa?", now)
	if !strings.Contains(got, "hari Selasa (6 Januari 2026)") {
		t.Errorf("rewrite missing concrete day: %q", got)
	}
	if !strings.Contains(got, "(menanyakan jadwal kelas 5A hari Selasa 6 Januari 2026)") {
		t.Errorf("rewrite missing note: %q", got)
	}
	if strings.Contains(got, "besok") {
		t.Errorf("rewrite left 'besok' in place: %q", got)
	}
}

func TestRewriteScheduleQuery_Untouched(t *testing.T) {
	now := time.Date(2026, time.January, 5, 10, 0, 0, 0, Jakarta())
	tests := []string{
		"jadwal kelas 5a hari senin",  // no tomorrow keyword
		"besok kelas 5a ngapain",      // no "jadwal"
		"jadwal besok apa",            // no class code
		"",
	}
	for _, in := range tests {
		if got := RewriteScheduleQuery(in, now); got != in {
			t.Errorf("RewriteScheduleQuery(%q) = %q, want unchanged", in, got)
		}
	}
}

func TestRewriteScheduleQuery_Idempotent(t *testing.T) {
	now := time.Date(2026, time.January, 5, 10, 0, 0, 0, Jakarta())
	once := RewriteScheduleQuery("jadwal kelas 5a besok apa?", now)
	twice := RewriteScheduleQuery(once, now)
	if once != twice {
		t.Errorf("rewrite not idempotent: first %q, second %q", once, twice)
	}
}
