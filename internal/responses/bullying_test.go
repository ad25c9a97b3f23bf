package responses

import (
	"strings"
	"testing"
)

func TestDetectBullyingCategory(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"aku ditendang sama kakak kelas", BullyingPhysical},
		{"tolong aku dipalak di sekolah", BullyingGeneral},
		{"temenku dilecehkan sama kakak kelas", BullyingSexual},
		{"aku dibully terus di kelas", BullyingGeneral},
		{"tolong temenku dipukul", BullyingPhysical},
		{"apa itu bullying", ""},
		{"contoh bullying di sekolah", ""},
		{"cara mencegah bullying gimana", ""},
		{"dibully itu gak enak", ""},
		{"kapan jadwal ujian", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := DetectBullyingCategory(tc.text); got != tc.want {
			t.Errorf("DetectBullyingCategory(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestBullyingSeverity(t *testing.T) {
	cases := []struct {
		category, want string
	}{
		{BullyingSexual, SeverityCritical},
		{BullyingPhysical, SeverityHigh},
		{BullyingGeneral, SeverityMedium},
		{"unknown", SeverityMedium},
	}
	for _, tc := range cases {
		if got := BullyingSeverity(tc.category); got != tc.want {
			t.Errorf("BullyingSeverity(%q) = %q, want %q", tc.category, got, tc.want)
		}
	}
}

func TestBullyingAckFallback(t *testing.T) {
	for _, category := range []string{BullyingGeneral, BullyingSexual, BullyingPhysical} {
		ack := BullyingAckFallback(category)
		if ack == "" {
			t.Fatalf("empty ack for category %q", category)
		}
		if !strings.Contains(ack, "guru") {
			t.Errorf("ack for %q should point to a trusted adult: %q", category, ack)
		}
	}
	if BullyingAckFallback("unknown") != BullyingAckFallback(BullyingGeneral) {
		t.Error("unknown category should fall back to the general ack")
	}
}

func TestSanitizeReportText(t *testing.T) {
	if got := SanitizeReportText("  "); got != "pengguna belum memberikan detail tambahan." {
		t.Errorf("blank input: got %q", got)
	}
	if got := SanitizeReportText("a\n\n b\tc"); got != "a b c" {
		t.Errorf("whitespace flattening: got %q", got)
	}
	long := strings.Repeat("x", 700)
	capped := SanitizeReportText(long)
	if len([]rune(capped)) > 601 {
		t.Errorf("expected cap around 600 runes, got %d", len([]rune(capped)))
	}
	if !strings.HasSuffix(capped, "…") {
		t.Error("capped text should end with an ellipsis")
	}
}
