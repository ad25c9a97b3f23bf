// Package textnorm normalizes user input before intent classification:
// markdown stripping, lowercasing, a fixed alias table, bot-mention
// replacement, and the schedule-query rewrite.
package textnorm

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"
)

// IndonesianDayNames maps Go weekdays to Indonesian day names.
var IndonesianDayNames = map[time.Weekday]string{
	time.Monday:    "Senin",
	time.Tuesday:   "Selasa",
	time.Wednesday: "Rabu",
	time.Thursday:  "Kamis",
	time.Friday:    "Jumat",
	time.Saturday:  "Sabtu",
	time.Sunday:    "Minggu",
}

// IndonesianMonthNames maps Go months to Indonesian month names.
var IndonesianMonthNames = map[time.Month]string{
	time.January:   "Januari",
	time.February:  "Februari",
	time.March:     "Maret",
	time.April:     "April",
	time.May:       "Mei",
	time.June:      "Juni",
	time.July:      "Juli",
	time.August:    "Agustus",
	time.September: "September",
	time.October:   "Oktober",
	time.November:  "November",
	time.December:  "Desember",
}

var (
	jakartaOnce sync.Once
	jakartaLoc  *time.Location
)

// Jakarta returns the Asia/Jakarta location, falling back to a fixed
// UTC+7 zone when tzdata is unavailable.
func Jakarta() *time.Location {
	jakartaOnce.Do(func() {
		loc, err := time.LoadLocation("Asia/Jakarta")
		if err != nil {
			loc = time.FixedZone("WIB", 7*60*60)
		}
		jakartaLoc = loc
	})
	return jakartaLoc
}

// aliases rewrites common phrasings into the vocabulary the QA retriever
// indexes. Applied in order; each rule must be stable on its own output
// so Normalize stays idempotent.
var aliases = [][2]string{
	{"umur pendaftar", "umur"},
	{"usia pendaftar", "umur"},
	{"usia siswa", "umur"},
	{"umur siswa", "umur"},
	{"pendaftar termuda", "umur terendah"},
	{"pendaftar tertua", "umur tertinggi"},
	{"usia paling muda", "umur terendah"},
	{"usia paling tua", "umur tertinggi"},
	{"ranking", "urutan"},
	{"anbk untuk sd kapan", "anbk untuk sd jadwalnya kapan"},
	{"kapan anbk sd", "jadwal anbk sd"},
	{"anbk sd kapan", "jadwal anbk sd"},
}

var (
	boldRE      = regexp.MustCompile(`\*\*(.*?)\*\*`)
	headingRE   = regexp.MustCompile(`#+\s*`)
	mentionRE   = regexp.MustCompile(`@[\w_]+`)
	signatureRE = regexp.MustCompile(`(?i)(?:\s*\n)?[-–—]\s*ASKA\s*$`)
	classCodeRE = regexp.MustCompile(`(?:kelas\s*)?(?:5|v)[\s-]*a`)
	besoknyaRE  = regexp.MustCompile(`\bbesoknya\b`)
	besokRE     = regexp.MustCompile(`\bbesok\b`)
	esokRE      = regexp.MustCompile(`\besok\b`)
)

// Normalizer applies the full normalization pipeline. It knows the bot's
// own handle plus historical aliases so mentions in any casing become a
// neutral token.
type Normalizer struct {
	handles map[string]bool
}

// KnownBotHandles are handles the bot has been reachable under.
var KnownBotHandles = []string{"@ss01ju_bot", "@tanyaaska_bot"}

// NewNormalizer builds a Normalizer for the given bot username (without
// the leading @). Historical handles are always recognized.
func NewNormalizer(botUsername string) *Normalizer {
	handles := make(map[string]bool, len(KnownBotHandles)+1)
	for _, h := range KnownBotHandles {
		handles[strings.ToLower(h)] = true
	}
	if botUsername != "" {
		handles["@"+strings.ToLower(botUsername)] = true
	}
	return &Normalizer{handles: handles}
}

// Normalize runs the pipeline: replace bot mentions, strip markdown,
// lowercase, apply aliases, collapse whitespace. Deterministic, pure,
// and idempotent on its own output.
func (n *Normalizer) Normalize(text string) string {
	text = n.ReplaceBotMentions(text)
	text = StripMarkdown(text)
	text = strings.ToLower(text)
	for _, pair := range aliases {
		text = strings.ReplaceAll(text, pair[0], pair[1])
	}
	// "jadwal anbk" gains an "sd" suffix only when it doesn't have one,
	// otherwise repeated normalization would keep appending.
	if strings.Contains(text, "jadwal anbk") && !strings.Contains(text, "jadwal anbk sd") {
		text = strings.ReplaceAll(text, "jadwal anbk", "jadwal anbk sd")
	}
	return strings.Join(strings.Fields(text), " ")
}

// ReplaceBotMentions substitutes any known bot handle with "ASKA" so the
// classifier sees the bot referred to by name. Unknown mentions pass
// through untouched.
func (n *Normalizer) ReplaceBotMentions(text string) string {
	if text == "" {
		return text
	}
	return mentionRE.ReplaceAllStringFunc(text, func(mention string) string {
		if n.handles[strings.ToLower(mention)] {
			return "ASKA"
		}
		return mention
	})
}

// StripMarkdown removes bold emphasis and heading markers. Used both on
// inbound text and as the final plain-text fallback for outbound sends.
func StripMarkdown(text string) string {
	text = boldRE.ReplaceAllString(text, "$1")
	return headingRE.ReplaceAllString(text, "")
}

// RemoveTrailingSignature strips a trailing "- ASKA" style signature
// that models sometimes append to generated replies.
func RemoveTrailingSignature(text string) string {
	return strings.TrimRight(signatureRE.ReplaceAllString(text, ""), " \t\r\n")
}

// Tokenize splits text on whitespace and trims common punctuation from
// each token.
func Tokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if tok := strings.Trim(f, "!?.:,;()"); tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// DetectClassCode returns the class code mentioned in text, or "" when
// none is recognized. Only 5A is taught a schedule right now.
func DetectClassCode(text string) string {
	if classCodeRE.MatchString(text) {
		return "5a"
	}
	return ""
}

// FormatIndonesianDate renders a date as "2 Januari 2026".
func FormatIndonesianDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), IndonesianMonthNames[t.Month()], t.Year())
}

// RewriteScheduleQuery replaces "besok"-style references in a schedule
// question with the concrete Indonesian day and date, and appends a note
// naming the class, so the retriever can match indexed schedule rows.
// Texts without "jadwal", a tomorrow keyword, and a class code pass
// through unchanged.
func RewriteScheduleQuery(text string, now time.Time) string {
	if text == "" {
		return text
	}
	lowered := strings.ToLower(text)
	if !strings.Contains(lowered, "jadwal") {
		return text
	}
	if !strings.Contains(lowered, "besok") && !strings.Contains(lowered, "esok") {
		return text
	}
	classCode := DetectClassCode(lowered)
	if classCode == "" {
		return text
	}

	target := now.In(Jakarta()).AddDate(0, 0, 1)
	dayName := IndonesianDayNames[target.Weekday()]
	dateLabel := FormatIndonesianDate(target)
	concrete := fmt.Sprintf("hari %s (%s)", dayName, dateLabel)

	updated := besoknyaRE.ReplaceAllString(text, concrete)
	updated = besokRE.ReplaceAllString(updated, concrete)
	updated = esokRE.ReplaceAllString(updated, concrete)

	note := fmt.Sprintf("(menanyakan jadwal kelas %s hari %s %s)", strings.ToUpper(classCode), dayName, dateLabel)
	if !strings.Contains(updated, note) {
		updated = strings.TrimSpace(updated + " " + note)
	}
	return updated
}
