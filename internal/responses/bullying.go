package responses

import (
	"regexp"
	"strings"
)

// Bullying categories and the severity each one maps to.
const (
	BullyingGeneral  = "general"
	BullyingSexual   = "sexual"
	BullyingPhysical = "physical"

	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

var bullyingKeywords = []string{
	"bully",
	"bullying",
	"dibully",
	"dibuli",
	"membully",
	"membuli",
	"perundungan",
	"perundung",
	"intimidasi",
	"ditindas",
	"penindasan",
	"pemalakan",
	"memalak",
	"diancam",
	"ancaman",
	"dikeroyok",
	"kekerasan",
	"disakiti",
	"dijahatin",
	"dijahilin",
	"diganggu",
	"diejek",
	"dikatain",
	"dijauhin",
	"dimusuhin",
	"dipalak",
	"diperas",
	"disindir",
	"body shaming",
}

var bullyingReportSignals = []string{
	"tolong",
	"minta tolong",
	"bantu",
	"minta bantuan",
	"lapor",
	"melapor",
	"laporan",
	"laporin",
	"report",
	"lapor dong",
	"help",
	"plis",
	"please",
	"gimana cara lapor",
	"mau ngadu",
	"mau laporin",
}

var bullyingPronounHints = []string{
	"aku",
	"saya",
	"gue",
	"gw",
	"gua",
	"kami",
	"kita",
	"teman",
	"temen",
	"adik",
	"kakak",
	"adikku",
	"temanku",
	"temenku",
	"doi",
	"dia",
	"bestie",
	"sahabat",
}

var bullyingSexualKeywords = []string{
	"pelecehan",
	"seksual",
	"seks",
	"cabul",
	"dicabuli",
	"cabuli",
	"melecehkan",
	"dilecehkan",
	"diraba",
	"meraba",
	"dirangkul paksa",
	"disentuh",
	"dipegang",
	"aurat",
	"meremas",
	"mesum",
	"catcalling",
	"dicatcall",
	"dilecehin",
	"digodain",
	"dikirim foto aneh",
	"pap aneh", "dimintain pap",
	"grooming",
	"digrepe",
	"dipeluk",
}

var bullyingPhysicalKeywords = []string{
	"dipukul",
	"memukul",
	"pemukulan",
	"ditendang",
	"menendang",
	"ditampar",
	"menampar",
	"dikeroyok",
	"dijambak",
	"dianiaya",
	"penganiayaan",
	"didorong",
	"dicekik",
	"ditusuk",
	"disiksa",
	"kekerasan fisik",
	"digebukin",
	"dihajar",
	"ditonjok",
	"dijegal",
	"disundut",
	"dilempar",
	"dibunuh",
}

var bullyingExclusionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bapa itu (bully|bullying|perundungan)\b`),
	regexp.MustCompile(`\bcontoh (bully|bullying|perundungan)\b`),
	regexp.MustCompile(`\bcara (mencegah|menghindari) (bully|bullying|perundungan)\b`),
}

var bullyingReportPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:aku|saya|gue|gw|gua|teman(?:ku)?|temen(?:ku)?|adik(?:ku)?|kakak(?:ku)?|keponakan|adik|teman|temen)\s+` +
		`(?:lagi\s+|sedang\s+)?di[\s-]*[a-z]*?(bul|bully|buly|buli|tindas|keroyok|ancam|sakiti|peleceh|cabuli|pukul|tampar|tendang)\b`),
	regexp.MustCompile(`\bkorban\s+(?:bully|bullying|perundungan|intimidasi|penindasan|pelecehan)\b`),
	regexp.MustCompile(`\bada\s+(?:kejadian\s+)?(?:bully|bullying|perundungan|intimidasi|pemalakan|pelecehan|pemukulan)\b`),
	regexp.MustCompile(`\blagi\s*(?:dibully|dibuli|diintimidasi)\b`),
}

var bullyingSexualPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bpelecehan\s+seksual\b`),
	regexp.MustCompile(`\bdi(?:lecehkan|cabuli|pegang|raba)\b`),
	regexp.MustCompile(`\bdiganggu\s+secara\s+seksual\b`),
}

var bullyingPhysicalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:di|ke)\s*pukul\b`),
	regexp.MustCompile(`\bdi(tendang|tampar|siksa|keroyok|aniaya)\b`),
	regexp.MustCompile(`\b(dianiaya|penganiayaan)\b`),
}

// BullyingCategoryLabels and BullyingSafetyHints feed the empathetic reply
// prompt for each category.
var BullyingCategoryLabels = map[string]string{
	BullyingGeneral:  "perundungan (verbal atau sosial)",
	BullyingSexual:   "pelecehan atau kekerasan bernuansa seksual",
	BullyingPhysical: "kekerasan fisik",
}

var BullyingSafetyHints = map[string]string{
	BullyingGeneral:  "ingatkan untuk cari dukungan dari guru BK, wali kelas, atau orang dewasa tepercaya tanpa memaksa mereka bercerita ulang",
	BullyingSexual:   "tegaskan bahwa korban tidak bersalah, anjurkan segera cari bantuan orang dewasa tepercaya dan tetap bersama orang yang aman",
	BullyingPhysical: "ingatkan prioritas keselamatan fisik, sarankan menjauh dari pelaku dan menghubungi guru, satpam, atau orang dewasa tepercaya",
}

func collapseSpaces(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

func anyPattern(patterns []*regexp.Regexp, text string) bool {
	for _, pattern := range patterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// DetectBullyingCategory returns the bullying category when the message
// reads as a first-person report, or "" otherwise. Definitional questions
// ("apa itu bullying") never match.
func DetectBullyingCategory(message string) string {
	if message == "" {
		return ""
	}
	normalized := collapseSpaces(message)

	if anyPattern(bullyingExclusionPatterns, normalized) {
		return ""
	}

	sexualHit := containsAny(normalized, bullyingSexualKeywords) || anyPattern(bullyingSexualPatterns, normalized)
	physicalHit := containsAny(normalized, bullyingPhysicalKeywords) || anyPattern(bullyingPhysicalPatterns, normalized)
	hasCoreKeyword := containsAny(normalized, bullyingKeywords) || sexualHit || physicalHit
	hasSignal := containsAny(normalized, bullyingReportSignals) || anyPattern(bullyingReportPatterns, normalized)
	pronounPresent := containsAny(normalized, bullyingPronounHints)
	locationHint := containsAny(normalized, []string{"kelas", "sekolah", "teman", "kawan"})
	hasContext := hasSignal || (pronounPresent && (locationHint || sexualHit || physicalHit))

	if !hasCoreKeyword || !hasContext {
		return ""
	}
	if sexualHit {
		return BullyingSexual
	}
	if physicalHit {
		return BullyingPhysical
	}
	return BullyingGeneral
}

// BullyingSeverity maps a category to the severity recorded on the report.
func BullyingSeverity(category string) string {
	switch category {
	case BullyingSexual:
		return SeverityCritical
	case BullyingPhysical:
		return SeverityHigh
	default:
		return SeverityMedium
	}
}

// BullyingAckFallback is the canned empathetic reply used when no
// generated reply is available.
func BullyingAckFallback(category string) string {
	switch category {
	case BullyingSexual:
		return "Makasih udah percaya cerita hal sepenting ini, kamu super brave 🫶 Apa pun yang terjadi, ini sama sekali bukan salah kamu. " +
			"Please segera cari guru BK, wali kelas, atau orang dewasa tepercaya dan usahain tetep bareng orang yang bikin kamu feel safe. " +
			"Kalau mau lanjut spill atau butuh ditemenin, tinggal panggil ASKA lagi ya. 🤍"
	case BullyingPhysical:
		return "Ikut ngilu dengernya, kamu kuat banget bisa cerita 😢 Keselamatan kamu nomor satu. " +
			"Kalau situasinya belum aman, segera menjauh dari pelaku dan temui guru, satpam, atau orang dewasa yang kamu percaya biar mereka bisa backup kamu. " +
			"Aku tetep ada di sini kapan pun kamu mau cerita lagi. 💪"
	default:
		return "Thank you banget udah spill ke ASKA, bestie 💛 Aku ikut ngerasain beratnya dan bakal stay nemenin kamu. " +
			"Please reach out ke guru BK, wali kelas, atau orang dewasa tepercaya biar kamu gak ngadepin ini sendirian. " +
			"Kalau situasinya makin bikin anxious, langsung minta bantuan mereka ya. Aku standby kapan pun kamu butuh. 🤗"
	}
}

// SanitizeReportText flattens whitespace and caps the excerpt passed to
// the reply generator at 600 characters.
func SanitizeReportText(text string) string {
	cleaned := strings.Join(strings.Fields(text), " ")
	if cleaned == "" {
		return "pengguna belum memberikan detail tambahan."
	}
	runes := []rune(cleaned)
	if len(runes) > 600 {
		cleaned = strings.TrimRight(string(runes[:600]), " ")
		if !strings.HasSuffix(cleaned, "…") {
			cleaned += "…"
		}
	}
	return cleaned
}
