package responses

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PracticeQuestion is one quiz item, either from the static bank or
// generated on the fly.
type PracticeQuestion struct {
	Subject        string
	GradeMin       int
	GradeMax       int
	Question       string
	Answer         string
	Explanation    string
	AnswerKeywords []string
	Choices        []string
	Source         string
}

const (
	QuestionSourceStatic = "static"
	QuestionSourceLLM    = "llm"
)

// MatchesGrade reports whether the question suits the hinted grade.
// Zero means no hint and matches everything.
func (q PracticeQuestion) MatchesGrade(gradeHint int) bool {
	if gradeHint == 0 {
		return true
	}
	return q.GradeMin <= gradeHint && gradeHint <= q.GradeMax
}

var subjectKeywords = map[string][]string{
	"Matematika":       {"matematika", "mtk", "berhitung", "pecahan", "bangun", "geometri", "angka", "mat", "aljabar"},
	"IPA":              {"ipa", "sains", "ilmu pengetahuan alam", "tumbuhan", "hewan", "energi", "perubahan wujud", "biologi", "fisika"},
	"IPS":              {"ips", "sejarah", "geografi", "ekonomi", "sosial", "kewilayahan", "peta", "kerajaan"},
	"Bahasa Indonesia": {"bahasa indonesia", "b indonesia", "bi", "kalimat", "antonim", "sinonim", "tata bahasa", "puisi", "paragraf"},
	"PPKN":             {"ppkn", "pkn", "pancasila", "semboyan", "hukum", "warga negara", "aturan", "norma"},
	"Agama":            {"agama", "akhlak", "ibadah", "kitab suci", "nabi", "alquran", "quran", "al-quran"},
	"SBdP":             {"seni budaya", "sbdp", "musik", "gambar", "tari", "lagu daerah"},
}

const DefaultSubject = "Campuran"

var staticQuestions = []PracticeQuestion{
	{
		Subject:     "Matematika",
		GradeMin:    4,
		GradeMax:    5,
		Question:    "Hasil dari 84 : 7 adalah berapa?",
		Answer:      "12",
		Explanation: "84 dibagi 7 sama dengan 12 karena 7 × 12 = 84.",
		Source:      QuestionSourceStatic,
	},
	{
		Subject:     "Matematika",
		GradeMin:    4,
		GradeMax:    6,
		Question:    "Sebuah persegi punya keliling 24 cm. Berapa panjang tiap sisinya?",
		Answer:      "6",
		Explanation: "Keliling persegi = 4 × sisi. Jadi sisi = 24 : 4 = 6 cm.",
		Source:      QuestionSourceStatic,
	},
	{
		Subject:        "Matematika",
		GradeMin:       5,
		GradeMax:       6,
		Question:       "Hasil dari 3/4 + 1/8 adalah?",
		Answer:         "7/8",
		Explanation:    "Samakan penyebut menjadi 8: 3/4 = 6/8, lalu 6/8 + 1/8 = 7/8.",
		AnswerKeywords: []string{"tujuh per delapan"},
		Source:         QuestionSourceStatic,
	},
	{
		Subject:     "IPA",
		GradeMin:    4,
		GradeMax:    5,
		Question:    "Bagian tumbuhan yang berfungsi menyerap air dan mineral dari tanah adalah?",
		Answer:      "akar",
		Explanation: "Akar menyerap air dan mineral sekaligus menegakkan tumbuhan.",
		Source:      QuestionSourceStatic,
	},
	{
		Subject:        "IPA",
		GradeMin:       5,
		GradeMax:       6,
		Question:       "Perubahan wujud benda dari gas menjadi cair disebut apa?",
		Answer:         "mengembun",
		Explanation:    "Perubahan gas menjadi cair disebut mengembun.",
		AnswerKeywords: []string{"kondensasi"},
		Source:         QuestionSourceStatic,
	},
	{
		Subject:        "IPS",
		GradeMin:       4,
		GradeMax:       5,
		Question:       "Pulau terbesar di Indonesia adalah pulau apa?",
		Answer:         "Kalimantan",
		Explanation:    "Pulau terbesar di Indonesia adalah Kalimantan.",
		AnswerKeywords: []string{"borneo"},
		Source:         QuestionSourceStatic,
	},
	{
		Subject:        "IPS",
		GradeMin:       5,
		GradeMax:       6,
		Question:       "Proklamasi kemerdekaan Indonesia dibacakan pada tanggal berapa?",
		Answer:         "17 Agustus 1945",
		Explanation:    "Proklamasi kemerdekaan dibacakan 17 Agustus 1945.",
		AnswerKeywords: []string{"17 agustus", "17-08-1945", "17/08/1945"},
		Source:         QuestionSourceStatic,
	},
	{
		Subject:     "Bahasa Indonesia",
		GradeMin:    4,
		GradeMax:    5,
		Question:    "Antonim dari kata 'tinggi' adalah apa?",
		Answer:      "rendah",
		Explanation: "Lawan kata 'tinggi' adalah 'rendah'.",
		Source:      QuestionSourceStatic,
	},
	{
		Subject:        "Bahasa Indonesia",
		GradeMin:       5,
		GradeMax:       6,
		Question:       "Sebutkan jenis kalimat yang menyatakan perintah!",
		Answer:         "kalimat imperatif",
		Explanation:    "Kalimat yang berisi perintah disebut kalimat imperatif.",
		AnswerKeywords: []string{"imperatif"},
		Source:         QuestionSourceStatic,
	},
	{
		Subject:        "PPKN",
		GradeMin:       4,
		GradeMax:       6,
		Question:       "Apa semboyan negara Indonesia yang tercantum pada lambang Garuda?",
		Answer:         "Bhinneka Tunggal Ika",
		Explanation:    "Semboyan Indonesia adalah 'Bhinneka Tunggal Ika'.",
		AnswerKeywords: []string{"bhineka tunggal ika"},
		Source:         QuestionSourceStatic,
	},
}

var teacherStartKeywords = []string{
	"kasih soal",
	"minta soal",
	"latihan dong",
	"aku mau belajar",
	"jadi guru",
	"mode guru",
	"tes dong",
	"quiz dong",
	"kuis dong",
	"beri soal",
	"latihan belajar",
	"ayo belajar",
	"ajarin dong",
	"kasih kuis",
	"guru mode on",
}

var teacherStopKeywords = []string{
	"selesai",
	"stop",
	"cukup",
	"sudah",
	"terima kasih gurunya",
	"keluar mode guru",
	"udahan",
	"udah dulu",
	"makasih guru",
	"selesai belajar",
	"done",
}

var teacherNextKeywords = []string{
	"soal berikut",
	"lanjut soal",
	"lanjut dong",
	"next",
	"skip",
	"ganti soal",
	"soal lagi",
	"lagi dong",
	"ganti",
	"lanjut",
}

var teacherDiscussionKeywords = []string{
	"jelasin",
	"jelaskan",
	"kenapa",
	"mengapa",
	"bagaimana",
	"tolong bantu",
	"nggak paham",
	"ga paham",
	"gak paham",
	"bingung",
	"contoh lain",
	"langkahnya",
	"gimana caranya",
	"maksudnya apa",
	"jelasin lagi",
	"kok bisa gitu",
}

var (
	gradeHintRE      = regexp.MustCompile(`kelas\s*(?:ke\s*)?(\d)`)
	answerJunkRE     = regexp.MustCompile(`[^a-z0-9/ ]`)
	topicFlattenRE   = regexp.MustCompile(`[\n\r]+`)
	subjectTitleCase = cases.Title(language.Indonesian)
)

// ExtractSubjectHint returns the canonical subject a message refers to.
func ExtractSubjectHint(text string) string {
	if text == "" {
		return ""
	}
	lowered := strings.ToLower(text)
	for subject, keywords := range subjectKeywords {
		if containsAny(lowered, keywords) {
			return subject
		}
	}
	return ""
}

// NormalizeSubject maps a loose subject name onto its canonical form,
// title-casing unknown ones.
func NormalizeSubject(subject string) string {
	if subject == "" {
		return ""
	}
	subjectLower := strings.ToLower(subject)
	for canonical, keywords := range subjectKeywords {
		if subjectLower == strings.ToLower(canonical) {
			return canonical
		}
		for _, keyword := range keywords {
			if subjectLower == keyword {
				return canonical
			}
		}
	}
	return subjectTitleCase.String(subject)
}

// SanitizeTopicHint flattens the free-form topic text to a single line.
func SanitizeTopicHint(text string) string {
	cleaned := topicFlattenRE.ReplaceAllString(text, " ")
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(cleaned, " "))
}

// ExtractGradeHint pulls a grade number out of phrases like "kelas 6".
// Zero means no usable hint.
func ExtractGradeHint(text string) int {
	if text == "" {
		return 0
	}
	match := gradeHintRE.FindStringSubmatch(strings.ToLower(text))
	if match == nil {
		return 0
	}
	grade, err := strconv.Atoi(match[1])
	if err != nil || grade < 1 || grade > 12 {
		return 0
	}
	return grade
}

func IsTeacherStart(text string) bool {
	return text != "" && containsAny(collapseSpaces(text), teacherStartKeywords)
}

func IsTeacherStop(text string) bool {
	return text != "" && containsAny(collapseSpaces(text), teacherStopKeywords)
}

func IsTeacherNext(text string) bool {
	return text != "" && containsAny(collapseSpaces(text), teacherNextKeywords)
}

// IsTeacherDiscussion flags a message that asks for explanation instead
// of answering the current question.
func IsTeacherDiscussion(text string) bool {
	if text == "" {
		return false
	}
	if strings.Contains(text, "?") {
		return true
	}
	return containsAny(strings.ToLower(text), teacherDiscussionKeywords)
}

// GradeRangeText renders the grade hint for prompts.
func GradeRangeText(gradeHint int) string {
	if gradeHint == 0 {
		return "kelas 4 sampai 6"
	}
	return fmt.Sprintf("kelas %d", gradeHint)
}

// PickStaticQuestion chooses from the built-in bank, narrowing by grade
// and subject hints where possible.
func PickStaticQuestion(rng *rand.Rand, gradeHint int, subjectHint string) PracticeQuestion {
	canonical := NormalizeSubject(subjectHint)

	candidates := make([]PracticeQuestion, 0, len(staticQuestions))
	for _, q := range staticQuestions {
		if q.MatchesGrade(gradeHint) {
			candidates = append(candidates, q)
		}
	}
	if canonical != "" {
		subjectLower := strings.ToLower(canonical)
		filtered := make([]PracticeQuestion, 0, len(candidates))
		for _, q := range candidates {
			if strings.ToLower(q.Subject) == subjectLower {
				filtered = append(filtered, q)
			}
		}
		if len(filtered) > 0 {
			candidates = filtered
		}
	}
	if len(candidates) == 0 {
		candidates = staticQuestions
	}
	return candidates[rng.Intn(len(candidates))]
}

// NormalizeAnswer canonicalizes an answer for comparison.
func NormalizeAnswer(text string) string {
	lowered := collapseSpaces(text)
	lowered = strings.NewReplacer(",", "", ".", "").Replace(lowered)
	lowered = answerJunkRE.ReplaceAllString(lowered, "")
	return strings.TrimSpace(lowered)
}

// MatchesAnswer reports whether the student answer equals the expected
// answer or any accepted keyword after normalization.
func (q PracticeQuestion) MatchesAnswer(userAnswer string) bool {
	normalized := NormalizeAnswer(userAnswer)
	if normalized == NormalizeAnswer(q.Answer) {
		return true
	}
	for _, keyword := range q.AnswerKeywords {
		if normalized == NormalizeAnswer(keyword) {
			return true
		}
	}
	return false
}

const TeacherEmptyAnswerText = "Coba jawab dulu ya, nanti ASKA koreksi."

const (
	// TeacherFarewellText closes a practice session on a stop request.
	TeacherFarewellText = "Sesi belajar bersama ASKA selesai. Kapan pun mau latihan lagi, ketik saja " +
		"'kasih soal' atau 'mode guru', ya!"

	// TeacherNoSessionText answers a 'next question' request when no
	// session is running.
	TeacherNoSessionText = "Belum ada sesi guru yang aktif. Ketik 'kasih soal' atau 'mode guru' dulu ya."
)

// TeacherCorrectFeedback and TeacherWrongFeedback are the static grading
// replies used when no generated evaluation is available.
func TeacherCorrectFeedback(q PracticeQuestion) string {
	return fmt.Sprintf("Mantap, jawaban kamu benar! Penjelasan: %s", q.Explanation)
}

func TeacherWrongFeedback(q PracticeQuestion) string {
	return fmt.Sprintf("Belum tepat nih. Jawaban yang benar: %s. Penjelasan: %s", q.Answer, q.Explanation)
}

// TeacherDiscussionFallback answers a discussion request without a
// generated reply.
func TeacherDiscussionFallback(q PracticeQuestion) string {
	return fmt.Sprintf("Penjelasan singkatnya begini: %s", q.Explanation)
}

// FormatQuestionIntro renders the question bubble. The first question of
// a session gets the mode-on banner.
func FormatQuestionIntro(q PracticeQuestion, attemptNumber int) string {
	var b strings.Builder
	if attemptNumber == 1 {
		b.WriteString("Halo! ASKA lagi jadi gurumu, yuk kita latihan 😎📚\n")
	}

	gradeLabel := fmt.Sprintf("kelas %d", q.GradeMin)
	if q.GradeMin != q.GradeMax {
		gradeLabel = fmt.Sprintf("kelas %d - %d", q.GradeMin, q.GradeMax)
	}

	fmt.Fprintf(&b, "Soal %s (%s):\n%s", q.Subject, gradeLabel, q.Question)
	if len(q.Choices) > 0 {
		b.WriteString("\nPilih salah satu jawaban berikut:")
		for _, choice := range q.Choices {
			b.WriteString("\n- " + choice)
		}
	}
	b.WriteString("\n\nTulis jawabanmu di sini ya! Kalau bingung, tinggal tanya atau minta penjelasan. " +
		"Ketik 'skip' buat ganti soal, atau 'stop' kalau mau selesai. Semangat! ✨")
	if q.Source == QuestionSourceLLM {
		b.WriteString("\n(Soal ini dibuat otomatis oleh guru AI ASKA.)")
	}
	return b.String()
}
