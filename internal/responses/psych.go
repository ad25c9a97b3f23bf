package responses

import (
	"math/rand"
	"strings"
)

// Psych severities. Critical outranks elevated outranks general.
const (
	PsychGeneral  = "general"
	PsychElevated = "elevated"
	PsychCritical = "critical"
)

const (
	// PsychDeclineText is the goodbye after a declined confirmation.
	PsychDeclineText = "Oke, tidak apa-apa. Kalau nanti butuh teman cerita lagi, ASKA siap standby 😊"

	// PsychConfirmReminderText nudges a user who answered the
	// confirmation prompt with something other than yes or no.
	PsychConfirmReminderText = "Kalau mau lanjut laporan konseling, tinggal jawab 'iya'. Kalau enggak, bilang aja 'nggak' ya."
)

var psychTriggerKeywords = []string{
	"curhat",
	"mau cerita",
	"pengen cerita",
	"butuh teman cerita",
	"lagi sedih",
	"lagi down",
	"lagi galau",
	"stress",
	"stres",
	"cemas",
	"anxiety",
	"sendiri",
	"kesepian",
	"nangis",
	"mental",
}

var psychElevatedKeywords = []string{
	"depresi",
	"depression",
	"burn out",
	"burnout",
	"overthinking",
	"trauma",
	"takut banget",
	"gak berharga",
	"tidak berharga",
	"gak kuat",
	"nggak kuat",
	"capek hidup",
	"cape hidup",
	"cape banget",
	"pusing banget",
}

var psychCriticalKeywords = []string{
	"bunuh diri",
	"mau mati",
	"pengen mati",
	"ingin mati",
	"akhiri hidup",
	"melukai diri",
	"self harm",
	"self-harm",
	"menyakiti diri",
	"potong tangan",
	"minum obat banyak",
	"gantung diri",
}

var psychStopKeywords = []string{
	"stop curhat",
	"udah cukup",
	"sampai sini",
	"makasih ya",
	"cukup curhat",
	"selesai curhat",
}

var psychConfirmYes = map[string]bool{
	"iya": true, "iya mau": true, "iya dong": true, "lanjut": true,
	"boleh": true, "yuk": true, "gas": true, "gaskeun": true,
	"yes": true, "ok": true, "oke": true, "yoi": true,
}

var psychConfirmNo = map[string]bool{
	"enggak": true, "gak": true, "tidak": true, "ga usah": true,
	"nggak jadi": true, "nanti aja": true, "udah kok": true,
}

// PsychStages orders the counseling conversation.
var PsychStages = []string{"feelings", "context", "support"}

var psychStagePrompts = map[string][]string{
	"feelings": {
		"Cerita dong, sekarang kamu lagi ngerasain apa? Aku siap dengerin 💬",
		"Kamu boleh banget ngejelasin perasaanmu sekarang. Lagi campur aduk atau gimana nih?",
		"Mulai dari perasaanmu dulu ya. Lagi sedih, takut, atau capek? Spill aja di sini.",
	},
	"context": {
		"Kalau kamu nyaman, ceritain apa yang bikin kamu ngerasa kayak gitu ya.",
		"Pemicunya apa nih? Aku pengen ngerti biar bisa nemenin kamu lebih pas.",
		"Ada kejadian tertentu yang bikin kamu down? Ceritain versi kamu aja.",
	},
	"support": {
		"Menurut kamu, bantuan atau dukungan seperti apa yang lagi kamu butuhin sekarang?",
		"Ada orang yang kamu percaya buat diajak ngobrol langsung? Guru BK atau orang rumah mungkin?",
		"Kira-kira apa yang bisa bikin kamu ngerasa sedikit lebih baik saat ini?",
	},
}

var psychValidations = []string{
	"Makasih udah percaya curhat ke ASKA, kamu keren banget berani cerita 💖",
	"Pelan-pelan aja ya, kamu nggak sendirian. ASKA di sini buat nemenin 🤗",
	"Apa pun yang kamu rasain valid kok. Tarik napas dulu, kita bahas bareng ya 😌",
}

var psychClosings = []string{
	"Kalau butuh ngobrol lagi, tinggal panggil ASKA kapan aja. Jangan lupa ajak ngobrol guru BK atau orang dewasa yang kamu percaya ya 💪",
	"Terima kasih sudah cerita. Tetap jaga dirimu dan kalau makin berat, langsung hubungi guru BK atau orang rumah ya 🙏",
	"ASKA bangga sama kamu yang mau cerita. Sering-sering ngobrol sama guru BK/teman terpercaya biar kamu lebih ringan 🤍",
}

var psychCriticalResponses = []string{
	"Ini serius banget ya. Tolong segera hubungi guru BK, wali kelas, atau orang dewasa yang lagi ada di dekatmu sekarang juga 🙏",
	"ASKA bener-bener khawatir. Coba langsung cari bantuan ke guru BK atau orang dewasa yang kamu percaya, atau telepon 119 buat layanan darurat ya 🚨",
	"Kamu berharga banget. Tolong jangan sendirian, segera kontak guru BK, orang tua, atau layanan darurat di 119 supaya kamu dapet bantuan cepat ⚠️",
}

type psychSupportRule struct {
	name      string
	keywords  []string
	responses []string
}

var psychSupportRules = []psychSupportRule{
	{
		name: "lonely",
		keywords: []string{
			"kesepian",
			"sendiri",
			"ga ada teman",
			"gak ada teman",
			"nggak ada teman",
			"merasa sendiri",
			"tidak ada teman",
		},
		responses: []string{
			"Rasa sepi itu berat, tapi kamu nggak sendirian. Coba ajak ngobrol guru BK atau teman yang kamu percaya ya 🤝",
			"Kalau merasa sendiri, kamu boleh cari kegiatan bareng temen atau cerita ke keluarga. ASKA juga siap nemenin kapan pun 👭",
		},
	},
	{
		name: "family",
		keywords: []string{
			"keluarga",
			"orang tua",
			"ayah",
			"ibu",
			"papa",
			"mama",
			"ortu",
			"rumah",
		},
		responses: []string{
			"Masalah keluarga memang bikin hati campur aduk. Kamu bisa coba bicara pelan-pelan sama orang dewasa yang kamu percaya di rumah atau guru BK 🏠",
			"Kalau lagi berat di rumah, ambil waktu buat nenangin diri dulu, lalu cerita ke orang dewasa yang paling kamu nyaman. Kamu berhak didengar ❤️",
		},
	},
	{
		name: "school_pressure",
		keywords: []string{
			"nilai",
			"ujian",
			"ulangan",
			"pekerjaan rumah",
			"pr",
			"tugas",
			"ranking",
			"rapor",
		},
		responses: []string{
			"Belajar boleh capek, tapi kamu nggak harus sempurna. Atur jadwal kecil-kecil dan jangan sungkan minta bantuan guru atau teman 💪",
			"Coba pecah tugas jadi langkah kecil dan kasih waktu istirahat ke diri sendiri. Kalau butuh, curhat ke guru BK atau teman belajar bareng 📚",
		},
	},
	{
		name: "relationship",
		keywords: []string{
			"teman",
			"bestie",
			"sahabat",
			"dibenci",
			"dimusuhi",
			"cekcok",
			"berantem",
			"toxic",
		},
		responses: []string{
			"Drama pertemanan bisa bikin capek. Ambil jeda dulu, lalu ngobrol baik-baik atau ajak guru BK jadi penengah kalau perlu 🤝",
			"Kalau ada temen yang bikin kamu down, kamu boleh fokus ke lingkungan yang suportif dan cerita ke guru atau keluarga supaya dapat sudut pandang baru 💬",
		},
	},
	{
		name: "self_worth",
		keywords: []string{
			"gak berharga",
			"tidak berharga",
			"tidak berguna",
			"gak berguna",
			"ga berguna",
			"low self esteem",
			"benci diri",
		},
		responses: []string{
			"Kamu itu berarti dan berharga. Coba ingat hal-hal kecil yang pernah bikin kamu bangga, dan cerita ke orang yang bisa menguatkan kamu 💖",
			"Rasa minder wajar kok. Fokus ke hal baik yang kamu punya dan jangan ragu minta support guru BK atau orang terdekat yang positif 🌟",
		},
	},
	{
		name: "stress",
		keywords: []string{
			"stress",
			"stres",
			"overthinking",
			"burnout",
			"capek banget",
			"lelah banget",
			"pusing banget",
		},
		responses: []string{
			"Kalau lagi penat banget, tarik napas dalam-dalam dan kasih jeda buat diri sendiri. Setelah itu cerita ke orang dewasa yang bisa bantu, ya 😌",
			"Overthinking tuh melelahkan. Kamu bisa coba tulis yang kamu rasain, lalu diskusikan ke guru BK atau orang tua supaya lebih ringan 📝",
		},
	},
}

var psychDefaultSupportResponses = []string{
	"Thank you udah spill cerita. Ingat, kamu boleh banget minta bantuan guru BK atau orang dewasa yang kamu percaya supaya makin lega 🤍",
	"Kamu kuat banget bisa cerita. Jangan lupa rawat diri sendiri, istirahat cukup, dan tetap terhubung dengan orang-orang yang sayang sama kamu 🌷",
	"ASKA ada di pihak kamu. Langkah kecil untuk cerita ini udah keren banget. Lanjutkan cari dukungan offline juga ya 🙌",
}

// DetectPsychIntent returns the severity of a counseling opener, or ""
// when the message does not read as one.
func DetectPsychIntent(message string) string {
	if message == "" {
		return ""
	}
	lowered := collapseSpaces(message)
	switch {
	case containsAny(lowered, psychCriticalKeywords):
		return PsychCritical
	case containsAny(lowered, psychElevatedKeywords):
		return PsychElevated
	case containsAny(lowered, psychTriggerKeywords):
		return PsychGeneral
	}
	return ""
}

// ClassifyPsychSeverity re-grades a mid-session message; it can only
// escalate past the given default, never soften it.
func ClassifyPsychSeverity(message, def string) string {
	lowered := collapseSpaces(message)
	switch {
	case containsAny(lowered, psychCriticalKeywords):
		return PsychCritical
	case containsAny(lowered, psychElevatedKeywords):
		return PsychElevated
	}
	return def
}

// PsychConfirmationPrompt asks whether the user really wants to start.
func PsychConfirmationPrompt(severity string) string {
	base := "ASKA siap dengerin cerita kamu. Beneran mau curhat sekarang? Tinggal bilang iya atau enggak aja."
	switch severity {
	case PsychCritical:
		base = "Aku merasa ini penting banget buat dibahas. ASKA siap dengerin full. " +
			"Kamu mau cerita lebih lanjut sekarang?"
	case PsychElevated:
		base = "Kayaknya kamu lagi berat banget ya. ASKA siap nemenin. " +
			"Mau lanjut curhat sekarang?"
	}
	return base + " 😊"
}

func IsPsychYes(message string) bool {
	lowered := collapseSpaces(message)
	if psychConfirmYes[lowered] {
		return true
	}
	for _, prefix := range []string{"iya", "ya", "boleh", "lanjut"} {
		if strings.HasPrefix(lowered, prefix) {
			return true
		}
	}
	return false
}

func IsPsychNo(message string) bool {
	lowered := collapseSpaces(message)
	if psychConfirmNo[lowered] {
		return true
	}
	for _, prefix := range []string{"enggak", "gak", "ga", "nggak", "tidak"} {
		if strings.HasPrefix(lowered, prefix) {
			return true
		}
	}
	return false
}

func IsPsychStop(message string) bool {
	return containsAny(collapseSpaces(message), psychStopKeywords)
}

func PsychValidation(rng *rand.Rand) string {
	return pick(rng, psychValidations)
}

func PsychStagePrompt(rng *rand.Rand, stage string) string {
	prompts, ok := psychStagePrompts[stage]
	if !ok {
		return "Kamu mau cerita apa pun, tulis aja di sini ya."
	}
	return pick(rng, prompts)
}

func PsychClosing(rng *rand.Rand) string {
	return pick(rng, psychClosings)
}

func PsychCriticalReply(rng *rand.Rand) string {
	return pick(rng, psychCriticalResponses)
}

// PsychSupportMessage builds the topic-matched support reply, with
// severity and stage suffixes appended in that order.
func PsychSupportMessage(rng *rand.Rand, message, stage, severity string) string {
	lowered := collapseSpaces(message)

	var supportText string
	for _, rule := range psychSupportRules {
		if containsAny(lowered, rule.keywords) {
			supportText = pick(rng, rule.responses)
			break
		}
	}
	if supportText == "" {
		supportText = pick(rng, psychDefaultSupportResponses)
	}

	switch severity {
	case PsychCritical:
		supportText += " Jangan tunggu lama, segera cari guru BK atau orang dewasa yang bisa nemenin kamu sekarang juga ya 🙏"
	case PsychElevated:
		supportText += " Kalau makin berat, jangan ragu minta pendampingan langsung ke guru BK atau keluarga ya 💛"
	}

	if stage == "support" {
		supportText += " Kamu juga boleh sebut siapa yang paling kamu percaya buat jadi support system."
	}
	return supportText
}

// SummarizeForDashboard trims a transcript down to a short admin preview.
func SummarizeForDashboard(message string, maxChars int) string {
	clean := strings.Join(strings.Fields(message), " ")
	runes := []rune(clean)
	if len(runes) <= maxChars {
		return clean
	}
	return strings.TrimRight(string(runes[:maxChars-3]), " ") + "..."
}

// PsychNextStage advances feelings -> context -> support. An empty stage
// starts the sequence; past the end it returns "".
func PsychNextStage(current string) string {
	if current == "" {
		return PsychStages[0]
	}
	for i, stage := range PsychStages {
		if stage == current {
			if i+1 < len(PsychStages) {
				return PsychStages[i+1]
			}
			return ""
		}
	}
	return ""
}

func PsychStageExists(stage string) bool {
	for _, s := range PsychStages {
		if s == stage {
			return true
		}
	}
	return false
}
