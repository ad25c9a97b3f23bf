package responses

import (
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/sdnsembar01/aska/internal/textnorm"
)

// questionTokens mark a message as a question rather than a pure greeting.
var questionTokens = []string{
	"apa", "gimana", "bagaimana", "kenapa", "mengapa",
	"siapa", "kapan", "dimana", "di", "mana", "berapa", "kah",
}

// Time words (pagi/siang/sore/malam and their English forms) live in the
// time greeting tables below, not here, so they do not collide.
var greetingKeywords = []string{
	"hai", "hay",
	"halo", "hallo", "helo",
	"hello", "hey", "heyy", "heyyy",
	"hi", "hii", "hiya",
	"yo", "yow", "oy", "oi", "oii", "woy", "hoi",
	"cuy", "cui",
	"bro", "sis", "gan", "min",
	"permisi", "p",
	"assalamualaikum", "asswrwb",
}

var greetingPhrases = []string{
	"selamat pagi", "selamat siang", "selamat sore", "selamat malam",
	"good morning", "good afternoon", "good evening",
	"assalamualaikum", "assalamualaikum wr wb", "assalamu alaikum",
	"permisi kak", "permisi min", "permisi bang",
	"ass wr wb", "ass.wr.wb",
}

var greetingResponses = []string{
	"Haii! *ASKA* hadir, siap bantu kamu hari ini ✨👋",
	"Hello bestie! Ada yang bisa *ASKA* bantu? 😁🚀",
	"Yo yo! *ASKA* udah online, spill aja pertanyaannya 😉💬",
	"Hai sunshine! Semoga harimu vibes positif—ASKA standby ya ☀️🤖",
	"Halo! Jangan sungkan, langsung aja tanya soal sekolah 🔍📚",
	"Wassup! *ASKA* on duty—tanya aja biar cepet kelar 💼⚡",
	"Hola! *ASKA* nongol nih, kabarin aja kebutuhanmu 😉📲",
	"Pagi/siang/sore! *ASKA* ready mode ON—spill masalahnya ✍️🤖",
	"Yo, squad! Info sekolah? *ASKA* bantuin dari A sampai Z 🔤🧩",
	"Hey there! *ASKA* hadir dengan good vibes, gaskeun pertanyaannya 🌈✨",
	"Hai tim sukses! *ASKA* siap jadi co-pilotmu hari ini 🛫🧭",
	"Halloo! Mau data, jadwal, atau aturan? *ASKA* siap nyariin 🔎🗂️",
	"Good day! *ASKA* online—kamu santai aja, biar *ASKA* yang mikir 😌🧠",
	"Cek cek! *ASKA* connected—ketik aja, langsung kita urai bareng 🔗💬",
	"Welcome back! *ASKA* kangen nih, siap bantu lagi 💖🤖",
}

var timeGreetingPhrases = map[string][]string{
	"pagi":  {"selamat pagi", "good morning", "met pagi"},
	"siang": {"selamat siang", "good afternoon", "met siang"},
	"sore":  {"selamat sore", "met sore"},
	"malam": {"selamat malam", "good evening", "good night", "met malam"},
}

var timeGreetingKeywords = map[string][]string{
	"pagi":  {"pagi", "pagii", "pagiii", "pg", "morning", "gm", "gmorn", "goodmorning", "subuh"},
	"siang": {"siang", "siangg", "sianggg", "afternoon", "noon", "midday"},
	"sore":  {"sore", "soree", "sorean", "petang"},
	"malam": {"malam", "malemm", "malammm", "mlm", "night", "evening", "gn", "goodnight", "nite", "midnight", "larut"},
}

var timeGreetingResponses = map[string][]string{
	"pagi": {
		"Selamat pagi! ☀️ *ASKA* doain harimu sesegar kopi pertama ☕",
		"Morning squad! ☀️ *ASKA* siap bikin pagi kamu makin produktif 🚀",
		"Hai pagi! Yuk mulai hari dengan info valid dari *ASKA* 🌅🧠",
		"Pagi, bestie! Biar makin on-track, tanya *ASKA* dulu 🌞📋",
		"Rise and shine! *ASKA* ready bantu urusan sekolah kamu 🌤️📚",
		"Pagi ceria! Cek jadwal/seragam/tugas bareng *ASKA* 🗓️✅",
		"Semoga nilai & mood kamu sama-sama naik hari ini 📈😊",
		"Good morning! Butuh pengumuman terbaru? *ASKA* siap spill 🗞️🤖",
		"Pagi-pagi udah rajin? Mantap! *ASKA* temenin cari info 💪🔎",
		"Gaskeun aktivitas dengan data akurat dari *ASKA* ⚡️✅",
	},
	"siang": {
		"Selamat siang! Jangan lupa makan dulu, *ASKA* jagain infonya 🍽️🤖",
		"Siang bestie! *ASKA* standby kalau butuh update sekolah 🌤️📚",
		"Halo siang! Mau lanjut urusan sekolah? Spill ke *ASKA* ☀️💬",
		"Siang gini enaknya ngerapiin agenda. *ASKA* bantuin ya 🗂️🕑",
		"Good afternoon! Cek pengumuman atau jadwal bareng *ASKA* 🗓️📰",
		"Siang produktif! *ASKA* siap jawab yang bikin bingung 💡🙌",
		"Minum air dulu, lanjut tanya *ASKA* biar fokus 💧🧠",
		"Lagi di sekolah? *ASKA* bisa cek info cepat untukmu 🏫⚡️",
		"Siang cerah, info juga harus terang. Tanya *ASKA* ya 🌞🔍",
		"Mau kirim izin/agenda? *ASKA* kasih panduan singkat ✉️📌",
	},
	"sore": {
		"Selamat sore! Saatnya wrap-up bareng *ASKA* 🌇📋",
		"Sore vibes! *ASKA* siap bantu beresin agenda hari ini 🌆🤖",
		"Hai sore! Butuh rekap info sekolah? *ASKA* bantu 🌄📝",
		"Sore-sore waktunya cek tugas besok. *ASKA* temenin 🌤️✅",
		"Sore chill, info tetap clear. Tanyain ke *ASKA* aja ✨🔎",
		"Ada ekskul? *ASKA* bisa cekin detailnya 🏀🎶",
		"Biar pulang tenang, pastiin infonya valid via *ASKA* 🏠✅",
		"Perlu ringkas pengumuman hari ini? *ASKA* ringkasin 🗞️✂️",
		"Waktunya wind down. *ASKA* bantu planning to-do besok 🗒️🕟",
		"Sebelum magrib, cek checklist bareng *ASKA* 🌇📝",
	},
	"malam": {
		"Selamat malam! 🌙 Urusan info sekolah biar *ASKA* yang handle 😴",
		"Malam bestie! Yuk tutup hari dengan data akurat *ASKA* 🌌📊",
		"Halo malam! Kalau masih ada PR info sekolah, tanya *ASKA* 🌛💬",
		"Good evening! Siapkan seragam & jadwal, *ASKA* bantu cek 🧺🗓️",
		"Malam produktif? Boleh. *ASKA* siap cari referensi 📚✨",
		"Minum hangat, lalu cek checklist besok bareng *ASKA* 🍵🕘",
		"Malam-malam kepo pengumuman? *ASKA* bisa spill terbaru 🌙🗞️",
		"Time to recharge. Sebelum tidur, cek to-do bareng *ASKA* 🔋📝",
		"Malam hening, info tetap jernih. Tanyain *ASKA* 🌃🔍",
		"Good night! Semoga mimpi indah, besok kita gas lagi 🌠🚀",
	},
}

var wordRE = regexp.MustCompile(`\w+`)

// PeriodFromClock maps a wall-clock instant to pagi/siang/sore/malam.
// pagi 04:00-10:59, siang 11:00-14:59, sore 15:00-18:29, else malam.
func PeriodFromClock(now time.Time) string {
	local := now.In(textnorm.Jakarta())
	total := local.Hour()*60 + local.Minute()
	switch {
	case total >= 4*60 && total <= 10*60+59:
		return "pagi"
	case total >= 11*60 && total <= 14*60+59:
		return "siang"
	case total >= 15*60 && total <= 18*60+29:
		return "sore"
	default:
		return "malam"
	}
}

// detectTimeGreetingPeriod returns the period named by an explicit time
// greeting in the text, or "" when the text is not a time greeting.
func detectTimeGreetingPeriod(text string) string {
	if text == "" {
		return ""
	}
	lowered := strings.ToLower(text)
	tokens := tokenSet(lowered)
	if strings.Contains(lowered, "?") || anyToken(tokens, questionTokens) {
		return ""
	}
	for period, phrases := range timeGreetingPhrases {
		if containsAny(lowered, phrases) {
			return period
		}
	}
	// A bare time word only counts when it opens a short message, so
	// "pagi ini ada rapat" never reads as a greeting.
	words := wordRE.FindAllString(lowered, -1)
	if len(words) == 0 || len(words) > 3 {
		return ""
	}
	for period, keywords := range timeGreetingKeywords {
		for _, keyword := range keywords {
			if words[0] == keyword {
				return period
			}
		}
	}
	return ""
}

// IsGreeting reports whether the message is a pure greeting. Question
// markers always disqualify; bare keywords need a short message.
func IsGreeting(text string) bool {
	if text == "" {
		return false
	}
	lowered := strings.TrimSpace(strings.ToLower(text))
	tokens := tokenSet(lowered)

	if strings.Contains(lowered, "?") || anyToken(tokens, questionTokens) {
		return false
	}

	switch lowered {
	case "p", "permisi", "permisi min", "permisi kak":
		return true
	}
	if len(tokens) == 1 && tokens["p"] {
		return true
	}

	if containsAny(lowered, greetingPhrases) {
		return len(wordRE.FindAllString(lowered, -1)) <= 6
	}

	if anyToken(tokens, greetingKeywords) {
		return len(wordRE.FindAllString(lowered, -1)) <= 3
	}

	return detectTimeGreetingPeriod(lowered) != ""
}

// GreetingReply answers a greeting. A time greeting in the text wins,
// otherwise the reply follows the local Jakarta clock.
func GreetingReply(rng *rand.Rand, text string, now time.Time) string {
	period := detectTimeGreetingPeriod(text)
	if period == "" {
		period = PeriodFromClock(now)
	}
	if options, ok := timeGreetingResponses[period]; ok {
		return pick(rng, options)
	}
	return pick(rng, greetingResponses)
}

// GenericGreetingReply skips the time tables entirely.
func GenericGreetingReply(rng *rand.Rand) string {
	return pick(rng, greetingResponses)
}
