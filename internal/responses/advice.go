package responses

import (
	"math/rand"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// All entries are lowercase; detection runs on lowercased text.
var inappropriateKeywords = []string{
	"anjing", "anjir", "anjay", "anjrit", "anjrr", "anj",
	"bangsat", "brengsek", "bajingan", "keparat", "laknat",
	"goblok", "tolol", "bodoh", "bego", "dungu", "idiot",
	"kampret", "tai", "taik", "babi", "asu",
	"bacot", "bacott",
	"kontol", "k0nt0l", "memek", "m3m3k", "titit", "peler", "pler",
	"ngewe", "ewe", "entot", "ngentot", "entod",
	"coly", "coli", "colmek",
	"perek", "lonte", "pelacur",
	"jancuk", "jancok", "cuk", "cukimay",
	"bangke", "bangkai",
	"pantek", "matamu",
	"fuck", "fck", "fak", "wtf", "stfu",
	"shit", "bullshit", "bs",
	"bitch", "btch", "slut",
	"asshole", "ass", "dick", "d1ck", "pussy",
	"jerk",
}

var inappropriatePhrases = []string{
	"dasar bodoh",
	"dasar tolol",
	"dasar goblok",
	"mulut kotor",
	"kata-kata kotor",
	"bahasa kasar",
	"otak udang",
	"otak kosong",
	"muka badak",
	"kurang ajar",
	"nggak sopan",
	"mulutmu harimau mu",
	"jaga mulut",
	"sampah masyarakat",
	"tidak berguna",
	"malu-maluin",
	"tidak sopan banget",
	"buruk budi",
	"mata mu",
}

var adviceResponses = []string{
	"ASKA paham kamu lagi panas, tapi kita jaga kelas biar vibes tetap adem. Tarik napas bentar, pilih kata sopan ya 🌬️🙏.",
	"Kalau emosi meledak, ASKA saranin pause dulu terus spill versi yang lebih santun biar pesannya tetep ngena 🤝✨.",
	"ASKA timnya anak sekolah kece—kata kasar bikin ambience rusak. Yuk ubah jadi kritik yang rapi dan hormat 🧠💬.",
	"Tiap chat ke ASKA jadi jejak digital, bestie. Make sure yang kebaca itu sikap good vibes, bukan toxic rant 📲🌟.",
	"Marah boleh, ngelempar kata pedes jangan. ASKA bantu kamu rephrase kalau perlu, tinggal bilang aja 🙋‍♀️🛠️.",
	"Inget pesan guru: mulutmu harimaumu. ASKA jagain kamu biar tetep elegan dengan bahasa positif 🐯😎.",
	"Kalau lawan debat bikin kesel, ASKA rekomend fokus ke fakta dan solusi. Itu baru anak sekolah visioner 🎯📚.",
	"ASKA sayang sama vibes kelas. Ganti kata kasar pakai kalimat supportif biar temenmu nggak kena mental 💗🛡️.",
	"Butuh ngeluarin uneg-uneg? Ketik dulu di draft, baca ulang, baru kirim ke ASKA dengan tone yang respect 🙌📝.",
	"Kita gas produktif bareng ASKA. Bahasa santun = otak jernih = masalah kelar tanpa drama 🧋✅.",
}

var leetRunes = map[rune]rune{
	'0': 'o', '1': 'i', '!': 'i', '|': 'i',
	'3': 'e', '4': 'a', '5': 's', '$': 's',
	'7': 't', '@': 'a',
}

var (
	nonAlnumRE   = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespaceRE = regexp.MustCompile(`\s+`)
)

func stripAccents(text string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(text) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// collapseRepeats caps any run of the same rune at two, so "anjiiiing"
// normalizes to "anjiing".
func collapseRepeats(text string) string {
	var b strings.Builder
	var last rune
	run := 0
	for _, r := range text {
		if r == last {
			run++
		} else {
			last, run = r, 1
		}
		if run <= 2 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func normalizeProfanity(text string) string {
	lowered := stripAccents(strings.ToLower(text))
	lowered = strings.Map(func(r rune) rune {
		if repl, ok := leetRunes[r]; ok {
			return repl
		}
		return r
	}, lowered)
	lowered = nonAlnumRE.ReplaceAllString(lowered, " ")
	lowered = strings.TrimSpace(whitespaceRE.ReplaceAllString(lowered, " "))
	return collapseRepeats(lowered)
}

var leetClasses = map[rune]string{
	'a': "[a4@]",
	'e': "[e3]",
	'i': "[i1!|]",
	'o': "[o0]",
	's': "[s5$]",
	't': "[t7]",
}

// spacedRegexFromWord matches a keyword even when obfuscated with leet
// substitutions or separators, e.g. "a.n.j.i.n.g" or "g0bl0k".
func spacedRegexFromWord(word string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("(?i)")
	for _, char := range word {
		if class, ok := leetClasses[char]; ok {
			b.WriteString(class)
		} else {
			b.WriteString(regexp.QuoteMeta(string(char)))
		}
		b.WriteString(`[\W_]*`)
	}
	return regexp.MustCompile(b.String())
}

var inappropriateRegexes = func() []*regexp.Regexp {
	regexes := make([]*regexp.Regexp, 0, len(inappropriateKeywords))
	for _, keyword := range inappropriateKeywords {
		regexes = append(regexes, spacedRegexFromWord(keyword))
	}
	return regexes
}()

// ContainsInappropriate reports whether the text carries profanity or
// disrespectful phrasing, including leet-obfuscated forms.
func ContainsInappropriate(text string) bool {
	normalized := normalizeProfanity(text)
	rawLower := strings.ToLower(text)

	for _, phrase := range inappropriatePhrases {
		if strings.Contains(rawLower, phrase) || strings.Contains(normalized, phrase) {
			return true
		}
	}

	tokens := make(map[string]bool)
	for _, token := range strings.Fields(normalized) {
		tokens[token] = true
	}
	if anyToken(tokens, inappropriateKeywords) {
		return true
	}

	for _, regex := range inappropriateRegexes {
		if regex.MatchString(text) {
			return true
		}
	}
	return false
}

func AdviceReply(rng *rand.Rand) string {
	return pick(rng, adviceResponses)
}
