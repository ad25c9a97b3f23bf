package responses

import (
	"math/rand"
	"strings"
)

// Core words that directly refer to romance or a partner.
var coreRelationshipKeywords = []string{
	"jodoh",
	"pacar",
	"pasangan",
	"nikah",
	"menikah",
	"pernikahan",
	"tunangan",
	"lamaran",
	"doi",
	"gebetan",
	"pdkt",
	"bucin",
	"crush",
	"romansa",
	"asmara",
}

var relationshipPhrases = []string{
	"cari jodoh",
	"nyari jodoh",
	"kapan nikah",
	"kapan aku nikah",
	"kapan aku kawin",
	"gimana dapet pacar",
	"minta pacar",
	"pengen pacar",
	"pengen nikah",
	"butuh pacar",
	"butuh pasangan",
	"cara pdkt",
	"cara dapetin doi",
	"cara dapetin pacar",
	"cara dapat pacar",
	"tips pdkt",
	"tips asmara",
	"soal jodoh",
	"siapa jodohku",
	"sapa jodohku",
	"siapa pacarku",
	"sapa pacarku",
	"siapa pasanganku",
	"sapa pasanganku",
}

// Generic on their own; they only signal romance next to a question cue.
var relationshipSecondaryKeywords = []string{
	"cinta",
	"sayang",
	"dihianati",
	"selingkuh",
	"putus",
	"balikan",
	"gebet",
}

var relationshipQuestionCues = []string{
	"gimana",
	"bagaimana",
	"boleh",
	"harus",
	"apa",
	"kenapa",
	"kapan",
	"ngapain",
	"cara",
	"tips",
	"minta",
	"tolong",
	"siapa",
	"sapa",
}

var relationshipAdviceResponses = []string{
	"Bestie, ASKA ngerti kamu penasaran soal jodoh ✨ tapi mode wali kelas bilang fokus dulu benahin nilai dan attitude biar pondasi kuat 📚.",
	"Lagi galau gebetan? ASKA saranin bikin laporan konseling ke guru BK atau ngobrol sama ortu, habis itu back to to-do sekolah biar hati dan otak tetap balance 💬📝.",
	"ASKA percaya jodoh datang pas kamu siap tanggung jawab; sementara upgrade skill lewat belajar, ekskul, sama karakter kece 💪🎓.",
	"Daripada overthinking pasangan, ASKA ajak kamu salurin energi ke lomba, organisasi, atau project kreatif buat masa depan cerah 🚀🏆.",
	"Guru-guru dan ASKA sepakat batas pertemanan harus dijaga; hormati diri sendiri dan temen supaya vibes kelas tetap sehat 🙌❤️.",
	"Kalau temen sibuk pacaran, chill aja-ASKA dukung kamu fokus ngejar mimpi dulu, biarin prestasi yang bikin kamu auto dilirik nanti ✨😉.",
	"Pas patah hati, ASKA siap ngingetin: tulis jurnal, gerak badan, terus bangkit lagi kayak siswa champion yang tahan banting 🏃‍♀️📔.",
	"ASKA define relationship goals pelajar sebagai akrab sama buku, guru, dan habit produktif biar masa depan makin stabil 📖✅.",
	"Ingat kata ASKA, masa sekolah cuma sekali; kumpulin pengalaman positif, temen suportif, dan nilai mantap-jodoh bakal nyusul 🕒💫.",
	"Kalau masih bingung, DM guru BK atau panggil ASKA lagi; kita siap jadi support system biar kamu tetap on track 👩‍🏫🤝.",
}

// IsRelationshipQuestion detects romance or soulmate topics.
func IsRelationshipQuestion(text string) bool {
	if text == "" {
		return false
	}
	lowered := strings.ToLower(text)
	tokens := tokenSet(lowered)

	if anyToken(tokens, coreRelationshipKeywords) {
		return true
	}
	for token := range tokens {
		if containsAny(token, coreRelationshipKeywords) {
			return true
		}
	}
	if containsAny(lowered, relationshipPhrases) {
		return true
	}

	hasSecondary := anyToken(tokens, relationshipSecondaryKeywords)
	hasQuestionCue := anyToken(tokens, relationshipQuestionCues) || strings.Contains(lowered, "?")
	return hasSecondary && hasQuestionCue
}

func RelationshipAdviceReply(rng *rand.Rand) string {
	return pick(rng, relationshipAdviceResponses)
}
