package responses

import (
	"math/rand"
	"strings"
)

var acknowledgementKeywords = []string{
	"ok", "oke", "okey", "okeh", "okee", "okii", "okdeh", "okedeh", "okelah", "oklah",
	"k", "kk",
	"sip", "siip", "siipp", "sippp",
	"siap", "siapp", "siappp",
	"mantap", "mantapp", "mantab", "mantul", "mantull", "mantulll",
	"noted",
	"beres", "done", "fix",
	"gas", "gass", "gaskan", "gasken", "gaskeun",
	"next", "lanjut", "lanjutt", "lanjutkan",
	"letsgo", "letsgow", "letgo", "letsgol",
	"baik", "baiklah", "siiplah", "cus", "cuss", "kuy",
}

var acknowledgementPhrases = []string{
	"siap kak", "siap mbak", "siap mas", "siap pak", "siap bu", "siap bos", "siap bestie",
	"oke deh", "oke dah", "oke lanjut", "oke makasih", "okee makasih", "ok makasih",
	"sip lanjut", "sip makasih", "siap gas", "lanjut gan", "lanjut kak", "gaskeun bestie",
	"lets go", "let's go", "next aja", "udah paham", "udah jelas", "fix ya", "deal ya",
}

var acknowledgementResponses = []string{
	"Siap! *ASKA* standby, tinggal ping kalau lanjut 😉🤖",
	"Oke noted. Kalau mau next step, spill aja ya ✍️✨",
	"Sip mantul! *ASKA* siap bantu round berikutnya 🚀📚",
	"Gaskeun~ butuh link/aturan? bilang aja 🔗✅",
	"Done diterima. Semoga urusannya sat set 🎯⚡",
	"Baik, dicatat. Mau rekap ringkas? tinggal bilang 🗒️✨",
	"Mantap! *ASKA* ready kapan pun kamu butuh 🤝🤖",
	"Cus lanjut! Kirim kata kunci atau topiknya 📩🔍",
	"Noted bestie. Kita jaga tetap no drama 😌🛡️",
	"Okeee~ *ASKA* nunggu komando berikutnya 📲🧭",
	"Siap captain! Arahkan tujuan, *ASKA* yang navigasi 🧭🚀",
	"Sip, kalau ada yang kurang jelas tinggal tanya ulang 🧩💬",
	"Fix ya. Next kalau perlu bukti resmi, aku cariin 🔎📘",
	"Deal! *ASKA* tetap on buat follow-up kapan saja ⏱️🤖",
	"Maknyus! Lanjut kerja santuy, info serahin ke *ASKA* 😌📊",
}

// IsAcknowledgement matches short "ok"/"sip" style confirmations. Long
// messages never count even when they contain a keyword token.
func IsAcknowledgement(text string) bool {
	if text == "" {
		return false
	}
	lowered := strings.ToLower(text)
	tokens := tokenSet(lowered)
	if len(tokens) > 5 {
		return false
	}
	if anyToken(tokens, acknowledgementKeywords) {
		return true
	}
	return containsAny(lowered, acknowledgementPhrases)
}

func AcknowledgementReply(rng *rand.Rand) string {
	return pick(rng, acknowledgementResponses)
}
