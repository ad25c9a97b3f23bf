package responses

import (
	"math/rand"
	"strings"
)

var farewellKeywords = []string{
	"bye", "byee", "byeee", "goodbye", "gbye",
	"dadah", "dadaa", "dadaah", "daa", "daaah",
	"pamit", "cabut", "cabs",
	"ciao", "ciauu", "ciaw",
	"permisi", "leave", "left",
	"gtg", "g2g", "brb", "out",
	"off", "logoff", "logout",
}

var farewellPhrases = []string{
	"bye bye", "see you", "see u", "see ya",
	"sampai jumpa", "sampai ketemu", "udah ya", "cukup ya",
	"aku pamit", "aku cabut", "aku off dulu",
	"izin pamit", "izin keluar", "otw off", "udah dulu ya", "dah dulu ya",
}

var farewellResponses = []string{
	"Makasih udah ngobrol, sampai jumpa lagi! ✨👋",
	"Oke, *ASKA* pamit dulu. Butuh lagi tinggal chat ya~ 🤖💬",
	"See ya! Semoga harimu lancar dan sat set. 🚀🌈",
	"Sip, ketemu lagi di pertanyaan berikutnya ya. 😉📚",
	"Bye bestie! *ASKA* off dulu—ping aja kalau perlu. 💤🔔",
	"Mantap, sesi selesai. Sampai ketemu di chat berikutnya! ✅💬",
	"Dadah~ semoga semua urusannya smooth. 🌊✨",
	"Cuss lanjut aktivitasmu, *ASKA* standby kapan pun. 🕒🤖",
	"Take care! *ASKA* cabut dulu ya. 🙌🛡️",
	"Thank you & see you, pejuang data sekolah! 🏫🔥",
	"Udahan dulu ya—kalau bingung lagi, panggil *ASKA*. 🧩📲",
	"Misi selesai. Sampai jumpa, keep shining! ✨🏆",
	"OTW off, next time kita gas lagi bareng *ASKA*. ⚡🚀",
	"Cukup segini dulu—tetap semangat dan produktif! 💪📈",
	"See you next chat! *ASKA* suka data akurat, kamu juga ya 😉📊",
}

// IsFarewell reports whether the message says goodbye.
func IsFarewell(text string) bool {
	if text == "" {
		return false
	}
	lowered := strings.ToLower(text)
	if anyToken(tokenSet(lowered), farewellKeywords) {
		return true
	}
	return containsAny(lowered, farewellPhrases)
}

func FarewellReply(rng *rand.Rand) string {
	return pick(rng, farewellResponses)
}
