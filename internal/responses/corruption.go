package responses

import (
	"fmt"
	"math/rand"
	"strings"
)

var corruptionKeywords = []string{
	"korupsi", "korup", "suap", "menyuap", "disuap", "pungli",
	"pungutan liar", "gratifikasi", "tilep", "mark up", "markup",
	"dana", "anggaran", "diselewengkan", "penyelewengan",
}

var corruptionReportSignals = []string{
	"lapor", "melaporkan", "laporan", "ngadu", "mengadu", "laporkan", "report",
}

var corruptionExclusions = []string{
	"apa itu korupsi", "definisi korupsi", "contoh korupsi", "cara mencegah korupsi",
}

var corruptionCancelKeywords = map[string]bool{
	"batal": true, "cancel": true, "batalkan": true, "stop": true,
}

var corruptionHowtoKeywords = []string{
	"cara", "gimana", "bagaimana", "tutorial", "tutor", "gmn", "gimana sih",
}

// CorruptionFieldKeys orders the four report questions. The index doubles
// as the edit-menu number shown to the user.
var CorruptionFieldKeys = []string{"involved", "location", "time", "chronology"}

var corruptionQuestions = map[string][]string{
	"involved": {
		"OMG, gila sih ini korupsi 🤢, red flag parah! 🚩 ASKA bantu usut tuntas, spill dong siapa aja yang terlibat di kasus ini? 🕵️‍♀️\n\n👤 Pelaku:",
		"Oke, kita mulai investigasinya! 🕵️‍♂️ Korupsi itu big no no! ❌ Siapa aja nih oknum-oknum yang main kotor di kasus ini? Sebutin semua ke ASKA ya!\n\n👤 Pelaku:",
	},
	"location": {
		"Oke, noted. Biar makin jelas jejaknya, spill TKP-nya di mana ke ASKA? Gak ada tempat aman buat koruptor! 🗺️📍\n\n📍 Lokasi:",
		"Sip, nama-namanya udah ASKA kunci. Sekarang, kejadiannya di mana nih? Biar kita bisa cek CCTV dan bukti lain. 📹\n\n📍 Lokasi:",
	},
	"time": {
		"Sip, ASKA catet. Kapan nih kejadiannya? Detail waktu penting bgt buat ngelacak bukti, biar ga ada yg bisa ngeles! ⏰🗓️\n\n⏰ Waktu:",
		"Oke, lokasi udah. Sekarang, kapan waktunya? Pagi, siang, malem? Tanggal berapa? Kasih tau ASKA biar alibinya gampang dipatahin! 🧐\n\n⏰ Waktu:",
	},
	"chronology": {
		"Makasih banyak udah berani speak up ke ASKA! 🙏 Kamu keren bgt! Sekarang, coba ceritain semua kronologinya dari A-Z, jangan ada yg ke-skip ya. The tea is hot! ☕️ Spill semuanya biar kita bisa bongkar tuntas kasus ini! 🔥\n\n📝 Kronologi:",
		"Kamu pahlawan! 🦸‍♀️ Makasih udah lapor ke ASKA. Sekarang, tolong ceritain alur ceritanya dari awal sampe akhir. Jangan ragu, ceritain aja semuanya. ASKA dengerin! 🧏\n\n📝 Kronologi:",
	},
}

const (
	CorruptionCancelText = "Oke, laporan dibatalkan. Gak apa-apa kok, semua info yang tadi kamu kasih udah ASKA hapus demi privasimu. Kalau kamu berubah pikiran atau butuh bantuan lagi, jangan ragu panggil ASKA ya. Semangat terus! 💪"

	CorruptionConfirmHelpText = "Maaf, ASKA gak ngerti. Ketik 'benar' atau 'edit' ya. Untuk membatalkan, ketik 'batal'."

	CorruptionEditPromptText = "Bagian mana yang mau diubah? (1. Terlibat, 2. Lokasi, 3. Waktu, 4. Kronologi)"

	CorruptionEditInvalidText = "Pilihannya gak valid. Coba lagi, ketik angka atau namanya (misal: 'waktu')."

	CorruptionDBFailureText = "Yah, sorry banget, ada sedikit gangguan teknis di sistem ASKA nih. 😭 " +
		"Tapi jangan panik! Laporanmu penting banget dan nggak akan hilang gitu aja. Coba deh kirim ulang laporannya beberapa saat lagi. " +
		"Kalau masih error, please laporin error ini ke admin ya. Semangat! Jangan kasih kendor! 💪"

	CorruptionMentionCTAText = "Kalau mau lapor resmi lewat ASKA, ketik aja 'lapor korupsi' ya. " +
		"ASKA bakal pandu step-by-step dan kamu dapat tiket pelacakan. 🔒"
)

// IsCorruptionReportIntent reports whether the user wants to file a
// corruption report. Definitional questions never match.
func IsCorruptionReportIntent(message string) bool {
	if message == "" {
		return false
	}
	normalized := collapseSpaces(message)
	if containsAny(normalized, corruptionExclusions) {
		return false
	}
	return containsAny(normalized, corruptionKeywords) && containsAny(normalized, corruptionReportSignals)
}

// IsCorruptionHowtoRequest matches "how do I report corruption" questions
// so they get a guide instead of opening the report flow.
func IsCorruptionHowtoRequest(message string) bool {
	if message == "" {
		return false
	}
	normalized := collapseSpaces(message)
	if containsAny(normalized, corruptionExclusions) {
		return false
	}
	hasCorruption := containsAny(normalized, corruptionKeywords)
	askingHowto := containsAny(normalized, corruptionHowtoKeywords) ||
		strings.Contains(normalized, "cara lapor") ||
		strings.Contains(normalized, "cara melapor") ||
		strings.Contains(normalized, "tutorial lapor")
	wantsToStart := containsAny(normalized, corruptionReportSignals)
	return hasCorruption && askingHowto && !wantsToStart
}

// MentionsCorruptionOnly flags messages that raise the topic without an
// intent to report, so the router can surface a gentle call to action.
func MentionsCorruptionOnly(message string) bool {
	if message == "" {
		return false
	}
	normalized := collapseSpaces(message)
	if containsAny(normalized, corruptionExclusions) {
		return false
	}
	return containsAny(normalized, corruptionKeywords) &&
		!containsAny(normalized, corruptionReportSignals) &&
		!IsCorruptionHowtoRequest(normalized)
}

// IsCorruptionCancel matches an exact cancel command.
func IsCorruptionCancel(message string) bool {
	return corruptionCancelKeywords[collapseSpaces(message)]
}

// CorruptionQuestion picks one wording for the question at index.
func CorruptionQuestion(rng *rand.Rand, index int) string {
	if index < 0 || index >= len(CorruptionFieldKeys) {
		return ""
	}
	return pick(rng, corruptionQuestions[CorruptionFieldKeys[index]])
}

// CorruptionEditIntro prefixes the re-asked question when editing a field.
func CorruptionEditIntro(rng *rand.Rand, index int) string {
	if index < 0 || index >= len(CorruptionFieldKeys) {
		return ""
	}
	key := CorruptionFieldKeys[index]
	return fmt.Sprintf("Oke, kita ubah bagian '%s'.\n%s", key, pick(rng, corruptionQuestions[key]))
}

// CorruptionConfirmation renders the report summary for review.
func CorruptionConfirmation(involved, location, timeOf, chronology string) string {
	return "Oke, sebelum ASKA simpan, cek dulu ya laporannya udah bener atau belum:\n\n" +
		fmt.Sprintf("🕵️  Siapa yang terlibat:\n%s\n\n", involved) +
		fmt.Sprintf("📍  Lokasi kejadian:\n%s\n\n", location) +
		fmt.Sprintf("⏰  Waktu kejadian:\n%s\n\n", timeOf) +
		fmt.Sprintf("📝  Kronologi:\n%s\n\n", chronology) +
		"---\n" +
		"Gimana, datanya udah bener?\n" +
		"Ketik 'benar' untuk simpan, 'edit' untuk ubah, atau 'batal' untuk cancel."
}

// CorruptionStatusLink builds the public no-login status URL.
func CorruptionStatusLink(baseURL, ticketID string) string {
	base := strings.TrimRight(baseURL, "/")
	if ticketID == "" {
		if base == "" {
			return "/cek-laporan"
		}
		return base + "/cek-laporan"
	}
	if base == "" {
		return "/cek-laporan/" + ticketID
	}
	return base + "/cek-laporan/" + ticketID
}

// CorruptionSuccess is the confirmation sent once the report is stored.
func CorruptionSuccess(ticketID, statusLink string) string {
	return "Keren banget! Laporanmu udah ASKA terima dan langsung kita lock biar aman. Makasih udah berani speak up, kamu real hero anti-korupsi! 🦸‍♀️🔥\n\n" +
		fmt.Sprintf("🎟️ **Nomor tiketmu:** %s\n", ticketID) +
		fmt.Sprintf("🔗 **Link instan cek status:** %s\n\n", statusLink) +
		"Klik linknya kapan pun kamu mau buat liat progres terbaru tanpa perlu login. Simpen juga nomor tiketnya kalau mau input manual. " +
		"No worries, semua data yang kamu spill dijaga rapat sama ASKA—privasi tetap nomor satu! 🤫🔐\n\n" +
		"Kalau butuh update tambahan atau mau lapor lagi, tinggal panggil ASKA ya. Stay safe dan makasih udah bantu jaga lingkungan sekolah! 💙"
}

// CorruptionHowtoResponse walks the user through filing a report.
func CorruptionHowtoResponse(baseURL string) string {
	statusHome := CorruptionStatusLink(baseURL, "")
	return "Mau lapor korupsi via ASKA? Siap! Ini step cepatnya buat wilayah pendidikan Jakarta Utara 🚀\n\n" +
		"1) Ketik: 'lapor korupsi' atau 'mulai laporan korupsi' biar ASKA buka alur khusus.\n" +
		"2) Jawab pertanyaan inti dari ASKA: siapa yang terlibat, lokasi, waktu, dan kronologi lengkapnya.\n" +
		"3) Cek ringkasan yang ASKA kasih. Kalau udah pas, balas 'benar'. Kalau mau ubah, ketik 'edit'.\n" +
		"4) Setelah tersimpan, kamu dapat tiket + link buat pantau progres tanpa login.\n\n" +
		fmt.Sprintf("Pantau status di sini: %s\n", statusHome) +
		"- Masukkan nomor tiket kalau sudah punya, atau klik link yang ASKA kasih setelah laporan tersimpan.\n\n" +
		"Tips biar makin efektif: sebut jabatan/unit (kalau ada), lokasi spesifik (ruang/bagian), dan waktu setepat mungkin. Hindari sebar data pribadi yang nggak perlu. ASKA jaga privasimu. 🔐\n\n" +
		"Kalau udah siap, langsung ketik: 'lapor korupsi' ya. ASKA standby! 💙"
}
