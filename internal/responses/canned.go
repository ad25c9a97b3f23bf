package responses

import "fmt"

// Fixed replies used across channels.
const (
	NoDataResponse = "😅 Maaf nih, *ASKA* belum nemu jawabannya di data sekolah.\n" +
		"☎️ Coba hubungi langsung sekolah ya di (021) 4406363."

	TechnicalIssueResponse = "⚠️ Maaf, lagi ada gangguan teknis 🛠️\n" +
		"🤖 Coba tanya *ASKA* nanti ya~ 🙏"

	DuplicateNotice = "Eh bestie, chat kamu kembar sama yang tadi jadi aku skip dulu biar " +
		"nggak dikira spam 😅 Coba remix dikit atau tunggu bentar ya ✨"

	TeacherTimeoutMessage = "Latihan kita ke-pause lumayan lama nih, ASKA pamit dulu ya. " +
		"Kalau mau lanjut tinggal panggil ASKA lagi. Sampai jumpa! 😄✨"

	PsychTimeoutMessage = "Obrolan laporan konselingnya udah sunyi lama, ASKA pamit sementara ya. " +
		"Kapan pun butuh cerita lagi langsung chat ASKA. Sampai jumpa! 🤗💖"
)

// StartGreeting welcomes a user who opened the chat for the first time.
func StartGreeting(name string) string {
	if name == "" {
		name = "bestie"
	}
	return fmt.Sprintf("Yoo, %s! 👋\nAku *ASKA*, bestie AI kamu 🤖\nMau tanya apa aja soal sekolah? Gaskeun~ 🚀", name)
}
