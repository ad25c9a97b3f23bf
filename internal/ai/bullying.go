package ai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/sdnsembar01/aska/internal/responses"
)

const (
	bullyingAckTemperature = 0.4
	bullyingAckMaxTokens   = 280
)

// BullyingAck writes a short empathetic acknowledgement for a bullying
// story. The reply validates the student's feelings and points to a safe
// next step without ever mentioning that a report was recorded.
func (s *Service) BullyingAck(ctx context.Context, category, reportText string) (string, error) {
	label, ok := responses.BullyingCategoryLabels[category]
	if !ok {
		label = responses.BullyingCategoryLabels[responses.BullyingGeneral]
	}
	hint, ok := responses.BullyingSafetyHints[category]
	if !ok {
		hint = responses.BullyingSafetyHints[responses.BullyingGeneral]
	}
	excerpt := responses.SanitizeReportText(reportText)

	system := "Kamu adalah ASKA, teman digital yang suportif untuk siswa sekolah dasar. " +
		"Jawablah dengan Bahasa Indonesia santun nan hangat, terasa seperti kakak yang peduli. " +
		"Validasi perasaan, hargai keberanian, dan arahkan langkah aman tanpa menginterogasi. " +
		"Jangan sebut kamu memantau, mencatat laporan, atau meneruskan ke pihak lain."
	user := fmt.Sprintf(
		"Ada siswa yang bercerita soal %s. "+
			"Detail dari pengguna: %s\n\n"+
			"Buat satu jawaban maksimal empat kalimat (tanpa bullet). "+
			"Fokus: 1) apresiasi keberanian memberi tahu, 2) validasi rasa takut/sedih mereka, "+
			"3) ingatkan langkah aman: %s, 4) tawarkan untuk tetap ada bila mereka mau cerita lagi. "+
			"Bahasa harus ringan, empatik, dan pakai slang Gen Z Indonesia sewajarnya (contoh: bestie, spill, vibes). "+
			"Hindari pertanyaan lanjutan, hindari kata 'laporan', 'monitor', 'pantau', atau 'catat'. "+
			"Gunakan 2-3 emoji hangat yang relevan.",
		label, excerpt, hint,
	)

	reply, err := s.chat(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system},
		{Role: openai.ChatMessageRoleUser, Content: user},
	}, bullyingAckTemperature, bullyingAckMaxTokens)
	if err != nil {
		return "", fmt.Errorf("ai: bullying ack: %w", err)
	}
	return reply, nil
}
