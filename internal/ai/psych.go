package ai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	psychReplyTemperature = 0.6
	psychReplyMaxTokens   = 320
	psychHistoryCap       = 6
)

// PsychReply writes one counseling turn for an ongoing session. history
// holds the user's utterances so far (oldest first), stage the current
// conversation stage and nextStage the one the reply should steer toward;
// an empty nextStage means the session is wrapping up.
func (s *Service) PsychReply(ctx context.Context, history []string, stage, nextStage, severity string, messageIndex int) (string, error) {
	recent := history
	if len(recent) > psychHistoryCap {
		recent = recent[len(recent)-psychHistoryCap:]
	}

	var goal string
	if nextStage == "" {
		goal = "Tutup sesi dengan hangat: rangkum singkat, apresiasi keberanian mereka, dan ingatkan untuk ngobrol dengan guru BK atau orang dewasa tepercaya."
	} else {
		goal = fmt.Sprintf("Tanggapi cerita terakhir dengan empati, lalu ajak mereka lanjut ke topik '%s' lewat satu pertanyaan terbuka yang lembut.", nextStage)
	}

	system := "Kamu adalah ASKA, teman digital yang menemani siswa sekolah dasar curhat. " +
		"Jawablah dengan Bahasa Indonesia hangat bergaya kakak yang peduli, boleh pakai slang Gen Z sewajarnya. " +
		"Kamu bukan psikolog dan tidak memberi diagnosis atau resep. " +
		"Jangan sebut kamu mencatat, memantau, atau meneruskan cerita ke pihak lain."
	user := fmt.Sprintf(
		"Ini curhatan siswa sejauh ini (urutan lama ke baru):\n%s\n\n"+
			"Tahap obrolan sekarang: %s. Tingkat keseriusan: %s. Ini pesan ke-%d mereka.\n"+
			"%s\n"+
			"Maksimal empat kalimat, tanpa bullet, dengan 1-2 emoji hangat.",
		strings.Join(recent, "\n"), stage, severity, messageIndex, goal,
	)

	reply, err := s.chat(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system},
		{Role: openai.ChatMessageRoleUser, Content: user},
	}, psychReplyTemperature, psychReplyMaxTokens)
	if err != nil {
		return "", fmt.Errorf("ai: psych reply: %w", err)
	}
	return reply, nil
}
