package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/sdnsembar01/aska/internal/responses"
)

const (
	teacherMaxTokens    = 600
	maxDiscussionTurns  = 10
	evaluationMaxTokens = 350
)

// GenerateQuestion asks the model for a fresh practice question matching
// the student's grade, subject, and topic hints. The model must answer in
// a strict JSON shape; anything unparseable is an error and the caller
// falls back to the static bank.
func (s *Service) GenerateQuestion(ctx context.Context, gradeHint int, subjectHint, topicHint string) (responses.PracticeQuestion, error) {
	gradeText := responses.GradeRangeText(gradeHint)
	subjectText := subjectHint
	if subjectText == "" {
		subjectText = responses.DefaultSubject
	}
	topicText := topicHint
	if topicText == "" {
		topicText = "materi kurikulum sekolah dasar"
	}

	system := "Kamu adalah guru SD kelas 4-6 yang super seru ala Gen Z. " +
		"Buat soal latihan singkat yang ramah anak, tetap sesuai kurikulum Indonesia, dan gunakan bahasa santai, positif, penuh semangat. " +
		"Selipkan emoji yang relevan dan pastikan soal serta penjelasan mudah dipahami. " +
		"Sertakan jawaban singkat, penjelasan ringkas, serta beberapa kata kunci jawaban."
	user := fmt.Sprintf(
		"Buat satu soal latihan untuk %s dengan mata pelajaran %s. "+
			"Materi yang diminta pengguna: %s. "+
			"Formatkan jawabanmu dalam JSON berikut tanpa teks tambahan:\n"+
			"{\n"+
			"  \"subject\": \"Matematika\",\n"+
			"  \"grade_min\": 4,\n"+
			"  \"grade_max\": 4,\n"+
			"  \"question\": \"....\",\n"+
			"  \"answer\": \"....\",\n"+
			"  \"explanation\": \"....\",\n"+
			"  \"answer_keywords\": [\"...\"],\n"+
			"  \"choices\": [\"...\",\"...\"]\n"+
			"}\n"+
			"Jika bukan pilihan ganda, kosongkan daftar choices.",
		gradeText, subjectText, topicText,
	)

	raw, err := s.chat(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system},
		{Role: openai.ChatMessageRoleUser, Content: user},
	}, 0.7, teacherMaxTokens)
	if err != nil {
		return responses.PracticeQuestion{}, fmt.Errorf("ai: generate question: %w", err)
	}

	data, ok := parseJSONReply(raw)
	if !ok {
		return responses.PracticeQuestion{}, fmt.Errorf("ai: generate question: model reply is not JSON")
	}
	q, ok := questionFromReply(data, gradeHint, subjectHint)
	if !ok {
		return responses.PracticeQuestion{}, fmt.Errorf("ai: generate question: reply is missing question, answer, or explanation")
	}
	return q, nil
}

// questionFromReply coerces the decoded JSON into a PracticeQuestion. The
// grade bounds clamp to 1..6 and the subject is canonicalized the same
// way user-typed subjects are.
func questionFromReply(data map[string]any, gradeHint int, subjectHint string) (responses.PracticeQuestion, bool) {
	question := strings.TrimSpace(asString(data["question"]))
	answer := strings.TrimSpace(asString(data["answer"]))
	explanation := strings.TrimSpace(asString(data["explanation"]))
	if question == "" || answer == "" || explanation == "" {
		return responses.PracticeQuestion{}, false
	}

	gradeMin := asInt(data["grade_min"])
	if gradeMin == 0 {
		gradeMin = gradeHint
	}
	if gradeMin == 0 {
		gradeMin = 4
	}
	gradeMax := asInt(data["grade_max"])
	if gradeMax == 0 {
		gradeMax = gradeHint
	}
	if gradeMax == 0 {
		gradeMax = gradeMin
	}
	gradeMin = clampGrade(gradeMin)
	gradeMax = clampGrade(gradeMax)
	if gradeMax < gradeMin {
		gradeMax = gradeMin
	}

	subject := strings.TrimSpace(asString(data["subject"]))
	if subject == "" {
		subject = subjectHint
	}
	canonical := responses.NormalizeSubject(subject)
	if canonical == "" {
		canonical = responses.DefaultSubject
	}

	var keywords []string
	switch raw := data["answer_keywords"].(type) {
	case string:
		for _, part := range strings.Split(raw, ",") {
			if kw := responses.NormalizeAnswer(part); kw != "" {
				keywords = append(keywords, kw)
			}
		}
	case []any:
		for _, item := range raw {
			if kw := responses.NormalizeAnswer(asString(item)); kw != "" {
				keywords = append(keywords, kw)
			}
		}
	}

	var choices []string
	if raw, ok := data["choices"].([]any); ok {
		for _, item := range raw {
			if choice := strings.TrimSpace(asString(item)); choice != "" {
				choices = append(choices, choice)
			}
		}
	}

	return responses.PracticeQuestion{
		Subject:        canonical,
		GradeMin:       gradeMin,
		GradeMax:       gradeMax,
		Question:       question,
		Answer:         answer,
		Explanation:    explanation,
		AnswerKeywords: keywords,
		Choices:        choices,
		Source:         responses.QuestionSourceLLM,
	}, true
}

func clampGrade(grade int) int {
	if grade < 1 {
		return 1
	}
	if grade > 6 {
		return 6
	}
	return grade
}

// EvaluateAnswer grades a free-form student answer against the expected
// one. Returns whether the answer counts as correct plus feedback text.
func (s *Service) EvaluateAnswer(ctx context.Context, q responses.PracticeQuestion, userAnswer string) (bool, string, error) {
	payload, err := json.Marshal(map[string]any{
		"question":            q.Question,
		"expected_answer":     q.Answer,
		"answer_keywords":     q.AnswerKeywords,
		"teacher_explanation": q.Explanation,
		"student_answer":      userAnswer,
	})
	if err != nil {
		return false, "", fmt.Errorf("ai: evaluate answer: %w", err)
	}

	system := "Kamu adalah guru SD kelas 4-6 bergaya Gen Z yang suportif. " +
		"Nilailah jawaban siswa secara positif, tentukan benar/salah, lalu beri umpan balik singkat dengan bahasa santai dan emoji seperlunya. " +
		"Jelaskan alasannya secara ringkas agar siswa paham. Balas hanya dalam format JSON."

	raw, err := s.chat(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system},
		{Role: openai.ChatMessageRoleUser, Content: string(payload)},
	}, 0.2, evaluationMaxTokens)
	if err != nil {
		return false, "", fmt.Errorf("ai: evaluate answer: %w", err)
	}

	data, ok := parseJSONReply(raw)
	if !ok {
		return false, "", fmt.Errorf("ai: evaluate answer: model reply is not JSON")
	}

	correct, _ := data["is_correct"].(bool)
	feedback := strings.TrimSpace(asString(data["feedback"]))
	if feedback == "" {
		if correct {
			feedback = fmt.Sprintf("Jawaban kamu sudah tepat! Penjelasan: %s", q.Explanation)
		} else {
			feedback = fmt.Sprintf("Belum tepat. Jawaban yang benar: %s. Penjelasan: %s", q.Answer, q.Explanation)
		}
	}
	return correct, feedback, nil
}

// DiscussionReply answers a student's follow-up about the current
// question, keeping only the most recent turns of the discussion.
func (s *Service) DiscussionReply(ctx context.Context, q responses.PracticeQuestion, history []Turn, userMessage string) (string, error) {
	system := fmt.Sprintf(
		"Kamu adalah guru SD kelas 4-6 yang sabar, suportif, dan vibes Gen Z. "+
			"Bantu siswa memahami soal berikut dengan bahasa Indonesia santai, penuh semangat, dan sisipkan emoji yang relevan. "+
			"Berikan contoh sederhana bila perlu, ajak siswa berpikir langkah demi langkah, dan jangan buat mereka minder.\n\n"+
			"Soal: %s\n"+
			"Jawaban benar: %s\n"+
			"Penjelasan inti: %s",
		q.Question, q.Answer, q.Explanation,
	)

	if len(history) > maxDiscussionTurns {
		history = history[len(history)-maxDiscussionTurns:]
	}
	messages := []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleSystem, Content: system}}
	messages = appendTurns(messages, history)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: userMessage})

	reply, err := s.chat(ctx, messages, 0.7, teacherMaxTokens)
	if err != nil {
		return "", fmt.Errorf("ai: discussion reply: %w", err)
	}
	return reply, nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		var out int
		if _, err := fmt.Sscanf(strings.TrimSpace(n), "%d", &out); err == nil {
			return out
		}
	}
	return 0
}
