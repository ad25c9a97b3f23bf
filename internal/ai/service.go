// Package ai wraps the OpenAI-compatible chat and embedding endpoints
// behind the small set of completions the bot actually needs: grounded
// QA answers, empathetic acknowledgements, and practice-question
// generation and grading. Any host that speaks the OpenAI protocol
// works, so Groq-style deployments only need a different base URL.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// RoleUser and RoleAssistant mirror the wire roles so callers can
	// record history without importing the client library.
	RoleUser      = "user"
	RoleAssistant = "assistant"

	qaMaxTokens = 1000
)

// Turn is one prior exchange in a conversation, oldest first.
type Turn struct {
	Role    string
	Content string
}

// Opts configures a Service.
type Opts struct {
	APIKey    string
	APIBase   string
	ChatModel string
}

// Service talks to a chat-completion backend.
type Service struct {
	client    *openai.Client
	chatModel string
}

// NewService validates opts and builds a Service.
func NewService(o Opts) (*Service, error) {
	if o.APIKey == "" {
		return nil, errors.New("ai: api key is required")
	}
	if o.ChatModel == "" {
		return nil, errors.New("ai: chat model is required")
	}
	cfg := openai.DefaultConfig(o.APIKey)
	if o.APIBase != "" {
		cfg.BaseURL = o.APIBase
	}
	return &Service{
		client:    openai.NewClientWithConfig(cfg),
		chatModel: o.ChatModel,
	}, nil
}

func (s *Service) chat(ctx context.Context, messages []openai.ChatCompletionMessage, temperature float32, maxTokens int) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.chatModel,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("ai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("ai: chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func appendTurns(messages []openai.ChatCompletionMessage, history []Turn) []openai.ChatCompletionMessage {
	for _, turn := range history {
		if turn.Content == "" {
			continue
		}
		switch turn.Role {
		case RoleUser:
			messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: turn.Content})
		case RoleAssistant:
			messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: turn.Content})
		}
	}
	return messages
}

// ContextualizeQuestion rewrites a follow-up question ("kalau untuk SMA?")
// into a standalone one using the chat history, so retrieval can match it
// against the knowledge base. Without history the question passes through
// unchanged.
func (s *Service) ContextualizeQuestion(ctx context.Context, question string, history []Turn) (string, error) {
	if len(history) == 0 {
		return question, nil
	}
	messages := []openai.ChatCompletionMessage{{
		Role:    openai.ChatMessageRoleSystem,
		Content: "Diberikan riwayat chat dan pertanyaan terbaru, formulasikan ulang pertanyaan itu menjadi pertanyaan mandiri tanpa mengubah isinya.",
	}}
	messages = appendTurns(messages, history)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: question})

	standalone, err := s.chat(ctx, messages, 0, qaMaxTokens)
	if err != nil {
		return "", fmt.Errorf("ai: contextualize question: %w", err)
	}
	if standalone == "" {
		return question, nil
	}
	return standalone, nil
}

// Answer produces the grounded QA reply from the retrieved context chunks.
func (s *Service) Answer(ctx context.Context, question string, contextChunks []string, history []Turn) (string, error) {
	system := fmt.Sprintf(
		"Nama aku ASKA. Jawab pertanyaan dengan gaya Gen-Z yang santai, ramah, dan pakai emoji. "+
			"Selalu sebut nama **'ASKA'** secara alami. Gunakan info dari konteks ini:\n\n%s",
		strings.Join(contextChunks, "\n\n"),
	)
	messages := []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleSystem, Content: system}}
	messages = appendTurns(messages, history)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: question})

	answer, err := s.chat(ctx, messages, 0, qaMaxTokens)
	if err != nil {
		return "", fmt.Errorf("ai: answer: %w", err)
	}
	return answer, nil
}
