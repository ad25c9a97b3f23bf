package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sdnsembar01/aska/internal/bot"
	"github.com/sdnsembar01/aska/internal/responses"
)

// telegramMessageLimit is the Bot API's maximum message length.
const telegramMessageLimit = 4096

const voiceUnavailableText = "Maaf, ASKA belum bisa dengerin voice note sekarang. Ketik aja pertanyaannya ya 🙏"

// Transcriber converts a downloaded audio file to text.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// Opts holds parameters for creating a telegram Adapter.
type Opts struct {
	Token       string
	APIBaseURL  string        // override for tests; empty uses api.telegram.org
	HTTPClient  *http.Client  // optional
	PollTimeout time.Duration // long-poll timeout, defaults to 30s
	Transcriber Transcriber   // nil disables voice notes
}

// Adapter implements bot.Adapter over the Telegram Bot API with long
// polling.
type Adapter struct {
	api         *apiClient
	pollTimeout time.Duration
	transcriber Transcriber

	mu          sync.Mutex
	connected   bool
	closed      bool
	botUsername string
	cancel      context.CancelFunc
	inbound     chan bot.InboundMessage
}

// New creates a telegram Adapter.
func New(opts Opts) (*Adapter, error) {
	if opts.Token == "" {
		return nil, fmt.Errorf("telegram: bot token is required")
	}
	pollTimeout := opts.PollTimeout
	if pollTimeout == 0 {
		pollTimeout = 30 * time.Second
	}
	return &Adapter{
		api:         newAPIClient(opts.HTTPClient, opts.APIBaseURL, opts.Token),
		pollTimeout: pollTimeout,
		transcriber: opts.Transcriber,
		inbound:     make(chan bot.InboundMessage, 100),
	}, nil
}

// Connect verifies the token against getMe and records the bot username
// so mention handling can be configured from it.
func (a *Adapter) Connect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return fmt.Errorf("telegram: adapter already closed")
	}
	me, err := a.api.getMe(ctx)
	if err != nil {
		return fmt.Errorf("telegram: connect: %w", err)
	}
	a.botUsername = me.Username
	a.connected = true
	log.Printf("telegram: connected as @%s", me.Username)
	return nil
}

// BotUsername returns the username reported by getMe. Valid after Connect.
func (a *Adapter) BotUsername() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.botUsername
}

// Listen starts the long-poll loop and returns the inbound channel.
func (a *Adapter) Listen(ctx context.Context) (<-chan bot.InboundMessage, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.connected {
		return nil, fmt.Errorf("telegram: listen before connect")
	}
	pollCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	go a.pollLoop(pollCtx)
	return a.inbound, nil
}

func (a *Adapter) pollLoop(ctx context.Context) {
	defer close(a.inbound)
	var offset int64
	for {
		updates, next, err := a.api.getUpdates(ctx, offset, a.pollTimeout)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			log.Printf("telegram: poll: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(3 * time.Second):
			}
			continue
		}
		offset = next
		for _, u := range updates {
			if u.Message == nil {
				continue
			}
			a.handleMessage(ctx, u.Message)
		}
	}
}

func (a *Adapter) handleMessage(ctx context.Context, msg *message) {
	if msg.Chat == nil || msg.From == nil || msg.From.IsBot {
		return
	}
	chatID := strconv.FormatInt(msg.Chat.ID, 10)
	name := displayName(msg.From)

	text := msg.Text
	if text == "" {
		text = msg.Caption
	}

	// /start gets the onboarding greeting without entering the router.
	if strings.HasPrefix(text, "/start") {
		if err := a.Send(ctx, bot.OutboundMessage{ChatID: chatID, Text: responses.StartGreeting(msg.From.FirstName)}); err != nil {
			log.Printf("telegram: start greeting: %v", err)
		}
		return
	}

	topic := ""
	if note := msg.Voice; note != nil || msg.Audio != nil {
		if note == nil {
			note = msg.Audio
		}
		transcript, err := a.transcribeVoice(ctx, note)
		if err != nil {
			log.Printf("telegram: voice note: %v", err)
			if err := a.Send(ctx, bot.OutboundMessage{ChatID: chatID, Text: voiceUnavailableText}); err != nil {
				log.Printf("telegram: voice fallback reply: %v", err)
			}
			return
		}
		text = transcript
		topic = "voice"
	}

	if strings.TrimSpace(text) == "" {
		return
	}

	inbound := bot.InboundMessage{
		Channel:   bot.ChannelTelegram,
		ChatID:    chatID,
		MessageID: strconv.FormatInt(msg.MessageID, 10),
		UserID:    strconv.FormatInt(msg.From.ID, 10),
		UserName:  name,
		Text:      text,
		Topic:     topic,
		Timestamp: time.Unix(msg.Date, 0),
	}
	select {
	case a.inbound <- inbound:
	case <-ctx.Done():
	}
}

// transcribeVoice downloads the voice note to a temp file and runs it
// through the transcriber.
func (a *Adapter) transcribeVoice(ctx context.Context, note *voice) (string, error) {
	if a.transcriber == nil {
		return "", fmt.Errorf("no transcriber configured")
	}
	stored, err := a.api.getFile(ctx, note.FileID)
	if err != nil {
		return "", err
	}

	ext := filepath.Ext(stored.FilePath)
	if ext == "" {
		ext = ".ogg"
	}
	tmp, err := os.CreateTemp("", "aska-voice-*"+ext)
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	defer os.Remove(tmpPath)

	if err := a.api.downloadFileTo(ctx, stored.FilePath, tmpPath, maxVoiceDownloadBytes); err != nil {
		return "", err
	}
	transcript, err := a.transcriber.Transcribe(ctx, tmpPath)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(transcript), nil
}

// Send delivers a reply, splitting it to fit the message length limit.
// Markdown sends that the API rejects are retried as plain text.
func (a *Adapter) Send(ctx context.Context, msg bot.OutboundMessage) error {
	chatID, err := strconv.ParseInt(msg.ChatID, 10, 64)
	if err != nil {
		return fmt.Errorf("telegram: bad chat id %q: %w", msg.ChatID, err)
	}
	for _, chunk := range chunkMessage(msg.Text, telegramMessageLimit) {
		req := sendMessageRequest{
			ChatID:                chatID,
			Text:                  chunk,
			DisableWebPagePreview: true,
		}
		if msg.Markdown {
			req.ParseMode = "Markdown"
		}
		err := a.api.sendMessage(ctx, req)
		if err != nil && msg.Markdown {
			// Usually an unbalanced entity; the text still matters.
			log.Printf("telegram: markdown send failed, retrying plain: %v", err)
			req.ParseMode = ""
			err = a.api.sendMessage(ctx, req)
		}
		if err != nil {
			return fmt.Errorf("telegram: send: %w", err)
		}
	}
	return nil
}

// Close stops the poll loop.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	a.connected = false
	if a.cancel != nil {
		a.cancel()
	}
	return nil
}

// chunkMessage splits text into chunks of at most maxLen bytes,
// preferring to break at a newline in the second half of the chunk.
func chunkMessage(text string, maxLen int) []string {
	if maxLen <= 0 {
		maxLen = telegramMessageLimit
	}
	if len(text) <= maxLen {
		return []string{text}
	}

	var chunks []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			chunks = append(chunks, text)
			break
		}
		chunk := text[:maxLen]
		breakAt := -1
		half := maxLen / 2
		for i := maxLen - 1; i >= half; i-- {
			if chunk[i] == '\n' {
				breakAt = i
				break
			}
		}
		if breakAt >= 0 {
			chunks = append(chunks, text[:breakAt])
			text = text[breakAt+1:]
		} else {
			chunks = append(chunks, chunk)
			text = text[maxLen:]
		}
	}
	return chunks
}
