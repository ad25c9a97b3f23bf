package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sdnsembar01/aska/internal/bot"
)

// fakeBotAPI is a minimal Bot API server: one canned update batch, then
// empty polls. It records every sendMessage payload.
type fakeBotAPI struct {
	mu      sync.Mutex
	updates []update
	served  bool
	sent    []sendMessageRequest
}

func (f *fakeBotAPI) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/getMe"):
			json.NewEncoder(w).Encode(getMeResponse{OK: true, Result: user{ID: 99, IsBot: true, Username: "tanyaaska_bot"}})
		case strings.Contains(r.URL.Path, "/getUpdates"):
			f.mu.Lock()
			batch := f.updates
			if f.served {
				batch = nil
			}
			f.served = true
			f.mu.Unlock()
			json.NewEncoder(w).Encode(getUpdatesResponse{OK: true, Result: batch})
		case strings.Contains(r.URL.Path, "/sendMessage"):
			var req sendMessageRequest
			json.NewDecoder(r.Body).Decode(&req)
			f.mu.Lock()
			f.sent = append(f.sent, req)
			f.mu.Unlock()
			json.NewEncoder(w).Encode(okResponse{OK: true})
		default:
			http.NotFound(w, r)
		}
	})
}

func (f *fakeBotAPI) sentMessages() []sendMessageRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sendMessageRequest, len(f.sent))
	copy(out, f.sent)
	return out
}

func textUpdate(id, msgID int64, text string) update {
	return update{
		UpdateID: id,
		Message: &message{
			MessageID: msgID,
			Date:      1700000000,
			Chat:      &chat{ID: 555, Type: "private"},
			From:      &user{ID: 777, Username: "budi", FirstName: "Budi"},
			Text:      text,
		},
	}
}

func newTestAdapter(t *testing.T, api *fakeBotAPI) *Adapter {
	t.Helper()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	a, err := New(Opts{Token: "test-token", APIBaseURL: srv.URL, PollTimeout: time.Second})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestNew_RequiresToken(t *testing.T) {
	if _, err := New(Opts{}); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestConnectRecordsBotUsername(t *testing.T) {
	a := newTestAdapter(t, &fakeBotAPI{})
	if err := a.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if got := a.BotUsername(); got != "tanyaaska_bot" {
		t.Fatalf("BotUsername = %q", got)
	}
}

func TestListenConvertsUpdates(t *testing.T) {
	api := &fakeBotAPI{updates: []update{textUpdate(1, 10, "halo aska")}}
	a := newTestAdapter(t, api)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := a.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	inbound, err := a.Listen(ctx)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}

	select {
	case msg := <-inbound:
		if msg.Channel != bot.ChannelTelegram {
			t.Fatalf("channel = %q", msg.Channel)
		}
		if msg.ChatID != "555" || msg.UserID != "777" || msg.MessageID != "10" {
			t.Fatalf("ids = (%q, %q, %q)", msg.ChatID, msg.UserID, msg.MessageID)
		}
		if msg.UserName != "Budi" {
			t.Fatalf("user name = %q", msg.UserName)
		}
		if msg.Text != "halo aska" {
			t.Fatalf("text = %q", msg.Text)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no inbound message within 5s")
	}
}

func TestStartCommandGreetsWithoutRouting(t *testing.T) {
	api := &fakeBotAPI{updates: []update{textUpdate(1, 11, "/start")}}
	a := newTestAdapter(t, api)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := a.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	inbound, err := a.Listen(ctx)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		sent := api.sentMessages()
		if len(sent) > 0 {
			if !strings.Contains(sent[0].Text, "Budi") {
				t.Fatalf("greeting does not address the user: %q", sent[0].Text)
			}
			break
		}
		select {
		case msg := <-inbound:
			t.Fatalf("/start leaked into the router: %+v", msg)
		case <-deadline:
			t.Fatal("no greeting sent within 5s")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestSendChunksLongMessages(t *testing.T) {
	api := &fakeBotAPI{}
	a := newTestAdapter(t, api)
	ctx := context.Background()
	if err := a.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	long := strings.Repeat("baris jadwal pelajaran\n", 400) // ~9KB
	if err := a.Send(ctx, bot.OutboundMessage{ChatID: "555", Text: long}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	sent := api.sentMessages()
	if len(sent) < 3 {
		t.Fatalf("sent %d chunks, want at least 3", len(sent))
	}
	for i, msg := range sent {
		if len(msg.Text) > telegramMessageLimit {
			t.Fatalf("chunk %d is %d bytes, over the limit", i, len(msg.Text))
		}
	}
}

func TestChunkMessage(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		maxLen int
		want   int
	}{
		{"short passes through", "halo", 100, 1},
		{"splits at limit", strings.Repeat("a", 150), 100, 2},
		{"prefers newline break", strings.Repeat("x", 80) + "\n" + strings.Repeat("y", 80), 100, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := chunkMessage(tt.text, tt.maxLen)
			if len(chunks) != tt.want {
				t.Fatalf("got %d chunks, want %d", len(chunks), tt.want)
			}
			var rebuilt int
			for _, c := range chunks {
				if len(c) > tt.maxLen {
					t.Fatalf("chunk over limit: %d bytes", len(c))
				}
				rebuilt += len(c)
			}
			if rebuilt > len(tt.text) {
				t.Fatalf("chunks longer than input")
			}
		})
	}
}

func TestSendRejectsBadChatID(t *testing.T) {
	a := newTestAdapter(t, &fakeBotAPI{})
	if err := a.Send(context.Background(), bot.OutboundMessage{ChatID: "not-a-number", Text: "x"}); err == nil {
		t.Fatal("expected error for non-numeric chat id")
	}
}

func TestMarkdownSendRetriesPlain(t *testing.T) {
	var calls []sendMessageRequest
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/sendMessage"):
			var req sendMessageRequest
			json.NewDecoder(r.Body).Decode(&req)
			mu.Lock()
			calls = append(calls, req)
			mu.Unlock()
			if req.ParseMode != "" {
				json.NewEncoder(w).Encode(okResponse{OK: false, ErrorCode: 400, Description: "can't parse entities"})
				return
			}
			json.NewEncoder(w).Encode(okResponse{OK: true})
		default:
			fmt.Fprint(w, `{"ok":true,"result":{"id":99,"username":"tanyaaska_bot"}}`)
		}
	}))
	defer srv.Close()

	a, err := New(Opts{Token: "test-token", APIBaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Send(context.Background(), bot.OutboundMessage{ChatID: "555", Text: "*broken", Markdown: true}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 2 {
		t.Fatalf("got %d sendMessage calls, want markdown then plain", len(calls))
	}
	if calls[0].ParseMode != "Markdown" || calls[1].ParseMode != "" {
		t.Fatalf("parse modes = (%q, %q)", calls[0].ParseMode, calls[1].ParseMode)
	}
}
