package bot

import (
	"context"
	"fmt"
	"sync"
)

// collectAdapter is an in-process Adapter for synchronous channels: Send
// appends to a per-chat bucket that the caller drains after the turn.
type collectAdapter struct {
	mu      sync.Mutex
	replies map[string][]string
}

func newCollectAdapter() *collectAdapter {
	return &collectAdapter{replies: make(map[string][]string)}
}

func (a *collectAdapter) Connect(ctx context.Context) error { return nil }

func (a *collectAdapter) Listen(ctx context.Context) (<-chan InboundMessage, error) {
	// Synchronous channels push turns through Engine.Ask, never Listen.
	return make(chan InboundMessage), nil
}

func (a *collectAdapter) Send(ctx context.Context, msg OutboundMessage) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.replies[msg.ChatID] = append(a.replies[msg.ChatID], msg.Text)
	return nil
}

func (a *collectAdapter) Close() error { return nil }

func (a *collectAdapter) drain(chatID string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	replies := a.replies[chatID]
	delete(a.replies, chatID)
	return replies
}

// Engine exposes the router as a synchronous ask/answer call for
// request/response channels like the web chat. Turns for the same user
// still serialize through the shared session store.
type Engine struct {
	router  *Router
	adapter *collectAdapter
}

// NewEngine builds a Router wired to an in-process adapter. opts.Adapter
// is ignored.
func NewEngine(opts RouterOpts) (*Engine, error) {
	adapter := newCollectAdapter()
	opts.Adapter = adapter
	router, err := NewRouter(opts)
	if err != nil {
		return nil, err
	}
	return &Engine{router: router, adapter: adapter}, nil
}

// Ask runs one web turn through the router and returns every reply it
// produced, in send order.
func (e *Engine) Ask(ctx context.Context, userID, userName, text string) ([]string, error) {
	if userID == "" {
		return nil, fmt.Errorf("bot: engine: user id is required")
	}
	// Web user ids arrive already channel-scoped (web-<account id>),
	// so the chat id is the user id.
	chatID := userID
	e.router.Handle(ctx, InboundMessage{
		Channel:  ChannelWeb,
		ChatID:   chatID,
		UserID:   userID,
		UserName: userName,
		Text:     text,
		Topic:    "web",
	})
	return e.adapter.drain(chatID), nil
}
