// Package bot is the conversation engine: the router that classifies each
// inbound message, the per-user session store, and the flow state
// machines for bullying, corruption, counseling, and teacher mode.
// Channel-specific transports implement Adapter and feed messages in.
package bot

import (
	"context"
	"time"
)

// Channel tags. Topic on persisted rows and session keys use these.
const (
	ChannelTelegram = "telegram"
	ChannelWeb      = "web"
)

// Adapter is the interface channel transports must satisfy. Each adapter
// owns connection management and message delivery for one channel.
type Adapter interface {
	// Connect establishes the transport connection.
	Connect(ctx context.Context) error

	// Listen returns a channel of inbound messages. The channel is
	// closed when the context is cancelled or the adapter is closed.
	// Listen must only be called after Connect.
	Listen(ctx context.Context) (<-chan InboundMessage, error)

	// Send delivers an outbound message.
	Send(ctx context.Context, msg OutboundMessage) error

	// Close gracefully shuts down the adapter.
	Close() error
}

// InboundMessage is one user turn normalized from the transport.
type InboundMessage struct {
	Channel   string    // "telegram" or "web"
	ChatID    string    // transport-specific chat/conversation id
	MessageID string    // transport message id, used for redelivery dedupe
	UserID    string    // stable user identifier
	UserName  string    // display name or handle
	Text      string    // raw message text (voice notes arrive transcribed)
	Topic     string    // chat log topic tag: "", "web", or "voice"
	Timestamp time.Time // when the message was sent
}

// OutboundMessage is one assistant reply headed back to the transport.
type OutboundMessage struct {
	ChatID   string
	Text     string
	Markdown bool // render with markdown when the transport supports it
}
