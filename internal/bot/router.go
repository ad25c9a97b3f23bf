package bot

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sdnsembar01/aska/internal/ai"
	"github.com/sdnsembar01/aska/internal/responses"
	"github.com/sdnsembar01/aska/internal/store"
	"github.com/sdnsembar01/aska/internal/textnorm"
)

// sendRetries is how many times a reply is retried on transport errors
// before falling back to a plain-text send.
const sendRetries = 3

// qaHistoryLimit is how many prior chat rows feed the QA fallback.
const qaHistoryLimit = 5

// QAService answers questions against the knowledge base. found=false
// means the retriever had nothing and the caller substitutes the no-data
// reply.
type QAService interface {
	Answer(ctx context.Context, question string, history []ai.Turn) (answer string, found bool, err error)
}

// BullyingAckService writes the empathetic acknowledgement for a
// bullying story.
type BullyingAckService interface {
	BullyingAck(ctx context.Context, category, reportText string) (string, error)
}

// PsychReplyService writes the counseling reply for one ongoing-session
// turn.
type PsychReplyService interface {
	PsychReply(ctx context.Context, history []string, stage, nextStage, severity string, messageIndex int) (string, error)
}

// TeacherService covers the generated side of teacher mode: fresh
// questions, answer grading, and discussion replies.
type TeacherService interface {
	GenerateQuestion(ctx context.Context, gradeHint int, subjectHint, topicHint string) (responses.PracticeQuestion, error)
	EvaluateAnswer(ctx context.Context, q responses.PracticeQuestion, userAnswer string) (bool, string, error)
	DiscussionReply(ctx context.Context, q responses.PracticeQuestion, history []ai.Turn, userMessage string) (string, error)
}

// Router classifies each inbound message and dispatches it to the first
// flow that claims it, guaranteeing at most one assistant reply per turn.
type Router struct {
	store    *store.Store
	sessions *SessionStore
	adapter  Adapter
	norm     *textnorm.Normalizer

	qa      QAService          // nil disables QA, canned no-data reply instead
	ackAI   BullyingAckService // nil falls back to static acks
	psychAI PsychReplyService  // nil falls back to template replies
	teachAI TeacherService     // nil falls back to the static bank

	rng           *rand.Rand
	publicBaseURL string
	retryDelay    time.Duration
	out           io.Writer
}

// RouterOpts holds parameters for creating a Router.
type RouterOpts struct {
	Store    *store.Store
	Sessions *SessionStore
	Adapter  Adapter
	Norm     *textnorm.Normalizer

	QA        QAService
	AckAI     BullyingAckService
	PsychAI   PsychReplyService
	TeacherAI TeacherService

	PublicBaseURL string        // ticket status links; empty keeps ticket-only replies
	Seed          int64         // phrasing randomness; 0 seeds from the clock
	RetryDelay    time.Duration // backoff between reply retries, defaults to 2s
	Out           io.Writer     // progress lines, defaults to os.Stdout
}

// NewRouter creates a Router.
func NewRouter(opts RouterOpts) (*Router, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("bot: router: store is required")
	}
	if opts.Sessions == nil {
		return nil, fmt.Errorf("bot: router: session store is required")
	}
	if opts.Adapter == nil {
		return nil, fmt.Errorf("bot: router: adapter is required")
	}
	if opts.Norm == nil {
		return nil, fmt.Errorf("bot: router: normalizer is required")
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	retryDelay := opts.RetryDelay
	if retryDelay == 0 {
		retryDelay = 2 * time.Second
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	return &Router{
		store:         opts.Store,
		sessions:      opts.Sessions,
		adapter:       opts.Adapter,
		norm:          opts.Norm,
		qa:            opts.QA,
		ackAI:         opts.AckAI,
		psychAI:       opts.PsychAI,
		teachAI:       opts.TeacherAI,
		rng:           rand.New(&lockedSource{src: rand.NewSource(seed)}),
		publicBaseURL: opts.PublicBaseURL,
		retryDelay:    retryDelay,
		out:           out,
	}, nil
}

// turn carries the per-message context every flow handler receives.
type turn struct {
	msg        InboundMessage
	key        string
	raw        string // mention-stripped input
	normalized string
	chatLogID  uint
	session    *UserSession
	now        time.Time
}

// Run connects the adapter and processes inbound messages until the
// context is cancelled or the inbound channel closes.
func (r *Router) Run(ctx context.Context) error {
	if err := r.adapter.Connect(ctx); err != nil {
		return fmt.Errorf("bot: connect adapter: %w", err)
	}
	inbound, err := r.adapter.Listen(ctx)
	if err != nil {
		return fmt.Errorf("bot: listen: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-inbound:
			if !ok {
				return nil
			}
			go r.Handle(ctx, msg)
		}
	}
}

// Handle processes one inbound message end to end. Routing paths:
//  1. Redelivered message id → ignore
//  2. Duplicate normalized text inside the dedupe window → notice only
//  3. Bullying detection (single turn)
//  4. Corruption (active session or intent)
//  5. Psych (active session or intent)
//  6. Teacher (active session or start/next/stop)
//  7. Smalltalk predicates
//  8. QA fallback
func (r *Router) Handle(ctx context.Context, msg InboundMessage) {
	key := Key(msg.Channel, msg.UserID)
	unlock := r.sessions.Acquire(key)
	defer unlock()

	if r.sessions.HasResponded(key, msg.MessageID) {
		return
	}

	raw := strings.TrimSpace(r.norm.ReplaceBotMentions(msg.Text))
	normalized := r.norm.Normalize(raw)
	if normalized == "" {
		return
	}

	fmt.Fprintf(r.out, "bot: router: recv [ch=%s user=%s] %q\n",
		msg.Channel, msg.UserName, truncate(normalized, 80))

	if r.sessions.IsDuplicate(key, normalized) {
		fmt.Fprintf(r.out, "bot: router: → duplicate inside window, notice only\n")
		r.send(ctx, msg.ChatID, responses.DuplicateNotice, false)
		return
	}

	chatLogID, err := r.store.LogUserMessage(ctx, msg.UserID, msg.UserName, normalized, msg.Topic)
	if err != nil {
		log.Printf("bot: log user message: %v", err)
	}

	t := &turn{
		msg:        msg,
		key:        key,
		raw:        raw,
		normalized: normalized,
		chatLogID:  chatLogID,
		session:    r.sessions.Session(key),
		now:        r.sessions.Now(),
	}

	switch {
	case r.handleBullying(ctx, t):
		fmt.Fprintf(r.out, "bot: router: → bullying\n")
	case r.handleCorruption(ctx, t):
		fmt.Fprintf(r.out, "bot: router: → corruption\n")
	case r.handlePsych(ctx, t):
		fmt.Fprintf(r.out, "bot: router: → psych\n")
	case r.handleTeacher(ctx, t):
		fmt.Fprintf(r.out, "bot: router: → teacher\n")
	case r.handleSmalltalk(ctx, t):
		fmt.Fprintf(r.out, "bot: router: → smalltalk\n")
	default:
		fmt.Fprintf(r.out, "bot: router: → qa fallback\n")
		r.handleQA(ctx, t)
	}

	r.sessions.MarkResponded(key, msg.MessageID)
}

// reply sends the text and appends the assistant chat row. Scripted
// flows pass a nil responseTimeMs; the QA fallback measures it.
func (r *Router) reply(ctx context.Context, t *turn, text string, markdown bool, responseTimeMs *int) {
	if text == "" {
		return
	}
	if !r.send(ctx, t.msg.ChatID, text, markdown) {
		return
	}
	logged := textnorm.StripMarkdown(text)
	if _, err := r.store.LogAssistantReply(ctx, t.msg.UserID, logged, t.msg.Topic, responseTimeMs); err != nil {
		log.Printf("bot: log assistant reply: %v", err)
	}
}

// send delivers with bounded retries; the final attempt strips markdown
// and sends plain text. Returns whether any attempt succeeded.
func (r *Router) send(ctx context.Context, chatID, text string, markdown bool) bool {
	var lastErr error
	for attempt := 0; attempt < sendRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(r.retryDelay)
		}
		err := r.adapter.Send(ctx, OutboundMessage{ChatID: chatID, Text: text, Markdown: markdown})
		if err == nil {
			return true
		}
		lastErr = err
		log.Printf("bot: send attempt %d/%d failed: %v", attempt+1, sendRetries, err)
	}
	// Plain-text fallback.
	err := r.adapter.Send(ctx, OutboundMessage{ChatID: chatID, Text: textnorm.StripMarkdown(text)})
	if err != nil {
		log.Printf("bot: plain-text fallback send failed after %v: %v", lastErr, err)
		return false
	}
	return true
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// lockedSource makes a rand.Source safe for concurrent turns.
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func (s *lockedSource) Int63() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Int63()
}

func (s *lockedSource) Seed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src.Seed(seed)
}
