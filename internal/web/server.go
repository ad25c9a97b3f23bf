// Package web is the JSON API behind the school's web chat page: login
// against web accounts, a synchronous chat endpoint driven by the same
// router as Telegram, paged history, and reply feedback.
package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sdnsembar01/aska/internal/store"
)

// DefaultSessionTTL is how long a login token stays valid.
const DefaultSessionTTL = 12 * time.Hour

const historyPageSize = 10

// ChatEngine answers one user turn. Satisfied by bot.Engine.
type ChatEngine interface {
	Ask(ctx context.Context, userID, userName, text string) ([]string, error)
}

// StartOpts holds configuration for the web API server.
type StartOpts struct {
	Store      *store.Store
	Engine     ChatEngine
	Addr       string // defaults to :8081
	SessionTTL time.Duration
	Out        io.Writer
}

// Start launches the web API server. It blocks until ctx is cancelled,
// then shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	router, err := newRouter(opts)
	if err != nil {
		return err
	}
	addr := opts.Addr
	if addr == "" {
		addr = ":8081"
	}

	srv := &http.Server{Addr: addr, Handler: router}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Web chat API listening on %s\n", addr)
	}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("web: %w", err)
	}
	return nil
}

// newRouter builds the gin engine; split from Start so tests can drive
// it with httptest.
func newRouter(opts StartOpts) (*gin.Engine, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("web: store is required")
	}
	if opts.Engine == nil {
		return nil, fmt.Errorf("web: chat engine is required")
	}
	ttl := opts.SessionTTL
	if ttl == 0 {
		ttl = DefaultSessionTTL
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &server{
		store:    opts.Store,
		engine:   opts.Engine,
		sessions: newSessionTokens(ttl),
	}

	api := router.Group("/api")
	api.POST("/login", s.handleLogin)
	api.POST("/logout", s.requireAuth, s.handleLogout)
	api.POST("/chat", s.requireAuth, s.handleChat)
	api.GET("/history", s.requireAuth, s.handleHistory)
	api.POST("/feedback", s.requireAuth, s.handleSetFeedback)
	api.DELETE("/feedback/:id", s.requireAuth, s.handleDeleteFeedback)
	api.GET("/feedback/status", s.requireAuth, s.handleFeedbackStatus)
	return router, nil
}

type server struct {
	store    *store.Store
	engine   ChatEngine
	sessions *sessionTokens
}

// authedUser is what a valid login token resolves to.
type authedUser struct {
	ID          uint
	Username    string
	DisplayName string
	Role        string
}

// ChatUserID is the chat-log user id for a web account. Web users never
// collide with Telegram ids because of the prefix.
func ChatUserID(accountID uint) string {
	return fmt.Sprintf("web-%d", accountID)
}

// sessionTokens is the in-memory login token table.
type sessionTokens struct {
	ttl time.Duration

	mu     sync.Mutex
	tokens map[string]tokenEntry
}

type tokenEntry struct {
	user    authedUser
	expires time.Time
}

func newSessionTokens(ttl time.Duration) *sessionTokens {
	return &sessionTokens{ttl: ttl, tokens: make(map[string]tokenEntry)}
}

func (s *sessionTokens) issue(user authedUser) string {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	// Opportunistic cleanup keeps the table from growing unbounded.
	now := time.Now()
	for t, entry := range s.tokens {
		if now.After(entry.expires) {
			delete(s.tokens, t)
		}
	}
	s.tokens[token] = tokenEntry{user: user, expires: now.Add(s.ttl)}
	return token
}

func (s *sessionTokens) resolve(token string) (authedUser, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.tokens[token]
	if !ok || time.Now().After(entry.expires) {
		delete(s.tokens, token)
		return authedUser{}, false
	}
	return entry.user, true
}

func (s *sessionTokens) revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}
