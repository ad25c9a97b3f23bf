package bot

import (
	"errors"
	"sync"
	"time"

	"github.com/sdnsembar01/aska/internal/ai"
	"github.com/sdnsembar01/aska/internal/responses"
)

// Default session windows. Flow timeouts are checked lazily on the next
// turn, never by a background timer.
const (
	DefaultDedupeWindow = 60 * time.Second
	DefaultPruneAfter   = 600 * time.Second
	DefaultFlowTimeout  = 600 * time.Second
)

// CorruptionSession is the scratch state of one guided corruption report.
type CorruptionSession struct {
	State         string // "reporting", "confirming", "editing_selection"
	QuestionIndex int
	IsEditing     bool
	Data          map[string]string // answers keyed by question key
}

// PsychSession is the scratch state of one counseling conversation. The
// aggregate of Messages is persisted as a single report when the session
// ends; nothing is written before that.
type PsychSession struct {
	State            string // "awaiting_confirmation", "ongoing"
	Severity         string
	Stage            string
	Messages         []string
	ChatLogIDs       []uint
	SeverityHistory  []string
	StageHistory     []string
	LastBotAt        time.Time
}

// TeacherSession is the scratch state of one practice session.
type TeacherSession struct {
	Question     responses.PracticeQuestion
	GradeHint    int
	SubjectHint  string
	Attempt      int
	Conversation []ai.Turn // capped at maxTeacherTurns
	LastBotAt    time.Time
}

// UserSession is the per-(channel,user) bookkeeping record: the dedupe
// map, the redelivery guard, and at most one active session per flow.
type UserSession struct {
	Recent     map[string]time.Time // normalized text -> last seen
	Responded  map[string]struct{}  // transport message ids already answered
	LastSeen   time.Time
	Corruption *CorruptionSession
	Psych      *PsychSession
	Teacher    *TeacherSession
}

func (u *UserSession) hasFlows() bool {
	return u.Corruption != nil || u.Psych != nil || u.Teacher != nil
}

// SessionStore owns the in-memory session map. Turns for the same user
// serialize through Acquire; different users proceed concurrently.
type SessionStore struct {
	dedupeWindow time.Duration
	pruneAfter   time.Duration
	flowTimeout  time.Duration
	now          func() time.Time

	mu       sync.Mutex
	sessions map[string]*UserSession
	locks    map[string]*sync.Mutex
}

// SessionStoreOpts holds parameters for creating a SessionStore. Zero
// durations take the defaults; Now defaults to time.Now.
type SessionStoreOpts struct {
	DedupeWindow time.Duration
	PruneAfter   time.Duration
	FlowTimeout  time.Duration
	Now          func() time.Time
}

// NewSessionStore creates a SessionStore.
func NewSessionStore(opts SessionStoreOpts) (*SessionStore, error) {
	if opts.DedupeWindow < 0 || opts.PruneAfter < 0 || opts.FlowTimeout < 0 {
		return nil, errors.New("bot: session store: windows must not be negative")
	}
	if opts.DedupeWindow == 0 {
		opts.DedupeWindow = DefaultDedupeWindow
	}
	if opts.PruneAfter == 0 {
		opts.PruneAfter = DefaultPruneAfter
	}
	if opts.FlowTimeout == 0 {
		opts.FlowTimeout = DefaultFlowTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &SessionStore{
		dedupeWindow: opts.DedupeWindow,
		pruneAfter:   opts.PruneAfter,
		flowTimeout:  opts.FlowTimeout,
		now:          opts.Now,
		sessions:     make(map[string]*UserSession),
		locks:        make(map[string]*sync.Mutex),
	}, nil
}

// Key builds the session map key for a channel/user pair.
func Key(channel, userID string) string {
	return channel + ":" + userID
}

// Acquire locks the per-user turn mutex and returns the unlock func.
func (s *SessionStore) Acquire(key string) func() {
	s.mu.Lock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	s.mu.Unlock()
	lock.Lock()
	return lock.Unlock
}

// Session returns the user's session record, creating it if absent.
func (s *SessionStore) Session(key string) *UserSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[key]
	if !ok {
		sess = &UserSession{
			Recent:    make(map[string]time.Time),
			Responded: make(map[string]struct{}),
		}
		s.sessions[key] = sess
	}
	sess.LastSeen = s.now()
	return sess
}

// IsDuplicate prunes stale dedupe entries, then reports whether the same
// normalized text was seen inside the dedupe window. Fresh texts are
// recorded as seen.
func (s *SessionStore) IsDuplicate(key, normalized string) bool {
	now := s.now()
	sess := s.Session(key)

	s.mu.Lock()
	defer s.mu.Unlock()
	for text, seen := range sess.Recent {
		if now.Sub(seen) > s.pruneAfter {
			delete(sess.Recent, text)
		}
	}
	if seen, ok := sess.Recent[normalized]; ok && now.Sub(seen) < s.dedupeWindow {
		return true
	}
	sess.Recent[normalized] = now
	return false
}

// HasResponded reports whether a transport message id was already
// answered (redelivery guard).
func (s *SessionStore) HasResponded(key, messageID string) bool {
	if messageID == "" {
		return false
	}
	sess := s.Session(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := sess.Responded[messageID]
	return ok
}

// MarkResponded records a transport message id as answered.
func (s *SessionStore) MarkResponded(key, messageID string) {
	if messageID == "" {
		return
	}
	sess := s.Session(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.Responded[messageID] = struct{}{}
}

// FlowTimeout returns the idle limit for psych and teacher sessions.
func (s *SessionStore) FlowTimeout() time.Duration {
	return s.flowTimeout
}

// Now returns the store's clock reading.
func (s *SessionStore) Now() time.Time {
	return s.now()
}

// Sweep drops user records that have been idle past the prune window and
// carry no active flow. Callers run it opportunistically; correctness
// never depends on it.
func (s *SessionStore) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int
	for key, sess := range s.sessions {
		if sess.hasFlows() {
			continue
		}
		if now.Sub(sess.LastSeen) > s.pruneAfter {
			delete(s.sessions, key)
			delete(s.locks, key)
			removed++
		}
	}
	return removed
}
