package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meghna-1234/game-strategy-ai/core"
	"github.com/meghna-1234/game-strategy-ai/logging"
)

// Options configures an InMemoryRegistry.
type Options struct {
	// Timeout is the sliding expiration window (defaults to 2h).
	Timeout time.Duration
	// Clock supplies the current time (defaults to the wall clock).
	Clock core.Clock
	// NewID generates session identifiers (defaults to random UUIDs).
	NewID func() string
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// InMemoryRegistry is a volatile SessionRegistry storing sessions in a process
// local map. It is safe for concurrent access. Expiration is lazy: an expired
// session is evicted when it is next accessed, or proactively by SweepExpired.
// Each returned session is cloned to prevent external mutation of internal
// state.
type InMemoryRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*core.Session
	opts     Options
}

// NewInMemoryRegistry constructs an empty in‑memory session registry.
func NewInMemoryRegistry(optFns ...func(o *Options)) *InMemoryRegistry {
	opts := Options{
		Timeout: core.DefaultSessionTimeout,
		Clock:   core.SystemClock{},
		NewID:   uuid.NewString,
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = core.DefaultSessionTimeout
	}
	return &InMemoryRegistry{sessions: make(map[string]*core.Session), opts: opts}
}

// Timeout returns the configured expiration window.
func (r *InMemoryRegistry) Timeout() time.Duration { return r.opts.Timeout }

// Create stores a fresh session and returns its identifier.
func (r *InMemoryRegistry) Create(userID, gameType string) string {
	id := r.opts.NewID()
	now := r.opts.Clock.Now()

	r.mu.Lock()
	r.sessions[id] = core.NewSession(id, userID, gameType, now)
	r.mu.Unlock()

	r.opts.Logger.Info("session created", "session_id", id, "user_id", userID, "game_type", gameType)
	return id
}

// Get returns a clone of a live session, refreshing its activity timestamp.
// Absent and expired sessions yield core.ErrSessionNotFound.
func (r *InMemoryRegistry) Get(sessionID string) (*core.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, err := r.liveSessionLocked(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Clone(), nil
}

// RecordInteraction appends an exchange to the session history.
func (r *InMemoryRegistry) RecordInteraction(sessionID, userText, responseText string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, err := r.liveSessionLocked(sessionID)
	if err != nil {
		return err
	}
	sess.AddInteraction(r.opts.Clock.Now(), userText, responseText)
	return nil
}

// UpdateState merges a key/value delta into the session game state.
func (r *InMemoryRegistry) UpdateState(sessionID string, partial map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, err := r.liveSessionLocked(sessionID)
	if err != nil {
		return err
	}
	sess.MergeState(r.opts.Clock.Now(), partial)
	return nil
}

// Metrics counts stored sessions. Total includes sessions that are expired but
// not yet evicted; Active only those within the timeout.
func (r *InMemoryRegistry) Metrics() core.SessionMetrics {
	now := r.opts.Clock.Now()

	r.mu.RLock()
	defer r.mu.RUnlock()
	m := core.SessionMetrics{Total: len(r.sessions), ByGameType: map[string]int{}}
	for _, sess := range r.sessions {
		if !sess.Expired(now, r.opts.Timeout) {
			m.Active++
		}
		m.ByGameType[sess.GameType]++
	}
	return m
}

// SweepExpired evicts every expired session and returns how many were removed.
func (r *InMemoryRegistry) SweepExpired() int {
	now := r.opts.Clock.Now()

	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, sess := range r.sessions {
		if sess.Expired(now, r.opts.Timeout) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// liveSessionLocked resolves a session, evicting it if expired and refreshing
// its activity otherwise; caller must already hold the write lock.
func (r *InMemoryRegistry) liveSessionLocked(sessionID string) (*core.Session, error) {
	sess, ok := r.sessions[sessionID]
	if !ok {
		r.opts.Logger.Debug("session not found", "session_id", sessionID)
		return nil, core.ErrSessionNotFound
	}
	now := r.opts.Clock.Now()
	if sess.Expired(now, r.opts.Timeout) {
		delete(r.sessions, sessionID)
		r.opts.Logger.Debug("session expired", "session_id", sessionID, "idle", now.Sub(sess.LastActivity))
		return nil, core.ErrSessionNotFound
	}
	sess.Touch(now)
	return sess, nil
}
