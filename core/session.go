package core

import (
	"time"
)

// DefaultSessionTimeout is the sliding expiration window applied to sessions.
const DefaultSessionTimeout = 2 * time.Hour

// Interaction is one exchange between the user and the advisor.
type Interaction struct {
	Timestamp    time.Time `json:"timestamp"`
	UserText     string    `json:"user_text"`
	ResponseText string    `json:"response_text"`
}

// Session represents a bounded lifetime interaction context for one user
// talking about one game. Sessions are owned by a SessionRegistry; callers only
// ever receive clones.
//
// Contract:
//   - Every activity touching operation refreshes LastActivity
//   - History is append only
//   - Clone performs deep copies of the state map and history slice
type Session struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	GameType     string         `json:"game_type"`
	CreatedAt    time.Time      `json:"created_at"`
	LastActivity time.Time      `json:"last_activity"`
	GameState    map[string]any `json:"game_state"`
	History      []Interaction  `json:"history"`
}

// NewSession creates a session whose creation and activity timestamps are now.
func NewSession(id, userID, gameType string, now time.Time) *Session {
	return &Session{
		ID:           id,
		UserID:       userID,
		GameType:     gameType,
		CreatedAt:    now,
		LastActivity: now,
		GameState:    map[string]any{},
		History:      []Interaction{},
	}
}

// Touch refreshes LastActivity.
func (s *Session) Touch(now time.Time) {
	s.LastActivity = now
}

// Expired reports whether the session has been idle for longer than timeout.
func (s *Session) Expired(now time.Time, timeout time.Duration) bool {
	return now.Sub(s.LastActivity) > timeout
}

// AddInteraction appends an exchange to the history and refreshes activity.
func (s *Session) AddInteraction(now time.Time, userText, responseText string) {
	s.History = append(s.History, Interaction{Timestamp: now, UserText: userText, ResponseText: responseText})
	s.Touch(now)
}

// MergeState merges the provided key/value pairs into GameState (last write
// wins per key) and refreshes activity.
func (s *Session) MergeState(now time.Time, delta map[string]any) {
	for k, v := range delta {
		s.GameState[k] = v
	}
	s.Touch(now)
}

// Clone returns a deep copy of the session safe for independent mutation.
func (s *Session) Clone() *Session {
	clone := &Session{
		ID:           s.ID,
		UserID:       s.UserID,
		GameType:     s.GameType,
		CreatedAt:    s.CreatedAt,
		LastActivity: s.LastActivity,
		GameState:    make(map[string]any, len(s.GameState)),
		History:      make([]Interaction, len(s.History)),
	}
	for k, v := range s.GameState {
		clone.GameState[k] = v
	}
	copy(clone.History, s.History)
	return clone
}

// SessionMetrics summarizes the registry contents.
type SessionMetrics struct {
	// Total counts every stored session, including expired ones not yet swept.
	Total int `json:"total_sessions"`
	// Active counts sessions whose last activity is within the timeout.
	Active     int            `json:"active_sessions"`
	ByGameType map[string]int `json:"sessions_by_game"`
}

// SessionRegistry tracks active sessions and their sliding expiration.
type SessionRegistry interface {
	Create(userID, gameType string) string
	Get(sessionID string) (*Session, error)
	RecordInteraction(sessionID, userText, responseText string) error
	UpdateState(sessionID string, partial map[string]any) error
	Metrics() SessionMetrics
	SweepExpired() int
}
