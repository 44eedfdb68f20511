package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_MergeStateAndClone(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSession("s1", "u1", "chess", start)
	assert.Equal(t, s.CreatedAt, s.LastActivity)

	s.MergeState(start.Add(time.Minute), map[string]any{"turn": 3, "color": "white"})
	s.MergeState(start.Add(2*time.Minute), map[string]any{"turn": 4})
	assert.Equal(t, 4, s.GameState["turn"])
	assert.Equal(t, "white", s.GameState["color"])
	assert.Equal(t, start.Add(2*time.Minute), s.LastActivity)

	clone := s.Clone()
	require.NotSame(t, s, clone)
	clone.GameState["extra"] = true
	_, exists := s.GameState["extra"]
	assert.False(t, exists, "original should not see clone's new key")
}

func TestSession_AddInteractionIsAppendOnly(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSession("s2", "u1", "poker", start)
	s.AddInteraction(start.Add(time.Second), "raise or call?", "raise 3x")
	s.AddInteraction(start.Add(2*time.Second), "and now?", "check")

	require.Len(t, s.History, 2)
	assert.Equal(t, "raise or call?", s.History[0].UserText)
	assert.Equal(t, "check", s.History[1].ResponseText)
	assert.Equal(t, start.Add(2*time.Second), s.LastActivity)

	clone := s.Clone()
	clone.History[0].UserText = "changed"
	assert.Equal(t, "raise or call?", s.History[0].UserText, "history slice should be copied")
}

func TestSession_Expired(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSession("s3", "u1", "go", start)
	assert.False(t, s.Expired(start.Add(DefaultSessionTimeout), DefaultSessionTimeout), "boundary is still alive")
	assert.True(t, s.Expired(start.Add(DefaultSessionTimeout+time.Nanosecond), DefaultSessionTimeout))
}
