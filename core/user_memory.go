package core

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	// patternWindow is how many recent successes feed the learning pattern.
	patternWindow = 5
	// patternTopN caps each ranked label list.
	patternTopN = 3
	// highConfidenceRate is the success rate above which confidence is high.
	highConfidenceRate = 0.7

	defaultStyle = "balanced"
	defaultRisk  = "moderate"
)

// UserMemory accumulates the outcome history of one user for one game and
// derives a LearningPattern from it. It is safe for concurrent access: writers
// are exclusive per entry, readers observe a consistent snapshot.
type UserMemory struct {
	UserID   string
	GameType string

	mu        sync.RWMutex
	successes []Outcome
	failures  []Outcome
	pattern   *LearningPattern
	clock     Clock
}

// NewUserMemory creates an empty memory for the (user, game) pair.
func NewUserMemory(userID, gameType string, clock Clock) *UserMemory {
	if clock == nil {
		clock = SystemClock{}
	}
	return &UserMemory{UserID: userID, GameType: gameType, clock: clock}
}

// MemoryRecord is the serializable form of a UserMemory.
type MemoryRecord struct {
	UserID         string
	GameType       string
	Successes      []Outcome
	Failures       []Outcome
	PatternUpdated time.Time
}

// RestoreUserMemory rebuilds a memory from a record. The pattern is
// recomputed and keeps the recorded update time.
func RestoreUserMemory(rec MemoryRecord, clock Clock) *UserMemory {
	m := NewUserMemory(rec.UserID, rec.GameType, clock)
	m.successes = cloneOutcomes(rec.Successes)
	m.failures = cloneOutcomes(rec.Failures)
	m.recomputeLocked(rec.PatternUpdated)
	return m
}

// Record returns a deep copy of the memory in serializable form.
func (m *UserMemory) Record() MemoryRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec := MemoryRecord{
		UserID:    m.UserID,
		GameType:  m.GameType,
		Successes: cloneOutcomes(m.successes),
		Failures:  cloneOutcomes(m.failures),
	}
	if m.pattern != nil {
		rec.PatternUpdated = m.pattern.LastUpdated
	}
	return rec
}

// AddResult classifies the outcome of a strategy, files it and recomputes the
// learning pattern. Feedback outside 0..5 is clamped.
func (m *UserMemory) AddResult(strategy Strategy, success bool, feedback int) {
	now := m.clock.Now()
	o := Outcome{
		ID:         ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		Strategy:   strategy.Clone(),
		Success:    success,
		Feedback:   clampFeedback(feedback),
		RecordedAt: now,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if o.IsSuccess() {
		m.successes = append(m.successes, o)
	} else {
		m.failures = append(m.failures, o)
	}
	m.recomputeLocked(now)
}

// Successes returns a copy of the outcomes filed as successes, oldest first.
func (m *UserMemory) Successes() []Outcome {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneOutcomes(m.successes)
}

// Failures returns a copy of the outcomes filed as failures, oldest first.
func (m *UserMemory) Failures() []Outcome {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneOutcomes(m.failures)
}

// Pattern returns a copy of the current learning pattern or nil before the
// first outcome.
func (m *UserMemory) Pattern() *LearningPattern {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pattern.Clone()
}

// Stats returns the outcome total and success rate in one consistent read.
func (m *UserMemory) Stats() (total int, successRate float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.pattern == nil {
		return 0, 0
	}
	return m.pattern.Total, m.pattern.SuccessRate
}

// Recommend derives personalized advice from the learning pattern.
func (m *UserMemory) Recommend() Recommendation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p := m.pattern
	if p == nil || p.Total == 0 {
		return Recommendation{ColdStart: true, Confidence: ConfidenceLow}
	}
	rec := Recommendation{
		Style:         firstOr(p.Styles, defaultStyle),
		RiskLevel:     firstOr(p.Risks, defaultRisk),
		ProvenTactics: append([]string{}, p.Tactics...),
		SuccessRate:   fmt.Sprintf("%.1f%%", p.SuccessRate*100),
		Confidence:    ConfidenceMedium,
	}
	if p.SuccessRate > highConfidenceRate {
		rec.Confidence = ConfidenceHigh
	}
	return rec
}

// recomputeLocked rebuilds the pattern from scratch; caller holds the write lock.
func (m *UserMemory) recomputeLocked(now time.Time) {
	total := len(m.successes) + len(m.failures)
	if total == 0 {
		m.pattern = nil
		return
	}

	window := m.successes
	if len(window) > patternWindow {
		window = window[len(window)-patternWindow:]
	}

	var styles, risks, tactics []string
	for _, o := range window {
		if o.Strategy.Style != "" {
			styles = append(styles, o.Strategy.Style)
		}
		if o.Strategy.RiskTolerance != "" {
			risks = append(risks, o.Strategy.RiskTolerance)
		}
		if t, ok := o.Strategy.Tactic(); ok {
			tactics = append(tactics, t)
		}
	}

	m.pattern = &LearningPattern{
		Styles:      RankLabels(styles, patternTopN),
		Risks:       RankLabels(risks, patternTopN),
		Tactics:     RankLabels(tactics, patternTopN),
		SuccessRate: float64(len(m.successes)) / float64(total),
		Total:       total,
		LastUpdated: now,
	}
}

// RankLabels returns at most n labels ordered by descending frequency. Equal
// frequencies keep the order of first appearance.
func RankLabels(items []string, n int) []string {
	counts := make(map[string]int, len(items))
	order := make([]string, 0, len(items))
	for _, it := range items {
		if _, seen := counts[it]; !seen {
			order = append(order, it)
		}
		counts[it]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	return order
}

func firstOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return items[0]
}

func clampFeedback(f int) int {
	switch {
	case f < 0:
		return 0
	case f > 5:
		return 5
	default:
		return f
	}
}

func cloneOutcomes(in []Outcome) []Outcome {
	out := make([]Outcome, len(in))
	for i, o := range in {
		o.Strategy = o.Strategy.Clone()
		out[i] = o
	}
	return out
}
