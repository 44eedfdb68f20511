package core

import (
	"time"
)

// TacticKey is the Strategy.Context key holding the primary tactic label.
const TacticKey = "primary_tactic"

// Strategy describes the advice that was given: the style and risk labels the
// user picked plus free-form context.
type Strategy struct {
	Style         string            `json:"style"`
	RiskTolerance string            `json:"risk_tolerance"`
	Context       map[string]string `json:"context,omitempty"`
}

// Tactic returns the primary tactic label, if any.
func (s Strategy) Tactic() (string, bool) {
	t, ok := s.Context[TacticKey]
	return t, ok && t != ""
}

// Clone returns a copy with its own context map. An empty context becomes nil.
func (s Strategy) Clone() Strategy {
	c := Strategy{Style: s.Style, RiskTolerance: s.RiskTolerance}
	if len(s.Context) > 0 {
		c.Context = make(map[string]string, len(s.Context))
		for k, v := range s.Context {
			c.Context[k] = v
		}
	}
	return c
}

// Outcome records the result of one strategy. Immutable once created.
type Outcome struct {
	ID         string    `json:"id"`
	Strategy   Strategy  `json:"strategy"`
	Success    bool      `json:"success"`
	Feedback   int       `json:"feedback"` // 1-5, 0 when absent
	RecordedAt time.Time `json:"recorded_at"`
}

// IsSuccess reports whether the outcome is filed as a success: either the
// strategy worked or the user rated it 4 or better.
func (o Outcome) IsSuccess() bool {
	return o.Success || o.Feedback >= 4
}

// LearningPattern is the derived summary of recent successes.
type LearningPattern struct {
	Styles      []string  `json:"preferred_strategy_styles"`
	Risks       []string  `json:"effective_risk_levels"`
	Tactics     []string  `json:"successful_tactics"`
	SuccessRate float64   `json:"success_rate"`
	Total       int       `json:"total_strategies"`
	LastUpdated time.Time `json:"last_updated"`
}

// Clone returns a deep copy of the pattern.
func (p *LearningPattern) Clone() *LearningPattern {
	if p == nil {
		return nil
	}
	c := *p
	c.Styles = append([]string(nil), p.Styles...)
	c.Risks = append([]string(nil), p.Risks...)
	c.Tactics = append([]string(nil), p.Tactics...)
	return &c
}

// Confidence levels reported with a Recommendation.
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// Recommendation is the personalized advice derived from a LearningPattern.
// ColdStart is set when no outcome has been recorded yet.
type Recommendation struct {
	ColdStart     bool     `json:"cold_start"`
	Style         string   `json:"recommended_strategy_style,omitempty"`
	RiskLevel     string   `json:"suggested_risk_level,omitempty"`
	ProvenTactics []string `json:"proven_tactics,omitempty"`
	SuccessRate   string   `json:"user_success_rate,omitempty"`
	Confidence    string   `json:"confidence_level"`
}

// GameInsight aggregates memory entries for a single game.
type GameInsight struct {
	Users           int `json:"users"`
	TotalStrategies int `json:"total_strategies"`
}

// Insights aggregates learning state across every user.
type Insights struct {
	TotalUsers              int                    `json:"total_users"`
	TotalStrategiesAnalyzed int                    `json:"total_strategies_analyzed"`
	AverageSuccessRate      float64                `json:"average_success_rate"`
	PerGame                 map[string]GameInsight `json:"game_insights"`
	TopGames                []string               `json:"most_popular_games"`
}
