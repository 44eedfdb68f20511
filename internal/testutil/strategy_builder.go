package testutil

import (
	"github.com/meghna-1234/game-strategy-ai/core"
)

// StrategyBuilder helps construct strategy descriptors with fluent chaining.
// Example:
//
//	s := NewStrategyBuilder("Aggressive").Risk("High Risk").Tactic("fork").Build()
type StrategyBuilder struct {
	style   string
	risk    string
	context map[string]string
}

// NewStrategyBuilder creates a builder for a strategy with the given style.
func NewStrategyBuilder(style string) *StrategyBuilder {
	return &StrategyBuilder{style: style, context: map[string]string{}}
}

// Risk sets the risk tolerance label (chainable).
func (b *StrategyBuilder) Risk(risk string) *StrategyBuilder {
	b.risk = risk
	return b
}

// Tactic sets the primary tactic context entry (chainable).
func (b *StrategyBuilder) Tactic(tactic string) *StrategyBuilder {
	b.context[core.TacticKey] = tactic
	return b
}

// Context sets an arbitrary context entry (chainable).
func (b *StrategyBuilder) Context(key, val string) *StrategyBuilder {
	b.context[key] = val
	return b
}

// Build returns the strategy. An empty context is left nil.
func (b *StrategyBuilder) Build() core.Strategy {
	s := core.Strategy{Style: b.style, RiskTolerance: b.risk}
	if len(b.context) > 0 {
		s.Context = make(map[string]string, len(b.context))
		for k, v := range b.context {
			s.Context[k] = v
		}
	}
	return s
}

// Outcome describes one AddResult call for PopulateMemory.
type Outcome struct {
	Strategy core.Strategy
	Success  bool
	Feedback int
}

// PopulateMemory replays outcomes into the memory in order.
func PopulateMemory(m *core.UserMemory, outcomes ...Outcome) *core.UserMemory {
	for _, o := range outcomes {
		m.AddResult(o.Strategy, o.Success, o.Feedback)
	}
	return m
}
