// Package gamestrategy provides a high-level façade (Coach) over the session
// registry, the per-user learning memory and the strategy generators. Most
// applications interact with this package by:
//  1. Creating a Coach via New() (optionally overriding the default in‑memory services)
//  2. Starting a session for a (user, game) pair
//  3. Asking for advice and reporting how it went (Advise / Feedback)
//
// The registry and the memory store never call each other; the Coach is the
// only place where they meet. All defaults are safe for local development and
// testing; production deployments supply a durable memory backend, model
// tiers and a structured logger.
package gamestrategy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/meghna-1234/game-strategy-ai/advisor"
	"github.com/meghna-1234/game-strategy-ai/core"
	"github.com/meghna-1234/game-strategy-ai/logging"
	"github.com/meghna-1234/game-strategy-ai/memory"
	"github.com/meghna-1234/game-strategy-ai/session"
)

var (
	// ErrEmptySituation is returned by Advise when no situation was described.
	ErrEmptySituation = errors.New("situation is empty")
	// ErrInvalidRating is returned by Feedback for ratings outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// Strategy context keys recorded with every outcome.
const (
	ContextDetailLevel = "detail_level"
	ContextSource      = "source"
)

const (
	provisionalFeedback = 4
	successRating       = 3
	minRating           = 1
	maxRating           = 5
)

// Options configures the Coach instance.
type Options struct {
	// Services (default to in-memory implementations if not provided)
	Registry core.SessionRegistry
	Memory   core.MemoryStore

	// Generator produces strategy text (defaults to the rule-based tips
	// generator).
	Generator advisor.Generator

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// AdviceRequest is one player question inside a session.
type AdviceRequest struct {
	Situation string
	Style     string
	Risk      string
	Detail    string
	// Tactic is the primary tactic the player intends to use, if any.
	Tactic string
}

// Advice is the answer to an AdviceRequest.
type Advice struct {
	SessionID       string              `json:"session_id"`
	Text            string              `json:"text"`
	Source          advisor.Source      `json:"source"`
	Provider        string              `json:"provider"`
	Strategy        core.Strategy       `json:"strategy"`
	Personalization core.Recommendation `json:"personalization"`
}

// Coach is the high-level façade aggregating sessions, memory and generation.
type Coach struct {
	opts Options
}

// New creates a new Coach with optional overrides. Any unset service is
// initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) (*Coach, error) {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Registry == nil {
		opts.Registry = session.NewInMemoryRegistry(func(o *session.Options) { o.Logger = opts.Logger })
	}
	if opts.Memory == nil {
		opts.Memory = memory.New(func(o *memory.Options) { o.Logger = opts.Logger })
	}
	if opts.Generator == nil {
		g, err := advisor.NewRuleBased()
		if err != nil {
			return nil, fmt.Errorf("default generator: %w", err)
		}
		opts.Generator = g
	}
	return &Coach{opts: opts}, nil
}

// StartSession opens a session for the (user, game) pair and returns its id.
func (c *Coach) StartSession(userID, gameType string) string {
	return c.opts.Registry.Create(userID, gameType)
}

// Session returns a copy of a live session.
func (c *Coach) Session(sessionID string) (*core.Session, error) {
	return c.opts.Registry.Get(sessionID)
}

// Advise generates a strategy for the situation, personalized from the
// player's memory. The exchange is recorded in the session history and filed
// as a provisional success (feedback 4) so the pattern learns from every
// answer; Feedback later adds the player's real rating. A failed snapshot
// save is logged, not returned.
func (c *Coach) Advise(ctx context.Context, sessionID string, req AdviceRequest) (Advice, error) {
	situation := strings.TrimSpace(req.Situation)
	if situation == "" {
		return Advice{}, ErrEmptySituation
	}

	sess, err := c.opts.Registry.Get(sessionID)
	if err != nil {
		return Advice{}, fmt.Errorf("advise: %w", err)
	}

	mem := c.opts.Memory.GetOrCreate(sess.UserID, sess.GameType)
	rec := mem.Recommend()

	res, err := c.opts.Generator.Generate(ctx, advisor.Request{
		GameType:        sess.GameType,
		Situation:       situation,
		Style:           req.Style,
		Risk:            req.Risk,
		Detail:          req.Detail,
		Personalization: &rec,
	})
	if err != nil {
		return Advice{}, fmt.Errorf("generate strategy: %w", err)
	}

	if err := c.opts.Registry.RecordInteraction(sessionID, situation, res.Text); err != nil {
		return Advice{}, fmt.Errorf("record interaction: %w", err)
	}

	strategy := c.strategyFor(req, res.Source)
	mem.AddResult(strategy, true, provisionalFeedback)

	if err := c.opts.Registry.UpdateState(sessionID, map[string]any{
		"last_style": req.Style,
		"last_risk":  req.Risk,
	}); err != nil {
		return Advice{}, fmt.Errorf("update session state: %w", err)
	}

	c.save(ctx, "advise")

	c.opts.Logger.Info("strategy generated",
		"session_id", sessionID, "user_id", sess.UserID, "game_type", sess.GameType,
		"source", res.Source, "provider", res.Provider, "confidence", rec.Confidence)

	return Advice{
		SessionID:       sessionID,
		Text:            res.Text,
		Source:          res.Source,
		Provider:        res.Provider,
		Strategy:        strategy,
		Personalization: rec,
	}, nil
}

func (c *Coach) strategyFor(req AdviceRequest, source advisor.Source) core.Strategy {
	s := core.Strategy{Style: req.Style, RiskTolerance: req.Risk, Context: map[string]string{}}
	if req.Detail != "" {
		s.Context[ContextDetailLevel] = req.Detail
	}
	if source != "" {
		s.Context[ContextSource] = string(source)
	}
	if t := strings.TrimSpace(req.Tactic); t != "" {
		s.Context[core.TacticKey] = t
	}
	return s.Clone()
}

// Feedback records the player's 1..5 rating of a strategy. Ratings of 3 or
// more count as a success.
func (c *Coach) Feedback(ctx context.Context, sessionID string, strategy core.Strategy, rating int) error {
	if rating < minRating || rating > maxRating {
		return fmt.Errorf("%w: got %d", ErrInvalidRating, rating)
	}
	sess, err := c.opts.Registry.Get(sessionID)
	if err != nil {
		return fmt.Errorf("feedback: %w", err)
	}

	c.opts.Memory.GetOrCreate(sess.UserID, sess.GameType).AddResult(strategy, rating >= successRating, rating)
	c.save(ctx, "feedback")

	c.opts.Logger.Info("feedback recorded", "session_id", sessionID, "rating", rating)
	return nil
}

// EndSession persists the memory store. The session itself expires on its
// own.
func (c *Coach) EndSession(ctx context.Context, sessionID string) error {
	if err := c.opts.Memory.Save(ctx); err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	c.opts.Logger.Info("session ended", "session_id", sessionID)
	return nil
}

// UpdateState merges key/value pairs into the session's game state.
func (c *Coach) UpdateState(sessionID string, partial map[string]any) error {
	return c.opts.Registry.UpdateState(sessionID, partial)
}

// Recommend returns the player's personalized recommendation.
func (c *Coach) Recommend(userID, gameType string) core.Recommendation {
	return c.opts.Memory.GetOrCreate(userID, gameType).Recommend()
}

// Metrics returns session counters.
func (c *Coach) Metrics() core.SessionMetrics { return c.opts.Registry.Metrics() }

// Insights aggregates learning statistics across every player.
func (c *Coach) Insights() core.Insights { return c.opts.Memory.SystemInsights() }

func (c *Coach) save(ctx context.Context, op string) {
	if err := c.opts.Memory.Save(ctx); err != nil {
		c.opts.Logger.Warn("memory save failed", "operation", op, "error", err)
	}
}
