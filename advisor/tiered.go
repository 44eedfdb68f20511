package advisor

import (
	"context"
	"errors"
	"time"

	"github.com/meghna-1234/game-strategy-ai/logging"
)

// DefaultTierTimeout bounds a single model-backed tier.
const DefaultTierTimeout = 20 * time.Second

// Tier is one model-backed step of a Tiered generator.
type Tier struct {
	Name      string
	Generator Generator
	// Timeout bounds this tier (defaults to DefaultTierTimeout).
	Timeout time.Duration
}

// TieredOptions configures a Tiered generator.
type TieredOptions struct {
	// Logger (defaults to NoOp logger if nil). A *logging.StrategyLogger also
	// records per-tier latency.
	Logger logging.Logger
}

type generationLogger interface {
	LogGeneration(tier, provider string, dur time.Duration, success bool, err error)
}

// Tiered tries each tier in order and returns the first success. When every
// tier fails the fallback generator answers.
type Tiered struct {
	tiers    []Tier
	fallback Generator
	opts     TieredOptions
}

var _ Generator = (*Tiered)(nil)

// NewTiered creates a tiered generator. fallback is required; tiers may be
// empty.
func NewTiered(fallback Generator, tiers []Tier, optFns ...func(o *TieredOptions)) *Tiered {
	opts := TieredOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	ts := make([]Tier, 0, len(tiers))
	for _, t := range tiers {
		if t.Generator == nil {
			continue
		}
		if t.Timeout <= 0 {
			t.Timeout = DefaultTierTimeout
		}
		ts = append(ts, t)
	}
	return &Tiered{tiers: ts, fallback: fallback, opts: opts}
}

// Tiers returns the names of the configured model tiers in order.
func (g *Tiered) Tiers() []string {
	names := make([]string, 0, len(g.tiers))
	for _, t := range g.tiers {
		names = append(names, t.Name)
	}
	return names
}

// Generate implements Generator. A cancelled parent context stops the walk
// before the fallback so callers see the cancellation.
func (g *Tiered) Generate(ctx context.Context, req Request) (Result, error) {
	for _, t := range g.tiers {
		res, err := g.try(ctx, t, req)
		if err == nil {
			return res, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
	}

	start := time.Now()
	res, err := g.fallback.Generate(ctx, req)
	g.record("fallback", string(SourceFallback), time.Since(start), err)
	return res, err
}

func (g *Tiered) try(ctx context.Context, t Tier, req Request) (Result, error) {
	tctx, cancel := context.WithTimeout(ctx, t.Timeout)
	defer cancel()

	start := time.Now()
	res, err := t.Generator.Generate(tctx, req)
	if err == nil && res.Text == "" {
		err = errors.New("empty strategy text")
	}
	provider := res.Provider
	if provider == "" {
		provider = t.Name
	}
	g.record(t.Name, provider, time.Since(start), err)
	return res, err
}

func (g *Tiered) record(tier, provider string, dur time.Duration, err error) {
	if gl, ok := g.opts.Logger.(generationLogger); ok {
		gl.LogGeneration(tier, provider, dur, err == nil, err)
		return
	}
	if err != nil {
		g.opts.Logger.Warn("strategy tier failed", "tier", tier, "provider", provider, "error", err)
		return
	}
	g.opts.Logger.Debug("strategy tier succeeded", "tier", tier, "provider", provider, "duration", dur)
}
