package gamestrategy

import (
	"bytes"
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meghna-1234/game-strategy-ai/advisor"
	"github.com/meghna-1234/game-strategy-ai/core"
	"github.com/meghna-1234/game-strategy-ai/internal/testutil"
	"github.com/meghna-1234/game-strategy-ai/logging"
	"github.com/meghna-1234/game-strategy-ai/memory"
	"github.com/meghna-1234/game-strategy-ai/model"
	"github.com/meghna-1234/game-strategy-ai/session"
	"github.com/meghna-1234/game-strategy-ai/snapshot"
)

type fixture struct {
	clock    *testutil.FakeClock
	registry *session.InMemoryRegistry
	store    *memory.Store
	coach    *Coach
}

func newFixture(t *testing.T, optFns ...func(o *Options)) *fixture {
	t.Helper()
	clk := testutil.NewFakeClock(time.Date(2024, 5, 4, 10, 0, 0, 0, time.UTC))
	f := &fixture{
		clock:    clk,
		registry: session.NewInMemoryRegistry(func(o *session.Options) { o.Clock = clk }),
		store:    memory.New(func(o *memory.Options) { o.Clock = clk }),
	}
	rules, err := advisor.NewRuleBased(func(o *advisor.RuleBasedOptions) { o.Rand = rand.New(rand.NewSource(1)) })
	require.NoError(t, err)

	coach, err := New(append([]func(o *Options){func(o *Options) {
		o.Registry = f.registry
		o.Memory = f.store
		o.Generator = rules
	}}, optFns...)...)
	require.NoError(t, err)
	f.coach = coach
	return f
}

func TestNew_Defaults(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	id := c.StartSession("u1", "chess")
	adv, err := c.Advise(context.Background(), id, AdviceRequest{Situation: "opening"})
	require.NoError(t, err)
	assert.Equal(t, advisor.SourceFallback, adv.Source)
	assert.Equal(t, 1, c.Metrics().Active)
}

func TestCoach_AdviseRecordsEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.coach.StartSession("u1", "chess")

	adv, err := f.coach.Advise(ctx, id, AdviceRequest{
		Situation: "  I'm white, knights developed  ",
		Style:     "Aggressive",
		Risk:      "High Risk",
		Detail:    "Detailed",
		Tactic:    "fork",
	})
	require.NoError(t, err)

	assert.Equal(t, id, adv.SessionID)
	assert.True(t, adv.Personalization.ColdStart)
	assert.Contains(t, adv.Text, "Primary tactic: Knight to G5")
	assert.Equal(t, core.Strategy{
		Style:         "Aggressive",
		RiskTolerance: "High Risk",
		Context: map[string]string{
			ContextDetailLevel: "Detailed",
			ContextSource:      string(advisor.SourceFallback),
			core.TacticKey:     "fork",
		},
	}, adv.Strategy)

	sess, err := f.coach.Session(id)
	require.NoError(t, err)
	require.Len(t, sess.History, 1)
	assert.Equal(t, "I'm white, knights developed", sess.History[0].UserText)
	assert.Equal(t, adv.Text, sess.History[0].ResponseText)
	assert.Equal(t, "Aggressive", sess.GameState["last_style"])
	assert.Equal(t, "High Risk", sess.GameState["last_risk"])

	mem := f.store.GetOrCreate("u1", "chess")
	successes := mem.Successes()
	require.Len(t, successes, 1)
	assert.Equal(t, 4, successes[0].Feedback)
	assert.True(t, successes[0].Success)
}

func TestCoach_AdvisePersonalizesAfterHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.coach.StartSession("u1", "chess")

	_, err := f.coach.Advise(ctx, id, AdviceRequest{Situation: "first", Style: "Aggressive", Risk: "High Risk", Tactic: "fork"})
	require.NoError(t, err)

	adv, err := f.coach.Advise(ctx, id, AdviceRequest{Situation: "second"})
	require.NoError(t, err)
	assert.False(t, adv.Personalization.ColdStart)
	assert.Equal(t, "Aggressive", adv.Personalization.Style)
	assert.Equal(t, core.ConfidenceHigh, adv.Personalization.Confidence)
	assert.Equal(t, []string{"fork"}, adv.Personalization.ProvenTactics)
	assert.Contains(t, adv.Text, "Leveraging your proven tactics: fork")

	assert.Equal(t, adv.Personalization, f.coach.Recommend("u1", "chess"))
}

func TestCoach_AdviseErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.coach.Advise(ctx, "missing", AdviceRequest{Situation: "x"})
	assert.ErrorIs(t, err, core.ErrSessionNotFound)

	id := f.coach.StartSession("u1", "chess")
	_, err = f.coach.Advise(ctx, id, AdviceRequest{Situation: "   "})
	assert.ErrorIs(t, err, ErrEmptySituation)

	f.clock.Advance(2*time.Hour + time.Second)
	_, err = f.coach.Advise(ctx, id, AdviceRequest{Situation: "too late"})
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
	assert.Equal(t, 0, f.coach.Metrics().Total)

	total, _ := f.store.GetOrCreate("u1", "chess").Stats()
	assert.Equal(t, 0, total)
}

func TestCoach_AdviseUsesModelTier(t *testing.T) {
	m := model.NewMockModel("gemini-2.0-flash", "gemini")
	m.AddResponse("GAME: poker", "Raise 3x from the cutoff.")
	rules, err := advisor.NewRuleBased()
	require.NoError(t, err)
	gen := advisor.NewTiered(rules, []advisor.Tier{{Name: "primary", Generator: advisor.NewModelGenerator(m, advisor.SourcePrimary)}})

	f := newFixture(t, func(o *Options) { o.Generator = gen })
	id := f.coach.StartSession("u2", "poker")
	adv, err := f.coach.Advise(context.Background(), id, AdviceRequest{Situation: "AQ offsuit in the cutoff"})
	require.NoError(t, err)
	assert.Equal(t, "Raise 3x from the cutoff.", adv.Text)
	assert.Equal(t, advisor.SourcePrimary, adv.Source)
	assert.Equal(t, "gemini", adv.Provider)
}

func TestCoach_Feedback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.coach.StartSession("u1", "chess")
	strategy := testutil.NewStrategyBuilder("Defensive").Risk("Safe").Build()

	assert.ErrorIs(t, f.coach.Feedback(ctx, id, strategy, 0), ErrInvalidRating)
	assert.ErrorIs(t, f.coach.Feedback(ctx, id, strategy, 6), ErrInvalidRating)
	assert.ErrorIs(t, f.coach.Feedback(ctx, "missing", strategy, 3), core.ErrSessionNotFound)

	require.NoError(t, f.coach.Feedback(ctx, id, strategy, 2))
	require.NoError(t, f.coach.Feedback(ctx, id, strategy, 3))

	mem := f.store.GetOrCreate("u1", "chess")
	failures, successes := mem.Failures(), mem.Successes()
	require.Len(t, failures, 1)
	require.Len(t, successes, 1)
	assert.Equal(t, 2, failures[0].Feedback)
	assert.Equal(t, 3, successes[0].Feedback)
	assert.Equal(t, "50.0%", f.coach.Recommend("u1", "chess").SuccessRate)
}

func TestCoach_PersistsAcrossRestarts(t *testing.T) {
	for _, name := range []string{"file", "sqlite"} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			open := func() snapshot.Backend {
				var (
					b   snapshot.Backend
					err error
				)
				if name == "file" {
					b, err = snapshot.NewFileBackend(filepath.Join(dir, "memory.toml"))
				} else {
					b, err = snapshot.NewSQLiteBackend(filepath.Join(dir, "memory.db"))
				}
				require.NoError(t, err)
				t.Cleanup(func() { b.Close() })
				return b
			}

			first := newFixture(t, func(o *Options) {
				o.Memory = memory.New(func(mo *memory.Options) { mo.Backend = open() })
			})
			ctx := context.Background()
			id := first.coach.StartSession("u1", "chess")
			_, err := first.coach.Advise(ctx, id, AdviceRequest{Situation: "s", Style: "Aggressive", Risk: "High Risk"})
			require.NoError(t, err)
			require.NoError(t, first.coach.EndSession(ctx, id))
			want := first.coach.Recommend("u1", "chess")

			store := memory.New(func(mo *memory.Options) { mo.Backend = open() })
			require.NoError(t, store.Load(ctx))
			second, err := New(func(o *Options) { o.Memory = store })
			require.NoError(t, err)

			assert.Equal(t, want, second.Recommend("u1", "chess"))
			assert.Equal(t, 1, second.Insights().TotalStrategiesAnalyzed)
		})
	}
}

func TestCoach_SaveFailureIsLoggedNotReturned(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	backend, err := snapshot.NewFileBackend(filepath.Join(blocker, "memory.toml"))
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := logging.NewLogger(&logging.LoggerConfig{Level: logging.LogLevelWarn, Output: &buf})
	f := newFixture(t, func(o *Options) {
		o.Memory = memory.New(func(mo *memory.Options) { mo.Backend = backend })
		o.Logger = logger
	})

	ctx := context.Background()
	id := f.coach.StartSession("u1", "chess")
	_, err = f.coach.Advise(ctx, id, AdviceRequest{Situation: "s"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "memory save failed")

	assert.ErrorIs(t, f.coach.EndSession(ctx, id), core.ErrSnapshotIO)
}

func TestCoach_UpdateState(t *testing.T) {
	f := newFixture(t)
	id := f.coach.StartSession("u1", "go")
	require.NoError(t, f.coach.UpdateState(id, map[string]any{"move": 42}))
	require.NoError(t, f.coach.UpdateState(id, map[string]any{"move": 43, "phase": "endgame"}))

	sess, err := f.coach.Session(id)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"move": 43, "phase": "endgame"}, sess.GameState)
	assert.ErrorIs(t, f.coach.UpdateState("missing", nil), core.ErrSessionNotFound)
}
