package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meghna-1234/game-strategy-ai/internal/testutil"
)

func TestSystemInsights_Empty(t *testing.T) {
	ins := New().SystemInsights()
	assert.Equal(t, 0, ins.TotalUsers)
	assert.Equal(t, 0, ins.TotalStrategiesAnalyzed)
	assert.Zero(t, ins.AverageSuccessRate)
	assert.Empty(t, ins.PerGame)
	assert.Empty(t, ins.TopGames)
}

func TestSystemInsights_Aggregates(t *testing.T) {
	s := New()
	win := testutil.Outcome{Strategy: testutil.NewStrategyBuilder("Aggressive").Build(), Success: true}
	loss := testutil.Outcome{Strategy: testutil.NewStrategyBuilder("Defensive").Build()}

	testutil.PopulateMemory(s.GetOrCreate("u1", "chess"), win, win)      // rate 1.0
	testutil.PopulateMemory(s.GetOrCreate("u2", "chess"), win, loss)     // rate 0.5
	testutil.PopulateMemory(s.GetOrCreate("u3", "poker"), loss)          // rate 0.0
	s.GetOrCreate("u4", "go")                                            // no outcomes, counts as 0
	testutil.PopulateMemory(s.GetOrCreate("u5", "checkers"), win)        // rate 1.0
	testutil.PopulateMemory(s.GetOrCreate("u6", "checkers"), loss, loss) // rate 0.0

	ins := s.SystemInsights()
	assert.Equal(t, 6, ins.TotalUsers)
	assert.Equal(t, 8, ins.TotalStrategiesAnalyzed)
	assert.InDelta(t, 2.5/6, ins.AverageSuccessRate, 1e-9)
	assert.Equal(t, 2, ins.PerGame["chess"].Users)
	assert.Equal(t, 4, ins.PerGame["chess"].TotalStrategies)
	assert.Equal(t, 0, ins.PerGame["go"].TotalStrategies)
	// chess and checkers tie on users; name order breaks the tie, then go before poker.
	assert.Equal(t, []string{"checkers", "chess", "go"}, ins.TopGames)
}
