package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/meghna-1234/game-strategy-ai/core"
	"github.com/meghna-1234/game-strategy-ai/internal/testutil"
)

func TestSweeper_RemovesExpiredSessions(t *testing.T) {
	clk := testutil.NewFakeClock(time.Now())
	reg := NewInMemoryRegistry(func(o *Options) { o.Clock = clk })
	reg.Create("u1", "chess")
	reg.Create("u2", "chess")
	clk.Advance(core.DefaultSessionTimeout + time.Minute)

	sw := NewSweeper(reg, 5*time.Millisecond, nil)
	sw.Start()
	sw.Start()
	defer sw.Stop()

	assert.Eventually(t, func() bool {
		return reg.Metrics().Total == 0
	}, time.Second, 5*time.Millisecond)
}

func TestSweeper_StopIsIdempotent(t *testing.T) {
	sw := NewSweeper(NewInMemoryRegistry(), 0, nil)
	assert.Equal(t, DefaultSweepInterval, sw.interval)
	sw.Start()
	sw.Stop()
	sw.Stop()
}
