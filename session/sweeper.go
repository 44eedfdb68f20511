package session

import (
	"sync"
	"time"

	"github.com/meghna-1234/game-strategy-ai/core"
	"github.com/meghna-1234/game-strategy-ai/logging"
)

// DefaultSweepInterval is how often the Sweeper reclaims expired sessions.
const DefaultSweepInterval = 10 * time.Minute

// Sweeper periodically calls SweepExpired on a registry in the background.
// Lazy eviction already keeps reads correct; the sweeper only reclaims memory.
type Sweeper struct {
	registry core.SessionRegistry
	interval time.Duration
	logger   logging.Logger

	startOnce sync.Once
	stopOnce  sync.Once
	stopChan  chan struct{}
	wg        sync.WaitGroup
}

// NewSweeper creates a sweeper. A non-positive interval uses DefaultSweepInterval.
func NewSweeper(registry core.SessionRegistry, interval time.Duration, logger logging.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Sweeper{registry: registry, interval: interval, logger: logger, stopChan: make(chan struct{})}
}

// Start launches the background loop. Subsequent calls are no-ops.
func (s *Sweeper) Start() {
	s.startOnce.Do(func() {
		s.wg.Add(1)
		go s.run()
	})
}

// Stop terminates the loop and waits for it to exit.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
}

func (s *Sweeper) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.registry.SweepExpired(); n > 0 {
				s.logger.Info("swept expired sessions", "count", n)
			}
		case <-s.stopChan:
			return
		}
	}
}
