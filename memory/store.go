package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/meghna-1234/game-strategy-ai/core"
	"github.com/meghna-1234/game-strategy-ai/logging"
	"github.com/meghna-1234/game-strategy-ai/snapshot"
)

// Options configures a Store.
type Options struct {
	// Backend persists snapshots. Nil keeps the store volatile.
	Backend snapshot.Backend
	// Clock supplies outcome timestamps (defaults to the wall clock).
	Clock core.Clock
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

type memoryKey struct {
	userID   string
	gameType string
}

// Store maps (user, game) pairs to their UserMemory. Entries are created
// lazily and live for the life of the process; Save writes the whole mapping
// to the backend and Load replaces it wholesale.
//
// Concurrency: the map is protected by an RWMutex; each entry carries its own
// lock so writers to different entries never contend. Saves are serialized by
// a separate mutex, so snapshots reach the backend in the order they were
// taken while reads and AddResult never wait on IO.
type Store struct {
	mu       sync.RWMutex
	memories map[memoryKey]*core.UserMemory
	opts     Options

	saveMu sync.Mutex
}

var _ core.MemoryStore = (*Store)(nil)

// New constructs an empty store.
func New(optFns ...func(o *Options)) *Store {
	opts := Options{
		Clock:  core.SystemClock{},
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Clock == nil {
		opts.Clock = core.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Store{memories: make(map[memoryKey]*core.UserMemory), opts: opts}
}

// GetOrCreate returns the memory for the pair, creating an empty one on first
// use. The returned pointer stays valid until the next Load.
func (s *Store) GetOrCreate(userID, gameType string) *core.UserMemory {
	key := memoryKey{userID: userID, gameType: gameType}

	s.mu.RLock()
	m, ok := s.memories[key]
	s.mu.RUnlock()
	if ok {
		return m
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.memories[key]; ok {
		return m
	}
	m = core.NewUserMemory(userID, gameType, s.opts.Clock)
	s.memories[key] = m
	s.opts.Logger.Debug("memory created", "user_id", userID, "game_type", gameType)
	return m
}

// Len returns the number of (user, game) entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.memories)
}

// Save writes the full mapping to the backend. The map is copied under locks
// and the IO runs holding only the save lock. Failures wrap core.ErrSnapshotIO
// and leave in-memory state untouched.
func (s *Store) Save(ctx context.Context) error {
	if s.opts.Backend == nil {
		return nil
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	snap := snapshot.Snapshot{
		Version:  snapshot.SchemaVersion,
		SavedAt:  s.opts.Clock.Now(),
		Memories: s.records(),
	}
	if err := s.opts.Backend.Save(ctx, snap); err != nil {
		s.opts.Logger.Error("memory save failed", "error", err)
		return err
	}
	s.opts.Logger.Debug("memory saved", "entries", len(snap.Memories))
	return nil
}

// Load replaces the mapping with the backend's snapshot. A missing snapshot
// yields an empty store. A corrupt snapshot is logged and also yields an empty
// store with a nil error. Any other failure empties the store and returns an
// error wrapping core.ErrSnapshotIO.
func (s *Store) Load(ctx context.Context) error {
	if s.opts.Backend == nil {
		return nil
	}
	snap, err := s.opts.Backend.Load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, snapshot.ErrNotExist):
		s.opts.Logger.Debug("no memory snapshot yet, starting empty")
		s.replace(nil)
		return nil
	case errors.Is(err, core.ErrCorruptSnapshot):
		s.opts.Logger.Warn("memory snapshot is corrupt, starting empty", "error", err)
		s.replace(nil)
		return nil
	default:
		s.opts.Logger.Error("memory load failed, starting empty", "error", err)
		s.replace(nil)
		if errors.Is(err, core.ErrSnapshotIO) {
			return err
		}
		return errors.Join(core.ErrSnapshotIO, err)
	}

	memories := make(map[memoryKey]*core.UserMemory, len(snap.Memories))
	for _, rec := range snap.Memories {
		memories[memoryKey{userID: rec.UserID, gameType: rec.GameType}] = core.RestoreUserMemory(rec, s.opts.Clock)
	}
	s.replace(memories)
	s.opts.Logger.Info("memory loaded", "entries", len(memories))
	return nil
}

func (s *Store) replace(memories map[memoryKey]*core.UserMemory) {
	if memories == nil {
		memories = make(map[memoryKey]*core.UserMemory)
	}
	s.mu.Lock()
	s.memories = memories
	s.mu.Unlock()
}

// entries returns the current entries; callers read each under its own lock.
func (s *Store) entries() []*core.UserMemory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*core.UserMemory, 0, len(s.memories))
	for _, m := range s.memories {
		out = append(out, m)
	}
	return out
}

func (s *Store) records() []core.MemoryRecord {
	entries := s.entries()
	recs := make([]core.MemoryRecord, 0, len(entries))
	for _, m := range entries {
		recs = append(recs, m.Record())
	}
	return recs
}
