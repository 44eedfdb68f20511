package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/meghna-1234/game-strategy-ai/core"
)

const (
	bucketSuccess = "success"
	bucketFailure = "failure"

	metaSchemaVersion = "schema_version"
	metaSavedAt       = "saved_at"
)

// SQLiteBackend stores the snapshot in a SQLite database (modernc.org/sqlite,
// CGo-free). Save replaces every row inside one transaction.
//
// A database file that SQLite cannot read is moved aside to "<path>.corrupt"
// on Load so that the next Save starts from a fresh file.
type SQLiteBackend struct {
	path string

	mu sync.Mutex
	db *sql.DB
}

var _ Backend = (*SQLiteBackend)(nil)

// NewSQLiteBackend creates a backend for the database at path. The file is
// opened lazily on first use.
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	if path == "" {
		return nil, errors.New("snapshot path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve snapshot path: %w", err)
	}
	return &SQLiteBackend{path: filepath.Clean(abs)}, nil
}

// Path returns the absolute database location.
func (b *SQLiteBackend) Path() string { return b.path }

// openLocked opens and migrates the database; caller holds b.mu.
func (b *SQLiteBackend) openLocked(ctx context.Context) (*sql.DB, error) {
	if b.db != nil {
		return b.db, nil
	}
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", b.path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	b.db = db
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS schema_meta (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS memories (
		user_id         TEXT NOT NULL,
		game_type       TEXT NOT NULL,
		pattern_updated TEXT,
		PRIMARY KEY (user_id, game_type)
	);

	CREATE TABLE IF NOT EXISTS outcomes (
		user_id        TEXT NOT NULL,
		game_type      TEXT NOT NULL,
		bucket         TEXT NOT NULL CHECK (bucket IN ('success', 'failure')),
		seq            INTEGER NOT NULL,
		id             TEXT NOT NULL,
		style          TEXT NOT NULL,
		risk_tolerance TEXT NOT NULL,
		context        TEXT,
		success        INTEGER NOT NULL,
		feedback       INTEGER NOT NULL,
		recorded_at    TEXT NOT NULL,
		PRIMARY KEY (user_id, game_type, bucket, seq),
		FOREIGN KEY (user_id, game_type) REFERENCES memories(user_id, game_type)
	);
	`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Save replaces the stored snapshot with snap.
func (b *SQLiteBackend) Save(ctx context.Context, snap Snapshot) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	db, err := b.openLocked(ctx)
	if err != nil {
		return ioErr("open snapshot db", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return ioErr("begin snapshot tx", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := writeSnapshot(ctx, tx, snap); err != nil {
		return ioErr("write snapshot", err)
	}
	if err := tx.Commit(); err != nil {
		return ioErr("commit snapshot", err)
	}
	return nil
}

func writeSnapshot(ctx context.Context, tx *sql.Tx, snap Snapshot) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM outcomes`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM memories`); err != nil {
		return err
	}

	version := snap.Version
	if version == 0 {
		version = SchemaVersion
	}
	upsertMeta := `INSERT INTO schema_meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := tx.ExecContext(ctx, upsertMeta, metaSchemaVersion, strconv.Itoa(version)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, upsertMeta, metaSavedAt, formatTime(snap.SavedAt)); err != nil {
		return err
	}

	memStmt, err := tx.PrepareContext(ctx, `INSERT INTO memories (user_id, game_type, pattern_updated) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer memStmt.Close()

	outStmt, err := tx.PrepareContext(ctx, `INSERT INTO outcomes
		(user_id, game_type, bucket, seq, id, style, risk_tolerance, context, success, feedback, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer outStmt.Close()

	for _, rec := range snap.Memories {
		userID, gameType := encodeText(rec.UserID), encodeText(rec.GameType)
		if _, err := memStmt.ExecContext(ctx, userID, gameType, formatTime(rec.PatternUpdated)); err != nil {
			return fmt.Errorf("insert memory %s/%s: %w", rec.UserID, rec.GameType, err)
		}
		for bucket, outcomes := range map[string][]core.Outcome{bucketSuccess: rec.Successes, bucketFailure: rec.Failures} {
			for seq, o := range outcomes {
				var ctxJSON sql.NullString
				if len(o.Strategy.Context) > 0 {
					data, err := json.Marshal(encodeContext(o.Strategy.Context))
					if err != nil {
						return err
					}
					ctxJSON = sql.NullString{String: string(data), Valid: true}
				}
				if _, err := outStmt.ExecContext(ctx,
					userID, gameType, bucket, seq, encodeText(o.ID),
					encodeText(o.Strategy.Style), encodeText(o.Strategy.RiskTolerance), ctxJSON,
					o.Success, o.Feedback, formatTime(o.RecordedAt),
				); err != nil {
					return fmt.Errorf("insert outcome %s: %w", o.ID, err)
				}
			}
		}
	}
	return nil
}

// Load reads the stored snapshot.
func (b *SQLiteBackend) Load(ctx context.Context) (Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := os.Stat(b.path); errors.Is(err, os.ErrNotExist) {
		return Snapshot{}, ErrNotExist
	}

	db, err := b.openLocked(ctx)
	if err != nil {
		if isCorrupt(err) {
			return Snapshot{}, b.quarantineLocked(err)
		}
		return Snapshot{}, ioErr("open snapshot db", err)
	}

	snap, err := readSnapshot(ctx, db)
	if err != nil {
		if errors.Is(err, ErrNotExist) || errors.Is(err, core.ErrCorruptSnapshot) {
			return Snapshot{}, err
		}
		if isCorrupt(err) {
			return Snapshot{}, b.quarantineLocked(err)
		}
		return Snapshot{}, ioErr("read snapshot", err)
	}
	return snap, nil
}

func readSnapshot(ctx context.Context, db *sql.DB) (Snapshot, error) {
	meta := map[string]string{}
	rows, err := db.QueryContext(ctx, `SELECT key, value FROM schema_meta`)
	if err != nil {
		return Snapshot{}, err
	}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			rows.Close()
			return Snapshot{}, err
		}
		meta[k] = v
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Snapshot{}, err
	}

	rawVersion, ok := meta[metaSchemaVersion]
	if !ok {
		return Snapshot{}, ErrNotExist
	}
	version, err := strconv.Atoi(rawVersion)
	if err != nil {
		return Snapshot{}, corruptErr("schema version", err)
	}
	if err := checkVersion(version); err != nil {
		return Snapshot{}, err
	}
	savedAt, err := parseTime(meta[metaSavedAt])
	if err != nil {
		return Snapshot{}, corruptErr("saved_at", err)
	}

	snap := Snapshot{Version: version, SavedAt: savedAt, Memories: []core.MemoryRecord{}}
	index := map[[2]string]int{}

	memRows, err := db.QueryContext(ctx, `SELECT user_id, game_type, COALESCE(pattern_updated, '') FROM memories ORDER BY user_id, game_type`)
	if err != nil {
		return Snapshot{}, err
	}
	for memRows.Next() {
		var rec core.MemoryRecord
		var updated string
		if err := memRows.Scan(&rec.UserID, &rec.GameType, &updated); err != nil {
			memRows.Close()
			return Snapshot{}, err
		}
		if rec.PatternUpdated, err = parseTime(updated); err != nil {
			memRows.Close()
			return Snapshot{}, corruptErr("pattern_updated", err)
		}
		index[[2]string{rec.UserID, rec.GameType}] = len(snap.Memories)
		if err := decodeTexts(&rec.UserID, &rec.GameType); err != nil {
			memRows.Close()
			return Snapshot{}, corruptErr("memory key", err)
		}
		rec.Successes = []core.Outcome{}
		rec.Failures = []core.Outcome{}
		snap.Memories = append(snap.Memories, rec)
	}
	memRows.Close()
	if err := memRows.Err(); err != nil {
		return Snapshot{}, err
	}

	outRows, err := db.QueryContext(ctx, `SELECT user_id, game_type, bucket, id, style, risk_tolerance,
		context, success, feedback, recorded_at
		FROM outcomes ORDER BY user_id, game_type, bucket, seq`)
	if err != nil {
		return Snapshot{}, err
	}
	defer outRows.Close()
	for outRows.Next() {
		var (
			userID, gameType, bucket, recordedAt string
			ctxJSON                              sql.NullString
			o                                    core.Outcome
		)
		if err := outRows.Scan(&userID, &gameType, &bucket, &o.ID, &o.Strategy.Style, &o.Strategy.RiskTolerance,
			&ctxJSON, &o.Success, &o.Feedback, &recordedAt); err != nil {
			return Snapshot{}, err
		}
		if err := decodeTexts(&o.ID, &o.Strategy.Style, &o.Strategy.RiskTolerance); err != nil {
			return Snapshot{}, corruptErr("outcome", err)
		}
		if ctxJSON.Valid && ctxJSON.String != "" {
			var stored map[string]string
			if err := json.Unmarshal([]byte(ctxJSON.String), &stored); err != nil {
				return Snapshot{}, corruptErr("outcome context", err)
			}
			if o.Strategy.Context, err = decodeContext(stored); err != nil {
				return Snapshot{}, corruptErr("outcome context", err)
			}
		}
		if o.RecordedAt, err = parseTime(recordedAt); err != nil {
			return Snapshot{}, corruptErr("recorded_at", err)
		}
		i, ok := index[[2]string{userID, gameType}]
		if !ok {
			return Snapshot{}, corruptErr("outcome owner", fmt.Errorf("no memory for %s/%s", userID, gameType))
		}
		if bucket == bucketSuccess {
			snap.Memories[i].Successes = append(snap.Memories[i].Successes, o)
		} else {
			snap.Memories[i].Failures = append(snap.Memories[i].Failures, o)
		}
	}
	if err := outRows.Err(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// decodeTexts decodes each stored column in place.
func decodeTexts(fields ...*string) error {
	for _, f := range fields {
		v, err := decodeText(*f)
		if err != nil {
			return err
		}
		*f = v
	}
	return nil
}

// quarantineLocked moves an unreadable database aside; caller holds b.mu.
func (b *SQLiteBackend) quarantineLocked(cause error) error {
	if b.db != nil {
		b.db.Close()
		b.db = nil
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		_ = os.Remove(b.path + suffix)
	}
	if err := os.Rename(b.path, b.path+".corrupt"); err != nil {
		return corruptErr("open snapshot db", fmt.Errorf("%v (quarantine failed: %v)", cause, err))
	}
	return corruptErr("open snapshot db", cause)
}

func isCorrupt(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() & 0xff {
	case sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_CORRUPT:
		return true
	default:
		return false
	}
}

// Close releases the database handle.
func (b *SQLiteBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	if err != nil {
		return fmt.Errorf("close snapshot db: %w", err)
	}
	return nil
}
