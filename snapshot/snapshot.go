// Package snapshot persists the memory store as one durable artifact. The
// artifact follows an explicit, versioned schema so format changes are
// detected on load instead of silently misread.
//
// Two backends are provided: FileBackend writes a single TOML document and
// SQLiteBackend writes a single SQLite database. Both replace the previous
// snapshot wholesale on Save.
package snapshot

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/meghna-1234/game-strategy-ai/core"
)

// SchemaVersion is the newest snapshot schema this build reads and writes.
const SchemaVersion = 1

// ErrNotExist is returned by Load when no snapshot has been written yet.
var ErrNotExist = errors.New("snapshot does not exist")

// Snapshot is the full (user, game) -> memory mapping at one point in time.
type Snapshot struct {
	Version  int
	SavedAt  time.Time
	Memories []core.MemoryRecord
}

// Backend stores and restores snapshots.
//
// Load returns ErrNotExist when nothing was saved yet, an error wrapping
// core.ErrCorruptSnapshot when the artifact cannot be decoded, and an error
// wrapping core.ErrSnapshotIO for any other failure. Save wraps its failures
// in core.ErrSnapshotIO.
type Backend interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context) (Snapshot, error)
	Close() error
}

func checkVersion(v int) error {
	if v > SchemaVersion {
		return fmt.Errorf("%w: unsupported schema version %d (current %d)", core.ErrCorruptSnapshot, v, SchemaVersion)
	}
	if v < 0 {
		return fmt.Errorf("%w: invalid schema version %d", core.ErrCorruptSnapshot, v)
	}
	return nil
}

func ioErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", core.ErrSnapshotIO, op, err)
}

func corruptErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", core.ErrCorruptSnapshot, op, err)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// rawTextPrefix marks a stored string holding base64 of the original bytes.
// Ids and labels are opaque caller strings and may be invalid UTF-8, which
// neither TOML nor JSON can carry.
const rawTextPrefix = "base64:"

// encodeText returns s unchanged when it is valid UTF-8 and cannot be
// mistaken for an encoded value.
func encodeText(s string) string {
	if utf8.ValidString(s) && !strings.HasPrefix(s, rawTextPrefix) {
		return s
	}
	return rawTextPrefix + base64.StdEncoding.EncodeToString([]byte(s))
}

func decodeText(s string) (string, error) {
	raw, ok := strings.CutPrefix(s, rawTextPrefix)
	if !ok {
		return s, nil
	}
	b, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", fmt.Errorf("decode %q: %w", s, err)
	}
	return string(b), nil
}

func encodeContext(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[encodeText(k)] = encodeText(v)
	}
	return out
}

func decodeContext(in map[string]string) (map[string]string, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		dk, err := decodeText(k)
		if err != nil {
			return nil, err
		}
		dv, err := decodeText(v)
		if err != nil {
			return nil, err
		}
		out[dk] = dv
	}
	return out, nil
}
