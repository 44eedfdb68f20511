package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	snapshotFileMode = 0o600
	snapshotDirMode  = 0o700
	tempFilePattern  = ".memory-*.toml.tmp"
)

// FileBackend stores the snapshot as a single TOML document. Writes go to a
// temp file in the same directory which then replaces the target, so readers
// never observe a partially written snapshot.
type FileBackend struct {
	path string
	mu   sync.Mutex
}

var _ Backend = (*FileBackend)(nil)

// NewFileBackend creates a backend writing to path.
func NewFileBackend(path string) (*FileBackend, error) {
	if path == "" {
		return nil, errors.New("snapshot path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve snapshot path: %w", err)
	}
	return &FileBackend{path: filepath.Clean(abs)}, nil
}

// Path returns the absolute snapshot location.
func (b *FileBackend) Path() string { return b.path }

// Save encodes snap and atomically replaces the previous snapshot.
func (b *FileBackend) Save(ctx context.Context, snap Snapshot) error {
	if err := ctx.Err(); err != nil {
		return ioErr("save snapshot", err)
	}
	data, err := toml.Marshal(toFileSchema(snap))
	if err != nil {
		return ioErr("encode snapshot", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writeFile(data)
}

// Load reads and decodes the snapshot.
func (b *FileBackend) Load(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, ioErr("load snapshot", err)
	}

	b.mu.Lock()
	data, err := os.ReadFile(b.path)
	b.mu.Unlock()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Snapshot{}, ErrNotExist
		}
		return Snapshot{}, ioErr("read snapshot", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return Snapshot{}, corruptErr("decode snapshot", err)
	}
	if err := checkVersion(file.Version); err != nil {
		return Snapshot{}, err
	}
	file.applyDefaults()

	snap, err := fromFileSchema(file)
	if err != nil {
		return Snapshot{}, corruptErr("decode snapshot", err)
	}
	return snap, nil
}

// Close is a no-op; files are not held open between calls.
func (b *FileBackend) Close() error { return nil }

func (b *FileBackend) writeFile(data []byte) error {
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, snapshotDirMode); err != nil {
		return ioErr("create snapshot directory", err)
	}

	tempFile, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return ioErr("create temp snapshot", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return ioErr("write temp snapshot", err)
	}

	if err := tempFile.Chmod(snapshotFileMode); err != nil {
		_ = tempFile.Close()
		return ioErr("chmod temp snapshot", err)
	}

	if err := tempFile.Sync(); err != nil {
		_ = tempFile.Close()
		return ioErr("sync temp snapshot", err)
	}

	if err := tempFile.Close(); err != nil {
		return ioErr("close temp snapshot", err)
	}

	if err := os.Rename(tempName, b.path); err != nil {
		return ioErr("replace snapshot", err)
	}

	cleanup = false
	return nil
}
