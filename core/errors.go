package core

import "errors"

var (
	// ErrSessionNotFound is returned when a session is absent or has expired.
	// Callers recover by starting a new session.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSnapshotIO reports a failure to read or write the durable snapshot.
	// The in-memory state stays authoritative.
	ErrSnapshotIO = errors.New("snapshot io failure")

	// ErrCorruptSnapshot reports a snapshot that exists but cannot be decoded.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)
