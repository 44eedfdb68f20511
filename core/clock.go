package core

import "time"

// Clock supplies the current time. Registries and memories take a Clock so
// expiration and timestamps can be driven deterministically in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }
