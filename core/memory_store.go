package core

import "context"

// MemoryStore maps (user, game) pairs to their UserMemory and persists the
// whole mapping as one durable snapshot.
type MemoryStore interface {
	GetOrCreate(userID, gameType string) *UserMemory
	Save(ctx context.Context) error
	Load(ctx context.Context) error
	SystemInsights() Insights
}
