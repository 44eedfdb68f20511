package snapshot

import (
	"fmt"

	"github.com/meghna-1234/game-strategy-ai/core"
)

type fileSchema struct {
	Version  int            `toml:"version"`
	SavedAt  string         `toml:"saved_at"`
	Memories []memorySchema `toml:"memories"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = SchemaVersion
	}
}

type memorySchema struct {
	UserID         string          `toml:"user_id"`
	GameType       string          `toml:"game_type"`
	PatternUpdated string          `toml:"pattern_updated,omitempty"`
	Successes      []outcomeSchema `toml:"successes,omitempty"`
	Failures       []outcomeSchema `toml:"failures,omitempty"`
}

type outcomeSchema struct {
	ID            string            `toml:"id"`
	Style         string            `toml:"style"`
	RiskTolerance string            `toml:"risk_tolerance"`
	Context       map[string]string `toml:"context,omitempty"`
	Success       bool              `toml:"success"`
	Feedback      int               `toml:"feedback"`
	RecordedAt    string            `toml:"recorded_at"`
}

func toFileSchema(snap Snapshot) fileSchema {
	file := fileSchema{Version: snap.Version, SavedAt: formatTime(snap.SavedAt)}
	file.Memories = make([]memorySchema, 0, len(snap.Memories))
	for _, rec := range snap.Memories {
		file.Memories = append(file.Memories, memorySchema{
			UserID:         encodeText(rec.UserID),
			GameType:       encodeText(rec.GameType),
			PatternUpdated: formatTime(rec.PatternUpdated),
			Successes:      toOutcomeSchemas(rec.Successes),
			Failures:       toOutcomeSchemas(rec.Failures),
		})
	}
	file.applyDefaults()
	return file
}

func toOutcomeSchemas(in []core.Outcome) []outcomeSchema {
	out := make([]outcomeSchema, 0, len(in))
	for _, o := range in {
		out = append(out, outcomeSchema{
			ID:            encodeText(o.ID),
			Style:         encodeText(o.Strategy.Style),
			RiskTolerance: encodeText(o.Strategy.RiskTolerance),
			Context:       encodeContext(o.Strategy.Context),
			Success:       o.Success,
			Feedback:      o.Feedback,
			RecordedAt:    formatTime(o.RecordedAt),
		})
	}
	return out
}

func fromFileSchema(file fileSchema) (Snapshot, error) {
	savedAt, err := parseTime(file.SavedAt)
	if err != nil {
		return Snapshot{}, fmt.Errorf("saved_at: %w", err)
	}
	snap := Snapshot{Version: file.Version, SavedAt: savedAt, Memories: make([]core.MemoryRecord, 0, len(file.Memories))}
	for i, m := range file.Memories {
		var rec core.MemoryRecord
		if rec.UserID, err = decodeText(m.UserID); err != nil {
			return Snapshot{}, fmt.Errorf("memories[%d].user_id: %w", i, err)
		}
		if rec.GameType, err = decodeText(m.GameType); err != nil {
			return Snapshot{}, fmt.Errorf("memories[%d].game_type: %w", i, err)
		}
		if rec.PatternUpdated, err = parseTime(m.PatternUpdated); err != nil {
			return Snapshot{}, fmt.Errorf("memories[%d].pattern_updated: %w", i, err)
		}
		if rec.Successes, err = fromOutcomeSchemas(m.Successes); err != nil {
			return Snapshot{}, fmt.Errorf("memories[%d].successes: %w", i, err)
		}
		if rec.Failures, err = fromOutcomeSchemas(m.Failures); err != nil {
			return Snapshot{}, fmt.Errorf("memories[%d].failures: %w", i, err)
		}
		snap.Memories = append(snap.Memories, rec)
	}
	return snap, nil
}

func fromOutcomeSchemas(in []outcomeSchema) ([]core.Outcome, error) {
	out := make([]core.Outcome, 0, len(in))
	for i, o := range in {
		recordedAt, err := parseTime(o.RecordedAt)
		if err != nil {
			return nil, fmt.Errorf("[%d].recorded_at: %w", i, err)
		}
		var oc core.Outcome
		if oc.ID, err = decodeText(o.ID); err != nil {
			return nil, fmt.Errorf("[%d].id: %w", i, err)
		}
		if oc.Strategy.Style, err = decodeText(o.Style); err != nil {
			return nil, fmt.Errorf("[%d].style: %w", i, err)
		}
		if oc.Strategy.RiskTolerance, err = decodeText(o.RiskTolerance); err != nil {
			return nil, fmt.Errorf("[%d].risk_tolerance: %w", i, err)
		}
		if oc.Strategy.Context, err = decodeContext(o.Context); err != nil {
			return nil, fmt.Errorf("[%d].context: %w", i, err)
		}
		oc.Success, oc.Feedback, oc.RecordedAt = o.Success, o.Feedback, recordedAt
		out = append(out, oc)
	}
	return out, nil
}
