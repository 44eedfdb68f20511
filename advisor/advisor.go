package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/meghna-1234/game-strategy-ai/core"
	"github.com/meghna-1234/game-strategy-ai/internal/util"
)

// Source labels which tier produced a Result.
type Source string

const (
	SourcePrimary   Source = "primary"
	SourceSecondary Source = "secondary"
	SourceFallback  Source = "fallback"
)

// Request describes one strategy request.
type Request struct {
	GameType  string `json:"game_type"`
	Situation string `json:"situation"`
	Style     string `json:"style,omitempty"`
	Risk      string `json:"risk,omitempty"`
	Detail    string `json:"detail,omitempty"`
	// Personalization is the player's recommendation; nil means unknown.
	Personalization *core.Recommendation `json:"personalization,omitempty"`
}

// Result is the generated strategy text and where it came from.
type Result struct {
	Text     string `json:"text"`
	Source   Source `json:"source"`
	Provider string `json:"provider"`
}

// Generator produces strategy text for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (Result, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req Request) (Result, error)

// Generate implements Generator.
func (f GeneratorFunc) Generate(ctx context.Context, req Request) (Result, error) {
	return f(ctx, req)
}

// cacheKey identifies a request by its full content.
func (r Request) cacheKey() string {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Sprintf("%#v", r)
	}
	return string(b)
}

// PersonalizationNotes renders the player-history bullet points shown with a
// strategy. A missing or cold-start recommendation yields a single
// "learning" note.
func PersonalizationNotes(rec *core.Recommendation) []string {
	if rec == nil || rec.ColdStart || rec.Confidence == core.ConfidenceLow {
		return []string{"Learning your preferences (more data needed for personalization)"}
	}
	rate := rec.SuccessRate
	if rate == "" {
		rate = "Calculating..."
	}
	notes := []string{
		"Personalized based on your historical preferences",
		fmt.Sprintf("%s confidence level", util.Title(rec.Confidence)),
		fmt.Sprintf("Your success rate: %s", rate),
	}
	if len(rec.ProvenTactics) > 0 {
		tactics := rec.ProvenTactics
		if len(tactics) > 2 {
			tactics = tactics[:2]
		}
		notes = append(notes, "Leveraging your proven tactics: "+strings.Join(tactics, ", "))
	}
	return notes
}
