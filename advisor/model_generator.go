package advisor

import (
	"context"
	"fmt"

	"github.com/meghna-1234/game-strategy-ai/internal/util"
	"github.com/meghna-1234/game-strategy-ai/model"
)

// DefaultInstructions is the system prompt sent to model-backed tiers.
const DefaultInstructions = "Act as a professional gaming strategist. Provide specific, actionable advice " +
	"for the situation described. Do not invent rules that the game does not have."

var promptTemplate = util.MustParseTemplate("prompt", `GAME: {{.GameType}}
SITUATION: {{.Situation}}
PREFERRED STYLE: {{default "Balanced" .Style}}
RISK TOLERANCE: {{default "Moderate" .Risk}}
DETAIL LEVEL: {{default "Standard" .Detail}}
{{- with .Personalization}}{{if not .ColdStart}}
PLAYER HISTORY: usually succeeds with a {{.Style}} style at {{.RiskLevel}} risk ({{.SuccessRate}} success, {{.Confidence}} confidence)
{{- if .ProvenTactics}}; proven tactics: {{join ", " .ProvenTactics}}{{end}}
{{- end}}{{end}}

Respond in this format:
IMMEDIATE ACTIONS:
1. [Action 1]
2. [Action 2]
3. [Action 3]

AVOID:
- [What to avoid]

RESOURCES:
- [Resource tips]

SUCCESS: [X%] - [Reason]`)

// ModelGenerator adapts a model.Model into a Generator.
type ModelGenerator struct {
	model        model.Model
	source       Source
	instructions string
}

var _ Generator = (*ModelGenerator)(nil)

// NewModelGenerator wraps m; source labels results from this tier.
func NewModelGenerator(m model.Model, source Source) *ModelGenerator {
	return &ModelGenerator{model: m, source: source, instructions: DefaultInstructions}
}

// Name identifies the wrapped model.
func (g *ModelGenerator) Name() string { return g.model.Info().String() }

// Prompt renders the user prompt for req.
func Prompt(req Request) (string, error) {
	return util.Execute(promptTemplate, req)
}

// Generate implements Generator.
func (g *ModelGenerator) Generate(ctx context.Context, req Request) (Result, error) {
	prompt, err := Prompt(req)
	if err != nil {
		return Result{}, err
	}
	resp, err := g.model.Generate(ctx, model.Request{Instructions: g.instructions, Prompt: prompt})
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", g.Name(), err)
	}
	return Result{Text: resp.Text, Source: g.source, Provider: g.model.Info().Provider}, nil
}
