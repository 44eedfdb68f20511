package advisor

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/meghna-1234/game-strategy-ai/internal/util"
)

const (
	tipsPerReport     = 3
	minAssessedChance = 65
	maxAssessedChance = 92
)

var (
	assessedRisks        = []string{"Low", "Medium", "High"}
	assessedDifficulties = []string{"Easy", "Medium", "Hard"}
)

var reportTemplate = util.MustParseTemplate("report", `AI Strategy Report

Game: {{.GameType}}
Situation: {{truncate 200 .Situation}}
Approach: {{default "Balanced" .Style}} ({{default "Moderate" .Risk}} risk){{if .Detail}}, {{.Detail}} detail{{end}}
{{- if .PrimaryTactic}}
Primary tactic: {{.PrimaryTactic}}
{{- end}}

Recommendations:
{{range $i, $tip := .Tips}}{{inc $i}}. {{$tip}}
{{end}}
Assessment:
- Success: {{.Chance}}%
- Risk: {{.AssessedRisk}}
- Difficulty: {{.Difficulty}}

Personal insights:
{{range .Notes}}- {{.}}
{{end}}`)

type reportData struct {
	Request
	PrimaryTactic string
	Tips          []string
	Chance        int
	AssessedRisk  string
	Difficulty    string
	Notes         []string
}

// RuleBasedOptions configures a RuleBased generator.
type RuleBasedOptions struct {
	// Catalog supplies the tips (defaults to the embedded catalog).
	Catalog *Catalog
	// Rand drives tip selection and the assessment (defaults to a time seed).
	Rand *rand.Rand
	// Template overrides the report layout.
	Template *template.Template
}

// RuleBased renders a report from canned tips. It is the last tier and never
// fails for a well-formed catalog.
type RuleBased struct {
	opts RuleBasedOptions

	mu sync.Mutex // guards opts.Rand
}

var _ Generator = (*RuleBased)(nil)

// NewRuleBased creates the fallback generator.
func NewRuleBased(optFns ...func(o *RuleBasedOptions)) (*RuleBased, error) {
	opts := RuleBasedOptions{Template: reportTemplate}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Catalog == nil {
		c, err := LoadCatalog("")
		if err != nil {
			return nil, err
		}
		opts.Catalog = c
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano())) // nolint:gosec
	}
	if opts.Template == nil {
		opts.Template = reportTemplate
	}
	return &RuleBased{opts: opts}, nil
}

// Generate implements Generator.
func (g *RuleBased) Generate(_ context.Context, req Request) (Result, error) {
	game := g.opts.Catalog.Lookup(req.GameType)

	data := reportData{Request: req, Notes: PersonalizationNotes(req.Personalization)}
	if strings.EqualFold(req.Style, "aggressive") {
		data.PrimaryTactic = game.Aggressive
	} else {
		data.PrimaryTactic = game.Cautious
	}

	g.mu.Lock()
	data.Tips = sample(g.opts.Rand, game.Tips, tipsPerReport)
	data.Chance = minAssessedChance + g.opts.Rand.Intn(maxAssessedChance-minAssessedChance+1)
	data.AssessedRisk = assessedRisks[g.opts.Rand.Intn(len(assessedRisks))]
	data.Difficulty = assessedDifficulties[g.opts.Rand.Intn(len(assessedDifficulties))]
	g.mu.Unlock()

	text, err := util.Execute(g.opts.Template, data)
	if err != nil {
		return Result{}, err
	}
	return Result{Text: strings.TrimSpace(text), Source: SourceFallback, Provider: "rules"}, nil
}

// sample picks up to n distinct items in random order.
func sample(r *rand.Rand, items []string, n int) []string {
	if n > len(items) {
		n = len(items)
	}
	out := make([]string, 0, n)
	for _, i := range r.Perm(len(items))[:n] {
		out = append(out, items[i])
	}
	return out
}
