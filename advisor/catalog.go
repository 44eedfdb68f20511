package advisor

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed tips.yaml
var defaultCatalogYAML []byte

const defaultGame = "default"

// GameTips holds the canned advice for one game.
type GameTips struct {
	// Aggressive and Cautious are the primary tactic offered for aggressive
	// and non-aggressive styles. Both are optional.
	Aggressive string   `yaml:"aggressive,omitempty"`
	Cautious   string   `yaml:"cautious,omitempty"`
	Tips       []string `yaml:"tips"`
}

// Catalog maps lower-case game names to tips.
type Catalog struct {
	Games map[string]GameTips `yaml:"games"`
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse tips catalog: %w", err)
	}
	normalized := make(map[string]GameTips, len(c.Games))
	for name, tips := range c.Games {
		normalized[strings.ToLower(strings.TrimSpace(name))] = tips
	}
	c.Games = normalized
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadCatalog reads a catalog file. An empty path returns the embedded
// catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return ParseCatalog(defaultCatalogYAML)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tips catalog: %w", err)
	}
	return ParseCatalog(data)
}

// Validate requires a non-empty default bucket.
func (c *Catalog) Validate() error {
	def, ok := c.Games[defaultGame]
	if !ok || len(def.Tips) == 0 {
		return errors.New("tips catalog: a non-empty \"default\" game is required")
	}
	return nil
}

// Lookup returns the tips for a game, case-insensitively, falling back to the
// default bucket.
func (c *Catalog) Lookup(game string) GameTips {
	if tips, ok := c.Games[strings.ToLower(strings.TrimSpace(game))]; ok && len(tips.Tips) > 0 {
		return tips
	}
	return c.Games[defaultGame]
}
