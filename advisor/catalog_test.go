package advisor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog_Embedded(t *testing.T) {
	c, err := LoadCatalog("")
	require.NoError(t, err)

	chess := c.Lookup("Chess")
	assert.Len(t, chess.Tips, 4)
	assert.Equal(t, "Knight to G5, putting pressure on F7", chess.Aggressive)

	assert.Equal(t, c.Games[defaultGame], c.Lookup("League of Legends"))
	assert.Equal(t, c.Games["valorant"], c.Lookup("  VALORANT "))
}

func TestLoadCatalog_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tips.yaml")
	doc := `games:
  Checkers:
    tips: [Keep your back row, Force jumps]
  default:
    tips: [Think ahead]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Keep your back row", "Force jumps"}, c.Lookup("checkers").Tips)
	assert.Equal(t, []string{"Think ahead"}, c.Lookup("chess").Tips)
}

func TestParseCatalog_Invalid(t *testing.T) {
	_, err := ParseCatalog([]byte("games:\n  chess:\n    tips: [a]\n"))
	assert.ErrorContains(t, err, "default")

	_, err = ParseCatalog([]byte("games: [not, a, map]"))
	assert.Error(t, err)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
