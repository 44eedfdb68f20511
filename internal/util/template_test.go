package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute(t *testing.T) {
	tests := []struct {
		name string
		text string
		data any
		want string
	}{
		{"plain", "plain text", nil, "plain text"},
		{"default", `{{default "balanced" .style}}`, map[string]any{"style": ""}, "balanced"},
		{"truncate", `{{truncate 3 .s}}`, map[string]any{"s": "abcdef"}, "abc..."},
		{"join", `{{join ", " .tactics}}`, map[string]any{"tactics": []string{"fork", "pin"}}, "fork, pin"},
		{"inc", `{{range $i, $v := .items}}{{inc $i}}.{{$v}} {{end}}`, map[string]any{"items": []string{"a", "b"}}, "1.a 2.b "},
		{"no escaping", `{{.s}}`, map[string]any{"s": "<b>&"}, "<b>&"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := ParseTemplate(tt.name, tt.text)
			require.NoError(t, err)
			got, err := Execute(tmpl, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTemplate_Error(t *testing.T) {
	_, err := ParseTemplate("broken", "{{.broken")
	assert.Error(t, err)
}

func TestExecute_ErrorNamesTemplate(t *testing.T) {
	tmpl := MustParseTemplate("report", "{{.Missing.Field}}")
	_, err := Execute(tmpl, struct{ Missing *struct{ Field string } }{})
	assert.ErrorContains(t, err, "render report")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate(10, "short"))
	assert.Equal(t, "abc...", Truncate(3, "abcdef"))
	long := strings.Repeat("é", 250)
	assert.Equal(t, 203, len([]rune(Truncate(200, long))))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "High", Title("hIGH"))
	assert.Equal(t, "", Title(""))
}
