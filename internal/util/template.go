package util

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

var funcs = template.FuncMap{
	"default": func(defaultVal any, val any) any {
		if val == nil || val == "" {
			return defaultVal
		}
		return val
	},
	"join": func(sep string, items []string) string {
		return strings.Join(items, sep)
	},
	"inc":      func(i int) int { return i + 1 },
	"truncate": Truncate,
}

// ParseTemplate parses text with the shared helper funcs. Callers that render
// the same text repeatedly should parse once and keep the result.
func ParseTemplate(name, text string) (*template.Template, error) {
	return template.New(name).Funcs(funcs).Parse(text)
}

// MustParseTemplate is ParseTemplate for package-level templates.
func MustParseTemplate(name, text string) *template.Template {
	return template.Must(ParseTemplate(name, text))
}

// Execute renders tmpl into a string.
func Execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

// Title upper-cases the first letter and lower-cases the rest.
func Title(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// Truncate shortens s to at most n runes, appending "..." when cut.
func Truncate(n int, s string) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
