package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/dgnsrekt/polyglot/internal/history"
)

func testEntries() []history.Entry {
	return []history.Entry{
		{ID: "b", SourceText: "Good **morning**", TranslatedText: "Buenos días", SourceLang: "en", TargetLang: "es", Timestamp: 1700000060000},
		{ID: "a", SourceText: "Hello", TranslatedText: "Hola", SourceLang: "auto", TargetLang: "es", Timestamp: 1700000000000},
	}
}

func TestNewExporter(t *testing.T) {
	tests := []struct {
		format  string
		ext     string
		wantErr bool
	}{
		{"json", "json", false},
		{"yaml", "yaml", false},
		{"yml", "yaml", false},
		{"md", "md", false},
		{"markdown", "md", false},
		{"csv", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			e, err := NewExporter(tt.format, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewExporter(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
			if err == nil && e.Extension() != tt.ext {
				t.Errorf("Extension() = %q, want %q", e.Extension(), tt.ext)
			}
		})
	}
}

func TestJSONExporter_Export(t *testing.T) {
	tests := []struct {
		name    string
		entries []history.Entry
		want    int
	}{
		{"entries", testEntries(), 2},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := (&JSONExporter{}).Export(tt.entries, &buf); err != nil {
				t.Fatalf("Export() error: %v", err)
			}

			var decoded []history.Entry
			if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
				t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
			}
			if len(decoded) != tt.want {
				t.Errorf("expected %d entries, got %d", tt.want, len(decoded))
			}
			if tt.want > 0 && !strings.Contains(buf.String(), `"sourceText"`) {
				t.Error("expected persisted field names in output")
			}
		})
	}
}

func TestYAMLExporter_Export(t *testing.T) {
	var buf bytes.Buffer
	if err := (&YAMLExporter{}).Export(testEntries(), &buf); err != nil {
		t.Fatalf("Export() error: %v", err)
	}

	var decoded []history.Entry
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if len(decoded) != 2 || decoded[1].TranslatedText != "Hola" {
		t.Errorf("unexpected decoded entries: %+v", decoded)
	}
	if !strings.Contains(buf.String(), "source_text:") {
		t.Errorf("expected snake_case keys, got:\n%s", buf.String())
	}
}

func TestMarkdownExporter_Export(t *testing.T) {
	names := map[string]string{"en": "English", "es": "Spanish", "auto": "Auto-detect"}
	e := &MarkdownExporter{Names: func(code string) string { return names[code] }}

	var buf bytes.Buffer
	if err := e.Export(testEntries(), &buf); err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Translation history",
		"**Entries:** 2",
		"## English → Spanish",
		"## Auto-detect → Spanish",
		"> Good \\*\\*morning\\*\\*",
		"Hola",
		"2023-11-14T22:13:20Z",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "---") != 1 {
		t.Errorf("expected one separator between two entries, got %d", strings.Count(out, "---"))
	}
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bold", "a **b**", "a \\*\\*b\\*\\*"},
		{"underline", "__x__", "\\_\\_x\\_\\_"},
		{"code block untouched", "```\n**x**\n```", "```\n**x**\n```"},
		{"plain", "hola", "hola"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeMarkdown(tt.in); got != tt.want {
				t.Errorf("escapeMarkdown(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
