// Package export writes translation history in shareable formats.
package export

import (
	"fmt"
	"io"

	"github.com/dgnsrekt/polyglot/internal/history"
)

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(entries []history.Entry, w io.Writer) error
	Extension() string
}

// NameFunc resolves a language code to a display name.
type NameFunc func(code string) string

// NewExporter creates a new exporter based on format
func NewExporter(format string, names NameFunc) (Exporter, error) {
	switch format {
	case "md", "markdown":
		return &MarkdownExporter{Names: names}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: json, yaml, md)", format)
	}
}
