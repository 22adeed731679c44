package export

import (
	"encoding/json"
	"io"

	"github.com/dgnsrekt/polyglot/internal/history"
)

// JSONExporter writes the history as a pretty-printed JSON array, in the
// same shape the store persists.
type JSONExporter struct{}

func (e *JSONExporter) Export(entries []history.Entry, w io.Writer) error {
	if entries == nil {
		entries = []history.Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

func (e *JSONExporter) Extension() string {
	return "json"
}
