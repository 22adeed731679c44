package export

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dgnsrekt/polyglot/internal/history"
)

// YAMLExporter exports history in YAML format
type YAMLExporter struct{}

func (e *YAMLExporter) Export(entries []history.Entry, w io.Writer) error {
	if entries == nil {
		entries = []history.Entry{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	return enc.Encode(entries)
}

func (e *YAMLExporter) Extension() string {
	return "yaml"
}
