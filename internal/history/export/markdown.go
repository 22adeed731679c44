package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dgnsrekt/polyglot/internal/history"
)

// MarkdownExporter exports history as a Markdown document, one section per
// entry.
type MarkdownExporter struct {
	Names NameFunc
}

func (e *MarkdownExporter) Export(entries []history.Entry, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "# Translation history\n\n**Entries:** %d\n\n", len(entries)); err != nil {
		return err
	}

	for i, entry := range entries {
		_, _ = fmt.Fprintf(w, "## %s → %s\n\n", e.name(entry.SourceLang), e.name(entry.TargetLang))
		_, _ = fmt.Fprintf(w, "*%s*\n\n", entry.Time().UTC().Format(time.RFC3339))
		_, _ = fmt.Fprintf(w, "%s\n\n", quote(entry.SourceText))
		_, _ = fmt.Fprintf(w, "%s\n\n", escapeMarkdown(entry.TranslatedText))

		if i < len(entries)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}
	return nil
}

func (e *MarkdownExporter) name(code string) string {
	if e.Names == nil {
		return code
	}
	return e.Names(code)
}

func quote(text string) string {
	lines := strings.Split(escapeMarkdown(text), "\n")
	for i, l := range lines {
		lines[i] = "> " + l
	}
	return strings.Join(lines, "\n")
}

// escapeMarkdown escapes emphasis markers outside code blocks.
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	inCodeBlock := false

	for i, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			continue
		}
		if inCodeBlock {
			continue
		}
		line = strings.ReplaceAll(line, "**", "\\*\\*")
		line = strings.ReplaceAll(line, "__", "\\_\\_")
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

func (e *MarkdownExporter) Extension() string {
	return "md"
}
