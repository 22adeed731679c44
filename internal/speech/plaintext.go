package speech

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Speakable strips emphasis, heading and list markers that the translation
// may have carried over, so the voice reads words rather than markup. Every
// line of content is kept: code blocks are read as plain lines and HTML is
// passed through. Only link destinations are left out. When nothing remains
// the trimmed input is returned.
func Speakable(markdown string) string {
	reader := text.NewReader([]byte(markdown))
	doc := goldmark.New().Parser().Parse(reader)

	var buf strings.Builder
	walk(doc, reader.Source(), &buf)

	out := strings.TrimSpace(buf.String())
	if out == "" {
		return strings.TrimSpace(markdown)
	}
	return out
}

func walk(node ast.Node, source []byte, buf *strings.Builder) {
	switch n := node.(type) {
	case *ast.CodeBlock, *ast.FencedCodeBlock:
		writeLines(n.Lines(), source, buf)
		return

	case *ast.HTMLBlock:
		writeLines(n.Lines(), source, buf)
		if n.HasClosure() {
			closure := text.NewSegments()
			closure.Append(n.ClosureLine)
			writeLines(closure, source, buf)
		}
		return

	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			buf.Write(seg.Value(source))
		}
		return

	case *ast.AutoLink:
		buf.Write(n.Label(source))
		return

	case *ast.Text:
		buf.Write(n.Segment.Value(source))
		if n.SoftLineBreak() || n.HardLineBreak() {
			buf.WriteByte(' ')
		}
		return

	case *ast.String:
		buf.Write(n.Value)
		return

	case *ast.Image:
		// alt text only
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			walk(c, source, buf)
		}
		return

	case *ast.Heading, *ast.Paragraph, *ast.ListItem:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			walk(c, source, buf)
		}
		buf.WriteByte('\n')
		return

	case *ast.ThematicBreak:
		buf.WriteByte('\n')
		return
	}

	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		walk(c, source, buf)
	}
}

func writeLines(lines *text.Segments, source []byte, buf *strings.Builder) {
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.WriteString(strings.TrimRight(string(seg.Value(source)), "\r\n"))
		buf.WriteByte('\n')
	}
}
