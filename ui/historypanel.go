package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"

	"github.com/dgnsrekt/polyglot/internal/history"
)

const historyRowHeight = 3

// historyModel lists recent translations, newest first.
type historyModel struct {
	entries []history.Entry
	cursor  int
	offset  int
	names   func(code string) string
	now     func() time.Time
	keys    keyMap
}

type historyAction int

const (
	historyNone historyAction = iota
	historyDelete
	historyClear
)

func newHistoryModel(names func(string) string, keys keyMap) historyModel {
	return historyModel{names: names, now: time.Now, keys: keys}
}

func (h *historyModel) setEntries(entries []history.Entry) {
	h.entries = entries
	if h.cursor >= len(entries) {
		h.cursor = max(0, len(entries)-1)
	}
	if h.offset > h.cursor {
		h.offset = h.cursor
	}
}

func (h historyModel) selected() (history.Entry, bool) {
	if len(h.entries) == 0 {
		return history.Entry{}, false
	}
	return h.entries[h.cursor], true
}

// update moves the cursor or reports the action the key asks for.
func (h historyModel) update(msg tea.KeyMsg, rows int) (historyModel, historyAction) {
	switch {
	case key.Matches(msg, h.keys.Up):
		if h.cursor > 0 {
			h.cursor--
		}
	case key.Matches(msg, h.keys.Down):
		if h.cursor < len(h.entries)-1 {
			h.cursor++
		}
	case key.Matches(msg, h.keys.Delete):
		if len(h.entries) > 0 {
			return h, historyDelete
		}
	case key.Matches(msg, h.keys.Clear):
		if len(h.entries) > 0 {
			return h, historyClear
		}
	}

	rows = max(1, rows)
	if h.cursor < h.offset {
		h.offset = h.cursor
	}
	if h.cursor >= h.offset+rows {
		h.offset = h.cursor - rows + 1
	}
	return h, historyNone
}

func (h historyModel) view(focused bool, width, height int) string {
	var b strings.Builder
	title := accentStyle("Recent Activity")
	if len(h.entries) > 0 {
		title += subtleStyle(fmt.Sprintf("  %d saved", len(h.entries)))
	}
	b.WriteString(title)

	if len(h.entries) == 0 {
		fmt.Fprintf(&b, "\n\n%s", dimStyle("No recent translations yet."))
		return b.String()
	}

	rows := max(1, (height-1)/historyRowHeight)
	end := min(h.offset+rows, len(h.entries))
	half := uint(max(0, (width-3)/2)) //nolint:gosec

	for i := h.offset; i < end; i++ {
		e := h.entries[i]
		header := fmt.Sprintf("%s ↔ %s", h.names(e.SourceLang), h.names(e.TargetLang))
		when := humanize.RelTime(e.Time(), h.now(), "ago", "from now")

		src := truncate.StringWithTail(oneLine(e.SourceText), half, ellipsis)
		dst := truncate.StringWithTail(oneLine(e.TranslatedText), half, ellipsis)

		marker := "  "
		if focused && i == h.cursor {
			marker = selectedStyle("> ")
			header = selectedStyle(header)
		} else {
			header = subtleStyle(header)
		}
		fmt.Fprintf(&b, "\n%s%s %s", marker, header, dimStyle("· "+when))
		fmt.Fprintf(&b, "\n  %s %s %s\n", dimStyle(src), subtleStyle("→"), accentStyle(dst))
	}
	return strings.TrimRight(b.String(), "\n")
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
