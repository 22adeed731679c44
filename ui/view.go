package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/dgnsrekt/polyglot/internal/history"
	"github.com/dgnsrekt/polyglot/internal/translate"
)

const (
	// Panels sit side by side from this width on; below it they stack.
	sideBySideWidth = 80

	panelFrameWidth  = 4 // border + padding
	panelFrameHeight = 2
	footerHeight     = 2 // status bar + help
	maxHistoryHeight = 14
)

func (m *model) setSize() {
	w, h := m.common.width, m.common.height
	if w == 0 || h == 0 {
		return
	}
	m.help.Width = w

	historyHeight := 0
	if m.showHistory {
		historyHeight = min(maxHistoryHeight, h/3) + panelFrameHeight
	}
	body := max(0, h-lipgloss.Height(m.headerView())-footerHeight-historyHeight)

	panelW, panelH := w/2, body
	if w < sideBySideWidth {
		panelW, panelH = w, body/2
	}

	// One line inside each panel is reserved for its footer.
	innerW := max(1, panelW-panelFrameWidth)
	innerH := max(1, panelH-panelFrameHeight-1)

	m.input.SetWidth(innerW)
	m.input.SetHeight(innerH)
	m.output.Width = innerW
	m.output.Height = innerH
	m.refreshOutput()
}

func (m model) historyHeight() int {
	return min(maxHistoryHeight, m.common.height/3)
}

func (m model) historyRows() int {
	return max(1, (m.historyHeight()-1)/historyRowHeight)
}

func (m model) View() string {
	if m.common.width == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintln(&b, m.headerView())

	input := m.panel(m.focus == focusInput, m.input.View(), m.inputFooter())
	output := m.panel(false, m.output.View(), m.outputFooter())
	if m.common.width < sideBySideWidth {
		fmt.Fprintln(&b, lipgloss.JoinVertical(lipgloss.Left, input, output))
	} else {
		fmt.Fprintln(&b, lipgloss.JoinHorizontal(lipgloss.Top, input, output))
	}

	if m.showHistory {
		style := panelStyle
		if m.focus == focusHistory {
			style = focusedPanelStyle
		}
		inner := m.common.width - panelFrameWidth
		view := m.history.view(m.focus == focusHistory, inner, m.historyHeight())
		fmt.Fprintln(&b, style.Width(inner+2).Height(m.historyHeight()).Render(view))
	}

	m.statusBarView(&b)
	fmt.Fprint(&b, "\n"+m.help.View(keyHelp{keys: m.keys, focus: m.focus}))

	return b.String()
}

func (m model) headerView() string {
	width := m.common.width / 3
	src := m.source.view(m.focus == focusSource, width)
	dst := m.target.view(m.focus == focusTarget, width)

	arrow := subtleStyle(" ⇄ ")
	if !m.ctrl.CanSwap() {
		arrow = dimStyle(" → ")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, logoView(), " ", src, arrow, dst)
}

func (m model) panel(focused bool, content, footer string) string {
	style := panelStyle
	if focused {
		style = focusedPanelStyle
	}
	// Width covers the horizontal padding but not the border.
	return style.Width(m.output.Width + 2).Render(content + "\n" + footer)
}

func (m model) inputFooter() string {
	count := utf8.RuneCountInString(m.input.Value())
	s := fmt.Sprintf("%d/%d", count, MaxInputLength)
	if count >= MaxInputLength {
		return errorStyle(s)
	}
	return dimStyle(s)
}

func (m model) outputFooter() string {
	switch {
	case m.ctrl.Translating():
		return m.spinner.View() + subtleStyle(" Translating")
	case m.speaking:
		return m.spinner.View() + subtleStyle(" Speaking ("+m.voice+")")
	case m.copied:
		return okStyle("✓ Copied")
	case m.ctrl.State() == translate.StateDone && m.ctrl.Translation() != "":
		return dimStyle(fmt.Sprintf("%d characters", utf8.RuneCountInString(m.ctrl.Translation())))
	}
	return ""
}

func logoView() string {
	return logoStyle(" Polyglot ")
}

func (m model) statusBarView(b *strings.Builder) {
	showStatusMessage := m.statusMessage != ""

	logo := logoView()

	// Saved entries
	var saved string
	if m.svc.History != nil {
		saved = statusBarHelpStyle(fmt.Sprintf(" %d/%d saved ", m.svc.History.Len(), history.MaxEntries))
	}

	// Note
	note := m.statusNote()
	if showStatusMessage {
		note = m.statusMessage
	}
	note = truncate.StringWithTail(" "+note+" ", uint(max(0, //nolint:gosec
		m.common.width-
			ansi.PrintableRuneWidth(logo)-
			ansi.PrintableRuneWidth(saved),
	)), ellipsis)

	noteStyle := statusBarNoteStyle
	switch {
	case showStatusMessage && m.statusIsError:
		noteStyle = statusBarErrorStyle
	case showStatusMessage:
		noteStyle = statusBarMessageStyle
	}
	note = noteStyle(note)

	// Empty space
	padding := max(0,
		m.common.width-
			ansi.PrintableRuneWidth(logo)-
			ansi.PrintableRuneWidth(note)-
			ansi.PrintableRuneWidth(saved),
	)
	emptySpace := noteStyle(strings.Repeat(" ", padding))

	fmt.Fprintf(b, "%s%s%s%s",
		logo,
		note,
		emptySpace,
		saved,
	)
}

func (m model) statusNote() string {
	src := m.source.Selected().Name
	dst := m.target.Selected().Name
	return fmt.Sprintf("%s → %s · voice %s · %s", src, dst, m.voice, m.ctrl.State())
}
