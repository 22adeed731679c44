package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/truncate"

	"github.com/dgnsrekt/polyglot/internal/lang"
)

const pickerMatchRows = 6

// pickerModel selects one language. Left/right cycles through the options;
// "/" opens a fuzzy search.
type pickerModel struct {
	title    string
	options  []lang.Language
	selected int

	filtering bool
	filter    textinput.Model
	matches   []lang.Language
	cursor    int

	keys keyMap
}

func newPicker(title string, options []lang.Language, code string, keys keyMap) pickerModel {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search languages"
	ti.CharLimit = 32

	p := pickerModel{title: title, options: options, filter: ti, keys: keys}
	p.selectCode(code)
	return p
}

// Selected returns the chosen language.
func (p pickerModel) Selected() lang.Language {
	if len(p.options) == 0 {
		return lang.Language{}
	}
	return p.options[p.selected]
}

// selectCode moves the selection to code. It reports whether code is one
// of the options.
func (p *pickerModel) selectCode(code string) bool {
	for i, l := range p.options {
		if l.Code == code {
			p.selected = i
			return true
		}
	}
	return false
}

// update handles a key while the picker has focus. changed reports whether
// the selection moved.
func (p pickerModel) update(msg tea.KeyMsg) (pickerModel, bool, tea.Cmd) {
	if len(p.options) == 0 {
		return p, false, nil
	}

	if p.filtering {
		return p.updateFilter(msg)
	}

	switch {
	case key.Matches(msg, p.keys.Prev):
		p.selected = (p.selected - 1 + len(p.options)) % len(p.options)
		return p, true, nil
	case key.Matches(msg, p.keys.Next):
		p.selected = (p.selected + 1) % len(p.options)
		return p, true, nil
	case key.Matches(msg, p.keys.Search):
		p.filtering = true
		p.filter.SetValue("")
		p.matches = p.options
		p.cursor = 0
		return p, false, p.filter.Focus()
	}
	return p, false, nil
}

func (p pickerModel) updateFilter(msg tea.KeyMsg) (pickerModel, bool, tea.Cmd) {
	switch {
	case key.Matches(msg, p.keys.Cancel):
		p.stopFiltering()
		return p, false, nil
	case key.Matches(msg, p.keys.Accept):
		changed := false
		if len(p.matches) > 0 {
			prev := p.Selected().Code
			p.selectCode(p.matches[p.cursor].Code)
			changed = p.Selected().Code != prev
		}
		p.stopFiltering()
		return p, changed, nil
	case msg.Type == tea.KeyUp:
		if p.cursor > 0 {
			p.cursor--
		}
		return p, false, nil
	case msg.Type == tea.KeyDown:
		if p.cursor < len(p.matches)-1 {
			p.cursor++
		}
		return p, false, nil
	}

	var cmd tea.Cmd
	p.filter, cmd = p.filter.Update(msg)
	p.matches = lang.Filter(p.options, p.filter.Value())
	if p.cursor >= len(p.matches) {
		p.cursor = max(0, len(p.matches)-1)
	}
	return p, false, cmd
}

func (p *pickerModel) stopFiltering() {
	p.filtering = false
	p.filter.Blur()
	p.matches = nil
	p.cursor = 0
}

func (p pickerModel) view(focused bool, width int) string {
	label := p.Selected().Label()
	if focused {
		label = selectedStyle("‹ " + label + " ›")
	} else {
		label = accentStyle(label)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", subtleStyle(p.title), label)
	if !p.filtering {
		return b.String()
	}

	fmt.Fprintf(&b, "\n%s", p.filter.View())
	if len(p.matches) == 0 {
		fmt.Fprintf(&b, "\n%s", dimStyle("  no matches"))
		return b.String()
	}

	start := 0
	if p.cursor >= pickerMatchRows {
		start = p.cursor - pickerMatchRows + 1
	}
	end := min(start+pickerMatchRows, len(p.matches))
	for i := start; i < end; i++ {
		row := truncate.StringWithTail(p.matches[i].Label(), uint(max(0, width-4)), ellipsis) //nolint:gosec
		if i == p.cursor {
			fmt.Fprintf(&b, "\n%s", selectedStyle("> "+row))
		} else {
			fmt.Fprintf(&b, "\n  %s", row)
		}
	}
	return b.String()
}
