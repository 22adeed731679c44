// Package ui is the interactive translator: a source editor, a streamed
// translation pane, language pickers, and the history list.
package ui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/reflow/wordwrap"
	te "github.com/muesli/termenv"

	"github.com/dgnsrekt/polyglot/internal/audio"
	"github.com/dgnsrekt/polyglot/internal/history"
	"github.com/dgnsrekt/polyglot/internal/lang"
	"github.com/dgnsrekt/polyglot/internal/speech"
	"github.com/dgnsrekt/polyglot/internal/translate"
)

// MaxInputLength is the most characters the editor accepts.
const MaxInputLength = 5000

const (
	ellipsis          = "…"
	outputPlaceholder = "Translation will appear here..."
	inputPlaceholder  = "What would you like to translate?"
)

var (
	statusMessageTimeout = 3 * time.Second // how long to show status messages like "voice: Puck"
	copyResetDelay       = 2 * time.Second
)

// Services are the collaborators the UI drives.
type Services struct {
	Translator translate.Streamer
	Speech     *speech.Client // nil disables speech
	History    *history.Store
	Catalog    *lang.Catalog
}

// NewProgram returns a new Tea program.
func NewProgram(ctx context.Context, cfg Config, svc Services) *tea.Program {
	log.Debug("starting polyglot", "source", cfg.Source, "target", cfg.Target, "voice", cfg.Voice)

	lipgloss.SetHasDarkBackground(te.HasDarkBackground())
	if cfg.HighContrast {
		applyHighContrast()
	}

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if cfg.EnableMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	return tea.NewProgram(newModel(ctx, cfg, svc), opts...)
}

type (
	debounceMsg    struct{ gen uint64 }
	streamEventMsg struct {
		ev translate.Event
		ch <-chan translate.Event
	}
	speechStartedMsg struct {
		handle audio.Handle
		err    error
	}
	speechFinishedMsg       struct{}
	copiedMsg               struct{ err error }
	copyResetMsg            struct{ seq int }
	statusMessageTimeoutMsg struct{}
)

// focus is the area receiving keys.
type focus int

const (
	focusInput focus = iota
	focusSource
	focusTarget
	focusHistory
)

func (f focus) String() string {
	return [...]string{"input", "source", "target", "history"}[f]
}

// Common stuff we'll need to access in all models.
type commonModel struct {
	width  int
	height int
}

type model struct {
	common *commonModel
	ctx    context.Context
	svc    Services
	ctrl   *translate.Controller
	keys   keyMap

	input   textarea.Model
	output  viewport.Model
	spinner spinner.Model
	help    help.Model
	source  pickerModel
	target  pickerModel
	history historyModel

	focus       focus
	showHistory bool
	voice       string

	speaking bool
	playback audio.Handle

	copied  bool
	copySeq int

	statusMessage      string
	statusIsError      bool
	statusMessageTimer *time.Timer

	watcher *historyWatcher
}

func newModel(ctx context.Context, cfg Config, svc Services) model {
	if svc.Catalog == nil {
		svc.Catalog = lang.Default()
	}
	if cfg.Source == "" {
		cfg.Source = lang.Auto
	}
	if cfg.Target == "" {
		cfg.Target = "es"
	}
	if cfg.Voice == "" {
		cfg.Voice = lang.DefaultVoice
	}

	keys := newKeyMap()

	ta := textarea.New()
	ta.Placeholder = inputPlaceholder
	ta.CharLimit = MaxInputLength
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(indigo)

	var recorder translate.Recorder
	if svc.History != nil {
		recorder = svc.History
	}

	common := &commonModel{}
	m := model{
		common:  common,
		ctx:     ctx,
		svc:     svc,
		ctrl:    translate.NewController(recorder, cfg.Source, cfg.Target, translate.WithDebounce(cfg.Debounce)),
		keys:    keys,
		input:   ta,
		output:  viewport.New(0, 0),
		spinner: sp,
		help:    help.New(),
		source:  newPicker("From", svc.Catalog.Sources(), cfg.Source, keys),
		target:  newPicker("To", svc.Catalog.Targets(), cfg.Target, keys),
		history: newHistoryModel(svc.Catalog.Name, keys),
		voice:   cfg.Voice,
	}
	if svc.History != nil {
		m.history.setEntries(svc.History.Entries())
		m.watcher = newHistoryWatcher(cfg.HistoryPath)
	}
	m.refreshOutput()
	return m
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink}
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.wait)
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	// Window size is received when starting up and on every resize
	case tea.WindowSizeMsg:
		m.common.width = msg.Width
		m.common.height = msg.Height
		m.setSize()

	case debounceMsg:
		attempt, ok := m.ctrl.Fire(msg.gen)
		if !ok {
			return m, nil
		}
		m.refreshOutput()
		ch := translate.Stream(m.ctx, m.svc.Translator, attempt)
		return m, tea.Batch(waitForStreamEvent(ch), m.spinner.Tick)

	case streamEventMsg:
		if msg.ev.Done {
			if entry, _ := m.ctrl.Finish(msg.ev.Gen, msg.ev.Err); entry != nil && m.svc.History != nil {
				m.history.setEntries(m.svc.History.Entries())
			}
			m.refreshOutput()
			return m, nil
		}
		if m.ctrl.Fragment(msg.ev.Gen, msg.ev.Fragment) {
			m.refreshOutput()
		}
		return m, waitForStreamEvent(msg.ch)

	case speechStartedMsg:
		if msg.err != nil {
			log.Error("speech failed", "error", msg.err)
			m.speaking = false
			return m, nil
		}
		m.playback = msg.handle
		return m, waitForPlayback(msg.handle)

	case speechFinishedMsg:
		m.speaking = false
		m.playback = nil

	case copiedMsg:
		if msg.err != nil {
			log.Error("copy failed", "error", msg.err)
			return m, m.showStatusMessage("Copy failed: "+msg.err.Error(), true)
		}
		m.copied = true
		m.copySeq++
		seq := m.copySeq
		return m, tea.Tick(copyResetDelay, func(time.Time) tea.Msg { return copyResetMsg{seq} })

	case copyResetMsg:
		if msg.seq == m.copySeq {
			m.copied = false
		}

	case statusMessageTimeoutMsg:
		m.statusMessage = ""
		m.statusIsError = false

	case historyChangedMsg:
		if m.svc.History != nil {
			m.svc.History.Reload()
			m.history.setEntries(m.svc.History.Entries())
		}
		if m.watcher != nil {
			cmds = append(cmds, m.watcher.wait)
		}

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.output, cmd = m.output.Update(msg)
		cmds = append(cmds, cmd)

	case spinner.TickMsg:
		if !m.ctrl.Translating() && !m.speaking {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	default:
		if m.focus == focusInput {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// An open search owns every key.
	if p := m.focusedPicker(); p != nil && p.filtering {
		return m.updatePicker(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.shutdown()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Focus):
		m.cycleFocus(msg.String() == "shift+tab")
		return m, nil

	case key.Matches(msg, m.keys.Swap):
		return m.swap()

	case key.Matches(msg, m.keys.Copy):
		text := m.ctrl.Translation()
		if text == "" || m.ctrl.Translating() {
			return m, nil
		}
		return m, copyCmd(text)

	case key.Matches(msg, m.keys.Speak):
		return m.speak()

	case key.Matches(msg, m.keys.Voice):
		m.voice = lang.NextVoice(m.voice)
		return m, m.showStatusMessage("Voice: "+m.voice, false)

	case key.Matches(msg, m.keys.History):
		m.showHistory = !m.showHistory
		if !m.showHistory && m.focus == focusHistory {
			m.setFocus(focusInput)
		}
		m.setSize()
		return m, nil
	}

	switch m.focus {
	case focusSource, focusTarget:
		return m.updatePicker(msg)
	case focusHistory:
		return m.updateHistory(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, tea.Batch(cmd, m.observe(m.input.Value(), m.ctrl.Source(), m.ctrl.Target()))
}

func (m model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var (
		changed bool
		cmd     tea.Cmd
	)
	if m.focus == focusSource {
		m.source, changed, cmd = m.source.update(msg)
	} else {
		m.target, changed, cmd = m.target.update(msg)
	}
	m.setSize()
	if !changed {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.observe(m.ctrl.Text(), m.source.Selected().Code, m.target.Selected().Code))
}

func (m model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.svc.History == nil {
		return m, nil
	}

	var action historyAction
	m.history, action = m.history.update(msg, m.historyRows())

	switch action {
	case historyDelete:
		e, _ := m.history.selected()
		if _, err := m.svc.History.RemoveByID(e.ID); err != nil {
			return m, m.showStatusMessage("Could not save history", true)
		}
		m.history.setEntries(m.svc.History.Entries())
	case historyClear:
		if err := m.svc.History.Clear(); err != nil {
			return m, m.showStatusMessage("Could not save history", true)
		}
		m.history.setEntries(nil)
		return m, m.showStatusMessage("History cleared", false)
	}
	return m, nil
}

// observe hands the current selections to the controller and schedules
// the debounced attempt when one is due.
func (m *model) observe(text, source, target string) tea.Cmd {
	ticket, ok := m.ctrl.Update(text, source, target)
	m.refreshOutput()
	if !ok {
		return nil
	}
	return tea.Tick(ticket.Delay, func(time.Time) tea.Msg {
		return debounceMsg{gen: ticket.Gen}
	})
}

func (m model) swap() (tea.Model, tea.Cmd) {
	if !m.ctrl.CanSwap() {
		return m, nil
	}
	ticket, ok := m.ctrl.Swap()
	m.input.SetValue(m.ctrl.Text())
	// The editor clamps to its limit; translate what it actually holds.
	if v := m.input.Value(); v != m.ctrl.Text() {
		ticket, ok = m.ctrl.SetText(v)
	}
	m.source.selectCode(m.ctrl.Source())
	m.target.selectCode(m.ctrl.Target())
	m.refreshOutput()
	if !ok {
		return m, nil
	}
	return m, tea.Tick(ticket.Delay, func(time.Time) tea.Msg {
		return debounceMsg{gen: ticket.Gen}
	})
}

func (m model) speak() (tea.Model, tea.Cmd) {
	text := m.ctrl.Translation()
	if text == "" || m.speaking || m.svc.Speech == nil || m.ctrl.Translating() {
		return m, nil
	}
	m.speaking = true
	return m, tea.Batch(speakCmd(m.ctx, m.svc.Speech, text, m.voice), m.spinner.Tick)
}

func (m *model) shutdown() {
	if m.playback != nil {
		_ = m.playback.Stop()
	}
	if m.statusMessageTimer != nil {
		m.statusMessageTimer.Stop()
	}
	if m.watcher != nil {
		m.watcher.close()
	}
}

func (m *model) focusedPicker() *pickerModel {
	switch m.focus {
	case focusSource:
		return &m.source
	case focusTarget:
		return &m.target
	default:
		return nil
	}
}

func (m *model) cycleFocus(reverse bool) {
	order := []focus{focusInput, focusSource, focusTarget}
	if m.showHistory {
		order = append(order, focusHistory)
	}
	i := 0
	for j, f := range order {
		if f == m.focus {
			i = j
		}
	}
	if reverse {
		i = (i - 1 + len(order)) % len(order)
	} else {
		i = (i + 1) % len(order)
	}
	m.setFocus(order[i])
}

func (m *model) setFocus(f focus) {
	m.focus = f
	if f == focusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *model) showStatusMessage(msg string, isError bool) tea.Cmd {
	m.statusMessage = msg
	m.statusIsError = isError
	if m.statusMessageTimer != nil {
		m.statusMessageTimer.Stop()
	}
	m.statusMessageTimer = time.NewTimer(statusMessageTimeout)
	return waitForStatusMessageTimeout(m.statusMessageTimer)
}

// refreshOutput renders the controller's translation into the viewport.
func (m *model) refreshOutput() {
	text := m.ctrl.Translation()
	width := max(1, m.output.Width)

	switch {
	case text == "" && m.ctrl.Translating():
		m.output.SetContent("")
	case text == "":
		m.output.SetContent(placeholderStyle(outputPlaceholder))
	case m.ctrl.State() == translate.StateFailed:
		m.output.SetContent(errorStyle(wordwrap.String(text, width)))
	default:
		m.output.SetContent(wordwrap.String(text, width))
		m.output.GotoBottom()
	}
}

// COMMANDS

func waitForStreamEvent(ch <-chan translate.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return streamEventMsg{ev: ev, ch: ch}
	}
}

func speakCmd(ctx context.Context, c *speech.Client, text, voice string) tea.Cmd {
	return func() tea.Msg {
		h, err := c.Speak(ctx, text, voice)
		return speechStartedMsg{handle: h, err: err}
	}
}

func waitForPlayback(h audio.Handle) tea.Cmd {
	return func() tea.Msg {
		<-h.Done()
		return speechFinishedMsg{}
	}
}

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: clipboard.WriteAll(text)}
	}
}

func waitForStatusMessageTimeout(t *time.Timer) tea.Cmd {
	return func() tea.Msg {
		<-t.C
		return statusMessageTimeoutMsg{}
	}
}
