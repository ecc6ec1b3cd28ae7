package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/psacc/lumberjack/internal/logging"
	"github.com/psacc/lumberjack/internal/model"
	"github.com/psacc/lumberjack/internal/search"
)

const (
	frameInterval  = 50 * time.Millisecond
	statusDuration = 2 * time.Second
)

// Engine runs searches and delivers their output.
// *search.Coordinator satisfies it.
type Engine interface {
	Start(req search.Request) string
	Stop()
	Lines() <-chan model.ResultLine
	Current() string
}

// PresetStore persists named search forms.
type PresetStore interface {
	List(ctx context.Context) ([]model.Preset, error)
	Save(ctx context.Context, p model.Preset) error
	Delete(ctx context.Context, name string) (bool, error)
}

// Options configures a Model.
type Options struct {
	Engine     Engine
	ListGroups func(ctx context.Context) ([]string, error)
	Presets    PresetStore // nil disables presets
	Clipboard  func(string) error
	Title      string
	MaxLines   int
	EvictLines int
	Logger     *slog.Logger
}

type pane int

const (
	paneGroups pane = iota
	paneFilter
	paneResults
	numPanes
)

type field int

const (
	fieldStart field = iota
	fieldEnd
	fieldQuery
	fieldSearch
	numFields
)

type popup int

const (
	popupNone popup = iota
	popupSave
	popupLoad
)

type (
	frameMsg       time.Time
	clearStatusMsg struct{ seq int }
	groupsMsg      struct {
		groups []string
		err    error
	}
)

// Model is the Bubble Tea model for the log browser.
type Model struct {
	engine     Engine
	listGroups func(ctx context.Context) ([]string, error)
	presets    PresetStore
	copy       func(string) error
	logger     *slog.Logger
	title      string

	focus pane

	// groups pane
	allGroups      []string
	groups         []string // allGroups narrowed by groupInput
	groupsLoaded   bool
	groupCursor    int
	groupOffset    int
	groupInput     textinput.Model
	groupSearching bool

	// filter pane
	inputs     [fieldSearch]textinput.Model
	field      field
	editing    bool
	editBackup string

	// results pane
	results     resultBuffer
	session     string
	searching   bool
	sessionTail bool
	tail        bool

	status    string
	statusSeq int

	popup        popup
	saveInput    textinput.Model
	presetList   []model.Preset
	presetCursor int

	spinner spinner.Model
	help    help.Model
	keys    keyMap

	width    int
	height   int
	quitting bool
}

// New creates a Model. Log groups are loaded by Init.
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}
	title := opts.Title
	if title == "" {
		title = "lumberjack"
	}

	m := Model{
		engine:     opts.Engine,
		listGroups: opts.ListGroups,
		presets:    opts.Presets,
		copy:       copyFn,
		logger:     logging.NewComponentLogger(logger, "tui"),
		title:      title,
		focus:      paneGroups,
		results:    newResultBuffer(opts.MaxLines, opts.EvictLines),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:       help.New(),
		keys:       defaultKeyMap(),
		width:      80,
		height:     24,
	}

	placeholders := [fieldSearch]string{"-15m", "now", "level:error or filter pattern"}
	for i := range m.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholders[i]
		m.inputs[i] = in
	}
	m.groupInput = textinput.New()
	m.groupInput.Prompt = ""
	m.groupInput.Placeholder = "fuzzy search"
	m.saveInput = textinput.New()
	m.saveInput.Prompt = ""
	m.saveInput.Placeholder = "preset name"
	m.saveInput.CharLimit = 64

	m.layout()
	return m
}

// Quitting reports whether the user chose to exit.
func (m Model) Quitting() bool {
	return m.quitting
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(frameTick(), m.spinner.Tick, m.loadGroups())
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m Model) loadGroups() tea.Cmd {
	list := m.listGroups
	if list == nil {
		return nil
	}
	return func() tea.Msg {
		groups, err := list(context.Background())
		return groupsMsg{groups: groups, err: err}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case frameMsg:
		m.drain()
		return m, frameTick()

	case groupsMsg:
		m.groupsLoaded = true
		if msg.err != nil {
			m.logger.Warn("list log groups failed", logging.Error(msg.err))
			cmd := m.setStatus("Failed to load log groups: " + msg.err.Error())
			return m, cmd
		}
		m.allGroups = msg.groups
		m.applyGroupFilter()
		return m, nil

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case presetsMsg, presetSavedMsg, presetDeletedMsg:
		return m.updatePresetResult(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// drain moves every pending line of the current session into the results
// buffer without blocking. Lines from superseded sessions are dropped.
func (m *Model) drain() {
	if m.engine == nil {
		return
	}
	lines := m.engine.Lines()
	for {
		select {
		case l, ok := <-lines:
			if !ok {
				return
			}
			if l.Session != m.session {
				continue
			}
			if l.Terminal() {
				m.searching = false
				m.focus = paneResults
				continue
			}
			m.results.append(l)
		default:
			return
		}
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQ) {
		return m.quit()
	}

	switch m.popup {
	case popupSave:
		return m.updateSavePopup(msg)
	case popupLoad:
		return m.updateLoadPopup(msg)
	}
	if m.groupSearching {
		return m.updateGroupSearch(msg)
	}
	if m.editing {
		return m.updateEditing(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Tab):
		m.focus = (m.focus + 1) % numPanes
		return m, nil

	case key.Matches(msg, m.keys.Search):
		if m.focus != paneGroups {
			return m, nil
		}
		m.groupSearching = true
		cmd := m.groupInput.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Up):
		m.move(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.move(1)
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		if m.focus == paneResults {
			m.results.scroll(-m.results.height)
		}
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		if m.focus == paneResults {
			m.results.scroll(m.results.height)
		}
		return m, nil

	case key.Matches(msg, m.keys.Home):
		if m.focus == paneResults {
			m.results.top()
		}
		return m, nil

	case key.Matches(msg, m.keys.End):
		if m.focus == paneResults {
			m.results.bottom()
		}
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		return m.enter()

	case key.Matches(msg, m.keys.Tail):
		return m.toggleTail()

	case key.Matches(msg, m.keys.Copy):
		cmd := m.copyResults()
		return m, cmd

	case key.Matches(msg, m.keys.Save):
		if m.focus != paneFilter {
			return m, nil
		}
		return m.openSavePopup()

	case key.Matches(msg, m.keys.Load):
		cmd := m.openLoadPopup()
		return m, cmd

	case key.Matches(msg, m.keys.Preset):
		if m.focus != paneFilter {
			return m, nil
		}
		cmd := m.applyTimePreset(msg.String())
		return m, cmd
	}

	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.engine != nil {
		m.engine.Stop()
	}
	m.quitting = true
	return m, tea.Quit
}

// move handles up/down for the focused pane.
func (m *Model) move(delta int) {
	switch m.focus {
	case paneGroups:
		m.moveGroupCursor(delta)
	case paneFilter:
		m.field = (m.field + field(delta) + numFields) % numFields
	case paneResults:
		m.results.scroll(delta)
	}
}

func (m Model) enter() (tea.Model, tea.Cmd) {
	switch m.focus {
	case paneGroups:
		if _, ok := m.selectedGroup(); ok {
			m.focus = paneFilter
		}
		return m, nil
	case paneFilter:
		if m.field == fieldSearch {
			return m.startSearch()
		}
		m.editing = true
		m.editBackup = m.inputs[m.field].Value()
		cmd := m.inputs[m.field].Focus()
		return m, cmd
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	in := &m.inputs[m.field]
	switch {
	case key.Matches(msg, m.keys.Enter):
		in.Blur()
		m.editing = false
		m.field++
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		in.SetValue(m.editBackup)
		in.Blur()
		m.editing = false
		return m, nil
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return m, cmd
}

func (m Model) startSearch() (tea.Model, tea.Cmd) {
	group, ok := m.selectedGroup()
	if !ok {
		cmd := m.setStatus("No log group selected")
		return m, cmd
	}
	if m.engine == nil {
		cmd := m.setStatus("Search unavailable")
		return m, cmd
	}

	req := search.Request{
		Group:  group,
		Start:  strings.TrimSpace(m.inputs[fieldStart].Value()),
		End:    strings.TrimSpace(m.inputs[fieldEnd].Value()),
		Filter: strings.TrimSpace(m.inputs[fieldQuery].Value()),
		Tail:   m.tail,
	}
	m.results.reset()
	m.results.follow = req.Tail
	m.session = m.engine.Start(req)
	m.sessionTail = req.Tail
	m.searching = true
	m.focus = paneResults
	m.logger.Debug("search started",
		slog.String(logging.FieldSession, model.ShortID(m.session)),
		slog.String(logging.FieldGroup, group),
		slog.Bool("tail", req.Tail),
	)
	return m, nil
}

func (m Model) toggleTail() (tea.Model, tea.Cmd) {
	m.tail = !m.tail
	if m.tail {
		cmd := m.setStatus("Tail enabled")
		return m, cmd
	}
	if m.searching && m.sessionTail && m.engine != nil {
		m.engine.Stop()
	}
	cmd := m.setStatus("Tail disabled")
	return m, cmd
}

func (m *Model) copyResults() tea.Cmd {
	if m.results.count() == 0 {
		return m.setStatus("Nothing to copy")
	}
	if err := m.copy(m.results.text()); err != nil {
		m.logger.Warn("clipboard write failed", logging.Error(err))
		return m.setStatus("Copy failed: " + err.Error())
	}
	return m.setStatus(fmt.Sprintf("Copied %d lines", m.results.count()))
}

// setStatus shows s until a newer status replaces it or statusDuration
// elapses.
func (m *Model) setStatus(s string) tea.Cmd {
	m.statusSeq++
	m.status = s
	seq := m.statusSeq
	return tea.Tick(statusDuration, func(time.Time) tea.Msg { return clearStatusMsg{seq: seq} })
}

// layout recomputes sizes that depend on the terminal dimensions.
func (m *Model) layout() {
	m.help.Width = m.width
	m.results.setHeight(m.resultsHeight())
	gw, fw := m.topWidths()
	m.groupInput.Width = gw - 4
	for i := range m.inputs {
		m.inputs[i].Width = fw - labelWidth - 4
	}
	m.saveInput.Width = m.width - 24
	m.clampGroups()
}
