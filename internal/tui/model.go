// Package tui is the interactive terminal front end. It renders the home page
// controller with bubbletea and refreshes when the server pushes an event.
package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cdrpl/missions"
	"github.com/cdrpl/missions/internal/app"
)

// ErrSessionExpired is returned by Run when the server rejected the session.
var ErrSessionExpired = errors.New("session expired, log in again")

type loadedMsg struct{}

type actionMsg struct{ err error }

type eventMsg struct {
	event missions.Event
	open  bool
}

type mode int

const (
	modeBrowse mode = iota
	modeEdit
)

type Model struct {
	ctx    context.Context
	home   *app.Home
	notes  *notifier
	events <-chan missions.Event

	tabs    app.Tabs
	cursor  int
	mode    mode
	edit    app.EditForm
	inputs  [2]textinput.Model // title, description
	focus   int
	message string
	expired bool
	width   int
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 48

	return ti
}

// NewModel builds the model over the home page controller. The Navigator and
// Alerter of deps are replaced by the model's own. events may be nil.
func NewModel(ctx context.Context, deps app.Deps, events <-chan missions.Event) Model {
	notes := &notifier{}
	deps.Navigator = notes
	deps.Alerter = notes

	return Model{
		ctx:    ctx,
		home:   app.NewHome(deps),
		notes:  notes,
		events: events,
		inputs: [2]textinput.Model{newInput("Mission name", 64), newInput("Description", 255)},
	}
}

func (m Model) Init() tea.Cmd {
	if m.events == nil {
		return m.load()
	}

	return tea.Batch(m.load(), m.waitEvent())
}

func (m Model) load() tea.Cmd {
	return func() tea.Msg {
		m.home.Load(m.ctx)
		return loadedMsg{}
	}
}

func (m Model) action(fn func() error) tea.Cmd {
	return func() tea.Msg {
		return actionMsg{err: fn()}
	}
}

func (m Model) waitEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}

	return func() tea.Msg {
		event, open := <-m.events
		return eventMsg{event: event, open: open}
	}
}

// visible is the mission list in display order.
func (m Model) visible() []missions.DailyMission {
	return app.PartitionMissions(m.home.Missions())
}

func (m *Model) settle() tea.Cmd {
	alerts, route := m.notes.drain()
	if len(alerts) > 0 {
		m.message = alerts[len(alerts)-1]
	}

	if route == app.RouteLogin {
		m.expired = true
		return tea.Quit
	}

	if n := len(m.visible()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}

	return nil
}

func (m *Model) focusInput(i int) tea.Cmd {
	m.focus = i
	for j := range m.inputs {
		m.inputs[j].Blur()
	}

	return m.inputs[i].Focus()
}

func (m *Model) resetInputs() {
	for i := range m.inputs {
		m.inputs[i].Reset()
		m.inputs[i].Blur()
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case loadedMsg:
		cmd := m.settle()
		return m, cmd

	case actionMsg:
		if msg.err != nil {
			m.message = msg.err.Error()
		}
		cmd := m.settle()
		return m, cmd

	case eventMsg:
		if !msg.open {
			return m, nil
		}
		refresh := m.action(func() error {
			m.home.RefreshMissions(m.ctx)
			m.home.RefreshLevel(m.ctx)
			return nil
		})
		return m, tea.Batch(refresh, m.waitEvent())

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.mode == modeEdit {
			return m.updateEdit(msg)
		}

		if m.tabs.Active() == app.TabAdd {
			return m.updateAdd(msg)
		}

		return m.updateBrowse(msg)
	}

	return m, nil
}

func (m Model) switchTab(key string) (Model, bool) {
	switch key {
	case "tab", "right":
		m.tabs.Next()
	case "shift+tab", "left":
		m.tabs.Prev()
	default:
		return m, false
	}

	m.message = ""
	return m, true
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if next, ok := m.switchTab(msg.String()); ok {
		if next.tabs.Active() == app.TabAdd {
			cmd := next.focusInput(0)
			return next, cmd
		}
		return next, nil
	}

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit

	case "r":
		return m, m.load()
	}

	if m.tabs.Active() != app.TabMissions {
		return m, nil
	}

	ms := m.visible()

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(ms)-1 {
			m.cursor++
		}

	case "enter", "c":
		if m.cursor < len(ms) {
			id := ms[m.cursor].MissionID
			return m, m.action(func() error { return m.home.CompleteMission(m.ctx, id) })
		}

	case "d":
		if m.cursor < len(ms) {
			id := ms[m.cursor].MissionID
			return m, m.action(func() error { return m.home.DeleteMission(m.ctx, id) })
		}

	case "e":
		if m.cursor < len(ms) {
			m.mode = modeEdit
			m.edit = app.EditFormFor(ms[m.cursor])
			m.inputs[0].SetValue(m.edit.Title)
			m.inputs[1].SetValue(m.edit.Description)
			cmd := m.focusInput(0)
			return m, cmd
		}
	}

	return m, nil
}

// Moves focus between the two inputs or forwards the key to the focused one.
func (m Model) updateInputs(msg tea.KeyMsg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "up":
		cmd = m.focusInput(0)
		return m, cmd
	case "down":
		cmd = m.focusInput(1)
		return m, cmd
	}

	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)

	return m, cmd
}

// Left and right belong to the text inputs here.
func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key := msg.String(); key == "tab" || key == "shift+tab" {
		next, _ := m.switchTab(key)
		next.resetInputs()
		return next, nil
	}

	switch msg.String() {
	case "esc":
		m.resetInputs()
		m.tabs.Select(app.TabMissions)
		return m, nil

	case "enter":
		m.home.SetForm(app.MissionForm{Title: m.inputs[0].Value(), Description: m.inputs[1].Value()})
		m.resetInputs()
		m.tabs.Select(app.TabMissions)
		return m, m.action(func() error { return m.home.AddMission(m.ctx) })
	}

	return m.updateInputs(msg)
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.resetInputs()
		return m, nil

	case "enter":
		form := m.edit
		form.Title = m.inputs[0].Value()
		form.Description = m.inputs[1].Value()
		m.mode = modeBrowse
		m.resetInputs()
		return m, m.action(func() error { return m.home.EditMission(m.ctx, form) })

	case "ctrl+d":
		id := m.edit.MissionID
		m.mode = modeBrowse
		m.resetInputs()
		return m, m.action(func() error { return m.home.DeleteMission(m.ctx, id) })
	}

	return m.updateInputs(msg)
}

var (
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935"))
	frameStyle   = lipgloss.NewStyle().Padding(1, 2)
)

func (m Model) View() string {
	if m.expired {
		return ""
	}

	if m.home.State() == app.StateLoading {
		return frameStyle.Render("Now Loading...")
	}

	var body, help string

	switch {
	case m.mode == modeEdit:
		body = "Edit mission\n\n" + m.inputs[0].View() + "\n" + m.inputs[1].View()
		help = "enter save • ctrl+d delete • esc cancel"

	case m.tabs.Active() == app.TabAdd:
		body = "Add mission\n\n" + m.inputs[0].View() + "\n" + m.inputs[1].View()
		help = "enter add • up/down field • esc back"

	case m.tabs.Active() == app.TabStatus:
		body = app.RenderStatus(m.home.Level())
		help = "tab switch • r reload • q quit"

	default:
		body = app.RenderMissions(m.visible(), m.cursor)
		help = "enter complete • e edit • d delete • tab switch • q quit"
	}

	parts := []string{app.RenderTabs(m.tabs), "", body, ""}
	if m.message != "" {
		parts = append(parts, messageStyle.Render(m.message))
	}
	parts = append(parts, helpStyle.Render(help))

	return frameStyle.Render(strings.Join(parts, "\n"))
}

// Expired reports whether the model quit because the session was rejected.
func (m Model) Expired() bool {
	return m.expired
}

// Run starts the interactive program and blocks until it exits.
func Run(ctx context.Context, deps app.Deps, events <-chan missions.Event) error {
	final, err := tea.NewProgram(NewModel(ctx, deps, events), tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}

	if model, ok := final.(Model); ok && model.Expired() {
		return ErrSessionExpired
	}

	return nil
}
