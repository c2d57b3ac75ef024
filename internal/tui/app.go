// Package tui is a keyboard host for the timeline: it selects markers and
// drags them through the same corridor constraint and label flips a pointer
// driven canvas would use.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/dBitech/milestones/internal/marker"
	"github.com/dBitech/milestones/internal/scene"
)

type keyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Left   key.Binding
	Right  key.Binding
	Up     key.Binding
	Down   key.Binding
	Flip   key.Binding
	Drop   key.Binding
	Cancel key.Binding
	Save   key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev")),
	Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Flip:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "cross line")),
	Drop:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Save:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// SaveFunc persists the current scene, typically by rendering it to a file.
type SaveFunc func(*scene.Scene) (string, error)

// Model is the bubbletea model.
type Model struct {
	scene  *scene.Scene
	events []*marker.Event
	cursor int
	drag   *scene.Drag
	step   float64
	save   SaveFunc
	status string
	width  int
}

// NewModel builds a model over s. save may be nil.
func NewModel(s *scene.Scene, save SaveFunc) Model {
	step := s.Config().Timeline.GridSize
	if step <= 0 {
		step = 10
	}
	return Model{
		scene:  s,
		events: s.Events(),
		step:   step,
		save:   save,
		width:  100,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		if m.drag != nil {
			m.drag.End()
			m.drag = nil
		}
		return m, tea.Quit

	case key.Matches(msg, keys.Next):
		m.shiftCursor(1)
	case key.Matches(msg, keys.Prev):
		m.shiftCursor(-1)

	case key.Matches(msg, keys.Left):
		m.nudge(-m.step, 0)
	case key.Matches(msg, keys.Right):
		m.nudge(m.step, 0)
	case key.Matches(msg, keys.Up):
		m.nudge(0, -m.step)
	case key.Matches(msg, keys.Down):
		m.nudge(0, m.step)

	case key.Matches(msg, keys.Flip):
		m.flip()

	case key.Matches(msg, keys.Drop):
		if m.drag != nil {
			m.drag.End()
			m.drag = nil
			m.status = "dropped " + m.current().ID
		}
	case key.Matches(msg, keys.Cancel):
		if m.drag != nil {
			m.drag.Cancel()
			m.drag = nil
			m.status = "drag cancelled"
		}

	case key.Matches(msg, keys.Save):
		if m.save == nil {
			m.status = "no output configured"
			break
		}
		path, err := m.save(m.scene)
		if err != nil {
			m.status = "save failed: " + err.Error()
		} else {
			m.status = "saved " + path
		}
	}
	return m, nil
}

// shiftCursor moves the cursor, finishing any drag on the previous marker.
func (m *Model) shiftCursor(delta int) {
	if len(m.events) == 0 {
		return
	}
	if m.drag != nil {
		m.drag.End()
		m.drag = nil
	}
	m.cursor = (m.cursor + delta + len(m.events)) % len(m.events)
}

func (m *Model) current() *marker.Event {
	if len(m.events) == 0 {
		return nil
	}
	return m.events[m.cursor]
}

func (m *Model) ensureDrag() bool {
	if m.drag != nil {
		return true
	}
	ev := m.current()
	if ev == nil {
		return false
	}
	d, err := m.scene.BeginDrag(ev.ID)
	if err != nil {
		m.status = err.Error()
		return false
	}
	m.drag = d
	return true
}

func (m *Model) nudge(dx, dy float64) {
	if !m.ensureDrag() {
		return
	}
	p, err := m.drag.MoveBy(dx, dy)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = fmt.Sprintf("%s at (%g, %g)", m.drag.Event().ID, p.X, p.Y)
}

// flip mirrors the marker across the baseline; the corridor's dead zone
// cannot be crossed one grid step at a time.
func (m *Model) flip() {
	if !m.ensureDrag() {
		return
	}
	ev := m.drag.Event()
	y := 2*m.scene.Baseline().Y - ev.Position.Y - ev.Size.Height
	p, err := m.drag.Move(ev.Position.X, y)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = fmt.Sprintf("%s crossed to (%g, %g)", ev.ID, p.X, p.Y)
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("milestones"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("baseline y=%g", m.scene.Baseline().Y)))
	b.WriteString("\n\n")

	titleWidth := m.width - 48
	if titleWidth < 12 {
		titleWidth = 12
	}
	for i, ev := range m.events {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(ev.Color)).Render("●")
		line := fmt.Sprintf(" %-12s %-*s %7g %7g  %-5s ",
			runewidth.Truncate(ev.ID, 12, "…"),
			titleWidth, runewidth.Truncate(ev.Labels.Title.Text, titleWidth, "…"),
			ev.Position.X, ev.Position.Y, ev.Labels.Placement)
		switch {
		case i == m.cursor && m.drag != nil:
			line = draggingStyle.Render(line)
		case i == m.cursor:
			line = selectedStyle.Render(line)
		}
		b.WriteString(swatch + line + "\n")
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(statusBarStyle.Render(m.status) + "\n")
	}
	b.WriteString(helpStyle.Render("tab/shift+tab select • ←↑↓→ drag • f cross line • enter drop • esc cancel • s save • q quit"))
	return b.String()
}
