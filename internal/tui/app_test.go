package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dBitech/milestones/internal/config"
	"github.com/dBitech/milestones/internal/layout"
	"github.com/dBitech/milestones/internal/marker"
	"github.com/dBitech/milestones/internal/scene"
)

func newModel(t *testing.T, save SaveFunc) (Model, *scene.Scene) {
	t.Helper()
	s, err := scene.New(config.Default())
	if err != nil {
		t.Fatalf("scene.New: %v", err)
	}
	s.AddEvent(scene.EventSpec{ID: "a", Offset: 50, Title: "1250-1300 AD"})
	s.AddEvent(scene.EventSpec{ID: "b", Index: 1, Offset: -100, Title: "1642"})
	return NewModel(s, save), s
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestNudgeStaysInCorridor(t *testing.T) {
	m, s := newModel(t, nil)
	ev, _ := s.Event("a")

	m = press(m, "right", "right")
	if ev.Position != (layout.Point{X: 190, Y: 250}) {
		t.Errorf("after two right nudges = %+v", ev.Position)
	}

	// the lower band starts at y=220; stepping up stops there
	m = press(m, "up", "up", "up", "up", "up", "up")
	if ev.Position.Y != 220 {
		t.Errorf("y = %v, want 220", ev.Position.Y)
	}
	if ev.Labels.Placement != marker.PlacementBelow {
		t.Errorf("placement = %v", ev.Labels.Placement)
	}

	m = press(m, "enter")
	if m.drag != nil {
		t.Error("drag still active after enter")
	}
}

func TestFlipCrossesBaseline(t *testing.T) {
	m, s := newModel(t, nil)
	ev, _ := s.Event("a")

	m = press(m, "f")
	if ev.Position != (layout.Point{X: 170, Y: 130}) {
		t.Errorf("flipped position = %+v", ev.Position)
	}
	if ev.Labels.Placement != marker.PlacementAbove {
		t.Errorf("placement = %v", ev.Labels.Placement)
	}

	m = press(m, "esc")
	if ev.Position != (layout.Point{X: 170, Y: 250}) || ev.Labels.Placement != marker.PlacementBelow {
		t.Errorf("cancel did not restore: %+v %v", ev.Position, ev.Labels.Placement)
	}
	if !strings.Contains(m.status, "cancelled") {
		t.Errorf("status = %q", m.status)
	}
}

func TestSelectionWraps(t *testing.T) {
	m, _ := newModel(t, nil)
	m = press(m, "tab")
	if m.current().ID != "b" {
		t.Errorf("current = %q", m.current().ID)
	}
	m = press(m, "tab")
	if m.current().ID != "a" {
		t.Errorf("selection did not wrap: %q", m.current().ID)
	}
}

func TestSave(t *testing.T) {
	calls := 0
	m, _ := newModel(t, func(*scene.Scene) (string, error) {
		calls++
		if calls > 1 {
			return "", errors.New("disk full")
		}
		return "nz.svg", nil
	})
	m = press(m, "s")
	if m.status != "saved nz.svg" {
		t.Errorf("status = %q", m.status)
	}
	m = press(m, "s")
	if !strings.Contains(m.status, "disk full") {
		t.Errorf("status = %q", m.status)
	}

	m, _ = newModel(t, nil)
	m = press(m, "s")
	if m.status != "no output configured" {
		t.Errorf("status without save = %q", m.status)
	}
}

func TestViewListsMarkers(t *testing.T) {
	m, _ := newModel(t, nil)
	out := m.View()
	for _, want := range []string{"1250-1300 AD", "1642", "below", "above"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t, nil)
	m = press(m, "right")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}
