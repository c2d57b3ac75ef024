// Package scene is the host side of the timeline: it owns the markers, seeds
// their positions, fans out position-change notifications and runs drag
// gestures through the registered drag constraint.
package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/dBitech/milestones/internal/color"
	"github.com/dBitech/milestones/internal/config"
	"github.com/dBitech/milestones/internal/layout"
	"github.com/dBitech/milestones/internal/marker"
)

var (
	// ErrUnknownEvent is returned when an id does not name a marker.
	ErrUnknownEvent = errors.New("unknown event")
	// ErrDuplicateEvent is returned when an id is added twice.
	ErrDuplicateEvent = errors.New("duplicate event id")
	// ErrDragEnded is returned by a drag gesture used after End or Cancel.
	ErrDragEnded = errors.New("drag gesture already ended")
)

// PositionListener is told about every marker position change.
type PositionListener func(ev *marker.Event)

// DragConstraint builds the clamp for one drag gesture of ev.
type DragConstraint func(ev *marker.Event) marker.ClampFunc

// Terminal is one of the circles at either end of the timeline.
type Terminal struct {
	Center    layout.Point
	Radius    float64
	Label     string
	LabelFill string
	FontSize  float64
}

// BBox returns the circle's bounding box.
func (t Terminal) BBox() layout.Rect {
	return layout.Rect{
		X:      t.Center.X - t.Radius,
		Y:      t.Center.Y - t.Radius,
		Width:  2 * t.Radius,
		Height: 2 * t.Radius,
	}
}

// Connector is the dashed link from a marker to the baseline. It is derived
// from the marker on demand and holds no state of its own.
type Connector struct {
	EventID string
	From    layout.Point
	To      layout.Point
	Color   string
}

// EventSpec describes a marker to add.
type EventSpec struct {
	ID          string
	Index       int
	Offset      float64
	Color       string
	Title       string
	Subtitle    string
	Description string
	Story       string
}

// Scene is the in-memory timeline. It is not safe for concurrent use; all
// notifications run synchronously on the caller's goroutine.
type Scene struct {
	cfg      config.Config
	baseline layout.Baseline
	palette  []string
	start    Terminal
	end      Terminal
	chevrons []layout.Point

	events     []*marker.Event
	byID       map[string]*marker.Event
	listeners  []PositionListener
	constraint DragConstraint
}

// New builds the static part of the scene (terminals, baseline, chevrons) and
// registers the label-placement listener and the corridor drag constraint.
func New(cfg config.Config) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	palette, err := cfg.Colors()
	if err != nil {
		return nil, err
	}

	b := cfg.Baseline()
	startFill := cfg.Timeline.Color
	if len(palette) > 0 {
		startFill, err = color.Shade(palette[0], cfg.Start.LabelShade)
		if err != nil {
			return nil, fmt.Errorf("start label color: %w", err)
		}
	}

	s := &Scene{
		cfg:      cfg,
		baseline: b,
		palette:  palette,
		start: Terminal{
			Center:    layout.Point{X: b.XMin - cfg.Start.Radius, Y: b.Y},
			Radius:    cfg.Start.Radius,
			Label:     cfg.Start.Label,
			LabelFill: startFill,
			FontSize:  cfg.Start.FontSize,
		},
		end: Terminal{
			Center:    layout.Point{X: b.XMax + cfg.End.Radius, Y: b.Y},
			Radius:    cfg.End.Radius,
			Label:     cfg.End.Label,
			LabelFill: cfg.Timeline.Color,
			FontSize:  cfg.End.FontSize,
		},
		chevrons: layout.Chevrons(cfg.Timeline.Chevron.Count, b, cfg.Timeline.Padding),
		byID:     make(map[string]*marker.Event),
	}

	s.OnPositionChange(func(ev *marker.Event) {
		if marker.UpdateLabelPlacement(ev, b.Y, cfg.Marker.Offsets) {
			slog.Debug("labels flipped", "event", ev.ID, "placement", ev.Labels.Placement.String(), "y", ev.Position.Y)
		}
	})
	s.RegisterDragConstraint(func(ev *marker.Event) marker.ClampFunc {
		return marker.ClampPosition(ev.Size, b, cfg.Timeline.DragMargin)
	})
	return s, nil
}

// Config returns the configuration the scene was built from.
func (s *Scene) Config() config.Config { return s.cfg }

// Baseline returns the timeline line.
func (s *Scene) Baseline() layout.Baseline { return s.baseline }

// Start returns the left terminal.
func (s *Scene) Start() Terminal { return s.start }

// End returns the right terminal.
func (s *Scene) End() Terminal { return s.end }

// Chevrons returns the chevron vertices along the baseline.
func (s *Scene) Chevrons() []layout.Point {
	return append([]layout.Point(nil), s.chevrons...)
}

// SetStartLabel replaces the text of the left terminal.
func (s *Scene) SetStartLabel(label string) { s.start.Label = label }

// OnPositionChange registers fn to run after every position change.
// Listeners run in registration order.
func (s *Scene) OnPositionChange(fn PositionListener) {
	s.listeners = append(s.listeners, fn)
}

// RegisterDragConstraint replaces the constraint consulted at drag start.
func (s *Scene) RegisterDragConstraint(fn DragConstraint) {
	s.constraint = fn
}

// AddEvent places a new marker and runs the position listeners for it, so its
// labels are on the correct side before it is ever drawn.
func (s *Scene) AddEvent(spec EventSpec) (*marker.Event, error) {
	id := spec.ID
	if id == "" {
		for n := len(s.events) + 1; ; n++ {
			id = fmt.Sprintf("event-%d", n)
			if _, taken := s.byID[id]; !taken {
				break
			}
		}
	}
	if _, exists := s.byID[id]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateEvent, id)
	}

	fill := spec.Color
	if fill == "" {
		fill = s.cfg.Marker.DefaultColor
		if len(s.palette) > 0 {
			fill = s.palette[abs(spec.Index)%len(s.palette)]
		}
	}
	subtitleFill, err := color.Shade(fill, s.cfg.Marker.SubtitleShade)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", id, err)
	}

	m := s.cfg.Marker
	ev := &marker.Event{
		ID:       id,
		Position: layout.MarkerPosition(spec.Index, spec.Offset, s.cfg.Timeline.Gap, s.baseline, s.cfg.LayoutParams()),
		Size:     layout.Size{Width: m.Width, Height: m.Height},
		Color:    fill,
		Story:    spec.Story,
		Labels: marker.Labels{
			Title:       marker.Label{Text: spec.Title, Fill: fill, FontSize: m.TitleSize},
			Subtitle:    marker.Label{Text: spec.Subtitle, Fill: subtitleFill, FontSize: m.SubtitleSize},
			Description: marker.Label{Text: spec.Description, Fill: s.cfg.Timeline.Color, FontSize: m.DescriptionSize},
		},
	}

	s.events = append(s.events, ev)
	s.byID[id] = ev
	slog.Debug("event added", "event", id, "x", ev.Position.X, "y", ev.Position.Y)
	s.notify(ev)
	return ev, nil
}

// Events returns the markers in insertion order.
func (s *Scene) Events() []*marker.Event {
	return append([]*marker.Event(nil), s.events...)
}

// Event looks up a marker by id.
func (s *Scene) Event(id string) (*marker.Event, bool) {
	ev, ok := s.byID[id]
	return ev, ok
}

// SetPosition moves a marker programmatically, bypassing the drag constraint.
func (s *Scene) SetPosition(id string, p layout.Point) error {
	ev, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEvent, id)
	}
	if ev.Position == p {
		return nil
	}
	ev.Position = p
	s.notify(ev)
	return nil
}

// Connector derives the dashed link of ev. The link meets the baseline at the
// foot of the perpendicular from the marker centre.
func (s *Scene) Connector(ev *marker.Event) Connector {
	c := ev.Center()
	footX := math.Max(s.baseline.XMin, math.Min(s.baseline.XMax, c.X))
	return Connector{
		EventID: ev.ID,
		From:    c,
		To:      layout.Point{X: footX, Y: s.baseline.Y},
		Color:   ev.Color,
	}
}

// Connectors derives every marker's link.
func (s *Scene) Connectors() []Connector {
	out := make([]Connector, len(s.events))
	for i, ev := range s.events {
		out[i] = s.Connector(ev)
	}
	return out
}

// Bounds is the model-geometry bounding box: terminals and markers, labels
// excluded.
func (s *Scene) Bounds() layout.Rect {
	r := s.start.BBox().Union(s.end.BBox())
	for _, ev := range s.events {
		r = r.Union(ev.BBox())
	}
	return r
}

// Fit scales the scene into the configured canvas with the baseline centred.
func (s *Scene) Fit() layout.Transform {
	return s.FitTo(layout.Size{Width: s.cfg.Canvas.Width, Height: s.cfg.Canvas.Height})
}

// FitTo scales the scene into an arbitrary viewport.
func (s *Scene) FitTo(vp layout.Size) layout.Transform {
	pad := layout.Padding{Horizontal: s.cfg.Fit.Horizontal, Vertical: s.cfg.Fit.Vertical}
	return layout.Fit(s.Bounds(), vp, pad, s.baseline.Y)
}

func (s *Scene) notify(ev *marker.Event) {
	for _, fn := range s.listeners {
		fn(ev)
	}
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
