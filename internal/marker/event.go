// Package marker models a single milestone on the timeline: its geometry, its
// three text labels and the rules that keep those labels on the correct side
// of the baseline.
package marker

import (
	"github.com/dBitech/milestones/internal/layout"
)

// Placement says which side of the marker the labels are drawn on.
type Placement int

const (
	// PlacementUnset is the zero value before the first placement pass.
	PlacementUnset Placement = iota
	// PlacementAbove stacks the labels upward from the marker's top edge.
	PlacementAbove
	// PlacementBelow stacks the labels downward from the marker's bottom edge.
	PlacementBelow
)

func (p Placement) String() string {
	switch p {
	case PlacementAbove:
		return "above"
	case PlacementBelow:
		return "below"
	}
	return "unset"
}

// VerticalAnchor is the text edge aligned with a label's y coordinate.
type VerticalAnchor string

const (
	AnchorTop    VerticalAnchor = "top"
	AnchorBottom VerticalAnchor = "bottom"
)

// Label is one line of text attached to a marker. Offset is measured from the
// marker's bottom edge when anchored at the top and from its top edge when
// anchored at the bottom.
type Label struct {
	Text     string
	Fill     string
	FontSize float64
	Anchor   VerticalAnchor
	Offset   float64
}

// Labels is the label configuration of a marker.
type Labels struct {
	Placement   Placement
	Title       Label
	Subtitle    Label
	Description Label
}

// Offsets are the distances of the three labels from the marker edge.
type Offsets struct {
	Title       float64 `yaml:"title" toml:"title"`
	Subtitle    float64 `yaml:"subtitle" toml:"subtitle"`
	Description float64 `yaml:"description" toml:"description"`
}

// DefaultOffsets are the stock label distances.
var DefaultOffsets = Offsets{Title: 10, Subtitle: 40, Description: 60}

// Event is a positioned timeline marker.
type Event struct {
	ID       string
	Position layout.Point
	Size     layout.Size
	Color    string
	Labels   Labels
	// Story is the id of the detail story shown when the marker is activated.
	Story string
}

// BBox returns the marker's model geometry.
func (e *Event) BBox() layout.Rect {
	return layout.Rect{X: e.Position.X, Y: e.Position.Y, Width: e.Size.Width, Height: e.Size.Height}
}

// Center is the middle of the marker ellipse.
func (e *Event) Center() layout.Point {
	return layout.Point{X: e.Position.X + e.Size.Width/2, Y: e.Position.Y + e.Size.Height/2}
}

// LabelY resolves a label's offset to an absolute y coordinate.
func (e *Event) LabelY(l Label) float64 {
	if l.Anchor == AnchorTop {
		return e.Position.Y + e.Size.Height + l.Offset
	}
	return e.Position.Y + l.Offset
}

// Flipped reports whether the marker hangs below the baseline.
func Flipped(e *Event, baselineY float64) bool {
	return e.Position.Y > baselineY
}

// UpdateLabelPlacement re-anchors the labels to match the side of the
// baseline the marker sits on. It reports whether anything changed; calling it
// again without moving the marker is a no-op.
func UpdateLabelPlacement(e *Event, baselineY float64, off Offsets) bool {
	if Flipped(e, baselineY) {
		if e.Labels.Placement == PlacementBelow {
			return false
		}
		e.Labels.Placement = PlacementBelow
		setAnchors(&e.Labels, AnchorTop, off.Title, off.Subtitle, off.Description)
		return true
	}

	if e.Labels.Placement == PlacementAbove {
		return false
	}
	e.Labels.Placement = PlacementAbove
	setAnchors(&e.Labels, AnchorBottom, -off.Title, -off.Subtitle, -off.Description)
	return true
}

func setAnchors(l *Labels, a VerticalAnchor, title, subtitle, description float64) {
	l.Title.Anchor, l.Title.Offset = a, title
	l.Subtitle.Anchor, l.Subtitle.Offset = a, subtitle
	l.Description.Anchor, l.Description.Offset = a, description
}
