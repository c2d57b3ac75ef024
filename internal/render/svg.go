// Package render turns a scene into SVG, or into an HTML page that wraps the
// SVG with the detail-story modal.
package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/dBitech/milestones/internal/layout"
	"github.com/dBitech/milestones/internal/marker"
	"github.com/dBitech/milestones/internal/scene"
)

// charWidthFactor approximates the average glyph width as a fraction of the
// font size.
const charWidthFactor = 0.6

// lineHeightFactor is the distance between wrapped lines relative to the
// font size.
const lineHeightFactor = 1.2

// SVGOptions tweaks the generated document.
type SVGOptions struct {
	// Responsive sizes the root element to its container instead of the
	// configured canvas; the viewBox keeps the content fitted.
	Responsive bool
	// XMLHeader prepends the XML declaration for standalone files.
	XMLHeader bool
	// Clickable lists the marker ids that open a story.
	Clickable map[string]bool
}

// SVG renders the whole scene.
func SVG(s *scene.Scene, opts SVGOptions) string {
	cfg := s.Config()
	canvas := layout.Size{Width: cfg.Canvas.Width, Height: cfg.Canvas.Height}
	vb := s.Fit().ViewBox(canvas)

	width, height := num(canvas.Width), num(canvas.Height)
	if opts.Responsive {
		width, height = "100%", "100%"
	}

	var svg strings.Builder
	if opts.XMLHeader {
		svg.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	}
	svg.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="%s %s %s %s" preserveAspectRatio="xMidYMid meet">`+"\n",
		width, height, num(vb.X), num(vb.Y), num(vb.Width), num(vb.Height)))
	svg.WriteString(fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
		num(vb.X), num(vb.Y), num(vb.Width), num(vb.Height), cfg.Canvas.Background))

	drawTimeline(&svg, s)
	for _, c := range s.Connectors() {
		drawConnector(&svg, c, cfg.Timeline.Color, cfg.Canvas.Background)
	}
	drawTerminal(&svg, s.Start(), cfg.Timeline.Color, cfg.Canvas.Background, cfg.Marker.FontFamily)
	drawTerminal(&svg, s.End(), cfg.Timeline.Color, cfg.Canvas.Background, cfg.Marker.FontFamily)
	for _, ev := range s.Events() {
		drawEvent(&svg, ev, s, opts.Clickable[ev.ID])
	}

	svg.WriteString("</svg>\n")
	return svg.String()
}

// drawTimeline draws the thick baseline between the terminals and cuts a
// chevron out of it at every vertex.
func drawTimeline(svg *strings.Builder, s *scene.Scene) {
	cfg := s.Config()
	b := s.Baseline()
	ch := cfg.Timeline.Chevron

	svg.WriteString(`<g class="timeline">`)
	svg.WriteString(fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s"/>`,
		num(b.XMin), num(b.Y), num(b.XMax), num(b.Y), cfg.Timeline.Color, num(ch.Height)))

	d := layout.ChevronMarkerPath(ch.Width, ch.Height)
	for _, p := range s.Chevrons() {
		svg.WriteString(fmt.Sprintf(`<path transform="translate(%s,%s)" d="%s" fill="%s" stroke="none"/>`,
			num(p.X), num(p.Y), d, cfg.Canvas.Background))
	}
	svg.WriteString("</g>\n")
}

// drawConnector draws the dashed link and the double-circle target marker
// where it meets the baseline.
func drawConnector(svg *strings.Builder, c scene.Connector, lineColor, background string) {
	svg.WriteString(fmt.Sprintf(`<g class="connector" data-event-id="%s">`, escapeXML(c.EventID)))
	svg.WriteString(fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1" stroke-dasharray="2,2"/>`,
		num(c.From.X), num(c.From.Y), num(c.To.X), num(c.To.Y), lineColor))
	svg.WriteString(fmt.Sprintf(`<circle cx="%s" cy="%s" r="14" stroke="%s" stroke-width="1" fill="%s"/>`,
		num(c.To.X), num(c.To.Y), lineColor, background))
	svg.WriteString(fmt.Sprintf(`<circle cx="%s" cy="%s" r="8" fill="%s" stroke="none"/>`,
		num(c.To.X), num(c.To.Y), c.Color))
	svg.WriteString("</g>\n")
}

func drawTerminal(svg *strings.Builder, t scene.Terminal, stroke, fill, font string) {
	svg.WriteString(`<g class="terminal">`)
	svg.WriteString(fmt.Sprintf(`<circle cx="%s" cy="%s" r="%s" stroke="%s" stroke-width="3" fill="%s"/>`,
		num(t.Center.X), num(t.Center.Y), num(t.Radius), stroke, fill))
	if t.Label != "" {
		lines := strings.Split(t.Label, "\n")
		lh := t.FontSize * lineHeightFactor
		svg.WriteString(fmt.Sprintf(`<text x="%s" y="%s" text-anchor="middle" dominant-baseline="central" font-family="%s" font-size="%s" fill="%s">`,
			num(t.Center.X), num(t.Center.Y), escapeXML(font), num(t.FontSize), t.LabelFill))
		writeLines(svg, lines, t.Center.X, -float64(len(lines)-1)*lh/2, lh)
		svg.WriteString("</text>")
	}
	svg.WriteString("</g>\n")
}

// drawEvent draws the marker ellipse and its three labels, right-aligned to
// the marker's right edge on whichever side the current placement says.
func drawEvent(svg *strings.Builder, ev *marker.Event, s *scene.Scene, clickable bool) {
	cfg := s.Config()
	font := escapeXML(cfg.Marker.FontFamily)

	attrs := fmt.Sprintf(`class="event %s" id="%s" data-event-id="%s"`,
		ev.Labels.Placement, escapeXML(ev.ID), escapeXML(ev.ID))
	if clickable {
		attrs += fmt.Sprintf(` data-story="%s" style="cursor:pointer"`, escapeXML(ev.ID))
	}
	svg.WriteString("<g " + attrs + ">")

	c := ev.Center()
	svg.WriteString(fmt.Sprintf(`<ellipse cx="%s" cy="%s" rx="%s" ry="%s" fill="%s" stroke="none"/>`,
		num(c.X), num(c.Y), num(ev.Size.Width/2), num(ev.Size.Height/2), ev.Color))

	right := ev.Position.X + ev.Size.Width
	labels := []struct {
		label  marker.Label
		weight string
		wrap   float64
	}{
		{ev.Labels.Title, "normal", 0},
		{ev.Labels.Subtitle, "bold", cfg.Marker.SubtitleWrap},
		{ev.Labels.Description, "normal", cfg.Marker.DescriptionWrap},
	}
	for _, l := range labels {
		if l.label.Text == "" {
			continue
		}
		drawLabel(svg, l.label, right, ev.LabelY(l.label), font, l.weight, l.wrap)
	}
	svg.WriteString("</g>\n")
}

func drawLabel(svg *strings.Builder, l marker.Label, x, y float64, font, weight string, wrap float64) {
	lines := wrapLabel(l.Text, wrap, l.FontSize)
	lh := l.FontSize * lineHeightFactor

	baseline := "hanging"
	first := 0.0
	if l.Anchor == marker.AnchorBottom {
		// bottom-anchored blocks grow upward from y
		baseline = "text-after-edge"
		first = -float64(len(lines)-1) * lh
	}

	svg.WriteString(fmt.Sprintf(`<text x="%s" y="%s" text-anchor="end" dominant-baseline="%s" font-family="%s" font-size="%s" font-weight="%s" fill="%s">`,
		num(x), num(y), baseline, font, num(l.FontSize), weight, l.Fill))
	writeLines(svg, lines, x, first, lh)
	svg.WriteString("</text>")
}

func writeLines(svg *strings.Builder, lines []string, x, first, lh float64) {
	for i, line := range lines {
		dy := lh
		if i == 0 {
			dy = first
		}
		svg.WriteString(fmt.Sprintf(`<tspan x="%s" dy="%s">%s</tspan>`, num(x), num(dy), escapeXML(line)))
	}
}

// wrapLabel breaks text into lines no wider than widthPx, estimating glyph
// width from the font size. A width of 0 only splits on explicit newlines.
func wrapLabel(text string, widthPx, fontSize float64) []string {
	if widthPx > 0 && fontSize > 0 {
		limit := int(widthPx / (fontSize * charWidthFactor))
		if limit > 0 {
			text = wordwrap.String(text, limit)
		}
	}
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return lines
}

// escapeXML escapes special XML characters in a string to ensure valid SVG output.
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
