// Package config holds every tunable of the milestone timeline. The zero-file
// defaults reproduce the stock New Zealand milestones page; YAML and TOML files
// override any subset of them.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/dBitech/milestones/internal/color"
	"github.com/dBitech/milestones/internal/layout"
	"github.com/dBitech/milestones/internal/marker"
)

// EnvConfigPath names the environment variable holding the default config path.
const EnvConfigPath = "MILESTONES_CONFIG"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config represents the complete configuration for a milestone timeline.
type Config struct {
	Canvas   CanvasConfig   `yaml:"canvas" toml:"canvas"`
	Timeline TimelineConfig `yaml:"timeline" toml:"timeline"`
	Marker   MarkerConfig   `yaml:"marker" toml:"marker"`
	Start    TerminalConfig `yaml:"start" toml:"start"`
	End      TerminalConfig `yaml:"end" toml:"end"`
	Palette  PaletteConfig  `yaml:"palette" toml:"palette"`
	Fit      FitConfig      `yaml:"fit" toml:"fit"`
}

// CanvasConfig is the viewport the scene is fitted into.
type CanvasConfig struct {
	Width      float64 `yaml:"width" toml:"width"`           // Viewport width in pixels
	Height     float64 `yaml:"height" toml:"height"`         // Viewport height in pixels
	Background string  `yaml:"background" toml:"background"` // Background fill, also used for chevron cut-outs
}

// TimelineConfig describes the baseline and how markers are spread along it.
type TimelineConfig struct {
	XMin         float64       `yaml:"x_min" toml:"x_min"`
	XMax         float64       `yaml:"x_max" toml:"x_max"`
	Y            float64       `yaml:"y" toml:"y"`
	Padding      float64       `yaml:"padding" toml:"padding"`             // Gap between XMin and the first marker
	Gap          float64       `yaml:"gap" toml:"gap"`                     // Horizontal spacing between markers
	NegativeBias float64       `yaml:"negative_bias" toml:"negative_bias"` // Extra y shift for markers above the line
	DragMargin   float64       `yaml:"drag_margin" toml:"drag_margin"`     // Half width of the dead zone around the line
	GridSize     float64       `yaml:"grid_size" toml:"grid_size"`         // Drag snapping step, 0 disables
	Color        string        `yaml:"color" toml:"color"`
	Chevron      ChevronConfig `yaml:"chevron" toml:"chevron"`
}

// ChevronConfig controls the arrow pattern cut into the baseline.
type ChevronConfig struct {
	Count  int     `yaml:"count" toml:"count"`
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"` // Also the stroke width of the baseline
}

// MarkerConfig styles the milestone markers and their labels.
type MarkerConfig struct {
	Width           float64        `yaml:"width" toml:"width"`
	Height          float64        `yaml:"height" toml:"height"`
	DefaultColor    string         `yaml:"default_color" toml:"default_color"`
	SubtitleShade   float64        `yaml:"subtitle_shade" toml:"subtitle_shade"` // Shade percent for the subtitle color
	FontFamily      string         `yaml:"font_family" toml:"font_family"`
	TitleSize       float64        `yaml:"title_size" toml:"title_size"`
	SubtitleSize    float64        `yaml:"subtitle_size" toml:"subtitle_size"`
	DescriptionSize float64        `yaml:"description_size" toml:"description_size"`
	SubtitleWrap    float64        `yaml:"subtitle_wrap" toml:"subtitle_wrap"`       // Wrap width in pixels
	DescriptionWrap float64        `yaml:"description_wrap" toml:"description_wrap"` // Wrap width in pixels
	Offsets         marker.Offsets `yaml:"offsets" toml:"offsets"`
}

// TerminalConfig styles the circles at either end of the timeline.
type TerminalConfig struct {
	Label      string  `yaml:"label" toml:"label"`
	Radius     float64 `yaml:"radius" toml:"radius"`
	FontSize   float64 `yaml:"font_size" toml:"font_size"`
	LabelShade float64 `yaml:"label_shade" toml:"label_shade"` // Shade applied to the first palette color for the label
}

// PaletteConfig selects marker colors. Colors wins over Gradient, Gradient
// wins over Name.
type PaletteConfig struct {
	Name     string         `yaml:"name" toml:"name"`
	Colors   []string       `yaml:"colors" toml:"colors"`
	Gradient GradientConfig `yaml:"gradient" toml:"gradient"`
}

// GradientConfig generates Steps colors between From and To.
type GradientConfig struct {
	From  string `yaml:"from" toml:"from"`
	To    string `yaml:"to" toml:"to"`
	Steps int    `yaml:"steps" toml:"steps"`
}

// FitConfig is the padding kept when scaling the scene into the canvas.
type FitConfig struct {
	Horizontal float64 `yaml:"horizontal" toml:"horizontal"`
	Vertical   float64 `yaml:"vertical" toml:"vertical"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Canvas: CanvasConfig{
			Width:      1200,
			Height:     700,
			Background: "#444444",
		},
		Timeline: TimelineConfig{
			XMin:         140,
			XMax:         950,
			Y:            200,
			Padding:      30,
			Gap:          70,
			NegativeBias: -40,
			DragMargin:   20,
			GridSize:     10,
			Color:        "#ffffff",
			Chevron:      ChevronConfig{Count: 40, Width: 3, Height: 8},
		},
		Marker: MarkerConfig{
			Width:           20,
			Height:          20,
			DefaultColor:    "#000000",
			SubtitleShade:   0.5,
			FontFamily:      "sans-serif",
			TitleSize:       18,
			SubtitleSize:    13,
			DescriptionSize: 10,
			SubtitleWrap:    180,
			DescriptionWrap: 120,
			Offsets:         marker.DefaultOffsets,
		},
		Start: TerminalConfig{Label: "Milestones", Radius: 60, FontSize: 18, LabelShade: 0.5},
		End:   TerminalConfig{Label: "present", Radius: 30, FontSize: 13},
		Palette: PaletteConfig{
			Name: "blue",
		},
		Fit: FitConfig{Horizontal: 20, Vertical: 40},
	}
}

// Load reads a configuration file over the defaults. TOML is chosen by the
// .toml extension, everything else is parsed as YAML. An empty path returns
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("error reading config file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("error parsing config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Baseline returns the timeline line described by the configuration.
func (c Config) Baseline() layout.Baseline {
	return layout.Baseline{XMin: c.Timeline.XMin, XMax: c.Timeline.XMax, Y: c.Timeline.Y}
}

// LayoutParams returns the constants used to seed marker positions.
func (c Config) LayoutParams() layout.Params {
	return layout.Params{Padding: c.Timeline.Padding, NegativeBias: c.Timeline.NegativeBias}
}

// Colors resolves the marker palette.
func (c Config) Colors() ([]string, error) {
	if len(c.Palette.Colors) > 0 {
		return append([]string(nil), c.Palette.Colors...), nil
	}
	if g := c.Palette.Gradient; g.Steps > 0 {
		return color.Gradient(g.From, g.To, g.Steps)
	}
	p, ok := color.Palette(c.Palette.Name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown palette %q", ErrInvalid, c.Palette.Name)
	}
	return p, nil
}

// Validate rejects configurations that cannot produce a sensible scene.
func (c Config) Validate() error {
	var problems []string
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}

	check(c.Timeline.XMax > c.Timeline.XMin, "timeline.x_max (%v) must exceed timeline.x_min (%v)", c.Timeline.XMax, c.Timeline.XMin)
	check(c.Timeline.Chevron.Count >= 0, "timeline.chevron.count must not be negative")
	check(c.Timeline.DragMargin >= 0, "timeline.drag_margin must not be negative")
	check(c.Timeline.GridSize >= 0, "timeline.grid_size must not be negative")
	check(c.Marker.Width > 0 && c.Marker.Height > 0, "marker size must be positive")
	check(c.Canvas.Width > 0 && c.Canvas.Height > 0, "canvas size must be positive")
	check(c.Marker.SubtitleShade >= -1 && c.Marker.SubtitleShade <= 1, "marker.subtitle_shade must be within [-1, 1]")
	check(c.Start.LabelShade >= -1 && c.Start.LabelShade <= 1, "start.label_shade must be within [-1, 1]")

	for name, hex := range map[string]string{
		"canvas.background":    c.Canvas.Background,
		"timeline.color":       c.Timeline.Color,
		"marker.default_color": c.Marker.DefaultColor,
	} {
		check(color.Valid(hex), "%s: malformed color %q", name, hex)
	}

	colors, err := c.Colors()
	if err != nil {
		problems = append(problems, err.Error())
	}
	for i, hex := range colors {
		check(color.Valid(hex), "palette[%d]: malformed color %q", i, hex)
	}

	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
}
