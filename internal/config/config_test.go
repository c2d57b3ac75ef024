package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	b := cfg.Baseline()
	if b.XMin != 140 || b.XMax != 950 || b.Y != 200 {
		t.Errorf("Baseline = %+v", b)
	}
	p := cfg.LayoutParams()
	if p.Padding != 30 || p.NegativeBias != -40 {
		t.Errorf("LayoutParams = %+v", p)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg.Timeline.Chevron.Count != 40 {
		t.Errorf("chevron count = %d, want 40", cfg.Timeline.Chevron.Count)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := writeFile(t, "timeline.yaml", `
timeline:
  gap: 90
  negative_bias: -25
palette:
  name: green
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Timeline.Gap != 90 || cfg.Timeline.NegativeBias != -25 {
		t.Errorf("timeline = %+v", cfg.Timeline)
	}
	if cfg.Timeline.XMax != 950 {
		t.Errorf("untouched x_max = %v, want default 950", cfg.Timeline.XMax)
	}
	colors, err := cfg.Colors()
	if err != nil || colors[0] != "#F4F269" {
		t.Errorf("Colors() = %v, %v", colors, err)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "timeline.toml", `
[marker]
width = 24
height = 24

[marker.offsets]
title = 12
subtitle = 42
description = 64

[palette.gradient]
from = "#000000"
to = "#ffffff"
steps = 5
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Marker.Width != 24 || cfg.Marker.Offsets.Description != 64 {
		t.Errorf("marker = %+v", cfg.Marker)
	}
	colors, err := cfg.Colors()
	if err != nil {
		t.Fatalf("Colors error: %v", err)
	}
	if len(colors) != 5 || colors[0] != "#000000" || colors[4] != "#ffffff" {
		t.Errorf("gradient colors = %v", colors)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{name: "bad yaml", file: "c.yaml", content: "timeline: [", want: "error parsing config file"},
		{name: "bad toml", file: "c.toml", content: "timeline = ", want: "error parsing config file"},
		{name: "inverted bounds", file: "c.yaml", content: "timeline:\n  x_min: 900\n  x_max: 100\n", want: "x_max"},
		{name: "bad color", file: "c.yaml", content: "timeline:\n  color: white\n", want: "timeline.color"},
		{name: "bad palette entry", file: "c.yaml", content: "palette:\n  colors: ['#fff']\n", want: "palette[0]"},
		{name: "unknown palette", file: "c.yaml", content: "palette:\n  name: mauve\n", want: "unknown palette"},
		{name: "shade out of range", file: "c.yaml", content: "marker:\n  subtitle_shade: 2\n", want: "subtitle_shade"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateWrapsErrInvalid(t *testing.T) {
	cfg := Default()
	cfg.Marker.Width = 0
	if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("Validate() = %v, want ErrInvalid", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "error reading config file") {
		t.Errorf("Load(missing) = %v", err)
	}
}
