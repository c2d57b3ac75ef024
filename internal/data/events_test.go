package data

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dBitech/milestones/internal/config"
	"github.com/dBitech/milestones/internal/layout"
	"github.com/dBitech/milestones/internal/marker"
)

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const sampleYAML = `
start_label: "New Zealand\nMilestones"
events:
  - id: j_5
    offset: 50
    title: 1250-1300 AD
    subtitle: Polynesian Settlement
    description: The first Polynesians arrived in New Zealand.
    story_file: stories/settlement.md
  - id: j_7
    offset: -100
    title: "1642"
    subtitle: Arrival of Abel Tasman
    story: "Abel Tasman was a **Dutch** explorer."
  - offset: 100
    index: 5
    color: "#ff0000"
    title: 1769-1777
`

func TestLoadYAMLAndBuild(t *testing.T) {
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, "stories"), 0755)
	write(t, dir, "stories/settlement.md", "# Discovery and migration\n")
	path := write(t, dir, "nz.yaml", sampleYAML)

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(f.Events) != 3 || f.Dir != dir {
		t.Fatalf("Load = %d events, dir %q", len(f.Events), f.Dir)
	}

	s, stories, err := Build(config.Default(), f)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if s.Start().Label != "New Zealand\nMilestones" {
		t.Errorf("start label = %q", s.Start().Label)
	}

	events := s.Events()
	if events[0].Story != "j_5" || events[1].Story != "j_7" || events[2].Story != "" {
		t.Errorf("stories = %q %q %q", events[0].Story, events[1].Story, events[2].Story)
	}
	if events[1].Labels.Placement != marker.PlacementAbove {
		t.Errorf("j_7 placement = %v", events[1].Labels.Placement)
	}
	if events[2].Position != (layout.Point{X: 520, Y: 300}) || events[2].Color != "#ff0000" {
		t.Errorf("third event = %+v", events[2])
	}
	if events[2].ID != "event-3" {
		t.Errorf("generated id = %q", events[2].ID)
	}

	first, _ := stories.Get("j_5")
	if !strings.Contains(string(first), "Discovery and migration") {
		t.Errorf("story file not loaded: %q", first)
	}
	second, _ := stories.Get("j_7")
	if !strings.Contains(string(second), "<strong>Dutch</strong>") {
		t.Errorf("inline story = %q", second)
	}
}

func TestLoadCSV(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, "events.csv", `ID,Offset,Title,Subtitle,Description,Index
a,50,1840,Treaty of Waitangi,"Signed between the Crown and Maori chiefs",3
b,-50,1893,Women's Suffrage,,
`)
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(f.Events) != 2 {
		t.Fatalf("events = %d", len(f.Events))
	}
	a, b := f.Events[0], f.Events[1]
	if a.ID != "a" || a.Offset != 50 || a.Index == nil || *a.Index != 3 {
		t.Errorf("a = %+v", a)
	}
	if b.Offset != -50 || b.Index != nil || b.Subtitle != "Women's Suffrage" {
		t.Errorf("b = %+v", b)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{name: "no title column", file: "a.csv", content: "id,offset\na,1\n", want: "title column not found"},
		{name: "bad offset", file: "b.csv", content: "title,offset\nx,up\n", want: "invalid offset"},
		{name: "bad index", file: "c.csv", content: "title,index\nx,first\n", want: "invalid index"},
		{name: "bad yaml", file: "d.yaml", content: "events: [", want: "error parsing events file"},
		{name: "empty", file: "e.yaml", content: "events: []\n", want: "no events found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(write(t, dir, tt.file, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load error = %v, want mention of %q", err, tt.want)
			}
		})
	}

	if _, err := Load(write(t, dir, "f.yaml", "events: []\n")); !errors.Is(err, ErrNoEvents) {
		t.Errorf("expected ErrNoEvents, got %v", err)
	}
}

func TestBuildErrors(t *testing.T) {
	f := File{Events: []Event{{ID: "a", Title: "x"}, {ID: "a", Title: "y"}}}
	if _, _, err := Build(config.Default(), f); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("duplicate ids: %v", err)
	}

	f = File{Dir: t.TempDir(), Events: []Event{{ID: "a", StoryFile: "missing.md"}}}
	if _, _, err := Build(config.Default(), f); err == nil {
		t.Error("missing story file accepted")
	}
}
