// Package data reads milestone lists from YAML or CSV and assembles them into
// a scene plus its story registry.
package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dBitech/milestones/internal/config"
	"github.com/dBitech/milestones/internal/scene"
	"github.com/dBitech/milestones/internal/story"
)

// ErrNoEvents is returned for an input without a single milestone.
var ErrNoEvents = errors.New("no events found")

// Event is one milestone as written in an input file.
type Event struct {
	ID          string  `yaml:"id"`
	Index       *int    `yaml:"index"` // Position along the line, defaults to list order
	Offset      float64 `yaml:"offset"`
	Color       string  `yaml:"color"`
	Title       string  `yaml:"title"`
	Subtitle    string  `yaml:"subtitle"`
	Description string  `yaml:"description"`
	Story       string  `yaml:"story"`      // Inline Markdown story
	StoryFile   string  `yaml:"story_file"` // Markdown or HTML file, relative to the input file
}

// File is a parsed input file.
type File struct {
	StartLabel string  `yaml:"start_label"`
	Events     []Event `yaml:"events"`

	// Dir is the directory story files are resolved against.
	Dir string `yaml:"-"`
}

// Load reads events from path, choosing the format by extension.
func Load(path string) (File, error) {
	var (
		f   File
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		f, err = LoadCSV(path)
	} else {
		f, err = LoadYAML(path)
	}
	if err != nil {
		return File{}, err
	}
	if len(f.Events) == 0 {
		return File{}, fmt.Errorf("%w in %s", ErrNoEvents, path)
	}
	f.Dir = filepath.Dir(path)
	return f, nil
}

// LoadYAML reads a YAML events file.
func LoadYAML(path string) (File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("error reading events file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return File{}, fmt.Errorf("error parsing events file: %w", err)
	}
	return f, nil
}

// LoadCSV reads a CSV events file. Column names are matched
// case-insensitively; only "title" is required.
func LoadCSV(path string) (File, error) {
	file, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer file.Close()
	return parseCSV(file)
}

func parseCSV(r io.Reader) (File, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return File{}, fmt.Errorf("error reading CSV header: %w", err)
	}
	columns := make(map[string]int)
	for i, col := range header {
		columns[strings.ToLower(strings.TrimSpace(col))] = i
	}
	if _, ok := columns["title"]; !ok {
		return File{}, fmt.Errorf("title column not found in CSV. Available columns: %v", header)
	}

	var f File
	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return File{}, fmt.Errorf("error reading CSV: %w", err)
		}
		get := func(name string) string {
			if i, ok := columns[name]; ok && i < len(record) {
				return strings.TrimSpace(record[i])
			}
			return ""
		}

		ev := Event{
			ID:          get("id"),
			Color:       get("color"),
			Title:       get("title"),
			Subtitle:    get("subtitle"),
			Description: get("description"),
			StoryFile:   get("story_file"),
		}
		if v := get("offset"); v != "" {
			if ev.Offset, err = strconv.ParseFloat(v, 64); err != nil {
				return File{}, fmt.Errorf("row %d: invalid offset %q: %w", row, v, err)
			}
		}
		if v := get("index"); v != "" {
			idx, err := strconv.Atoi(v)
			if err != nil {
				return File{}, fmt.Errorf("row %d: invalid index %q: %w", row, v, err)
			}
			ev.Index = &idx
		}
		f.Events = append(f.Events, ev)
	}
	return f, nil
}

// Build places every event of f on a new scene and registers their stories.
func Build(cfg config.Config, f File) (*scene.Scene, *story.Registry, error) {
	s, err := scene.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	if f.StartLabel != "" {
		s.SetStartLabel(f.StartLabel)
	}

	stories := story.NewRegistry()
	for i, e := range f.Events {
		index := i
		if e.Index != nil {
			index = *e.Index
		}
		spec := scene.EventSpec{
			ID:          e.ID,
			Index:       index,
			Offset:      e.Offset,
			Color:       e.Color,
			Title:       e.Title,
			Subtitle:    e.Subtitle,
			Description: e.Description,
		}
		ev, err := s.AddEvent(spec)
		if err != nil {
			return nil, nil, fmt.Errorf("event %d: %w", i+1, err)
		}

		switch {
		case e.StoryFile != "":
			path := e.StoryFile
			if !filepath.IsAbs(path) {
				path = filepath.Join(f.Dir, path)
			}
			if err := stories.LoadFile(ev.ID, path); err != nil {
				return nil, nil, fmt.Errorf("event %s: %w", ev.ID, err)
			}
			ev.Story = ev.ID
		case e.Story != "":
			if err := stories.SetMarkdown(ev.ID, e.Story); err != nil {
				return nil, nil, err
			}
			ev.Story = ev.ID
		}
	}
	slog.Debug("scene built", "events", len(f.Events), "stories", stories.Len())
	return s, stories, nil
}
