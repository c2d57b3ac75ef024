package render

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/dBitech/milestones/internal/scene"
	"github.com/dBitech/milestones/internal/story"
)

// Format is an output document type.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatHTML Format = "html"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatSVG:
		return FormatSVG, nil
	case FormatHTML, "htm":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unknown output format %q (want svg or html)", s)
}

// FormatForPath guesses the format from an output file name; compressed
// suffixes are looked through.
func FormatForPath(path string) Format {
	ext := strings.ToLower(filepath.Ext(trimCompressed(path)))
	if ext == ".html" || ext == ".htm" {
		return FormatHTML
	}
	return FormatSVG
}

// Render writes the scene in the requested format.
func Render(w io.Writer, f Format, s *scene.Scene, stories *story.Registry, title string) error {
	switch f {
	case FormatHTML:
		return HTML(w, s, stories, title)
	case FormatSVG, "":
		clickable := make(map[string]bool)
		for _, ev := range s.Events() {
			if ev.Story != "" {
				clickable[ev.ID] = true
			}
		}
		_, err := io.WriteString(w, SVG(s, SVGOptions{XMLHeader: true, Clickable: clickable}))
		return err
	}
	return fmt.Errorf("unknown output format %q", f)
}

// OutputFilename determines the output filename. If output is empty it is
// derived from the input file by replacing the extension (e.g. "nz.yaml"
// becomes "nz.svg").
func OutputFilename(input, output string, f Format) string {
	if output != "" {
		return output
	}
	base := filepath.Base(input)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "." + string(f)
}

// WriteFile writes content to path, gzip-compressing it when the name ends
// in .svgz or .gz.
func WriteFile(path string, content []byte) error {
	if !compressed(path) {
		if err := os.WriteFile(path, content, 0644); err != nil {
			return fmt.Errorf("error writing output file: %w", err)
		}
		return nil
	}

	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return err
	}
	zw.Name = filepath.Base(trimCompressed(path))
	if _, err := zw.Write(content); err != nil {
		return fmt.Errorf("error compressing output: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("error compressing output: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("error writing output file: %w", err)
	}
	return nil
}

func compressed(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".svgz" || ext == ".gz"
}

func trimCompressed(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return strings.TrimSuffix(path, filepath.Ext(path))
	case ".svgz":
		return strings.TrimSuffix(path, filepath.Ext(path)) + ".svg"
	}
	return path
}
