package cli

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/dBitech/milestones/internal/data"
	"github.com/dBitech/milestones/internal/render"
	"github.com/dBitech/milestones/internal/scene"
	"github.com/dBitech/milestones/internal/story"
)

type renderOptions struct {
	output string
	format string
	title  string
	watch  bool
}

func newRenderCmd(opts *options) *cobra.Command {
	ro := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render <events-file>",
		Short: "Render a timeline to SVG or HTML",
		Long: `Render lays out every event of a YAML or CSV file and writes the timeline.

The format follows --format, else the output extension (.html for the story
page, .svg otherwise). Outputs ending in .svgz or .gz are gzip-compressed.
Use "-o -" to write to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if !ro.watch {
				return renderOnce(cmd, opts, ro, input)
			}
			return watchAndRender(cmd, opts, ro, input)
		},
	}
	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "Output file (default: input name with the format's extension)")
	cmd.Flags().StringVarP(&ro.format, "format", "f", "", "Output format: svg or html")
	cmd.Flags().StringVar(&ro.title, "title", "Milestones", "Page title for HTML output")
	cmd.Flags().BoolVarP(&ro.watch, "watch", "w", false, "Re-render whenever the input, config or a story file changes")
	return cmd
}

func (ro *renderOptions) resolve(input string) (render.Format, string, error) {
	f := render.FormatSVG
	switch {
	case ro.format != "":
		parsed, err := render.ParseFormat(ro.format)
		if err != nil {
			return "", "", err
		}
		f = parsed
	case ro.output != "" && ro.output != "-":
		f = render.FormatForPath(ro.output)
	}
	return f, render.OutputFilename(input, ro.output, f), nil
}

func renderOnce(cmd *cobra.Command, opts *options, ro *renderOptions, input string) error {
	s, stories, _, err := opts.load(input)
	if err != nil {
		return err
	}
	path, err := writeScene(cmd, s, stories, ro, input)
	if err != nil {
		return err
	}
	if path != "-" {
		fmt.Fprintf(cmd.OutOrStdout(), "Timeline generated successfully: %s (%d events)\n", path, len(s.Events()))
	}
	return nil
}

// writeScene renders s and writes it where ro points, returning the path.
func writeScene(cmd *cobra.Command, s *scene.Scene, stories *story.Registry, ro *renderOptions, input string) (string, error) {
	format, path, err := ro.resolve(input)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := render.Render(&buf, format, s, stories, ro.title); err != nil {
		return "", err
	}
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return path, err
	}
	if err := render.WriteFile(path, buf.Bytes()); err != nil {
		return "", err
	}
	slog.Debug("output written", "path", path, "format", format, "bytes", buf.Len())
	return path, nil
}

// watchAndRender renders once, then again after every change to the input,
// the configuration or a story file until interrupted.
func watchAndRender(cmd *cobra.Command, opts *options, ro *renderOptions, input string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if err := renderOnce(cmd, opts, ro, input); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error starting watcher: %w", err)
	}
	defer watcher.Close()

	watched, err := watchedFiles(opts, input)
	if err != nil {
		return err
	}
	dirs := make(map[string]bool)
	for path := range watched {
		dir := filepath.Dir(path)
		if dirs[dir] {
			continue
		}
		// editors often replace files, so watch the directory
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("error watching %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Watching %d files, press Ctrl+C to stop\n", len(watched))

	return watchLoop(ctx, watcher, watched, func() {
		if err := renderOnce(cmd, opts, ro, input); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	})
}

// watchLoop calls rerender for changes to any watched file, coalescing bursts
// of events that arrive within the settle window.
func watchLoop(ctx context.Context, w *fsnotify.Watcher, watched map[string]bool, rerender func()) error {
	const settle = 100 * time.Millisecond
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !watched[abs] {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				slog.Debug("change detected", "path", abs, "op", ev.Op.String())
				pending = time.After(settle)
			}
		case <-pending:
			pending = nil
			rerender()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "error", err)
		}
	}
}

func watchedFiles(opts *options, input string) (map[string]bool, error) {
	paths := []string{input}
	if opts.configPath != "" {
		paths = append(paths, opts.configPath)
	}
	f, err := data.Load(input)
	if err != nil {
		return nil, err
	}
	for _, ev := range f.Events {
		if ev.StoryFile == "" {
			continue
		}
		p := ev.StoryFile
		if !filepath.IsAbs(p) {
			p = filepath.Join(f.Dir, p)
		}
		paths = append(paths, p)
	}

	watched := make(map[string]bool, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		watched[abs] = true
	}
	return watched, nil
}
