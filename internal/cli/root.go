// Package cli wires the milestones commands together.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/dBitech/milestones/internal/config"
	"github.com/dBitech/milestones/internal/data"
	"github.com/dBitech/milestones/internal/scene"
	"github.com/dBitech/milestones/internal/story"
)

// Version is set by the release build via ldflags.
var Version = "dev"

// options are the flags shared by every command.
type options struct {
	configPath string
	debug      bool
	noColor    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "milestones",
		Short: "Lay out and render chevron milestone timelines",
		Long: `milestones places historical milestones along a chevron-patterned timeline
and renders the result as SVG or as an HTML page with clickable detail stories.

Examples:
  milestones render nz.yaml                     # writes nz.svg
  milestones render nz.yaml -o nz.html          # page with story modal
  milestones render nz.yaml -o nz.svgz --watch  # re-render on every edit
  milestones move nz.yaml --id j_5 --to 500,150 # drag a marker
  milestones tui nz.yaml -o nz.svg              # drag markers from the keyboard`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd.ErrOrStderr(), opts.debug)
			if opts.noColor {
				lipgloss.SetColorProfile(termenv.Ascii)
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv(config.EnvConfigPath),
		"YAML or TOML configuration file (default $"+config.EnvConfigPath+")")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug mode for verbose output")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored terminal output")

	root.AddCommand(
		newRenderCmd(opts),
		newListCmd(opts),
		newMoveCmd(opts),
		newTUICmd(opts),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	// a missing .env is normal
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func setupLogging(w io.Writer, debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// load reads the configuration and the events file and builds the scene.
func (o *options) load(input string) (*scene.Scene, *story.Registry, data.File, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, data.File{}, fmt.Errorf("error loading configuration: %w", err)
	}
	slog.Debug("configuration loaded", "path", o.configPath, "chevrons", cfg.Timeline.Chevron.Count)

	f, err := data.Load(input)
	if err != nil {
		return nil, nil, data.File{}, err
	}
	s, stories, err := data.Build(cfg, f)
	if err != nil {
		return nil, nil, data.File{}, err
	}
	return s, stories, f, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "milestones %s\n", Version)
		},
	}
}
