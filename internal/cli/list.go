package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dBitech/milestones/internal/scene"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	storyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list <events-file>",
		Short: "Show where every marker lands and which side its labels are on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, _, err := opts.load(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			writeList(out, s, terminalWidth(out), isTerminal(out) && !opts.noColor)
			return nil
		},
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok && isTerminal(w) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return 100
}

// writeList prints one row per marker. Colors are only used on terminals.
func writeList(w io.Writer, s *scene.Scene, width int, color bool) {
	subtitleWidth := width - 62
	if subtitleWidth < 10 {
		subtitleWidth = 10
	}

	header := fmt.Sprintf("  %-12s %-14s %7s %7s  %-6s %-7s  %s", "ID", "TITLE", "X", "Y", "LABELS", "COLOR", "SUBTITLE")
	if color {
		header = headerStyle.Render(header)
	}
	fmt.Fprintln(w, header)

	for _, ev := range s.Events() {
		swatch := " "
		if color {
			swatch = lipgloss.NewStyle().Foreground(lipgloss.Color(ev.Color)).Render("●")
		}
		subtitle := runewidth.Truncate(strings.ReplaceAll(ev.Labels.Subtitle.Text, "\n", " "), subtitleWidth, "…")
		if ev.Story != "" {
			mark := "[story]"
			if color {
				mark = storyStyle.Render(mark)
			}
			subtitle += " " + mark
		}
		fmt.Fprintf(w, "%s %-12s %-14s %7g %7g  %-6s %-7s  %s\n",
			swatch,
			runewidth.Truncate(ev.ID, 12, "…"),
			runewidth.Truncate(ev.Labels.Title.Text, 14, "…"),
			ev.Position.X, ev.Position.Y,
			ev.Labels.Placement, ev.Color, subtitle)
	}

	b := s.Baseline()
	fmt.Fprintf(w, "\nbaseline y=%g from x=%g to x=%g, %d chevrons\n", b.Y, b.XMin, b.XMax, len(s.Chevrons()))
}
