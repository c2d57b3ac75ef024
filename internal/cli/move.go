package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newMoveCmd(opts *options) *cobra.Command {
	var (
		id string
		to string
		ro renderOptions
	)
	cmd := &cobra.Command{
		Use:   "move <events-file>",
		Short: "Drag a marker to a new position, as a pointer would",
		Long: `Move runs one drag gesture on a marker. The proposed position is snapped to
the grid and clamped to the corridor around the baseline, then the labels are
flipped if the marker crossed the line. With --output the result is rendered.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, y, err := parsePoint(to)
			if err != nil {
				return err
			}
			s, stories, _, err := opts.load(args[0])
			if err != nil {
				return err
			}

			d, err := s.BeginDrag(id)
			if err != nil {
				return err
			}
			ev := d.Event()
			from, before := ev.Position, ev.Labels.Placement
			p, err := d.Move(x, y)
			if err != nil {
				return err
			}
			d.End()

			fmt.Fprintf(cmd.OutOrStdout(), "%s: (%g, %g) -> (%g, %g), labels %s -> %s\n",
				ev.ID, from.X, from.Y, p.X, p.Y, before, ev.Labels.Placement)

			if ro.output == "" {
				return nil
			}
			path, err := writeScene(cmd, s, stories, &ro, args[0])
			if err != nil {
				return err
			}
			if path != "-" {
				fmt.Fprintf(cmd.OutOrStdout(), "Timeline generated successfully: %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Marker id to drag (required)")
	cmd.Flags().StringVar(&to, "to", "", "Proposed top-left position as x,y (required)")
	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "Render the moved timeline to this file")
	cmd.Flags().StringVarP(&ro.format, "format", "f", "", "Output format: svg or html")
	cmd.Flags().StringVar(&ro.title, "title", "Milestones", "Page title for HTML output")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func parsePoint(s string) (float64, float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid position %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid position %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid position %q: %w", s, err)
	}
	return x, y, nil
}
