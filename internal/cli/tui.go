package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dBitech/milestones/internal/scene"
	"github.com/dBitech/milestones/internal/tui"
)

func newTUICmd(opts *options) *cobra.Command {
	ro := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "tui <events-file>",
		Short: "Drag markers interactively from the keyboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, stories, _, err := opts.load(args[0])
			if err != nil {
				return err
			}

			var save tui.SaveFunc
			if ro.output != "" && ro.output != "-" {
				save = func(s *scene.Scene) (string, error) {
					return writeScene(cmd, s, stories, ro, args[0])
				}
			}

			p := tea.NewProgram(tui.NewModel(s, save), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "File written when pressing s")
	cmd.Flags().StringVarP(&ro.format, "format", "f", "", "Output format: svg or html")
	cmd.Flags().StringVar(&ro.title, "title", "Milestones", "Page title for HTML output")
	return cmd
}
