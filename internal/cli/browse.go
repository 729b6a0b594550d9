package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/repertree/repertree/pkg/pgn"
)

// browseCommand creates the browse command, an interactive navigator over
// the converted move tree.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse FILE",
		Short: "Browse the move tree interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, res, err := c.convertFile(cmd, args[0])
			if err != nil {
				return err
			}
			start, err := pgn.StartPly(rep.StartingFEN)
			if err != nil {
				return err
			}
			title := rep.Name
			if title == "" {
				title = rep.ID
			}

			model := NewTreeModel(title, res, start)
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
}
