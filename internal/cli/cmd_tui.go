package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhle/dailytasks/internal/ui/today"
)

func newTUICmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive checklist for today",
		Long: `Open today's checklist.

Keys: j/k move, space toggles, enter expands subtasks, J/K reorder,
r refreshes, ? shows help, q quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, opts)
			if err != nil {
				return err
			}
			defer e.close()

			user, err := e.requireUser()
			if err != nil {
				return err
			}

			p := tea.NewProgram(today.New(e.svc, user, e.today()), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}
