package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/dailytasks/internal/theme"
)

func newStatsCmd(opts *options) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the 30-day heatmap and completion summary",
		Args:  cobra.NoArgs,
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
			stats, err := e.svc.Stats(cmd.Context(), user)
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), stats)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, theme.HeaderStyle.Render("Last 30 days"))
			fmt.Fprintln(w, theme.RenderHeatmap(stats.History))
			fmt.Fprintln(w)
			fmt.Fprintln(w, theme.RenderSummary(stats.Summary))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")

	return cmd
}
