package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nhle/dailytasks/internal/model"
	"github.com/nhle/dailytasks/internal/theme"
)

func newTodayCmd(opts *options) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show the tasks due today",
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
			views, err := e.svc.DueToday(cmd.Context(), user)
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), views)
			}
			printToday(cmd.OutOrStdout(), e.today(), views)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")

	return cmd
}

func printToday(w io.Writer, date string, views []model.TaskView) {
	done := 0
	for _, v := range views {
		if v.Completed {
			done++
		}
	}
	fmt.Fprintf(w, "%s  %s\n\n",
		theme.HeaderStyle.Render("Today "+date),
		theme.PercentStyle(model.TruncatedPercent(done, len(views))).Render(fmt.Sprintf("%d/%d done", done, len(views))),
	)

	if len(views) == 0 {
		fmt.Fprintln(w, "  Nothing scheduled for today.")
		return
	}
	for _, v := range views {
		line := fmt.Sprintf("  %s %-4s %s", theme.Checkbox(v.Completed), "#"+strconv.FormatInt(v.ID, 10), v.Title)
		if v.SubtasksCount > 0 {
			line += theme.HelpStyle.Render(fmt.Sprintf("  %d%% of %d", v.SubtaskCompletion, v.SubtasksCount))
		}
		fmt.Fprintln(w, line)
		for _, st := range v.Subtasks {
			fmt.Fprintf(w, "       %s #%d %s\n", theme.Checkbox(st.Completed), st.ID, st.Title)
		}
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
