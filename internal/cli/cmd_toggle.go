package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newToggleCmd(opts *options) *cobra.Command {
	var subtaskID int64

	cmd := &cobra.Command{
		Use:   "toggle <task-id>",
		Short: "Check or uncheck a task (or one of its subtasks) for today",
		Long: `Flip today's completion of a task.

With --subtask, flips the subtask instead; the parent follows once every
subtask is done. Toggling a parent with subtasks sets all of them.

Example:
  dailytasks toggle 3
  dailytasks toggle 3 --subtask 12`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID(args[0])
			if err != nil {
				return err
			}

			e, err := openEnv(cmd, opts)
			if err != nil {
				return err
			}
			defer e.close()

			user, err := e.requireUser()
			if err != nil {
				return err
			}

			var completed bool
			if subtaskID > 0 {
				completed, err = e.svc.ToggleSubtask(cmd.Context(), user, taskID, subtaskID)
			} else {
				completed, err = e.svc.ToggleTask(cmd.Context(), user, taskID)
			}
			if err != nil {
				return err
			}

			state := "not done"
			if completed {
				state = "done"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %s\n", state)
			return nil
		},
	}

	cmd.Flags().Int64Var(&subtaskID, "subtask", 0, "toggle this subtask instead of the task")

	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
