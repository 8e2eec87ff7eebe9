package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/dailytasks/internal/model"
	"github.com/nhle/dailytasks/internal/theme"
	"github.com/nhle/dailytasks/internal/tracker"
	"github.com/nhle/dailytasks/internal/ui/taskform"
)

var dayNames = map[string]int{
	"mon": model.Monday, "tue": model.Tuesday, "wed": model.Wednesday,
	"thu": model.Thursday, "fri": model.Friday, "sat": model.Saturday,
	"sun": model.Sunday,
}

// parseDays accepts ISO numbers or three-letter names, plus the shorthands
// "daily", "weekdays" and "weekends".
func parseDays(values []string) ([]int, error) {
	var days []int
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		switch v {
		case "":
			continue
		case "daily":
			days = append(days, 1, 2, 3, 4, 5, 6, 7)
			continue
		case "weekdays":
			days = append(days, 1, 2, 3, 4, 5)
			continue
		case "weekends":
			days = append(days, 6, 7)
			continue
		}
		if d, ok := dayNames[v[:min(len(v), 3)]]; ok && len(v) >= 3 {
			days = append(days, d)
			continue
		}
		d, err := strconv.Atoi(v)
		if err != nil || !model.ValidWeekday(d) {
			return nil, fmt.Errorf("invalid day %q: use 1-7 or mon..sun", v)
		}
		days = append(days, d)
	}
	return model.NormalizeDays(days), nil
}

func newAddCmd(opts *options) *cobra.Command {
	var (
		days     []string
		subtasks []string
		form     bool
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Create a recurring task",
		Long: `Create a recurring task.

Without a title, or with --form, an interactive form is shown.

Example:
  dailytasks add "Gym" --days mon,wed,fri
  dailytasks add "Report" --days weekdays --subtask draft --subtask send
  dailytasks add --form`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseDays(days)
			if err != nil {
				return err
			}
			in := tracker.CreateTaskInput{Days: parsed, Subtasks: subtasks}
			if len(args) == 1 {
				in.Title = args[0]
			}

			if form || in.Title == "" {
				in, err = taskform.Prompt(in)
				if errors.Is(err, huh.ErrUserAborted) {
					return nil
				}
				if err != nil {
					return err
				}
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
			task, err := e.svc.CreateTask(cmd.Context(), user, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created #%d %s (%s)\n", task.ID, task.Title, taskform.FormatDays(task.Days))
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&days, "days", "d", nil, "weekdays to repeat on (1-7, mon..sun, daily, weekdays, weekends)")
	cmd.Flags().StringArrayVarP(&subtasks, "subtask", "s", nil, "subtask title (repeatable)")
	cmd.Flags().BoolVar(&form, "form", false, "use the interactive form")

	return cmd
}

func newEditCmd(opts *options) *cobra.Command {
	var (
		title    string
		days     []string
		subtasks []string
	)

	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Change a task's title, days or subtasks",
		Long: `Change a task. Only the flags given are applied.

--subtask replaces the whole subtask list; pass --subtask "" to clear it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var in tracker.UpdateTaskInput
			if cmd.Flags().Changed("title") {
				in.Title = &title
			}
			if cmd.Flags().Changed("days") {
				parsed, err := parseDays(days)
				if err != nil {
					return err
				}
				in.Days = &parsed
			}
			if cmd.Flags().Changed("subtask") {
				in.Subtasks = &subtasks
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
			task, err := e.svc.UpdateTask(cmd.Context(), user, id, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated #%d %s (%s)\n", task.ID, task.Title, taskform.FormatDays(task.Days))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringSliceVarP(&days, "days", "d", nil, "new recurrence set")
	cmd.Flags().StringArrayVarP(&subtasks, "subtask", "s", nil, "replacement subtask title (repeatable)")

	return cmd
}

func newArchiveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <task-id>",
		Short: "Archive a task, or restore an archived one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
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
			active, err := e.svc.ToggleArchive(cmd.Context(), user, id)
			if err != nil {
				return err
			}
			if active {
				fmt.Fprintf(cmd.OutOrStdout(), "Restored #%d\n", id)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Archived #%d\n", id)
			}
			return nil
		},
	}
}

func newDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
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
			if err := e.svc.DeleteTask(cmd.Context(), user, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted #%d\n", id)
			return nil
		},
	}
}

func newListCmd(opts *options) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every task, including archived ones",
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
			tasks, err := e.svc.AllTasks(cmd.Context(), user)
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), tasks)
			}
			printTasks(cmd.OutOrStdout(), tasks)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")

	return cmd
}

func printTasks(w io.Writer, tasks []model.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks yet. Create one with `dailytasks add`.")
		return
	}
	for _, t := range tasks {
		title := t.Title
		if !t.Active {
			title = theme.DoneStyle.Render(title + " (archived)")
		}
		fmt.Fprintf(w, "#%-4d %-30s %s", t.ID, title, taskform.FormatDays(t.Days))
		if n := len(t.Subtasks); n > 0 {
			fmt.Fprintf(w, "  [%d subtasks]", n)
		}
		fmt.Fprintln(w)
	}
}
