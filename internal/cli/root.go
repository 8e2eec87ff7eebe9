// Package cli implements the dailytasks command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/nhle/dailytasks/internal/model"
)

// options holds the global flags shared by every subcommand.
type options struct {
	cfgFile string
	user    string
	date    string
	verbose bool
}

// Execute builds the command tree and runs it against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd returns a fresh command tree. Each call gets its own flag
// state so tests can run commands side by side.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "dailytasks",
		Short: "Recurring daily task tracker",
		Long: `dailytasks tracks tasks that repeat on chosen weekdays.

Each day shows the tasks scheduled for it. Checking off every subtask
completes the parent; completing the parent checks every subtask.

Quick start:
  dailytasks config init                 Create a config with a user id
  dailytasks add "Gym" --days mon,wed    Create a recurring task
  dailytasks today                       Show what is due today
  dailytasks toggle 1                    Check a task off
  dailytasks stats                       Heatmap and streaks
  dailytasks serve                       Start the HTTP API`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default is ~/.config/dailytasks/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.user, "user", "", "user id to act as (overrides cli.user)")
	cmd.PersistentFlags().StringVar(&opts.date, "date", "", "treat this YYYY-MM-DD as today")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newTodayCmd(opts))
	cmd.AddCommand(newToggleCmd(opts))
	cmd.AddCommand(newAddCmd(opts))
	cmd.AddCommand(newEditCmd(opts))
	cmd.AddCommand(newArchiveCmd(opts))
	cmd.AddCommand(newDeleteCmd(opts))
	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newStatsCmd(opts))
	cmd.AddCommand(newExportCmd(opts))
	cmd.AddCommand(newImportCmd(opts))
	cmd.AddCommand(newTUICmd(opts))
	cmd.AddCommand(newConfigCmd(opts))
	cmd.AddCommand(newDBCmd(opts))
	cmd.AddCommand(newMigrateCmd(opts))

	return cmd
}

func (o *options) configPath() string {
	if o.cfgFile != "" {
		return o.cfgFile
	}
	return model.DefaultConfigPath()
}
