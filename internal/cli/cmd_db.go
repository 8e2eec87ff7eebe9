package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/dailytasks/internal/credential"
	"github.com/nhle/dailytasks/internal/model"
)

const defaultCredentialKey = "database-dsn"

func newDBCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the database connection",
	}

	cmd.AddCommand(newDBSetDSNCmd(opts))
	cmd.AddCommand(newDBClearDSNCmd(opts))

	return cmd
}

func newDBSetDSNCmd(opts *options) *cobra.Command {
	var (
		key    string
		driver string
	)

	cmd := &cobra.Command{
		Use:   "set-dsn [dsn]",
		Short: "Store the database DSN in the system keyring",
		Long: `Store the database DSN in the system keyring and point the config at it.

The DSN is read from stdin when not given as an argument, so it does not
end up in shell history.

Example:
  echo "postgres://app:secret@db/dailytasks" | dailytasks db set-dsn --driver postgres`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var dsn string
			if len(args) == 1 {
				dsn = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read dsn from stdin: %w", err)
				}
				dsn = line
			}
			dsn = strings.TrimSpace(dsn)
			if dsn == "" {
				return fmt.Errorf("dsn is empty")
			}

			if err := credential.Set(key, dsn); err != nil {
				return err
			}

			path := opts.configPath()
			cfg, err := model.LoadConfig(path)
			if err != nil {
				return err
			}
			cfg.Database.CredentialKey = key
			if driver != "" {
				cfg.Database.Driver = driver
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := model.SaveConfig(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored DSN under keyring key %q\n", key)
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", defaultCredentialKey, "keyring entry name")
	cmd.Flags().StringVar(&driver, "driver", "", "also switch database.driver (sqlite, postgres)")

	return cmd
}

func newDBClearDSNCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-dsn",
		Short: "Remove the keyring DSN and fall back to database.dsn",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath()
			cfg, err := model.LoadConfig(path)
			if err != nil {
				return err
			}
			if cfg.Database.CredentialKey == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No keyring DSN configured")
				return nil
			}
			if err := credential.Delete(cfg.Database.CredentialKey); err != nil {
				return err
			}
			cfg.Database.CredentialKey = ""
			if err := model.SaveConfig(path, cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Removed keyring DSN")
			return nil
		},
	}
}
