package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nhle/dailytasks/internal/clock"
	"github.com/nhle/dailytasks/internal/credential"
	"github.com/nhle/dailytasks/internal/logging"
	"github.com/nhle/dailytasks/internal/model"
	"github.com/nhle/dailytasks/internal/store"
	"github.com/nhle/dailytasks/internal/tracker"
)

var errNoUser = errors.New("no user configured: run `dailytasks config init` or pass --user")

// env is everything a command needs once config has been resolved.
type env struct {
	cfg    *model.AppConfig
	logger *slog.Logger
	store  *store.SQLStore
	svc    *tracker.Service
	clock  clock.Clock
	user   string
}

// loadConfig reads the config file and builds the logger. It does not touch
// the database.
func loadConfig(cmd *cobra.Command, opts *options) (*model.AppConfig, *slog.Logger, error) {
	cfg, err := model.LoadConfig(opts.configPath())
	if err != nil {
		return nil, nil, err
	}
	if opts.verbose {
		cfg.Log.Level = "debug"
	}
	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("configuring logger: %w", err)
	}
	return cfg, logger, nil
}

// openStore connects to the configured database, resolving the DSN from the
// keyring when a credential key is set. Migrations run on open.
func openStore(cfg *model.AppConfig) (*store.SQLStore, error) {
	dsn, err := credential.ResolveDSN(cfg.Database)
	if err != nil {
		return nil, err
	}
	dbCfg := cfg.Database
	dbCfg.DSN = dsn
	return store.Open(dbCfg)
}

// newClock honours --date before falling back to the configured zone.
func newClock(cfg *model.AppConfig, opts *options) (clock.Clock, error) {
	if opts.date != "" {
		day, err := parseDate(opts.date)
		if err != nil {
			return nil, err
		}
		return clock.Fixed(day), nil
	}
	return clock.NewSystem(cfg.Clock.Timezone)
}

// openEnv loads config, opens the store and builds the tracker service.
// Callers must call close.
func openEnv(cmd *cobra.Command, opts *options) (*env, error) {
	cfg, logger, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}

	clk, err := newClock(cfg, opts)
	if err != nil {
		return nil, err
	}

	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("opened store", "driver", cfg.Database.Driver)

	user := opts.user
	if user == "" {
		user = cfg.CLI.User
	}

	return &env{
		cfg:    cfg,
		logger: logger,
		store:  st,
		svc:    tracker.NewService(st, clk, logger),
		clock:  clk,
		user:   user,
	}, nil
}

// requireUser returns the acting user, validated the same way the API
// validates the identity header.
func (e *env) requireUser() (string, error) {
	if e.user == "" {
		return "", errNoUser
	}
	if _, err := uuid.Parse(e.user); err != nil {
		return "", fmt.Errorf("invalid user id %q: %w", e.user, err)
	}
	return e.user, nil
}

func (e *env) today() string {
	return clock.DateKey(e.clock.Today())
}

func (e *env) close() {
	if err := e.store.Close(); err != nil {
		e.logger.Warn("closing store", "error", err)
	}
}

func parseDate(s string) (day time.Time, err error) {
	day, err = time.Parse(clock.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: want YYYY-MM-DD", s)
	}
	return day, nil
}
