package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	// Addr is the listen address of the API server (e.g., ":3000").
	Addr string `mapstructure:"addr" yaml:"addr"`

	// RequestTimeoutSec bounds the storage work of a single request.
	RequestTimeoutSec int `mapstructure:"request_timeout_sec" yaml:"request_timeout_sec"`

	// ShutdownTimeoutSec is how long in-flight requests get on shutdown.
	ShutdownTimeoutSec int `mapstructure:"shutdown_timeout_sec" yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig selects and tunes the storage backend.
type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `mapstructure:"driver" yaml:"driver"`

	// DSN is a file path for sqlite or a connection URL for postgres.
	DSN string `mapstructure:"dsn" yaml:"dsn"`

	// MaxOpenConns caps the postgres pool. SQLite always uses one connection.
	MaxOpenConns int `mapstructure:"max_open_conns" yaml:"max_open_conns"`

	// CredentialKey, when set, names the keyring entry holding the DSN.
	CredentialKey string `mapstructure:"credential_key" yaml:"credential_key"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// ClockConfig controls how "today" is determined.
type ClockConfig struct {
	// Timezone is an IANA zone name, or "Local".
	Timezone string `mapstructure:"timezone" yaml:"timezone"`
}

// CLIConfig holds settings for the terminal commands.
type CLIConfig struct {
	// User is the identity the terminal commands act as.
	User string `mapstructure:"user" yaml:"user"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Clock    ClockConfig    `mapstructure:"clock" yaml:"clock"`
	CLI      CLIConfig      `mapstructure:"cli" yaml:"cli"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/dailytasks/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// DefaultDatabasePath returns the default SQLite database location.
func DefaultDatabasePath() string {
	return filepath.Join(configDir(), "dailytasks.db")
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "dailytasks")
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Addr:               ":3000",
			RequestTimeoutSec:  10,
			ShutdownTimeoutSec: 5,
		},
		Database: DatabaseConfig{
			Driver:       "sqlite",
			DSN:          DefaultDatabasePath(),
			MaxOpenConns: 5,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Clock: ClockConfig{
			Timezone: "Local",
		},
	}
}

// setDefaults registers every key so env overrides and partial files
// resolve to sensible values.
func setDefaults(v *viper.Viper) {
	d := DefaultAppConfig()
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.request_timeout_sec", d.Server.RequestTimeoutSec)
	v.SetDefault("server.shutdown_timeout_sec", d.Server.ShutdownTimeoutSec)
	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.dsn", d.Database.DSN)
	v.SetDefault("database.max_open_conns", d.Database.MaxOpenConns)
	v.SetDefault("database.credential_key", "")
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("clock.timezone", d.Clock.Timezone)
	v.SetDefault("cli.user", "")
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// Environment variables prefixed with DAILYTASKS_ override file values
// (e.g., DAILYTASKS_DATABASE_DSN). If the file does not exist, defaults and
// environment overrides are used.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("DAILYTASKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the values that cannot be defaulted.
func (c *AppConfig) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Server.RequestTimeoutSec < 0 || c.Server.ShutdownTimeoutSec < 0 {
		return fmt.Errorf("server timeouts must not be negative")
	}
	return nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("server", cfg.Server)
	v.Set("database", cfg.Database)
	v.Set("log", cfg.Log)
	v.Set("clock", cfg.Clock)
	v.Set("cli", cfg.CLI)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
