// Package config loads the lurker configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "LURKER_CONFIG"

// DefaultPath is used when EnvPath is unset.
const DefaultPath = "config/lurker.yaml"

// Storage backends.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Lurker holds all configuration of the bot.
type Lurker struct {
	LogLevel  string `yaml:"log_level"`  // debug|info|warn|error
	LogFormat string `yaml:"log_format"` // text|json

	Storage      Storage      `yaml:"storage"`
	HTTP         HTTP         `yaml:"http"`
	Game         Game         `yaml:"game"`
	Housekeeping Housekeeping `yaml:"housekeeping"`
}

// Storage selects where sessions live.
type Storage struct {
	Backend    string         `yaml:"backend"`
	Dir        string         `yaml:"dir"`         // file backend
	SQLitePath string         `yaml:"sqlite_path"` // sqlite backend
	Database   DatabaseConfig `yaml:"database"`    // postgres backend
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// HTTP configures the JSON API.
type HTTP struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Game holds gameplay tuning.
type Game struct {
	EnergyMax     int `yaml:"energy_max"`
	EnergyCost    int `yaml:"energy_cost"`
	PortalCost    int `yaml:"portal_cost"`
	ShardXPReward int `yaml:"shard_xp_reward"`
	QuestXPReward int `yaml:"quest_xp_reward"`
}

// Housekeeping configures background maintenance.
type Housekeeping struct {
	SweepSchedule string        `yaml:"sweep_schedule"` // standard 5-field cron spec
	IdleAfter     time.Duration `yaml:"idle_after"`
}

// Default returns the configuration with sensible defaults.
func Default() Lurker {
	return Lurker{
		LogLevel:  "info",
		LogFormat: "text",
		Storage: Storage{
			Backend:    BackendFile,
			Dir:        "data/sessions",
			SQLitePath: "data/lurker.db",
			Database: DatabaseConfig{
				Host:     "127.0.0.1",
				Port:     5432,
				User:     "lurker",
				Password: "lurker",
				DBName:   "lurker",
				SSLMode:  "disable",
			},
		},
		HTTP: HTTP{
			Addr:            "127.0.0.1:8080",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Game: Game{
			EnergyMax:     5,
			EnergyCost:    1,
			PortalCost:    13,
			ShardXPReward: 1,
			QuestXPReward: 1,
		},
		Housekeeping: Housekeeping{
			SweepSchedule: "*/10 * * * *",
			IdleAfter:     30 * time.Minute,
		},
	}
}

// Path returns the config path from the environment, or DefaultPath.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

// Load loads the config from a YAML file.
// If the file doesn't exist, returns defaults.
func Load(path string) (Lurker, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the config for values the bot cannot run with.
func (c Lurker) Validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalid, c.LogFormat)
	}

	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.Dir == "" {
			return fmt.Errorf("%w: storage.dir is empty", ErrInvalid)
		}
	case BackendSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("%w: storage.sqlite_path is empty", ErrInvalid)
		}
	case BackendPostgres:
		if c.Storage.Database.Host == "" || c.Storage.Database.DBName == "" {
			return fmt.Errorf("%w: storage.database needs host and dbname", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: storage.backend %q", ErrInvalid, c.Storage.Backend)
	}

	for name, v := range map[string]int{
		"energy_max":      c.Game.EnergyMax,
		"energy_cost":     c.Game.EnergyCost,
		"portal_cost":     c.Game.PortalCost,
		"shard_xp_reward": c.Game.ShardXPReward,
		"quest_xp_reward": c.Game.QuestXPReward,
	} {
		if v <= 0 {
			return fmt.Errorf("%w: game.%s must be positive, got %d", ErrInvalid, name, v)
		}
	}

	if _, err := cron.ParseStandard(c.Housekeeping.SweepSchedule); err != nil {
		return fmt.Errorf("%w: housekeeping.sweep_schedule: %v", ErrInvalid, err)
	}
	if c.Housekeeping.IdleAfter <= 0 {
		return fmt.Errorf("%w: housekeeping.idle_after must be positive", ErrInvalid)
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c Lurker) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
}
