package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort             = 3318
	DefaultDatabaseType     = "sqlite"
	DefaultSnapshotSchedule = "@every 10s"
	DefaultTimezone         = "UTC"
)

type Config struct {
	Port                 int    `yaml:"port"`
	DatabaseURL          string `yaml:"database_url"`
	DatabaseType         string `yaml:"database_type"`
	ParticipantTokenSalt string `yaml:"participant_token_salt"`
	JoinCodeSalt         string `yaml:"join_code_salt"`
	SnapshotSchedule     string `yaml:"snapshot_schedule"`
	Timezone             string `yaml:"timezone"`

	ConfigPath string `yaml:"-"`
	EnvFile    string `yaml:"-"`
}

// Location resolves Timezone. It is validated by ParseFlags.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ParseFlags builds the config from flags, then environment variables
// (including a .env file), then an optional YAML file, then defaults.
func ParseFlags(args []string) (Config, error) {
	var flags Config

	fset := flag.NewFlagSet("huddle", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fset.IntVar(&flags.Port, "p", 0, "Server port")
	fset.StringVar(&flags.DatabaseURL, "d", "", "Database URL")
	fset.StringVar(&flags.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fset.StringVar(&flags.ParticipantTokenSalt, "token-salt", "", "Participant token salt (prefer env)")
	fset.StringVar(&flags.JoinCodeSalt, "code-salt", "", "Join code salt (prefer env)")

	fset.StringVar(&flags.SnapshotSchedule, "snapshot-schedule", "", "Cron schedule for snapshot flushes")
	fset.StringVar(&flags.Timezone, "timezone", "", "IANA timezone for dialog dates")
	fset.StringVar(&flags.ConfigPath, "config", "", "Path to YAML config file")
	fset.StringVar(&flags.EnvFile, "env", ".env", "Path to .env file")

	if err := fset.Parse(args); err != nil {
		return Config{}, err
	}

	// .env never overrides variables already set in the environment
	if err := godotenv.Load(flags.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", flags.EnvFile, err)
	}

	configPath := first(flags.ConfigPath, os.Getenv("CONFIG_PATH"))
	var file Config
	if configPath != "" {
		var err error
		file, err = loadFile(configPath)
		if err != nil {
			return Config{}, err
		}
	}

	cfg := Config{
		DatabaseURL:          first(flags.DatabaseURL, os.Getenv("DATABASE_URL"), file.DatabaseURL),
		DatabaseType:         first(flags.DatabaseType, os.Getenv("DATABASE_TYPE"), file.DatabaseType, DefaultDatabaseType),
		ParticipantTokenSalt: first(flags.ParticipantTokenSalt, os.Getenv("PARTICIPANT_TOKEN_SALT"), file.ParticipantTokenSalt),
		JoinCodeSalt:         first(flags.JoinCodeSalt, os.Getenv("JOIN_CODE_SALT"), file.JoinCodeSalt),
		SnapshotSchedule:     first(flags.SnapshotSchedule, os.Getenv("SNAPSHOT_SCHEDULE"), file.SnapshotSchedule, DefaultSnapshotSchedule),
		Timezone:             first(flags.Timezone, os.Getenv("TIMEZONE"), file.Timezone, DefaultTimezone),
		ConfigPath:           configPath,
		EnvFile:              flags.EnvFile,
	}

	cfg.Port = flags.Port
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else if file.Port != 0 {
			cfg.Port = file.Port
		} else {
			cfg.Port = DefaultPort
		}
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	// Secrets - MUST be provided
	if cfg.ParticipantTokenSalt == "" {
		return Config{}, errors.New("PARTICIPANT_TOKEN_SALT required")
	}
	if cfg.JoinCodeSalt == "" {
		return Config{}, errors.New("JOIN_CODE_SALT required")
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return Config{}, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	return cfg, nil
}

func loadFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// first returns the first non-empty value
func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
