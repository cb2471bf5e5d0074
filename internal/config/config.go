package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/dori/promanager/internal/agenda"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Config is the application configuration. Values come from an optional
// YAML file, then the environment, then the defaults below.
type Config struct {
	Env string `yaml:"env" env:"PROMANAGER_ENV" env-default:"local"`

	DataDir   string `yaml:"data_dir" env:"PROMANAGER_DATA_DIR"`
	DBPath    string `yaml:"db_path" env:"PROMANAGER_DB_PATH"`
	RemoteURL string `yaml:"remote_url" env:"PROMANAGER_REMOTE_URL"`

	ListenAddr     string        `yaml:"listen_addr" env:"PROMANAGER_LISTEN_ADDR" env-default:"127.0.0.1:7474"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"PROMANAGER_REQUEST_TIMEOUT" env-default:"10s"`

	UpcomingDays        int  `yaml:"upcoming_days" env:"PROMANAGER_UPCOMING_DAYS"`
	CountCompletedToday bool `yaml:"count_completed_today" env:"PROMANAGER_COUNT_COMPLETED_TODAY"`

	Notifications bool   `yaml:"notifications" env:"PROMANAGER_NOTIFICATIONS"`
	Theme         string `yaml:"theme" env:"PROMANAGER_THEME" env-default:"nord"`

	Log LogConfig `yaml:"log"`
}

// LogConfig controls the rotating log file
type LogConfig struct {
	Level      string `yaml:"level" env:"PROMANAGER_LOG_LEVEL" env-default:"info"`
	File       string `yaml:"file" env:"PROMANAGER_LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb" env:"PROMANAGER_LOG_MAX_SIZE_MB" env-default:"10"`
	MaxBackups int    `yaml:"max_backups" env:"PROMANAGER_LOG_MAX_BACKUPS" env-default:"3"`
	MaxAgeDays int    `yaml:"max_age_days" env:"PROMANAGER_LOG_MAX_AGE_DAYS" env-default:"28"`
}

// DefaultDataDir returns the default data directory path
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".promanager"
	}
	return filepath.Join(home, ".local", "share", "promanager")
}

// DefaultConfigPath returns the config file looked up when none is given
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "promanager.yaml"
	}
	return filepath.Join(home, ".config", "promanager", "config.yaml")
}

// Load reads configuration. A .env file in the working directory is loaded
// first when present. A missing config file is not an error; the
// environment and defaults are used instead.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaults()
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("read env: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		var pe *os.PathError
		if !errors.As(err, &pe) {
			return Config{}, fmt.Errorf("read config %q: %w", path, err)
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("read env: %w", err)
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// defaults presets fields whose zero value is meaningful. cleanenv applies
// env-default to any zero field, which would override an explicit false or 0.
func defaults() Config {
	return Config{
		UpcomingDays:        agenda.DefaultUpcomingDays,
		CountCompletedToday: true,
		Notifications:       true,
	}
}

func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir()
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, "promanager.db")
	}
	if c.Log.File == "" {
		c.Log.File = filepath.Join(c.DataDir, "promanager.log")
	}
	c.RemoteURL = strings.TrimSpace(c.RemoteURL)
}

// Validate rejects values the application cannot run with
func (c Config) Validate() error {
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("config: unknown env %q", c.Env)
	}
	if c.UpcomingDays < 0 {
		return fmt.Errorf("config: upcoming_days must not be negative, got %d", c.UpcomingDays)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("config: request_timeout must not be negative, got %s", c.RequestTimeout)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	if c.RemoteURL != "" && !strings.HasPrefix(c.RemoteURL, "http://") && !strings.HasPrefix(c.RemoteURL, "https://") {
		return fmt.Errorf("config: remote_url must be an http(s) URL, got %q", c.RemoteURL)
	}
	return nil
}

// IsRemote reports whether the UI talks to a remote server instead of the
// local store
func (c Config) IsRemote() bool {
	return c.RemoteURL != ""
}
