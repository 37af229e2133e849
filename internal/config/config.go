// Package config resolves runtime settings from defaults, a YAML file, a .env
// file, TASKTIMER_* environment variables and command-line flags, in that
// order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

const fileMode = 0o600

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"

	DefaultTickInterval    = 500 * time.Millisecond
	DefaultSchedulerBuffer = 64
	ConfigFileName         = "config.yml"
	DatabaseFileName       = "tasktimer.db"
)

var (
	ErrNotFound = errors.New("config: file not found")
	ErrInvalid  = errors.New("config: invalid config")
)

type Config struct {
	DataDir              string        `yaml:"data_dir"`
	Backend              string        `yaml:"backend"`
	TickInterval         time.Duration `yaml:"tick_interval"`
	SchedulerBuffer      int           `yaml:"scheduler_buffer"`
	DesktopNotifications bool          `yaml:"desktop_notifications"`
	DiscordWebhookURL    string        `yaml:"discord_webhook_url,omitempty"`
	Watch                bool          `yaml:"watch"`
	ConfirmDestructive   bool          `yaml:"confirm_destructive"`
	LogFile              string        `yaml:"log_file,omitempty"`
	Debug                bool          `yaml:"debug,omitempty"`
}

func Default() Config {
	dir := defaultDataDir()
	return Config{
		DataDir:              dir,
		Backend:              BackendSQLite,
		TickInterval:         DefaultTickInterval,
		SchedulerBuffer:      DefaultSchedulerBuffer,
		DesktopNotifications: false,
		Watch:                true,
		ConfirmDestructive:   true,
		LogFile:              filepath.Join(dir, "tasktimer.log"),
	}
}

func defaultDataDir() string {
	if base, err := os.UserConfigDir(); err == nil && base != "" {
		return filepath.Join(base, "tasktimer")
	}
	return ".tasktimer"
}

// DefaultPath is the config file looked up when none is given explicitly.
func DefaultPath() string {
	return filepath.Join(defaultDataDir(), ConfigFileName)
}

func (c Config) Validate() error {
	switch c.Backend {
	case BackendSQLite, BackendFile, BackendMemory:
	default:
		return fmt.Errorf("%w: unknown backend %q (want sqlite, file or memory)", ErrInvalid, c.Backend)
	}
	if c.Backend != BackendMemory && strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("%w: data_dir is required for the %s backend", ErrInvalid, c.Backend)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("%w: tick_interval must be positive", ErrInvalid)
	}
	if c.SchedulerBuffer <= 0 {
		return fmt.Errorf("%w: scheduler_buffer must be positive", ErrInvalid)
	}
	return nil
}

func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, DatabaseFileName)
}

// LoadFile overlays the YAML file at path on base. Keys absent from the file
// keep their base value.
func LoadFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the user
	if err != nil {
		if os.IsNotExist(err) {
			return base, ErrNotFound
		}
		return base, fmt.Errorf("config: reading %s: %w", path, err)
	}
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshaling: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: creating dir: %w", err)
	}
	return os.WriteFile(path, data, fileMode)
}
