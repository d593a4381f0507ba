package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration. Values come from
// the YAML config file, then CALBOOK_* environment variables override
// individual fields.
type Config struct {
	// DataPath is the JSON file holding the event store.
	DataPath string `yaml:"data_path" env:"CALBOOK_DATA_PATH"`

	// HorizonMonths bounds recurrence expansion for events without an
	// explicit end date.
	HorizonMonths int `yaml:"horizon_months" env:"CALBOOK_HORIZON_MONTHS"`

	// WeekStart controls which weekday opens the week view. Supported
	// values: "monday" (default), "sunday".
	WeekStart string `yaml:"week_start" env:"CALBOOK_WEEK_START"`

	// WatchCron is the cron-style schedule on which watch mode
	// re-renders the day's agenda (e.g. "*/5 * * * *").
	WatchCron string `yaml:"watch" env:"CALBOOK_WATCH_CRON"`

	// DefaultColor and DefaultCategory fill event fields the user left
	// unset on the command line.
	DefaultColor    string `yaml:"default_color" env:"CALBOOK_DEFAULT_COLOR"`
	DefaultCategory string `yaml:"default_category" env:"CALBOOK_DEFAULT_CATEGORY"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" env:"CALBOOK_LOG_LEVEL"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	dataPath := "calbook-events.json"
	if home, err := os.UserHomeDir(); err == nil {
		dataPath = filepath.Join(home, ".calbook", "events.json")
	}
	return &Config{
		DataPath:        dataPath,
		HorizonMonths:   12,
		WeekStart:       "monday",
		WatchCron:       "*/5 * * * *",
		DefaultColor:    "#3b82f6",
		DefaultCategory: "other",
		LogLevel:        "info",
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.DataPath == "" {
		c.DataPath = def.DataPath
	}
	if c.HorizonMonths <= 0 {
		c.HorizonMonths = def.HorizonMonths
	}
	switch c.WeekStart {
	case "monday", "sunday":
		// ok
	default:
		c.WeekStart = def.WeekStart
	}
	if c.WatchCron == "" {
		c.WatchCron = def.WatchCron
	}
	if c.DefaultColor == "" {
		c.DefaultColor = def.DefaultColor
	}
	if c.DefaultCategory == "" {
		c.DefaultCategory = def.DefaultCategory
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}

// WeekStartsMonday reports whether the week view opens on Monday.
func (c *Config) WeekStartsMonday() bool {
	return c.WeekStart != "sunday"
}

// Load loads configuration from the given YAML path, then applies any
// CALBOOK_* environment overrides.
//
// Behavior:
//   - If the file does not exist: write a default config (0600) there
//     and continue with the defaults.
//   - If the file exists: read YAML, unmarshal, normalize defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	var cfg *Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		cfg = &Config{}
		if uerr := yaml.Unmarshal(data, cfg); uerr != nil {
			return nil, uerr
		}
		cfg.Normalize()
	case errors.Is(err, fs.ErrNotExist):
		// First run: create default config file.
		cfg = DefaultConfig()
		if serr := Save(path, cfg); serr != nil {
			return cfg, serr
		}
	default:
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".calbook-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
