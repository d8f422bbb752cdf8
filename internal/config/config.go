// Package config handles the tracker's persisted settings. The config file
// carries the cross-session half of the UI state (the view mode) plus the
// data service fixture location and simulated latency.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/taskdeck/taskdeck/internal/filelock"
	"github.com/taskdeck/taskdeck/internal/uistate"
)

const fileMode = 0o600

// Sentinel errors.
var (
	ErrNotFound = errors.New("no taskdeck config found (run 'taskdeck init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config represents the tracker configuration.
type Config struct {
	Version   int              `yaml:"version"`
	ViewMode  uistate.ViewMode `yaml:"view_mode"`
	Fixture   string           `yaml:"fixture"`
	LatencyMS int              `yaml:"latency_ms"`

	// dir is the absolute path to the config directory (not serialized).
	dir string `yaml:"-"`
}

// NewDefault creates a Config with default values.
func NewDefault() *Config {
	return &Config{
		Version:   CurrentVersion,
		ViewMode:  uistate.ViewBoard,
		Fixture:   DefaultFixtureName,
		LatencyMS: DefaultLatencyMS,
	}
}

// Dir returns the absolute path to the config directory.
func (c *Config) Dir() string {
	return c.dir
}

// SetDir sets the config directory path.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// FixturePath returns the absolute path to the data fixture file.
func (c *Config) FixturePath() string {
	if filepath.IsAbs(c.Fixture) {
		return c.Fixture
	}
	return filepath.Join(c.dir, c.Fixture)
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if !c.ViewMode.Valid() {
		return fmt.Errorf("%w: view_mode must be %q or %q", ErrInvalid, uistate.ViewBoard, uistate.ViewTable)
	}
	if c.Fixture == "" {
		return fmt.Errorf("%w: fixture is required", ErrInvalid)
	}
	if c.LatencyMS < 0 {
		return fmt.Errorf("%w: latency_ms must be >= 0", ErrInvalid)
	}
	return nil
}

// Save writes the config to its config file, under an advisory lock so
// concurrent processes cannot interleave partial writes.
func (c *Config) Save() error {
	lock, err := filelock.Acquire(filepath.Join(c.dir, ".lock"))
	if err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}
	defer lock.Release() //nolint:errcheck // best-effort release on exit

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// SaveViewMode persists a view-mode change. Errors are swallowed: losing a
// view-mode preference must never disturb the UI.
func (c *Config) SaveViewMode(mode uistate.ViewMode) {
	c.ViewMode = mode
	_ = c.Save()
}

// Init creates a fresh config directory with default settings.
func Init(dir string) (*Config, error) {
	const dirMode = 0o750

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg := NewDefault()
	cfg.SetDir(absDir)

	if err := os.MkdirAll(absDir, dirMode); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}

	return cfg, nil
}

// Load reads and validates a config from the given directory.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.dir = absDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
