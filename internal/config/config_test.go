package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/taskdeck/taskdeck/internal/uistate"
)

func TestInitAndLoad(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Init(dir)
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if cfg.ViewMode != uistate.ViewBoard {
		t.Errorf("expected board default, got %q", cfg.ViewMode)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Version != CurrentVersion {
		t.Errorf("expected version %d, got %d", CurrentVersion, loaded.Version)
	}
	if loaded.LatencyMS != DefaultLatencyMS {
		t.Errorf("expected default latency, got %d", loaded.LatencyMS)
	}
}

func TestLoad_MissingConfig(t *testing.T) {
	_, err := Load(t.TempDir())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	content := "version: 99\nview_mode: board\nfixture: fixture.yml\nlatency_ms: 0\n"
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	_, err := Load(dir)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for unsupported version, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad view mode", func(c *Config) { c.ViewMode = "spreadsheet" }},
		{"empty fixture", func(c *Config) { c.Fixture = "" }},
		{"negative latency", func(c *Config) { c.LatencyMS = -1 }},
		{"wrong version", func(c *Config) { c.Version = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefault()
			tc.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestSaveViewMode_Persists(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Init(dir)
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg.SaveViewMode(uistate.ViewTable)

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.ViewMode != uistate.ViewTable {
		t.Errorf("view mode not persisted, got %q", loaded.ViewMode)
	}
}

func TestFixturePath(t *testing.T) {
	cfg := NewDefault()
	cfg.SetDir("/etc/taskdeck")

	if got := cfg.FixturePath(); got != filepath.Join("/etc/taskdeck", DefaultFixtureName) {
		t.Errorf("relative fixture must resolve under the config dir, got %q", got)
	}

	cfg.Fixture = "/data/custom.yml"
	if got := cfg.FixturePath(); got != "/data/custom.yml" {
		t.Errorf("absolute fixture must pass through, got %q", got)
	}
}
