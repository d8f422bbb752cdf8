// Package cmd implements the taskdeck CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/apperr"
	"github.com/taskdeck/taskdeck/internal/cache"
	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/mutate"
	"github.com/taskdeck/taskdeck/internal/output"
	"github.com/taskdeck/taskdeck/internal/service/memory"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON    bool
	flagTable   bool
	flagCompact bool
	flagDir     string
	flagNoColor bool
)

var rootCmd = &cobra.Command{
	Use:   "taskdeck",
	Short: "Terminal kanban for project tasks",
	Long: `taskdeck is a project task tracker for the terminal. Run taskdeck with no
arguments to open the interactive board; subcommands offer scriptable access
to the same data.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runTUI,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || !output.ColorEnabled() {
			output.DisableColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "path to taskdeck config directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	// SilentError exits with its code, no output.
	var silent *apperr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	jsonMode := flagJSON
	if !jsonMode {
		jsonMode = os.Getenv("TASKDECK_OUTPUT") == "json"
	}

	if jsonMode {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			output.JSONError(os.Stdout, appErr.Code, appErr.Message, appErr.Details)
			os.Exit(appErr.ExitCode())
		}
		output.JSONError(os.Stdout, apperr.InternalError, err.Error(), nil)
		os.Exit(2) //nolint:mnd // exit code 2 for internal errors
	}

	fmt.Fprintln(os.Stderr, err)
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		os.Exit(appErr.ExitCode())
	}
	os.Exit(1)
}

// defaultHomeDir returns the path to ~/.config/taskdeck.
func defaultHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config/taskdeck"), nil
}

func resolveDir() (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}
	return defaultHomeDir()
}

// loadConfig loads the taskdeck config. The home default directory is
// auto-created on first use so the bare command works out of the box.
func loadConfig() (*config.Config, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(dir)
	if err == nil {
		return cfg, nil
	}

	if !errors.Is(err, config.ErrNotFound) {
		return nil, err
	}
	homeDir, homeErr := defaultHomeDir()
	if homeErr != nil || dir != homeDir {
		return nil, err
	}

	return config.Init(homeDir)
}

// client bundles everything a command needs to talk to the data layer.
type client struct {
	cfg   *config.Config
	svc   *memory.Service
	store *cache.Store
	coord *mutate.Coordinator
}

// newClient opens the data service behind the config's fixture and wires the
// cache and mutation coordinator over it.
func newClient(cfg *config.Config) (*client, error) {
	svc, err := memory.Open(cfg.FixturePath(),
		memory.WithLatency(time.Duration(cfg.LatencyMS)*time.Millisecond))
	if err != nil {
		return nil, err
	}

	store := cache.NewStore()
	coord := mutate.New(svc, store)
	coord.SetLogDir(cfg.Dir())

	return &client{cfg: cfg, svc: svc, store: store, coord: coord}, nil
}

// resolveProject maps the --project flag to a project ID, defaulting to the
// first project when the flag is empty. Accepts an ID or an exact name.
func resolveProject(ctx context.Context, c *client, arg string) (model.Project, error) {
	projects, err := c.svc.FetchProjects(ctx)
	if err != nil {
		return model.Project{}, err
	}
	if len(projects) == 0 {
		return model.Project{}, apperr.New(apperr.ProjectNotFound, "no projects exist")
	}
	if arg == "" {
		return projects[0], nil
	}
	for _, p := range projects {
		if p.ID == arg || p.Name == arg {
			return p, nil
		}
	}
	return model.Project{}, apperr.Newf(apperr.ProjectNotFound, "project %q not found", arg)
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}
