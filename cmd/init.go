package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/service/memory"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a taskdeck directory",
	Long:  `Creates the config file and a starter data fixture in the target directory.`,
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, _ []string) error {
	dir, err := resolveDir()
	if err != nil {
		return err
	}

	if _, err := config.Load(dir); err == nil {
		return fmt.Errorf("taskdeck already initialized in %s", dir)
	}

	cfg, err := config.Init(dir)
	if err != nil {
		return err
	}

	// Seed the fixture only when absent; init must not clobber data.
	if _, err := os.Stat(cfg.FixturePath()); os.IsNotExist(err) {
		if err := memory.WriteSeed(cfg.FixturePath(), memory.DefaultSeed()); err != nil {
			return fmt.Errorf("writing fixture: %w", err)
		}
	}

	fmt.Printf("Initialized taskdeck in %s\n", cfg.Dir())
	return nil
}
