package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/tui"
	"github.com/taskdeck/taskdeck/internal/uistate"
	"github.com/taskdeck/taskdeck/internal/watcher"
)

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	c, err := newClient(cfg)
	if err != nil {
		return err
	}

	ui := uistate.NewStore(cfg.ViewMode)
	ui.OnViewModeChange(cfg.SaveViewMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watchFixture(ctx, c)

	return tui.Run(cfg, c.coord, ui)
}

// watchFixture reloads the data service and invalidates the cache whenever
// the fixture file changes on disk.
func watchFixture(ctx context.Context, c *client) {
	w, err := watcher.New(c.cfg.FixturePath(), func() {
		if err := c.svc.Reload(); err != nil {
			return
		}
		c.store.InvalidateAll()
	})
	if err != nil {
		return // non-fatal: the TUI works without live refresh
	}
	defer w.Close()
	w.Run(ctx, nil)
}
