package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the task data over HTTP",
	Long:  `Exposes the fixture-backed data service as a JSON API for other clients.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "127.0.0.1:8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := newClient(cfg)
	if err != nil {
		return err
	}

	addr, _ := cmd.Flags().GetString("addr")
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	srv := server.New(c.svc, logger)
	logger.Info("listening", slog.String("addr", addr), slog.String("fixture", cfg.FixturePath()))

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 5 * time.Second, //nolint:mnd // slowloris guard
	}
	if err := httpSrv.ListenAndServe(); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
