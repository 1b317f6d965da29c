// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/sheetfinder/internal/catalog"
	"github.com/pdiddy/sheetfinder/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search API over HTTP",
	Long: `Serve starts the HTTP API:

  GET /api/search?city=..&uf=..         sheets grouped by scale
  GET /api/health                       liveness and catalog size
  GET /api/catalog                      catalog counts and a sample
  GET /api/catalog/lookup?city=..&uf=.. catalog match and suggestions
  GET /metrics                          Prometheus metrics

The server stops gracefully on SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cat, err := openCatalog(cfg.Catalog)
	if err != nil {
		appLog.Warn("serving without a catalog; every search is place-only", zap.Error(err))
		cat = catalog.New(nil)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.New(newResolver(cfg, cat), appLog.Named("http")).Router(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Resolve.Deadline + 10*time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	appLog.Info("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("error during shutdown", zap.Error(err))
		return err
	}
	appLog.Info("server stopped gracefully")
	return nil
}
