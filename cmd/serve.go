// =============================================================================
// Kebab Dashboard - Serve Command
// =============================================================================
//
// COMMAND USAGE:
//   kebab-dashboard serve [--addr :8080]
//
// Starts the web dashboard on listen_addr and shuts down gracefully on
// SIGINT/SIGTERM. The weather widget is only mounted when an API key is
// configured.
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/kebab-dashboard/internal/catalog"
	"github.com/ginjaninja78/kebab-dashboard/internal/report"
	"github.com/ginjaninja78/kebab-dashboard/internal/server"
	"github.com/ginjaninja78/kebab-dashboard/internal/session"
	"github.com/ginjaninja78/kebab-dashboard/internal/weather"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web dashboard",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if cfg.BackendURL == "" {
		return errors.New("backend_url is not configured")
	}

	addr := cfg.ListenAddr
	if serveAddr != "" {
		addr = serveAddr
	}

	client := newBackendClient()
	store := session.NewCookieStore(cfg.Session.CookieName, cfg.Session.MaxAge, cfg.Session.Secure)
	store.Logger = appLogger.WithComponent("session")

	deps := server.Deps{
		Transactions: client,
		Auth:         client,
		Catalog:      catalog.NewService(client, appLogger.WithComponent("catalog")),
		Gate:         session.NewGate(store, session.WithLogger(appLogger.WithComponent("session"))),
		Store:        store,
		Aggregator:   newAggregator(),
		Exporter:     report.NewExporter(cfg.FileNameFormat),
		Logger:       appLogger.WithComponent("http"),
	}

	if cfg.Weather.APIKey != "" {
		cache, err := weather.OpenSQLiteCache(cfg.Weather.CachePath)
		if err != nil {
			return err
		}
		defer cache.Close()

		deps.Weather = weather.NewClient(cfg.Weather.APIKey, cfg.Weather.BaseURL,
			weather.WithCache(cache, cfg.Weather.CacheTTL),
			weather.WithLogger(appLogger.WithComponent("weather")),
		)
	} else {
		appLogger.Info("weather widget disabled: no API key")
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info("dashboard listening", "addr", addr, "backend", cfg.BackendURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	appLogger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default listen_addr)")
	rootCmd.AddCommand(serveCmd)
}
