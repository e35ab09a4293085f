package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/badgerinventory/perfdash/dataset"
	"github.com/badgerinventory/perfdash/internal/config"
	httpserver "github.com/badgerinventory/perfdash/internal/http"
	"github.com/badgerinventory/perfdash/internal/logging"
	"github.com/badgerinventory/perfdash/internal/metrics"
	"github.com/badgerinventory/perfdash/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the export and serve the dashboard API",
	Long: `Load the configured production export once, then serve dashboard
views until interrupted.

Examples:
  # Serve with defaults
  perfdash serve

  # Serve a remote export on another port
  PERFDASH_DATA_SOURCE=https://example.com/export.json perfdash serve --port 9090`,
	RunE: runServe,
}

var servePort int

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides server.port)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Server.Port = servePort
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.Get()
	sess := session.New(session.WithLogger(logger), session.WithRecorder(m))

	timeout := loadTimeout(cfg.Data)
	src := dataset.NewSource(cfg.Data.Source, timeout)
	loadCtx, cancel := context.WithTimeout(ctx, timeout)
	err = sess.Load(loadCtx, src)
	cancel()
	if err != nil {
		// the session keeps its failed status; the API reports it
		logger.Error("initial load failed", zap.Error(err))
	}

	server, err := httpserver.NewServer(sess, logger, &httpserver.Config{
		Host:     cfg.Server.Host,
		Port:     cfg.Server.Port,
		View:     cfg.Dashboard.ViewConfig(),
		PageSize: cfg.Dashboard.PageSize,
		Resolver: cfg.Accounts.Resolver(),
	}, m)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// loadTimeout bounds the initial dataset load; zero means the default.
func loadTimeout(d config.DataConfig) time.Duration {
	if d.Timeout <= 0 {
		return dataset.DefaultTimeout
	}
	return d.Timeout
}
