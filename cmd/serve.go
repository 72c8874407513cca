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

	"github.com/abhisek/stackprep/internal/bank"
	"github.com/abhisek/stackprep/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the question bank over HTTP",
	Long: "Serves the data directory under /data/ (usable as --data http://host/data/) and a\n" +
		"small JSON API under /api/.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		if _, err := os.Stat(cfg.Data.Dir); err != nil {
			return fmt.Errorf("data dir: %w", err)
		}

		logger := stderrLogger(cfg)
		content := os.DirFS(cfg.Data.Dir)
		srv := &http.Server{
			Addr: cfg.Server.Addr,
			Handler: server.NewRouter(server.Options{
				Content:     content,
				Repo:        bank.NewRepository(bank.NewDirSource(content), bank.WithLogger(logger)),
				CORSOrigins: cfg.Server.CORSOrigins,
				Logger:      logger,
			}),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("serving", "addr", cfg.Server.Addr, "data", cfg.Data.Dir)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
