package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	HTTPAdapter "github.com/bnema/galerie/internal/adapter/http"
	"github.com/bnema/galerie/internal/infrastructure/logger"
	"github.com/bnema/galerie/internal/service"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server, dispatcher and maintenance loop",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()
	a.checkBinaries()

	server := HTTPAdapter.NewServer(a.media, a.events, a.store.DB().PingContext, HTTPAdapter.Config{
		AdminTokenHash: cfg.AdminTokenHash,
		AdminToken:     cfg.AdminToken,
		MaxUploadSize:  cfg.MaxUploadSize(),
		SpoolDir:       a.spoolDir,
		TrustProxy:     cfg.TrustProxy,
	})

	log := logger.Component("server")
	g, gctx := errgroup.WithContext(ctx)

	addr := fmt.Sprintf(":%d", cfg.Port)
	httpServer := newHTTPServer(gctx, addr, server)

	// Nothing transcodes yet, so every temp file belongs to the previous process.
	a.maintenance.PurgeTemp()

	g.Go(func() error {
		a.dispatcher.Run(gctx)
		return nil
	})
	g.Go(func() error {
		superviseMaintenance(gctx, a.maintenance, log)
		return nil
	})
	g.Go(func() error {
		server.Run(gctx)
		return nil
	})
	g.Go(func() error {
		log.Info().Str("addr", addr).Str("blob_backend", cfg.BlobBackend).Msg("server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		// The dispatcher exits with gctx; an in-flight job stays processing
		// and is recovered on the next start.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	err = g.Wait()
	log.Info().Msg("shutdown complete")
	return err
}

// newHTTPServer ties request contexts to ctx so open event streams end when
// shutdown starts.
func newHTTPServer(ctx context.Context, addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		BaseContext:       func(net.Listener) context.Context { return ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       5 * time.Minute,
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}
}

// superviseMaintenance runs boot recovery then the periodic sweep. A failed boot
// recovery is retried by the first sweep.
func superviseMaintenance(ctx context.Context, m *service.Maintenance, log zerolog.Logger) {
	if err := m.Startup(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Error().Err(err).Msg("startup recovery failed")
	}
	m.Run(ctx)
}
