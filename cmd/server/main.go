package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/evenup/evenup/internal/config"
	"github.com/evenup/evenup/internal/handler"
	"github.com/evenup/evenup/internal/metrics"
	"github.com/evenup/evenup/internal/middleware"
	"github.com/evenup/evenup/internal/service"
	"github.com/evenup/evenup/internal/storage/sqlite"
	"github.com/evenup/evenup/pkg/logging"
)

func main() {
	cfg := config.MustLoad()
	logging.Setup(cfg.LogLevel)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("storage initialized", "database", cfg.DBPath)

	svc := service.NewLedgerService(store)
	h := handler.New(svc, metrics.New())

	var root http.Handler = h.Routes()
	root = middleware.Logging(root)
	root = middleware.CORS(root)
	root = middleware.RequestID(root)

	srv := &http.Server{
		Addr: cfg.Addr,
		// h2c allows HTTP/2 clients without TLS termination in front.
		Handler: h2c.NewHandler(root, &http2.Server{}),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server starting", "address", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down", "timeout", cfg.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
