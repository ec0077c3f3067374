package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/go_cart/cart-widget/internal/catalog"
	h "github.com/fjod/go_cart/cart-widget/internal/http"
	"github.com/fjod/go_cart/cart-widget/internal/kv"
	"github.com/fjod/go_cart/cart-widget/internal/persistence"
	"github.com/fjod/go_cart/cart-widget/internal/widget"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the widget over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	store, err := kv.Open(ctx, cfg.Storage())
	if err != nil {
		return err
	}
	defer store.Close()
	log.Info("storage ready", zap.String("backend", cfg.StorageBackend), zap.String("key", cfg.CartKey))

	loader := catalog.NewLoader(cfg.CatalogSource, catalog.Options{Timeout: cfg.CatalogTimeout}, log)
	w := widget.New(loader, persistence.NewAdapter(store, cfg.CartKey), log)
	w.Start(ctx)

	handler := h.NewWidgetHandler(w, cfg.RequestTimeout, log)
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      h.NewRouter(handler, cfg.RequestTimeout, log),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("widget listening", zap.String("addr", srv.Addr))
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

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server exited")
	return nil
}

