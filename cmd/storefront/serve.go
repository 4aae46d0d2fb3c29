package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	slogctx "github.com/veqryn/slog-context"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	h "github.com/fjod/go_cart/storefront/internal/http"
)

func serveCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the storefront views as a local JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.HTTP.Addr = addr
			}
			return a.serve(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides STOREFRONT_HTTP_ADDR)")
	return cmd
}

func (a *app) router() http.Handler {
	cfg := a.cfg
	timeout := cfg.RequestTimeout

	r := h.NewRouter(h.Handlers{
		Menu:     h.NewMenuHandler(a.menu, timeout),
		Cart:     h.NewCartHandler(a.cart, a.client, timeout),
		Checkout: h.NewCheckoutHandler(a.checkout),
		Orders:   h.NewOrdersHandler(a.history, timeout),
		Session:  h.NewSessionHandler(a.session, timeout),
		Admin:    h.NewAdminHandler(a.admin, timeout, cfg.HTTP.MaxBodyBytes),
	}, h.RouterOptions{
		RequestTimeout: cfg.HTTP.RequestTimeout,
		MaxBodyBytes:   cfg.HTTP.MaxBodyBytes,
	})

	return otelhttp.NewHandler(r, "storefront")
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      a.router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.HTTP.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if a.publisher.Enabled() {
		go a.publisher.Run(ctx, cfg.Kafka.FlushInterval)
	}

	errCh := make(chan error, 1)
	go func() {
		slogctx.Info(ctx, "storefront views API starting", "addr", cfg.HTTP.Addr, "api", cfg.APIBaseURL)
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

	slogctx.Info(ctx, "shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slogctx.Info(ctx, "server exited")
	return nil
}
