package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	slogctx "github.com/veqryn/slog-context"

	"github.com/fjod/go_cart/storefront/internal/admin"
	"github.com/fjod/go_cart/storefront/internal/backend"
	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/checkout"
	"github.com/fjod/go_cart/storefront/internal/config"
	"github.com/fjod/go_cart/storefront/internal/incident"
	"github.com/fjod/go_cart/storefront/internal/menu"
	"github.com/fjod/go_cart/storefront/internal/orders"
	"github.com/fjod/go_cart/storefront/internal/serviceerr"
	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/fjod/go_cart/storefront/internal/storage"
	"github.com/fjod/go_cart/storefront/pkg/circuitbreaker"
	"github.com/fjod/go_cart/storefront/pkg/logger"
)

// app holds every component a command may need. It is built once per
// invocation in the root command's pre-run hook.
type app struct {
	out io.Writer
	cfg *config.Config

	store      storage.Store
	closeStore func() error

	client    *backend.Client
	session   *session.Session
	cart      *cart.Store
	menu      *menu.Browser
	checkout  *checkout.Service
	history   *orders.History
	admin     *admin.Panel
	journal   *incident.Journal
	publisher *incident.Publisher
}

func (a *app) init(ctx context.Context, cmd *cobra.Command, flags rootFlags) error {
	cfg, err := config.Load(flags.envFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if flags.apiURL != "" {
		cfg.APIBaseURL = flags.apiURL
	}
	if flags.storage != "" {
		cfg.Storage.Driver = flags.storage
	}
	if flags.storagePath != "" {
		cfg.Storage.Path = flags.storagePath
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg

	if err := logger.InitAsDefault(cmd.ErrOrStderr(), cfg.LoggerConfig()); err != nil {
		return fmt.Errorf("initialising logger: %w", err)
	}
	if a.out == nil {
		a.out = cmd.OutOrStdout()
	}

	store, closeStore, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		return fmt.Errorf("opening %s storage: %w", cfg.Storage.Driver, err)
	}
	a.store, a.closeStore = store, closeStore

	a.wire(ctx)
	slogctx.Debug(ctx, "storefront ready", "api", cfg.APIBaseURL, "storage", cfg.Storage.Driver)
	return nil
}

func (a *app) wire(ctx context.Context) {
	cfg := a.cfg

	breaker := circuitbreaker.New(circuitbreaker.Settings{
		Name:                "backend",
		ConsecutiveFailures: cfg.Breaker.ConsecutiveFailures,
		OpenTimeout:         cfg.Breaker.OpenTimeout,
		HalfOpenRequests:    cfg.Breaker.HalfOpenRequests,
	}, backend.IsBackendFailure)

	tokens := session.NewTokenStore(a.store)
	a.client = backend.New(backend.Options{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.RequestTimeout,
		Breaker: breaker,
	}, tokens)

	a.session = session.New(tokens, a.client)
	a.cart = cart.NewStore(ctx, a.store)
	a.menu = menu.NewBrowser(a.client, a.cart, cfg.PageSize)
	a.journal = incident.NewJournal(a.store)
	a.checkout = checkout.NewService(a.session, a.cart, a.client, a.journal)
	a.history = orders.NewHistory(a.client, a.session)
	a.admin = admin.NewPanel(a.session, a.client)

	if len(cfg.Kafka.Brokers) > 0 {
		a.publisher = incident.NewPublisher(a.journal, incident.NewKafkaWriter(cfg.Kafka.IncidentTopic, cfg.Kafka.Brokers...))
	} else {
		a.publisher = incident.NewPublisher(a.journal, nil)
	}
}

func (a *app) Close() error {
	var errs []error
	if a.publisher != nil {
		errs = append(errs, a.publisher.Close())
		a.publisher = nil
	}
	if a.closeStore != nil {
		errs = append(errs, a.closeStore())
		a.closeStore = nil
	}
	return errors.Join(errs...)
}

func (a *app) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}

// userMessage is the one-line error shown on stderr.
func userMessage(err error) string {
	if checkout.IsOrderMissing(err) {
		return err.Error()
	}
	var se *serviceerr.Error
	if errors.As(err, &se) && se.Message != "" {
		if se.Kind == serviceerr.KindUnauthenticated {
			return se.Message + " (run `storefront login`)"
		}
		return se.Message
	}
	return err.Error()
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
