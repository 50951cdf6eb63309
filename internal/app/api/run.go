package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"golang.org/x/sync/errgroup"

	kioskserver "github.com/Apurer/go-gin-kiosk/go"
	catalogyaml "github.com/Apurer/go-gin-kiosk/internal/domains/catalog/adapters/yamlfile"
	catalogports "github.com/Apurer/go-gin-kiosk/internal/domains/catalog/ports"
	ordersevents "github.com/Apurer/go-gin-kiosk/internal/domains/orders/adapters/events/rabbitmq"
	orderspostgres "github.com/Apurer/go-gin-kiosk/internal/domains/orders/adapters/persistence/postgres"
	"github.com/Apurer/go-gin-kiosk/internal/kiosk"
	kioskworkflows "github.com/Apurer/go-gin-kiosk/internal/kiosk/workflows"
	"github.com/Apurer/go-gin-kiosk/internal/platform/localstorage"
	platformobservability "github.com/Apurer/go-gin-kiosk/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-kiosk/internal/platform/postgres"
	platformrabbitmq "github.com/Apurer/go-gin-kiosk/internal/platform/rabbitmq"
)

const serviceName = "kiosk-api"

// Run boots the kiosk HTTP API with observability, storage, events, and the
// checkout worker wired. It returns when ctx is cancelled and the server has drained.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	instruments, shutdown, err := platformobservability.Init(ctx, serviceName, platformobservability.WithLogLevel(cfg.LogLevel))
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	checks := map[string]kioskserver.HealthCheck{}
	opts := []kiosk.Option{
		kiosk.WithLogger(logger),
		kiosk.WithTracerProvider(instruments.TracerProvider),
		kiosk.WithMeterProvider(instruments.MeterProvider),
		kiosk.WithMaxLineQuantity(cfg.MaxLineQuantity),
		kiosk.WithResetCorruptState(cfg.ResetCorruptState),
	}

	var closers []func() error
	storageOpts, closeStorage, err := buildStorage(ctx, cfg, logger, checks)
	if err != nil {
		return err
	}
	opts = append(opts, storageOpts...)
	closers = append(closers, closeStorage)

	if cfg.CatalogFile != "" {
		var source catalogports.Source = catalogyaml.NewSource(cfg.CatalogFile)
		opts = append(opts, kiosk.WithCatalogSource(source))
		logger.Info("catalog loaded from file", slog.String("path", cfg.CatalogFile))
	}

	if cfg.RabbitMQURL != "" {
		eventOpts, closeEvents, err := buildEvents(cfg, logger, checks)
		if err != nil {
			logger.Warn("order events unavailable, continuing without broker", slog.String("error", err.Error()))
		} else {
			opts = append(opts, eventOpts...)
			closers = append(closers, closeEvents)
		}
	}

	for _, fn := range closers {
		opts = append(opts, kiosk.WithCloser(fn))
	}
	session, err := kiosk.Open(ctx, opts...)
	if err != nil {
		for _, fn := range closers {
			_ = fn()
		}
		return fmt.Errorf("failed to open kiosk session: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Error("failed to close kiosk session", slog.String("error", err.Error()))
		}
	}()

	var runner kiosk.CheckoutRunner = kiosk.NewInlineCheckout(session)
	var stopWorker func()
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, running checkout inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		w := kioskworkflows.NewWorker(temporalClient, session)
		if err := w.Start(); err != nil {
			logger.Warn("failed to start checkout worker, running checkout inline", slog.String("error", err.Error()))
		} else {
			stopWorker = w.Stop
			runner = kioskworkflows.NewTemporalCheckout(temporalClient, session,
				kioskworkflows.WithFallback(runner),
				kioskworkflows.WithLogger(logger))
			checks["temporal"] = func(ctx context.Context) error {
				_, err := temporalClient.CheckHealth(ctx, &client.CheckHealthRequest{})
				return err
			}
			logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
		}
	}
	if stopWorker != nil {
		defer stopWorker()
	}

	dispatcher := kiosk.NewDispatcher(session, kiosk.WithCheckoutRunner(runner))
	responder := kioskserver.NewResponder()
	handlers := kioskserver.ApiHandleFunctions{
		MenuAPI:   kioskserver.NewMenuAPI(dispatcher, responder),
		CartAPI:   kioskserver.NewCartAPI(dispatcher, responder),
		OrdersAPI: kioskserver.NewOrdersAPI(dispatcher, responder),
		HealthAPI: kioskserver.NewHealthAPI(checks),
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), otelgin.Middleware(serviceName), kioskserver.RequestLogger(logger))
	router := kioskserver.NewRouterWithGinEngine(engine, handlers)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("kiosk API listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("kiosk API server exited: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down kiosk API", slog.Duration("timeout", cfg.ShutdownTimeout))
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		logger.Error("kiosk API stopped with error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("kiosk API stopped")
	return nil
}

// buildStorage selects the record store and, for postgres, the relational
// order repository. The returned closer releases the connection.
func buildStorage(ctx context.Context, cfg Config, logger *slog.Logger, checks map[string]kioskserver.HealthCheck) ([]kiosk.Option, func() error, error) {
	noop := func() error { return nil }
	switch cfg.StorageBackend {
	case BackendMemory:
		logger.Warn("STORAGE_BACKEND=memory, state is lost on restart")
		return []kiosk.Option{kiosk.WithStore(localstorage.NewMemoryStore())}, noop, nil
	case BackendPostgres:
		db, closeDB, err := platformpostgres.Open(ctx, cfg.PostgresDSN, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open postgres storage: %w", err)
		}
		checks["postgres"] = func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
		logger.Info("kiosk storage configured with postgres")
		return []kiosk.Option{
			kiosk.WithStore(localstorage.NewPostgresStore(db)),
			kiosk.WithOrdersRepository(orderspostgres.NewRepository(db)),
			kiosk.WithIdempotencyStore(orderspostgres.NewIdempotencyStore(db)),
		}, closeDB, nil
	default:
		store, err := localstorage.NewDiskStore(cfg.StateDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open state directory: %w", err)
		}
		logger.Info("kiosk storage configured with files", slog.String("dir", cfg.StateDir))
		return []kiosk.Option{kiosk.WithStore(store)}, noop, nil
	}
}

func buildEvents(cfg Config, logger *slog.Logger, checks map[string]kioskserver.HealthCheck) ([]kiosk.Option, func() error, error) {
	conn, err := platformrabbitmq.Dial(cfg.RabbitMQURL)
	if err != nil {
		return nil, nil, err
	}
	if err := conn.DeclareTopicExchange(ordersevents.Exchange); err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	checks["rabbitmq"] = func(context.Context) error { return conn.Ping() }
	logger.Info("order events published to RabbitMQ", slog.String("exchange", ordersevents.Exchange))
	return []kiosk.Option{
		kiosk.WithEventPublisher(ordersevents.NewPublisher(conn)),
	}, conn.Close, nil
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: instruments.Tracer("temporal-client"),
	})
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(instruments.Logger),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}
