package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/EcommerceGo/services/storefront/internal/catalog"
	"github.com/utafrali/EcommerceGo/services/storefront/internal/config"
	"github.com/utafrali/EcommerceGo/services/storefront/internal/event"
	handler "github.com/utafrali/EcommerceGo/services/storefront/internal/handler/http"
	redisrepo "github.com/utafrali/EcommerceGo/services/storefront/internal/repository/redis"
	"github.com/utafrali/EcommerceGo/services/storefront/internal/service"
	"github.com/utafrali/EcommerceGo/services/storefront/pkg/database"
	"github.com/utafrali/EcommerceGo/services/storefront/pkg/health"
	"github.com/utafrali/EcommerceGo/services/storefront/pkg/httpclient"
	pkgkafka "github.com/utafrali/EcommerceGo/services/storefront/pkg/kafka"
	"github.com/utafrali/EcommerceGo/services/storefront/pkg/tracing"
)

const serviceName = "storefront"

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	producer       *pkgkafka.Producer
	store          *service.CartStore
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Tracing.
	traceCfg := tracing.DefaultConfig(serviceName)
	traceCfg.Environment = cfg.Environment
	traceCfg.Enabled = cfg.OTELEnabled
	traceCfg.OTLPEndpoint = cfg.OTELEndpoint
	traceCfg.SampleRate = cfg.OTELSampleRate
	tracerShutdown, err := tracing.InitTracer(ctx, traceCfg)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Redis.
	redisCfg := database.DefaultRedisConfig()
	redisCfg.Addr = cfg.RedisAddr
	redisCfg.Password = cfg.RedisPass
	redisCfg.DB = cfg.RedisDB
	rdb, err := database.NewRedisClient(ctx, redisCfg)
	if err != nil {
		_ = tracerShutdown(ctx)
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)
	database.SetSlowQueryLogging(cfg.CartSlowOpThreshold(), logger)

	// Catalog client: retries inside, circuit breaker outside.
	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = cfg.CatalogTimeout()
	httpCfg.MaxRetries = cfg.CatalogMaxRetries
	doer := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpCfg),
		httpclient.DefaultCircuitBreakerConfig("catalog"),
		logger,
	)
	catalogClient := catalog.NewClient(cfg.CatalogBaseURL, doer, logger)

	// Cart store. Hydration starts here.
	storage := redisrepo.NewCartStorage(rdb, cfg.CartStorageKey, cfg.CartTTLDuration(), logger)
	logger.Info("cart storage configured",
		slog.String("key", storage.Key()),
		slog.Duration("ttl", cfg.CartTTLDuration()),
	)
	store := service.NewCartStore(storage, logger, service.StoreConfig{
		StorageTimeout: cfg.CartStorageTimeout(),
	})

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", storage.Ping)
	healthHandler.Register("cart", func(context.Context) error {
		if store.IsLoadingStorage() {
			return errors.New("cart is still loading")
		}
		return nil
	})

	// Checkout events are optional.
	var (
		producer  *pkgkafka.Producer
		publisher service.CheckoutPublisher
	)
	if cfg.KafkaEnabled {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = event.NewProducer(producer, logger)
		healthHandler.Register("kafka", producer.Ping)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}
	checkoutService := service.NewCheckoutService(store, publisher, logger)

	// HTTP router.
	router := handler.NewRouter(catalogClient, store, checkoutService, healthHandler, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		rdb:            rdb,
		producer:       producer,
		store:          store,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components. Pending cart writes are flushed
// before Redis is closed.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.store.Flush(shutdownCtx); err != nil {
		a.logger.Error("cart flush error", slog.String("error", err.Error()))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	if err := a.tracerShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
