package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/gorilla/mux"
	"github.com/jasonlvhit/gocron"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/south-ventures/tikang-front/internal/application/usecase"
	"github.com/south-ventures/tikang-front/internal/domain/listing"
	"github.com/south-ventures/tikang-front/internal/domain/search"
	"github.com/south-ventures/tikang-front/internal/infrastructure/adapter"
	"github.com/south-ventures/tikang-front/internal/infrastructure/config"
	"github.com/south-ventures/tikang-front/internal/infrastructure/handler"
	"github.com/south-ventures/tikang-front/internal/infrastructure/queue"
	"github.com/south-ventures/tikang-front/pkg/database"
	"github.com/south-ventures/tikang-front/pkg/logger"
)

type Application struct {
	config *config.Config
	db     *gorm.DB
	redis  *redis.Client
	logger *slog.Logger
	server *http.Server

	localCache   *adapter.LocalSnapshotCache
	remoteCache  *adapter.RedisCacheAdapter
	searchEngine *adapter.TypesenseAdapter
	consumer     *queue.RabbitMQConsumer
	scheduler    *gocron.Scheduler

	snapshotLoader                   *usecase.SnapshotLoader
	getDestinationSuggestionsUseCase *usecase.GetDestinationSuggestionsUseCase
	invalidateSnapshotsUseCase       *usecase.InvalidateSnapshotsUseCase

	ctx    context.Context
	cancel context.CancelFunc
}

func main() {
	bootstrapLogger := logger.SetupLogger("info")

	cfg, err := config.LoadConfig()
	if err != nil {
		bootstrapLogger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	applicationLogger := logger.SetupLoggerWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputFile)

	app, err := NewApplication(cfg, applicationLogger)
	if err != nil {
		applicationLogger.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := app.Start(); err != nil {
		applicationLogger.Error("Failed to start application", "error", err)
		os.Exit(1)
	}
}

func NewApplication(cfg *config.Config, applicationLogger *slog.Logger) (*Application, error) {
	ctx, cancel := context.WithCancel(context.Background())
	app := &Application{
		config: cfg,
		logger: applicationLogger,
		ctx:    ctx,
		cancel: cancel,
	}

	source, err := app.initSource()
	if err != nil {
		cancel()
		return nil, err
	}

	var remote listing.CacheRepository
	if cfg.Redis.Enabled {
		app.redis = initRedis(cfg.Redis, applicationLogger)
		app.remoteCache = adapter.NewRedisCacheAdapterWithClient(app.redis, cfg.Redis.KeyPrefix, applicationLogger)
		remote = app.remoteCache
	}

	app.localCache = adapter.NewLocalSnapshotCache(cfg.Cache.LocalMaxSize, cfg.Cache.LocalTTL)
	snapshotCache := adapter.NewTieredSnapshotCache(app.localCache, remote, applicationLogger)

	app.snapshotLoader = usecase.NewSnapshotLoader(
		source,
		snapshotCache,
		cfg.Snapshot.TTL,
		cfg.Snapshot.FetchTimeout,
		applicationLogger,
	)

	var index search.DestinationIndex
	if cfg.Typesense.Enabled {
		app.searchEngine, err = adapter.NewTypesenseAdapter(cfg.Typesense.Host, cfg.Typesense.ApiKey, cfg.Typesense.CollectionName, applicationLogger)
		if err != nil {
			cancel()
			return nil, err
		}
		index = app.searchEngine
	}

	searchListingsUseCase := usecase.NewSearchListingsUseCase(app.snapshotLoader, applicationLogger)
	app.getDestinationSuggestionsUseCase = usecase.NewGetDestinationSuggestionsUseCase(index, app.snapshotLoader, applicationLogger)
	getTopDestinationsUseCase := usecase.NewGetTopDestinationsUseCase(app.snapshotLoader, applicationLogger)
	getTopBookedPropertiesUseCase := usecase.NewGetTopBookedPropertiesUseCase(app.snapshotLoader, applicationLogger)
	getPropertyAvailabilityUseCase := usecase.NewGetPropertyAvailabilityUseCase(app.snapshotLoader, applicationLogger)
	app.invalidateSnapshotsUseCase = usecase.NewInvalidateSnapshotsUseCase(
		app.snapshotLoader,
		app.getDestinationSuggestionsUseCase,
		applicationLogger,
	)

	if cfg.RabbitMQ.Enabled {
		consumerConfig := queue.NewRabbitMQConfig(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.RoutingKey, cfg.RabbitMQ.PrefetchCount)
		consumerConfig.PerInstance = cfg.RabbitMQ.PerInstance
		app.consumer = queue.NewRabbitMQConsumer(consumerConfig, applicationLogger)
	}

	searchHandler := handler.NewSearchHandler(
		searchListingsUseCase,
		app.getDestinationSuggestionsUseCase,
		getTopDestinationsUseCase,
		getTopBookedPropertiesUseCase,
		getPropertyAvailabilityUseCase,
		app.invalidateSnapshotsUseCase,
		app.healthChecks(),
		applicationLogger,
	)

	app.server = initServer(cfg.Server, searchHandler, applicationLogger)
	app.scheduler = gocron.NewScheduler()

	return app, nil
}

func (app *Application) initSource() (listing.Source, error) {
	switch app.config.Source.Driver {
	case config.SourceDriverPostgres:
		db, err := database.GormOpenWithPool(app.config.Database.DSN(), database.PoolConfig{
			MaxOpenConns:    app.config.Database.MaxOpenConnections,
			MaxIdleConns:    app.config.Database.MaxIdleConnections,
			ConnMaxLifetime: app.config.Database.ConnMaxLife,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if app.config.Database.AutoMigrate {
			if err := database.MigrateListingTables(db); err != nil {
				return nil, fmt.Errorf("failed to migrate listing tables: %w", err)
			}
		}
		app.db = db
		app.logger.Info("Using postgres listing source", "host", app.config.Database.Host)
		return adapter.NewPostgresListingRepository(db, app.logger), nil

	default:
		apiCfg := app.config.ListingAPI
		app.logger.Info("Using listing API source", "base_url", apiCfg.BaseURL)
		return adapter.NewListingAPIAdapter(adapter.ListingAPIConfig{
			BaseURL:        apiCfg.BaseURL,
			APIKey:         apiCfg.APIKey,
			Timeout:        apiCfg.Timeout,
			RateLimit:      apiCfg.RateLimit,
			BurstLimit:     apiCfg.BurstLimit,
			MaxRetries:     apiCfg.MaxRetries,
			RetryInterval:  apiCfg.RetryInterval,
			Headers:        make(map[string]string),
			PropertiesPath: apiCfg.PropertiesPath,
			RoomsPath:      apiCfg.RoomsPath,
			BookingsPath:   apiCfg.BookingsPath,
			ReviewsPath:    apiCfg.ReviewsPath,
			CircuitBreaker: adapter.CircuitBreakerConfig{
				MaxRequests:         apiCfg.CircuitBreaker.MaxRequests,
				Interval:            apiCfg.CircuitBreaker.Interval,
				Timeout:             apiCfg.CircuitBreaker.Timeout,
				ConsecutiveFailures: apiCfg.CircuitBreaker.ConsecutiveFailures,
			},
		}, app.logger), nil
	}
}

func (app *Application) healthChecks() map[string]handler.HealthCheckFunc {
	checks := make(map[string]handler.HealthCheckFunc)
	if app.db != nil {
		checks["postgres"] = func(ctx context.Context) error { return database.Ping(ctx, app.db) }
	}
	if app.remoteCache != nil {
		checks["redis"] = app.remoteCache.Ping
	}
	if app.searchEngine != nil {
		checks["typesense"] = app.searchEngine.HealthCheck
	}
	if app.consumer != nil {
		checks["rabbitmq"] = func(context.Context) error { return app.consumer.HealthCheck() }
	}
	return checks
}

func (app *Application) Start() error {
	app.logger.Info("Starting search service",
		"version", "1.0.0",
		"address", app.config.Server.Address(),
		"source", app.config.Source.Driver)

	app.performHealthChecks(app.ctx)

	if app.consumer != nil {
		go func() {
			if err := app.consumer.Run(app.ctx, app.invalidateSnapshotsUseCase); err != nil {
				app.logger.Error("Change event consumer stopped", "error", err)
			}
		}()
	}

	if err := app.startSchedules(); err != nil {
		return err
	}

	go func() {
		figure.NewFigure("SEARCH", "", true).Print()
		fmt.Println("")
		fmt.Println("Search service started at " + app.config.Server.Address())
		fmt.Println("")
		if err := app.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error("HTTP server failed", "error", err)
		}
	}()

	app.waitForShutdown()

	return nil
}

func (app *Application) performHealthChecks(ctx context.Context) {
	app.logger.Info("Performing health checks")

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for name, check := range app.healthChecks() {
		if err := check(ctx); err != nil {
			app.logger.Warn("Health check failed", "component", name, "error", err)
		}
	}
}

func (app *Application) startSchedules() error {
	if app.config.Schedule.RefreshOnStart {
		go app.refreshDestinations()
	}

	interval := app.config.Schedule.DestinationRefreshMinutes
	err := app.scheduler.Every(interval).Minutes().Do(func() {
		app.refreshDestinations()
		app.logger.Info("Triggered destination refresh",
			"timestamp", time.Now().Unix(),
			"interval", interval,
		)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule destination refresh: %w", err)
	}

	app.scheduler.Start()
	return nil
}

func (app *Application) refreshDestinations() {
	ctx, cancel := context.WithTimeout(app.ctx, 2*app.config.Snapshot.FetchTimeout)
	defer cancel()

	if err := app.getDestinationSuggestionsUseCase.Refresh(ctx); err != nil {
		app.logger.Error("Destination refresh failed", "error", err)
	}
}

func (app *Application) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	app.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("Server forced to shutdown", "error", err)
	}

	app.cancel()
	app.scheduler.Clear()

	if app.consumer != nil {
		if err := app.consumer.Close(); err != nil {
			app.logger.Error("Error closing RabbitMQ consumer", "error", err)
		}
	}

	app.localCache.Stop()

	if app.db != nil {
		if err := database.Close(app.db); err != nil {
			app.logger.Error("Error closing database", "error", err)
		}
	}

	if app.remoteCache != nil {
		if err := app.remoteCache.Close(); err != nil {
			app.logger.Error("Error closing Redis", "error", err)
		}
	}

	app.logger.Info("Server stopped gracefully")
}

func initRedis(cfg config.RedisConfig, logger *slog.Logger) *redis.Client {
	logger.Info("Connecting to Redis", "address", cfg.Address())

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address(),
		Password:     cfg.Password,
		DB:           cfg.Database,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	logger.Info("Redis client created")
	return client
}

func initServer(cfg config.ServerConfig, searchHandler *handler.SearchHandler, logger *slog.Logger) *http.Server {
	trustedProxies, err := cfg.TrustedProxyPrefixes()
	if err != nil {
		logger.Warn("Ignoring trusted proxies", "error", err)
	}

	router := handler.NewRouter(searchHandler, handler.RouterConfig{
		EnableCORS:     cfg.EnableCORS,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      cfg.RateLimit,
		RateBurst:      cfg.RateBurst,
		TrustedProxies: trustedProxies,
	}, logger)

	printRoutes(router, logger)

	return &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func printRoutes(router *mux.Router, logger *slog.Logger) {
	fmt.Println("API Routes Overview")
	fmt.Println("═══════════════════════════════════════════════════════════════")

	var routes []string

	err := router.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}

		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"ALL"}
		}

		routeDesc := fmt.Sprintf("  %-8s %s", strings.Join(methods, ", "), pathTemplate)

		switch {
		case strings.Contains(pathTemplate, "/health"):
			routeDesc += " - Health check endpoint"
		case strings.Contains(pathTemplate, "/search/listings"):
			routeDesc += " - Search available listings"
		case strings.Contains(pathTemplate, "/search/destinations"):
			routeDesc += " - Destination suggestions"
		case strings.Contains(pathTemplate, "/destinations/top"):
			routeDesc += " - Top destinations with highlighted listings"
		case strings.Contains(pathTemplate, "/availability"):
			routeDesc += " - Property availability calendar"
		case strings.Contains(pathTemplate, "/admin/snapshots"):
			routeDesc += " - Invalidate cached listing snapshots"
		default:
			return nil
		}

		routes = append(routes, routeDesc)
		return nil
	})

	if err != nil {
		logger.Error("Error walking routes", "error", err)
		return
	}

	for _, route := range routes {
		fmt.Println(route)
	}

	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("Total registered routes: %d\n", len(routes))
}
