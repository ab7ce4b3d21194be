package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"tcofront/internal/front/adapters/api"
	"tcofront/internal/front/adapters/storage"
	"tcofront/internal/front/app/credentials"
	httpServer "tcofront/internal/front/app/http"
	"tcofront/internal/front/app/http/handlers"
	"tcofront/internal/front/app/notifier"
	"tcofront/internal/front/app/profile"
	"tcofront/internal/front/app/services"
	"tcofront/internal/front/app/session"
	"tcofront/internal/front/app/sitedata"
	"tcofront/internal/front/app/user"
	"tcofront/internal/front/app/validation"
	"tcofront/internal/front/config"
	"tcofront/internal/front/metrics"
	ports "tcofront/internal/front/ports/storage"
	"tcofront/internal/front/resilience"
	"tcofront/migrations"
	"tcofront/pkg/db/postgres"
	"tcofront/pkg/logger"
	"tcofront/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "TCO_FRONT_LOGGER_MODE"
	EnvLoggerLevel = "TCO_FRONT_LOGGER_LEVEL"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrInitStorage          = "failed to initialize credential storage"
	ErrMigrate              = "failed to apply migrations"
	ErrCreateAPIClient      = "failed to create API client"
	ErrRestoreSession       = "failed to restore session"
	ErrStartHTTPServer      = "failed to start HTTP server"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "tco front service started"
	LogServiceShutdownDone = "tco front service shutdown complete"
	LogInitStorage         = "initializing credential storage"
	LogInitClients         = "initializing API client"
	LogInitServices        = "initializing services"
	LogInitHTTPServer      = "initializing HTTP server"
	LogStartingHTTP        = "starting HTTP server"
	LogStoppingHTTP        = "stopping HTTP server"
	LogStoppingNotifier    = "stopping auth-change notifier"
	LogClosingStorage      = "closing credential storage"
)

func main() {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		cfg, err := config.Load(ctx)
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}

		finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", string(cfg.Logging.GetEnvironment())),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("storage", cfg.Storage.Backend),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		log.Info(ctx, LogInitStorage, zap.String("backend", cfg.Storage.Backend))
		kv, closeStorage, err := openStorage(ctx, cfg)
		if err != nil {
			log.Error(ctx, ErrInitStorage, zap.Error(err))
			exitCode = 1
			return
		}
		defer closeStorage()

		m := metrics.New()

		log.Info(ctx, LogInitClients, zap.String("base_url", cfg.API.BaseURL))
		breaker := resilience.NewCircuitBreaker("tco-api", api.BreakerConfig(resilience.CircuitBreakerConfig{
			ErrorThreshold:   cfg.Breaker.ErrorThreshold,
			Timeout:          cfg.Breaker.Timeout,
			SuccessThreshold: cfg.Breaker.SuccessThreshold,
		}, m))
		client, err := api.NewClient(cfg.API, api.WithCircuitBreaker(breaker), api.WithMetrics(m))
		if err != nil {
			log.Error(ctx, ErrCreateAPIClient, zap.Error(err))
			exitCode = 1
			return
		}

		sessions, err := session.NewManager(ctx, credentials.NewStore(kv), api.NewAuthClient(client), session.WithMetrics(m))
		if err != nil {
			log.Error(ctx, ErrRestoreSession, zap.Error(err))
			exitCode = 1
			return
		}

		redirects := handlers.NewRedirects()
		api.NewAuthInterceptor(sessions, redirects, m).Install(client)

		log.Info(ctx, LogInitServices)
		v := validation.New()
		cache := sitedata.New(services.NewSiteDataService(client), sessions,
			sitedata.WithTTL(cfg.SiteData.TTL), sitedata.WithMetrics(m))
		users := user.NewStore(services.NewUserService(client))
		editor := profile.NewEditor(users, v)

		authNotifier := notifier.New(sessions, cache, cfg.SiteData.FetchDelay)
		authNotifier.Start(ctx)

		log.Info(ctx, LogInitHTTPServer)
		app := fiber.New(fiber.Config{
			AppName:      config.ServiceName,
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
		})

		httpServer.SetupRouter(app, httpServer.Handlers{
			Auth:       handlers.NewAuthHandler(sessions, v, redirects, cache, users),
			Catalogue:  handlers.NewCatalogueHandler(services.NewCatalogueService(client), redirects),
			Comparo:    handlers.NewComparoHandler(services.NewComparoService(client), redirects),
			Calculator: handlers.NewCalculatorHandler(services.NewCalculatorService(client, v), redirects),
			SiteData:   handlers.NewSiteDataHandler(cache, redirects),
			Profile:    handlers.NewProfileHandler(editor, users, v, redirects),
		}, sessions, m)

		log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
		go func() {
			if err := app.Listen(cfg.HTTP.GetAddress()); err != nil {
				log.Error(ctx, ErrStartHTTPServer, zap.Error(err))
			}
		}()

		shutdown.Wait(ctx, cfg.Shutdown.GetTimeout(),
			// Остановка HTTP сервера.
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingHTTP)
				return app.Shutdown()
			},
			// Остановка наблюдателя сессии.
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingNotifier)
				return authNotifier.Stop(ctx)
			},
		)

		log.Info(ctx, LogServiceShutdownDone)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

// openStorage открывает хранилище учетных данных, выбранное в конфигурации.
func openStorage(ctx context.Context, cfg *config.Config) (ports.KeyValueStore, func(), error) {
	log := logger.Log(ctx)

	switch cfg.Storage.Backend {
	case config.StorageRedis:
		store, err := storage.NewRedisStore(ctx, &cfg.Redis, cfg.Storage.KeyPrefix)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			log.Info(ctx, LogClosingStorage)
			if err := store.Close(); err != nil {
				log.Warn(ctx, LogClosingStorage, zap.Error(err))
			}
		}, nil

	case config.StoragePostgres:
		if err := postgres.MigrateFS(ctx, migrations.Front, migrations.FrontDir, cfg.Postgres.GetConnectionURL()); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", ErrMigrate, err)
		}
		db, err := postgres.New(ctx, cfg.Postgres.GetDSN(), cfg.Postgres.MinConn, cfg.Postgres.MaxConn)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewPostgresStore(db.Pool()), func() {
			log.Info(ctx, LogClosingStorage)
			db.Close(ctx)
		}, nil

	default:
		return storage.NewMemoryStore(), func() {}, nil
	}
}
