package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	jsonfile_adapter "github.com/YOOYEONGHO/naver-land-collector/internal/adapters/jsonfile"
	logger_adapter "github.com/YOOYEONGHO/naver-land-collector/internal/adapters/logger"
	"github.com/YOOYEONGHO/naver-land-collector/internal/adapters/naverfetcher"
	postgres_adapter "github.com/YOOYEONGHO/naver-land-collector/internal/adapters/postgres"
	rabbitmq_adapter "github.com/YOOYEONGHO/naver-land-collector/internal/adapters/rabbitmq"
	"github.com/YOOYEONGHO/naver-land-collector/internal/adapters/rest"
	"github.com/YOOYEONGHO/naver-land-collector/internal/configs"
	"github.com/YOOYEONGHO/naver-land-collector/internal/constants"
	"github.com/YOOYEONGHO/naver-land-collector/internal/core/port"
	"github.com/YOOYEONGHO/naver-land-collector/internal/core/usecase"
	"github.com/YOOYEONGHO/naver-land-collector/internal/scheduler"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

// App - структура приложения
type App struct {
	config    *configs.AppConfig
	apiServer *rest.Server
	scheduler *scheduler.Scheduler

	dbPool         *pgxpool.Pool
	eventPublisher *rabbitmq_adapter.Publisher

	logger       port.LoggerPort
	fluentClient *fluent.Fluent // держим для корректного закрытия
}

// NewApp создает новый экземпляр приложения
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. Инициализация логгеров ---
	var activeLoggers []port.LoggerPort

	slogCfg := logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false,
		UseColor: true,
	}
	stdoutLogger := logger_adapter.NewSlogAdapter(slogCfg)
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = logger_adapter.NewFluentClient(logger_adapter.FluentConfig{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// --- 2. Хранилище снапшотов ---
	var snapshotStorage port.SnapshotStoragePort
	var dbPool *pgxpool.Pool

	switch appConfig.StorageBackend {
	case configs.StorageBackendPostgres:
		dbPool, err = postgres_adapter.NewClient(context.Background(), postgres_adapter.Config{DatabaseURL: appConfig.Database.URL})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		appLogger.Info("Successfully connected to PostgreSQL pool", nil)

		pgStorage, err := postgres_adapter.NewPostgresStorageAdapter(dbPool)
		if err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("failed to create postgres storage adapter: %w", err)
		}
		if err := pgStorage.EnsureSchema(context.Background()); err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("failed to ensure database schema: %w", err)
		}
		snapshotStorage = pgStorage

	case configs.StorageBackendJSONFile:
		fileStorage, err := jsonfile_adapter.NewJSONFileStorageAdapter(appConfig.JSONFile.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create json file storage adapter: %w", err)
		}
		appLogger.Info("Using JSON file snapshot storage", port.Fields{"data_dir": appConfig.JSONFile.DataDir})
		snapshotStorage = fileStorage

	default:
		return nil, fmt.Errorf("unknown storage backend: %q", appConfig.StorageBackend)
	}

	// --- 3. Исходящие адаптеры ---
	fetcher, err := naverfetcher.NewNaverFetcherAdapter(
		appConfig.Collector.BaseURL,
		appConfig.Collector.MaxPages,
		constants.DefaultPageSize,
	)
	if err != nil {
		if dbPool != nil {
			dbPool.Close()
		}
		return nil, fmt.Errorf("failed to create naver fetcher adapter: %w", err)
	}

	var runReporter port.RunReporterPort
	var eventPublisher *rabbitmq_adapter.Publisher
	if appConfig.RabbitMQ.Enabled {
		publisherLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_publisher"})
		eventPublisher, err = rabbitmq_adapter.NewPublisher(rabbitmq_adapter.PublisherConfig{
			URL:                      appConfig.RabbitMQ.URL,
			ExchangeName:             constants.CollectorExchange,
			ExchangeType:             "topic",
			DeclareExchangeIfMissing: true,
			Logger:                   publisherLogger,
		})
		if err != nil {
			if dbPool != nil {
				dbPool.Close()
			}
			return nil, fmt.Errorf("failed to create rabbitmq publisher: %w", err)
		}

		runReporter, err = rabbitmq_adapter.NewRunReporterAdapter(eventPublisher, constants.RoutingKeyRunCompleted)
		if err != nil {
			eventPublisher.Close()
			if dbPool != nil {
				dbPool.Close()
			}
			return nil, fmt.Errorf("failed to create run reporter adapter: %w", err)
		}
	}
	appLogger.Info("All outgoing adapters initialized.", nil)

	// --- 4. Use-cases ---
	collectUseCase := usecase.NewCollectSnapshotUseCase(fetcher, snapshotStorage, runReporter)
	diffUseCase := usecase.NewDiffSnapshotsUseCase(snapshotStorage)
	queryUseCase := usecase.NewQueryListingsUseCase(snapshotStorage)
	appLogger.Info("All use cases initialized.", nil)

	// --- 5. REST API Server ---
	collectionHandlers := rest.NewCollectionHandler(collectUseCase)
	analysisHandlers := rest.NewAnalysisHandler(queryUseCase, queryUseCase, diffUseCase)
	apiServer := rest.NewServer(appConfig.Rest.PORT, collectionHandlers, analysisHandlers, baseLogger)

	// --- 6. Планировщик периодического сбора (опционально) ---
	var collectScheduler *scheduler.Scheduler
	if appConfig.Collector.IntervalMinutes > 0 {
		schedulerLogger := baseLogger.WithFields(port.Fields{"component": "scheduler"})
		collectScheduler = scheduler.NewScheduler(
			collectUseCase,
			appConfig.Collector.ComplexIDs,
			appConfig.Collector.TradeType,
			time.Duration(appConfig.Collector.IntervalMinutes)*time.Minute,
			schedulerLogger,
		)
	}

	// Собираем приложение
	application := &App{
		config:         appConfig,
		apiServer:      apiServer,
		scheduler:      collectScheduler,
		dbPool:         dbPool,
		eventPublisher: eventPublisher,
		logger:         appLogger,
		fluentClient:   fluentClient,
	}

	return application, nil
}

// Run запускает все компоненты приложения и управляет их жизненным циклом
func (a *App) Run() error {
	// единый контекст для всего приложения для управления graceful shutdown
	appCtx, cancelApp := context.WithCancel(context.Background())

	// для ожидания завершения всех фоновых задач
	var wg sync.WaitGroup

	defer func() {
		a.logger.Info("App: Shutdown sequence initiated...", nil)

		a.logger.Info("App: Waiting for background processes to finish...", nil)
		wg.Wait()
		a.logger.Info("App: All background processes finished.", nil)

		// закрываем ресурсы
		if a.apiServer != nil {
			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
			if err := a.apiServer.Stop(shutdownCtx); err != nil {
				a.logger.Error("App: Error closing api server", err, nil)
			}
			cancelShutdown()
		}

		if a.eventPublisher != nil {
			if err := a.eventPublisher.Close(); err != nil {
				a.logger.Error("App: Error closing rabbitmq publisher", err, nil)
			}
		}

		if a.dbPool != nil {
			a.dbPool.Close()
			a.logger.Info("App: PostgreSQL pool closed.", nil)
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				log.Printf("App: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	serverErrors := make(chan error, 1)

	go func() {
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	if a.scheduler != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.scheduler.Run(appCtx)
		}()
	}

	// Ожидание сигнала на завершение или ошибки от одного из компонентов
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-serverErrors:
		a.logger.Error("HTTP server failed, shutting down", err, nil)
	case <-appCtx.Done():
		a.logger.Warn("Context was cancelled unexpectedly, shutting down...", nil)
	}

	// Инициируем graceful shutdown, отменяя главный контекст
	cancelApp()

	return nil
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
