package internal

import (
	"context"
	"errors"
	"fmt"
	jwt_adapter "listing-service/internal/adapters/jwt"
	logger_adapter "listing-service/internal/adapters/logger"
	"listing-service/internal/adapters/nominatim"
	postgres_adapter "listing-service/internal/adapters/postgres"
	rabbitmq_adapter "listing-service/internal/adapters/rabbitmq"
	"listing-service/internal/adapters/rest"
	"listing-service/internal/configs"
	"listing-service/internal/constants"
	"listing-service/internal/contracts"
	"listing-service/internal/core/port"
	"listing-service/internal/core/usecase"
	fluentlogger "listing-service/pkg/fluent_logger"
	"listing-service/pkg/postgres"
	"listing-service/pkg/rabbitmq/rabbitmq_common"
	"listing-service/pkg/rabbitmq/rabbitmq_producer"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	config    *configs.AppConfig
	dbPool    *pgxpool.Pool
	apiServer *rest.Server

	rabbitManager *rabbitmq_common.ConnectionManager
	publisher     *rabbitmq_producer.Publisher

	fluentClient *fluent.Fluent
	logger       port.LoggerPort
}

// Infrastructure - общие для сервера и утилит зависимости: логгер и пул БД.
type Infrastructure struct {
	Config       *configs.AppConfig
	BaseLogger   port.LoggerPort
	DBPool       *pgxpool.Pool
	FluentClient *fluent.Fluent
}

// Close освобождает ресурсы в обратном порядке.
func (i *Infrastructure) Close() {
	if i.DBPool != nil {
		i.DBPool.Close()
	}
	if i.FluentClient != nil {
		if err := i.FluentClient.Close(); err != nil {
			// fluent может быть уже недоступен
			fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
	}
}

// NewInfrastructure загружает конфиг, поднимает логгеры и подключается к PostgreSQL.
func NewInfrastructure(ctx context.Context) (*Infrastructure, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ИНИЦИАЛИЗАЦИЯ ЛОГГЕРОВ ---
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    logger_adapter.ParseLevel(appConfig.StdoutLogger.Level),
		IsJSON:   appConfig.StdoutLogger.JSON,
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, logger_adapter.ParseLevel(appConfig.FluentBit.Level))
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

	// --- 2. БАЗОВЫЙ ЛОГГЕР ПРИЛОЖЕНИЯ ---
	baseLogger := multiLogger.WithFields(port.Fields{"service_name": appConfig.AppName})
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// --- 3. POSTGRES ---
	dbPool, err := postgres.NewClient(ctx, postgres.Config{
		DatabaseURL:    appConfig.Database.URL,
		ConnectTimeout: 10 * time.Second,
	})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		if fluentClient != nil {
			fluentClient.Close()
		}
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

	return &Infrastructure{
		Config:       appConfig,
		BaseLogger:   baseLogger,
		DBPool:       dbPool,
		FluentClient: fluentClient,
	}, nil
}

func NewApp() (*App, error) {
	infra, err := NewInfrastructure(context.Background())
	if err != nil {
		return nil, err
	}
	appConfig := infra.Config
	baseLogger := infra.BaseLogger
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})

	application := &App{
		config:       appConfig,
		dbPool:       infra.DBPool,
		fluentClient: infra.FluentClient,
		logger:       appLogger,
	}
	fail := func(msg string, err error) (*App, error) {
		appLogger.Error(msg, err, nil)
		application.close()
		return nil, fmt.Errorf("%s: %w", msg, err)
	}

	// --- 4. АДАПТЕРЫ ---
	storageAdapter, err := postgres_adapter.NewPostgresStorageAdapter(infra.DBPool)
	if err != nil {
		return fail("failed to create postgres storage adapter", err)
	}

	geocoder, err := nominatim.NewGeocoderAdapter(nominatim.Config{
		BaseURL:   appConfig.Geocoder.BaseURL,
		UserAgent: appConfig.Geocoder.UserAgent,
		Timeout:   appConfig.Geocoder.Timeout,
	})
	if err != nil {
		return fail("failed to create geocoder adapter", err)
	}

	var identity port.IdentityProviderPort
	if appConfig.Auth.TrustGateway {
		appLogger.Warn("Trusting X-User-ID from api-gateway, tokens are not verified", nil)
	} else {
		identity, err = jwt_adapter.NewIdentityProvider(appConfig.Auth.SigningKey)
		if err != nil {
			return fail("failed to create identity provider", err)
		}
	}

	var notifier port.ModerationNotifierPort = rabbitmq_adapter.NoopModerationNotifier{}
	if appConfig.RabbitMQ.URL != "" {
		rabbitLogger := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger)
		application.rabbitManager, err = rabbitmq_common.NewManager(rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL}, rabbitLogger)
		if err != nil {
			return fail("failed to connect to RabbitMQ", err)
		}

		application.publisher, err = rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			ExchangeName:             constants.ListingsExchange,
			ExchangeType:             "topic",
			DurableExchange:          true,
			DeclareExchangeIfMissing: true,
			Logger:                   rabbitLogger,
		}, application.rabbitManager)
		if err != nil {
			return fail("failed to create RabbitMQ publisher", err)
		}

		notifier, err = rabbitmq_adapter.NewModerationNotifierAdapter(application.publisher, constants.RoutingKeyListingSubmitted)
		if err != nil {
			return fail("failed to create moderation notifier", err)
		}
	} else {
		appLogger.Warn("RABBITMQ_URL is empty, moderation notifications are disabled", nil)
	}
	appLogger.Info("All persistence and service adapters initialized.", nil)

	// --- 5. USE CASES ---
	enrichUseCase := usecase.NewEnrichCoordinatesUseCase(geocoder, usecase.EnrichmentConfig{
		DefaultCity: appConfig.Address.DefaultCity,
		RegionCode:  appConfig.Address.RegionCode,
		Country:     appConfig.Address.Country,
	})
	listUseCase := usecase.NewListPropertiesUseCase(storageAdapter)
	getUseCase := usecase.NewGetPropertyUseCase(storageAdapter)
	createUseCase := usecase.NewCreatePropertyUseCase(storageAdapter, enrichUseCase, notifier, appConfig.Address.DefaultCity)
	updateUseCase := usecase.NewUpdatePropertyUseCase(storageAdapter, enrichUseCase, notifier, usecase.UpdatePolicy{
		ResubmitOnEdit: appConfig.Moderation.ResubmitOnEdit,
	})

	// --- 6. REST ---
	validator, err := contracts.NewValidator()
	if err != nil {
		return fail("failed to compile request contracts", err)
	}
	handlers := rest.NewPropertyHandlers(listUseCase, getUseCase, createUseCase, updateUseCase, validator)
	application.apiServer = rest.NewServer(rest.ServerConfig{
		Port:               appConfig.Rest.PORT,
		CORSAllowedOrigins: appConfig.Rest.CORSAllowedOrigins,
	}, handlers, rest.NewAuthMiddleware(identity, appConfig.Auth.TrustGateway), baseLogger)
	appLogger.Info("REST API server configured.", nil)

	return application, nil
}

// Run запускает все компоненты приложения и управляет их жизненным циклом.
func (a *App) Run() error {
	defer a.close()

	a.logger.Info("Application is starting...", nil)

	serverErrors := make(chan error, 1)
	go func() {
		if err := a.apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	var runErr error
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-serverErrors:
		a.logger.Error("Server failed to start, shutting down", err, nil)
		runErr = err
	}
	return runErr
}

// close останавливает компоненты в порядке, обратном запуску.
func (a *App) close() {
	a.logger.Info("Shutdown sequence initiated...", nil)

	if a.apiServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := a.apiServer.Stop(ctx); err != nil {
			a.logger.Error("Error during API server shutdown", err, nil)
		}
		cancel()
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ publisher", err, nil)
		}
	}
	if a.rabbitManager != nil {
		if err := a.rabbitManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection", err, nil)
		}
	}

	if a.dbPool != nil {
		a.dbPool.Close()
		a.logger.Info("PostgreSQL pool closed.", nil)
	}

	a.logger.Info("Application shut down gracefully.", nil)

	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
	}
}
