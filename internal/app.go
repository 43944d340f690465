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

	"realty-service/internal/adapters/filestorage"
	logger_adapter "realty-service/internal/adapters/logger"
	postgres_adapter "realty-service/internal/adapters/postgres"
	rabbitmq_adapter "realty-service/internal/adapters/rabbitmq"
	"realty-service/internal/adapters/report"
	"realty-service/internal/adapters/rest"
	search_adapter "realty-service/internal/adapters/search"
	"realty-service/internal/configs"
	"realty-service/internal/constants"
	"realty-service/internal/core/domain"
	"realty-service/internal/core/port"
	"realty-service/internal/core/usecase"
	fluentlogger "realty-service/pkg/fluent_logger"
	"realty-service/pkg/postgres"
	"realty-service/pkg/rabbitmq/rabbitmq_common"
	"realty-service/pkg/rabbitmq/rabbitmq_consumer"
	"realty-service/pkg/rabbitmq/rabbitmq_producer"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

const shutdownTimeout = 15 * time.Second

// App – структура приложения
type App struct {
	config       *configs.AppConfig
	dbPool       *pgxpool.Pool
	apiServer    *rest.Server
	fluentClient *fluent.Fluent
	logger       port.LoggerPort

	// nil, если брокер выключен
	connManager      *rabbitmq_common.ConnectionManager
	dealEvents       *rabbitmq_producer.Publisher
	incomingActsList port.EventListenerPort
}

// NewApp создает новый экземпляр приложения.
// Это "Composition Root", где все зависимости создаются и связываются.
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ИНИЦИАЛИЗАЦИЯ ЛОГГЕРОВ ---
	baseLogger, fluentClient, err := newLoggers(appConfig)
	if err != nil {
		return nil, err
	}
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})

	app := &App{
		config:       appConfig,
		fluentClient: fluentClient,
		logger:       appLogger,
	}

	// --- 2. POSTGRES И МИГРАЦИИ ---
	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbPool, err := postgres.NewClient(startCtx, postgres.Config{
		DatabaseURL:    appConfig.Database.URL,
		MaxConns:       appConfig.Database.MaxConns,
		ConnectTimeout: 10 * time.Second,
	})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		app.closeResources()
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	app.dbPool = dbPool
	appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

	if err := postgres_adapter.Migrate(startCtx, dbPool, baseLogger); err != nil {
		appLogger.Error("Failed to apply migrations", err, nil)
		app.closeResources()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	repos, err := newRepositories(dbPool)
	if err != nil {
		appLogger.Error("Failed to create postgres repositories", err, nil)
		app.closeResources()
		return nil, err
	}
	appLogger.Info("Postgres repositories initialized.", nil)

	// --- 3. ИСХОДЯЩИЕ АДАПТЕРЫ ---
	files, err := filestorage.NewLocalFileStorage(appConfig.Media.Root)
	if err != nil {
		appLogger.Error("Failed to prepare media storage", err, port.Fields{"media_root": appConfig.Media.Root})
		app.closeResources()
		return nil, err
	}
	calculator, err := domain.NewCommissionCalculator(appConfig.Commission)
	if err != nil {
		app.closeResources()
		return nil, fmt.Errorf("failed to create commission calculator: %w", err)
	}
	matcher := search_adapter.NewLevenshteinMatcher()

	var dealPublisher port.DealEventPublisherPort = rabbitmq_adapter.NoopDealEventPublisher{}
	if appConfig.RabbitMQ.Enabled {
		if dealPublisher, err = app.initMessaging(baseLogger); err != nil {
			app.closeResources()
			return nil, err
		}
	}

	// --- 4. USE CASES ---
	clients := usecase.NewEntityUseCase[domain.Client, domain.NoFilter](repos.clients, "Clients")
	realtors := usecase.NewEntityUseCase[domain.Realtor, domain.NoFilter](repos.realtors, "Realtors")
	properties := usecase.NewEntityUseCase[domain.Property, domain.PropertyFilter](repos.properties, "Properties")
	offers := usecase.NewEntityUseCase[domain.Offer, domain.OfferFilter](repos.offers, "Offers")
	needs := usecase.NewEntityUseCase[domain.Need, domain.NeedFilter](repos.needs, "Needs")
	acts := usecase.NewEntityUseCase[domain.Act, domain.NoFilter](repos.acts, "Acts")

	dealUseCases := rest.DealUseCases{
		List:        usecase.NewListDealsUseCase(repos.deals),
		Get:         usecase.NewGetDealUseCase(repos.deals),
		Create:      usecase.NewCreateDealUseCase(repos.deals, dealPublisher),
		Update:      usecase.NewUpdateDealUseCase(repos.deals),
		Delete:      usecase.NewDeleteDealUseCase(repos.deals, dealPublisher),
		Search:      usecase.NewSearchDealsUseCase(repos.deals, matcher),
		Commissions: usecase.NewGetDealCommissionsUseCase(repos.deals, calculator),
		Report:      usecase.NewBuildDealsReportUseCase(repos.deals, calculator, report.NewXLSXReportWriter()),
	}
	appLogger.Info("All use cases initialized.", nil)

	// --- 5. ВХОДЯЩИЕ АДАПТЕРЫ ---
	if app.connManager != nil {
		if err := app.initActsListener(usecase.NewIngestActUseCase(repos.acts), baseLogger); err != nil {
			app.closeResources()
			return nil, err
		}
	}

	baseURL := appConfig.Rest.PublicBaseURL
	handlers := rest.Handlers{
		Clients:  rest.NewClientHandler(clients, usecase.NewSearchClientsUseCase(repos.clients, matcher)),
		Realtors: rest.NewRealtorHandler(realtors, usecase.NewSearchRealtorsUseCase(repos.realtors, matcher)),
		Properties: rest.NewPropertyHandler(
			properties,
			usecase.NewSavePropertyUseCase(repos.properties, files),
			usecase.NewDeletePropertyUseCase(repos.properties, files),
			usecase.NewSearchPropertiesByAddressUseCase(repos.properties, matcher),
			usecase.NewSearchPropertiesInRegionUseCase(repos.properties),
			baseURL,
		),
		Offers: rest.NewOfferHandler(offers, usecase.NewFindMatchingNeedsUseCase(repos.needs, repos.offers), baseURL),
		Needs:  rest.NewNeedHandler(needs, usecase.NewFindMatchingOffersUseCase(repos.needs, repos.offers), baseURL),
		Deals:  rest.NewDealHandler(dealUseCases, baseURL),
		Acts:   rest.NewActHandler(acts),
	}

	app.apiServer = rest.NewServer(rest.ServerConfig{
		Port:           appConfig.Rest.PORT,
		MediaRoot:      files.Root(),
		AllowedOrigins: appConfig.Rest.AllowedOrigins,
		RateLimitRPS:   appConfig.Rest.RateLimitRPS,
		RateLimitBurst: appConfig.Rest.RateLimitBurst,
	}, handlers, baseLogger)
	appLogger.Info("REST API server configured.", nil)

	return app, nil
}

func newLoggers(appConfig *configs.AppConfig) (port.LoggerPort, *fluent.Fluent, error) {
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   appConfig.StdoutLogger.IsJSON,
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		var err error
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
			Async:     true,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		if fluentClient != nil {
			fluentClient.Close()
		}
		return nil, nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{"service_name": appConfig.AppName})
	baseLogger.WithFields(port.Fields{"component": "app"}).Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})
	return baseLogger, fluentClient, nil
}

type repositories struct {
	clients    *postgres_adapter.PostgresClientRepository
	realtors   *postgres_adapter.PostgresRealtorRepository
	properties *postgres_adapter.PostgresPropertyRepository
	offers     *postgres_adapter.PostgresOfferRepository
	needs      *postgres_adapter.PostgresNeedRepository
	deals      *postgres_adapter.PostgresDealRepository
	acts       *postgres_adapter.PostgresActRepository
}

func newRepositories(pool *pgxpool.Pool) (*repositories, error) {
	var (
		r   repositories
		err error
	)
	if r.clients, err = postgres_adapter.NewPostgresClientRepository(pool); err != nil {
		return nil, fmt.Errorf("failed to create client repository: %w", err)
	}
	if r.realtors, err = postgres_adapter.NewPostgresRealtorRepository(pool); err != nil {
		return nil, fmt.Errorf("failed to create realtor repository: %w", err)
	}
	if r.properties, err = postgres_adapter.NewPostgresPropertyRepository(pool); err != nil {
		return nil, fmt.Errorf("failed to create property repository: %w", err)
	}
	if r.offers, err = postgres_adapter.NewPostgresOfferRepository(pool); err != nil {
		return nil, fmt.Errorf("failed to create offer repository: %w", err)
	}
	if r.needs, err = postgres_adapter.NewPostgresNeedRepository(pool); err != nil {
		return nil, fmt.Errorf("failed to create need repository: %w", err)
	}
	if r.deals, err = postgres_adapter.NewPostgresDealRepository(pool); err != nil {
		return nil, fmt.Errorf("failed to create deal repository: %w", err)
	}
	if r.acts, err = postgres_adapter.NewPostgresActRepository(pool); err != nil {
		return nil, fmt.Errorf("failed to create act repository: %w", err)
	}
	return &r, nil
}

// initMessaging поднимает соединение с брокером и издателя событий о сделках
func (a *App) initMessaging(baseLogger port.LoggerPort) (port.DealEventPublisherPort, error) {
	appLogger := a.logger
	rabbitCfg := a.config.RabbitMQ

	connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"}))
	connManager, err := rabbitmq_common.NewManager(rabbitCfg.URL, rabbitCfg.ReconnectInterval, connManagerBridge)
	if err != nil {
		appLogger.Error("Failed to create connection manager", err, nil)
		return nil, fmt.Errorf("failed to create connection manager: %w", err)
	}
	a.connManager = connManager
	appLogger.Info("RabbitMQ Connection Manager initialized.", nil)

	producerCfg := rabbitmq_producer.PublisherConfig{
		Config:                   rabbitmq_common.Config{URL: rabbitCfg.URL},
		ExchangeName:             constants.RealtyExchange,
		ExchangeType:             constants.RealtyExchangeType,
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
		ConfirmDelivery:          true,

		Logger: rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})),
	}
	producer, err := rabbitmq_producer.NewPublisher(producerCfg, connManager)
	if err != nil {
		appLogger.Error("Failed to create event producer", err, nil)
		return nil, fmt.Errorf("failed to create event producer: %w", err)
	}
	a.dealEvents = producer

	publisher, err := rabbitmq_adapter.NewDealEventPublisherAdapter(producer)
	if err != nil {
		return nil, err
	}
	appLogger.Info("RabbitMQ deal event publisher initialized.", nil)
	return publisher, nil
}

func (a *App) initActsListener(ingest *usecase.IngestActUseCase, baseLogger port.LoggerPort) error {
	consumerCfg := rabbitmq_consumer.ConsumerConfig{
		Config:                 rabbitmq_common.Config{URL: a.config.RabbitMQ.URL},
		QueueName:              constants.QueueIncomingActs,
		DeclareQueue:           true,
		DurableQueue:           true,
		ExchangeNameForBind:    constants.RealtyExchange,
		DeclareExchangeForBind: true,
		ExchangeTypeForBind:    constants.RealtyExchangeType,
		DurableExchangeForBind: true,
		RoutingKeyForBind:      constants.RoutingKeyIncomingActs,
		PrefetchCount:          1,
		ConsumerTag:            a.config.AppName + "-acts",

		EnableRetryMechanism: true,
		RetryExchange:        constants.ActsRetryExchange,
		RetryQueue:           constants.ActsRetryQueue,
		RetryTTL:             constants.ActsRetryTTL,

		FinalDLXExchange:   constants.FinalDLXExchange,
		FinalDLQ:           constants.FinalDLQ,
		FinalDLQRoutingKey: constants.FinalDLQRoutingKey,
		MaxRetries:         constants.ActsMaxRetries,
	}
	listener, err := rabbitmq_adapter.NewActConsumerAdapter(consumerCfg, ingest, baseLogger, a.connManager)
	if err != nil {
		a.logger.Error("Failed to create incoming acts listener", err, nil)
		return err
	}
	a.incomingActsList = listener
	a.logger.Info("Incoming Acts Listener initialized.", nil)
	return nil
}

// Run запускает все компоненты приложения и управляет их жизненным циклом.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	var wg sync.WaitGroup
	errorsCh := make(chan error, 2)

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.apiServer.Stop(stopCtx); err != nil {
			a.logger.Error("Error during API server shutdown", err, nil)
		}

		a.logger.Info("Waiting for background processes to finish...", nil)
		wg.Wait()
		a.logger.Info("All background processes finished.", nil)

		a.closeResources()
	}()

	a.logger.Info("Application is starting...", nil)

	if a.incomingActsList != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			listenerLogger := a.logger.WithFields(port.Fields{"listener_name": "Incoming Acts Listener"})
			listenerLogger.Info("Starting listener...", nil)
			if err := a.incomingActsList.Start(appCtx); err != nil {
				listenerLogger.Error("Listener stopped with an unexpected error", err, nil)
				errorsCh <- fmt.Errorf("incoming acts listener error: %w", err)
				return
			}
			listenerLogger.Info("Listener stopped gracefully due to context cancellation.", nil)
		}()
	}

	go func() {
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			errorsCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	a.logger.Info("Application running. Waiting for signals or server error...", port.Fields{"port": a.config.Rest.PORT})

	var runErr error
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case runErr = <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", runErr, nil)
	}

	cancelApp()
	return runErr
}

// closeResources закрывает то, что успели создать; безопасен при частичной инициализации
func (a *App) closeResources() {
	if a.incomingActsList != nil {
		if err := a.incomingActsList.Close(); err != nil {
			a.logger.Error("Error closing incoming acts listener", err, nil)
		}
		a.incomingActsList = nil
	}
	if a.dealEvents != nil {
		if err := a.dealEvents.Close(); err != nil {
			a.logger.Error("Error closing event producer", err, nil)
		}
		a.dealEvents = nil
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection manager", err, nil)
		}
		a.connManager = nil
	}
	if a.dbPool != nil {
		a.dbPool.Close()
		a.dbPool = nil
		a.logger.Info("PostgreSQL pool closed.", nil)
	}

	a.logger.Info("Application resources released.", nil)

	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			// fluent может быть уже недоступен
			fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
		a.fluentClient = nil
	}
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
