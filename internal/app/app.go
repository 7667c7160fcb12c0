package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	httpapi "github.com/shestoi/paygate/internal/api/http"
	"github.com/shestoi/paygate/internal/client/bank"
	"github.com/shestoi/paygate/internal/config"
	eventkafka "github.com/shestoi/paygate/internal/event/kafka"
	"github.com/shestoi/paygate/internal/repository/memory"
	"github.com/shestoi/paygate/internal/service"
	"github.com/shestoi/paygate/internal/validation"
	platformhealth "github.com/shestoi/paygate/platform/health/http"
	platformlogging "github.com/shestoi/paygate/platform/logging"
	platformobservability "github.com/shestoi/paygate/platform/observability"
	platformshutdown "github.com/shestoi/paygate/platform/shutdown"
)

const serviceName = "gateway"

// App содержит все зависимости для запуска и корректного shutdown платёжного шлюза
type App struct {
	logger      *zap.Logger
	httpServer  *http.Server
	shutdownMgr *platformshutdown.Manager
	readiness   *platformhealth.Readiness
	wg          sync.WaitGroup
}

// Build создаёт и настраивает все зависимости шлюза
func Build(cfg config.Config) (*App, error) {
	const op = "app.Build"

	logger, err := platformlogging.New(platformlogging.Config{
		ServiceName: serviceName,
		Env:         string(cfg.AppEnv),
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: create logger: %w", op, err)
	}

	cfg.Log(logger)
	logger.Info("Building gateway", zap.String("op", op), zap.String("http_addr", cfg.HTTPAddr))

	// OpenTelemetry: при OTEL_ENABLED=false ставятся noop providers
	otelShutdown, err := platformobservability.Init(context.Background(), platformobservability.Config{
		Enabled:               cfg.OTelEnabled,
		OTLPEndpoint:          cfg.OTelEndpoint,
		SamplingRatio:         cfg.OTelSamplingRatio,
		ServiceName:           serviceName,
		DeploymentEnvironment: string(cfg.AppEnv),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: init observability: %w", op, err)
	}

	shutdownMgr := platformshutdown.New(cfg.ShutdownTimeout, logger)

	// Регистрируем shutdown функции в обратном порядке выполнения
	shutdownMgr.Add("otel", otelShutdown)

	bankClient := bank.NewClient(logger, cfg.BankBaseURL, cfg.BankTimeout)
	logger.Info("Bank client configured",
		zap.String("base_url", cfg.BankBaseURL),
		zap.Duration("timeout", cfg.BankTimeout),
	)

	paymentRepo := memory.NewMemoryRepository()

	var publisher service.PaymentEventPublisher
	if cfg.PaymentEventsEnabled {
		kafkaPublisher := eventkafka.NewKafkaPaymentEventPublisher(logger, cfg.Kafka)
		shutdownMgr.Add("kafka_writer", platformshutdown.Close(kafkaPublisher))
		publisher = kafkaPublisher
		logger.Info("Payment events enabled",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
	} else {
		publisher = eventkafka.NewNoOpPaymentEventPublisher(logger)
		logger.Info("Payment events disabled")
	}

	paymentService := service.NewPaymentService(logger, bankClient, paymentRepo, publisher)
	validator := validation.NewValidator(time.Now)

	handler := httpapi.NewHandler(logger, validator, paymentService)

	readiness := platformhealth.NewReadiness(true)
	router := httpapi.NewRouter(handler, readiness.Ready, serviceName, logger)

	// WriteTimeout должен покрывать вызов банка
	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.BankTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	shutdownMgr.Add("http_server", platformshutdown.ShutdownHTTPServer(httpServer))
	shutdownMgr.Add("health", platformshutdown.SetHealthNotServing(readiness))

	return &App{
		logger:      logger,
		httpServer:  httpServer,
		shutdownMgr: shutdownMgr,
		readiness:   readiness,
	}, nil
}

// Run запускает сервис и блокируется до получения сигнала shutdown.
// Если HTTP сервер не смог стартовать, выполняется shutdown и возвращается ошибка.
func (a *App) Run() error {
	defer platformlogging.Sync(a.logger)

	a.logger.Info("Starting gateway", zap.String("addr", a.httpServer.Addr))
	a.logger.Info("Health check available", zap.String("url", "http://"+a.httpServer.Addr+"/health"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var serveErr error
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("HTTP server error", zap.Error(err))
			serveErr = err
			cancel()
		}
	}()

	// Ожидаем сигнал (или падение сервера) и выполняем shutdown
	a.shutdownMgr.Wait(ctx)

	a.wg.Wait()
	a.logger.Info("Gateway stopped")
	return serveErr
}
