package application

import (
	"context"
	"fmt"

	"events/internal/application/common"
	"events/internal/application/repo"
	"events/internal/application/service"
	use_cases "events/internal/application/use-cases"
	"events/internal/controllers/cron"
	"events/internal/controllers/handler"
	"events/internal/transport/producer"
	"events/pkg/broker"
	"events/pkg/config"
	"events/pkg/db"
	"events/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type App struct {
	ctx            context.Context
	conf           *config.Config
	logger         *zap.SugaredLogger
	httpServer     *fiber.App
	kafka          *broker.KafkaBroker
	cronController *cron.Controller
	relayDone      chan struct{}
}

// NewApp собирает слои сервиса. kafkaBroker == nil, если outbox выключен.
func NewApp(
	ctx context.Context,
	conf *config.Config,
	logger *zap.SugaredLogger,
	postgres db.DB,
	httpServer *fiber.App,
	kafkaBroker *broker.KafkaBroker,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer) (*App, error) {
	logger.Infof("Запуск Events Service версии: %s", common.Version)

	store := repo.NewRepo(postgres, logger, m)
	tx := repo.NewTransactions(store, logger)

	var kafkaProducer producer.Producer
	if kafkaBroker != nil {
		kafkaProducer = producer.NewProducer(kafkaBroker, logger, conf.Broker.Kafka.MaxAttempts, m)
	}

	srv := service.NewService(store, tx, kafkaProducer, logger, m, service.Settings{
		OutboxEnabled:     conf.Outbox.Enabled,
		EnforceChronology: conf.Validation.EnforceChronology,
		Relay:             conf.Relay,
	})
	uc := use_cases.NewUseCase(srv, logger, conf)
	h := handler.NewEventHandler(uc, logger)
	handler.NewRouter(h, httpServer, conf, logger, gatherer).RegisterRouter()

	app := &App{
		ctx:        ctx,
		conf:       conf,
		logger:     logger,
		httpServer: httpServer,
		kafka:      kafkaBroker,
	}

	if conf.Outbox.Enabled {
		app.cronController = cron.NewController(ctx, logger)
		if err := app.cronController.RegisterCleanupOutboxJob(uc, conf.Cron); err != nil {
			return nil, fmt.Errorf("не удалось зарегистрировать cron задачу: %w", err)
		}
		app.cronController.Start()

		app.relayDone = make(chan struct{})
		go func() {
			defer close(app.relayDone)
			uc.RunRelay(ctx)
		}()
	}

	return app, nil
}

func (a *App) Run() error {
	return a.httpServer.Listen(fmt.Sprintf(":%s", a.conf.Server.Port))
}

// Shutdown: HTTP, затем cron и relay (ctx к этому моменту отменён), затем producer
func (a *App) Shutdown() error {
	err := a.httpServer.Shutdown()

	if a.cronController != nil {
		a.cronController.Stop()
	}
	if a.relayDone != nil {
		<-a.relayDone
		a.logger.Info("relay остановлен")
	}
	if a.kafka != nil {
		if kErr := a.kafka.Close(); kErr != nil {
			a.logger.Errorf("закрытие kafka producer: %v", kErr)
		}
	}
	return err
}
