package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"events/docs"
	"events/internal/application"
	"events/pkg/broker"
	"events/pkg/config"
	"events/pkg/db"
	"events/pkg/httpserver"
	"events/pkg/metrics"
	"events/pkg/observability"

	"github.com/prometheus/client_golang/prometheus"
)

// @title           Events Service API
// @version         1.0
// @description     CRUD сервис событий поверх PostgreSQL

// @BasePath /

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conf, err := config.NewConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := observability.InitLogger(conf.LoggingLevel)
	defer func() { _ = logger.Sync() }()

	logger.Infof("LOGGING_LEVEL = %s", conf.LoggingLevel)
	if strings.ToLower(conf.LoggingLevel) == "debug" {
		broker.EnableSaramaZapLogs(logger)
	}

	docs.SwaggerInfo.Host = conf.Server.SwaggerHost
	docs.SwaggerInfo.Schemes = []string{conf.Server.SwaggerSchema}

	m := metrics.New(prometheus.DefaultRegisterer)

	fiberServer := httpserver.NewFiber(conf, m)

	logger.Infof("connecting to %s", conf.Postgres.Redacted())
	store, err := db.NewPostgres(ctx, conf.Postgres)
	if err != nil {
		logger.Fatal(err)
	}

	var kafka *broker.KafkaBroker
	if conf.Outbox.Enabled {
		kafka, err = broker.NewKafkaBroker(conf.Broker.Kafka, logger)
		if err != nil {
			store.Close()
			logger.Fatal(err)
		}
		logger.Infof("Kafka broker создан успешно. Producer topic: %s", kafka.ProducerTopic)
	}

	server, err := application.NewApp(ctx, &conf, logger, store, fiberServer, kafka, m, prometheus.DefaultGatherer)
	if err != nil {
		store.Close()
		logger.Fatal(err)
	}

	logger.Infof("Events service started, port %s, outbox enabled: %t", conf.Server.Port, conf.Outbox.Enabled)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Errorf("error listening for server: %v", err)
				interrupt <- syscall.SIGTERM
				return
			}
		}
		logger.Infof("server %v closed", conf.Server.Port)
	}()

	//graceful shutdown
	osSignal := <-interrupt
	switch osSignal {
	case os.Interrupt:
		logger.Infof("%v Got SIGINT...", conf.Server.Port)
	case syscall.SIGTERM:
		logger.Infof("%v Got SIGTERM...", conf.Server.Port)
	}

	cancel()

	if err := server.Shutdown(); err != nil {
		logger.Errorf("server %v forced to shutdown: %v", conf.Server.Port, err)
	}

	store.Close()
	logger.Infof("postgres db connection closed")

	logger.Infof("server shutdown %v done", conf.Server.Port)
}
