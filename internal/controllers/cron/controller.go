package cron

import (
	"context"
	"fmt"

	"events/pkg/config"

	"go.uber.org/zap"
)

const defaultSpec = "@every 1h"

type Controller struct {
	scheduler *Scheduler
	logger    *zap.SugaredLogger
}

func NewController(ctx context.Context, logger *zap.SugaredLogger) *Controller {
	return &Controller{
		scheduler: NewScheduler(ctx, logger),
		logger:    logger,
	}
}

// RegisterCleanupOutboxJob регистрирует очистку outbox.
// Поддерживает два режима:
// 1. По расписанию (cron с секундами): например, "0 0 3 * * *" - каждый день в 03:00
// 2. По интервалу: например, "@every 1h"
func (c *Controller) RegisterCleanupOutboxJob(cleaner OutboxCleaner, conf config.Cron) error {
	job := NewCleanupOutboxJob(cleaner, c.logger)

	var spec string

	// Приоритет: если указан Schedule, используем его, иначе Interval
	if conf.Schedule != "" {
		spec = conf.Schedule
		c.logger.Infof("Регистрация очистки outbox по расписанию: %s", spec)
	} else if conf.Interval != "" {
		spec = conf.Interval
		c.logger.Infof("Регистрация очистки outbox по интервалу: %s", spec)
	} else {
		spec = defaultSpec
		c.logger.Warnf("Расписание не указано, используется интервал по умолчанию: %s", spec)
	}

	entryID, err := c.scheduler.Add(spec, job)
	if err != nil {
		return fmt.Errorf("не удалось зарегистрировать очистку outbox: %w", err)
	}

	c.logger.Infof("Очистка outbox зарегистрирована с ID: %d, расписание: %s", entryID, spec)
	return nil
}

// Start запускает планировщик задач
func (c *Controller) Start() {
	c.logger.Info("Запуск планировщика cron задач")
	c.scheduler.Start()
}

// Stop останавливает планировщик и ждёт завершения запущенных задач
func (c *Controller) Stop() {
	c.logger.Info("Остановка планировщика cron задач")
	c.scheduler.Stop()
	c.logger.Info("Планировщик cron задач остановлен")
}
