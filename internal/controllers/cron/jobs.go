package cron

import (
	"context"

	"go.uber.org/zap"
)

// OutboxCleaner - use case очистки обработанных записей outbox
type OutboxCleaner interface {
	CleanupOutbox(ctx context.Context)
}

// CleanupOutboxJob удаляет отправленные и брошенные записи outbox старше cron.days_to_keep
type CleanupOutboxJob struct {
	cleaner OutboxCleaner
	logger  *zap.SugaredLogger
}

func NewCleanupOutboxJob(cleaner OutboxCleaner, logger *zap.SugaredLogger) *CleanupOutboxJob {
	return &CleanupOutboxJob{
		cleaner: cleaner,
		logger:  logger,
	}
}

func (j *CleanupOutboxJob) Run(ctx context.Context) {
	j.logger.Info("Запуск очистки outbox")

	defer func() {
		if r := recover(); r != nil {
			j.logger.Errorf("Паника при очистке outbox: %v", r)
		}
	}()

	j.cleaner.CleanupOutbox(ctx)
	j.logger.Info("Очистка outbox завершена")
}
