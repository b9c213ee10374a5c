package service

import (
	"context"
	"sync"
	"time"

	"events/internal/application/common"
	"events/internal/application/entity"
	"events/internal/transport/producer"
)

const defaultRelayBatchSize = 100

// RelayEventRun читает outbox пачками и раздаёт записи воркерам. Блокирует до отмены ctx.
func (s *ServiceImpl) RelayEventRun(ctx context.Context) {
	cfg := s.settings.Relay
	if s.kafkaProducer == nil {
		s.logger.Warn("relay disabled: kafka producer is not configured")
		return
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if cfg.PollPeriod <= 0 {
		cfg.PollPeriod = time.Second
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = defaultRelayBatchSize
	}
	s.logger.Infow("relay started", "workers", workers, "batch", cfg.BatchSize, "lease", cfg.Lease.String())

	jobs := make(chan entity.OutboxEvent, cfg.BatchSize*2)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			s.worker(ctx, id, jobs)
		}(i)
	}
	defer wg.Wait()

	ticker := time.NewTicker(cfg.PollPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("relay stopping")
			return
		case <-ticker.C:
			events, err := s.transactions.GetOperationsFromOutbox(ctx, cfg)
			if err != nil {
				s.logger.Errorw("get operations from outbox failed", "err", err)
				continue
			}

			s.logger.Debugf("len jobs: %d, len events: %d", len(jobs), len(events))
			for _, e := range events {
				select {
				case jobs <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

func (s *ServiceImpl) worker(ctx context.Context, id int, jobs <-chan entity.OutboxEvent) {
	if s.m != nil {
		g := s.m.Go.InternalGoroutines.WithLabelValues("relay_worker")
		g.Inc()
		defer g.Dec()
	}

	s.logger.Infow("worker started", "id", id)
	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("worker stopping", "id", id)
			return
		case e := <-jobs:
			s.ProcessOne(ctx, id, e)
		}
	}
}

// ProcessOne обрабатывает одно событие из outbox (экспортируем для тестирования)
func (s *ServiceImpl) ProcessOne(ctx context.Context, wid int, e entity.OutboxEvent) {
	s.logger.Debugf("[ID %d] relay-process started, workerID: %d", e.ID, wid)

	msg := producer.Message{
		OutboxID:  e.ID,
		EventID:   e.AggregateID,
		EventType: string(e.EventType),
		Payload:   e.Payload,
	}
	if err := s.kafkaProducer.ProduceMessage(ctx, msg); err != nil {
		s.logger.Errorf("[ID %d] kafka send failed, err: %v", e.ID, err)
		if err := s.markOutboxFailedOrGaveUp(context.WithoutCancel(ctx), e.ID, e.Attempts, s.settings.Relay.MaxAttempts, common.NextBackoffWithJitter(e.Attempts)); err != nil {
			s.logger.Errorf("[ID %d] mark failed: %v", e.ID, err)
		}
		return
	}
	s.logger.Infof("[ID %d] sent to kafka", e.ID)

	if err := s.transactions.MarkSent(ctx, e.ID); err != nil {
		// сообщение уже ушло, повторно слать нельзя
		s.logger.Errorf("[ID %d] mark sent failed, err: %v", e.ID, err)
		_ = s.repo.MarkGaveUp(context.WithoutCancel(ctx), e.ID)
		return
	}

	s.logger.Infof("[ID %d] relay-process completed", e.ID)
}

func (s *ServiceImpl) markOutboxFailedOrGaveUp(ctx context.Context, outboxID int, attempts, maxAttempts int, backoff time.Duration) error {
	if attempts+1 >= maxAttempts {
		return s.repo.MarkGaveUp(ctx, outboxID)
	}
	return s.repo.MarkFailedWithBackoff(ctx, outboxID, time.Now().UTC().Add(backoff))
}
