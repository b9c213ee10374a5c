package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"events/internal/application/entity"
	"events/pkg/config"

	"go.uber.org/zap"
)

// Transactions - изменения событий вместе с записью в outbox, в одной транзакции
type Transactions interface {
	CreateEvent(ctx context.Context, in *entity.Event) (*entity.Event, error)
	UpdateEvent(ctx context.Context, in *entity.Event) (*entity.Event, error)
	DeleteEvent(ctx context.Context, id int64) error
	GetOperationsFromOutbox(ctx context.Context, c config.RelayConfig) ([]entity.OutboxEvent, error)
	MarkSent(ctx context.Context, outboxID int) error
}
type TransactionsImpl struct {
	repo   *RepoImpl
	logger *zap.SugaredLogger
}

func NewTransactions(repo *RepoImpl, logger *zap.SugaredLogger) *TransactionsImpl {
	return &TransactionsImpl{repo: repo, logger: logger}
}

func (t *TransactionsImpl) CreateEvent(ctx context.Context, in *entity.Event) (*entity.Event, error) {
	var created *entity.Event
	err := t.repo.db.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		created, err = t.repo.CreateEvent(ctx, in)
		if err != nil {
			t.logger.Errorf("[event: %s] insert event failed: %v", in.EventName, err)
			return err
		}
		return t.writeOutbox(ctx, entity.EventCreated, created.ID, created)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (t *TransactionsImpl) UpdateEvent(ctx context.Context, in *entity.Event) (*entity.Event, error) {
	var updated *entity.Event
	err := t.repo.db.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		updated, err = t.repo.UpdateEvent(ctx, in)
		if err != nil {
			return err
		}
		return t.writeOutbox(ctx, entity.EventUpdated, updated.ID, updated)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (t *TransactionsImpl) DeleteEvent(ctx context.Context, id int64) error {
	return t.repo.db.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := t.repo.DeleteEvent(ctx, id); err != nil {
			return err
		}
		return t.writeOutbox(ctx, entity.EventDeleted, id, nil)
	})
}

func (t *TransactionsImpl) writeOutbox(ctx context.Context, typ entity.OutboxEventType, id int64, evt *entity.Event) error {
	payload, err := json.Marshal(entity.Notification{
		Type:    typ,
		EventID: id,
		Event:   evt,
		At:      time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	out := entity.OutboxEvent{
		AggregateID:   id,
		AggregateType: entity.AggregateEvent,
		EventType:     typ,
		Payload:       payload,
		Status:        entity.OutboxNew,
	}
	if err = t.repo.InsertOutbox(ctx, &out); err != nil {
		t.logger.Errorf("[event: %d] insert outbox failed: %v", id, err)
		return err
	}
	return nil
}

func (t *TransactionsImpl) GetOperationsFromOutbox(ctx context.Context, c config.RelayConfig) ([]entity.OutboxEvent, error) {
	var events []entity.OutboxEvent
	err := t.repo.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		events, err = t.repo.ReserveOutboxBatch(txCtx, c.Lease, c.BatchSize, c.MaxAttempts)
		return err
	})
	if err != nil {
		t.logger.Errorw("reserve outbox batch failed", "err", err)
		return nil, err
	}
	return events, nil
}

func (t *TransactionsImpl) MarkSent(ctx context.Context, outboxID int) error {
	return t.repo.db.WithinTransaction(ctx, func(ctx context.Context) error {
		t.logger.Debugf("[ID %d] start transaction to mark outbox as sent", outboxID)
		return t.repo.MarkSent(ctx, outboxID)
	})
}
