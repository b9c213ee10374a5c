package service

import (
	"context"
	"time"

	"events/internal/application/entity"
	"events/internal/transport/producer"
	"events/pkg/config"

	"github.com/stretchr/testify/mock"
)

type repoMock struct{ mock.Mock }

func (m *repoMock) CreateEvent(ctx context.Context, evt *entity.Event) (*entity.Event, error) {
	args := m.Called(ctx, evt)
	res, _ := args.Get(0).(*entity.Event)
	return res, args.Error(1)
}

func (m *repoMock) ListEvents(ctx context.Context, skip, take int) ([]*entity.Event, error) {
	args := m.Called(ctx, skip, take)
	res, _ := args.Get(0).([]*entity.Event)
	return res, args.Error(1)
}

func (m *repoMock) GetEvent(ctx context.Context, id int64) (*entity.Event, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*entity.Event)
	return res, args.Error(1)
}

func (m *repoMock) UpdateEvent(ctx context.Context, evt *entity.Event) (*entity.Event, error) {
	args := m.Called(ctx, evt)
	res, _ := args.Get(0).(*entity.Event)
	return res, args.Error(1)
}

func (m *repoMock) DeleteEvent(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *repoMock) InsertOutbox(ctx context.Context, e *entity.OutboxEvent) error {
	return m.Called(ctx, e).Error(0)
}

func (m *repoMock) ReserveOutboxBatch(ctx context.Context, lease time.Duration, limit, maxAttempts int) ([]entity.OutboxEvent, error) {
	args := m.Called(ctx, lease, limit, maxAttempts)
	res, _ := args.Get(0).([]entity.OutboxEvent)
	return res, args.Error(1)
}

func (m *repoMock) MarkSent(ctx context.Context, outboxID int) error {
	return m.Called(ctx, outboxID).Error(0)
}

func (m *repoMock) MarkFailedWithBackoff(ctx context.Context, outboxID int, nextAttemptAt time.Time) error {
	return m.Called(ctx, outboxID, nextAttemptAt).Error(0)
}

func (m *repoMock) MarkGaveUp(ctx context.Context, outboxID int) error {
	return m.Called(ctx, outboxID).Error(0)
}

func (m *repoMock) DeleteProcessedOutbox(ctx context.Context, days int) (int64, error) {
	args := m.Called(ctx, days)
	return args.Get(0).(int64), args.Error(1)
}

func (m *repoMock) HealthCheck(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type txMock struct{ mock.Mock }

func (m *txMock) CreateEvent(ctx context.Context, in *entity.Event) (*entity.Event, error) {
	args := m.Called(ctx, in)
	res, _ := args.Get(0).(*entity.Event)
	return res, args.Error(1)
}

func (m *txMock) UpdateEvent(ctx context.Context, in *entity.Event) (*entity.Event, error) {
	args := m.Called(ctx, in)
	res, _ := args.Get(0).(*entity.Event)
	return res, args.Error(1)
}

func (m *txMock) DeleteEvent(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *txMock) GetOperationsFromOutbox(ctx context.Context, c config.RelayConfig) ([]entity.OutboxEvent, error) {
	args := m.Called(ctx, c)
	res, _ := args.Get(0).([]entity.OutboxEvent)
	return res, args.Error(1)
}

func (m *txMock) MarkSent(ctx context.Context, outboxID int) error {
	return m.Called(ctx, outboxID).Error(0)
}

type producerMock struct{ mock.Mock }

func (m *producerMock) ProduceMessage(ctx context.Context, msg producer.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *producerMock) HealthCheck(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
