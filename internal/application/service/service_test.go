package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"events/internal/appers"
	"events/internal/application/entity"
	"events/internal/transport/producer"
	"events/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(settings Settings) (*ServiceImpl, *repoMock, *txMock, *producerMock) {
	r := &repoMock{}
	tx := &txMock{}
	p := &producerMock{}
	return NewService(r, tx, p, zap.NewNop().Sugar(), nil, settings), r, tx, p
}

func event() *entity.Event {
	return &entity.Event{
		EventName:     "Expo",
		WhenStartDate: "2024-05-01",
		WhenStartTime: "10:00:00",
		WhenEndDate:   "2024-05-02",
		WhenEndTime:   "09:00:00",
		Tags:          []string{},
	}
}

func TestCreateEvent_WithoutOutboxUsesRepo(t *testing.T) {
	s, r, tx, _ := newTestService(Settings{})
	ctx := context.Background()
	in := event()
	out := *in
	out.ID = 1

	r.On("CreateEvent", ctx, in).Return(&out, nil)

	got, err := s.CreateEvent(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	r.AssertExpectations(t)
	tx.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything)
}

func TestMutations_WithOutboxUseTransactions(t *testing.T) {
	s, r, tx, _ := newTestService(Settings{OutboxEnabled: true})
	ctx := context.Background()
	in := event()
	in.ID = 7

	tx.On("CreateEvent", ctx, in).Return(in, nil)
	tx.On("UpdateEvent", ctx, in).Return(in, nil)
	tx.On("DeleteEvent", ctx, int64(7)).Return(nil)

	_, err := s.CreateEvent(ctx, in)
	require.NoError(t, err)
	_, err = s.UpdateEvent(ctx, in)
	require.NoError(t, err)
	require.NoError(t, s.DeleteEvent(ctx, 7))

	tx.AssertExpectations(t)
	r.AssertNotCalled(t, "DeleteEvent", mock.Anything, mock.Anything)
}

func TestReadsGoToRepo(t *testing.T) {
	s, r, _, _ := newTestService(Settings{OutboxEnabled: true})
	ctx := context.Background()

	r.On("ListEvents", ctx, 5, 10).Return([]*entity.Event{}, nil)
	r.On("GetEvent", ctx, int64(3)).Return(nil, appers.NotFound(3))

	list, err := s.ListEvents(ctx, 5, 10)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = s.GetEvent(ctx, 3)
	assert.ErrorIs(t, err, appers.ErrEventNotFound)
	r.AssertExpectations(t)
}

func TestChronology(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled accepts end before start", func(t *testing.T) {
		s, r, _, _ := newTestService(Settings{})
		in := event()
		in.WhenEndDate = "2024-04-01"
		r.On("CreateEvent", ctx, in).Return(in, nil)

		_, err := s.CreateEvent(ctx, in)
		assert.NoError(t, err)
	})

	t.Run("enabled rejects end before start", func(t *testing.T) {
		s, r, _, _ := newTestService(Settings{EnforceChronology: true})
		in := event()
		in.WhenEndDate = "2024-05-01"
		in.WhenEndTime = "09:59:59"

		_, err := s.UpdateEvent(ctx, in)
		assert.ErrorIs(t, err, appers.ErrValidation)
		r.AssertNotCalled(t, "UpdateEvent", mock.Anything, mock.Anything)
	})

	t.Run("enabled accepts equal bounds", func(t *testing.T) {
		s, r, _, _ := newTestService(Settings{EnforceChronology: true})
		in := event()
		in.WhenEndDate = in.WhenStartDate
		in.WhenEndTime = in.WhenStartTime
		r.On("CreateEvent", ctx, in).Return(in, nil)

		_, err := s.CreateEvent(ctx, in)
		assert.NoError(t, err)
	})
}

func TestCleanupOutbox(t *testing.T) {
	s, r, _, _ := newTestService(Settings{})
	ctx := context.Background()

	r.On("DeleteProcessedOutbox", ctx, 7).Return(int64(3), nil).Once()
	n, err := s.CleanupOutbox(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	r.On("DeleteProcessedOutbox", ctx, 1).Return(int64(0), errors.New("db down")).Once()
	_, err = s.CleanupOutbox(ctx, 1)
	assert.Error(t, err)
}

func TestHealthCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("db only", func(t *testing.T) {
		s, r, _, p := newTestService(Settings{})
		r.On("HealthCheck", ctx).Return(nil)

		h, err := s.HealthCheck(ctx)
		require.NoError(t, err)
		assert.False(t, h.KafkaUse)
		p.AssertNotCalled(t, "HealthCheck", mock.Anything)
	})

	t.Run("kafka down with outbox", func(t *testing.T) {
		s, r, _, p := newTestService(Settings{OutboxEnabled: true})
		r.On("HealthCheck", ctx).Return(nil)
		p.On("HealthCheck", ctx).Return(errors.New("no brokers"))

		h, err := s.HealthCheck(ctx)
		assert.Error(t, err)
		assert.NoError(t, h.DB)
		assert.False(t, h.Healthy())
	})

	t.Run("outbox without producer", func(t *testing.T) {
		r := &repoMock{}
		r.On("HealthCheck", ctx).Return(nil)
		s := NewService(r, &txMock{}, nil, zap.NewNop().Sugar(), nil, Settings{OutboxEnabled: true})

		h, err := s.HealthCheck(ctx)
		assert.Error(t, err)
		assert.ErrorIs(t, h.Kafka, ErrKafkaDisabled)
	})
}

func TestProcessOne(t *testing.T) {
	ctx := context.Background()
	relay := config.RelayConfig{MaxAttempts: 3}
	e := entity.OutboxEvent{ID: 11, AggregateID: 5, EventType: entity.EventUpdated, Payload: []byte(`{}`)}
	msg := producer.Message{OutboxID: 11, EventID: 5, EventType: "event_updated", Payload: []byte(`{}`)}

	t.Run("sent", func(t *testing.T) {
		s, _, tx, p := newTestService(Settings{Relay: relay})
		p.On("ProduceMessage", ctx, msg).Return(nil)
		tx.On("MarkSent", ctx, 11).Return(nil)

		s.ProcessOne(ctx, 0, e)
		p.AssertExpectations(t)
		tx.AssertExpectations(t)
	})

	t.Run("failed with backoff", func(t *testing.T) {
		s, r, _, p := newTestService(Settings{Relay: relay})
		p.On("ProduceMessage", ctx, msg).Return(errors.New("kafka down"))
		r.On("MarkFailedWithBackoff", mock.Anything, 11, mock.MatchedBy(func(next time.Time) bool {
			return next.After(time.Now().UTC())
		})).Return(nil)

		s.ProcessOne(ctx, 0, e)
		r.AssertExpectations(t)
	})

	t.Run("gave up after max attempts", func(t *testing.T) {
		s, r, _, p := newTestService(Settings{Relay: relay})
		last := e
		last.Attempts = 2
		p.On("ProduceMessage", ctx, msg).Return(errors.New("kafka down"))
		r.On("MarkGaveUp", mock.Anything, 11).Return(nil)

		s.ProcessOne(ctx, 0, last)
		r.AssertExpectations(t)
		r.AssertNotCalled(t, "MarkFailedWithBackoff", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("mark sent failure gives up", func(t *testing.T) {
		s, r, tx, p := newTestService(Settings{Relay: relay})
		p.On("ProduceMessage", ctx, msg).Return(nil)
		tx.On("MarkSent", ctx, 11).Return(errors.New("tx failed"))
		r.On("MarkGaveUp", mock.Anything, 11).Return(nil)

		s.ProcessOne(ctx, 0, e)
		r.AssertExpectations(t)
	})
}

func TestRelayEventRun_DeliversBatch(t *testing.T) {
	relay := config.RelayConfig{Workers: 2, BatchSize: 10, PollPeriod: 10 * time.Millisecond, MaxAttempts: 3}
	s, _, tx, p := newTestService(Settings{OutboxEnabled: true, Relay: relay})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	batch := []entity.OutboxEvent{
		{ID: 1, AggregateID: 1, EventType: entity.EventCreated},
		{ID: 2, AggregateID: 2, EventType: entity.EventDeleted},
	}
	tx.On("GetOperationsFromOutbox", mock.Anything, relay).Return(batch, nil).Once()
	tx.On("GetOperationsFromOutbox", mock.Anything, relay).Return([]entity.OutboxEvent{}, nil)
	p.On("ProduceMessage", mock.Anything, mock.Anything).Return(nil)

	sent := make(chan int, 2)
	tx.On("MarkSent", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sent <- args.Int(1)
	}).Return(nil)

	done := make(chan struct{})
	go func() {
		s.RelayEventRun(ctx)
		close(done)
	}()

	got := map[int]bool{}
	for len(got) < 2 {
		select {
		case id := <-sent:
			got[id] = true
		case <-time.After(5 * time.Second):
			t.Fatal("relay did not deliver the batch")
		}
	}
	assert.Equal(t, map[int]bool{1: true, 2: true}, got)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("relay did not stop")
	}
}

func TestRelayEventRun_ZeroBatchSizeUsesDefault(t *testing.T) {
	relay := config.RelayConfig{Workers: 1, BatchSize: 0, PollPeriod: 10 * time.Millisecond, MaxAttempts: 3}
	s, _, tx, _ := newTestService(Settings{OutboxEnabled: true, Relay: relay})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	polled := make(chan int, 1)
	tx.On("GetOperationsFromOutbox", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		select {
		case polled <- args.Get(1).(config.RelayConfig).BatchSize:
		default:
		}
	}).Return([]entity.OutboxEvent{}, nil)

	done := make(chan struct{})
	go func() {
		s.RelayEventRun(ctx)
		close(done)
	}()

	select {
	case size := <-polled:
		assert.Equal(t, defaultRelayBatchSize, size)
	case <-time.After(5 * time.Second):
		t.Fatal("relay did not poll the outbox")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("relay did not stop")
	}
}

func TestRelayEventRun_NoProducer(t *testing.T) {
	s := NewService(&repoMock{}, &txMock{}, nil, zap.NewNop().Sugar(), nil, Settings{})
	// без продюсера возвращается сразу
	s.RelayEventRun(context.Background())
}
