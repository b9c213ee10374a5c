package service

import (
	"context"
	"errors"
	"fmt"

	"events/internal/appers"
	"events/internal/application/entity"
	"events/internal/application/repo"
	"events/internal/transport/producer"
	"events/pkg/config"
	"events/pkg/metrics"

	"go.uber.org/zap"
)

var ErrKafkaDisabled = errors.New("kafka producer is not configured")

type Service interface {
	CreateEvent(ctx context.Context, event *entity.Event) (*entity.Event, error)
	ListEvents(ctx context.Context, skip, take int) ([]*entity.Event, error)
	GetEvent(ctx context.Context, id int64) (*entity.Event, error)
	UpdateEvent(ctx context.Context, event *entity.Event) (*entity.Event, error)
	DeleteEvent(ctx context.Context, id int64) error
	CleanupOutbox(ctx context.Context, days int) (int64, error)
	RelayEventRun(ctx context.Context)

	HealthCheck(ctx context.Context) (Health, error)
}

// Settings - переключатели поведения сервиса
type Settings struct {
	OutboxEnabled     bool
	EnforceChronology bool
	Relay             config.RelayConfig
}

// Health - результат проверки зависимостей. KafkaUse == false, если outbox выключен.
type Health struct {
	DB       error
	Kafka    error
	KafkaUse bool
}

func (h Health) Healthy() bool {
	return h.DB == nil && (!h.KafkaUse || h.Kafka == nil)
}

type ServiceImpl struct {
	repo          repo.Repo
	transactions  repo.Transactions
	kafkaProducer producer.Producer
	logger        *zap.SugaredLogger
	m             *metrics.Metrics
	settings      Settings
}

func NewService(repo repo.Repo, transactions repo.Transactions, kafkaProducer producer.Producer, logger *zap.SugaredLogger, m *metrics.Metrics, settings Settings) *ServiceImpl {
	return &ServiceImpl{
		repo:          repo,
		transactions:  transactions,
		kafkaProducer: kafkaProducer,
		logger:        logger,
		m:             m,
		settings:      settings,
	}
}

// HealthCheck проверяет доступность БД и, если включён outbox, Kafka
func (s *ServiceImpl) HealthCheck(ctx context.Context) (Health, error) {
	h := Health{DB: s.repo.HealthCheck(ctx)}

	if s.settings.OutboxEnabled {
		h.KafkaUse = true
		if s.kafkaProducer == nil {
			h.Kafka = ErrKafkaDisabled
		} else {
			h.Kafka = s.kafkaProducer.HealthCheck(ctx)
		}
	}

	if !h.Healthy() {
		return h, fmt.Errorf("database: %v, kafka: %v", h.DB, h.Kafka)
	}
	return h, nil
}

func (s *ServiceImpl) CreateEvent(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	s.logger.Debugf("[event: %s] CreateEvent started", event.EventName)

	if err := s.checkChronology(event); err != nil {
		return nil, err
	}
	if s.settings.OutboxEnabled {
		return s.transactions.CreateEvent(ctx, event)
	}
	return s.repo.CreateEvent(ctx, event)
}

func (s *ServiceImpl) ListEvents(ctx context.Context, skip, take int) ([]*entity.Event, error) {
	s.logger.Debugf("[skip: %d, take: %d] ListEvents started", skip, take)

	return s.repo.ListEvents(ctx, skip, take)
}

func (s *ServiceImpl) GetEvent(ctx context.Context, id int64) (*entity.Event, error) {
	s.logger.Debugf("[event: %d] GetEvent started", id)

	return s.repo.GetEvent(ctx, id)
}

func (s *ServiceImpl) UpdateEvent(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	s.logger.Debugf("[event: %d] UpdateEvent started", event.ID)

	if err := s.checkChronology(event); err != nil {
		return nil, err
	}
	if s.settings.OutboxEnabled {
		return s.transactions.UpdateEvent(ctx, event)
	}
	return s.repo.UpdateEvent(ctx, event)
}

func (s *ServiceImpl) DeleteEvent(ctx context.Context, id int64) error {
	s.logger.Debugf("[event: %d] DeleteEvent started", id)

	if s.settings.OutboxEnabled {
		return s.transactions.DeleteEvent(ctx, id)
	}
	return s.repo.DeleteEvent(ctx, id)
}

func (s *ServiceImpl) CleanupOutbox(ctx context.Context, days int) (int64, error) {
	s.logger.Debugf("[days: %d] CleanupOutbox started", days)

	deleted, err := s.repo.DeleteProcessedOutbox(ctx, days)
	if err != nil {
		s.logger.Errorf("[days: %d] CleanupOutbox failed: %v", days, err)
		return 0, err
	}
	s.logger.Infof("[days: %d] CleanupOutbox removed %d rows", days, deleted)
	return deleted, nil
}

// checkChronology: начало не позже конца, только при validation.enforce_chronology
func (s *ServiceImpl) checkChronology(event *entity.Event) error {
	if !s.settings.EnforceChronology {
		return nil
	}
	start, err := event.StartsAt()
	if err != nil {
		return appers.NewValidationError(appers.FieldError{Field: "when_start_date", Message: err.Error()})
	}
	end, err := event.EndsAt()
	if err != nil {
		return appers.NewValidationError(appers.FieldError{Field: "when_end_date", Message: err.Error()})
	}
	if start.After(end) {
		return appers.NewValidationError(appers.FieldError{
			Field:   "when_end_date",
			Message: "event must not end before it starts",
		})
	}
	return nil
}
