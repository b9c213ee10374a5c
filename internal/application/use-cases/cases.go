package use_cases

import (
	"context"

	"events/internal/application/entity"
	"events/internal/application/service"
	"events/pkg/config"

	"go.uber.org/zap"
)

type UseCaser interface {
	CreateEvent(ctx context.Context, in entity.EventInput) (*entity.Event, error)
	ListEvents(ctx context.Context, skip, take int) ([]*entity.Event, error)
	GetEvent(ctx context.Context, id int64) (*entity.Event, error)
	UpdateEvent(ctx context.Context, id int64, in entity.EventInput) (*entity.Event, error)
	DeleteEvent(ctx context.Context, id int64) error
	CleanupOutbox(ctx context.Context)
	RunRelay(ctx context.Context)

	HealthCheck(ctx context.Context) (service.Health, error)
}
type UseCase struct {
	service service.Service
	logger  *zap.SugaredLogger
	conf    *config.Config
}

func NewUseCase(service service.Service, logger *zap.SugaredLogger, conf *config.Config) *UseCase {
	return &UseCase{
		service: service,
		logger:  logger,
		conf:    conf,
	}
}

func (u *UseCase) HealthCheck(ctx context.Context) (service.Health, error) {
	return u.service.HealthCheck(ctx)
}

func (u *UseCase) CreateEvent(ctx context.Context, in entity.EventInput) (*entity.Event, error) {
	event := in.ToEvent(0)
	u.logger.Debugf("[event: %s] CreateEvent started", event.EventName)
	return u.service.CreateEvent(ctx, &event)
}

func (u *UseCase) ListEvents(ctx context.Context, skip, take int) ([]*entity.Event, error) {
	u.logger.Debugf("[skip: %d, take: %d] ListEvents started", skip, take)
	return u.service.ListEvents(ctx, skip, take)
}

func (u *UseCase) GetEvent(ctx context.Context, id int64) (*entity.Event, error) {
	u.logger.Debugf("[event: %d] GetEvent started", id)
	return u.service.GetEvent(ctx, id)
}

// UpdateEvent - полная замена, id берётся из пути
func (u *UseCase) UpdateEvent(ctx context.Context, id int64, in entity.EventInput) (*entity.Event, error) {
	event := in.ToEvent(id)
	u.logger.Debugf("[event: %d] UpdateEvent started", id)
	return u.service.UpdateEvent(ctx, &event)
}

func (u *UseCase) DeleteEvent(ctx context.Context, id int64) error {
	u.logger.Debugf("[event: %d] DeleteEvent started", id)
	return u.service.DeleteEvent(ctx, id)
}

func (u *UseCase) CleanupOutbox(ctx context.Context) {
	days := u.conf.Cron.DaysToKeep
	u.logger.Infof("CleanupOutbox called with daysToKeep=%d", days)
	_, _ = u.service.CleanupOutbox(ctx, days)
}

func (u *UseCase) RunRelay(ctx context.Context) {
	u.logger.Debug("relay started")
	u.service.RelayEventRun(ctx)
}
