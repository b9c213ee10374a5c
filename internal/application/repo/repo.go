package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"events/internal/appers"
	"events/internal/application/common"
	"events/internal/application/entity"
	"events/pkg/db"
	"events/pkg/metrics"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"
)

type Repo interface {
	CreateEvent(ctx context.Context, evt *entity.Event) (*entity.Event, error)
	ListEvents(ctx context.Context, skip, take int) ([]*entity.Event, error)
	GetEvent(ctx context.Context, id int64) (*entity.Event, error)
	UpdateEvent(ctx context.Context, evt *entity.Event) (*entity.Event, error)
	DeleteEvent(ctx context.Context, id int64) error

	InsertOutbox(ctx context.Context, e *entity.OutboxEvent) error
	ReserveOutboxBatch(ctx context.Context, lease time.Duration, limit, maxAttempts int) ([]entity.OutboxEvent, error)
	MarkSent(ctx context.Context, outboxID int) error
	MarkFailedWithBackoff(ctx context.Context, outboxID int, nextAttemptAt time.Time) error
	MarkGaveUp(ctx context.Context, outboxID int) error
	DeleteProcessedOutbox(ctx context.Context, days int) (int64, error)

	HealthCheck(ctx context.Context) error
}
type RepoImpl struct {
	db     db.DB
	logger *zap.SugaredLogger
	m      *metrics.Metrics
}

func NewRepo(db db.DB, logger *zap.SugaredLogger, m *metrics.Metrics) *RepoImpl {
	return &RepoImpl{db: db, logger: logger, m: m}
}

func (r *RepoImpl) HealthCheck(ctx context.Context) error {
	var result int
	err := r.db.QueryRow(ctx, "SELECT 1").Scan(&result)
	if err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

func (r *RepoImpl) CreateEvent(ctx context.Context, evt *entity.Event) (*entity.Event, error) {
	r.logger.Debugf("[event: %s] start inserting into DB", evt.EventName)

	args, err := eventArgs(evt)
	if err != nil {
		return nil, err
	}

	var created *entity.Event
	err = r.m.ObserveDB("insert", "create_event", func() error {
		var scanErr error
		created, scanErr = scanEvent(r.db.QueryRow(ctx, createEvent, args...))
		return scanErr
	})
	if err != nil {
		r.logger.Errorf("[event: %s] error inserting into DB: %v", evt.EventName, err)
		return nil, appers.StoreErr("insert event", err)
	}

	r.logger.Debugf("[event: %d] inserted into DB successfully", created.ID)
	return created, nil
}

func (r *RepoImpl) ListEvents(ctx context.Context, skip, take int) ([]*entity.Event, error) {
	r.logger.Debugf("[skip: %d, take: %d] start getting from DB", skip, take)

	events := make([]*entity.Event, 0, take)
	err := r.m.ObserveDB("select", "list_events", func() error {
		rows, err := r.db.Query(ctx, listEvents, take, skip)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			evt, err := scanEvent(rows)
			if err != nil {
				return err
			}
			events = append(events, evt)
		}
		return rows.Err()
	})
	if err != nil {
		r.logger.Errorf("[skip: %d, take: %d] error getting from DB: %v", skip, take, err)
		return nil, appers.StoreErr("select events", err)
	}

	r.logger.Debugf("[skip: %d, take: %d] got %d events from DB", skip, take, len(events))
	return events, nil
}

func (r *RepoImpl) GetEvent(ctx context.Context, id int64) (*entity.Event, error) {
	r.logger.Debugf("[event: %d] start getting from DB", id)

	var evt *entity.Event
	err := r.m.ObserveDB("select", "get_event", func() error {
		var scanErr error
		evt, scanErr = scanEvent(r.db.QueryRow(ctx, getEvent, id))
		return scanErr
	})
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		r.logger.Debugf("[event: %d] not found", id)
		return nil, appers.NotFound(id)
	case err != nil:
		r.logger.Errorf("[event: %d] error getting from DB: %v", id, err)
		return nil, appers.StoreErr("select event", err)
	}
	return evt, nil
}

// UpdateEvent заменяет все поля записи. Отсутствие строки определяется по RETURNING.
func (r *RepoImpl) UpdateEvent(ctx context.Context, evt *entity.Event) (*entity.Event, error) {
	r.logger.Debugf("[event: %d] start updating in DB", evt.ID)

	args, err := eventArgs(evt)
	if err != nil {
		return nil, err
	}
	args = append([]any{evt.ID}, args...)

	var updated *entity.Event
	err = r.m.ObserveDB("update", "update_event", func() error {
		var scanErr error
		updated, scanErr = scanEvent(r.db.QueryRow(ctx, updateEvent, args...))
		return scanErr
	})
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		r.logger.Warnf("[event: %d] no rows updated", evt.ID)
		return nil, appers.NotFound(evt.ID)
	case err != nil:
		r.logger.Errorf("[event: %d] error updating in DB: %v", evt.ID, err)
		return nil, appers.StoreErr("update event", err)
	}

	r.logger.Debugf("[event: %d] updated in DB successfully", evt.ID)
	return updated, nil
}

func (r *RepoImpl) DeleteEvent(ctx context.Context, id int64) error {
	r.logger.Debugf("[event: %d] start deleting from DB", id)

	var affected int64
	err := r.m.ObserveDB("delete", "delete_event", func() error {
		result, err := r.db.Exec(ctx, deleteEvent, id)
		if err != nil {
			return err
		}
		affected = result.RowsAffected()
		return nil
	})
	if err != nil {
		r.logger.Errorf("[event: %d] error deleting from DB: %v", id, err)
		return appers.StoreErr("delete event", err)
	}
	if affected == 0 {
		r.logger.Warnf("[event: %d] no rows deleted", id)
		return appers.NotFound(id)
	}
	r.logger.Debugf("[event: %d] deleted from DB successfully", id)
	return nil
}

// eventArgs - параметры $1..$10 в порядке колонок createEvent
func eventArgs(evt *entity.Event) ([]any, error) {
	var fields []appers.FieldError

	startDate, err := common.DateToPg(evt.WhenStartDate)
	if err != nil {
		fields = append(fields, appers.FieldError{Field: "when_start_date", Message: err.Error()})
	}
	startTime, err := common.TimeToPg(evt.WhenStartTime)
	if err != nil {
		fields = append(fields, appers.FieldError{Field: "when_start_time", Message: err.Error()})
	}
	endDate, err := common.DateToPg(evt.WhenEndDate)
	if err != nil {
		fields = append(fields, appers.FieldError{Field: "when_end_date", Message: err.Error()})
	}
	endTime, err := common.TimeToPg(evt.WhenEndTime)
	if err != nil {
		fields = append(fields, appers.FieldError{Field: "when_end_time", Message: err.Error()})
	}
	if len(fields) > 0 {
		return nil, appers.NewValidationError(fields...)
	}

	tags := evt.Tags
	if tags == nil {
		tags = []string{}
	}

	return []any{
		evt.EventName, evt.Venue, startDate, startTime, endDate,
		endTime, evt.Website, evt.Description, evt.VenueDetails, tags,
	}, nil
}

func scanEvent(row pgx.Row) (*entity.Event, error) {
	var (
		evt                entity.Event
		startDate, endDate pgtype.Date
		startTime, endTime pgtype.Time
	)
	err := row.Scan(&evt.ID, &evt.EventName, &evt.Venue, &startDate, &startTime, &endDate,
		&endTime, &evt.Website, &evt.Description, &evt.VenueDetails, &evt.Tags)
	if err != nil {
		return nil, err
	}

	evt.WhenStartDate = common.DateFromPg(startDate)
	evt.WhenStartTime = common.TimeFromPg(startTime)
	evt.WhenEndDate = common.DateFromPg(endDate)
	evt.WhenEndTime = common.TimeFromPg(endTime)
	if evt.Tags == nil {
		evt.Tags = []string{}
	}
	return &evt, nil
}
