package repo

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"events/internal/application/common"
	"events/internal/application/entity"
)

const defaultDaysToKeep = 7

func (r *RepoImpl) InsertOutbox(ctx context.Context, e *entity.OutboxEvent) error {
	r.logger.Debugf("[event: %d] InsertOutbox started, type %s", e.AggregateID, e.EventType)

	return r.m.ObserveDB("insert", "insert_outbox", func() error {
		err := r.db.QueryRow(ctx, insertOutboxQuery,
			e.AggregateID, string(e.AggregateType), string(e.EventType), []byte(e.Payload), string(e.Status),
		).Scan(&e.ID)
		if err != nil {
			return fmt.Errorf("insert outbox_event: %w", err)
		}
		return nil
	})
}

func (r *RepoImpl) ReserveOutboxBatch(ctx context.Context, lease time.Duration, limit, maxAttempts int) ([]entity.OutboxEvent, error) {
	r.logger.Debugf("[lease: %s, limit: %d, maxAttempts: %d] ReserveOutboxBatch started", lease, limit, maxAttempts)

	var res []entity.OutboxEvent
	err := r.m.ObserveDB("update", "reserve_outbox", func() error {
		rows, err := r.db.Query(ctx, reserveBatchSQL, common.PgInterval(lease), limit, maxAttempts)
		if err != nil {
			return fmt.Errorf("reserve outbox batch: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var (
				e                        entity.OutboxEvent
				aggType, evtType, status string
			)
			if err := rows.Scan(
				&e.ID, &e.AggregateID, &aggType, &evtType,
				&e.Payload, &status, &e.Attempts, &e.NextAttemptAt, &e.CreatedAt,
			); err != nil {
				return fmt.Errorf("scan reserved outbox: %w", err)
			}
			e.AggregateType = entity.OutboxAggregate(aggType)
			e.EventType = entity.OutboxEventType(evtType)
			e.Status = entity.OutboxStatus(status)
			res = append(res, e)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("reserve rows err: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// RETURNING не гарантирует порядок, relay отправляет по возрастанию id
	slices.SortFunc(res, func(a, b entity.OutboxEvent) int { return cmp.Compare(a.ID, b.ID) })
	return res, nil
}

func (r *RepoImpl) MarkSent(ctx context.Context, outboxID int) error {
	return r.m.ObserveDB("update", "mark_sent", func() error {
		result, err := r.db.Exec(ctx, markSentSQL, outboxID, string(entity.OutboxSent))
		if err != nil {
			return fmt.Errorf("outbox mark sent: %w", err)
		}
		if result.RowsAffected() == 0 {
			return fmt.Errorf("[ID %d] outbox not found", outboxID)
		}
		return nil
	})
}

func (r *RepoImpl) MarkFailedWithBackoff(ctx context.Context, outboxID int, nextAttemptAt time.Time) error {
	return r.m.ObserveDB("update", "mark_failed", func() error {
		_, err := r.db.Exec(ctx, markFailedSQL, outboxID, string(entity.OutboxFailed), nextAttemptAt)
		if err != nil {
			return fmt.Errorf("outbox mark failed: %w", err)
		}
		return nil
	})
}

func (r *RepoImpl) MarkGaveUp(ctx context.Context, outboxID int) error {
	return r.m.ObserveDB("update", "mark_gave_up", func() error {
		_, err := r.db.Exec(ctx, markGaveUpSQL, outboxID, string(entity.OutboxGaveUp))
		if err != nil {
			return fmt.Errorf("outbox mark gave_up: %w", err)
		}
		return nil
	})
}

// DeleteProcessedOutbox удаляет SENT и GAVE_UP записи старше days дней
func (r *RepoImpl) DeleteProcessedOutbox(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		days = defaultDaysToKeep
	}
	r.logger.Debugf("[days: %d] DeleteProcessedOutbox started", days)

	var deleted int64
	err := r.m.ObserveDB("delete", "delete_processed_outbox", func() error {
		result, err := r.db.Exec(ctx, deleteProcessedOutboxSQL, days)
		if err != nil {
			return fmt.Errorf("delete processed outbox: %w", err)
		}
		deleted = result.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}
