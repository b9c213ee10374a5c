package entity

import (
	"encoding/json"
	"time"
)

type OutboxStatus string

const (
	OutboxNew    OutboxStatus = "NEW"
	OutboxSent   OutboxStatus = "SENT"
	OutboxFailed OutboxStatus = "FAILED"
	OutboxGaveUp OutboxStatus = "GAVE_UP"
)

type OutboxAggregate string

const (
	AggregateEvent OutboxAggregate = "event"
)

type OutboxEventType string

const (
	EventCreated OutboxEventType = "event_created"
	EventUpdated OutboxEventType = "event_updated"
	EventDeleted OutboxEventType = "event_deleted"
)

type OutboxEvent struct {
	ID            int             `db:"id"`
	AggregateID   int64           `db:"aggregate_id"`   // "Event"."Events".id, после удаления может не существовать
	AggregateType OutboxAggregate `db:"aggregate_type"` // "event"
	EventType     OutboxEventType `db:"event_type"`     // event_created | event_updated | event_deleted
	Payload       json.RawMessage `db:"payload"`        // JSONB для Kafka
	Status        OutboxStatus    `db:"status"`         // NEW | SENT | FAILED | GAVE_UP
	Attempts      int             `db:"attempts"`
	NextAttemptAt time.Time       `db:"next_attempt_at"`
	CreatedAt     time.Time       `db:"created_at"`
}

// Notification - то, что уходит в Kafka
type Notification struct {
	Type    OutboxEventType `json:"type"`
	EventID int64           `json:"eventId"`
	Event   *Event          `json:"event,omitempty"` // nil для event_deleted
	At      time.Time       `json:"at"`
}
