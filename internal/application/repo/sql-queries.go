package repo

const eventColumns = `id, event_name, venue, when_start_date, when_start_time, when_end_date,
       when_end_time, website, description, venue_details, tags`

const createEvent = `INSERT INTO "Event"."Events" (
                    event_name, venue, when_start_date, when_start_time, when_end_date,
                    when_end_time, website, description, venue_details, tags)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + eventColumns

const listEvents = `SELECT ` + eventColumns + `
FROM "Event"."Events"
ORDER BY id
LIMIT $1 OFFSET $2`

const getEvent = `SELECT ` + eventColumns + `
FROM "Event"."Events"
WHERE id = $1`

const updateEvent = `UPDATE "Event"."Events"
SET event_name = $2, venue = $3, when_start_date = $4, when_start_time = $5, when_end_date = $6,
    when_end_time = $7, website = $8, description = $9, venue_details = $10, tags = $11
WHERE id = $1
RETURNING ` + eventColumns

const deleteEvent = `DELETE FROM "Event"."Events" WHERE id = $1`

// OUTBOX
const insertOutboxQuery = `
INSERT INTO outbox_event (
  aggregate_id, aggregate_type, event_type, payload, status, attempts, next_attempt_at, created_at
) VALUES ($1,$2,$3, ($4)::jsonb, $5, 0, now(), now())
RETURNING id
`

const reserveBatchSQL = `
WITH picked AS (
	SELECT id
  	FROM outbox_event
  	WHERE status IN ('NEW','FAILED')
		AND next_attempt_at <= now()
    	AND attempts < $3
  	ORDER BY id
  	FOR UPDATE SKIP LOCKED
	LIMIT $2
)
UPDATE outbox_event AS o
SET next_attempt_at = now() + $1::interval
FROM picked
WHERE o.id = picked.id
RETURNING o.id, o.aggregate_id, o.aggregate_type, o.event_type, o.payload, o.status, o.attempts, o.next_attempt_at, o.created_at;
`

const markFailedSQL = `
UPDATE outbox_event
SET status=$2, attempts=attempts+1, next_attempt_at=$3
WHERE id=$1`

const markGaveUpSQL = `
UPDATE outbox_event
SET status=$2, attempts=attempts+1, next_attempt_at = now()
WHERE id=$1
`

const markSentSQL = `UPDATE outbox_event SET status=$2 WHERE id=$1`

const deleteProcessedOutboxSQL = `DELETE FROM outbox_event
		WHERE status IN ('SENT', 'GAVE_UP')
		  AND created_at < now() - make_interval(days => $1)`
