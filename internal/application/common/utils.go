package common

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"events/pkg/validator"

	"github.com/jackc/pgx/v5/pgtype"
)

// Version сервиса, отдаётся в /health
const Version = "1.0.0"

// DateToPg: "YYYY-MM-DD" -> pgtype.Date
func DateToPg(s string) (pgtype.Date, error) {
	t, err := validator.ParseDate(s)
	if err != nil {
		return pgtype.Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return pgtype.Date{Time: t, Valid: true}, nil
}

// DateFromPg возвращает пустую строку для NULL
func DateFromPg(d pgtype.Date) string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format(validator.DateLayout)
}

// TimeToPg: "HH:MM[:SS[.ffffff]]" -> pgtype.Time (микросекунды от полуночи)
func TimeToPg(s string) (pgtype.Time, error) {
	d, err := validator.ParseTimeOfDay(s)
	if err != nil {
		return pgtype.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return pgtype.Time{Microseconds: d.Microseconds(), Valid: true}, nil
}

func TimeFromPg(t pgtype.Time) string {
	if !t.Valid {
		return ""
	}
	return validator.FormatTimeOfDay(time.Duration(t.Microseconds) * time.Microsecond)
}

func PgInterval(d time.Duration) string {
	sec := int64(d / time.Second)
	return fmt.Sprintf("%d seconds", sec)
}

func NextBackoffWithJitter(attempts int) time.Duration {
	if attempts < 0 {
		attempts = 0
	}
	// 1<<31 секунд уже больше лимита, дальше сдвиг переполнится
	if attempts > 30 {
		attempts = 30
	}

	base := time.Second << attempts

	limit := 30 * time.Minute
	if base > limit {
		base = limit
	}

	jitter := time.Duration(rand.Int63n(int64(base / 2)))

	return base/2 + jitter
}

func SleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
