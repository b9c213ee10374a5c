package validator

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// DateLayout - формат полей when_*_date
	DateLayout = "2006-01-02"
	// TimeLayout - формат, в котором отдаём when_*_time
	TimeLayout = "15:04:05"
)

// на входе допускаем HH:MM и HH:MM:SS; дробная часть секунд разбирается автоматически
var timeLayouts = []string{TimeLayout, "15:04"}

var ErrTimeOfDay = errors.New("expected time of day HH:MM[:SS[.ffffff]]")

var (
	// Validate - общий экземпляр валидатора, кэширует разобранные структуры
	Validate *validator.Validate
)

func init() {
	Validate = validator.New(validator.WithRequiredStructEnabled())

	_ = Validate.RegisterValidation("timeofday", validateTimeOfDay)

	// в ошибках поля называются так же, как в JSON
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateTimeOfDay(fl validator.FieldLevel) bool {
	_, err := ParseTimeOfDay(fl.Field().String())
	return err == nil
}

// ParseDate разбирает дату YYYY-MM-DD в полночь UTC
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// ParseTimeOfDay возвращает смещение от полуночи
func ParseTimeOfDay(s string) (time.Duration, error) {
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second +
				time.Duration(t.Nanosecond()), nil
		}
	}
	return 0, ErrTimeOfDay
}

// FormatTimeOfDay - обратное к ParseTimeOfDay, микросекунды выводятся только если они есть
func FormatTimeOfDay(d time.Duration) string {
	t := time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC).Add(d)
	if t.Nanosecond() != 0 {
		return t.Format(TimeLayout + ".000000")
	}
	return t.Format(TimeLayout)
}
