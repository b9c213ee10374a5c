package entity

import (
	"time"

	"events/pkg/validator"
)

// EventInput - тело POST/PUT. Поля-указатели позволяют отличить отсутствующее поле
// от пустой строки: required проверяет только наличие.
type EventInput struct {
	EventName     *string   `json:"event_name" validate:"required" example:"GopherCon"`
	Venue         *string   `json:"venue" validate:"required" example:"Main hall"`
	WhenStartDate *string   `json:"when_start_date" validate:"required,datetime=2006-01-02" example:"2026-06-01"`
	WhenStartTime *string   `json:"when_start_time" validate:"required,timeofday" example:"09:30:00"`
	WhenEndDate   *string   `json:"when_end_date" validate:"required,datetime=2006-01-02" example:"2026-06-01"`
	WhenEndTime   *string   `json:"when_end_time" validate:"required,timeofday" example:"18:00:00"`
	Website       *string   `json:"website" validate:"required" example:"https://example.com"`
	Description   *string   `json:"description" validate:"required" example:"Annual conference"`
	VenueDetails  *string   `json:"venue_details" validate:"required" example:"2nd floor"`
	Tags          []*string `json:"tags" validate:"required,dive,required" example:"go,conference" swaggertype:"array,string"`
}

// Event - запись таблицы "Event"."Events". Даты в формате YYYY-MM-DD, время HH:MM:SS.
type Event struct {
	ID            int64    `json:"id" example:"1"`
	EventName     string   `json:"event_name" example:"GopherCon"`
	Venue         string   `json:"venue" example:"Main hall"`
	WhenStartDate string   `json:"when_start_date" example:"2026-06-01"`
	WhenStartTime string   `json:"when_start_time" example:"09:30:00"`
	WhenEndDate   string   `json:"when_end_date" example:"2026-06-01"`
	WhenEndTime   string   `json:"when_end_time" example:"18:00:00"`
	Website       string   `json:"website" example:"https://example.com"`
	Description   string   `json:"description" example:"Annual conference"`
	VenueDetails  string   `json:"venue_details" example:"2nd floor"`
	Tags          []string `json:"tags"`
}

// ToEvent переносит провалидированный ввод в Event, нормализуя время к HH:MM:SS.
// Вызывать только после успешной валидации.
func (in *EventInput) ToEvent(id int64) Event {
	tags := make([]string, 0, len(in.Tags))
	for _, tag := range in.Tags {
		tags = append(tags, *tag)
	}

	return Event{
		ID:            id,
		EventName:     *in.EventName,
		Venue:         *in.Venue,
		WhenStartDate: *in.WhenStartDate,
		WhenStartTime: normalizeTime(*in.WhenStartTime),
		WhenEndDate:   *in.WhenEndDate,
		WhenEndTime:   normalizeTime(*in.WhenEndTime),
		Website:       *in.Website,
		Description:   *in.Description,
		VenueDetails:  *in.VenueDetails,
		Tags:          tags,
	}
}

// StartsAt/EndsAt - дата и время, сложенные в один момент (UTC)
func (e *Event) StartsAt() (time.Time, error) {
	return combine(e.WhenStartDate, e.WhenStartTime)
}

func (e *Event) EndsAt() (time.Time, error) {
	return combine(e.WhenEndDate, e.WhenEndTime)
}

func combine(date, clock string) (time.Time, error) {
	d, err := validator.ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	offset, err := validator.ParseTimeOfDay(clock)
	if err != nil {
		return time.Time{}, err
	}
	return d.Add(offset), nil
}

func normalizeTime(s string) string {
	d, err := validator.ParseTimeOfDay(s)
	if err != nil {
		return s
	}
	return validator.FormatTimeOfDay(d)
}

// DeleteResponse - ответ DELETE /events/{id}/
type DeleteResponse struct {
	Message string `json:"message" example:"Event with id: 1 deleted successfully!"`
}
