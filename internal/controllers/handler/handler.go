package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"events/internal/appers"
	"events/internal/application/common"
	"events/internal/application/entity"
	use_cases "events/internal/application/use-cases"
	"events/pkg/validator"

	playgroundvalidator "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	defaultSkip = 0
	defaultTake = 20
)

type Handler interface {
	CreateEvent(c *fiber.Ctx) error
	ListEvents(c *fiber.Ctx) error
	GetEvent(c *fiber.Ctx) error
	UpdateEvent(c *fiber.Ctx) error
	DeleteEvent(c *fiber.Ctx) error
	HealthCheck(c *fiber.Ctx) error
}
type HandlerImpl struct {
	usecase use_cases.UseCaser
	logger  *zap.SugaredLogger
}

func NewEventHandler(usecase use_cases.UseCaser, logger *zap.SugaredLogger) *HandlerImpl {
	return &HandlerImpl{
		usecase: usecase,
		logger:  logger,
	}
}

// formatValidationErrors переводит ошибки validator в ошибки по полям
func formatValidationErrors(err error) *appers.ValidationError {
	var validationErrors playgroundvalidator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return appers.NewValidationError(appers.FieldError{Field: "body", Message: err.Error()})
	}

	fields := make([]appers.FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		var message string
		switch e.Tag() {
		case "required":
			message = "field required"
		case "datetime":
			message = "invalid date, expected YYYY-MM-DD"
		case "timeofday":
			message = "invalid time, expected HH:MM[:SS[.ffffff]]"
		default:
			message = fmt.Sprintf("failed on '%s' validation", e.Tag())
		}
		fields = append(fields, appers.FieldError{Field: e.Field(), Message: message})
	}
	return appers.NewValidationError(fields...)
}

// parseInput: разбор тела и валидация. Ошибки всегда *appers.ValidationError.
func (h *HandlerImpl) parseInput(c *fiber.Ctx) (entity.EventInput, error) {
	var in entity.EventInput
	if err := c.BodyParser(&in); err != nil {
		h.logger.Warnf("error parsing body: %v", err)
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return in, appers.NewValidationError(appers.FieldError{
				Field:   typeErr.Field,
				Message: fmt.Sprintf("expected %s, got %s", jsonTypeName(typeErr.Type), typeErr.Value),
			})
		}
		return in, appers.NewValidationError(appers.FieldError{Field: "body", Message: "invalid request body"})
	}

	if err := validator.Validate.Struct(&in); err != nil {
		h.logger.Debugf("validation error: %v", err)
		return in, formatValidationErrors(err)
	}
	return in, nil
}

func jsonTypeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Slice, reflect.Array:
		return "array of " + jsonTypeName(t.Elem())
	case reflect.Int, reflect.Int64, reflect.Int32:
		return "integer"
	default:
		return t.Kind().String()
	}
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, appers.NewValidationError(appers.FieldError{Field: "id", Message: "value is not a valid integer"})
	}
	return id, nil
}

// queryInt возвращает def, если параметр не передан; ok == false для не-целого значения
func queryInt(c *fiber.Ctx, key string, def int) (v int, ok bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (h *HandlerImpl) fail(c *fiber.Ctx, err error) error {
	if appers.IsServerError(err) {
		h.logger.Errorf("[%s %s] request failed: %v", c.Method(), c.Path(), err)
	} else {
		h.logger.Debugf("[%s %s] request rejected: %v", c.Method(), c.Path(), err)
	}
	return appers.SanitizeError(c, err)
}

// HealthCheck godoc
// @Summary     Проверка состояния сервиса
// @Description Проверяет доступность PostgreSQL и, если включён outbox, Kafka.
// @Produce     json
// @Success     200   {object} entity.HealthCheckResponse "Все сервисы доступны"
// @Failure     503   {object} entity.HealthCheckResponse "Один или несколько сервисов недоступны"
// @tags        Health
// @Router      /health [get]
func (h *HandlerImpl) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	health, _ := h.usecase.HealthCheck(ctx)

	resp := entity.HealthCheckResponse{
		Status:  health.Healthy(),
		Message: "success",
		Version: common.Version,
		Checks: entity.HealthCheckResponseData{
			Database: entity.HealthCheckItem{Status: health.DB == nil, Type: "postgresql"},
		},
	}
	if health.DB != nil {
		resp.Checks.Database.Error = "Database connection failed"
	}
	if health.KafkaUse {
		resp.Checks.Kafka = &entity.HealthCheckItem{Status: health.Kafka == nil, Type: "kafka"}
		if health.Kafka != nil {
			resp.Checks.Kafka.Error = "Kafka connection failed"
		}
	}

	if !resp.Status {
		resp.Message = "Some services are unavailable"
		h.logger.Warnf("health check failed: db=%v kafka=%v", health.DB, health.Kafka)
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// CreateEvent godoc
// @Summary     Создание события
// @Description Создает новое событие и возвращает его вместе с присвоенным id
// @Accept      json
// @Produce     json
// @Param       body  body     entity.EventInput  true  "Данные события"
// @Success     201   {object} entity.Event
// @Failure     422
// @Failure     500
// @tags        Event
// @Router      /events/ [post]
func (h *HandlerImpl) CreateEvent(c *fiber.Ctx) error {
	in, err := h.parseInput(c)
	if err != nil {
		return h.fail(c, err)
	}

	event, err := h.usecase.CreateEvent(c.Context(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

// ListEvents godoc
// @Summary     Список событий
// @Description Возвращает события в порядке возрастания id, постранично
// @Produce     json
// @Param       skip  query    int false "Сколько записей пропустить" default(0)
// @Param       take  query    int false "Сколько записей вернуть" default(20)
// @Success     200   {array}  entity.Event
// @Failure     422
// @Failure     500
// @tags        Event
// @Router      /events/ [get]
func (h *HandlerImpl) ListEvents(c *fiber.Ctx) error {
	var fields []appers.FieldError

	skip, ok := queryInt(c, "skip", defaultSkip)
	if !ok {
		fields = append(fields, appers.FieldError{Field: "skip", Message: "value is not a valid integer"})
	} else if skip < 0 {
		fields = append(fields, appers.FieldError{Field: "skip", Message: "must be greater than or equal to 0"})
	}

	take, ok := queryInt(c, "take", defaultTake)
	if !ok {
		fields = append(fields, appers.FieldError{Field: "take", Message: "value is not a valid integer"})
	} else if take < 1 {
		fields = append(fields, appers.FieldError{Field: "take", Message: "must be greater than 0"})
	}

	if len(fields) > 0 {
		return h.fail(c, appers.NewValidationError(fields...))
	}

	events, err := h.usecase.ListEvents(c.Context(), skip, take)
	if err != nil {
		return h.fail(c, err)
	}
	if events == nil {
		events = []*entity.Event{}
	}
	return c.Status(fiber.StatusOK).JSON(events)
}

// GetEvent godoc
// @Summary     Получение события
// @Produce     json
// @Param       id   path     int  true  "ID события"
// @Success     200  {object} entity.Event
// @Failure     404
// @Failure     422
// @Failure     500
// @tags        Event
// @Router      /events/{id}/ [get]
func (h *HandlerImpl) GetEvent(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.fail(c, err)
	}

	event, err := h.usecase.GetEvent(c.Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(event)
}

// UpdateEvent godoc
// @Summary     Обновление события
// @Description Полностью заменяет поля события, id не меняется
// @Accept      json
// @Produce     json
// @Param       id    path     int                true  "ID события"
// @Param       body  body     entity.EventInput  true  "Новые данные события"
// @Success     200   {object} entity.Event
// @Failure     404
// @Failure     422
// @Failure     500
// @tags        Event
// @Router      /events/{id}/ [put]
func (h *HandlerImpl) UpdateEvent(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.fail(c, err)
	}
	in, err := h.parseInput(c)
	if err != nil {
		return h.fail(c, err)
	}

	event, err := h.usecase.UpdateEvent(c.Context(), id, in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(event)
}

// DeleteEvent godoc
// @Summary     Удаление события
// @Produce     json
// @Param       id   path     int  true  "ID события"
// @Success     200  {object} entity.DeleteResponse
// @Failure     404
// @Failure     422
// @Failure     500
// @tags        Event
// @Router      /events/{id}/ [delete]
func (h *HandlerImpl) DeleteEvent(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.fail(c, err)
	}

	if err = h.usecase.DeleteEvent(c.Context(), id); err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(entity.DeleteResponse{
		Message: fmt.Sprintf("Event with id: %d deleted successfully!", id),
	})
}
