package appers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

type ErrorResp struct {
	StatusCode int    `json:"statusCode,omitempty"`
	StatusDesc string `json:"statusDesc,omitempty"`
}

func (e ErrorResp) Error() string {
	return e.StatusDesc
}

var (
	ErrEventNotFound = ErrorResp{
		StatusCode: http.StatusNotFound,
		StatusDesc: "event not found",
	}
	ErrValidation = ErrorResp{
		StatusCode: http.StatusUnprocessableEntity,
		StatusDesc: "validation failed",
	}
	ErrStore = ErrorResp{
		StatusCode: http.StatusInternalServerError,
		StatusDesc: "internal server error",
	}
)

// FieldError - ошибка одного поля запроса
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError содержит ошибки по полям; errors.Is(err, ErrValidation) == true
type ValidationError struct {
	Fields []FieldError
}

func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (v *ValidationError) Error() string {
	if len(v.Fields) == 1 {
		return fmt.Sprintf("%s: %s: %s", ErrValidation.StatusDesc, v.Fields[0].Field, v.Fields[0].Message)
	}
	return fmt.Sprintf("%s: %d fields", ErrValidation.StatusDesc, len(v.Fields))
}

func (v *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFound - ErrEventNotFound с конкретным id в сообщении
func NotFound(id int64) error {
	return fmt.Errorf("event with id: %d: %w", id, ErrEventNotFound)
}

// StoreErr помечает сбой хранилища: errors.Is(err, ErrStore) и исходная ошибка остаются доступны
func StoreErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStore, err)
}

// IsServerError - true для всего, что отдаётся клиенту как 5xx
func IsServerError(err error) bool {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return false
	}
	var errResp ErrorResp
	if errors.As(err, &errResp) {
		return errResp.StatusCode >= http.StatusInternalServerError
	}
	return true
}

// SanitizeError пишет ответ по ошибке. Внутренние детали клиенту не уходят:
// всё, что не ErrorResp/ValidationError, превращается в 500 без текста ошибки.
func SanitizeError(c *fiber.Ctx, err error) error {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(ErrValidation.StatusCode).JSON(fiber.Map{
			"message": ErrValidation.StatusDesc,
			"details": validationErr.Fields,
		})
	}

	var errResp ErrorResp
	if errors.As(err, &errResp) {
		message := errResp.StatusDesc
		if errResp.StatusCode >= http.StatusInternalServerError {
			message = ErrStore.StatusDesc
		} else if errResp.StatusCode == http.StatusNotFound {
			message = err.Error()
		}
		return NewErr(c, errResp.StatusCode, message)
	}

	return NewErr(c, ErrStore.StatusCode, ErrStore.StatusDesc)
}

func NewErr(ctx *fiber.Ctx, status int, message string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"message": message,
	})
}
