package api

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if apiErr, ok := err.(Error); ok {
			return c.Status(apiErr.Code).JSON(apiErr)
		}
		if valErr, ok := err.(ValidationError); ok {
			return c.Status(valErr.Status).JSON(valErr)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			apiErr := NewError(fiberErr.Code, fiberErr.Message)
			return c.Status(apiErr.Code).JSON(apiErr)
		}

		log.Error("request failed",
			zap.String("path", c.Path()),
			zap.Error(err))
		apiErr := NewError(fiber.StatusInternalServerError, "internal server error")
		return c.Status(apiErr.Code).JSON(apiErr)
	}
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
}

type ValidationError struct {
	Status int               `json:"status"`
	Errors map[string]string `json:"errors"`
}

func (e ValidationError) Error() string {
	return "validation failed"
}

func NewValidationError(errors map[string]string) ValidationError {
	return ValidationError{
		Status: fiber.StatusUnprocessableEntity,
		Errors: errors,
	}
}

// Error implements the error interface
func (e Error) Error() string {
	return e.Message
}

func NewError(code int, err string) Error {
	return Error{
		Code:    code,
		Message: err,
	}
}

func ErrBadRequest() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "invalid JSON request",
	}
}

func ErrNotFound[T any](arg T, resource string) Error {
	return Error{
		Code:    fiber.StatusNotFound,
		Message: fmt.Sprintf("%s with %v not found", resource, arg),
	}
}

func ErrUnavailable(msg string) Error {
	return Error{
		Code:    fiber.StatusServiceUnavailable,
		Message: msg,
	}
}
