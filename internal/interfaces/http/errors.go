package http

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"

	"github.com/balagrajendran/purchase-management-sub000/internal/application/dto"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain"
	"github.com/balagrajendran/purchase-management-sub000/pkg/logger"
)

// Error codes carried in the envelope.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeUnauthorized      = "AUTH_ERROR"
	CodeForbidden         = "FORBIDDEN"
	CodeConflict          = "CONFLICT"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeRateLimited       = "RATE_LIMITED"
	CodeStorage           = "STORAGE_ERROR"
	CodeUnexpected        = "UNEXPECTED_ERROR"
)

// classify maps an error to its HTTP status and envelope code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest, CodeValidation
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, CodeNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, CodeUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, CodeForbidden
	case errors.Is(err, domain.ErrEmailAlreadyExists), errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, CodeConflict
	case errors.Is(err, domain.ErrInvalidTransition):
		return fiber.StatusConflict, CodeInvalidTransition
	case errors.Is(err, domain.ErrStorage):
		return fiber.StatusInternalServerError, CodeStorage
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusNotFound:
			return fe.Code, CodeNotFound
		case fiber.StatusTooManyRequests:
			return fe.Code, CodeRateLimited
		case fiber.StatusUnauthorized:
			return fe.Code, CodeUnauthorized
		case fiber.StatusForbidden:
			return fe.Code, CodeForbidden
		}
		if fe.Code >= 400 && fe.Code < 500 {
			return fe.Code, CodeValidation
		}
		return fe.Code, CodeUnexpected
	}
	return fiber.StatusInternalServerError, CodeUnexpected
}

// localPanicStack holds the stack of a recovered panic for the error handler.
const localPanicStack = "panic_stack"

// KeepPanicStack is a recover StackTraceHandler: it stores the stack of the panicking
// goroutine, taken before unwinding, on the request.
func KeepPanicStack(c *fiber.Ctx, e any) {
	c.Locals(localPanicStack, fmt.Sprintf("panic: %v\n\n%s", e, debug.Stack()))
}

// originStack returns the stack recorded where err was created, or where the handler panicked.
func originStack(c *fiber.Ctx, err error) string {
	if s, ok := domain.StackTrace(err); ok {
		return s
	}
	s, _ := c.Locals(localPanicStack).(string)
	return s
}

// ErrorHandler is the single translation point from errors to the JSON envelope.
// Outside production a 5xx response carries the stack recorded at the point of failure,
// when one was recorded.
func ErrorHandler(production bool, log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, code := classify(err)
		body := dto.ErrorResponse{Error: err.Error(), Code: code}
		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Str("request_id", requestID(c)).
				Msg("request failed")
			if production {
				body.Error = "internal server error"
			} else {
				body.Stack = originStack(c, err)
			}
		}
		return c.Status(status).JSON(body)
	}
}
