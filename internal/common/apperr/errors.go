package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies an error for HTTP status mapping at the request boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindDuplicate
	KindInvalidCredentials
	KindAccessDenied
	KindNotFound
	KindInvalidState
	KindForbidden
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "internal error"
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a cause to an internal error. The cause is kept for logging
// only and never reaches the response body.
func Wrap(err error, message string) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

func Validation(message string) *Error         { return New(KindValidation, message) }
func Duplicate(message string) *Error          { return New(KindDuplicate, message) }
func InvalidCredentials(message string) *Error { return New(KindInvalidCredentials, message) }
func AccessDenied(message string) *Error       { return New(KindAccessDenied, message) }
func NotFound(message string) *Error           { return New(KindNotFound, message) }
func InvalidState(message string) *Error       { return New(KindInvalidState, message) }
func Forbidden(message string) *Error          { return New(KindForbidden, message) }

// KindOf returns the Kind of err, or KindInternal for anything untyped.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// StatusCode maps an error kind to its HTTP status.
func StatusCode(kind Kind) int {
	switch kind {
	case KindValidation, KindDuplicate, KindInvalidState:
		return fiber.StatusBadRequest
	case KindInvalidCredentials, KindAccessDenied:
		return fiber.StatusUnauthorized
	case KindForbidden:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler is the fiber error handler. Internal errors are replaced
// with a generic message so store/hashing details never leak to clients.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var e *Error
	if errors.As(err, &e) {
		msg := e.Message
		if e.Kind == KindInternal {
			msg = "Internal server error"
		}
		return c.Status(StatusCode(e.Kind)).JSON(fiber.Map{
			"success": false,
			"message": msg,
		})
	}

	code := fiber.StatusInternalServerError
	msg := "Internal server error"
	if fe, ok := err.(*fiber.Error); ok {
		code = fe.Code
		msg = fe.Message
	}
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": msg,
	})
}
