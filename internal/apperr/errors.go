// Package apperr defines the closed set of failures the API can surface to a
// client. Every error that reaches a response carries exactly one HTTP status
// and one stable machine-readable code.
package apperr

import (
	"errors"
	"net/http"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
)

// Code is a stable machine-readable error code suitable for programmatic
// branching by clients.
type Code string

const (
	CodeBadRequest   Code = "BAD_REQUEST"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeInternal     Code = "INTERNAL_ERROR"
)

// internalMessage is the only message an internal failure exposes to a
// client. The original error is logged server-side, never returned.
const internalMessage = "internal server error"

// Error is the single error type the request pipeline deals in.
type Error struct {
	Code    Code
	Status  int
	Message string

	// Fields maps a dotted field path to the violation messages accumulated
	// for it. Only set for CodeValidation.
	Fields map[string][]string

	// Err is the underlying cause, kept for server-side logs only.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func BadRequest(msg string) *Error {
	return &Error{Code: CodeBadRequest, Status: http.StatusBadRequest, Message: msg}
}

func Unauthenticated(msg string) *Error {
	return &Error{Code: CodeUnauthorized, Status: http.StatusUnauthorized, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Code: CodeForbidden, Status: http.StatusForbidden, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Status: http.StatusNotFound, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Code: CodeConflict, Status: http.StatusConflict, Message: msg}
}

func Validation(fields map[string][]string) *Error {
	return &Error{
		Code:    CodeValidation,
		Status:  http.StatusUnprocessableEntity,
		Message: "validation failed",
		Fields:  fields,
	}
}

func Internal(err error) *Error {
	return &Error{Code: CodeInternal, Status: http.StatusInternalServerError, Message: internalMessage, Err: err}
}

// FromError normalizes any error into an *Error. Known variants pass through
// unchanged, validator failures become CodeValidation with per-field
// messages, everything else becomes CodeInternal with a fixed message.
func FromError(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	var verrs validatorv10.ValidationErrors
	if errors.As(err, &verrs) {
		return Validation(fieldsFromValidator(verrs))
	}

	return Internal(err)
}

// fieldsFromValidator flattens validator errors into dotted field paths.
// "CreateOrderRequest.Items[0].Quantity" becomes "items.0.quantity". Multiple
// violations for one field accumulate in the order encountered.
func fieldsFromValidator(verrs validatorv10.ValidationErrors) map[string][]string {
	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		path := fieldPath(fe.Namespace())
		fields[path] = append(fields[path], violationMessage(fe))
	}
	return fields
}

func fieldPath(namespace string) string {
	// Drop the leading struct name. Field segments already carry json tag
	// names via the validator's registered tag name func.
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		namespace = namespace[i+1:]
	}
	r := strings.NewReplacer("[", ".", "]", "")
	return r.Replace(namespace)
}

func violationMessage(fe validatorv10.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
