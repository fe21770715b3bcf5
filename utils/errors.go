package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Error kinds. Services wrap one of these with %w so handlers can map
// failures onto a status code without string matching.
var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrCapacity        = errors.New("capacity exceeded")
	ErrPipeline        = errors.New("image pipeline failed")
	ErrIntegrity       = errors.New("persistence integrity check failed")
	ErrExternalService = errors.New("external service failed")
	ErrUnauthorized    = errors.New("unauthorized")
)

// Validationf returns an ErrValidation carrying a formatted message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFoundf returns an ErrNotFound carrying a formatted message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// ItemError is the failure of one member of a batch.
type ItemError struct {
	Item string
	Err  error
}

func (e *ItemError) Error() string { return e.Item + ": " + e.Err.Error() }
func (e *ItemError) Unwrap() error { return e.Err }

// BatchError lists every failed member of a batch. errors.Is matches any
// member's kind.
type BatchError struct {
	Failures []*ItemError
}

func (e *BatchError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = f.Error()
	}
	return fmt.Sprintf("%d item(s) failed: %s", len(e.Failures), strings.Join(parts, "; "))
}

func (e *BatchError) Unwrap() []error {
	out := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		out[i] = f
	}
	return out
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	ErrorCode string      `json:"error_code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}

// RespondWithError sends a standardized error response
func RespondWithError(c *gin.Context, statusCode int, errorCode, message string, details interface{}) {
	c.JSON(statusCode, ErrorResponse{
		ErrorCode: errorCode,
		Message:   message,
		Details:   details,
	})
}

// RespondWithBadRequest sends a 400 Bad Request error
func RespondWithBadRequest(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusBadRequest, "bad_request", message, details)
}

// RespondWithUnauthorized sends a 401 Unauthorized error
func RespondWithUnauthorized(c *gin.Context, message string) {
	RespondWithError(c, http.StatusUnauthorized, "unauthorized", message, nil)
}

// RespondWithNotFound sends a 404 Not Found error
func RespondWithNotFound(c *gin.Context, message string) {
	RespondWithError(c, http.StatusNotFound, "not_found", message, nil)
}

// RespondWithInternalError sends a 500 Internal Server Error
func RespondWithInternalError(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusInternalServerError, "internal_error", message, details)
}

// StatusFor maps an error kind to its HTTP status and error code.
// Capacity is checked before validation so a batch mixing both reports 413.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrCapacity):
		return http.StatusRequestEntityTooLarge, "capacity_exceeded"
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, ErrPipeline):
		return http.StatusUnprocessableEntity, "pipeline_error"
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, ErrExternalService):
		return http.StatusBadGateway, "external_service_error"
	case errors.Is(err, ErrIntegrity):
		return http.StatusInternalServerError, "integrity_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// RespondWithAppError writes err using the status of its kind. Internal
// failures get a generic message; the rest echo the error text.
func RespondWithAppError(c *gin.Context, err error) {
	status, code := StatusFor(err)
	message := err.Error()
	if code == "internal_error" {
		message = "An unexpected error occurred"
	}

	var details interface{}
	var batch *BatchError
	if errors.As(err, &batch) {
		items := make([]gin.H, len(batch.Failures))
		for i, f := range batch.Failures {
			items[i] = gin.H{"item": f.Item, "error": f.Err.Error()}
		}
		details = items
	}
	RespondWithError(c, status, code, message, details)
}
