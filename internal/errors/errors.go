package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/court-compare/internal/analysis"
	"github.com/ZanzyTHEbar/court-compare/internal/dataset"
)

// ErrorCategory defines the type of error for proper handling
type ErrorCategory string

const (
	CategoryValidation    ErrorCategory = "validation"
	CategoryNotFound      ErrorCategory = "not_found"
	CategoryTimeout       ErrorCategory = "timeout"
	CategoryRateLimit     ErrorCategory = "rate_limit"
	CategoryInternal      ErrorCategory = "internal"
	CategoryConfiguration ErrorCategory = "configuration"
)

// RequestIDKey is the gin context key holding the request ID.
const RequestIDKey = "request_id"

// AppError wraps an errbuilder error with HTTP context
type AppError struct {
	*errbuilder.ErrBuilder
	Category   ErrorCategory     `json:"category"`
	HTTPStatus int               `json:"http_status"`
	Timestamp  time.Time         `json:"timestamp"`
	RequestID  string            `json:"request_id,omitempty"`
	StackTrace string            `json:"stack_trace,omitempty"`
	Fields     map[string]string `json:"-"`
	// Notice is user-facing text shown instead of a chart.
	Notice string `json:"-"`
}

// ErrorResponse is the JSON body sent for every failed request.
type ErrorResponse struct {
	Error     string            `json:"error"`
	Code      string            `json:"code"`
	Category  ErrorCategory     `json:"category"`
	Notice    string            `json:"notice,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// Code returns the display code for the underlying errbuilder code.
func (e *AppError) Code() string {
	switch e.ErrBuilder.ErrCode() {
	case errbuilder.CodeInvalidArgument:
		return "VALIDATION_ERROR"
	case errbuilder.CodeNotFound:
		return "NOT_FOUND"
	case errbuilder.CodeDeadlineExceeded:
		return "TIMEOUT_ERROR"
	case errbuilder.CodeResourceExhausted:
		return "RATE_LIMIT_EXCEEDED"
	case errbuilder.CodeInternal:
		return "INTERNAL_ERROR"
	case errbuilder.CodeFailedPrecondition:
		return "CONFIGURATION_ERROR"
	}
	return "UNKNOWN_ERROR"
}

func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code(), e.ErrBuilder.Msg)
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.ErrBuilder.Unwrap()
}

// Response builds the JSON body for this error.
func (e *AppError) Response() ErrorResponse {
	return ErrorResponse{
		Error:     e.ErrBuilder.Msg,
		Code:      e.Code(),
		Category:  e.Category,
		Notice:    e.Notice,
		Details:   e.Fields,
		RequestID: e.RequestID,
		Timestamp: e.Timestamp,
	}
}

// NewAppError creates an AppError from errbuilder with additional context
func NewAppError(builder *errbuilder.ErrBuilder, category ErrorCategory, httpStatus int) *AppError {
	return &AppError{
		ErrBuilder: builder,
		Category:   category,
		HTTPStatus: httpStatus,
		Timestamp:  time.Now(),
	}
}

// newCategorized builds an AppError of category. fields go into the
// errbuilder details and, when public, into the response body.
func newCategorized(category ErrorCategory, message string, fields map[string]string, public bool, cause error) *AppError {
	builder := errbuilder.New().WithMsg(message)
	status := http.StatusInternalServerError
	switch category {
	case CategoryValidation:
		builder, status = builder.WithCode(errbuilder.CodeInvalidArgument), http.StatusBadRequest
	case CategoryNotFound:
		builder, status = builder.WithCode(errbuilder.CodeNotFound), http.StatusNotFound
	case CategoryTimeout:
		builder, status = builder.WithCode(errbuilder.CodeDeadlineExceeded), http.StatusGatewayTimeout
	case CategoryRateLimit:
		builder, status = builder.WithCode(errbuilder.CodeResourceExhausted), http.StatusTooManyRequests
	case CategoryConfiguration:
		builder = builder.WithCode(errbuilder.CodeFailedPrecondition)
	default:
		builder = builder.WithCode(errbuilder.CodeInternal)
	}

	if len(fields) > 0 {
		details := errbuilder.ErrorMap{}
		for name, v := range fields {
			details.Set(name, errors.New(v))
		}
		builder = builder.WithDetails(errbuilder.NewErrDetails(details))
	}
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	appErr := NewAppError(builder, category, status)
	if public {
		appErr.Fields = fields
	}
	return appErr
}

// NewValidationError reports bad request input; fields name the offending inputs.
func NewValidationError(message string, fields map[string]string) *AppError {
	return newCategorized(CategoryValidation, message, fields, true, nil)
}

// NewNotFoundError reports an unknown team or player.
func NewNotFoundError(message string, fields map[string]string) *AppError {
	return newCategorized(CategoryNotFound, message, fields, true, nil)
}

func NewTimeoutError(message string, cause error) *AppError {
	return newCategorized(CategoryTimeout, message, nil, false, cause)
}

// NewRateLimitError tells the client how many seconds to wait.
func NewRateLimitError(retryAfter string) *AppError {
	return newCategorized(CategoryRateLimit, "Rate limit exceeded", map[string]string{"retry_after": retryAfter}, true, nil)
}

// NewInternalError hides message from the client behind a generic text. A
// stack trace is captured outside release mode.
func NewInternalError(message string, cause error) *AppError {
	appErr := newCategorized(CategoryInternal, "Internal server error", map[string]string{"internal_details": message}, false, cause)
	if gin.Mode() != gin.ReleaseMode {
		appErr.StackTrace = captureStackTrace()
	}
	return appErr
}

// NewConfigurationError reports a server-side setup problem such as an
// unusable dataset.
func NewConfigurationError(message string, cause error) *AppError {
	return newCategorized(CategoryConfiguration, "Configuration error", map[string]string{"config_details": message}, false, cause)
}

// captureStackTrace captures a stack trace for debugging
func captureStackTrace() string {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}

// Respond logs err and writes it as the JSON response.
func Respond(c *gin.Context, err error) {
	appErr := ToAppError(err)
	if appErr.RequestID == "" {
		appErr.RequestID = requestID(c)
	}
	LogError(c, appErr)
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.Response())
}

// ErrorHandler is a Gin middleware that provides centralized error handling
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			Respond(c, c.Errors.Last().Err)
		}
	}
}

// RecoveryHandler provides panic recovery with structured error responses
func RecoveryHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err interface{}) {
		appErr := NewInternalError(
			fmt.Sprintf("Panic recovered: %v", err),
			fmt.Errorf("%v", err),
		)
		appErr.StackTrace = captureStackTrace()
		Respond(c, appErr)
	})
}

// ToAppError converts any error to an AppError, mapping dataset and
// comparison errors to their HTTP categories.
func ToAppError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var unknownStat *analysis.UnknownStatisticError
	if errors.As(err, &unknownStat) {
		return NewValidationError(err.Error(), map[string]string{"stat": unknownStat.Stat})
	}

	var notFound *analysis.PlayerNotFoundError
	if errors.As(err, &notFound) {
		fields := make(map[string]string, len(notFound.Missing))
		for _, m := range notFound.Missing {
			fields[m.String()] = m.Team
		}
		nf := NewNotFoundError(err.Error(), fields)
		nf.Notice = analysis.NotFoundNotice
		return nf
	}

	if errors.Is(err, analysis.ErrInvalidDivisor) {
		return NewValidationError(err.Error(), nil)
	}
	if errors.Is(err, analysis.ErrNonFiniteScale) {
		return NewInternalError("Statistic could not be scaled", err)
	}

	var schemaErr *dataset.SchemaError
	if errors.As(err, &schemaErr) {
		return NewConfigurationError(schemaErr.Error(), err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError("Request deadline exceeded", err)
	}
	if errors.Is(err, context.Canceled) {
		return NewTimeoutError("Request cancelled", err)
	}

	var ebErr *errbuilder.ErrBuilder
	if errors.As(err, &ebErr) {
		return NewAppError(ebErr, CategoryInternal, http.StatusInternalServerError)
	}

	return NewInternalError("An unexpected error occurred", err)
}

func requestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// LogError logs an error with appropriate level and context
func LogError(c *gin.Context, err *AppError) {
	logEntry := slog.With(
		"error_category", err.Category,
		"error_code", err.Code(),
		"http_status", err.HTTPStatus,
		"ip", c.ClientIP(),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"request_id", requestID(c),
	)
	errorMsg := err.ErrBuilder.Msg

	switch err.Category {
	case CategoryValidation, CategoryNotFound, CategoryRateLimit:
		if len(err.Fields) > 0 {
			logEntry.Warn(errorMsg, "details", err.Fields)
		} else {
			logEntry.Warn(errorMsg)
		}
	case CategoryTimeout:
		logEntry.Info(errorMsg, "cause", err.ErrBuilder.Unwrap())
	default:
		if cause := err.ErrBuilder.Unwrap(); cause != nil {
			logEntry.Error(errorMsg, "cause", cause)
		} else {
			logEntry.Error(errorMsg)
		}
	}

	if err.StackTrace != "" && (gin.Mode() == gin.DebugMode || gin.Mode() == gin.TestMode) {
		logEntry.Debug("stack_trace", "trace", err.StackTrace)
	}
}

// WrapError wraps an error with additional context
func WrapError(err error, message string, args ...interface{}) error {
	if err == nil {
		return nil
	}

	contextMsg := fmt.Sprintf(message, args...)
	return fmt.Errorf("%s: %w", contextMsg, err)
}
