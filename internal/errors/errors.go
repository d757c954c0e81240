package errors

import (
	"errors"
	"net/http"
)

// Kind classifies an application error into the HTTP-facing taxonomy.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindInvalidState
	KindServiceUnavailable
)

var (
	// ErrNotAuthenticated is returned when no valid session accompanies the request.
	ErrNotAuthenticated = New(KindAuthentication, "not authenticated")
	// ErrForbidden is returned when the session lacks the required role or capability.
	ErrForbidden = New(KindAuthorization, "unauthorized")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = New(KindAuthentication, "invalid email or password")
	// ErrEmailExists is returned when the email is already registered.
	ErrEmailExists = New(KindConflict, "email already in use")
	// ErrEventNotFound is returned when an event id is unknown.
	ErrEventNotFound = New(KindNotFound, "event not found")
	// ErrPaymentNotFound is returned when a payment id is unknown.
	ErrPaymentNotFound = New(KindNotFound, "payment not found")
	// ErrEmployeeNotFound is returned when an employee id is unknown.
	ErrEmployeeNotFound = New(KindNotFound, "employee not found")
	// ErrPaymentAlreadyDecided is returned when a terminal payment is decided again.
	ErrPaymentAlreadyDecided = New(KindInvalidState, "payment has already been decided")
	// ErrModerationUnavailable is returned when the moderation backend cannot answer.
	ErrModerationUnavailable = New(KindServiceUnavailable, "moderation service unavailable, please try again")
	// ErrEvidenceStoreUnavailable is returned when an upload cannot be stored.
	ErrEvidenceStoreUnavailable = New(KindServiceUnavailable, "evidence storage unavailable, please try again")
)

// AppError is an error with a taxonomy kind and optional field-level details.
type AppError struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches sentinel AppErrors by kind and message so wrapped copies still compare equal.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// New creates an AppError of the given kind.
func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

// Wrap attaches a cause to a new AppError.
func Wrap(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

// Validation creates a validation error carrying per-field messages.
func Validation(message string, fields map[string]string) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Fields: fields}
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Fields     map[string]string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:  e.Message,
		Code:   e.Code,
		Fields: e.Fields,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unknown errors never leak their text.
func MapErrorToHTTP(err error) *HTTPError {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}

	var httpErr *HTTPError
	switch appErr.Kind {
	case KindValidation:
		httpErr = NewHTTPError(http.StatusBadRequest, appErr.Message, "VALIDATION_ERROR")
		httpErr.Fields = appErr.Fields
	case KindAuthentication:
		httpErr = NewHTTPError(http.StatusUnauthorized, appErr.Message, "UNAUTHENTICATED")
	case KindAuthorization:
		httpErr = NewHTTPError(http.StatusForbidden, appErr.Message, "FORBIDDEN")
	case KindNotFound:
		httpErr = NewHTTPError(http.StatusNotFound, appErr.Message, "NOT_FOUND")
	case KindConflict:
		httpErr = NewHTTPError(http.StatusConflict, appErr.Message, "CONFLICT")
	case KindInvalidState:
		httpErr = NewHTTPError(http.StatusConflict, appErr.Message, "INVALID_STATE")
	case KindServiceUnavailable:
		httpErr = NewHTTPError(http.StatusServiceUnavailable, appErr.Message, "SERVICE_UNAVAILABLE")
	default:
		httpErr = NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
	return httpErr
}
