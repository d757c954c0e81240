package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "tourneyhub/internal/errors"
)

var echoStatusCodes = map[int]string{
	http.StatusBadRequest:            "VALIDATION_ERROR",
	http.StatusUnauthorized:          "UNAUTHENTICATED",
	http.StatusForbidden:             "FORBIDDEN",
	http.StatusNotFound:              "NOT_FOUND",
	http.StatusMethodNotAllowed:      "METHOD_NOT_ALLOWED",
	http.StatusRequestEntityTooLarge: "PAYLOAD_TOO_LARGE",
	http.StatusUnsupportedMediaType:  "UNSUPPORTED_MEDIA_TYPE",
	http.StatusTooManyRequests:       "RATE_LIMITED",
	http.StatusServiceUnavailable:    "SERVICE_UNAVAILABLE",
}

// ErrorHandler renders every error as an errors.ErrorResponse. Internal errors
// are logged with the request id and replaced by a generic message.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	httpErr := toHTTPError(err)
	if httpErr.StatusCode >= http.StatusInternalServerError && httpErr.StatusCode != http.StatusServiceUnavailable {
		zap.L().Error("request failed",
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err))
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(httpErr.StatusCode)
	} else {
		writeErr = c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	if writeErr != nil {
		zap.L().Warn("failed to write error response", zap.Error(writeErr))
	}
}

func toHTTPError(err error) *apperrors.HTTPError {
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		code, ok := echoStatusCodes[echoErr.Code]
		if !ok {
			return apperrors.MapErrorToHTTP(err)
		}
		message := http.StatusText(echoErr.Code)
		if msg, isString := echoErr.Message.(string); isString && echoErr.Code < http.StatusInternalServerError {
			message = msg
		}
		return apperrors.NewHTTPError(echoErr.Code, message, code)
	}
	return apperrors.MapErrorToHTTP(err)
}

// decodeJSON binds the request body strictly: unknown fields and trailing
// data are rejected.
func decodeJSON(c echo.Context, dst interface{}) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return apperrors.Validation("invalid request body", map[string]string{"body": bodyError(err)})
	}
	if decoder.More() {
		return apperrors.Validation("invalid request body", map[string]string{"body": "unexpected data after JSON object"})
	}
	return c.Validate(dst)
}

func bodyError(err error) string {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return "request body is empty"
	case errors.As(err, &syntaxErr):
		return "malformed JSON"
	case errors.As(err, &typeErr):
		return typeErr.Field + " has the wrong type"
	default:
		return err.Error()
	}
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperrors.Validation("invalid input", map[string]string{"id": "must be a valid UUID"})
	}
	return id, nil
}

// MessageResponse is a plain confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}
