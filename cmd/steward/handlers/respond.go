package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/tabular/steward/common/apperr"
)

// PayloadValidator adapts go-playground/validator to echo.Validator
type PayloadValidator struct {
	validate *validator.Validate
}

// NewPayloadValidator creates the request payload validator
func NewPayloadValidator() *PayloadValidator {
	return &PayloadValidator{validate: validator.New()}
}

// Validate implements echo.Validator
func (v *PayloadValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// statusFor maps the error taxonomy onto HTTP status codes
func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidArgument:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindInvalidTransition:
		return http.StatusConflict
	case apperr.KindValidationFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the failure envelope. Storage failures get a generic
// retry-later message; everything else surfaces its actionable message.
func respondError(c echo.Context, err error) error {
	kind := apperr.KindOf(err)

	message := "An error occurred while processing the request. Please try again later."
	field := ""
	if kind != apperr.KindStorageFailure {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			message = appErr.Message
			field = appErr.Field
		} else {
			message = err.Error()
		}
	}

	body := map[string]interface{}{
		"status":  "failure",
		"error":   kind,
		"message": message,
	}
	if field != "" {
		body["field"] = field
	}

	return c.JSON(statusFor(kind), body)
}

// respond writes the success envelope
func respond(c echo.Context, httpStatus int, message string, data interface{}) error {
	body := map[string]interface{}{
		"status":  "success",
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	return c.JSON(httpStatus, body)
}
