package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tabular/steward/common/apperr"
	"github.com/tabular/steward/common/models"
)

const (
	maxTextLength         = 100
	maxAlphanumericLength = 50
	maxAmount             = 999999999.99
)

var (
	textPattern         = regexp.MustCompile(`^[a-zA-Z\s]*$`)
	alphanumericPattern = regexp.MustCompile(`^[a-zA-Z0-9]*$`)
	amountPattern       = regexp.MustCompile(`^\d*\.?\d*$`)
)

// Accepted calendar layouts, tried in order after RFC 3339
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
	"2006/01/02",
	"01-02-2006",
	"02-01-2006",
}

var (
	minDate = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	maxDate = time.Date(2100, 12, 31, 23, 59, 59, 0, time.UTC)
)

// Validate checks a proposed cell value against the column's configured edit
// type. Empty and null values always pass: absence means "not provided", and
// mandatory-field enforcement belongs to the surrounding workflow.
//
// The engine is pure and side-effect-free. Clients run the same rules for
// pre-submission UX, but the server re-runs them on every submission since
// client validation is not trustworthy.
func Validate(editType models.EditType, field string, value models.Value, dropdownOptions []string) error {
	if value.IsNull() {
		return nil
	}

	raw := strings.TrimSpace(value.String())
	if raw == "" {
		return nil
	}

	switch editType.Normalize() {
	case models.EditTypeText:
		return validateText(field, raw)
	case models.EditTypeAlphanumeric:
		return validateAlphanumeric(field, raw)
	case models.EditTypeAmount:
		return validateAmount(field, raw)
	case models.EditTypeDate:
		return validateDate(field, raw)
	case models.EditTypeDropdown:
		return validateDropdown(field, raw, dropdownOptions)
	default:
		// Unconfigured columns accept anything
		return nil
	}
}

func validateText(field, raw string) error {
	if !textPattern.MatchString(raw) {
		return apperr.ValidationFailed(field, "only letters and spaces are allowed")
	}
	if len(raw) > maxTextLength {
		return apperr.ValidationFailed(field, "maximum length is %d characters", maxTextLength)
	}
	return nil
}

func validateAlphanumeric(field, raw string) error {
	if !alphanumericPattern.MatchString(raw) {
		return apperr.ValidationFailed(field, "only letters and digits are allowed")
	}
	if len(raw) > maxAlphanumericLength {
		return apperr.ValidationFailed(field, "maximum length is %d characters", maxAlphanumericLength)
	}
	return nil
}

func validateAmount(field, raw string) error {
	if !amountPattern.MatchString(raw) {
		return apperr.ValidationFailed(field, "enter a valid number")
	}
	if strings.HasSuffix(raw, ".") {
		return apperr.ValidationFailed(field, "enter a complete decimal number")
	}
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return apperr.ValidationFailed(field, "enter a valid number")
	}
	if amount < 0 || amount > maxAmount {
		return apperr.ValidationFailed(field, "amount must be between 0 and 999,999,999.99")
	}
	if dot := strings.IndexByte(raw, '.'); dot >= 0 && len(raw)-dot-1 > 2 {
		return apperr.ValidationFailed(field, "maximum 2 decimal places allowed")
	}
	return nil
}

func validateDate(field, raw string) error {
	parsed, ok := parseDate(raw)
	if !ok {
		return apperr.ValidationFailed(field, "enter a valid date")
	}
	if parsed.Before(minDate) || parsed.After(maxDate) {
		return apperr.ValidationFailed(field, "date must be between 1900 and 2100")
	}
	return nil
}

func parseDate(raw string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func validateDropdown(field, raw string, options []string) error {
	for _, opt := range options {
		if raw == opt {
			return nil
		}
	}
	return apperr.ValidationFailed(field, "select a valid option from the dropdown")
}
