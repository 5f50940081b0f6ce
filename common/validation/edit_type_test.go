package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tabular/steward/common/apperr"
	"github.com/tabular/steward/common/models"
)

func check(editType models.EditType, raw string, options ...string) error {
	return Validate(editType, "col", models.StringValue(raw), options)
}

func TestValidate_EmptyAlwaysPasses(t *testing.T) {
	for _, editType := range []models.EditType{
		models.EditTypeText,
		models.EditTypeAlphanumeric,
		models.EditTypeAmount,
		models.EditTypeDate,
		models.EditTypeDropdown,
	} {
		assert.NoError(t, check(editType, ""), string(editType))
		assert.NoError(t, check(editType, "   "), string(editType))
		assert.NoError(t, Validate(editType, "col", models.NullValue(), nil), string(editType))
	}
}

func TestValidate_Text(t *testing.T) {
	assert.NoError(t, check(models.EditTypeText, "Main Branch"))
	assert.Error(t, check(models.EditTypeText, "Branch 42"))
	assert.Error(t, check(models.EditTypeText, "Branch!"))

	assert.NoError(t, check(models.EditTypeText, strings.Repeat("a", 100)))
	assert.Error(t, check(models.EditTypeText, strings.Repeat("a", 101)))
}

func TestValidate_Alphanumeric(t *testing.T) {
	assert.NoError(t, check(models.EditTypeAlphanumeric, "BR042"))
	assert.Error(t, check(models.EditTypeAlphanumeric, "BR 042"))
	assert.Error(t, check(models.EditTypeAlphanumeric, "BR-042"))

	assert.NoError(t, check(models.EditTypeAlphanumeric, strings.Repeat("a", 50)))
	assert.Error(t, check(models.EditTypeAlphanumeric, strings.Repeat("a", 51)))
}

func TestValidate_Amount(t *testing.T) {
	valid := []string{"0", "12", "12.3", "12.34", ".5", "999999999.99"}
	for _, raw := range valid {
		assert.NoError(t, check(models.EditTypeAmount, raw), raw)
	}

	invalid := []string{"12.345", "12.", "-5", "1,000", "abc", "1000000000", "1e3"}
	for _, raw := range invalid {
		err := check(models.EditTypeAmount, raw)
		assert.Error(t, err, raw)
		assert.True(t, apperr.IsKind(err, apperr.KindValidationFailed), raw)
	}
}

func TestValidate_Date(t *testing.T) {
	valid := []string{
		"2024-06-15",
		"2024-06-15T10:30:00Z",
		"06/15/2024",
		"2024/06/15",
		"15-06-2024",
		"1900-01-01",
		"2100-12-31",
	}
	for _, raw := range valid {
		assert.NoError(t, check(models.EditTypeDate, raw), raw)
	}

	invalid := []string{"1899-12-31", "2101-01-01", "not a date", "2024-13-40"}
	for _, raw := range invalid {
		assert.Error(t, check(models.EditTypeDate, raw), raw)
	}
}

func TestValidate_Dropdown(t *testing.T) {
	options := []string{"NORTH", "SOUTH"}

	assert.NoError(t, check(models.EditTypeDropdown, "NORTH", options...))
	assert.Error(t, check(models.EditTypeDropdown, "WEST", options...))
	// Matching is case-sensitive exact
	assert.Error(t, check(models.EditTypeDropdown, "north", options...))
	// A dropdown column with no configured options rejects everything non-empty
	assert.Error(t, check(models.EditTypeDropdown, "NORTH"))
}

func TestValidate_DropdownAlias(t *testing.T) {
	alias := models.EditType("drop down with predefined value in the column")
	assert.NoError(t, check(alias, "NORTH", "NORTH"))
	assert.Error(t, check(alias, "WEST", "NORTH"))
}

func TestValidate_UnknownEditTypeAcceptsAnything(t *testing.T) {
	assert.NoError(t, check(models.EditType(""), "whatever !@# 123"))
	assert.NoError(t, check(models.EditType("mystery widget"), "anything"))
}

func TestValidate_ErrorCarriesField(t *testing.T) {
	err := Validate(models.EditTypeText, "BRN_NAME", models.StringValue("nope42"), nil)
	var appErr *apperr.Error
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, "BRN_NAME", appErr.Field)
}
