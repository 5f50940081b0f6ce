package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tabular/steward/common/models"
)

func row(pairs ...string) models.RowValues {
	rv := models.NewRowValues()
	for i := 0; i+1 < len(pairs); i += 2 {
		rv.Set(pairs[i], models.StringValue(pairs[i+1]))
	}
	return rv
}

func TestCompute_OnlyChangedColumns(t *testing.T) {
	before := row("BRN_NAME", "Old Branch", "BRN_CODE", "B1")
	after := row("BRN_NAME", "New Branch", "BRN_CODE", "B1")

	entries := Compute(before, after)

	assert.Len(t, entries, 1)
	assert.Equal(t, "BRN_NAME", entries[0].Column)
	assert.Equal(t, "Old Branch", entries[0].Old.String())
	assert.Equal(t, "New Branch", entries[0].New.String())
}

func TestCompute_NoChanges(t *testing.T) {
	before := row("BRN_NAME", "Same", "BRN_CODE", "B1")
	after := row("BRN_NAME", "Same", "BRN_CODE", "B1")

	assert.Empty(t, Compute(before, after))
}

func TestCompute_MissingOldColumnComparesAgainstNull(t *testing.T) {
	before := row("BRN_NAME", "Branch")
	after := row("BRN_NAME", "Branch", "REGION", "NORTH")

	entries := Compute(before, after)

	assert.Len(t, entries, 1)
	assert.Equal(t, "REGION", entries[0].Column)
	assert.True(t, entries[0].Old.IsNull())
}

func TestCompute_NullAndEmptyStringAreEqual(t *testing.T) {
	before := models.NewRowValues()
	before.Set("REGION", models.NullValue())
	after := row("REGION", "")

	assert.Empty(t, Compute(before, after))
}

func TestCompute_Insertion(t *testing.T) {
	entries := Compute(models.NewRowValues(), row("BRN_NAME", "Fresh", "REGION", "NORTH"))

	assert.Len(t, entries, 2)
	for _, entry := range entries {
		assert.True(t, entry.Old.IsNull())
	}
}

func TestCompute_OrderFollowsNewValues(t *testing.T) {
	before := row("a", "1", "b", "2", "c", "3")
	after := row("c", "30", "a", "10", "b", "2")

	entries := Compute(before, after)

	assert.Len(t, entries, 2)
	assert.Equal(t, "c", entries[0].Column)
	assert.Equal(t, "a", entries[1].Column)
}

func TestCompute_NumberLiteralsCompareByRawForm(t *testing.T) {
	before := models.NewRowValues()
	before.Set("LIMIT_AMT", models.NumberValue("12.30"))
	after := models.NewRowValues()
	after.Set("LIMIT_AMT", models.NumberValue("12.3"))

	// The raw literal is the unit of comparison; no float normalization
	entries := Compute(before, after)
	assert.Len(t, entries, 1)
}

func TestCompute_Idempotent(t *testing.T) {
	before := row("BRN_NAME", "Old", "REGION", "NORTH")
	after := row("BRN_NAME", "New", "REGION", "SOUTH")

	first := Compute(before, after)
	second := Compute(before, after)
	assert.Equal(t, first, second)
}
