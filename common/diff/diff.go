package diff

import "github.com/tabular/steward/common/models"

// Entry is one changed field in a before/after comparison
type Entry struct {
	Column string       `json:"column"`
	Old    models.Value `json:"old"`
	New    models.Value `json:"new"`
}

// Compute returns every column of newValues whose stringified value differs
// from its counterpart in oldValues. A column missing from oldValues compares
// against null. Output order is the insertion order of newValues, so the
// result is deterministic for a given submission payload.
//
// Pure function; called at submission time for no-op detection and at review
// time to render the before/after comparison.
func Compute(oldValues, newValues models.RowValues) []Entry {
	entries := make([]Entry, 0, newValues.Len())

	for _, column := range newValues.Columns() {
		newVal, _ := newValues.Get(column)
		oldVal, ok := oldValues.Get(column)
		if !ok {
			oldVal = models.NullValue()
		}

		if newVal.String() == oldVal.String() {
			continue
		}

		entries = append(entries, Entry{Column: column, Old: oldVal, New: newVal})
	}

	return entries
}
