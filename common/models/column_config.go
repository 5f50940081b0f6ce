package models

import (
	"regexp"
	"time"
)

// ColumnStatus flags whether makers may edit a column
type ColumnStatus string

const (
	ColumnEditable    ColumnStatus = "editable"
	ColumnNonEditable ColumnStatus = "non-editable"
)

// EditType is the validation/widget category assigned to a column
type EditType string

const (
	EditTypeText         EditType = "text free text"
	EditTypeAlphanumeric EditType = "alphanumeric free text"
	EditTypeAmount       EditType = "amount numeric"
	EditTypeDate         EditType = "date calendar"
	EditTypeDropdown     EditType = "dropdown"

	// Long-form label some admin clients send for dropdown columns
	editTypeDropdownAlias EditType = "drop down with predefined value in the column"
)

// Normalize folds known aliases onto their canonical edit type
func (t EditType) Normalize() EditType {
	if t == editTypeDropdownAlias {
		return EditTypeDropdown
	}
	return t
}

// ColumnPermission is one entry of a table's column_list
type ColumnPermission struct {
	ColumnName   string       `json:"column_name"`
	ColumnStatus ColumnStatus `json:"column_status"`
	// EditType is optional; absent means plain free text
	EditType EditType `json:"edit_type,omitempty"`
}

// TableColumnConfig is the persisted per-table policy row.
// Maps to: column_permission table (column_list stored as JSONB).
type TableColumnConfig struct {
	TableName  string             `db:"table_name" json:"table_name"`
	ColumnList []ColumnPermission `db:"column_list" json:"column_list"`
	CreatedAt  time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `db:"updated_at" json:"updated_at"`
}

// MergeColumnList applies incoming entries onto existing ones: entries naming
// a known column overwrite its status (and edit type when supplied), unnamed
// existing columns are preserved, genuinely new columns are appended in input
// order. column_name stays unique in the result.
func MergeColumnList(existing, incoming []ColumnPermission) []ColumnPermission {
	merged := make([]ColumnPermission, len(existing))
	copy(merged, existing)

	index := make(map[string]int, len(merged))
	for i, col := range merged {
		index[col.ColumnName] = i
	}

	for _, in := range incoming {
		if i, ok := index[in.ColumnName]; ok {
			merged[i].ColumnStatus = in.ColumnStatus
			if in.EditType != "" {
				merged[i].EditType = in.EditType
			}
			continue
		}
		index[in.ColumnName] = len(merged)
		merged = append(merged, in)
	}

	return merged
}

// DropdownConfig is the persisted per-table option sets.
// Maps to: dropdown_option table (options stored as JSONB column → list).
type DropdownConfig struct {
	TableName string              `db:"table_name" json:"table_name"`
	Options   map[string][]string `db:"options" json:"options"`
	UpdatedAt time.Time           `db:"updated_at" json:"updated_at"`
}

// DedupeOptions drops duplicate entries while keeping first-seen order.
// Matching is case-sensitive exact, same as dropdown validation.
func DedupeOptions(options []string) []string {
	seen := make(map[string]struct{}, len(options))
	out := make([]string, 0, len(options))
	for _, opt := range options {
		if _, dup := seen[opt]; dup {
			continue
		}
		seen[opt] = struct{}{}
		out = append(out, opt)
	}
	return out
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidIdentifier reports whether a table or column name is safe to use
// in queries (letters, digits, underscore only)
func ValidIdentifier(name string) bool {
	return name != "" && identifierPattern.MatchString(name)
}
