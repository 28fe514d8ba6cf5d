package entity

import "strings"

// Dataset is one realized tabular result: ordered column names plus rows
// keyed by column. Treated as read-only once handed to validators.
type Dataset struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// Empty reports whether the dataset has no rows.
func (d *Dataset) Empty() bool {
	return d == nil || len(d.Rows) == 0
}

// HasColumn reports whether the named column is present.
func (d *Dataset) HasColumn(name string) bool {
	if d == nil {
		return false
	}
	for _, col := range d.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// KeyTuples returns the distinct non-null tuples over the given columns,
// each encoded as a single string. Rows where any key column is nil are
// skipped.
func (d *Dataset) KeyTuples(columns []string) map[string]bool {
	tuples := make(map[string]bool)
	if d == nil {
		return tuples
	}
rows:
	for _, row := range d.Rows {
		parts := make([]string, 0, len(columns))
		for _, col := range columns {
			v, ok := row[col]
			if !ok || v == nil {
				continue rows
			}
			parts = append(parts, formatValue(v))
		}
		tuples[strings.Join(parts, "\x1f")] = true
	}
	return tuples
}

// TupleString renders an encoded key tuple for display.
func TupleString(tuple string) string {
	return "(" + strings.ReplaceAll(tuple, "\x1f", ", ") + ")"
}

// ColumnValues returns every non-null value of one column.
func (d *Dataset) ColumnValues(name string) []any {
	if d == nil {
		return nil
	}
	var out []any
	for _, row := range d.Rows {
		if v, ok := row[name]; ok && v != nil {
			out = append(out, v)
		}
	}
	return out
}
