package entity

import (
	"fmt"
	"time"
)

// Family is a coarse value-type family used for cross-column
// compatibility checks. Anything unrecognized classifies as FamilyText.
type Family string

const (
	FamilyNumeric  Family = "numeric"
	FamilyText     Family = "text"
	FamilyDatetime Family = "datetime"
)

// FamilyOf classifies a single value.
func FamilyOf(v any) Family {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return FamilyNumeric
	case time.Time, *time.Time:
		return FamilyDatetime
	default:
		return FamilyText
	}
}

// ColumnFamily classifies a column by sampling its non-null values. The
// first family seen wins; mixed columns classify as text.
func (d *Dataset) ColumnFamily(name string) (Family, bool) {
	values := d.ColumnValues(name)
	if len(values) == 0 {
		return "", false
	}
	family := FamilyOf(values[0])
	for _, v := range values[1:] {
		if FamilyOf(v) != family {
			return FamilyText, true
		}
	}
	return family, true
}

func formatValue(v any) string {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", val)
	}
}
