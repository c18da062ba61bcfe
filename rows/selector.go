package rows

import (
	"fmt"
	"strings"
)

// Selector decides which rows are processed. Zero value accepts every row.
type Selector struct {
	Key      string
	Value    string
	HasValue bool
}

// ParseSelector accepts "key" (row must have non empty value) or
// "key=value" (row must have exactly this value). Empty spec selects all.
func ParseSelector(spec string) (Selector, error) {
	if spec == "" {
		return Selector{}, nil
	}
	key, value, found := strings.Cut(spec, "=")
	if found && strings.Contains(value, "=") {
		return Selector{}, fmt.Errorf("row selector '%s' must have at most one '='", spec)
	}
	if key == "" {
		return Selector{}, fmt.Errorf("row selector '%s' has empty column name", spec)
	}
	return Selector{Key: key, Value: value, HasValue: found}, nil
}

// Match reports whether row is selected. Referencing a column which is absent
// from the row is an error.
func (s Selector) Match(r Row) (bool, error) {
	if s.Key == "" {
		return true, nil
	}
	v, ok := r[s.Key]
	if !ok {
		return false, fmt.Errorf("row selector column '%s' is not present in data", s.Key)
	}
	if s.HasValue {
		return v == s.Value, nil
	}
	return v != "", nil
}

func (s Selector) String() string {
	switch {
	case s.Key == "":
		return "<all>"
	case s.HasValue:
		return s.Key + "=" + s.Value
	default:
		return s.Key
	}
}
