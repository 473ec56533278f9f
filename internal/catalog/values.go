package catalog

import (
	"encoding/json"
	"strings"
)

// Values is a multi-valued facet field. On the wire it may be a
// comma-delimited string or an array of strings; both decode to the same
// trimmed, non-empty list. Missing or malformed input decodes to nil.
type Values []string

// SplitValues splits a comma-delimited string into trimmed, non-empty values.
func SplitValues(s string) Values {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make(Values, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Values) UnmarshalJSON(data []byte) error {
	*v = nil
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	switch x := raw.(type) {
	case string:
		*v = SplitValues(x)
	case []any:
		var out Values
		for _, e := range x {
			s, ok := e.(string)
			if !ok {
				continue
			}
			// Array elements may themselves be comma-joined.
			out = append(out, SplitValues(s)...)
		}
		*v = out
	}
	return nil
}

// Contains reports whether s is one of the values.
func (v Values) Contains(s string) bool {
	for _, e := range v {
		if e == s {
			return true
		}
	}
	return false
}

// String joins the values with ", ".
func (v Values) String() string {
	return strings.Join(v, ", ")
}
