package catalog

import (
	"encoding/json"
	"strconv"
	"strings"
)

// MaxRating is the top of the normalized rating scale.
const MaxRating = 5.0

// naLabel is the display and wire form of a missing rating.
const naLabel = "N/A"

// Rating is a normalized 0-5 score or the N/A sentinel (Valid == false).
type Rating struct {
	Value float64
	Valid bool
}

// NA is the sentinel for "no usable rating".
var NA = Rating{}

// Score returns a valid rating clamped to the 0-5 scale.
func Score(v float64) Rating {
	if v < 0 {
		v = 0
	}
	if v > MaxRating {
		v = MaxRating
	}
	return Rating{Value: v, Valid: true}
}

// IsNA reports whether r is the N/A sentinel.
func (r Rating) IsNA() bool {
	return !r.Valid
}

// Less orders ratings ascending. N/A is lower than every numeric rating.
func (r Rating) Less(o Rating) bool {
	if r.Valid != o.Valid {
		return !r.Valid
	}
	return r.Value < o.Value
}

// String renders the rating with one decimal, or "N/A".
func (r Rating) String() string {
	if !r.Valid {
		return naLabel
	}
	return strconv.FormatFloat(r.Value, 'f', 1, 64)
}

// MarshalJSON writes a number, or the string "N/A".
func (r Rating) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return json.Marshal(naLabel)
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON accepts a number, a numeric string, "N/A", or null.
// Anything unparseable decodes to N/A rather than failing the whole item.
func (r *Rating) UnmarshalJSON(data []byte) error {
	*r = NA
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	switch v := raw.(type) {
	case float64:
		*r = Score(v)
	case string:
		*r = ParseRating(v)
	}
	return nil
}

// ParseRating parses a rating from text. Empty, "N/A" and garbage yield NA.
func ParseRating(s string) Rating {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, naLabel) {
		return NA
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return NA
	}
	return Score(v)
}
