package analytics

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Characters dropped from string values before parsing, e.g. "1,200" or "4.5%"
var numberNoise = strings.NewReplacer(",", "", "%", "", "$", "")

// Number is an optional metric value. It accepts JSON numbers, booleans and
// strings such as "$1,200.50"; anything else leaves it unset.
type Number struct {
	Value float64
	Valid bool
}

// Float returns a pointer to the value, or nil when unset
func (n Number) Float() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// Of returns a set Number, or an unset one when v is NaN or infinite
func Of(v float64) Number {
	var n Number
	n.set(v)
	return n
}

// UnmarshalJSON never fails; unusable input yields an unset Number
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	switch v := raw.(type) {
	case float64:
		n.set(v)
	case bool:
		if v {
			n.set(1)
		} else {
			n.set(0)
		}
	case string:
		text := numberNoise.Replace(strings.TrimSpace(v))
		if text == "" {
			return nil
		}
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			n.set(f)
		}
	}
	return nil
}

// MarshalJSON writes null for unset values
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n *Number) set(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	n.Value = v
	n.Valid = true
}
