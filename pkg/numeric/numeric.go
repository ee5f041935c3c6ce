// Package numeric holds form field types that accept a number either as a
// JSON number or as the string a browser text input produces.
package numeric

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Error reports a value that is not a number.
type Error struct {
	Value string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%q is not a number", e.Value)
}

// Int is a whole number field: 30 and "30" both decode to 30.
type Int int

func (n *Int) UnmarshalJSON(data []byte) error {
	s, err := unquote(data)
	if err != nil {
		return err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return &Error{Value: s}
	}
	*n = Int(v)
	return nil
}

// UnmarshalParam decodes form and query values.
func (n *Int) UnmarshalParam(param string) error {
	return n.UnmarshalJSON([]byte(strconv.Quote(param)))
}

func (n *Int) Int() int { return int(*n) }

// Decimal is a money field: 1200, 1200.5 and "1200.50" are accepted.
// NaN and infinities are rejected.
type Decimal float64

func (d *Decimal) UnmarshalJSON(data []byte) error {
	s, err := unquote(data)
	if err != nil {
		return err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return &Error{Value: s}
	}
	*d = Decimal(v)
	return nil
}

func (d *Decimal) UnmarshalParam(param string) error {
	return d.UnmarshalJSON([]byte(strconv.Quote(param)))
}

func (d *Decimal) Float64() float64 { return float64(*d) }

// unquote returns the trimmed text of a JSON number or string.
func unquote(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return "", &Error{Value: s}
		}
		return s, nil
	}
	if len(data) == 0 || data[0] == '{' || data[0] == '[' || data[0] == 't' || data[0] == 'f' {
		return "", &Error{Value: string(data)}
	}
	return string(data), nil
}

// Round2 rounds to two decimal places, the precision money is stored with.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
