package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Count is a non-negative integer that tolerates loosely typed input.  It
// accepts JSON numbers, numeric strings ("5", "5 people") and null; anything
// that does not start with an integer becomes 0.  Bookings carry their party
// size as a Count so availability maths never has to guess.
type Count int

// Int returns the count as an int.
func (c Count) Int() int { return int(c) }

// UnmarshalJSON implements json.Unmarshaler.
func (c *Count) UnmarshalJSON(b []byte) error {
	*c = Count(coerceInt(decodeLoose(b)))
	return nil
}

// Scan implements sql.Scanner.
func (c *Count) Scan(src any) error {
	*c = Count(coerceInt(src))
	return nil
}

// Value implements driver.Valuer.
func (c Count) Value() (driver.Value, error) { return int64(c), nil }

// Amount is a currency value that reads null and garbage as 0.
type Amount float64

// Float64 returns the amount as a float64.
func (a Amount) Float64() float64 { return float64(a) }

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(b []byte) error {
	*a = Amount(coerceFloat(decodeLoose(b)))
	return nil
}

// Scan implements sql.Scanner.
func (a *Amount) Scan(src any) error {
	*a = Amount(coerceFloat(src))
	return nil
}

// Value implements driver.Valuer.
func (a Amount) Value() (driver.Value, error) { return float64(a), nil }

// ParseCount coerces an arbitrary value into a Count.
func ParseCount(v any) Count { return Count(coerceInt(v)) }

// ParseAmount coerces an arbitrary value into an Amount.
func ParseAmount(v any) Amount { return Amount(coerceFloat(v)) }

func decodeLoose(b []byte) any {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	return v
}

func coerceInt(v any) int {
	switch t := v.(type) {
	case nil:
		return 0
	case int:
		return t
	case int32:
		return int(t)
	case int64:
		return int(t)
	case uint64:
		return int(t)
	case float32:
		return finiteInt(float64(t))
	case float64:
		return finiteInt(t)
	case Count:
		return int(t)
	case json.Number:
		return leadingInt(t.String())
	case []byte:
		return leadingInt(string(t))
	case string:
		return leadingInt(t)
	}
	return 0
}

func finiteInt(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}

// leadingInt mirrors parseInt: optional sign, then digits, rest ignored.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

func coerceFloat(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case float32:
		return finiteFloat(float64(t))
	case float64:
		return finiteFloat(t)
	case Amount:
		return float64(t)
	case []byte:
		return parseFloat(string(t))
	case string:
		return parseFloat(t)
	case json.Number:
		return parseFloat(t.String())
	}
	return 0
}

func finiteFloat(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return finiteFloat(f)
}

// String implements fmt.Stringer for log lines.
func (a Amount) String() string { return fmt.Sprintf("%.2f", float64(a)) }
