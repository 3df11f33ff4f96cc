package sageapi

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Number is a decimal value that tolerates the formats the backend emits:
// JSON numbers, strings with thousands separators ("1,234.50") and empty
// strings or null for missing values.
type Number struct {
	Decimal decimal.Decimal
	Valid   bool
}

// NewNumber parses s the same way UnmarshalJSON parses a JSON string.
func NewNumber(s string) (Number, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || s == "-" {
		return Number{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Number{}, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return Number{Decimal: d, Valid: true}, nil
}

// MustNumber is like NewNumber but panics on error. Intended for tests and
// package-level values.
func MustNumber(s string) Number {
	n, err := NewNumber(s)
	if err != nil {
		panic(err)
	}
	return n
}

// NumberFromFloat wraps f as a valid Number.
func NumberFromFloat(f float64) Number {
	return Number{Decimal: decimal.NewFromFloat(f), Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*n = Number{}
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := NewNumber(s)
		if err != nil {
			return err
		}
		*n = parsed
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("invalid number %s: %w", raw, err)
	}
	*n = Number{Decimal: d, Valid: true}
	return nil
}

// MarshalJSON implements json.Marshaler. Missing values encode as null.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(n.Decimal.String()), nil
}

// Float64 returns the value as a float64; missing values are 0.
func (n Number) Float64() float64 {
	f, _ := n.Decimal.Float64()
	return f
}

// String returns the plain decimal representation or "-" when missing.
func (n Number) String() string {
	if !n.Valid {
		return "-"
	}
	return n.Decimal.String()
}
