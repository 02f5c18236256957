// Package core provides the domain model shared by the scheduling and
// aggregation engine.
//
// This file contains the Money type and the parser that turns user-entered
// decimal strings into integer minor units.
package core

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in integer minor units of the user's currency. Integer
// arithmetic keeps every aggregate exact.
type Money struct {
	Minor int64
}

// MinorUnits maps supported currency codes to their number of decimal places.
var MinorUnits = map[string]int{
	"UZS": 0,
	"USD": 2,
	"EUR": 2,
}

// NewMoney wraps a minor-unit amount.
func NewMoney(minor int64) Money { return Money{Minor: minor} }

func (m Money) Validate() error {
	if m.Minor <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Add(o Money) Money { return Money{Minor: m.Minor + o.Minor} }

func (m Money) Sub(o Money) Money { return Money{Minor: m.Minor - o.Minor} }

func (m Money) IsZero() bool { return m.Minor == 0 }

func (m Money) IsPositive() bool { return m.Minor > 0 }

// Decimal returns the amount as a decimal in minor units, for ratio math.
func (m Money) Decimal() decimal.Decimal { return decimal.NewFromInt(m.Minor) }

// String renders the raw minor-unit integer. Locale formatting belongs to the
// presentation layer.
func (m Money) String() string { return strconv.FormatInt(m.Minor, 10) }

// MarshalJSON encodes Money as a bare integer.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(m.Minor, 10)), nil
}

// UnmarshalJSON decodes a bare integer.
func (m *Money) UnmarshalJSON(b []byte) error {
	var v int64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("decode money: %w", err)
	}
	m.Minor = v
	return nil
}

// MoneyFromDecimal truncates a decimal minor-unit value toward zero.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{Minor: d.Truncate(0).IntPart()}
}

// ParseDecimalToMinor converts a decimal string to minor units with
// half-up rounding on the first dropped digit.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and ignores
// spaces used as thousands separators. Negative, zero and malformed values
// return ErrInvalidAmount.
//
// Examples (decimals = 2):
//
//	ParseDecimalToMinor("12.34", 2) -> 1234
//	ParseDecimalToMinor("12,345", 2) -> 1235
//
// Examples (decimals = 0):
//
//	ParseDecimalToMinor("850 000", 0) -> 850000
//	ParseDecimalToMinor("99.5", 0) -> 100
func ParseDecimalToMinor(s string, decimals int) (Money, error) {
	if decimals < 0 || decimals > 6 {
		return Money{}, fmt.Errorf("unsupported number of decimals: %d", decimals)
	}
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Money{}, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if r < '0' || r > '9' {
			return Money{}, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	scale := int64(1)
	for i := 0; i < decimals; i++ {
		scale *= 10
	}
	if iv > (1<<63-1)/scale-1 {
		return Money{}, ErrInvalidAmount
	}
	var frac int64
	for i := 0; i < decimals; i++ {
		frac *= 10
		if i < len(fracPart) {
			frac += int64(fracPart[i] - '0')
		}
	}
	if len(fracPart) > decimals && fracPart[decimals] >= '5' {
		frac++
	}
	minor := iv*scale + frac
	if minor <= 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Minor: minor}, nil
}
