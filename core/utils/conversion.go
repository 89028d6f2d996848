package utils

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Dig walks a decoded JSON object along the given keys and returns the
// nested map, or nil when any step is missing or not an object.
func Dig(m map[string]any, keys ...string) map[string]any {
	for _, key := range keys {
		next, ok := m[key].(map[string]any)
		if !ok {
			return nil
		}
		m = next
	}
	return m
}

// ToString converts a payload value to string. Nil yields "".
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToStringPtr converts a payload value to *string, nil when absent or empty.
func ToStringPtr(val any) *string {
	s := ToString(val)
	if s == "" {
		return nil
	}
	return &s
}

// ToBoolPtr converts a payload value to *bool, nil when absent or not
// bool-shaped. Numeric 1 and the strings "1"/"true" count as true.
func ToBoolPtr(val any) *bool {
	var b bool
	switch v := val.(type) {
	case nil:
		return nil
	case bool:
		b = v
	case float64:
		b = v == 1
	case string:
		b = v == "1" || strings.EqualFold(v, "true")
	default:
		return nil
	}
	return &b
}

// ToIntPtr converts a payload value to *int, nil when absent or unparsable.
func ToIntPtr(val any) *int {
	switch v := val.(type) {
	case nil:
		return nil
	case float64:
		i := int(v)
		return &i
	case int:
		return &v
	case json.Number:
		if i, err := strconv.Atoi(v.String()); err == nil {
			return &i
		}
		return nil
	case string:
		if i, err := strconv.Atoi(v); err == nil {
			return &i
		}
		return nil
	default:
		return nil
	}
}

// ToDecimal converts a payload value to a NullDecimal. Decoders should use
// json.Number so the digits the source sent survive instead of a float
// approximation; the float64 branch is the fallback for plain decoding.
func ToDecimal(val any) decimal.NullDecimal {
	switch v := val.(type) {
	case nil:
		return decimal.NullDecimal{}
	case float64:
		return decimal.NullDecimal{Decimal: decimal.NewFromFloat(v), Valid: true}
	case json.Number:
		if d, err := decimal.NewFromString(v.String()); err == nil {
			return decimal.NullDecimal{Decimal: d, Valid: true}
		}
		return decimal.NullDecimal{}
	case string:
		if v == "" {
			return decimal.NullDecimal{}
		}
		if d, err := decimal.NewFromString(v); err == nil {
			return decimal.NullDecimal{Decimal: d, Valid: true}
		}
		return decimal.NullDecimal{}
	case int:
		return decimal.NullDecimal{Decimal: decimal.NewFromInt(int64(v)), Valid: true}
	case int64:
		return decimal.NullDecimal{Decimal: decimal.NewFromInt(v), Valid: true}
	default:
		return decimal.NullDecimal{}
	}
}
