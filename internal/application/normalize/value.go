// Package normalize converts loosely typed stored documents into canonical entities.
// Every function here is pure, never panics and is idempotent: feeding the DTO of a
// normalized value back in yields the same value.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// dateValuer is implemented by store timestamp wrappers exposing toDate().
type dateValuer interface {
	ToDate() time.Time
}

// asTimer is implemented by protobuf style timestamps.
type asTimer interface {
	AsTime() time.Time
}

var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Time coerces v into a UTC instant. Unknown shapes, zero values and parse failures yield now.
func Time(v any, now time.Time) time.Time {
	t, ok := TimeOK(v)
	if !ok {
		return now.UTC()
	}
	return t
}

// TimeOK is Time without the fallback.
func TimeOK(v any) (time.Time, bool) {
	var t time.Time
	switch x := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		t = x
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		t = *x
	case dateValuer:
		t = x.ToDate()
	case asTimer:
		t = x.AsTime()
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range layouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				t = parsed
				break
			}
		}
		if t.IsZero() {
			if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
				t = time.UnixMilli(ms)
			}
		}
	case map[string]any:
		secs, okS := firstNumber(x, "_seconds", "seconds")
		if !okS {
			return time.Time{}, false
		}
		nanos, _ := firstNumber(x, "_nanoseconds", "nanos", "nanoseconds")
		t = time.Unix(secs.IntPart(), nanos.IntPart())
	default:
		n, ok := number(v)
		if !ok {
			return time.Time{}, false
		}
		t = time.UnixMilli(n.IntPart())
	}
	if t.IsZero() {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// OptionalTime returns nil for missing or unparseable values.
func OptionalTime(v any) *time.Time {
	t, ok := TimeOK(v)
	if !ok {
		return nil
	}
	return &t
}

// Number coerces v into a finite decimal; anything else yields 0.
func Number(v any) decimal.Decimal {
	n, _ := number(v)
	return n
}

func number(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, true
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero, false
		}
		return *x, true
	case float64:
		return fromFloat(x)
	case float32:
		return fromFloat(float64(x))
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int32:
		return decimal.NewFromInt(int64(x)), true
	case int64:
		return decimal.NewFromInt(x), true
	case uint:
		return decimal.NewFromUint64(uint64(x)), true
	case uint32:
		return decimal.NewFromUint64(uint64(x)), true
	case uint64:
		return decimal.NewFromUint64(x), true
	case json.Number:
		return fromString(x.String())
	case string:
		return fromString(x)
	}
	return decimal.Zero, false
}

func fromFloat(f float64) (decimal.Decimal, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(f), true
}

func fromString(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	s = strings.TrimSpace(strings.TrimPrefix(s, "₹"))
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func firstNumber(m map[string]any, keys ...string) (decimal.Decimal, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if n, ok := number(v); ok {
				return n, true
			}
		}
	}
	return decimal.Zero, false
}

// Int coerces v into an int, truncating fractions.
func Int(v any) int {
	return int(Number(v).IntPart())
}

// String returns strings trimmed, numbers formatted, everything else empty.
func String(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case json.Number:
		return x.String()
	case float64, float32, int, int64, int32:
		return Number(x).String()
	}
	return ""
}

// Strings accepts []string, []any and comma-separated strings, dropping blanks.
func Strings(v any) []string {
	var raw []string
	switch x := v.(type) {
	case []string:
		raw = x
	case []any:
		for _, e := range x {
			raw = append(raw, String(e))
		}
	case string:
		raw = strings.Split(x, ",")
	}
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Object returns v as a map when it is one.
func Object(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// DateBound parses an optional filter bound. A date-only upper bound covers the whole day.
// ok is false only when s is non-empty and unparseable.
func DateBound(s string, upper bool) (t *time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	parsed, ok := TimeOK(s)
	if !ok {
		return nil, false
	}
	if upper && len(s) == len("2006-01-02") {
		parsed = parsed.Add(24*time.Hour - time.Microsecond)
	}
	return &parsed, true
}
