// Package coerce turns loosely typed input into the numbers and calendar
// dates the ledger computes with. Every function here is total: bad input
// degrades to a zero value instead of failing.
package coerce

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical calendar-date representation used for
// storage, export and display.
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// Float converts v to a finite float64. Numbers pass through, strings are
// parsed, and anything else (including "", NaN and Inf) becomes 0.
func Float(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		return finite(x)
	case float32:
		return finite(float64(x))
	case int:
		return float64(x)
	case int8:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint8:
		return float64(x)
	case uint16:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	case decimal.Decimal:
		f, _ := toFloat(x)
		return f
	case json.Number:
		f, _ := Parse(string(x))
		return f
	case string:
		f, _ := Parse(x)
		return f
	case []byte:
		f, _ := Parse(string(x))
		return f
	default:
		return 0
	}
}

// Parse is the checked form of Float for text. ok is false when s is empty
// or not a plain decimal number; f is 0 in that case.
func Parse(s string) (f float64, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	return toFloat(d)
}

// Decimal magnitudes outside these bounds overflow a float64 or round to
// zero. Checking them first keeps Float64 from expanding huge exponents.
const (
	maxMagnitude = 309
	minMagnitude = -325
)

// toFloat converts d to a float64 without materialising 10^exponent for
// values no float64 can hold. ok is false when d is too large.
func toFloat(d decimal.Decimal) (float64, bool) {
	if d.IsZero() {
		return 0, true
	}
	c := d.Coefficient()
	digits := int64(len(c.Abs(c).String()))
	magnitude := int64(d.Exponent()) + digits
	if magnitude > maxMagnitude {
		return 0, false
	}
	if magnitude < minMagnitude {
		return 0, true
	}
	f, _ := d.Float64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Finite maps NaN and ±Inf to 0 and leaves every other value alone.
func Finite(f float64) float64 {
	return finite(f)
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Date parses s as a calendar date. Timestamps are accepted and truncated
// to the day they name in their own offset. The result is midnight UTC.
func Date(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), true
		}
	}
	return time.Time{}, false
}

// DateOrZero is Date without the ok flag: unparsable text becomes the zero
// date, which sorts before every real date.
func DateOrZero(s string) time.Time {
	t, _ := Date(s)
	return t
}

// Day truncates t to its calendar date at midnight UTC.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
