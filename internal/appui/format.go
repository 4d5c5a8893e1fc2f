package appui

import (
	"fmt"
	"strconv"
	"time"
)

// noValue is shown for fields the provider did not populate.
const noValue = "N/A"

// AsPercent renders a percentage with two decimals, e.g. "1.25%".
func AsPercent(value *float64) string {
	if value == nil {
		return noValue
	}
	return fmt.Sprintf("%.2f%%", *value)
}

// AsFloat renders a float with the given number of decimal places.
func AsFloat(value *float64, precision int) string {
	if value == nil {
		return noValue
	}
	if precision < 0 {
		precision = 0
	}
	return strconv.FormatFloat(*value, 'f', precision, 64)
}

// AsDate renders a date as "2006-01-02", or the placeholder for a zero
// time.
func AsDate(t time.Time) string {
	if t.IsZero() {
		return noValue
	}
	return t.Format("2006-01-02")
}

// AsDatetime renders a timestamp as "2006-01-02 15:04", or the placeholder
// for a zero time.
func AsDatetime(t time.Time) string {
	if t.IsZero() {
		return noValue
	}
	return t.Format("2006-01-02 15:04")
}

// AsCompactInt renders an integer scaled down with a magnitude suffix,
// e.g. 1500 becomes "1.50K".
func AsCompactInt(value *int64) string {
	if value == nil {
		return noValue
	}
	v := *value
	switch {
	case v < 1_000:
		return strconv.FormatInt(v, 10)
	case v < 1_000_000:
		return fmt.Sprintf("%.2fK", float64(v)/1_000)
	case v < 1_000_000_000:
		return fmt.Sprintf("%.2fM", float64(v)/1_000_000)
	case v < 1_000_000_000_000:
		return fmt.Sprintf("%.2fB", float64(v)/1_000_000_000)
	default:
		return fmt.Sprintf("%.2fT", float64(v)/1_000_000_000_000)
	}
}
