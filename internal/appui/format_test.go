package appui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }

func TestAsPercent(t *testing.T) {
	assert.Equal(t, "1.25%", AsPercent(f64(1.25)))
	assert.Equal(t, "-0.50%", AsPercent(f64(-0.5)))
	assert.Equal(t, "0.00%", AsPercent(f64(0)))
	assert.Equal(t, "N/A", AsPercent(nil))
}

func TestAsFloat(t *testing.T) {
	assert.Equal(t, "185.92", AsFloat(f64(185.92), 2))
	assert.Equal(t, "185.9200", AsFloat(f64(185.92), 4))
	assert.Equal(t, "186", AsFloat(f64(185.92), 0))
	assert.Equal(t, "3", AsFloat(f64(3.4), -1))
	assert.Equal(t, "N/A", AsFloat(nil, 2))
}

func TestAsDateAndDatetime(t *testing.T) {
	when := time.Date(2024, 1, 3, 16, 0, 30, 0, time.UTC)
	assert.Equal(t, "2024-01-03", AsDate(when))
	assert.Equal(t, "2024-01-03 16:00", AsDatetime(when))
	assert.Equal(t, "N/A", AsDate(time.Time{}))
	assert.Equal(t, "N/A", AsDatetime(time.Time{}))
}

func TestAsCompactInt(t *testing.T) {
	tests := []struct {
		value *int64
		want  string
	}{
		{nil, "N/A"},
		{i64(0), "0"},
		{i64(999), "999"},
		{i64(1_500), "1.50K"},
		{i64(999_999), "1000.00K"},
		{i64(1_000_000), "1.00M"},
		{i64(2_345_678), "2.35M"},
		{i64(1_000_000_000), "1.00B"},
		{i64(1_230_000_000_000), "1.23T"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AsCompactInt(tt.value))
	}
}
