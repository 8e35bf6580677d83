package timefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	fallback := time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local)

	got := Parse("20250615143000", fallback)
	assert.Equal(t, time.Date(2025, 6, 15, 14, 30, 0, 0, time.Local), got)

	// empty and malformed inputs degrade to the fallback
	assert.Equal(t, fallback, Parse("", fallback))
	assert.Equal(t, fallback, Parse("2025-06-15", fallback))
	assert.Equal(t, fallback, Parse("not a date", fallback))
}

func TestFormatRoundTrip(t *testing.T) {
	ts := time.Date(2025, 6, 15, 14, 30, 5, 0, time.Local)
	assert.Equal(t, "20250615143005", Format(ts))
	assert.Equal(t, ts, Parse(Format(ts), time.Time{}))
}

func TestWindowDefaults(t *testing.T) {
	ts := time.Date(2025, 6, 15, 14, 30, 5, 0, time.Local)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local), StartOfDay(ts))
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local), StartOfMonth(ts))
}
