package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ts(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	assert.NoError(t, err)
	return parsed
}

func TestInterval_Validate(t *testing.T) {
	start := ts(t, "2025-06-01T10:00:00Z")

	t.Run("Valid", func(t *testing.T) {
		iv, err := NewInterval(start, start.Add(time.Hour))
		assert.NoError(t, err)
		assert.Equal(t, time.Hour, iv.Duration())
	})

	t.Run("StartEqualsEnd", func(t *testing.T) {
		_, err := NewInterval(start, start)
		assert.ErrorIs(t, err, ErrMalformedInterval)
	})

	t.Run("StartAfterEnd", func(t *testing.T) {
		_, err := NewInterval(start.Add(time.Hour), start)
		assert.ErrorIs(t, err, ErrMalformedInterval)
	})

	t.Run("ZeroTimestamps", func(t *testing.T) {
		assert.ErrorIs(t, Interval{}.Validate(), ErrMalformedInterval)
		assert.ErrorIs(t, Interval{Start: start}.Validate(), ErrMalformedInterval)
	})
}

func TestInterval_Overlaps(t *testing.T) {
	base := Interval{Start: ts(t, "2025-06-01T10:00:00Z"), End: ts(t, "2025-06-01T11:00:00Z")}

	cases := []struct {
		name     string
		other    Interval
		overlaps bool
	}{
		{"Identical", base, true},
		{"ContainedWithin", Interval{Start: base.Start.Add(10 * time.Minute), End: base.End.Add(-10 * time.Minute)}, true},
		{"OverlapsStart", Interval{Start: base.Start.Add(-30 * time.Minute), End: base.Start.Add(30 * time.Minute)}, true},
		{"OverlapsEnd", Interval{Start: base.End.Add(-30 * time.Minute), End: base.End.Add(30 * time.Minute)}, true},
		{"Covers", Interval{Start: base.Start.Add(-time.Hour), End: base.End.Add(time.Hour)}, true},
		{"TouchingBefore", Interval{Start: base.Start.Add(-time.Hour), End: base.Start}, false},
		{"TouchingAfter", Interval{Start: base.End, End: base.End.Add(time.Hour)}, false},
		{"WellBefore", Interval{Start: base.Start.Add(-3 * time.Hour), End: base.Start.Add(-2 * time.Hour)}, false},
		{"WellAfter", Interval{Start: base.End.Add(2 * time.Hour), End: base.End.Add(3 * time.Hour)}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overlaps, base.Overlaps(tc.other))
			// Overlap is symmetric.
			assert.Equal(t, tc.overlaps, tc.other.Overlaps(base))
		})
	}
}
