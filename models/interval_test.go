package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestIntervalOverlaps(t *testing.T) {
	base := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	iv := func(startMin, endMin int) Interval {
		return Interval{
			Start: base.Add(time.Duration(startMin) * time.Minute),
			End:   base.Add(time.Duration(endMin) * time.Minute),
		}
	}

	a := iv(0, 60)

	assert.True(t, a.Overlaps(iv(30, 90)), "partial overlap")
	assert.True(t, a.Overlaps(iv(-30, 30)), "partial overlap from the left")
	assert.True(t, a.Overlaps(iv(10, 50)), "containment")
	assert.True(t, a.Overlaps(iv(-10, 70)), "being contained")
	assert.True(t, a.Overlaps(a), "self")

	// Half-open semantics: touching at a boundary is not a conflict.
	assert.False(t, a.Overlaps(iv(60, 120)), "slot starting exactly at end")
	assert.False(t, a.Overlaps(iv(-60, 0)), "slot ending exactly at start")
	assert.False(t, a.Overlaps(iv(120, 180)), "disjoint")
}

func TestIntervalContains(t *testing.T) {
	start := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	iv := Interval{Start: start, End: start.Add(time.Hour)}

	assert.True(t, iv.Contains(start), "start is inclusive")
	assert.True(t, iv.Contains(start.Add(30*time.Minute)))
	assert.False(t, iv.Contains(start.Add(time.Hour)), "end is exclusive")
	assert.False(t, iv.Contains(start.Add(-time.Minute)))
}

func TestClockTimeParse(t *testing.T) {
	hour, minute, err := ClockTime("09:30").Parse()
	require.NoError(t, err)
	assert.Equal(t, 9, hour)
	assert.Equal(t, 30, minute)

	for _, invalid := range []ClockTime{"", "9am", "24:00", "12:60", "banana", "09:30abc", "9:5", "09:30:00"} {
		_, _, err := invalid.Parse()
		assert.Error(t, err, "expected error for %q", invalid)
	}
}

func TestClockTimeOnAnchorsInLocation(t *testing.T) {
	berlin := mustLoc(t, "Europe/Berlin")
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, berlin)

	got, err := ClockTime("09:00").On(date, berlin)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 6, 2, 9, 0, 0, 0, berlin), got)
	// June in Berlin is CEST (UTC+2): 09:00 local is 07:00 UTC.
	assert.Equal(t, time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC), got.UTC())
}

func TestClockIntervalOn(t *testing.T) {
	berlin := mustLoc(t, "Europe/Berlin")
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, berlin)

	iv, err := ClockInterval{Start: "12:00", End: "13:00"}.On(date, berlin)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, iv.Duration())
	assert.Equal(t, 12, iv.Start.Hour())
}
