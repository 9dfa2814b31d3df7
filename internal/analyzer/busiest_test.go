package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urbansense/trafficlens/internal/models"
)

func mkReadings(station string, start time.Time, step time.Duration, flows ...float64) []models.SensorReading {
	readings := make([]models.SensorReading, len(flows))
	for i, flow := range flows {
		readings[i] = models.SensorReading{
			StationID: station,
			Timestamp: start.Add(time.Duration(i) * step),
			Flow:      flow,
		}
	}
	return readings
}

func TestBusiestWindow_Empty(t *testing.T) {
	_, _, _, ok := BusiestWindow(nil, time.Hour)
	assert.False(t, ok)
}

func TestBusiestWindow_SingleReading(t *testing.T) {
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	readings := mkReadings("S001", start, 5*time.Minute, 42)

	winStart, total, samples, ok := BusiestWindow(readings, time.Hour)
	require.True(t, ok)
	assert.Equal(t, start, winStart)
	assert.Equal(t, 42.0, total)
	assert.Equal(t, 1, samples)
}

func TestBusiestWindow_FindsPeak(t *testing.T) {
	start := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	// 5-minute cadence, two hours of data, demand ramps up in the second hour
	flows := []float64{
		10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, // 07:00-07:55
		50, 50, 50, 50, 50, 50, 50, 50, 50, 50, 50, 50, // 08:00-08:55
	}
	readings := mkReadings("S001", start, 5*time.Minute, flows...)

	winStart, total, samples, ok := BusiestWindow(readings, time.Hour)
	require.True(t, ok)
	assert.Equal(t, start.Add(time.Hour), winStart)
	assert.Equal(t, 600.0, total)
	assert.Equal(t, 12, samples)
}

func TestBusiestWindow_ExclusiveEnd(t *testing.T) {
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	// a reading exactly one hour after a window start must not count
	readings := []models.SensorReading{
		{StationID: "S001", Timestamp: start, Flow: 10},
		{StationID: "S001", Timestamp: start.Add(30 * time.Minute), Flow: 10},
		{StationID: "S001", Timestamp: start.Add(time.Hour), Flow: 100},
	}

	winStart, total, samples, ok := BusiestWindow(readings, time.Hour)
	require.True(t, ok)
	assert.Equal(t, start.Add(time.Hour), winStart)
	assert.Equal(t, 100.0, total)
	assert.Equal(t, 1, samples)
}

func TestBusiestWindow_FirstSeenTieBreak(t *testing.T) {
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	// two disjoint windows with identical totals; the earlier start must win
	readings := []models.SensorReading{
		{StationID: "S001", Timestamp: start, Flow: 50},
		{StationID: "S001", Timestamp: start.Add(2 * time.Hour), Flow: 50},
	}

	winStart, total, _, ok := BusiestWindow(readings, time.Hour)
	require.True(t, ok)
	assert.Equal(t, start, winStart)
	assert.Equal(t, 50.0, total)
}

func TestBusiestWindow_CustomWindow(t *testing.T) {
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	readings := mkReadings("S001", start, 10*time.Minute, 10, 20, 30, 40)

	winStart, total, samples, ok := BusiestWindow(readings, 20*time.Minute)
	require.True(t, ok)
	assert.Equal(t, start.Add(20*time.Minute), winStart)
	assert.Equal(t, 70.0, total)
	assert.Equal(t, 2, samples)
}
