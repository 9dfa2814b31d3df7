package charts

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urbansense/trafficlens/internal/models"
	"go.uber.org/zap/zaptest"
)

func TestFlowSeries(t *testing.T) {
	dir := t.TempDir()
	renderer, err := NewRenderer(dir, zaptest.NewLogger(t))
	require.NoError(t, err)

	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	var readings []models.SensorReading
	for i := 0; i < 48; i++ {
		readings = append(readings, models.SensorReading{
			StationID: "S001",
			Timestamp: start.Add(time.Duration(i) * 5 * time.Minute),
			Flow:      float64(40 + i),
		})
	}
	result := models.BusiestHour{
		StationID:   "S001",
		Day:         "2026-03-02",
		WindowStart: start.Add(3 * time.Hour),
		WindowEnd:   start.Add(4 * time.Hour),
		TotalFlow:   1000,
		SampleCount: 12,
	}

	path, err := renderer.FlowSeries(readings, result)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "busiest_S001_2026-03-02.png"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestFlowSeriesTitle(t *testing.T) {
	assert.Equal(t, "Station S001 - 2026-03-02", flowSeriesTitle("S001", "2026-03-02"))
}

func TestPredictedVsActual(t *testing.T) {
	dir := t.TempDir()
	renderer, err := NewRenderer(dir, zaptest.NewLogger(t))
	require.NoError(t, err)

	var predictions []models.Prediction
	for i := 0; i < 500; i++ {
		predictions = append(predictions, models.Prediction{
			ActualFlow:    float64(i),
			PredictedFlow: float64(i) * 1.05,
		})
	}

	path, err := renderer.PredictedVsActual(predictions, 100)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
