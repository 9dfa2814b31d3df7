package analyzer

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urbansense/trafficlens/internal/models"
	"go.uber.org/zap/zaptest"
)

func writeTestDataset(t *testing.T, dir string) (readingsPath, stationsPath string) {
	t.Helper()

	stationsPath = filepath.Join(dir, "stations.csv")
	sf, err := os.Create(stationsPath)
	require.NoError(t, err)
	sw := csv.NewWriter(sf)
	require.NoError(t, sw.Write([]string{"station_id", "name", "district", "freeway", "direction", "lanes", "latitude", "longitude"}))
	require.NoError(t, sw.Write([]string{"S001", "Main St", "7", "I-5", "N", "4", "37.771", "-122.41"}))
	require.NoError(t, sw.Write([]string{"S002", "Oak Ave", "7", "I-5", "S", "3", "37.769", "-122.408"}))
	sw.Flush()
	require.NoError(t, sw.Error())
	require.NoError(t, sf.Close())

	readingsPath = filepath.Join(dir, "readings.csv")
	rf, err := os.Create(readingsPath)
	require.NoError(t, err)
	rw := csv.NewWriter(rf)
	require.NoError(t, rw.Write([]string{"timestamp", "station_id", "lanes", "occupancy", "speed", "flow"}))

	// two stations, two days, 5-minute cadence over 04:00-20:00 with an
	// afternoon peak at 17:00
	for day := 2; day <= 3; day++ {
		for _, station := range []string{"S001", "S002"} {
			start := time.Date(2026, 3, day, 4, 0, 0, 0, time.UTC)
			for ts := start; ts.Hour() < 20; ts = ts.Add(5 * time.Minute) {
				flow := 40.0
				if ts.Hour() == 17 {
					flow = 200.0
				}
				require.NoError(t, rw.Write([]string{
					ts.Format(time.RFC3339), station, "4", "0.3", "55.0",
					strconv.FormatFloat(flow, 'f', 0, 64),
				}))
			}
		}
	}
	rw.Flush()
	require.NoError(t, rw.Error())
	require.NoError(t, rf.Close())
	return readingsPath, stationsPath
}

func TestAnalyzer_Run(t *testing.T) {
	dir := t.TempDir()
	readingsPath, stationsPath := writeTestDataset(t, dir)

	cfg := &models.Config{
		ReadingsFile:  readingsPath,
		StationsFile:  stationsPath,
		Workers:       4,
		WindowMinutes: 60,
	}
	a := NewAnalyzer(cfg, zaptest.NewLogger(t))

	results, groups, err := a.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.Len(t, groups, 4)

	// deterministic order: station then day
	var order []string
	for _, r := range results {
		order = append(order, fmt.Sprintf("%s/%s", r.StationID, r.Day))
	}
	assert.Equal(t, []string{
		"S001/2026-03-02", "S001/2026-03-03",
		"S002/2026-03-02", "S002/2026-03-03",
	}, order)

	for _, r := range results {
		assert.Equal(t, 17, r.WindowStart.Hour(), "busiest window should start in the 17:00 peak")
		assert.Equal(t, r.WindowStart.Add(time.Hour), r.WindowEnd)
		assert.Equal(t, 12, r.SampleCount)
		assert.Equal(t, 200.0*12, r.TotalFlow)
		assert.Equal(t, a.RunID(), r.RunID)
	}
}

func TestAnalyzer_RunSequentialAgrees(t *testing.T) {
	dir := t.TempDir()
	readingsPath, stationsPath := writeTestDataset(t, dir)

	parallelCfg := &models.Config{ReadingsFile: readingsPath, StationsFile: stationsPath, Workers: 8}
	sequentialCfg := &models.Config{ReadingsFile: readingsPath, StationsFile: stationsPath, Workers: 1}

	parallelResults, _, err := NewAnalyzer(parallelCfg, zaptest.NewLogger(t)).Run(context.Background())
	require.NoError(t, err)
	sequentialResults, _, err := NewAnalyzer(sequentialCfg, zaptest.NewLogger(t)).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, parallelResults, len(sequentialResults))
	for i := range parallelResults {
		parallelResults[i].RunID = ""
		sequentialResults[i].RunID = ""
	}
	assert.Equal(t, sequentialResults, parallelResults)
}

func TestAnalyzer_EmptyDataset(t *testing.T) {
	dir := t.TempDir()

	stationsPath := filepath.Join(dir, "stations.csv")
	require.NoError(t, os.WriteFile(stationsPath,
		[]byte("station_id,name,district,freeway,direction,lanes,latitude,longitude\n"), 0644))
	readingsPath := filepath.Join(dir, "readings.csv")
	require.NoError(t, os.WriteFile(readingsPath,
		[]byte("timestamp,station_id,lanes,occupancy,speed,flow\n"), 0644))

	cfg := &models.Config{ReadingsFile: readingsPath, StationsFile: stationsPath}
	_, _, err := NewAnalyzer(cfg, zaptest.NewLogger(t)).Run(context.Background())
	assert.ErrorContains(t, err, "no usable readings")
}
