package regress

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urbansense/trafficlens/internal/models"
)

func validModel() *Model {
	return &Model{
		Version:      "test-v1",
		Features:     []string{"occupancy", "speed", "lanes", "hour"},
		Coefficients: []float64{2.0, -0.5, 10.0, 0.1},
		Intercept:    100.0,
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")

	original := validModel()
	require.NoError(t, original.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoad_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	m := validModel()
	assert.NoError(t, m.Validate())

	m.Coefficients = m.Coefficients[:2]
	assert.Error(t, m.Validate())

	m = validModel()
	m.Features = nil
	m.Coefficients = nil
	assert.Error(t, m.Validate())

	m = validModel()
	m.Means = []float64{1, 2}
	assert.Error(t, m.Validate())

	m = validModel()
	m.Scales = []float64{1, 1, 0, 1}
	assert.Error(t, m.Validate())
}

func TestPredict_RawFeatures(t *testing.T) {
	m := validModel()
	got := m.Predict(map[string]float64{
		"occupancy": 0.5,
		"speed":     60,
		"lanes":     3,
		"hour":      8,
	})
	// 100 + 2*0.5 - 0.5*60 + 10*3 + 0.1*8
	assert.InDelta(t, 101.8, got, 1e-12)
}

func TestPredict_Standardized(t *testing.T) {
	m := &Model{
		Version:      "std-v1",
		Features:     []string{"occupancy", "speed"},
		Coefficients: []float64{3.0, -2.0},
		Intercept:    50.0,
		Means:        []float64{0.4, 50.0},
		Scales:       []float64{0.2, 10.0},
	}
	got := m.Predict(map[string]float64{"occupancy": 0.6, "speed": 40})
	// 50 + 3*((0.6-0.4)/0.2) - 2*((40-50)/10) = 50 + 3 + 2
	assert.InDelta(t, 55.0, got, 1e-12)
}

func TestPredict_MissingFeatureUsesMean(t *testing.T) {
	m := &Model{
		Version:      "std-v1",
		Features:     []string{"occupancy", "speed"},
		Coefficients: []float64{3.0, -2.0},
		Intercept:    50.0,
		Means:        []float64{0.4, 50.0},
		Scales:       []float64{0.2, 10.0},
	}
	// missing speed standardizes to zero, contributing nothing
	got := m.Predict(map[string]float64{"occupancy": 0.4})
	assert.InDelta(t, 50.0, got, 1e-12)
}

func TestFeatureVector(t *testing.T) {
	r := models.SensorReading{
		StationID: "S001",
		Timestamp: time.Date(2026, 3, 2, 17, 35, 0, 0, time.UTC),
		Lanes:     4,
		Occupancy: 0.31,
		Speed:     52.5,
		Flow:      130,
	}
	features := FeatureVector(r)
	assert.Equal(t, 0.31, features["occupancy"])
	assert.Equal(t, 52.5, features["speed"])
	assert.Equal(t, 4.0, features["lanes"])
	assert.Equal(t, 17.0, features["hour"])
}
