package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urbansense/trafficlens/internal/models"
	"go.uber.org/zap"
)

// LoadStats accounts for rows kept versus rows dropped during a load step.
type LoadStats struct {
	Kept    int
	Dropped int
}

// Loader reads the raw CSV inputs into typed rows. Rows that fail to parse
// are dropped and counted rather than failing the whole load.
type Loader struct {
	logger *zap.Logger
}

func NewLoader(logger *zap.Logger) *Loader {
	return &Loader{logger: logger}
}

// ReadStations loads the station metadata CSV. Expected header:
// station_id,name,district,freeway,direction,lanes,latitude,longitude
func (l *Loader) ReadStations(path string) (map[string]*models.Station, LoadStats, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("opening stations file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("reading stations header: %w", err)
	}
	idx, err := columnIndex(header, "station_id", "name", "district", "freeway", "direction", "lanes", "latitude", "longitude")
	if err != nil {
		return nil, LoadStats{}, err
	}

	stations := make(map[string]*models.Station)
	var stats LoadStats
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// a ragged row is a bad row, not a bad file
			if errors.Is(err, csv.ErrFieldCount) {
				stats.Dropped++
				continue
			}
			return nil, stats, fmt.Errorf("reading stations row: %w", err)
		}

		lanes, laneErr := strconv.Atoi(strings.TrimSpace(fields[idx["lanes"]]))
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(fields[idx["latitude"]]), 64)
		lon, lonErr := strconv.ParseFloat(strings.TrimSpace(fields[idx["longitude"]]), 64)
		id := strings.TrimSpace(fields[idx["station_id"]])
		if id == "" || laneErr != nil || latErr != nil || lonErr != nil {
			stats.Dropped++
			continue
		}

		stations[id] = &models.Station{
			ID:        id,
			Name:      fields[idx["name"]],
			District:  fields[idx["district"]],
			Freeway:   fields[idx["freeway"]],
			Direction: fields[idx["direction"]],
			Lanes:     lanes,
			Latitude:  lat,
			Longitude: lon,
		}
		stats.Kept++
	}

	l.logger.Info("loaded stations",
		zap.String("path", path),
		zap.Int("kept", stats.Kept),
		zap.Int("dropped", stats.Dropped))
	return stations, stats, nil
}

// ReadReadings loads the sensor readings CSV. Expected header:
// timestamp,station_id,lanes,occupancy,speed,flow
// Timestamps are RFC3339 or "2006-01-02 15:04:05".
func (l *Loader) ReadReadings(path string) ([]models.SensorReading, LoadStats, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("opening readings file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("reading readings header: %w", err)
	}
	idx, err := columnIndex(header, "timestamp", "station_id", "lanes", "occupancy", "speed", "flow")
	if err != nil {
		return nil, LoadStats{}, err
	}

	var readings []models.SensorReading
	var stats LoadStats
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if errors.Is(err, csv.ErrFieldCount) {
				stats.Dropped++
				continue
			}
			return nil, stats, fmt.Errorf("reading readings row: %w", err)
		}

		ts, tsErr := parseTimestamp(strings.TrimSpace(fields[idx["timestamp"]]))
		lanes, laneErr := strconv.Atoi(strings.TrimSpace(fields[idx["lanes"]]))
		occ, occErr := strconv.ParseFloat(strings.TrimSpace(fields[idx["occupancy"]]), 64)
		speed, speedErr := strconv.ParseFloat(strings.TrimSpace(fields[idx["speed"]]), 64)
		flow, flowErr := strconv.ParseFloat(strings.TrimSpace(fields[idx["flow"]]), 64)
		id := strings.TrimSpace(fields[idx["station_id"]])
		if id == "" || tsErr != nil || laneErr != nil || occErr != nil || speedErr != nil || flowErr != nil {
			stats.Dropped++
			continue
		}

		readings = append(readings, models.SensorReading{
			StationID: id,
			Timestamp: ts,
			Lanes:     lanes,
			Occupancy: occ,
			Speed:     speed,
			Flow:      flow,
		})
		stats.Kept++
	}

	l.logger.Info("loaded readings",
		zap.String("path", path),
		zap.Int("kept", stats.Kept),
		zap.Int("dropped", stats.Dropped))
	return readings, stats, nil
}

// Join attaches station metadata to each reading. Readings whose station id
// has no metadata row are dropped and counted.
func (l *Loader) Join(readings []models.SensorReading, stations map[string]*models.Station) ([]models.SensorReading, LoadStats) {
	joined := readings[:0:0]
	var stats LoadStats
	for _, r := range readings {
		station, ok := stations[r.StationID]
		if !ok {
			stats.Dropped++
			continue
		}
		r.Station = station
		joined = append(joined, r)
		stats.Kept++
	}
	if stats.Dropped > 0 {
		l.logger.Warn("dropped readings with no station metadata", zap.Int("dropped", stats.Dropped))
	}
	return joined, stats
}

// Load runs the full load pipeline: readings, stations, join.
func (l *Loader) Load(readingsPath, stationsPath string) ([]models.SensorReading, error) {
	stations, _, err := l.ReadStations(stationsPath)
	if err != nil {
		return nil, err
	}
	readings, _, err := l.ReadReadings(readingsPath)
	if err != nil {
		return nil, err
	}
	joined, _ := l.Join(readings, stations)
	return joined, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02 15:04:05", s)
}

func columnIndex(header []string, required ...string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}
	return idx, nil
}
