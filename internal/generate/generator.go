package generate

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jaswdr/faker"
	"github.com/urbansense/trafficlens/internal/models"
	"github.com/urbansense/trafficlens/internal/regress"
	"go.uber.org/zap"
)

const (
	readingInterval = 5 * time.Minute
	freeFlowSpeed   = 65.0 // mph
	flowPerLane     = 40.0 // vehicles per interval per lane at full demand
)

// Generator synthesizes a sample dataset: station metadata, 5-minute sensor
// readings over a date range, and a flow model consistent with the generating
// process. Output is deterministic for a given seed.
type Generator struct {
	config *models.Config
	rng    *rand.Rand
	fake   faker.Faker
	logger *zap.Logger
}

func NewGenerator(config *models.Config, logger *zap.Logger) *Generator {
	seed := int64(config.Seed)
	return &Generator{
		config: config,
		rng:    rand.New(rand.NewSource(seed)),
		fake:   faker.NewWithSeed(rand.NewSource(seed)),
		logger: logger,
	}
}

// Stations creates the station metadata set, scattered around the configured
// city centre.
func (g *Generator) Stations() []models.Station {
	count := g.config.StationCount
	if count <= 0 {
		count = 10
	}
	radius := g.config.UrbanRadius
	if radius <= 0 {
		radius = 0.15 // degrees, roughly a metro area
	}

	directions := []string{"N", "S", "E", "W"}
	stations := make([]models.Station, count)
	for i := range stations {
		angle := g.rng.Float64() * 2 * math.Pi
		dist := g.rng.Float64() * radius
		stations[i] = models.Station{
			ID:        fmt.Sprintf("S%03d", i+1),
			Name:      g.fake.Address().StreetName(),
			District:  strconv.Itoa(g.rng.Intn(12) + 1),
			Freeway:   fmt.Sprintf("I-%d", []int{5, 10, 80, 90, 405}[g.rng.Intn(5)]),
			Direction: directions[g.rng.Intn(len(directions))],
			Lanes:     g.rng.Intn(4) + 2,
			Latitude:  g.config.CityLat + dist*math.Sin(angle),
			Longitude: g.config.CityLon + dist*math.Cos(angle),
		}
	}
	return stations
}

// Readings produces one reading per station per 5-minute interval between the
// configured start and end dates, with rush-hour and weekend demand patterns
// plus Gaussian noise.
func (g *Generator) Readings(stations []models.Station) []models.SensorReading {
	start := g.config.StartDate
	end := g.config.EndDate
	if end.Before(start) || end.Equal(start) {
		end = start.Add(24 * time.Hour)
	}

	var readings []models.SensorReading
	for ts := start; ts.Before(end); ts = ts.Add(readingInterval) {
		demand := demandFactor(ts)
		for _, station := range stations {
			d := demand * (0.85 + 0.3*g.rng.Float64())
			occupancy := clamp(d*0.6+g.gaussian(0, 0.02), 0, 1)
			speed := clamp(freeFlowSpeed*(1.0-0.55*d)+g.gaussian(0, 3), 5, 80)
			flow := math.Max(0, float64(station.Lanes)*flowPerLane*d+g.gaussian(0, 5))

			readings = append(readings, models.SensorReading{
				StationID: station.ID,
				Timestamp: ts,
				Lanes:     station.Lanes,
				Occupancy: round(occupancy, 4),
				Speed:     round(speed, 1),
				Flow:      round(flow, 0),
			})
		}
	}
	return readings
}

// Model returns a flow model aligned with the generating process: flow rises
// with occupancy and lane count, falls with speed, with a mild hour term.
func (g *Generator) Model() *regress.Model {
	return &regress.Model{
		Version:      "synthetic-v1",
		Features:     []string{"occupancy", "speed", "lanes", "hour"},
		Coefficients: []float64{38.5, -12.2, 31.0, 1.4},
		Intercept:    95.0,
		Means:        []float64{0.35, 48.0, 3.5, 11.5},
		Scales:       []float64{0.18, 11.0, 1.1, 6.9},
	}
}

// Run writes stations.csv, readings.csv and model.json into dir.
func (g *Generator) Run(dir string) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	stations := g.Stations()
	readings := g.Readings(stations)

	if err := writeStationsCSV(filepath.Join(dir, "stations.csv"), stations); err != nil {
		return err
	}
	if err := writeReadingsCSV(filepath.Join(dir, "readings.csv"), readings); err != nil {
		return err
	}
	if err := g.Model().Save(filepath.Join(dir, "model.json")); err != nil {
		return fmt.Errorf("writing model file: %w", err)
	}

	g.logger.Info("generated sample dataset",
		zap.String("dir", dir),
		zap.Int("stations", len(stations)),
		zap.Int("readings", len(readings)))
	return nil
}

// demandFactor models time-of-day demand: morning and evening peaks on
// weekdays, a flatter midday curve at weekends, quiet nights.
func demandFactor(t time.Time) float64 {
	hour := float64(t.Hour()) + float64(t.Minute())/60.0
	weekday := t.Weekday()

	demand := 0.15
	if weekday == time.Saturday || weekday == time.Sunday {
		// single broad midday peak
		demand += 0.45 * math.Exp(-math.Pow(hour-13.0, 2)/18.0)
	} else {
		demand += 0.65 * math.Exp(-math.Pow(hour-8.0, 2)/3.0)
		demand += 0.75 * math.Exp(-math.Pow(hour-17.5, 2)/4.5)
	}
	return clamp(demand, 0, 1)
}

// gaussian draws from N(mean, std) via the Box-Muller transform.
func (g *Generator) gaussian(mean, std float64) float64 {
	u1 := g.rng.Float64()
	u2 := g.rng.Float64()
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mean + z*std
}

func clamp(v, min, max float64) float64 {
	return math.Max(min, math.Min(max, v))
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

func writeStationsCSV(path string, stations []models.Station) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"station_id", "name", "district", "freeway", "direction", "lanes", "latitude", "longitude"}); err != nil {
		return err
	}
	for _, s := range stations {
		record := []string{
			s.ID, s.Name, s.District, s.Freeway, s.Direction,
			strconv.Itoa(s.Lanes),
			strconv.FormatFloat(s.Latitude, 'f', 5, 64),
			strconv.FormatFloat(s.Longitude, 'f', 5, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeReadingsCSV(path string, readings []models.SensorReading) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"timestamp", "station_id", "lanes", "occupancy", "speed", "flow"}); err != nil {
		return err
	}
	for _, r := range readings {
		record := []string{
			r.Timestamp.Format(time.RFC3339),
			r.StationID,
			strconv.Itoa(r.Lanes),
			strconv.FormatFloat(r.Occupancy, 'f', 4, 64),
			strconv.FormatFloat(r.Speed, 'f', 1, 64),
			strconv.FormatFloat(r.Flow, 'f', 0, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
