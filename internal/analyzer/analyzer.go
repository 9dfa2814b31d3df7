package analyzer

import (
	"context"
	"fmt"

	"github.com/lucsky/cuid"
	"github.com/urbansense/trafficlens/internal/dataset"
	"github.com/urbansense/trafficlens/internal/models"
	"github.com/urbansense/trafficlens/internal/parallel"
	"go.uber.org/zap"
)

// Analyzer runs the grouped busiest-hour reduction over the dataset.
type Analyzer struct {
	config *models.Config
	loader *dataset.Loader
	logger *zap.Logger
	runID  string
}

func NewAnalyzer(config *models.Config, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		config: config,
		loader: dataset.NewLoader(logger),
		logger: logger,
		runID:  cuid.New(),
	}
}

// RunID identifies this analysis run in emitted records and artifact names.
func (a *Analyzer) RunID() string { return a.runID }

// Run loads and joins the dataset, groups it by sensor-day and reduces every
// group to its busiest window. Groups are reduced in parallel when more than
// one worker is configured; output order is deterministic either way.
func (a *Analyzer) Run(ctx context.Context) ([]models.BusiestHour, map[dataset.GroupKey][]models.SensorReading, error) {
	readings, err := a.loader.Load(a.config.ReadingsFile, a.config.StationsFile)
	if err != nil {
		return nil, nil, err
	}
	if len(readings) == 0 {
		return nil, nil, fmt.Errorf("no usable readings in %s", a.config.ReadingsFile)
	}

	groups := dataset.GroupByStationDay(readings)
	keys := dataset.SortedKeys(groups)
	window := a.config.Window()
	workers := parallel.DefaultWorkers(a.config.Workers)

	a.logger.Info("reducing sensor-day groups",
		zap.Int("groups", len(keys)),
		zap.Int("workers", workers),
		zap.Duration("window", window))

	results, err := parallel.Map(ctx, workers, keys, func(_ context.Context, key dataset.GroupKey) (models.BusiestHour, error) {
		start, total, samples, ok := BusiestWindow(groups[key], window)
		if !ok {
			// groups are built from existing readings, so this cannot happen
			return models.BusiestHour{}, fmt.Errorf("empty group %s/%s", key.StationID, key.Day)
		}
		return models.BusiestHour{
			RunID:       a.runID,
			StationID:   key.StationID,
			Day:         key.Day,
			WindowStart: start,
			WindowEnd:   start.Add(window),
			TotalFlow:   total,
			SampleCount: samples,
		}, nil
	})
	if err != nil {
		return nil, nil, err
	}

	return results, groups, nil
}
