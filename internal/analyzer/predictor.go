package analyzer

import (
	"context"
	"fmt"
	"math"

	"github.com/lucsky/cuid"
	"github.com/schollz/progressbar/v3"
	"github.com/urbansense/trafficlens/internal/dataset"
	"github.com/urbansense/trafficlens/internal/models"
	"github.com/urbansense/trafficlens/internal/parallel"
	"github.com/urbansense/trafficlens/internal/regress"
	"go.uber.org/zap"
)

// Predictor scores every reading with the loaded flow model across a worker
// pool. Row computations are independent and side-effect free, which is what
// makes the parallel fan-out safe and the sequential comparison meaningful.
type Predictor struct {
	config *models.Config
	loader *dataset.Loader
	model  *regress.Model
	logger *zap.Logger
	runID  string

	// Progress reporting is on by default and switched off in tests.
	ShowProgress bool
}

func NewPredictor(config *models.Config, model *regress.Model, logger *zap.Logger) *Predictor {
	return &Predictor{
		config:       config,
		loader:       dataset.NewLoader(logger),
		model:        model,
		logger:       logger,
		runID:        cuid.New(),
		ShowProgress: true,
	}
}

func (p *Predictor) RunID() string { return p.runID }

// Run loads and joins the dataset and computes a prediction per reading.
func (p *Predictor) Run(ctx context.Context) ([]models.Prediction, error) {
	readings, err := p.loader.Load(p.config.ReadingsFile, p.config.StationsFile)
	if err != nil {
		return nil, err
	}
	return p.Score(ctx, readings, parallel.DefaultWorkers(p.config.Workers))
}

// Score computes predictions for the given readings with the given worker
// count. out[i] corresponds to readings[i].
func (p *Predictor) Score(ctx context.Context, readings []models.SensorReading, workers int) ([]models.Prediction, error) {
	p.logger.Info("scoring readings",
		zap.Int("rows", len(readings)),
		zap.Int("workers", workers),
		zap.String("model_version", p.model.Version))

	var bar *progressbar.ProgressBar
	if p.ShowProgress {
		bar = progressbar.Default(int64(len(readings)), "scoring")
	}

	return parallel.Map(ctx, workers, readings, func(_ context.Context, r models.SensorReading) (models.Prediction, error) {
		predicted := p.model.Predict(regress.FeatureVector(r))
		if bar != nil {
			_ = bar.Add(1)
		}
		return models.Prediction{
			RunID:         p.runID,
			StationID:     r.StationID,
			Timestamp:     r.Timestamp,
			ActualFlow:    r.Flow,
			PredictedFlow: predicted,
			ModelVersion:  p.model.Version,
		}, nil
	})
}

// Verify recomputes the predictions sequentially and checks that every
// parallel result matches within the configured floating tolerance. This is
// the one property the pipeline asserts about its own concurrency.
func (p *Predictor) Verify(ctx context.Context, readings []models.SensorReading, parallelResults []models.Prediction) error {
	if len(parallelResults) != len(readings) {
		return fmt.Errorf("have %d predictions for %d readings", len(parallelResults), len(readings))
	}

	showProgress := p.ShowProgress
	p.ShowProgress = false
	sequential, err := p.Score(ctx, readings, 1)
	p.ShowProgress = showProgress
	if err != nil {
		return fmt.Errorf("sequential pass failed: %w", err)
	}

	tolerance := p.config.FloatTolerance
	if tolerance <= 0 {
		tolerance = 1e-9
	}
	for i := range sequential {
		if math.Abs(sequential[i].PredictedFlow-parallelResults[i].PredictedFlow) > tolerance {
			return fmt.Errorf("prediction mismatch at row %d (station %s at %s): sequential %g, parallel %g",
				i, readings[i].StationID, readings[i].Timestamp, sequential[i].PredictedFlow, parallelResults[i].PredictedFlow)
		}
	}

	p.logger.Info("parallel predictions match sequential baseline",
		zap.Int("rows", len(sequential)),
		zap.Float64("tolerance", tolerance))
	return nil
}
