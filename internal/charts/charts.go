package charts

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/urbansense/trafficlens/internal/models"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Renderer writes analysis charts as PNG files under dir.
type Renderer struct {
	dir    string
	logger *zap.Logger
}

func NewRenderer(dir string, logger *zap.Logger) (*Renderer, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("creating chart directory: %w", err)
	}
	return &Renderer{dir: dir, logger: logger}, nil
}

func flowSeriesTitle(stationID, day string) string {
	return fmt.Sprintf("Station %s - %s", stationID, day)
}

// FlowSeries renders one sensor-day flow time series with the busiest window
// overlaid in red. Returns the path of the written PNG.
func (r *Renderer) FlowSeries(readings []models.SensorReading, result models.BusiestHour) (string, error) {
	p := plot.New()
	p.Title.Text = flowSeriesTitle(result.StationID, result.Day)
	p.X.Label.Text = "time"
	p.Y.Label.Text = "flow (veh/interval)"
	p.X.Tick.Marker = plot.TimeTicks{Format: "15:04"}

	series := make(plotter.XYs, 0, len(readings))
	window := make(plotter.XYs, 0, result.SampleCount)
	for _, reading := range readings {
		point := plotter.XY{X: float64(reading.Timestamp.Unix()), Y: reading.Flow}
		series = append(series, point)
		if !reading.Timestamp.Before(result.WindowStart) && reading.Timestamp.Before(result.WindowEnd) {
			window = append(window, point)
		}
	}

	line, err := plotter.NewLine(series)
	if err != nil {
		return "", fmt.Errorf("building flow line: %w", err)
	}
	line.Color = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	p.Add(line)
	p.Legend.Add("flow", line)

	highlight, err := plotter.NewScatter(window)
	if err != nil {
		return "", fmt.Errorf("building busiest-window overlay: %w", err)
	}
	highlight.GlyphStyle.Color = color.RGBA{R: 220, G: 20, B: 60, A: 255}
	highlight.GlyphStyle.Radius = vg.Points(2)
	p.Add(highlight)
	p.Legend.Add("busiest hour", highlight)

	path := filepath.Join(r.dir, fmt.Sprintf("busiest_%s_%s.png", result.StationID, result.Day))
	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return "", fmt.Errorf("saving chart: %w", err)
	}
	r.logger.Debug("wrote chart", zap.String("path", path))
	return path, nil
}

// PredictedVsActual renders a scatter of model predictions against observed
// flow with a y=x reference line. Large runs are downsampled to maxPoints.
func (r *Renderer) PredictedVsActual(predictions []models.Prediction, maxPoints int) (string, error) {
	p := plot.New()
	p.Title.Text = "Predicted vs actual flow"
	p.X.Label.Text = "actual flow"
	p.Y.Label.Text = "predicted flow"

	stride := 1
	if maxPoints > 0 && len(predictions) > maxPoints {
		stride = len(predictions) / maxPoints
	}

	points := make(plotter.XYs, 0, len(predictions))
	maxFlow := 0.0
	for i := 0; i < len(predictions); i += stride {
		pred := predictions[i]
		points = append(points, plotter.XY{X: pred.ActualFlow, Y: pred.PredictedFlow})
		if pred.ActualFlow > maxFlow {
			maxFlow = pred.ActualFlow
		}
		if pred.PredictedFlow > maxFlow {
			maxFlow = pred.PredictedFlow
		}
	}

	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return "", fmt.Errorf("building scatter: %w", err)
	}
	scatter.GlyphStyle.Color = color.RGBA{R: 70, G: 130, B: 180, A: 128}
	scatter.GlyphStyle.Radius = vg.Points(1.5)
	p.Add(scatter)

	reference, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: maxFlow, Y: maxFlow}})
	if err != nil {
		return "", fmt.Errorf("building reference line: %w", err)
	}
	reference.Color = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	reference.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(reference)
	p.Legend.Add("y = x", reference)

	path := filepath.Join(r.dir, "predicted_vs_actual.png")
	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return "", fmt.Errorf("saving chart: %w", err)
	}
	r.logger.Debug("wrote chart", zap.String("path", path))
	return path, nil
}
