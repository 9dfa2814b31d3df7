package regress

import "github.com/urbansense/trafficlens/internal/models"

// FeatureVector maps a sensor reading onto the feature space the flow models
// are trained against.
func FeatureVector(r models.SensorReading) map[string]float64 {
	return map[string]float64{
		"occupancy": r.Occupancy,
		"speed":     r.Speed,
		"lanes":     float64(r.Lanes),
		"hour":      float64(r.Timestamp.Hour()),
	}
}
