package regress

import (
	"encoding/json"
	"fmt"
	"os"
)

// Model is a serialized pre-trained linear regression. Coefficients apply to
// standardized features when Means/Scales are present, raw features otherwise.
type Model struct {
	Version      string    `json:"model_version"`
	Features     []string  `json:"features"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	Means        []float64 `json:"means,omitempty"`
	Scales       []float64 `json:"scales,omitempty"`
}

// Load reads a model file and validates its shape.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}

	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding model file: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model %s: %w", path, err)
	}
	return &m, nil
}

// Save writes the model as indented JSON.
func (m *Model) Save(path string) error {
	if err := m.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (m *Model) Validate() error {
	if len(m.Features) == 0 {
		return fmt.Errorf("model has no features")
	}
	if len(m.Coefficients) != len(m.Features) {
		return fmt.Errorf("have %d coefficients for %d features", len(m.Coefficients), len(m.Features))
	}
	if len(m.Means) > 0 && len(m.Means) != len(m.Features) {
		return fmt.Errorf("have %d means for %d features", len(m.Means), len(m.Features))
	}
	if len(m.Scales) > 0 && len(m.Scales) != len(m.Features) {
		return fmt.Errorf("have %d scales for %d features", len(m.Scales), len(m.Features))
	}
	for i, s := range m.Scales {
		if s == 0 {
			return fmt.Errorf("zero scale for feature %s", m.Features[i])
		}
	}
	return nil
}

// Predict evaluates the regression on a feature vector keyed by feature name.
// Missing features contribute their mean (zero after standardization).
func (m *Model) Predict(features map[string]float64) float64 {
	sum := m.Intercept
	for i, name := range m.Features {
		value, ok := features[name]
		if !ok {
			if len(m.Means) > 0 {
				value = m.Means[i]
			}
		}
		if len(m.Means) > 0 {
			value -= m.Means[i]
		}
		if len(m.Scales) > 0 {
			value /= m.Scales[i]
		}
		sum += m.Coefficients[i] * value
	}
	return sum
}
