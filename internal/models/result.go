package models

import "time"

// Prediction pairs a reading with its model-predicted flow.
type Prediction struct {
	RunID         string    `json:"run_id"`
	StationID     string    `json:"station_id"`
	Timestamp     time.Time `json:"timestamp"`
	ActualFlow    float64   `json:"actual_flow"`
	PredictedFlow float64   `json:"predicted_flow"`
	ModelVersion  string    `json:"model_version"`
}

// BusiestHour is the per-(station, day) reduction result: the observed
// timestamp whose [start, start+window) window has maximal summed flow.
type BusiestHour struct {
	RunID       string    `json:"run_id"`
	StationID   string    `json:"station_id"`
	Day         string    `json:"day"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
	TotalFlow   float64   `json:"total_flow"`
	SampleCount int       `json:"sample_count"`
}
