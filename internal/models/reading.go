package models

import "time"

// Station describes one roadside sensor installation.
type Station struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	District  string  `json:"district"`
	Freeway   string  `json:"freeway"`
	Direction string  `json:"direction"`
	Lanes     int     `json:"lanes"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SensorReading is one row of traffic measurements at a station and timestamp.
// Station metadata is joined in after load; rows are immutable from then on.
type SensorReading struct {
	StationID string    `json:"station_id"`
	Timestamp time.Time `json:"timestamp"`
	Lanes     int       `json:"lanes"`
	Occupancy float64   `json:"occupancy"` // fraction of interval the loop was occupied, 0..1
	Speed     float64   `json:"speed"`     // mph
	Flow      float64   `json:"flow"`      // vehicles per interval

	Station *Station `json:"-"`
}

// Day returns the reading's calendar day in the timestamp's location.
func (r SensorReading) Day() string {
	return r.Timestamp.Format("2006-01-02")
}
