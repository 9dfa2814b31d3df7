package analyzer

import (
	"time"

	"github.com/urbansense/trafficlens/internal/models"
)

// BusiestWindow scans one sensor-day group for the observed timestamp whose
// [start, start+window) window has the maximum summed flow. The window is
// inclusive of its start and exclusive of its end, the scan is brute force
// over every candidate start, and ties keep the first-seen maximum.
// Readings must be sorted by timestamp. Returns false for an empty group.
func BusiestWindow(readings []models.SensorReading, window time.Duration) (start time.Time, total float64, samples int, ok bool) {
	if len(readings) == 0 {
		return time.Time{}, 0, 0, false
	}

	best := -1
	for i := range readings {
		end := readings[i].Timestamp.Add(window)
		sum := 0.0
		count := 0
		for j := i; j < len(readings) && readings[j].Timestamp.Before(end); j++ {
			sum += readings[j].Flow
			count++
		}
		if best < 0 || sum > total {
			best = i
			total = sum
			samples = count
		}
	}

	return readings[best].Timestamp, total, samples, true
}
