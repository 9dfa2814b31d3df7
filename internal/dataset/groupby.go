package dataset

import (
	"sort"

	"github.com/urbansense/trafficlens/internal/models"
)

// GroupKey identifies one sensor-day group.
type GroupKey struct {
	StationID string
	Day       string
}

// GroupByStationDay buckets readings into sensor-day groups, each sorted by
// timestamp. Rows are independent so bucket order does not matter; the sort
// makes downstream window scans deterministic.
func GroupByStationDay(readings []models.SensorReading) map[GroupKey][]models.SensorReading {
	groups := make(map[GroupKey][]models.SensorReading)
	for _, r := range readings {
		key := GroupKey{StationID: r.StationID, Day: r.Day()}
		groups[key] = append(groups[key], r)
	}
	for _, group := range groups {
		sort.Slice(group, func(i, j int) bool {
			return group[i].Timestamp.Before(group[j].Timestamp)
		})
	}
	return groups
}

// SortedKeys returns group keys ordered by station id then day, so that
// per-group results come out in a stable order regardless of map iteration.
func SortedKeys(groups map[GroupKey][]models.SensorReading) []GroupKey {
	keys := make([]GroupKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].StationID != keys[j].StationID {
			return keys[i].StationID < keys[j].StationID
		}
		return keys[i].Day < keys[j].Day
	})
	return keys
}
