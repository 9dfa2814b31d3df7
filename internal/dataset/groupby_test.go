package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urbansense/trafficlens/internal/models"
)

func TestGroupByStationDay(t *testing.T) {
	day1 := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)

	readings := []models.SensorReading{
		{StationID: "S002", Timestamp: day1.Add(10 * time.Minute), Flow: 3},
		{StationID: "S001", Timestamp: day1, Flow: 1},
		{StationID: "S001", Timestamp: day2, Flow: 4},
		{StationID: "S002", Timestamp: day1, Flow: 2},
	}

	groups := GroupByStationDay(readings)
	require.Len(t, groups, 3)

	s2 := groups[GroupKey{StationID: "S002", Day: "2026-03-02"}]
	require.Len(t, s2, 2)
	// sorted by timestamp within the group
	assert.Equal(t, 2.0, s2[0].Flow)
	assert.Equal(t, 3.0, s2[1].Flow)
}

func TestSortedKeys(t *testing.T) {
	groups := map[GroupKey][]models.SensorReading{
		{StationID: "S002", Day: "2026-03-02"}: nil,
		{StationID: "S001", Day: "2026-03-03"}: nil,
		{StationID: "S001", Day: "2026-03-02"}: nil,
	}

	keys := SortedKeys(groups)
	assert.Equal(t, []GroupKey{
		{StationID: "S001", Day: "2026-03-02"},
		{StationID: "S001", Day: "2026-03-03"},
		{StationID: "S002", Day: "2026-03-02"},
	}, keys)
}
