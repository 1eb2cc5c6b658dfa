package ranking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(entityID, areaID string, d int, value float64) MetricRecord {
	return MetricRecord{EntityID: entityID, AreaID: areaID, Date: day(d), Value: value}
}

func TestExtractWindows(t *testing.T) {
	t.Run("keeps the last W records sorted ascending", func(t *testing.T) {
		var records []MetricRecord
		for d := 1; d <= 10; d++ {
			records = append(records, rec("EQ01", "CPLOAD", d, float64(d)))
		}

		windows := ExtractWindows(records, 7)
		require.Len(t, windows, 1)

		w := windows[0]
		assert.Equal(t, "EQ01", w.EntityID)
		assert.Equal(t, "CPLOAD", w.AreaID)
		require.Equal(t, 7, w.Len())
		assert.Equal(t, []float64{4, 5, 6, 7, 8, 9, 10}, w.Values())
		for i := 1; i < w.Len(); i++ {
			assert.True(t, w.Records[i-1].Date.Before(w.Records[i].Date))
		}
	})

	t.Run("partial windows survive", func(t *testing.T) {
		records := []MetricRecord{rec("EQ01", "CPLOAD", 3, 12.5)}
		windows := ExtractWindows(records, 7)
		require.Len(t, windows, 1)
		assert.Equal(t, 1, windows[0].Len())
	})

	t.Run("groups per entity and area", func(t *testing.T) {
		records := []MetricRecord{
			rec("EQ02", "IOLOAD", 1, 1),
			rec("EQ01", "CPLOAD", 1, 2),
			rec("EQ01", "IOLOAD", 1, 3),
			rec("EQ02", "CPLOAD", 1, 4),
		}

		windows := ExtractWindows(records, 7)
		require.Len(t, windows, 4)

		// Deterministic (area, entity) ordering.
		keys := make([][2]string, len(windows))
		for i, w := range windows {
			keys[i] = [2]string{w.AreaID, w.EntityID}
		}
		assert.Equal(t, [][2]string{
			{"CPLOAD", "EQ01"},
			{"CPLOAD", "EQ02"},
			{"IOLOAD", "EQ01"},
			{"IOLOAD", "EQ02"},
		}, keys)
	})

	t.Run("duplicate dates keep the record seen last", func(t *testing.T) {
		records := []MetricRecord{
			rec("EQ01", "CPLOAD", 1, 10),
			rec("EQ01", "CPLOAD", 1, 99),
		}
		windows := ExtractWindows(records, 7)
		require.Len(t, windows, 1)
		require.Equal(t, 1, windows[0].Len())
		assert.Equal(t, 99.0, windows[0].Records[0].Value)
	})

	t.Run("same-day timestamps collapse to one calendar day", func(t *testing.T) {
		morning := MetricRecord{EntityID: "EQ01", AreaID: "CPLOAD", Date: time.Date(2026, 8, 1, 8, 30, 0, 0, time.UTC), Value: 10}
		evening := MetricRecord{EntityID: "EQ01", AreaID: "CPLOAD", Date: time.Date(2026, 8, 1, 22, 0, 0, 0, time.UTC), Value: 20}

		windows := ExtractWindows([]MetricRecord{morning, evening}, 7)
		require.Len(t, windows, 1)
		require.Equal(t, 1, windows[0].Len())
		assert.Equal(t, day(1), windows[0].Records[0].Date)
	})

	t.Run("invalid records are dropped", func(t *testing.T) {
		records := []MetricRecord{
			{EntityID: "", AreaID: "CPLOAD", Date: day(1), Value: 1},
			{EntityID: "EQ01", AreaID: "", Date: day(1), Value: 1},
			{EntityID: "EQ01", AreaID: "CPLOAD", Value: 1},
			rec("EQ01", "CPLOAD", 2, 5),
		}
		windows := ExtractWindows(records, 7)
		require.Len(t, windows, 1)
		assert.Equal(t, 1, windows[0].Len())
	})

	t.Run("no records yields no windows", func(t *testing.T) {
		assert.Empty(t, ExtractWindows(nil, 7))
	})
}
