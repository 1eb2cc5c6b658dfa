package ranking

import (
	"sort"
	"time"
)

// ExtractWindows selects the last windowDays daily observations per
// (entity, area) pair, sorted by date ascending. Duplicate dates for the
// same pair keep the record seen last. Missing days are never interpolated;
// a pair with at least one record always yields a window, pairs with zero
// records simply do not appear. The result is ordered by (area, entity) so
// downstream processing is deterministic.
func ExtractWindows(records []MetricRecord, windowDays int) []Window {
	type pairKey struct {
		entityID string
		areaID   string
	}

	byPair := make(map[pairKey]map[time.Time]MetricRecord)
	for _, rec := range records {
		if !rec.IsValid() {
			continue
		}
		key := pairKey{entityID: rec.EntityID, areaID: rec.AreaID}
		byDate, ok := byPair[key]
		if !ok {
			byDate = make(map[time.Time]MetricRecord)
			byPair[key] = byDate
		}
		byDate[normalizeDate(rec.Date)] = rec
	}

	windows := make([]Window, 0, len(byPair))
	for key, byDate := range byPair {
		recs := make([]MetricRecord, 0, len(byDate))
		for date, rec := range byDate {
			rec.Date = date
			recs = append(recs, rec)
		}
		sort.Slice(recs, func(i, j int) bool {
			return recs[i].Date.Before(recs[j].Date)
		})
		if len(recs) > windowDays {
			recs = recs[len(recs)-windowDays:]
		}
		windows = append(windows, Window{
			EntityID: key.entityID,
			AreaID:   key.areaID,
			Records:  recs,
		})
	}

	sort.Slice(windows, func(i, j int) bool {
		if windows[i].AreaID != windows[j].AreaID {
			return windows[i].AreaID < windows[j].AreaID
		}
		return windows[i].EntityID < windows[j].EntityID
	})

	return windows
}

// normalizeDate truncates a timestamp to its UTC calendar day so records
// taken at different times of the same day share one identity.
func normalizeDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
