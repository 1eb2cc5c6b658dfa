package ranking

import "sort"

// AssignPositions orders entries by final score descending, breaking ties
// by entity id ascending, and assigns dense 1-based positions. The
// secondary key guarantees a strict, reproducible order: no gaps, no shared
// positions even on tied scores.
func AssignPositions(entries []RankingEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].FinalScore != entries[j].FinalScore {
			return entries[i].FinalScore > entries[j].FinalScore
		}
		return entries[i].EntityID < entries[j].EntityID
	})
	for i := range entries {
		entries[i].Position = i + 1
	}
}

// assignSlicePositions orders one (area, metric kind) slice by normalized
// score descending with the same entity-id tie-break, and assigns dense
// positions within the slice.
func assignSlicePositions(subs []SubMetricValue) {
	sort.Slice(subs, func(i, j int) bool {
		if subs[i].Score != subs[j].Score {
			return subs[i].Score > subs[j].Score
		}
		return subs[i].EntityID < subs[j].EntityID
	})
	for i := range subs {
		subs[i].Position = i + 1
	}
}
