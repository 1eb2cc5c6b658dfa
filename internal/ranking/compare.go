package ranking

// Compare computes the distributional comparison between two finished
// rankings. The two sides normally hold different entity populations (CP
// equipment versus HDD units), so no per-entity alignment is attempted:
// only aggregate score statistics and category counts are set against each
// other. Deltas are right minus left. The category vocabulary is fixed by
// the caller so both sides report the same rows, including zero counts.
func Compare(left, right *RankingTable, categories []string) ComparisonResult {
	leftStats := computeScoreStats(left.Entries)
	rightStats := computeScoreStats(right.Entries)

	result := ComparisonResult{
		LeftDomain:  left.Domain,
		RightDomain: right.Domain,
		Left:        leftStats,
		Right:       rightStats,
		Stats: []StatDelta{
			{Metric: "count", Left: float64(leftStats.Count), Right: float64(rightStats.Count), Delta: float64(rightStats.Count - leftStats.Count)},
			{Metric: "max", Left: leftStats.Max, Right: rightStats.Max, Delta: rightStats.Max - leftStats.Max},
			{Metric: "min", Left: leftStats.Min, Right: rightStats.Min, Delta: rightStats.Min - leftStats.Min},
			{Metric: "mean", Left: leftStats.Mean, Right: rightStats.Mean, Delta: rightStats.Mean - leftStats.Mean},
			{Metric: "std", Left: leftStats.Std, Right: rightStats.Std, Delta: rightStats.Std - leftStats.Std},
		},
	}

	leftCounts := categoryCounts(left.Entries)
	rightCounts := categoryCounts(right.Entries)
	for _, cat := range categories {
		result.Categories = append(result.Categories, CategoryCount{
			Category: cat,
			Left:     leftCounts[cat],
			Right:    rightCounts[cat],
			Total:    leftCounts[cat] + rightCounts[cat],
		})
	}

	return result
}

func computeScoreStats(entries []RankingEntry) ScoreStats {
	stats := ScoreStats{Count: len(entries)}
	if len(entries) == 0 {
		return stats
	}

	scores := make([]float64, len(entries))
	stats.Max = entries[0].FinalScore
	stats.Min = entries[0].FinalScore
	for i, e := range entries {
		scores[i] = e.FinalScore
		if e.FinalScore > stats.Max {
			stats.Max = e.FinalScore
		}
		if e.FinalScore < stats.Min {
			stats.Min = e.FinalScore
		}
	}
	stats.Mean = mean(scores)
	stats.Std = sampleStdDev(scores)
	return stats
}

func categoryCounts(entries []RankingEntry) map[string]int {
	counts := make(map[string]int, 8)
	for _, e := range entries {
		counts[e.Category]++
	}
	return counts
}
