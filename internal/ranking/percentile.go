package ranking

// PercentileRank returns the inclusive-rank percentile of x within its
// population, on [0,100]: (count of values <= x - 1) / (n - 1) * 100. Tied
// values share the same percentile. The population is expected to contain
// x's own value. Degenerate populations (a single member, or all members
// equal) return 100: the sole or uniform value is vacuously best under
// either polarity.
func PercentileRank(x float64, population []float64) float64 {
	n := len(population)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return 100
	}

	countLE := 0
	uniform := true
	for _, v := range population {
		if v <= x {
			countLE++
		}
		if v != population[0] {
			uniform = false
		}
	}
	if uniform {
		return 100
	}

	return float64(countLE-1) / float64(n-1) * 100
}

// NormalizedScore converts a raw value into its direction-adjusted
// percentile score: higher is always more favorable. For LOWER_BETTER the
// percentile is inverted, except in degenerate populations where every
// member scores 100.
func NormalizedScore(x float64, population []float64, dir Direction) float64 {
	pr := PercentileRank(x, population)
	if pr == 100 && isDegenerate(population) {
		return 100
	}
	if dir == LowerBetter {
		return 100 - pr
	}
	return pr
}

func isDegenerate(population []float64) bool {
	if len(population) <= 1 {
		return true
	}
	for _, v := range population {
		if v != population[0] {
			return false
		}
	}
	return true
}
