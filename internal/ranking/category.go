package ranking

// Categorize maps a final score to its quality tier, evaluating the bands
// highest-first. Bands are configuration: thresholds never move with the
// current run's distribution, so category meaning stays comparable across
// runs. Scores below every band (only possible with a non-zero lowest
// threshold, which Validate rejects) fall into the last band.
func Categorize(score float64, bands []CategoryBand) string {
	for _, band := range bands {
		if score >= band.Min {
			return band.Name
		}
	}
	return bands[len(bands)-1].Name
}
