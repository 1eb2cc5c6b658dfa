package ranking

import "math"

// Fill is the mean of the observation window. Defined for any non-empty
// window.
func Fill(w Window) float64 {
	return mean(w.Values())
}

// Instability is the population standard deviation of the window times the
// configured scale factor. A single-sample window has deviation 0, not NaN.
func Instability(w Window, scale float64) float64 {
	return popStdDev(w.Values()) * scale
}

// RateOfChange is the population standard deviation of the window's
// day-over-day first differences times the configured scale factor. Only
// records on consecutive calendar days produce a difference; a date gap
// breaks the chain and contributes nothing. The second return value is
// false when the window yields no differences at all, in which case the
// entity is excluded from the rate-of-change population.
func RateOfChange(w Window, scale float64) (float64, bool) {
	diffs := firstDifferences(w)
	if len(diffs) == 0 {
		return 0, false
	}
	return popStdDev(diffs) * scale, true
}

// firstDifferences returns value[i] - value[i-1] for each pair of records
// exactly one day apart. The window is already sorted by date ascending.
func firstDifferences(w Window) []float64 {
	var diffs []float64
	for i := 1; i < len(w.Records); i++ {
		prev, cur := w.Records[i-1], w.Records[i]
		if !prev.Date.AddDate(0, 0, 1).Equal(cur.Date) {
			continue
		}
		diffs = append(diffs, cur.Value-prev.Value)
	}
	return diffs
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// popStdDev is the population standard deviation (divisor n). Zero for
// fewer than two samples.
func popStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sumSquared := 0.0
	for _, v := range values {
		sumSquared += (v - m) * (v - m)
	}
	return math.Sqrt(sumSquared / float64(len(values)))
}

// sampleStdDev is the sample standard deviation (divisor n-1), used for the
// reporting statistics of a finished ranking. Zero for fewer than two
// samples.
func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sumSquared := 0.0
	for _, v := range values {
		sumSquared += (v - m) * (v - m)
	}
	return math.Sqrt(sumSquared / float64(len(values)-1))
}
