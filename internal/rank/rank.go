// Package rank scores and categorizes comparable search results so the
// client can surface named picks ("cheapest", "fastest", "best value") and a
// list ordered by composite score. Everything here is pure and deterministic.
//
// Scoring: each numeric criterion is min/max-normalized to [0,1] across the
// input set (inverted where lower is better) and combined with fixed weights.
// When every result shares the same value for a criterion, the criterion
// contributes 1.0 to every score instead of dividing by zero, so a uniform
// field never penalizes anyone and ties are broken by the remaining criteria.
package rank

// normalizeInverse maps val into [0,1] where the minimum of the set scores
// highest. Used for price, duration, and stops.
func normalizeInverse(val, min, max float64) float64 {
	if max == min {
		return 1.0
	}
	return 1 - (val-min)/(max-min)
}

// normalizeDirect maps val into [0,1] where the maximum of the set scores
// highest. Used for rating and review count.
func normalizeDirect(val, min, max float64) float64 {
	if max == min {
		return 1.0
	}
	return (val - min) / (max - min)
}

// minMax returns the smallest and largest value in vals.
// vals must be non-empty; callers guard the empty case.
func minMax(vals []float64) (min, max float64) {
	min, max = vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
