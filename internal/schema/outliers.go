package schema

import "sort"

// minOutlierSamples is the smallest sample size for which quartiles are
// meaningful; below it DetectOutliers always reports none.
const minOutlierSamples = 4

// DetectOutliers flags values outside the Tukey fences
// [Q1 - 1.5*IQR, Q3 + 1.5*IQR] of the sample. Order of the returned values
// follows the input order.
func DetectOutliers(values []float64) []float64 {
	if len(values) < minOutlierSamples {
		return nil
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	q1 := quantile(sorted, 0.25)
	q3 := quantile(sorted, 0.75)
	iqr := q3 - q1
	lo := q1 - 1.5*iqr
	hi := q3 + 1.5*iqr

	var outliers []float64
	for _, v := range values {
		if v < lo || v > hi {
			outliers = append(outliers, v)
		}
	}
	return outliers
}

// quantile computes the q-th (0..1) quantile of sorted values with linear
// interpolation between closest ranks.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	if lo == len(sorted)-1 {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[lo+1]*frac
}
