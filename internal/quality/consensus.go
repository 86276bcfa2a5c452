package quality

import "sort"

// Ranked pairs one source's data with its name and quality score for
// cross-validation.
type Ranked[T any] struct {
	Name    string
	Data    T
	Quality float64
}

// Consensus is the outcome of cross-validating redundant sources. OK is
// false only when no sources were supplied.
type Consensus[T any] struct {
	Consensus  T
	OK         bool
	Confidence float64  // 0-100
	Outliers   []string // names of low-quality disagreeing sources
}

// CrossValidate selects the single highest-quality source's data as the
// consensus value and flags sources below the outlier floor. Confidence is
// the mean quality across all sources, discounted by 20% when any outliers
// are present.
//
// This is deliberately majority-by-authority, not a statistical vote:
// redundant government feeds rarely disagree in ways that are safe to
// numerically reconcile (units, timing offsets, instrument differences),
// so one well-trusted source with a confidence discount beats value-level
// averaging. Equal-quality sources keep their input order; the first wins.
func CrossValidate[T any](sources []Ranked[T]) Consensus[T] {
	if len(sources) == 0 {
		return Consensus[T]{}
	}

	ranked := append([]Ranked[T](nil), sources...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Quality > ranked[j].Quality
	})

	var outliers []string
	var sum float64
	for i, s := range ranked {
		sum += s.Quality
		if i > 0 && s.Quality < outlierQualityFloor {
			outliers = append(outliers, s.Name)
		}
	}

	confidence := sum / float64(len(ranked))
	if len(outliers) > 0 {
		confidence *= 0.8
	}

	return Consensus[T]{
		Consensus:  ranked[0].Data,
		OK:         true,
		Confidence: confidence,
		Outliers:   outliers,
	}
}
