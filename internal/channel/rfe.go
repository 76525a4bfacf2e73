package channel

import "fmt"

// SelectFeatures recursively eliminates the least-important feature until
// exactly target features remain, refitting the ranking classifier after
// each elimination. When target covers all candidates the elimination is
// skipped and every feature is selected.
//
// newRanker must return a fresh untrained classifier per fit so earlier
// rounds cannot leak state into later ones.
func SelectFeatures(newRanker func() Classifier, X [][]float64, y []string, names []string, target int) ([]int, error) {
	if len(X) == 0 {
		return nil, fmt.Errorf("select features: no rows")
	}
	if len(names) != len(X[0]) {
		return nil, fmt.Errorf("select features: %d names for %d columns", len(names), len(X[0]))
	}

	active := make([]int, len(names))
	for i := range active {
		active[i] = i
	}
	if target >= len(active) {
		return active, nil
	}

	for len(active) > target {
		ranker := newRanker()
		if err := ranker.Fit(columns(X, active), y); err != nil {
			return nil, fmt.Errorf("select features: %w", err)
		}
		imp := ranker.FeatureImportances()

		weakest := 0
		for i, v := range imp {
			if v < imp[weakest] {
				weakest = i
			}
		}
		active = append(active[:weakest], active[weakest+1:]...)
	}
	return active, nil
}
