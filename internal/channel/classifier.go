// Package channel trains the contact-channel preference model: recursive
// feature elimination over the interaction features, a random-forest
// classifier, and a reusable predict surface for strategy synthesis.
package channel

// Classifier is the capability interface for an importance-ranking
// classifier. Any ensemble that can rank its inputs by importance can be
// substituted without changing the pipeline contract.
type Classifier interface {
	// Fit trains on row-major features X and one label per row.
	Fit(X [][]float64, y []string) error
	// Predict returns the label for a single feature row.
	Predict(x []float64) string
	// FeatureImportances returns one non-negative weight per input
	// column, normalized to sum to 1 after fitting.
	FeatureImportances() []float64
}

// columns extracts the given column subset from a row-major matrix.
func columns(X [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		sub := make([]float64, len(idx))
		for j, c := range idx {
			sub[j] = row[c]
		}
		out[i] = sub
	}
	return out
}
