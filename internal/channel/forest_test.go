package channel

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// separableData builds rows where the first feature fully determines the
// label and the second is uniform noise.
func separableData(n int, seed int64) ([][]float64, []string) {
	rng := rand.New(rand.NewSource(seed))
	X := make([][]float64, n)
	y := make([]string, n)
	for i := range X {
		v := rng.Float64()
		X[i] = []float64{v, rng.Float64()}
		if v < 0.5 {
			y[i] = "email"
		} else {
			y[i] = "whatsapp"
		}
	}
	return X, y
}

func TestForest_LearnsSeparableData(t *testing.T) {
	X, y := separableData(300, 1)

	f := NewForest(25, 42)
	require.NoError(t, f.Fit(X, y))

	hits := 0
	for i, row := range X {
		if f.Predict(row) == y[i] {
			hits++
		}
	}
	assert.Greater(t, float64(hits)/float64(len(X)), 0.95)
}

func TestForest_ImportancesFavorInformativeFeature(t *testing.T) {
	X, y := separableData(300, 2)

	f := NewForest(25, 42)
	require.NoError(t, f.Fit(X, y))

	imp := f.FeatureImportances()
	require.Len(t, imp, 2)

	sum := imp[0] + imp[1]
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Greater(t, imp[0], imp[1])
}

func TestForest_DeterministicUnderFixedSeed(t *testing.T) {
	X, y := separableData(200, 3)

	a := NewForest(15, 7)
	b := NewForest(15, 7)
	require.NoError(t, a.Fit(X, y))
	require.NoError(t, b.Fit(X, y))

	assert.Equal(t, a.FeatureImportances(), b.FeatureImportances())
	for _, row := range X {
		assert.Equal(t, a.Predict(row), b.Predict(row))
	}
}

func TestForest_FitErrors(t *testing.T) {
	f := NewForest(5, 1)
	assert.Error(t, f.Fit(nil, nil))
	assert.Error(t, f.Fit([][]float64{{1}}, []string{"a", "b"}))
}

func TestForest_SingleClass(t *testing.T) {
	X := [][]float64{{1, 2}, {3, 4}, {5, 6}}
	y := []string{"push", "push", "push"}

	f := NewForest(5, 1)
	require.NoError(t, f.Fit(X, y))
	assert.Equal(t, "push", f.Predict([]float64{0, 0}))
}
