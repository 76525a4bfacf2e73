package segmentation

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankBinner_EqualPopulation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	values := make([]float64, 1003)
	for i := range values {
		values[i] = rng.Float64() * 100
	}

	buckets := RankBinner{}.Bin(values, 5)
	require.Len(t, buckets, len(values))

	sizes := make(map[int]int)
	for _, b := range buckets {
		require.GreaterOrEqual(t, b, 0)
		require.Less(t, b, 5)
		sizes[b]++
	}
	require.Len(t, sizes, 5)

	// Distinct inputs split into 5 groups whose sizes differ by at most one.
	minSize, maxSize := len(values), 0
	for _, n := range sizes {
		if n < minSize {
			minSize = n
		}
		if n > maxSize {
			maxSize = n
		}
	}
	assert.LessOrEqual(t, maxSize-minSize, 1)
}

func TestRankBinner_OrderRespected(t *testing.T) {
	values := []float64{10, 20, 30, 40, 50}
	buckets := RankBinner{}.Bin(values, 5)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, buckets)
}

func TestRankBinner_TiesShareBucket(t *testing.T) {
	values := []float64{1, 1, 1, 1, 1, 2, 2, 2, 2, 2}
	buckets := RankBinner{}.Bin(values, 5)

	for i := 0; i < 5; i++ {
		assert.Equal(t, buckets[0], buckets[i], "equal values must land in the same bucket")
	}
	for i := 5; i < 10; i++ {
		assert.Equal(t, buckets[5], buckets[i])
	}
	assert.NotEqual(t, buckets[0], buckets[5])
}

func TestRankBinner_FewDistinctValuesDegrades(t *testing.T) {
	// Two distinct values cannot fill five buckets; binning degrades to
	// two occupied buckets instead of failing.
	values := []float64{3, 3, 3, 7, 7, 7}
	buckets := RankBinner{}.Bin(values, 5)

	occupied := make(map[int]bool)
	for _, b := range buckets {
		occupied[b] = true
	}
	assert.Len(t, occupied, 2)
}

func TestRankBinner_EmptyAndSingle(t *testing.T) {
	assert.Empty(t, RankBinner{}.Bin(nil, 5))
	assert.Equal(t, []int{0}, RankBinner{}.Bin([]float64{42}, 5))
}
