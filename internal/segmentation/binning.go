// Package segmentation assigns each customer a Recency/Frequency/Monetary
// score and one of eight behavioral segments. Scores are batch-relative:
// bucket boundaries come from equal-population quantile cuts over the
// current batch, not fixed thresholds.
package segmentation

import "sort"

// QuantileBinner partitions a numeric column into k equal-population
// buckets and returns a bucket index in [0, k) per row.
type QuantileBinner interface {
	Bin(values []float64, k int) []int
}

// RankBinner is the default QuantileBinner. It assigns buckets by ordinal
// rank, which keeps bucket sizes within one row of each other for distinct
// inputs. Runs of equal values are merged into the lowest bucket of the
// run, so inputs with fewer distinct values than buckets degrade to fewer
// occupied buckets instead of failing.
type RankBinner struct{}

// Bin implements QuantileBinner.
func (RankBinner) Bin(values []float64, k int) []int {
	n := len(values)
	buckets := make([]int, n)
	if n == 0 || k <= 1 {
		return buckets
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})

	for pos, idx := range order {
		b := pos * k / n
		// Ties share the bucket of the first value in the run.
		if pos > 0 && values[idx] == values[order[pos-1]] {
			b = buckets[order[pos-1]]
		}
		buckets[idx] = b
	}
	return buckets
}
