package experiment

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ChiSquare2x2 runs a chi-squared independence test on a 2×2 contingency
// table with Yates continuity correction, matching the conventional
// treatment of 2×2 tables. Cells are [row][col] observed counts.
// Returns the test statistic and its p-value; degenerate tables (an empty
// row or column) return p = 1.
func ChiSquare2x2(table [2][2]float64) (statistic, p float64) {
	rowSums := [2]float64{table[0][0] + table[0][1], table[1][0] + table[1][1]}
	colSums := [2]float64{table[0][0] + table[1][0], table[0][1] + table[1][1]}
	total := rowSums[0] + rowSums[1]
	if total == 0 || rowSums[0] == 0 || rowSums[1] == 0 || colSums[0] == 0 || colSums[1] == 0 {
		return 0, 1
	}

	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			expected := rowSums[i] * colSums[j] / total
			diff := math.Abs(table[i][j]-expected) - 0.5 // Yates correction
			if diff < 0 {
				diff = 0
			}
			statistic += diff * diff / expected
		}
	}

	chi2 := distuv.ChiSquared{K: 1}
	return statistic, chi2.Survival(statistic)
}

// TTestInd runs a two-sample t-test with pooled variance (equal-variance
// assumption) and returns the statistic and two-sided p-value. Degenerate
// inputs (too few observations or zero pooled variance) return p = 1.
func TTestInd(a, b []float64) (statistic, p float64) {
	n1, n2 := float64(len(a)), float64(len(b))
	if n1 < 2 || n2 < 2 {
		return 0, 1
	}

	mean1, var1 := stat.MeanVariance(a, nil)
	mean2, var2 := stat.MeanVariance(b, nil)

	df := n1 + n2 - 2
	pooled := ((n1-1)*var1 + (n2-1)*var2) / df
	se := math.Sqrt(pooled * (1/n1 + 1/n2))
	if se == 0 {
		if mean1 == mean2 {
			return 0, 1
		}
		return math.Inf(sign(mean1 - mean2)), 0
	}

	statistic = (mean1 - mean2) / se
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return statistic, 2 * t.Survival(math.Abs(statistic))
}

func sign(v float64) int {
	if v < 0 {
		return -1
	}
	return 1
}
