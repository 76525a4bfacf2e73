package channel

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Forest is a random-forest Classifier: bootstrap-sampled CART trees with
// Gini splits and majority-vote prediction. All randomness comes from the
// seeded source, so identical data and seed give identical forests.
type Forest struct {
	Trees    int
	MaxDepth int
	MinSplit int
	Seed     int64

	rng         *rand.Rand
	classes     []string
	roots       []*treeNode
	importances []float64
}

// NewForest creates an untrained forest. Zero values fall back to
// 100 trees, depth 12, and a minimum split size of 2.
func NewForest(trees int, seed int64) *Forest {
	if trees <= 0 {
		trees = 100
	}
	return &Forest{Trees: trees, MaxDepth: 12, MinSplit: 2, Seed: seed}
}

type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	leaf      bool
	label     int
}

// Fit implements Classifier.
func (f *Forest) Fit(X [][]float64, y []string) error {
	if len(X) == 0 {
		return fmt.Errorf("fit forest: no rows")
	}
	if len(X) != len(y) {
		return fmt.Errorf("fit forest: %d rows but %d labels", len(X), len(y))
	}

	f.rng = rand.New(rand.NewSource(f.Seed))
	f.classes = uniqueSorted(y)

	classIdx := make(map[string]int, len(f.classes))
	for i, c := range f.classes {
		classIdx[c] = i
	}
	labels := make([]int, len(y))
	for i, lab := range y {
		labels[i] = classIdx[lab]
	}

	n := len(X)
	p := len(X[0])
	mtry := int(math.Ceil(math.Sqrt(float64(p))))
	f.importances = make([]float64, p)
	f.roots = make([]*treeNode, f.Trees)

	for t := 0; t < f.Trees; t++ {
		sample := make([]int, n)
		for i := range sample {
			sample[i] = f.rng.Intn(n)
		}
		f.roots[t] = f.buildTree(X, labels, sample, 0, mtry, float64(n))
	}

	// Normalize accumulated impurity decreases to a distribution.
	total := 0.0
	for _, v := range f.importances {
		total += v
	}
	if total > 0 {
		for i := range f.importances {
			f.importances[i] /= total
		}
	}
	return nil
}

// Predict implements Classifier by majority vote across trees. Vote ties
// resolve to the alphabetically first class.
func (f *Forest) Predict(x []float64) string {
	votes := make([]int, len(f.classes))
	for _, root := range f.roots {
		votes[root.predict(x)]++
	}
	best := 0
	for i, v := range votes {
		if v > votes[best] {
			best = i
		}
	}
	return f.classes[best]
}

// FeatureImportances implements Classifier.
func (f *Forest) FeatureImportances() []float64 {
	out := make([]float64, len(f.importances))
	copy(out, f.importances)
	return out
}

// Classes returns the label set seen during fitting, sorted.
func (f *Forest) Classes() []string { return f.classes }

func (n *treeNode) predict(x []float64) int {
	for !n.leaf {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.label
}

// buildTree grows one CART tree on the bootstrap sample, accumulating
// impurity-decrease importances weighted by node population.
func (f *Forest) buildTree(X [][]float64, labels, sample []int, depth, mtry int, total float64) *treeNode {
	counts := make([]int, len(f.classes))
	for _, i := range sample {
		counts[labels[i]]++
	}
	impurity := gini(counts, len(sample))

	if depth >= f.MaxDepth || len(sample) < f.MinSplit || impurity == 0 {
		return &treeNode{leaf: true, label: argmax(counts)}
	}

	feat, threshold, gain, ok := f.bestSplit(X, labels, sample, mtry, impurity)
	if !ok {
		return &treeNode{leaf: true, label: argmax(counts)}
	}

	var left, right []int
	for _, i := range sample {
		if X[i][feat] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &treeNode{leaf: true, label: argmax(counts)}
	}

	f.importances[feat] += float64(len(sample)) / total * gain

	return &treeNode{
		feature:   feat,
		threshold: threshold,
		left:      f.buildTree(X, labels, left, depth+1, mtry, total),
		right:     f.buildTree(X, labels, right, depth+1, mtry, total),
	}
}

// bestSplit evaluates mtry randomly chosen features and returns the split
// with the largest Gini gain.
func (f *Forest) bestSplit(X [][]float64, labels, sample []int, mtry int, parentImpurity float64) (feat int, threshold, gain float64, ok bool) {
	p := len(X[0])
	perm := f.rng.Perm(p)
	candidates := perm[:mtry]
	sort.Ints(candidates) // deterministic evaluation order

	type pair struct {
		v   float64
		lab int
	}
	n := len(sample)
	pairs := make([]pair, n)
	bestGain := 0.0

	for _, c := range candidates {
		for i, idx := range sample {
			pairs[i] = pair{X[idx][c], labels[idx]}
		}
		sort.Slice(pairs, func(a, b int) bool { return pairs[a].v < pairs[b].v })

		leftCounts := make([]int, len(f.classes))
		rightCounts := make([]int, len(f.classes))
		for _, pr := range pairs {
			rightCounts[pr.lab]++
		}

		for i := 0; i < n-1; i++ {
			leftCounts[pairs[i].lab]++
			rightCounts[pairs[i].lab]--
			if pairs[i].v == pairs[i+1].v {
				continue
			}
			nl, nr := i+1, n-i-1
			weighted := (float64(nl)*gini(leftCounts, nl) + float64(nr)*gini(rightCounts, nr)) / float64(n)
			g := parentImpurity - weighted
			if g > bestGain {
				bestGain = g
				feat = c
				threshold = (pairs[i].v + pairs[i+1].v) / 2
				ok = true
			}
		}
	}
	return feat, threshold, bestGain, ok
}

func gini(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	sum := 1.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		sum -= p * p
	}
	return sum
}

func argmax(counts []int) int {
	best := 0
	for i, c := range counts {
		if c > counts[best] {
			best = i
		}
	}
	return best
}

func uniqueSorted(y []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range y {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
