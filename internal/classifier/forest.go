package classifier

import (
	"math"
	"math/rand"
	"sort"
)

// treeNode is one node of a CART tree. Internal nodes route on
// Feature/Threshold; leaves carry the class distribution of the
// training samples that reached them. Fields are exported for
// serialization.
type treeNode struct {
	Feature   int
	Threshold float64
	Left      *treeNode
	Right     *treeNode
	Probs     []float64
}

func (n *treeNode) leaf() bool {
	return n.Left == nil && n.Right == nil
}

// forest is a bagged ensemble of CART trees
type forest struct {
	Trees   []*treeNode
	Classes int
}

type forestConfig struct {
	trees            int
	maxDepth         int
	minSplit         int
	featuresPerSplit int
}

// fitForest grows cfg.trees trees, each on a bootstrap resample of the
// input. All randomness (resampling, feature subsets) comes from the
// shared rng, so a fixed seed grows a fixed forest.
func fitForest(X [][]float64, y []int, classes int, cfg forestConfig, rng *rand.Rand) *forest {
	b := &treeBuilder{X: X, y: y, classes: classes, cfg: cfg, rng: rng}

	f := &forest{Trees: make([]*treeNode, 0, cfg.trees), Classes: classes}
	n := len(X)
	for t := 0; t < cfg.trees; t++ {
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.Intn(n)
		}
		f.Trees = append(f.Trees, b.build(sample, 0))
	}
	return f
}

// proba averages the leaf class distributions of every tree
func (f *forest) proba(x []float64) []float64 {
	probs := make([]float64, f.Classes)
	for _, root := range f.Trees {
		node := root
		for !node.leaf() {
			if x[node.Feature] <= node.Threshold {
				node = node.Left
			} else {
				node = node.Right
			}
		}
		for c, p := range node.Probs {
			probs[c] += p
		}
	}
	inv := 1.0 / float64(len(f.Trees))
	for c := range probs {
		probs[c] *= inv
	}
	return probs
}

// argmax returns the index of the largest probability; ties go to the
// lowest index.
func argmax(probs []float64) int {
	best := 0
	for i := 1; i < len(probs); i++ {
		if probs[i] > probs[best] {
			best = i
		}
	}
	return best
}

type treeBuilder struct {
	X       [][]float64
	y       []int
	classes int
	cfg     forestConfig
	rng     *rand.Rand
}

func (b *treeBuilder) build(idx []int, depth int) *treeNode {
	counts := b.classCounts(idx)
	if depth >= b.cfg.maxDepth || len(idx) < b.cfg.minSplit || isPure(counts) {
		return leafNode(counts, len(idx))
	}

	feature, threshold, ok := b.bestSplit(idx, counts)
	if !ok {
		return leafNode(counts, len(idx))
	}

	var left, right []int
	for _, i := range idx {
		if b.X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return leafNode(counts, len(idx))
	}

	return &treeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      b.build(left, depth+1),
		Right:     b.build(right, depth+1),
	}
}

// bestSplit scans a random feature subset for the threshold minimizing
// the weighted Gini impurity of the two sides. Thresholds sit at
// midpoints between consecutive distinct values, found with a single
// sorted sweep per feature.
func (b *treeBuilder) bestSplit(idx []int, parentCounts []int) (int, float64, bool) {
	total := len(idx)
	width := len(b.X[idx[0]])
	mtry := b.cfg.featuresPerSplit
	if mtry <= 0 || mtry > width {
		mtry = width
	}

	bestGini := math.Inf(1)
	bestFeature := -1
	bestThreshold := 0.0

	order := make([]int, total)
	for _, feature := range b.rng.Perm(width)[:mtry] {
		copy(order, idx)
		sort.Slice(order, func(i, j int) bool {
			return b.X[order[i]][feature] < b.X[order[j]][feature]
		})

		left := make([]int, b.classes)
		right := append([]int(nil), parentCounts...)

		for k := 0; k < total-1; k++ {
			cls := b.y[order[k]]
			left[cls]++
			right[cls]--

			v, next := b.X[order[k]][feature], b.X[order[k+1]][feature]
			if v == next {
				continue
			}
			gini := weightedGini(left, k+1, right, total-k-1)
			if gini < bestGini {
				bestGini = gini
				bestFeature = feature
				bestThreshold = (v + next) / 2
			}
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}

func (b *treeBuilder) classCounts(idx []int) []int {
	counts := make([]int, b.classes)
	for _, i := range idx {
		counts[b.y[i]]++
	}
	return counts
}

func leafNode(counts []int, total int) *treeNode {
	probs := make([]float64, len(counts))
	if total > 0 {
		for c, n := range counts {
			probs[c] = float64(n) / float64(total)
		}
	}
	return &treeNode{Probs: probs}
}

func isPure(counts []int) bool {
	nonzero := 0
	for _, n := range counts {
		if n > 0 {
			nonzero++
		}
	}
	return nonzero <= 1
}

func gini(counts []int, total int) float64 {
	if total == 0 {
		return 0
	}
	sum := 0.0
	for _, n := range counts {
		p := float64(n) / float64(total)
		sum += p * p
	}
	return 1 - sum
}

func weightedGini(left []int, nLeft int, right []int, nRight int) float64 {
	total := float64(nLeft + nRight)
	return float64(nLeft)/total*gini(left, nLeft) + float64(nRight)/total*gini(right, nRight)
}
