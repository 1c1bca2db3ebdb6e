package classifier

import (
	"math"
	"math/rand"
	"testing"
)

func TestForestLearnsThreshold(t *testing.T) {
	// One feature, clean boundary at 0.5.
	var X [][]float64
	var y []int
	for i := 0; i < 100; i++ {
		v := float64(i) / 100
		X = append(X, []float64{v})
		if v < 0.5 {
			y = append(y, 0)
		} else {
			y = append(y, 1)
		}
	}

	cfg := forestConfig{trees: 10, maxDepth: 3, minSplit: 2, featuresPerSplit: 1}
	f := fitForest(X, y, 2, cfg, rand.New(rand.NewSource(1)))

	if got := argmax(f.proba([]float64{0.1})); got != 0 {
		t.Errorf("x=0.1 classified as %d, want 0", got)
	}
	if got := argmax(f.proba([]float64{0.9})); got != 1 {
		t.Errorf("x=0.9 classified as %d, want 1", got)
	}
}

func TestForestProbaSumsToOne(t *testing.T) {
	X := [][]float64{{1, 0}, {2, 1}, {3, 0}, {4, 1}, {5, 0}, {6, 1}}
	y := []int{0, 1, 0, 1, 2, 2}

	cfg := forestConfig{trees: 5, maxDepth: 2, minSplit: 2, featuresPerSplit: 2}
	f := fitForest(X, y, 3, cfg, rand.New(rand.NewSource(7)))

	for _, x := range X {
		probs := f.proba(x)
		sum := 0.0
		for _, p := range probs {
			sum += p
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Fatalf("probabilities sum to %v, want 1", sum)
		}
	}
}

func TestForestDeterminism(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {4}, {5}, {6}, {7}, {8}}
	y := []int{0, 0, 0, 0, 1, 1, 1, 1}
	cfg := forestConfig{trees: 8, maxDepth: 4, minSplit: 2, featuresPerSplit: 1}

	a := fitForest(X, y, 2, cfg, rand.New(rand.NewSource(3)))
	b := fitForest(X, y, 2, cfg, rand.New(rand.NewSource(3)))

	for _, x := range X {
		pa, pb := a.proba(x), b.proba(x)
		for c := range pa {
			if pa[c] != pb[c] {
				t.Fatalf("same-seed forests disagree at %v: %v vs %v", x, pa, pb)
			}
		}
	}
}

func TestArgmaxTiesToLowestIndex(t *testing.T) {
	if got := argmax([]float64{0.4, 0.4, 0.2}); got != 0 {
		t.Errorf("argmax = %d, want 0 on leading tie", got)
	}
	if got := argmax([]float64{0.1, 0.45, 0.45}); got != 1 {
		t.Errorf("argmax = %d, want 1 on trailing tie", got)
	}
	if got := argmax([]float64{0.2}); got != 0 {
		t.Errorf("argmax = %d, want 0 for single class", got)
	}
}

func TestLeafNodeProbs(t *testing.T) {
	leaf := leafNode([]int{3, 1}, 4)
	if !leaf.leaf() {
		t.Fatal("leafNode produced an internal node")
	}
	if leaf.Probs[0] != 0.75 || leaf.Probs[1] != 0.25 {
		t.Errorf("leaf probs = %v, want [0.75 0.25]", leaf.Probs)
	}
}

func TestGiniImpurity(t *testing.T) {
	if got := gini([]int{4, 0}, 4); got != 0 {
		t.Errorf("pure gini = %v, want 0", got)
	}
	if got := gini([]int{2, 2}, 4); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("balanced gini = %v, want 0.5", got)
	}
	if !isPure([]int{0, 5, 0}) {
		t.Error("single-class counts reported impure")
	}
	if isPure([]int{1, 5, 0}) {
		t.Error("mixed counts reported pure")
	}
}
