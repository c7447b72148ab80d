package tree

import (
	"math/rand"
	"testing"

	"github.com/mlindgren/sparserf/impurity"
	"github.com/mlindgren/sparserf/sample"
)

func andLikeSet() sample.Set {
	return sample.Set{
		sample.New(map[int]int{0: 1, 1: 1}, 1),
		sample.New(map[int]int{0: 1}, 0),
		sample.New(map[int]int{1: 1}, 0),
		sample.New(map[int]int{}, 0),
	}
}

func TestGrowNodeAndPredictSeparable(t *testing.T) {
	ts := andLikeSet()
	hp := Hyperparams{MaxFeatures: 2, MaxSamples: len(ts), MinNodeSize: 1}
	rows := []int{0, 1, 2, 3}

	// growNode is exercised directly (bypassing Build's bootstrap) so the
	// tree sees every distinct row; Build's own bootstrap variance is
	// covered at the forest level, where a majority vote over many trees
	// is what makes a single unlucky bootstrap draw harmless (see
	// forest.TestTrainPredictSeparable).
	for trial := 0; trial < 11; trial++ {
		rng := rand.New(rand.NewSource(int64(trial)))
		root := growNode(rng, giniFromResolve(t), 2, hp, ts, rows)

		for i, ex := range ts {
			got := Predict(root, ex)
			if got != ex.Label {
				t.Errorf("trial %d: sample %d: expected label %d, got %d", trial, i, ex.Label, got)
			}
		}
	}
}

func TestBuildSingleClassIsOneLeaf(t *testing.T) {
	ts := make(sample.Set, 10)
	for i := range ts {
		ts[i] = sample.New(map[int]int{0: i}, 7)
	}
	hp := Hyperparams{MaxFeatures: 1, MaxSamples: len(ts), MinNodeSize: 1}
	rng := rand.New(rand.NewSource(1))

	root, _ := Build(rng, giniFromResolve(t), 8, hp, ts)
	if !root.Leaf {
		t.Fatal("expected a single-class training set to produce a single leaf")
	}
	if root.Label != 7 {
		t.Errorf("expected leaf label 7, got %d", root.Label)
	}
}

func TestBuildIgnoresConstantFeature(t *testing.T) {
	ts := make(sample.Set, 20)
	for i := range ts {
		label := i % 2
		ts[i] = sample.New(map[int]int{3: label, 5: 42}, label)
	}
	hp := Hyperparams{MaxFeatures: 2, MaxSamples: len(ts), MinNodeSize: 1}
	rng := rand.New(rand.NewSource(2))

	root, _ := Build(rng, giniFromResolve(t), 2, hp, ts)
	assertNoSplitOnFeature(t, root, 5)
}

func assertNoSplitOnFeature(t *testing.T, n *Node, feature int) {
	t.Helper()
	if n.Leaf {
		return
	}
	if n.Feature == feature {
		t.Errorf("found a split on feature %d, which is constant", feature)
	}
	assertNoSplitOnFeature(t, n.Left, feature)
	assertNoSplitOnFeature(t, n.Right, feature)
}

func TestPredictRoutesEveryTrainingSample(t *testing.T) {
	ts := make(sample.Set, 50)
	rng := rand.New(rand.NewSource(3))
	for i := range ts {
		ts[i] = sample.New(map[int]int{0: rng.Intn(5), 1: rng.Intn(3)}, rng.Intn(3))
	}
	hp := Hyperparams{MaxFeatures: 2, MaxSamples: len(ts), MinNodeSize: 1}

	root, _ := Build(rand.New(rand.NewSource(4)), giniFromResolve(t), 3, hp, ts)
	for i, ex := range ts {
		// every sample must route to exactly one leaf without panicking
		_ = Predict(root, ex)
		_ = i
	}
}

func giniFromResolve(t *testing.T) impurity.Metric {
	t.Helper()
	m, err := impurity.Resolve(impurity.Gini)
	if err != nil {
		t.Fatalf("unexpected error resolving gini metric: %v", err)
	}
	return m
}
