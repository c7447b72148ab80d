package forest

import (
	"math/rand"
	"os"
	"reflect"
	"testing"

	"github.com/mlindgren/sparserf/impurity"
	"github.com/mlindgren/sparserf/sample"
	"github.com/mlindgren/sparserf/tree"
)

func TestTrainPredictSeparable(t *testing.T) {
	ts := sample.Set{
		sample.New(map[int]int{0: 1, 1: 1}, 1),
		sample.New(map[int]int{0: 1}, 0),
		sample.New(map[int]int{1: 1}, 0),
		sample.New(map[int]int{}, 0),
	}

	params := Params{
		NTrees:      11,
		MaxFeatures: NewCount(2),
		MaxSamples:  NewCount(4),
		MinNodeSize: 1,
		Metric:      impurity.Gini,
	}

	f, err := Train(1, rand.New(rand.NewSource(1)), params, 2, ts)
	if err != nil {
		t.Fatalf("unexpected error training forest: %v", err)
	}

	predRng := rand.New(rand.NewSource(2))
	correct := 0
	for _, ex := range ts {
		label, _ := PredictLabel(1, predRng, f, ex)
		if label == ex.Label {
			correct++
		}
	}
	if correct != len(ts) {
		t.Errorf("expected perfect training accuracy on a separable set, got %d/%d", correct, len(ts))
	}
}

func TestTrainDeterministicAcrossWorkerCounts(t *testing.T) {
	ts := gaussianBlobSet(200, 3)
	params := Params{
		NTrees:      16,
		MaxFeatures: NewCount(2),
		MaxSamples:  NewCount(len(ts)),
		MinNodeSize: 2,
		Metric:      impurity.Gini,
	}

	f1, err := Train(1, rand.New(rand.NewSource(12345)), params, 4, ts)
	if err != nil {
		t.Fatal(err)
	}
	f8, err := Train(8, rand.New(rand.NewSource(12345)), params, 4, ts)
	if err != nil {
		t.Fatal(err)
	}

	if len(f1.Trees) != len(f8.Trees) {
		t.Fatalf("tree count differs: %d vs %d", len(f1.Trees), len(f8.Trees))
	}
	for i := range f1.Trees {
		if !nodesEqual(f1.Trees[i], f8.Trees[i]) {
			t.Fatalf("tree %d differs between ncores=1 and ncores=8", i)
		}
		if !intSlicesEqual(f1.OOBIndices[i], f8.OOBIndices[i]) {
			t.Fatalf("oob indices for tree %d differ between ncores=1 and ncores=8", i)
		}
	}
}

func TestOOBCoverage(t *testing.T) {
	ts := gaussianBlobSet(300, 3)
	params := Params{
		NTrees:      200,
		MaxFeatures: NewCount(2),
		MaxSamples:  NewCount(len(ts)),
		MinNodeSize: 2,
		Metric:      impurity.Gini,
	}
	f, err := Train(4, rand.New(rand.NewSource(7)), params, 4, ts)
	if err != nil {
		t.Fatal(err)
	}

	oob := make(map[int]bool)
	for _, rows := range f.OOBIndices {
		for _, r := range rows {
			oob[r] = true
		}
	}
	frac := float64(len(oob)) / float64(len(ts))
	if frac < 0.99 {
		t.Errorf("expected >= 0.99 of rows OOB at least once with 200 trees, got %v", frac)
	}
}

func TestSaveRestoreDropsOOB(t *testing.T) {
	ts := gaussianBlobSet(40, 2)
	params := Params{
		NTrees:      5,
		MaxFeatures: NewCount(2),
		MaxSamples:  NewCount(len(ts)),
		MinNodeSize: 1,
		Metric:      impurity.Gini,
	}
	f, err := Train(1, rand.New(rand.NewSource(3)), params, 2, ts)
	if err != nil {
		t.Fatal(err)
	}

	path := t.TempDir() + "/forest.gob"
	if err := Save(path, f); err != nil {
		t.Fatalf("save: %v", err)
	}
	restored, err := Restore(path)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}

	want := DropOOB(f)
	if len(restored.Trees) != len(want.Trees) {
		t.Fatalf("expected %d trees, got %d", len(want.Trees), len(restored.Trees))
	}
	for _, rows := range restored.OOBIndices {
		if len(rows) != 0 {
			t.Errorf("expected OOB indices to be dropped, found %d", len(rows))
		}
	}
	os.Remove(path)
}

func BenchmarkTrain(b *testing.B) {
	ts := gaussianBlobSet(500, 3)
	params := Params{
		NTrees:      100,
		MaxFeatures: NewCount(3),
		MaxSamples:  NewCount(len(ts)),
		MinNodeSize: 2,
		Metric:      impurity.Gini,
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Train(4, rand.New(rand.NewSource(int64(i))), params, 4, ts); err != nil {
			b.Fatal(err)
		}
	}
}

func nodesEqual(a, b *tree.Node) bool {
	return reflect.DeepEqual(a, b)
}

func intSlicesEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// gaussianBlobSet builds a small synthetic dataset with nClasses separable
// clusters over a few sparse integer features, in the spirit of the
// teacher's embedded iris literal (forest/iris_test.go) but generated
// rather than pasted in, since there's no natural sparse-integer analogue
// of the iris table to carry over verbatim.
func gaussianBlobSet(n, nClasses int) sample.Set {
	rng := rand.New(rand.NewSource(42))
	ts := make(sample.Set, n)
	for i := range ts {
		label := i % nClasses
		center := label * 10
		ts[i] = sample.New(map[int]int{
			0: center + rng.Intn(5),
			1: rng.Intn(3),
		}, label)
	}
	return ts
}
