// Package forest builds and evaluates random forest classifiers over
// sparse integer-valued samples: deterministic parallel training, label
// and probability prediction, out-of-bag evaluation, and persistence.
package forest

import (
	"context"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"github.com/mlindgren/sparserf/impurity"
	"github.com/mlindgren/sparserf/rferr"
	"github.com/mlindgren/sparserf/sample"
	"github.com/mlindgren/sparserf/tree"
)

// Forest is an ordered sequence of trees, each paired with the row indices
// that were out-of-bag for it.
type Forest struct {
	Trees      []*tree.Node
	OOBIndices [][]int
	NClasses   int
}

// Params are the forest-level hyperparameters passed to Train.
type Params struct {
	NTrees      int
	MaxFeatures RatioOrCount
	MaxSamples  RatioOrCount
	MinNodeSize int
	Metric      impurity.Kind
}

// Train grows an NTrees-tree forest. ncores is the worker pool size;
// rng is the master generator used only to draw the per-tree seed stream,
// sequentially, before any work is dispatched — see forest.go's Train
// implementation note below. cardFeatures is the feature-count upper bound
// a fractional MaxFeatures is resolved against (cmd/rfcli passes one past
// the largest feature index in ts).
//
// Train's worker pool is the generalization of forest/classifier.go's
// channel-fed Fit: the teacher seeds each worker goroutine from
// time.Now().UnixNano(), which is exactly the nondeterminism spec.md's
// Determinism property (train(seed=s, ncores=k1) == train(seed=s,
// ncores=k2)) rules out. Here every tree's seed is drawn from the master
// RNG up front, in order, and each worker writes its result to the output
// slot matching its seed's position — so the result never depends on
// which worker finishes which tree first.
func Train(ncores int, rng *rand.Rand, params Params, cardFeatures int, ts sample.Set) (*Forest, error) {
	if params.NTrees < 1 {
		return nil, rferr.Invalid("ntrees must be >= 1, got %d", params.NTrees)
	}
	n := len(ts)
	if n == 0 {
		return nil, rferr.Invalid("training set must not be empty")
	}
	if params.MinNodeSize < 1 || params.MinNodeSize >= n {
		return nil, rferr.Invalid("min_node_size must be in [1, %d), got %d", n, params.MinNodeSize)
	}

	metric, err := impurity.Resolve(params.Metric)
	if err != nil {
		return nil, err
	}

	maxFeatures, err := params.MaxFeatures.resolve(cardFeatures)
	if err != nil {
		return nil, err
	}
	if maxFeatures < 1 {
		return nil, rferr.Invalid("max_features resolved to %d, must be >= 1", maxFeatures)
	}

	maxSamples, err := params.MaxSamples.resolve(n)
	if err != nil {
		return nil, err
	}
	if maxSamples < 1 {
		return nil, rferr.Invalid("max_samples resolved to %d, must be >= 1", maxSamples)
	}

	hp := tree.Hyperparams{MaxFeatures: maxFeatures, MaxSamples: maxSamples, MinNodeSize: params.MinNodeSize}
	nClasses := ts.NClasses()

	seeds := make([]uint32, params.NTrees)
	for i := range seeds {
		seeds[i] = rng.Uint32()
	}

	if ncores < 1 {
		ncores = 1
	}

	trees := make([]*tree.Node, params.NTrees)
	oobs := make([][]int, params.NTrees)

	g, _ := errgroup.WithContext(context.Background())
	jobs := make(chan int)
	for w := 0; w < ncores; w++ {
		g.Go(func() error {
			for i := range jobs {
				treeRng := rand.New(rand.NewSource(int64(seeds[i])))
				root, oob := tree.Build(treeRng, metric, nClasses, hp, ts)
				trees[i] = root
				oobs[i] = oob
			}
			return nil
		})
	}
	for i := 0; i < params.NTrees; i++ {
		jobs <- i
	}
	close(jobs)

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Forest{Trees: trees, OOBIndices: oobs, NClasses: nClasses}, nil
}
