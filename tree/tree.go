// Package tree builds and evaluates a single CART classification tree over
// sparse integer-valued samples. The induction loop — bootstrap the rows,
// subsample the candidate features at each node, score every split, break
// ties at random — follows tree/classifier.go's Fit/fit, generalized from
// dense float64 feature columns to the sparse sample.Set representation
// and from a best-of-one scan to the full split.Evaluate candidate list.
package tree

import (
	"math/rand"
	"sort"

	"github.com/mlindgren/sparserf/bootstrap"
	"github.com/mlindgren/sparserf/feature"
	"github.com/mlindgren/sparserf/impurity"
	"github.com/mlindgren/sparserf/rferr"
	"github.com/mlindgren/sparserf/sample"
	"github.com/mlindgren/sparserf/split"
)

// Node is one node of a fitted tree: a Leaf with a Label, or an Internal
// node testing Feature against Threshold (value <= threshold goes Left).
type Node struct {
	Leaf      bool
	Label     int
	Feature   int
	Threshold int
	Left      *Node
	Right     *Node
}

// Hyperparams are the resolved, per-tree knobs the forest builder derives
// from its own Params before calling Build. MaxFeatures and MaxSamples are
// exact counts here; ratio-to-count resolution happens one level up, in
// package forest, where the upper bounds (card_features, N) are known.
type Hyperparams struct {
	MaxFeatures int
	MaxSamples  int
	MinNodeSize int
}

// Build grows one tree: draws a bootstrap sample of hp.MaxSamples rows
// from ts using rng, grows the tree over that sample, and returns the tree
// together with the out-of-bag row indices (rows never drawn into the
// bootstrap). rng is this tree's own generator; the forest builder seeds
// one independently per tree so tree construction order never affects the
// result.
func Build(rng *rand.Rand, metric impurity.Metric, nClasses int, hp Hyperparams, ts sample.Set) (*Node, []int) {
	rows, oob := bootstrap.Sample(rng, hp.MaxSamples, len(ts))
	root := growNode(rng, metric, nClasses, hp, ts, rows)
	return root, oob
}

// growNode implements spec.md §4.5's recursive construction directly
// (recursion, not the teacher's explicit stack) since Go's goroutine stacks
// grow on demand and tree depth here is bounded by MinNodeSize long before
// it threatens stack exhaustion.
func growNode(rng *rand.Rand, metric impurity.Metric, nClasses int, hp Hyperparams, ts sample.Set, rows []int) *Node {
	if len(rows) <= hp.MinNodeSize {
		return leaf(majority(rng, ts, rows))
	}

	// A node whose rows all share one label is a leaf.
	first := ts[rows[0]].Label
	pure := true
	for _, r := range rows[1:] {
		if ts[r].Label != first {
			pure = false
			break
		}
	}
	if pure {
		return leaf(first)
	}

	cands := feature.NonConstant(ts, rows)
	shuffle(rng, cands)
	if hp.MaxFeatures < len(cands) {
		cands = cands[:hp.MaxFeatures]
	}
	if len(cands) == 0 {
		return leaf(majority(rng, ts, rows))
	}

	splits := split.Evaluate(ts, rows, cands, nClasses, metric)
	if len(splits) == 0 {
		rferr.Panic("tree: split.Evaluate returned no candidates for a non-empty feature list")
	}

	chosen := pickMinCost(rng, splits)
	left, right := chosen.Partition(ts, rows)

	switch {
	case len(left) == 0:
		return leaf(majority(rng, ts, right))
	case len(right) == 0:
		return leaf(majority(rng, ts, left))
	case chosen.Cost == 0.0:
		// Pure parent: both children are provably pure, so there is no
		// need to recurse a level deeper just to rediscover that.
		return &Node{
			Feature:   chosen.Feature,
			Threshold: chosen.Threshold,
			Left:      leaf(majority(rng, ts, left)),
			Right:     leaf(majority(rng, ts, right)),
		}
	default:
		return &Node{
			Feature:   chosen.Feature,
			Threshold: chosen.Threshold,
			Left:      growNode(rng, metric, nClasses, hp, ts, left),
			Right:     growNode(rng, metric, nClasses, hp, ts, right),
		}
	}
}

// pickMinCost breaks ties at minimum cost at random, per spec.md §4.4/§4.5.
func pickMinCost(rng *rand.Rand, cands []split.Candidate) split.Candidate {
	best := cands[0].Cost
	for _, c := range cands[1:] {
		if c.Cost < best {
			best = c.Cost
		}
	}
	var tied []split.Candidate
	for _, c := range cands {
		if c.Cost == best {
			tied = append(tied, c)
		}
	}
	return tied[rng.Intn(len(tied))]
}

func leaf(label int) *Node {
	return &Node{Leaf: true, Label: label}
}

// majority returns the plurality class label among rows, breaking ties at
// random. rows must be non-empty; an empty call is an invariant violation
// a correct builder never makes (every recursive call holds at least one
// row, and the degenerate-split branches above only call majority on a
// non-empty side).
func majority(rng *rand.Rand, ts sample.Set, rows []int) int {
	if len(rows) == 0 {
		rferr.Panic("tree: majority class of an empty sample set")
	}
	counts := make(map[int]int)
	for _, r := range rows {
		counts[ts[r].Label]++
	}
	best := -1
	for _, c := range counts {
		if c > best {
			best = c
		}
	}
	var tied []int
	for lbl, c := range counts {
		if c == best {
			tied = append(tied, lbl)
		}
	}
	sort.Ints(tied)
	return tied[rng.Intn(len(tied))]
}

// shuffle does a full Fisher-Yates shuffle of c in place, the same Knuth
// Algorithm P the teacher uses (tree/classifier.go, tree/build.go); growNode
// then keeps the first MaxFeatures entries as the random feature subsample,
// without allocating a separate sample slice.
func shuffle(rng *rand.Rand, c []feature.Candidate) {
	for i := len(c) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		c[i], c[j] = c[j], c[i]
	}
}

// Predict walks the tree for one sample, following Left when the tested
// feature's value is <= Threshold and Right otherwise.
func Predict(root *Node, s sample.Sample) int {
	n := root
	for !n.Leaf {
		if s.ValueOf(n.Feature) <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Label
}
