package forest

import (
	"context"
	"math/rand"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/mlindgren/sparserf/rferr"
	"github.com/mlindgren/sparserf/sample"
	"github.com/mlindgren/sparserf/tree"
)

// PredictProba returns, for one sample, the fraction of trees in f that
// predicted each label: probability(l) = count(l) / len(f.Trees). Labels
// with zero votes are omitted. ncores > 1 splits the tree traversal across
// workers; a single traversal is cheap enough that this mostly matters for
// very large forests.
func PredictProba(ncores int, f *Forest, s sample.Sample) map[int]float64 {
	if ncores < 1 {
		ncores = 1
	}
	votes := make([]int, len(f.Trees))
	if ncores == 1 || len(f.Trees) < ncores {
		for i, root := range f.Trees {
			votes[i] = tree.Predict(root, s)
		}
	} else {
		g, _ := errgroup.WithContext(context.Background())
		chunk := (len(f.Trees) + ncores - 1) / ncores
		for start := 0; start < len(f.Trees); start += chunk {
			end := start + chunk
			if end > len(f.Trees) {
				end = len(f.Trees)
			}
			start, end := start, end
			g.Go(func() error {
				for i := start; i < end; i++ {
					votes[i] = tree.Predict(f.Trees[i], s)
				}
				return nil
			})
		}
		_ = g.Wait()
	}

	counts := make(map[int]int)
	for _, v := range votes {
		counts[v]++
	}
	t := float64(len(f.Trees))
	probs := make(map[int]float64, len(counts))
	for lbl, c := range counts {
		probs[lbl] = float64(c) / t
	}
	return probs
}

// PredictLabel picks the plurality label from PredictProba, breaking ties
// among labels at the maximum probability at random.
func PredictLabel(ncores int, rng *rand.Rand, f *Forest, s sample.Sample) (label int, prob float64) {
	probs := PredictProba(ncores, f, s)
	return pickMax(rng, probs)
}

// MarginMode selects how predict_label_margin computes the competing
// probability subtracted from the chosen label's probability. See
// spec.md §9: the reference behavior computes the competitor only over
// the set of labels tied with the chosen one, which can produce a
// misleadingly large margin when the true runner-up isn't in that set.
type MarginMode int

const (
	// MarginOverTiedCandidates matches the documented reference behavior.
	MarginOverTiedCandidates MarginMode = iota
	// MarginOverAllLabels computes the competitor over the entire
	// probability distribution, the intuitive definition spec.md §9
	// flags as the corrected alternative.
	MarginOverAllLabels
)

// PredictLabelMargin returns the chosen label, its probability, and its
// margin over the runner-up, per mode.
func PredictLabelMargin(ncores int, rng *rand.Rand, f *Forest, s sample.Sample, mode MarginMode) (label int, prob, margin float64) {
	probs := PredictProba(ncores, f, s)
	label, prob = pickMax(rng, probs)

	other := 0.0
	switch mode {
	case MarginOverAllLabels:
		for lbl, p := range probs {
			if lbl == label {
				continue
			}
			if p > other {
				other = p
			}
		}
	default:
		for lbl, p := range probs {
			if lbl == label || p != prob {
				continue
			}
			if p > other {
				other = p
			}
		}
	}
	return label, prob, prob - other
}

func pickMax(rng *rand.Rand, probs map[int]float64) (int, float64) {
	if len(probs) == 0 {
		rferr.Panic("predict: empty probability distribution")
	}
	maxP := -1.0
	for _, p := range probs {
		if p > maxP {
			maxP = p
		}
	}
	var tied []int
	for lbl, p := range probs {
		if p == maxP {
			tied = append(tied, lbl)
		}
	}
	sort.Ints(tied)
	return tied[rng.Intn(len(tied))], maxP
}

// PredictMany applies PredictProba to every sample, preserving order.
func PredictMany(ncores int, f *Forest, samples []sample.Sample) []map[int]float64 {
	out := make([]map[int]float64, len(samples))
	if ncores < 1 {
		ncores = 1
	}
	if ncores == 1 {
		for i, s := range samples {
			out[i] = PredictProba(1, f, s)
		}
		return out
	}

	g, _ := errgroup.WithContext(context.Background())
	jobs := make(chan int)
	for w := 0; w < ncores; w++ {
		g.Go(func() error {
			for i := range jobs {
				out[i] = PredictProba(1, f, samples[i])
			}
			return nil
		})
	}
	for i := range samples {
		jobs <- i
	}
	close(jobs)
	_ = g.Wait()
	return out
}

// MarginResult is one sample's prediction from PredictManyMargin.
type MarginResult struct {
	Label  int
	Prob   float64
	Margin float64
}

// PredictManyMargin applies PredictLabelMargin to every sample, preserving
// order. Each sample gets its own rng so the fan-out can't make two
// samples' tie-breaks interleave nondeterministically; callers that need a
// single reproducible stream should derive per-sample seeds themselves.
func PredictManyMargin(ncores int, rngs []*rand.Rand, f *Forest, samples []sample.Sample, mode MarginMode) []MarginResult {
	out := make([]MarginResult, len(samples))
	if ncores < 1 {
		ncores = 1
	}
	if ncores == 1 {
		for i, s := range samples {
			l, p, m := PredictLabelMargin(1, rngs[i], f, s, mode)
			out[i] = MarginResult{l, p, m}
		}
		return out
	}

	g, _ := errgroup.WithContext(context.Background())
	jobs := make(chan int)
	for w := 0; w < ncores; w++ {
		g.Go(func() error {
			for i := range jobs {
				l, p, m := PredictLabelMargin(1, rngs[i], f, samples[i], mode)
				out[i] = MarginResult{l, p, m}
			}
			return nil
		})
	}
	for i := range samples {
		jobs <- i
	}
	close(jobs)
	_ = g.Wait()
	return out
}
