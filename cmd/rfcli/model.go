package main

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/mlindgren/sparserf/forest"
	"github.com/mlindgren/sparserf/impurity"
	"github.com/mlindgren/sparserf/sample"
)

// modelOptions mirrors the teacher's main.go modelOptions: the CLI-facing
// hyperparameters, resolved from flags before Fit.
type modelOptions struct {
	nTrees      int
	maxFeatures forest.RatioOrCount
	maxSamples  forest.RatioOrCount
	minNodeSize int
	nWorkers    int
	seed        int64
}

// fitModel trains a forest from ts, the CLI's equivalent of model.go's
// Model.Fit — generalized from the teacher's dense float/string-label
// Model wrapper (which dispatched to forest.Classifier or
// forest.Regressor depending on what the parser detected) to this domain's
// single classifier-only, sparse-int, integer-label path. Regression
// detection doesn't apply here: spec.md's Non-goals rule regression trees
// out entirely.
func fitModel(o modelOptions, ts sample.Set) (*forest.Forest, error) {
	params := forest.Params{
		NTrees:      o.nTrees,
		MaxFeatures: o.maxFeatures,
		MaxSamples:  o.maxSamples,
		MinNodeSize: o.minNodeSize,
		Metric:      impurity.Gini,
	}
	return forest.Train(o.nWorkers, rand.New(rand.NewSource(o.seed)), params, cardFeatures(ts), ts)
}

// predictLabels runs PredictLabel over every row of ts, the CLI's
// equivalent of model.go's Model.Predict.
func predictLabels(f *forest.Forest, rng *rand.Rand, ts sample.Set) []int {
	preds := make([]int, len(ts))
	for i, ex := range ts {
		label, _ := forest.PredictLabel(1, rng, f, ex)
		preds[i] = label
	}
	return preds
}

// report writes an OOB confusion matrix + accuracy summary to w, the
// sparse-int/integer-label generalization of model.go's Report/reportClf
// (which printed a string-label confusion matrix from
// forest.Classifier.ConfusionMatrix/Accuracy).
func report(w io.Writer, f *forest.Forest, rng *rand.Rand, ts sample.Set) {
	preds := forest.PredictOOB(rng, f, ts)
	cm := forest.ConfusionMatrix(preds, f.NClasses)
	acc := forest.Accuracy(preds)

	fmt.Fprintf(w, "OOB accuracy: %.4f\n", acc)
	fmt.Fprintln(w, "confusion matrix (rows = truth, cols = predicted):")
	for truth, row := range cm {
		fmt.Fprintf(w, "  %3d:", truth)
		for _, c := range row {
			fmt.Fprintf(w, " %5d", c)
		}
		fmt.Fprintln(w)
	}
}
