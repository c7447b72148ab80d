// Command rfcli trains and evaluates a sparse-integer-feature random
// forest classifier from the command line. It mirrors the teacher's
// main.go: same flag library, same -profile switch, same
// fit-or-predict-depending-on-a-flag shape — rebuilt around this module's
// sparse-int, classifier-only core instead of the teacher's dense
// float/string-label classifier-or-regressor dispatch.
package main

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"runtime"

	"github.com/davecheney/profile"

	flag "github.com/docker/docker/pkg/mflag"

	"github.com/mlindgren/sparserf/forest"
	"github.com/mlindgren/sparserf/sample"
)

var (
	dataFile    = flag.String([]string{"d", "-data"}, "", "sparse training/prediction data (label f:v f:v ...)")
	predictFile = flag.String([]string{"p", "-predictions"}, "", "file to write predictions to; if set, runs prediction instead of training")
	modelFile   = flag.String([]string{"f", "-final_model"}, "rf.model", "file to read/write the fitted model")

	nTrees      = flag.Int([]string{"-trees"}, 500, "number of trees")
	maxFeatures = flag.Float64([]string{"-max_features"}, -1, "features considered per split: >1 exact count, in (0,1] a ratio, <=0 defaults to sqrt(card_features)")
	maxSamples  = flag.Float64([]string{"-max_samples"}, 1.0, "bootstrap size per tree: >1 exact count, in (0,1] a ratio of N")
	minNodeSize = flag.Int([]string{"-min_node_size"}, 1, "stop splitting a node at or below this many samples")
	seed        = flag.Int64([]string{"-seed"}, 1, "master RNG seed")

	nWorkers   = flag.Int([]string{"-workers"}, 1, "number of workers for fitting trees")
	runProfile = flag.Bool([]string{"-profile"}, false, "cpu profile")
)

func main() {
	flag.Parse()

	if *nWorkers > 1 {
		runtime.GOMAXPROCS(runtime.NumCPU())
	}
	if *runProfile {
		defer profile.Start(profile.CPUProfile).Stop()
	}

	if *dataFile == "" {
		fmt.Fprintf(os.Stderr, "Usage of rfcli:\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	f, err := os.Open(*dataFile)
	if err != nil {
		fatal("error opening data file", err.Error())
	}
	ts, err := parseSparse(f)
	f.Close()
	if err != nil {
		fatal("error parsing input data", err.Error())
	}

	if *predictFile != "" {
		runPredict(ts)
	} else {
		runFit(ts)
	}
}

// ratioOrCount turns a CLI float64 flag into a forest.RatioOrCount: values
// in (0, 1] are a ratio, anything else is an exact count, matching the
// flag help text above and spec.md §6's ratio-or-count convention.
func ratioOrCount(v float64) forest.RatioOrCount {
	if v > 0 && v <= 1 {
		return forest.NewRatio(v)
	}
	return forest.NewCount(int(v))
}

// defaultMaxFeatures mirrors main.go's "-1 defaults to sqrt(# features)"
// convention for a feature count the caller never resolved explicitly.
func defaultMaxFeatures(ts sample.Set) forest.RatioOrCount {
	n := math.Sqrt(float64(cardFeatures(ts)))
	if n < 1 {
		n = 1
	}
	return forest.NewCount(int(n))
}

func runFit(ts sample.Set) {
	mf := defaultMaxFeatures(ts)
	if *maxFeatures > 0 {
		mf = ratioOrCount(*maxFeatures)
	}

	opt := modelOptions{
		nTrees:      *nTrees,
		maxFeatures: mf,
		maxSamples:  ratioOrCount(*maxSamples),
		minNodeSize: *minNodeSize,
		nWorkers:    *nWorkers,
		seed:        *seed,
	}

	f, err := fitModel(opt, ts)
	if err != nil {
		fatal("error fitting model:", err.Error())
	}

	if err := forest.Save(*modelFile, forest.DropOOB(f)); err != nil {
		fatal("error saving model:", err.Error())
	}

	report(os.Stderr, f, rand.New(rand.NewSource(*seed)), ts)
}

func runPredict(ts sample.Set) {
	f, err := forest.Restore(*modelFile)
	if err != nil {
		fatal("error loading model:", err.Error())
	}

	preds := predictLabels(f, rand.New(rand.NewSource(*seed)), ts)

	out, err := os.Create(*predictFile)
	if err != nil {
		fatal("error creating", *predictFile, err.Error())
	}
	defer out.Close()

	if err := writePredictions(out, preds); err != nil {
		fatal("error writing predictions:", err.Error())
	}
}

func fatal(a ...interface{}) {
	fmt.Fprintln(os.Stderr, a...)
	os.Exit(1)
}
