package forest

import (
	"math"
	"math/rand"
	"sort"

	"github.com/mlindgren/sparserf/sample"
	"github.com/mlindgren/sparserf/tree"
)

// OOBPrediction is one row's out-of-bag evaluation: the true label, the
// majority-vote label among trees that didn't see the row during
// training, and the fraction of those trees that agreed with the vote
// (used by ROCAUC).
type OOBPrediction struct {
	Row       int
	Truth     int
	Predicted int
	Prob      float64
}

// PredictOOB implements spec.md §4.9: for every row that was out-of-bag
// for at least one tree, aggregate that tree's predictions via majority
// vote (random tie-break via rng). Rows never out-of-bag for any tree are
// omitted, not erroneous.
func PredictOOB(rng *rand.Rand, f *Forest, ts sample.Set) []OOBPrediction {
	perRow := make(map[int][]int)
	for ti, root := range f.Trees {
		for _, row := range f.OOBIndices[ti] {
			perRow[row] = append(perRow[row], tree.Predict(root, ts[row]))
		}
	}

	rows := make([]int, 0, len(perRow))
	for row := range perRow {
		rows = append(rows, row)
	}
	sort.Ints(rows)

	out := make([]OOBPrediction, 0, len(rows))
	for _, row := range rows {
		votes := perRow[row]
		pred, prob := majorityVote(rng, votes)
		out = append(out, OOBPrediction{Row: row, Truth: ts[row].Label, Predicted: pred, Prob: prob})
	}
	return out
}

func majorityVote(rng *rand.Rand, votes []int) (label int, prob float64) {
	counts := make(map[int]int)
	for _, v := range votes {
		counts[v]++
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
	label = tied[rng.Intn(len(tied))]
	prob = float64(counts[label]) / float64(len(votes))
	return label, prob
}

// Accuracy is correct / total over preds.
func Accuracy(preds []OOBPrediction) float64 {
	if len(preds) == 0 {
		return 0
	}
	correct := 0
	for _, p := range preds {
		if p.Truth == p.Predicted {
			correct++
		}
	}
	return float64(correct) / float64(len(preds))
}

// ConfusionMatrix counts (truth, predicted) pairs across preds, the way
// the teacher's forest.Classifier.ConfusionMatrix/oobCtr.compute did.
func ConfusionMatrix(preds []OOBPrediction, nClasses int) [][]int {
	m := make([][]int, nClasses)
	for i := range m {
		m[i] = make([]int, nClasses)
	}
	for _, p := range preds {
		m[p.Truth][p.Predicted]++
	}
	return m
}

// MCC computes the Matthews correlation coefficient for target against
// preds, per spec.md §4.9. A zero denominator (one or more marginal totals
// is zero) returns 0.0 by convention.
func MCC(preds []OOBPrediction, target int) float64 {
	var tp, tn, fp, fn float64
	for _, p := range preds {
		predPos := p.Predicted == target
		truePos := p.Truth == target
		switch {
		case predPos && truePos:
			tp++
		case predPos && !truePos:
			fp++
		case !predPos && truePos:
			fn++
		default:
			tn++
		}
	}
	denom := math.Sqrt((tp + fp) * (tp + fn) * (tn + fp) * (tn + fn))
	if denom == 0 {
		return 0.0
	}
	return (tp*tn - fp*fn) / denom
}
