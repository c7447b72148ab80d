package forest

import (
	"sort"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// ROCAUC computes the area under the ROC curve for target against preds,
// per spec.md §4.9: each prediction becomes a (score, is_target) pair
// where score is the winning label's vote fraction if it predicted
// target, or its complement otherwise. AUC itself is delegated to the
// external collaborator spec.md leaves unspecified — here
// gonum.org/v1/gonum/stat.ROC for the curve and gonum/integrate's
// trapezoid rule for the area, the same pairing the rest of the pack uses
// for ROC/AUC (see SPEC_FULL.md §9).
func ROCAUC(preds []OOBPrediction, target int) float64 {
	scores := make([]float64, len(preds))
	classes := make([]bool, len(preds))
	for i, p := range preds {
		s := p.Prob
		if p.Predicted != target {
			s = 1 - p.Prob
		}
		scores[i] = s
		classes[i] = p.Truth == target
	}

	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return scores[idx[i]] < scores[idx[j]] })

	sortedScores := make([]float64, len(scores))
	sortedClasses := make([]bool, len(scores))
	for i, j := range idx {
		sortedScores[i] = scores[j]
		sortedClasses[i] = classes[j]
	}

	tpr, fpr, _ := stat.ROC(nil, sortedScores, sortedClasses, nil)
	if len(fpr) < 2 {
		return 0.0
	}
	sort.Sort(byFPR{fpr, tpr})
	return integrate.Trapezoidal(fpr, tpr)
}

// byFPR sorts (fpr, tpr) pairs ascending by fpr, the ordering
// integrate.Trapezoidal requires of its x argument. stat.ROC's output is
// already non-decreasing in fpr in practice, but sorting defensively costs
// nothing at this size and removes the dependency on that being true.
type byFPR struct {
	fpr, tpr []float64
}

func (b byFPR) Len() int           { return len(b.fpr) }
func (b byFPR) Less(i, j int) bool { return b.fpr[i] < b.fpr[j] }
func (b byFPR) Swap(i, j int) {
	b.fpr[i], b.fpr[j] = b.fpr[j], b.fpr[i]
	b.tpr[i], b.tpr[j] = b.tpr[j], b.tpr[i]
}
