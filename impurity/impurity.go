// Package impurity computes node impurity and split cost for the tree
// builder. Gini is the only implemented measure; Entropy and MCC are
// declared so callers can name them, but resolve to Unimplemented, matching
// the scope spec.md's Impurity & Cost component leaves for them.
package impurity

import (
	"fmt"

	"github.com/mlindgren/sparserf/rferr"
)

// Kind names an impurity measure.
type Kind int

const (
	Gini Kind = iota
	Entropy
	MCC
)

// Metric computes the impurity of a node given its sample count and
// per-class counts. Implementations must not mutate ct.
type Metric func(n int, ct []int) float64

// Resolve returns the Metric for k, or an error wrapping
// rferr.ErrUnimplemented for measures that are declared but not built.
func Resolve(k Kind) (Metric, error) {
	switch k {
	case Gini:
		return giniImpurity, nil
	case Entropy:
		return nil, rferr.Unimplemented("entropy impurity")
	case MCC:
		return nil, rferr.Unimplemented("mcc impurity")
	default:
		return nil, rferr.Invalid(fmt.Sprintf("unknown impurity kind %d", k))
	}
}

// giniImpurity is 1 - sum(p_i^2) over the observed class proportions,
// the same computation as the teacher's package-level gini(n, ct) in
// tree/classifier.go.
func giniImpurity(n int, ct []int) float64 {
	if n == 0 {
		return 0
	}
	g := 1.0
	fn := float64(n)
	for _, c := range ct {
		if c == 0 {
			continue
		}
		p := float64(c) / fn
		g -= p * p
	}
	return g
}

// Cost returns the cardinality-weighted impurity of a candidate split:
// (leftN/n)*metric(left) + (rightN/n)*metric(right). A side with zero
// samples contributes nothing and the cost collapses to the other side's
// impurity; both sides empty is an invariant violation, since a split with
// no samples at all is never offered to Cost.
func Cost(metric Metric, leftN, rightN int, leftCt, rightCt []int) float64 {
	switch {
	case leftN == 0 && rightN == 0:
		rferr.Panic("cost: both sides of split are empty")
		return 0
	case leftN == 0:
		return metric(rightN, rightCt)
	case rightN == 0:
		return metric(leftN, leftCt)
	default:
		n := float64(leftN + rightN)
		return (float64(leftN)/n)*metric(leftN, leftCt) + (float64(rightN)/n)*metric(rightN, rightCt)
	}
}
