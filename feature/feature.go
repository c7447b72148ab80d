// Package feature enumerates, for a subset of rows, which features carry
// more than one observed value and what those values are. This is the
// generalization of the teacher's incremental constantFeatures bitmask
// (tree/classifier.go, tree/build.go) into an explicit per-node value-set
// computation, since the splitter needs the full candidate threshold set,
// not just a constant/non-constant bit.
package feature

import (
	"sort"

	"github.com/mlindgren/sparserf/sample"
)

// Candidate is one feature eligible to be split on, with its sorted,
// de-duplicated set of observed values over the row subset it was built
// from. Values always includes 0: the sparse representation means a row
// that omits the feature is defined to carry value 0, so 0 must always be
// a candidate threshold even when no row in the subset explicitly stores
// it. See spec.md §4.2 — this is load-bearing for correctness (S3), not an
// optimization: it's what lets a feature that is always the same explicit
// non-zero value still surface a pair of wholly-degenerate thresholds
// (0 and that value) that the tree builder discards as leaf-producing
// rather than ever building an internal node from it.
type Candidate struct {
	Feature int
	Values  []int
}

// NonConstant returns, in ascending feature-index order, the Candidates
// for every feature observed across rows that carries more than one
// distinct value (after the 0 injection described above). A feature never
// referenced by any row in rows is not returned at all: spec.md's value-set
// is built only from features "appearing in any sample" of the subset.
func NonConstant(ts sample.Set, rows []int) []Candidate {
	seen := make(map[int]map[int]struct{})
	for _, r := range rows {
		for f, v := range ts[r].Features {
			vs := seen[f]
			if vs == nil {
				vs = make(map[int]struct{})
				seen[f] = vs
			}
			vs[v] = struct{}{}
		}
	}

	out := make([]Candidate, 0, len(seen))
	for f, vs := range seen {
		vs[0] = struct{}{}
		if len(vs) < 2 {
			continue
		}
		values := make([]int, 0, len(vs))
		for v := range vs {
			values = append(values, v)
		}
		sort.Ints(values)
		out = append(out, Candidate{Feature: f, Values: values})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Feature < out[j].Feature })
	return out
}
