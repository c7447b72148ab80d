// Package split finds candidate splits for a node: one cost-scored
// (feature, threshold) pair per observed value of every candidate feature.
// The scan is grounded on tree/classifier.go's bestSplit — a single
// ascending pass that maintains running left/right class counts rather
// than recomputing impurity from scratch per threshold — generalized from
// a single best-of scan into a full candidate list, since spec.md's
// Splitter returns every candidate rather than just the winner.
package split

import (
	"github.com/mlindgren/sparserf/feature"
	"github.com/mlindgren/sparserf/impurity"
	"github.com/mlindgren/sparserf/sample"
)

// Candidate is one (feature, threshold) split with its cost. Partition is
// computed lazily from Feature/Threshold rather than carried in the
// Candidate, so Evaluate doesn't materialize a left/right row slice for
// every threshold it scores — only the winner ever gets partitioned.
type Candidate struct {
	Feature   int
	Threshold int
	Cost      float64
}

// Partition splits rows into the rows with ts[row].ValueOf(c.Feature) <=
// c.Threshold (left) and the rest (right), using the same swap-based
// two-pointer partition as tree/build.go's splitter.bestSplit /
// tree/classifier.go's post-loop partition, rather than re-sorting. rows is
// not modified; Partition works on a private copy.
func (c Candidate) Partition(ts sample.Set, rows []int) (left, right []int) {
	buf := append([]int(nil), rows...)
	i, j := 0, len(buf)
	for i < j {
		if ts[buf[i]].ValueOf(c.Feature) <= c.Threshold {
			i++
		} else {
			j--
			buf[i], buf[j] = buf[j], buf[i]
		}
	}
	return buf[:i], buf[i:]
}

// Evaluate scores every threshold of every candidate feature against rows,
// using metric as the impurity measure and nClasses to size per-class
// count arrays. The returned slice has one Candidate per (feature, value)
// pair in cands, in the same feature order cands was given and ascending
// threshold order within a feature.
func Evaluate(ts sample.Set, rows []int, cands []feature.Candidate, nClasses int, metric impurity.Metric) []Candidate {
	n := len(rows)
	valBuf := make([]int, n)
	rowBuf := make([]int, n)
	classCtL := make([]int, nClasses)
	classCtR := make([]int, nClasses)

	var out []Candidate
	for _, cand := range cands {
		copy(rowBuf, rows)
		for i, r := range rowBuf {
			valBuf[i] = ts[r].ValueOf(cand.Feature)
		}
		bSortInt(valBuf, rowBuf)

		for i := range classCtL {
			classCtL[i] = 0
		}
		for i := range classCtR {
			classCtR[i] = 0
		}
		for _, r := range rowBuf {
			classCtR[ts[r].Label]++
		}

		ptr := 0
		for _, t := range cand.Values {
			for ptr < n && valBuf[ptr] <= t {
				lbl := ts[rowBuf[ptr]].Label
				classCtL[lbl]++
				classCtR[lbl]--
				ptr++
			}
			cost := impurity.Cost(metric, ptr, n-ptr, classCtL, classCtR)
			out = append(out, Candidate{Feature: cand.Feature, Threshold: t, Cost: cost})
		}
	}
	return out
}
