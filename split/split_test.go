package split

import (
	"math"
	"testing"

	"github.com/mlindgren/sparserf/feature"
	"github.com/mlindgren/sparserf/impurity"
	"github.com/mlindgren/sparserf/sample"
)

func TestEvaluateFindsBestSplit(t *testing.T) {
	ts := sample.Set{
		sample.New(map[int]int{0: 1}, 0),
		sample.New(map[int]int{0: 2}, 0),
		sample.New(map[int]int{0: 3}, 0),
		sample.New(map[int]int{0: 4}, 0),
		sample.New(map[int]int{0: 5}, 0),
		sample.New(map[int]int{0: 6}, 1),
		sample.New(map[int]int{0: 7}, 1),
		sample.New(map[int]int{0: 8}, 1),
		sample.New(map[int]int{0: 9}, 1),
		sample.New(map[int]int{0: 10}, 0),
	}
	rows := make([]int, len(ts))
	for i := range rows {
		rows[i] = i
	}

	cands := feature.NonConstant(ts, rows)
	metric, err := impurity.Resolve(impurity.Gini)
	if err != nil {
		t.Fatal(err)
	}
	results := Evaluate(ts, rows, cands, 2, metric)
	if len(results) == 0 {
		t.Fatal("expected at least one candidate")
	}

	best := results[0]
	for _, r := range results[1:] {
		if r.Cost < best.Cost {
			best = r
		}
	}

	if best.Feature != 0 {
		t.Errorf("expected best split on feature 0, got %d", best.Feature)
	}
	if best.Threshold != 5 {
		t.Errorf("expected best threshold 5, got %d", best.Threshold)
	}
	if math.Abs(best.Cost-0.16) > 1e-6 {
		t.Errorf("expected best cost ~0.16, got %v", best.Cost)
	}
}

func TestEvaluateLastThresholdEmptiesRight(t *testing.T) {
	ts := sample.Set{
		sample.New(map[int]int{0: 1}, 0),
		sample.New(map[int]int{0: 2}, 1),
	}
	rows := []int{0, 1}
	cands := feature.NonConstant(ts, rows)
	metric, _ := impurity.Resolve(impurity.Gini)
	results := Evaluate(ts, rows, cands, 2, metric)

	last := results[len(results)-1]
	_, right := last.Partition(ts, rows)
	if len(right) != 0 {
		t.Errorf("expected the maximum threshold to leave an empty right side, got %d rows", len(right))
	}
}

func TestPartitionConsistency(t *testing.T) {
	ts := sample.Set{
		sample.New(map[int]int{0: 5}, 0),
		sample.New(map[int]int{0: 1}, 1),
		sample.New(map[int]int{0: 9}, 0),
		sample.New(map[int]int{0: 3}, 1),
	}
	rows := []int{0, 1, 2, 3}
	c := Candidate{Feature: 0, Threshold: 4}
	left, right := c.Partition(ts, rows)

	if len(left)+len(right) != len(rows) {
		t.Fatalf("expected partition to preserve row count, got %d + %d", len(left), len(right))
	}
	seen := make(map[int]bool)
	for _, r := range append(append([]int{}, left...), right...) {
		if seen[r] {
			t.Fatalf("row %d appeared on both sides of the partition", r)
		}
		seen[r] = true
	}
	for _, r := range left {
		if ts[r].ValueOf(0) > 4 {
			t.Errorf("row %d with value %d should not be on the left of threshold 4", r, ts[r].ValueOf(0))
		}
	}
	for _, r := range right {
		if ts[r].ValueOf(0) <= 4 {
			t.Errorf("row %d with value %d should not be on the right of threshold 4", r, ts[r].ValueOf(0))
		}
	}
}
