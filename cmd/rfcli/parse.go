package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mlindgren/sparserf/sample"
)

// parseSparse reads one sample per line in the format
//
//	label feature:value feature:value ...
//
// the natural on-disk shape for a sparse integer feature vector (the same
// shape libsvm/vowpal-wabbit style formats use). Blank lines and lines
// starting with '#' are skipped. Dataset parsing lives here, in package
// main, the same boundary the teacher draws keeping parseCSV out of the
// forest/tree packages: spec.md §1 puts file parsing explicitly out of
// core scope.
func parseSparse(r io.Reader) (sample.Set, error) {
	scanner := bufio.NewScanner(r)
	var ts sample.Set
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		label, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid label %q: %w", line, fields[0], err)
		}

		features := make(map[int]int, len(fields)-1)
		for _, fv := range fields[1:] {
			parts := strings.SplitN(fv, ":", 2)
			if len(parts) != 2 {
				return nil, fmt.Errorf("line %d: malformed feature:value pair %q", line, fv)
			}
			f, err := strconv.Atoi(parts[0])
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid feature index %q: %w", line, parts[0], err)
			}
			v, err := strconv.Atoi(parts[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid feature value %q: %w", line, parts[1], err)
			}
			features[f] = v
		}

		ts = append(ts, sample.New(features, label))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ts, nil
}

// cardFeatures returns one past the largest feature index seen in ts, the
// card_features upper bound train() needs to resolve a fractional
// max_features.
func cardFeatures(ts sample.Set) int {
	max := -1
	for _, s := range ts {
		for f := range s.Features {
			if f > max {
				max = f
			}
		}
	}
	return max + 1
}

// writePredictions writes one predicted label per line, the way
// writePred in the teacher's main.go wrote one predicted class per line.
func writePredictions(w io.Writer, preds []int) error {
	bw := bufio.NewWriter(w)
	for _, p := range preds {
		if _, err := fmt.Fprintln(bw, p); err != nil {
			return err
		}
	}
	return bw.Flush()
}
