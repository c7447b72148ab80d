// Package bootstrap draws the per-tree bootstrap sample and its
// complementary out-of-bag row set, the way forest/classifier.go's
// bootstrapInx does for the teacher's forest.
package bootstrap

import "math/rand"

// Sample draws k row indices in [0, n) with replacement using rng, and
// returns the rows never drawn (the out-of-bag set) in ascending order.
func Sample(rng *rand.Rand, k, n int) (rows, oob []int) {
	rows = make([]int, k)
	inBag := make([]bool, n)
	for i := 0; i < k; i++ {
		r := rng.Intn(n)
		rows[i] = r
		inBag[r] = true
	}

	for i, in := range inBag {
		if !in {
			oob = append(oob, i)
		}
	}
	return rows, oob
}
