package split

// bSortInt is tree/sort.go's hybrid quicksort/heapsort/insertion sort,
// adapted from float64 feature values to the int values the sparse
// representation actually produces. Specializing the sort instead of going
// through sort.Interface is the teacher's own measured tradeoff (see the
// original file's comment): it cuts the time spent sorting each node's
// candidate feature at each split roughly 60% versus sort.Sort.
func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func swap(x []int, inx []int, i, j int) {
	x[i], x[j] = x[j], x[i]
	inx[i], inx[j] = inx[j], inx[i]
}

func insertionSort(x []int, inx []int, a, b int) {
	for i := a + 1; i < b; i++ {
		for j := i; j > a && x[j] < x[j-1]; j-- {
			swap(x, inx, j, j-1)
		}
	}
}

func siftDown(x []int, inx []int, lo, hi, first int) {
	root := lo
	for {
		child := 2*root + 1
		if child >= hi {
			break
		}
		if child+1 < hi && x[first+child] < x[first+child+1] {
			child++
		}
		if !(x[first+root] < x[first+child]) {
			return
		}
		swap(x, inx, first+root, first+child)
		root = child
	}
}

func heapSort(x []int, inx []int, a, b int) {
	first := a
	lo := 0
	hi := b - a

	for i := (hi - 1) / 2; i >= 0; i-- {
		siftDown(x, inx, i, hi, first)
	}

	for i := hi - 1; i >= 0; i-- {
		swap(x, inx, first, first+i)
		siftDown(x, inx, lo, i, first)
	}
}

func medianOfThree(x []int, inx []int, a, b, c int) {
	m0 := b
	m1 := a
	m2 := c
	if x[m1] < x[m0] {
		swap(x, inx, m1, m0)
	}
	if x[m2] < x[m1] {
		swap(x, inx, m2, m1)
	}
	if x[m1] < x[m0] {
		swap(x, inx, m1, m0)
	}
}

func swapRange(x []int, inx []int, a, b, n int) {
	for i := 0; i < n; i++ {
		swap(x, inx, a+i, b+i)
	}
}

func doPivot(x []int, inx []int, lo, hi int) (midlo, midhi int) {
	m := lo + (hi-lo)/2
	if hi-lo > 40 {
		s := (hi - lo) / 8
		medianOfThree(x, inx, lo, lo+s, lo+2*s)
		medianOfThree(x, inx, m, m-s, m+s)
		medianOfThree(x, inx, hi-1, hi-1-s, hi-1-2*s)
	}
	medianOfThree(x, inx, lo, m, hi-1)

	pivot := lo
	a, b, c, d := lo+1, lo+1, hi, hi
	for {
		for b < c {
			if x[b] < x[pivot] {
				b++
			} else if !(x[pivot] < x[b]) {
				swap(x, inx, a, b)
				a++
				b++
			} else {
				break
			}
		}
		for b < c {
			if x[pivot] < x[c-1] {
				c--
			} else if !(x[c-1] < x[pivot]) {
				swap(x, inx, c-1, d-1)
				c--
				d--
			} else {
				break
			}
		}
		if b >= c {
			break
		}
		swap(x, inx, b, c-1)
		b++
		c--
	}

	n := min(b-a, a-lo)
	swapRange(x, inx, lo, b-n, n)

	n = min(hi-d, d-c)
	swapRange(x, inx, c, hi-n, n)

	return lo + b - a, hi - (d - c)
}

func quickSort(x []int, inx []int, a, b, maxDepth int) {
	for b-a > 7 {
		if maxDepth == 0 {
			heapSort(x, inx, a, b)
			return
		}
		maxDepth--
		mlo, mhi := doPivot(x, inx, a, b)
		if mlo-a < b-mhi {
			quickSort(x, inx, a, mlo, maxDepth)
			a = mhi
		} else {
			quickSort(x, inx, mhi, b, maxDepth)
			b = mlo
		}
	}
	if b-a > 1 {
		insertionSort(x, inx, a, b)
	}
}

// bSortInt sorts x ascending, permuting inx in lockstep.
func bSortInt(x []int, inx []int) {
	n := len(inx)
	maxDepth := 0
	for i := n; i > 0; i >>= 1 {
		maxDepth++
	}
	maxDepth *= 2
	quickSort(x, inx, 0, n, maxDepth)
}
