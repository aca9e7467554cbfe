package sorts

import (
	"TimestampSort/TimSort"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// Baseline sorts a in place with TimSort, the adaptive run-merging hybrid
// used as the reference point for the other algorithms.
func Baseline[T constraints.Ordered](a []T) {
	TimSort.Sort(a)
}

// Std sorts a in place with pattern-defeating quicksort from the slices
// package. Not stable.
func Std[T constraints.Ordered](a []T) {
	if a == nil {
		panic("sorts: Std of nil slice")
	}
	slices.Sort(a)
}
