package sorts

import (
	"golang.org/x/exp/constraints"
)

// MergeSort returns a sorted copy of a, leaving a untouched. The sort is
// stable: on ties the element from the left half is taken first.
//
// Recursion ping-pongs between two buffers of len(a), so auxiliary space is
// O(n) regardless of depth. MergeSortNaive keeps the per-call allocation
// profile instead.
func MergeSort[T constraints.Ordered](a []T) []T {
	if a == nil {
		panic("sorts: MergeSort of nil slice")
	}
	out := make([]T, len(a))
	copy(out, a)
	if len(a) < 2 {
		return out
	}
	scratch := make([]T, len(a))
	copy(scratch, a)
	splitMerge(scratch, out, 0, len(a))
	return out
}

// splitMerge leaves src[lo:hi] sorted in dst[lo:hi]. Both slices must hold
// the same elements in [lo, hi) on entry.
func splitMerge[T constraints.Ordered](src, dst []T, lo, hi int) {
	if hi-lo < 2 {
		return
	}
	mid := int(uint(lo+hi) >> 1)
	splitMerge(dst, src, lo, mid)
	splitMerge(dst, src, mid, hi)
	merge(src[lo:mid], src[mid:hi], dst[lo:hi])
}

// MergeSortNaive returns a sorted copy of a, copying both halves into fresh
// slices at every level of recursion: O(n log n) bytes allocated in total.
func MergeSortNaive[T constraints.Ordered](a []T) []T {
	if a == nil {
		panic("sorts: MergeSortNaive of nil slice")
	}
	out := make([]T, len(a))
	copy(out, a)
	mergeSortNaive(out)
	return out
}

func mergeSortNaive[T constraints.Ordered](a []T) {
	if len(a) <= 1 {
		return
	}
	mid := len(a) / 2
	left := make([]T, mid)
	copy(left, a[:mid])
	right := make([]T, len(a)-mid)
	copy(right, a[mid:])

	mergeSortNaive(left)
	mergeSortNaive(right)
	merge(left, right, a)
}

// merge writes the union of the sorted slices left and right into dst,
// which must have room for both.
func merge[T constraints.Ordered](left, right, dst []T) {
	i, j, k := 0, 0, 0
	for i < len(left) && j < len(right) {
		if right[j] < left[i] {
			dst[k] = right[j]
			j++
		} else {
			dst[k] = left[i]
			i++
		}
		k++
	}
	k += copy(dst[k:], left[i:])
	copy(dst[k:], right[j:])
}
