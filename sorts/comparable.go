package sorts

// Comparable is implemented by element types carrying their own ordering.
// CompareTo returns a negative number, zero or a positive number when the
// receiver is less than, equal to or greater than o.
type Comparable[T any] interface {
	CompareTo(o T) int
}

// MergeSortFunc is MergeSort for Comparable elements. Elements comparing
// equal keep their input order.
func MergeSortFunc[T Comparable[T]](a []T) []T {
	if a == nil {
		panic("sorts: MergeSortFunc of nil slice")
	}
	out := make([]T, len(a))
	copy(out, a)
	if len(a) < 2 {
		return out
	}
	scratch := make([]T, len(a))
	copy(scratch, a)
	splitMergeFunc(scratch, out, 0, len(a))
	return out
}

func splitMergeFunc[T Comparable[T]](src, dst []T, lo, hi int) {
	if hi-lo < 2 {
		return
	}
	mid := int(uint(lo+hi) >> 1)
	splitMergeFunc(dst, src, lo, mid)
	splitMergeFunc(dst, src, mid, hi)

	left, right, out := src[lo:mid], src[mid:hi], dst[lo:hi]
	i, j, k := 0, 0, 0
	for i < len(left) && j < len(right) {
		if right[j].CompareTo(left[i]) < 0 {
			out[k] = right[j]
			j++
		} else {
			out[k] = left[i]
			i++
		}
		k++
	}
	k += copy(out[k:], left[i:])
	copy(out[k:], right[j:])
}

// InsertionSortFunc is InsertionSort for Comparable elements.
func InsertionSortFunc[T Comparable[T]](a []T) {
	if a == nil {
		panic("sorts: InsertionSortFunc of nil slice")
	}
	for i := 1; i < len(a); i++ {
		key := a[i]
		j := i - 1
		for j >= 0 && a[j].CompareTo(key) > 0 {
			a[j+1] = a[j]
			j--
		}
		a[j+1] = key
	}
}

// IsSortedFunc reports whether a is in non-decreasing order.
func IsSortedFunc[T Comparable[T]](a []T) bool {
	for i := len(a) - 1; i > 0; i-- {
		if a[i].CompareTo(a[i-1]) < 0 {
			return false
		}
	}
	return true
}
