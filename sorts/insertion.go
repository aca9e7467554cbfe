package sorts

import (
	"golang.org/x/exp/constraints"
)

// InsertionSort sorts a in place. Stable, O(1) extra space. O(n^2) in the
// worst case, but each element only travels as far as it is out of place,
// so a nearly sorted input costs close to O(n).
func InsertionSort[T constraints.Ordered](a []T) {
	if a == nil {
		panic("sorts: InsertionSort of nil slice")
	}
	for i := 1; i < len(a); i++ {
		key := a[i]
		j := i - 1
		for j >= 0 && a[j] > key {
			a[j+1] = a[j]
			j--
		}
		a[j+1] = key
	}
}
