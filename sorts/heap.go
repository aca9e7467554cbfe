package sorts

import (
	"golang.org/x/exp/constraints"
)

// HeapSort sorts a in place using a binary max-heap. O(n log n), O(1) extra
// space, not stable.
func HeapSort[T constraints.Ordered](a []T) {
	if a == nil {
		panic("sorts: HeapSort of nil slice")
	}
	n := len(a)
	for i := n/2 - 1; i >= 0; i-- {
		siftDown(a, i, n)
	}
	for i := n - 1; i > 0; i-- {
		a[0], a[i] = a[i], a[0]
		siftDown(a, 0, i)
	}
}

// siftDown restores the max-heap property for the subtree at root within
// a[:n].
func siftDown[T constraints.Ordered](a []T, root, n int) {
	for {
		largest := root
		left := 2*root + 1
		right := left + 1
		if left < n && a[left] > a[largest] {
			largest = left
		}
		if right < n && a[right] > a[largest] {
			largest = right
		}
		if largest == root {
			return
		}
		a[root], a[largest] = a[largest], a[root]
		root = largest
	}
}
