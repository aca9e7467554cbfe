package TimSort

import (
	"golang.org/x/exp/constraints"
)

const (
	// Ranges shorter than minMerge are sorted with binary insertion only.
	minMerge = 32
	// Initial threshold for entering galloping mode during a merge.
	minGallop = 7
	// Upper bound on the temporary merge buffer allocated up front.
	initialTmpStorageLength = 256
)

// Sort sorts a in ascending order. The sort is stable, runs in O(n log n)
// worst case and close to O(n) on input made of a few long ascending or
// descending runs, which is what nearly ordered timestamp series look like.
// Sort panics if a is nil.
func Sort[T constraints.Ordered](a []T) {
	if a == nil {
		panic("TimSort: nil slice")
	}
	newTimSort(a).sort(0, len(a))
}

// SortRange sorts a[from:to]. Empty or inverted ranges are a no-op.
func SortRange[T constraints.Ordered](a []T, from, to int) {
	if from < to {
		Sort(a[from:to])
	}
}

// IsSorted reports whether a is in non-decreasing order.
func IsSorted[T constraints.Ordered](a []T) bool {
	for i := len(a) - 1; i > 0; i-- {
		if a[i] < a[i-1] {
			return false
		}
	}
	return true
}

// runStack holds pending runs: runBase[i] + runLen[i] == runBase[i+1].
type runStack struct {
	runBase []int
	runLen  []int
	size    int
}

type timSort[T constraints.Ordered] struct {
	a         []T
	tmp       []T
	minGallop int
	runs      runStack
}

func newTimSort[T constraints.Ordered](a []T) *timSort[T] {
	n := len(a)
	tmpLen := initialTmpStorageLength
	if n < 2*initialTmpStorageLength {
		tmpLen = n >> 1
	}
	// Depth bound for a stack whose run lengths grow like Fibonacci numbers.
	var depth int
	switch {
	case n < 120:
		depth = 5
	case n < 1542:
		depth = 10
	case n < 119151:
		depth = 24
	default:
		depth = 49
	}
	return &timSort[T]{
		a:         a,
		tmp:       make([]T, tmpLen),
		minGallop: minGallop,
		runs: runStack{
			runBase: make([]int, depth),
			runLen:  make([]int, depth),
		},
	}
}

func (ts *timSort[T]) sort(lo, hi int) {
	remaining := hi - lo
	if remaining < 2 {
		return
	}
	if remaining < minMerge {
		initRunLen := countRunAndMakeAscending(ts.a, lo, hi)
		binarySort(ts.a, lo, hi, lo+initRunLen)
		return
	}

	minRun := minRunLength(remaining)
	for remaining > 0 {
		runLen := countRunAndMakeAscending(ts.a, lo, hi)
		// Extend short runs to min(minRun, remaining) with binary insertion.
		if runLen < minRun {
			force := minRun
			if remaining <= minRun {
				force = remaining
			}
			binarySort(ts.a, lo, lo+force, lo+runLen)
			runLen = force
		}
		ts.pushRun(lo, runLen)
		ts.mergeCollapse()

		lo += runLen
		remaining -= runLen
	}
	if lo != hi {
		panic("TimSort: lo != hi after run scan")
	}
	ts.mergeForceCollapse()
	if ts.runs.size != 1 {
		panic("TimSort: run stack not collapsed")
	}
}

func (ts *timSort[T]) pushRun(base, n int) {
	ts.runs.runBase[ts.runs.size] = base
	ts.runs.runLen[ts.runs.size] = n
	ts.runs.size++
}

// mergeCollapse merges adjacent runs until, for the top three runs A, B, C:
//
//	len(A) > len(B) + len(C)
//	len(B) > len(C)
func (ts *timSort[T]) mergeCollapse() {
	runLen := ts.runs.runLen
	for ts.runs.size > 1 {
		n := ts.runs.size - 2
		if n > 0 && runLen[n-1] <= runLen[n]+runLen[n+1] {
			if runLen[n-1] < runLen[n+1] {
				n--
			}
			ts.mergeAt(n)
		} else if runLen[n] <= runLen[n+1] {
			ts.mergeAt(n)
		} else {
			break
		}
	}
}

func (ts *timSort[T]) mergeForceCollapse() {
	runLen := ts.runs.runLen
	for ts.runs.size > 1 {
		n := ts.runs.size - 2
		if n > 0 && runLen[n-1] < runLen[n+1] {
			n--
		}
		ts.mergeAt(n)
	}
}

// mergeAt merges runs i and i+1. i must be the second or third run from the
// top of the stack.
func (ts *timSort[T]) mergeAt(i int) {
	rs := &ts.runs
	if rs.size < 2 || i < 0 || (i != rs.size-2 && i != rs.size-3) {
		panic("TimSort: bad merge index")
	}

	base1, len1 := rs.runBase[i], rs.runLen[i]
	base2, len2 := rs.runBase[i+1], rs.runLen[i+1]
	if len1 <= 0 || len2 <= 0 || base1+len1 != base2 {
		panic("TimSort: runs are not adjacent")
	}

	rs.runLen[i] = len1 + len2
	if i == rs.size-3 {
		rs.runBase[i+1] = rs.runBase[i+2]
		rs.runLen[i+1] = rs.runLen[i+2]
	}
	rs.size--

	// Elements of run1 already <= the head of run2 stay where they are.
	k := gallopRight(ts.a[base2], ts.a, base1, len1, 0)
	base1 += k
	len1 -= k
	if len1 == 0 {
		return
	}
	// Elements of run2 already >= the tail of run1 stay where they are.
	len2 = gallopLeft(ts.a[base1+len1-1], ts.a, base2, len2, len2-1)
	if len2 == 0 {
		return
	}

	if len1 <= len2 {
		ts.mergeLo(base1, len1, base2, len2)
	} else {
		ts.mergeHi(base1, len1, base2, len2)
	}
}

func (ts *timSort[T]) ensureCapacity(n int) []T {
	if len(ts.tmp) < n {
		size := len(ts.tmp) * 2
		if size < n {
			size = n
		}
		if size > len(ts.a)/2 && n <= len(ts.a)/2 {
			size = len(ts.a) / 2
		}
		ts.tmp = make([]T, size)
	}
	return ts.tmp
}

// mergeLo merges two adjacent runs left to right, buffering the shorter
// first run in tmp. Requires len1 <= len2.
func (ts *timSort[T]) mergeLo(base1, len1, base2, len2 int) {
	a := ts.a
	tmp := ts.ensureCapacity(len1)
	copy(tmp, a[base1:base1+len1])

	cursor1 := 0     // into tmp
	cursor2 := base2 // into a
	dest := base1    // into a

	a[dest] = a[cursor2]
	dest++
	cursor2++
	len2--
	if len2 == 0 {
		copy(a[dest:], tmp[cursor1:cursor1+len1])
		return
	}
	if len1 == 1 {
		copy(a[dest:], a[cursor2:cursor2+len2])
		a[dest+len2] = tmp[cursor1]
		return
	}

	gallop := ts.minGallop
outer:
	for {
		count1 := 0 // consecutive wins of run1
		count2 := 0 // consecutive wins of run2

		for (count1 | count2) < gallop {
			if a[cursor2] < tmp[cursor1] {
				a[dest] = a[cursor2]
				dest++
				cursor2++
				count2++
				count1 = 0
				len2--
				if len2 == 0 {
					break outer
				}
			} else {
				a[dest] = tmp[cursor1]
				dest++
				cursor1++
				count1++
				count2 = 0
				len1--
				if len1 == 1 {
					break outer
				}
			}
		}

		// One run keeps winning: switch to galloping until it stops paying off.
		for {
			count1 = gallopRight(a[cursor2], tmp, cursor1, len1, 0)
			if count1 != 0 {
				copy(a[dest:], tmp[cursor1:cursor1+count1])
				dest += count1
				cursor1 += count1
				len1 -= count1
				if len1 <= 1 {
					break outer
				}
			}
			a[dest] = a[cursor2]
			dest++
			cursor2++
			len2--
			if len2 == 0 {
				break outer
			}

			count2 = gallopLeft(tmp[cursor1], a, cursor2, len2, 0)
			if count2 != 0 {
				copy(a[dest:], a[cursor2:cursor2+count2])
				dest += count2
				cursor2 += count2
				len2 -= count2
				if len2 == 0 {
					break outer
				}
			}
			a[dest] = tmp[cursor1]
			dest++
			cursor1++
			len1--
			if len1 == 1 {
				break outer
			}
			gallop--
			if count1 < minGallop && count2 < minGallop {
				break
			}
		}
		if gallop < 0 {
			gallop = 0
		}
		gallop += 2
	}
	if gallop < 1 {
		gallop = 1
	}
	ts.minGallop = gallop

	switch {
	case len1 == 1:
		copy(a[dest:], a[cursor2:cursor2+len2])
		a[dest+len2] = tmp[cursor1]
	case len1 == 0:
		panic("TimSort: comparison method violates its general contract")
	default:
		copy(a[dest:], tmp[cursor1:cursor1+len1])
	}
}

// mergeHi is the mirror of mergeLo: it merges right to left, buffering the
// second run. Requires len1 >= len2.
func (ts *timSort[T]) mergeHi(base1, len1, base2, len2 int) {
	a := ts.a
	tmp := ts.ensureCapacity(len2)
	copy(tmp, a[base2:base2+len2])

	cursor1 := base1 + len1 - 1 // into a
	cursor2 := len2 - 1         // into tmp
	dest := base2 + len2 - 1    // into a

	a[dest] = a[cursor1]
	dest--
	cursor1--
	len1--
	if len1 == 0 {
		copy(a[dest-(len2-1):], tmp[:len2])
		return
	}
	if len2 == 1 {
		dest -= len1
		cursor1 -= len1
		copy(a[dest+1:], a[cursor1+1:cursor1+1+len1])
		a[dest] = tmp[cursor2]
		return
	}

	gallop := ts.minGallop
outer:
	for {
		count1 := 0
		count2 := 0

		for (count1 | count2) < gallop {
			if tmp[cursor2] < a[cursor1] {
				a[dest] = a[cursor1]
				dest--
				cursor1--
				count1++
				count2 = 0
				len1--
				if len1 == 0 {
					break outer
				}
			} else {
				a[dest] = tmp[cursor2]
				dest--
				cursor2--
				count2++
				count1 = 0
				len2--
				if len2 == 1 {
					break outer
				}
			}
		}

		for {
			count1 = len1 - gallopRight(tmp[cursor2], a, base1, len1, len1-1)
			if count1 != 0 {
				dest -= count1
				cursor1 -= count1
				len1 -= count1
				copy(a[dest+1:], a[cursor1+1:cursor1+1+count1])
				if len1 == 0 {
					break outer
				}
			}
			a[dest] = tmp[cursor2]
			dest--
			cursor2--
			len2--
			if len2 == 1 {
				break outer
			}

			count2 = len2 - gallopLeft(a[cursor1], tmp, 0, len2, len2-1)
			if count2 != 0 {
				dest -= count2
				cursor2 -= count2
				len2 -= count2
				copy(a[dest+1:], tmp[cursor2+1:cursor2+1+count2])
				if len2 <= 1 {
					break outer
				}
			}
			a[dest] = a[cursor1]
			dest--
			cursor1--
			len1--
			if len1 == 0 {
				break outer
			}
			gallop--
			if count1 < minGallop && count2 < minGallop {
				break
			}
		}
		if gallop < 0 {
			gallop = 0
		}
		gallop += 2
	}
	if gallop < 1 {
		gallop = 1
	}
	ts.minGallop = gallop

	switch {
	case len2 == 1:
		dest -= len1
		cursor1 -= len1
		copy(a[dest+1:], a[cursor1+1:cursor1+1+len1])
		a[dest] = tmp[cursor2]
	case len2 == 0:
		panic("TimSort: comparison method violates its general contract")
	default:
		copy(a[dest-(len2-1):], tmp[:len2])
	}
}

// gallopLeft returns k in [0, n] such that a[base+k-1] < key <= a[base+k],
// i.e. the leftmost insertion point of key in a[base:base+n]. The search
// starts at hint and widens exponentially before a final binary search.
func gallopLeft[T constraints.Ordered](key T, a []T, base, n, hint int) int {
	if n <= 0 || hint < 0 || hint >= n {
		panic("TimSort: bad gallop hint")
	}
	lastOfs, ofs := 0, 1
	if key > a[base+hint] {
		// a[base+hint+lastOfs] < key <= a[base+hint+ofs]
		maxOfs := n - hint
		for ofs < maxOfs && key > a[base+hint+ofs] {
			lastOfs = ofs
			ofs = (ofs << 1) + 1
			if ofs <= 0 {
				ofs = maxOfs
			}
		}
		if ofs > maxOfs {
			ofs = maxOfs
		}
		lastOfs += hint
		ofs += hint
	} else {
		// a[base+hint-ofs] < key <= a[base+hint-lastOfs]
		maxOfs := hint + 1
		for ofs < maxOfs && key <= a[base+hint-ofs] {
			lastOfs = ofs
			ofs = (ofs << 1) + 1
			if ofs <= 0 {
				ofs = maxOfs
			}
		}
		if ofs > maxOfs {
			ofs = maxOfs
		}
		lastOfs, ofs = hint-ofs, hint-lastOfs
	}

	lastOfs++
	for lastOfs < ofs {
		m := lastOfs + ((ofs - lastOfs) >> 1)
		if key > a[base+m] {
			lastOfs = m + 1
		} else {
			ofs = m
		}
	}
	return ofs
}

// gallopRight is gallopLeft for the rightmost insertion point: it returns k
// such that a[base+k-1] <= key < a[base+k].
func gallopRight[T constraints.Ordered](key T, a []T, base, n, hint int) int {
	if n <= 0 || hint < 0 || hint >= n {
		panic("TimSort: bad gallop hint")
	}
	lastOfs, ofs := 0, 1
	if key < a[base+hint] {
		// a[base+hint-ofs] <= key < a[base+hint-lastOfs]
		maxOfs := hint + 1
		for ofs < maxOfs && key < a[base+hint-ofs] {
			lastOfs = ofs
			ofs = (ofs << 1) + 1
			if ofs <= 0 {
				ofs = maxOfs
			}
		}
		if ofs > maxOfs {
			ofs = maxOfs
		}
		lastOfs, ofs = hint-ofs, hint-lastOfs
	} else {
		// a[base+hint+lastOfs] <= key < a[base+hint+ofs]
		maxOfs := n - hint
		for ofs < maxOfs && key >= a[base+hint+ofs] {
			lastOfs = ofs
			ofs = (ofs << 1) + 1
			if ofs <= 0 {
				ofs = maxOfs
			}
		}
		if ofs > maxOfs {
			ofs = maxOfs
		}
		lastOfs += hint
		ofs += hint
	}

	lastOfs++
	for lastOfs < ofs {
		m := lastOfs + ((ofs - lastOfs) >> 1)
		if key < a[base+m] {
			ofs = m
		} else {
			lastOfs = m + 1
		}
	}
	return ofs
}

// binarySort sorts a[lo:hi] by binary insertion, assuming a[lo:start] is
// already sorted. O(n log n) compares, O(n^2) moves in the worst case.
func binarySort[T constraints.Ordered](a []T, lo, hi, start int) {
	if lo > start || start > hi {
		panic("TimSort: bad binary sort bounds")
	}
	if start == lo {
		start++
	}
	for ; start < hi; start++ {
		pivot := a[start]
		left, right := lo, start
		for left < right {
			mid := int(uint(left+right) >> 1)
			if pivot < a[mid] {
				right = mid
			} else {
				left = mid + 1
			}
		}
		// Shift a[left:start] up by one; small shifts are done by hand.
		switch n := start - left; n {
		case 2:
			a[left+2] = a[left+1]
			a[left+1] = a[left]
		case 1:
			a[left+1] = a[left]
		default:
			copy(a[left+1:], a[left:start])
		}
		a[left] = pivot
	}
}

// countRunAndMakeAscending returns the length of the run starting at lo,
// reversing it in place if it is strictly descending.
func countRunAndMakeAscending[T constraints.Ordered](a []T, lo, hi int) int {
	runHi := lo + 1
	if runHi == hi {
		return 1
	}
	if a[runHi] < a[lo] {
		runHi++
		for runHi < hi && a[runHi] < a[runHi-1] {
			runHi++
		}
		reverseRange(a, lo, runHi)
	} else {
		runHi++
		for runHi < hi && a[runHi] >= a[runHi-1] {
			runHi++
		}
	}
	return runHi - lo
}

func reverseRange[T constraints.Ordered](a []T, lo, hi int) {
	hi--
	for lo < hi {
		a[lo], a[hi] = a[hi], a[lo]
		lo++
		hi--
	}
}

// minRunLength returns the minimum run length for an array of length n:
// n itself below minMerge, otherwise k in [minMerge/2, minMerge] such that
// n/k is close to, but strictly less than, a power of two.
func minRunLength(n int) int {
	r := 0 // becomes 1 if any 1 bits are shifted off
	for n >= minMerge {
		r |= n & 1
		n >>= 1
	}
	return n + r
}
