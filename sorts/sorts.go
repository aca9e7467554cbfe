// Package sorts holds the sorting algorithms under measurement and a
// registry exposing each of them through a uniform entry point.
//
// Every algorithm produces a non-decreasing permutation of its input. Nil
// input is a programming error and panics; an empty slice is already
// sorted.
package sorts

import (
	"fmt"
	"strings"

	"TimestampSort/TimSort"
	"TimestampSort/dataset"
)

// Algorithm describes one sorting strategy.
type Algorithm struct {
	Name string
	// InPlace algorithms sort their argument and return it; the others
	// return a newly allocated dataset and leave the argument untouched.
	InPlace bool
	Stable  bool
	// Run sorts d and returns the sorted dataset.
	Run func(d dataset.Dataset) dataset.Dataset
}

var algorithms = []Algorithm{
	{
		Name:    "timsort",
		InPlace: true,
		Stable:  true,
		Run: func(d dataset.Dataset) dataset.Dataset {
			Baseline[int64](d)
			return d
		},
	},
	{
		Name:    "insertion",
		InPlace: true,
		Stable:  true,
		Run: func(d dataset.Dataset) dataset.Dataset {
			InsertionSort[int64](d)
			return d
		},
	},
	{
		Name:    "heap",
		InPlace: true,
		Run: func(d dataset.Dataset) dataset.Dataset {
			HeapSort[int64](d)
			return d
		},
	},
	{
		Name:   "merge",
		Stable: true,
		Run: func(d dataset.Dataset) dataset.Dataset {
			return MergeSort[int64](d)
		},
	},
	{
		Name:   "merge-naive",
		Stable: true,
		Run: func(d dataset.Dataset) dataset.Dataset {
			return MergeSortNaive[int64](d)
		},
	},
	{
		Name:    "std",
		InPlace: true,
		Run: func(d dataset.Dataset) dataset.Dataset {
			Std[int64](d)
			return d
		},
	},
}

// All returns every registered algorithm.
func All() []Algorithm {
	out := make([]Algorithm, len(algorithms))
	copy(out, algorithms)
	return out
}

// Names returns the names of every registered algorithm.
func Names() []string {
	names := make([]string, 0, len(algorithms))
	for _, a := range algorithms {
		names = append(names, a.Name)
	}
	return names
}

// Lookup returns the algorithm registered under name.
func Lookup(name string) (Algorithm, error) {
	for _, a := range algorithms {
		if a.Name == name {
			return a, nil
		}
	}
	return Algorithm{}, fmt.Errorf("%w: unknown algorithm %q (known: %s)",
		dataset.ErrInvalidParameter, name, strings.Join(Names(), ", "))
}

// IsSorted reports whether d is in non-decreasing order.
func IsSorted(d dataset.Dataset) bool {
	return TimSort.IsSorted[int64](d)
}
