package sorts

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"golang.org/x/exp/slices"

	"TimestampSort/TimSort"
	"TimestampSort/dataset"
)

// record orders by key only; seq tracks input position.
type record struct {
	key int64
	seq int
}

func (r record) CompareTo(o record) int {
	switch {
	case r.key < o.key:
		return -1
	case r.key > o.key:
		return 1
	}
	return 0
}

func generated(t testing.TB, n int, ratio float64, seed uint64) dataset.Dataset {
	t.Helper()
	d, err := dataset.Generate(n, 1700000000000, 100, ratio, dataset.NewSource(seed))
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestConcreteScenario(t *testing.T) {
	want := dataset.Dataset{1, 3, 3, 4, 5}
	for _, alg := range All() {
		in := dataset.Dataset{5, 3, 3, 1, 4}
		got := alg.Run(in)
		if !slices.Equal(got, want) {
			t.Errorf("%s: got %v, expected %v", alg.Name, got, want)
		}
	}
}

func TestSortsGeneratedDatasets(t *testing.T) {
	inputs := map[string]dataset.Dataset{
		"nearly 1%":  generated(t, 20000, 0.01, 1),
		"nearly 3%":  generated(t, 20000, 0.03, 2),
		"nearly 30%": generated(t, 5000, 0.3, 3),
		"sorted":     generated(t, 5000, 0, 4),
	}
	for name, in := range inputs {
		want := slices.Clone(in)
		slices.Sort(want)
		for _, alg := range All() {
			t.Run(alg.Name+"/"+name, func(t *testing.T) {
				input := in.Clone()
				got := alg.Run(input)
				if !IsSorted(got) {
					t.Fatal("result is not sorted")
				}
				if !slices.Equal(got, want) {
					t.Fatal("result is not a permutation of the input")
				}
				if !alg.InPlace && !slices.Equal(input, in) {
					t.Fatal("out-of-place algorithm modified its input")
				}
			})
		}
	}
}

func TestIdempotent(t *testing.T) {
	in := generated(t, 10000, 0.02, 5)
	for _, alg := range All() {
		once := slices.Clone(alg.Run(in.Clone()))
		twice := alg.Run(once.Clone())
		if !slices.Equal(once, twice) {
			t.Errorf("%s: sorting a sorted dataset changed it", alg.Name)
		}
	}
}

func TestBoundaries(t *testing.T) {
	for _, alg := range All() {
		if got := alg.Run(dataset.Dataset{}); len(got) != 0 {
			t.Errorf("%s: empty input gave %v", alg.Name, got)
		}
		if got := alg.Run(dataset.Dataset{42}); !slices.Equal(got, dataset.Dataset{42}) {
			t.Errorf("%s: single element gave %v", alg.Name, got)
		}
		equal := dataset.Dataset{7, 7, 7, 7, 7, 7, 7}
		if got := alg.Run(equal.Clone()); !slices.Equal(got, equal) {
			t.Errorf("%s: all-equal input gave %v", alg.Name, got)
		}
		desc := dataset.Dataset{9, 8, 7, 6, 5, 4, 3, 2, 1, 0, -1}
		if got := alg.Run(desc.Clone()); !IsSorted(got) {
			t.Errorf("%s: descending input gave %v", alg.Name, got)
		}
	}
}

func TestNilPanics(t *testing.T) {
	for _, alg := range All() {
		t.Run(alg.Name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("expected panic on nil dataset")
				}
			}()
			alg.Run(nil)
		})
	}
}

func TestStability(t *testing.T) {
	d := generated(t, 5000, 0.05, 6)
	in := make([]record, len(d))
	for i, v := range d {
		// Coarse keys force many ties.
		in[i] = record{key: v / 1000, seq: i}
	}

	stable := func(name string, got []record) {
		t.Helper()
		if !IsSortedFunc(got) {
			t.Fatalf("%s: not sorted", name)
		}
		for i := 1; i < len(got); i++ {
			if got[i].key == got[i-1].key && got[i].seq < got[i-1].seq {
				t.Fatalf("%s: equal keys reordered at %d", name, i)
			}
		}
	}

	stable("merge", MergeSortFunc(in))
	ins := slices.Clone(in)
	InsertionSortFunc(ins)
	stable("insertion", ins)

	if !slices.IsSortedFunc(in, func(a, b record) int { return a.seq - b.seq }) {
		t.Fatal("MergeSortFunc modified its input")
	}
}

// -0.0 and +0.0 compare equal under < yet stay distinguishable through the
// sign bit, which lets the Ordered algorithms themselves be checked for
// stability.
func TestStabilitySignedZeros(t *testing.T) {
	r := rand.New(rand.NewPCG(8, 8))
	negZero := math.Copysign(0, -1)
	in := make([]float64, 3000)
	for i := range in {
		switch r.IntN(4) {
		case 0:
			in[i] = negZero
		case 1:
			in[i] = 0
		default:
			in[i] = float64(r.IntN(21) - 10)
		}
	}
	var signs []bool
	for _, v := range in {
		if v == 0 {
			signs = append(signs, math.Signbit(v))
		}
	}

	stableSorts := map[string]func([]float64) []float64{
		"merge":       MergeSort[float64],
		"merge-naive": MergeSortNaive[float64],
		"insertion": func(a []float64) []float64 {
			InsertionSort(a)
			return a
		},
		"timsort": func(a []float64) []float64 {
			TimSort.Sort(a)
			return a
		},
	}
	for _, alg := range All() {
		if _, ok := stableSorts[alg.Name]; alg.Stable && !ok {
			t.Errorf("%s is registered as stable but not covered here", alg.Name)
		}
	}

	for name, fn := range stableSorts {
		got := fn(slices.Clone(in))
		if !slices.IsSorted(got) {
			t.Fatalf("%s: not sorted", name)
		}
		var gotSigns []bool
		for _, v := range got {
			if v == 0 {
				gotSigns = append(gotSigns, math.Signbit(v))
			}
		}
		if !slices.Equal(gotSigns, signs) {
			t.Errorf("%s: signed zeros reordered", name)
		}
	}
}

func TestMergeSortLeavesInputUntouched(t *testing.T) {
	in := []int64{5, 3, 3, 1, 4}
	for _, fn := range []func([]int64) []int64{MergeSort[int64], MergeSortNaive[int64]} {
		out := fn(in)
		if !slices.Equal(in, []int64{5, 3, 3, 1, 4}) {
			t.Fatalf("input modified: %v", in)
		}
		out[0] = 100
		if in[0] == 100 {
			t.Fatal("output shares storage with input")
		}
	}
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		alg, err := Lookup(name)
		if err != nil {
			t.Fatal(err)
		}
		if alg.Name != name || alg.Run == nil {
			t.Fatalf("Lookup(%q) returned %+v", name, alg)
		}
	}
	if _, err := Lookup("bogo"); !errors.Is(err, dataset.ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
}
