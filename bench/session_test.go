package bench

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/exp/slices"

	"TimestampSort/dataset"
	"TimestampSort/sorts"
)

func testConfig() dataset.Config {
	return dataset.Config{
		Length:         2000,
		BaseTimeMillis: 1700000000000,
		MaxGapMillis:   100,
		DisorderRatio:  0.02,
		DatasetCount:   3,
		Seed:           42,
	}
}

func TestSessionLifecycle(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := NewSession(testConfig(), WithLogger(zap.New(core)))

	if _, err := s.Input(0); !errors.Is(err, dataset.ErrPreconditionViolation) {
		t.Fatalf("before setup: expected ErrPreconditionViolation, got %v", err)
	}
	if err := s.Setup(); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 3 {
		t.Fatalf("expected 3 datasets, got %d", s.Len())
	}

	heap, err := sorts.Lookup("heap")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < s.Len(); i++ {
		out, _, err := s.RunOnce(heap, i)
		if err != nil {
			t.Fatal(err)
		}
		if !sorts.IsSorted(out) {
			t.Fatalf("dataset %d not sorted", i)
		}
		pristine, _ := s.Batch().Dataset(i)
		if sorts.IsSorted(pristine) {
			t.Fatalf("in-place sort reached the pristine dataset %d", i)
		}
	}

	if s.sink == nil {
		t.Fatal("RunOnce did not keep its result")
	}
	s.Teardown()
	if s.sink != nil || s.scratch != nil {
		t.Fatal("teardown kept dataset storage alive")
	}
	if _, _, err := s.RunOnce(heap, 0); !errors.Is(err, dataset.ErrPreconditionViolation) {
		t.Fatalf("after teardown: expected ErrPreconditionViolation, got %v", err)
	}
	if _, err := s.Iteration(heap, true); !errors.Is(err, dataset.ErrPreconditionViolation) {
		t.Fatalf("after teardown: expected ErrPreconditionViolation, got %v", err)
	}
	s.Teardown()

	if n := logs.FilterMessage("setup complete").Len(); n != 1 {
		t.Errorf("expected 1 setup log, got %d", n)
	}
	if n := logs.FilterMessage("teardown complete").Len(); n != 1 {
		t.Errorf("expected 1 teardown log, got %d", n)
	}
}

func TestSetupInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.DisorderRatio = 2
	s := NewSession(cfg)
	if err := s.Setup(); !errors.Is(err, dataset.ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
	merge, _ := sorts.Lookup("merge")
	if _, err := s.Measure(merge, DefaultOptions()); !errors.Is(err, dataset.ErrInvalidParameter) {
		t.Fatalf("Measure: expected ErrInvalidParameter, got %v", err)
	}
}

func TestIterationOrderIndependent(t *testing.T) {
	s := NewSession(testConfig())
	if err := s.Setup(); err != nil {
		t.Fatal(err)
	}
	defer s.Teardown()

	// Every algorithm must see the same pristine input whatever ran before.
	var first dataset.Dataset
	for _, alg := range sorts.All() {
		if _, err := s.Iteration(alg, true); err != nil {
			t.Fatalf("%s: %v", alg.Name, err)
		}
		in, err := s.Input(0)
		if err != nil {
			t.Fatal(err)
		}
		if first == nil {
			first = in.Clone()
		} else if !slices.Equal(first, in) {
			t.Fatalf("input changed after %s", alg.Name)
		}
	}
}

func TestIterationVerify(t *testing.T) {
	s := NewSession(testConfig())
	if err := s.Setup(); err != nil {
		t.Fatal(err)
	}
	defer s.Teardown()

	broken := sorts.Algorithm{
		Name: "identity",
		Run:  func(d dataset.Dataset) dataset.Dataset { return d },
	}
	if _, err := s.Iteration(broken, true); !errors.Is(err, ErrNotSorted) {
		t.Fatalf("expected ErrNotSorted, got %v", err)
	}
	if _, err := s.Iteration(broken, false); err != nil {
		t.Fatalf("unverified iteration failed: %v", err)
	}
}

func TestOptionsValidate(t *testing.T) {
	if err := DefaultOptions().Validate(); err != nil {
		t.Fatal(err)
	}
	bad := Options{Warmup: -1, Iterations: 0, Forks: 0}
	if err := bad.Validate(); !errors.Is(err, dataset.ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestMeasure(t *testing.T) {
	s := NewSession(testConfig())
	opts := Options{Warmup: 1, Iterations: 3, Forks: 2, Verify: true}

	var results []Result
	for _, name := range []string{"timsort", "insertion", "merge"} {
		alg, err := sorts.Lookup(name)
		if err != nil {
			t.Fatal(err)
		}
		res, err := s.Measure(alg, opts)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(res.Samples.Xs) != opts.Forks*opts.Iterations {
			t.Fatalf("%s: %d samples, expected %d", name, len(res.Samples.Xs), opts.Forks*opts.Iterations)
		}
		if res.Mean() < 0 || res.Quantile(0.5) < 0 {
			t.Fatalf("%s: negative timing", name)
		}
		results = append(results, res)
	}
	if s.Config().Seed != testConfig().Seed {
		t.Fatal("Measure did not restore the session seed")
	}
	if !s.Batch().Released() {
		t.Fatal("Measure left a batch behind")
	}

	var buf bytes.Buffer
	if err := WriteReport(&buf, results); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Benchmark", "timsort", "insertion", "merge", "ms/op"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
