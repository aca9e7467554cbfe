// Package bench drives sorting algorithms against a session-owned batch of
// nearly sorted datasets and aggregates the timings.
package bench

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"TimestampSort/dataset"
	"TimestampSort/sorts"
)

// ErrNotSorted reports an algorithm result that failed verification.
var ErrNotSorted = errors.New("result not sorted")

// Session owns one batch for the duration of a measurement session. It is
// not safe for concurrent use.
type Session struct {
	cfg     dataset.Config
	batch   *dataset.Batch
	scratch dataset.Dataset
	sink    dataset.Dataset // last result, so sort calls cannot be elided
	logger  *zap.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// NewSession returns a session for cfg. No dataset is generated until Setup.
func NewSession(cfg dataset.Config, opts ...Option) *Session {
	s := &Session{
		cfg:    cfg,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the session configuration.
func (s *Session) Config() dataset.Config {
	return s.cfg
}

// Setup generates the batch, replacing any batch from an earlier Setup.
func (s *Session) Setup() error {
	s.Teardown()
	start := time.Now()
	b, err := dataset.NewBatch(s.cfg)
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	s.batch = b
	s.logger.Info("setup complete",
		zap.Int("datasets", b.Len()),
		zap.Int("length", s.cfg.Length),
		zap.Float64("disorder_ratio", s.cfg.DisorderRatio),
		zap.Uint64("seed", s.cfg.Seed),
		zap.Duration("took", time.Since(start)))
	return nil
}

// Teardown releases the batch. Later calls to Input or RunOnce fail until
// the next Setup.
func (s *Session) Teardown() {
	if s.batch == nil || s.batch.Released() {
		return
	}
	s.batch.Release()
	s.scratch = nil
	s.sink = nil
	s.logger.Info("teardown complete", zap.Int("datasets", s.batch.Len()))
}

// Batch returns the current batch, or nil before Setup.
func (s *Session) Batch() *dataset.Batch {
	return s.batch
}

// Len returns the number of datasets available to the session.
func (s *Session) Len() int {
	return s.batch.Len()
}

// Input returns a fresh copy of dataset i. The copy reuses a session-owned
// buffer, so it is only valid until the next call to Input or RunOnce.
func (s *Session) Input(i int) (dataset.Dataset, error) {
	if s.batch == nil {
		return nil, fmt.Errorf("%w: session not set up", dataset.ErrPreconditionViolation)
	}
	d, err := s.batch.CopyInto(s.scratch, i)
	if err != nil {
		return nil, err
	}
	s.scratch = d
	return d, nil
}

// RunOnce sorts a fresh copy of dataset i with alg and returns the result
// together with the time spent inside the sort.
func (s *Session) RunOnce(alg sorts.Algorithm, i int) (dataset.Dataset, time.Duration, error) {
	in, err := s.Input(i)
	if err != nil {
		return nil, 0, err
	}
	start := time.Now()
	out := alg.Run(in)
	elapsed := time.Since(start)
	s.sink = out
	return out, elapsed, nil
}

// Iteration runs alg once over every dataset of the batch, which is one
// benchmark operation, and returns the summed sort time. With verify set,
// every result is checked for order.
func (s *Session) Iteration(alg sorts.Algorithm, verify bool) (time.Duration, error) {
	if s.batch == nil || s.batch.Released() {
		return 0, fmt.Errorf("%w: session not set up", dataset.ErrPreconditionViolation)
	}
	var total time.Duration
	for i := 0; i < s.batch.Len(); i++ {
		out, elapsed, err := s.RunOnce(alg, i)
		if err != nil {
			return 0, err
		}
		total += elapsed
		if verify && !sorts.IsSorted(out) {
			return 0, fmt.Errorf("%s on dataset %d: %w", alg.Name, i, ErrNotSorted)
		}
	}
	return total, nil
}
