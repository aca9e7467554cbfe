package bench

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/aclements/go-moremath/stats"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"TimestampSort/dataset"
	"TimestampSort/sorts"
)

// Options controls how many times an algorithm is run.
type Options struct {
	// Warmup iterations run before measuring in every fork.
	Warmup int
	// Iterations measured in every fork.
	Iterations int
	// Forks regenerate the batch with seed+fork before measuring again.
	Forks int
	// Verify checks that every result is sorted.
	Verify bool
}

// DefaultOptions returns 2 forks of 5 warm-up and 5 measured iterations.
func DefaultOptions() Options {
	return Options{
		Warmup:     5,
		Iterations: 5,
		Forks:      2,
		Verify:     true,
	}
}

// Validate reports every invalid option.
func (o Options) Validate() error {
	var err error
	if o.Warmup < 0 {
		err = multierr.Append(err, fmt.Errorf("%w: warmup must not be negative, got %d", dataset.ErrInvalidParameter, o.Warmup))
	}
	if o.Iterations <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: iterations must be positive, got %d", dataset.ErrInvalidParameter, o.Iterations))
	}
	if o.Forks <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: forks must be positive, got %d", dataset.ErrInvalidParameter, o.Forks))
	}
	return err
}

// Result is the timing of one algorithm at one disorder ratio. Samples are
// in milliseconds per operation, one operation sorting the whole batch.
type Result struct {
	Algorithm     string
	DisorderRatio float64
	Samples       stats.Sample
}

// Mean returns the average time per operation.
func (r Result) Mean() time.Duration {
	return msToDuration(r.Samples.Mean())
}

// StdDev returns the sample standard deviation of the time per operation.
func (r Result) StdDev() time.Duration {
	if len(r.Samples.Xs) < 2 {
		return 0
	}
	return msToDuration(r.Samples.StdDev())
}

// Quantile returns the q-th quantile of the time per operation.
func (r Result) Quantile(q float64) time.Duration {
	return msToDuration(r.Samples.Quantile(q))
}

func msToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

// Measure times alg under the session configuration. Each fork runs its own
// Setup and Teardown, so the session holds no batch once Measure returns.
func (s *Session) Measure(alg sorts.Algorithm, opts Options) (Result, error) {
	if err := multierr.Combine(s.cfg.Validate(), opts.Validate()); err != nil {
		return Result{}, err
	}
	res := Result{
		Algorithm:     alg.Name,
		DisorderRatio: s.cfg.DisorderRatio,
		Samples:       stats.Sample{Xs: make([]float64, 0, opts.Forks*opts.Iterations)},
	}

	seed := s.cfg.Seed
	defer func() {
		s.cfg.Seed = seed
	}()
	for fork := 0; fork < opts.Forks; fork++ {
		s.cfg.Seed = seed + uint64(fork)
		if err := s.runFork(alg, opts, fork, &res); err != nil {
			return Result{}, err
		}
	}

	s.logger.Info("measured",
		zap.String("algorithm", alg.Name),
		zap.Float64("disorder_ratio", res.DisorderRatio),
		zap.Int("samples", len(res.Samples.Xs)),
		zap.Duration("mean", res.Mean()),
		zap.Duration("stddev", res.StdDev()))
	return res, nil
}

func (s *Session) runFork(alg sorts.Algorithm, opts Options, fork int, res *Result) error {
	if err := s.Setup(); err != nil {
		return err
	}
	defer s.Teardown()

	for i := 0; i < opts.Warmup; i++ {
		took, err := s.Iteration(alg, opts.Verify)
		if err != nil {
			return err
		}
		s.logger.Debug("warmup iteration",
			zap.String("algorithm", alg.Name),
			zap.Int("fork", fork),
			zap.Int("iteration", i),
			zap.Duration("took", took))
	}
	for i := 0; i < opts.Iterations; i++ {
		took, err := s.Iteration(alg, opts.Verify)
		if err != nil {
			return err
		}
		res.Samples.Xs = append(res.Samples.Xs, float64(took)/float64(time.Millisecond))
		s.logger.Debug("iteration",
			zap.String("algorithm", alg.Name),
			zap.Int("fork", fork),
			zap.Int("iteration", i),
			zap.Duration("took", took))
	}
	return nil
}

// WriteReport prints one line per result in a fixed column layout.
func WriteReport(w io.Writer, results []Result) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Benchmark\tRatio\tCnt\tScore\tStdDev\tMedian\tUnits\t")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%g\t%d\t%.3f\t%.3f\t%.3f\tms/op\t\n",
			r.Algorithm,
			r.DisorderRatio,
			len(r.Samples.Xs),
			r.Samples.Mean(),
			float64(r.StdDev())/float64(time.Millisecond),
			r.Samples.Quantile(0.5))
	}
	return tw.Flush()
}
