package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"TimestampSort/bench"
	"TimestampSort/dataset"
	"TimestampSort/sorts"
)

func main() {
	var (
		length     = flag.Int("length", dataset.DefaultLength, "elements per dataset")
		baseTime   = flag.Int64("base", time.Now().UnixMilli(), "first timestamp in milliseconds")
		maxGap     = flag.Int64("gap", dataset.DefaultMaxGapMillis, "exclusive bound of the step between timestamps (ms)")
		ratios     = flag.String("ratios", "0.01,0.02,0.03", "comma separated disorder ratios in [0,1]")
		count      = flag.Int("count", dataset.DefaultDatasetCount, "datasets per batch")
		seed       = flag.Uint64("seed", 1, "PRNG seed")
		algos      = flag.String("algos", "timsort,insertion", "comma separated algorithms: "+strings.Join(sorts.Names(), ","))
		warmup     = flag.Int("warmup", 5, "warm-up iterations per fork (not recorded)")
		iterations = flag.Int("iterations", 5, "measured iterations per fork")
		forks      = flag.Int("forks", 2, "independent batch regenerations")
		noVerify   = flag.Bool("no-verify", false, "skip sortedness verification of results")
		snapshot   = flag.String("snapshot", "", "write the first batch to this file and exit")
		verbose    = flag.Bool("verbose", false, "development logging at debug level")
	)
	flag.Parse()

	logger, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ratioList, err := parseRatios(*ratios)
	algList, algErr := parseAlgorithms(*algos)
	opts := bench.Options{Warmup: *warmup, Iterations: *iterations, Forks: *forks, Verify: !*noVerify}
	if err := multierr.Combine(err, algErr, opts.Validate()); err != nil {
		fmt.Fprintln(os.Stderr, "invalid flags:", err)
		os.Exit(2)
	}

	configs := make([]dataset.Config, 0, len(ratioList))
	for _, r := range ratioList {
		cfg := dataset.Config{
			Length:         *length,
			BaseTimeMillis: *baseTime,
			MaxGapMillis:   *maxGap,
			DisorderRatio:  r,
			DatasetCount:   *count,
			Seed:           *seed,
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, "invalid configuration:", err)
			os.Exit(2)
		}
		configs = append(configs, cfg)
	}

	if *snapshot != "" {
		if err := writeSnapshot(*snapshot, configs[0], logger); err != nil {
			logger.Fatal("snapshot failed", zap.Error(err))
		}
		return
	}

	var results []bench.Result
	for _, cfg := range configs {
		session := bench.NewSession(cfg, bench.WithLogger(logger))
		for _, alg := range algList {
			res, err := session.Measure(alg, opts)
			if err != nil {
				logger.Fatal("measurement failed",
					zap.String("algorithm", alg.Name),
					zap.Float64("disorder_ratio", cfg.DisorderRatio),
					zap.Error(err))
			}
			results = append(results, res)
		}
	}
	if err := bench.WriteReport(os.Stdout, results); err != nil {
		logger.Fatal("write report", zap.Error(err))
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func parseRatios(s string) ([]float64, error) {
	var out []float64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		r, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: ratio %q: %v", dataset.ErrInvalidParameter, field, err)
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no disorder ratio given", dataset.ErrInvalidParameter)
	}
	return out, nil
}

func parseAlgorithms(s string) ([]sorts.Algorithm, error) {
	var (
		out  []sorts.Algorithm
		errs error
	)
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		alg, err := sorts.Lookup(name)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		out = append(out, alg)
	}
	if errs == nil && len(out) == 0 {
		errs = errors.New("no algorithm selected")
	}
	return out, errs
}

func writeSnapshot(path string, cfg dataset.Config, logger *zap.Logger) error {
	b, err := dataset.NewBatch(cfg)
	if err != nil {
		return err
	}
	defer b.Release()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := dataset.WriteSnapshot(f, b); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Info("snapshot written",
		zap.String("path", path),
		zap.Int("datasets", b.Len()),
		zap.Int("length", cfg.Length))
	return nil
}
