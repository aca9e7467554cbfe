package dataset

import (
	"fmt"
	"math"
	"math/big"

	"go.uber.org/multierr"
)

const (
	// DefaultLength is the element count of one dataset (50M timestamps).
	DefaultLength = 5 * 10 * 1024 * 1024
	// DefaultMaxGapMillis bounds the increment between adjacent timestamps.
	DefaultMaxGapMillis = 100
	// DefaultDatasetCount is the number of datasets in a batch.
	DefaultDatasetCount = 10
	// YearMillis is the base time advance between datasets of a batch.
	YearMillis int64 = 365 * 24 * 3600 * 1000
)

// DefaultDisorderRatios are the disorder ratios measured by default.
var DefaultDisorderRatios = []float64{0.01, 0.02, 0.03}

// Config describes one batch of nearly sorted timestamp datasets.
type Config struct {
	// Length is the number of elements per dataset.
	Length int
	// BaseTimeMillis is the first timestamp of the first dataset.
	BaseTimeMillis int64
	// MaxGapMillis is the exclusive upper bound of the per-step increment.
	MaxGapMillis int64
	// DisorderRatio is the fraction of elements taking part in a local swap.
	DisorderRatio float64
	// DatasetCount is the number of datasets per batch.
	DatasetCount int
	// Seed drives every random draw made while building the batch.
	Seed uint64
}

// DefaultConfig returns the configuration of a full-size session at the
// lowest default disorder ratio.
func DefaultConfig() Config {
	return Config{
		Length:        DefaultLength,
		MaxGapMillis:  DefaultMaxGapMillis,
		DisorderRatio: DefaultDisorderRatios[0],
		DatasetCount:  DefaultDatasetCount,
		Seed:          1,
	}
}

// Validate reports every invalid field of c. Each reported error wraps
// ErrInvalidParameter.
func (c Config) Validate() error {
	var err error
	if c.Length <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: length must be positive, got %d", ErrInvalidParameter, c.Length))
	}
	if c.MaxGapMillis <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: max gap must be positive, got %d", ErrInvalidParameter, c.MaxGapMillis))
	}
	if math.IsNaN(c.DisorderRatio) || c.DisorderRatio < 0 || c.DisorderRatio > 1 {
		err = multierr.Append(err, fmt.Errorf("%w: disorder ratio must be in [0,1], got %v", ErrInvalidParameter, c.DisorderRatio))
	}
	if c.DatasetCount <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: dataset count must be positive, got %d", ErrInvalidParameter, c.DatasetCount))
	}
	if err == nil && !c.fitsInt64() {
		err = fmt.Errorf("%w: timestamps of the last dataset overflow int64", ErrInvalidParameter)
	}
	return err
}

// fitsInt64 reports whether the largest timestamp the batch can produce is
// representable. Called only once the other fields are known to be valid.
func (c Config) fitsInt64() bool {
	span := new(big.Int).Mul(big.NewInt(int64(c.Length-1)), big.NewInt(c.MaxGapMillis-1))
	shift := new(big.Int).Mul(big.NewInt(int64(c.DatasetCount-1)), big.NewInt(YearMillis))
	last := new(big.Int).Add(big.NewInt(c.BaseTimeMillis), span)
	last.Add(last, shift)
	return last.IsInt64()
}
