package dataset

import (
	"fmt"
)

// Batch is a fixed-count collection of independently generated datasets
// owned by a single measurement session. Datasets held by the batch stay
// pristine; callers that sort get a copy through Copy.
type Batch struct {
	cfg      Config
	datasets []Dataset
	released bool
}

// NewBatch generates cfg.DatasetCount datasets, each starting one year after
// the previous one. A single source seeded with cfg.Seed feeds every dataset
// in order, so the batch is reproducible as a whole.
func NewBatch(cfg Config) (*Batch, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := NewSource(cfg.Seed)
	b := &Batch{
		cfg:      cfg,
		datasets: make([]Dataset, 0, cfg.DatasetCount),
	}
	baseTime := cfg.BaseTimeMillis
	for i := 0; i < cfg.DatasetCount; i++ {
		d, err := Generate(cfg.Length, baseTime, cfg.MaxGapMillis, cfg.DisorderRatio, rng)
		if err != nil {
			return nil, fmt.Errorf("generate dataset %d: %w", i, err)
		}
		b.datasets = append(b.datasets, d)
		baseTime += YearMillis
	}
	return b, nil
}

// Config returns the configuration the batch was generated from.
func (b *Batch) Config() Config {
	return b.cfg
}

// Len returns the number of datasets, or 0 once released.
func (b *Batch) Len() int {
	if b == nil || b.released {
		return 0
	}
	return len(b.datasets)
}

// Released reports whether Release was called.
func (b *Batch) Released() bool {
	return b == nil || b.released
}

// Dataset returns the i-th pristine dataset. It must be treated as read-only.
func (b *Batch) Dataset(i int) (Dataset, error) {
	if b == nil || b.released {
		return nil, fmt.Errorf("%w: batch released", ErrPreconditionViolation)
	}
	if i < 0 || i >= len(b.datasets) {
		return nil, fmt.Errorf("%w: dataset index %d out of range [0,%d)", ErrPreconditionViolation, i, len(b.datasets))
	}
	return b.datasets[i], nil
}

// Copy returns a caller-owned copy of the i-th dataset.
func (b *Batch) Copy(i int) (Dataset, error) {
	d, err := b.Dataset(i)
	if err != nil {
		return nil, err
	}
	return d.Clone(), nil
}

// CopyInto copies the i-th dataset into dst, reusing its storage when large
// enough, and returns the filled slice.
func (b *Batch) CopyInto(dst Dataset, i int) (Dataset, error) {
	d, err := b.Dataset(i)
	if err != nil {
		return nil, err
	}
	if cap(dst) < len(d) {
		dst = make(Dataset, len(d))
	}
	dst = dst[:len(d)]
	copy(dst, d)
	return dst, nil
}

// Release drops the datasets. Any later access fails with
// ErrPreconditionViolation.
func (b *Batch) Release() {
	if b == nil {
		return
	}
	b.datasets = nil
	b.released = true
}
