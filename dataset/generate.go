package dataset

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// WindowWidths are the candidate widths of a local swap window. A swap moves
// an element at most one window away from where it was generated, the way a
// late arriving record lands shortly after its peers.
var WindowWidths = [...]int{50, 100, 200, 300, 400, 500, 600}

// Dataset is an ordered sequence of millisecond timestamps.
type Dataset []int64

// Clone returns an independent copy of d.
func (d Dataset) Clone() Dataset {
	if d == nil {
		return nil
	}
	c := make(Dataset, len(d))
	copy(c, d)
	return c
}

// NewSource returns the random generator used for a given seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// Generate builds a dataset of n timestamps starting at baseTime. Each step
// advances by a uniform draw in [0, maxGap), then floor(n*ratio) local swaps
// are applied. All randomness comes from rng, so equal seeds give equal
// output.
func Generate(n int, baseTime, maxGap int64, ratio float64, rng *rand.Rand) (Dataset, error) {
	cfg := Config{
		Length:         n,
		BaseTimeMillis: baseTime,
		MaxGapMillis:   maxGap,
		DisorderRatio:  ratio,
		DatasetCount:   1,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidParameter)
	}
	d := base(n, baseTime, maxGap, rng)
	perturb(d, SwapCount(n, ratio), rng)
	return d, nil
}

// SwapCount is the number of swaps applied to a dataset of length n.
func SwapCount(n int, ratio float64) int {
	return int(math.Floor(float64(n) * ratio))
}

func base(n int, baseTime, maxGap int64, rng *rand.Rand) Dataset {
	d := make(Dataset, n)
	t := baseTime
	for i := range d {
		d[i] = t
		t += rng.Int64N(maxGap)
	}
	return d
}

// perturb swaps d[i] with d[i-k], k drawn from [0, s) for a random window
// width s. k == 0 leaves the pair in place; such draws still count toward
// swaps so the disorder distribution stays the one being measured.
func perturb(d Dataset, swaps int, rng *rand.Rand) {
	n := len(d)
	if n < 2 {
		return
	}
	for ; swaps > 0; swaps-- {
		s := WindowWidths[rng.IntN(len(WindowWidths))]
		if s > n-1 {
			s = n - 1
		}
		i := s + rng.IntN(n-s)
		j := i - rng.IntN(s)
		d[i], d[j] = d[j], d[i]
	}
}
