package dataset

import (
	"fmt"
	"testing"
)

const benchLength = 1 << 20

var sink Dataset

func BenchmarkGenerate(b *testing.B) {
	for _, ratio := range DefaultDisorderRatios {
		b.Run(fmt.Sprintf("ratio=%v", ratio), func(b *testing.B) {
			rng := NewSource(1)
			b.SetBytes(int64(8 * benchLength))
			for i := 0; i < b.N; i++ {
				d, err := Generate(benchLength, 0, DefaultMaxGapMillis, ratio, rng)
				if err != nil {
					b.Fatal(err)
				}
				sink = d
			}
		})
	}
}

func BenchmarkCopyInto(b *testing.B) {
	batch, err := NewBatch(Config{Length: benchLength, MaxGapMillis: DefaultMaxGapMillis, DisorderRatio: 0.01, DatasetCount: 1})
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(8 * benchLength))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if sink, err = batch.CopyInto(sink, 0); err != nil {
			b.Fatal(err)
		}
	}
}
