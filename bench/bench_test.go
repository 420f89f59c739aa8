package bench

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/TFMV/kaggleset/pkg/dataset"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
}

func largeCSV(rows int) []byte {
	var buf bytes.Buffer
	buf.WriteString("id,score,name,label\n")
	for i := 0; i < rows; i++ {
		score := ""
		if i%17 != 0 {
			score = fmt.Sprintf("%g", float64(i)*0.25)
		}
		fmt.Fprintf(&buf, "%d,%s,user_%d,%d\n", i, score, i, i%2)
	}
	return buf.Bytes()
}

// Benchmark the two-pass read of a large CSV.
func BenchmarkReadLarge(b *testing.B) {
	data := largeCSV(100000)
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := dataset.Read("bench", bytes.NewReader(data)); err != nil {
			b.Fatalf("read: %v", err)
		}
	}
}

// Benchmark null removal followed by the default split.
func BenchmarkRemoveNonesAndSplit(b *testing.B) {
	data := largeCSV(100000)
	rng := dataset.NewRandomState(1)
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		ds, err := dataset.Read("bench", bytes.NewReader(data), dataset.WithTraining(true))
		if err != nil {
			b.Fatalf("read: %v", err)
		}
		b.StartTimer()

		ds.RemoveNones()
		if _, _, err := ds.Split(rng); err != nil {
			b.Fatalf("split: %v", err)
		}
	}
}
