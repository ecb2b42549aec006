package harness

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// BenchStats summarises repeated timings of one operation. All durations are
// in seconds.
type BenchStats struct {
	Name       string  `json:"name"`
	Iterations int     `json:"iterations"`
	Mean       float64 `json:"mean_time"`
	Std        float64 `json:"std_time"`
	Min        float64 `json:"min_time"`
	Max        float64 `json:"max_time"`
	Total      float64 `json:"total_time"`
}

// Bench runs op iters times sequentially and returns timing statistics.
// It stops at the first failure, since timings of a failing operation are
// meaningless.
func Bench(name string, iters int, op func() error) (BenchStats, error) {
	if iters < 1 {
		return BenchStats{}, fmt.Errorf("iterations must be positive, got %d", iters)
	}
	times := make([]float64, 0, iters)
	for i := 0; i < iters; i++ {
		start := time.Now()
		if err := op(); err != nil {
			return BenchStats{}, fmt.Errorf("iteration %d: %w", i, err)
		}
		times = append(times, time.Since(start).Seconds())
	}
	std := 0.0
	if len(times) > 1 {
		std = stat.StdDev(times, nil)
	}
	return BenchStats{
		Name:       name,
		Iterations: iters,
		Mean:       stat.Mean(times, nil),
		Std:        std,
		Min:        floats.Min(times),
		Max:        floats.Max(times),
		Total:      floats.Sum(times),
	}, nil
}

func (b BenchStats) String() string {
	return fmt.Sprintf("%s: n=%d mean=%.4fs std=%.4fs min=%.4fs max=%.4fs total=%.4fs",
		b.Name, b.Iterations, b.Mean, b.Std, b.Min, b.Max, b.Total)
}
