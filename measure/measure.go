// Package measure runs repeated timed operations and summarizes the
// collected samples.
package measure

import (
	"fmt"
	"math"
	"slices"
	"time"
)

// Result holds one duration sample per completed trial.
type Result struct {
	Samples []time.Duration
}

// Run calls op trials times, timing every call and sleeping delay
// between consecutive calls. The first error from op aborts the run.
func Run(trials int, delay time.Duration, op func() error) (*Result, error) {
	if trials < 1 {
		return nil, fmt.Errorf("trials must be at least 1, got %d", trials)
	}

	result := &Result{Samples: make([]time.Duration, 0, trials)}
	for i := 0; i < trials; i++ {
		if i > 0 && delay > 0 {
			time.Sleep(delay)
		}
		start := time.Now()
		if err := op(); err != nil {
			return nil, fmt.Errorf("trial %d: %w", i+1, err)
		}
		result.Samples = append(result.Samples, time.Since(start))
	}
	return result, nil
}

// Min returns the smallest sample.
func (r *Result) Min() time.Duration {
	return slices.Min(r.Samples)
}

// Max returns the largest sample.
func (r *Result) Max() time.Duration {
	return slices.Max(r.Samples)
}

// Median returns the sample at index len/2 of the sorted samples. For
// an even count this is the higher of the two middle values, not their
// average.
func (r *Result) Median() time.Duration {
	sorted := slices.Clone(r.Samples)
	slices.Sort(sorted)
	return sorted[len(sorted)/2]
}

// Mean returns the arithmetic mean in nanoseconds.
func (r *Result) Mean() float64 {
	var sum float64
	for _, s := range r.Samples {
		sum += float64(s)
	}
	return sum / float64(len(r.Samples))
}

// StdDev returns the population standard deviation in nanoseconds.
func (r *Result) StdDev() float64 {
	mean := r.Mean()
	var sum float64
	for _, s := range r.Samples {
		d := float64(s) - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(r.Samples)))
}
