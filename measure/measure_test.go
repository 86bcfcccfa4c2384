package measure

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestRun_CollectsOneSamplePerTrial(t *testing.T) {
	calls := 0
	result, err := Run(5, 0, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Expected run to succeed, got error: %v", err)
	}
	if calls != 5 {
		t.Errorf("Expected 5 calls, got %d", calls)
	}
	if len(result.Samples) != 5 {
		t.Errorf("Expected 5 samples, got %d", len(result.Samples))
	}
	for i, s := range result.Samples {
		if s < 0 {
			t.Errorf("Expected non-negative sample at %d, got %v", i, s)
		}
	}
}

func TestRun_RejectsNonPositiveTrials(t *testing.T) {
	for _, trials := range []int{0, -1} {
		if _, err := Run(trials, 0, func() error { return nil }); err == nil {
			t.Errorf("Expected error for trials=%d", trials)
		}
	}
}

func TestRun_StopsOnFirstOpError(t *testing.T) {
	boom := errors.New("device gone")
	calls := 0
	_, err := Run(10, 0, func() error {
		calls++
		if calls == 3 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected wrapped op error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected run to stop at call 3, got %d calls", calls)
	}
}

func TestRun_SleepsBetweenTrials(t *testing.T) {
	start := time.Now()
	_, err := Run(3, 30*time.Millisecond, func() error { return nil })
	if err != nil {
		t.Fatalf("Expected run to succeed, got error: %v", err)
	}
	// Two gaps of 30ms between three trials.
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Errorf("Expected at least 60ms elapsed, got %v", elapsed)
	}
}

func TestResult_MedianUsesUpperMiddleForEvenCount(t *testing.T) {
	r := &Result{Samples: []time.Duration{40, 10, 30, 20}}
	if got := r.Median(); got != 30 {
		t.Errorf("Expected upper median 30, got %v", got)
	}
}

func TestResult_MedianOddCount(t *testing.T) {
	r := &Result{Samples: []time.Duration{30, 10, 20}}
	if got := r.Median(); got != 20 {
		t.Errorf("Expected median 20, got %v", got)
	}
}

func TestResult_Statistics(t *testing.T) {
	r := &Result{Samples: []time.Duration{10, 20, 30, 40}}

	if got := r.Min(); got != 10 {
		t.Errorf("Expected min 10, got %v", got)
	}
	if got := r.Max(); got != 40 {
		t.Errorf("Expected max 40, got %v", got)
	}
	if got := r.Mean(); got != 25 {
		t.Errorf("Expected mean 25, got %v", got)
	}
	// Population standard deviation of {10,20,30,40}.
	want := math.Sqrt(125)
	if got := r.StdDev(); math.Abs(got-want) > 1e-9 {
		t.Errorf("Expected stddev %v, got %v", want, got)
	}
}

func TestResult_StatisticsOrdering(t *testing.T) {
	result, err := Run(7, 0, func() error {
		time.Sleep(time.Millisecond)
		return nil
	})
	if err != nil {
		t.Fatalf("Expected run to succeed, got error: %v", err)
	}

	min, median, max := result.Min(), result.Median(), result.Max()
	if !(min <= median && median <= max) {
		t.Errorf("Expected min <= median <= max, got %v %v %v", min, median, max)
	}
	mean := result.Mean()
	if mean < float64(min) || mean > float64(max) {
		t.Errorf("Expected mean within [min, max], got %v outside [%v, %v]", mean, min, max)
	}
}
