package parallelutil

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestFor_CoversAllIndices(t *testing.T) {
	const n = 1000

	var seen [n]int32

	err := For(8, n, func(_, start, end int) error {
		for i := start; i < end; i++ {
			atomic.AddInt32(&seen[i], 1)
		}

		return nil
	})
	if err != nil {
		t.Fatalf("For() error = %v", err)
	}

	for i, v := range seen {
		if v != 1 {
			t.Fatalf("index %d visited %d times, want 1", i, v)
		}
	}
}

func TestFor_PropagatesError(t *testing.T) {
	sentinel := errors.New("boom")

	err := For(4, 100, func(worker, _, _ int) error {
		if worker == 2 {
			return sentinel
		}

		return nil
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("For() error = %v, want %v", err, sentinel)
	}
}

func TestClampWorkers(t *testing.T) {
	tests := []struct {
		workers, tasks, want int
	}{
		{8, 3, 3},
		{0, 3, 1},
		{-1, 3, 1},
		{2, 0, 1},
	}
	for _, tt := range tests {
		if got := ClampWorkers(tt.workers, tt.tasks); got != tt.want {
			t.Errorf("ClampWorkers(%d, %d) = %d, want %d", tt.workers, tt.tasks, got, tt.want)
		}
	}
}
