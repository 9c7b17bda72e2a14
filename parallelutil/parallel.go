// Package parallelutil implements the fine intra-kernel parallelism
// tier: splitting a contiguous range of work items into chunks and
// running the chunks across goroutines, collecting the first error any
// chunk returns. The coarse fork-join tier over boundary subtrees lives
// in the ap package, using the same errgroup.Group mechanism but over
// a handful of whole plan-node subtrees rather than index ranges.
package parallelutil

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// EffectiveWorkers resolves a requested worker count: <= 0 means "use
// GOMAXPROCS", and the result is never less than 1.
func EffectiveWorkers(workers int) int {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	if workers < 1 {
		workers = 1
	}

	return workers
}

// ClampWorkers never returns more workers than there are tasks to
// split across, and never fewer than 1.
func ClampWorkers(workers, tasks int) int {
	if tasks < 1 {
		return 1
	}

	if workers < 1 {
		workers = 1
	}

	if workers > tasks {
		return tasks
	}

	return workers
}

// chunkBounds returns the [start, end) bounds of the w-th of up to
// workers contiguous chunks covering [0, tasks), or ok=false once w
// has run past the end of the range (possible when tasks doesn't
// divide evenly across workers).
func chunkBounds(w, workers, tasks int) (start, end int, ok bool) {
	size := (tasks + workers - 1) / workers

	start = w * size
	if start >= tasks {
		return 0, 0, false
	}

	end = start + size
	if end > tasks {
		end = tasks
	}

	return start, end, true
}

// For splits [0, tasks) into up to workers contiguous chunks and runs
// fn(worker, start, end) for each chunk on its own goroutine via an
// errgroup.Group, waiting for all to finish regardless of failure:
// none of this tier's callers have a partial result worth discarding
// early for, so every chunk always completes. The first non-nil error
// returned by any chunk is what Wait reports back.
func For(workers, tasks int, fn func(worker, start, end int) error) error {
	if tasks <= 0 {
		return nil
	}

	if workers <= 1 || tasks == 1 {
		return fn(0, 0, tasks)
	}

	var eg errgroup.Group

	for w := 0; w < workers; w++ {
		start, end, ok := chunkBounds(w, workers, tasks)
		if !ok {
			break
		}

		worker := w

		eg.Go(func() error {
			return fn(worker, start, end)
		})
	}

	return eg.Wait()
}
