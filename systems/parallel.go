package systems

import (
	"runtime"
	"sync"
)

// minForParallel is the threshold below which a phase runs on the
// calling goroutine: below this count, goroutine spin-up overhead
// exceeds the benefit, matching the teacher's
// minOrganismsForParallel threshold in systems/behavior.go.
const minForParallel = 100

// ParallelRange runs fn(lo, hi) for each of several disjoint
// [lo, hi) index chunks covering [0, n), on separate goroutines when
// n is large enough to be worth it. fn must only write indices in
// [lo, hi) — this is the "single writer per index" rule of spec §5.
func ParallelRange(n int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if n < minForParallel {
		fn(0, n)
		return
	}

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if lo >= n {
			break
		}
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}
