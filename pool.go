package mediakit

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one session slot is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent browser sessions to limit memory
	// (~200MB per Chrome instance).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// SessionPool bounds how many browser sessions run at once. Sessions are
// still launched per capture (no browser reuse); the pool only gates
// admission so a burst of capture requests cannot exhaust host memory.
// Waiters queue in FIFO order and give up when their context ends.
type SessionPool struct {
	size int
	sem  *semaphore.Weighted
}

// NewSessionPool creates a pool admitting up to n concurrent sessions.
func NewSessionPool(n int) *SessionPool {
	if n < 1 {
		n = 1
	}
	return &SessionPool{
		size: n,
		sem:  semaphore.NewWeighted(int64(n)),
	}
}

// Acquire takes a session slot, blocking while the pool is full. Returns
// the context's error if it is canceled while waiting.
func (p *SessionPool) Acquire(ctx context.Context) error {
	return p.sem.Acquire(ctx, 1)
}

// TryAcquire takes a slot without blocking, reporting whether it got one.
func (p *SessionPool) TryAcquire() bool {
	return p.sem.TryAcquire(1)
}

// Release returns a slot to the pool.
func (p *SessionPool) Release() {
	p.sem.Release(1)
}

// Size returns the pool capacity.
func (p *SessionPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the session limit.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	// Explicit value takes priority
	if workers > 0 {
		return workers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	available := runtime.GOMAXPROCS(0)
	n := available / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
