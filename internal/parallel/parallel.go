// Package parallel provides parallel execution utilities for sample-wise kernels.
package parallel

import (
	"runtime"

	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum elements per worker to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 16384, // Roughly one L1-sized block of float32 per worker.
	}
}

// Sequential returns a Config that never spawns work.
func Sequential() Config {
	return Config{NumWorkers: 1}
}

// Pool runs index ranges on a persistent set of workers.
// A Pool is safe for concurrent use; Close it when done.
type Pool struct {
	cfg     Config
	workers *workerpool.Pool // nil when parallelism is disabled
}

// NewPool creates a pool for cfg. No goroutines are started when cfg
// disables parallelism or asks for a single worker.
func NewPool(cfg Config) *Pool {
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = runtime.GOMAXPROCS(0)
	}
	if cfg.MinChunkSize <= 0 {
		cfg.MinChunkSize = 1
	}
	p := &Pool{cfg: cfg}
	if cfg.Enabled && cfg.NumWorkers > 1 {
		p.workers = workerpool.New(cfg.NumWorkers)
	}
	return p
}

// Config returns the configuration the pool was built with.
func (p *Pool) Config() Config {
	return p.cfg
}

// Close stops the workers. Later calls run sequentially.
func (p *Pool) Close() {
	if p.workers != nil {
		p.workers.Close()
	}
}

// For executes f over [0, n) split into contiguous [start, end) ranges.
// cost is the number of elements touched per index; ranges are sized so
// each covers at least MinChunkSize elements. Falls back to a single
// f(0, n) call when parallelism is off or the work is too small.
func (p *Pool) For(n, cost int, f func(start, end int)) {
	if n <= 0 {
		return
	}
	chunks := p.numChunks(n, cost)
	if chunks <= 1 {
		f(0, n)
		return
	}

	chunkSize := (n + chunks - 1) / chunks
	p.workers.ParallelFor(chunks, func(cs, ce int) {
		for c := cs; c < ce; c++ {
			start := c * chunkSize
			end := min(start+chunkSize, n)
			if start < end {
				f(start, end)
			}
		}
	})
}

// numChunks decides how many ranges to split n items of the given cost into.
func (p *Pool) numChunks(n, cost int) int {
	if p.workers == nil || n < 2 {
		return 1
	}
	cost = max(cost, 1)
	byWork := (n * cost) / p.cfg.MinChunkSize
	return max(min(p.cfg.NumWorkers, n, byWork), 1)
}
