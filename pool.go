package pdfgen

import (
	"runtime"
	"sync"

	"go.uber.org/multierr"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// GeneratorPool manages Generators for parallel rendering.
// Each generator has its own browser instance, enabling true parallelism.
// Generators are created lazily on first acquire to avoid startup delay.
type GeneratorPool struct {
	size       int
	opts       []Option
	generators []*Generator
	sem        chan *Generator
	mu         sync.Mutex
	created    int
	closed     bool
}

// NewGeneratorPool creates a pool with capacity for n Generators, each
// built with opts. Options are validated once, up front.
func NewGeneratorPool(n int, opts ...Option) (*GeneratorPool, error) {
	if n < 1 {
		n = 1
	}

	// Fail fast on bad options instead of on the first Acquire.
	probe, err := NewGenerator(opts...)
	if err != nil {
		return nil, err
	}

	p := &GeneratorPool{
		size:       n,
		opts:       opts,
		generators: make([]*Generator, 0, n),
		sem:        make(chan *Generator, n),
	}
	p.generators = append(p.generators, probe)
	p.created = 1
	p.sem <- probe
	return p, nil
}

// Acquire gets a generator from the pool, creating one if needed.
// Blocks if all generators are in use.
func (p *GeneratorPool) Acquire() *Generator {
	// Try to get an existing generator (non-blocking)
	select {
	case g := <-p.sem:
		return g
	default:
	}

	// Check if we can create a new generator
	p.mu.Lock()
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		// Options were validated by NewGeneratorPool.
		g, err := NewGenerator(p.opts...)
		if err != nil {
			panic("pdfgen: generator options failed after validation: " + err.Error())
		}

		p.mu.Lock()
		p.generators = append(p.generators, g)
		p.mu.Unlock()

		return g
	}
	p.mu.Unlock()

	// All generators created, wait for one to be released
	return <-p.sem
}

// Release returns a generator to the pool. Releasing after Close is a no-op.
// The send never blocks: the channel holds every generator the pool created.
func (p *GeneratorPool) Release(g *Generator) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.sem <- g
}

// Close releases all browser resources.
// Returns the combined error of every generator that failed to close.
func (p *GeneratorPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	generators := p.generators
	p.mu.Unlock()

	var err error
	for _, g := range generators {
		err = multierr.Append(err, g.Close())
	}
	return err
}

// Size returns the pool capacity.
func (p *GeneratorPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the optimal pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
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
