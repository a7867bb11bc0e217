package main

import (
	"context"
	"fmt"

	"github.com/alnah/go-pdfgen"
)

// Renderer writes a document to a PDF file.
type Renderer interface {
	RenderToFile(ctx context.Context, doc *pdfgen.Document, path string) error
}

// Compile-time interface implementation check.
var _ Renderer = (*pdfgen.Generator)(nil)

// Pool abstracts renderer pool operations for testability.
type Pool interface {
	Acquire() Renderer
	Release(Renderer)
	Size() int
	Close() error
}

// generatorPool adapts *pdfgen.GeneratorPool to Pool.
type generatorPool struct {
	pool *pdfgen.GeneratorPool
}

// Compile-time check that generatorPool implements Pool.
var _ Pool = (*generatorPool)(nil)

// newGeneratorPool creates a browser-backed pool of size generators.
func newGeneratorPool(size int, opts ...pdfgen.Option) (Pool, error) {
	p, err := pdfgen.NewGeneratorPool(size, opts...)
	if err != nil {
		return nil, err
	}
	return &generatorPool{pool: p}, nil
}

// Acquire returns nil once the pool is closed.
func (p *generatorPool) Acquire() Renderer {
	g := p.pool.Acquire()
	if g == nil {
		return nil
	}
	return g
}

// Release panics on a Renderer this pool did not hand out.
func (p *generatorPool) Release(r Renderer) {
	g, ok := r.(*pdfgen.Generator)
	if !ok {
		panic(fmt.Sprintf("generatorPool.Release: unexpected type %T", r))
	}
	p.pool.Release(g)
}

func (p *generatorPool) Size() int    { return p.pool.Size() }
func (p *generatorPool) Close() error { return p.pool.Close() }
