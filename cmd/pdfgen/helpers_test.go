package main

// Notes:
// - Shared fakes for command tests. fakePool hands out fakeRenderers that
//   write a minimal PDF header, so commands run without a browser.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-pdfgen"
)

// fixedNow is the clock of every test environment.
var fixedNow = time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

// ---------------------------------------------------------------------------
// Mock Implementations - Renderer and Pool
// ---------------------------------------------------------------------------

// fakeRenderer records rendered documents and writes a PDF stub.
type fakeRenderer struct {
	mu       sync.Mutex
	err      error
	contents map[string]string // output path -> document content
}

func newFakeRenderer(err error) *fakeRenderer {
	return &fakeRenderer{err: err, contents: map[string]string{}}
}

func (r *fakeRenderer) RenderToFile(ctx context.Context, doc *pdfgen.Document, path string) error {
	if r.err != nil {
		return r.err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o644); err != nil {
		return err
	}
	r.mu.Lock()
	r.contents[path] = doc.Content()
	r.mu.Unlock()
	return nil
}

func (r *fakeRenderer) content(path string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contents[path]
	return c, ok
}

// fakePool hands out one shared renderer.
type fakePool struct {
	renderer *fakeRenderer
	size     int
	nilOnce  bool // Acquire returns nil, like a closed pool

	mu       sync.Mutex
	acquired int
	released int
	closed   bool
}

func (p *fakePool) Acquire() Renderer {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.nilOnce {
		return nil
	}
	p.acquired++
	return p.renderer
}

func (p *fakePool) Release(Renderer) {
	p.mu.Lock()
	p.released++
	p.mu.Unlock()
}

func (p *fakePool) Size() int { return p.size }

func (p *fakePool) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}

// ---------------------------------------------------------------------------
// Test Environment
// ---------------------------------------------------------------------------

// testEnv captures output and the size requested from the pool factory.
type testEnv struct {
	*Environment
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	pool      *fakePool
	poolSizes []int
	poolErr   error
}

func newTestEnv(renderErr error) *testEnv {
	te := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		pool:   &fakePool{renderer: newFakeRenderer(renderErr)},
	}
	te.Environment = &Environment{
		Now:    func() time.Time { return fixedNow },
		Stdout: te.stdout,
		Stderr: te.stderr,
		NewPool: func(size int, _ ...pdfgen.Option) (Pool, error) {
			if te.poolErr != nil {
				return nil, te.poolErr
			}
			te.poolSizes = append(te.poolSizes, size)
			te.pool.size = size
			return te.pool, nil
		},
	}
	return te
}

// writeTestFile writes content to path, creating parent directories.
func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// assertPDFStub fails unless path holds the fake renderer output.
func assertPDFStub(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("%s does not hold a PDF", path)
	}
}
