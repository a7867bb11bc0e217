package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/alnah/go-pdfgen"
)

// dirPermissions is used for output directories: rwxr-x---.
const dirPermissions = 0o750

// renderJob is one output PDF. build is called on the worker, so document
// assembly runs in parallel too.
type renderJob struct {
	InputPath  string
	OutputPath string
	build      func() (*pdfgen.Document, error)
}

// RenderResult holds the outcome of a single job.
type RenderResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// renderBatch processes jobs concurrently using the pool. Results keep the
// order of jobs.
func renderBatch(ctx context.Context, pool Pool, jobs []renderJob) []RenderResult {
	if len(jobs) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(jobs) {
		concurrency = len(jobs)
	}

	results := make([]RenderResult, len(jobs))
	var wg sync.WaitGroup
	queue := make(chan int, len(jobs))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			r := pool.Acquire()
			if r == nil {
				// Pool closed or generator creation failed: fail what is left.
				for idx := range queue {
					results[idx] = RenderResult{InputPath: jobs[idx].InputPath, Err: ErrGeneratorInit}
				}
				return
			}
			defer pool.Release(r)

			for idx := range queue {
				if err := ctx.Err(); err != nil {
					results[idx] = RenderResult{InputPath: jobs[idx].InputPath, Err: err}
					continue
				}
				results[idx] = renderOne(ctx, r, jobs[idx])
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

// renderOne builds and renders a single job.
func renderOne(ctx context.Context, r Renderer, job renderJob) (result RenderResult) {
	start := time.Now()
	result = RenderResult{InputPath: job.InputPath, OutputPath: job.OutputPath}
	defer func() { result.Duration = time.Since(start) }()

	doc, err := job.build()
	if err != nil {
		result.Err = err
		return result
	}

	if err := os.MkdirAll(filepath.Dir(job.OutputPath), dirPermissions); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWritePDF, err)
		return result
	}

	result.Err = r.RenderToFile(ctx, doc, job.OutputPath)
	return result
}

// ResultSummary holds the count of succeeded and failed jobs.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed jobs.
func countResults(results []RenderResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults reports every job and a summary for batches. The failure
// of a single job is left to the returned error.
func printResults(results []RenderResult, quiet, verbose bool, stdout, stderr io.Writer) ResultSummary {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			if len(results) > 1 {
				fmt.Fprintf(stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			}
			continue
		}
		if quiet {
			continue
		}
		if verbose {
			fmt.Fprintf(stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}
	return summary
}

// batchError reports failed jobs. It unwraps to every job error, so
// exit codes follow the underlying causes.
type batchError struct {
	failed int
	total  int
	err    error
}

func (e *batchError) Error() string {
	if e.total == 1 {
		return e.err.Error()
	}
	return fmt.Sprintf("%d of %d documents failed", e.failed, e.total)
}

func (e *batchError) Unwrap() []error { return multierr.Errors(e.err) }

// resultsError returns nil when every job succeeded.
func resultsError(results []RenderResult) error {
	var err error
	for _, r := range results {
		err = multierr.Append(err, r.Err)
	}
	if err == nil {
		return nil
	}
	return &batchError{failed: countResults(results).Failed, total: len(results), err: err}
}
