// Package gather runs batches of independent jobs with bounded parallelism.
//
// It exists for fan-out reads where the caller owns an indexed result slice:
// each job writes into its own slot, so output order never depends on
// completion order. A run is fail-fast: the first job error cancels the run
// context, in-flight jobs are expected to bail, and queued jobs are skipped.
package gather

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const defaultWorkers = 8

// Pool executes job batches with a fixed upper bound on parallelism.
// A Pool is stateless between runs and safe for concurrent use.
type Pool struct {
	workers int
}

// New builds a Pool from cfg. Zero or negative Workers falls back to the
// package default.
func New(cfg Config) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	return &Pool{workers: cfg.Workers}
}

// Run executes every job and blocks until all workers have exited. The first
// error cancels the shared run context and is returned; later errors are
// dropped. Jobs not yet started when the run is cancelled are counted as
// failures and never executed. An empty batch is a no-op.
func (p *Pool) Run(ctx context.Context, jobs []Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(jobs) == 0 {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	next := make(chan int)
	workers := p.workers
	if workers > len(jobs) {
		workers = len(jobs)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range next {
				label := labelFor(idx)
				if err := runCtx.Err(); err != nil {
					jobFailuresTotal.WithLabelValues(label).Inc()
					fail(err)
					continue
				}
				jobsTotal.WithLabelValues(label).Inc()
				start := time.Now()
				err := runJob(runCtx, jobs[idx], idx)
				jobDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
				if err != nil {
					jobFailuresTotal.WithLabelValues(label).Inc()
					fail(err)
				}
			}
		}()
	}

feed:
	for i := range jobs {
		select {
		case next <- i:
		case <-runCtx.Done():
			break feed
		}
	}
	close(next)
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return runCtx.Err()
}

// runJob converts a job panic into an error so one bad job cannot take the
// worker down with it.
func runJob(ctx context.Context, job Job, idx int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("gather: job %d panicked: %v", idx, r)
		}
	}()
	return job.Run(ctx)
}
