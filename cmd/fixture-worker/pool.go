package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/luxfi/lwe/fixture"
	"github.com/luxfi/lwe/internal/queue"
	"github.com/luxfi/lwe/internal/storage"
)

// WorkerPool manages a pool of fixture workers.
type WorkerPool struct {
	numWorkers   int
	queue        queue.Queue
	storage      storage.Storage
	wg           sync.WaitGroup
	cancel       context.CancelFunc
	running      atomic.Bool
	passedCount  atomic.Int64
	failedCount  atomic.Int64
	erroredCount atomic.Int64
}

// Start starts the worker pool.
func (p *WorkerPool) Start(ctx context.Context) error {
	if p.running.Load() {
		return errors.New("pool already running")
	}

	ctx, p.cancel = context.WithCancel(ctx)
	p.running.Store(true)

	log.Printf("Starting %d workers", p.numWorkers)

	for i := range p.numWorkers {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}

	return nil
}

// Stop gracefully stops the worker pool.
func (p *WorkerPool) Stop() error {
	if !p.running.Load() {
		return nil
	}

	log.Println("Stopping worker pool...")
	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("Worker pool stopped")
	case <-time.After(30 * time.Second):
		log.Println("Shutdown timeout exceeded")
		return errors.New("shutdown timeout")
	}

	p.running.Store(false)
	return nil
}

func (p *WorkerPool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	log.Printf("Worker %d started", id)

	for {
		select {
		case <-ctx.Done():
			log.Printf("Worker %d stopping", id)
			return
		default:
		}

		job, err := p.queue.Pop(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, queue.ErrClosed) {
				return
			}
			log.Printf("Worker %d: failed to pop job: %v", id, err)
			time.Sleep(time.Second)
			continue
		}

		p.processJob(ctx, id, job)
	}
}

func (p *WorkerPool) processJob(ctx context.Context, workerID int, job *queue.Job) {
	log.Printf("Worker %d: processing job %s (fixture=%s precision=%s)", workerID, job.ID, job.Fixture, job.Precision)

	job.Status = queue.StatusRunning
	if err := p.queue.Update(ctx, job); err != nil {
		log.Printf("Worker %d: failed to update job status: %v", workerID, err)
	}

	report, err := runJob(job)
	if err != nil {
		p.fail(ctx, job, err)
		return
	}

	handle, err := storage.Reports{Storage: p.storage}.Put(ctx, report)
	if err != nil {
		p.fail(ctx, job, fmt.Errorf("store report: %w", err))
		return
	}

	job.ReportHandle = string(handle)
	if err := report.Err(); err != nil {
		job.Status = queue.StatusFailed
		job.Error = err.Error()
		p.failedCount.Add(1)
	} else {
		job.Status = queue.StatusPassed
		p.passedCount.Add(1)
	}
	if err := p.queue.Update(ctx, job); err != nil {
		log.Printf("Worker %d: failed to update job result: %v", workerID, err)
	}

	log.Printf("Worker %d: job %s %s", workerID, job.ID, job.Status)
}

// fail records a job that could not produce a report.
func (p *WorkerPool) fail(ctx context.Context, job *queue.Job, err error) {
	job.Status = queue.StatusFailed
	job.Error = err.Error()
	if uerr := p.queue.Update(ctx, job); uerr != nil {
		log.Printf("failed to update job %s: %v", job.ID, uerr)
	}
	p.erroredCount.Add(1)
	log.Printf("job %s failed: %v", job.ID, err)
}

func runJob(job *queue.Job) (fixture.Report, error) {
	run, err := fixture.Lookup(job.Fixture)
	if err != nil {
		return fixture.Report{}, err
	}

	opts, err := fixture.NewOptions(job.Mode, job.Repetitions, job.Samples)
	if err != nil {
		return fixture.Report{}, err
	}

	var seed []byte
	if job.Seed != "" {
		seed = []byte(job.Seed)
	}
	return run(seed, job.Precision, opts)
}
