package detector

import (
	"context"
	"fmt"
	"sync"

	"github.com/timmy/foodlens/internal/domain"
	"github.com/timmy/foodlens/internal/logger"
)

// Pool bounds concurrent inference on a backend.
// Pool itself satisfies Backend, so callers do not know whether a pool is in front.
type Pool struct {
	backend Backend
	jobs    chan job
	quit    chan struct{}
	done    chan struct{}

	wg        sync.WaitGroup
	closeOnce sync.Once
}

type job struct {
	ctx       context.Context
	imagePath string
	threshold float64
	result    chan jobResult
}

type jobResult struct {
	dets []domain.DetectionRecord
	err  error
}

// NewPool starts workers goroutines in front of backend.
// Parameters:
//   - backend: backend to protect.
//   - workers: number of concurrent inferences, at least 1.
//   - queueSize: number of requests that may wait for a worker.
// Returns:
//   - *Pool: running pool; call Close to stop it.
func NewPool(backend Backend, workers, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}

	p := &Pool{
		backend: backend,
		jobs:    make(chan job, queueSize),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func(workerID int) {
			defer p.wg.Done()
			p.worker(workerID)
		}(i)
	}
	return p
}

func (p *Pool) worker(workerID int) {
	for {
		select {
		case <-p.quit:
			return
		case j := <-p.jobs:
			if err := j.ctx.Err(); err != nil {
				j.result <- jobResult{err: err}
				continue
			}
			j.result <- p.run(workerID, j)
		}
	}
}

// run calls the backend, turning a panic into an error for the waiting caller.
func (p *Pool) run(workerID int, j job) (res jobResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.CtxError(j.ctx, "Worker %d recovered from detector panic: %v", workerID, r)
			res = jobResult{err: fmt.Errorf("detector panic: %v", r)}
		}
	}()

	logger.CtxDebug(j.ctx, "Worker %d running detection on %s", workerID, j.imagePath)
	dets, err := p.backend.Detect(j.ctx, j.imagePath, j.threshold)
	return jobResult{dets: dets, err: err}
}

// Name returns the wrapped backend's name.
func (p *Pool) Name() string {
	return p.backend.Name()
}

// Detect queues the request and waits for a worker, honouring ctx while queued and running.
func (p *Pool) Detect(ctx context.Context, imagePath string, threshold float64) ([]domain.DetectionRecord, error) {
	// Buffered so a worker never blocks on a caller that gave up.
	result := make(chan jobResult, 1)

	select {
	case <-p.quit:
		return nil, ErrPoolClosed
	default:
	}

	select {
	case p.jobs <- job{ctx: ctx, imagePath: imagePath, threshold: threshold, result: result}:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.quit:
		return nil, ErrPoolClosed
	}

	select {
	case r := <-result:
		return r.dets, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.done:
		// Workers are gone; a finished job has already left its result behind.
		select {
		case r := <-result:
			return r.dets, r.err
		default:
			return nil, ErrPoolClosed
		}
	}
}

// Close stops the workers after their current job. Callers still queued get ErrPoolClosed.
// Safe to call more than once.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.quit)
		p.wg.Wait()
		close(p.done)
	})
}
