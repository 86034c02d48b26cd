package detector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"gocv.io/x/gocv"
)

// ErrPoolClosed is returned by Pool.Detect after Close.
var ErrPoolClosed = errors.New("detector pool closed")

type job struct {
	ctx    context.Context
	frame  gocv.Mat
	result chan<- jobResult
}

type jobResult struct {
	hands []HandLandmarks
	err   error
}

// Pool runs landmark estimation on a fixed set of worker goroutines, each
// owning one Detector. Estimators are not assumed to be goroutine-safe, so a
// Detector is only ever driven by its own worker.
type Pool struct {
	detectors []Detector
	jobs      chan job
	done      chan struct{}
	logger    *slog.Logger
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewPool starts size workers, building one Detector per worker with factory.
func NewPool(size int, factory func() (Detector, error), logger *slog.Logger) (*Pool, error) {
	if size < 1 {
		size = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	p := &Pool{
		jobs:   make(chan job),
		done:   make(chan struct{}),
		logger: logger,
	}
	for i := 0; i < size; i++ {
		d, err := factory()
		if err != nil {
			for _, built := range p.detectors {
				built.Close()
			}
			return nil, fmt.Errorf("create detector %d: %w", i, err)
		}
		p.detectors = append(p.detectors, d)
	}

	for i, d := range p.detectors {
		p.wg.Add(1)
		go p.work(i, d)
	}
	logger.Info("detector pool started", "workers", size)
	return p, nil
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.detectors)
}

// Detect estimates hand landmarks for frame. Ownership of frame passes to
// the pool, which closes it once it is no longer needed, whatever the outcome.
func (p *Pool) Detect(ctx context.Context, frame gocv.Mat) ([]HandLandmarks, error) {
	if err := ctx.Err(); err != nil {
		frame.Close()
		return nil, err
	}

	result := make(chan jobResult, 1)
	select {
	case p.jobs <- job{ctx: ctx, frame: frame, result: result}:
	case <-ctx.Done():
		frame.Close()
		return nil, ctx.Err()
	case <-p.done:
		frame.Close()
		return nil, ErrPoolClosed
	}

	select {
	case r := <-result:
		return r.hands, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops the workers and closes every Detector.
func (p *Pool) Close() error {
	var errs []error
	p.closeOnce.Do(func() {
		close(p.done)
		p.wg.Wait()
		for _, d := range p.detectors {
			if err := d.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		p.logger.Info("detector pool stopped")
	})
	return errors.Join(errs...)
}

func (p *Pool) work(id int, d Detector) {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			return
		case j := <-p.jobs:
			j.result <- p.run(id, d, j)
		}
	}
}

func (p *Pool) run(id int, d Detector, j job) (r jobResult) {
	defer j.frame.Close()

	if err := j.ctx.Err(); err != nil {
		return jobResult{err: err}
	}

	defer func() {
		if rec := recover(); rec != nil {
			p.logger.Error("detector panic", "worker", id, "panic", rec)
			r = jobResult{err: fmt.Errorf("detector panic: %v", rec)}
		}
	}()

	hands, err := d.Detect(&j.frame)
	return jobResult{hands: hands, err: err}
}
