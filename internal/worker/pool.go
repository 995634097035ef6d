// Package worker runs match games on a fixed number of goroutines.
package worker

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/lgbarn/swapchess-go/internal/match"
)

// WorkItem is one game waiting for a worker.
type WorkItem struct {
	Pairing match.Pairing
	Index   int // Submission order, for reporting results in order
}

// ProcessResult is the outcome of one WorkItem.
type ProcessResult struct {
	Result match.Result
	Index  int
	Error  error // Same as Result.Err; kept separate for callers that only check failures
}

// ProcessFunc plays one work item. ctx is cancelled by Stop.
type ProcessFunc func(ctx context.Context, item WorkItem) ProcessResult

// PlayFunc returns a ProcessFunc that plays each pairing with engines
// from factory.
func PlayFunc(factory match.EngineFactory) ProcessFunc {
	return func(ctx context.Context, item WorkItem) ProcessResult {
		res := match.PlayGame(ctx, item.Pairing, factory)
		return ProcessResult{Result: res, Index: item.Index, Error: res.Err}
	}
}

// Pool manages the workers of one match.
type Pool struct {
	numWorkers  int
	bufferSize  int
	workChan    chan WorkItem
	resultChan  chan ProcessResult
	processFunc ProcessFunc
	wg          sync.WaitGroup
	stopFlag    int32 // Atomic flag for early termination

	ctx    context.Context
	cancel context.CancelFunc
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithWorkers sets the number of games played at once.
func WithWorkers(n int) PoolOption {
	return func(p *Pool) {
		if n >= 1 {
			p.numWorkers = n
		}
	}
}

// WithBufferSize sets the channel buffer size.
func WithBufferSize(size int) PoolOption {
	return func(p *Pool) {
		if size >= 1 {
			p.bufferSize = size
		}
	}
}

// WithContext sets the parent context of every game.
func WithContext(ctx context.Context) PoolOption {
	return func(p *Pool) {
		if ctx != nil {
			p.ctx = ctx
		}
	}
}

// NewPool creates a pool with the specified number of workers and buffer size.
func NewPool(numWorkers, bufferSize int, processFunc ProcessFunc) *Pool {
	return NewPoolWithOptions(processFunc, WithWorkers(numWorkers), WithBufferSize(bufferSize))
}

// NewPoolWithOptions creates a pool using functional options.
// Default: 1 worker, buffer size of 10, background context.
func NewPoolWithOptions(processFunc ProcessFunc, opts ...PoolOption) *Pool {
	p := &Pool{
		numWorkers:  1,
		bufferSize:  10,
		processFunc: processFunc,
		ctx:         context.Background(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.ctx, p.cancel = context.WithCancel(p.ctx)
	p.workChan = make(chan WorkItem, p.bufferSize)
	p.resultChan = make(chan ProcessResult, p.bufferSize)
	return p
}

// Start starts the worker goroutines.
func (p *Pool) Start() {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for item := range p.workChan {
		if p.IsStopped() {
			continue // drain
		}
		p.resultChan <- p.processFunc(p.ctx, item)
	}
}

// Submit queues a game. It blocks while the work buffer is full.
func (p *Pool) Submit(item WorkItem) {
	p.workChan <- item
}

// TrySubmit queues a game without blocking.
// Returns false if the work channel is full or the pool is stopped.
func (p *Pool) TrySubmit(item WorkItem) bool {
	if p.IsStopped() {
		return false
	}
	select {
	case p.workChan <- item:
		return true
	default:
		return false
	}
}

// Stop aborts games in progress and skips queued ones.
func (p *Pool) Stop() {
	atomic.StoreInt32(&p.stopFlag, 1)
	p.cancel()
}

// IsStopped returns true if the pool has been stopped.
func (p *Pool) IsStopped() bool {
	return atomic.LoadInt32(&p.stopFlag) != 0
}

// Close closes the work channel and waits for all workers to finish.
// The result channel is closed once they have.
func (p *Pool) Close() {
	close(p.workChan)
	p.wg.Wait()
	close(p.resultChan)
	p.cancel()
}

// Results returns the result channel for reading finished games.
func (p *Pool) Results() <-chan ProcessResult {
	return p.resultChan
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}
