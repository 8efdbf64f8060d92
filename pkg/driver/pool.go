package driver

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Job is one unit of pool work: a file to tokenize. Seq is assigned by
// the caller and echoed back on the matching PoolResult so results can
// be reassembled in submission order.
type Job struct {
	Seq      int
	Filename string
}

// PoolResult pairs a tokenize Result with its pool bookkeeping.
type PoolResult struct {
	Seq      int
	Filename string
	WorkerID int
	Duration time.Duration
	Result   *Result
}

// PoolStats describes aggregate pool activity.
type PoolStats struct {
	WorkerCount   int
	TotalJobs     int
	ActiveJobs    int
	CompletedJobs int // results without errors
	FailedJobs    int // results carrying at least one error
	TotalTime     time.Duration
	AverageTime   time.Duration
}

// Pool tokenizes files concurrently over a fixed set of workers sharing
// one session. Submit must not be called concurrently with or after
// Shutdown.
type Pool struct {
	session    *Zen
	numWorkers int

	jobQueue   chan Job
	resultChan chan *PoolResult

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	started    int32 // atomic
	stopped    int32 // atomic
	activeJobs int32 // atomic

	stats      PoolStats
	statsMutex sync.RWMutex
}

// NewPool creates a pool of numWorkers workers backed by session z.
// A non-positive worker count means one worker per CPU.
func NewPool(z *Zen, numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Pool{session: z, numWorkers: numWorkers}
}

// Start launches the workers. The pool stops accepting and processing
// work when ctx is cancelled.
func (p *Pool) Start(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&p.started, 0, 1) {
		return fmt.Errorf("pool already started")
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.jobQueue = make(chan Job, 2*p.numWorkers)
	p.resultChan = make(chan *PoolResult, 2*p.numWorkers)
	p.stats = PoolStats{WorkerCount: p.numWorkers}

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	return nil
}

// Submit enqueues a job, blocking while the queue is full.
func (p *Pool) Submit(job Job) error {
	if atomic.LoadInt32(&p.started) == 0 {
		return fmt.Errorf("pool not started")
	}
	if atomic.LoadInt32(&p.stopped) == 1 {
		return fmt.Errorf("pool stopped")
	}

	select {
	case p.jobQueue <- job:
		atomic.AddInt32(&p.activeJobs, 1)
		p.statsMutex.Lock()
		p.stats.TotalJobs++
		p.statsMutex.Unlock()
		return nil
	case <-p.ctx.Done():
		return p.ctx.Err()
	}
}

// Results returns the channel pool results arrive on. It is closed once
// Shutdown completes gracefully.
func (p *Pool) Results() <-chan *PoolResult {
	return p.resultChan
}

// Shutdown stops the pool, letting already-queued jobs finish. When ctx
// expires first the workers are cancelled mid-flight instead.
func (p *Pool) Shutdown(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&p.stopped, 0, 1) {
		return fmt.Errorf("pool already stopped")
	}

	close(p.jobQueue)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		close(p.resultChan)
		return nil
	case <-ctx.Done():
		p.cancel()
		return ctx.Err()
	}
}

// HasActiveJobs reports whether any submitted jobs have not yet produced
// a result.
func (p *Pool) HasActiveJobs() bool {
	return atomic.LoadInt32(&p.activeJobs) > 0
}

// Stats returns a snapshot of pool activity.
func (p *Pool) Stats() PoolStats {
	p.statsMutex.RLock()
	defer p.statsMutex.RUnlock()

	stats := p.stats
	stats.ActiveJobs = int(atomic.LoadInt32(&p.activeJobs))
	return stats
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}

			start := time.Now()
			res := p.session.TokenizeFile(job.Filename)
			pr := &PoolResult{
				Seq:      job.Seq,
				Filename: job.Filename,
				WorkerID: id,
				Duration: time.Since(start),
				Result:   res,
			}

			p.statsMutex.Lock()
			if res.OK() {
				p.stats.CompletedJobs++
			} else {
				p.stats.FailedJobs++
			}
			p.stats.TotalTime += pr.Duration
			if n := p.stats.CompletedJobs + p.stats.FailedJobs; n > 0 {
				p.stats.AverageTime = p.stats.TotalTime / time.Duration(n)
			}
			p.statsMutex.Unlock()

			atomic.AddInt32(&p.activeJobs, -1)

			select {
			case p.resultChan <- pr:
			case <-p.ctx.Done():
				return
			}

		case <-p.ctx.Done():
			return
		}
	}
}

// TokenizeFiles tokenizes the named files concurrently over numWorkers
// workers and returns one Result per file, in input order. A file that
// cannot be read contributes a Result carrying its IOError rather than
// failing the batch; a non-nil error reports only pool-level failures
// such as context cancellation.
func (z *Zen) TokenizeFiles(ctx context.Context, filenames []string, numWorkers int) ([]*Result, error) {
	if len(filenames) == 0 {
		return nil, nil
	}

	pool := NewPool(z, numWorkers)
	if err := pool.Start(ctx); err != nil {
		return nil, err
	}

	submitDone := make(chan struct{})
	go func() {
		defer close(submitDone)
		for i, name := range filenames {
			if err := pool.Submit(Job{Seq: i, Filename: name}); err != nil {
				return
			}
		}
	}()

	results := make([]*Result, len(filenames))
	for received := 0; received < len(filenames); received++ {
		select {
		case pr := <-pool.Results():
			results[pr.Seq] = pr.Result
		case <-ctx.Done():
			<-submitDone
			_ = pool.Shutdown(context.Background())
			return nil, ctx.Err()
		}
	}
	<-submitDone

	return results, pool.Shutdown(ctx)
}
