package parallel

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool is a fixed set of goroutines executing shading jobs.
//
// Each worker owns a queue and steals from its siblings when the queue runs
// dry, which evens out tiles of very different cost (an empty corner versus
// a tile crossed by hundreds of triangles).
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers    int
	workQueues []chan func()
	done       chan struct{}
	wg         sync.WaitGroup
	running    atomic.Bool
}

// NewWorkerPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := workers * 4
	if queueSize < 8 {
		queueSize = 8
	}

	p := &WorkerPool{
		workers:    workers,
		workQueues: make([]chan func(), workers),
		done:       make(chan struct{}),
	}
	for i := range workers {
		p.workQueues[i] = make(chan func(), queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	own := p.workQueues[id]
	for {
		select {
		case <-p.done:
			p.drain(own)
			return
		case work := <-own:
			work()
		default:
			if stolen := p.steal(id); stolen != nil {
				stolen()
				continue
			}
			select {
			case <-p.done:
				p.drain(own)
				return
			case work := <-own:
				work()
			}
		}
	}
}

func (p *WorkerPool) drain(queue chan func()) {
	for {
		select {
		case work := <-queue:
			work()
		default:
			return
		}
	}
}

func (p *WorkerPool) steal(id int) func() {
	for i := range p.workers {
		if i == id {
			continue
		}
		select {
		case work := <-p.workQueues[i]:
			return work
		default:
		}
	}
	return nil
}

// Run executes all jobs and waits for them to finish.
//
// Jobs not yet started when ctx is cancelled are skipped; jobs already
// running complete normally. Run returns ctx.Err() in that case. A closed
// pool runs nothing and returns nil.
func (p *WorkerPool) Run(ctx context.Context, jobs []func()) error {
	if len(jobs) == 0 || !p.running.Load() {
		return nil
	}

	var completion sync.WaitGroup
	completion.Add(len(jobs))

	for i, job := range jobs {
		wrapped := func() {
			defer completion.Done()
			if ctx.Err() != nil {
				return
			}
			job()
		}

		select {
		case p.workQueues[i%p.workers] <- wrapped:
		case <-p.done:
			completion.Done()
		case <-ctx.Done():
			// Account for this job and every job never submitted.
			for range jobs[i:] {
				completion.Done()
			}
			completion.Wait()
			return ctx.Err()
		}
	}

	completion.Wait()
	return ctx.Err()
}

// ForChunks splits [0, n) into ranges of at most chunk elements and runs fn
// on each range in parallel. It is the scheduler for per-vertex work.
func (p *WorkerPool) ForChunks(ctx context.Context, n, chunk int, fn func(lo, hi int)) error {
	if n <= 0 {
		return nil
	}
	if chunk <= 0 {
		chunk = n
	}
	jobs := make([]func(), 0, (n+chunk-1)/chunk)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		jobs = append(jobs, func() { fn(lo, hi) })
	}
	return p.Run(ctx, jobs)
}

// Close stops accepting work, lets queued jobs finish and stops the
// workers. Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still accepts work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}
