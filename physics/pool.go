package physics

import (
	"fmt"
	"sync"
)

// DefaultWorkers is the pool size tuned for the reference quad-core CPU with
// hyperthreading. It is only a default; callers size the pool explicitly.
const DefaultWorkers = 6

type task struct {
	start, end int
	work       func(start, end int)
	done       *sync.WaitGroup
}

// Pool is a fixed set of long-lived workers exposing a blocking parallel-for
// over a contiguous index range. A work function may read any shared buffer
// (stencils need full neighbor access) but must write only inside its
// assigned range; ranges are disjoint by construction, so the solver needs no
// locks or atomics anywhere.
type Pool struct {
	workers int
	tasks   []chan task
	wg      sync.WaitGroup
}

// NewPool starts workers goroutines that are reused for every ParallelFor
// call until Close.
func NewPool(workers int) (*Pool, error) {
	if workers < 1 {
		return nil, fmt.Errorf("worker count must be positive, got %d", workers)
	}
	p := &Pool{
		workers: workers,
		tasks:   make([]chan task, workers),
	}
	for i := range p.tasks {
		p.tasks[i] = make(chan task, 1)
		p.wg.Add(1)
		go p.run(p.tasks[i])
	}
	return p, nil
}

func (p *Pool) run(tasks <-chan task) {
	defer p.wg.Done()
	for t := range tasks {
		t.work(t.start, t.end)
		t.done.Done()
	}
}

// Workers returns the fixed worker count.
func (p *Pool) Workers() int { return p.workers }

// ParallelFor partitions [0, rangeSize) into exactly Workers contiguous,
// non-overlapping chunks, runs work once per chunk on a distinct worker and
// blocks until every chunk has completed. The division remainder is spread
// over the first chunks, so chunk lengths differ by at most one; when
// rangeSize is smaller than the worker count the trailing chunks are empty.
func (p *Pool) ParallelFor(rangeSize int, work func(start, end int)) {
	chunk := rangeSize / p.workers
	rem := rangeSize % p.workers

	var done sync.WaitGroup
	done.Add(p.workers)
	start := 0
	for i := 0; i < p.workers; i++ {
		end := start + chunk
		if i < rem {
			end++
		}
		p.tasks[i] <- task{start: start, end: end, work: work, done: &done}
		start = end
	}
	done.Wait()
}

// Close stops the workers and waits for them to exit. The pool must not be
// used afterwards.
func (p *Pool) Close() {
	for _, ch := range p.tasks {
		close(ch)
	}
	p.wg.Wait()
}
