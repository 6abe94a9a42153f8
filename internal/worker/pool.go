// Package worker runs indexed jobs on a fixed number of goroutines.
package worker

import "sync"

type Job[T any] func() T

// Result carries a job's output together with the index it was submitted
// under, so callers can restore submission order.
type Result[T any] struct {
	Index  int
	Output T
}

type Pool[T any] struct {
	jobs    chan jobWrapper[T]
	results chan Result[T]
	wg      sync.WaitGroup
	once    sync.Once
}

type jobWrapper[T any] struct {
	index int
	fn    Job[T]
}

func NewPool[T any](workerCount int, bufferSize int) *Pool[T] {
	if workerCount < 1 {
		workerCount = 1
	}
	if bufferSize < 0 {
		bufferSize = 0
	}

	p := &Pool[T]{
		jobs:    make(chan jobWrapper[T], bufferSize),
		results: make(chan Result[T], bufferSize),
	}

	p.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go p.worker()
	}

	go func() {
		p.wg.Wait()
		close(p.results)
	}()

	return p
}

func (p *Pool[T]) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		p.results <- Result[T]{
			Index:  job.index,
			Output: job.fn(),
		}
	}
}

// Submit queues fn under index. It must not be called after Close.
func (p *Pool[T]) Submit(index int, fn Job[T]) {
	p.jobs <- jobWrapper[T]{index: index, fn: fn}
}

// Close stops accepting jobs. Results is closed once every queued job has
// finished.
func (p *Pool[T]) Close() {
	p.once.Do(func() { close(p.jobs) })
}

func (p *Pool[T]) Results() <-chan Result[T] {
	return p.results
}

// Run executes fns on a pool of workerCount goroutines and returns their
// outputs in the order of fns.
func Run[T any](workerCount int, fns []Job[T]) []T {
	out := make([]T, len(fns))
	if len(fns) == 0 {
		return out
	}

	p := NewPool[T](workerCount, len(fns))
	for i, fn := range fns {
		p.Submit(i, fn)
	}
	p.Close()

	for res := range p.Results() {
		out[res.Index] = res.Output
	}
	return out
}
