package job

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

const (
	poolQueueSize   = 256
	poolIdleTimeout = time.Second
	minBatch        = 32
	batchesPerCore  = 4
)

// Scheduler runs short-lived jobs on a bounded set of reusable goroutines.
// Every job waits for its dependency handle before any of its work is
// submitted, so chains of handles form an explicit dependency graph.
type Scheduler struct {
	pool    worker.DynamicWorkerPool
	workers int

	taskID  atomic.Int64
	pending sync.WaitGroup
}

// NewScheduler constructs a scheduler backed by a worker pool. A non-positive
// worker count selects one worker per spare CPU.
func NewScheduler(workers int) *Scheduler {
	if workers <= 0 {
		workers = max(runtime.NumCPU()-1, 1)
	}
	return &Scheduler{
		workers: workers,
		pool:    worker.NewDynamicWorkerPool(workers, poolQueueSize, poolIdleTimeout),
	}
}

// Workers reports the configured pool size.
func (s *Scheduler) Workers() int { return s.workers }

// Schedule runs fn once after dep completes.
func (s *Scheduler) Schedule(fn func() error, dep Handle) Handle {
	h, st := newHandle()
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		dep.wait()
		var errs firstError
		var wg sync.WaitGroup
		wg.Add(1)
		s.submit(&wg, &errs, fn)
		wg.Wait()
		st.finish(errs.get())
	}()
	return h
}

// ParallelFor calls fn for every index in [0, n) after dep completes. Indices
// are split into batches that run concurrently; a non-positive batch size
// picks one from the pool size. The returned handle completes after the last
// batch finishes.
func (s *Scheduler) ParallelFor(n, batch int, fn func(i int), dep Handle) Handle {
	if batch <= 0 {
		batch = s.batchSize(n)
	}
	h, st := newHandle()
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		dep.wait()
		var errs firstError
		var wg sync.WaitGroup
		for start := 0; start < n; start += batch {
			end := min(start+batch, n)
			wg.Add(1)
			s.submit(&wg, &errs, func() error {
				for i := start; i < end; i++ {
					fn(i)
				}
				return nil
			})
		}
		wg.Wait()
		st.finish(errs.get())
	}()
	return h
}

// Wait blocks until every job scheduled so far has completed.
func (s *Scheduler) Wait() {
	s.pending.Wait()
}

func (s *Scheduler) submit(wg *sync.WaitGroup, errs *firstError, do func() error) {
	s.pool.SubmitTask(worker.Task{
		ID: int(s.taskID.Add(1)),
		Do: func() (any, error) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs.set(fmt.Errorf("job: panic: %v", r))
				}
			}()
			if err := do(); err != nil {
				errs.set(err)
			}
			return nil, nil
		},
	})
}

func (s *Scheduler) batchSize(n int) int {
	parts := s.workers * batchesPerCore
	batch := (n + parts - 1) / parts
	if batch < minBatch {
		batch = minBatch
	}
	return batch
}

// firstError keeps the first error reported by any batch of a job.
type firstError struct {
	mu  sync.Mutex
	err error
}

func (f *firstError) set(err error) {
	f.mu.Lock()
	if f.err == nil {
		f.err = err
	}
	f.mu.Unlock()
}

func (f *firstError) get() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}
