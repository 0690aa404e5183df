package workers

import (
	"context"
	"sync"
)

type Workers struct {
	workers []Worker
	wg      sync.WaitGroup
}

// NewWorkers aggregates the given workers. Nil entries are skipped so
// callers can pass conditionally-built workers without filtering.
func NewWorkers(ws ...Worker) *Workers {
	agg := &Workers{}
	for _, w := range ws {
		if w != nil {
			agg.workers = append(agg.workers, w)
		}
	}
	return agg
}

// Run launches every worker on its own goroutine and returns immediately.
func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		w.wg.Add(1)
		go func(worker Worker) {
			defer w.wg.Done()
			worker.Run(ctx)
		}(worker)
	}
}

// Wait blocks until every launched worker has returned.
func (w *Workers) Wait() {
	w.wg.Wait()
}
