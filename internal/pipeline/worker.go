package pipeline

import (
	"context"
	"sync"

	"github.com/naver-ai-trip/backend-trip-sub000/internal/logging"
)

// Worker drains the queue with a fixed pool of goroutines until the
// context is cancelled.
type Worker struct {
	queue       Queue
	pipeline    *Pipeline
	concurrency int
	logger      *logging.Logger
}

// NewWorker creates a worker pool over the queue.
func NewWorker(queue Queue, p *Pipeline, concurrency int, logger *logging.Logger) *Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Worker{
		queue:       queue,
		pipeline:    p,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Run blocks until ctx is cancelled. In-flight jobs finish before it
// returns.
func (w *Worker) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.loop(ctx)
		}()
	}
	wg.Wait()
}

func (w *Worker) loop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Error("dequeue failed", logging.WithField("error", err.Error()))
			continue
		}
		if job == nil {
			continue
		}

		status, err := w.pipeline.Process(ctx, *job)
		if err != nil {
			w.logger.Error("moderation job failed",
				logging.WithField("owner_kind", string(job.OwnerKind)),
				logging.WithField("owner_id", job.OwnerID),
				logging.WithField("status", string(status)),
				logging.WithField("error", err.Error()),
			)
		}
	}
}
