package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"wisbridge/internal/broker"
)

// Pool fans broker deliveries out to a bounded set of pipeline
// workers. One worker reproduces the strictly sequential baseline;
// more workers trade ordering for throughput. Failures stay isolated
// per message either way.
type Pool struct {
	pipeline *Pipeline
	queue    chan broker.Delivery
	wg       sync.WaitGroup
	log      *slog.Logger

	mu     sync.Mutex
	closed bool
}

func NewPool(p *Pipeline, workers, queueSize int, logger *slog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	pool := &Pool{
		pipeline: p,
		queue:    make(chan broker.Delivery, queueSize),
		log:      logger,
	}
	pool.start(workers)
	return pool
}

func (pl *Pool) start(workers int) {
	// Workers deliberately run with a context detached from the intake
	// context: shutdown stops new deliveries but lets an in-flight
	// fetch or write run to completion.
	ctx := context.Background()
	for i := 0; i < workers; i++ {
		pl.wg.Add(1)
		go func() {
			defer pl.wg.Done()
			for d := range pl.queue {
				// Process reports its own failures; the error return
				// only matters to tests.
				_ = pl.pipeline.Process(ctx, d.Topic, d.Body)
			}
		}()
	}
}

// Submit queues one delivery, blocking while the queue is full so a
// slow pipeline backpressures the broker source. Deliveries submitted
// after Shutdown are dropped.
func (pl *Pool) Submit(d broker.Delivery) {
	pl.mu.Lock()
	if pl.closed {
		pl.mu.Unlock()
		pl.log.Warn("delivery dropped after shutdown", slog.String("topic", d.Topic))
		return
	}
	pl.queue <- d
	pl.mu.Unlock()
}

// Shutdown stops intake, drains the queue and waits for in-flight
// messages to finish.
func (pl *Pool) Shutdown() {
	pl.mu.Lock()
	if pl.closed {
		pl.mu.Unlock()
		return
	}
	pl.closed = true
	close(pl.queue)
	pl.mu.Unlock()

	pl.wg.Wait()
}
