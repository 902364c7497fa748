package queue

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// InMemoryQueue runs dispatch jobs on goroutines inside the publishing
// process. Used by tests and the single-binary dev mode; jobs do not survive
// a restart, which is why production splits server and worker over AMQP.
type InMemoryQueue struct {
	mu         sync.Mutex
	handler    func(job DispatchJob) error
	wg         sync.WaitGroup
	MaxRetries int
	Logger     zerolog.Logger
}

func NewInMemoryQueue(logger zerolog.Logger) *InMemoryQueue {
	return &InMemoryQueue{MaxRetries: 3, Logger: logger}
}

// Subscribe registers the single job handler. Must be called before the first
// publish.
func (q *InMemoryQueue) Subscribe(handler func(job DispatchJob) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handler = handler
}

func (q *InMemoryQueue) PublishDispatch(broadcastID int) error {
	q.mu.Lock()
	handler := q.handler
	q.mu.Unlock()

	if handler == nil {
		return fmt.Errorf("no subscriber for dispatch jobs")
	}

	q.wg.Add(1)
	go q.processJob(handler, DispatchJob{BroadcastID: broadcastID})
	return nil
}

// processJob retries with backoff, mirroring the durable consumer's cap.
func (q *InMemoryQueue) processJob(handler func(job DispatchJob) error, job DispatchJob) {
	defer q.wg.Done()
	for attempt := 0; ; attempt++ {
		err := handler(job)
		if err == nil {
			return
		}
		q.Logger.Error().Err(err).
			Int("broadcast_id", job.BroadcastID).
			Int("attempt", attempt+1).
			Msg("dispatch job failed")
		if attempt >= q.MaxRetries {
			return
		}
		time.Sleep(time.Duration(attempt+1) * 100 * time.Millisecond)
	}
}

// Wait blocks until all published jobs finish. Test helper.
func (q *InMemoryQueue) Wait() {
	q.wg.Wait()
}

func (q *InMemoryQueue) Close() error {
	q.wg.Wait()
	return nil
}

var _ Queue = (*InMemoryQueue)(nil)
