package eventlog

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/budgetlens/budgetlens/internal/infra/observability"
)

// Worker drains queued events into an EventLogger.
type Worker struct {
	eventCh chan Event
	logger  EventLogger
	log     logrus.FieldLogger
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc

	// mu orders Log sends before Shutdown; a send that saw stopped == false
	// completes before the drain starts.
	mu      sync.RWMutex
	stopped bool
}

// NewWorker creates a worker with room for bufferSize pending events.
func NewWorker(logger EventLogger, bufferSize int, log logrus.FieldLogger) *Worker {
	if bufferSize < 1 {
		bufferSize = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		eventCh: make(chan Event, bufferSize),
		logger:  logger,
		log:     log.WithField("component", "eventlog"),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the background writer.
func (w *Worker) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-w.ctx.Done():
				w.log.WithField("remaining_events", len(w.eventCh)).Info("draining events before shutdown")
				for {
					select {
					case event := <-w.eventCh:
						w.save(context.Background(), event)
					default:
						return
					}
				}
			case event := <-w.eventCh:
				w.save(context.Background(), event)
			}
		}
	}()
}

func (w *Worker) save(ctx context.Context, event Event) {
	if err := w.logger.SaveEvent(ctx, event); err != nil {
		w.log.WithError(err).WithField("event_type", event.Type).Error("failed to save event")
	}
}

// Log queues event without blocking. Events are dropped when the buffer is
// full or the worker has shut down.
func (w *Worker) Log(event Event) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped {
		observability.EventsDropped.Inc()
		w.log.WithField("event_type", event.Type).Warn("event worker stopped, dropping event")
		return
	}
	select {
	case w.eventCh <- event:
	default:
		observability.EventsDropped.Inc()
		w.log.WithField("event_type", event.Type).Warn("event channel full, dropping event")
	}
}

// Shutdown stops accepting events and blocks until queued events are saved.
// It waits for Log calls already in progress.
func (w *Worker) Shutdown() {
	w.mu.Lock()
	w.stopped = true
	w.mu.Unlock()

	w.cancel()
	w.wg.Wait()
}
