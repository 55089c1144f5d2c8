package assistant

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const utteranceQueueCapacity = 16

// utteranceQueue serializes command processing. Utterances are handled one
// at a time in arrival order, so the store never sees two commands racing.
type utteranceQueue struct {
	queue   chan utteranceQueueItem
	closeCh chan struct{}
	done    chan struct{}

	startOnce sync.Once
	endOnce   sync.Once

	started atomic.Bool
}

type utteranceQueueItem struct {
	utterance string
	queuedAt  time.Time
}

func newUtteranceQueue() *utteranceQueue {
	return &utteranceQueue{
		queue:   make(chan utteranceQueueItem, utteranceQueueCapacity),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (q *utteranceQueue) CanIngest() bool {
	if q == nil {
		return false
	}

	select {
	case <-q.closeCh:
		return false
	default:
		return true
	}
}

func (q *utteranceQueue) StartLoop(baseCtx context.Context, handle func(context.Context, string) error) (started bool) {
	if q == nil || handle == nil || !q.CanIngest() {
		return false
	}

	q.startOnce.Do(func() {
		if !q.CanIngest() {
			return
		}

		started = true
		q.started.Store(true)
		go func() {
			defer close(q.done)

			for {
				select {
				case <-q.closeCh:
					return
				case queuedUtterance := <-q.queue:
					if !q.CanIngest() {
						return
					}
					q.processQueuedUtterance(baseCtx, queuedUtterance, handle)
				}
			}
		}()
	})

	return started
}

func (q *utteranceQueue) Stop() {
	if q == nil {
		return
	}

	q.endOnce.Do(func() { close(q.closeCh) })
}

func (q *utteranceQueue) Clear() {
	if q == nil {
		return
	}

	for {
		select {
		case <-q.queue:
		default:
			return
		}
	}
}

func (q *utteranceQueue) AwaitDone() {
	if q == nil {
		return
	}

	if q.started.Load() {
		<-q.done
	}
}

func (q *utteranceQueue) Ingest(utterance string) bool {
	if q == nil || !q.CanIngest() {
		return false
	}

	queueItem := utteranceQueueItem{utterance: utterance, queuedAt: time.Now()}
	select {
	case <-q.closeCh:
		return false
	case q.queue <- queueItem:
		return true
	}
}

func (q *utteranceQueue) processQueuedUtterance(
	baseContext context.Context,
	queuedUtterance utteranceQueueItem,
	handle func(context.Context, string) error,
) {
	commandCtx, commandCancel := context.WithCancel(baseContext)
	defer commandCancel()

	go func() {
		select {
		case <-q.closeCh:
			commandCancel()
		case <-commandCtx.Done():
		}
	}()

	ctx, span := tracer.Start(commandCtx, "process command")
	defer span.End()

	queuedTime := time.Since(queuedUtterance.queuedAt).Seconds()
	span.AddEvent("taken out of queue", trace.WithAttributes(attribute.Float64("command.queued_time", queuedTime)))
	span.SetAttributes(attribute.Float64("command.queued_time", queuedTime))

	if err := handle(ctx, queuedUtterance.utterance); err != nil {
		err := fmt.Errorf("failed to handle command: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
