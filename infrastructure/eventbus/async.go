package eventbus

import (
	"context"
	"sync"

	"karaoke-browser/domain/model"
	"karaoke-browser/domain/repository"
	"karaoke-browser/infrastructure/logger"
)

const defaultAsyncBuffer = 256

type queuedEvent struct {
	ctx context.Context
	evt model.KaraokeEvent
}

// Async hands events to one background worker that publishes them in order.
// Publish never blocks; events arriving while the buffer is full are dropped.
type Async struct {
	name   string
	next   repository.IEventPublisher
	events chan queuedEvent
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewAsync(name string, next repository.IEventPublisher, buffer int) *Async {
	if buffer <= 0 {
		buffer = defaultAsyncBuffer
	}
	a := &Async{
		name:   name,
		next:   next,
		events: make(chan queuedEvent, buffer),
		done:   make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *Async) Publish(ctx context.Context, evt model.KaraokeEvent) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return nil
	}
	select {
	case a.events <- queuedEvent{ctx: context.WithoutCancel(ctx), evt: evt}:
	default:
		logger.GetLogger().WithField("publisher", a.name).WithField("event", evt.Type).Warn("Event buffer full, dropping event")
	}
	return nil
}

// Close stops accepting events and waits until the queued ones are sent.
func (a *Async) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	close(a.events)
	a.mu.Unlock()
	<-a.done
}

func (a *Async) run() {
	defer close(a.done)
	for q := range a.events {
		if err := a.next.Publish(q.ctx, q.evt); err != nil {
			logger.GetLogger().WithField("error", err).WithField("publisher", a.name).WithField("event", q.evt.Type).Warn("Failed to publish event")
		}
	}
}
