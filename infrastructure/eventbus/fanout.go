// Package eventbus combines event publishers and provides a log-only one.
package eventbus

import (
	"context"
	"errors"

	"karaoke-browser/domain/model"
	"karaoke-browser/domain/repository"
	"karaoke-browser/infrastructure/logger"
)

// Fanout publishes every event to each of its publishers and joins their errors.
type Fanout struct {
	publishers []repository.IEventPublisher
}

func NewFanout(publishers ...repository.IEventPublisher) *Fanout {
	f := &Fanout{}
	for _, p := range publishers {
		if p != nil {
			f.publishers = append(f.publishers, p)
		}
	}
	return f
}

// Add registers another publisher.
func (f *Fanout) Add(p repository.IEventPublisher) {
	if p != nil {
		f.publishers = append(f.publishers, p)
	}
}

func (f *Fanout) Len() int {
	return len(f.publishers)
}

func (f *Fanout) Publish(ctx context.Context, evt model.KaraokeEvent) error {
	var errs []error
	for _, p := range f.publishers {
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogPublisher writes events to the application log.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, evt model.KaraokeEvent) error {
	logger.GetLogger().
		WithField("event", evt.Type).
		WithField("session", evt.SessionID).
		WithField("query", evt.Query).
		WithField("count", evt.Count).
		WithField("credentialIndex", evt.CredentialIndex).
		WithField("message", evt.Message).
		Info("Karaoke event")
	return nil
}
