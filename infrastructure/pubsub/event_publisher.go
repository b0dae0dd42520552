package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"cloud.google.com/go/pubsub"
	"karaoke-browser/domain/model"
	"karaoke-browser/domain/repository"
	"karaoke-browser/infrastructure/logger"
)

// EventPublisher sends karaoke events to a Google Cloud Pub/Sub topic.
type EventPublisher struct {
	client *pubsub.Client
	topic  *pubsub.Topic
	// pending tracks acks still being awaited in the background.
	pending sync.WaitGroup
}

// NewEventPublisher resolves topicName, creating it when it does not exist.
func NewEventPublisher(ctx context.Context, client *pubsub.Client, topicName string) (*EventPublisher, error) {
	topic := client.Topic(topicName)

	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("check topic %s: %w", topicName, err)
	}
	if !exists {
		logger.GetLogger().WithField("topic", topicName).Info("Topic doesn't exist - creating it")
		topic, err = client.CreateTopic(ctx, topicName)
		if err != nil {
			return nil, fmt.Errorf("create topic %s: %w", topicName, err)
		}
	}
	return &EventPublisher{client: client, topic: topic}, nil
}

var _ repository.IEventPublisher = (*EventPublisher)(nil)

func (p *EventPublisher) Publish(ctx context.Context, evt model.KaraokeEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"type":       evt.Type,
			"session_id": evt.SessionID,
		},
	}

	// The topic batches and sends on its own; the ack is only logged. Events
	// outlive the request that raised them.
	pubCtx := context.WithoutCancel(ctx)
	result := p.topic.Publish(pubCtx, msg)
	p.pending.Add(1)
	go func() {
		defer p.pending.Done()
		serverID, err := result.Get(pubCtx)
		if err != nil {
			logger.GetLogger().WithField("error", err).WithField("event", evt.Type).Warn("Failed to publish event")
			return
		}
		logger.GetLogger().WithField("server ID", serverID).WithField("event", evt.Type).Debug("Message published")
	}()
	return nil
}

// Close flushes pending messages and waits for their acks.
func (p *EventPublisher) Close() {
	p.topic.Stop()
	p.pending.Wait()
}
