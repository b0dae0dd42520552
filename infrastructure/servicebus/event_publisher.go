package servicebus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
	"karaoke-browser/domain/model"
	"karaoke-browser/infrastructure/logger"
)

// messageSender is the part of *azservicebus.Sender the publisher needs.
type messageSender interface {
	SendMessage(ctx context.Context, message *azservicebus.Message, options *azservicebus.SendMessageOptions) error
	Close(ctx context.Context) error
}

// EventPublisher sends karaoke events to an Azure Service Bus queue or topic.
type EventPublisher struct {
	sender messageSender
	queue  string
}

// NewEventPublisher opens a sender for queue on client.
func NewEventPublisher(client *azservicebus.Client, queue string) (*EventPublisher, error) {
	sender, err := client.NewSender(queue, nil)
	if err != nil {
		logger.GetLogger().
			WithField("error", err).
			Error("Error while making new sender service bus.")
		return nil, fmt.Errorf("new sender %s: %w", queue, err)
	}
	return &EventPublisher{sender: sender, queue: queue}, nil
}

func newEventPublisher(sender messageSender, queue string) *EventPublisher {
	return &EventPublisher{sender: sender, queue: queue}
}

func (p *EventPublisher) Publish(ctx context.Context, evt model.KaraokeEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	contentType := "application/json"
	subject := evt.Type
	msg := &azservicebus.Message{
		Body:        body,
		ContentType: &contentType,
		Subject:     &subject,
		ApplicationProperties: map[string]any{
			"session_id": evt.SessionID,
		},
	}
	if evt.SessionID != "" {
		// Keeps one session's events in order on session-enabled queues.
		sid := evt.SessionID
		msg.SessionID = &sid
	}

	if err := p.sender.SendMessage(ctx, msg, nil); err != nil {
		logger.GetLogger().WithField("error", err).WithField("queue", p.queue).Error("Error while sending message.")
		return fmt.Errorf("send event: %w", err)
	}
	return nil
}

func (p *EventPublisher) Close(ctx context.Context) {
	if err := p.sender.Close(ctx); err != nil {
		logger.GetLogger().
			WithField("error", err).
			Error("Error while closing sender.")
	}
}
