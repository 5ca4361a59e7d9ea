package service

import (
	"context"

	"document-qa-be/internal/pkg/logger"
	"document-qa-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// EventSink receives every domain event taken off the bus.
type EventSink func(ctx context.Context, event events.Event) error

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	sinks     map[string]EventSink
	logger    logger.ILogger
}

// NewConsumerService fans document events out to the named sinks
// (websocket hub, NATS relay). A failing sink does not stop the others.
func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	sinks map[string]EventSink,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		sinks:     sinks,
		logger:    logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	// Malformed payloads are acked so they are not redelivered forever.
	defer msg.Ack()

	event, err := events.Unmarshal(msg.Payload)
	if err != nil {
		cs.logger.Error("CONSUMER", "Failed to decode event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	for name, sink := range cs.sinks {
		if sink == nil {
			continue
		}
		if err := sink(ctx, event); err != nil {
			cs.logger.Warn("CONSUMER", "Event sink failed", map[string]interface{}{
				"sink":  name,
				"type":  event.Type,
				"error": err.Error(),
			})
		}
	}
}
