package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"document-qa-be/internal/pkg/logger"
	"document-qa-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishedEventsReachEverySink(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	received := make(chan events.Event, 4)
	sinks := map[string]EventSink{
		"broken": func(ctx context.Context, e events.Event) error { return errors.New("unreachable") },
		"record": func(ctx context.Context, e events.Event) error {
			received <- e
			return nil
		},
	}
	consumer := NewConsumerService(pubSub, "DOCUMENT_EVENTS", sinks, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService(pubSub, "DOCUMENT_EVENTS")
	require.NoError(t, publisher.Publish(ctx, events.NewDocumentDeleted("doc-1", "a.pdf", 3)))

	select {
	case e := <-received:
		assert.Equal(t, events.DocumentDeleted, e.EventType())
		assert.Equal(t, "a.pdf", e.Payload()["filename"])
		assert.EqualValues(t, 3, e.Payload()["vectorsDeleted"])
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}
