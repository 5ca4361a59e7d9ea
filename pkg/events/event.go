package events

import (
	"encoding/json"
	"time"
)

const (
	DocumentIngested = "DOCUMENT_INGESTED"
	DocumentDeleted  = "DOCUMENT_DELETED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "DOCUMENT_INGESTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurredAt"`
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func NewDocumentIngested(documentId, filename, url string, chunkCount int) BaseEvent {
	return BaseEvent{
		Type: DocumentIngested,
		Data: map[string]interface{}{
			"documentId": documentId,
			"filename":   filename,
			"url":        url,
			"chunkCount": chunkCount,
		},
		OccurredAt: time.Now().UTC(),
	}
}

func NewDocumentDeleted(documentId, filename string, vectorsDeleted int64) BaseEvent {
	return BaseEvent{
		Type: DocumentDeleted,
		Data: map[string]interface{}{
			"documentId":     documentId,
			"filename":       filename,
			"vectorsDeleted": vectorsDeleted,
		},
		OccurredAt: time.Now().UTC(),
	}
}

// Marshal encodes any Event as a BaseEvent document.
func Marshal(e Event) ([]byte, error) {
	return json.Marshal(BaseEvent{Type: e.EventType(), Data: e.Payload(), OccurredAt: e.Timestamp()})
}

func Unmarshal(data []byte) (BaseEvent, error) {
	var e BaseEvent
	err := json.Unmarshal(data, &e)
	return e, err
}
