package websocket

import (
	"context"
	"encoding/json"

	"document-qa-be/internal/pkg/logger"
	"document-qa-be/pkg/events"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "docqa_document_events"

// Hub fans document events out to every connected websocket client. With
// redis configured, events are also relayed to the hubs of other instances.
type Hub struct {
	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	// closed when Run returns so late register/unregister calls do not block
	done       chan struct{}

	// Redis connection for cross-instance communication
	rdb        *redis.Client
	instanceId string

	logger logger.ILogger
}

type clusterMessage struct {
	Origin  string          `json:"origin"`
	Message json.RawMessage `json:"message"`
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		rdb:        rdb,
		instanceId: uuid.NewString(),
		logger:     log,
	}
}

// Run owns the client set; it returns when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.Send)
				delete(h.clients, client)
			}
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"clients": len(h.clients)})

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}

		case data := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.Send <- data:
				default:
					h.logger.Warn("Hub", "Client Send buffer full, dropping client", nil)
					delete(h.clients, client)
					close(client.Send)
				}
			}
		}
	}
}

// Register adds client to the hub. It reports false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes client; after shutdown it returns immediately.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast sends an event to all local clients and to other instances.
func (h *Hub) Broadcast(ctx context.Context, event events.Event) error {
	data, err := events.Marshal(event)
	if err != nil {
		return err
	}

	select {
	case h.broadcast <- data:
	case <-h.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	if h.rdb != nil {
		payload, err := json.Marshal(clusterMessage{Origin: h.instanceId, Message: data})
		if err != nil {
			return err
		}
		if err := h.rdb.Publish(ctx, clusterChannel, payload).Err(); err != nil {
			h.logger.Warn("Hub", "Redis publish failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return nil
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload clusterMessage
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("Hub", "Redis message parse error", map[string]interface{}{"error": err.Error()})
			continue
		}
		// Our own publications were already delivered locally.
		if payload.Origin == h.instanceId {
			continue
		}
		select {
		case h.broadcast <- payload.Message:
		case <-ctx.Done():
			return
		}
	}
}
