package handler

import (
	"document-qa-be/internal/pkg/logger"
	internalWS "document-qa-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// DocumentEventsHandler streams DOCUMENT_INGESTED and DOCUMENT_DELETED
// events to browsers so the document list can refresh.
type DocumentEventsHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewDocumentEventsHandler(hub *internalWS.Hub, log logger.ILogger) *DocumentEventsHandler {
	return &DocumentEventsHandler{
		hub:    hub,
		logger: log,
	}
}

// ServeWs upgrades the request and keeps the session open until the peer
// disconnects.
func (h *DocumentEventsHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		remote := conn.RemoteAddr().String()
		h.logger.Info("DocumentEventsHandler", "Starting WebSocket session", map[string]interface{}{"remote": remote})
		internalWS.ServeWs(h.hub, conn)
		h.logger.Info("DocumentEventsHandler", "WebSocket session ended", map[string]interface{}{"remote": remote})
	})(c)
}

func (h *DocumentEventsHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws/documents", h.ServeWs)
}
