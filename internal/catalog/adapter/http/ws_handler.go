package http

import (
	"time"

	"v5c-properties/internal/catalog/usecase"
	"v5c-properties/internal/shared/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// WebSocketHandler streams catalog change events to connected clients.
type WebSocketHandler struct {
	feed *usecase.ChangeFeed
	log  logger.Logger
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(feed *usecase.ChangeFeed, log logger.Logger) *WebSocketHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &WebSocketHandler{feed: feed, log: log.WithComponent("ws")}
}

// RegisterRoutes registers the WebSocket endpoint at path.
func (h *WebSocketHandler) RegisterRoutes(router fiber.Router, path string) {
	router.Use(path, func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get(path, websocket.New(h.handleConnection))
}

// handleConnection pumps feed events to the client until either side goes away.
func (h *WebSocketHandler) handleConnection(conn *websocket.Conn) {
	id, events := h.feed.Subscribe()
	defer h.feed.Unsubscribe(id)

	h.log.Infof("WebSocket client connected: %s (%d live)", id, h.feed.SubscriberCount())
	defer h.log.Infof("WebSocket client disconnected: %s", id)

	done := make(chan struct{})
	go h.readLoop(conn, done)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case event, ok := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Dropped by the feed for falling behind.
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "too slow"))
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				h.log.Warnf("WebSocket write to %s failed: %v", id, err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop discards client messages and closes done when the connection ends.
func (h *WebSocketHandler) readLoop(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warnf("WebSocket read error: %v", err)
			}
			return
		}
	}
}
