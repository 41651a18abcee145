package system

import (
	"encoding/json"
	"sync"

	"go-court/internal/features/workflow"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// WebSocketController fans workflow status events out to every
// connected client. It satisfies the workflow broadcaster interface.
type WebSocketController struct {
	mu     sync.RWMutex
	conns  map[*websocket.Conn]chan []byte
	logger *zap.Logger
}

func NewWebSocketController(logger *zap.Logger) *WebSocketController {
	return &WebSocketController{
		conns:  make(map[*websocket.Conn]chan []byte),
		logger: logger,
	}
}

// Broadcast serializes the event once and queues it to every client.
// Slow clients get dropped messages instead of blocking the reconciler.
func (h *WebSocketController) Broadcast(event workflow.StatusEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Warn("status event not serializable", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.conns {
		select {
		case ch <- payload:
		default:
		}
	}
}

func (h *WebSocketController) HandleWebSocket(c *websocket.Conn) {
	outbox := make(chan []byte, 64)

	h.mu.Lock()
	h.conns[c] = outbox
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.conns, c)
		h.mu.Unlock()
		c.Close()
	}()

	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case payload := <-outbox:
			if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
