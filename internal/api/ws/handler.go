package ws

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/glasspane/workspaced/internal/domain/workspace"
	"github.com/glasspane/workspaced/internal/infrastructure/logging"
	"github.com/glasspane/workspaced/internal/infrastructure/monitoring"
	"github.com/glasspane/workspaced/internal/shared/types"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Origin filtering is the proxy's job in this deployment
	},
}

// Message is one client request over the socket.
type Message struct {
	Type        string                  `json:"type"`
	UUID        string                  `json:"uuid,omitempty"`
	Application *types.ApplicationPatch `json:"application,omitempty"`
}

// client serializes writes to one connection; the event fan-out and
// the read loop both reply on it.
type client struct {
	conn   *websocket.Conn
	mu     sync.Mutex
	events chan workspace.Event
}

func (c *client) write(payload interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(payload)
}

// Handler manages WebSocket connections and fans registry change
// events out to every connected client.
type Handler struct {
	manager *workspace.Manager
	logger  *logging.Logger
	metrics *monitoring.Metrics

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewHandler creates a WebSocket handler subscribed to registry
// changes.
func NewHandler(manager *workspace.Manager, logger *logging.Logger, metrics *monitoring.Metrics) *Handler {
	h := &Handler{
		manager: manager,
		logger:  logger,
		metrics: metrics,
		clients: make(map[*client]struct{}),
	}
	manager.Subscribe(h.broadcast)
	return h
}

// HandleConnection upgrades the request and serves the event stream
// plus inbound lifecycle messages until the client disconnects.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{conn: conn, events: make(chan workspace.Event, 64)}
	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()
	if h.metrics != nil {
		h.metrics.WSConnections.Inc()
	}

	defer func() {
		h.mu.Lock()
		delete(h.clients, cl)
		h.mu.Unlock()
		close(cl.events)
		conn.Close()
		if h.metrics != nil {
			h.metrics.WSConnections.Dec()
		}
	}()

	go func() {
		for event := range cl.events {
			if err := cl.write(gin.H{"type": "event", "event": event}); err != nil {
				return
			}
			h.count("event", "out")
		}
	}()

	h.send(cl, "system", gin.H{"type": "system", "message": "Connected to workspaced"})

	ctx := c.Request.Context()
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		h.count(msg.Type, "in")

		switch msg.Type {
		case "update_application":
			if msg.Application == nil {
				h.send(cl, "error", gin.H{"type": "error", "message": "application payload required"})
				continue
			}
			app, err := h.manager.Update(ctx, *msg.Application)
			if err != nil {
				h.send(cl, "error", gin.H{"type": "error", "message": err.Error()})
				continue
			}
			h.send(cl, "application", gin.H{"type": "application", "application": app})

		case "close_application":
			if err := h.manager.Close(ctx, msg.UUID); err != nil {
				h.send(cl, "error", gin.H{"type": "error", "message": err.Error()})
				continue
			}
			h.send(cl, "closed", gin.H{"type": "closed", "uuid": msg.UUID})

		case "list_applications":
			apps, err := h.manager.ListOpen(ctx)
			if err != nil {
				h.send(cl, "error", gin.H{"type": "error", "message": err.Error()})
				continue
			}
			h.send(cl, "applications", gin.H{"type": "applications", "apps": apps})

		case "ping":
			h.send(cl, "pong", gin.H{"type": "pong"})

		default:
			h.send(cl, "error", gin.H{"type": "error", "message": "unknown message type"})
		}
	}
}

// broadcast fans one event out to every client; slow consumers drop
// events rather than block the registry.
func (h *Handler) broadcast(event workspace.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		select {
		case cl.events <- event:
		default:
		}
	}
}

func (h *Handler) send(cl *client, msgType string, payload gin.H) {
	if err := cl.write(payload); err != nil {
		h.logger.Debug("WebSocket write failed", zap.Error(err))
		return
	}
	h.count(msgType, "out")
}

func (h *Handler) count(msgType, direction string) {
	if h.metrics != nil && msgType != "" {
		h.metrics.WSMessages.WithLabelValues(msgType, direction).Inc()
	}
}
