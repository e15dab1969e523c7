package presence

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/AhsanHasan/Chatteree-BE/internal/domain"
)

// Event is the envelope sent to websocket clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// presencePayload is relayed on the status feed channel when a user's
// online state flips.
type presencePayload struct {
	UserID       uuid.UUID           `json:"userId"`
	OnlineStatus domain.OnlineStatus `json:"onlineStatus"`
}

type client struct {
	userID uuid.UUID
	conn   *websocket.Conn
	send   chan []byte
}

// Hub tracks connected websocket clients and derives each user's presence
// from their connection count. A user with at least one open socket is
// online; closing the last one marks them offline.
type Hub struct {
	users    domain.UserRepository
	notifier domain.Notifier
	logger   *zap.Logger

	register   chan *client
	unregister chan *client

	// userID -> active connections, multi-device aware
	mu          sync.RWMutex
	userClients map[uuid.UUID]map[*client]bool
}

func NewHub(users domain.UserRepository, notifier domain.Notifier, logger *zap.Logger) *Hub {
	return &Hub{
		users:       users,
		notifier:    notifier,
		logger:      logger,
		register:    make(chan *client),
		unregister:  make(chan *client),
		userClients: make(map[uuid.UUID]map[*client]bool),
	}
}

// Run processes register/unregister events until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			first := len(h.userClients[c.userID]) == 0
			if h.userClients[c.userID] == nil {
				h.userClients[c.userID] = make(map[*client]bool)
			}
			h.userClients[c.userID][c] = true
			h.mu.Unlock()

			h.logger.Debug("client connected", zap.String("user_id", c.userID.String()))
			if first {
				h.setStatus(ctx, c.userID, domain.OnlineStatusOnline)
			}

		case c := <-h.unregister:
			h.mu.Lock()
			last := false
			if clients, ok := h.userClients[c.userID]; ok && clients[c] {
				delete(clients, c)
				close(c.send)
				if len(clients) == 0 {
					delete(h.userClients, c.userID)
					last = true
				}
			}
			h.mu.Unlock()

			h.logger.Debug("client disconnected", zap.String("user_id", c.userID.String()))
			if last {
				h.setStatus(ctx, c.userID, domain.OnlineStatusOffline)
			}

		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) setStatus(ctx context.Context, userID uuid.UUID, status domain.OnlineStatus) {
	if err := h.users.UpdateUserOnlineStatus(ctx, userID, status); err != nil {
		h.logger.Warn("failed to update online status",
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}
	h.notifier.Push(ctx, domain.StatusFeedChannel, domain.EventPresence, presencePayload{
		UserID:       userID,
		OnlineStatus: status,
	})
}

// IsOnline reports whether the user has at least one open connection.
func (h *Hub) IsOnline(userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userClients[userID]) > 0
}

// SendToUser delivers an event to every connection of a user. Slow clients
// are skipped rather than blocked on.
func (h *Hub) SendToUser(userID uuid.UUID, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal ws event", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.userClients[userID] {
		select {
		case c.send <- data:
		default:
		}
	}
}

func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()

	for {
		// Clients only receive; reads exist to detect disconnects.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)

		// Drain anything queued into the same frame
		n := len(c.send)
		for i := 0; i < n; i++ {
			w.Write(<-c.send)
		}

		if err := w.Close(); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
