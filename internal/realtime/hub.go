// Package realtime pushes messenger events to connected websocket clients.
package realtime

import (
	"context"
	"encoding/json"
	"slices"

	"github.com/lalith-99/pocketchat/internal/messenger"
	"go.uber.org/zap"
)

// eventBuffer is how many events Publish can queue before it starts
// dropping them.
const eventBuffer = 256

// Hub tracks connected clients and fans events out to the ones whose user
// is a recipient. All client bookkeeping happens on the Run goroutine.
type Hub struct {
	clients    map[*Client]bool
	events     chan messenger.Event
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		events:     make(chan messenger.Event, eventBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes registrations and events until ctx is done, then closes
// every client's send channel. Run must be called exactly once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return
		case c := <-h.register:
			h.clients[c] = true
			h.logger.Debug("ws client connected", zap.String("user_id", c.userID))
		case c := <-h.unregister:
			if h.clients[c] {
				h.drop(c)
				h.logger.Debug("ws client disconnected", zap.String("user_id", c.userID))
			}
		case ev := <-h.events:
			h.deliver(ev)
		}
	}
}

// Publish queues ev for delivery. It never blocks: when the queue is full
// the event is dropped and logged.
func (h *Hub) Publish(ev messenger.Event) {
	select {
	case h.events <- ev:
	default:
		h.logger.Warn("realtime queue full, dropping event",
			zap.String("type", ev.Type),
			zap.String("chat_id", ev.ChatID),
		)
	}
}

func (h *Hub) deliver(ev messenger.Event) {
	if len(ev.Recipients) == 0 {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("marshal event", zap.Error(err))
		return
	}

	for c := range h.clients {
		if !slices.Contains(ev.Recipients, c.userID) {
			continue
		}
		select {
		case c.send <- data:
		default:
			h.logger.Warn("ws client too slow, disconnecting", zap.String("user_id", c.userID))
			h.drop(c)
		}
	}
}

func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.send)
}

var _ messenger.Publisher = (*Hub)(nil)
