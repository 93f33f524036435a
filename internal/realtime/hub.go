package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ChangeMessage is what connected clients receive when something inside
// their event changes. It carries no payload on purpose: clients must
// re-fetch authoritative state over the REST surface.
type ChangeMessage struct {
	Type  string    `json:"type"`
	Scope ScopeKind `json:"scope"`
	ID    uint      `json:"id"`
}

type Client struct {
	id      string
	eventID uint
	conn    *websocket.Conn
	send    chan []byte
	hub     *Hub
}

// Hub fans broker notifications out to the websocket clients watching
// an event. It owns one broker subscription per event, taken when the
// first client connects and released when the last one leaves.
type Hub struct {
	broker *Broker

	mu      sync.Mutex
	clients map[uint]map[*Client]bool
	subs    map[uint]*Subscription

	register   chan *Client
	unregister chan *Client
}

func NewHub(broker *Broker) *Hub {
	return &Hub{
		broker:     broker,
		clients:    make(map[uint]map[*Client]bool),
		subs:       make(map[uint]*Subscription),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

// RegisterClient attaches a websocket connection to the event's feed
// and starts its pumps.
func (h *Hub) RegisterClient(conn *websocket.Conn, eventID uint) *Client {
	client := &Client{
		id:      uuid.NewString(),
		eventID: eventID,
		conn:    conn,
		send:    make(chan []byte, 256),
		hub:     h,
	}

	h.register <- client

	go client.writePump()
	go client.readPump()

	return client
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	eventID := client.eventID
	if h.clients[eventID] == nil {
		h.clients[eventID] = make(map[*Client]bool)

		scope := Scope{Kind: ScopeEvent, ID: eventID}
		h.subs[eventID] = h.broker.Subscribe(scope, func(ctx context.Context) {
			h.broadcast(ctx, eventID)
		})
	}
	h.clients[eventID][client] = true

	zap.L().Debug("live client connected",
		zap.String("client", client.id),
		zap.Uint("event", eventID))
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	peers, ok := h.clients[client.eventID]
	if !ok || !peers[client] {
		return
	}

	h.dropClientLocked(client)
}

// dropClientLocked detaches a client and, when it was the last one on
// its event, releases the broker subscription. Callers hold h.mu.
func (h *Hub) dropClientLocked(client *Client) {
	peers := h.clients[client.eventID]
	delete(peers, client)
	close(client.send)

	if len(peers) == 0 {
		delete(h.clients, client.eventID)
		if sub := h.subs[client.eventID]; sub != nil {
			sub.Stop()
			delete(h.subs, client.eventID)
		}
	}
}

// broadcast pushes a changed marker to every client watching the
// event. A stale context means the subscription was replaced while the
// notification was in flight; drop it rather than waking clients for a
// scope nobody owns anymore.
func (h *Hub) broadcast(ctx context.Context, eventID uint) {
	if ctx.Err() != nil {
		return
	}

	data, err := json.Marshal(ChangeMessage{
		Type:  "changed",
		Scope: ScopeEvent,
		ID:    eventID,
	})
	if err != nil {
		zap.L().Error("failed to marshal change message", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients[eventID] {
		select {
		case client.send <- data:
		default:
			// A full buffer means the client stopped draining; evict
			// it through the same path removeClient takes so the last
			// one still releases the subscription.
			h.dropClientLocked(client)
		}
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Warn("live client read error",
					zap.String("client", c.id),
					zap.Error(err))
			}

			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		if _, err = w.Write(message); err != nil {
			return
		}
		if err = w.Close(); err != nil {
			return
		}
	}

	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
