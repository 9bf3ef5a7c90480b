package websocket

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/sanchar-app/chat_backend/models"
)

// Topic names. A room channel, a per-user personal channel, and a
// per-conversation channel for each direct-message pair.
func RoomTopic(roomID uint) string { return fmt.Sprintf("room:%d", roomID) }

func UserTopic(userID uint) string { return fmt.Sprintf("user:%d", userID) }

func ConversationTopic(a, b uint) string {
	one, two := models.CanonicalPair(a, b)
	return fmt.Sprintf("dm:%d_%d", one, two)
}

// Hub maintains the set of active clients, their topic subscriptions, and
// the presence refcounts. All of this is ephemeral process state: it is
// rebuilt empty on restart, only message content survives in the database.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Topic subscriptions (topic -> clients)
	topics map[string]map[*Client]bool

	// Live-connection counts per announced user
	presence map[uint]int

	mu sync.RWMutex

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// OnPresenceChange fires when a user transitions between having zero
	// and at least one announced connection. Optional.
	OnPresenceChange func(userID uint, online bool)
}

// NewHub creates a new hub instance
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		topics:     make(map[string]map[*Client]bool),
		presence:   make(map[uint]int),
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

// Register adds a connection to the hub.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister drops a connection, its subscriptions, and its presence
// share. The last announced connection of a user broadcasts user_offline.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)
	close(client.send)

	for topic, clients := range h.topics {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.topics, topic)
			}
		}
	}

	wentOffline := false
	if client.announced {
		h.presence[client.userID]--
		if h.presence[client.userID] <= 0 {
			delete(h.presence, client.userID)
			wentOffline = true
		}
	}
	h.mu.Unlock()

	if wentOffline {
		h.BroadcastAll(nil, "user_offline", presencePayload{UserID: client.userID})
		if h.OnPresenceChange != nil {
			h.OnPresenceChange(client.userID, false)
		}
	}
}

// Announce marks the connection's user as present. A user is online while
// at least one of their connections has announced.
func (h *Hub) Announce(client *Client) {
	h.mu.Lock()
	if client.announced {
		h.mu.Unlock()
		return
	}
	client.announced = true
	h.presence[client.userID]++
	first := h.presence[client.userID] == 1
	h.mu.Unlock()

	if first {
		h.BroadcastAll(client, "user_online", presencePayload{UserID: client.userID})
		if h.OnPresenceChange != nil {
			h.OnPresenceChange(client.userID, true)
		}
	}
}

// IsOnline reports whether a user has at least one announced connection.
func (h *Hub) IsOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.presence[userID] > 0
}

// Subscribe idempotently adds a client to a topic.
func (h *Hub) Subscribe(client *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.topics[topic]; !ok {
		h.topics[topic] = make(map[*Client]bool)
	}
	h.topics[topic][client] = true
}

// Unsubscribe removes a client from a topic.
func (h *Hub) Unsubscribe(client *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.topics[topic]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.topics, topic)
		}
	}
}

// Broadcast fans an event out to every subscriber of a topic.
func (h *Hub) Broadcast(topic string, eventType string, payload interface{}) {
	h.BroadcastExcept(topic, nil, eventType, payload)
}

// BroadcastExcept fans an event out to a topic, skipping one connection.
// The dual-path direct-message case uses this so the sender never gets its
// own message pushed back.
func (h *Hub) BroadcastExcept(topic string, except *Client, eventType string, payload interface{}) {
	data, err := marshalEnvelope(eventType, payload)
	if err != nil {
		log.Printf("error marshaling %s event: %v", eventType, err)
		return
	}

	h.mu.RLock()
	stale := deliver(h.topics[topic], except, data)
	h.mu.RUnlock()

	h.dropStale(stale)
}

// BroadcastAll sends an event to every connection, optionally skipping one.
func (h *Hub) BroadcastAll(except *Client, eventType string, payload interface{}) {
	data, err := marshalEnvelope(eventType, payload)
	if err != nil {
		log.Printf("error marshaling %s event: %v", eventType, err)
		return
	}

	h.mu.RLock()
	stale := deliver(h.clients, except, data)
	h.mu.RUnlock()

	h.dropStale(stale)
}

// deliver queues data on every target's send channel without blocking.
// It must run under the hub lock: removeClient closes send under the
// write lock, so a send here can never hit a closed channel. Clients
// whose buffer is full are returned for removal after the lock drops.
func deliver(targets map[*Client]bool, except *Client, data []byte) []*Client {
	var stale []*Client
	for client := range targets {
		if client == except {
			continue
		}
		select {
		case client.send <- data:
		default:
			stale = append(stale, client)
		}
	}
	return stale
}

// dropStale removes clients that stopped draining their send buffer.
func (h *Hub) dropStale(stale []*Client) {
	for _, client := range stale {
		h.removeClient(client)
	}
}

func marshalEnvelope(eventType string, payload interface{}) ([]byte, error) {
	return json.Marshal(Envelope{Type: eventType, Payload: payload})
}

type presencePayload struct {
	UserID uint `json:"userId"`
}
