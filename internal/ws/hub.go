package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
)

// Event is a message pushed to every client watching a partition.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type partitionEvent struct {
	Partition string
	Event     Event
}

// Hub keeps one room of clients per order partition and fans events out to
// them.
type Hub struct {
	rooms map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *partitionEvent
	done       chan struct{}

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *partitionEvent, 256),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until ctx is cancelled, then
// closes every client. After Run returns, sends to the hub are dropped.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for partition, clients := range h.rooms {
				for client := range clients {
					close(client.send)
				}
				delete(h.rooms, partition)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.partition] == nil {
				h.rooms[client.partition] = make(map[*Client]bool)
			}
			h.rooms[client.partition][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.drop(client)
			h.mu.Unlock()

		case event := <-h.broadcast:
			message, err := json.Marshal(event.Event)
			if err != nil {
				log.Printf("ERROR: marshal ws event: %v", err)
				continue
			}

			h.mu.Lock()
			for client := range h.rooms[event.Partition] {
				select {
				case client.send <- message:
				default:
					// Slow consumer.
					h.drop(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// drop must be called with mu held.
func (h *Hub) drop(client *Client) {
	clients, ok := h.rooms[client.partition]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.rooms, client.partition)
	}
}

// BroadcastToPartition queues event for every client of one partition.
func (h *Hub) BroadcastToPartition(partition string, event Event) {
	select {
	case h.broadcast <- &partitionEvent{Partition: partition, Event: event}:
	case <-h.done:
	}
}

// join adds client, reporting false once the hub has stopped.
func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish encodes payload and broadcasts it to each distinct partition.
func (h *Hub) Publish(eventType string, payload any, partitions ...string) {
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ERROR: marshal %s payload: %v", eventType, err)
		return
	}
	seen := make(map[string]bool, len(partitions))
	for _, p := range partitions {
		if seen[p] {
			continue
		}
		seen[p] = true
		h.BroadcastToPartition(p, Event{Type: eventType, Payload: raw})
	}
}
