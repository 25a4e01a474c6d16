package realtime

import (
	"sync"

	"github.com/google/uuid"
)

// Hub tracks the live connection of each user and chat room membership. It is
// constructed once at startup and injected wherever realtime delivery is
// needed; there is no package-level instance.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]Client
	rooms   map[string]map[uuid.UUID]Client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]Client),
		rooms:   make(map[string]map[uuid.UUID]Client),
	}
}

// Register binds the connection to the user. A user holds at most one live
// connection; a re-register from a new socket closes the previous one.
func (h *Hub) Register(userID uuid.UUID, client Client) {
	h.mu.Lock()
	old := h.clients[userID]
	h.clients[userID] = client
	h.mu.Unlock()

	if old != nil && old != client {
		old.Close()
	}
}

// Unregister drops the user's connection and any room membership, but only if
// the given client is still the registered one. A stale socket closing after
// a reconnect must not evict the new connection.
func (h *Hub) Unregister(userID uuid.UUID, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[userID] != client {
		return
	}
	delete(h.clients, userID)
	for roomID, members := range h.rooms {
		if members[userID] == client {
			delete(members, userID)
			if len(members) == 0 {
				delete(h.rooms, roomID)
			}
		}
	}
}

func (h *Hub) JoinRoom(roomID string, userID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[userID]
	if !ok {
		return
	}
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[uuid.UUID]Client)
	}
	h.rooms[roomID][userID] = client
}

func (h *Hub) LeaveRoom(roomID string, userID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(members, userID)
	if len(members) == 0 {
		delete(h.rooms, roomID)
	}
}

// InRoom reports whether the user currently has the room open.
func (h *Hub) InRoom(roomID string, userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.rooms[roomID][userID]
	return ok
}

// SendToUser delivers the payload to the user's connection. It reports false
// when the user is offline or the write fails.
func (h *Hub) SendToUser(userID uuid.UUID, v interface{}) bool {
	h.mu.RLock()
	client, ok := h.clients[userID]
	h.mu.RUnlock()

	if !ok {
		return false
	}
	return client.SendJSON(v) == nil
}

// BroadcastRoom delivers the payload to every member of the room.
func (h *Hub) BroadcastRoom(roomID string, v interface{}) {
	h.mu.RLock()
	members := make([]Client, 0, len(h.rooms[roomID]))
	for _, client := range h.rooms[roomID] {
		members = append(members, client)
	}
	h.mu.RUnlock()

	for _, client := range members {
		client.SendJSON(v)
	}
}

func (h *Hub) Online(userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

func (h *Hub) ActiveCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
