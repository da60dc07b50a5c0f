package ws

import (
	"sync"
	"time"

	"github.com/WooDaeYoon/dahandinworld/internal/classpath"
	"github.com/WooDaeYoon/dahandinworld/internal/logger"
	"github.com/WooDaeYoon/dahandinworld/internal/repository"
)

// Hub keeps one square room per class scope. Rooms are created on first
// join and torn down by the cleanup loop once empty.
type Hub struct {
	rooms   map[classpath.Scope]*Room
	mu      sync.RWMutex
	squares *repository.SquareRepository
}

func NewHub(squares *repository.SquareRepository) *Hub {
	return &Hub{
		rooms:   make(map[classpath.Scope]*Room),
		squares: squares,
	}
}

// Join puts the client into its class square, creating the room if this
// is the first participant.
func (h *Hub) Join(c *Client) *Room {
	h.mu.Lock()
	room, ok := h.rooms[c.Scope]
	if !ok {
		room = NewRoom(c.Scope, h.squares)
		h.rooms[c.Scope] = room
		go room.Run()
	}
	h.mu.Unlock()

	room.Register <- c
	return room
}

func (h *Hub) OnDisconnect(c *Client) {
	h.mu.RLock()
	room, ok := h.rooms[c.Scope]
	h.mu.RUnlock()
	if ok {
		room.Disconnect <- c
	}
}

// roomMinAge keeps freshly created rooms out of cleanup. A room can look
// empty between Join returning it and its Run loop processing the first
// Register, so only rooms past this age are eligible.
const roomMinAge = time.Hour

func (h *Hub) StartCleanup() {
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			h.cleanupEmptyRooms()
		}
	}()
}

func (h *Hub) cleanupEmptyRooms() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for scope, room := range h.rooms {
		if room.Empty() && time.Since(room.created) > roomMinAge {
			room.Stop()
			delete(h.rooms, scope)
			logger.Debug("cleaned up empty square room", "scope", scope)
		}
	}
}
