package ws

import (
	"testing"
	"time"

	"github.com/WooDaeYoon/dahandinworld/internal/classpath"
)

func TestCleanupSparesYoungEmptyRooms(t *testing.T) {
	hub := NewHub(nil)
	scope := classpath.Scope("classes/ABC123")
	room := NewRoom(scope, nil)
	hub.rooms[scope] = room

	// An empty room that was just created may have a Register still in
	// flight; cleanup must leave it alone.
	hub.cleanupEmptyRooms()

	hub.mu.RLock()
	_, ok := hub.rooms[scope]
	hub.mu.RUnlock()
	if !ok {
		t.Fatal("young empty room was cleaned up")
	}

	room.created = time.Now().Add(-2 * roomMinAge)
	hub.cleanupEmptyRooms()

	hub.mu.RLock()
	_, ok = hub.rooms[scope]
	hub.mu.RUnlock()
	if ok {
		t.Fatal("stale empty room survived cleanup")
	}

	select {
	case <-room.done:
	default:
		t.Fatal("cleaned-up room was not stopped")
	}
}
