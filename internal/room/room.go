// Package room defines Room, a named group of connections with a bounded
// message history and aggregate counters.
package room

import (
	"sync"
	"time"

	"github.com/samber/lo"
)

// Room groups the connections sharing one broadcast scope. Its exported
// methods only read; mutation goes through the Manager.
type Room struct {
	id          string
	createdAt   time.Time
	maxClients  int
	mu          sync.RWMutex
	connections map[string]*Connection
	history     *history
	// never decremented, independent of history eviction
	totalMessages int
	lastActivity  time.Time
}

// Stats is a point-in-time view of a room.
type Stats struct {
	RoomID                string    `json:"room_id"`
	ActiveConnections     int       `json:"active_connections"`
	TotalMessages         int       `json:"total_messages"`
	MessagesInHistory     int       `json:"messages_in_history"`
	CreatedAt             time.Time `json:"created_at"`
	LastActivity          time.Time `json:"last_activity"`
	AverageConnectionTime float64   `json:"average_connection_time_seconds"`
}

func newRoom(id string, historyCapacity, maxClients int) *Room {
	now := time.Now()
	return &Room{
		id:           id,
		createdAt:    now,
		maxClients:   maxClients,
		connections:  make(map[string]*Connection),
		history:      newHistory(historyCapacity),
		lastActivity: now,
	}
}

// ID returns the room identifier.
func (r *Room) ID() string { return r.id }

// Len returns the number of connections in the room.
func (r *Room) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.connections)
}

// Has reports whether clientID is connected to the room.
func (r *Room) Has(clientID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.connections[clientID]
	return ok
}

// Stats returns a snapshot of the room counters.
func (r *Room) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := lo.Values(r.connections)
	avg := 0.0
	if len(conns) > 0 {
		total := lo.SumBy(conns, func(c *Connection) float64 { return c.Duration().Seconds() })
		avg = total / float64(len(conns))
	}

	return Stats{
		RoomID:                r.id,
		ActiveConnections:     len(conns),
		TotalMessages:         r.totalMessages,
		MessagesInHistory:     r.history.len(),
		CreatedAt:             r.createdAt,
		LastActivity:          r.lastActivity,
		AverageConnectionTime: avg,
	}
}

// Messages returns up to limit of the most recent messages, oldest first.
// A limit <= 0 returns the whole history.
func (r *Room) Messages(limit int) []Message {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.history.last(limit)
}

// Connections returns info about every connection in the room.
func (r *Room) Connections() []ConnectionInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.MapToSlice(r.connections, func(_ string, c *Connection) ConnectionInfo {
		return c.Info()
	})
}

// recipients returns the connections other than exclude.
func (r *Room) recipients(exclude string) []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Connection, 0, len(r.connections))
	for id, c := range r.connections {
		if exclude != "" && id == exclude {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (r *Room) add(c *Connection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.connections[c.clientID]; exists {
		return ErrDuplicateClient
	}
	if r.maxClients > 0 && len(r.connections) >= r.maxClients {
		return ErrRoomFull
	}
	r.connections[c.clientID] = c
	r.lastActivity = time.Now()
	return nil
}

// remove deletes clientID, or only the given handle when c is non-nil. It
// reports whether something was removed and how many connections remain.
func (r *Room) remove(clientID string, c *Connection) (bool, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.connections[clientID]
	if !ok || (c != nil && existing != c) {
		return false, len(r.connections)
	}
	delete(r.connections, clientID)
	return true, len(r.connections)
}

func (r *Room) messageCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.totalMessages
}

func (r *Room) append(m Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history.push(m)
	r.totalMessages++
	r.lastActivity = time.Now()
}
