// Package room implements Manager, the single owner of every Room. It creates
// rooms lazily on first admission and deletes them with their last connection.
package room

import (
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/samber/lo"
)

var (
	// ErrRoomNotFound is returned by queries on a room that does not exist.
	ErrRoomNotFound = errors.New("room not found")
	// ErrDuplicateClient is returned when the client id is already in the room.
	ErrDuplicateClient = errors.New("client id already exists in room")
	// ErrRoomFull is returned when the room reached its connection cap.
	ErrRoomFull = errors.New("room is full")
)

// Manager owns all rooms. Lock order is always Manager then Room; admission
// and removal hold the Manager write lock so that a room is created and
// deleted atomically with its first and last connection.
type Manager struct {
	log             *slog.Logger
	historyCapacity int
	maxClients      int

	mu    sync.RWMutex
	rooms map[string]*Room
}

// Option configures a Manager.
type Option func(*Manager)

// WithHistoryCapacity sets how many messages each room keeps.
func WithHistoryCapacity(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.historyCapacity = n
		}
	}
}

// WithMaxConnections caps the connections per room. Zero means unlimited.
func WithMaxConnections(n int) Option {
	return func(m *Manager) {
		if n >= 0 {
			m.maxClients = n
		}
	}
}

// NewManager creates an empty Manager.
func NewManager(log *slog.Logger, opts ...Option) *Manager {
	if log == nil {
		log = slog.Default()
	}
	m := &Manager{
		log:             log,
		historyCapacity: DefaultHistoryCapacity,
		rooms:           make(map[string]*Room),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// HistoryCapacity returns the per-room history size.
func (m *Manager) HistoryCapacity() int { return m.historyCapacity }

// CreateOrGetRoom returns the room with id, creating an empty one if needed.
// A room created here without a following admission stays until a
// connection joins and leaves it.
func (m *Manager) CreateOrGetRoom(id string) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createOrGetLocked(id)
}

func (m *Manager) createOrGetLocked(id string) *Room {
	if r, ok := m.rooms[id]; ok {
		return r
	}
	r := newRoom(id, m.historyCapacity, m.maxClients)
	m.rooms[id] = r
	m.log.Info("Room created", "room", id)
	return r
}

// Room returns the room with id, if any.
func (m *Manager) Room(id string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[id]
	return r, ok
}

// Admit inserts c into its room, creating the room if absent. It fails with
// ErrDuplicateClient or ErrRoomFull without mutating anything.
func (m *Manager) Admit(c *Connection) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, existed := m.rooms[c.roomID]
	if !existed {
		r = newRoom(c.roomID, m.historyCapacity, m.maxClients)
	}
	if err := r.add(c); err != nil {
		m.log.Warn("Admission rejected", "room", c.roomID, "client", c.clientID, "err", err)
		return err
	}
	if !existed {
		m.rooms[c.roomID] = r
		m.log.Info("Room created", "room", c.roomID)
	}
	m.log.Info("Connection added", "room", c.roomID, "client", c.clientID, "connections", r.Len())
	return nil
}

// AddConnection inserts c into roomID and reports whether it was admitted.
func (m *Manager) AddConnection(roomID string, c *Connection) bool {
	if c.roomID != roomID {
		m.log.Warn("Connection room mismatch", "room", roomID, "connection_room", c.roomID, "client", c.clientID)
		return false
	}
	return m.Admit(c) == nil
}

// RemoveConnection removes clientID from roomID. The room is deleted in the
// same critical section when it becomes empty.
func (m *Manager) RemoveConnection(roomID, clientID string) bool {
	return m.remove(roomID, clientID, nil)
}

// Evict removes c only if that exact handle is still registered, so a stale
// link never removes a newer connection that reused its client id.
func (m *Manager) Evict(c *Connection) bool {
	return m.remove(c.roomID, c.clientID, c)
}

func (m *Manager) remove(roomID, clientID string, c *Connection) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rooms[roomID]
	if !ok {
		return false
	}
	removed, remaining := r.remove(clientID, c)
	if !removed {
		return false
	}
	m.log.Info("Connection removed", "room", roomID, "client", clientID, "connections", remaining)
	if remaining == 0 {
		delete(m.rooms, roomID)
		m.log.Info("Room deleted", "room", roomID)
	}
	return true
}

// AppendMessage adds msg to the history of roomID. It is a no-op when the
// room does not exist and reports whether the message was stored.
func (m *Manager) AppendMessage(roomID string, msg Message) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.rooms[roomID]
	if !ok {
		return false
	}
	r.append(msg)
	m.log.Debug("Message stored", "room", roomID, "sender", msg.SenderID, "kind", msg.Kind)
	return true
}

// GetMessages returns up to limit of the most recent messages of roomID in
// chronological order. A limit <= 0 returns the whole history, which never
// exceeds HistoryCapacity.
func (m *Manager) GetMessages(roomID string, limit int) ([]Message, error) {
	r, ok := m.Room(roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}
	return r.Messages(limit), nil
}

// Connections lists the connections of roomID.
func (m *Manager) Connections(roomID string) ([]ConnectionInfo, error) {
	r, ok := m.Room(roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}
	return r.Connections(), nil
}

// ConnectionCount returns the number of connections in roomID, zero if absent.
func (m *Manager) ConnectionCount(roomID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[roomID]
	if !ok {
		return 0
	}
	return r.Len()
}

// Recipients returns the connections of roomID other than exclude. The
// boolean is false when the room does not exist.
func (m *Manager) Recipients(roomID, exclude string) ([]*Connection, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[roomID]
	if !ok {
		return nil, false
	}
	return r.recipients(exclude), true
}

// All returns every live connection across rooms.
func (m *Manager) All() []*Connection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return lo.FlatMap(lo.Values(m.rooms), func(r *Room, _ int) []*Connection {
		return r.recipients("")
	})
}

// Snapshot returns the stats of every room keyed by room id.
func (m *Manager) Snapshot() map[string]Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return lo.MapValues(m.rooms, func(r *Room, _ string) Stats {
		return r.Stats()
	})
}

// RoomIDs returns the ids of the live rooms in sorted order.
func (m *Manager) RoomIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := lo.Keys(m.rooms)
	sort.Strings(ids)
	return ids
}

// TotalConnections sums the connections of every room.
func (m *Manager) TotalConnections() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return lo.SumBy(lo.Values(m.rooms), func(r *Room) int { return r.Len() })
}

// TotalMessages sums the message counters of every room.
func (m *Manager) TotalMessages() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return lo.SumBy(lo.Values(m.rooms), func(r *Room) int { return r.messageCount() })
}
