// Package room defines Connection, one client's transport handle together with
// its identity and timing metadata.
package room

import (
	"sync"
	"sync/atomic"
	"time"
)

//go:generate go run go.uber.org/mock/mockgen -source=connection.go -destination=../mocks/transport_mock.go -package=mocks

// Transport is one bidirectional client link.
type Transport interface {
	SendText(text string) error
	ReceiveText() (string, error)
}

// Connection is a client's live link inside a room. Writes to the underlying
// transport are serialized; reads are expected from a single consumer.
type Connection struct {
	clientID    string
	roomID      string
	connectedAt time.Time
	// unix nanoseconds
	lastActivity atomic.Int64

	writeMu   sync.Mutex
	transport Transport
}

// ConnectionInfo is a read-only view of a Connection.
type ConnectionInfo struct {
	ClientID        string    `json:"client_id"`
	RoomID          string    `json:"room_id"`
	ConnectedAt     time.Time `json:"connected_at"`
	LastActivity    time.Time `json:"last_activity"`
	DurationSeconds float64   `json:"connection_duration_seconds"`
}

// NewConnection creates a Connection for clientID in roomID over t.
func NewConnection(clientID, roomID string, t Transport) *Connection {
	now := time.Now()
	c := &Connection{
		clientID:    clientID,
		roomID:      roomID,
		connectedAt: now,
		transport:   t,
	}
	c.lastActivity.Store(now.UnixNano())
	return c
}

// ClientID returns the client identifier, unique within the room.
func (c *Connection) ClientID() string { return c.clientID }

// RoomID returns the room the connection belongs to.
func (c *Connection) RoomID() string { return c.roomID }

// ConnectedAt returns when the connection was created.
func (c *Connection) ConnectedAt() time.Time { return c.connectedAt }

// LastActivity returns the time of the last successful transfer.
func (c *Connection) LastActivity() time.Time {
	return time.Unix(0, c.lastActivity.Load())
}

// Transport returns the underlying transport handle.
func (c *Connection) Transport() Transport { return c.transport }

// Touch records activity on the connection.
func (c *Connection) Touch() {
	c.lastActivity.Store(time.Now().UnixNano())
}

// Send writes text to the transport. Concurrent callers are serialized so
// that the transport never sees two writes at once.
func (c *Connection) Send(text string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.transport.SendText(text); err != nil {
		return err
	}
	c.Touch()
	return nil
}

// Receive reads the next inbound text from the transport.
func (c *Connection) Receive() (string, error) {
	text, err := c.transport.ReceiveText()
	if err != nil {
		return "", err
	}
	c.Touch()
	return text, nil
}

// Duration returns how long the connection has been open.
func (c *Connection) Duration() time.Duration {
	return time.Since(c.connectedAt)
}

// Info returns a snapshot of the connection metadata.
func (c *Connection) Info() ConnectionInfo {
	return ConnectionInfo{
		ClientID:        c.clientID,
		RoomID:          c.roomID,
		ConnectedAt:     c.connectedAt,
		LastActivity:    c.LastActivity(),
		DurationSeconds: c.Duration().Seconds(),
	}
}
