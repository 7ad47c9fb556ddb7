// Package heartbeat posts a periodic liveness message into a designated room.
package heartbeat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Tyrowin/roomcast/internal/hub"
	"github.com/Tyrowin/roomcast/internal/periodic"
	"github.com/Tyrowin/roomcast/internal/room"
)

// Defaults taken from the server configuration.
const (
	DefaultInterval = 20 * time.Second
	DefaultRoom     = "observer"
	Content         = "💓 Server heartbeat - System operational"
)

// Ticker synthesizes a heartbeat message into one room on a fixed interval,
// skipping beats while that room has no connections.
type Ticker struct {
	engine *hub.Engine
	roomID string
	log    *slog.Logger
	task   *periodic.Task
}

// NewTicker creates a stopped Ticker targeting roomID.
func NewTicker(engine *hub.Engine, roomID string, interval time.Duration, log *slog.Logger) *Ticker {
	if log == nil {
		log = slog.Default()
	}
	if roomID == "" {
		roomID = DefaultRoom
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	t := &Ticker{engine: engine, roomID: roomID, log: log}
	t.task = periodic.New("heartbeat", interval, func(context.Context) { t.Beat() }, log)
	return t
}

// Start begins beating. Calling it on a running ticker does nothing.
func (t *Ticker) Start() { t.task.Start() }

// Stop halts the ticker; no beat fires after it returns.
func (t *Ticker) Stop() { t.task.Stop() }

// State reports whether the ticker is running.
func (t *Ticker) State() periodic.State { return t.task.State() }

// RoomID returns the designated room.
func (t *Ticker) RoomID() string { return t.roomID }

// Beat sends one heartbeat now. It reports whether the room was occupied.
func (t *Ticker) Beat() bool {
	if t.engine.Rooms().ConnectionCount(t.roomID) == 0 {
		return false
	}
	n, err := t.engine.InjectMessage(t.roomID, Content, hub.ServerSender, room.KindHeartbeat)
	if err != nil {
		// the room emptied between the check and the append
		return false
	}
	t.log.Debug("Heartbeat sent", "room", t.roomID, "recipients", n)
	return true
}

// Pulse sends a custom heartbeat into roomID. An empty content uses a default
// text naming the room.
func (t *Ticker) Pulse(roomID, content string) (int, error) {
	if content == "" {
		content = fmt.Sprintf("💓 Custom heartbeat for %s", roomID)
	}
	n, err := t.engine.InjectMessage(roomID, content, hub.ServerSender, room.KindHeartbeat)
	if err != nil {
		return 0, fmt.Errorf("pulse %s: %w", roomID, err)
	}
	t.log.Info("Custom heartbeat sent", "room", roomID, "recipients", n)
	return n, nil
}
