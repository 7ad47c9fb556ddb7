package server

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

const (
	readWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	writeWait  = 10 * time.Second
)

// wsTransport adapts a gorilla websocket connection to room.Transport.
// Data writes are serialized by room.Connection; control frames may be
// written concurrently as gorilla allows.
type wsTransport struct {
	conn *websocket.Conn
	addr string
	log  *slog.Logger

	closeOnce sync.Once
	done      chan struct{}
}

func newWSTransport(conn *websocket.Conn, maxMessageSize int64, log *slog.Logger) *wsTransport {
	t := &wsTransport{
		conn: conn,
		addr: conn.RemoteAddr().String(),
		log:  log,
		done: make(chan struct{}),
	}
	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(readWait)); err != nil {
		log.Debug("Error setting initial read deadline", "addr", t.addr, "err", err)
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readWait))
	})
	return t
}

// SendText writes one text frame.
func (t *wsTransport) SendText(text string) error {
	if err := t.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return t.conn.WriteMessage(websocket.TextMessage, []byte(text))
}

// ReceiveText blocks for the next data frame. Binary frames are delivered as
// text.
func (t *wsTransport) ReceiveText() (string, error) {
	_, data, err := t.conn.ReadMessage()
	if err != nil {
		t.logReadError(err)
		return "", err
	}
	return string(data), nil
}

// pingLoop keeps the peer's read deadline alive until the transport closes.
func (t *wsTransport) pingLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-t.done:
			return
		case <-ticker.C:
			if err := t.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				t.log.Debug("Ping failed", "addr", t.addr, "err", err)
				_ = t.Close()
				return
			}
		}
	}
}

// Close closes the underlying connection once.
func (t *wsTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.done)
		err = t.conn.Close()
	})
	if isExpectedCloseError(err) {
		return nil
	}
	return err
}

// CloseWithCode sends a close frame carrying code and reason, then closes.
func (t *wsTransport) CloseWithCode(code int, reason string) error {
	msg := websocket.FormatCloseMessage(code, reason)
	if err := t.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil {
		t.log.Debug("Error writing close message", "addr", t.addr, "err", err)
	}
	return t.Close()
}

func (t *wsTransport) logReadError(err error) {
	switch {
	case errors.Is(err, websocket.ErrReadLimit):
		t.log.Warn("Message exceeded maximum size", "addr", t.addr)
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure):
		t.log.Debug("Client disconnected", "addr", t.addr, "err", err)
	case errors.Is(err, io.EOF) || isExpectedCloseError(err):
		t.log.Debug("Client connection closed", "addr", t.addr, "err", err)
	default:
		t.log.Warn("WebSocket read error", "addr", t.addr, "err", err)
	}
}

func isExpectedCloseError(err error) bool {
	return err == nil || errors.Is(err, net.ErrClosed) || errors.Is(err, websocket.ErrCloseSent) || errors.Is(err, syscall.EPIPE)
}
