package hub

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Tyrowin/roomcast/internal/room"
)

// State is the lifecycle stage of a Session.
type State int32

// Session states.
const (
	StateConnecting State = iota
	StateActive
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// Sender ids of messages the server writes itself.
const (
	ServerSender    = "SERVER"
	AssistantSender = "ASSISTANT"
)

// Session is one admitted client in one room.
type Session struct {
	engine    *Engine
	conn      *room.Connection
	limiter   *rateLimiter
	state     atomic.Int32
	closeOnce sync.Once
}

// Admit validates the credentials, registers the client in roomID and
// announces it to the other members. Rejected admissions never mutate any
// room; map the error with CloseCode to tell the client why.
func (e *Engine) Admit(roomID, clientID, token string, t room.Transport) (*Session, error) {
	if !e.validator.ValidateToken(token) {
		e.log.Warn("Access denied: invalid token", "room", roomID, "client", clientID)
		return nil, ErrInvalidToken
	}
	if !e.validator.ValidateClientID(clientID) {
		e.log.Warn("Access denied: invalid client id", "room", roomID, "client", clientID)
		return nil, ErrInvalidClientID
	}

	s := &Session{engine: e, conn: room.NewConnection(clientID, roomID, t)}
	if e.rateLimit != nil {
		s.limiter = newRateLimiter(e.rateLimit.Burst, e.rateLimit.RefillInterval)
	}

	if err := e.register(s); err != nil {
		return nil, fmt.Errorf("admit %s to %s: %w", clientID, roomID, err)
	}

	e.announce(roomID, clientID, fmt.Sprintf("Cliente %s se ha unido a la sala", clientID))
	return s, nil
}

func (e *Engine) register(s *Session) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closing {
		return ErrShuttingDown
	}
	if err := e.rooms.Admit(s.conn); err != nil {
		return err
	}
	e.sessions.Add(1)
	s.state.Store(int32(StateActive))
	return nil
}

func (e *Engine) announce(roomID, clientID, content string) {
	msg := room.NewMessage(roomID, ServerSender, content, room.KindSystem)
	e.rooms.AppendMessage(roomID, msg)
	e.Broadcast(roomID, msg, clientID)
}

// State returns the current lifecycle stage.
func (s *Session) State() State { return State(s.state.Load()) }

// Connection returns the session's connection.
func (s *Session) Connection() *room.Connection { return s.conn }

// Run reads inbound messages until the transport fails or ctx is done, then
// runs the leave cleanup. It returns the error that ended the loop.
func (s *Session) Run(ctx context.Context) (err error) {
	defer s.Close()
	defer func() {
		if r := recover(); r != nil {
			s.engine.log.Error("Session loop panicked", "room", s.conn.RoomID(), "client", s.conn.ClientID(), "panic", r)
			err = fmt.Errorf("%w: %v", ErrSessionPanic, r)
		}
	}()

	stop := context.AfterFunc(ctx, func() { closeTransport(s.conn, s.engine.log) })
	defer stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		text, err := s.conn.Receive()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return err
		}
		s.handle(ctx, text)
	}
}

func (s *Session) handle(ctx context.Context, text string) {
	roomID, clientID := s.conn.RoomID(), s.conn.ClientID()
	if s.limiter != nil && !s.limiter.allow() {
		s.engine.log.Warn("Rate limit exceeded; discarding message", "room", roomID, "client", clientID)
		return
	}

	s.engine.log.Debug("Message received", "room", roomID, "client", clientID)
	msg := room.NewMessage(roomID, clientID, text, room.KindUser)
	s.engine.rooms.AppendMessage(roomID, msg)
	s.engine.Broadcast(roomID, msg, clientID)

	if rt := s.engine.responder; rt != nil && rt.roomID == roomID {
		s.reply(ctx, rt.responder, text)
	}
}

// reply sends the responder's answer to this session only. It is not kept in
// the room history.
func (s *Session) reply(ctx context.Context, r Responder, text string) {
	roomID, clientID := s.conn.RoomID(), s.conn.ClientID()
	answer, err := r.Reply(ctx, text)
	if err != nil {
		s.engine.log.Warn("Responder failed", "room", roomID, "client", clientID, "err", err)
		return
	}
	msg := room.NewMessage(roomID, AssistantSender, answer, room.KindSystem)
	if err := s.conn.Send(msg.Wire()); err != nil {
		s.engine.log.Debug("Reply delivery failed", "room", roomID, "client", clientID, "err", err)
	}
}

// Close moves the session to Closed, announces the departure and removes
// the connection. Only the first call has any effect.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if State(s.state.Swap(int32(StateClosed))) != StateActive {
			return
		}
		defer s.engine.sessions.Done()

		roomID, clientID := s.conn.RoomID(), s.conn.ClientID()
		s.engine.log.Info("Connection closed", "room", roomID, "client", clientID)
		s.engine.announce(roomID, clientID, fmt.Sprintf("Cliente %s ha abandonado la sala", clientID))
		s.engine.rooms.Evict(s.conn)
	})
}
