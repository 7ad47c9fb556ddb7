package hub

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Tyrowin/roomcast/internal/room"
)

//go:generate go run go.uber.org/mock/mockgen -source=engine.go -destination=../mocks/validator_mock.go -package=mocks

// Validator checks admission credentials.
type Validator interface {
	ValidateToken(token string) bool
	ValidateClientID(clientID string) bool
}

// Responder answers a member's message privately.
type Responder interface {
	Reply(ctx context.Context, text string) (string, error)
}

type responderRoute struct {
	roomID    string
	responder Responder
}

// RateLimit bounds the inbound messages of one session.
type RateLimit struct {
	Burst          int
	RefillInterval time.Duration
}

// Engine broadcasts messages into rooms and admits client sessions.
type Engine struct {
	rooms     *room.Manager
	validator Validator
	log       *slog.Logger
	rateLimit *RateLimit
	responder *responderRoute

	// mu orders session registration against Shutdown so that no
	// sessions.Add runs once shutdown has begun waiting.
	mu       sync.Mutex
	closing  bool
	sessions sync.WaitGroup
}

// Option configures an Engine.
type Option func(*Engine)

// WithRateLimit throttles inbound messages per session.
func WithRateLimit(rl RateLimit) Option {
	return func(e *Engine) {
		if rl.Burst > 0 {
			e.rateLimit = &rl
		}
	}
}

// WithResponder makes every user message in roomID get a reply from r that
// only its sender sees.
func WithResponder(roomID string, r Responder) Option {
	return func(e *Engine) {
		if r != nil {
			e.responder = &responderRoute{roomID: roomID, responder: r}
		}
	}
}

// NewEngine creates an Engine over rooms.
func NewEngine(rooms *room.Manager, validator Validator, log *slog.Logger, opts ...Option) *Engine {
	if log == nil {
		log = slog.Default()
	}
	e := &Engine{rooms: rooms, validator: validator, log: log}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rooms returns the room manager the engine routes through.
func (e *Engine) Rooms() *room.Manager { return e.rooms }

// Broadcast delivers msg to every connection of roomID except exclude and
// returns how many deliveries succeeded. An absent room is a no-op. A
// recipient whose write fails is evicted once all deliveries are done, which
// may delete the room.
func (e *Engine) Broadcast(roomID string, msg room.Message, exclude string) int {
	recipients, ok := e.rooms.Recipients(roomID, exclude)
	if !ok {
		e.log.Warn("Broadcast to missing room", "room", roomID)
		return 0
	}
	if len(recipients) == 0 {
		return 0
	}

	text := msg.Wire()
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		failed    []*room.Connection
		delivered atomic.Int32
	)
	for _, c := range recipients {
		wg.Add(1)
		go func(c *room.Connection) {
			defer wg.Done()
			if err := c.Send(text); err != nil {
				e.log.Warn("Delivery failed", "room", roomID, "client", c.ClientID(), "err", err)
				mu.Lock()
				failed = append(failed, c)
				mu.Unlock()
				return
			}
			delivered.Add(1)
		}(c)
	}
	wg.Wait()

	e.log.Debug("Broadcast done", "room", roomID, "recipients", len(recipients), "failed", len(failed))

	for _, c := range failed {
		if e.rooms.Evict(c) {
			e.log.Info("Connection evicted after failed delivery", "room", roomID, "client", c.ClientID())
		}
		closeTransport(c, e.log)
	}
	return int(delivered.Load())
}

// InjectMessage posts a message into roomID on behalf of a non-member sender,
// storing it in history and broadcasting it to every connection.
func (e *Engine) InjectMessage(roomID, content, senderID string, kind room.Kind) (int, error) {
	if !kind.Valid() {
		return 0, ErrInvalidKind
	}
	msg := room.NewMessage(roomID, senderID, content, kind)
	if !e.rooms.AppendMessage(roomID, msg) {
		return 0, room.ErrRoomNotFound
	}
	return e.Broadcast(roomID, msg, ""), nil
}

// Shutdown closes every live transport and waits for the sessions to finish
// their cleanup, or returns context.DeadlineExceeded after timeout. Admit
// fails with ErrShuttingDown from the moment Shutdown is called.
func (e *Engine) Shutdown(timeout time.Duration) error {
	e.mu.Lock()
	e.closing = true
	e.mu.Unlock()

	conns := e.rooms.All()
	e.log.Info("Shutting down sessions", "connections", len(conns))
	for _, c := range conns {
		closeTransport(c, e.log)
	}

	done := make(chan struct{})
	go func() {
		e.sessions.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.log.Info("Session shutdown completed")
		return nil
	case <-time.After(timeout):
		e.log.Warn("Session shutdown timed out", "timeout", timeout)
		return context.DeadlineExceeded
	}
}

func closeTransport(c *room.Connection, log *slog.Logger) {
	closer, ok := c.Transport().(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		log.Debug("Transport close failed", "room", c.RoomID(), "client", c.ClientID(), "err", err)
	}
}
