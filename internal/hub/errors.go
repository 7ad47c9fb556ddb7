package hub

import (
	"errors"

	"github.com/Tyrowin/roomcast/internal/room"
)

var (
	// ErrInvalidToken rejects an admission whose token did not validate.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidClientID rejects an admission with a malformed client id.
	ErrInvalidClientID = errors.New("invalid client_id")
	// ErrInvalidKind rejects an injected message of unknown kind.
	ErrInvalidKind = errors.New("invalid message kind")
	// ErrShuttingDown rejects an admission that arrives during Shutdown.
	ErrShuttingDown = errors.New("server shutting down")
	// ErrSessionPanic wraps a panic recovered from a session's message loop.
	ErrSessionPanic = errors.New("session panicked")
)

// Close codes sent to clients whose admission was rejected.
const (
	CloseInvalidToken    = 4001
	CloseDuplicateClient = 4002
	CloseInvalidClientID = 4003
	CloseRoomFull        = 4004
	closeGoingAway       = 1001
	closeInternalError   = 1011
)

// CloseCode maps an admission error to a stable close code and reason.
func CloseCode(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidToken):
		return CloseInvalidToken, "Invalid token"
	case errors.Is(err, room.ErrDuplicateClient):
		return CloseDuplicateClient, "Client ID already exists in room"
	case errors.Is(err, ErrInvalidClientID):
		return CloseInvalidClientID, "Invalid client_id"
	case errors.Is(err, room.ErrRoomFull):
		return CloseRoomFull, "Room is full"
	case errors.Is(err, ErrShuttingDown):
		return closeGoingAway, "Server shutting down"
	default:
		return closeInternalError, "Internal error"
	}
}
