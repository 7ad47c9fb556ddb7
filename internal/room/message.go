// Package room defines the immutable Message record that flows through room
// history and broadcast.
package room

import (
	"time"

	"github.com/google/uuid"
)

// Kind classifies a Message.
type Kind string

// Message kinds.
const (
	KindUser      Kind = "user"
	KindSystem    Kind = "system"
	KindHeartbeat Kind = "heartbeat"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindUser, KindSystem, KindHeartbeat:
		return true
	}
	return false
}

// Message is an immutable chat record. It is created once and then either
// appended to a room history, broadcast, or both.
type Message struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	SenderID  string    `json:"sender_id"`
	Timestamp time.Time `json:"timestamp"`
	Kind      Kind      `json:"message_type"`
	RoomID    string    `json:"room_id"`
}

// NewMessage creates a Message stamped with the current time.
func NewMessage(roomID, senderID, content string, kind Kind) Message {
	return Message{
		ID:        uuid.New(),
		Content:   content,
		SenderID:  senderID,
		Timestamp: time.Now(),
		Kind:      kind,
		RoomID:    roomID,
	}
}

// Wire returns the text representation written to client transports.
func (m Message) Wire() string {
	return m.SenderID + ": " + m.Content
}
