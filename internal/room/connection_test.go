package room

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type scriptedTransport struct {
	sendErr error
	recvErr error
}

func (s scriptedTransport) SendText(string) error { return s.sendErr }

func (s scriptedTransport) ReceiveText() (string, error) {
	if s.recvErr != nil {
		return "", s.recvErr
	}
	return "ping", nil
}

func TestConnection_SuccessfulTransfersRefreshActivity(t *testing.T) {
	req := require.New(t)
	c := NewConnection("alice", "lobby", scriptedTransport{})
	opened := c.LastActivity()
	req.Equal(c.ConnectedAt().UnixNano(), opened.UnixNano())

	time.Sleep(2 * time.Millisecond)
	req.NoError(c.Send("hello"))
	afterSend := c.LastActivity()
	req.True(afterSend.After(opened), "send should refresh last activity")

	time.Sleep(2 * time.Millisecond)
	text, err := c.Receive()
	req.NoError(err)
	req.Equal("ping", text)
	req.True(c.LastActivity().After(afterSend), "receive should refresh last activity")
}

func TestConnection_FailedTransfersKeepActivity(t *testing.T) {
	req := require.New(t)
	c := NewConnection("alice", "lobby", scriptedTransport{
		sendErr: errors.New("broken pipe"),
		recvErr: io.EOF,
	})
	before := c.LastActivity()

	time.Sleep(2 * time.Millisecond)
	req.Error(c.Send("hello"))
	_, err := c.Receive()
	req.ErrorIs(err, io.EOF)
	req.Equal(before, c.LastActivity())
}

func TestConnection_Info(t *testing.T) {
	req := require.New(t)
	c := NewConnection("alice", "lobby", scriptedTransport{})
	time.Sleep(time.Millisecond)
	req.NoError(c.Send("hello"))

	info := c.Info()
	req.Equal("alice", info.ClientID)
	req.Equal("lobby", info.RoomID)
	req.Equal(c.LastActivity(), info.LastActivity)
	req.Greater(info.DurationSeconds, 0.0)
}
