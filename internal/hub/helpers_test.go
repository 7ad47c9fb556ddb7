package hub

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Tyrowin/roomcast/internal/mocks"
	"github.com/Tyrowin/roomcast/internal/room"
	"go.uber.org/mock/gomock"
)

var errTransportClosed = errors.New("use of closed network connection")

// fakeTransport records outbound text and serves inbound text from a channel.
type fakeTransport struct {
	mu        sync.Mutex
	sent      []string
	inbound   chan string
	closed    chan struct{}
	closeOnce sync.Once
	inFlight  atomic.Int32
	overlaps  atomic.Int32
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		inbound: make(chan string, 16),
		closed:  make(chan struct{}),
	}
}

func (f *fakeTransport) SendText(text string) error {
	if f.inFlight.Add(1) > 1 {
		f.overlaps.Add(1)
	}
	defer f.inFlight.Add(-1)

	select {
	case <-f.closed:
		return errTransportClosed
	default:
	}
	f.mu.Lock()
	f.sent = append(f.sent, text)
	f.mu.Unlock()
	return nil
}

func (f *fakeTransport) ReceiveText() (string, error) {
	select {
	case text := <-f.inbound:
		return text, nil
	case <-f.closed:
		return "", io.EOF
	}
}

func (f *fakeTransport) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeTransport) Sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func allowAllValidator(ctrl *gomock.Controller) *mocks.MockValidator {
	v := mocks.NewMockValidator(ctrl)
	v.EXPECT().ValidateToken(gomock.Any()).Return(true).AnyTimes()
	v.EXPECT().ValidateClientID(gomock.Any()).Return(true).AnyTimes()
	return v
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	ctrl := gomock.NewController(t)
	return NewEngine(room.NewManager(quietLogger()), allowAllValidator(ctrl), quietLogger(), opts...)
}
