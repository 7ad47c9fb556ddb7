package heartbeat

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Tyrowin/roomcast/internal/hub"
	"github.com/Tyrowin/roomcast/internal/mocks"
	"github.com/Tyrowin/roomcast/internal/periodic"
	"github.com/Tyrowin/roomcast/internal/room"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type recorder struct {
	mu   sync.Mutex
	sent []string
}

func (r *recorder) SendText(text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, text)
	return nil
}

func (r *recorder) ReceiveText() (string, error) { return "", io.EOF }

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func setup(t *testing.T) (*hub.Engine, *room.Manager) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctrl := gomock.NewController(t)
	v := mocks.NewMockValidator(ctrl)
	v.EXPECT().ValidateToken(gomock.Any()).Return(true).AnyTimes()
	v.EXPECT().ValidateClientID(gomock.Any()).Return(true).AnyTimes()
	rooms := room.NewManager(log)
	return hub.NewEngine(rooms, v, log), rooms
}

func TestTicker_BeatSkipsEmptyRoom(t *testing.T) {
	req := require.New(t)
	engine, rooms := setup(t)
	ticker := NewTicker(engine, "observer", time.Hour, nil)

	req.False(ticker.Beat())
	req.Empty(rooms.RoomIDs())
}

func TestTicker_BeatAppendsAndBroadcasts(t *testing.T) {
	req := require.New(t)
	engine, rooms := setup(t)
	rec := &recorder{}
	req.True(rooms.AddConnection("observer", room.NewConnection("viewer", "observer", rec)))
	ticker := NewTicker(engine, "", 0, nil)
	req.Equal(DefaultRoom, ticker.RoomID())

	req.True(ticker.Beat())

	req.Equal([]string{"SERVER: " + Content}, rec.sent)
	history, err := rooms.GetMessages("observer", 1)
	req.NoError(err)
	req.Equal(room.KindHeartbeat, history[0].Kind)
	req.Equal(hub.ServerSender, history[0].SenderID)
}

func TestTicker_RunsAndStops(t *testing.T) {
	req := require.New(t)
	engine, rooms := setup(t)
	rec := &recorder{}
	req.True(rooms.AddConnection("observer", room.NewConnection("viewer", "observer", rec)))

	ticker := NewTicker(engine, "observer", 2*time.Millisecond, nil)
	ticker.Stop()
	ticker.Start()
	req.Equal(periodic.Running, ticker.State())
	req.Eventually(func() bool { return rec.count() >= 2 }, time.Second, time.Millisecond)

	ticker.Stop()
	req.Equal(periodic.Stopped, ticker.State())
	stopped := rec.count()
	time.Sleep(20 * time.Millisecond)
	req.Equal(stopped, rec.count())
}

func TestTicker_Pulse(t *testing.T) {
	req := require.New(t)
	engine, rooms := setup(t)
	ticker := NewTicker(engine, "observer", time.Hour, nil)

	_, err := ticker.Pulse("lab", "")
	req.ErrorIs(err, room.ErrRoomNotFound)

	rec := &recorder{}
	req.True(rooms.AddConnection("lab", room.NewConnection("x", "lab", rec)))
	n, err := ticker.Pulse("lab", "")
	req.NoError(err)
	req.Equal(1, n)
	req.Equal([]string{"SERVER: 💓 Custom heartbeat for lab"}, rec.sent)
}
