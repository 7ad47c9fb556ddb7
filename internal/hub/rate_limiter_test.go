package hub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimiter_BurstThenRefill(t *testing.T) {
	req := require.New(t)
	now := time.Unix(1000, 0)
	rl := newRateLimiter(3, 3*time.Second)
	rl.now = func() time.Time { return now }
	rl.lastCheck = now

	for i := 0; i < 3; i++ {
		req.True(rl.allow(), "message %d within burst", i)
	}
	req.False(rl.allow())

	now = now.Add(time.Second)
	req.True(rl.allow())
	req.False(rl.allow())

	now = now.Add(time.Minute)
	for i := 0; i < 3; i++ {
		req.True(rl.allow())
	}
	req.False(rl.allow(), "refill is capped at capacity")
}

func TestRateLimiter_InvalidParameters(t *testing.T) {
	rl := newRateLimiter(0, 0)
	require.Equal(t, 1.0, rl.capacity)
	require.Equal(t, 1.0, rl.rate)
}
