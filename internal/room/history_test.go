package room

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func msg(i int) Message {
	return NewMessage("r1", "alice", fmt.Sprintf("M%d", i), KindUser)
}

func contents(msgs []Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Content
	}
	return out
}

func TestHistory_EvictsOldestFirst(t *testing.T) {
	req := require.New(t)
	h := newHistory(3)

	for i := 1; i <= 5; i++ {
		h.push(msg(i))
	}

	req.Equal(3, h.len())
	req.Equal([]string{"M3", "M4", "M5"}, contents(h.last(0)))
}

func TestHistory_LastLimit(t *testing.T) {
	tests := []struct {
		name   string
		pushed int
		limit  int
		want   []string
	}{
		{name: "empty", pushed: 0, limit: 0, want: []string{}},
		{name: "below capacity all", pushed: 2, limit: 0, want: []string{"M1", "M2"}},
		{name: "limit one", pushed: 4, limit: 1, want: []string{"M4"}},
		{name: "limit above size", pushed: 2, limit: 10, want: []string{"M1", "M2"}},
		{name: "wrapped with limit", pushed: 7, limit: 2, want: []string{"M6", "M7"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHistory(3)
			for i := 1; i <= tt.pushed; i++ {
				h.push(msg(i))
			}
			require.Equal(t, tt.want, contents(h.last(tt.limit)))
		})
	}
}

func TestHistory_NeverExceedsCapacity(t *testing.T) {
	req := require.New(t)
	h := newHistory(DefaultHistoryCapacity)

	for i := 1; i <= DefaultHistoryCapacity+17; i++ {
		h.push(msg(i))
		req.LessOrEqual(h.len(), DefaultHistoryCapacity)
	}

	got := h.last(0)
	req.Len(got, DefaultHistoryCapacity)
	req.Equal("M18", got[0].Content)
	req.Equal(fmt.Sprintf("M%d", DefaultHistoryCapacity+17), got[len(got)-1].Content)
}

func TestHistory_DefaultCapacityOnInvalidSize(t *testing.T) {
	require.Len(t, newHistory(0).buf, DefaultHistoryCapacity)
}
