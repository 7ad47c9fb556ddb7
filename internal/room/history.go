package room

// DefaultHistoryCapacity is the number of messages a room keeps.
const DefaultHistoryCapacity = 50

// history is a fixed-capacity ring of messages. Once full, each push evicts
// the oldest entry.
type history struct {
	buf   []Message
	start int
	size  int
}

func newHistory(capacity int) *history {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &history{buf: make([]Message, capacity)}
}

func (h *history) push(m Message) {
	if h.size < len(h.buf) {
		h.buf[(h.start+h.size)%len(h.buf)] = m
		h.size++
		return
	}
	h.buf[h.start] = m
	h.start = (h.start + 1) % len(h.buf)
}

func (h *history) len() int { return h.size }

// last returns up to limit of the most recent messages in chronological
// order. A limit <= 0 returns everything held.
func (h *history) last(limit int) []Message {
	n := h.size
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Message, n)
	offset := h.size - n
	for i := 0; i < n; i++ {
		out[i] = h.buf[(h.start+offset+i)%len(h.buf)]
	}
	return out
}
