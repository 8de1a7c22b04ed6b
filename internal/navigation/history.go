package navigation

// DefaultHistoryLimit caps how many previous paths a session remembers.
const DefaultHistoryLimit = 100

// History is the in-memory stack of previously visited paths. It never
// touches a platform history API.
type History struct {
	entries []string
	limit   int
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Push records path, dropping the oldest entry once the limit is reached.
func (h *History) Push(path string) {
	if len(h.entries) == h.limit {
		h.entries = append(h.entries[:0], h.entries[1:]...)
	}
	h.entries = append(h.entries, path)
}

// Pop removes and returns the most recent path.
func (h *History) Pop() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	last := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	return last, true
}

func (h *History) Peek() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	return h.entries[len(h.entries)-1], true
}

func (h *History) Len() int { return len(h.entries) }

// Entries returns a copy, oldest first.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}
