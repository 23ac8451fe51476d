package readings

// DefaultBufferCap is the live buffer size used when callers pass a
// non-positive capacity.
const DefaultBufferCap = 15

// LiveBuffer holds the most recent readings pushed from a live
// subscription. Bounded; once full the oldest entry is evicted. Not
// goroutine-safe on its own; the owning store serializes access.
type LiveBuffer struct {
	cap     int
	entries []Reading
}

func NewLiveBuffer(capacity int) *LiveBuffer {
	if capacity <= 0 {
		capacity = DefaultBufferCap
	}
	return &LiveBuffer{cap: capacity}
}

// Push appends a reading, evicting the oldest when at capacity.
func (b *LiveBuffer) Push(r Reading) {
	if len(b.entries) == b.cap {
		copy(b.entries, b.entries[1:])
		b.entries[len(b.entries)-1] = r
		return
	}
	b.entries = append(b.entries, r)
}

// Snapshot returns a copy of the buffered readings, oldest first.
func (b *LiveBuffer) Snapshot() []Reading {
	out := make([]Reading, len(b.entries))
	copy(out, b.entries)
	return out
}

func (b *LiveBuffer) Len() int { return len(b.entries) }
