package history

import (
	"sync"

	"github.com/ghalamif/TrackFlow/internal/domain"
	"github.com/ghalamif/TrackFlow/internal/ports"
)

// DefaultCapacity matches the rolling window shown by dashboard consumers.
const DefaultCapacity = 200

// Ring is a bounded in-memory window that preserves FIFO ordering and
// evicts the oldest frame once full.
type Ring struct {
	mu    sync.Mutex
	data  []domain.Frame
	start int
	size  int
}

func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{data: make([]domain.Frame, capacity)}
}

func (r *Ring) Push(f domain.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := (r.start + r.size) % len(r.data)
	r.data[idx] = f
	if r.size < len(r.data) {
		r.size++
		return
	}
	r.start = (r.start + 1) % len(r.data)
}

// Snapshot returns the buffered frames oldest first.
func (r *Ring) Snapshot() []domain.Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Frame, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.data[(r.start+i)%len(r.data)]
	}
	return out
}

func (r *Ring) Latest() (domain.Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.size == 0 {
		return domain.Frame{}, false
	}
	return r.data[(r.start+r.size-1)%len(r.data)], true
}

func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

func (r *Ring) Cap() int { return len(r.data) }

var _ ports.History = (*Ring)(nil)
