package ports

import "github.com/ghalamif/TrackFlow/internal/domain"

// History is the bounded rolling window of recent frames kept for consumers.
type History interface {
	Push(f domain.Frame)
	Snapshot() []domain.Frame
	Latest() (domain.Frame, bool)
	Len() int
}
