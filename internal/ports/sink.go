package ports

import "github.com/ghalamif/TrackFlow/internal/domain"

type Sink interface {
	WriteFrame(f domain.Frame) error
	Name() string
}
