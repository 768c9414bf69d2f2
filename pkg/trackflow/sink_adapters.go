package trackflow

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/ghalamif/TrackFlow/internal/adapters/export"
	"github.com/ghalamif/TrackFlow/internal/domain"
)

// ErrChannelSinkClosed is returned when a channel sink is written to after being closed.
var ErrChannelSinkClosed = errors.New("trackflow: channel sink closed")

// FrameHandler is invoked with every frame produced by a tick.
type FrameHandler func(Frame) error

// NewCallbackSink adapts a FrameHandler into a full Sink implementation so callers
// can plug arbitrary functions without defining structs.
func NewCallbackSink(name string, fn FrameHandler) Sink {
	if name == "" {
		name = "callback"
	}
	return &callbackSink{name: name, fn: fn}
}

// NewChannelSink exposes frames via a channel; it returns the sink, the read-only channel,
// and a close function that the caller should invoke during shutdown. Writes block
// until the consumer receives or the sink is closed.
func NewChannelSink(name string, buffer int) (Sink, <-chan Frame, func()) {
	if name == "" {
		name = "channel"
	}
	if buffer < 0 {
		buffer = 0
	}
	ch := make(chan Frame, buffer)
	s := &channelSink{
		name:   name,
		ch:     ch,
		closed: make(chan struct{}),
	}
	return s, ch, func() { s.close() }
}

// NewCSVSink streams one sample row per frame to w.
func NewCSVSink(w io.Writer) Sink {
	return export.NewCSVSink(w)
}

type callbackSink struct {
	name string
	fn   FrameHandler
}

func (s *callbackSink) WriteFrame(f domain.Frame) error {
	if s.fn == nil {
		return fmt.Errorf("callback sink %q: nil handler", s.name)
	}
	return s.fn(copyFrame(f))
}

func (s *callbackSink) Name() string { return s.name }

type channelSink struct {
	name   string
	ch     chan Frame
	closed chan struct{}
	once   sync.Once
	mu     sync.RWMutex
}

func (s *channelSink) WriteFrame(f domain.Frame) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	select {
	case <-s.closed:
		return ErrChannelSinkClosed
	default:
	}

	select {
	case <-s.closed:
		return ErrChannelSinkClosed
	case s.ch <- copyFrame(f):
		return nil
	}
}

func (s *channelSink) Name() string { return s.name }

// Close lets Monitor.Shutdown release the channel.
func (s *channelSink) Close() error {
	s.close()
	return nil
}

func (s *channelSink) close() {
	s.once.Do(func() {
		close(s.closed)
		// Wait for in-flight writers before closing the data channel.
		s.mu.Lock()
		close(s.ch)
		s.mu.Unlock()
	})
}

// copyFrame detaches the verdict slice so consumers cannot mutate history.
func copyFrame(f domain.Frame) domain.Frame {
	if len(f.Verdicts) > 0 {
		f.Verdicts = append([]domain.ComplianceVerdict(nil), f.Verdicts...)
	}
	return f
}
