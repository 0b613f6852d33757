package mock

import (
	"io"

	"github.com/sitesmith/sitesmith"
)

// Interface compliance check.
var _ sitesmith.EventStream = (*Stream)(nil)

// Stream is a test double for sitesmith.EventStream.
// NextFn panics when nil to catch missing setup. CloseFn is nil-safe
// (no-op) because test code commonly calls defer stream.Close().
type Stream struct {
	NextFn  func() (sitesmith.StreamEvent, error)
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() (sitesmith.StreamEvent, error) {
	return s.NextFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// StreamOf returns a Stream that yields the given events in order and
// then io.EOF.
func StreamOf(events ...sitesmith.StreamEvent) *Stream {
	i := 0
	return &Stream{
		NextFn: func() (sitesmith.StreamEvent, error) {
			if i >= len(events) {
				return sitesmith.StreamEvent{}, io.EOF
			}
			evt := events[i]
			i++
			return evt, nil
		},
	}
}
