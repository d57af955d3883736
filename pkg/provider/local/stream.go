package local

import (
	"sync"

	"github.com/rhuss/lokal/pkg/inference"
	"github.com/rhuss/lokal/pkg/provider"
)

// Stream is a single-consumer iterator over raw engine outputs. It does
// no transformation into the unified response shape; consumers handle the
// engine's native output format. Once exhausted it stays exhausted.
type Stream struct {
	mu      sync.Mutex
	outputs []inference.RequestOutput
	pos     int
}

// Ensure Stream implements provider.OutputStream at compile time.
var _ provider.OutputStream = (*Stream)(nil)

func newStream(outputs []inference.RequestOutput) *Stream {
	return &Stream{outputs: outputs}
}

// Next returns the next raw output, or nil and false when the stream is
// exhausted. Each output is yielded exactly once.
func (s *Stream) Next() (*inference.RequestOutput, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos >= len(s.outputs) {
		return nil, false
	}
	out := &s.outputs[s.pos]
	s.pos++
	return out, true
}
