// Package rezitest provides transport.Renderer test doubles: a
// call-recording mock and a pure no-op stand-in.
package rezitest

import (
	"sync"

	"github.com/rezi-tui/rezi/transport"
)

// MockRenderer is a recording renderer, handed to a transport through
// AsRenderer: every Render call is appended to Frames (a copy of the bytes,
// since the transport may reuse its buffer after the call returns).
// Thread-safe.
type MockRenderer struct {
	mu      sync.Mutex
	Frames  [][]byte
	nextErr error
}

// NewMockRenderer creates an empty recording renderer.
func NewMockRenderer() *MockRenderer {
	return &MockRenderer{}
}

// Render has transport.Renderer's signature and records a copy of frame.
func (m *MockRenderer) Render(frame []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := make([]byte, len(frame))
	copy(cp, frame)
	m.Frames = append(m.Frames, cp)

	if m.nextErr != nil {
		err := m.nextErr
		m.nextErr = nil
		return err
	}
	return nil
}

// FailNext makes the next Render call (and only that call) return err.
func (m *MockRenderer) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextErr = err
}

// Count returns the number of frames rendered so far.
func (m *MockRenderer) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Frames)
}

// Last returns the most recently rendered frame, or nil if none.
func (m *MockRenderer) Last() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Frames) == 0 {
		return nil
	}
	return m.Frames[len(m.Frames)-1]
}

// Reset clears recorded frames, for reuse across test phases.
func (m *MockRenderer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Frames = nil
}

// AsRenderer adapts m to the transport.Renderer function signature.
func (m *MockRenderer) AsRenderer() transport.Renderer {
	return m.Render
}

// NullRenderer discards every frame and always reports success. Useful when
// a test only exercises ack plumbing or event flow and has no interest in
// rendered bytes.
func NullRenderer(frame []byte) error {
	return nil
}
