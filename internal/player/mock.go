// internal/player/mock.go
package player

import (
	"context"
	"sync"
)

// Mock is a test double for Player. Streams never produce signals on their
// own; tests drive them through MockStream.
type Mock struct {
	mu      sync.Mutex
	streams []*MockStream
	volume  float64
	muted   bool
}

// NewMock creates a new mock player for testing.
func NewMock() *Mock {
	return &Mock{volume: 1}
}

// MockStream is a stream opened by Mock.
type MockStream struct {
	URL string
	Ctx context.Context

	mu     sync.Mutex
	listen Listener
	paused bool
	closed bool
}

func (m *Mock) Open(ctx context.Context, url string, listen Listener) Stream {
	s := &MockStream{URL: url, Ctx: ctx, listen: listen}
	m.mu.Lock()
	m.streams = append(m.streams, s)
	m.mu.Unlock()
	return s
}

func (m *Mock) SetVolume(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = min(max(level, 0), 1)
}

func (m *Mock) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

func (m *Mock) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
}

func (m *Mock) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

// Test helpers

// Streams returns every stream opened so far, oldest first.
func (m *Mock) Streams() []*MockStream {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*MockStream(nil), m.streams...)
}

// Last returns the most recently opened stream, or nil.
func (m *Mock) Last() *MockStream {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.streams) == 0 {
		return nil
	}
	return m.streams[len(m.streams)-1]
}

// OpenCount returns how many streams are not closed yet.
func (m *Mock) OpenCount() int {
	n := 0
	for _, s := range m.Streams() {
		if !s.Closed() {
			n++
		}
	}
	return n
}

func (s *MockStream) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = true
}

func (s *MockStream) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = false
}

func (s *MockStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Emit delivers e to the listener synchronously, even after Close, so tests
// can simulate late signals from a superseded stream.
func (s *MockStream) Emit(e Event) {
	s.mu.Lock()
	listen := s.listen
	s.mu.Unlock()
	if listen != nil {
		listen(e)
	}
}

func (s *MockStream) Ready()     { s.Emit(Event{Signal: SignalReady}) }
func (s *MockStream) Buffering() { s.Emit(Event{Signal: SignalBuffering}) }
func (s *MockStream) Playing()   { s.Emit(Event{Signal: SignalPlaying}) }
// Fail releases the stream and reports the failure, like the real
// transport does.
func (s *MockStream) Fail(err error) {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.Emit(Event{Signal: SignalFailed, Err: err})
}

func (s *MockStream) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

func (s *MockStream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
