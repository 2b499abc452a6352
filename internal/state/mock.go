// internal/state/mock.go
package state

import (
	"slices"
	"sync"

	"github.com/llehouerou/antenna/internal/station"
)

// Mock is a test double for Manager.
type Mock struct {
	mu      sync.Mutex
	volume  VolumeState
	history []station.Station
	closed  bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{volume: VolumeState{Volume: 1}}
}

func (m *Mock) GetVolume() (*VolumeState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.volume
	return &v, nil
}

func (m *Mock) SaveVolume(volume float64, muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = VolumeState{Volume: volume, Muted: muted}
}

func (m *Mock) RecordPlay(st station.Station) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = slices.DeleteFunc(m.history, func(s station.Station) bool { return s.ID() == st.ID() })
	m.history = slices.Insert(m.history, 0, st)
	return nil
}

func (m *Mock) RecentStations(limit int) ([]station.Station, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 || limit > len(m.history) {
		limit = len(m.history)
	}
	return slices.Clone(m.history[:limit]), nil
}

func (m *Mock) GetLastStation() (*station.Station, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.history) == 0 {
		return nil, nil
	}
	st := m.history[0]
	return &st, nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
