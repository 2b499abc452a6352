//go:build !linux

package mpris

import (
	"log/slog"
	"sync"

	"github.com/llehouerou/antenna/internal/playback"
)

// Adapter keeps the last published state on platforms without MPRIS.
type Adapter struct {
	mu     sync.Mutex
	info   *playback.Info
	status playback.Status
}

// New returns a no-op adapter on non-Linux platforms.
func New(_ playback.Controls, _ *slog.Logger) (*Adapter, error) {
	return &Adapter{}, nil
}

func (a *Adapter) SetNowPlaying(info playback.Info) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.info = &info
}

func (a *Adapter) SetPlaybackStatus(status playback.Status) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.status = status
}

func (a *Adapter) ClearNowPlaying() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.info = nil
}

// Close is a no-op on non-Linux platforms.
func (a *Adapter) Close() error {
	return nil
}
