//go:build linux

package mpris

import (
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/events"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/antenna/internal/playback"
)

// Verify Adapter implements playback.NowPlaying at compile time.
var _ playback.NowPlaying = (*Adapter)(nil)

// Adapter publishes the engine's now-playing state over MPRIS and routes
// media keys back to it.
type Adapter struct {
	server *server.Server
	events *events.EventHandler
	player *playerAdapter
	logger *slog.Logger
}

// New creates and starts a new MPRIS adapter.
func New(controls playback.Controls, logger *slog.Logger) (*Adapter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Adapter{
		player: &playerAdapter{controls: controls, status: playback.StatusStopped},
		logger: logger,
	}

	a.server = server.NewServer("antenna", &rootAdapter{}, a.player)
	a.events = events.NewEventHandler(a.server)

	// Start the server in background
	go func() {
		if err := a.server.Listen(); err != nil {
			a.logger.Warn("mpris: server stopped", "err", err)
		}
	}()

	return a, nil
}

// SetNowPlaying implements playback.NowPlaying.
func (a *Adapter) SetNowPlaying(info playback.Info) {
	if a.player.setInfo(&info) {
		a.emit("metadata", a.events.Player.OnTitle)
	}
}

// SetPlaybackStatus implements playback.NowPlaying.
func (a *Adapter) SetPlaybackStatus(status playback.Status) {
	if a.player.setStatus(status) {
		a.emit("status", a.events.Player.OnPlayPause)
	}
}

// ClearNowPlaying implements playback.NowPlaying.
func (a *Adapter) ClearNowPlaying() {
	if a.player.setInfo(nil) {
		a.emit("metadata", a.events.Player.OnTitle)
	}
}

// emit sends a PropertiesChanged signal. Changes made before the bus
// connection is up are dropped; clients read the properties on connect.
func (a *Adapter) emit(what string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Debug("mpris: bus not ready", "property", what)
		}
	}()
	if err := fn(); err != nil {
		a.logger.Debug("mpris: emit failed", "property", what, "err", err)
	}
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - app manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "Antenna", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"http", "https"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter. It answers
// from the last pushed state and never calls into the engine for reads.
type playerAdapter struct {
	controls playback.Controls

	mu     sync.Mutex
	info   *playback.Info
	status playback.Status
}

func (p *playerAdapter) setInfo(info *playback.Info) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.info == nil && info == nil {
		return false
	}
	if p.info != nil && info != nil && *p.info == *info {
		return false
	}
	p.info = info
	return true
}

func (p *playerAdapter) setStatus(status playback.Status) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status == status {
		return false
	}
	p.status = status
	return true
}

func (p *playerAdapter) Next() error {
	return nil // Live streams have no next
}

func (p *playerAdapter) Previous() error {
	return nil
}

func (p *playerAdapter) Pause() error {
	p.controls.Pause()
	return nil
}

func (p *playerAdapter) PlayPause() error {
	p.controls.TogglePlayPause()
	return nil
}

func (p *playerAdapter) Stop() error {
	p.controls.Stop()
	return nil
}

func (p *playerAdapter) Play() error {
	p.controls.Resume()
	return nil
}

func (p *playerAdapter) Seek(_ types.Microseconds) error {
	return nil // Not supported on live streams
}

func (p *playerAdapter) SetPosition(_ string, _ types.Microseconds) error {
	return nil
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch p.status {
	case playback.StatusPlaying:
		return types.PlaybackStatusPlaying, nil
	case playback.StatusPaused:
		return types.PlaybackStatusPaused, nil
	case playback.StatusStopped:
		return types.PlaybackStatusStopped, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.info == nil {
		return types.Metadata{}, nil
	}

	// Live streams have no length; leaving it zero tells clients so.
	return types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(p.info.Title)),
		Title:   p.info.Title,
	}, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return 1.0, nil // Volume is controlled in the app
}

func (p *playerAdapter) SetVolume(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Position() (int64, error) {
	return 0, nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status == playback.StatusPaused, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status == playback.StatusPlaying, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

func formatTrackID(title string) string {
	h := fnv.New64a()
	h.Write([]byte(title))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Station/%x", h.Sum64())
}
