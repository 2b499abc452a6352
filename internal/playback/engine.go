package playback

import (
	"errors"

	"github.com/llehouerou/antenna/internal/station"
)

var (
	// ErrNoStreamURL is returned when asked to play a station without a URL.
	ErrNoStreamURL = errors.New("station has no stream url")
	// ErrClosed is returned by Play after Close.
	ErrClosed = errors.New("playback engine closed")
)

// Engine owns zero or one live stream and exposes transport controls
// independent of how the stream is played.
type Engine interface {
	Controls

	// Play tears down the current stream and starts acquiring url.
	Play(url, title string) error
	PlayStation(st station.Station) error
	// PlayURL plays a user-entered stream and returns the station created
	// for it.
	PlayURL(url, name string) (station.Station, error)

	// State queries
	State() State
	Snapshot() Snapshot
	CurrentStation() *station.Station

	// Volume control, applied to current and future streams
	Volume() float64
	SetVolume(level float64)
	Muted() bool
	SetMuted(muted bool)

	// Event subscription
	Subscribe() *Subscription

	// Lifecycle
	Close() error
}

// Snapshot is a consistent view of the engine.
type Snapshot struct {
	State   State
	Err     string           // message of the last failure, set in StateError
	Station *station.Station // nil when idle or playing a bare URL
	Title   string
}
