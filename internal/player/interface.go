// internal/player/interface.go
package player

import "context"

// Interface defines the stream transport contract for dependency injection and testing.
type Interface interface {
	// Open starts acquiring the stream at url in the background and returns
	// immediately. Progress is reported to listen until the stream fails or
	// is closed. Cancelling ctx has the same effect as Close.
	Open(ctx context.Context, url string, listen Listener) Stream
	SetVolume(level float64)
	Volume() float64
	SetMuted(muted bool)
	Muted() bool
}

// Stream is a handle on one live stream opened by Interface.Open.
type Stream interface {
	Pause()
	Resume()
	// Close stops the stream and waits until its network connection and
	// decoder are released. Safe to call more than once.
	Close() error
}

// Listener receives stream signals. It is never called from the audio
// output callback.
type Listener func(Event)

// Event is a signal emitted by a stream.
type Event struct {
	Signal Signal
	Err    error // set for SignalFailed
}

// Verify Player implements Interface at compile time.
var _ Interface = (*Player)(nil)
