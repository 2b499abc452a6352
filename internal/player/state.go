// internal/player/state.go
package player

// Signal is what a stream reports to its listener.
//
// A stream emits, in order:
//
//	Ready ──▶ (Buffering ──▶ Playing)* ──▶ Failed?
//
// Ready is emitted once, after the prebuffer is filled and audio output
// started. Buffering and Playing alternate while the output runs dry and
// recovers. Failed is terminal: the stream has already released its
// resources when it is delivered. A closed stream emits nothing more.
// Pausing is driven by the caller through Stream.Pause and is not signalled.
type Signal int

const (
	SignalReady Signal = iota
	SignalFailed
	SignalBuffering
	SignalPlaying
)

// String returns the signal name for debugging.
func (s Signal) String() string {
	switch s {
	case SignalReady:
		return "Ready"
	case SignalFailed:
		return "Failed"
	case SignalBuffering:
		return "Buffering"
	case SignalPlaying:
		return "Playing"
	default:
		return "Unknown"
	}
}

// IsTerminal returns true if no signal follows this one.
func (s Signal) IsTerminal() bool {
	return s == SignalFailed
}
