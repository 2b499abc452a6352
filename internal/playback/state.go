// internal/playback/state.go
package playback

// State represents the playback state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePlaying
	StatePaused
	// StateError is terminal until the next Play. The message is carried by
	// Snapshot.Err.
	StateError
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateLoading:
		return "Loading"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateError:
		return "Error"
	default:
		return "Unknown"
	}
}

// IsPlaying reports whether audio is being played.
func (s State) IsPlaying() bool {
	return s == StatePlaying
}

// IsLoading reports whether a stream is being acquired or rebuffered.
func (s State) IsLoading() bool {
	return s == StateLoading
}

// CanPlay reports whether a play control makes sense in this state.
func (s State) CanPlay() bool {
	switch s {
	case StateIdle, StatePaused, StateError:
		return true
	default:
		return false
	}
}

// IsActive returns true if a stream is held (loading, playing or paused).
func (s State) IsActive() bool {
	return s == StateLoading || s == StatePlaying || s == StatePaused
}
