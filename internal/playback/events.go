package playback

import "github.com/llehouerou/antenna/internal/station"

// StateChange is emitted on every state transition.
type StateChange struct {
	Previous State
	Current  State
	Err      string // set when Current is StateError
}

// StationChange is emitted when the current station changes.
//
// Emitted by:
//   - PlayStation/PlayURL: when the station differs from the current one
//   - Stop: when a station was current
//
// A stream failure keeps the station current and does not emit.
type StationChange struct {
	Previous *station.Station
	Current  *station.Station
}

// ErrorEvent is emitted when a stream fails.
type ErrorEvent struct {
	Title string // label of the station that failed
	URL   string
	Err   error
}
