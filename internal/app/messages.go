// Package app is the Bubble Tea driver wiring the playback engine, the
// station directory and the favorites into a terminal UI.
package app

import (
	"github.com/llehouerou/antenna/internal/errmsg"
	"github.com/llehouerou/antenna/internal/playback"
	"github.com/llehouerou/antenna/internal/station"
)

// Message category interfaces for type-based routing in Update().

// PlaybackMessage is implemented by messages coming from the engine.
type PlaybackMessage interface {
	playbackMessage()
}

// DirectoryMessage is implemented by directory and history results.
type DirectoryMessage interface {
	directoryMessage()
}

// StateChangedMsg wraps an engine state transition.
type StateChangedMsg playback.StateChange

func (StateChangedMsg) playbackMessage() {}

// StationChangedMsg wraps an engine station change.
type StationChangedMsg playback.StationChange

func (StationChangedMsg) playbackMessage() {}

// PlaybackErrorMsg wraps a stream failure.
type PlaybackErrorMsg playback.ErrorEvent

func (PlaybackErrorMsg) playbackMessage() {}

// ServiceClosedMsg is sent when the engine subscription ends.
type ServiceClosedMsg struct{}

func (ServiceClosedMsg) playbackMessage() {}

// PlayResultMsg reports the outcome of a play request.
type PlayResultMsg struct {
	Station       station.Station
	FromDirectory bool
	Err           error
}

func (PlayResultMsg) playbackMessage() {}

// DiscoverLoadedMsg carries the top-voted and top-clicked lists.
type DiscoverLoadedMsg struct {
	Voted   []station.Station
	Clicked []station.Station
	Err     error
}

func (DiscoverLoadedMsg) directoryMessage() {}

// SearchResultMsg carries the stations matching Query.
type SearchResultMsg struct {
	Query    string
	Stations []station.Station
	Err      error
}

func (SearchResultMsg) directoryMessage() {}

// SuggestionsLoadedMsg carries popular tags and countries for the Search
// tab. Op names the request that failed when Err is set.
type SuggestionsLoadedMsg struct {
	Tags      []station.Tag
	Countries []station.Country
	Op        errmsg.Op
	Err       error
}

func (SuggestionsLoadedMsg) directoryMessage() {}

// RecentLoadedMsg carries the play history, newest first.
type RecentLoadedMsg struct {
	Stations []station.Station
	Err      error
}

func (RecentLoadedMsg) directoryMessage() {}

// FavoritesSaveFailedMsg reports that the favorites file was not written.
type FavoritesSaveFailedMsg struct {
	Err error
}

// StderrMsg carries a line written by a native library.
type StderrMsg string
