// internal/state/interface.go
package state

import (
	"github.com/llehouerou/antenna/internal/station"
)

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	GetVolume() (*VolumeState, error)
	SaveVolume(volume float64, muted bool)
	RecordPlay(st station.Station) error
	RecentStations(limit int) ([]station.Station, error)
	GetLastStation() (*station.Station, error)
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
