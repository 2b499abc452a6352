// internal/app/interfaces.go
package app

import (
	"context"

	"github.com/llehouerou/antenna/internal/artwork"
	"github.com/llehouerou/antenna/internal/notify"
	"github.com/llehouerou/antenna/internal/radiobrowser"
	"github.com/llehouerou/antenna/internal/station"
)

// Directory is the station directory used by the Discover and Search tabs.
type Directory interface {
	Search(ctx context.Context, f radiobrowser.Filters) ([]station.Station, error)
	Tags(ctx context.Context, limit int) ([]station.Tag, error)
	Countries(ctx context.Context) ([]station.Country, error)
	TopVoted(ctx context.Context, limit int) ([]station.Station, error)
	TopClicked(ctx context.Context, limit int) ([]station.Station, error)
	ReportClick(ctx context.Context, stationUUID string) error
}

// Favorites is the user's ordered favorites list.
type Favorites interface {
	Add(st station.Station)
	Toggle(st station.Station) bool
	Move(from, to int) bool
	Contains(id string) bool
	List() []station.Station
}

// Artwork warms the favicon cache so notifications can show the icon.
type Artwork interface {
	Fetch(ctx context.Context, url string) (*artwork.Artwork, bool)
}

// Announcer shows desktop notifications.
type Announcer interface {
	NowPlaying(st station.Station)
	Dismiss()
}

// Verify the concrete types satisfy the interfaces at compile time.
var (
	_ Directory = (*radiobrowser.Client)(nil)
	_ Artwork   = (*artwork.Cache)(nil)
	_ Announcer = (*notify.Announcer)(nil)
)
