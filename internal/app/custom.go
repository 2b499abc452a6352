// internal/app/custom.go
package app

import (
	"errors"
	"net/url"
	"strings"

	"github.com/llehouerou/antenna/internal/errmsg"
	"github.com/llehouerou/antenna/internal/station"
)

var (
	errStreamURL   = errors.New("enter an http or https stream URL")
	errStationName = errors.New("station name is required")
)

// parseStreamURL accepts absolute http and https URLs with a host.
func parseStreamURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", errStreamURL
	}
	return raw, nil
}

// addStation stores a user-entered station at the end of the favorites and
// selects it there.
func (m *Model) addStation(name, rawURL string) {
	streamURL, err := parseStreamURL(rawURL)
	if err != nil {
		m.status = errmsg.FormatWith(errmsg.OpAddStation, name, err)
		return
	}
	st := station.Custom(name, streamURL)
	m.deps.Favorites.Add(st)
	m.refreshFavorites()
	m.tab = TabFavorites
	m.lists[TabFavorites].jumpEnd()
	m.status = "Added " + st.Name + " to favorites"
}
