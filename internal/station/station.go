// Package station defines the radio station records exchanged with the
// radio-browser.info directory and persisted in favorites.
package station

import (
	"strings"

	"github.com/google/uuid"
)

// Station is a named internet audio stream with its directory metadata.
// The JSON layout matches the radio-browser.info station objects.
type Station struct {
	UUID        string `json:"stationuuid"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	URLResolved string `json:"url_resolved"`
	Homepage    string `json:"homepage,omitempty"`
	Favicon     string `json:"favicon,omitempty"`
	CountryCode string `json:"countrycode"`
	State       string `json:"state,omitempty"`
	Tags        string `json:"tags"`
	Codec       string `json:"codec,omitempty"`
	Bitrate     int    `json:"bitrate"`
	Votes       int    `json:"votes"`
	ClickCount  int    `json:"clickcount"`
	LastCheckOK int    `json:"lastcheckok"`
}

// Custom creates a station for a user-provided stream URL.
// An empty name falls back to the URL.
func Custom(name, url string) Station {
	if strings.TrimSpace(name) == "" {
		name = url
	}
	return Station{
		UUID:        uuid.NewString(),
		Name:        name,
		URL:         url,
		URLResolved: url,
		LastCheckOK: 1,
	}
}

// ID returns the station identifier.
func (s Station) ID() string { return s.UUID }

// StreamURL returns the URL to open for playback, preferring the resolved one.
func (s Station) StreamURL() string {
	if s.URLResolved != "" {
		return s.URLResolved
	}
	return s.URL
}

// FaviconURL returns the icon URL, or "" when the station has none.
func (s Station) FaviconURL() string {
	return strings.TrimSpace(s.Favicon)
}

// TagList splits the comma-joined tags, trimming whitespace and dropping
// empty entries.
func (s Station) TagList() []string {
	if s.Tags == "" {
		return nil
	}
	parts := strings.Split(s.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// IsOnline reports whether the last directory check succeeded.
func (s Station) IsOnline() bool {
	return s.LastCheckOK == 1
}

// Country is a directory country entry.
type Country struct {
	Name         string `json:"name"`
	ISOCode      string `json:"iso_3166_1"`
	StationCount int    `json:"stationcount"`
}

// Tag is a directory tag entry.
type Tag struct {
	Name         string `json:"name"`
	StationCount int    `json:"stationcount"`
}
