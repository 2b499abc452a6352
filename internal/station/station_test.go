package station

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStation_StreamURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		resolved string
		want     string
	}{
		{"prefers resolved", "http://a/pls", "http://a/stream", "http://a/stream"},
		{"falls back to url", "http://a/stream", "", "http://a/stream"},
		{"both empty", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Station{URL: tt.url, URLResolved: tt.resolved}
			if got := s.StreamURL(); got != tt.want {
				t.Errorf("StreamURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStation_TagList(t *testing.T) {
	tests := []struct {
		tags string
		want []string
	}{
		{"", nil},
		{"jazz", []string{"jazz"}},
		{"jazz, smooth jazz ,lounge", []string{"jazz", "smooth jazz", "lounge"}},
		{"rock,,  ,pop", []string{"rock", "pop"}},
	}
	for _, tt := range tests {
		got := Station{Tags: tt.tags}.TagList()
		if !slices.Equal(got, tt.want) {
			t.Errorf("TagList(%q) = %v, want %v", tt.tags, got, tt.want)
		}
	}
}

func TestStation_IsOnline(t *testing.T) {
	if !(Station{LastCheckOK: 1}).IsOnline() {
		t.Error("LastCheckOK=1 should be online")
	}
	if (Station{LastCheckOK: 0}).IsOnline() {
		t.Error("LastCheckOK=0 should be offline")
	}
}

func TestCustom(t *testing.T) {
	a := Custom("My Radio", "http://example.com/live.mp3")
	b := Custom("My Radio", "http://example.com/live.mp3")

	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID(), "custom stations get fresh identifiers")
	assert.Equal(t, "My Radio", a.Name)
	assert.Equal(t, "http://example.com/live.mp3", a.StreamURL())
	assert.True(t, a.IsOnline())
	assert.Empty(t, a.Tags)
	assert.Empty(t, a.FaviconURL())
	assert.Zero(t, a.Bitrate)
}

func TestCustom_EmptyNameUsesURL(t *testing.T) {
	s := Custom("  ", "http://example.com/live")
	assert.Equal(t, "http://example.com/live", s.Name)
}

func TestStation_DecodeDirectoryJSON(t *testing.T) {
	const payload = `{
		"stationuuid": "96062a7b-0601-11e8-ae97-52543be04c81",
		"name": "SWR3",
		"url": "http://swr-swr3-live.cast.addradio.de/swr/swr3/live/mp3/128/stream.mp3",
		"url_resolved": "https://liveradio.swr.de/sw282p3/swr3/play.mp3",
		"homepage": "https://www.swr3.de/",
		"favicon": "https://www.swr3.de/favicon.ico",
		"countrycode": "DE",
		"state": "Baden-Württemberg",
		"tags": "pop,rock",
		"codec": "MP3",
		"bitrate": 128,
		"votes": 1520,
		"clickcount": 342,
		"lastcheckok": 1
	}`

	var s Station
	require.NoError(t, json.Unmarshal([]byte(payload), &s))

	assert.Equal(t, "96062a7b-0601-11e8-ae97-52543be04c81", s.ID())
	assert.Equal(t, "https://liveradio.swr.de/sw282p3/swr3/play.mp3", s.StreamURL())
	assert.Equal(t, []string{"pop", "rock"}, s.TagList())
	assert.Equal(t, 128, s.Bitrate)
	assert.True(t, s.IsOnline())
}
