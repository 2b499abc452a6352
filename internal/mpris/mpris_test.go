//go:build linux

package mpris

import (
	"strings"
	"testing"

	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/antenna/internal/playback"
)

// recordingControls records commands routed from the bus.
type recordingControls struct {
	calls []string
}

func (c *recordingControls) Resume()          { c.calls = append(c.calls, "resume") }
func (c *recordingControls) Pause()           { c.calls = append(c.calls, "pause") }
func (c *recordingControls) Stop()            { c.calls = append(c.calls, "stop") }
func (c *recordingControls) TogglePlayPause() { c.calls = append(c.calls, "toggle") }

func TestPlayerAdapter_RoutesCommands(t *testing.T) {
	c := &recordingControls{}
	p := &playerAdapter{controls: c}

	_ = p.Play()
	_ = p.Pause()
	_ = p.PlayPause()
	_ = p.Stop()
	_ = p.Next()

	want := "resume,pause,toggle,stop"
	if got := strings.Join(c.calls, ","); got != want {
		t.Errorf("calls = %q, want %q", got, want)
	}
}

func TestPlayerAdapter_PlaybackStatus(t *testing.T) {
	tests := []struct {
		status playback.Status
		want   types.PlaybackStatus
	}{
		{playback.StatusPlaying, types.PlaybackStatusPlaying},
		{playback.StatusPaused, types.PlaybackStatusPaused},
		{playback.StatusStopped, types.PlaybackStatusStopped},
	}
	for _, tt := range tests {
		p := &playerAdapter{}
		p.setStatus(tt.status)
		got, err := p.PlaybackStatus()
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("PlaybackStatus() for %v = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestPlayerAdapter_Metadata(t *testing.T) {
	p := &playerAdapter{}

	meta, err := p.Metadata()
	if err != nil {
		t.Fatal(err)
	}
	if meta.Title != "" {
		t.Errorf("empty adapter Title = %q", meta.Title)
	}

	if !p.setInfo(&playback.Info{Title: "SWR3", IsLiveStream: true}) {
		t.Fatal("setInfo reported no change")
	}
	if p.setInfo(&playback.Info{Title: "SWR3", IsLiveStream: true}) {
		t.Error("identical info reported as a change")
	}

	meta, err = p.Metadata()
	if err != nil {
		t.Fatal(err)
	}
	if meta.Title != "SWR3" {
		t.Errorf("Title = %q, want SWR3", meta.Title)
	}
	if !strings.HasPrefix(string(meta.TrackId), "/org/mpris/MediaPlayer2/Station/") {
		t.Errorf("TrackId = %q", meta.TrackId)
	}

	if !p.setInfo(nil) {
		t.Error("clearing reported no change")
	}
	meta, _ = p.Metadata()
	if meta.Title != "" {
		t.Errorf("Title after clear = %q", meta.Title)
	}
}

func TestPlayerAdapter_Capabilities(t *testing.T) {
	p := &playerAdapter{}
	p.setStatus(playback.StatusPlaying)

	if ok, _ := p.CanPause(); !ok {
		t.Error("CanPause() = false while playing")
	}
	if ok, _ := p.CanPlay(); ok {
		t.Error("CanPlay() = true while playing")
	}
	if ok, _ := p.CanSeek(); ok {
		t.Error("live streams cannot seek")
	}
}

func TestFormatTrackID_Stable(t *testing.T) {
	if formatTrackID("FIP") != formatTrackID("FIP") {
		t.Error("track id not deterministic")
	}
	if formatTrackID("FIP") == formatTrackID("SWR3") {
		t.Error("distinct titles share a track id")
	}
}
