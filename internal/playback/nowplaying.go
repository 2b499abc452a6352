package playback

// Status is the transport state shown by the host media-control surface.
type Status int

const (
	StatusStopped Status = iota
	StatusPlaying
	StatusPaused
)

func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "Playing"
	case StatusPaused:
		return "Paused"
	default:
		return "Stopped"
	}
}

// MediaType classifies the now-playing item.
type MediaType int

const (
	MediaTypeAudio MediaType = iota
	MediaTypeVideo
)

// Info is the now-playing metadata pushed to the host.
type Info struct {
	Title        string
	IsLiveStream bool
	MediaType    MediaType
}

// NowPlaying is the host media-control surface (MPRIS on Linux).
// The engine calls it after every transition, never while holding its
// state lock, so implementations may query the engine.
type NowPlaying interface {
	SetNowPlaying(info Info)
	SetPlaybackStatus(status Status)
	ClearNowPlaying()
}

// Controls are the commands a host surface may send back. They land on the
// same entry points as the in-app controls.
type Controls interface {
	Resume()
	Pause()
	Stop()
	TogglePlayPause()
}

// statusFor maps an engine state onto the host transport state.
func statusFor(s State) Status {
	switch s {
	case StatePlaying, StateLoading:
		return StatusPlaying
	case StatePaused:
		return StatusPaused
	case StateIdle, StateError:
		return StatusStopped
	}
	return StatusStopped
}

type noopNowPlaying struct{}

func (noopNowPlaying) SetNowPlaying(Info)        {}
func (noopNowPlaying) SetPlaybackStatus(Status) {}
func (noopNowPlaying) ClearNowPlaying()         {}
