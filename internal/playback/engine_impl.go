// internal/playback/engine_impl.go
package playback

import (
	"context"
	"log/slog"
	"sync"

	"github.com/llehouerou/antenna/internal/player"
	"github.com/llehouerou/antenna/internal/station"
)

// Verify engine implements Engine at compile time.
var _ Engine = (*engine)(nil)

type engine struct {
	player player.Interface
	np     NowPlaying
	logger *slog.Logger

	// opMu serialises control operations. Stream listeners never take it,
	// so a control operation may wait for a stream to close while holding it.
	opMu sync.Mutex

	mu          sync.RWMutex
	state       State
	errMsg      string
	rebuffering bool
	station     *station.Station
	title       string
	url         string
	gen         uint64
	stream      player.Stream
	cancel      context.CancelFunc
	closed      bool

	// npMu orders now-playing pushes.
	npMu sync.Mutex

	subs   []*Subscription
	subsMu sync.RWMutex
}

// Option configures an Engine.
type Option func(*engine)

// WithLogger sets the logger used for transition tracing.
func WithLogger(l *slog.Logger) Option {
	return func(e *engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates a playback engine driving p. np may be nil.
func New(p player.Interface, np NowPlaying, opts ...Option) Engine {
	if np == nil {
		np = noopNowPlaying{}
	}
	e := &engine{
		player: p,
		np:     np,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Play starts url with title as the now-playing label.
func (e *engine) Play(url, title string) error {
	return e.play(url, title, nil)
}

// PlayStation plays st and makes it the current station.
func (e *engine) PlayStation(st station.Station) error {
	return e.play(st.StreamURL(), st.Name, &st)
}

// PlayURL plays a user-entered stream.
func (e *engine) PlayURL(url, name string) (station.Station, error) {
	st := station.Custom(name, url)
	if err := e.PlayStation(st); err != nil {
		return station.Station{}, err
	}
	return st, nil
}

func (e *engine) play(url, title string, st *station.Station) error {
	if url == "" {
		return ErrNoStreamURL
	}

	e.opMu.Lock()
	defer e.opMu.Unlock()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	old, oldCancel := e.detachLocked()
	hadStation := e.title != ""
	e.gen++
	gen := e.gen
	e.setStationLocked(st)
	e.title = title
	e.url = url
	// A rebuffer of the previous stream must not carry over: the new
	// stream's first Ready completes its load.
	e.rebuffering = false
	e.transitionLocked(StateLoading, "")
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.mu.Unlock()

	// The previous stream is fully released before the next one opens.
	e.release(old, oldCancel)
	if hadStation {
		e.npMu.Lock()
		e.np.ClearNowPlaying()
		e.npMu.Unlock()
	}

	e.logger.Debug("playback: opening stream", "url", url, "title", title, "gen", gen)
	s := e.player.Open(ctx, url, func(ev player.Event) {
		e.handleSignal(gen, ev)
	})

	e.mu.Lock()
	// A failure delivered during Open already dropped the stream.
	if e.gen == gen && e.state != StateError {
		e.stream = s
	}
	e.mu.Unlock()

	e.syncNowPlaying()
	return nil
}

// Pause suspends output. Only valid while playing.
func (e *engine) Pause() {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	e.mu.Lock()
	if e.state != StatePlaying {
		e.mu.Unlock()
		return
	}
	s := e.stream
	e.transitionLocked(StatePaused, "")
	e.mu.Unlock()

	if s != nil {
		s.Pause()
	}
	e.syncNowPlaying()
}

// Resume restarts output. Only valid while paused.
func (e *engine) Resume() {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	e.mu.Lock()
	if e.state != StatePaused {
		e.mu.Unlock()
		return
	}
	s := e.stream
	e.transitionLocked(StatePlaying, "")
	e.mu.Unlock()

	if s != nil {
		s.Resume()
	}
	e.syncNowPlaying()
}

// TogglePlayPause pauses when playing and resumes when paused.
func (e *engine) TogglePlayPause() {
	switch e.State() {
	case StatePlaying:
		e.Pause()
	case StatePaused:
		e.Resume()
	case StateIdle, StateLoading, StateError:
	}
}

// Stop releases the stream and returns to Idle. Safe to call in any state.
func (e *engine) Stop() {
	e.opMu.Lock()
	defer e.opMu.Unlock()
	e.stopLocked()
}

func (e *engine) stopLocked() {
	e.mu.Lock()
	s, cancel := e.detachLocked()
	e.gen++
	e.setStationLocked(nil)
	e.title = ""
	e.url = ""
	e.rebuffering = false
	e.transitionLocked(StateIdle, "")
	e.mu.Unlock()

	e.release(s, cancel)
	e.syncNowPlaying()
}

// handleSignal applies a stream signal issued for generation gen.
func (e *engine) handleSignal(gen uint64, ev player.Event) {
	e.mu.Lock()
	if gen != e.gen || e.closed {
		e.mu.Unlock()
		e.logger.Debug("playback: dropping stale signal", "signal", ev.Signal, "gen", gen)
		return
	}

	changed := false
	switch e.state {
	case StateLoading:
		switch ev.Signal {
		case player.SignalReady:
			if !e.rebuffering {
				changed = e.transitionLocked(StatePlaying, "")
			}
		case player.SignalPlaying:
			if e.rebuffering {
				changed = e.transitionLocked(StatePlaying, "")
			}
		case player.SignalFailed:
			changed = e.failLocked(ev.Err)
		case player.SignalBuffering:
		}
	case StatePlaying:
		switch ev.Signal {
		case player.SignalBuffering:
			changed = e.transitionLocked(StateLoading, "")
			e.rebuffering = true
		case player.SignalFailed:
			changed = e.failLocked(ev.Err)
		case player.SignalReady, player.SignalPlaying:
		}
	case StatePaused:
		switch ev.Signal {
		case player.SignalFailed:
			changed = e.failLocked(ev.Err)
		case player.SignalReady, player.SignalBuffering, player.SignalPlaying:
		}
	case StateIdle, StateError:
		// Nothing overrides an explicit stop or a terminal failure.
	}
	e.mu.Unlock()

	if changed {
		e.syncNowPlaying()
	}
}

// failLocked moves to StateError. The transport has already released the
// stream, so the reference is dropped without Close.
func (e *engine) failLocked(err error) bool {
	msg := "stream failed"
	if err != nil {
		msg = err.Error()
	}
	if e.cancel != nil {
		e.cancel()
	}
	e.stream = nil
	e.cancel = nil
	e.transitionLocked(StateError, msg)

	ev := ErrorEvent{Title: e.title, URL: e.url, Err: err}
	e.subsMu.RLock()
	for _, sub := range e.subs {
		sub.sendError(ev)
	}
	e.subsMu.RUnlock()

	e.logger.Warn("playback: stream failed", "title", e.title, "url", e.url, "err", err)
	return true
}

// transitionLocked sets the state and notifies subscribers. Events are sent
// under e.mu so subscribers observe transitions in order.
func (e *engine) transitionLocked(next State, errMsg string) bool {
	prev := e.state
	e.errMsg = errMsg
	if next != StateLoading {
		e.rebuffering = false
	}
	if prev == next {
		return false
	}
	e.state = next
	e.logger.Debug("playback: transition", "from", prev, "to", next, "gen", e.gen)

	ev := StateChange{Previous: prev, Current: next, Err: errMsg}
	e.subsMu.RLock()
	for _, sub := range e.subs {
		sub.sendState(ev)
	}
	e.subsMu.RUnlock()
	return true
}

func (e *engine) setStationLocked(st *station.Station) {
	prev := e.station
	e.station = st
	if sameStation(prev, st) {
		return
	}
	ev := StationChange{Previous: prev, Current: st}
	e.subsMu.RLock()
	for _, sub := range e.subs {
		sub.sendStation(ev)
	}
	e.subsMu.RUnlock()
}

func sameStation(a, b *station.Station) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID() == b.ID()
}

// detachLocked takes ownership of the current stream away from the engine.
func (e *engine) detachLocked() (player.Stream, context.CancelFunc) {
	s, cancel := e.stream, e.cancel
	e.stream = nil
	e.cancel = nil
	return s, cancel
}

// release closes a detached stream. Must not be called with e.mu held: the
// stream's listener may be waiting for it.
func (e *engine) release(s player.Stream, cancel context.CancelFunc) {
	if cancel != nil {
		cancel()
	}
	if s == nil {
		return
	}
	if err := s.Close(); err != nil {
		e.logger.Debug("playback: close stream", "err", err)
	}
}

// syncNowPlaying pushes the latest state to the host surface. Concurrent
// calls are ordered by npMu and each one reads the state afresh, so the
// last push always reflects the current state.
func (e *engine) syncNowPlaying() {
	e.npMu.Lock()
	defer e.npMu.Unlock()

	e.mu.RLock()
	state, title := e.state, e.title
	e.mu.RUnlock()

	switch state {
	case StateIdle, StateError:
		e.np.ClearNowPlaying()
	case StateLoading, StatePlaying, StatePaused:
		e.np.SetNowPlaying(Info{Title: title, IsLiveStream: true, MediaType: MediaTypeAudio})
	}
	e.np.SetPlaybackStatus(statusFor(state))
}

// State returns the current playback state.
func (e *engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Snapshot returns the state together with the current station.
func (e *engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Snapshot{
		State:   e.state,
		Err:     e.errMsg,
		Station: copyStation(e.station),
		Title:   e.title,
	}
}

// CurrentStation returns a copy of the current station, or nil if none.
func (e *engine) CurrentStation() *station.Station {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return copyStation(e.station)
}

func copyStation(st *station.Station) *station.Station {
	if st == nil {
		return nil
	}
	c := *st
	return &c
}

func (e *engine) Volume() float64         { return e.player.Volume() }
func (e *engine) SetVolume(level float64) { e.player.SetVolume(level) }
func (e *engine) Muted() bool             { return e.player.Muted() }
func (e *engine) SetMuted(muted bool)     { e.player.SetMuted(muted) }

// Subscribe creates a new event subscription.
func (e *engine) Subscribe() *Subscription {
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	sub := newSubscription()
	e.subs = append(e.subs, sub)
	return sub
}

// Close stops playback and shuts down the engine.
func (e *engine) Close() error {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	e.mu.RLock()
	closed := e.closed
	e.mu.RUnlock()
	if closed {
		return nil
	}

	e.stopLocked()

	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()

	e.subsMu.Lock()
	for _, sub := range e.subs {
		sub.close()
	}
	e.subs = nil
	e.subsMu.Unlock()

	return nil
}
