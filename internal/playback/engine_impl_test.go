// internal/playback/engine_impl_test.go
package playback

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/llehouerou/antenna/internal/player"
	"github.com/llehouerou/antenna/internal/station"
)

const (
	testURLA = "https://stream.example/a"
	testURLB = "https://stream.example/b"
)

// recordingNowPlaying records what the engine publishes to the host.
type recordingNowPlaying struct {
	mu     sync.Mutex
	info   *Info
	status Status
	clears int
}

func (r *recordingNowPlaying) SetNowPlaying(info Info) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.info = &info
}

func (r *recordingNowPlaying) SetPlaybackStatus(status Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = status
}

func (r *recordingNowPlaying) ClearNowPlaying() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.info = nil
	r.clears++
}

func (r *recordingNowPlaying) current() (*Info, Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.info, r.status
}

func newTestEngine(t *testing.T) (Engine, *player.Mock, *recordingNowPlaying) {
	t.Helper()
	p := player.NewMock()
	np := &recordingNowPlaying{}
	e := New(p, np)
	t.Cleanup(func() { _ = e.Close() })
	return e, p, np
}

func assertState(t *testing.T, e Engine, want State) {
	t.Helper()
	if got := e.State(); got != want {
		t.Fatalf("State() = %v, want %v", got, want)
	}
}

func assertNowPlayingCleared(t *testing.T, np *recordingNowPlaying) {
	t.Helper()
	info, status := np.current()
	if info != nil {
		t.Errorf("now playing = %+v, want cleared", *info)
	}
	if status != StatusStopped {
		t.Errorf("status = %v, want Stopped", status)
	}
}

// driveTo puts a fresh engine into the given state.
func driveTo(t *testing.T, e Engine, p *player.Mock, s State) {
	t.Helper()
	switch s {
	case StateIdle:
		return
	case StateLoading:
		mustPlay(t, e, testURLA, "Station A")
	case StatePlaying:
		mustPlay(t, e, testURLA, "Station A")
		p.Last().Ready()
	case StatePaused:
		mustPlay(t, e, testURLA, "Station A")
		p.Last().Ready()
		e.Pause()
	case StateError:
		mustPlay(t, e, testURLA, "Station A")
		p.Last().Fail(errors.New("connection refused"))
	}
	assertState(t, e, s)
}

func mustPlay(t *testing.T, e Engine, url, title string) {
	t.Helper()
	if err := e.Play(url, title); err != nil {
		t.Fatalf("Play(%q) error = %v", url, err)
	}
}

func TestNew_StartsIdle(t *testing.T) {
	e, _, _ := newTestEngine(t)

	snap := e.Snapshot()
	if snap.State != StateIdle {
		t.Errorf("State = %v, want Idle", snap.State)
	}
	if snap.Station != nil || snap.Title != "" {
		t.Errorf("Snapshot = %+v, want no station", snap)
	}
}

func TestEngine_PlayThenStop(t *testing.T) {
	e, p, np := newTestEngine(t)

	mustPlay(t, e, testURLA, "Station A")
	assertState(t, e, StateLoading)

	s := p.Last()
	if s == nil || s.URL != testURLA {
		t.Fatalf("opened stream = %+v, want %s", s, testURLA)
	}

	s.Ready()
	assertState(t, e, StatePlaying)

	info, status := np.current()
	if info == nil || info.Title != "Station A" {
		t.Fatalf("now playing = %+v, want Station A", info)
	}
	if !info.IsLiveStream || info.MediaType != MediaTypeAudio {
		t.Errorf("now playing = %+v, want live audio", *info)
	}
	if status != StatusPlaying {
		t.Errorf("status = %v, want Playing", status)
	}

	e.Stop()
	assertState(t, e, StateIdle)
	assertNowPlayingCleared(t, np)
	if !s.Closed() {
		t.Error("stream not closed by Stop")
	}
	if e.Snapshot().Title != "" {
		t.Error("Stop should clear the station label")
	}
}

func TestEngine_Play_PublishesWhileLoading(t *testing.T) {
	e, _, np := newTestEngine(t)

	mustPlay(t, e, testURLA, "Station A")

	info, status := np.current()
	if info == nil || info.Title != "Station A" {
		t.Fatalf("now playing = %+v, want Station A", info)
	}
	if status != StatusPlaying {
		t.Errorf("status = %v, want Playing", status)
	}
}

func TestEngine_PlayBackToBack_OnlyLastIsObservable(t *testing.T) {
	e, p, np := newTestEngine(t)

	mustPlay(t, e, testURLA, "Station A")
	a := p.Last()
	mustPlay(t, e, testURLB, "Station B")
	b := p.Last()

	if !a.Closed() {
		t.Fatal("first stream still open after second Play")
	}
	if p.OpenCount() != 1 {
		t.Fatalf("OpenCount() = %d, want 1", p.OpenCount())
	}

	// A's late signals are discarded.
	a.Ready()
	assertState(t, e, StateLoading)
	a.Fail(errors.New("late failure"))
	assertState(t, e, StateLoading)

	b.Ready()
	assertState(t, e, StatePlaying)
	if info, _ := np.current(); info == nil || info.Title != "Station B" {
		t.Errorf("now playing = %+v, want Station B", info)
	}
}

func TestEngine_PlayWhilePlaying_DiscardsOldFailure(t *testing.T) {
	e, p, _ := newTestEngine(t)
	driveTo(t, e, p, StatePlaying)
	a := p.Last()

	mustPlay(t, e, testURLB, "Station B")
	b := p.Last()
	a.Fail(errors.New("socket closed"))
	assertState(t, e, StateLoading)

	b.Fail(errors.New("404 Not Found"))
	snap := e.Snapshot()
	if snap.State != StateError {
		t.Fatalf("State = %v, want Error", snap.State)
	}
	if snap.Err != "404 Not Found" {
		t.Errorf("Err = %q, want B's failure", snap.Err)
	}
}

func TestEngine_Stop_IdempotentFromAnyState(t *testing.T) {
	for _, s := range []State{StateIdle, StateLoading, StatePlaying, StatePaused, StateError} {
		t.Run(s.String(), func(t *testing.T) {
			e, p, np := newTestEngine(t)
			driveTo(t, e, p, s)

			for range 3 {
				e.Stop()
				assertState(t, e, StateIdle)
				if e.CurrentStation() != nil || e.Snapshot().Title != "" {
					t.Error("Stop left a current station")
				}
				assertNowPlayingCleared(t, np)
			}
			if p.OpenCount() != 0 {
				t.Errorf("OpenCount() = %d, want 0", p.OpenCount())
			}
		})
	}
}

func TestEngine_TogglePlayPause(t *testing.T) {
	tests := []struct {
		from State
		want State
	}{
		{StatePlaying, StatePaused},
		{StatePaused, StatePlaying},
		{StateIdle, StateIdle},
		{StateLoading, StateLoading},
		{StateError, StateError},
	}
	for _, tt := range tests {
		t.Run(tt.from.String(), func(t *testing.T) {
			e, p, _ := newTestEngine(t)
			driveTo(t, e, p, tt.from)

			e.TogglePlayPause()
			assertState(t, e, tt.want)
		})
	}
}

func TestEngine_PauseResume_DriveStream(t *testing.T) {
	e, p, np := newTestEngine(t)
	driveTo(t, e, p, StatePlaying)
	s := p.Last()

	e.Pause()
	if !s.Paused() {
		t.Error("stream not paused")
	}
	if _, status := np.current(); status != StatusPaused {
		t.Errorf("status = %v, want Paused", status)
	}

	e.Resume()
	assertState(t, e, StatePlaying)
	if s.Paused() {
		t.Error("stream still paused after Resume")
	}
	if _, status := np.current(); status != StatusPlaying {
		t.Errorf("status = %v, want Playing", status)
	}
}

func TestEngine_PauseResume_NoOpOutsideValidStates(t *testing.T) {
	e, p, _ := newTestEngine(t)
	driveTo(t, e, p, StateLoading)

	e.Pause()
	assertState(t, e, StateLoading)
	if p.Last().Paused() {
		t.Error("Pause while loading reached the stream")
	}

	e.Resume()
	assertState(t, e, StateLoading)
}

func TestEngine_Rebuffering(t *testing.T) {
	e, p, np := newTestEngine(t)
	driveTo(t, e, p, StatePlaying)
	s := p.Last()

	s.Buffering()
	assertState(t, e, StateLoading)
	if _, status := np.current(); status != StatusPlaying {
		t.Errorf("status while rebuffering = %v, want Playing", status)
	}

	// Ready belongs to the initial load only.
	s.Ready()
	assertState(t, e, StateLoading)

	s.Playing()
	assertState(t, e, StatePlaying)
}

func TestEngine_PlayDuringRebuffer_ReadyCompletesLoad(t *testing.T) {
	e, p, np := newTestEngine(t)
	driveTo(t, e, p, StatePlaying)

	p.Last().Buffering()
	assertState(t, e, StateLoading)

	mustPlay(t, e, testURLB, "Station B")
	assertState(t, e, StateLoading)

	p.Last().Ready()
	assertState(t, e, StatePlaying)
	if info, _ := np.current(); info == nil || info.Title != "Station B" {
		t.Errorf("now playing = %+v, want Station B", info)
	}
}

func TestEngine_StopDuringRebuffer_NextPlayLoadsNormally(t *testing.T) {
	e, p, _ := newTestEngine(t)
	driveTo(t, e, p, StatePlaying)
	p.Last().Buffering()

	e.Stop()
	assertState(t, e, StateIdle)

	mustPlay(t, e, testURLB, "Station B")
	p.Last().Ready()
	assertState(t, e, StatePlaying)
}

func TestEngine_InitialLoad_IgnoresPlayingSignal(t *testing.T) {
	e, p, _ := newTestEngine(t)
	driveTo(t, e, p, StateLoading)

	p.Last().Playing()
	assertState(t, e, StateLoading)

	p.Last().Buffering()
	assertState(t, e, StateLoading)

	p.Last().Ready()
	assertState(t, e, StatePlaying)
}

func TestEngine_StraySignalsAfterStop(t *testing.T) {
	e, p, _ := newTestEngine(t)
	driveTo(t, e, p, StatePlaying)
	s := p.Last()

	e.Stop()
	s.Buffering()
	s.Playing()
	s.Ready()
	s.Fail(errors.New("late"))

	assertState(t, e, StateIdle)
}

func TestEngine_Failure(t *testing.T) {
	e, p, np := newTestEngine(t)
	sub := e.Subscribe()
	mustPlay(t, e, testURLA, "Station A")
	s := p.Last()

	s.Fail(errors.New("unexpected status: 503 Service Unavailable"))

	snap := e.Snapshot()
	if snap.State != StateError {
		t.Fatalf("State = %v, want Error", snap.State)
	}
	if snap.Err != "unexpected status: 503 Service Unavailable" {
		t.Errorf("Err = %q", snap.Err)
	}
	if snap.Title != "Station A" {
		t.Errorf("Title = %q, want the failed station kept", snap.Title)
	}
	assertNowPlayingCleared(t, np)
	if s.Ctx.Err() == nil {
		t.Error("failed stream context not cancelled")
	}

	select {
	case ev := <-sub.Error:
		if ev.Title != "Station A" || ev.URL != testURLA || ev.Err == nil {
			t.Errorf("ErrorEvent = %+v", ev)
		}
	default:
		t.Fatal("no ErrorEvent emitted")
	}

	// Terminal until the next Play: no auto-retry, resume ignored.
	e.Resume()
	assertState(t, e, StateError)
	if got := len(p.Streams()); got != 1 {
		t.Errorf("streams opened = %d, want 1", got)
	}

	mustPlay(t, e, testURLA, "Station A")
	assertState(t, e, StateLoading)
	if e.Snapshot().Err != "" {
		t.Error("Play should clear the previous error")
	}
}

func TestEngine_Failure_NilErrorHasMessage(t *testing.T) {
	e, p, _ := newTestEngine(t)
	driveTo(t, e, p, StatePlaying)

	p.Last().Emit(player.Event{Signal: player.SignalFailed})

	if snap := e.Snapshot(); snap.State != StateError || snap.Err == "" {
		t.Errorf("Snapshot = %+v, want Error with a message", snap)
	}
}

// eagerFailPlayer fails streams before Open returns.
type eagerFailPlayer struct {
	*player.Mock
}

func (p eagerFailPlayer) Open(ctx context.Context, url string, listen player.Listener) player.Stream {
	s := p.Mock.Open(ctx, url, listen)
	listen(player.Event{Signal: player.SignalFailed, Err: errors.New("dns lookup failed")})
	return s
}

func TestEngine_FailureDuringOpen(t *testing.T) {
	m := player.NewMock()
	e := New(eagerFailPlayer{m}, nil)
	defer e.Close()

	mustPlay(t, e, testURLA, "Station A")

	if snap := e.Snapshot(); snap.State != StateError || snap.Err != "dns lookup failed" {
		t.Errorf("Snapshot = %+v, want Error(dns lookup failed)", snap)
	}

	// The dropped stream is not handed to Stop.
	e.Stop()
	if m.Last().Closed() {
		t.Error("Stop closed a stream the engine no longer owns")
	}
}

func TestEngine_PlayStation(t *testing.T) {
	e, p, _ := newTestEngine(t)
	sub := e.Subscribe()

	st := station.Station{
		UUID:        "960e57c5-0601-11e8-ae97-52543be04c81",
		Name:        "SWR3",
		URL:         "http://swr-swr3-live.cast.addradio.de/swr/swr3/live/mp3/128/stream.mp3",
		URLResolved: "https://liveradio.swr.de/sw282p3/swr3/play.mp3",
	}
	if err := e.PlayStation(st); err != nil {
		t.Fatalf("PlayStation() error = %v", err)
	}

	if p.Last().URL != st.URLResolved {
		t.Errorf("opened %q, want resolved URL", p.Last().URL)
	}
	cur := e.CurrentStation()
	if cur == nil || cur.ID() != st.UUID {
		t.Fatalf("CurrentStation() = %+v, want SWR3", cur)
	}

	select {
	case ev := <-sub.StationChanged:
		if ev.Previous != nil || ev.Current == nil || ev.Current.Name != "SWR3" {
			t.Errorf("StationChanged = %+v", ev)
		}
	default:
		t.Fatal("no StationChanged emitted")
	}

	// Replaying the same station does not emit again.
	if err := e.PlayStation(st); err != nil {
		t.Fatal(err)
	}
	select {
	case ev := <-sub.StationChanged:
		t.Errorf("unexpected StationChanged %+v", ev)
	default:
	}
}

func TestEngine_PlayStation_NoURL(t *testing.T) {
	e, p, _ := newTestEngine(t)
	driveTo(t, e, p, StatePlaying)

	err := e.PlayStation(station.Station{UUID: "x", Name: "Broken"})
	if !errors.Is(err, ErrNoStreamURL) {
		t.Fatalf("error = %v, want ErrNoStreamURL", err)
	}
	assertState(t, e, StatePlaying)
	if p.Last().Closed() {
		t.Error("rejected play tore down the current stream")
	}
}

func TestEngine_PlayURL(t *testing.T) {
	e, p, _ := newTestEngine(t)

	st, err := e.PlayURL("http://icecast.example/jazz.mp3", "")
	if err != nil {
		t.Fatalf("PlayURL() error = %v", err)
	}
	if st.UUID == "" || st.Name != "http://icecast.example/jazz.mp3" {
		t.Errorf("station = %+v", st)
	}
	if p.Last().URL != "http://icecast.example/jazz.mp3" {
		t.Errorf("opened %q", p.Last().URL)
	}
	if cur := e.CurrentStation(); cur == nil || cur.ID() != st.ID() {
		t.Errorf("CurrentStation() = %+v, want %s", cur, st.ID())
	}
}

func TestEngine_StateEventsInOrder(t *testing.T) {
	e, p, _ := newTestEngine(t)
	sub := e.Subscribe()

	mustPlay(t, e, testURLA, "Station A")
	p.Last().Ready()
	e.Pause()
	e.Stop()

	want := []StateChange{
		{Previous: StateIdle, Current: StateLoading},
		{Previous: StateLoading, Current: StatePlaying},
		{Previous: StatePlaying, Current: StatePaused},
		{Previous: StatePaused, Current: StateIdle},
	}
	for i, w := range want {
		select {
		case got := <-sub.StateChanged:
			if got != w {
				t.Errorf("event %d = %+v, want %+v", i, got, w)
			}
		default:
			t.Fatalf("missing event %d (%+v)", i, w)
		}
	}
}

func TestEngine_Volume_DelegatesToPlayer(t *testing.T) {
	e, p, _ := newTestEngine(t)

	e.SetVolume(0.3)
	if p.Volume() != 0.3 || e.Volume() != 0.3 {
		t.Errorf("Volume() = %v, want 0.3", e.Volume())
	}

	e.SetMuted(true)
	if !p.Muted() || !e.Muted() {
		t.Error("SetMuted(true) not applied")
	}
}

func TestEngine_Close(t *testing.T) {
	p := player.NewMock()
	e := New(p, nil)
	sub := e.Subscribe()
	mustPlay(t, e, testURLA, "Station A")

	if err := e.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	<-sub.Done

	if p.OpenCount() != 0 {
		t.Errorf("OpenCount() = %d after Close, want 0", p.OpenCount())
	}
	if err := e.Play(testURLB, "B"); !errors.Is(err, ErrClosed) {
		t.Errorf("Play after Close error = %v, want ErrClosed", err)
	}
	if err := e.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestEngine_ConcurrentControls_NeverTwoStreams(t *testing.T) {
	e, p, _ := newTestEngine(t)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 20 {
				switch (i + j) % 4 {
				case 0:
					_ = e.Play(testURLA, "A")
				case 1:
					_ = e.Play(testURLB, "B")
				case 2:
					if s := p.Last(); s != nil {
						s.Ready()
					}
				case 3:
					e.TogglePlayPause()
				}
				if n := p.OpenCount(); n > 1 {
					t.Errorf("OpenCount() = %d, want at most 1", n)
				}
			}
		}()
	}
	wg.Wait()

	e.Stop()
	assertState(t, e, StateIdle)
	if p.OpenCount() != 0 {
		t.Errorf("OpenCount() = %d after Stop, want 0", p.OpenCount())
	}
}
