package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
)

var (
	// ErrUnsupportedFormat is returned for streams that are neither MP3 nor FLAC.
	ErrUnsupportedFormat = errors.New("unsupported stream format")
	errStreamEnded       = errors.New("stream ended")
)

// stream is one live stream: an HTTP connection, a decoder goroutine filling
// the PCM queue and the speaker-side streamer draining it.
type stream struct {
	p      *Player
	url    string
	listen Listener
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	live   *liveStreamer
	ctrl   *beep.Ctrl
	volume *effects.Volume
	paused bool
}

func (s *stream) run() {
	defer close(s.done)

	err := s.play()
	if err != nil && s.ctx.Err() == nil {
		s.emit(Event{Signal: SignalFailed, Err: err})
	}
}

// play returns once the stream is over. Every resource it acquired is
// released before it returns.
func (s *stream) play() error {
	defer s.cancel()

	body, contentType, err := s.connect()
	if err != nil {
		return err
	}

	decodeFn := s.p.decode
	if decodeFn == nil {
		decodeFn = decode
	}
	dec, format, err := decodeFn(detectCodec(contentType, s.url), body)
	if err != nil {
		body.Close()
		if errors.Is(err, ErrUnsupportedFormat) && contentType != "" {
			err = fmt.Errorf("%w: %s", err, contentType)
		}
		return err
	}

	need := chunksFor(s.p.prebuffer, format.SampleRate)
	live := newLiveStreamer(max(need*4, need+1), need)
	s.mu.Lock()
	s.live = live
	s.mu.Unlock()

	decErr := make(chan error, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		decErr <- live.fill(s.ctx, dec)
	}()

	defer func() {
		live.stop()
		s.p.detach(s)
		s.cancel()
		dec.Close()
		wg.Wait()
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-decErr:
		return err
	case <-live.prebuffered:
	}

	if err := s.p.out.Init(outputSampleRate); err != nil {
		return fmt.Errorf("init audio output: %w", err)
	}

	var src beep.Streamer = live
	if format.SampleRate != outputSampleRate {
		src = beep.Resample(4, format.SampleRate, outputSampleRate, live)
	}

	s.mu.Lock()
	s.ctrl = &beep.Ctrl{Streamer: src, Paused: s.paused}
	s.volume = &effects.Volume{Streamer: s.ctrl, Base: 2}
	vol := s.volume
	s.mu.Unlock()

	s.p.attach(s)
	s.p.out.Play(vol)
	s.emit(Event{Signal: SignalReady})

	stalled := false
	for {
		select {
		case <-s.ctx.Done():
			return nil
		case err := <-decErr:
			return err
		case <-live.changed:
			now := live.isStalled()
			if now == stalled {
				continue
			}
			stalled = now
			if stalled {
				s.emit(Event{Signal: SignalBuffering})
			} else {
				s.emit(Event{Signal: SignalPlaying})
			}
		}
	}
}

func (s *stream) connect() (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(s.ctx, http.MethodGet, s.url, http.NoBody)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", s.p.userAgent)
	// In-band ICY metadata would corrupt the audio bytes.
	req.Header.Set("Icy-MetaData", "0")

	resp, err := s.p.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("connect: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, "", fmt.Errorf("unexpected status: %s", resp.Status)
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

func (s *stream) emit(e Event) {
	if s.listen != nil {
		s.listen(e)
	}
}

func (s *stream) applyVolume(volume float64, muted bool) {
	s.mu.Lock()
	v := s.volume
	s.mu.Unlock()
	if v == nil {
		return
	}
	s.p.out.Lock()
	v.Volume = volume
	v.Silent = muted
	s.p.out.Unlock()
}

// queued returns the number of decoded chunks waiting for output.
func (s *stream) queued() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live == nil {
		return 0
	}
	return len(s.live.pcm)
}
