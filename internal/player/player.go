package player

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

const (
	// outputSampleRate is the rate the speaker is initialised with; streams
	// at other rates are resampled.
	outputSampleRate = beep.SampleRate(44100)

	defaultPrebuffer = 500 * time.Millisecond
	defaultUserAgent = "Antenna/0.1"
)

// output is the audio sink. The speaker package in production.
type output interface {
	Init(sr beep.SampleRate) error
	Play(s beep.Streamer)
	Lock()
	Unlock()
}

type speakerOutput struct {
	once sync.Once
	err  error
}

func (o *speakerOutput) Init(sr beep.SampleRate) error {
	o.once.Do(func() {
		o.err = speaker.Init(sr, sr.N(time.Second/10))
	})
	return o.err
}

func (o *speakerOutput) Play(s beep.Streamer) { speaker.Play(s) }
func (o *speakerOutput) Lock()                { speaker.Lock() }
func (o *speakerOutput) Unlock()              { speaker.Unlock() }

// Player opens live HTTP audio streams and plays them through the speaker.
type Player struct {
	client    *http.Client
	userAgent string
	prebuffer time.Duration
	out       output
	decode    decodeFunc

	mu          sync.Mutex
	volumeLevel float64
	muted       bool
	current     *stream
}

// Option configures a Player.
type Option func(*Player)

// WithUserAgent sets the User-Agent sent to stream servers.
func WithUserAgent(ua string) Option {
	return func(p *Player) {
		if ua != "" {
			p.userAgent = ua
		}
	}
}

// WithPrebuffer sets how much audio is decoded before output starts.
func WithPrebuffer(d time.Duration) Option {
	return func(p *Player) {
		if d > 0 {
			p.prebuffer = d
		}
	}
}

// WithHTTPClient replaces the client used to open streams.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Player) {
		if c != nil {
			p.client = c
		}
	}
}

func withOutput(o output) Option {
	return func(p *Player) { p.out = o }
}

type decodeFunc func(c codec, rc io.ReadCloser) (beep.StreamCloser, beep.Format, error)

func withDecoder(fn decodeFunc) Option {
	return func(p *Player) { p.decode = fn }
}

// New creates a Player.
func New(opts ...Option) *Player {
	p := &Player{
		// No total timeout: live streams never end on their own.
		client: &http.Client{Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DisableCompression:    true,
			ResponseHeaderTimeout: 15 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		}},
		userAgent:   defaultUserAgent,
		prebuffer:   defaultPrebuffer,
		out:         &speakerOutput{},
		volumeLevel: 1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Open starts acquiring the stream at url.
func (p *Player) Open(ctx context.Context, url string, listen Listener) Stream {
	ctx, cancel := context.WithCancel(ctx)
	s := &stream{
		p:      p,
		url:    url,
		listen: listen,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.run()
	return s
}

// attach makes s the stream volume changes apply to.
func (p *Player) attach(s *stream) {
	p.mu.Lock()
	p.current = s
	level, muted := p.volumeLevel, p.muted
	p.mu.Unlock()
	s.applyVolume(levelToVolume(level), muted)
}

func (p *Player) detach(s *stream) {
	p.mu.Lock()
	if p.current == s {
		p.current = nil
	}
	p.mu.Unlock()
}
