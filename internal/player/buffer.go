package player

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
)

// chunkSamples is the number of frames decoded per queue entry.
const chunkSamples = 1024

// chunksFor returns how many chunks hold d of audio at sr.
func chunksFor(d time.Duration, sr beep.SampleRate) int {
	n := sr.N(d)
	return max(1, (n+chunkSamples-1)/chunkSamples)
}

// liveStreamer decouples network decoding from the speaker callback.
// fill runs on its own goroutine; Stream runs on the speaker's and never
// blocks: when the queue is empty it plays silence and marks the stream
// stalled until need chunks are queued again.
type liveStreamer struct {
	pcm         chan [][2]float64
	need        int
	prebuffered chan struct{}
	changed     chan struct{}

	stalled atomic.Bool
	closed  atomic.Bool

	// owned by the speaker goroutine
	cur [][2]float64
}

func newLiveStreamer(capacity, need int) *liveStreamer {
	return &liveStreamer{
		pcm:         make(chan [][2]float64, capacity),
		need:        need,
		prebuffered: make(chan struct{}),
		changed:     make(chan struct{}, 1),
	}
}

// fill decodes src into the queue until src fails or ctx is done.
// A clean end of a live stream is reported as errStreamEnded.
func (l *liveStreamer) fill(ctx context.Context, src beep.Streamer) error {
	queued := 0
	for {
		if ctx.Err() != nil {
			return nil
		}
		buf := make([][2]float64, chunkSamples)
		n, ok := src.Stream(buf)
		if !ok {
			if err := src.Err(); err != nil {
				return err
			}
			return errStreamEnded
		}
		if n == 0 {
			continue
		}
		select {
		case l.pcm <- buf[:n]:
		case <-ctx.Done():
			return nil
		}
		if queued < l.need {
			queued++
			if queued == l.need {
				close(l.prebuffered)
			}
		}
	}
}

// Stream implements beep.Streamer.
func (l *liveStreamer) Stream(samples [][2]float64) (int, bool) {
	if l.closed.Load() {
		return 0, false
	}
	if l.stalled.Load() && len(l.pcm) < l.need && len(l.cur) == 0 {
		clear(samples)
		return len(samples), true
	}

	n := 0
	for n < len(samples) {
		if len(l.cur) == 0 {
			select {
			case c := <-l.pcm:
				l.cur = c
			default:
				clear(samples[n:])
				l.setStalled(true)
				return len(samples), true
			}
		}
		c := copy(samples[n:], l.cur)
		l.cur = l.cur[c:]
		n += c
	}
	l.setStalled(false)
	return n, true
}

// Err implements beep.Streamer.
func (l *liveStreamer) Err() error { return nil }

func (l *liveStreamer) setStalled(v bool) {
	if l.stalled.Swap(v) == v {
		return
	}
	select {
	case l.changed <- struct{}{}:
	default:
	}
}

func (l *liveStreamer) isStalled() bool { return l.stalled.Load() }

// stop makes the speaker drop this streamer on its next callback.
func (l *liveStreamer) stop() { l.closed.Store(true) }
