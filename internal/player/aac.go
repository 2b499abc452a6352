package player

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/go-faad2"
)

const (
	adtsHeaderLen    = 7
	adtsCRCHeaderLen = 9
	// aacFrameSamples is the per-channel output of one AAC-LC frame.
	aacFrameSamples = 1024
	// maxADTSResync bounds how many bytes are skipped looking for a frame
	// header before the stream is declared undecodable.
	maxADTSResync = 64 << 10
	// maxBadFrames is how many consecutive frames may fail to decode before
	// the stream fails. Live streams occasionally carry a damaged frame.
	maxBadFrames     = 8
	maxPrimingFrames = 4
)

// ADTS sampling frequency index table (ISO/IEC 14496-3).
var adtsSampleRates = [...]int{
	96000, 88200, 64000, 48000, 44100, 32000, 24000, 22050, 16000, 12000, 11025, 8000, 7350,
}

var errADTSSync = errors.New("aac: no ADTS frame header found")

// adtsHeader is the fixed and variable part of an ADTS frame header.
type adtsHeader struct {
	profile      byte // audio object type minus one
	freqIndex    byte
	channels     byte
	frameLength  int // header included
	headerLength int
}

// parseADTSHeader decodes the header at the start of b, which must hold at
// least adtsHeaderLen bytes.
func parseADTSHeader(b []byte) (adtsHeader, bool) {
	// 12-bit syncword, then layer which is always 0.
	if b[0] != 0xFF || b[1]&0xF6 != 0xF0 {
		return adtsHeader{}, false
	}
	h := adtsHeader{
		profile:     b[2] >> 6,
		freqIndex:   (b[2] >> 2) & 0x0F,
		channels:    (b[2]&0x01)<<2 | b[3]>>6,
		frameLength: int(b[3]&0x03)<<11 | int(b[4])<<3 | int(b[5])>>5,
	}
	h.headerLength = adtsHeaderLen
	if b[1]&0x01 == 0 {
		h.headerLength = adtsCRCHeaderLen
	}
	if int(h.freqIndex) >= len(adtsSampleRates) || h.channels == 0 || h.frameLength <= h.headerLength {
		return adtsHeader{}, false
	}
	return h, true
}

func (h adtsHeader) sampleRate() int {
	return adtsSampleRates[h.freqIndex]
}

// audioSpecificConfig builds the two-byte decoder config the header implies.
func (h adtsHeader) audioSpecificConfig() []byte {
	objectType := h.profile + 1
	return []byte{
		objectType<<3 | h.freqIndex>>1,
		(h.freqIndex&0x01)<<7 | h.channels<<3,
	}
}

// adtsReader splits a byte stream into ADTS frames, resynchronising on
// garbage between frames.
type adtsReader struct {
	r *bufio.Reader
}

func newADTSReader(r io.Reader) *adtsReader {
	return &adtsReader{r: bufio.NewReaderSize(r, 16<<10)}
}

// next returns the header and raw payload of the next frame.
func (a *adtsReader) next() (adtsHeader, []byte, error) {
	for skipped := 0; ; skipped++ {
		b, err := a.r.Peek(adtsHeaderLen)
		if err != nil {
			return adtsHeader{}, nil, err
		}
		h, ok := parseADTSHeader(b)
		if !ok {
			if skipped >= maxADTSResync {
				return adtsHeader{}, nil, errADTSSync
			}
			if _, err := a.r.Discard(1); err != nil {
				return adtsHeader{}, nil, err
			}
			continue
		}
		frame := make([]byte, h.frameLength)
		if _, err := io.ReadFull(a.r, frame); err != nil {
			return adtsHeader{}, nil, err
		}
		return h, frame[h.headerLength:], nil
	}
}

// aacFrameDecoder turns raw AAC frames into interleaved 16-bit PCM.
type aacFrameDecoder interface {
	decode(frame []byte) ([]int16, error)
	close()
}

type openAACFunc func(asc []byte) (aacFrameDecoder, error)

type faadDecoder struct {
	d *faad2.Decoder
}

func openFaad(asc []byte) (aacFrameDecoder, error) {
	d, err := faad2.NewDecoder(context.Background())
	if err != nil {
		return nil, err
	}
	if err := d.Init(context.Background(), asc); err != nil {
		d.Close(context.Background())
		return nil, err
	}
	return faadDecoder{d: d}, nil
}

func (f faadDecoder) decode(frame []byte) ([]int16, error) {
	return f.d.Decode(context.Background(), frame)
}

func (f faadDecoder) close() {
	f.d.Close(context.Background())
}

// aacDecoder plays an ADTS stream (audio/aac, audio/aacp) through faad2.
type aacDecoder struct {
	frames   *adtsReader
	dec      aacFrameDecoder
	closer   io.Closer
	channels int
	pending  [][2]float64
	bad      int
	err      error
}

// decodeAAC decodes an ADTS stream with faad2.
func decodeAAC(rc io.ReadCloser) (beep.StreamCloser, beep.Format, error) {
	return decodeADTS(rc, openFaad)
}

func decodeADTS(rc io.ReadCloser, open openAACFunc) (beep.StreamCloser, beep.Format, error) {
	frames := newADTSReader(rc)
	h, payload, err := frames.next()
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("aac: read first frame: %w", err)
	}
	dec, err := open(h.audioSpecificConfig())
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("aac: init decoder: %w", err)
	}

	// HE-AAC signals SBR and parametric stereo implicitly, so the real
	// output rate and layout are only known once a frame is decoded.
	var pcm []int16
	for i := 0; len(pcm) == 0; i++ {
		if i == maxPrimingFrames {
			dec.close()
			return nil, beep.Format{}, errors.New("aac: decoder produced no audio")
		}
		if i > 0 {
			if _, payload, err = frames.next(); err != nil {
				dec.close()
				return nil, beep.Format{}, fmt.Errorf("aac: %w", err)
			}
		}
		if pcm, err = dec.decode(payload); err != nil {
			dec.close()
			return nil, beep.Format{}, fmt.Errorf("aac: decode: %w", err)
		}
	}

	channels, perChannel := outputLayout(int(h.channels), len(pcm))
	rate := h.sampleRate()
	if perChannel == 2*aacFrameSamples {
		rate *= 2
	}

	d := &aacDecoder{
		frames:   frames,
		dec:      dec,
		closer:   rc,
		channels: channels,
		pending:  interleavedToStereo(pcm, channels),
	}
	format := beep.Format{
		SampleRate:  beep.SampleRate(rate),
		NumChannels: 2,
		Precision:   2,
	}
	return d, format, nil
}

// outputLayout infers the decoder's output channel count and per-channel
// frame size from the header layout and the decoded sample count. A mono
// header whose frame decodes to four times the LC size is HE-AACv2 with
// parametric stereo.
func outputLayout(headerChannels, samples int) (channels, perChannel int) {
	channels = headerChannels
	if channels == 1 && samples == 4*aacFrameSamples {
		channels = 2
	}
	return channels, samples / channels
}

// interleavedToStereo converts interleaved PCM to stereo frames. Mono is
// duplicated; for multichannel layouts (C, L, R, ...) the front pair is kept.
func interleavedToStereo(pcm []int16, channels int) [][2]float64 {
	frames := make([][2]float64, len(pcm)/channels)
	for i := range frames {
		base := i * channels
		switch {
		case channels == 1:
			v := float64(pcm[base]) / 32768.0
			frames[i] = [2]float64{v, v}
		case channels == 2:
			frames[i] = [2]float64{float64(pcm[base]) / 32768.0, float64(pcm[base+1]) / 32768.0}
		default:
			frames[i] = [2]float64{float64(pcm[base+1]) / 32768.0, float64(pcm[base+2]) / 32768.0}
		}
	}
	return frames
}

// Stream fills samples from decoded frames.
func (d *aacDecoder) Stream(samples [][2]float64) (n int, ok bool) {
	if d.err != nil {
		return 0, false
	}
	for n < len(samples) {
		if len(d.pending) > 0 {
			c := copy(samples[n:], d.pending)
			d.pending = d.pending[c:]
			n += c
			continue
		}
		_, payload, err := d.frames.next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				d.err = fmt.Errorf("aac: %w", err)
			}
			return n, n > 0
		}
		pcm, err := d.dec.decode(payload)
		if err != nil {
			d.bad++
			if d.bad > maxBadFrames {
				d.err = fmt.Errorf("aac: decode: %w", err)
				return n, n > 0
			}
			continue
		}
		d.bad = 0
		d.pending = interleavedToStereo(pcm, d.channels)
	}
	return n, true
}

// Err returns any error that occurred during streaming.
func (d *aacDecoder) Err() error {
	return d.err
}

// Close releases the decoder and the network body.
func (d *aacDecoder) Close() error {
	d.dec.close()
	return d.closer.Close()
}
