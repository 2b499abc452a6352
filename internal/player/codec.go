package player

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
)

type codec int

const (
	codecUnknown codec = iota
	codecMP3
	codecFLAC
	codecAAC
)

func (c codec) String() string {
	switch c {
	case codecMP3:
		return "MP3"
	case codecFLAC:
		return "FLAC"
	case codecAAC:
		return "AAC"
	default:
		return "unknown"
	}
}

// detectCodec picks the decoder from the response Content-Type, falling back
// to the URL extension for servers that send a generic type.
func detectCodec(contentType, rawURL string) codec {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	switch strings.ToLower(mediaType) {
	case "audio/mpeg", "audio/mp3", "audio/mpeg3", "audio/x-mpeg", "audio/x-mp3":
		return codecMP3
	case "audio/flac", "audio/x-flac":
		return codecFLAC
	case "audio/aac", "audio/aacp", "audio/x-aac", "audio/x-aacp", "audio/aac-adts":
		return codecAAC
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return codecUnknown
	}
	switch strings.ToLower(path.Ext(u.Path)) {
	case ".mp3":
		return codecMP3
	case ".flac":
		return codecFLAC
	case ".aac":
		return codecAAC
	}
	return codecUnknown
}

func decode(c codec, rc io.ReadCloser) (beep.StreamCloser, beep.Format, error) {
	switch c {
	case codecMP3:
		return decodeMP3(rc)
	case codecFLAC:
		s, format, err := flac.Decode(rc)
		if err != nil {
			return nil, beep.Format{}, err
		}
		return &closeAll{Streamer: s, closers: []io.Closer{s, rc}}, format, nil
	case codecAAC:
		return decodeAAC(rc)
	case codecUnknown:
	}
	return nil, beep.Format{}, ErrUnsupportedFormat
}

// closeAll closes a decoder together with the body it reads from.
type closeAll struct {
	beep.Streamer
	closers []io.Closer
}

func (c *closeAll) Close() error {
	var errs []error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close decoder: %w", errors.Join(errs...))
	}
	return nil
}
