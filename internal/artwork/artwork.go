// Package artwork resolves station icons through a memory tier, a disk tier
// and the network, in that order.
package artwork

import (
	"bytes"
	"image"

	// Registered decoders for station icons.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/nfnt/resize"
)

// Artwork is a decoded station icon.
type Artwork struct {
	Image  image.Image
	Format string // decoder name: png, jpeg, gif, bmp or webp
	Data   []byte // raw bytes as served
}

// decodeArtwork decodes data into an Artwork. Returns nil for anything the
// registered decoders cannot read.
func decodeArtwork(data []byte) *Artwork {
	if len(data) == 0 {
		return nil
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	return &Artwork{Image: img, Format: format, Data: data}
}

// Thumbnail scales the icon to fit in width x height, keeping its aspect
// ratio. Icons already small enough are returned as is.
func (a *Artwork) Thumbnail(width, height uint) image.Image {
	return resize.Thumbnail(width, height, a.Image, resize.Lanczos3)
}
