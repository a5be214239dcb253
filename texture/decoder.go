package texture

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/bmp"
)

// Decoder turns raw file bytes into decoded pixel data. Implementations
// are free to support whatever formats their host cares about; the
// engine only depends on the resulting image.Image.
type Decoder interface {
	Decode(data []byte, ext string) (image.Image, error)
}

// DefaultDecoder supports JPEG and PNG via the standard library's
// registered image codecs, and BMP via golang.org/x/image/bmp (the
// standard library has no BMP decoder of its own, and BMP/DIB are named
// explicitly in the original texture manager's extension list).
type DefaultDecoder struct{}

func (DefaultDecoder) Decode(data []byte, ext string) (image.Image, error) {
	switch ext {
	case ".bmp", ".dib":
		img, err := bmp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("texture: decoding BMP: %w", err)
		}
		return img, nil
	default:
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("texture: decoding %s: %w", ext, err)
		}
		return img, nil
	}
}
