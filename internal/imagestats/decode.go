package imagestats

import (
	"fmt"
	"image"
	"io"
	"os"

	// Registered decoders for the formats accepted by the upload step.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Decode decodes a PNG, JPEG or GIF image. Undecodable input is reported as
// ErrInvalidImage.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return img, format, nil
}

// DecodeFile opens and decodes the image at path.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	img, _, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}
