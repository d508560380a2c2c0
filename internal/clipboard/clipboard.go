// Package clipboard moves images and color codes between the editor and the
// desktop clipboard.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/example/retouch/internal/codec"
)

// ErrNoImage is returned when the clipboard holds no image data.
var ErrNoImage = errors.New("clipboard does not contain image data")

// System is the desktop clipboard.
type System struct{}

// ReadImage decodes the PNG image currently on the clipboard.
func (System) ReadImage() (*image.NRGBA, error) { return ReadImage() }

// WriteImage places img on the clipboard as PNG.
func (System) WriteImage(img image.Image) error { return WriteImage(img) }

// WriteText places text on the clipboard.
func (System) WriteText(text string) error { return WriteText(text) }

// WriteImage encodes img as PNG and publishes it to the clipboard.
func WriteImage(img image.Image) error {
	var buf bytes.Buffer
	if err := codec.Encode(&buf, img, codec.PNG); err != nil {
		return err
	}
	return writePNG(buf.Bytes())
}

// ReadImage retrieves PNG data from the clipboard and decodes it.
func ReadImage() (*image.NRGBA, error) {
	data, err := readPNG()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrNoImage
	}
	img, err := codec.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("clipboard image: %w", err)
	}
	return img, nil
}

// WriteText writes UTF-8 text to the clipboard.
func WriteText(text string) error {
	return writeText([]byte(text))
}
