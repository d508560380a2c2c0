// Package codec reads and writes image files for the editor.
package codec

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/example/retouch/internal/pixbuf"
)

// Format identifies an encoding.
type Format = imaging.Format

const (
	PNG  = imaging.PNG
	JPEG = imaging.JPEG
	GIF  = imaging.GIF
	TIFF = imaging.TIFF
	BMP  = imaging.BMP
)

// DefaultJPEGQuality is used when saving JPEG files.
const DefaultJPEGQuality = 92

// ErrUnsupportedFormat is returned for file extensions with no encoder.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// DecodeError wraps a failure to read an image.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("decode image: %v", e.Err)
	}
	return fmt.Sprintf("decode %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError wraps a failure to write an image.
type EncodeError struct {
	Target string
	Err    error
}

func (e *EncodeError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("encode image: %v", e.Err)
	}
	return fmt.Sprintf("encode %s: %v", e.Target, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// Decode reads an image from r with EXIF orientation applied.
func Decode(r io.Reader) (*image.NRGBA, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	buf := pixbuf.FromImage(img)
	if buf == nil {
		return nil, &DecodeError{Err: errors.New("image has no pixels")}
	}
	return buf, nil
}

// Load decodes the file at path with EXIF orientation applied.
func Load(path string) (*image.NRGBA, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &DecodeError{Source: path, Err: err}
	}
	buf := pixbuf.FromImage(img)
	if buf == nil {
		return nil, &DecodeError{Source: path, Err: errors.New("image has no pixels")}
	}
	return buf, nil
}

// FormatFromPath picks the encoder from the file extension.
func FormatFromPath(path string) (Format, error) {
	f, err := imaging.FormatFromFilename(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	return f, nil
}

// ParseFormat resolves a format name such as "png" or "jpg".
func ParseFormat(name string) (Format, error) {
	f, err := imaging.FormatFromExtension(strings.TrimPrefix(strings.ToLower(name), "."))
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
	return f, nil
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	if img == nil || img.Bounds().Empty() {
		return &EncodeError{Err: errors.New("image has no pixels")}
	}
	if err := imaging.Encode(w, img, f, imaging.JPEGQuality(DefaultJPEGQuality)); err != nil {
		return &EncodeError{Err: err}
	}
	return nil
}

// Save writes img to path, choosing the format from the extension. Missing
// parent directories are created. The image is encoded into a temporary
// file beside path and renamed over it, so a failed save leaves any
// existing file untouched.
func Save(path string, img image.Image) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return &EncodeError{Target: path, Err: err}
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &EncodeError{Target: path, Err: err}
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &EncodeError{Target: path, Err: err}
	}
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	if err := Encode(tmp, img, f); err != nil {
		var ee *EncodeError
		if errors.As(err, &ee) {
			err = ee.Err
		}
		return &EncodeError{Target: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &EncodeError{Target: path, Err: err}
	}
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return &EncodeError{Target: path, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &EncodeError{Target: path, Err: err}
	}
	committed = true
	return nil
}
