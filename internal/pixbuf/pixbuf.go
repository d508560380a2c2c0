// Package pixbuf holds helpers for the editor's pixel buffer representation:
// an *image.NRGBA with a zero origin and straight (non-premultiplied) alpha.
package pixbuf

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// New returns a transparent w×h buffer. Non-positive sizes yield nil.
func New(w, h int) *image.NRGBA {
	if w <= 0 || h <= 0 {
		return nil
	}
	return image.NewNRGBA(image.Rect(0, 0, w, h))
}

// Filled returns a w×h buffer filled with col.
func Filled(w, h int, col color.Color) *image.NRGBA {
	if w <= 0 || h <= 0 {
		return nil
	}
	return imaging.New(w, h, col)
}

// FromImage converts img into a zero-origin NRGBA copy.
func FromImage(img image.Image) *image.NRGBA {
	if img == nil || img.Bounds().Empty() {
		return nil
	}
	return imaging.Clone(img)
}

// Clone returns a deep copy of buf.
func Clone(buf *image.NRGBA) *image.NRGBA {
	if IsEmpty(buf) {
		return nil
	}
	out := image.NewNRGBA(image.Rect(0, 0, buf.Rect.Dx(), buf.Rect.Dy()))
	if buf.Rect.Min == (image.Point{}) && buf.Stride == out.Stride {
		copy(out.Pix, buf.Pix)
		return out
	}
	rowLen := 4 * buf.Rect.Dx()
	for y := 0; y < buf.Rect.Dy(); y++ {
		src := buf.PixOffset(buf.Rect.Min.X, buf.Rect.Min.Y+y)
		copy(out.Pix[y*out.Stride:y*out.Stride+rowLen], buf.Pix[src:src+rowLen])
	}
	return out
}

// IsEmpty reports whether buf holds no pixels.
func IsEmpty(buf *image.NRGBA) bool {
	return buf == nil || buf.Rect.Empty()
}

// Size returns the buffer dimensions, or the zero point for an empty buffer.
func Size(buf *image.NRGBA) image.Point {
	if IsEmpty(buf) {
		return image.Point{}
	}
	return buf.Rect.Size()
}

// Equal reports whether a and b hold identical pixels.
func Equal(a, b *image.NRGBA) bool {
	if IsEmpty(a) || IsEmpty(b) {
		return IsEmpty(a) && IsEmpty(b)
	}
	if a.Rect.Size() != b.Rect.Size() {
		return false
	}
	w, h := a.Rect.Dx(), a.Rect.Dy()
	for y := 0; y < h; y++ {
		ao := a.PixOffset(a.Rect.Min.X, a.Rect.Min.Y+y)
		bo := b.PixOffset(b.Rect.Min.X, b.Rect.Min.Y+y)
		for i := 0; i < 4*w; i++ {
			if a.Pix[ao+i] != b.Pix[bo+i] {
				return false
			}
		}
	}
	return true
}

// Clamp limits v to the 0..255 channel range.
func Clamp(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
