// Package transform implements the geometric edits. Every operation returns
// the new buffer together with a Remap that carries annotation positions from
// the old image space into the new one.
package transform

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/example/retouch/internal/pixbuf"
)

var (
	// ErrEmptyImage is returned when the source buffer has no pixels.
	ErrEmptyImage = errors.New("empty image")
	// ErrInvalidGeometry is returned for crop rectangles outside the image
	// and for non-positive resize targets.
	ErrInvalidGeometry = errors.New("invalid geometry")
)

// Remap maps a point from the source image to the result. The boolean is
// false when the point no longer belongs to the image and should be dropped.
type Remap func(p image.Point) (image.Point, bool)

// Result is the outcome of a geometric edit.
type Result struct {
	Image *image.NRGBA
	Remap Remap
}

// Identity leaves points untouched.
func Identity(p image.Point) (image.Point, bool) { return p, true }

// Crop copies rect out of src. rect must be non-empty and lie fully inside
// the image.
func Crop(src *image.NRGBA, rect image.Rectangle) (Result, error) {
	if pixbuf.IsEmpty(src) {
		return Result{}, ErrEmptyImage
	}
	bounds := image.Rect(0, 0, src.Rect.Dx(), src.Rect.Dy())
	if rect.Empty() || !rect.In(bounds) {
		return Result{}, ErrInvalidGeometry
	}
	out := imaging.Crop(pixbuf.Clone(src), rect)
	return Result{
		Image: out,
		Remap: func(p image.Point) (image.Point, bool) {
			if !p.In(rect) {
				return p, false
			}
			return p.Sub(rect.Min), true
		},
	}, nil
}

// Rotate turns src clockwise by degrees. Areas uncovered by the rotation are
// transparent and the canvas grows to fit. Points are rotated about the
// image center and re-anchored at the center of the new canvas.
func Rotate(src *image.NRGBA, degrees float64) (Result, error) {
	if pixbuf.IsEmpty(src) {
		return Result{}, ErrEmptyImage
	}
	// imaging rotates counter-clockwise.
	out := imaging.Rotate(pixbuf.Clone(src), -degrees, color.Transparent)
	ocx, ocy := float64(src.Rect.Dx())/2, float64(src.Rect.Dy())/2
	ncx, ncy := float64(out.Rect.Dx())/2, float64(out.Rect.Dy())/2
	rad := degrees * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return Result{
		Image: out,
		Remap: func(p image.Point) (image.Point, bool) {
			dx := float64(p.X) - ocx
			dy := float64(p.Y) - ocy
			x := ncx + dx*cos - dy*sin
			y := ncy + dx*sin + dy*cos
			return image.Pt(int(math.Round(x)), int(math.Round(y))), true
		},
	}, nil
}

// FlipHorizontal mirrors src left to right.
func FlipHorizontal(src *image.NRGBA) (Result, error) {
	if pixbuf.IsEmpty(src) {
		return Result{}, ErrEmptyImage
	}
	w := src.Rect.Dx()
	return Result{
		Image: imaging.FlipH(pixbuf.Clone(src)),
		Remap: func(p image.Point) (image.Point, bool) {
			return image.Pt(w-p.X, p.Y), true
		},
	}, nil
}

// FlipVertical mirrors src top to bottom.
func FlipVertical(src *image.NRGBA) (Result, error) {
	if pixbuf.IsEmpty(src) {
		return Result{}, ErrEmptyImage
	}
	h := src.Rect.Dy()
	return Result{
		Image: imaging.FlipV(pixbuf.Clone(src)),
		Remap: func(p image.Point) (image.Point, bool) {
			return image.Pt(p.X, h-p.Y), true
		},
	}, nil
}

// Resize scales src to exactly w×h, ignoring the aspect ratio.
func Resize(src *image.NRGBA, w, h int) (Result, error) {
	if pixbuf.IsEmpty(src) {
		return Result{}, ErrEmptyImage
	}
	if w <= 0 || h <= 0 {
		return Result{}, ErrInvalidGeometry
	}
	sx := float64(w) / float64(src.Rect.Dx())
	sy := float64(h) / float64(src.Rect.Dy())
	return Result{
		Image: imaging.Resize(pixbuf.Clone(src), w, h, imaging.Linear),
		Remap: func(p image.Point) (image.Point, bool) {
			return image.Pt(int(float64(p.X)*sx), int(float64(p.Y)*sy)), true
		},
	}, nil
}
