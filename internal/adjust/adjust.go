// Package adjust implements the tonal adjustments applied before filters.
package adjust

import (
	"image"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/example/retouch/internal/pixbuf"
)

// Neutral is the parameter value that leaves an image unchanged.
const Neutral = 100

// Params holds the brightness, contrast and saturation settings. Each value
// is an integer where 100 means "no change".
type Params struct {
	Brightness int
	Contrast   int
	Saturation int
}

// DefaultParams returns the neutral adjustment settings.
func DefaultParams() Params {
	return Params{Brightness: Neutral, Contrast: Neutral, Saturation: Neutral}
}

// IsNeutral reports whether p leaves every pixel unchanged.
func (p Params) IsNeutral() bool {
	return p == DefaultParams()
}

// Apply runs brightness, contrast and saturation in that order and returns a
// new buffer. Neutral parameters produce a plain copy.
func (p Params) Apply(src *image.NRGBA) *image.NRGBA {
	if pixbuf.IsEmpty(src) {
		return nil
	}
	if p.IsNeutral() {
		return pixbuf.Clone(src)
	}
	out := Brightness(src, p.Brightness)
	out = Contrast(out, p.Contrast)
	return Saturation(out, p.Saturation)
}

// Brightness shifts every color channel by value-100.
func Brightness(src *image.NRGBA, value int) *image.NRGBA {
	delta := value - Neutral
	return mapRGB(src, func(r, g, b int) (int, int, int) {
		return r + delta, g + delta, b + delta
	})
}

// Contrast scales channels around mid-gray. Values above 100 stretch the
// range linearly, values below 100 compress it with factor 1/(1-f).
func Contrast(src *image.NRGBA, value int) *image.NRGBA {
	factor := ContrastFactor(value)
	scale := func(c int) int {
		return int((float64(c)-128)*factor + 128)
	}
	return mapRGB(src, func(r, g, b int) (int, int, int) {
		return scale(r), scale(g), scale(b)
	})
}

// ContrastFactor converts a contrast value into the multiplier used around
// mid-gray.
func ContrastFactor(value int) float64 {
	f := float64(value-Neutral) / 100
	if f >= 0 {
		return 1 + f
	}
	return 1 / (1 - f)
}

// Saturation moves each channel toward or away from the pixel's luma.
func Saturation(src *image.NRGBA, value int) *image.NRGBA {
	factor := float64(value) / 100
	return mapRGB(src, func(r, g, b int) (int, int, int) {
		gray := Luma(r, g, b)
		mix := func(c int) int {
			return int(float64(gray) + float64(c-gray)*factor)
		}
		return mix(r), mix(g), mix(b)
	})
}

// Luma returns the integer Rec. 601 luma of a color.
func Luma(r, g, b int) int {
	return (r*299 + g*587 + b*114) / 1000
}

// mapRGB applies fn to every pixel of src, clamping the results and keeping
// alpha. Rows are processed in parallel.
func mapRGB(src *image.NRGBA, fn func(r, g, b int) (int, int, int)) *image.NRGBA {
	if pixbuf.IsEmpty(src) {
		return nil
	}
	dst := pixbuf.Clone(src)
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			row := dst.Pix[y*dst.Stride : y*dst.Stride+4*w]
			for i := 0; i < len(row); i += 4 {
				r, g, b := fn(int(row[i]), int(row[i+1]), int(row[i+2]))
				row[i] = pixbuf.Clamp(r)
				row[i+1] = pixbuf.Clamp(g)
				row[i+2] = pixbuf.Clamp(b)
			}
		}
	})
	return dst
}
