// Package filter implements the whole-image filters applied after the tonal
// adjustments.
package filter

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/example/retouch/internal/adjust"
	"github.com/example/retouch/internal/pixbuf"
)

// Kind selects a filter.
type Kind int

const (
	None Kind = iota
	Grayscale
	Sepia
	Blur
	Sharpen
	Emboss
	Invert
	Warm
	Cool
	Vintage
)

// DefaultIntensity is the intensity used until the user picks another one.
const DefaultIntensity = 100

var kindNames = []string{
	None:      "none",
	Grayscale: "grayscale",
	Sepia:     "sepia",
	Blur:      "blur",
	Sharpen:   "sharpen",
	Emboss:    "emboss",
	Invert:    "invert",
	Warm:      "warm",
	Cool:      "cool",
	Vintage:   "vintage",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Kinds lists every filter in menu order.
func Kinds() []Kind {
	out := make([]Kind, len(kindNames))
	for i := range kindNames {
		out[i] = Kind(i)
	}
	return out
}

// ParseKind resolves a filter name. The empty string selects None.
func ParseKind(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" || n == "original" {
		return None, nil
	}
	if n == "greyscale" || n == "gray" || n == "grey" {
		return Grayscale, nil
	}
	for i, kn := range kindNames {
		if kn == n {
			return Kind(i), nil
		}
	}
	return None, fmt.Errorf("unknown filter %q", name)
}

// State is the active filter together with its intensity.
type State struct {
	Kind      Kind
	Intensity int
}

// DefaultState returns the no-op filter state.
func DefaultState() State {
	return State{Kind: None, Intensity: DefaultIntensity}
}

// ClampIntensity limits v to 1..100.
func ClampIntensity(v int) int {
	if v < 1 {
		return 1
	}
	if v > 100 {
		return 100
	}
	return v
}

// Apply runs the filter described by s on src and returns a new buffer.
func Apply(src *image.NRGBA, s State) *image.NRGBA {
	if pixbuf.IsEmpty(src) {
		return nil
	}
	i := s.Intensity
	switch s.Kind {
	case Grayscale:
		return GrayscaleFilter(src, i)
	case Sepia:
		return SepiaFilter(src, i)
	case Blur:
		return BoxBlur(src, i/20)
	case Sharpen:
		return SharpenFilter(src, i)
	case Emboss:
		return EmbossFilter(src, i)
	case Invert:
		return InvertFilter(src)
	case Warm:
		return WarmFilter(src, i)
	case Cool:
		return CoolFilter(src, i)
	case Vintage:
		return VintageFilter(src, i)
	default:
		return pixbuf.Clone(src)
	}
}

// GrayscaleFilter blends each pixel toward its luma.
func GrayscaleFilter(src *image.NRGBA, intensity int) *image.NRGBA {
	f := float64(intensity) / 100
	return mapRGB(src, func(r, g, b int) (int, int, int) {
		gray := adjust.Luma(r, g, b)
		return blend(r, gray, f), blend(g, gray, f), blend(b, gray, f)
	})
}

// SepiaFilter blends each pixel toward its sepia tone.
func SepiaFilter(src *image.NRGBA, intensity int) *image.NRGBA {
	f := float64(intensity) / 100
	return mapRGB(src, func(r, g, b int) (int, int, int) {
		fr, fg, fb := float64(r), float64(g), float64(b)
		tr := int(pixbuf.Clamp(int(0.393*fr + 0.769*fg + 0.189*fb)))
		tg := int(pixbuf.Clamp(int(0.349*fr + 0.686*fg + 0.168*fb)))
		tb := int(pixbuf.Clamp(int(0.272*fr + 0.534*fg + 0.131*fb)))
		return blend(r, tr, f), blend(g, tg, f), blend(b, tb, f)
	})
}

// InvertFilter replaces every color channel c with 255-c.
func InvertFilter(src *image.NRGBA) *image.NRGBA {
	return mapRGB(src, func(r, g, b int) (int, int, int) {
		return 255 - r, 255 - g, 255 - b
	})
}

// WarmFilter pushes red up and blue down.
func WarmFilter(src *image.NRGBA, intensity int) *image.NRGBA {
	f := float64(intensity) / 100
	dr, db := int(30*f), int(20*f)
	return mapRGB(src, func(r, g, b int) (int, int, int) {
		return r + dr, g, b - db
	})
}

// CoolFilter pushes blue up and red down.
func CoolFilter(src *image.NRGBA, intensity int) *image.NRGBA {
	f := float64(intensity) / 100
	dr, db := int(20*f), int(30*f)
	return mapRGB(src, func(r, g, b int) (int, int, int) {
		return r - dr, g, b + db
	})
}

// VintageFilter chains a mild sepia, a contrast tweak and warming.
func VintageFilter(src *image.NRGBA, intensity int) *image.NRGBA {
	out := SepiaFilter(src, 70)
	out = adjust.Contrast(out, 90+intensity/5)
	return WarmFilter(out, intensity)
}

// blend mixes orig toward target by f and rounds to the nearest integer.
func blend(orig, target int, f float64) int {
	return int(math.Round(float64(orig)*(1-f) + float64(target)*f))
}

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
