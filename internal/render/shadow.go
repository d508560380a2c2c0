package render

import (
	"image"
	"math"
)

// ShadowOptions configures the drop shadow drawn beneath the canvas image.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// DefaultShadowOptions returns the shadow used by the editor window.
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{
		Radius:  6,
		Offset:  image.Pt(3, 4),
		Opacity: 0.45,
	}
}

// DrawShadow darkens dst where a solid rect would cast a blurred shadow,
// clipped to dst's bounds. A box blur of a rectangle separates into one
// blurred run per axis, so only the visible part is ever computed.
func DrawShadow(dst *image.RGBA, rect image.Rectangle, opts ShadowOptions) {
	if rect.Empty() || opts.Opacity <= 0 {
		return
	}
	opacity := math.Min(opts.Opacity, 1)
	radius := opts.Radius
	if radius < 0 {
		radius = 0
	}

	outer := rect.Inset(-radius).Add(opts.Offset)
	clip := outer.Intersect(dst.Bounds())
	if clip.Empty() {
		return
	}
	cols := blurRun(rect.Dx(), radius, clip.Min.X-outer.Min.X, clip.Max.X-outer.Min.X)
	rows := blurRun(rect.Dy(), radius, clip.Min.Y-outer.Min.Y, clip.Max.Y-outer.Min.Y)

	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		cy := rows[y-clip.Min.Y]
		if cy == 0 {
			continue
		}
		off := dst.PixOffset(clip.Min.X, y)
		for x := clip.Min.X; x < clip.Max.X; x, off = x+1, off+4 {
			a := opacity * cy * cols[x-clip.Min.X]
			if a <= 0 {
				continue
			}
			keep := 1 - a
			p := dst.Pix[off : off+4 : off+4]
			p[0] = uint8(float64(p[0]) * keep)
			p[1] = uint8(float64(p[1]) * keep)
			p[2] = uint8(float64(p[2]) * keep)
			p[3] = uint8(float64(p[3])*keep + 255*a + 0.5)
		}
	}
}

// blurRun box blurs a run of n solid samples padded by radius empty samples
// on both sides and returns positions lo..hi-1 of the result as coverage in
// [0,1].
func blurRun(n, radius, lo, hi int) []float64 {
	total := n + 2*radius
	prefix := make([]int, total+1)
	for i := 0; i < total; i++ {
		v := 0
		if i >= radius && i < radius+n {
			v = 1
		}
		prefix[i+1] = prefix[i] + v
	}
	window := float64(2*radius + 1)
	out := make([]float64, hi-lo)
	for i := lo; i < hi; i++ {
		i0 := i - radius
		if i0 < 0 {
			i0 = 0
		}
		i1 := i + radius
		if i1 >= total {
			i1 = total - 1
		}
		out[i-lo] = float64(prefix[i1+1]-prefix[i0]) / window
	}
	return out
}
