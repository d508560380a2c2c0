package filter

import (
	"image"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/example/retouch/internal/adjust"
	"github.com/example/retouch/internal/pixbuf"
)

var sharpenKernel = [3][3]int{
	{0, -1, 0},
	{-1, 5, -1},
	{0, -1, 0},
}

var embossKernel = [3][3]int{
	{-2, -1, 0},
	{-1, 1, 1},
	{0, 1, 2},
}

// BoxBlur averages every channel, alpha included, over a (2r+1)² window.
// Pixels closer than r to an edge are copied unchanged. A radius of zero or
// less returns a copy.
func BoxBlur(src *image.NRGBA, radius int) *image.NRGBA {
	if pixbuf.IsEmpty(src) {
		return nil
	}
	src = pixbuf.Clone(src)
	dst := pixbuf.Clone(src)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if radius <= 0 || w <= 2*radius || h <= 2*radius {
		return dst
	}

	// sums[c][(y)*(w+1)+x] holds the total of channel c over [0,x)×[0,y).
	sw := w + 1
	var sums [4][]int64
	for c := range sums {
		sums[c] = make([]int64, sw*(h+1))
	}
	for y := 0; y < h; y++ {
		var row [4]int64
		for x := 0; x < w; x++ {
			o := y*src.Stride + 4*x
			for c := 0; c < 4; c++ {
				row[c] += int64(src.Pix[o+c])
				sums[c][(y+1)*sw+x+1] = sums[c][y*sw+x+1] + row[c]
			}
		}
	}

	side := 2*radius + 1
	area := int64(side * side)
	parallel.Line(h-2*radius, func(start, end int) {
		for y := start + radius; y < end+radius; y++ {
			y0, y1 := y-radius, y+radius+1
			for x := radius; x < w-radius; x++ {
				x0, x1 := x-radius, x+radius+1
				o := y*dst.Stride + 4*x
				for c := 0; c < 4; c++ {
					s := sums[c]
					total := s[y1*sw+x1] - s[y0*sw+x1] - s[y1*sw+x0] + s[y0*sw+x0]
					dst.Pix[o+c] = uint8(total / area)
				}
			}
		}
	})
	return dst
}

// SharpenFilter convolves with a 3×3 sharpen kernel and blends the result
// with the original by intensity/100. Alpha and the 1px border are kept.
func SharpenFilter(src *image.NRGBA, intensity int) *image.NRGBA {
	f := float64(intensity) / 100
	return convolve(src, func(snap *image.NRGBA, x, y int) (int, int, int) {
		var sr, sg, sb int
		for ky := -1; ky <= 1; ky++ {
			for kx := -1; kx <= 1; kx++ {
				k := sharpenKernel[ky+1][kx+1]
				if k == 0 {
					continue
				}
				o := snap.PixOffset(x+kx, y+ky)
				sr += k * int(snap.Pix[o])
				sg += k * int(snap.Pix[o+1])
				sb += k * int(snap.Pix[o+2])
			}
		}
		o := snap.PixOffset(x, y)
		r, g, b := int(snap.Pix[o]), int(snap.Pix[o+1]), int(snap.Pix[o+2])
		return blend(r, sr, f), blend(g, sg, f), blend(b, sb, f)
	})
}

// EmbossFilter convolves the luma with a 3×3 emboss kernel around mid-gray
// and blends the relief with the original by intensity/100.
func EmbossFilter(src *image.NRGBA, intensity int) *image.NRGBA {
	f := float64(intensity) / 100
	return convolve(src, func(snap *image.NRGBA, x, y int) (int, int, int) {
		sum := 0
		for ky := -1; ky <= 1; ky++ {
			for kx := -1; kx <= 1; kx++ {
				o := snap.PixOffset(x+kx, y+ky)
				l := adjust.Luma(int(snap.Pix[o]), int(snap.Pix[o+1]), int(snap.Pix[o+2]))
				sum += embossKernel[ky+1][kx+1] * l
			}
		}
		gray := int(pixbuf.Clamp(128 + sum))
		o := snap.PixOffset(x, y)
		r, g, b := int(snap.Pix[o]), int(snap.Pix[o+1]), int(snap.Pix[o+2])
		return blend(r, gray, f), blend(g, gray, f), blend(b, gray, f)
	})
}

// convolve evaluates fn for every interior pixel, reading from a snapshot of
// src and writing clamped color channels into a copy.
func convolve(src *image.NRGBA, fn func(snap *image.NRGBA, x, y int) (int, int, int)) *image.NRGBA {
	if pixbuf.IsEmpty(src) {
		return nil
	}
	snap := pixbuf.Clone(src)
	dst := pixbuf.Clone(src)
	w, h := snap.Rect.Dx(), snap.Rect.Dy()
	if w < 3 || h < 3 {
		return dst
	}
	parallel.Line(h-2, func(start, end int) {
		for y := start + 1; y < end+1; y++ {
			for x := 1; x < w-1; x++ {
				r, g, b := fn(snap, x, y)
				o := dst.PixOffset(x, y)
				dst.Pix[o] = pixbuf.Clamp(r)
				dst.Pix[o+1] = pixbuf.Clamp(g)
				dst.Pix[o+2] = pixbuf.Clamp(b)
			}
		}
	})
	return dst
}
