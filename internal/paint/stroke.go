// Package paint rasterizes freehand brush and eraser segments.
package paint

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/fogleman/gg"
)

// coverage returns an antialiased mask of a round-capped segment from a to b
// and the image-space rectangle the mask covers.
func coverage(a, b image.Point, width float64) (*image.Alpha, image.Rectangle) {
	if width < 1 {
		width = 1
	}
	pad := int(math.Ceil(width/2)) + 1
	area := image.Rectangle{Min: a, Max: a}.Union(image.Rectangle{Min: b, Max: b})
	area = image.Rect(area.Min.X-pad, area.Min.Y-pad, area.Max.X+pad+1, area.Max.Y+pad+1)

	dc := gg.NewContext(area.Dx(), area.Dy())
	dc.Translate(float64(-area.Min.X), float64(-area.Min.Y))
	dc.SetRGBA(0, 0, 0, 1)
	ax, ay := float64(a.X)+0.5, float64(a.Y)+0.5
	if a == b {
		dc.DrawCircle(ax, ay, width/2)
		dc.Fill()
	} else {
		dc.SetLineWidth(width)
		dc.SetLineCapRound()
		dc.DrawLine(ax, ay, float64(b.X)+0.5, float64(b.Y)+0.5)
		dc.Stroke()
	}
	return dc.AsMask(), area
}

// Stroke paints a round-capped segment of the given width and color onto dst.
// It returns the rectangle of dst that may have changed.
func Stroke(dst *image.NRGBA, from, to image.Point, width float64, col color.NRGBA) image.Rectangle {
	mask, area := coverage(from, to, width)
	r := area.Intersect(dst.Bounds())
	if r.Empty() {
		return r
	}
	draw.DrawMask(dst, r, image.NewUniform(col), image.Point{}, mask, r.Min.Sub(area.Min), draw.Over)
	return r
}

// Erase clears alpha along a round-capped segment. Fully covered pixels become
// transparent black; partially covered ones lose alpha in proportion.
func Erase(dst *image.NRGBA, from, to image.Point, width float64) image.Rectangle {
	mask, area := coverage(from, to, width)
	r := area.Intersect(dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m := int(mask.AlphaAt(x-area.Min.X, y-area.Min.Y).A)
			if m == 0 {
				continue
			}
			o := dst.PixOffset(x, y)
			if m == 255 {
				dst.Pix[o], dst.Pix[o+1], dst.Pix[o+2], dst.Pix[o+3] = 0, 0, 0, 0
				continue
			}
			dst.Pix[o+3] = uint8(int(dst.Pix[o+3]) * (255 - m) / 255)
		}
	}
	return r
}
