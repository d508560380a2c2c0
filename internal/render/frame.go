// Package render composes the editor canvas: a transparency backdrop, the
// zoomed display buffer with its text items, and the crop and selection
// overlays.
package render

import (
	"context"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/example/retouch/internal/annotate"
	"github.com/example/retouch/internal/pixbuf"
	"github.com/example/retouch/internal/theme"
)

// CheckerSize is the edge length of one backdrop square in screen pixels.
const CheckerSize = 8

// Frame is a snapshot of everything drawn on the canvas. Coordinates of
// Crop, Texts and Pending are in image space.
type Frame struct {
	Image    *image.NRGBA
	Texts    []annotate.Item
	Zoom     float64
	Origin   image.Point
	Crop     image.Rectangle
	Selected int
	Pending  *annotate.Item
	Shadow   ShadowOptions
}

// ImageRect returns the screen rectangle covered by the zoomed image.
func (f Frame) ImageRect() image.Rectangle {
	sz := pixbuf.Size(f.Image)
	w := int(float64(sz.X) * f.Zoom)
	h := int(float64(sz.Y) * f.Zoom)
	return image.Rect(f.Origin.X, f.Origin.Y, f.Origin.X+w, f.Origin.Y+h)
}

func (f Frame) toScreen(r image.Rectangle) image.Rectangle {
	return image.Rect(
		f.Origin.X+int(float64(r.Min.X)*f.Zoom),
		f.Origin.Y+int(float64(r.Min.Y)*f.Zoom),
		f.Origin.X+int(float64(r.Max.X)*f.Zoom),
		f.Origin.Y+int(float64(r.Max.Y)*f.Zoom),
	)
}

// Compose draws f into dst, clipped to dst's bounds. It returns false when
// ctx was cancelled before the frame was complete.
func Compose(ctx context.Context, dst *image.RGBA, f Frame, th *theme.Theme) bool {
	if th == nil {
		th = theme.Default()
	}
	area := dst.Bounds()
	draw.Draw(dst, area, image.NewUniform(th.Background), image.Point{}, draw.Src)
	if pixbuf.IsEmpty(f.Image) || f.Zoom <= 0 {
		return ctx.Err() == nil
	}

	ir := f.ImageRect()
	DrawShadow(dst, ir, f.Shadow)
	drawCheckerboard(dst, ir.Intersect(area), CheckerSize, th.CheckerLight, th.CheckerDark)
	if ctx.Err() != nil {
		return false
	}

	src := f.Image
	if len(f.Texts) > 0 {
		src = pixbuf.Clone(f.Image)
		_ = annotate.DrawAll(src, f.Texts)
	}
	scaler := xdraw.Interpolator(xdraw.NearestNeighbor)
	if f.Zoom < 1 {
		scaler = xdraw.ApproxBiLinear
	}
	scaler.Scale(dst, ir, src, src.Bounds(), draw.Over, nil)
	if ctx.Err() != nil {
		return false
	}

	if !f.Crop.Empty() {
		cr := f.toScreen(f.Crop)
		shade := image.NewUniform(th.CropShade)
		for _, r := range outside(ir, cr) {
			draw.Draw(dst, r.Intersect(area), shade, image.Point{}, draw.Over)
		}
		drawDashedRect(dst, cr, 4, th.CropOutline, color.RGBA{0, 0, 0, 255})
	}

	if f.Selected >= 0 && f.Selected < len(f.Texts) {
		drawRect(dst, f.toScreen(f.Texts[f.Selected].Bounds).Inset(-2), th.SelectionOutline)
	}

	if f.Pending != nil {
		drawPending(dst, f, *f.Pending)
	}
	return ctx.Err() == nil
}

// drawPending renders text that is still being typed, zoomed to screen space
// with a trailing caret.
func drawPending(dst *image.RGBA, f Frame, it annotate.Item) {
	it.Text += "|"
	it.Font.Size *= f.Zoom
	it.Pos = f.Origin.Add(image.Pt(int(float64(it.Pos.X)*f.Zoom), int(float64(it.Pos.Y)*f.Zoom)))
	_ = annotate.Draw(dst, it)
}

// outside returns up to four rectangles covering outer minus inner.
func outside(outer, inner image.Rectangle) []image.Rectangle {
	inner = inner.Intersect(outer)
	if inner.Empty() {
		return []image.Rectangle{outer}
	}
	return []image.Rectangle{
		image.Rect(outer.Min.X, outer.Min.Y, outer.Max.X, inner.Min.Y),
		image.Rect(outer.Min.X, inner.Max.Y, outer.Max.X, outer.Max.Y),
		image.Rect(outer.Min.X, inner.Min.Y, inner.Min.X, inner.Max.Y),
		image.Rect(inner.Max.X, inner.Min.Y, outer.Max.X, inner.Max.Y),
	}
}

// drawCheckerboard fills rect of dst with alternating squares.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.RGBA) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			c := dark
			if ((x/size)+(y/size))%2 == 0 {
				c = light
			}
			dst.SetRGBA(x, y, c)
		}
	}
}

func drawRect(dst *image.RGBA, r image.Rectangle, c color.RGBA) {
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		setClipped(dst, x, r.Min.Y, c)
		setClipped(dst, x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		setClipped(dst, r.Min.X, y, c)
		setClipped(dst, r.Max.X-1, y, c)
	}
}

// drawDashedRect outlines r alternating c1 and c2 every dash pixels.
func drawDashedRect(dst *image.RGBA, r image.Rectangle, dash int, c1, c2 color.RGBA) {
	if r.Empty() || dash <= 0 {
		return
	}
	pick := func(i int) color.RGBA {
		if (i/dash)%2 == 0 {
			return c1
		}
		return c2
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		setClipped(dst, x, r.Min.Y, pick(x-r.Min.X))
		setClipped(dst, x, r.Max.Y-1, pick(x-r.Min.X))
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		setClipped(dst, r.Min.X, y, pick(y-r.Min.Y))
		setClipped(dst, r.Max.X-1, y, pick(y-r.Min.Y))
	}
}

func setClipped(dst *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(dst.Rect) {
		dst.SetRGBA(x, y, c)
	}
}
