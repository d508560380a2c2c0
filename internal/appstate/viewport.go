package appstate

import (
	"image"
	"math"
)

const (
	MinZoom  = 0.1
	MaxZoom  = 10.0
	ZoomStep = 1.25
)

// ClampZoom limits z to MinZoom..MaxZoom.
func ClampZoom(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

// Viewport maps between screen and image coordinates. Origin is the screen
// position of the image's top-left corner.
type Viewport struct {
	Zoom   float64
	Origin image.Point
}

// NewViewport returns a 100% viewport anchored at the screen origin.
func NewViewport() *Viewport {
	return &Viewport{Zoom: 1}
}

func (v *Viewport) SetZoom(z float64) { v.Zoom = ClampZoom(z) }
func (v *Viewport) ZoomIn()           { v.SetZoom(v.Zoom * ZoomStep) }
func (v *Viewport) ZoomOut()          { v.SetZoom(v.Zoom / ZoomStep) }
func (v *Viewport) ZoomOriginal()     { v.SetZoom(1) }

// ZoomFit picks the largest zoom at which an image of size fits in avail.
func (v *Viewport) ZoomFit(avail, size image.Point) {
	if size.X <= 0 || size.Y <= 0 || avail.X <= 0 || avail.Y <= 0 {
		return
	}
	zx := float64(avail.X) / float64(size.X)
	zy := float64(avail.Y) / float64(size.Y)
	v.SetZoom(math.Min(zx, zy))
}

// Percent returns the zoom as a rounded percentage.
func (v *Viewport) Percent() int {
	return int(math.Round(v.Zoom * 100))
}

// ToImage converts a screen point to image coordinates.
func (v *Viewport) ToImage(p image.Point) image.Point {
	return image.Pt(
		int(math.Floor(float64(p.X-v.Origin.X)/v.Zoom)),
		int(math.Floor(float64(p.Y-v.Origin.Y)/v.Zoom)),
	)
}

// ToScreen converts an image point to screen coordinates.
func (v *Viewport) ToScreen(p image.Point) image.Point {
	return image.Pt(
		v.Origin.X+int(float64(p.X)*v.Zoom),
		v.Origin.Y+int(float64(p.Y)*v.Zoom),
	)
}

// ToScreenRect converts an image rectangle to screen coordinates.
func (v *Viewport) ToScreenRect(r image.Rectangle) image.Rectangle {
	return image.Rectangle{Min: v.ToScreen(r.Min), Max: v.ToScreen(r.Max)}
}

// ToImageRect converts a screen rectangle to image coordinates.
func (v *Viewport) ToImageRect(r image.Rectangle) image.Rectangle {
	return image.Rectangle{Min: v.ToImage(r.Min), Max: v.ToImage(r.Max)}
}
