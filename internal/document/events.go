package document

import (
	"image"
	"image/color"
)

// Event is delivered to listeners whenever the document changes.
type Event interface {
	event()
}

// ImageChanged reports a change to the authoritative image.
type ImageChanged struct {
	Size     image.Point
	Modified bool
}

// DisplayChanged reports that adjustments or the filter changed the display
// buffer without touching the authoritative image.
type DisplayChanged struct{}

// TextChanged reports that text items were added, removed or moved.
type TextChanged struct {
	Count int
}

// StatusMessage carries a short message for the status bar.
type StatusMessage struct {
	Text string
}

// PixelPicked reports a color sampled by the pipette.
type PixelPicked struct {
	Point image.Point
	Color color.NRGBA
}

func (ImageChanged) event()   {}
func (DisplayChanged) event() {}
func (TextChanged) event()    {}
func (StatusMessage) event()  {}
func (PixelPicked) event()    {}

// Listener receives document events synchronously on the caller's goroutine.
type Listener func(Event)
