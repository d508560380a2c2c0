// Package document holds the image being edited: the authoritative pixels,
// the buffers derived from them for display, text annotations, undo history
// and the modified flag.
package document

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/example/retouch/internal/adjust"
	"github.com/example/retouch/internal/annotate"
	"github.com/example/retouch/internal/filter"
	"github.com/example/retouch/internal/history"
	"github.com/example/retouch/internal/paint"
	"github.com/example/retouch/internal/pixbuf"
	"github.com/example/retouch/internal/transform"
)

var (
	// ErrEmptyDocument is returned by edits attempted before an image is loaded.
	ErrEmptyDocument = errors.New("no image loaded")
	// ErrInvalidGeometry is returned for crops outside the image and for
	// non-positive resize targets.
	ErrInvalidGeometry = transform.ErrInvalidGeometry
)

// Document is not safe for concurrent use; a single owner drives it.
type Document struct {
	image     *image.NRGBA
	adjusted  *image.NRGBA
	display   *image.NRGBA
	params    adjust.Params
	filter    filter.State
	texts     []annotate.Item
	modified  bool
	hist      *history.Manager
	listeners []Listener
	initial   image.Image
}

// New creates a document. It starts empty unless WithImage is given.
func New(opts ...Option) *Document {
	d := &Document{
		params: adjust.DefaultParams(),
		filter: filter.DefaultState(),
		hist:   history.New(history.DefaultLimit),
	}
	for _, o := range opts {
		o(d)
	}
	if d.initial != nil {
		_ = d.LoadImage(d.initial)
		d.initial = nil
	}
	return d
}

// Subscribe registers l for future events.
func (d *Document) Subscribe(l Listener) {
	if l != nil {
		d.listeners = append(d.listeners, l)
	}
}

func (d *Document) emit(e Event) {
	for _, l := range d.listeners {
		l(e)
	}
}

// Status broadcasts a status bar message.
func (d *Document) Status(format string, args ...any) {
	d.emit(StatusMessage{Text: fmt.Sprintf(format, args...)})
}

// LoadImage replaces the document with img. History, text items,
// adjustments and the filter are reset and the document is unmodified.
func (d *Document) LoadImage(img image.Image) error {
	buf := pixbuf.FromImage(img)
	if buf == nil {
		return ErrEmptyDocument
	}
	d.image = buf
	d.texts = nil
	d.hist.Clear()
	d.params = adjust.DefaultParams()
	d.filter = filter.DefaultState()
	d.modified = false
	d.refresh()
	d.emit(ImageChanged{Size: d.Size(), Modified: false})
	return nil
}

// NewImage starts a blank white w×h document.
func (d *Document) NewImage(w, h int) error {
	if w <= 0 || h <= 0 {
		return ErrInvalidGeometry
	}
	return d.LoadImage(pixbuf.Filled(w, h, color.White))
}

func (d *Document) HasImage() bool { return !pixbuf.IsEmpty(d.image) }

// Size returns the image dimensions.
func (d *Document) Size() image.Point { return pixbuf.Size(d.image) }

// Bounds returns the image rectangle in image coordinates.
func (d *Document) Bounds() image.Rectangle {
	return image.Rectangle{Max: d.Size()}
}

// Image returns the authoritative buffer. Callers must not modify it.
func (d *Document) Image() *image.NRGBA { return d.image }

// Adjusted returns the image after brightness, contrast and saturation.
func (d *Document) Adjusted() *image.NRGBA { return d.adjusted }

// Display returns the adjusted image after the active filter.
func (d *Document) Display() *image.NRGBA { return d.display }

func (d *Document) Params() adjust.Params { return d.params }
func (d *Document) Filter() filter.State  { return d.filter }
func (d *Document) Modified() bool        { return d.modified }
func (d *Document) CanUndo() bool         { return d.hist.CanUndo() }
func (d *Document) CanRedo() bool         { return d.hist.CanRedo() }

// History exposes the undo manager for inspection.
func (d *Document) History() *history.Manager { return d.hist }

// SetModified overrides the modified flag, for example after a save.
func (d *Document) SetModified(m bool) { d.modified = m }

// refresh rebuilds the derived buffers from the authoritative image.
func (d *Document) refresh() {
	if !d.HasImage() {
		d.adjusted, d.display = nil, nil
		return
	}
	d.adjusted = d.params.Apply(d.image)
	d.refreshDisplay()
}

func (d *Document) refreshDisplay() {
	if d.filter.Kind == filter.None {
		d.display = d.adjusted
		return
	}
	d.display = filter.Apply(d.adjusted, d.filter)
}

func (d *Document) setParams(p adjust.Params) {
	d.params = p
	d.refresh()
	d.emit(DisplayChanged{})
}

func (d *Document) SetBrightness(v int) {
	p := d.params
	p.Brightness = v
	d.setParams(p)
}

func (d *Document) SetContrast(v int) {
	p := d.params
	p.Contrast = v
	d.setParams(p)
}

func (d *Document) SetSaturation(v int) {
	p := d.params
	p.Saturation = v
	d.setParams(p)
}

// ResetAdjustments restores neutral brightness, contrast and saturation.
func (d *Document) ResetAdjustments() {
	d.setParams(adjust.DefaultParams())
}

// ApplyFilter selects the active filter.
func (d *Document) ApplyFilter(k filter.Kind) {
	d.filter.Kind = k
	d.refreshDisplay()
	d.emit(DisplayChanged{})
}

// SetFilterIntensity sets the filter strength, clamped to 1..100.
func (d *Document) SetFilterIntensity(v int) {
	d.filter.Intensity = filter.ClampIntensity(v)
	d.refreshDisplay()
	d.emit(DisplayChanged{})
}

func (d *Document) touch() {
	d.modified = true
	d.refresh()
	d.emit(ImageChanged{Size: d.Size(), Modified: true})
}

// replace runs a geometric edit, snapshotting the current image first and
// carrying text items through the edit's remap.
func (d *Document) replace(op func(*image.NRGBA) (transform.Result, error)) error {
	if !d.HasImage() {
		return ErrEmptyDocument
	}
	res, err := op(d.image)
	if err != nil {
		return err
	}
	d.hist.Save(d.image)
	d.image = res.Image
	kept := d.texts[:0]
	for _, it := range d.texts {
		p, ok := res.Remap(it.Pos)
		if !ok {
			continue
		}
		kept = append(kept, it.MoveTo(p))
	}
	d.texts = kept
	d.touch()
	return nil
}

// Crop keeps only rect. Text items outside rect are dropped.
func (d *Document) Crop(rect image.Rectangle) error {
	return d.replace(func(src *image.NRGBA) (transform.Result, error) {
		return transform.Crop(src, rect)
	})
}

// Rotate turns the image clockwise by degrees.
func (d *Document) Rotate(degrees float64) error {
	return d.replace(func(src *image.NRGBA) (transform.Result, error) {
		return transform.Rotate(src, degrees)
	})
}

func (d *Document) RotateLeft() error  { return d.Rotate(-90) }
func (d *Document) RotateRight() error { return d.Rotate(90) }

func (d *Document) FlipHorizontal() error { return d.replace(transform.FlipHorizontal) }
func (d *Document) FlipVertical() error   { return d.replace(transform.FlipVertical) }

// Resize scales the image to exactly w×h.
func (d *Document) Resize(w, h int) error {
	return d.replace(func(src *image.NRGBA) (transform.Result, error) {
		return transform.Resize(src, w, h)
	})
}

// Undo restores the previous image. It reports whether anything changed.
func (d *Document) Undo() bool {
	prev, ok := d.hist.Undo(d.image)
	if !ok {
		return false
	}
	d.image = prev
	d.touch()
	return true
}

// Redo reapplies the most recently undone edit.
func (d *Document) Redo() bool {
	next, ok := d.hist.Redo(d.image)
	if !ok {
		return false
	}
	d.image = next
	d.touch()
	return true
}

// SaveState snapshots the image before a multi-step edit such as a stroke.
func (d *Document) SaveState() {
	if d.HasImage() {
		d.hist.Save(d.image)
	}
}

// PaintStroke draws a brush segment onto the authoritative image.
func (d *Document) PaintStroke(from, to image.Point, col color.NRGBA, width int) {
	if !d.HasImage() {
		return
	}
	paint.Stroke(d.image, from, to, float64(width), col)
	d.touch()
}

// EraseStroke clears alpha along a segment of the authoritative image.
func (d *Document) EraseStroke(from, to image.Point, width int) {
	if !d.HasImage() {
		return
	}
	paint.Erase(d.image, from, to, float64(width))
	d.touch()
}

// PixelAt returns the authoritative color at p.
func (d *Document) PixelAt(p image.Point) (color.NRGBA, bool) {
	if !d.HasImage() || !p.In(d.Bounds()) {
		return color.NRGBA{}, false
	}
	return d.image.NRGBAAt(p.X, p.Y), true
}

// Pick samples p and notifies listeners with PixelPicked.
func (d *Document) Pick(p image.Point) (color.NRGBA, bool) {
	c, ok := d.PixelAt(p)
	if ok {
		d.emit(PixelPicked{Point: p, Color: c})
	}
	return c, ok
}

// AddText places a new text item with its top-left corner at pos.
func (d *Document) AddText(text string, pos image.Point, f annotate.Font, col color.NRGBA) (annotate.Item, error) {
	if !d.HasImage() {
		return annotate.Item{}, ErrEmptyDocument
	}
	it, err := annotate.NewItem(text, pos, f, col)
	if err != nil {
		return annotate.Item{}, err
	}
	d.texts = append(d.texts, it)
	d.modified = true
	d.emit(TextChanged{Count: len(d.texts)})
	return it, nil
}

// RemoveText deletes the item at index i.
func (d *Document) RemoveText(i int) bool {
	if i < 0 || i >= len(d.texts) {
		return false
	}
	d.texts = append(d.texts[:i], d.texts[i+1:]...)
	d.modified = true
	d.emit(TextChanged{Count: len(d.texts)})
	return true
}

// ClearText removes every text item.
func (d *Document) ClearText() {
	if len(d.texts) == 0 {
		return
	}
	d.texts = nil
	d.modified = true
	d.emit(TextChanged{})
}

// Texts returns a copy of the text items in paint order.
func (d *Document) Texts() []annotate.Item {
	out := make([]annotate.Item, len(d.texts))
	copy(out, d.texts)
	return out
}

// ImageForExport returns the display buffer with text items drawn on top.
func (d *Document) ImageForExport() (*image.NRGBA, error) {
	if !d.HasImage() {
		return nil, ErrEmptyDocument
	}
	out := pixbuf.Clone(d.display)
	if err := annotate.DrawAll(out, d.texts); err != nil {
		return nil, fmt.Errorf("draw text: %w", err)
	}
	return out, nil
}
