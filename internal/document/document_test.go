package document

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/example/retouch/internal/adjust"
	"github.com/example/retouch/internal/annotate"
	"github.com/example/retouch/internal/filter"
	"github.com/example/retouch/internal/pixbuf"
)

var red = color.NRGBA{255, 0, 0, 255}

func newDoc(t *testing.T, w, h int, c color.NRGBA, opts ...Option) *Document {
	t.Helper()
	d := New(opts...)
	if err := d.LoadImage(pixbuf.Filled(w, h, c)); err != nil {
		t.Fatalf("load: %v", err)
	}
	return d
}

func TestBrightnessUpdatesDisplayOnly(t *testing.T) {
	d := newDoc(t, 4, 4, red)
	d.SetBrightness(150)
	if got := d.Display().NRGBAAt(0, 0); got != (color.NRGBA{255, 50, 50, 255}) {
		t.Fatalf("unexpected display pixel %v", got)
	}
	if got := d.Image().NRGBAAt(0, 0); got != red {
		t.Fatalf("authoritative image changed: %v", got)
	}
	if d.CanUndo() || d.Modified() {
		t.Fatalf("adjustments must not touch history or the modified flag")
	}
}

func TestResetAdjustmentsRestoresDisplay(t *testing.T) {
	d := newDoc(t, 5, 5, color.NRGBA{12, 140, 201, 255})
	d.SetBrightness(170)
	d.SetContrast(30)
	d.SetSaturation(180)
	d.ResetAdjustments()
	if !pixbuf.Equal(d.Image(), d.Display()) {
		t.Fatalf("display differs from image after reset")
	}
	if d.Params() != adjust.DefaultParams() {
		t.Fatalf("unexpected params %+v", d.Params())
	}
}

func TestFilterOnTopOfAdjustments(t *testing.T) {
	d := newDoc(t, 3, 3, red)
	d.ApplyFilter(filter.Grayscale)
	d.SetFilterIntensity(50)
	if got := d.Display().NRGBAAt(1, 1); got != (color.NRGBA{166, 38, 38, 255}) {
		t.Fatalf("unexpected display pixel %v", got)
	}
	d.SetFilterIntensity(500)
	if d.Filter().Intensity != 100 {
		t.Fatalf("intensity not clamped: %d", d.Filter().Intensity)
	}
}

func TestUndoRedoSymmetry(t *testing.T) {
	d := newDoc(t, 6, 4, red)
	before := pixbuf.Clone(d.Image())
	if err := d.Rotate(90); err != nil {
		t.Fatalf("rotate: %v", err)
	}
	after := pixbuf.Clone(d.Image())
	if !d.Undo() || !pixbuf.Equal(before, d.Image()) {
		t.Fatalf("undo did not restore the image")
	}
	if !d.Redo() || !pixbuf.Equal(after, d.Image()) {
		t.Fatalf("redo did not restore the rotated image")
	}
	d.Undo()
	if err := d.FlipHorizontal(); err != nil {
		t.Fatalf("flip: %v", err)
	}
	if d.CanRedo() {
		t.Fatalf("a new edit must clear redo")
	}
}

func TestHistoryLimit(t *testing.T) {
	d := newDoc(t, 1, 1, red)
	for i := 1; i <= 60; i++ {
		if err := d.Resize(i+1, 1); err != nil {
			t.Fatalf("resize %d: %v", i, err)
		}
	}
	if n := d.History().UndoLen(); n != 50 {
		t.Fatalf("expected 50 undo entries, got %d", n)
	}
	for i := 0; i < 50; i++ {
		d.Undo()
	}
	if w := d.Size().X; w != 11 {
		t.Fatalf("expected the result of the 10th edit (width 11), got %d", w)
	}
	if d.Undo() {
		t.Fatalf("expected undo stack to be exhausted")
	}
}

func TestHistoryLimitOption(t *testing.T) {
	d := newDoc(t, 2, 2, red, WithHistoryLimit(3))
	for i := 0; i < 5; i++ {
		_ = d.FlipVertical()
	}
	if n := d.History().UndoLen(); n != 3 {
		t.Fatalf("expected 3 undo entries, got %d", n)
	}
}

func TestUndoUsesCurrentAdjustments(t *testing.T) {
	d := newDoc(t, 4, 4, red)
	_ = d.FlipHorizontal()
	d.SetBrightness(150)
	d.Undo()
	if got := d.Display().NRGBAAt(0, 0); got != (color.NRGBA{255, 50, 50, 255}) {
		t.Fatalf("undo did not re-derive display with current params: %v", got)
	}
}

func TestInvalidCropIsNoop(t *testing.T) {
	d := newDoc(t, 10, 10, red)
	before := pixbuf.Clone(d.Image())
	for _, r := range []image.Rectangle{image.Rect(5, 5, 15, 15), {}, image.Rect(-2, 0, 3, 3)} {
		if err := d.Crop(r); !errors.Is(err, ErrInvalidGeometry) {
			t.Errorf("Crop(%v) err = %v", r, err)
		}
	}
	if !pixbuf.Equal(before, d.Image()) || d.CanUndo() || d.Modified() {
		t.Fatalf("invalid crop changed the document")
	}
}

func TestCropCarriesText(t *testing.T) {
	d := newDoc(t, 100, 100, red)
	if _, err := d.AddText("in", image.Pt(30, 40), annotate.Font{Size: 12}, red); err != nil {
		t.Fatalf("add text: %v", err)
	}
	if _, err := d.AddText("out", image.Pt(5, 5), annotate.Font{Size: 12}, red); err != nil {
		t.Fatalf("add text: %v", err)
	}
	if err := d.Crop(image.Rect(20, 20, 80, 80)); err != nil {
		t.Fatalf("crop: %v", err)
	}
	texts := d.Texts()
	if len(texts) != 1 || texts[0].Text != "in" {
		t.Fatalf("unexpected texts %+v", texts)
	}
	if texts[0].Pos != image.Pt(10, 20) || texts[0].Bounds.Min != image.Pt(10, 20) {
		t.Fatalf("unexpected position %v bounds %v", texts[0].Pos, texts[0].Bounds)
	}
	if d.Size() != image.Pt(60, 60) {
		t.Fatalf("unexpected size %v", d.Size())
	}
}

func TestRotateRoundTripRestoresText(t *testing.T) {
	d := newDoc(t, 100, 100, red)
	if _, err := d.AddText("a", image.Pt(10, 20), annotate.Font{Size: 12}, red); err != nil {
		t.Fatalf("add text: %v", err)
	}
	_ = d.RotateRight()
	if p := d.Texts()[0].Pos; p != image.Pt(80, 10) {
		t.Fatalf("unexpected rotated position %v", p)
	}
	_ = d.RotateLeft()
	if p := d.Texts()[0].Pos; p != image.Pt(10, 20) {
		t.Fatalf("position not restored: %v", p)
	}
}

func TestFlipAndResizeMoveText(t *testing.T) {
	d := newDoc(t, 50, 40, red)
	_, _ = d.AddText("a", image.Pt(10, 8), annotate.Font{Size: 12}, red)
	_ = d.FlipHorizontal()
	if p := d.Texts()[0].Pos; p != image.Pt(40, 8) {
		t.Fatalf("unexpected flipped position %v", p)
	}
	_ = d.FlipVertical()
	if p := d.Texts()[0].Pos; p != image.Pt(40, 32) {
		t.Fatalf("unexpected flipped position %v", p)
	}
	_ = d.Resize(25, 80)
	if p := d.Texts()[0].Pos; p != image.Pt(20, 64) {
		t.Fatalf("unexpected resized position %v", p)
	}
	if err := d.Resize(0, 10); !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("expected ErrInvalidGeometry, got %v", err)
	}
}

func TestEmptyDocument(t *testing.T) {
	d := New()
	if d.HasImage() {
		t.Fatalf("new document should be empty")
	}
	if err := d.Rotate(90); !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
	if err := d.Resize(10, 10); !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
	if _, err := d.ImageForExport(); !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
	d.SetBrightness(150)
	if d.Display() != nil || d.Undo() || d.Redo() {
		t.Fatalf("empty document produced output")
	}
}

func TestLoadResetsState(t *testing.T) {
	d := newDoc(t, 8, 8, red)
	_, _ = d.AddText("x", image.Pt(1, 1), annotate.Font{}, red)
	_ = d.FlipVertical()
	d.SetBrightness(120)
	d.ApplyFilter(filter.Sepia)
	if err := d.NewImage(3, 2); err != nil {
		t.Fatalf("new image: %v", err)
	}
	if d.CanUndo() || len(d.Texts()) != 0 || d.Modified() {
		t.Fatalf("load left state behind")
	}
	if d.Params() != adjust.DefaultParams() || d.Filter() != filter.DefaultState() {
		t.Fatalf("load did not reset adjustments")
	}
	if got := d.Image().NRGBAAt(2, 1); got != (color.NRGBA{255, 255, 255, 255}) {
		t.Fatalf("new image is not white: %v", got)
	}
}

func TestStrokeUndo(t *testing.T) {
	d := newDoc(t, 30, 30, color.NRGBA{255, 255, 255, 255})
	before := pixbuf.Clone(d.Image())
	d.SaveState()
	d.PaintStroke(image.Pt(5, 5), image.Pt(25, 25), color.NRGBA{0, 0, 0, 255}, 5)
	d.PaintStroke(image.Pt(25, 25), image.Pt(25, 5), color.NRGBA{0, 0, 0, 255}, 5)
	if got := d.Display().NRGBAAt(15, 15); got.R > 10 {
		t.Fatalf("stroke did not reach the display: %v", got)
	}
	if !d.Modified() {
		t.Fatalf("stroke did not mark the document modified")
	}
	d.Undo()
	if !pixbuf.Equal(before, d.Image()) {
		t.Fatalf("one undo should revert the whole stroke")
	}
	d.SaveState()
	d.EraseStroke(image.Pt(2, 2), image.Pt(10, 2), 6)
	if c, _ := d.PixelAt(image.Pt(6, 2)); c.A != 0 {
		t.Fatalf("eraser left alpha %d", c.A)
	}
}

func TestEventsAndPick(t *testing.T) {
	var events []Event
	d := New(WithListener(func(e Event) { events = append(events, e) }), WithImage(pixbuf.Filled(4, 4, red)))
	if len(events) != 1 {
		t.Fatalf("expected ImageChanged on load, got %v", events)
	}
	if _, ok := events[0].(ImageChanged); !ok {
		t.Fatalf("unexpected first event %T", events[0])
	}
	d.SetContrast(120)
	if _, ok := events[len(events)-1].(DisplayChanged); !ok {
		t.Fatalf("expected DisplayChanged, got %T", events[len(events)-1])
	}
	c, ok := d.Pick(image.Pt(1, 2))
	if !ok || c != red {
		t.Fatalf("unexpected pick %v %v", c, ok)
	}
	pp, ok := events[len(events)-1].(PixelPicked)
	if !ok || pp.Point != image.Pt(1, 2) || pp.Color != red {
		t.Fatalf("unexpected pick event %+v", events[len(events)-1])
	}
	if _, ok := d.Pick(image.Pt(9, 9)); ok {
		t.Fatalf("picking outside the image succeeded")
	}
	d.Status("zoom %d%%", 150)
	if sm, ok := events[len(events)-1].(StatusMessage); !ok || sm.Text != "zoom 150%" {
		t.Fatalf("unexpected status event %+v", events[len(events)-1])
	}
}

func TestImageForExportDrawsText(t *testing.T) {
	d := newDoc(t, 60, 30, color.NRGBA{255, 255, 255, 255})
	if _, err := d.AddText("Hi", image.Pt(4, 4), annotate.Font{Size: 20}, color.NRGBA{0, 0, 0, 255}); err != nil {
		t.Fatalf("add text: %v", err)
	}
	out, err := d.ImageForExport()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if pixbuf.Equal(out, d.Display()) {
		t.Fatalf("export does not include text")
	}
	if !d.RemoveText(0) || d.RemoveText(0) {
		t.Fatalf("unexpected RemoveText results")
	}
	out, _ = d.ImageForExport()
	if !pixbuf.Equal(out, d.Display()) {
		t.Fatalf("export still includes removed text")
	}
}
