package appstate

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/example/retouch/internal/annotate"
	"github.com/example/retouch/internal/document"
	"github.com/example/retouch/internal/pixbuf"
)

var white = color.NRGBA{255, 255, 255, 255}

type recorder struct {
	status []string
	picks  []document.PixelPicked
}

func (r *recorder) listen(ev document.Event) {
	switch e := ev.(type) {
	case document.StatusMessage:
		r.status = append(r.status, e.Text)
	case document.PixelPicked:
		r.picks = append(r.picks, e)
	}
}

func (r *recorder) lastStatus() string {
	if len(r.status) == 0 {
		return ""
	}
	return r.status[len(r.status)-1]
}

func newEditor(t *testing.T, w, h int, opts ...EditorOption) (*Editor, *recorder) {
	t.Helper()
	rec := &recorder{}
	doc := document.New(document.WithListener(rec.listen), document.WithImage(pixbuf.Filled(w, h, white)))
	return NewEditor(doc, opts...), rec
}

func TestNoImageIgnoresInput(t *testing.T) {
	doc := document.New()
	e := NewEditor(doc)
	e.SetTool(ToolBrush)
	e.PointerDown(image.Pt(1, 1))
	e.PointerMove(image.Pt(5, 5))
	e.PointerUp(image.Pt(5, 5))
	if e.Dragging() || doc.CanUndo() {
		t.Fatalf("input on an empty document had an effect")
	}
}

func TestPressOutsideImageIgnored(t *testing.T) {
	e, _ := newEditor(t, 20, 20)
	e.SetTool(ToolBrush)
	e.PointerDown(image.Pt(25, 5))
	if e.Dragging() || e.Document().CanUndo() {
		t.Fatalf("press outside the image started a stroke")
	}
}

func TestCropGesture(t *testing.T) {
	e, _ := newEditor(t, 100, 80)
	e.SetTool(ToolCrop)
	e.PointerDown(image.Pt(60, 50))
	e.PointerMove(image.Pt(20, 10))
	if got := e.CropRect(); got != image.Rect(20, 10, 61, 51) {
		t.Fatalf("unexpected normalized rect %v", got)
	}
	e.PointerMove(image.Pt(150, 120))
	e.PointerUp(image.Pt(150, 120))
	if got := e.CropRect(); got != image.Rect(60, 50, 100, 80) {
		t.Fatalf("expected rect clipped to the image, got %v", got)
	}
	if f := e.Frame(); f.Crop != e.CropRect() {
		t.Fatalf("frame does not carry the crop rect")
	}
	if err := e.ApplyCrop(); err != nil {
		t.Fatalf("apply crop: %v", err)
	}
	if e.Document().Size() != image.Pt(40, 30) {
		t.Fatalf("unexpected size %v", e.Document().Size())
	}
}

func TestCropIncludesBothEndPixels(t *testing.T) {
	for _, tc := range []struct {
		name     string
		from, to image.Point
	}{
		{"left to right", image.Pt(10, 10), image.Pt(40, 30)},
		{"right to left", image.Pt(40, 30), image.Pt(10, 10)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			e, _ := newEditor(t, 100, 80)
			e.SetTool(ToolCrop)
			e.PointerDown(tc.from)
			e.PointerMove(tc.to)
			e.PointerUp(tc.to)
			if got := e.CropRect(); got != image.Rect(10, 10, 41, 31) {
				t.Fatalf("crop rect = %v, want (10,10)-(41,31)", got)
			}
		})
	}
}

func TestApplyCropWithoutRegion(t *testing.T) {
	e, rec := newEditor(t, 10, 10)
	e.SetTool(ToolCrop)
	if err := e.ApplyCrop(); !errors.Is(err, ErrNoCropRegion) {
		t.Fatalf("expected ErrNoCropRegion, got %v", err)
	}
	if rec.lastStatus() != "drag a crop region first" {
		t.Fatalf("unexpected status %q", rec.lastStatus())
	}
}

func TestEnteringCropClearsRect(t *testing.T) {
	e, _ := newEditor(t, 50, 50)
	e.SetTool(ToolCrop)
	e.PointerDown(image.Pt(1, 1))
	e.PointerMove(image.Pt(10, 10))
	e.PointerUp(image.Pt(10, 10))
	e.SetTool(ToolSelect)
	if !e.Frame().Crop.Empty() {
		t.Fatalf("crop overlay shown outside the crop tool")
	}
	e.SetTool(ToolCrop)
	if !e.CropRect().Empty() {
		t.Fatalf("entering crop did not clear the rect")
	}
}

func TestBrushStrokeIsOneUndoStep(t *testing.T) {
	e, _ := newEditor(t, 40, 40, WithBrushColor(color.NRGBA{255, 0, 0, 255}), WithBrushSize(3))
	before := pixbuf.Clone(e.Document().Image())
	e.SetTool(ToolBrush)
	e.PointerDown(image.Pt(5, 5))
	e.PointerMove(image.Pt(20, 5))
	e.PointerMove(image.Pt(20, 30))
	e.PointerUp(image.Pt(20, 30))
	if got, _ := e.Document().PixelAt(image.Pt(20, 20)); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Fatalf("stroke missing, got %v", got)
	}
	if n := e.Document().History().UndoLen(); n != 1 {
		t.Fatalf("expected one undo entry, got %d", n)
	}
	e.Document().Undo()
	if !pixbuf.Equal(before, e.Document().Image()) {
		t.Fatalf("undo did not remove the stroke")
	}
}

func TestEraser(t *testing.T) {
	e, _ := newEditor(t, 60, 60, WithEraserSize(10))
	e.SetTool(ToolEraser)
	e.PointerDown(image.Pt(10, 30))
	e.PointerMove(image.Pt(50, 30))
	e.PointerUp(image.Pt(50, 30))
	if got, _ := e.Document().PixelAt(image.Pt(30, 30)); got.A != 0 {
		t.Fatalf("eraser left alpha %d", got.A)
	}
}

func TestSizeClamps(t *testing.T) {
	e, _ := newEditor(t, 4, 4, WithBrushSize(0), WithEraserSize(1000))
	if e.BrushSize() != MinBrushSize || e.EraserSize() != MaxEraserSize {
		t.Fatalf("options not clamped: %d %d", e.BrushSize(), e.EraserSize())
	}
	e.SetBrushSize(500)
	e.SetEraserSize(2)
	if e.BrushSize() != MaxBrushSize || e.EraserSize() != MinEraserSize {
		t.Fatalf("setters not clamped: %d %d", e.BrushSize(), e.EraserSize())
	}
	d, _ := newEditor(t, 4, 4)
	if d.BrushSize() != DefaultBrushSize || d.EraserSize() != DefaultEraserSize || d.BrushColor() != (color.NRGBA{0, 0, 0, 255}) {
		t.Fatalf("unexpected defaults")
	}
}

func TestTextTool(t *testing.T) {
	var asked image.Point
	prompt := TextPrompterFunc(func(at image.Point) (TextRequest, bool) {
		asked = at
		return TextRequest{Text: "hello", Font: annotate.Font{Size: 16}}, true
	})
	e, _ := newEditor(t, 200, 100, WithPrompter(prompt), WithBrushColor(color.NRGBA{0, 0, 255, 255}))
	e.Viewport().SetZoom(2)
	e.SetTool(ToolText)
	e.PointerDown(image.Pt(40, 60))
	if asked != image.Pt(20, 30) {
		t.Fatalf("prompted at %v", asked)
	}
	texts := e.Document().Texts()
	if len(texts) != 1 || texts[0].Pos != image.Pt(20, 30) || texts[0].Bounds.Min != image.Pt(20, 30) {
		t.Fatalf("unexpected texts %+v", texts)
	}
	if texts[0].Color != (color.NRGBA{0, 0, 255, 255}) {
		t.Fatalf("expected brush color fallback, got %v", texts[0].Color)
	}
	if e.Dragging() {
		t.Fatalf("text tool should not drag")
	}
}

func TestTextToolReportsFailure(t *testing.T) {
	prompt := TextPrompterFunc(func(image.Point) (TextRequest, bool) {
		return TextRequest{Text: "huge", Font: annotate.Font{Size: annotate.MaxSize * 2}}, true
	})
	e, rec := newEditor(t, 50, 50, WithPrompter(prompt))
	e.SetTool(ToolText)
	e.PointerDown(image.Pt(5, 5))
	if n := len(e.Document().Texts()); n != 0 {
		t.Fatalf("text placed despite error: %d items", n)
	}
	if got := rec.lastStatus(); !strings.HasPrefix(got, "text: ") || !strings.Contains(got, "out of range") {
		t.Fatalf("status = %q, want text error", got)
	}
}

func TestTextToolCancelAndBlank(t *testing.T) {
	answers := []struct {
		req TextRequest
		ok  bool
	}{{TextRequest{Text: "x"}, false}, {TextRequest{Text: "   "}, true}}
	i := 0
	prompt := TextPrompterFunc(func(image.Point) (TextRequest, bool) {
		a := answers[i]
		i++
		return a.req, a.ok
	})
	e, _ := newEditor(t, 50, 50, WithPrompter(prompt))
	e.SetTool(ToolText)
	e.PointerDown(image.Pt(5, 5))
	e.PointerDown(image.Pt(5, 5))
	if n := len(e.Document().Texts()); n != 0 {
		t.Fatalf("expected no text items, got %d", n)
	}
}

func TestSelectAndDelete(t *testing.T) {
	e, _ := newEditor(t, 200, 100)
	if _, err := e.Document().AddText("one", image.Pt(10, 10), annotate.Font{Size: 20}, color.NRGBA{A: 255}); err != nil {
		t.Fatalf("add text: %v", err)
	}
	e.SetTool(ToolSelect)
	e.PointerDown(image.Pt(12, 15))
	if e.Selected() != 0 || e.Frame().Selected != 0 {
		t.Fatalf("expected the item to be selected, got %d", e.Selected())
	}
	if !e.DeleteSelected() {
		t.Fatalf("delete failed")
	}
	if len(e.Document().Texts()) != 0 || e.Selected() != -1 {
		t.Fatalf("item not removed")
	}
	if e.DeleteSelected() {
		t.Fatalf("delete with nothing selected succeeded")
	}
}

func TestPipette(t *testing.T) {
	e, rec := newEditor(t, 10, 10)
	e.Document().SaveState()
	e.Document().PaintStroke(image.Pt(5, 5), image.Pt(5, 5), color.NRGBA{255, 0, 0, 255}, 3)
	e.SetTool(ToolPipette)
	e.PointerDown(image.Pt(5, 5))
	if len(rec.picks) != 1 || rec.picks[0].Color != (color.NRGBA{255, 0, 0, 255}) {
		t.Fatalf("unexpected picks %+v", rec.picks)
	}
	if !strings.HasPrefix(rec.lastStatus(), "picked #ff0000") {
		t.Fatalf("unexpected status %q", rec.lastStatus())
	}
}

func TestMoveReportsPosition(t *testing.T) {
	e, rec := newEditor(t, 10, 10)
	e.PointerMove(image.Pt(3, 4))
	if rec.lastStatus() != "position: 3, 4" {
		t.Fatalf("unexpected status %q", rec.lastStatus())
	}
	e.PointerUp(image.Pt(3, 4))
}

func TestWheelZoom(t *testing.T) {
	e, rec := newEditor(t, 10, 10)
	if e.Wheel(1, false) {
		t.Fatalf("wheel without ctrl should not zoom")
	}
	if !e.Wheel(1, true) || e.Viewport().Percent() != 125 {
		t.Fatalf("ctrl+wheel did not zoom in")
	}
	if rec.lastStatus() != "zoom 125%" {
		t.Fatalf("unexpected status %q", rec.lastStatus())
	}
	e.Wheel(-1, true)
	e.Wheel(-1, true)
	if e.Viewport().Percent() != 80 {
		t.Fatalf("unexpected zoom %d%%", e.Viewport().Percent())
	}
	e.ZoomFit(image.Pt(50, 100))
	if e.Viewport().Zoom != 5 {
		t.Fatalf("unexpected fit zoom %v", e.Viewport().Zoom)
	}
}

func TestParseTool(t *testing.T) {
	for _, tool := range Tools() {
		got, err := ParseTool(strings.ToUpper(tool.String()))
		if err != nil || got != tool {
			t.Errorf("ParseTool(%q) = %v, %v", tool, got, err)
		}
	}
	if _, err := ParseTool("lasso"); err == nil {
		t.Errorf("expected error")
	}
}
