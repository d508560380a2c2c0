package appstate

import (
	"errors"
	"image"
	"image/color"
	"strings"

	"github.com/example/retouch/internal/annotate"
	"github.com/example/retouch/internal/document"
	"github.com/example/retouch/internal/palette"
	"github.com/example/retouch/internal/render"
)

const (
	DefaultBrushSize  = 5
	MinBrushSize      = 1
	MaxBrushSize      = 100
	DefaultEraserSize = 20
	MinEraserSize     = 5
	MaxEraserSize     = 200
)

// ErrNoCropRegion is returned by ApplyCrop when nothing has been selected.
var ErrNoCropRegion = errors.New("no crop region selected")

// TextRequest is the text, font and color chosen for a new text item. Zero
// font size and zero color fall back to the editor's current settings.
type TextRequest struct {
	Text  string
	Font  annotate.Font
	Color color.NRGBA
}

// TextPrompter asks the user for the text to place at an image point. It
// returns false when the user cancels.
type TextPrompter interface {
	PromptText(at image.Point) (TextRequest, bool)
}

// TextPrompterFunc adapts a function to TextPrompter.
type TextPrompterFunc func(at image.Point) (TextRequest, bool)

func (f TextPrompterFunc) PromptText(at image.Point) (TextRequest, bool) { return f(at) }

// Editor turns pointer, key and wheel input into document edits according to
// the active tool. Pointer positions are in screen coordinates and are mapped
// through the editor's viewport.
type Editor struct {
	doc  *document.Document
	view *Viewport

	tool       Tool
	dragging   bool
	last       image.Point
	cropOrigin image.Point
	cropRect   image.Rectangle
	selected   int

	brushSize  int
	brushColor color.NRGBA
	eraserSize int
	textSize   float64
	prompter   TextPrompter
}

// EditorOption configures an Editor.
type EditorOption func(*Editor)

// WithPrompter sets the collaborator asked for text by the text tool.
func WithPrompter(p TextPrompter) EditorOption { return func(e *Editor) { e.prompter = p } }

// WithBrushSize sets the initial brush width.
func WithBrushSize(n int) EditorOption { return func(e *Editor) { e.brushSize = n } }

// WithBrushColor sets the initial brush and text color.
func WithBrushColor(c color.NRGBA) EditorOption { return func(e *Editor) { e.brushColor = c } }

// WithEraserSize sets the initial eraser width.
func WithEraserSize(n int) EditorOption { return func(e *Editor) { e.eraserSize = n } }

// WithTextSize sets the point size used for new text items.
func WithTextSize(s float64) EditorOption { return func(e *Editor) { e.textSize = s } }

// WithTool selects the initial tool.
func WithTool(t Tool) EditorOption { return func(e *Editor) { e.tool = t } }

// NewEditor attaches an editor to doc.
func NewEditor(doc *document.Document, opts ...EditorOption) *Editor {
	e := &Editor{
		doc:        doc,
		view:       NewViewport(),
		selected:   -1,
		brushSize:  DefaultBrushSize,
		brushColor: color.NRGBA{0, 0, 0, 255},
		eraserSize: DefaultEraserSize,
		textSize:   annotate.DefaultSize,
	}
	for _, o := range opts {
		o(e)
	}
	e.brushSize = clampInt(e.brushSize, MinBrushSize, MaxBrushSize)
	e.eraserSize = clampInt(e.eraserSize, MinEraserSize, MaxEraserSize)
	if e.textSize <= 0 {
		e.textSize = annotate.DefaultSize
	}
	doc.Subscribe(e.onDocumentEvent)
	return e
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (e *Editor) onDocumentEvent(ev document.Event) {
	switch ev.(type) {
	case document.ImageChanged:
		e.cropRect = e.cropRect.Intersect(e.doc.Bounds())
		if e.selected >= len(e.doc.Texts()) {
			e.selected = -1
		}
	case document.TextChanged:
		if e.selected >= len(e.doc.Texts()) {
			e.selected = -1
		}
	}
}

func (e *Editor) Document() *document.Document { return e.doc }
func (e *Editor) Viewport() *Viewport          { return e.view }
func (e *Editor) Tool() Tool                   { return e.tool }
func (e *Editor) Dragging() bool               { return e.dragging }
func (e *Editor) CropRect() image.Rectangle    { return e.cropRect }
func (e *Editor) Selected() int                { return e.selected }
func (e *Editor) BrushSize() int               { return e.brushSize }
func (e *Editor) BrushColor() color.NRGBA      { return e.brushColor }
func (e *Editor) EraserSize() int              { return e.eraserSize }
func (e *Editor) TextSize() float64            { return e.textSize }

// SetTool switches tools, ending any drag. Entering the crop tool clears the
// previous crop rectangle.
func (e *Editor) SetTool(t Tool) {
	e.dragging = false
	e.tool = t
	if t == ToolCrop {
		e.cropRect = image.Rectangle{}
	}
}

func (e *Editor) SetBrushSize(n int)         { e.brushSize = clampInt(n, MinBrushSize, MaxBrushSize) }
func (e *Editor) SetEraserSize(n int)        { e.eraserSize = clampInt(n, MinEraserSize, MaxEraserSize) }
func (e *Editor) SetBrushColor(c color.NRGBA) { e.brushColor = c }

func (e *Editor) SetTextSize(s float64) {
	if s > 0 {
		e.textSize = s
	}
}

// PointerDown starts the active tool's gesture. Presses outside the image are
// ignored.
func (e *Editor) PointerDown(screen image.Point) {
	if !e.doc.HasImage() {
		return
	}
	p := e.view.ToImage(screen)
	if !p.In(e.doc.Bounds()) {
		return
	}
	switch e.tool {
	case ToolSelect:
		e.selected = annotate.HitTest(e.doc.Texts(), p)
	case ToolCrop:
		e.cropOrigin = p
		e.cropRect = image.Rectangle{Min: p, Max: p}
		e.dragging = true
	case ToolBrush, ToolEraser:
		e.doc.SaveState()
		e.last = p
		e.dragging = true
	case ToolText:
		if e.prompter == nil {
			return
		}
		req, ok := e.prompter.PromptText(p)
		if !ok {
			return
		}
		if err := e.PlaceText(p, req); err != nil {
			e.doc.Status("text: %v", err)
		}
	case ToolPipette:
		if c, ok := e.doc.Pick(p); ok {
			e.doc.Status("picked %s", palette.Describe(c))
		}
	}
}

// PointerMove reports the pointer position and continues a drag.
func (e *Editor) PointerMove(screen image.Point) {
	if !e.doc.HasImage() {
		return
	}
	p := e.view.ToImage(screen)
	if p.In(e.doc.Bounds()) {
		e.doc.Status("position: %d, %d", p.X, p.Y)
	}
	if !e.dragging {
		return
	}
	switch e.tool {
	case ToolCrop:
		// Both the pixel where the drag started and the one under the
		// pointer are part of the region.
		r := image.Rectangle{Min: e.cropOrigin, Max: p}.Canon()
		r.Max = r.Max.Add(image.Pt(1, 1))
		e.cropRect = r
	case ToolBrush:
		e.doc.PaintStroke(e.last, p, e.brushColor, e.brushSize)
		e.last = p
	case ToolEraser:
		e.doc.EraseStroke(e.last, p, e.eraserSize)
		e.last = p
	}
}

// PointerUp ends a drag. The crop rectangle is clipped to the image.
func (e *Editor) PointerUp(screen image.Point) {
	if !e.dragging {
		return
	}
	e.dragging = false
	if e.tool == ToolCrop {
		e.cropRect = e.cropRect.Intersect(e.doc.Bounds())
	}
}

// PlaceText adds a text item at p, filling unset fields of req from the
// current text size and brush color. Blank text is ignored.
func (e *Editor) PlaceText(p image.Point, req TextRequest) error {
	if strings.TrimSpace(req.Text) == "" {
		return nil
	}
	if req.Font.Size <= 0 {
		req.Font.Size = e.textSize
	}
	if req.Color == (color.NRGBA{}) {
		req.Color = e.brushColor
	}
	_, err := e.doc.AddText(req.Text, p, req.Font, req.Color)
	return err
}

// ApplyCrop crops the document to the current crop rectangle.
func (e *Editor) ApplyCrop() error {
	if e.tool != ToolCrop || e.cropRect.Empty() {
		e.doc.Status("drag a crop region first")
		return ErrNoCropRegion
	}
	r := e.cropRect
	e.cropRect = image.Rectangle{}
	return e.doc.Crop(r)
}

// CancelCrop discards the crop rectangle.
func (e *Editor) CancelCrop() {
	e.dragging = false
	e.cropRect = image.Rectangle{}
}

// DeleteSelected removes the selected text item.
func (e *Editor) DeleteSelected() bool {
	if e.selected < 0 {
		return false
	}
	ok := e.doc.RemoveText(e.selected)
	e.selected = -1
	return ok
}

// Wheel zooms when ctrl is held. It reports whether the event was consumed.
func (e *Editor) Wheel(delta int, ctrl bool) bool {
	if !ctrl || delta == 0 {
		return false
	}
	if delta > 0 {
		e.ZoomIn()
	} else {
		e.ZoomOut()
	}
	return true
}

func (e *Editor) ZoomIn()       { e.view.ZoomIn(); e.zoomChanged() }
func (e *Editor) ZoomOut()      { e.view.ZoomOut(); e.zoomChanged() }
func (e *Editor) ZoomOriginal() { e.view.ZoomOriginal(); e.zoomChanged() }

// ZoomFit fits the image into an area of size avail.
func (e *Editor) ZoomFit(avail image.Point) {
	e.view.ZoomFit(avail, e.doc.Size())
	e.zoomChanged()
}

func (e *Editor) zoomChanged() {
	e.doc.Status("zoom %d%%", e.view.Percent())
}

// Frame captures what the canvas should show right now.
func (e *Editor) Frame() render.Frame {
	f := render.Frame{
		Image:    e.doc.Display(),
		Texts:    e.doc.Texts(),
		Zoom:     e.view.Zoom,
		Origin:   e.view.Origin,
		Selected: e.selected,
	}
	if e.tool == ToolCrop {
		f.Crop = e.cropRect
	}
	return f
}
