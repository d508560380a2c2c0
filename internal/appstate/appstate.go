package appstate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/example/retouch/internal/annotate"
	"github.com/example/retouch/internal/document"
	"github.com/example/retouch/internal/palette"
	"github.com/example/retouch/internal/theme"
)

const (
	bottomHeight  = 24
	buttonHeight  = 24
	swatchSize    = 16
	swatchStep    = 18
	sizeRowHeight = 18
	panStep       = 20
)

var minToolbarWidth = 72

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

var (
	brushSizes  = []float64{1, 2, 5, 10, 20, 50, 100}
	eraserSizes = []float64{5, 10, 20, 50, 100, 200}
)

var toolLabels = []string{
	ToolSelect:  "V:Select",
	ToolCrop:    "C:Crop",
	ToolBrush:   "B:Brush",
	ToolEraser:  "E:Eraser",
	ToolText:    "T:Text",
	ToolPipette: "I:Pick",
}

// Clipboard exchanges images and picked colors with the desktop.
type Clipboard interface {
	ReadImage() (*image.NRGBA, error)
	WriteImage(img image.Image) error
	WriteText(text string) error
}

// Notifier is told about completed saves, copies and pastes.
type Notifier interface {
	Save(path string)
	Copy(detail string, img image.Image)
	Paste(size image.Point)
}

// AppState holds what the editor window needs to run.
type AppState struct {
	Doc       *document.Document
	Output    string
	SaveDir   string
	Theme     *theme.Theme
	Clipboard Clipboard
	Notifier  Notifier

	editorOpts []EditorOption
	updateCh   chan struct{}
	onClose    func()
	closeOnce  sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithDocument sets the document edited in the window.
func WithDocument(doc *document.Document) Option { return func(a *AppState) { a.Doc = doc } }

// WithOutput sets the file written by save.
func WithOutput(out string) Option { return func(a *AppState) { a.Output = out } }

// WithSaveDir sets where untitled images are saved.
func WithSaveDir(dir string) Option { return func(a *AppState) { a.SaveDir = dir } }

// WithTheme sets the window colors.
func WithTheme(th *theme.Theme) Option { return func(a *AppState) { a.Theme = th } }

// WithClipboard enables copy, paste and copying picked colors.
func WithClipboard(c Clipboard) Option { return func(a *AppState) { a.Clipboard = c } }

// WithNotifier reports saves, copies and pastes.
func WithNotifier(n Notifier) Option { return func(a *AppState) { a.Notifier = n } }

// WithEditorOptions configures the editor created for the window.
func WithEditorOptions(opts ...EditorOption) Option {
	return func(a *AppState) { a.editorOpts = append(a.editorOpts, opts...) }
}

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState with the provided options.
func New(opts ...Option) *AppState {
	a := &AppState{updateCh: make(chan struct{}, 1)}
	for _, o := range opts {
		o(a)
	}
	if a.Doc == nil {
		a.Doc = document.New()
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	return a
}

// NotifyImageChanged requests a repaint of the UI when the image mutates.
func (a *AppState) NotifyImageChanged() {
	if a.updateCh == nil {
		return
	}
	select {
	case a.updateCh <- struct{}{}:
	default:
	}
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// toolbarWidth fits the widest tool label.
func toolbarWidth() int {
	w := minToolbarWidth
	for _, l := range toolLabels {
		if lw := labelWidth(l) + 8; lw > w {
			w = lw
		}
	}
	return w
}

// layout is the geometry of one window state. It is a value so the event
// loop can hit test while the painter draws an older copy.
type layout struct {
	width, height int
	bar           int
	tools         []image.Rectangle
	swatches      []swatch
	sizes         []sizeOption
	shortcuts     []Shortcut
	canvas        image.Rectangle
	status        image.Rectangle
}

type statusMode int

const (
	statusNormal statusMode = iota
	statusCrop
	statusTyping
)

func sizeOptions(t Tool) []float64 {
	switch t {
	case ToolBrush:
		return brushSizes
	case ToolEraser:
		return eraserSizes
	case ToolText:
		return annotate.Sizes()
	}
	return nil
}

func computeLayout(width, height int, tool Tool, mode statusMode) layout {
	l := layout{width: width, height: height, bar: toolbarWidth()}
	l.canvas = image.Rect(l.bar, 0, width, height-bottomHeight)
	l.status = image.Rect(0, height-bottomHeight, width, height)

	y := 0
	for range toolLabels {
		l.tools = append(l.tools, image.Rect(0, y, l.bar, y+buttonHeight))
		y += buttonHeight
	}

	y += 4
	x := 4
	for _, e := range palette.Colors() {
		if x+swatchSize > l.bar {
			x = 4
			y += swatchStep
		}
		l.swatches = append(l.swatches, swatch{entry: e, rect: image.Rect(x, y, x+swatchSize, y+swatchSize)})
		x += swatchStep
	}
	y += swatchStep + 4

	for _, v := range sizeOptions(tool) {
		l.sizes = append(l.sizes, sizeOption{value: v, rect: image.Rect(0, y, l.bar, y+sizeRowHeight)})
		y += sizeRowHeight
	}

	var hints []Shortcut
	switch mode {
	case statusTyping:
		hints = []Shortcut{{label: "Enter:place", action: "textdone"}, {label: "Esc:cancel", action: "textcancel"}}
	case statusCrop:
		hints = []Shortcut{{label: "Enter:crop", action: "crop"}, {label: "Esc:cancel", action: "cropcancel"}}
	}
	hints = append(hints,
		Shortcut{label: "^Z:undo", action: "undo"},
		Shortcut{label: "^Y:redo", action: "redo"},
		Shortcut{label: "^S:save", action: "save"},
		Shortcut{label: "^C:copy", action: "copy"},
		Shortcut{label: "^V:paste", action: "paste"},
		Shortcut{label: "F:fit", action: "fit"},
		Shortcut{label: "Q:quit", action: "quit"},
	)
	x = 4
	for _, h := range hints {
		w := labelWidth(h.label) + 8
		h.rect = image.Rect(x, l.status.Min.Y+3, x+w, l.status.Max.Y-3)
		l.shortcuts = append(l.shortcuts, h)
		x += w + 4
	}
	return l
}

type hitKind int

const (
	hitNone hitKind = iota
	hitTool
	hitSwatch
	hitSize
	hitShortcut
	hitCanvas
)

// hit reports which element of l contains p and its index.
func (l layout) hit(p image.Point) (hitKind, int) {
	if p.In(l.status) {
		for i, s := range l.shortcuts {
			if p.In(s.rect) {
				return hitShortcut, i
			}
		}
		return hitNone, -1
	}
	if p.In(l.canvas) {
		return hitCanvas, -1
	}
	for i, r := range l.tools {
		if p.In(r) {
			return hitTool, i
		}
	}
	for i, s := range l.swatches {
		if p.In(s.rect) {
			return hitSwatch, i
		}
	}
	for i, s := range l.sizes {
		if p.In(s.rect) {
			return hitSize, i
		}
	}
	return hitNone, -1
}

// chrome is what the painter needs besides the canvas frame.
type chrome struct {
	layout     layout
	tool       Tool
	brushColor color.NRGBA
	size       float64
	hoverKind  hitKind
	hoverIdx   int
	status     string
}

// drawChrome paints the toolbar and status bar around the canvas.
func drawChrome(dst *image.RGBA, c chrome, tools []*CacheButton, th *theme.Theme) {
	l := c.layout
	draw.Draw(dst, image.Rect(0, 0, l.bar, l.status.Min.Y), image.NewUniform(th.ToolbarBackground), image.Point{}, draw.Src)

	for i, cb := range tools {
		if i >= len(l.tools) {
			break
		}
		cb.SetRect(l.tools[i])
		state := StateDefault
		if Tool(i) == c.tool {
			state = StatePressed
		} else if c.hoverKind == hitTool && c.hoverIdx == i {
			state = StateHover
		}
		cb.Draw(dst, state, th)
	}

	for i, s := range l.swatches {
		col := color.RGBA{s.entry.Color.R, s.entry.Color.G, s.entry.Color.B, 255}
		draw.Draw(dst, s.rect, image.NewUniform(col), image.Point{}, draw.Src)
		if s.entry.Color == c.brushColor {
			outline(dst, s.rect.Inset(-1), th.SelectionOutline)
		} else if c.hoverKind == hitSwatch && c.hoverIdx == i {
			outline(dst, s.rect, th.ButtonBorder)
		}
	}

	for i, o := range l.sizes {
		state := StateDefault
		if o.value == c.size {
			state = StatePressed
		} else if c.hoverKind == hitSize && c.hoverIdx == i {
			state = StateHover
		}
		draw.Draw(dst, o.rect, image.NewUniform(buttonFill(th, state)), image.Point{}, draw.Src)
		drawLabel(dst, o.rect, o.label(), th.ButtonText)
		if c.tool == ToolBrush {
			h := int(o.value)
			if h > o.rect.Dy()-6 {
				h = o.rect.Dy() - 6
			}
			mid := o.rect.Min.Y + o.rect.Dy()/2
			bar := image.Rect(o.rect.Min.X+32, mid-h/2, o.rect.Max.X-4, mid-h/2+max(h, 1))
			draw.Draw(dst, bar, image.NewUniform(c.brushColor), image.Point{}, draw.Over)
		}
	}

	draw.Draw(dst, l.status, image.NewUniform(th.StatusBackground), image.Point{}, draw.Src)
	x := l.status.Min.X + 4
	for i := range l.shortcuts {
		sc := &l.shortcuts[i]
		state := StateDefault
		if c.hoverKind == hitShortcut && c.hoverIdx == i {
			state = StateHover
		}
		sc.Draw(dst, state, th)
		x = sc.rect.Max.X + 8
	}
	drawLabel(dst, image.Rect(x, l.status.Min.Y, l.width, l.status.Max.Y), c.status, th.StatusText)
}

func statusLine(ed *Editor, message string) string {
	s := fmt.Sprintf("%s  %d%%", ed.Tool(), ed.Viewport().Percent())
	if ed.Document().Modified() {
		s += "  *"
	}
	if message != "" {
		s += "  " + message
	}
	return s
}
