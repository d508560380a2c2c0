package appstate

import (
	"context"
	"fmt"
	"image"
	"log"
	"path/filepath"
	"sync"
	"unicode"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/retouch/internal/annotate"
	"github.com/example/retouch/internal/codec"
	"github.com/example/retouch/internal/document"
	"github.com/example/retouch/internal/filter"
	"github.com/example/retouch/internal/palette"
	"github.com/example/retouch/internal/render"
	"github.com/example/retouch/internal/theme"
)

// window is the editor state owned by the event loop. Everything here is
// touched only from that goroutine; the painter receives copies.
type window struct {
	app *AppState
	ed  *Editor
	doc *document.Document

	width, height int
	message       string
	confirmQuit   bool
	hoverKind     hitKind
	hoverIdx      int

	typing  bool
	typed   []rune
	typedAt image.Point

	actions map[string]func()
	keys    map[KeyShortcut]string
	quit    bool
}

func newWindow(a *AppState, width, height int) *window {
	w := &window{
		app:      a,
		doc:      a.Doc,
		width:    width,
		height:   height,
		hoverIdx: -1,
	}
	opts := append([]EditorOption{WithPrompter(TextPrompterFunc(w.startTyping))}, a.editorOpts...)
	w.ed = NewEditor(a.Doc, opts...)
	a.Doc.Subscribe(w.onDocumentEvent)
	w.registerActions()
	w.fit()
	return w
}

func (w *window) onDocumentEvent(ev document.Event) {
	switch e := ev.(type) {
	case document.StatusMessage:
		w.message = e.Text
	case document.PixelPicked:
		w.ed.SetBrushColor(e.Color)
		palette.Ensure(e.Color, palette.Hex(e.Color))
		if w.app.Clipboard != nil {
			if err := w.app.Clipboard.WriteText(palette.Hex(e.Color)); err != nil {
				log.Printf("copy color: %v", err)
			}
		}
	}
	w.app.NotifyImageChanged()
}

func (w *window) startTyping(at image.Point) (TextRequest, bool) {
	w.typing = true
	w.typed = w.typed[:0]
	w.typedAt = at
	return TextRequest{}, false
}

func (w *window) layout() layout {
	mode := statusNormal
	switch {
	case w.typing:
		mode = statusTyping
	case w.ed.Tool() == ToolCrop:
		mode = statusCrop
	}
	return computeLayout(w.width, w.height, w.ed.Tool(), mode)
}

// fit zooms the image to the canvas and centers it.
func (w *window) fit() {
	c := w.layout().canvas
	w.ed.ZoomFit(c.Size())
	w.center()
}

func (w *window) center() {
	c := w.layout().canvas
	v := w.ed.Viewport()
	sz := w.doc.Size()
	scaled := image.Pt(int(float64(sz.X)*v.Zoom), int(float64(sz.Y)*v.Zoom))
	v.Origin = c.Min.Add(c.Size().Sub(scaled).Div(2))
	if v.Origin.X > c.Min.X+c.Dx()/2 || v.Origin.X < c.Min.X-scaled.X {
		v.Origin.X = c.Min.X
	}
	if v.Origin.Y > c.Min.Y+c.Dy()/2 || v.Origin.Y < c.Min.Y-scaled.Y {
		v.Origin.Y = c.Min.Y
	}
}

func (w *window) flash(format string, args ...any) {
	w.message = fmt.Sprintf(format, args...)
	log.Print(w.message)
}

func (w *window) register(name string, keys KeyboardShortcuts, fn func()) {
	w.actions[name] = fn
	if keys == nil {
		return
	}
	for _, sc := range keys.KeyboardShortcuts() {
		w.keys[sc] = name
	}
}

func (w *window) registerActions() {
	w.actions = map[string]func(){}
	w.keys = map[KeyShortcut]string{}
	ctrl := key.ModControl

	w.register("undo", shortcutList{{Rune: 'z', Modifiers: ctrl}}, func() {
		if !w.doc.Undo() {
			w.flash("nothing to undo")
		}
	})
	w.register("redo", shortcutList{{Rune: 'y', Modifiers: ctrl}}, func() {
		if !w.doc.Redo() {
			w.flash("nothing to redo")
		}
	})
	w.register("save", shortcutList{{Rune: 's', Modifiers: ctrl}}, w.save)
	w.register("copy", shortcutList{{Rune: 'c', Modifiers: ctrl}}, w.copyImage)
	w.register("paste", shortcutList{{Rune: 'v', Modifiers: ctrl}}, w.paste)
	w.register("zoomin", shortcutList{{Rune: '+'}, {Rune: '='}}, w.zoom(w.ed.ZoomIn))
	w.register("zoomout", shortcutList{{Rune: '-'}}, w.zoom(w.ed.ZoomOut))
	w.register("zoom100", shortcutList{{Rune: '0'}}, w.zoom(w.ed.ZoomOriginal))
	w.register("fit", shortcutList{{Rune: 'f'}}, w.fit)
	w.register("crop", shortcutList{{Code: key.CodeReturnEnter}}, func() {
		if err := w.ed.ApplyCrop(); err == nil {
			w.fit()
		} else if err != ErrNoCropRegion {
			w.flash("crop: %v", err)
		}
	})
	w.register("cropcancel", shortcutList{{Code: key.CodeEscape}}, w.ed.CancelCrop)
	w.register("delete", shortcutList{{Code: key.CodeDeleteForward}, {Code: key.CodeDeleteBackspace}}, func() {
		w.ed.DeleteSelected()
	})
	w.register("rotateleft", shortcutList{{Rune: '['}}, w.transform(w.doc.RotateLeft))
	w.register("rotateright", shortcutList{{Rune: ']'}}, w.transform(w.doc.RotateRight))
	w.register("fliph", shortcutList{{Rune: 'h'}}, w.transform(w.doc.FlipHorizontal))
	w.register("flipv", shortcutList{{Rune: 'j'}}, w.transform(w.doc.FlipVertical))
	w.register("filter", shortcutList{{Rune: 'l'}}, w.cycleFilter)
	w.register("weaker", shortcutList{{Rune: ','}}, func() { w.nudgeIntensity(-10) })
	w.register("stronger", shortcutList{{Rune: '.'}}, func() { w.nudgeIntensity(10) })
	brightness := func() int { return w.doc.Params().Brightness }
	contrast := func() int { return w.doc.Params().Contrast }
	saturation := func() int { return w.doc.Params().Saturation }
	w.register("darker", shortcutList{{Code: key.CodeF5}}, func() { w.nudgeParam(brightness, w.doc.SetBrightness, -10) })
	w.register("brighter", shortcutList{{Code: key.CodeF6}}, func() { w.nudgeParam(brightness, w.doc.SetBrightness, 10) })
	w.register("flatter", shortcutList{{Code: key.CodeF7}}, func() { w.nudgeParam(contrast, w.doc.SetContrast, -10) })
	w.register("punchier", shortcutList{{Code: key.CodeF8}}, func() { w.nudgeParam(contrast, w.doc.SetContrast, 10) })
	w.register("duller", shortcutList{{Code: key.CodeF9}}, func() { w.nudgeParam(saturation, w.doc.SetSaturation, -10) })
	w.register("vivid", shortcutList{{Code: key.CodeF10}}, func() { w.nudgeParam(saturation, w.doc.SetSaturation, 10) })
	w.register("reset", shortcutList{{Rune: 'r'}}, func() {
		w.doc.ResetAdjustments()
		w.doc.ApplyFilter(filter.None)
		w.flash("adjustments reset")
	})
	w.register("quit", shortcutList{{Rune: 'q'}}, func() {
		if w.doc.Modified() && !w.confirmQuit {
			w.confirmQuit = true
			w.flash("unsaved changes, press Q again to quit")
			return
		}
		w.quit = true
	})
	w.register("textdone", nil, w.finishTyping)
	w.register("textcancel", nil, func() { w.typing = false })

	for i, r := range []rune{'v', 'c', 'b', 'e', 't', 'i'} {
		t := Tool(i)
		w.register("tool:"+t.String(), shortcutList{{Rune: r}}, func() { w.ed.SetTool(t) })
	}
}

func (w *window) zoom(fn func()) func() {
	return func() {
		fn()
		w.center()
	}
}

func (w *window) transform(fn func() error) func() {
	return func() {
		if err := fn(); err != nil {
			w.flash("%v", err)
			return
		}
		w.fit()
	}
}

func (w *window) cycleFilter() {
	kinds := filter.Kinds()
	next := kinds[(int(w.doc.Filter().Kind)+1)%len(kinds)]
	w.doc.ApplyFilter(next)
	w.flash("filter %s", next)
}

func (w *window) nudgeIntensity(delta int) {
	w.doc.SetFilterIntensity(w.doc.Filter().Intensity + delta)
	w.flash("intensity %d%%", w.doc.Filter().Intensity)
}

// nudgeParam moves one adjustment by delta within 0..200.
func (w *window) nudgeParam(get func() int, set func(int), delta int) {
	v := get() + delta
	if v < 0 {
		v = 0
	}
	if v > 200 {
		v = 200
	}
	set(v)
	p := w.doc.Params()
	w.flash("brightness %d, contrast %d, saturation %d", p.Brightness, p.Contrast, p.Saturation)
}

func (w *window) outputPath() string {
	if w.app.Output != "" {
		return w.app.Output
	}
	return filepath.Join(w.app.SaveDir, "untitled.png")
}

func (w *window) save() {
	img, err := w.doc.ImageForExport()
	if err != nil {
		log.Printf("save: %v", err)
		return
	}
	path := w.outputPath()
	if err := codec.Save(path, img); err != nil {
		log.Printf("save: %v", err)
		w.message = "save failed"
		return
	}
	w.doc.SetModified(false)
	w.confirmQuit = false
	w.flash("saved %s", path)
	if w.app.Notifier != nil {
		w.app.Notifier.Save(path)
	}
}

func (w *window) copyImage() {
	if w.app.Clipboard == nil {
		return
	}
	img, err := w.doc.ImageForExport()
	if err != nil {
		log.Printf("copy: %v", err)
		return
	}
	if err := w.app.Clipboard.WriteImage(img); err != nil {
		log.Printf("copy: %v", err)
		return
	}
	w.flash("image copied to clipboard")
	if w.app.Notifier != nil {
		w.app.Notifier.Copy("", img)
	}
}

func (w *window) paste() {
	if w.app.Clipboard == nil {
		return
	}
	img, err := w.app.Clipboard.ReadImage()
	if err != nil {
		log.Printf("paste: %v", err)
		return
	}
	if err := w.doc.LoadImage(img); err != nil {
		log.Printf("paste: %v", err)
		return
	}
	w.doc.SetModified(true)
	w.fit()
	w.flash("pasted %dx%d image", img.Bounds().Dx(), img.Bounds().Dy())
	if w.app.Notifier != nil {
		w.app.Notifier.Paste(w.doc.Size())
	}
}

func (w *window) finishTyping() {
	w.typing = false
	if err := w.ed.PlaceText(w.typedAt, TextRequest{Text: string(w.typed)}); err != nil {
		w.flash("text: %v", err)
	}
}

// trigger runs a named action and reports whether it exists.
func (w *window) trigger(name string) bool {
	fn, ok := w.actions[name]
	if ok {
		fn()
	}
	return ok
}

// handleKey processes a key press. It reports whether the frame changed.
func (w *window) handleKey(e key.Event) bool {
	if e.Direction != key.DirPress {
		return false
	}
	if w.typing {
		switch e.Code {
		case key.CodeReturnEnter:
			w.trigger("textdone")
		case key.CodeEscape:
			w.trigger("textcancel")
		case key.CodeDeleteBackspace:
			if len(w.typed) > 0 {
				w.typed = w.typed[:len(w.typed)-1]
			}
		default:
			if e.Rune > 0 && unicode.IsPrint(e.Rune) {
				w.typed = append(w.typed, e.Rune)
			}
		}
		return true
	}
	mods := e.Modifiers & key.ModControl
	name, ok := w.keys[KeyShortcut{Rune: unicode.ToLower(e.Rune), Modifiers: mods}]
	if !ok {
		name, ok = w.keys[KeyShortcut{Code: e.Code, Modifiers: mods}]
	}
	if !ok {
		if w.pan(e.Code) {
			return true
		}
		return false
	}
	if name != "quit" {
		w.confirmQuit = false
	}
	return w.trigger(name)
}

func (w *window) pan(code key.Code) bool {
	v := w.ed.Viewport()
	switch code {
	case key.CodeLeftArrow:
		v.Origin.X += panStep
	case key.CodeRightArrow:
		v.Origin.X -= panStep
	case key.CodeUpArrow:
		v.Origin.Y += panStep
	case key.CodeDownArrow:
		v.Origin.Y -= panStep
	default:
		return false
	}
	return true
}

// handleMouse processes pointer input. It reports whether the frame changed.
func (w *window) handleMouse(e mouse.Event) bool {
	p := image.Pt(int(e.X), int(e.Y))
	l := w.layout()
	kind, idx := l.hit(p)

	if e.Button.IsWheel() {
		if e.Direction != mouse.DirStep {
			return false
		}
		delta := 1
		if e.Button == mouse.ButtonWheelDown {
			delta = -1
		}
		if w.ed.Wheel(delta, e.Modifiers&key.ModControl != 0) {
			w.center()
			return true
		}
		w.ed.Viewport().Origin.Y += delta * panStep
		return true
	}

	// drags continue outside the canvas
	if w.ed.Dragging() && e.Direction != mouse.DirPress {
		switch e.Direction {
		case mouse.DirNone:
			w.ed.PointerMove(p)
		case mouse.DirRelease:
			w.ed.PointerUp(p)
		}
		return true
	}

	hoverChanged := kind != w.hoverKind || idx != w.hoverIdx
	w.hoverKind, w.hoverIdx = kind, idx
	if e.Direction == mouse.DirNone {
		if kind == hitCanvas {
			w.ed.PointerMove(p)
			return true
		}
		return hoverChanged
	}
	if e.Button != mouse.ButtonLeft || e.Direction != mouse.DirPress {
		return hoverChanged
	}

	switch kind {
	case hitTool:
		w.typing = false
		w.ed.SetTool(Tool(idx))
	case hitSwatch:
		c := l.swatches[idx].entry
		w.ed.SetBrushColor(c.Color)
		w.flash("color %s", c.Name)
	case hitSize:
		v := l.sizes[idx].value
		switch w.ed.Tool() {
		case ToolBrush:
			w.ed.SetBrushSize(int(v))
		case ToolEraser:
			w.ed.SetEraserSize(int(v))
		case ToolText:
			w.ed.SetTextSize(v)
		}
	case hitShortcut:
		w.trigger(l.shortcuts[idx].action)
	case hitCanvas:
		if w.typing {
			w.finishTyping()
		}
		w.ed.PointerDown(p)
	default:
		return hoverChanged
	}
	return true
}

func (w *window) currentSize() float64 {
	switch w.ed.Tool() {
	case ToolBrush:
		return float64(w.ed.BrushSize())
	case ToolEraser:
		return float64(w.ed.EraserSize())
	case ToolText:
		return w.ed.TextSize()
	}
	return 0
}

type paintState struct {
	frame  render.Frame
	chrome chrome
}

func (w *window) paintState() paintState {
	f := w.ed.Frame()
	f.Shadow = render.DefaultShadowOptions()
	if w.typing {
		it, err := annotate.NewItem(string(w.typed), w.typedAt, annotate.Font{Size: w.ed.TextSize()}, w.ed.BrushColor())
		if err == nil {
			f.Pending = &it
		}
	}
	return paintState{
		frame: f,
		chrome: chrome{
			layout:     w.layout(),
			tool:       w.ed.Tool(),
			brushColor: w.ed.BrushColor(),
			size:       w.currentSize(),
			hoverKind:  w.hoverKind,
			hoverIdx:   w.hoverIdx,
			status:     statusLine(w.ed, w.message),
		},
	}
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// Main opens the editor window on s and runs its event loop until the window
// closes or the user quits.
func (a *AppState) Main(s screen.Screen) {
	defer a.notifyClose()

	width, height := 1024, 768
	if sz := a.Doc.Size(); sz.X > 0 {
		width = min(max(sz.X+toolbarWidth(), 640), 1600)
		height = min(max(sz.Y+bottomHeight, 480), 1000)
	}
	title := "Retouch"
	if a.Output != "" {
		title = "Retouch - " + filepath.Base(a.Output)
	}
	sw, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: title})
	if err != nil {
		log.Printf("new window: %v", err)
		return
	}
	defer sw.Release()

	w := newWindow(a, width, height)
	sized := false

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-a.updateCh:
				sw.Send(paint.Event{})
			case <-done:
				return
			}
		}
	}()

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	defer close(paintCh)
	go func() {
		tools := make([]*CacheButton, len(toolLabels))
		for i, l := range toolLabels {
			tools[i] = &CacheButton{Button: &ToolButton{label: l, tool: Tool(i)}}
		}
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, sw, st, tools, a.Theme)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()

	stop := func() {
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
	}

	for {
		switch e := sw.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				stop()
				return
			}
		case size.Event:
			w.width, w.height = e.WidthPx, e.HeightPx
			if !sized {
				sized = true
				w.fit()
			}
			sw.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := w.paintState()
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			if w.handleMouse(e) {
				sw.Send(paint.Event{})
			}
		case key.Event:
			if w.handleKey(e) {
				sw.Send(paint.Event{})
			}
			if w.quit {
				stop()
				return
			}
		}
	}
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState, tools []*CacheButton, th *theme.Theme) {
	sz := image.Pt(st.chrome.layout.width, st.chrome.layout.height)
	if sz.X <= 0 || sz.Y <= 0 {
		return
	}
	b, err := s.NewBuffer(sz)
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	canvas := b.RGBA().SubImage(st.chrome.layout.canvas).(*image.RGBA)
	if !render.Compose(ctx, canvas, st.frame, th) {
		return
	}
	drawChrome(b.RGBA(), st.chrome, tools, th)
	if ctx.Err() != nil {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
