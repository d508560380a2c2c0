package appstate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"

	"github.com/example/retouch/internal/palette"
	"github.com/example/retouch/internal/theme"
)

// KeyShortcut describes a keyboard combination that triggers an action.
// Either Rune or Code is set.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button is a drawable UI element. Hit testing is done by the window against
// the layout, so buttons only know how to paint themselves.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState, th *theme.Theme)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
}

// CacheButton wraps another Button and caches its rendered states.
type CacheButton struct {
	Button
	cache [3]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState, th *theme.Theme) {
	if cb.cache[state] == nil {
		rect := cb.Button.Rect()
		img := image.NewRGBA(rect)
		cb.Button.Draw(img, state, th)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) Rect() image.Rectangle { return cb.Button.Rect() }

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [3]*image.RGBA{}
	}
}

func buttonFill(th *theme.Theme, state ButtonState) color.RGBA {
	switch state {
	case StateHover:
		return th.ButtonBackgroundHover
	case StatePressed:
		return th.ButtonBackgroundPress
	}
	return th.ButtonBackground
}

func drawLabel(dst *image.RGBA, r image.Rectangle, label string, col color.RGBA) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: basicfont.Face7x13,
		Dot: fixed.P(r.Min.X+4, r.Min.Y+(r.Dy()+10)/2)}
	d.DrawString(label)
}

func labelWidth(label string) int {
	d := &font.Drawer{Face: basicfont.Face7x13}
	return d.MeasureString(label).Ceil()
}

// ToolButton selects a tool from the toolbar.
type ToolButton struct {
	label string
	tool  Tool
	rect  image.Rectangle
}

func (tb *ToolButton) Draw(dst *image.RGBA, state ButtonState, th *theme.Theme) {
	draw.Draw(dst, tb.rect, image.NewUniform(buttonFill(th, state)), image.Point{}, draw.Src)
	drawLabel(dst, tb.rect, tb.label, th.ButtonText)
}

func (tb *ToolButton) Rect() image.Rectangle { return tb.rect }

func (tb *ToolButton) SetRect(r image.Rectangle) { tb.rect = r }

// Shortcut is a clickable hint in the status bar.
type Shortcut struct {
	label  string
	action string
	rect   image.Rectangle
}

func (s *Shortcut) Draw(dst *image.RGBA, state ButtonState, th *theme.Theme) {
	draw.Draw(dst, s.rect, image.NewUniform(buttonFill(th, state)), image.Point{}, draw.Src)
	outline(dst, s.rect, th.ButtonBorder)
	drawLabel(dst, s.rect, s.label, th.ButtonText)
}

func (s *Shortcut) Rect() image.Rectangle { return s.rect }

func (s *Shortcut) SetRect(r image.Rectangle) { s.rect = r }

// swatch is a palette entry in the toolbar.
type swatch struct {
	entry palette.Entry
	rect  image.Rectangle
}

// sizeOption is a brush, eraser or text size row in the toolbar.
type sizeOption struct {
	value float64
	rect  image.Rectangle
}

func (o sizeOption) label() string {
	return fmt.Sprintf("%g", o.value)
}

func outline(dst *image.RGBA, r image.Rectangle, c color.RGBA) {
	u := image.NewUniform(c)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
}
