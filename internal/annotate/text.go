// Package annotate renders the text items placed on a document.
package annotate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultSize is the point size used when a font does not name one.
const DefaultSize = 20

// MaxSize is the largest point size a face is built for.
const MaxSize = 4096

var sizes = []float64{12, 16, 20, 24, 32, 48}

var (
	fontOnce sync.Once
	fontErr  error
	regular  *opentype.Font
	faces    sync.Map // map[float64]*lockedFace
)

// lockedFace serialises use of a cached face. A font.Face keeps glyph
// buffers internally and must not be used by two goroutines at once.
type lockedFace struct {
	mu   sync.Mutex
	face font.Face
}

// Font describes how an item is typeset.
type Font struct {
	Size float64
}

// Item is a piece of text anchored at Pos in image coordinates. Bounds is the
// measured text box with its top-left corner at Pos.
type Item struct {
	Text   string
	Pos    image.Point
	Font   Font
	Color  color.NRGBA
	Bounds image.Rectangle
}

// Sizes returns the preset point sizes offered by the editor.
func Sizes() []float64 {
	out := make([]float64, len(sizes))
	copy(out, sizes)
	return out
}

// NewItem builds an item and measures its bounds.
func NewItem(text string, pos image.Point, f Font, col color.NRGBA) (Item, error) {
	it := Item{Text: text, Pos: pos, Font: f, Color: col}
	w, h, _, err := Measure(text, f.Size)
	if err != nil {
		return Item{}, err
	}
	it.Bounds = image.Rect(pos.X, pos.Y, pos.X+w, pos.Y+h)
	return it, nil
}

// MoveTo returns a copy of it anchored at p with its bounds moved along.
func (it Item) MoveTo(p image.Point) Item {
	it.Bounds = it.Bounds.Add(p.Sub(it.Pos))
	it.Pos = p
	return it
}

func face(size float64) (*lockedFace, error) {
	if size <= 0 {
		size = DefaultSize
	}
	if math.IsNaN(size) || math.IsInf(size, 0) || size > MaxSize {
		return nil, fmt.Errorf("text size %v out of range", size)
	}
	fontOnce.Do(func() {
		regular, fontErr = opentype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fmt.Errorf("parse font: %w", fontErr)
	}
	key := math.Round(size*100) / 100
	if f, ok := faces.Load(key); ok {
		return f.(*lockedFace), nil
	}
	f, err := opentype.NewFace(regular, &opentype.FaceOptions{Size: key, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	actual, _ := faces.LoadOrStore(key, &lockedFace{face: f})
	return actual.(*lockedFace), nil
}

// Measure returns the bounding box of text at size. baseline is the offset
// from the top of the box to the text baseline.
func Measure(text string, size float64) (width, height, baseline int, err error) {
	lf, err := face(size)
	if err != nil {
		return 0, 0, 0, err
	}
	lf.mu.Lock()
	defer lf.mu.Unlock()
	d := &font.Drawer{Face: lf.face}
	width = d.MeasureString(text).Ceil()
	m := lf.face.Metrics()
	baseline = m.Ascent.Ceil()
	height = baseline + m.Descent.Ceil()
	return width, height, baseline, nil
}

// Draw renders it onto dst with its top-left corner at it.Pos.
func Draw(dst draw.Image, it Item) error {
	lf, err := face(it.Font.Size)
	if err != nil {
		return err
	}
	lf.mu.Lock()
	defer lf.mu.Unlock()
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(it.Color),
		Face: lf.face,
		Dot:  fixed.P(it.Pos.X, it.Pos.Y+lf.face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(it.Text)
	return nil
}

// DrawAll renders items in order, later items on top.
func DrawAll(dst draw.Image, items []Item) error {
	for _, it := range items {
		if err := Draw(dst, it); err != nil {
			return err
		}
	}
	return nil
}

// HitTest returns the index of the topmost item whose bounds contain p, or -1.
func HitTest(items []Item, p image.Point) int {
	for i := len(items) - 1; i >= 0; i-- {
		if p.In(items[i].Bounds) {
			return i
		}
	}
	return -1
}
