package paint

import (
	"image"
	"image/color"
	"testing"

	"github.com/example/retouch/internal/pixbuf"
)

func TestStrokePaintsAlongSegment(t *testing.T) {
	dst := pixbuf.Filled(40, 40, color.NRGBA{255, 255, 255, 255})
	Stroke(dst, image.Pt(5, 20), image.Pt(35, 20), 5, color.NRGBA{0, 0, 0, 255})
	for _, x := range []int{5, 20, 35} {
		if got := dst.NRGBAAt(x, 20); got != (color.NRGBA{0, 0, 0, 255}) {
			t.Errorf("pixel (%d,20) = %v, want black", x, got)
		}
	}
	if got := dst.NRGBAAt(20, 5); got != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("pixel far from the stroke changed: %v", got)
	}
}

func TestStrokeHasRoundCaps(t *testing.T) {
	dst := pixbuf.Filled(40, 40, color.NRGBA{255, 255, 255, 255})
	Stroke(dst, image.Pt(10, 20), image.Pt(30, 20), 9, color.NRGBA{0, 0, 0, 255})
	// the cap extends past the end point by half the width
	if got := dst.NRGBAAt(7, 20); got.R > 10 {
		t.Errorf("expected cap before start, got %v", got)
	}
	if got := dst.NRGBAAt(7, 16); got.R < 200 {
		t.Errorf("expected rounded corner to stay light, got %v", got)
	}
}

func TestStrokeDot(t *testing.T) {
	dst := pixbuf.Filled(20, 20, color.NRGBA{255, 255, 255, 255})
	r := Stroke(dst, image.Pt(10, 10), image.Pt(10, 10), 6, color.NRGBA{255, 0, 0, 255})
	if r.Empty() {
		t.Fatalf("expected a dirty rectangle")
	}
	if got := dst.NRGBAAt(10, 10); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Fatalf("unexpected pixel %v", got)
	}
}

func TestStrokeClipsToImage(t *testing.T) {
	dst := pixbuf.Filled(10, 10, color.NRGBA{255, 255, 255, 255})
	r := Stroke(dst, image.Pt(-5, -5), image.Pt(2, 2), 3, color.NRGBA{0, 0, 0, 255})
	if !r.In(dst.Bounds()) {
		t.Fatalf("dirty rect %v outside image", r)
	}
	if got := dst.NRGBAAt(1, 1); got.R > 10 {
		t.Fatalf("expected stroke to reach (1,1), got %v", got)
	}
}

func TestEraseClearsAlpha(t *testing.T) {
	dst := pixbuf.Filled(30, 30, color.NRGBA{200, 100, 50, 255})
	Erase(dst, image.Pt(5, 15), image.Pt(25, 15), 8)
	if got := dst.NRGBAAt(15, 15); got != (color.NRGBA{}) {
		t.Fatalf("expected cleared pixel, got %v", got)
	}
	if got := dst.NRGBAAt(15, 2); got.A != 255 {
		t.Fatalf("pixel away from the eraser lost alpha: %v", got)
	}
}

func TestEraseOnlyLowersAlpha(t *testing.T) {
	dst := pixbuf.Filled(30, 30, color.NRGBA{10, 20, 30, 180})
	before := pixbuf.Clone(dst)
	Erase(dst, image.Pt(3, 3), image.Pt(26, 20), 5)
	for i := 3; i < len(dst.Pix); i += 4 {
		if dst.Pix[i] > before.Pix[i] {
			t.Fatalf("alpha increased at byte %d", i)
		}
	}
}
