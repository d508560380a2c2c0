package pixbuf

import (
	"image"
	"image/color"
	"testing"
)

func TestFromImageRebasesOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 20, 14, 23))
	src.Set(10, 20, color.RGBA{255, 0, 0, 255})
	got := FromImage(src)
	if got.Rect != image.Rect(0, 0, 4, 3) {
		t.Fatalf("unexpected bounds %v", got.Rect)
	}
	if c := got.NRGBAAt(0, 0); c != (color.NRGBA{255, 0, 0, 255}) {
		t.Fatalf("unexpected pixel %v", c)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	src := Filled(3, 3, color.NRGBA{10, 20, 30, 255})
	cp := Clone(src)
	cp.SetNRGBA(1, 1, color.NRGBA{})
	if src.NRGBAAt(1, 1) != (color.NRGBA{10, 20, 30, 255}) {
		t.Fatalf("clone shares pixels with source")
	}
	if Equal(src, cp) {
		t.Fatalf("expected buffers to differ")
	}
}

func TestCloneOfSubImage(t *testing.T) {
	src := Filled(4, 4, color.NRGBA{1, 2, 3, 255})
	src.SetNRGBA(2, 2, color.NRGBA{9, 9, 9, 9})
	sub := src.SubImage(image.Rect(2, 2, 4, 4)).(*image.NRGBA)
	cp := Clone(sub)
	if cp.Rect != image.Rect(0, 0, 2, 2) {
		t.Fatalf("unexpected bounds %v", cp.Rect)
	}
	if cp.NRGBAAt(0, 0) != (color.NRGBA{9, 9, 9, 9}) {
		t.Fatalf("unexpected pixel %v", cp.NRGBAAt(0, 0))
	}
}

func TestEmpty(t *testing.T) {
	if !IsEmpty(nil) || !IsEmpty(New(0, 5)) {
		t.Fatalf("expected empty buffers")
	}
	if Clone(nil) != nil || FromImage(nil) != nil {
		t.Fatalf("expected nil results for empty input")
	}
	if Size(nil) != (image.Point{}) {
		t.Fatalf("expected zero size")
	}
}

func TestClamp(t *testing.T) {
	cases := map[int]uint8{-5: 0, 0: 0, 128: 128, 255: 255, 300: 255}
	for in, want := range cases {
		if got := Clamp(in); got != want {
			t.Errorf("Clamp(%d) = %d, want %d", in, got, want)
		}
	}
}
