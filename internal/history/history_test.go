package history

import (
	"image"
	"image/color"
	"testing"

	"github.com/example/retouch/internal/pixbuf"
)

func marker(v uint8) *image.NRGBA {
	return pixbuf.Filled(1, 1, color.NRGBA{v, 0, 0, 255})
}

func value(img *image.NRGBA) uint8 { return img.Pix[0] }

func TestUndoRedoSymmetry(t *testing.T) {
	m := New(0)
	if m.Limit() != DefaultLimit {
		t.Fatalf("expected default limit, got %d", m.Limit())
	}
	cur := marker(0)
	m.Save(cur)
	cur = marker(1)

	prev, ok := m.Undo(cur)
	if !ok || value(prev) != 0 {
		t.Fatalf("undo returned %v %v", prev, ok)
	}
	next, ok := m.Redo(prev)
	if !ok || value(next) != 1 {
		t.Fatalf("redo returned %v %v", next, ok)
	}
	if !m.CanUndo() || m.CanRedo() {
		t.Fatalf("unexpected stack state undo=%d redo=%d", m.UndoLen(), m.RedoLen())
	}
}

func TestSaveClearsRedo(t *testing.T) {
	m := New(5)
	m.Save(marker(0))
	if _, ok := m.Undo(marker(1)); !ok {
		t.Fatalf("expected undo")
	}
	if !m.CanRedo() {
		t.Fatalf("expected redo entry")
	}
	m.Save(marker(2))
	if m.CanRedo() {
		t.Fatalf("save did not clear redo")
	}
}

func TestLimitEvictsOldest(t *testing.T) {
	m := New(50)
	cur := marker(0)
	for i := 1; i <= 60; i++ {
		m.Save(cur)
		cur = marker(uint8(i))
	}
	if m.UndoLen() != 50 {
		t.Fatalf("expected 50 entries, got %d", m.UndoLen())
	}
	for i := 0; i < 50; i++ {
		prev, ok := m.Undo(cur)
		if !ok {
			t.Fatalf("undo %d failed", i)
		}
		cur = prev
	}
	if value(cur) != 10 {
		t.Fatalf("expected state after op 10, got %d", value(cur))
	}
	if _, ok := m.Undo(cur); ok {
		t.Fatalf("expected empty undo stack")
	}
}

func TestSnapshotsAreCopies(t *testing.T) {
	m := New(3)
	img := marker(7)
	m.Save(img)
	img.Pix[0] = 99
	prev, _ := m.Undo(img)
	if value(prev) != 7 {
		t.Fatalf("snapshot aliases the live buffer")
	}
}

func TestEmptyStacksAreNoops(t *testing.T) {
	m := New(3)
	if _, ok := m.Undo(marker(1)); ok {
		t.Fatalf("undo on empty stack succeeded")
	}
	if _, ok := m.Redo(marker(1)); ok {
		t.Fatalf("redo on empty stack succeeded")
	}
	m.Save(nil)
	if m.CanUndo() {
		t.Fatalf("saving an empty image created an entry")
	}
	m.Save(marker(1))
	m.Clear()
	if m.CanUndo() || m.CanRedo() {
		t.Fatalf("clear left entries behind")
	}
}
