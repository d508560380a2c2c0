// Package history keeps bounded undo and redo stacks of image snapshots.
package history

import (
	"image"

	"github.com/example/retouch/internal/pixbuf"
)

// DefaultLimit is the number of undo steps kept when no limit is configured.
const DefaultLimit = 50

// Manager stores full image snapshots. The oldest undo entry is dropped once
// the limit is exceeded and any new save clears the redo stack.
type Manager struct {
	limit int
	undo  []*image.NRGBA
	redo  []*image.NRGBA
}

// New returns a manager keeping at most limit undo entries. Non-positive
// limits select DefaultLimit.
func New(limit int) *Manager {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Manager{limit: limit}
}

// Limit returns the maximum number of undo entries.
func (m *Manager) Limit() int { return m.limit }

// Save records a copy of img as the state to return to on undo.
func (m *Manager) Save(img *image.NRGBA) {
	if pixbuf.IsEmpty(img) {
		return
	}
	m.undo = append(m.undo, pixbuf.Clone(img))
	if over := len(m.undo) - m.limit; over > 0 {
		for i := 0; i < over; i++ {
			m.undo[i] = nil
		}
		m.undo = append(m.undo[:0], m.undo[over:]...)
	}
	m.clearRedo()
}

// Undo pops the latest snapshot and pushes current onto the redo stack. It
// returns false when there is nothing to undo.
func (m *Manager) Undo(current *image.NRGBA) (*image.NRGBA, bool) {
	if len(m.undo) == 0 {
		return nil, false
	}
	prev := m.undo[len(m.undo)-1]
	m.undo[len(m.undo)-1] = nil
	m.undo = m.undo[:len(m.undo)-1]
	if !pixbuf.IsEmpty(current) {
		m.redo = append(m.redo, pixbuf.Clone(current))
	}
	return prev, true
}

// Redo pops the latest redo snapshot and pushes current onto the undo stack.
func (m *Manager) Redo(current *image.NRGBA) (*image.NRGBA, bool) {
	if len(m.redo) == 0 {
		return nil, false
	}
	next := m.redo[len(m.redo)-1]
	m.redo[len(m.redo)-1] = nil
	m.redo = m.redo[:len(m.redo)-1]
	if !pixbuf.IsEmpty(current) {
		m.undo = append(m.undo, pixbuf.Clone(current))
	}
	return next, true
}

func (m *Manager) CanUndo() bool { return len(m.undo) > 0 }
func (m *Manager) CanRedo() bool { return len(m.redo) > 0 }
func (m *Manager) UndoLen() int  { return len(m.undo) }
func (m *Manager) RedoLen() int  { return len(m.redo) }

// Clear drops both stacks.
func (m *Manager) Clear() {
	m.undo = nil
	m.redo = nil
}

func (m *Manager) clearRedo() {
	for i := range m.redo {
		m.redo[i] = nil
	}
	m.redo = m.redo[:0]
}
