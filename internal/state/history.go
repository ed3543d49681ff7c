package state

// History is a two-stack undo/redo over committed shapes. Shapes only move
// between the stacks; they are never modified.
type History struct {
	committed []Shape
	undone    []Shape
}

func NewHistory() *History {
	return &History{}
}

// Commit appends s to the visible shapes and drops the redo buffer.
func (h *History) Commit(s Shape) {
	h.committed = append(h.committed, s.Clone())
	h.undone = h.undone[:0]
}

// Undo moves the newest visible shape onto the redo stack.
func (h *History) Undo() bool {
	n := len(h.committed)
	if n == 0 {
		return false
	}
	s := h.committed[n-1]
	h.committed = h.committed[:n-1]
	h.undone = append(h.undone, s)
	return true
}

// Redo restores the most recently undone shape.
func (h *History) Redo() bool {
	n := len(h.undone)
	if n == 0 {
		return false
	}
	s := h.undone[n-1]
	h.undone = h.undone[:n-1]
	h.committed = append(h.committed, s)
	return true
}

// Clear empties both stacks.
func (h *History) Clear() {
	h.committed = nil
	h.undone = nil
}

// Shapes returns copies of the visible shapes, oldest first.
func (h *History) Shapes() []Shape {
	out := make([]Shape, len(h.committed))
	for i, s := range h.committed {
		out[i] = s.Clone()
	}
	return out
}

func (h *History) Len() int     { return len(h.committed) }
func (h *History) RedoLen() int { return len(h.undone) }
