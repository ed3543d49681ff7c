package state

import (
	"image/color"
	"reflect"
	"testing"
)

func testShape(id string, pts ...Point) Shape {
	return Shape{ID: id, Tool: ToolFreehand, Points: pts, Color: color.NRGBA{R: 255, A: 255}, Width: 4}
}

func TestHistory_UndoRedoRoundTrip(t *testing.T) {
	h := NewHistory()
	h.Commit(testShape("a", Point{1, 1}))
	h.Commit(testShape("b", Point{2, 2}, Point{3, 3}))
	h.Commit(testShape("c", Point{4, 4}))

	before := h.Shapes()
	for i := 0; i < 3; i++ {
		if !h.Undo() {
			t.Fatalf("undo %d returned false", i)
		}
	}
	for i := 0; i < 3; i++ {
		if !h.Redo() {
			t.Fatalf("redo %d returned false", i)
		}
	}
	if got := h.Shapes(); !reflect.DeepEqual(got, before) {
		t.Errorf("after undo/redo got %+v, want %+v", got, before)
	}
}

func TestHistory_EmptyStacks(t *testing.T) {
	h := NewHistory()
	if h.Undo() {
		t.Error("Undo on empty history returned true")
	}
	if h.Redo() {
		t.Error("Redo on empty history returned true")
	}
}

func TestHistory_CommitDropsRedo(t *testing.T) {
	h := NewHistory()
	h.Commit(testShape("a", Point{1, 1}))
	h.Commit(testShape("b", Point{2, 2}))
	h.Undo()
	if h.RedoLen() != 1 {
		t.Fatalf("RedoLen %d, want 1", h.RedoLen())
	}
	h.Commit(testShape("c", Point{3, 3}))
	if h.RedoLen() != 0 {
		t.Errorf("RedoLen %d after commit, want 0", h.RedoLen())
	}
	if h.Redo() {
		t.Error("Redo after new commit returned true")
	}
	got := h.Shapes()
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Errorf("shapes %+v, want [a c]", got)
	}
}

func TestHistory_ClearEmptiesBothStacks(t *testing.T) {
	h := NewHistory()
	h.Commit(testShape("a", Point{1, 1}))
	h.Commit(testShape("b", Point{2, 2}))
	h.Undo()
	h.Clear()
	if h.Len() != 0 || h.RedoLen() != 0 {
		t.Errorf("Len=%d RedoLen=%d after Clear, want 0/0", h.Len(), h.RedoLen())
	}
	if h.Redo() {
		t.Error("Redo after Clear returned true")
	}
}

func TestHistory_ShapesAreCopies(t *testing.T) {
	h := NewHistory()
	pts := []Point{{1, 1}, {2, 2}}
	h.Commit(testShape("a", pts...))
	pts[0] = Point{99, 99}

	got := h.Shapes()
	got[0].Points[1] = Point{50, 50}
	again := h.Shapes()
	if again[0].Points[0] != (Point{1, 1}) || again[0].Points[1] != (Point{2, 2}) {
		t.Errorf("committed points changed: %+v", again[0].Points)
	}
}

func TestParseTool(t *testing.T) {
	for _, tool := range Tools {
		got, ok := ParseTool(tool.String())
		if !ok || got != tool {
			t.Errorf("ParseTool(%q) = %v, %v", tool.String(), got, ok)
		}
	}
	if _, ok := ParseTool("eraser"); ok {
		t.Error("ParseTool(eraser) should fail")
	}
	if ToolArrow.Title() != "Arrow" {
		t.Errorf("Title %q, want Arrow", ToolArrow.Title())
	}
}

func TestNewShapeID(t *testing.T) {
	before := CommitCount()
	a, b := NewShapeID(), NewShapeID()
	if a == "" || a == b {
		t.Errorf("ids %q and %q should be unique and non-empty", a, b)
	}
	if CommitCount() != before+2 {
		t.Errorf("CommitCount %d, want %d", CommitCount(), before+2)
	}
}
