package hollowreach

import (
	"testing"

	"github.com/phanxgames/hollowreach/chunk"
)

func TestNewNodeDefaults(t *testing.T) {
	n := NewNode("n", chunk.Rect{X: 1, Y: 2, W: 3, H: 4}, ColorWhite)
	if !n.Visible {
		t.Error("new nodes should be visible")
	}
	if n.Parent != nil || n.NumChildren() != 0 {
		t.Error("new nodes should be detached and childless")
	}
	if n.Bounds.W != 3 || n.Color != ColorWhite {
		t.Errorf("node = %+v", n)
	}
}

func TestUniqueIDs(t *testing.T) {
	a := NewContainer("a")
	b := NewContainer("b")
	c := NewNode("c", chunk.Rect{}, ColorBlack)
	if a.ID == b.ID || b.ID == c.ID || a.ID == c.ID {
		t.Errorf("IDs should be unique: %d, %d, %d", a.ID, b.ID, c.ID)
	}
}

// --- AddChild ---

func TestAddChildBasic(t *testing.T) {
	parent := NewContainer("parent")
	child := NewContainer("child")
	parent.AddChild(child)

	if child.Parent != parent {
		t.Error("child.Parent should be parent")
	}
	if parent.NumChildren() != 1 || parent.Children()[0] != child {
		t.Errorf("Children = %v", parent.Children())
	}
}

func TestAddChildReparent(t *testing.T) {
	p1 := NewContainer("p1")
	p2 := NewContainer("p2")
	child := NewContainer("child")

	p1.AddChild(child)
	p2.AddChild(child)
	if p1.NumChildren() != 0 {
		t.Error("p1 should have 0 children after reparent")
	}
	if p2.NumChildren() != 1 || child.Parent != p2 {
		t.Error("child should belong to p2")
	}
}

func TestAddChildPanics(t *testing.T) {
	parent := NewContainer("parent")
	child := NewContainer("child")
	grandchild := NewContainer("grandchild")
	parent.AddChild(child)
	child.AddChild(grandchild)
	disposed := NewContainer("disposed")
	disposed.Dispose()

	tests := []struct {
		name string
		fn   func()
	}{
		{"cycle", func() { grandchild.AddChild(parent) }},
		{"self", func() { parent.AddChild(parent) }},
		{"nil", func() { parent.AddChild(nil) }},
		{"disposed", func() { parent.AddChild(disposed) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Errorf("expected panic for %s, got none", tt.name)
				}
			}()
			tt.fn()
		})
	}
}

// --- RemoveChild ---

func TestRemoveChild(t *testing.T) {
	parent := NewContainer("parent")
	a := NewContainer("a")
	b := NewContainer("b")
	parent.AddChild(a)
	parent.AddChild(b)

	parent.RemoveChild(a)
	if a.Parent != nil {
		t.Error("removed child should have no parent")
	}
	if parent.NumChildren() != 1 || parent.Children()[0] != b {
		t.Errorf("Children = %v", parent.Children())
	}
}

func TestRemoveChildWrongParentPanic(t *testing.T) {
	p1 := NewContainer("p1")
	p2 := NewContainer("p2")
	child := NewContainer("child")
	p1.AddChild(child)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic removing a child of another node")
		}
	}()
	p2.RemoveChild(child)
}

func TestRemoveFromParentNoOp(t *testing.T) {
	n := NewContainer("orphan")
	n.RemoveFromParent()
	if n.Parent != nil {
		t.Error("orphan should stay detached")
	}
}

func TestDispose(t *testing.T) {
	parent := NewContainer("parent")
	n := NewContainer("n")
	child := NewContainer("child")
	parent.AddChild(n)
	n.AddChild(child)
	n.UserData = chunk.ID(3)

	n.Dispose()
	if !n.IsDisposed() || !child.IsDisposed() {
		t.Error("node and descendants should be disposed")
	}
	if parent.NumChildren() != 0 {
		t.Error("disposed node should be removed from its parent")
	}
	if n.ID != 0 || n.UserData != nil {
		t.Errorf("disposed node kept ID %d / UserData %v", n.ID, n.UserData)
	}
	n.Dispose()
}

// --- Visibility ---

func TestEffectivelyVisible(t *testing.T) {
	root := NewContainer("root")
	mid := NewContainer("mid")
	leaf := NewContainer("leaf")
	root.AddChild(mid)
	mid.AddChild(leaf)

	if !leaf.EffectivelyVisible() {
		t.Fatal("leaf should be visible")
	}
	mid.Visible = false
	if leaf.EffectivelyVisible() {
		t.Error("hidden ancestor should hide leaf")
	}
}

func TestWalkSkipsInvisibleSubtrees(t *testing.T) {
	root := NewContainer("root")
	shown := NewContainer("shown")
	hidden := NewContainer("hidden")
	under := NewContainer("under")
	root.AddChild(shown)
	root.AddChild(hidden)
	hidden.AddChild(under)
	hidden.Visible = false

	var names []string
	root.Walk(func(n *Node) { names = append(names, n.Name) })
	if len(names) != 2 || names[0] != "root" || names[1] != "shown" {
		t.Errorf("walked %v, want [root shown]", names)
	}
}
