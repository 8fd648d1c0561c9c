package hollowreach

import (
	"github.com/phanxgames/hollowreach/chunk"
)

// nodeIDCounter is a plain counter (no atomic, the scene is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is a display element: a colored world-space rectangle with children.
// Chunks and their solids are mirrored into nodes; an invisible node hides
// its whole subtree.
type Node struct {
	ID   uint32
	Name string

	Parent   *Node
	children []*Node

	// Bounds is the node's extent in world units.
	Bounds  chunk.Rect
	Color   Color
	Visible bool
	// Outline draws only the border of Bounds.
	Outline bool

	UserData any

	disposed bool
}

// NewNode creates a visible node.
func NewNode(name string, bounds chunk.Rect, c Color) *Node {
	return &Node{
		ID:      nextNodeID(),
		Name:    name,
		Bounds:  bounds,
		Color:   c,
		Visible: true,
	}
}

// NewContainer creates a node with no extent of its own.
func NewContainer(name string) *Node {
	return NewNode(name, chunk.Rect{}, Color{})
}

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil, disposed, or an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("hollowreach: cannot add nil child")
	}
	if child.disposed || n.disposed {
		panic("hollowreach: AddChild on disposed node")
	}
	if isAncestor(child, n) {
		panic("hollowreach: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("hollowreach: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.UserData = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// EffectivelyVisible reports whether the node and all its ancestors are
// visible.
func (n *Node) EffectivelyVisible() bool {
	for p := n; p != nil; p = p.Parent {
		if !p.Visible {
			return false
		}
	}
	return true
}

// Walk calls fn for n and every visible descendant, parents before children.
// Invisible subtrees are skipped.
func (n *Node) Walk(fn func(*Node)) {
	if !n.Visible {
		return
	}
	fn(n)
	for _, child := range n.children {
		child.Walk(fn)
	}
}

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}
