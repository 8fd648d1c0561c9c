package chunk

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// ID is a handle into a Graph. Neighbor links are IDs rather than pointers so
// the graph may contain cycles without any ownership question.
type ID uint32

// NoChunk is the zero ID and means "no chunk", e.g. an unset neighbor slot.
const NoChunk ID = 0

// Rect is an axis-aligned rectangle in world units. The origin is at the
// top-left, with Y increasing downward.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W &&
		y >= r.Y && y <= r.Y+r.H
}

// Intersects reports whether r and other overlap.
// Rectangles sharing only an edge do not intersect.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.W &&
		r.X+r.W > other.X &&
		r.Y < other.Y+other.H &&
		r.Y+r.H > other.Y
}

// Center returns the rectangle's midpoint.
func (r Rect) Center() mgl64.Vec2 {
	return mgl64.Vec2{r.X + r.W/2, r.Y + r.H/2}
}

// Offset returns r translated by v.
func (r Rect) Offset(v mgl64.Vec2) Rect {
	return Rect{X: r.X + v.X(), Y: r.Y + v.Y(), W: r.W, H: r.H}
}

// Chunk is one rectangular world region. Chunks are created by a Manager,
// never destroyed, and toggled active or inactive by traversal.
type Chunk struct {
	id       ID
	prefab   *Prefab
	position mgl64.Vec2

	active      bool
	initialized bool
	queued      bool
	lastVisit   uint64

	neighbors [4]ID
}

// ID returns the chunk's handle.
func (c *Chunk) ID() ID { return c.id }

// Prefab returns the authored prefab the chunk was instantiated from.
func (c *Chunk) Prefab() *Prefab { return c.prefab }

// Position returns the chunk's world-space center.
func (c *Chunk) Position() mgl64.Vec2 { return c.position }

// Bounds returns the chunk's world-space extent, centered on Position.
func (c *Chunk) Bounds() Rect {
	size := c.prefab.Size
	return Rect{
		X: c.position.X() - size.X()/2,
		Y: c.position.Y() - size.Y()/2,
		W: size.X(),
		H: size.Y(),
	}
}

// Active reports whether the chunk is visible and simulating.
func (c *Chunk) Active() bool { return c.active }

// Initialized reports whether the chunk has spawned its neighbors.
func (c *Chunk) Initialized() bool { return c.initialized }

// LastVisit returns the manager tick on which the chunk was last evaluated,
// or 0 if it never was.
func (c *Chunk) LastVisit() uint64 { return c.lastVisit }

// Neighbor returns the chunk linked on side d, or NoChunk.
func (c *Chunk) Neighbor(d Direction) ID {
	if !d.Valid() {
		return NoChunk
	}
	return c.neighbors[d]
}

// LinkNeighbor sets the neighbor on side d if that side is still unset.
// Later calls for the same side are no-ops; it reports whether the link was
// made. Both endpoints must be linked for a usable edge.
func (c *Chunk) LinkNeighbor(d Direction, other ID) bool {
	if !d.Valid() {
		panic(fmt.Sprintf("chunk: link on invalid side %v", d))
	}
	if other == NoChunk || other == c.id || c.neighbors[d] != NoChunk {
		return false
	}
	c.neighbors[d] = other
	return true
}

func (c *Chunk) String() string {
	return fmt.Sprintf("chunk#%d(%s @ %.1f,%.1f)", c.id, c.prefab.Name, c.position.X(), c.position.Y())
}

// Graph is the flat registry of every chunk spawned so far. Chunk records are
// stored by pointer so a *Chunk stays valid while the registry grows.
type Graph struct {
	chunks []*Chunk
	at     map[mgl64.Vec2]ID
}

// Get returns the chunk for id, or nil if id is NoChunk or unknown.
func (g *Graph) Get(id ID) *Chunk {
	if id == NoChunk || int(id) > len(g.chunks) {
		return nil
	}
	return g.chunks[id-1]
}

// Len returns the number of chunks in the registry.
func (g *Graph) Len() int {
	return len(g.chunks)
}

// At returns the chunk placed at pos, if any.
func (g *Graph) At(pos mgl64.Vec2) (ID, bool) {
	id, ok := g.at[pos]
	return id, ok
}

// Each calls fn for every chunk in spawn order.
func (g *Graph) Each(fn func(c *Chunk)) {
	for _, c := range g.chunks {
		fn(c)
	}
}

func (g *Graph) add(p *Prefab, at mgl64.Vec2) *Chunk {
	c := &Chunk{
		id:       ID(len(g.chunks) + 1),
		prefab:   p,
		position: at,
	}
	g.chunks = append(g.chunks, c)
	if g.at == nil {
		g.at = make(map[mgl64.Vec2]ID)
	}
	if _, taken := g.at[at]; !taken {
		g.at[at] = c.id
	}
	return c
}
