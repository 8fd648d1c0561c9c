// Package physics is the collision oracle the chunk system consumes. It only
// answers two questions: does a solid body occupy a rectangle, and did the
// player's body begin overlapping a chunk's trigger volume.
package physics

import (
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/phanxgames/hollowreach/chunk"
	"github.com/solarlune/resolv"
)

// Object tags used in the resolv space.
const (
	TagSolid = "solid"
	TagProbe = "probe"
)

// Config configures an Oracle.
type Config struct {
	// Log receives warnings about bodies placed outside the space. If nil,
	// slog.Default() is used.
	Log *slog.Logger
	// Origin is the world position mapped to the center of the space.
	Origin mgl64.Vec2
	// SpaceSize is the width and height of the collision space in world
	// units. Solids outside it never collide. Defaults to 2048.
	SpaceSize int
	// CellSize is the broad-phase cell size in world units. Defaults to 8.
	CellSize int
}

type trigger struct {
	bounds  chunk.Rect
	enabled bool
	inside  bool
	solids  []*resolv.Object
}

// Oracle wraps a resolv space holding chunk solids, plus one trigger volume
// per chunk. Queries move a single probe object around the space.
type Oracle struct {
	log    *slog.Logger
	space  *resolv.Space
	origin mgl64.Vec2
	half   float64

	probe *resolv.Object

	triggers map[chunk.ID]*trigger
	order    []chunk.ID
}

// New creates an Oracle with an empty space.
func New(conf Config) *Oracle {
	if conf.Log == nil {
		conf.Log = slog.Default()
	}
	if conf.SpaceSize <= 0 {
		conf.SpaceSize = 2048
	}
	if conf.CellSize <= 0 {
		conf.CellSize = 8
	}
	o := &Oracle{
		log:      conf.Log,
		space:    resolv.NewSpace(conf.SpaceSize, conf.SpaceSize, conf.CellSize, conf.CellSize),
		origin:   conf.Origin,
		half:     float64(conf.SpaceSize) / 2,
		probe:    resolv.NewObject(0, 0, 1, 1, TagProbe),
		triggers: make(map[chunk.ID]*trigger),
	}
	o.space.Add(o.probe)
	return o
}

// toSpace converts a world rectangle into space coordinates.
func (o *Oracle) toSpace(r chunk.Rect) chunk.Rect {
	return chunk.Rect{
		X: r.X - o.origin.X() + o.half,
		Y: r.Y - o.origin.Y() + o.half,
		W: r.W,
		H: r.H,
	}
}

func (o *Oracle) inSpace(r chunk.Rect) bool {
	size := 2 * o.half
	return r.X >= 0 && r.Y >= 0 && r.X+r.W <= size && r.Y+r.H <= size
}

func objectRect(obj *resolv.Object) chunk.Rect {
	return chunk.Rect{X: obj.X, Y: obj.Y, W: obj.W, H: obj.H}
}

// AddTrigger registers a trigger volume for chunk id. Triggers start
// disabled.
func (o *Oracle) AddTrigger(id chunk.ID, r chunk.Rect) {
	if _, ok := o.triggers[id]; ok {
		return
	}
	o.triggers[id] = &trigger{bounds: r}
	o.order = append(o.order, id)
}

// AddChunk registers c's trigger volume and its prefab's solids. Both are
// enabled only while the chunk is active.
func (o *Oracle) AddChunk(c *chunk.Chunk) {
	if _, ok := o.triggers[c.ID()]; ok {
		return
	}
	bounds := c.Bounds()
	o.AddTrigger(c.ID(), bounds)
	tr := o.triggers[c.ID()]
	for _, s := range c.Prefab().Solids {
		world := s.Offset(mgl64.Vec2{bounds.X, bounds.Y})
		sp := o.toSpace(world)
		if !o.inSpace(sp) {
			o.log.Warn("solid outside collision space, it will not collide", "chunk", c.ID(), "rect", world)
		}
		obj := resolv.NewObject(sp.X, sp.Y, sp.W, sp.H, TagSolid)
		obj.Data = c.ID()
		tr.solids = append(tr.solids, obj)
	}
	o.SetTriggerEnabled(c.ID(), c.Active())
}

// SetTriggerEnabled turns chunk id's trigger and solids on or off. Disabled
// triggers raise no events and disabled solids do not collide.
func (o *Oracle) SetTriggerEnabled(id chunk.ID, enabled bool) {
	tr, ok := o.triggers[id]
	if !ok || tr.enabled == enabled {
		return
	}
	tr.enabled = enabled
	if enabled {
		o.space.Add(tr.solids...)
		return
	}
	tr.inside = false
	o.space.Remove(tr.solids...)
}

// TriggerEnabled reports whether chunk id's trigger raises events.
func (o *Oracle) TriggerEnabled(id chunk.ID) bool {
	tr, ok := o.triggers[id]
	return ok && tr.enabled
}

// AddSolid adds a free-standing solid in world coordinates.
func (o *Oracle) AddSolid(r chunk.Rect) {
	sp := o.toSpace(r)
	o.space.Add(resolv.NewObject(sp.X, sp.Y, sp.W, sp.H, TagSolid))
}

// query returns the enabled solids overlapping the space rectangle r. The
// resolv cell lookup is only a broad phase, so the probe is inflated by one
// unit to cover resolv's inclusive cell bounds and candidates are narrowed to
// real rectangle overlaps.
func (o *Oracle) query(r chunk.Rect) []*resolv.Object {
	o.probe.X, o.probe.Y = r.X-1, r.Y-1
	o.probe.W, o.probe.H = r.W+2, r.H+2
	o.probe.Update()
	col := o.probe.Check(0, 0, TagSolid)
	if col == nil {
		return nil
	}
	var hits []*resolv.Object
	for _, other := range col.Objects {
		if r.Intersects(objectRect(other)) {
			hits = append(hits, other)
		}
	}
	return hits
}

// Occupied reports whether an enabled solid occupies the world rectangle r.
func (o *Oracle) Occupied(r chunk.Rect) bool {
	return len(o.query(o.toSpace(r))) > 0
}

// Grounded reports whether a solid lies directly beneath body.
func (o *Oracle) Grounded(body chunk.Rect) bool {
	return len(o.query(o.toSpace(body).Offset(mgl64.Vec2{0, groundProbe}))) > 0
}

const (
	groundProbe = 0.05
	contactSlop = 1e-6
)

// Move moves body by (dx, dy), horizontal first, stopping flush against
// solids. It returns the moved rectangle and whether each axis was blocked.
func (o *Oracle) Move(body chunk.Rect, dx, dy float64) (moved chunk.Rect, hitX, hitY bool) {
	b := o.toSpace(body)
	dx, hitX = o.sweep(b, dx, true)
	b.X += dx
	dy, hitY = o.sweep(b, dy, false)
	return body.Offset(mgl64.Vec2{dx, dy}), hitX, hitY
}

// sweep clamps a single-axis displacement of the space rectangle b to the
// nearest blocking solid along the swept path.
func (o *Oracle) sweep(b chunk.Rect, d float64, horizontal bool) (float64, bool) {
	if d == 0 {
		return 0, false
	}
	swept := b
	switch {
	case horizontal && d > 0:
		swept.W += d
	case horizontal:
		swept.X += d
		swept.W -= d
	case d > 0:
		swept.H += d
	default:
		swept.Y += d
		swept.H -= d
	}
	limit := d
	for _, h := range o.query(swept) {
		var gap float64
		switch {
		case horizontal && d > 0:
			gap = h.X - (b.X + b.W)
		case horizontal:
			gap = (h.X + h.W) - b.X
		case d > 0:
			gap = h.Y - (b.Y + b.H)
		default:
			gap = (h.Y + h.H) - b.Y
		}
		// Solids already overlapping the body do not block it. Resting
		// contact may be off by rounding, so tiny overlaps still block.
		if (d > 0 && gap < -contactSlop) || (d < 0 && gap > contactSlop) {
			continue
		}
		if math.Abs(gap) < math.Abs(limit) {
			limit = gap
		}
	}
	return limit, limit != d
}

// Step performs the edge-triggered overlap test between body and every
// enabled chunk trigger. It returns the chunks body began overlapping since
// the previous Step, in registration order. A trigger fires again only after
// body has left it.
func (o *Oracle) Step(body chunk.Rect) []chunk.ID {
	var entered []chunk.ID
	for _, id := range o.order {
		tr := o.triggers[id]
		overlapping := tr.enabled && body.Intersects(tr.bounds)
		if overlapping && !tr.inside {
			entered = append(entered, id)
		}
		tr.inside = overlapping
	}
	return entered
}

// Inside reports whether body overlapped chunk id's trigger on the last Step.
func (o *Oracle) Inside(id chunk.ID) bool {
	tr, ok := o.triggers[id]
	return ok && tr.inside
}

// Len returns the number of registered triggers.
func (o *Oracle) Len() int {
	return len(o.order)
}
