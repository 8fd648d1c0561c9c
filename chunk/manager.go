package chunk

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// PositionSource reports the player's current world position. ok is false
// while the player does not exist yet; chunk operations that need the
// position then treat the tick as "not ready" and do nothing.
type PositionSource interface {
	Position() (pos mgl64.Vec2, ok bool)
}

// PositionFunc adapts a function to PositionSource.
type PositionFunc func() (mgl64.Vec2, bool)

// Position calls f.
func (f PositionFunc) Position() (mgl64.Vec2, bool) { return f() }

// Handler receives chunk lifecycle notifications. The scene uses it to mirror
// chunk state into display nodes and trigger volumes.
type Handler interface {
	// HandleSpawn is called once for every chunk, right after it is created
	// with its initial activation state.
	HandleSpawn(c *Chunk)
	// HandleToggle is called whenever traversal flips a chunk's Active state.
	HandleToggle(c *Chunk)
	// HandleRunaway is called when a tick's traversal is aborted.
	HandleRunaway(err *RunawayError)
}

// NopHandler implements Handler and does nothing. Embed it to implement only
// the methods you need.
type NopHandler struct{}

func (NopHandler) HandleSpawn(*Chunk)          {}
func (NopHandler) HandleToggle(*Chunk)         {}
func (NopHandler) HandleRunaway(*RunawayError) {}

// Config holds the load-time settings of a Manager.
type Config struct {
	// Log receives spawn warnings and runaway-traversal errors. If nil,
	// slog.Default() is used.
	Log *slog.Logger
	// Catalog holds the prefabs chunks are instantiated from. Required.
	Catalog *Catalog
	// Player is the player-position source. It may be set later with
	// SetPlayer.
	Player PositionSource
	// RenderDistance is the distance from the player at or beyond which a
	// chunk is inactive. Required.
	RenderDistance float64
	// VisitCeiling bounds how many chunk evaluations a single tick may
	// perform. Required.
	VisitCeiling int
	// Seed seeds the candidate selection.
	Seed uint64
	// Handler receives lifecycle notifications. If nil, NopHandler is used.
	Handler Handler
}

// Stats summarizes traversal work for the debug overlay.
type Stats struct {
	Ticks      uint64
	LastVisits int
	Spawned    int
	Runaways   int
	Active     int
}

// Manager owns the chunk graph, the traversal root and the per-tick visit
// counter. It is not safe for concurrent use: the simulation loop is its only
// writer, and one Tick completes before the next begins.
type Manager struct {
	log     *slog.Logger
	catalog *Catalog
	player  PositionSource
	handler Handler
	rng     *rand.Rand

	renderDistance float64
	ceiling        int

	graph   Graph
	root    ID
	visits  int
	pending []ID
	stats   Stats
}

// NewManager validates conf and creates a Manager with an empty graph.
func NewManager(conf Config) (*Manager, error) {
	if conf.Catalog == nil {
		return nil, fmt.Errorf("chunk: manager requires a catalog")
	}
	if conf.RenderDistance <= 0 {
		return nil, fmt.Errorf("chunk: render distance must be positive, got %v", conf.RenderDistance)
	}
	if conf.VisitCeiling <= 0 {
		return nil, fmt.Errorf("chunk: visit ceiling must be positive, got %d", conf.VisitCeiling)
	}
	if conf.Log == nil {
		conf.Log = slog.Default()
	}
	if conf.Handler == nil {
		conf.Handler = NopHandler{}
	}
	return &Manager{
		log:            conf.Log,
		catalog:        conf.Catalog,
		player:         conf.Player,
		handler:        conf.Handler,
		rng:            rand.New(rand.NewPCG(conf.Seed, conf.Seed^0x9e3779b97f4a7c15)),
		renderDistance: conf.RenderDistance,
		ceiling:        conf.VisitCeiling,
	}, nil
}

// SetPlayer installs the player-position source.
func (m *Manager) SetPlayer(p PositionSource) {
	m.player = p
}

// SetHandler replaces the lifecycle handler. A nil h installs NopHandler.
func (m *Manager) SetHandler(h Handler) {
	if h == nil {
		h = NopHandler{}
	}
	m.handler = h
}

// RenderDistance returns the configured render distance.
func (m *Manager) RenderDistance() float64 { return m.renderDistance }

// VisitCeiling returns the configured per-tick visit ceiling.
func (m *Manager) VisitCeiling() int { return m.ceiling }

// Visits returns the visit counter of the current or most recent tick.
func (m *Manager) Visits() int { return m.visits }

// Graph returns the chunk registry.
func (m *Manager) Graph() *Graph { return &m.graph }

// Chunk returns the chunk for id, or nil.
func (m *Manager) Chunk(id ID) *Chunk { return m.graph.Get(id) }

// Root returns the chunk currently containing the player.
func (m *Manager) Root() (ID, bool) {
	return m.root, m.root != NoChunk
}

// Stats returns traversal counters.
func (m *Manager) Stats() Stats {
	s := m.stats
	s.Active = 0
	m.graph.Each(func(c *Chunk) {
		if c.active {
			s.Active++
		}
	})
	return s
}

// OnPlayerEnteredChunk records id as the traversal root. The most recently
// entered chunk always wins.
func (m *Manager) OnPlayerEnteredChunk(id ID) {
	if m.graph.Get(id) == nil {
		m.log.Warn("player entered unknown chunk", "chunk", id)
		return
	}
	m.root = id
}

// Seed instantiates prefab at the given position, outside of any neighbor
// relation. It places the world's first chunk.
func (m *Manager) Seed(prefab string, at mgl64.Vec2) (*Chunk, error) {
	p, ok := m.catalog.Prefab(prefab)
	if !ok {
		return nil, fmt.Errorf("chunk: seed %q: %w", prefab, ErrUnknownPrefab)
	}
	return m.spawn(p, at), nil
}

// Tick runs one physics step of chunk streaming: the visit counter is reset
// and, if a root is recorded and the player is available, the root is
// evaluated with no arrival direction. The whole traversal runs to
// completion before Tick returns; chunks activated for the first time spawn
// their neighbors afterwards.
//
// A traversal exceeding the visit ceiling is aborted at once, logged, handed
// to the Handler and returned as a *RunawayError.
func (m *Manager) Tick() error {
	m.visits = 0
	m.stats.Ticks++
	if m.root == NoChunk {
		return nil
	}
	if _, ok := m.playerPosition(); !ok {
		return nil
	}

	err := m.TestChunk(m.root, None)
	m.stats.LastVisits = m.visits
	if err != nil {
		var re *RunawayError
		if errors.As(err, &re) {
			re.Root = m.root
			re.Tick = m.stats.Ticks
			m.stats.Runaways++
			m.log.Error("chunk traversal aborted, neighbor graph is malformed",
				"root", re.Root, "tick", re.Tick, "visits", re.Visits, "ceiling", re.Ceiling, "chunk", re.Chunk)
			m.handler.HandleRunaway(re)
		}
		return err
	}

	m.drain()
	return nil
}

// RecordVisit counts one chunk evaluation. Past the visit ceiling it returns
// a *RunawayError, which unwinds the traversal.
func (m *Manager) RecordVisit() error {
	m.visits++
	if m.visits > m.ceiling {
		return &RunawayError{Root: m.root, Tick: m.stats.Ticks, Visits: m.visits, Ceiling: m.ceiling}
	}
	return nil
}

// TestChunk evaluates chunk id: it records the visit, then deactivates the
// chunk if it is at or beyond render distance from the player, or activates
// it and evaluates every linked neighbor except the one on side arrivedFrom.
// Each neighbor is told it was reached from the opposite side, so it never
// recurses straight back.
//
// Out-of-range chunks do not evaluate their neighbors: those are assumed to
// be out of range as well.
func (m *Manager) TestChunk(id ID, arrivedFrom Direction) error {
	c := m.graph.Get(id)
	if c == nil {
		return fmt.Errorf("chunk: test chunk#%d: %w", id, ErrUnknownChunk)
	}
	if err := m.RecordVisit(); err != nil {
		var re *RunawayError
		if errors.As(err, &re) {
			re.Chunk = id
		}
		return err
	}
	c.lastVisit = m.stats.Ticks

	player, ok := m.playerPosition()
	if !ok {
		return nil
	}
	if m.outOfRange(c.position, player) {
		m.setActive(c, false)
		return nil
	}
	m.setActive(c, true)

	for _, d := range Directions {
		if d == arrivedFrom {
			continue
		}
		next := c.neighbors[d]
		if next == NoChunk {
			continue
		}
		if err := m.TestChunk(next, d.Opposite()); err != nil {
			return err
		}
	}
	return nil
}

// SpawnNeighbor picks one of candidates uniformly at random and instantiates
// it at the given position. The new chunk starts inactive if it lies at or
// beyond render distance from the player (or the player is not available).
// The caller links the new chunk to its spawner; side only labels logs.
func (m *Manager) SpawnNeighbor(side Direction, candidates []string, at mgl64.Vec2) (*Chunk, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("chunk: spawn %s neighbor: %w", side, ErrNoCandidates)
	}
	name := candidates[m.rng.IntN(len(candidates))]
	p, ok := m.catalog.Prefab(name)
	if !ok {
		return nil, fmt.Errorf("chunk: spawn %s neighbor %q: %w", side, name, ErrUnknownPrefab)
	}
	return m.spawn(p, at), nil
}

// Populate spawns and links the neighbors chunk id is responsible for: every
// side its prefab flags for spawning whose slot is still unset. A chunk is
// populated at most once. A side whose spawn point another chunk already
// holds is skipped with ErrOccupied. Failing sides are logged and reported
// together; the other sides are still spawned.
func (m *Manager) Populate(id ID) error {
	c := m.graph.Get(id)
	if c == nil {
		return fmt.Errorf("chunk: populate chunk#%d: %w", id, ErrUnknownChunk)
	}
	c.queued = false
	if c.initialized {
		return nil
	}
	c.initialized = true

	var errs []error
	for _, d := range Directions {
		side := c.prefab.Sides[d]
		if !side.Spawn || c.neighbors[d] != NoChunk {
			continue
		}
		if side.Offset == nil {
			err := fmt.Errorf("chunk: %v %s side: %w", c, d, ErrNoSpawnPoint)
			m.log.Warn("skipping neighbor spawn", "chunk", c.id, "prefab", c.prefab.Name, "side", d.String(), "err", err)
			errs = append(errs, err)
			continue
		}
		at := c.position.Add(*side.Offset)
		if other, taken := m.graph.At(at); taken {
			err := fmt.Errorf("chunk: %v %s side: held by chunk#%d: %w", c, d, other, ErrOccupied)
			m.log.Warn("skipping neighbor spawn", "chunk", c.id, "prefab", c.prefab.Name, "side", d.String(), "err", err)
			errs = append(errs, err)
			continue
		}
		n, err := m.SpawnNeighbor(d, side.Candidates, at)
		if err != nil {
			err = fmt.Errorf("chunk: %v: %w", c, err)
			m.log.Warn("skipping neighbor spawn", "chunk", c.id, "prefab", c.prefab.Name, "side", d.String(), "err", err)
			errs = append(errs, err)
			continue
		}
		c.LinkNeighbor(d, n.id)
		n.LinkNeighbor(d.Opposite(), c.id)
	}
	return errors.Join(errs...)
}

func (m *Manager) spawn(p *Prefab, at mgl64.Vec2) *Chunk {
	c := m.graph.add(p, at)
	m.stats.Spawned++
	if player, ok := m.playerPosition(); ok && !m.outOfRange(at, player) {
		c.active = true
		m.queuePopulate(c)
	}
	m.handler.HandleSpawn(c)
	return c
}

func (m *Manager) setActive(c *Chunk, active bool) {
	if active && !c.initialized {
		m.queuePopulate(c)
	}
	if c.active == active {
		return
	}
	c.active = active
	m.handler.HandleToggle(c)
}

func (m *Manager) queuePopulate(c *Chunk) {
	if c.queued || c.initialized {
		return
	}
	c.queued = true
	m.pending = append(m.pending, c.id)
}

// drain populates the chunks queued before it started. Chunks spawned active
// while draining stay queued for the next tick.
func (m *Manager) drain() {
	n := len(m.pending)
	for i := 0; i < n; i++ {
		// Errors were already logged per side.
		_ = m.Populate(m.pending[i])
	}
	m.pending = append(m.pending[:0], m.pending[n:]...)
}

// Pending returns how many chunks wait to spawn their neighbors.
func (m *Manager) Pending() int {
	return len(m.pending)
}

func (m *Manager) outOfRange(pos, player mgl64.Vec2) bool {
	return pos.Sub(player).Len() >= m.renderDistance
}

func (m *Manager) playerPosition() (mgl64.Vec2, bool) {
	if m.player == nil {
		return mgl64.Vec2{}, false
	}
	return m.player.Position()
}
