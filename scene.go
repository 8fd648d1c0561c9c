package hollowreach

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/phanxgames/hollowreach/chunk"
	"github.com/phanxgames/hollowreach/ecs"
	"github.com/phanxgames/hollowreach/physics"
	"github.com/phanxgames/hollowreach/sched"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

const (
	announceTime = 1500 * time.Millisecond
	cameraLerp   = 0.15
)

var (
	colorPlayer   = Color{0.95, 0.95, 0.9, 1}
	colorMushroom = Color{0.8, 0.25, 0.2, 1}
	colorBatty    = Color{0.55, 0.3, 0.7, 1}
	colorCorpse   = Color{0.3, 0.3, 0.3, 1}
	colorBurning  = Color{1, 0.55, 0.1, 1}
	colorPickup   = Color{1, 0.85, 0.2, 1}
)

// Scene is the top-level object. It owns the scheduler, the chunk manager,
// the collision oracle, the gameplay world and the display node tree, and
// drives them from the frame tick.
type Scene struct {
	log  *slog.Logger
	conf Config

	pause   sched.Pause
	runner  *sched.Runner
	physics *sched.FixedStep
	clock   *sched.FrameClock

	chunks *chunk.Manager
	oracle *physics.Oracle
	game   *ecs.Game
	bodies *donburi.Query

	root       *Node
	chunkNodes map[chunk.ID]*Node
	populated  map[chunk.ID]bool

	camera *Camera
	hud    *HUD
	fps    *FPSCounter

	input     InputSource
	latch     latch
	move      float64
	abilities []ecs.Ability
	selected  int

	debug   bool
	over    string
	lastErr error
	shots   []string
}

var _ chunk.Handler = (*Scene)(nil)

// NewScene builds the world: the player spawns at conf.PlayerStart and the
// origin chunk is placed around it.
func NewScene(conf Config) (*Scene, error) {
	conf = conf.withDefaults()
	s := &Scene{
		log:        conf.Log,
		conf:       conf,
		clock:      sched.NewFrameClock(conf.TPS),
		physics:    sched.NewFixedStep(sched.FrameDuration(conf.PhysicsRate), conf.MaxPhysicsSteps),
		oracle:     physics.New(physics.Config{Log: conf.Log, Origin: conf.Origin}),
		bodies:     donburi.NewQuery(filter.Contains(ecs.Body)),
		root:       NewContainer("root"),
		chunkNodes: make(map[chunk.ID]*Node),
		populated:  make(map[chunk.ID]bool),
		camera:     NewCamera(chunk.Rect{W: float64(conf.ScreenWidth), H: float64(conf.ScreenHeight)}, conf.Zoom),
		fps:        NewFPSCounter(),
		input:      conf.Input,
		abilities:  ecs.DefaultAbilities,
		debug:      conf.Debug,
	}
	s.runner = sched.NewRunner(&s.pause)
	s.hud = NewHUD(s.runner)

	var err error
	s.chunks, err = chunk.NewManager(chunk.Config{
		Log:            conf.Log,
		Catalog:        conf.Catalog,
		RenderDistance: conf.RenderDistance,
		VisitCeiling:   conf.VisitCeiling,
		Seed:           conf.Seed,
		Handler:        s,
	})
	if err != nil {
		return nil, err
	}
	s.game, err = ecs.NewGame(ecs.Config{
		Log:       conf.Log,
		Runner:    s.runner,
		Physics:   s.oracle,
		Chunks:    s.chunks,
		Active:    s.chunkActive,
		Countdown: conf.Countdown,
		Seed:      conf.Seed,
	})
	if err != nil {
		return nil, err
	}
	s.chunks.SetPlayer(s.game)
	s.subscribe()

	start := conf.Origin.Add(conf.PlayerStart)
	s.game.SpawnPlayer(start)
	if _, err := s.chunks.Seed(conf.OriginPrefab, conf.Origin); err != nil {
		return nil, fmt.Errorf("hollowreach: place origin chunk: %w", err)
	}
	s.camera.X, s.camera.Y = start.X(), start.Y()
	s.camera.Follow(s.game, mgl64.Vec2{0, -2}, cameraLerp)
	s.log.Info("scene ready", "origin", conf.OriginPrefab, "prefabs", conf.Catalog.Len(),
		"renderDistance", conf.RenderDistance, "visitCeiling", conf.VisitCeiling)
	return s, nil
}

func (s *Scene) subscribe() {
	w := s.game.World()
	ecs.PlayerDamagedEvent.Subscribe(w, func(w donburi.World, e ecs.PlayerDamaged) {
		s.hud.DamageFlash()
	})
	ecs.PickupCollectedEvent.Subscribe(w, func(w donburi.World, e ecs.PickupCollected) {
		s.hud.Announce(fmt.Sprintf("+%ds", e.Seconds), announceTime)
	})
	ecs.AuraFarmedEvent.Subscribe(w, func(w donburi.World, e ecs.AuraFarmed) {
		s.hud.Announce("the fallen rise stronger", 2*announceTime)
	})
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node { return s.root }

// Camera returns the scene camera.
func (s *Scene) Camera() *Camera { return s.camera }

// Game returns the gameplay world.
func (s *Scene) Game() *ecs.Game { return s.game }

// Chunks returns the chunk manager.
func (s *Scene) Chunks() *chunk.Manager { return s.chunks }

// Oracle returns the collision oracle.
func (s *Scene) Oracle() *physics.Oracle { return s.oracle }

// Runner returns the scheduler every timed effect runs on.
func (s *Scene) Runner() *sched.Runner { return s.runner }

// HUD returns the heads-up display.
func (s *Scene) HUD() *HUD { return s.hud }

// ChunkNode returns the display node mirroring chunk id.
func (s *Scene) ChunkNode(id chunk.ID) *Node { return s.chunkNodes[id] }

// Paused reports whether game time is frozen.
func (s *Scene) Paused() bool { return s.pause.Paused() }

// SetPaused freezes or resumes game time.
func (s *Scene) SetPaused(paused bool) { s.pause.Set(paused) }

// PhysicsSteps returns the number of physics ticks run so far.
func (s *Scene) PhysicsSteps() uint64 { return s.physics.Steps() }

// Over returns why the round ended, or "" while it runs.
func (s *Scene) Over() string { return s.over }

// Err returns the last error a physics tick produced, such as a runaway
// chunk traversal.
func (s *Scene) Err() error { return s.lastErr }

// SetDebugMode shows or hides the chunk overlay.
func (s *Scene) SetDebugMode(enabled bool) { s.debug = enabled }

// Ability returns the selected ability.
func (s *Scene) Ability() ecs.Ability { return s.abilities[s.selected] }

func (s *Scene) chunkActive(id chunk.ID) bool {
	c := s.chunks.Chunk(id)
	return c != nil && c.Active()
}

// HandleSpawn implements chunk.Handler. It mirrors c into a display node and
// registers its trigger volume and solids.
func (s *Scene) HandleSpawn(c *chunk.Chunk) {
	p := c.Prefab()
	bounds := c.Bounds()
	n := NewNode(c.String(), bounds, RGB(p.Color))
	n.UserData = c.ID()
	for _, solid := range p.Solids {
		n.AddChild(NewNode("solid", solid.Offset(mgl64.Vec2{bounds.X, bounds.Y}), RGB(p.Color).Scale(0.55)))
	}
	n.Visible = c.Active()
	s.root.AddChild(n)
	s.chunkNodes[c.ID()] = n
	if s.debug {
		debugCheckTree(s.log, s.root)
	}

	s.oracle.AddChunk(c)
	if c.Active() {
		s.populate(c)
	}
}

// HandleToggle implements chunk.Handler. Inactive chunks are hidden, their
// trigger and solids are disabled and their entities freeze.
func (s *Scene) HandleToggle(c *chunk.Chunk) {
	if n := s.chunkNodes[c.ID()]; n != nil {
		n.Visible = c.Active()
	}
	s.oracle.SetTriggerEnabled(c.ID(), c.Active())
	if c.Active() {
		s.populate(c)
	}
}

// HandleRunaway implements chunk.Handler.
func (s *Scene) HandleRunaway(err *chunk.RunawayError) {
	s.lastErr = err
	if s.debug {
		s.hud.Announce("chunk traversal aborted", announceTime)
	}
}

// populate spawns c's authored entities the first time it becomes active.
func (s *Scene) populate(c *chunk.Chunk) {
	if s.populated[c.ID()] {
		return
	}
	s.populated[c.ID()] = true
	if _, err := s.game.SpawnContent(c); err != nil {
		s.log.Warn("chunk content incomplete", "chunk", c.ID(), "err", err)
	}
}

// Update runs one frame tick: input is read, the scheduler advances, and the
// physics ticks due this frame run. The camera and HUD follow.
func (s *Scene) Update() {
	c := s.input.Poll()
	if c.Pause && s.over == "" {
		s.pause.Toggle()
	}
	if c.Debug {
		s.debug = !s.debug
	}
	if c.Screenshot {
		s.Screenshot("manual")
	}
	if !s.pause.Paused() && s.over == "" {
		s.handleControls(c)
	}

	frame := s.clock.Next()
	s.runner.Advance(frame)
	if !s.pause.Paused() {
		s.physics.Advance(frame, s.physicsTick)
	}

	if !s.pause.Paused() {
		s.camera.update(float32(frame.Seconds()))
	}
	if entry, ok := s.game.PlayerEntry(); ok {
		p := ecs.Player.Get(entry)
		s.hud.SetTargets(p.HealthPercent(), p.AuraPercent())
	}
	s.fps.Update(frame.Seconds())
}

func (s *Scene) handleControls(c Controls) {
	s.move = c.Move
	s.latch.add(c)
	n := len(s.abilities)
	switch {
	case c.NextAbility:
		s.selected = (s.selected + 1) % n
	case c.PrevAbility:
		s.selected = (s.selected + n - 1) % n
	}
	if c.Cast {
		a := s.abilities[s.selected]
		if _, err := s.game.Cast(a); err != nil {
			if errors.Is(err, ecs.ErrNotEnoughAura) {
				s.hud.Announce("not enough aura", announceTime)
			}
			s.log.Debug("cast failed", "ability", a.Name(), "err", err)
		}
	}
}

// physicsTick runs one fixed step: the player moves, trigger overlaps are
// turned into ChunkEntered events, gameplay systems run, and chunk streaming
// re-evaluates around the player.
func (s *Scene) physicsTick() {
	dt := s.physics.Interval()
	jump, attack := s.latch.take()
	if s.over != "" {
		jump, attack, s.move = false, false, 0
	}
	s.game.StepPlayer(ecs.Input{Move: s.move, Jump: jump, Attack: attack}, dt)
	if body, ok := s.game.PlayerBody(); ok {
		s.game.EnterChunks(s.oracle.Step(body))
	}
	s.game.Update(dt)
	if err := s.chunks.Tick(); err != nil {
		s.lastErr = err
	}
	s.checkOver()
}

func (s *Scene) checkOver() {
	if s.over != "" {
		return
	}
	entry, ok := s.game.PlayerEntry()
	switch {
	case ok && ecs.Player.Get(entry).Dead:
		s.over = "YOU DIED"
	case s.game.Countdown().Expired():
		s.over = "TIME UP"
	default:
		return
	}
	if s.debug {
		s.Screenshot("round-over")
	}
	s.game.Countdown().Stop()
	s.log.Info("round over", "reason", s.over, "chunks", s.chunks.Graph().Len())
}

// Draw renders the visible chunks, the entities of active chunks, the debug
// overlay and the HUD.
func (s *Scene) Draw(screen *ebiten.Image) {
	screen.Fill(ColorSky.RGBA())
	view := s.camera.VisibleBounds()

	s.root.Walk(func(n *Node) {
		if n.Bounds.W <= 0 || n.Bounds.H <= 0 || !view.Intersects(n.Bounds) {
			return
		}
		r := s.camera.WorldRectToScreen(n.Bounds)
		if n.Outline {
			vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 1, n.Color.RGBA(), false)
			return
		}
		vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), n.Color.RGBA(), false)
	})

	s.bodies.Each(s.game.World(), func(entry *donburi.Entry) {
		b := ecs.Body.Get(entry)
		if b.Home != chunk.NoChunk && !s.chunkActive(b.Home) {
			return
		}
		if !view.Intersects(b.Rect) {
			return
		}
		col, ok := entityColor(entry)
		if !ok {
			return
		}
		r := s.camera.WorldRectToScreen(b.Rect)
		vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), col.RGBA(), false)
	})

	if s.debug {
		drawDebug(screen, s.camera, s.chunks)
	}
	s.hud.Draw(screen, HUDState{
		Countdown: s.game.Countdown().String(),
		Ability:   s.Ability().Name(),
		Paused:    s.pause.Paused(),
		Over:      s.over,
	})
	if s.conf.ShowFPS {
		s.fps.Draw(screen)
	}
	s.flushScreenshots(screen)
}

// entityColor picks the draw color of an entity. Invulnerable players blink.
func entityColor(entry *donburi.Entry) (Color, bool) {
	switch {
	case entry.HasComponent(ecs.Player):
		p := ecs.Player.Get(entry)
		if p.Dead {
			return colorCorpse, true
		}
		if p.Invulnerable() {
			return colorPlayer.Scale(0.5), true
		}
		return colorPlayer, true
	case entry.HasComponent(ecs.Enemy):
		e := ecs.Enemy.Get(entry)
		switch {
		case e.Dead:
			return colorCorpse, true
		case e.Ignited:
			return colorBurning, true
		case e.Kind == &ecs.Batty:
			return colorBatty, true
		}
		return colorMushroom, true
	case entry.HasComponent(ecs.Pickup):
		return colorPickup, true
	}
	return Color{}, false
}

// Layout implements ebiten.Game's layout with a fixed logical screen.
func (s *Scene) Layout(outsideWidth, outsideHeight int) (int, int) {
	return s.conf.ScreenWidth, s.conf.ScreenHeight
}
