package ecs

import (
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/phanxgames/hollowreach/chunk"
	"github.com/phanxgames/hollowreach/sched"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

var (
	ErrNoRunner      = errors.New("ecs: game requires a runner")
	ErrNoPlayer      = errors.New("ecs: no player")
	ErrPlayerDead    = errors.New("ecs: player is dead")
	ErrNotEnoughAura = errors.New("ecs: not enough aura")
)

// Physics moves bodies through the world's solids. physics.Oracle
// implements it.
type Physics interface {
	Move(body chunk.Rect, dx, dy float64) (moved chunk.Rect, hitX, hitY bool)
	Grounded(body chunk.Rect) bool
}

// ChunkListener is told about every chunk the player enters.
// chunk.Manager implements it.
type ChunkListener interface {
	OnPlayerEnteredChunk(id chunk.ID)
}

// PlayerTuning is the authored tuning of the player.
type PlayerTuning struct {
	Health       int
	Aura         int
	Speed        float64
	JumpSpeed    float64
	Gravity      float64
	AttackDamage int
	AttackReach  float64
	// IFrames is how long the player is invulnerable after being hit.
	IFrames time.Duration
	Size    mgl64.Vec2
}

// DefaultPlayer is the tuning used when Config.Player is left zero.
var DefaultPlayer = PlayerTuning{
	Health:       100,
	Aura:         100,
	Speed:        4,
	JumpSpeed:    9,
	Gravity:      20,
	AttackDamage: 10,
	AttackReach:  1.2,
	IFrames:      time.Second,
	Size:         mgl64.Vec2{0.8, 1.6},
}

// Config configures a Game.
type Config struct {
	// Log receives gameplay diagnostics. If nil, slog.Default() is used.
	Log *slog.Logger
	// Runner drives every timed effect. Required.
	Runner *sched.Runner
	// Physics resolves body movement. If nil, bodies move without collision
	// or gravity and are never grounded.
	Physics Physics
	// Chunks receives ChunkEntered events.
	Chunks ChunkListener
	// Active reports whether a chunk is simulating. Entities homed in an
	// inactive chunk are frozen. If nil, every chunk is active.
	Active func(id chunk.ID) bool
	// Countdown is the initial round time. Defaults to 90 seconds.
	Countdown time.Duration
	// Seed seeds enemy decisions.
	Seed uint64
	// Player is the player tuning. The zero value selects DefaultPlayer.
	Player PlayerTuning
}

// Input is one physics tick's worth of player intent.
type Input struct {
	// Move is the horizontal direction in [-1, 1].
	Move   float64
	Jump   bool
	Attack bool
}

// Game owns the donburi world and runs the gameplay systems once per physics
// tick. It is not safe for concurrent use.
type Game struct {
	log     *slog.Logger
	world   donburi.World
	runner  *sched.Runner
	physics Physics
	active  func(id chunk.ID) bool
	rng     *rand.Rand
	tuning  PlayerTuning

	player    donburi.Entity
	hasPlayer bool
	countdown *Countdown

	enemies *donburi.Query
	pickups *donburi.Query

	auraFarmed bool
}

// NewGame creates a Game with an empty world and starts its countdown on
// conf.Runner.
func NewGame(conf Config) (*Game, error) {
	if conf.Runner == nil {
		return nil, ErrNoRunner
	}
	if conf.Log == nil {
		conf.Log = slog.Default()
	}
	if conf.Countdown <= 0 {
		conf.Countdown = 90 * time.Second
	}
	if conf.Player == (PlayerTuning{}) {
		conf.Player = DefaultPlayer
	}
	g := &Game{
		log:       conf.Log,
		world:     donburi.NewWorld(),
		runner:    conf.Runner,
		physics:   conf.Physics,
		active:    conf.Active,
		rng:       rand.New(rand.NewPCG(conf.Seed, conf.Seed^0x5851f42d4c957f2d)),
		tuning:    conf.Player,
		countdown: NewCountdown(conf.Countdown),
		enemies:   donburi.NewQuery(filter.Contains(Enemy, Body)),
		pickups:   donburi.NewQuery(filter.Contains(Pickup, Body)),
	}
	g.runner.Go(g.countdown)
	if conf.Chunks != nil {
		listener := conf.Chunks
		ChunkEnteredEvent.Subscribe(g.world, func(w donburi.World, e ChunkEntered) {
			listener.OnPlayerEnteredChunk(e.Chunk)
		})
	}
	return g, nil
}

// World returns the donburi world.
func (g *Game) World() donburi.World { return g.world }

// Countdown returns the round timer.
func (g *Game) Countdown() *Countdown { return g.countdown }

// Tuning returns the player tuning.
func (g *Game) Tuning() PlayerTuning { return g.tuning }

// SpawnPlayer creates the player centered on at. Only one player exists; a
// second call moves the existing one and restores its vitals.
func (g *Game) SpawnPlayer(at mgl64.Vec2) donburi.Entity {
	rect := centeredRect(at, g.tuning.Size)
	vitals := PlayerData{
		Health:    g.tuning.Health,
		MaxHealth: g.tuning.Health,
		MaxAura:   g.tuning.Aura,
	}
	if entry, ok := g.PlayerEntry(); ok {
		if p := Player.Get(entry); p.iframes != nil {
			p.iframes.Stop()
		}
		Body.SetValue(entry, BodyData{Rect: rect})
		Player.SetValue(entry, vitals)
		return g.player
	}
	g.player = g.world.Create(Body, Player)
	g.hasPlayer = true
	entry := g.world.Entry(g.player)
	Body.SetValue(entry, BodyData{Rect: rect})
	Player.SetValue(entry, vitals)
	g.log.Debug("player spawned", "at", at)
	return g.player
}

// PlayerEntry returns the player's entry, if the player exists.
func (g *Game) PlayerEntry() (*donburi.Entry, bool) {
	if !g.hasPlayer || !g.world.Valid(g.player) {
		return nil, false
	}
	return g.world.Entry(g.player), true
}

func (g *Game) playerData() *PlayerData {
	entry, ok := g.PlayerEntry()
	if !ok {
		return nil
	}
	return Player.Get(entry)
}

// Position returns the player's world-space center. It implements
// chunk.PositionSource; ok is false until the player is spawned.
func (g *Game) Position() (mgl64.Vec2, bool) {
	entry, ok := g.PlayerEntry()
	if !ok {
		return mgl64.Vec2{}, false
	}
	return Body.Get(entry).Center(), true
}

// PlayerBody returns the player's collision rectangle.
func (g *Game) PlayerBody() (chunk.Rect, bool) {
	entry, ok := g.PlayerEntry()
	if !ok {
		return chunk.Rect{}, false
	}
	return Body.Get(entry).Rect, true
}

// StepPlayer applies one physics tick of input, gravity and collision to the
// player.
func (g *Game) StepPlayer(in Input, dt time.Duration) {
	entry, ok := g.PlayerEntry()
	if !ok {
		return
	}
	p := Player.Get(entry)
	b := Body.Get(entry)
	if p.Dead {
		b.Velocity[0] = 0
		g.moveBody(b, g.tuning.Gravity, dt)
		return
	}
	b.Velocity[0] = clamp(in.Move, -1, 1) * g.tuning.Speed
	if in.Jump && b.Grounded {
		b.Velocity[1] = -g.tuning.JumpSpeed
	}
	g.moveBody(b, g.tuning.Gravity, dt)
	if in.Attack {
		g.PlayerAttack()
	}
}

// moveBody integrates gravity and velocity over dt and resolves collisions.
func (g *Game) moveBody(b *BodyData, gravity float64, dt time.Duration) {
	sec := dt.Seconds()
	if g.physics == nil {
		b.Rect = b.Rect.Offset(b.Velocity.Mul(sec))
		return
	}
	b.Velocity[1] += gravity * sec
	dx, dy := b.Velocity[0]*sec, b.Velocity[1]*sec
	moved, hitX, hitY := g.physics.Move(b.Rect, dx, dy)
	if hitX {
		b.Velocity[0] = 0
	}
	if hitY {
		b.Velocity[1] = 0
	}
	b.Rect = moved
	b.Grounded = g.physics.Grounded(moved)
}

// TakeDamage removes health from the player and opens the invulnerability
// window. Hits landing inside the window, or on a dead player, are ignored;
// it reports whether the hit landed.
func (g *Game) TakeDamage(amount int) bool {
	p := g.playerData()
	if p == nil || p.Dead || p.invulnerable {
		return false
	}
	p.Health -= amount
	if p.Health <= 0 {
		p.Health = 0
		p.Dead = true
		g.log.Info("player died")
	} else {
		p.invulnerable = true
		p.iframes = g.runner.MustAfter(g.tuning.IFrames, func() {
			if p := g.playerData(); p != nil {
				p.invulnerable = false
			}
		})
	}
	PlayerDamagedEvent.Publish(g.world, PlayerDamaged{Amount: amount, Health: p.Health, Dead: p.Dead})
	return true
}

// GainHealth restores a fraction of max health.
func (g *Game) GainHealth(frac float64) {
	p := g.playerData()
	if p == nil || p.Dead {
		return
	}
	p.Health = min(p.MaxHealth, p.Health+int(frac*float64(p.MaxHealth)))
}

// GainAura adds aura, capped at max aura.
func (g *Game) GainAura(n int) {
	p := g.playerData()
	if p == nil || p.Dead {
		return
	}
	p.Aura = min(p.MaxAura, p.Aura+n)
}

// ConsumeAura spends n aura if the player has that much.
func (g *Game) ConsumeAura(n int) bool {
	p := g.playerData()
	if p == nil || p.Aura < n {
		return false
	}
	p.Aura -= n
	return true
}

// EnterChunks publishes a ChunkEntered event for each id and delivers them
// immediately, so the chunk listener sees them before the chunk tick.
func (g *Game) EnterChunks(ids []chunk.ID) {
	for _, id := range ids {
		ChunkEnteredEvent.Publish(g.world, ChunkEntered{Chunk: id})
	}
	ChunkEnteredEvent.ProcessEvents(g.world)
}

// Update runs one physics tick of the gameplay systems and then delivers all
// queued events.
func (g *Game) Update(dt time.Duration) {
	g.updateEnemies(dt)
	g.collectPickups()
	events.ProcessAllEvents(g.world)
}

// SetHome records the chunk entity ent belongs to.
func (g *Game) SetHome(ent donburi.Entity, id chunk.ID) {
	if !g.world.Valid(ent) {
		return
	}
	entry := g.world.Entry(ent)
	if entry.HasComponent(Body) {
		Body.Get(entry).Home = id
	}
}

func (g *Game) frozen(b *BodyData) bool {
	return b.Home != chunk.NoChunk && g.active != nil && !g.active(b.Home)
}

func centeredRect(at, size mgl64.Vec2) chunk.Rect {
	return chunk.Rect{X: at.X() - size.X()/2, Y: at.Y() - size.Y()/2, W: size.X(), H: size.Y()}
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
