package ecs

import (
	"errors"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/phanxgames/hollowreach/chunk"
	"github.com/phanxgames/hollowreach/physics"
	"github.com/phanxgames/hollowreach/sched"
	"github.com/yohamta/donburi"
)

const tick = 100 * time.Millisecond

func newTestGame(t *testing.T, conf Config) (*Game, *sched.Pause) {
	t.Helper()
	pause := &sched.Pause{}
	conf.Log = slog.New(slog.DiscardHandler)
	conf.Runner = sched.NewRunner(pause)
	g, err := NewGame(conf)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return g, pause
}

// frames runs n frame ticks, each followed by one gameplay update.
func frames(g *Game, n int) {
	for range n {
		g.runner.Advance(tick)
		g.Update(tick)
	}
}

func TestNewGameRequiresRunner(t *testing.T) {
	if _, err := NewGame(Config{}); !errors.Is(err, ErrNoRunner) {
		t.Errorf("err = %v, want ErrNoRunner", err)
	}
}

func TestPositionBeforeSpawn(t *testing.T) {
	g, _ := newTestGame(t, Config{})
	if _, ok := g.Position(); ok {
		t.Error("position should be unavailable before the player spawns")
	}
	g.SpawnPlayer(mgl64.Vec2{3, 4})
	pos, ok := g.Position()
	if !ok || pos != (mgl64.Vec2{3, 4}) {
		t.Errorf("Position = %v, %v", pos, ok)
	}
	var _ chunk.PositionSource = g
}

func TestTakeDamageOpensIFrames(t *testing.T) {
	g, pause := newTestGame(t, Config{})
	g.SpawnPlayer(mgl64.Vec2{})
	p := g.playerData()

	if !g.TakeDamage(10) {
		t.Fatal("first hit should land")
	}
	if p.Health != 90 || !p.Invulnerable() {
		t.Fatalf("health = %d, invulnerable = %v", p.Health, p.Invulnerable())
	}
	if g.TakeDamage(10) {
		t.Fatal("hit inside the invulnerability window landed")
	}

	pause.Set(true)
	for range 30 {
		g.runner.Advance(tick)
	}
	if !p.Invulnerable() {
		t.Fatal("paused time closed the invulnerability window")
	}
	pause.Set(false)

	for range 9 {
		g.runner.Advance(tick)
	}
	if !p.Invulnerable() {
		t.Fatal("window closed early")
	}
	g.runner.Advance(tick)
	if p.Invulnerable() {
		t.Fatal("window should close after one second of unpaused time")
	}
	if !g.TakeDamage(10) || p.Health != 80 {
		t.Errorf("hit after the window: health = %d", p.Health)
	}
}

func TestPlayerDeath(t *testing.T) {
	g, _ := newTestGame(t, Config{})
	g.SpawnPlayer(mgl64.Vec2{})

	var got []PlayerDamaged
	PlayerDamagedEvent.Subscribe(g.World(), func(w donburi.World, e PlayerDamaged) {
		got = append(got, e)
	})

	g.TakeDamage(150)
	g.Update(tick)

	p := g.playerData()
	if !p.Dead || p.Health != 0 {
		t.Fatalf("player = %+v, want dead with 0 health", p)
	}
	if len(got) != 1 || !got[0].Dead || got[0].Amount != 150 {
		t.Fatalf("events = %+v", got)
	}
	if g.TakeDamage(1) {
		t.Error("a dead player took damage")
	}
	if _, err := g.Cast(DefaultAbilities[0]); !errors.Is(err, ErrPlayerDead) {
		t.Errorf("Cast err = %v, want ErrPlayerDead", err)
	}
}

func TestCountdown(t *testing.T) {
	c := NewCountdown(90*time.Second + 500*time.Millisecond)
	if c.Remaining() != 90*time.Second {
		t.Fatalf("Remaining = %v, want whole seconds", c.Remaining())
	}
	c.Step(999*time.Millisecond, false)
	if c.Remaining() != 90*time.Second {
		t.Fatal("decremented before a whole second elapsed")
	}
	c.Step(time.Millisecond, false)
	if c.Remaining() != 89*time.Second {
		t.Fatalf("Remaining = %v, want 89s", c.Remaining())
	}
	c.Step(10*time.Second, true)
	if c.Remaining() != 89*time.Second {
		t.Fatal("paused time counted")
	}
	c.Add(20)
	if c.String() != "01:49" {
		t.Errorf("String = %q, want 01:49", c.String())
	}

	c.Step(5*time.Minute, false)
	if !c.Expired() || c.Remaining() != 0 || c.String() != "00:00" {
		t.Errorf("after running out: remaining %v, %q", c.Remaining(), c.String())
	}
	c.Stop()
	if !c.Step(tick, false) {
		t.Error("stopped countdown should finish")
	}
}

func TestPickupAddsTime(t *testing.T) {
	g, _ := newTestGame(t, Config{Countdown: 90 * time.Second})
	g.SpawnPlayer(mgl64.Vec2{})
	g.SpawnPickup(mgl64.Vec2{0.2, 0}, 20)
	g.SpawnPickup(mgl64.Vec2{10, 0}, 20)

	var got []PickupCollected
	PickupCollectedEvent.Subscribe(g.World(), func(w donburi.World, e PickupCollected) {
		got = append(got, e)
	})

	g.Update(tick)
	if g.Countdown().Remaining() != 110*time.Second {
		t.Errorf("Remaining = %v, want 110s", g.Countdown().Remaining())
	}
	if g.PickupCount() != 1 {
		t.Errorf("PickupCount = %d, want 1", g.PickupCount())
	}
	if len(got) != 1 || got[0].Seconds != 20 {
		t.Errorf("events = %+v", got)
	}
}

func TestEnemyAttackCooldown(t *testing.T) {
	g, _ := newTestGame(t, Config{})
	kind := Mushroom
	kind.AttackChance = 1
	kind.WakeDelay = 200 * time.Millisecond
	kind.AttackDuration = 300 * time.Millisecond
	kind.Cooldown = 3 * time.Second

	g.SpawnPlayer(mgl64.Vec2{})
	ent := g.SpawnEnemy(&kind, mgl64.Vec2{0.5, 0})
	p := g.playerData()

	frames(g, 1)
	if g.Enemy(ent).Awake {
		t.Fatal("enemy woke early")
	}
	frames(g, 1)
	if e := g.Enemy(ent); !e.Awake || !e.Alerted || !e.Attacking {
		t.Fatalf("enemy = %+v, want awake, alerted and attacking", e)
	}
	frames(g, 3)
	if p.Health != 90 {
		t.Fatalf("health after first strike = %d, want 90", p.Health)
	}

	// The cooldown gate holds further attacks for three seconds.
	frames(g, 25)
	if p.Health != 90 || g.Enemy(ent).Attacking {
		t.Fatalf("attacked during cooldown: health %d", p.Health)
	}
	frames(g, 10)
	if p.Health != 80 {
		t.Errorf("health after cooldown = %d, want 80", p.Health)
	}
}

func TestIgniteDamageOverTime(t *testing.T) {
	g, _ := newTestGame(t, Config{})
	g.SpawnPlayer(mgl64.Vec2{})
	ent := g.SpawnEnemy(&Mushroom, mgl64.Vec2{20, 0})

	if !g.Ignite(ent, 2*time.Second) {
		t.Fatal("Ignite failed")
	}
	if g.Ignite(ent, 2*time.Second) {
		t.Fatal("re-igniting a burning enemy should fail")
	}
	frames(g, 1)
	if h := g.Enemy(ent).Health; h != 47 {
		t.Fatalf("health after first burn = %d, want 47", h)
	}
	frames(g, 10)
	if h := g.Enemy(ent).Health; h != 44 {
		t.Fatalf("health after second burn = %d, want 44", h)
	}
	frames(g, 30)
	e := g.Enemy(ent)
	if e.Ignited || e.Health != 44 {
		t.Errorf("burn should end after its duration: ignited %v, health %d", e.Ignited, e.Health)
	}
}

func TestIgniteStopsOnDeath(t *testing.T) {
	g, _ := newTestGame(t, Config{})
	ent := g.SpawnEnemy(&Mushroom, mgl64.Vec2{})
	g.Ignite(ent, 4*time.Second)
	frames(g, 1)

	g.DamageEnemy(ent, 100, false)
	e := g.Enemy(ent)
	if !e.Dead || e.Ignited {
		t.Fatalf("enemy = %+v, want dead and extinguished", e)
	}
	if !e.ignite.Stopped() {
		t.Error("ignite timer should be stopped on death")
	}
	frames(g, 20)
	if e := g.Enemy(ent); e.Health != 0 || e.Ignited {
		t.Errorf("corpse kept burning: %+v", e)
	}
	if g.Ignite(ent, time.Second) {
		t.Error("a dead enemy cannot be ignited")
	}
}

func TestCorpseResurrects(t *testing.T) {
	g, _ := newTestGame(t, Config{})
	g.SpawnPlayer(mgl64.Vec2{})
	kind := Mushroom
	kind.Health = 10
	kind.ReviveDelay = 500 * time.Millisecond
	ent := g.SpawnEnemy(&kind, mgl64.Vec2{})

	farmed := 0
	AuraFarmedEvent.Subscribe(g.World(), func(w donburi.World, e AuraFarmed) {
		farmed++
	})

	g.DamageEnemy(ent, 10, true)
	if !g.Enemy(ent).Dead {
		t.Fatal("enemy should die")
	}
	for range 5 {
		g.DamageEnemy(ent, 10, true)
	}
	g.DamageEnemy(ent, 10, true)
	if p := g.playerData(); p.Aura != 30 {
		t.Errorf("aura = %d, want 30", p.Aura)
	}

	frames(g, 5)
	e := g.Enemy(ent)
	if e.Dead {
		t.Fatal("enemy should be revived")
	}
	if e.MaxHealth != 20 || e.Health != 20 || e.Damage != 2*kind.Damage || e.AuraGain != 0 {
		t.Errorf("revived enemy = %+v", e)
	}
	if farmed != 1 {
		t.Errorf("AuraFarmed published %d times, want 1", farmed)
	}
}

func TestCastAbilities(t *testing.T) {
	g, _ := newTestGame(t, Config{})
	g.SpawnPlayer(mgl64.Vec2{})
	heal := Healing{AuraCost: 30, CastDelay: 400 * time.Millisecond, Amount: 0.35}
	blaze := Blaze{AuraCost: 40, CastDelay: 300 * time.Millisecond, Radius: 3, Duration: 4 * time.Second}

	if _, err := g.Cast(heal); !errors.Is(err, ErrNotEnoughAura) {
		t.Fatalf("err = %v, want ErrNotEnoughAura", err)
	}
	g.GainAura(100)
	g.TakeDamage(50)
	p := g.playerData()

	if _, err := g.Cast(heal); err != nil {
		t.Fatal(err)
	}
	if p.Aura != 70 {
		t.Errorf("aura = %d, want 70", p.Aura)
	}
	frames(g, 3)
	if p.Health != 50 {
		t.Fatal("heal landed before its delay")
	}
	frames(g, 1)
	if p.Health != 85 {
		t.Errorf("health = %d, want 85", p.Health)
	}

	near := g.SpawnEnemy(&Mushroom, mgl64.Vec2{1, 0})
	far := g.SpawnEnemy(&Mushroom, mgl64.Vec2{10, 0})
	if _, err := g.Cast(blaze); err != nil {
		t.Fatal(err)
	}
	frames(g, 3)
	if !g.Enemy(near).Ignited || g.Enemy(far).Ignited {
		t.Error("blaze should ignite only enemies within its radius")
	}
}

func TestCastSkippedAfterDeath(t *testing.T) {
	g, _ := newTestGame(t, Config{})
	g.SpawnPlayer(mgl64.Vec2{})
	g.GainAura(100)
	g.TakeDamage(50)
	if _, err := g.Cast(Healing{AuraCost: 10, CastDelay: tick, Amount: 1}); err != nil {
		t.Fatal(err)
	}
	g.playerData().invulnerable = false
	g.TakeDamage(100)
	frames(g, 2)
	if p := g.playerData(); p.Health != 0 {
		t.Errorf("dead player was healed to %d", p.Health)
	}
}

type enteredLog []chunk.ID

func (l *enteredLog) OnPlayerEnteredChunk(id chunk.ID) { *l = append(*l, id) }

func TestEnterChunks(t *testing.T) {
	var log enteredLog
	g, _ := newTestGame(t, Config{Chunks: &log})
	g.EnterChunks([]chunk.ID{3, 5})
	if len(log) != 2 || log[0] != 3 || log[1] != 5 {
		t.Errorf("entered = %v, want [3 5]", log)
	}
}

func TestStepPlayerLandsAndJumps(t *testing.T) {
	oracle := physics.New(physics.Config{Log: slog.New(slog.DiscardHandler)})
	oracle.AddSolid(chunk.Rect{X: -10, Y: 1, W: 20, H: 1})
	g, _ := newTestGame(t, Config{Physics: oracle})
	g.SpawnPlayer(mgl64.Vec2{})

	dt := 20 * time.Millisecond
	for range 30 {
		g.StepPlayer(Input{}, dt)
	}
	entry, _ := g.PlayerEntry()
	b := Body.Get(entry)
	if !b.Grounded {
		t.Fatal("player should have landed")
	}
	if bottom := b.Rect.Y + b.Rect.H; math.Abs(bottom-1) > 1e-9 {
		t.Fatalf("player bottom = %v, want 1", bottom)
	}

	x := b.Rect.X
	g.StepPlayer(Input{Move: 1}, dt)
	if got := b.Rect.X - x; math.Abs(got-0.08) > 1e-9 {
		t.Errorf("walked %v, want 0.08", got)
	}

	y := b.Rect.Y
	g.StepPlayer(Input{Jump: true}, dt)
	if b.Rect.Y >= y || b.Grounded {
		t.Errorf("jump did not lift the player: y %v -> %v", y, b.Rect.Y)
	}
}

func TestFrozenEnemiesWait(t *testing.T) {
	active := map[chunk.ID]bool{1: false}
	g, _ := newTestGame(t, Config{Active: func(id chunk.ID) bool { return active[id] }})
	g.SpawnPlayer(mgl64.Vec2{})
	kind := Mushroom
	kind.WakeDelay = 0
	ent := g.SpawnEnemy(&kind, mgl64.Vec2{3, 0})
	g.SetHome(ent, 1)

	frames(g, 5)
	entry := g.World().Entry(ent)
	if x := Body.Get(entry).Center().X(); x != 3 {
		t.Fatalf("frozen enemy moved to x=%v", x)
	}
	if g.Enemy(ent).Alerted {
		t.Fatal("frozen enemy noticed the player")
	}

	active[1] = true
	frames(g, 1)
	if !g.Enemy(ent).Alerted {
		t.Fatal("active enemy should notice the player")
	}
	if x := Body.Get(entry).Center().X(); x >= 3 {
		t.Errorf("enemy should chase the player, x=%v", x)
	}
}
