package ecs

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/phanxgames/hollowreach/chunk"
	"github.com/phanxgames/hollowreach/sched"
	"github.com/yohamta/donburi"
)

// BodyData is an entity's collision rectangle and velocity in world units.
type BodyData struct {
	Rect     chunk.Rect
	Velocity mgl64.Vec2
	Grounded bool
	// Home is the chunk the entity was placed in, or chunk.NoChunk.
	Home chunk.ID
}

// Center returns the body's midpoint.
func (b *BodyData) Center() mgl64.Vec2 { return b.Rect.Center() }

// PlayerData holds the player's vitals.
type PlayerData struct {
	Health, MaxHealth int
	Aura, MaxAura     int
	Dead              bool

	invulnerable bool
	iframes      *sched.RunAfter
}

// Invulnerable reports whether the post-hit invulnerability window is open.
func (p *PlayerData) Invulnerable() bool { return p.invulnerable }

// HealthPercent returns health as a fraction of max health in [0, 1].
func (p *PlayerData) HealthPercent() float64 { return fraction(p.Health, p.MaxHealth) }

// AuraPercent returns aura as a fraction of max aura in [0, 1].
func (p *PlayerData) AuraPercent() float64 { return fraction(p.Aura, p.MaxAura) }

func fraction(v, limit int) float64 {
	if limit <= 0 {
		return 0
	}
	return min(max(float64(v)/float64(limit), 0), 1)
}

// EnemyKind is the authored tuning of one enemy type.
type EnemyKind struct {
	Name     string
	Health   int
	Damage   int
	AuraGain int
	Speed    float64
	// Sight is how close the player must be before the enemy gives chase.
	Sight float64
	// Reach is the distance at which the enemy may attack.
	Reach float64
	// AttackChance is the probability, per physics tick in reach, of
	// starting an attack once the cooldown has elapsed.
	AttackChance   float64
	AttackDuration time.Duration
	Cooldown       time.Duration
	// WakeDelay is how long a freshly spawned enemy stays dormant.
	WakeDelay time.Duration
	// ReviveHits is how many hits a corpse absorbs before resurrecting.
	// Zero disables resurrection.
	ReviveHits  int
	ReviveDelay time.Duration
	Size        mgl64.Vec2
}

// Mushroom is a ground enemy that wakes slowly and bites hard.
var Mushroom = EnemyKind{
	Name:           "mushroom",
	Health:         50,
	Damage:         10,
	AuraGain:       5,
	Speed:          4,
	Sight:          4,
	Reach:          1,
	AttackChance:   0.3,
	AttackDuration: 850 * time.Millisecond,
	Cooldown:       3 * time.Second,
	WakeDelay:      500 * time.Millisecond,
	ReviveHits:     5,
	ReviveDelay:    time.Second,
	Size:           mgl64.Vec2{0.8, 0.8},
}

// Batty is a fast, fragile enemy.
var Batty = EnemyKind{
	Name:           "batty",
	Health:         20,
	Damage:         5,
	AuraGain:       3,
	Speed:          6,
	Sight:          6,
	Reach:          0.8,
	AttackChance:   0.5,
	AttackDuration: 400 * time.Millisecond,
	Cooldown:       3 * time.Second,
	WakeDelay:      1500 * time.Millisecond,
	Size:           mgl64.Vec2{0.6, 0.4},
}

// EnemyData is the runtime state of one enemy.
type EnemyData struct {
	Kind      *EnemyKind
	Health    int
	MaxHealth int
	Damage    int
	AuraGain  int

	Awake     bool
	Alerted   bool
	Attacking bool
	Dead      bool
	Ignited   bool

	afterDeathHits int
	reviving       bool
	wake           *sched.RunAfter
	cooldown       *sched.Sleep
	ignite         *sched.RunAfter
	burn           *sched.Sleep
}

// PickupData is a collectible that adds time to the countdown.
type PickupData struct {
	Seconds int
}

var (
	Body   = donburi.NewComponentType[BodyData]()
	Player = donburi.NewComponentType[PlayerData]()
	Enemy  = donburi.NewComponentType[EnemyData]()
	Pickup = donburi.NewComponentType[PickupData]()
)
