package ecs

import (
	"fmt"
	"time"

	"github.com/phanxgames/hollowreach/sched"
)

// Ability is an aura-powered skill. Casting pays the cost up front and
// performs the effect after the cast delay.
type Ability interface {
	Name() string
	Cost() int
	Delay() time.Duration
	Perform(g *Game)
}

// Healing restores a fraction of the player's max health.
type Healing struct {
	AuraCost  int
	CastDelay time.Duration
	Amount    float64
}

func (h Healing) Name() string         { return "healing" }
func (h Healing) Cost() int            { return h.AuraCost }
func (h Healing) Delay() time.Duration { return h.CastDelay }

// Perform implements Ability.
func (h Healing) Perform(g *Game) {
	g.GainHealth(h.Amount)
}

// Blaze ignites every living enemy within Radius of the player.
type Blaze struct {
	AuraCost  int
	CastDelay time.Duration
	Radius    float64
	Duration  time.Duration
}

func (b Blaze) Name() string         { return "blaze" }
func (b Blaze) Cost() int            { return b.AuraCost }
func (b Blaze) Delay() time.Duration { return b.CastDelay }

// Perform implements Ability.
func (b Blaze) Perform(g *Game) {
	for _, ent := range g.enemiesWithin(b.Radius) {
		g.Ignite(ent, b.Duration)
	}
}

// DefaultAbilities is the player's ability wheel.
var DefaultAbilities = []Ability{
	Healing{AuraCost: 30, CastDelay: 400 * time.Millisecond, Amount: 0.35},
	Blaze{AuraCost: 40, CastDelay: 300 * time.Millisecond, Radius: 3, Duration: 4 * time.Second},
}

// Cast spends a's aura cost and schedules its effect. The effect is skipped
// if the player has died by the time the delay elapses.
func (g *Game) Cast(a Ability) (*sched.RunAfter, error) {
	p := g.playerData()
	if p == nil {
		return nil, ErrNoPlayer
	}
	if p.Dead {
		return nil, ErrPlayerDead
	}
	if !g.ConsumeAura(a.Cost()) {
		return nil, fmt.Errorf("ecs: cast %s (cost %d, have %d): %w", a.Name(), a.Cost(), p.Aura, ErrNotEnoughAura)
	}
	g.log.Debug("ability cast", "ability", a.Name(), "cost", a.Cost())
	return g.runner.After(a.Delay(), func() {
		if p := g.playerData(); p == nil || p.Dead {
			return
		}
		a.Perform(g)
	})
}
