package ecs

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
)

const (
	// attackSlack extends an enemy's reach when deciding to strike.
	attackSlack   = 0.15
	burnDamage    = 3
	burnInterval  = time.Second
	enemyGravity  = 15.0
	igniteDefault = 4 * time.Second
)

// SpawnEnemy creates a dormant enemy of the given kind centered on at. It
// wakes after kind.WakeDelay of unpaused time.
func (g *Game) SpawnEnemy(kind *EnemyKind, at mgl64.Vec2) donburi.Entity {
	ent := g.world.Create(Body, Enemy)
	entry := g.world.Entry(ent)
	Body.SetValue(entry, BodyData{Rect: centeredRect(at, kind.Size)})
	Enemy.SetValue(entry, EnemyData{
		Kind:      kind,
		Health:    kind.Health,
		MaxHealth: kind.Health,
		Damage:    kind.Damage,
		AuraGain:  kind.AuraGain,
	})
	wake := g.runner.MustAfter(kind.WakeDelay, func() {
		if e := g.enemyData(ent); e != nil {
			e.Awake = true
		}
	})
	Enemy.Get(entry).wake = wake
	return ent
}

// EnemyCount returns the number of enemies in the world, dead or alive.
func (g *Game) EnemyCount() int {
	return g.enemies.Count(g.world)
}

func (g *Game) enemyData(ent donburi.Entity) *EnemyData {
	if !g.world.Valid(ent) {
		return nil
	}
	entry := g.world.Entry(ent)
	if !entry.HasComponent(Enemy) {
		return nil
	}
	return Enemy.Get(entry)
}

// Enemy returns the state of enemy ent, or nil.
func (g *Game) Enemy(ent donburi.Entity) *EnemyData {
	return g.enemyData(ent)
}

func (g *Game) updateEnemies(dt time.Duration) {
	target, hasPlayer := g.Position()
	g.enemies.Each(g.world, func(entry *donburi.Entry) {
		ent := entry.Entity()
		e := Enemy.Get(entry)
		b := Body.Get(entry)
		if g.frozen(b) {
			return
		}
		g.burn(ent, e)

		b.Velocity[0] = 0
		if e.Dead || !e.Awake || !hasPlayer {
			g.moveBody(b, enemyGravity, dt)
			return
		}
		center := b.Center()
		dist := center.Sub(target).Len()
		if !e.Alerted && dist <= e.Kind.Sight {
			e.Alerted = true
		}
		if e.Alerted && !e.Attacking {
			if dx := target.X() - center.X(); math.Abs(dx) > e.Kind.Reach {
				b.Velocity[0] = math.Copysign(e.Kind.Speed, dx)
			}
			g.tryAttack(ent, e, dist)
		}
		g.moveBody(b, enemyGravity, dt)
	})
}

// tryAttack starts an attack when the player is in reach, the cooldown gate
// has elapsed and the attack roll succeeds.
func (g *Game) tryAttack(ent donburi.Entity, e *EnemyData, dist float64) {
	if dist >= e.Kind.Reach+attackSlack {
		return
	}
	if e.cooldown != nil && !e.cooldown.Finished() {
		return
	}
	if g.rng.Float64() >= e.Kind.AttackChance {
		return
	}
	e.Attacking = true
	g.runner.MustAfter(e.Kind.AttackDuration, func() { g.finishAttack(ent) })
}

// finishAttack lands the strike if the player is still in reach and starts
// the cooldown.
func (g *Game) finishAttack(ent donburi.Entity) {
	e := g.enemyData(ent)
	if e == nil || !e.Attacking {
		return
	}
	e.Attacking = false
	if e.Dead {
		return
	}
	if target, ok := g.Position(); ok {
		center := Body.Get(g.world.Entry(ent)).Center()
		if center.Sub(target).Len() < e.Kind.Reach+attackSlack {
			g.TakeDamage(e.Damage)
		}
	}
	e.cooldown = g.runner.Sleep(e.Kind.Cooldown)
}

// burn applies damage over time while the enemy is ignited: one hit right
// away, then one per burnInterval.
func (g *Game) burn(ent donburi.Entity, e *EnemyData) {
	if !e.Ignited || e.Dead {
		return
	}
	if e.burn != nil && !e.burn.Finished() {
		return
	}
	g.damageEnemy(ent, e, burnDamage, false)
	if e.Ignited {
		e.burn = g.runner.Sleep(burnInterval)
	}
}

// Ignite sets enemy ent on fire for d. It reports false if the enemy is dead
// or already burning.
func (g *Game) Ignite(ent donburi.Entity, d time.Duration) bool {
	e := g.enemyData(ent)
	if e == nil || e.Dead || e.Ignited {
		return false
	}
	if d <= 0 {
		d = igniteDefault
	}
	e.Ignited = true
	e.burn = nil
	e.ignite = g.runner.MustAfter(d, func() {
		if e := g.enemyData(ent); e != nil {
			e.Ignited = false
		}
	})
	return true
}

// DamageEnemy hits enemy ent for amount. When giveAura is set the player
// gains the enemy's aura reward.
func (g *Game) DamageEnemy(ent donburi.Entity, amount int, giveAura bool) {
	if e := g.enemyData(ent); e != nil {
		g.damageEnemy(ent, e, amount, giveAura)
	}
}

func (g *Game) damageEnemy(ent donburi.Entity, e *EnemyData, amount int, giveAura bool) {
	if giveAura {
		g.GainAura(e.AuraGain)
	}
	if e.Dead {
		if e.reviving {
			return
		}
		e.afterDeathHits++
		if e.Kind.ReviveHits > 0 && e.afterDeathHits == e.Kind.ReviveHits {
			g.resurrect(ent, e)
		}
		return
	}
	e.Health -= amount
	e.Alerted = true
	if e.Health > 0 {
		return
	}
	e.Health = 0
	e.Dead = true
	e.Attacking = false
	e.afterDeathHits = 0
	e.Ignited = false
	if e.ignite != nil {
		e.ignite.Stop()
	}
	g.log.Debug("enemy died", "kind", e.Kind.Name, "entity", ent)
}

// resurrect revives a corpse that was hit too often, twice as strong and
// worth no aura.
func (g *Game) resurrect(ent donburi.Entity, e *EnemyData) {
	if !g.auraFarmed {
		g.auraFarmed = true
		AuraFarmedEvent.Publish(g.world, AuraFarmed{Enemy: ent})
	}
	e.reviving = true
	e.MaxHealth *= 2
	e.Health = e.MaxHealth
	e.Damage *= 2
	e.AuraGain = 0
	g.runner.MustAfter(e.Kind.ReviveDelay, func() {
		if e := g.enemyData(ent); e != nil {
			e.Dead = false
			e.reviving = false
			e.afterDeathHits = 0
		}
	})
}

// PlayerAttack hits every enemy within the player's reach, corpses included,
// and returns how many were hit.
func (g *Game) PlayerAttack() int {
	target, ok := g.Position()
	if !ok {
		return 0
	}
	if p := g.playerData(); p.Dead {
		return 0
	}
	var hits []donburi.Entity
	g.enemies.Each(g.world, func(entry *donburi.Entry) {
		if Body.Get(entry).Center().Sub(target).Len() <= g.tuning.AttackReach {
			hits = append(hits, entry.Entity())
		}
	})
	for _, ent := range hits {
		g.DamageEnemy(ent, g.tuning.AttackDamage, true)
	}
	return len(hits)
}

// enemiesWithin returns the living enemies whose centers lie within radius
// of the player.
func (g *Game) enemiesWithin(radius float64) []donburi.Entity {
	target, ok := g.Position()
	if !ok {
		return nil
	}
	var found []donburi.Entity
	g.enemies.Each(g.world, func(entry *donburi.Entry) {
		if Enemy.Get(entry).Dead {
			return
		}
		if Body.Get(entry).Center().Sub(target).Len() <= radius {
			found = append(found, entry.Entity())
		}
	})
	return found
}
