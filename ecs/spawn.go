package ecs

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/phanxgames/hollowreach/chunk"
	"github.com/yohamta/donburi"
)

// ErrUnknownKind is returned for a prefab spawn naming nothing spawnable.
var ErrUnknownKind = errors.New("ecs: unknown spawn kind")

// KindPickup is the spawn kind of timer pickups.
const KindPickup = "pickup"

// Kinds are the enemy kinds prefabs may spawn, by name.
var Kinds = map[string]*EnemyKind{
	Mushroom.Name: &Mushroom,
	Batty.Name:    &Batty,
}

// SpawnContent creates the authored entities of chunk c and homes them in
// it. Spawns of an unknown kind are skipped and reported together.
func (g *Game) SpawnContent(c *chunk.Chunk) ([]donburi.Entity, error) {
	bounds := c.Bounds()
	var (
		ents []donburi.Entity
		errs []error
	)
	for i, sp := range c.Prefab().Spawns {
		at := sp.At.Add(mgl64.Vec2{bounds.X, bounds.Y})
		var ent donburi.Entity
		switch kind, ok := Kinds[sp.Kind]; {
		case sp.Kind == KindPickup:
			ent = g.SpawnPickup(at, sp.Seconds)
		case ok:
			ent = g.SpawnEnemy(kind, at)
		default:
			errs = append(errs, fmt.Errorf("ecs: %v spawn %d %q: %w", c, i, sp.Kind, ErrUnknownKind))
			continue
		}
		g.SetHome(ent, c.ID())
		ents = append(ents, ent)
	}
	if len(ents) > 0 {
		g.log.Debug("chunk content spawned", "chunk", c.ID(), "entities", len(ents))
	}
	return ents, errors.Join(errs...)
}
