package ecs

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
)

var pickupSize = mgl64.Vec2{0.6, 0.6}

// SpawnPickup places a timer pickup worth seconds centered on at.
func (g *Game) SpawnPickup(at mgl64.Vec2, seconds int) donburi.Entity {
	ent := g.world.Create(Body, Pickup)
	entry := g.world.Entry(ent)
	Body.SetValue(entry, BodyData{Rect: centeredRect(at, pickupSize)})
	Pickup.SetValue(entry, PickupData{Seconds: seconds})
	return ent
}

// PickupCount returns the number of uncollected pickups.
func (g *Game) PickupCount() int {
	return g.pickups.Count(g.world)
}

// collectPickups removes every pickup the living player overlaps and adds
// its time to the countdown.
func (g *Game) collectPickups() {
	body, ok := g.PlayerBody()
	if !ok {
		return
	}
	if p := g.playerData(); p.Dead {
		return
	}
	var taken []donburi.Entity
	g.pickups.Each(g.world, func(entry *donburi.Entry) {
		if !body.Intersects(Body.Get(entry).Rect) {
			return
		}
		seconds := Pickup.Get(entry).Seconds
		g.countdown.Add(seconds)
		PickupCollectedEvent.Publish(g.world, PickupCollected{Entity: entry.Entity(), Seconds: seconds})
		taken = append(taken, entry.Entity())
	})
	for _, ent := range taken {
		g.world.Remove(ent)
	}
}
