// Package ecs holds the gameplay that runs on top of the streamed world: the
// player, enemies, pickups and the round countdown, stored in a [Donburi]
// world and timed by a [sched.Runner].
//
// Every delayed effect (invulnerability frames, attack cooldowns, status
// effects, ability casts) is a [sched.RunAfter] or [sched.Sleep] on the shared
// runner, so pausing the game freezes all of them at once.
//
// Cross-system notifications travel as donburi events. Subscribe to
// [ChunkEnteredEvent], [PlayerDamagedEvent], [PickupCollectedEvent] or
// [AuraFarmedEvent] to react to them:
//
//	ecs.PlayerDamagedEvent.Subscribe(g.World(), func(w donburi.World, e ecs.PlayerDamaged) {
//		hud.Flash()
//	})
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
