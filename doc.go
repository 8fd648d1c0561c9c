// Package hollowreach is a 2D side-scroller built on [Ebitengine] whose world
// streams in around the player as a graph of pre-authored chunks.
//
// # Quick start
//
// Load a configuration, build a [Scene] and hand it to [Run], which creates
// the window and game loop:
//
//	uc, err := hollowreach.LoadConfig("config.toml")
//	conf, err := uc.Config(slog.Default())
//	conf.Input = hollowreach.NewKeyboardInput()
//	scene, err := hollowreach.NewScene(conf)
//	err = hollowreach.Run(scene, uc.RunConfig())
//
// For full control, implement [ebiten.Game] yourself and call
// [Scene.Update] and [Scene.Draw] directly.
//
// # Frame loop
//
// Every frame tick [Scene.Update] reads input, advances the scheduler of
// package sched by one frame and then runs the physics ticks due this frame
// on a fixed step. A physics tick moves the player through the collision
// oracle of package physics, turns trigger overlaps into ChunkEntered events,
// runs the gameplay systems of package ecs and finally lets the chunk
// manager of package chunk re-evaluate which chunks are active.
//
// Pausing freezes every timed effect: status effects, cooldowns, HUD tweens
// and the round countdown all run on the same pause-aware scheduler.
//
// # Display
//
// Every chunk is mirrored into a [Node]. Inactive chunks are hidden by
// clearing [Node.Visible], which hides their solids too. The [Camera] follows
// the player and converts between world units and screen pixels; the [HUD]
// draws the vitals with bars eased by [TweenGroup] tweens (via [gween]).
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package hollowreach
