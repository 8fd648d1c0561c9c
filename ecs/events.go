package ecs

import (
	"github.com/phanxgames/hollowreach/chunk"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// ChunkEntered is published when the player's body begins overlapping a
// chunk's trigger volume.
type ChunkEntered struct {
	Chunk chunk.ID
}

// PlayerDamaged is published after the player loses health.
type PlayerDamaged struct {
	Amount int
	Health int
	Dead   bool
}

// PickupCollected is published when the player collects a timer pickup.
type PickupCollected struct {
	Entity  donburi.Entity
	Seconds int
}

// AuraFarmed is published the first time an enemy is resurrected by hitting
// its corpse.
type AuraFarmed struct {
	Enemy donburi.Entity
}

var (
	ChunkEnteredEvent    = events.NewEventType[ChunkEntered]()
	PlayerDamagedEvent   = events.NewEventType[PlayerDamaged]()
	PickupCollectedEvent = events.NewEventType[PickupCollected]()
	AuraFarmedEvent      = events.NewEventType[AuraFarmed]()
)
