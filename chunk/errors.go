package chunk

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCandidates is returned when a side is spawned from an empty
	// candidate list. It is a configuration error: nothing is created.
	ErrNoCandidates = errors.New("chunk: empty candidate list")
	// ErrNoSpawnPoint is returned when a side is flagged for spawning but the
	// prefab has no spawn offset for it.
	ErrNoSpawnPoint = errors.New("chunk: missing spawn point")
	// ErrOccupied is returned when a side's spawn point already holds a
	// chunk. The side is left unlinked so the graph stays a tree.
	ErrOccupied = errors.New("chunk: spawn point occupied")
	// ErrUnknownPrefab is returned for a prefab name absent from the catalog.
	ErrUnknownPrefab = errors.New("chunk: unknown prefab")
	// ErrUnknownChunk is returned for an ID the graph does not hold.
	ErrUnknownChunk = errors.New("chunk: unknown chunk")
	// ErrRunawayTraversal reports that a tick visited more chunks than the
	// visit ceiling allows, which means the neighbor graph has a cycle the
	// arrival-direction rule cannot break.
	ErrRunawayTraversal = errors.New("chunk: runaway traversal")
)

// RunawayError carries the diagnostics of an aborted traversal.
type RunawayError struct {
	Root    ID
	Tick    uint64
	Visits  int
	Ceiling int
	// Chunk is the chunk whose visit tripped the ceiling.
	Chunk ID
}

func (e *RunawayError) Error() string {
	return fmt.Sprintf("chunk: runaway traversal from chunk#%d on tick %d: %d visits exceed ceiling %d (tripped at chunk#%d)",
		e.Root, e.Tick, e.Visits, e.Ceiling, e.Chunk)
}

// Unwrap returns ErrRunawayTraversal.
func (e *RunawayError) Unwrap() error {
	return ErrRunawayTraversal
}
