package chunk

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

//go:embed prefabs.yaml
var defaultPrefabs []byte

// Prefab is a pre-authored chunk layout. Chunks only ever choose among
// prefabs; their content is never generated.
type Prefab struct {
	Name  string
	Size  mgl64.Vec2
	Color [3]float64
	// Solids are ground and wall rectangles relative to the chunk's top-left.
	Solids []Rect
	// Sides is indexed by Direction.
	Sides [4]Side
	// Spawns are authored entity placements, created the first time the
	// chunk becomes active.
	Spawns []Spawn
}

// Spawn places one entity inside a chunk.
type Spawn struct {
	// Kind names what to create, e.g. an enemy kind or "pickup".
	Kind string
	// At is relative to the chunk's top-left.
	At mgl64.Vec2
	// Seconds is the countdown bonus of a pickup.
	Seconds int
}

// Side describes whether and how a chunk spawns a neighbor on one side.
type Side struct {
	// Spawn marks the side as a valid spawn point.
	Spawn bool
	// Offset is the neighbor's position relative to this chunk's position.
	// Nil means no spawn point was authored.
	Offset *mgl64.Vec2
	// Candidates are the prefab names one of which is chosen at random.
	Candidates []string
}

// Catalog is the set of prefabs available to a Manager.
type Catalog struct {
	prefabs map[string]*Prefab
	names   []string
}

type rawCatalog struct {
	Prefabs []rawPrefab `yaml:"prefabs"`
}

type rawPrefab struct {
	Name   string             `yaml:"name"`
	Size   [2]float64         `yaml:"size"`
	Color  [3]float64         `yaml:"color"`
	Solids [][4]float64       `yaml:"solids"`
	Sides  map[string]rawSide `yaml:"sides"`
	Spawns []rawSpawn         `yaml:"spawns"`
}

type rawSpawn struct {
	Kind    string     `yaml:"kind"`
	At      [2]float64 `yaml:"at"`
	Seconds int        `yaml:"seconds"`
}

type rawSide struct {
	Spawn      bool        `yaml:"spawn"`
	Offset     *[2]float64 `yaml:"offset"`
	Candidates []string    `yaml:"candidates"`
}

// DefaultCatalog returns the catalog embedded in the package.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultPrefabs)
	if err != nil {
		panic(fmt.Sprintf("chunk: embedded prefabs: %v", err))
	}
	return c
}

// ParseCatalog parses a YAML prefab catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	return LoadCatalog(bytes.NewReader(data))
}

// LoadCatalog decodes a YAML prefab catalog from r and validates it. An empty
// candidate list on a spawning side is accepted here and reported when the
// side is actually spawned.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var raw rawCatalog
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("chunk: parse catalog: no prefabs")
		}
		return nil, fmt.Errorf("chunk: parse catalog: %w", err)
	}
	if len(raw.Prefabs) == 0 {
		return nil, fmt.Errorf("chunk: parse catalog: no prefabs")
	}

	c := &Catalog{prefabs: make(map[string]*Prefab, len(raw.Prefabs))}
	for _, rp := range raw.Prefabs {
		p, err := rp.prefab()
		if err != nil {
			return nil, err
		}
		if _, dup := c.prefabs[p.Name]; dup {
			return nil, fmt.Errorf("chunk: duplicate prefab %q", p.Name)
		}
		c.prefabs[p.Name] = p
		c.names = append(c.names, p.Name)
	}
	sort.Strings(c.names)

	for _, name := range c.names {
		p := c.prefabs[name]
		for _, d := range Directions {
			for _, cand := range p.Sides[d].Candidates {
				if _, ok := c.prefabs[cand]; !ok {
					return nil, fmt.Errorf("chunk: prefab %q %s side: %w %q", name, d, ErrUnknownPrefab, cand)
				}
			}
		}
	}
	return c, nil
}

func (rp rawPrefab) prefab() (*Prefab, error) {
	if rp.Name == "" {
		return nil, fmt.Errorf("chunk: prefab without name")
	}
	if rp.Size[0] <= 0 || rp.Size[1] <= 0 {
		return nil, fmt.Errorf("chunk: prefab %q: size must be positive, got %v", rp.Name, rp.Size)
	}
	p := &Prefab{
		Name:  rp.Name,
		Size:  mgl64.Vec2{rp.Size[0], rp.Size[1]},
		Color: rp.Color,
	}
	for _, s := range rp.Solids {
		p.Solids = append(p.Solids, Rect{X: s[0], Y: s[1], W: s[2], H: s[3]})
	}
	for name, rs := range rp.Sides {
		d, err := ParseDirection(name)
		if err != nil {
			return nil, fmt.Errorf("chunk: prefab %q: %w", rp.Name, err)
		}
		side := Side{Spawn: rs.Spawn, Candidates: rs.Candidates}
		if rs.Offset != nil {
			off := mgl64.Vec2{rs.Offset[0], rs.Offset[1]}
			side.Offset = &off
		}
		p.Sides[d] = side
	}
	for i, rs := range rp.Spawns {
		if rs.Kind == "" {
			return nil, fmt.Errorf("chunk: prefab %q: spawn %d without kind", rp.Name, i)
		}
		at := mgl64.Vec2{rs.At[0], rs.At[1]}
		if at.X() < 0 || at.Y() < 0 || at.X() > p.Size.X() || at.Y() > p.Size.Y() {
			return nil, fmt.Errorf("chunk: prefab %q: spawn %s at %v lies outside the chunk", rp.Name, rs.Kind, rs.At)
		}
		p.Spawns = append(p.Spawns, Spawn{Kind: rs.Kind, At: at, Seconds: rs.Seconds})
	}
	return p, nil
}

// Prefab returns the prefab with the given name.
func (c *Catalog) Prefab(name string) (*Prefab, bool) {
	p, ok := c.prefabs[name]
	return p, ok
}

// Names returns every prefab name in sorted order. The returned slice MUST
// NOT be mutated.
func (c *Catalog) Names() []string {
	return c.names
}

// Len returns the number of prefabs.
func (c *Catalog) Len() int {
	return len(c.prefabs)
}
