package chunk

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	if c.Len() == 0 {
		t.Fatal("default catalog is empty")
	}
	meadow, ok := c.Prefab("meadow")
	if !ok {
		t.Fatal("default catalog lacks meadow")
	}
	if meadow.Size != (mgl64.Vec2{24, 12}) {
		t.Errorf("meadow size = %v", meadow.Size)
	}
	right := meadow.Sides[Right]
	if !right.Spawn || right.Offset == nil || *right.Offset != (mgl64.Vec2{24, 0}) {
		t.Errorf("meadow right side = %+v", right)
	}
	if len(meadow.Solids) == 0 {
		t.Error("meadow should have ground")
	}
	names := c.Names()
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("Names not sorted: %v", names)
		}
	}
}

func TestParseCatalogErrors(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{"empty", ``, "no prefabs"},
		{"no prefabs", `prefabs: []`, "no prefabs"},
		{"unnamed", "prefabs:\n  - size: [1, 1]\n", "without name"},
		{"bad size", "prefabs:\n  - name: a\n    size: [0, 1]\n", "size must be positive"},
		{"duplicate", "prefabs:\n  - name: a\n    size: [1, 1]\n  - name: a\n    size: [1, 1]\n", "duplicate"},
		{"bad side", "prefabs:\n  - name: a\n    size: [1, 1]\n    sides:\n      north: {spawn: true}\n", "unknown side"},
		{"unknown field", "prefabs:\n  - name: a\n    size: [1, 1]\n    weight: 3\n", "weight"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tc.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("err = %v, want it to mention %q", err, tc.want)
			}
		})
	}
}

func TestParseCatalogUnknownCandidate(t *testing.T) {
	_, err := ParseCatalog([]byte(`
prefabs:
  - name: a
    size: [1, 1]
    sides:
      left: {spawn: true, offset: [-1, 0], candidates: [b]}
`))
	if !errors.Is(err, ErrUnknownPrefab) {
		t.Errorf("err = %v, want ErrUnknownPrefab", err)
	}
}

func TestDirection(t *testing.T) {
	pairs := map[Direction]Direction{Left: Right, Right: Left, Top: Bottom, Bottom: Top, None: None}
	for d, want := range pairs {
		if got := d.Opposite(); got != want {
			t.Errorf("%v.Opposite() = %v, want %v", d, got, want)
		}
	}
	for _, d := range Directions {
		got, err := ParseDirection(d.String())
		if err != nil || got != d {
			t.Errorf("ParseDirection(%q) = %v, %v", d.String(), got, err)
		}
	}
	if _, err := ParseDirection("up"); err == nil {
		t.Error("expected error for unknown side")
	}
	if None.Valid() || Direction(7).Valid() {
		t.Error("None and out-of-range values are not valid sides")
	}
	if Direction(7).String() != "Direction(7)" {
		t.Errorf("String = %q", Direction(7).String())
	}
}

func TestRect(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 10, H: 5}
	if !r.Contains(10, 5) || r.Contains(10.1, 0) {
		t.Error("Contains edge handling wrong")
	}
	if r.Intersects(Rect{X: 10, Y: 0, W: 5, H: 5}) {
		t.Error("edge-adjacent rects must not intersect")
	}
	if !r.Intersects(Rect{X: 9, Y: 4, W: 5, H: 5}) {
		t.Error("overlapping rects must intersect")
	}
	if c := r.Center(); c != (mgl64.Vec2{5, 2.5}) {
		t.Errorf("Center = %v", c)
	}
	if o := r.Offset(mgl64.Vec2{1, 2}); o != (Rect{X: 1, Y: 2, W: 10, H: 5}) {
		t.Errorf("Offset = %v", o)
	}
}

func TestChunkBounds(t *testing.T) {
	m, _ := newTestManager(t, 35, 100)
	c := mustSeed(t, m, "island", 100, 50)
	want := Rect{X: 80, Y: 40, W: 40, H: 20}
	if got := c.Bounds(); got != want {
		t.Errorf("Bounds = %v, want %v", got, want)
	}
	if !strings.Contains(c.String(), "island") {
		t.Errorf("String = %q", c.String())
	}
}

func TestParseCatalogSpawns(t *testing.T) {
	c, err := ParseCatalog([]byte(`
prefabs:
  - name: a
    size: [10, 5]
    spawns:
      - {kind: pickup, at: [2, 3], seconds: 15}
`))
	if err != nil {
		t.Fatal(err)
	}
	p, _ := c.Prefab("a")
	if len(p.Spawns) != 1 {
		t.Fatalf("Spawns = %v", p.Spawns)
	}
	if s := p.Spawns[0]; s.Kind != "pickup" || s.At != (mgl64.Vec2{2, 3}) || s.Seconds != 15 {
		t.Errorf("spawn = %+v", s)
	}

	for _, bad := range []string{
		"prefabs:\n  - name: a\n    size: [10, 5]\n    spawns:\n      - {at: [1, 1]}\n",
		"prefabs:\n  - name: a\n    size: [10, 5]\n    spawns:\n      - {kind: pickup, at: [11, 1]}\n",
	} {
		if _, err := ParseCatalog([]byte(bad)); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
