package hollowreach

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/pelletier/go-toml"
	"github.com/phanxgames/hollowreach/chunk"
)

// Config holds the load-time settings of a Scene. The zero value of every
// field except Log and Input selects a default.
type Config struct {
	// Log receives scene, chunk and gameplay logs. If nil, slog.Default()
	// is used.
	Log *slog.Logger
	// Catalog holds the chunk prefabs. If nil, chunk.DefaultCatalog() is
	// used.
	Catalog *chunk.Catalog
	// Input supplies player controls once per frame. If nil, the player
	// receives no input.
	Input InputSource

	// OriginPrefab is the prefab of the first chunk, placed at Origin.
	// Defaults to "meadow".
	OriginPrefab string
	Origin       mgl64.Vec2
	// PlayerStart is where the player spawns, relative to Origin.
	PlayerStart mgl64.Vec2

	// RenderDistance is the distance at or beyond which chunks deactivate.
	// Defaults to 40.
	RenderDistance float64
	// VisitCeiling bounds the chunk evaluations of one physics tick.
	// Defaults to 64.
	VisitCeiling int
	Seed         uint64
	// Countdown is the starting round time. Defaults to 90 seconds.
	Countdown time.Duration

	// TPS is the frame tick rate. Defaults to 60.
	TPS int
	// PhysicsRate is the physics tick rate. Defaults to 50.
	PhysicsRate int
	// MaxPhysicsSteps bounds the physics ticks run in one frame. Defaults
	// to 5.
	MaxPhysicsSteps int

	// ScreenWidth and ScreenHeight are the logical screen size in pixels.
	// Default to 960x540.
	ScreenWidth, ScreenHeight int
	// Zoom is the number of pixels per world unit. Defaults to 24.
	Zoom float64
	// Debug starts with the chunk overlay shown.
	Debug   bool
	ShowFPS bool
	// ScreenshotDir receives screenshots. Defaults to "screenshots".
	ScreenshotDir string
}

func (c Config) withDefaults() Config {
	if c.Log == nil {
		c.Log = slog.Default()
	}
	if c.Catalog == nil {
		c.Catalog = chunk.DefaultCatalog()
	}
	if c.Input == nil {
		c.Input = InputFunc(func() Controls { return Controls{} })
	}
	if c.OriginPrefab == "" {
		c.OriginPrefab = "meadow"
	}
	if c.RenderDistance <= 0 {
		c.RenderDistance = 40
	}
	if c.VisitCeiling <= 0 {
		c.VisitCeiling = 64
	}
	if c.Countdown <= 0 {
		c.Countdown = 90 * time.Second
	}
	if c.TPS <= 0 {
		c.TPS = 60
	}
	if c.PhysicsRate <= 0 {
		c.PhysicsRate = 50
	}
	if c.MaxPhysicsSteps <= 0 {
		c.MaxPhysicsSteps = 5
	}
	if c.ScreenWidth <= 0 || c.ScreenHeight <= 0 {
		c.ScreenWidth, c.ScreenHeight = 960, 540
	}
	if c.Zoom <= 0 {
		c.Zoom = 24
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = "screenshots"
	}
	return c
}

// UserConfig is the user-editable configuration stored in config.toml. It may
// be serialised and is converted to a Config by calling UserConfig.Config().
type UserConfig struct {
	World struct {
		// RenderDistance is the distance from the player at or beyond which
		// chunks are hidden and stop simulating.
		RenderDistance float64
		// VisitCeiling bounds how many chunks one traversal may evaluate
		// before it is treated as runaway.
		VisitCeiling int
		// Seed seeds chunk selection and enemy decisions.
		Seed int64
		// OriginPrefab names the prefab of the first chunk.
		OriginPrefab string
		// PrefabFile is a YAML prefab catalog. If empty, the built-in
		// catalog is used.
		PrefabFile string
		// CountdownSeconds is the starting round time.
		CountdownSeconds int
	}
	Timing struct {
		// TPS is the frame tick rate.
		TPS int
		// PhysicsRate is the fixed physics tick rate.
		PhysicsRate int
		// MaxPhysicsSteps bounds how many physics ticks a slow frame may
		// catch up on.
		MaxPhysicsSteps int
	}
	Window struct {
		Title         string
		Width, Height int
		// Zoom is the number of pixels per world unit.
		Zoom    float64
		Debug   bool
		ShowFPS bool
	}
}

// DefaultConfig returns a UserConfig with the default values filled out.
func DefaultConfig() UserConfig {
	c := UserConfig{}
	c.World.RenderDistance = 40
	c.World.VisitCeiling = 64
	c.World.Seed = 0
	c.World.OriginPrefab = "meadow"
	c.World.CountdownSeconds = 90
	c.Timing.TPS = 60
	c.Timing.PhysicsRate = 50
	c.Timing.MaxPhysicsSteps = 5
	c.Window.Title = "Hollowreach"
	c.Window.Width = 960
	c.Window.Height = 540
	c.Window.Zoom = 24
	return c
}

// LoadConfig reads the UserConfig at path. A missing file is created with
// DefaultConfig.
func LoadConfig(path string) (UserConfig, error) {
	c := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return c, fmt.Errorf("read config: %w", err)
		}
		return c, writeConfig(path, c)
	}
	if err := toml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("decode config: %w", err)
	}
	return c, nil
}

func writeConfig(path string, c UserConfig) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0777); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Config converts uc to a Config. The prefab file, if any, is loaded and the
// origin prefab must exist in the resulting catalog. Every log line of the
// scene carries a session attribute unique to this run.
func (uc UserConfig) Config(log *slog.Logger) (Config, error) {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("session", uuid.NewString())

	cat := chunk.DefaultCatalog()
	if uc.World.PrefabFile != "" {
		f, err := os.Open(uc.World.PrefabFile)
		if err != nil {
			return Config{}, fmt.Errorf("open prefab file: %w", err)
		}
		defer f.Close()
		if cat, err = chunk.LoadCatalog(f); err != nil {
			return Config{}, fmt.Errorf("load prefab file %s: %w", uc.World.PrefabFile, err)
		}
	}
	origin := uc.World.OriginPrefab
	if origin == "" {
		origin = "meadow"
	}
	if _, ok := cat.Prefab(origin); !ok {
		return Config{}, fmt.Errorf("origin prefab %q: %w", origin, chunk.ErrUnknownPrefab)
	}

	return Config{
		Log:             log,
		Catalog:         cat,
		OriginPrefab:    origin,
		RenderDistance:  uc.World.RenderDistance,
		VisitCeiling:    uc.World.VisitCeiling,
		Seed:            uint64(uc.World.Seed),
		Countdown:       time.Duration(uc.World.CountdownSeconds) * time.Second,
		TPS:             uc.Timing.TPS,
		PhysicsRate:     uc.Timing.PhysicsRate,
		MaxPhysicsSteps: uc.Timing.MaxPhysicsSteps,
		ScreenWidth:     uc.Window.Width,
		ScreenHeight:    uc.Window.Height,
		Zoom:            uc.Window.Zoom,
		Debug:           uc.Window.Debug,
		ShowFPS:         uc.Window.ShowFPS,
	}, nil
}

// RunConfig returns the window settings of uc.
func (uc UserConfig) RunConfig() RunConfig {
	return RunConfig{
		Title:  uc.Window.Title,
		Width:  uc.Window.Width,
		Height: uc.Window.Height,
		TPS:    uc.Timing.TPS,
	}
}
