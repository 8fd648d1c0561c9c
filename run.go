package hollowreach

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title string
	// Width and Height are the initial window size. Default to the scene's
	// screen size.
	Width, Height int
	// TPS is the ebiten tick rate. Defaults to the scene's TPS.
	TPS int
}

// gameShell adapts a Scene to ebiten.Game.
type gameShell struct {
	scene *Scene
}

func (g *gameShell) Update() error {
	g.scene.Update()
	return nil
}

func (g *gameShell) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *gameShell) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.scene.Layout(outsideWidth, outsideHeight)
}

// Run opens a window and runs scene until the window is closed.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = scene.conf.ScreenWidth, scene.conf.ScreenHeight
	}
	if cfg.TPS <= 0 {
		cfg.TPS = scene.conf.TPS
	}
	if cfg.TPS != scene.conf.TPS {
		scene.log.Warn("window tick rate differs from scene tick rate, game time will drift",
			"window", cfg.TPS, "scene", scene.conf.TPS)
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetTPS(cfg.TPS)
	return ebiten.RunGame(&gameShell{scene: scene})
}
