package hollowreach

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// fpsInterval is how often the FPS text refreshes, in seconds.
const fpsInterval = 0.5

// FPSCounter displays the current FPS and TPS. The text is refreshed every
// ~0.5 seconds.
type FPSCounter struct {
	// FPS and TPS sample the rates. They default to ebiten.ActualFPS and
	// ebiten.ActualTPS.
	FPS, TPS func() float64

	elapsed float64
	stale   bool
	text    string
}

// NewFPSCounter creates a counter sampling ebiten's measured rates.
func NewFPSCounter() *FPSCounter {
	return &FPSCounter{FPS: ebiten.ActualFPS, TPS: ebiten.ActualTPS, stale: true}
}

// Update advances the refresh clock by dt seconds.
func (f *FPSCounter) Update(dt float64) {
	f.elapsed += dt
	if f.elapsed < fpsInterval {
		return
	}
	f.elapsed = 0
	f.stale = true
}

// Text returns the displayed text, sampling the rates if a refresh is due.
func (f *FPSCounter) Text() string {
	if f.stale {
		f.stale = false
		f.text = fmt.Sprintf("FPS: %.1f\nTPS: %.1f", f.FPS(), f.TPS())
	}
	return f.text
}

// Draw renders the counter at the top-right corner of screen.
func (f *FPSCounter) Draw(screen *ebiten.Image) {
	x := screen.Bounds().Dx() - 100
	// Semi-transparent background for readability.
	vector.DrawFilledRect(screen, float32(x), 0, 100, 32, Color{0, 0, 0, 0.5}.RGBA(), false)
	ebitenutil.DebugPrintAt(screen, f.Text(), x+4, 0)
}
