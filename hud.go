package hollowreach

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/phanxgames/hollowreach/sched"
	"github.com/tanema/gween/ease"
)

const (
	barWidth    = 200
	barHeight   = 12
	barDuration = 0.35
	flashFade   = 0.4
)

var (
	colorHealth  = Color{0.85, 0.2, 0.25, 1}
	colorAura    = Color{0.35, 0.45, 0.95, 1}
	colorBarBack = Color{0, 0, 0, 0.5}
	colorFlash   = Color{1, 0, 0, 1}
)

// HUDState is the per-frame text the HUD shows.
type HUDState struct {
	Countdown string
	Ability   string
	Paused    bool
	// Over is the round-over banner. Empty while the round runs.
	Over string
}

// HUD draws the player's vitals in screen space. The bars ease toward their
// targets with tweens that run on the scene's Runner, so they freeze while
// the game is paused.
type HUD struct {
	runner *sched.Runner

	// Health and Aura are the displayed bar fractions.
	Health, Aura float64
	// Flash is the opacity of the damage flash.
	Flash float64

	healthTarget, auraTarget float64
	healthTween, auraTween   *TweenGroup
	flashTween               *TweenGroup

	message      string
	messageTimer *sched.RunAfter
}

// NewHUD creates a HUD showing full bars.
func NewHUD(runner *sched.Runner) *HUD {
	return &HUD{
		runner:       runner,
		Health:       1,
		Aura:         1,
		healthTarget: 1,
		auraTarget:   1,
	}
}

// SetTargets retargets the health and aura bars.
func (h *HUD) SetTargets(health, aura float64) {
	if health != h.healthTarget {
		h.healthTarget = health
		h.healthTween = h.retween(h.healthTween, &h.Health, health)
	}
	if aura != h.auraTarget {
		h.auraTarget = aura
		h.auraTween = h.retween(h.auraTween, &h.Aura, aura)
	}
}

func (h *HUD) retween(old *TweenGroup, field *float64, to float64) *TweenGroup {
	if old != nil {
		old.Stop()
	}
	g := TweenValue(field, to, barDuration, ease.OutQuad)
	h.runner.Go(g)
	return g
}

// DamageFlash tints the screen red and fades it out.
func (h *HUD) DamageFlash() {
	if h.flashTween != nil {
		h.flashTween.Stop()
	}
	h.Flash = 1
	h.flashTween = TweenValue(&h.Flash, 0, flashFade, ease.Linear)
	h.runner.Go(h.flashTween)
}

// Announce shows msg for d of unpaused time, replacing any current message.
func (h *HUD) Announce(msg string, d time.Duration) {
	if h.messageTimer != nil {
		h.messageTimer.Stop()
	}
	h.message = msg
	h.messageTimer = h.runner.MustAfter(d, func() { h.message = "" })
}

// Message returns the current announcement.
func (h *HUD) Message() string { return h.message }

// Draw renders the HUD onto screen.
func (h *HUD) Draw(screen *ebiten.Image, st HUDState) {
	w, ht := screen.Bounds().Dx(), screen.Bounds().Dy()

	if h.Flash > 0 {
		vector.DrawFilledRect(screen, 0, 0, float32(w), float32(ht), Color{colorFlash.R, colorFlash.G, colorFlash.B, h.Flash * 0.35}.RGBA(), false)
	}

	drawBar(screen, 10, 10, h.Health, colorHealth)
	drawBar(screen, 10, 10+barHeight+4, h.Aura, colorAura)

	ebitenutil.DebugPrintAt(screen, st.Countdown, w/2-15, 8)
	if st.Ability != "" {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("ability: %s", st.Ability), 10, 10+2*(barHeight+4))
	}
	if h.message != "" {
		ebitenutil.DebugPrintAt(screen, h.message, w/2-3*len(h.message), ht/4)
	}
	switch {
	case st.Over != "":
		ebitenutil.DebugPrintAt(screen, st.Over, w/2-3*len(st.Over), ht/2)
	case st.Paused:
		ebitenutil.DebugPrintAt(screen, "PAUSED", w/2-18, ht/2)
	}
}

func drawBar(screen *ebiten.Image, x, y float32, frac float64, c Color) {
	vector.DrawFilledRect(screen, x, y, barWidth, barHeight, colorBarBack.RGBA(), false)
	fill := float32(clamp01(frac)) * barWidth
	if fill > 0 {
		vector.DrawFilledRect(screen, x, y, fill, barHeight, c.RGBA(), false)
	}
	vector.StrokeRect(screen, x, y, barWidth, barHeight, 1, ColorBlack.RGBA(), false)
}
