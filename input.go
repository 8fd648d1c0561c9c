package hollowreach

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Controls is one frame of player intent.
type Controls struct {
	// Move is the horizontal direction in [-1, 1].
	Move float64

	// Jump is held while the jump key is down.
	Jump   bool
	Attack bool
	Cast   bool

	NextAbility bool
	PrevAbility bool
	Pause       bool
	Debug       bool
	Screenshot  bool
}

// InputSource produces Controls once per frame.
type InputSource interface {
	Poll() Controls
}

// InputFunc adapts a function to InputSource.
type InputFunc func() Controls

// Poll calls f.
func (f InputFunc) Poll() Controls { return f() }

// KeyBindings maps each control to the keys that trigger it. Any key of a
// binding triggers it.
type KeyBindings struct {
	Left, Right []ebiten.Key
	Jump        []ebiten.Key
	Attack      []ebiten.Key
	Cast        []ebiten.Key
	Next, Prev  []ebiten.Key
	Pause       []ebiten.Key
	Debug       []ebiten.Key
	Screenshot  []ebiten.Key
}

// DefaultKeyBindings are arrow keys or WASD to move, space to jump.
var DefaultKeyBindings = KeyBindings{
	Left:       []ebiten.Key{ebiten.KeyA, ebiten.KeyArrowLeft},
	Right:      []ebiten.Key{ebiten.KeyD, ebiten.KeyArrowRight},
	Jump:       []ebiten.Key{ebiten.KeySpace, ebiten.KeyW, ebiten.KeyArrowUp},
	Attack:     []ebiten.Key{ebiten.KeyJ, ebiten.KeyZ},
	Cast:       []ebiten.Key{ebiten.KeyK, ebiten.KeyX},
	Next:       []ebiten.Key{ebiten.KeyE},
	Prev:       []ebiten.Key{ebiten.KeyQ},
	Pause:      []ebiten.Key{ebiten.KeyEscape, ebiten.KeyP},
	Debug:      []ebiten.Key{ebiten.KeyF3},
	Screenshot: []ebiten.Key{ebiten.KeyF12},
}

// KeyboardInput reads Controls from the keyboard. Held controls use
// ebiten.IsKeyPressed, one-shot actions use inpututil.IsKeyJustPressed.
type KeyboardInput struct {
	Bindings KeyBindings
}

// NewKeyboardInput returns a KeyboardInput using DefaultKeyBindings.
func NewKeyboardInput() *KeyboardInput {
	return &KeyboardInput{Bindings: DefaultKeyBindings}
}

// Poll implements InputSource.
func (k *KeyboardInput) Poll() Controls {
	b := &k.Bindings
	var c Controls
	if anyPressed(b.Left) {
		c.Move--
	}
	if anyPressed(b.Right) {
		c.Move++
	}
	c.Jump = anyPressed(b.Jump)
	c.Attack = anyJustPressed(b.Attack)
	c.Cast = anyJustPressed(b.Cast)
	c.NextAbility = anyJustPressed(b.Next)
	c.PrevAbility = anyJustPressed(b.Prev)
	c.Pause = anyJustPressed(b.Pause)
	c.Debug = anyJustPressed(b.Debug)
	c.Screenshot = anyJustPressed(b.Screenshot)
	return c
}

func anyPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

func anyJustPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}

// latch accumulates one-shot gameplay actions across frames that run no
// physics tick, so a press is never lost between fixed steps.
type latch struct {
	jump, attack bool
}

func (l *latch) add(c Controls) {
	l.jump = l.jump || c.Jump
	l.attack = l.attack || c.Attack
}

// take returns the latched actions and clears them.
func (l *latch) take() (jump, attack bool) {
	jump, attack = l.jump, l.attack
	*l = latch{}
	return jump, attack
}
