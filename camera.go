package hollowreach

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/phanxgames/hollowreach/chunk"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera controls the view into the world: the world position at the center
// of the viewport and the zoom, in pixels per world unit.
type Camera struct {
	// X and Y are the world-space position the camera centers on.
	X, Y float64
	// Zoom is the number of screen pixels per world unit.
	Zoom float64
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport chunk.Rect

	followTarget chunk.PositionSource
	followOffset mgl64.Vec2
	followLerp   float64

	scrollTween *scrollAnim
}

// NewCamera creates a Camera with the given viewport and zoom.
func NewCamera(viewport chunk.Rect, zoom float64) *Camera {
	if zoom <= 0 {
		zoom = 1
	}
	return &Camera{Zoom: zoom, Viewport: viewport}
}

// Follow makes the camera track a target with the given offset and lerp factor.
// A lerp of 1.0 snaps immediately; lower values give smoother following.
func (c *Camera) Follow(target chunk.PositionSource, offset mgl64.Vec2, lerp float64) {
	c.followTarget = target
	c.followOffset = offset
	c.followLerp = lerp
}

// Unfollow stops tracking the current target.
func (c *Camera) Unfollow() {
	c.followTarget = nil
}

// ScrollTo animates the camera to the given world position over duration
// seconds. Following is suspended until the scroll completes.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.Y), float32(y), duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo animation is in progress.
func (c *Camera) Scrolling() bool {
	return c.scrollTween != nil
}

// update advances follow and scroll. Called from Scene.Update().
func (c *Camera) update(dt float32) {
	if c.scrollTween != nil {
		if !c.scrollTween.doneX {
			val, done := c.scrollTween.tweenX.Update(dt)
			c.X = float64(val)
			c.scrollTween.doneX = done
		}
		if !c.scrollTween.doneY {
			val, done := c.scrollTween.tweenY.Update(dt)
			c.Y = float64(val)
			c.scrollTween.doneY = done
		}
		if c.scrollTween.doneX && c.scrollTween.doneY {
			c.scrollTween = nil
		}
		return
	}

	if c.followTarget != nil {
		if pos, ok := c.followTarget.Position(); ok {
			target := pos.Add(c.followOffset)
			c.X += (target.X() - c.X) * c.followLerp
			c.Y += (target.Y() - c.Y) * c.followLerp
		}
	}
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	cx := c.Viewport.X + c.Viewport.W/2
	cy := c.Viewport.Y + c.Viewport.H/2
	return cx + (wx-c.X)*c.Zoom, cy + (wy-c.Y)*c.Zoom
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	cx := c.Viewport.X + c.Viewport.W/2
	cy := c.Viewport.Y + c.Viewport.H/2
	return c.X + (sx-cx)/c.Zoom, c.Y + (sy-cy)/c.Zoom
}

// WorldRectToScreen converts a world rectangle to screen space.
func (c *Camera) WorldRectToScreen(r chunk.Rect) chunk.Rect {
	x, y := c.WorldToScreen(r.X, r.Y)
	return chunk.Rect{X: x, Y: y, W: r.W * c.Zoom, H: r.H * c.Zoom}
}

// VisibleBounds returns the world-space rectangle the camera can see.
func (c *Camera) VisibleBounds() chunk.Rect {
	x, y := c.ScreenToWorld(c.Viewport.X, c.Viewport.Y)
	return chunk.Rect{X: x, Y: y, W: c.Viewport.W / c.Zoom, H: c.Viewport.H / c.Zoom}
}
