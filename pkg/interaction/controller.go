package interaction

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"orthoview/internal/models"
	"orthoview/pkg/layout"
)

// Controller applies input events to a Scene. It keeps the panes of the
// last laid out frame for hit-testing.
type Controller struct {
	scene *Scene
	panes []layout.Pane

	dragX, dragY float64

	// OnChange, when set, is called with a copy of the scene after every
	// change. Entry points also report changes through their return value.
	OnChange func(Scene)
}

// NewController returns a controller for scene
func NewController(scene *Scene) *Controller {
	return &Controller{scene: scene}
}

// Scene returns the scene the controller mutates
func (c *Controller) Scene() *Scene {
	return c.scene
}

// Panes returns a copy of the panes used for hit-testing
func (c *Controller) Panes() []layout.Pane {
	return append([]layout.Pane(nil), c.panes...)
}

func (c *Controller) changed() bool {
	if c.OnChange != nil {
		c.OnChange(*c.scene)
	}
	return true
}

// Relayout computes the frame for the current mode and records its panes
// for the next hit-test.
func (c *Controller) Relayout(volScale [3]float64, viewportW, viewportH float64, opts layout.Options) layout.Frame {
	f := layout.Compute(c.scene.Mode, volScale, viewportW, viewportH, opts)
	c.RecordPanes(f.Panes)
	return f
}

// RecordPanes replaces the hit-test panes with the rectangles a renderer
// actually drew
func (c *Controller) RecordPanes(panes []layout.Pane) {
	c.panes = append(c.panes[:0], panes...)
}

// PointerDown starts a camera drag; only the render view uses drags
func (c *Controller) PointerDown(x, y float64) {
	if c.scene.Mode != models.Render {
		return
	}
	c.dragX, c.dragY = x, y
}

// PointerDrag rotates the render camera by the pointer movement in pixels
func (c *Controller) PointerDrag(x, y float64) bool {
	if c.scene.Mode != models.Render {
		return false
	}
	c.scene.Azimuth += x - c.dragX
	c.scene.Elevation += y - c.dragY
	c.dragX, c.dragY = x, y
	return c.changed()
}

// ClickOrScroll handles a click or wheel event at (x, y) in a 2D view.
// With absolute set, the depth coordinate of the hit pane becomes delta.
// Otherwise a non-zero delta moves the depth coordinate, and a zero delta
// moves the in-plane crosshair to the clicked point.
func (c *Controller) ClickOrScroll(x, y, delta float64, absolute bool) bool {
	if c.scene.Mode == models.Render {
		return false
	}
	for _, p := range c.panes {
		if !p.Plane.IsPlane() || !p.Contains(x, y) {
			continue
		}
		depth := 2 - int(p.Plane)

		if absolute {
			c.scene.Crosshair[depth] = clamp01(delta)
			return c.changed()
		}
		if delta != 0 {
			c.scene.Crosshair[depth] = clamp01(c.scene.Crosshair[depth] + delta)
			return c.changed()
		}

		fx, fy := p.Fraction(x, y)
		switch p.Plane {
		case models.Axial:
			c.scene.Crosshair[0], c.scene.Crosshair[1] = fx, fy
		case models.Coronal:
			c.scene.Crosshair[0], c.scene.Crosshair[2] = fx, fy
		case models.Sagittal:
			c.scene.Crosshair[1], c.scene.Crosshair[2] = fx, fy
		}
		return c.changed()
	}
	return false
}

// SetClipPlane points the render clip plane along the given camera angles
// at depth from the volume centre. It has no effect outside the render view.
func (c *Controller) SetClipPlane(azimuth, elevation, depth float64) bool {
	if c.scene.Mode != models.Render {
		return false
	}
	n := Sph2Cart(azimuth, elevation)
	c.scene.ClipPlane = [4]float64{n.X, n.Y, n.Z, depth}
	return c.changed()
}

// SetMode switches the view
func (c *Controller) SetMode(mode models.SliceType) bool {
	if c.scene.Mode == mode {
		return false
	}
	c.scene.Mode = mode
	return c.changed()
}

// SetOpacity sets the slice opacity, clamped to [0,1]
func (c *Controller) SetOpacity(opacity float64) bool {
	c.scene.Opacity = clamp01(opacity)
	return c.changed()
}

// SetScale sets the render scale multiplier. Non-positive values are ignored.
func (c *Controller) SetScale(scale float64) bool {
	if !(scale > 0) || math.IsInf(scale, 0) {
		return false
	}
	c.scene.ScaleMultiplier = scale
	return c.changed()
}

// Sph2Cart converts camera azimuth and elevation in degrees to a unit
// direction. A zero length result is returned as is.
func Sph2Cart(azimuth, elevation float64) r3.Vec {
	phi := -elevation * math.Pi / 180
	theta := math.Mod(azimuth-90, 360) * math.Pi / 180
	v := r3.Vec{
		X: math.Cos(phi) * math.Cos(theta),
		Y: math.Cos(phi) * math.Sin(theta),
		Z: math.Sin(phi),
	}
	n := r3.Norm(v)
	if n <= 0 {
		return v
	}
	return r3.Scale(1/n, v)
}
