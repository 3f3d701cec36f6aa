// Package interaction owns the mutable scene record and turns pointer and
// scroll input into scene updates.
package interaction

import "orthoview/internal/models"

// Scene is the single mutable view state of a session
type Scene struct {
	// Crosshair is the cursor position as volume fractions in [0,1]
	Crosshair [3]float64

	// Render camera angles in degrees. They accumulate without wrapping and
	// are reduced mod 360 where they are consumed.
	Azimuth   float64
	Elevation float64

	// ClipPlane is (nx, ny, nz, depth)
	ClipPlane [4]float64

	Mode models.SliceType

	// Opacity of the 2D slices
	Opacity float64

	// ScaleMultiplier enlarges or shrinks the rendered volume
	ScaleMultiplier float64
}

// NewScene returns a scene with the default camera and a centred crosshair
func NewScene() *Scene {
	return &Scene{
		Crosshair:       [3]float64{0.5, 0.5, 0.5},
		Azimuth:         120,
		Elevation:       15,
		Mode:            models.Multiplanar,
		Opacity:         1,
		ScaleMultiplier: 1,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
