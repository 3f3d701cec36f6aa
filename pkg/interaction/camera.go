package interaction

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"orthoview/pkg/affine"
)

// cameraDistance is how far the model is pushed back along -z
const cameraDistance = -0.54

// rayEpsilon keeps ray direction components away from zero so the ray
// caster never divides by zero
const rayEpsilon = 0.00001

// Camera is the model transform and view ray of the render view
type Camera struct {
	Model  affine.Mat4
	RayDir r3.Vec
}

func rotationX(rad float64) affine.Mat4 {
	c, s := math.Cos(rad), math.Sin(rad)
	return affine.Mat4{
		{1, 0, 0, 0},
		{0, c, -s, 0},
		{0, s, c, 0},
		{0, 0, 0, 1},
	}
}

func rotationZ(rad float64) affine.Mat4 {
	c, s := math.Cos(rad), math.Sin(rad)
	return affine.Mat4{
		{c, -s, 0, 0},
		{s, c, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// NewCamera builds the render camera for the scene angles and the volume's
// relative extents.
func NewCamera(s *Scene, volScale [3]float64) (Camera, error) {
	m := affine.Identity4()
	m[2][3] = cameraDistance

	// tilt about -x, which is +x by the negated angle
	tilt := (90 - s.Elevation - volScale[0]) * math.Pi / 180
	m = m.Mul(rotationX(-tilt))
	m = m.Mul(rotationZ(s.Azimuth * math.Pi / 180))

	scale := affine.Identity4()
	for i := 0; i < 3; i++ {
		scale[i][i] = volScale[i]
	}
	m = m.Mul(scale)

	inv, err := m.Inverse()
	if err != nil {
		return Camera{}, fmt.Errorf("camera transform: %w", err)
	}
	d := inv.Apply([4]float64{0, 0, -1, 1})
	ray := r3.Vec{X: d[0], Y: d[1], Z: d[2]}
	if n := r3.Norm(ray); n > 0 {
		ray = r3.Scale(1/n, ray)
	}
	ray.X = defuzz(ray.X)
	ray.Y = defuzz(ray.Y)
	ray.Z = defuzz(ray.Z)

	return Camera{Model: m, RayDir: ray}, nil
}

func defuzz(v float64) float64 {
	if math.Abs(v) < rayEpsilon {
		return rayEpsilon
	}
	return v
}

// AngleLabel describes the camera angles, wrapped to [0,360)
func AngleLabel(s *Scene) string {
	return fmt.Sprintf("azimuth: %.0f elevation: %.0f", wrapDegrees(s.Azimuth), wrapDegrees(s.Elevation))
}

func wrapDegrees(deg float64) float64 {
	w := math.Mod(deg, 360)
	if w < 0 {
		w += 360
	}
	return w
}
