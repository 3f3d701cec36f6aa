// Package coords converts between normalized volume fractions and
// millimetre positions using a volume's canonical affine.
package coords

import (
	"fmt"

	"orthoview/pkg/affine"
	"orthoview/pkg/orient"
)

// Mapper converts positions for one oriented volume
type Mapper struct {
	dims   [4]int
	toMM   affine.Mat4
	fromMM affine.Mat4

	// invertible is false when fromMM could not be computed
	invertible bool
}

// NewMapper builds a mapper from an orientation result
func NewMapper(o *orient.Orientation) *Mapper {
	m := &Mapper{
		dims: o.Dims,
		toMM: o.MatCanonical,
	}
	if inv, err := o.MatCanonical.Inverse(); err == nil {
		m.fromMM = inv
		m.invertible = true
	}
	return m
}

func (m *Mapper) loaded() bool {
	return m.dims[1] >= 1 && m.dims[2] >= 1 && m.dims[3] >= 1
}

// FracToVoxel converts a fraction to a canonical voxel index. Voxel centres
// sit at (i+0.5)/n, so a 5 voxel axis has centres at 0.1, 0.3, ... 0.9.
func (m *Mapper) FracToVoxel(frac [3]float64) [3]float64 {
	var v [3]float64
	for i := 0; i < 3; i++ {
		v[i] = frac[i]*float64(m.dims[i+1]) - 0.5
	}
	return v
}

// VoxelToFrac is the inverse of FracToVoxel
func (m *Mapper) VoxelToFrac(voxel [3]float64) [3]float64 {
	var f [3]float64
	if !m.loaded() {
		return f
	}
	for i := 0; i < 3; i++ {
		f[i] = (voxel[i] + 0.5) / float64(m.dims[i+1])
	}
	return f
}

// FracToMM returns the millimetre position of a volume fraction
func (m *Mapper) FracToMM(frac [3]float64) [3]float64 {
	return m.toMM.ApplyPoint(m.FracToVoxel(frac))
}

// MMToFrac returns the volume fraction of a millimetre position. It returns
// zeros for an unloaded volume or a non-invertible affine.
func (m *Mapper) MMToFrac(mm [3]float64) [3]float64 {
	if !m.loaded() || !m.invertible {
		return [3]float64{}
	}
	return m.VoxelToFrac(m.fromMM.ApplyPoint(mm))
}

// FormatMM renders a millimetre position as "x×y×z" with two decimals
func FormatMM(mm [3]float64) string {
	return fmt.Sprintf("%.2f×%.2f×%.2f", mm[0], mm[1], mm[2])
}
