// Package affine provides the small fixed-size matrices used for voxel to
// millimetre transforms. Matrices are row-major and act on column vectors
// (y = M*x). Inversion and multiplication are delegated to gonum.
package affine

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrSingular is returned when a matrix cannot be inverted
var ErrSingular = errors.New("matrix is singular")

// Mat3 is a row-major 3x3 matrix
type Mat3 [3][3]float64

// Mat4 is a row-major 4x4 matrix; element [r][c]
type Mat4 [4][4]float64

// Identity4 returns the 4x4 identity
func Identity4() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// FromAffine expands a 3x4 rotation+translation into a 4x4 with bottom row [0,0,0,1]
func FromAffine(a [3][4]float64) Mat4 {
	var m Mat4
	for r := 0; r < 3; r++ {
		m[r] = a[r]
	}
	m[3] = [4]float64{0, 0, 0, 1}
	return m
}

func (m Mat4) dense() *mat.Dense {
	data := make([]float64, 0, 16)
	for r := 0; r < 4; r++ {
		data = append(data, m[r][:]...)
	}
	return mat.NewDense(4, 4, data)
}

func fromDense(d mat.Matrix) Mat4 {
	var m Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[r][c] = d.At(r, c)
		}
	}
	return m
}

// Mul returns m*n
func (m Mat4) Mul(n Mat4) Mat4 {
	var out mat.Dense
	out.Mul(m.dense(), n.dense())
	return fromDense(&out)
}

// Transpose returns the transpose of m
func (m Mat4) Transpose() Mat4 {
	return fromDense(m.dense().T())
}

// Inverse returns the inverse of m. Singular and ill-conditioned matrices
// return ErrSingular.
func (m Mat4) Inverse() (Mat4, error) {
	if !m.IsFinite() {
		return Mat4{}, fmt.Errorf("%w: non-finite element", ErrSingular)
	}
	var inv mat.Dense
	if err := inv.Inverse(m.dense()); err != nil {
		return Mat4{}, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	out := fromDense(&inv)
	if !out.IsFinite() {
		return Mat4{}, fmt.Errorf("%w: non-finite inverse", ErrSingular)
	}
	return out, nil
}

// Apply multiplies m by the homogeneous column vector v
func (m Mat4) Apply(v [4]float64) [4]float64 {
	var out [4]float64
	for r := 0; r < 4; r++ {
		out[r] = m[r][0]*v[0] + m[r][1]*v[1] + m[r][2]*v[2] + m[r][3]*v[3]
	}
	return out
}

// ApplyPoint transforms p with homogeneous coordinate 1 and returns xyz
func (m Mat4) ApplyPoint(p [3]float64) [3]float64 {
	v := m.Apply([4]float64{p[0], p[1], p[2], 1})
	return [3]float64{v[0], v[1], v[2]}
}

// Rotation returns the upper-left 3x3 block
func (m Mat4) Rotation() Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][j]
		}
	}
	return r
}

// IsFinite reports whether every element is a finite number
func (m Mat4) IsFinite() bool {
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if math.IsNaN(m[r][c]) || math.IsInf(m[r][c], 0) {
				return false
			}
		}
	}
	return true
}

// EqualApprox reports whether m and n agree element-wise within tol
func (m Mat4) EqualApprox(n Mat4, tol float64) bool {
	return mat.EqualApprox(m.dense(), n.dense(), tol)
}

// Abs returns the element-wise absolute value
func (m Mat3) Abs() Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = math.Abs(m[i][j])
		}
	}
	return out
}

// Det returns the determinant
func (m Mat3) Det() float64 {
	return mat.Det(mat.NewDense(3, 3, []float64{
		m[0][0], m[0][1], m[0][2],
		m[1][0], m[1][1], m[1][2],
		m[2][0], m[2][1], m[2][2],
	}))
}

// IsZero reports whether all elements are zero
func (m Mat3) IsZero() bool {
	return m == Mat3{}
}

// IsFinite reports whether every element is a finite number
func (m Mat3) IsFinite() bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.IsNaN(m[i][j]) || math.IsInf(m[i][j], 0) {
				return false
			}
		}
	}
	return true
}
