// Package orient computes how an arbitrarily oriented volume maps onto the
// canonical left->right, posterior->anterior, inferior->superior axis order.
package orient

import (
	"errors"
	"fmt"
	"strings"

	"orthoview/internal/models"
	"orthoview/pkg/affine"
)

// ErrInvalidGeometry is returned for non-positive dimensions or a degenerate affine
var ErrInvalidGeometry = errors.New("invalid volume geometry")

// Permutations lists the six axis orders a volume can be stored in
var Permutations = [6][3]int{
	{0, 1, 2},
	{0, 2, 1},
	{1, 0, 2},
	{1, 2, 0},
	{2, 0, 1},
	{2, 1, 0},
}

// Orientation describes how to read a volume in canonical order
type Orientation struct {
	// Permutation[i] is the native axis (0-based) stored along canonical axis i
	Permutation [3]int

	// Flip[i] is set when canonical axis i runs opposite to its native axis
	Flip [3]bool

	// Dims and PixDims are the canonical [n, x, y, z] dimensions and spacing
	Dims    [4]int
	PixDims [4]float64

	// ToCanonical maps a canonical normalized texture coordinate to the
	// native storage coordinate. The resampler multiplies by it.
	ToCanonical affine.Mat4

	// MatCanonical maps a canonical voxel index to millimetres
	MatCanonical affine.Mat4
}

// FromHeader reorients the volume described by h
func FromHeader(h *models.Header) (*Orientation, error) {
	return Reorient(h.Affine, h.Dims, h.PixDims)
}

// Reorient derives the canonical orientation of a volume from its native
// affine, dimensions and voxel spacing.
func Reorient(a [3][4]float64, dims [4]int, pixDims [4]float64) (*Orientation, error) {
	for i := 1; i <= 3; i++ {
		if dims[i] < 1 {
			return nil, fmt.Errorf("%w: dimension %d is %d", ErrInvalidGeometry, i, dims[i])
		}
	}

	native := affine.FromAffine(a)
	rot := native.Rotation()
	if !native.IsFinite() {
		return nil, fmt.Errorf("%w: affine has non-finite elements", ErrInvalidGeometry)
	}
	if rot.IsZero() {
		return nil, fmt.Errorf("%w: rotation block is all zero", ErrInvalidGeometry)
	}
	if rot.Det() == 0 {
		return nil, fmt.Errorf("%w: rotation block is singular", ErrInvalidGeometry)
	}

	perm := selectPermutation(rot.Abs())

	// R is the native affine with its rotation columns permuted
	r := native
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = native[i][perm[j]]
		}
	}

	o := &Orientation{Permutation: perm}
	for i := 0; i < 3; i++ {
		o.Flip[i] = r[i][i] < 0
	}

	o.Dims[0] = dims[0]
	o.PixDims[0] = pixDims[0]
	for i := 0; i < 3; i++ {
		o.Dims[i+1] = dims[perm[i]+1]
		o.PixDims[i+1] = pixDims[perm[i]+1]
	}

	if o.IsIdentity() {
		o.ToCanonical = affine.Identity4()
		o.MatCanonical = native
		return o, nil
	}

	// F maps a canonical voxel index to the permuted, unflipped index
	f := affine.Identity4()
	for i := 0; i < 3; i++ {
		if o.Flip[i] {
			f[i][i] = -1
			f[i][3] = float64(o.Dims[i+1] - 1)
		}
	}
	fInv, err := f.Inverse()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}
	o.MatCanonical = r.Mul(fInv)

	var t affine.Mat4
	t[3][3] = 1
	for i := 0; i < 3; i++ {
		if o.Flip[i] {
			t[perm[i]][i] = -1
			t[perm[i]][3] = 1
		} else {
			t[perm[i]][i] = 1
		}
	}
	o.ToCanonical = t

	return o, nil
}

// selectPermutation picks, for each physical axis, the native column that
// contributes most to it. Ties resolve in a fixed order so the result is
// reproducible for oblique affines.
func selectPermutation(absR affine.Mat3) [3]int {
	// ixyz[j] is the physical row claimed by native column j
	var ixyz [3]int

	if absR[1][0] > absR[0][0] {
		ixyz[0] = 1
	}
	if absR[2][0] > absR[0][0] && absR[2][0] > absR[1][0] {
		ixyz[0] = 2
	}

	switch ixyz[0] {
	case 0:
		if absR[1][1] > absR[2][1] {
			ixyz[1] = 1
		} else {
			ixyz[1] = 2
		}
	case 1:
		if absR[0][1] > absR[2][1] {
			ixyz[1] = 0
		} else {
			ixyz[1] = 2
		}
	default:
		if absR[0][1] > absR[1][1] {
			ixyz[1] = 0
		} else {
			ixyz[1] = 1
		}
	}

	ixyz[2] = 3 - ixyz[0] - ixyz[1]

	var perm [3]int
	for col, row := range ixyz {
		perm[row] = col
	}
	return perm
}

// IsIdentity reports whether the volume is already stored canonically
func (o *Orientation) IsIdentity() bool {
	return o.Permutation == [3]int{0, 1, 2} && o.Flip == [3]bool{}
}

// Codes returns the anatomical direction each native axis increases toward,
// e.g. "LAS" for a volume stored with a left-right flip.
func (o *Orientation) Codes() string {
	positive := [3]string{"R", "A", "S"}
	negative := [3]string{"L", "P", "I"}

	codes := make([]string, 3)
	for canon, nat := range o.Permutation {
		if o.Flip[canon] {
			codes[nat] = negative[canon]
		} else {
			codes[nat] = positive[canon]
		}
	}
	return strings.Join(codes, "")
}

// String summarises the orientation for logging
func (o *Orientation) String() string {
	return fmt.Sprintf("native %s, permutation %v, flip %v, canonical dims %v",
		o.Codes(), o.Permutation, o.Flip, o.Dims[1:])
}
