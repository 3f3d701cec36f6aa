package orient

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"orthoview/internal/models"
	"orthoview/pkg/affine"
)

var (
	testDims    = [4]int{1, 10, 20, 30}
	testPixDims = [4]float64{1, 1.0, 2.0, 3.0}
)

// signedPermutationAffine builds an affine whose canonical axis i is fed by
// native axis perm[i], negated when flip[i] is set.
func signedPermutationAffine(perm [3]int, flip [3]bool, spacing [3]float64) [3][4]float64 {
	a := [3][4]float64{
		{0, 0, 0, -90},
		{0, 0, 0, 126},
		{0, 0, 0, -72},
	}
	for i := 0; i < 3; i++ {
		v := spacing[perm[i]]
		if flip[i] {
			v = -v
		}
		a[i][perm[i]] = v
	}
	return a
}

func TestReorientIdentity(t *testing.T) {
	a := [3][4]float64{
		{1, 0, 0, -5},
		{0, 2, 0, -20},
		{0, 0, 3, -45},
	}

	o, err := Reorient(a, testDims, testPixDims)
	if err != nil {
		t.Fatalf("Reorient failed: %v", err)
	}

	if o.Permutation != [3]int{0, 1, 2} {
		t.Errorf("Expected identity permutation, got %v", o.Permutation)
	}
	if o.Flip != [3]bool{} {
		t.Errorf("Expected no flips, got %v", o.Flip)
	}
	if o.ToCanonical != affine.Identity4() {
		t.Errorf("Expected identity ToCanonical, got %v", o.ToCanonical)
	}
	if o.MatCanonical != affine.FromAffine(a) {
		t.Errorf("Expected MatCanonical to equal the native affine, got %v", o.MatCanonical)
	}
	if o.Dims != testDims {
		t.Errorf("Expected dims %v, got %v", testDims, o.Dims)
	}
	if !o.IsIdentity() {
		t.Error("Expected IsIdentity to be true")
	}
	if got := o.Codes(); got != "RAS" {
		t.Errorf("Expected codes RAS, got %s", got)
	}
}

func TestReorientLeftRightFlip(t *testing.T) {
	a := [3][4]float64{
		{-1, 0, 0, 5},
		{0, 1, 0, -10},
		{0, 0, 1, -15},
	}

	o, err := Reorient(a, testDims, testPixDims)
	if err != nil {
		t.Fatalf("Reorient failed: %v", err)
	}

	if o.Flip != [3]bool{true, false, false} {
		t.Errorf("Expected flip [true false false], got %v", o.Flip)
	}
	if o.Permutation != [3]int{0, 1, 2} {
		t.Errorf("Expected identity permutation, got %v", o.Permutation)
	}
	if o.Dims[1] != testDims[1] {
		t.Errorf("Expected canonical x dim %d, got %d", testDims[1], o.Dims[1])
	}
	if got := o.Codes(); got != "LAS" {
		t.Errorf("Expected codes LAS, got %s", got)
	}

	// canonical voxel 0 along x is the last native voxel
	mm := o.MatCanonical.ApplyPoint([3]float64{0, 0, 0})
	native := affine.FromAffine(a).ApplyPoint([3]float64{float64(testDims[1] - 1), 0, 0})
	for i := 0; i < 3; i++ {
		if math.Abs(mm[i]-native[i]) > 1e-9 {
			t.Errorf("Axis %d: expected %f mm, got %f", i, native[i], mm[i])
		}
	}

	// x and its translation are reversed in the resampling matrix
	if o.ToCanonical[0][0] != -1 || o.ToCanonical[0][3] != 1 {
		t.Errorf("Expected ToCanonical row 0 to be [-1 0 0 1], got %v", o.ToCanonical[0])
	}
}

func TestReorientAxisSwap(t *testing.T) {
	// native X -> physical Z, native Y -> physical X, native Z -> physical Y
	a := [3][4]float64{
		{0, 2, 0, 0},
		{0, 0, 3, 0},
		{1, 0, 0, 0},
	}

	o, err := Reorient(a, testDims, testPixDims)
	if err != nil {
		t.Fatalf("Reorient failed: %v", err)
	}

	wantPerm := [3]int{1, 2, 0}
	if o.Permutation != wantPerm {
		t.Errorf("Expected permutation %v, got %v", wantPerm, o.Permutation)
	}
	wantDims := [4]int{1, 20, 30, 10}
	if o.Dims != wantDims {
		t.Errorf("Expected canonical dims %v, got %v", wantDims, o.Dims)
	}
	wantPix := [4]float64{1, 2, 3, 1}
	if o.PixDims != wantPix {
		t.Errorf("Expected canonical pixdims %v, got %v", wantPix, o.PixDims)
	}
	if o.Flip != [3]bool{} {
		t.Errorf("Expected no flips, got %v", o.Flip)
	}
}

// Every signed permutation must be recovered exactly, and the two output
// matrices must agree on where each canonical voxel lives in millimetres.
func TestReorientAllSignedPermutations(t *testing.T) {
	spacing := [3]float64{testPixDims[1], testPixDims[2], testPixDims[3]}

	for _, perm := range Permutations {
		for mask := 0; mask < 8; mask++ {
			flip := [3]bool{mask&1 != 0, mask&2 != 0, mask&4 != 0}
			name := fmt.Sprintf("perm%v_flip%v", perm, flip)

			t.Run(name, func(t *testing.T) {
				a := signedPermutationAffine(perm, flip, spacing)
				o, err := Reorient(a, testDims, testPixDims)
				if err != nil {
					t.Fatalf("Reorient failed: %v", err)
				}

				if o.Permutation != perm {
					t.Errorf("Expected permutation %v, got %v", perm, o.Permutation)
				}
				if o.Flip != flip {
					t.Errorf("Expected flip %v, got %v", flip, o.Flip)
				}
				for i := 0; i < 3; i++ {
					if o.Dims[i+1] != testDims[perm[i]+1] {
						t.Errorf("Canonical dim %d: expected %d, got %d", i, testDims[perm[i]+1], o.Dims[i+1])
					}
				}

				// canonical index increases toward R, A and S
				rot := o.MatCanonical.Rotation()
				for i := 0; i < 3; i++ {
					for j := 0; j < 3; j++ {
						if i == j && rot[i][j] <= 0 {
							t.Errorf("Expected positive diagonal at %d, got %f", i, rot[i][j])
						}
						if i != j && rot[i][j] != 0 {
							t.Errorf("Expected zero off-diagonal at [%d][%d], got %f", i, j, rot[i][j])
						}
					}
				}

				checkResamplingAgreesWithAffine(t, o, a)
			})
		}
	}
}

func checkResamplingAgreesWithAffine(t *testing.T, o *Orientation, a [3][4]float64) {
	t.Helper()
	native := affine.FromAffine(a)
	corners := [][3]float64{
		{0, 0, 0},
		{float64(o.Dims[1] - 1), 0, 0},
		{0, float64(o.Dims[2] - 1), 0},
		{0, 0, float64(o.Dims[3] - 1)},
		{3, 7, 2},
	}

	for _, c := range corners {
		frac := [3]float64{}
		for i := 0; i < 3; i++ {
			frac[i] = (c[i] + 0.5) / float64(o.Dims[i+1])
		}
		nf := o.ToCanonical.ApplyPoint(frac)
		var voxel [3]float64
		for i := 0; i < 3; i++ {
			voxel[i] = nf[i]*float64(testDims[i+1]) - 0.5
		}

		want := native.ApplyPoint(voxel)
		got := o.MatCanonical.ApplyPoint(c)
		for i := 0; i < 3; i++ {
			if math.Abs(want[i]-got[i]) > 1e-9 {
				t.Errorf("Canonical voxel %v axis %d: expected %f mm, got %f", c, i, want[i], got[i])
			}
		}
	}
}

func TestReorientObliqueTieBreak(t *testing.T) {
	// column 0 is equally strong in rows 0 and 1: x stays on row 0
	a := [3][4]float64{
		{1, 0, 0, 0},
		{1, 0, 1, 0},
		{0, 1, 0, 0},
	}
	o, err := Reorient(a, testDims, testPixDims)
	if err != nil {
		t.Fatalf("Reorient failed: %v", err)
	}
	if o.Permutation[0] != 0 {
		t.Errorf("Expected native x on canonical x, got permutation %v", o.Permutation)
	}

	// column 1 equally strong in rows 1 and 2: strict comparison picks row 2
	a = [3][4]float64{
		{1, 0, 0, 0},
		{0, 1, 1, 0},
		{0, 1, -1, 0},
	}
	o, err = Reorient(a, testDims, testPixDims)
	if err != nil {
		t.Fatalf("Reorient failed: %v", err)
	}
	want := [3]int{0, 2, 1}
	if o.Permutation != want {
		t.Errorf("Expected permutation %v, got %v", want, o.Permutation)
	}
}

func TestReorientInvalidGeometry(t *testing.T) {
	identity := [3][4]float64{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}}

	cases := []struct {
		name string
		a    [3][4]float64
		dims [4]int
	}{
		{"zero rotation", [3][4]float64{{0, 0, 0, 1}, {0, 0, 0, 2}, {0, 0, 0, 3}}, testDims},
		{"singular rotation", [3][4]float64{{1, 1, 0, 0}, {1, 1, 0, 0}, {0, 0, 1, 0}}, testDims},
		{"non-finite", [3][4]float64{{math.NaN(), 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}}, testDims},
		{"zero dim", identity, [4]int{1, 10, 0, 30}},
		{"negative dim", identity, [4]int{1, -1, 20, 30}},
	}

	for _, tc := range cases {
		o, err := Reorient(tc.a, tc.dims, testPixDims)
		if !errors.Is(err, ErrInvalidGeometry) {
			t.Errorf("%s: expected ErrInvalidGeometry, got %v", tc.name, err)
		}
		if o != nil {
			t.Errorf("%s: expected no partial result", tc.name)
		}
	}
}

func TestFromHeader(t *testing.T) {
	h := &models.Header{
		Dims:    testDims,
		PixDims: testPixDims,
		Affine:  [3][4]float64{{-1, 0, 0, 0}, {0, -2, 0, 0}, {0, 0, 3, 0}},
	}
	o, err := FromHeader(h)
	if err != nil {
		t.Fatalf("FromHeader failed: %v", err)
	}
	if o.Flip != [3]bool{true, true, false} {
		t.Errorf("Expected flip [true true false], got %v", o.Flip)
	}
	if got := o.Codes(); got != "LPS" {
		t.Errorf("Expected codes LPS, got %s", got)
	}
}
