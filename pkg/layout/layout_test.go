package layout

import (
	"math"
	"testing"

	"orthoview/internal/models"
)

var cube = [3]float64{1, 1, 1}

func rectApprox(a, b Rect) bool {
	const tol = 1e-9
	return math.Abs(a.Left-b.Left) < tol && math.Abs(a.Top-b.Top) < tol &&
		math.Abs(a.Width-b.Width) < tol && math.Abs(a.Height-b.Height) < tol
}

func checkPanes(t *testing.T, f Frame, want []Pane) {
	t.Helper()
	if len(f.Panes) != len(want) {
		t.Fatalf("Expected %d panes, got %d: %+v", len(want), len(f.Panes), f.Panes)
	}
	for i, p := range f.Panes {
		if p.Plane != want[i].Plane {
			t.Errorf("Pane %d: expected plane %v, got %v", i, want[i].Plane, p.Plane)
		}
		if !rectApprox(p.Rect, want[i].Rect) {
			t.Errorf("Pane %d (%v): expected %+v, got %+v", i, p.Plane, want[i].Rect, p.Rect)
		}
	}
}

// axialWidths returns the axial pane width of the L and row packings
func axialWidths(e [3]float64, w, h float64) (lPacking, rowPacking float64) {
	l := ScaleSlice(e[0]+e[1], e[1]+e[2], w, h)
	row := ScaleSlice(2*e[0]+e[1], math.Max(e[1], e[2]), w, h)
	return l.Width * e[0] / (e[0] + e[1]), row.Width * e[0] / (2*e[0] + e[1])
}

func TestScaleSlice(t *testing.T) {
	got := ScaleSlice(1, 2, 100, 100)
	want := Rect{Left: 25, Top: 0, Width: 50, Height: 100}
	if !rectApprox(got, want) {
		t.Errorf("Expected %+v, got %+v", want, got)
	}

	got = ScaleSlice(2, 1, 100, 100)
	want = Rect{Left: 0, Top: 25, Width: 100, Height: 50}
	if !rectApprox(got, want) {
		t.Errorf("Expected %+v, got %+v", want, got)
	}

	if got := ScaleSlice(0, 1, 100, 100); got != (Rect{}) {
		t.Errorf("Expected zero rect for zero extent, got %+v", got)
	}
}

func TestSinglePlaneModes(t *testing.T) {
	e := [3]float64{1, 0.5, 0.25}
	opts := DefaultOptions()

	cases := []struct {
		mode models.SliceType
		want Rect
	}{
		{models.Axial, ScaleSlice(1, 0.5, 400, 300)},
		{models.Coronal, ScaleSlice(1, 0.25, 400, 300)},
		{models.Sagittal, ScaleSlice(0.5, 0.25, 400, 300)},
	}
	for _, tc := range cases {
		f := Compute(tc.mode, e, 400, 300, opts)
		checkPanes(t, f, []Pane{{Rect: tc.want, Plane: tc.mode}})
		if f.HasColorbar {
			t.Errorf("%v: expected no colorbar", tc.mode)
		}
	}
}

func TestRenderPaneIsCentredSquare(t *testing.T) {
	f := Compute(models.Render, cube, 400, 300, DefaultOptions())
	checkPanes(t, f, []Pane{{Rect: Rect{Left: 50, Top: 0, Width: 300, Height: 300}, Plane: models.Render}})
}

func TestMultiplanarTieKeepsLPacking(t *testing.T) {
	// a cube in a 3:2 viewport gives both packings a 100px axial pane
	l, row := axialWidths(cube, 300, 200)
	if math.Abs(l-row) > 1e-9 {
		t.Fatalf("Expected equal axial widths, got L=%f row=%f", l, row)
	}

	f := Compute(models.Multiplanar, cube, 300, 200, DefaultOptions())
	checkPanes(t, f, []Pane{
		{Rect: Rect{Left: 50, Top: 100, Width: 100, Height: 100}, Plane: models.Axial},
		{Rect: Rect{Left: 50, Top: 0, Width: 100, Height: 100}, Plane: models.Coronal},
		{Rect: Rect{Left: 150, Top: 0, Width: 100, Height: 100}, Plane: models.Sagittal},
	})

	if !f.HasColorbar {
		t.Fatal("Expected a colorbar in the L packing")
	}
	wantBar := Rect{Left: 155, Top: 105, Width: 90, Height: 5}
	if !rectApprox(f.Colorbar, wantBar) {
		t.Errorf("Expected colorbar %+v, got %+v", wantBar, f.Colorbar)
	}
}

func TestMultiplanarSquareViewport(t *testing.T) {
	l, row := axialWidths(cube, 600, 600)
	if !(l > row) {
		t.Errorf("Expected the L packing to win on a square viewport, got L=%f row=%f", l, row)
	}

	f := Compute(models.Multiplanar, cube, 600, 600, DefaultOptions())
	if f.Panes[0].Width != 300 {
		t.Errorf("Expected axial width 300, got %f", f.Panes[0].Width)
	}
}

func TestMultiplanarTallViewport(t *testing.T) {
	l, row := axialWidths(cube, 100, 1000)
	if !(l > row) {
		t.Errorf("Expected the L packing to give a strictly larger axial pane, got L=%f row=%f", l, row)
	}

	f := Compute(models.Multiplanar, cube, 100, 1000, DefaultOptions())
	checkPanes(t, f, []Pane{
		{Rect: Rect{Left: 0, Top: 500, Width: 50, Height: 50}, Plane: models.Axial},
		{Rect: Rect{Left: 0, Top: 450, Width: 50, Height: 50}, Plane: models.Coronal},
		{Rect: Rect{Left: 50, Top: 450, Width: 50, Height: 50}, Plane: models.Sagittal},
	})
}

func TestMultiplanarWideViewport(t *testing.T) {
	f := Compute(models.Multiplanar, cube, 1000, 100, DefaultOptions())
	checkPanes(t, f, []Pane{
		{Rect: Rect{Left: 350, Top: 0, Width: 100, Height: 100}, Plane: models.Axial},
		{Rect: Rect{Left: 450, Top: 0, Width: 100, Height: 100}, Plane: models.Coronal},
		{Rect: Rect{Left: 550, Top: 0, Width: 100, Height: 100}, Plane: models.Sagittal},
	})
	if f.HasColorbar {
		t.Error("Expected no colorbar in the row packing")
	}
}

func TestMultiplanarAnisotropic(t *testing.T) {
	e := [3]float64{1, 0.8, 0.4}
	f := Compute(models.Multiplanar, e, 800, 800, DefaultOptions())
	if len(f.Panes) != 3 {
		t.Fatalf("Expected 3 panes, got %d", len(f.Panes))
	}

	// each pane keeps the physical aspect of its plane
	aspects := map[models.SliceType]float64{
		models.Axial:    e[0] / e[1],
		models.Coronal:  e[0] / e[2],
		models.Sagittal: e[1] / e[2],
	}
	for _, p := range f.Panes {
		got := p.Width / p.Height
		if math.Abs(got-aspects[p.Plane]) > 1e-9 {
			t.Errorf("%v: expected aspect %f, got %f", p.Plane, aspects[p.Plane], got)
		}
	}
}

func TestDegenerateInputsGiveEmptyFrame(t *testing.T) {
	opts := DefaultOptions()
	cases := []struct {
		name  string
		scale [3]float64
		w, h  float64
	}{
		{"zero width viewport", cube, 0, 100},
		{"zero height viewport", cube, 100, 0},
		{"zero extent", [3]float64{1, 0, 1}, 100, 100},
		{"negative extent", [3]float64{1, -1, 1}, 100, 100},
		{"NaN extent", [3]float64{math.NaN(), 1, 1}, 100, 100},
	}
	for _, tc := range cases {
		for _, mode := range []models.SliceType{models.Axial, models.Multiplanar, models.Render} {
			f := Compute(mode, tc.scale, tc.w, tc.h, opts)
			if len(f.Panes) != 0 || f.HasColorbar {
				t.Errorf("%s/%v: expected empty frame, got %+v", tc.name, mode, f)
			}
		}
	}
}

func TestRadiologicalMirrorsAxialAndCoronal(t *testing.T) {
	plain := Compute(models.Multiplanar, cube, 300, 200, DefaultOptions())

	opts := DefaultOptions()
	opts.Radiological = true
	mirrored := Compute(models.Multiplanar, cube, 300, 200, opts)

	for i, p := range mirrored.Panes {
		wantMirror := p.Plane != models.Sagittal
		if p.Mirrored() != wantMirror {
			t.Errorf("%v: expected mirrored=%v, got %v", p.Plane, wantMirror, p.Mirrored())
		}
		if !rectApprox(p.Normalized(), plain.Panes[i].Rect) {
			t.Errorf("%v: expected same screen area %+v, got %+v", p.Plane, plain.Panes[i].Rect, p.Normalized())
		}
	}
}

func TestVolumeScale(t *testing.T) {
	got := VolumeScale([4]int{1, 64, 64, 32}, [4]float64{1, 1, 1, 2}, 1)
	if got != cube {
		t.Errorf("Expected %v, got %v", cube, got)
	}

	got = VolumeScale([4]int{1, 100, 100, 100}, [4]float64{1, -2, 1, 0.5}, 2)
	want := [3]float64{2, 1, 0.5}
	if got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}

	if got := VolumeScale([4]int{}, [4]float64{}, 1); got != ([3]float64{}) {
		t.Errorf("Expected zero scale for empty volume, got %v", got)
	}
}

func TestRectFractionAndContains(t *testing.T) {
	r := Rect{Left: 100, Top: 50, Width: 200, Height: 100}

	fx, fy := r.Fraction(150, 125)
	if fx != 0.25 || fy != 0.25 {
		t.Errorf("Expected (0.25, 0.25), got (%f, %f)", fx, fy)
	}
	if !r.Contains(100, 149) {
		t.Error("Expected top-left area to be inside")
	}
	if r.Contains(300, 100) {
		t.Error("Expected right edge to be outside")
	}
	if r.Contains(150, 50) {
		t.Error("Expected top edge to be outside (fraction 1)")
	}

	m := r.Mirror()
	fx, _ = m.Fraction(150, 125)
	if fx != 0.75 {
		t.Errorf("Expected mirrored fraction 0.75, got %f", fx)
	}
	if !m.Contains(150, 125) {
		t.Error("Expected mirrored rect to contain the same point")
	}
}

func TestCrosshairLines(t *testing.T) {
	p := Pane{Rect: Rect{Left: 0, Top: 0, Width: 100, Height: 200}, Plane: models.Axial}

	v, h, ok := CrosshairLines(p, [3]float64{0.25, 0.75, 0.5}, 1)
	if !ok {
		t.Fatal("Expected crosshair lines")
	}
	if want := (Rect{Left: 24.5, Top: 0, Width: 1, Height: 200}); !rectApprox(v, want) {
		t.Errorf("Expected vertical %+v, got %+v", want, v)
	}
	if want := (Rect{Left: 0, Top: 49.5, Width: 100, Height: 1}); !rectApprox(h, want) {
		t.Errorf("Expected horizontal %+v, got %+v", want, h)
	}

	// mirrored panes put the vertical line on the other side
	m := Pane{Rect: p.Rect.Mirror(), Plane: models.Axial}
	v, h, _ = CrosshairLines(m, [3]float64{0.25, 0.75, 0.5}, 1)
	if want := 74.5; math.Abs(v.Left-want) > 1e-9 {
		t.Errorf("Expected mirrored vertical line at %f, got %f", want, v.Left)
	}
	if h.Width != 100 || h.Left != 0 {
		t.Errorf("Expected normalized horizontal line, got %+v", h)
	}

	if _, _, ok := CrosshairLines(p, [3]float64{}, 0); ok {
		t.Error("Expected no lines for zero width")
	}
}

func TestInPlane(t *testing.T) {
	c := [3]float64{0.1, 0.2, 0.3}
	if got := InPlane(models.Coronal, c); got != [3]float64{0.1, 0.3, 0.2} {
		t.Errorf("Unexpected coronal mapping %v", got)
	}
	if got := InPlane(models.Sagittal, c); got != [3]float64{0.2, 0.3, 0.1} {
		t.Errorf("Unexpected sagittal mapping %v", got)
	}
}

func TestLabels(t *testing.T) {
	p := Pane{Rect: Rect{Left: 10, Top: 20, Width: 100, Height: 100}, Plane: models.Axial}
	labels := Labels(p)
	if len(labels) != 2 || labels[0].Text != "L" || labels[1].Text != "A" {
		t.Fatalf("Expected [L A], got %+v", labels)
	}
	if labels[0].X != 11 || labels[0].Y != 70 {
		t.Errorf("Expected L anchor (11, 70), got (%f, %f)", labels[0].X, labels[0].Y)
	}

	m := Pane{Rect: p.Rect.Mirror(), Plane: models.Coronal}
	labels = Labels(m)
	if len(labels) != 2 || labels[0].Text != "R" || labels[1].Text != "S" {
		t.Fatalf("Expected [R S], got %+v", labels)
	}

	s := Pane{Rect: p.Rect, Plane: models.Sagittal}
	if labels := Labels(s); len(labels) != 1 || labels[0].Text != "S" {
		t.Errorf("Expected [S] for sagittal, got %+v", labels)
	}
}
