// Package layout partitions a viewport into slice panes that preserve the
// physical aspect ratio of the volume.
package layout

import (
	"math"

	"orthoview/internal/models"
)

// Rect is a pixel rectangle with a top-left origin. A negative Width marks
// a horizontally mirrored pane whose Left is its right edge.
type Rect struct {
	Left, Top, Width, Height float64
}

// Empty reports whether the rectangle would not be drawn
func (r Rect) Empty() bool {
	return r.Width == 0 || r.Height <= 0
}

// Mirrored reports whether the rectangle is horizontally flipped
func (r Rect) Mirrored() bool {
	return r.Width < 0
}

// Normalized returns the same screen area with a positive width
func (r Rect) Normalized() Rect {
	if r.Width < 0 {
		r.Left += r.Width
		r.Width = -r.Width
	}
	return r
}

// Mirror returns r flipped horizontally in place on screen
func (r Rect) Mirror() Rect {
	return Rect{Left: r.Left + r.Width, Top: r.Top, Width: -r.Width, Height: r.Height}
}

// Fraction returns the position of (x, y) inside r as volume fractions,
// with y measured from the bottom edge. Mirrored rectangles reflect x.
func (r Rect) Fraction(x, y float64) (fx, fy float64) {
	n := r.Normalized()
	fx = (x - n.Left) / n.Width
	if r.Mirrored() {
		fx = 1 - fx
	}
	fy = 1 - (y-n.Top)/n.Height
	return fx, fy
}

// Contains reports whether (x, y) falls inside r
func (r Rect) Contains(x, y float64) bool {
	if r.Empty() {
		return false
	}
	fx, fy := r.Fraction(x, y)
	return fx >= 0 && fx < 1 && fy >= 0 && fy < 1
}

// Pane is one on-screen region and the plane it shows
type Pane struct {
	Rect
	Plane models.SliceType
}

// Frame is the complete layout of one drawn frame
type Frame struct {
	// Panes are in draw order
	Panes []Pane

	// Colorbar is only set in the L shaped multiplanar packing
	Colorbar    Rect
	HasColorbar bool
}

// Options controls layout details that come from display configuration
type Options struct {
	// ColorbarMargin is the gap around the colorbar as a fraction of the axial pane height
	ColorbarMargin float64

	// ColorbarHeight is the bar height as a fraction of the axial pane height; 0 disables it
	ColorbarHeight float64

	// Radiological mirrors the axial and coronal panes left to right
	Radiological bool
}

// DefaultOptions returns the standard layout options
func DefaultOptions() Options {
	return Options{ColorbarMargin: 0.05, ColorbarHeight: 0.05}
}

// ScaleSlice fits a box with physical extents (e0, e1) into the viewport,
// centred, as large as possible without changing its aspect ratio.
func ScaleSlice(e0, e1, viewportW, viewportH float64) Rect {
	if e0 <= 0 || e1 <= 0 || viewportW <= 0 || viewportH <= 0 {
		return Rect{}
	}
	scale := math.Min(viewportW/e0, viewportH/e1)
	w := e0 * scale
	h := e1 * scale
	return Rect{
		Left:   (viewportW - w) * 0.5,
		Top:    (viewportH - h) * 0.5,
		Width:  w,
		Height: h,
	}
}

// VolumeScale returns the physical extent of each canonical axis relative
// to the longest one, times multiplier. Voxel spacing sign is ignored.
func VolumeScale(dims [4]int, pixDims [4]float64, multiplier float64) [3]float64 {
	var ext [3]float64
	longest := 0.0
	for i := 0; i < 3; i++ {
		ext[i] = float64(dims[i+1]) * math.Abs(pixDims[i+1])
		longest = math.Max(longest, ext[i])
	}
	if longest <= 0 {
		return [3]float64{}
	}
	for i := range ext {
		ext[i] = ext[i] / longest * multiplier
	}
	return ext
}

// Compute lays out one frame for the given view mode. A degenerate viewport
// or volume yields an empty frame.
func Compute(mode models.SliceType, volScale [3]float64, viewportW, viewportH float64, opts Options) Frame {
	if viewportW <= 0 || viewportH <= 0 {
		return Frame{}
	}
	for _, e := range volScale {
		if !(e > 0) || math.IsInf(e, 0) {
			return Frame{}
		}
	}
	e := volScale

	var f Frame
	switch mode {
	case models.Axial:
		f.add(ScaleSlice(e[0], e[1], viewportW, viewportH), models.Axial)
	case models.Coronal:
		f.add(ScaleSlice(e[0], e[2], viewportW, viewportH), models.Coronal)
	case models.Sagittal:
		f.add(ScaleSlice(e[1], e[2], viewportW, viewportH), models.Sagittal)
	case models.Render:
		side := math.Min(viewportW, viewportH)
		f.add(Rect{Left: (viewportW - side) * 0.5, Top: (viewportH - side) * 0.5, Width: side, Height: side}, models.Render)
	default:
		f = multiplanar(e, viewportW, viewportH, opts)
	}

	if opts.Radiological {
		for i := range f.Panes {
			if f.Panes[i].Plane == models.Axial || f.Panes[i].Plane == models.Coronal {
				f.Panes[i].Rect = f.Panes[i].Rect.Mirror()
			}
		}
	}
	return f
}

func (f *Frame) add(r Rect, plane models.SliceType) {
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	f.Panes = append(f.Panes, Pane{Rect: r, Plane: plane})
}

// multiplanar chooses between the L packing (axial and coronal stacked,
// sagittal beside) and a single row of three, whichever gives the larger
// axial pane. Ties keep the L packing.
func multiplanar(e [3]float64, viewportW, viewportH float64, opts Options) Frame {
	ltwh := ScaleSlice(e[0]+e[1], e[1]+e[2], viewportW, viewportH)
	wX := ltwh.Width * e[0] / (e[0] + e[1])

	row := ScaleSlice(e[0]+e[0]+e[1], math.Max(e[1], e[2]), viewportW, viewportH)
	wX1 := row.Width * e[0] / (e[0] + e[0] + e[1])

	var f Frame
	if wX1 > wX {
		pixScale := wX1 / e[0]
		hY1 := e[1] * pixScale
		hZ1 := e[2] * pixScale
		f.add(Rect{row.Left, row.Top, wX1, hY1}, models.Axial)
		f.add(Rect{row.Left + wX1, row.Top, wX1, hZ1}, models.Coronal)
		f.add(Rect{row.Left + wX1 + wX1, row.Top, hY1, hZ1}, models.Sagittal)
		return f
	}

	wY := ltwh.Width - wX
	hY := ltwh.Height * e[1] / (e[1] + e[2])
	hZ := ltwh.Height - hY
	f.add(Rect{ltwh.Left, ltwh.Top + hZ, wX, hY}, models.Axial)
	f.add(Rect{ltwh.Left, ltwh.Top, wX, hZ}, models.Coronal)
	f.add(Rect{ltwh.Left + wX, ltwh.Top, wY, hZ}, models.Sagittal)

	margin := opts.ColorbarMargin * hY
	bar := Rect{
		Left:   ltwh.Left + wX + margin,
		Top:    ltwh.Top + hZ + margin,
		Width:  wY - margin - margin,
		Height: hY * opts.ColorbarHeight,
	}
	if bar.Width > 0 && bar.Height > 0 {
		f.Colorbar = bar
		f.HasColorbar = true
	}
	return f
}
