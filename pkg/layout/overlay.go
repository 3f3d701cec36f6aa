package layout

import "orthoview/internal/models"

// InPlane returns the crosshair coordinates shown by a plane as
// (horizontal, vertical, depth) fractions.
func InPlane(plane models.SliceType, crosshair [3]float64) [3]float64 {
	switch plane {
	case models.Coronal:
		return [3]float64{crosshair[0], crosshair[2], crosshair[1]}
	case models.Sagittal:
		return [3]float64{crosshair[1], crosshair[2], crosshair[0]}
	default:
		return crosshair
	}
}

// CrosshairLines returns the vertical and horizontal crosshair bars for a
// 2D pane. Both are returned with positive width.
func CrosshairLines(p Pane, crosshair [3]float64, lineWidth float64) (vertical, horizontal Rect, ok bool) {
	if lineWidth <= 0 || !p.Plane.IsPlane() || p.Empty() {
		return Rect{}, Rect{}, false
	}
	c := InPlane(p.Plane, crosshair)

	x := p.Left + p.Width*c[0]
	vertical = Rect{Left: x - 0.5*lineWidth, Top: p.Top, Width: lineWidth, Height: p.Height}

	y := p.Top + p.Height*(1-c[1])
	horizontal = Rect{Left: p.Left, Top: y - 0.5*lineWidth, Width: p.Width, Height: lineWidth}.Normalized()
	return vertical, horizontal, true
}

// LabelAlign tells the text collaborator how to place a label on its anchor
type LabelAlign int

const (
	// AlignRight draws to the right of X, vertically centred on Y
	AlignRight LabelAlign = iota
	// AlignBelow draws horizontally centred on X, below Y
	AlignBelow
)

// Label is an orientation letter and where to draw it
type Label struct {
	Text  string
	X, Y  float64
	Align LabelAlign
}

// Labels returns the orientation letters for a 2D pane: the side the
// viewer's left is on, then the anterior or superior edge at the top.
func Labels(p Pane) []Label {
	if !p.Plane.IsPlane() || p.Empty() {
		return nil
	}
	var labels []Label
	midY := p.Top + 0.5*p.Height
	if p.Mirrored() {
		labels = append(labels, Label{Text: "R", X: p.Left + p.Width + 1, Y: midY, Align: AlignRight})
	} else if p.Plane != models.Sagittal {
		labels = append(labels, Label{Text: "L", X: p.Left + 1, Y: midY, Align: AlignRight})
	}

	top := Label{Text: "S", X: p.Left + 0.5*p.Width, Y: p.Top + 1, Align: AlignBelow}
	if p.Plane == models.Axial {
		top.Text = "A"
	}
	return append(labels, top)
}
