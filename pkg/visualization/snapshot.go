package visualization

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"orthoview/pkg/colormap"
	"orthoview/pkg/interaction"
	"orthoview/pkg/layout"
)

// SnapshotOptions controls how a frame is composed
type SnapshotOptions struct {
	Width, Height int

	Background     color.Color
	CrosshairColor color.Color

	// CrosshairWidth is in pixels; 0 hides the crosshair
	CrosshairWidth float64
}

// DefaultSnapshotOptions returns black background, red 1 pixel crosshair options
func DefaultSnapshotOptions(width, height int) SnapshotOptions {
	return SnapshotOptions{
		Width:          width,
		Height:         height,
		Background:     color.NRGBA{A: 255},
		CrosshairColor: color.NRGBA{R: 255, A: 255},
		CrosshairWidth: 1,
	}
}

// ColorFromFloats converts RGBA components in [0,1] to a color
func ColorFromFloats(c [4]float64) color.NRGBA {
	b := func(v float64) uint8 {
		return uint8(math.RoundToEven(255 * math.Max(0, math.Min(1, v))))
	}
	return color.NRGBA{R: b(c[0]), G: b(c[1]), B: b(c[2]), A: b(c[3])}
}

// Snapshot draws one frame: each 2D pane shows its slice through the
// crosshair, stretched to the pane and flipped when mirrored, with the
// crosshair on top; the colorbar is drawn last. The render pane is left
// as background.
func (v *Viewer) Snapshot(f layout.Frame, s interaction.Scene, lut []byte, opts SnapshotOptions) (*image.RGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid snapshot size %dx%d", opts.Width, opts.Height)
	}
	dst := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	for _, p := range f.Panes {
		if !p.Plane.IsPlane() {
			continue
		}
		depth := layout.InPlane(p.Plane, s.Crosshair)[2]
		slice, err := v.ColorizeSlice(p.Plane, depth, lut, s.Opacity)
		if err != nil {
			return nil, err
		}
		if p.Mirrored() {
			slice = flipHorizontal(slice)
		}
		draw.NearestNeighbor.Scale(dst, toImageRect(p.Normalized()), slice, slice.Bounds(), draw.Over, nil)

		vert, horiz, ok := layout.CrosshairLines(p, s.Crosshair, opts.CrosshairWidth)
		if !ok {
			continue
		}
		line := image.NewUniform(opts.CrosshairColor)
		draw.Draw(dst, toImageRect(vert.Normalized()), line, image.Point{}, draw.Over)
		draw.Draw(dst, toImageRect(horiz), line, image.Point{}, draw.Over)
	}

	if f.HasColorbar {
		r := toImageRect(f.Colorbar)
		if !r.Empty() {
			bar := colormap.Colorbar(lut, r.Dx(), r.Dy())
			draw.Draw(dst, r, bar, image.Point{}, draw.Over)
		}
	}
	return dst, nil
}

func toImageRect(r layout.Rect) image.Rectangle {
	return image.Rect(
		int(math.Round(r.Left)),
		int(math.Round(r.Top)),
		int(math.Round(r.Left+r.Width)),
		int(math.Round(r.Top+r.Height)),
	)
}

func flipHorizontal(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.SetRGBA(b.Max.X-1-(x-b.Min.X), y, src.RGBAAt(x, y))
		}
	}
	return dst
}
