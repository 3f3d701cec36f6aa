// Package colormap builds 256 entry RGBA lookup tables from sparse control
// points and renders them as colorbar images.
package colormap

import (
	"errors"
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Size is the number of entries in a lookup table
const Size = 256

// ErrInvalidControlPoints is returned when control points cannot describe a table
var ErrInvalidControlPoints = errors.New("invalid colormap control points")

// Build interpolates the channel control points linearly between intensity
// stops and returns Size*4 RGBA bytes. Stops must start at 0, end at 255
// and be strictly ascending; each channel has one value per stop.
func Build(r, g, b, a []float64, stops []int) ([]byte, error) {
	if len(stops) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 stops, got %d", ErrInvalidControlPoints, len(stops))
	}
	if len(r) != len(stops) || len(g) != len(stops) || len(b) != len(stops) || len(a) != len(stops) {
		return nil, fmt.Errorf("%w: channel lengths %d/%d/%d/%d do not match %d stops",
			ErrInvalidControlPoints, len(r), len(g), len(b), len(a), len(stops))
	}
	if stops[0] != 0 || stops[len(stops)-1] != Size-1 {
		return nil, fmt.Errorf("%w: stops must run from 0 to %d", ErrInvalidControlPoints, Size-1)
	}
	for i := 1; i < len(stops); i++ {
		if stops[i] <= stops[i-1] {
			return nil, fmt.Errorf("%w: stops not ascending at %d", ErrInvalidControlPoints, i)
		}
	}

	lut := make([]byte, Size*4)
	channels := [4][]float64{r, g, b, a}
	for i := 0; i < len(stops)-1; i++ {
		lo, hi := stops[i], stops[i+1]
		span := float64(hi - lo)
		for j := lo; j <= hi; j++ {
			f := float64(j-lo) / span
			for c, ch := range channels {
				lut[j*4+c] = clampByte(ch[i] + f*(ch[i+1]-ch[i]))
			}
		}
	}
	return lut, nil
}

// clampByte rounds half to even and saturates, like a clamped byte array
func clampByte(v float64) byte {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return byte(math.RoundToEven(v))
}

// Image returns the table as a Size x 1 image. Table entries are not
// premultiplied by alpha.
func Image(lut []byte) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, Size, 1))
	copy(img.Pix, lut)
	return img
}

// Colorbar stretches the table horizontally into a width x height bar with
// premultiplied pixels, ready for compositing
func Colorbar(lut []byte, width, height int) *image.RGBA {
	if width <= 0 || height <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	src := Image(lut)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
