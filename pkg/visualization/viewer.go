// Package visualization is a CPU renderer for the orthogonal slice views.
// It resamples a volume into canonical order and composes frames from a
// layout, standing in for the GPU path in tests and the command line tool.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"orthoview/internal/models"
	"orthoview/pkg/orient"
)

// Viewer holds an 8-bit volume resampled into canonical
// (left->right, posterior->anterior, inferior->superior) order
type Viewer struct {
	// data is indexed x fastest, then y, then z
	data []uint8

	// canonical dimensions
	width  int
	height int
	depth  int
}

// NewViewer scales vol to 8 bits and resamples it into canonical order.
// Each canonical texel centre is pushed through the orientation's
// ToCanonical matrix and read back with nearest neighbour sampling.
func NewViewer(vol *models.Volume, o *orient.Orientation) (*Viewer, error) {
	h := &vol.Header
	if n := h.VoxelCount(); n == 0 || len(vol.Data) != n {
		return nil, fmt.Errorf("volume has %d values, header expects %d", len(vol.Data), h.VoxelCount())
	}

	native := ScaleTo8Bit(vol)
	nx, ny, nz := h.Dims[1], h.Dims[2], h.Dims[3]

	v := &Viewer{
		width:  o.Dims[1],
		height: o.Dims[2],
		depth:  o.Dims[3],
	}
	if v.width*v.height*v.depth != len(native) {
		return nil, fmt.Errorf("orientation dims %v do not match volume dims %v", o.Dims, h.Dims)
	}
	v.data = make([]uint8, len(native))

	i := 0
	for z := 0; z < v.depth; z++ {
		for y := 0; y < v.height; y++ {
			for x := 0; x < v.width; x++ {
				tex := [4]float64{
					(float64(x) + 0.5) / float64(v.width),
					(float64(y) + 0.5) / float64(v.height),
					(float64(z) + 0.5) / float64(v.depth),
					1,
				}
				src := o.ToCanonical.Apply(tex)
				sx := texelIndex(src[0], nx)
				sy := texelIndex(src[1], ny)
				sz := texelIndex(src[2], nz)
				v.data[i] = native[sz*nx*ny+sy*nx+sx]
				i++
			}
		}
	}
	return v, nil
}

// Dims returns the canonical dimensions
func (v *Viewer) Dims() [3]int {
	return [3]int{v.width, v.height, v.depth}
}

// At returns the canonical voxel value at (x, y, z)
func (v *Viewer) At(x, y, z int) uint8 {
	return v.data[z*v.width*v.height+y*v.width+x]
}

// texelIndex converts a normalized coordinate into a voxel index of an axis
// with n voxels, clamping to the edge like a clamped texture
func texelIndex(frac float64, n int) int {
	i := int(math.Floor(frac * float64(n)))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// planeAxes returns the horizontal, vertical and depth canonical axes of a plane
func planeAxes(plane models.SliceType) (h, vert, depth int, err error) {
	switch plane {
	case models.Axial:
		return 0, 1, 2, nil
	case models.Coronal:
		return 0, 2, 1, nil
	case models.Sagittal:
		return 1, 2, 0, nil
	default:
		return 0, 0, 0, fmt.Errorf("invalid plane: %v (must be axial, coronal or sagittal)", plane)
	}
}

// ExtractSlice extracts the slice of a plane at depth fraction depthFrac.
// Image row 0 holds the highest vertical index, so the image appears the
// way the pane shows it.
func (v *Viewer) ExtractSlice(plane models.SliceType, depthFrac float64) (*image.Gray, error) {
	ha, va, da, err := planeAxes(plane)
	if err != nil {
		return nil, err
	}
	dims := v.Dims()
	w, h := dims[ha], dims[va]
	d := texelIndex(depthFrac, dims[da])

	img := image.NewGray(image.Rect(0, 0, w, h))
	var p [3]int
	p[da] = d
	for row := 0; row < h; row++ {
		p[va] = h - 1 - row
		for col := 0; col < w; col++ {
			p[ha] = col
			img.Pix[row*img.Stride+col] = v.At(p[0], p[1], p[2])
		}
	}
	return img, nil
}

// ColorizeSlice extracts a slice and maps it through a 256 entry RGBA
// lookup table. Pixel alpha is the slice opacity.
func (v *Viewer) ColorizeSlice(plane models.SliceType, depthFrac float64, lut []byte, opacity float64) (*image.RGBA, error) {
	if len(lut) < 256*4 {
		return nil, fmt.Errorf("lookup table has %d bytes, need %d", len(lut), 256*4)
	}
	gray, err := v.ExtractSlice(plane, depthFrac)
	if err != nil {
		return nil, err
	}

	alpha := uint8(math.RoundToEven(255 * math.Max(0, math.Min(1, opacity))))
	b := gray.Bounds()
	img := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := int(gray.GrayAt(x, y).Y) * 4
			img.Set(x, y, color.NRGBA{R: lut[i], G: lut[i+1], B: lut[i+2], A: alpha})
		}
	}
	return img, nil
}

// SavePNG saves an image as a PNG file
func SavePNG(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// SaveSliceSequence extracts and saves every slice of a plane
func (v *Viewer) SaveSliceSequence(plane models.SliceType, outputDir string) error {
	_, _, da, err := planeAxes(plane)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	n := v.Dims()[da]
	for pos := 0; pos < n; pos++ {
		img, err := v.ExtractSlice(plane, (float64(pos)+0.5)/float64(n))
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.png", plane, pos))
		if err := SavePNG(img, filename); err != nil {
			return err
		}
	}

	return nil
}
