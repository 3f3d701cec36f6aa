package visualization

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gen2brain/jpegn"

	"orthoview/internal/models"
)

// LoadSliceStack builds a volume from a directory of JPEG axial slices.
// Files are ordered by the number in their name and stacked inferior to
// superior sliceGap millimetres apart. Image rows run anterior to
// posterior, so the first row becomes the highest y index.
func LoadSliceStack(dir string, sliceGap float64) (*models.Volume, error) {
	if sliceGap <= 0 {
		return nil, fmt.Errorf("slice gap must be positive, got %f", sliceGap)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !e.IsDir() && (ext == ".jpg" || ext == ".jpeg") {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no JPG images found in %s", dir)
	}

	sort.SliceStable(files, func(i, j int) bool {
		return extractNumber(files[i]) < extractNumber(files[j])
	})

	var vol *models.Volume
	var w, h int
	for z, name := range files {
		img, err := loadJPEG(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to load image %s: %w", name, err)
		}

		b := img.Bounds()
		if vol == nil {
			w, h = b.Dx(), b.Dy()
			vol = &models.Volume{
				Header: stackHeader(w, h, len(files), sliceGap),
				Data:   make([]float64, w*h*len(files)),
			}
		} else if b.Dx() != w || b.Dy() != h {
			return nil, fmt.Errorf("image %s is %dx%d, expected %dx%d", name, b.Dx(), b.Dy(), w, h)
		}

		for row := 0; row < h; row++ {
			y := h - 1 - row
			for x := 0; x < w; x++ {
				g := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+row)).(color.Gray)
				vol.Data[vol.Index(x, y, z)] = float64(g.Y)
			}
		}
	}

	if err := Calibrate(vol); err != nil {
		return nil, err
	}
	return vol, nil
}

// stackHeader describes a w x h x n stack with 1mm pixels, centred on the origin
func stackHeader(w, h, n int, gap float64) models.Header {
	return models.Header{
		Dims:    [4]int{1, w, h, n},
		PixDims: [4]float64{1, 1, 1, gap},
		Affine: [3][4]float64{
			{1, 0, 0, -0.5 * float64(w-1)},
			{0, 1, 0, -0.5 * float64(h-1)},
			{0, 0, gap, -0.5 * float64(n-1) * gap},
		},
		DataType: models.Uint8,
		CalMin:   0,
		CalMax:   255,
		SclSlope: 1,
	}
}

func loadJPEG(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return jpegn.Decode(file)
}

// extractNumber returns the digits of a file name as a number, or 0
func extractNumber(filename string) int {
	var digits strings.Builder
	for _, c := range filepath.Base(filename) {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return n
}
