package visualization

import (
	"fmt"
	"math"

	"orthoview/internal/models"
)

// Calibrate sets the volume's global range from its finite voxels after
// slope and intercept scaling. An unusable display window (non-finite or
// empty) is replaced by that range.
func Calibrate(vol *models.Volume) error {
	h := &vol.Header
	if n := h.VoxelCount(); n == 0 || len(vol.Data) != n {
		return fmt.Errorf("volume has %d values, header expects %d", len(vol.Data), h.VoxelCount())
	}

	mn, mx := math.Inf(1), math.Inf(-1)
	for _, v := range vol.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		mn = math.Min(mn, v)
		mx = math.Max(mx, v)
	}
	if mn > mx {
		return fmt.Errorf("volume has no finite values")
	}

	slope, inter := h.ScaleIntercept()
	h.SclSlope, h.SclInter = slope, inter
	lo, hi := mn*slope+inter, mx*slope+inter
	vol.GlobalMin, vol.GlobalMax = math.Min(lo, hi), math.Max(lo, hi)

	if !finite(h.CalMin) || !finite(h.CalMax) || h.CalMin >= h.CalMax {
		h.CalMin, h.CalMax = vol.GlobalMin, vol.GlobalMax
	}
	return nil
}

// ScaleTo8Bit maps every voxel through slope and intercept and then the
// display window onto 0..255. Values outside the window saturate.
func ScaleTo8Bit(vol *models.Volume) []uint8 {
	h := &vol.Header
	slope, inter := h.ScaleIntercept()

	scale := 1.0
	if h.CalMax > h.CalMin {
		scale = 255 / (h.CalMax - h.CalMin)
	}

	out := make([]uint8, len(vol.Data))
	for i, v := range vol.Data {
		s := (v*slope + inter - h.CalMin) * scale
		switch {
		case math.IsNaN(s) || s <= 0:
			out[i] = 0
		case s >= 255:
			out[i] = 255
		default:
			out[i] = uint8(math.RoundToEven(s))
		}
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
