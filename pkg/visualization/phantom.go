package visualization

import (
	"math"

	"orthoview/internal/models"
)

// Phantom returns a volume described by hdr holding a bright sphere with a
// radius of a fifth of the smallest dimension, centred in voxel space.
// The header's intensity fields are reset to an 8-bit 0..255 window.
func Phantom(hdr *models.Header) *models.Volume {
	h := *hdr
	h.DataType = models.Uint8
	h.SclSlope, h.SclInter = 1, 0
	h.CalMin, h.CalMax = 0, 255

	vol := &models.Volume{Header: h, Data: make([]float64, h.VoxelCount())}
	if len(vol.Data) == 0 {
		return vol
	}

	nx, ny, nz := h.Dims[1], h.Dims[2], h.Dims[3]
	radius := 0.2 * float64(min(nx, ny, nz))
	halfX, halfY, halfZ := 0.5*float64(nx), 0.5*float64(ny), 0.5*float64(nz)

	for z := 0; z < nz; z++ {
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				dx := float64(x) - halfX
				dy := float64(y) - halfY
				dz := float64(z) - halfZ
				if math.Sqrt(dx*dx+dy*dy+dz*dz) < radius {
					vol.Data[vol.Index(x, y, z)] = 255
				}
			}
		}
	}
	vol.GlobalMin, vol.GlobalMax = 0, 255
	return vol
}
