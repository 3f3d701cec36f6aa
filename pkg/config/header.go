package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"orthoview/internal/models"
)

// DefaultHeader describes a 64x64x32 volume with 1mm isotropic voxels
// centred on the origin
func DefaultHeader() *models.Header {
	return &models.Header{
		Dims:    [4]int{1, 64, 64, 32},
		PixDims: [4]float64{1, 1, 1, 1},
		Affine: [3][4]float64{
			{1, 0, 0, -31.5},
			{0, 1, 0, -31.5},
			{0, 0, 1, -15.5},
		},
		DataType: models.Uint8,
		CalMin:   0,
		CalMax:   255,
		SclSlope: 1,
	}
}

// LoadHeader reads a YAML description of a volume header. Fields missing
// from the file keep the values of DefaultHeader.
func LoadHeader(path string) (*models.Header, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading header file: %w", err)
	}

	h := DefaultHeader()
	if err := yaml.Unmarshal(data, h); err != nil {
		return nil, fmt.Errorf("error parsing header file: %w", err)
	}
	return h, nil
}
