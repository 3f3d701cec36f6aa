package models

import (
	"fmt"
	"math"
	"strings"
)

// DataType is the NIfTI scalar type code of the stored voxels
type DataType int

const (
	Uint8   DataType = 2
	Int16   DataType = 4
	Float32 DataType = 16
	Float64 DataType = 64
	Uint16  DataType = 512
)

// String returns the short name of the scalar type
func (d DataType) String() string {
	switch d {
	case Uint8:
		return "uint8"
	case Int16:
		return "int16"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Uint16:
		return "uint16"
	default:
		return fmt.Sprintf("datatype(%d)", int(d))
	}
}

// SliceType identifies an on-screen view or the plane shown by a pane
type SliceType int

const (
	Axial SliceType = iota
	Coronal
	Sagittal
	Multiplanar
	Render
)

var sliceTypeNames = map[SliceType]string{
	Axial:       "axial",
	Coronal:     "coronal",
	Sagittal:    "sagittal",
	Multiplanar: "multiplanar",
	Render:      "render",
}

func (s SliceType) String() string {
	if name, ok := sliceTypeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("slicetype(%d)", int(s))
}

// IsPlane reports whether s is one of the three orthogonal 2D planes
func (s SliceType) IsPlane() bool {
	return s >= Axial && s <= Sagittal
}

// ParseSliceType converts a case-insensitive name into a SliceType
func ParseSliceType(name string) (SliceType, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for st, n := range sliceTypeNames {
		if n == lower {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown slice type: %q", name)
}

// Header holds the geometry and intensity metadata of a loaded volume
type Header struct {
	// Dims is [n, x, y, z]; n is the non-spatial leading dimension
	Dims [4]int `yaml:"dims"`

	// PixDims is the voxel spacing in mm, indexed like Dims
	PixDims [4]float64 `yaml:"pixDims"`

	// Affine maps native voxel indices to millimetres (rotation and translation)
	Affine [3][4]float64 `yaml:"affine"`

	DataType DataType `yaml:"datatype"`

	// Display window
	CalMin float64 `yaml:"calMin"`
	CalMax float64 `yaml:"calMax"`

	// Stored value to physical value scaling
	SclSlope float64 `yaml:"sclSlope"`
	SclInter float64 `yaml:"sclInter"`
}

// ScaleIntercept returns the effective slope and intercept. A zero or
// non-finite slope, or a non-finite intercept, means identity scaling.
func (h *Header) ScaleIntercept() (slope, inter float64) {
	if h.SclSlope == 0 || math.IsNaN(h.SclSlope) || math.IsInf(h.SclSlope, 0) ||
		math.IsNaN(h.SclInter) || math.IsInf(h.SclInter, 0) {
		return 1, 0
	}
	return h.SclSlope, h.SclInter
}

// VoxelCount returns x*y*z, or 0 when any spatial dimension is below 1
func (h *Header) VoxelCount() int {
	if h.Dims[1] < 1 || h.Dims[2] < 1 || h.Dims[3] < 1 {
		return 0
	}
	return h.Dims[1] * h.Dims[2] * h.Dims[3]
}

// Volume is a header plus its voxel values in native storage order
// (x fastest, then y, then z)
type Volume struct {
	Header Header

	// Data holds raw stored values; apply ScaleIntercept for physical values
	Data []float64

	// GlobalMin and GlobalMax are set by calibration
	GlobalMin float64
	GlobalMax float64
}

// Index returns the offset of voxel (x, y, z) in Data
func (v *Volume) Index(x, y, z int) int {
	return z*v.Header.Dims[1]*v.Header.Dims[2] + y*v.Header.Dims[1] + x
}
