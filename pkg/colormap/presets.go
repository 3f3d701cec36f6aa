package colormap

import "sort"

// DefaultName is the preset used when a name is unknown
const DefaultName = "Gray"

// ControlPoints are the sparse definition of a lookup table
type ControlPoints struct {
	R, G, B, A []float64
	Stops      []int
}

var presets = map[string]ControlPoints{
	"Gray": {
		R: []float64{0, 255}, G: []float64{0, 255}, B: []float64{0, 255},
		A: []float64{0, 128}, Stops: []int{0, 255},
	},
	"Winter": {
		R: []float64{0, 0, 0}, G: []float64{0, 128, 255}, B: []float64{255, 196, 128},
		A: []float64{0, 64, 128}, Stops: []int{0, 128, 255},
	},
	"Warm": {
		R: []float64{255, 255, 255}, G: []float64{127, 196, 254}, B: []float64{0, 0, 0},
		A: []float64{0, 64, 128}, Stops: []int{0, 128, 255},
	},
	"Plasma": {
		R: []float64{13, 156, 237, 240}, G: []float64{8, 23, 121, 249}, B: []float64{135, 158, 83, 33},
		A: []float64{0, 56, 80, 88}, Stops: []int{0, 64, 192, 255},
	},
	"Viridis": {
		R: []float64{68, 49, 53, 253}, G: []float64{1, 104, 183, 231}, B: []float64{84, 142, 121, 37},
		A: []float64{0, 56, 80, 88}, Stops: []int{0, 65, 192, 255},
	},
	"Inferno": {
		R: []float64{0, 120, 237, 240}, G: []float64{0, 28, 105, 249}, B: []float64{4, 109, 37, 33},
		A: []float64{0, 56, 80, 88}, Stops: []int{0, 64, 192, 255},
	},
}

// Names returns the preset names in sorted order
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the control points of a preset and whether it exists
func Lookup(name string) (ControlPoints, bool) {
	cp, ok := presets[name]
	return cp, ok
}

// Preset builds the named table. Unknown names fall back to Gray; this is
// not an error.
func Preset(name string) []byte {
	cp, ok := presets[name]
	if !ok {
		cp = presets[DefaultName]
	}
	lut, err := Build(cp.R, cp.G, cp.B, cp.A, cp.Stops)
	if err != nil {
		// presets are fixed tables validated by tests
		panic(err)
	}
	return lut
}
