package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"

	"orthoview/internal/models"
	"orthoview/pkg/colormap"
	"orthoview/pkg/config"
	"orthoview/pkg/coords"
	"orthoview/pkg/interaction"
	"orthoview/pkg/layout"
	"orthoview/pkg/orient"
	"orthoview/pkg/visualization"
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "orthoview.yaml", "Path to the YAML configuration file")
	initConfig := flag.Bool("init-config", false, "Write the default configuration to -config and exit")
	headerPath := flag.String("header", "", "YAML volume header (default: 64x64x32 volume with 1mm voxels)")
	slicesDir := flag.String("slices", "", "Directory of JPEG axial slices to load instead of a phantom")
	sliceGap := flag.Float64("gap", 1.5, "Inter-slice gap in mm for -slices")
	width := flag.Int("width", 800, "Canvas width in pixels")
	height := flag.Int("height", 600, "Canvas height in pixels")
	mode := flag.String("mode", "", "View: axial, coronal, sagittal, multiplanar or render")
	cmap := flag.String("colormap", "", fmt.Sprintf("Colormap (%s)", strings.Join(colormap.Names(), ", ")))
	click := flag.String("click", "", "Click at canvas position x,y")
	scroll := flag.Float64("scroll", 0, "Scroll the depth of the pane under -click by this fraction")
	snapshot := flag.String("snapshot", "", "Save the composed frame as a PNG file")
	exportDir := flag.String("export-slices", "", "Directory to save every canonical slice along all planes")
	verbose := flag.Bool("verbose", false, "Log every scene change")
	flag.Parse()

	if *initConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		fmt.Printf("Default configuration written to: %s\n", *configPath)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *mode != "" {
		cfg.Scene.SliceType = *mode
	}
	if *cmap != "" {
		cfg.Scene.Colormap = *cmap
	}
	if *verbose {
		cfg.Output.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid options: %v", err)
	}
	if _, ok := colormap.Lookup(cfg.Scene.Colormap); !ok {
		log.Printf("Warning: unknown colormap %q, using %s", cfg.Scene.Colormap, colormap.DefaultName)
	}

	vol, err := loadVolume(*headerPath, *slicesDir, *sliceGap)
	if err != nil {
		log.Fatalf("Failed to load volume: %v", err)
	}

	o, err := orient.FromHeader(&vol.Header)
	if err != nil {
		log.Fatalf("Failed to orient volume: %v", err)
	}
	fmt.Printf("Volume: %dx%dx%d %s, intensity %.2f..%.2f\n",
		vol.Header.Dims[1], vol.Header.Dims[2], vol.Header.Dims[3], vol.Header.DataType,
		vol.GlobalMin, vol.GlobalMax)
	fmt.Printf("Orientation: %s\n", o)

	scene := interaction.NewScene()
	scene.Mode = cfg.SliceType()
	scene.Azimuth = cfg.Scene.Azimuth
	scene.Elevation = cfg.Scene.Elevation
	scene.Opacity = cfg.Scene.Opacity
	scene.ScaleMultiplier = cfg.Scene.Scale

	ctrl := interaction.NewController(scene)
	if cfg.Output.Verbose {
		ctrl.OnChange = func(s interaction.Scene) {
			log.Printf("Scene changed: crosshair %.3f %.3f %.3f", s.Crosshair[0], s.Crosshair[1], s.Crosshair[2])
		}
	}

	volScale := layout.VolumeScale(o.Dims, o.PixDims, scene.ScaleMultiplier)
	frame := ctrl.Relayout(volScale, float64(*width), float64(*height), cfg.LayoutOptions())
	printFrame(frame)

	if *click != "" {
		x, y, err := parsePoint(*click)
		if err != nil {
			log.Fatalf("Invalid -click: %v", err)
		}
		if !ctrl.ClickOrScroll(x, y, *scroll, false) {
			log.Printf("Warning: click at %.0f,%.0f did not hit a slice pane", x, y)
		}
	}

	mapper := coords.NewMapper(o)
	vox := mapper.FracToVoxel(scene.Crosshair)
	fmt.Printf("Crosshair: %.0f %.0f %.0f voxels, %s mm\n", vox[0], vox[1], vox[2],
		coords.FormatMM(mapper.FracToMM(scene.Crosshair)))

	if scene.Mode == models.Render {
		cam, err := interaction.NewCamera(scene, volScale)
		if err != nil {
			log.Fatalf("Failed to build camera: %v", err)
		}
		fmt.Printf("Camera: %s, ray %.4f %.4f %.4f\n", interaction.AngleLabel(scene),
			cam.RayDir.X, cam.RayDir.Y, cam.RayDir.Z)
	}

	if *snapshot == "" && *exportDir == "" {
		return
	}

	viewer, err := visualization.NewViewer(vol, o)
	if err != nil {
		log.Fatalf("Failed to resample volume: %v", err)
	}

	if *snapshot != "" {
		opts := visualization.DefaultSnapshotOptions(*width, *height)
		opts.Background = visualization.ColorFromFloats(cfg.Display.BackgroundColor)
		opts.CrosshairColor = visualization.ColorFromFloats(cfg.Display.CrosshairColor)
		opts.CrosshairWidth = cfg.Display.CrosshairWidth

		img, err := viewer.Snapshot(frame, *scene, colormap.Preset(cfg.Scene.Colormap), opts)
		if err != nil {
			log.Fatalf("Failed to compose snapshot: %v", err)
		}
		if err := visualization.SavePNG(img, *snapshot); err != nil {
			log.Fatalf("Failed to save snapshot: %v", err)
		}
		fmt.Printf("Snapshot saved to: %s\n", *snapshot)
	}

	if *exportDir != "" {
		for _, plane := range []models.SliceType{models.Axial, models.Coronal, models.Sagittal} {
			planeDir := filepath.Join(*exportDir, plane.String())
			fmt.Printf("Saving %s slices to: %s\n", plane, planeDir)
			if err := viewer.SaveSliceSequence(plane, planeDir); err != nil {
				log.Printf("Warning: Failed to save %s slices: %v", plane, err)
			}
		}
	}
}

// loadVolume reads a JPEG slice stack, or builds a phantom for a header
func loadVolume(headerPath, slicesDir string, gap float64) (*models.Volume, error) {
	if slicesDir != "" {
		return visualization.LoadSliceStack(slicesDir, gap)
	}

	hdr := config.DefaultHeader()
	if headerPath != "" {
		var err error
		if hdr, err = config.LoadHeader(headerPath); err != nil {
			return nil, err
		}
	}
	vol := visualization.Phantom(hdr)
	if err := visualization.Calibrate(vol); err != nil {
		return nil, err
	}
	return vol, nil
}

func printFrame(f layout.Frame) {
	if len(f.Panes) == 0 {
		fmt.Println("Layout: canvas too small, nothing to draw")
		return
	}
	for _, p := range f.Panes {
		mirrored := ""
		if p.Mirrored() {
			mirrored = " (mirrored)"
		}
		fmt.Printf("Pane %-8s left %.1f top %.1f width %.1f height %.1f%s\n",
			p.Plane, p.Left, p.Top, p.Width, p.Height, mirrored)
	}
	if f.HasColorbar {
		fmt.Printf("Colorbar     left %.1f top %.1f width %.1f height %.1f\n",
			f.Colorbar.Left, f.Colorbar.Top, f.Colorbar.Width, f.Colorbar.Height)
	}
}

func parsePoint(s string) (x, y float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected x,y, got %q", s)
	}
	if x, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64); err != nil {
		return 0, 0, err
	}
	if y, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err != nil {
		return 0, 0, err
	}
	return x, y, nil
}
