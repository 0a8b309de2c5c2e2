// Command aspirin renders one of the built-in demo scenes with the
// physically-based path tracer in pkg/integrator and writes the result
// as a PNG. A real scene-description loader (XML parsing, the plugin
// registry, dynamic instance construction) is deliberately out of scope
// for this module; pkg/demoscene stands in for it, building a
// scenecfg.Scene directly in Go.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/asprenderer/aspirin/pkg/core"
	"github.com/asprenderer/aspirin/pkg/demoscene"
	"github.com/asprenderer/aspirin/pkg/film"
	"github.com/asprenderer/aspirin/pkg/filter"
	"github.com/asprenderer/aspirin/pkg/integrator"
	"github.com/asprenderer/aspirin/pkg/render"
	"github.com/asprenderer/aspirin/pkg/scenecfg"
)

// config holds every command-line-configurable rendering parameter.
type config struct {
	Scene           string
	Width           int
	SamplesPerPixel int
	MaxDepth        int
	RRDepth         int
	Workers         int
	IntegratorType  string
	Output          string
	CPUProfile      string
	Mesh            string
	MeshTexture     string
	EnvMap          string
	Help            bool
}

func main() {
	cfg := parseFlags()
	if cfg.Help {
		showHelp()
		return
	}

	if cfg.CPUProfile != "" {
		f, err := os.Create(cfg.CPUProfile)
		if err != nil {
			fmt.Printf("could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Printf("could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	fmt.Println("Starting aspirin...")
	start := time.Now()

	height := int(float64(cfg.Width) * 9.0 / 16.0)
	opts := demoscene.Options{
		Width: cfg.Width, Height: height,
		MeshPath: cfg.Mesh, MeshTexturePath: cfg.MeshTexture, EnvMapPath: cfg.EnvMap,
	}

	scene, err := lookupScene(cfg.Scene, opts)
	if err != nil {
		fmt.Printf("could not build scene: %v\n", err)
		os.Exit(1)
	}
	if scene == nil {
		fmt.Printf("unknown scene: %s\n", cfg.Scene)
		os.Exit(1)
	}

	integ := buildIntegrator(cfg)
	sampler := core.NewPCG32(cfg.SamplesPerPixel)

	f := film.New(opts.Width, opts.Height, filter.NewGaussian(2))
	f.SetDestinationFile(outputPath(cfg))

	renderCfg := render.Config{Workers: cfg.Workers, BlockSize: render.DefaultBlockSize}
	if err := render.Render(context.Background(), scene, integ, f, sampler, renderCfg); err != nil {
		fmt.Printf("render error: %v\n", err)
		os.Exit(1)
	}

	w := &pngWriter{}
	if err := f.Develop(w); err != nil {
		fmt.Printf("develop error: %v\n", err)
		os.Exit(1)
	}
	if err := writePNG(w.img, f.DestinationFile()); err != nil {
		fmt.Printf("could not save image: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Render completed in %v\n", time.Since(start))
	fmt.Printf("Render saved as %s\n", f.DestinationFile())
}

func parseFlags() config {
	cfg := config{}
	flag.StringVar(&cfg.Scene, "scene", "default", "Scene name: default, cornell, fog")
	flag.IntVar(&cfg.Width, "width", 400, "Image width (height follows a 16:9 aspect ratio)")
	flag.IntVar(&cfg.SamplesPerPixel, "spp", 64, "Samples per pixel")
	flag.IntVar(&cfg.MaxDepth, "max-depth", 16, "Maximum path depth (0 = unbounded)")
	flag.IntVar(&cfg.RRDepth, "rr-depth", 5, "Bounce at which Russian roulette starts")
	flag.IntVar(&cfg.Workers, "workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	flag.StringVar(&cfg.IntegratorType, "integrator", "path", "Integrator: 'path' or 'volpath'")
	flag.StringVar(&cfg.Output, "output", "", "Output PNG path (default: output/<scene>.png)")
	flag.StringVar(&cfg.CPUProfile, "cpuprofile", "", "Write CPU profile to file")
	flag.StringVar(&cfg.Mesh, "mesh", "", "Path to an extra mesh to load (.obj, .ply, .gltf/.glb) and add to the default scene")
	flag.StringVar(&cfg.MeshTexture, "mesh-texture", "", "Path to a WebP texture applied to -mesh as a TexturedDiffuse")
	flag.StringVar(&cfg.EnvMap, "envmap", "", "Path to a PFM environment map replacing the default scene's flat sky")
	flag.BoolVar(&cfg.Help, "help", false, "Show help information")
	flag.Parse()
	return cfg
}

func showHelp() {
	fmt.Println("aspirin: a physically-based Monte Carlo path tracer")
	fmt.Println("Usage: aspirin [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Built-in scenes:")
	fmt.Println("  default - spheres over a ground plane under a constant environment light")
	fmt.Println("  cornell - the canonical Cornell box")
	fmt.Println("  fog     - the default scene with a participating medium replacing the glass sphere")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  aspirin --scene=cornell --spp=256 --workers=8")
	fmt.Println("  aspirin --scene=fog --integrator=volpath")
	fmt.Println("  aspirin --scene=default --mesh=bunny.obj --mesh-texture=bunny.webp")
	fmt.Println("  aspirin --scene=default --envmap=studio.pfm")
}

func lookupScene(name string, opts demoscene.Options) (*scenecfg.Scene, error) {
	switch name {
	case "default":
		return demoscene.Default(opts)
	case "cornell":
		return demoscene.Cornell(opts), nil
	case "fog":
		return demoscene.Fog(opts)
	default:
		return nil, nil
	}
}

func buildIntegrator(cfg config) integrator.Integrator {
	icfg := integrator.Config{MaxDepth: cfg.MaxDepth, RRDepth: cfg.RRDepth}
	switch cfg.IntegratorType {
	case "volpath":
		return integrator.NewVolumetric(icfg)
	default:
		return integrator.NewPath(icfg)
	}
}

func outputPath(cfg config) string {
	if cfg.Output != "" {
		return cfg.Output
	}
	dir := "output"
	if err := os.MkdirAll(dir, 0755); err != nil {
		fmt.Printf("could not create output directory: %v\n", err)
		os.Exit(1)
	}
	base := strings.TrimSuffix(filepath.Base(cfg.Scene), filepath.Ext(cfg.Scene))
	return filepath.Join(dir, fmt.Sprintf("%s.png", base))
}

// pngWriter implements film.Writer by buffering the developed pixels
// into an *image.RGBA for png.Encode.
type pngWriter struct {
	img *image.RGBA
}

func (w *pngWriter) WritePixels(pixels []float32, width, height int) error {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := (y*width + x) * 3
			img.Set(x, y, color.NRGBA{
				R: toByte(pixels[idx+0]),
				G: toByte(pixels[idx+1]),
				B: toByte(pixels[idx+2]),
				A: 255,
			})
		}
	}
	w.img = img
	return nil
}

func toByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

func writePNG(img *image.RGBA, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
