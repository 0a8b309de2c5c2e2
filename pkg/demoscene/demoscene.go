// Package demoscene builds a handful of scenecfg.Scene values directly in
// Go, standing in for the external scene-description loader (XML parsing,
// the plugin registry and dynamic instance construction) that this module
// treats as an out-of-scope collaborator: only the resulting Scene matters
// to the renderer, however it was assembled.
package demoscene

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/asprenderer/aspirin/internal/envmap"
	"github.com/asprenderer/aspirin/internal/gltfmesh"
	"github.com/asprenderer/aspirin/internal/obj"
	"github.com/asprenderer/aspirin/internal/ply"
	"github.com/asprenderer/aspirin/pkg/accel"
	"github.com/asprenderer/aspirin/pkg/bsdf"
	"github.com/asprenderer/aspirin/pkg/core"
	"github.com/asprenderer/aspirin/pkg/emitter"
	"github.com/asprenderer/aspirin/pkg/interaction"
	"github.com/asprenderer/aspirin/pkg/medium"
	"github.com/asprenderer/aspirin/pkg/scenecfg"
	"github.com/asprenderer/aspirin/pkg/sensor"
	"github.com/asprenderer/aspirin/pkg/shape"
	"github.com/asprenderer/aspirin/pkg/spectrum"
	"github.com/asprenderer/aspirin/pkg/texture"
)

// Options carries the camera resolution a demo scene is built for, plus
// optional external asset paths: when set, these route a scene through
// the mesh/texture/environment-map loaders instead of built-in
// geometry and a flat sky. Every Build func returns a Scene sized for
// Width x Height.
type Options struct {
	Width, Height int

	// MeshPath, if set, loads an extra shape via internal/obj,
	// internal/ply or internal/gltfmesh (dispatched on file
	// extension) and adds it to the scene alongside the built-in
	// geometry.
	MeshPath string
	// MeshTexturePath, if set alongside MeshPath, decodes a WebP
	// bitmap via pkg/texture.LoadWebP and attaches it to the loaded
	// mesh as a bsdf.TexturedDiffuse instead of a flat Diffuse.
	MeshTexturePath string
	// EnvMapPath, if set, decodes a PFM image via internal/envmap and
	// uses it as a spatially-varying environment light instead of the
	// scene's default flat-color sky.
	EnvMapPath string
}

func (o Options) dims() (int, int) {
	if o.Width <= 0 {
		o.Width = 400
	}
	if o.Height <= 0 {
		o.Height = int(float64(o.Width) * 9.0 / 16.0)
	}
	return o.Width, o.Height
}

// newQuad builds a one-sided rectangular mesh of two triangles spanning
// corner, corner+u, corner+u+v, corner+v, with geometric normal u x v.
func newQuad(corner, u, v core.Vec3) *shape.TriangleMesh {
	positions := []core.Vec3{corner, corner.Add(u), corner.Add(u).Add(v), corner.Add(v)}
	indices := []int{0, 1, 2, 0, 2, 3}
	return shape.NewTriangleMesh(positions, indices, nil, nil)
}

func collect(shapes ...shape.Primitive) ([]interaction.Shape, []shape.Primitive) {
	ishapes := make([]interaction.Shape, len(shapes))
	for i, s := range shapes {
		ishapes[i] = s
	}
	return ishapes, shapes
}

func unionBbox(prims []shape.Primitive) core.AABB {
	bbox := prims[0].Bbox()
	for _, p := range prims[1:] {
		bbox = bbox.Union(p.Bbox())
	}
	return bbox
}

// readMeshBuffers dispatches path's extension to internal/obj,
// internal/ply or internal/gltfmesh and returns the shared
// Positions/Normals/UVs/Indices buffer layout all three loaders produce,
// ready for shape.NewTriangleMesh.
func readMeshBuffers(path string) (positions, normals []core.Vec3, uvs []core.Vec2, indices []int, err error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		f, openErr := os.Open(path)
		if openErr != nil {
			return nil, nil, nil, nil, fmt.Errorf("demoscene: opening %s: %w", path, openErr)
		}
		defer f.Close()
		m, loadErr := obj.Load(f)
		if loadErr != nil {
			return nil, nil, nil, nil, loadErr
		}
		return m.Positions, m.Normals, m.UVs, m.Indices, nil
	case ".ply":
		f, openErr := os.Open(path)
		if openErr != nil {
			return nil, nil, nil, nil, fmt.Errorf("demoscene: opening %s: %w", path, openErr)
		}
		defer f.Close()
		m, loadErr := ply.Load(f)
		if loadErr != nil {
			return nil, nil, nil, nil, loadErr
		}
		return m.Positions, m.Normals, m.UVs, m.Indices, nil
	case ".gltf", ".glb":
		m, loadErr := gltfmesh.Load(path, 0, 0)
		if loadErr != nil {
			return nil, nil, nil, nil, loadErr
		}
		return m.Positions, m.Normals, m.UVs, m.Indices, nil
	default:
		return nil, nil, nil, nil, fmt.Errorf("demoscene: unrecognised mesh extension %q", ext)
	}
}

// loadMeshShape loads path through readMeshBuffers and translates the
// resulting positions by offset before building the TriangleMesh, so a
// loaded asset can be placed next to the scene's built-in geometry
// without editing the source file.
func loadMeshShape(path string, offset core.Vec3) (*shape.TriangleMesh, error) {
	positions, normals, uvs, indices, err := readMeshBuffers(path)
	if err != nil {
		return nil, fmt.Errorf("demoscene: loading mesh %s: %w", path, err)
	}
	if offset != (core.Vec3{}) {
		translated := make([]core.Vec3, len(positions))
		for i, p := range positions {
			translated[i] = p.Add(offset)
		}
		positions = translated
	}
	return shape.NewTriangleMesh(positions, indices, normals, uvs), nil
}

// loadTexturedBitmap decodes path as WebP and wraps the result in a
// TexturedDiffuse, the spatially-varying counterpart to Diffuse's flat
// reflectance.
func loadTexturedBitmap(path string) (*bsdf.TexturedDiffuse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("demoscene: opening %s: %w", path, err)
	}
	defer f.Close()
	bmp, err := texture.LoadWebP(f)
	if err != nil {
		return nil, fmt.Errorf("demoscene: loading texture %s: %w", path, err)
	}
	return bsdf.NewTexturedDiffuse(bmp), nil
}

// loadEnvironmentMap decodes path as a PFM image and wraps it in a
// spatially-varying Environment light.
func loadEnvironmentMap(path string) (*emitter.Environment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("demoscene: opening %s: %w", path, err)
	}
	defer f.Close()
	img, err := envmap.Load(f)
	if err != nil {
		return nil, fmt.Errorf("demoscene: loading environment map %s: %w", path, err)
	}
	return emitter.NewEnvironmentMap(img), nil
}

// Default builds a small sphere-and-ground scene under a constant
// environment light: one diffuse sphere, one glass sphere, one metallic
// sphere, a large diffuse ground plane and a spherical area light. When
// Options names an external mesh, texture or environment map, Default
// loads and wires those in alongside the built-in geometry.
func Default(opts Options) (*scenecfg.Scene, error) {
	width, height := opts.dims()

	light := shape.NewSphere(core.Vec3{X: 3, Y: 5, Z: 1}, 1)
	lightEmitter := emitter.NewArea(light, spectrum.Gray(12))
	light.EmitterRef = lightEmitter

	ground := shape.NewSphere(core.Vec3{X: 0, Y: -1000.5, Z: 0}, 1000)
	ground.BSDFRef = bsdf.NewDiffuse(spectrum.New(0.5, 0.5, 0.5))

	diffuse := shape.NewSphere(core.Vec3{X: -1, Y: 0, Z: 0}, 0.5)
	diffuse.BSDFRef = bsdf.NewDiffuse(spectrum.New(0.65, 0.25, 0.2))

	glass := shape.NewSphere(core.Vec3{X: 0, Y: 0, Z: 0}, 0.5)
	glass.BSDFRef = bsdf.NewSmoothDielectric(1.5, 1.0)

	metal := shape.NewSphere(core.Vec3{X: 1, Y: 0, Z: 0}, 0.5)
	metal.BSDFRef = bsdf.NewRoughConductor(bsdf.MicrofacetDistribution{Type: bsdf.GGX, Alpha: 0.02}, spectrum.New(0.2, 0.2, 0.2), spectrum.New(3, 3, 3), spectrum.White)

	prims := []shape.Primitive{light, ground, diffuse, glass, metal}

	if opts.MeshPath != "" {
		mesh, err := loadMeshShape(opts.MeshPath, core.Vec3{X: 2.2, Y: -0.5, Z: 0})
		if err != nil {
			return nil, err
		}
		if opts.MeshTexturePath != "" {
			tex, err := loadTexturedBitmap(opts.MeshTexturePath)
			if err != nil {
				return nil, err
			}
			mesh.BSDFRef = tex
		} else {
			mesh.BSDFRef = bsdf.NewDiffuse(spectrum.New(0.7, 0.7, 0.7))
		}
		prims = append(prims, mesh)
	}

	ishapes, prims := collect(prims...)
	bvh := accel.NewBVH(prims)
	bbox := unionBbox(prims)

	var env *emitter.Environment
	if opts.EnvMapPath != "" {
		var err error
		env, err = loadEnvironmentMap(opts.EnvMapPath)
		if err != nil {
			return nil, err
		}
	} else {
		env = emitter.NewEnvironment(spectrum.New(0.5, 0.7, 1.0))
	}
	env.BindScene(bbox)

	cam := sensor.NewPerspective(sensor.PerspectiveConfig{
		Origin: core.Vec3{X: 0, Y: 0.75, Z: 3}, Target: core.Vec3{X: 0, Y: 0, Z: 0}, Up: core.Vec3{X: 0, Y: 1, Z: 0},
		FovY: 40, Width: width, Height: height,
	})

	emitters := append([]interaction.Emitter{lightEmitter}, env)
	return scenecfg.New(ishapes, emitters, env, cam, bvh, bbox), nil
}

// Cornell builds the canonical Cornell box: five diffuse walls, a
// ceiling area light, and a metal and a glass sphere resting on the
// floor, matching the reference renderer's 555-unit box proportions.
func Cornell(opts Options) *scenecfg.Scene {
	width, height := opts.dims()
	const boxSize = 555.0

	white := bsdf.NewDiffuse(spectrum.New(0.73, 0.73, 0.73))
	red := bsdf.NewDiffuse(spectrum.New(0.65, 0.05, 0.05))
	green := bsdf.NewDiffuse(spectrum.New(0.12, 0.45, 0.15))

	floor := newQuad(core.Vec3{}, core.Vec3{X: boxSize}, core.Vec3{Z: boxSize})
	floor.BSDFRef = white

	ceiling := newQuad(core.Vec3{Y: boxSize}, core.Vec3{X: boxSize}, core.Vec3{Z: boxSize})
	ceiling.BSDFRef = white

	backWall := newQuad(core.Vec3{Z: boxSize}, core.Vec3{X: boxSize}, core.Vec3{Y: boxSize})
	backWall.BSDFRef = white

	leftWall := newQuad(core.Vec3{}, core.Vec3{Z: boxSize}, core.Vec3{Y: boxSize})
	leftWall.BSDFRef = red

	rightWall := newQuad(core.Vec3{X: boxSize}, core.Vec3{Y: boxSize}, core.Vec3{Z: boxSize})
	rightWall.BSDFRef = green

	const lightSize = 130.0
	const lightOffset = (boxSize - lightSize) / 2.0
	lightQuad := newQuad(
		core.Vec3{X: lightOffset, Y: boxSize - 1, Z: lightOffset},
		core.Vec3{X: lightSize},
		core.Vec3{Z: lightSize},
	)
	lightEmitter := emitter.NewArea(lightQuad, spectrum.Gray(15))
	lightQuad.EmitterRef = lightEmitter

	leftSphere := shape.NewSphere(core.Vec3{X: 185, Y: 82.5, Z: 169}, 82.5)
	leftSphere.BSDFRef = bsdf.NewRoughConductor(bsdf.MicrofacetDistribution{Type: bsdf.GGX, Alpha: 0.02}, spectrum.New(0.8, 0.8, 0.9), spectrum.New(3, 3, 3), spectrum.White)

	rightSphere := shape.NewSphere(core.Vec3{X: 370, Y: 90, Z: 351}, 90)
	rightSphere.BSDFRef = bsdf.NewSmoothDielectric(1.5, 1.0)

	ishapes, prims := collect(floor, ceiling, backWall, leftWall, rightWall, lightQuad, leftSphere, rightSphere)
	bvh := accel.NewBVH(prims)

	bbox := core.NewAABB(core.Vec3{}, core.Vec3{X: boxSize, Y: boxSize, Z: boxSize})

	cam := sensor.NewPerspective(sensor.PerspectiveConfig{
		Origin: core.Vec3{X: 278, Y: 278, Z: -800}, Target: core.Vec3{X: 278, Y: 278, Z: 0}, Up: core.Vec3{X: 0, Y: 1, Z: 0},
		FovY: 40, Width: width, Height: height,
	})

	return scenecfg.New(ishapes, []interaction.Emitter{lightEmitter}, nil, cam, bvh, bbox)
}

// Fog builds the Default scene's geometry with a homogeneous
// participating medium filling the glass sphere in place of its
// dielectric shell, exercising the volumetric integrator's free-flight
// sampling and medium-transmittance NEE end to end.
func Fog(opts Options) (*scenecfg.Scene, error) {
	sc, err := Default(opts)
	if err != nil {
		return nil, err
	}
	for _, s := range sc.Shapes {
		sph, ok := s.(*shape.Sphere)
		if !ok || sph.BSDFRef == nil {
			continue
		}
		if _, isGlass := sph.BSDFRef.(*bsdf.SmoothDielectric); isGlass {
			sph.BSDFRef = nil
			sph.InteriorRef = medium.NewHomogeneous(spectrum.Gray(2), spectrum.Gray(0.1), 1)
		}
	}
	return sc, nil
}
