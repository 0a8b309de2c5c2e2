package demoscene

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/asprenderer/aspirin/pkg/bsdf"
	"github.com/asprenderer/aspirin/pkg/core"
	"github.com/asprenderer/aspirin/pkg/emitter"
	"github.com/asprenderer/aspirin/pkg/shape"
)

func TestDefaultSceneIsTraceable(t *testing.T) {
	sc, err := Default(Options{Width: 32, Height: 18})
	if err != nil {
		t.Fatalf("Default returned an error: %v", err)
	}
	if sc.Sensor == nil || sc.Accel == nil {
		t.Fatalf("expected a sensor and acceleration structure")
	}
	ray := core.NewRay(core.Vec3{X: 0, Y: 0, Z: 3}, core.Vec3{X: 0, Y: 0, Z: -1})
	si := sc.RayIntersect(ray)
	if !si.IsValid() {
		t.Fatalf("expected the camera ray toward the spheres to hit something")
	}
}

func TestCornellSceneWallsEnclosePoint(t *testing.T) {
	sc := Cornell(Options{Width: 32, Height: 32})
	ray := core.NewRay(core.Vec3{X: 278, Y: 278, Z: -800}, core.Vec3{X: 0, Y: 0, Z: 1})
	si := sc.RayIntersect(ray)
	if !si.IsValid() {
		t.Fatalf("expected the camera ray to hit the back wall or an interior sphere")
	}
}

func TestFogSceneReplacesGlassWithMedium(t *testing.T) {
	sc, err := Fog(Options{Width: 16, Height: 9})
	if err != nil {
		t.Fatalf("Fog returned an error: %v", err)
	}
	found := false
	for _, s := range sc.Shapes {
		if s.InteriorMedium() != nil {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected Fog to attach a medium to one of the spheres")
	}
}

// writeTempFile writes contents to name under t.TempDir() and returns
// its full path.
func writeTempFile(t *testing.T, name string, contents []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, contents, 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func triangleOBJ() []byte {
	return []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")
}

// buildPFM encodes a tiny 1x1 color PFM image, matching internal/envmap's
// own test fixture format.
func buildPFM(px [3]float32) []byte {
	var buf bytes.Buffer
	buf.WriteString("PF\n1 1\n-1.0\n")
	for _, c := range px {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(c))
		buf.Write(b[:])
	}
	return buf.Bytes()
}

func TestDefaultWithMeshLoadsAndPlacesAnExtraShape(t *testing.T) {
	objPath := writeTempFile(t, "tri.obj", triangleOBJ())

	withoutMesh, err := Default(Options{Width: 8, Height: 8})
	if err != nil {
		t.Fatalf("Default returned an error: %v", err)
	}
	withMesh, err := Default(Options{Width: 8, Height: 8, MeshPath: objPath})
	if err != nil {
		t.Fatalf("Default with MeshPath returned an error: %v", err)
	}
	if len(withMesh.Shapes) != len(withoutMesh.Shapes)+1 {
		t.Fatalf("expected exactly one extra shape, got %d vs %d", len(withMesh.Shapes), len(withoutMesh.Shapes))
	}

	var mesh *shape.TriangleMesh
	for _, s := range withMesh.Shapes {
		if tm, ok := s.(*shape.TriangleMesh); ok {
			mesh = tm
		}
	}
	if mesh == nil {
		t.Fatalf("expected the loaded OBJ to produce a TriangleMesh shape")
	}
	if _, ok := mesh.BSDFRef.(*bsdf.Diffuse); !ok {
		t.Fatalf("expected an untextured mesh to fall back to a flat Diffuse, got %T", mesh.BSDFRef)
	}
}

func TestDefaultWithMissingMeshReturnsError(t *testing.T) {
	if _, err := Default(Options{Width: 8, Height: 8, MeshPath: filepath.Join(t.TempDir(), "missing.obj")}); err == nil {
		t.Fatalf("expected an error for a mesh path that does not exist")
	}
}

func TestDefaultWithEnvMapBuildsASpatiallyVaryingEnvironment(t *testing.T) {
	pfmPath := writeTempFile(t, "sky.pfm", buildPFM([3]float32{0.25, 0.5, 0.75}))

	sc, err := Default(Options{Width: 8, Height: 8, EnvMapPath: pfmPath})
	if err != nil {
		t.Fatalf("Default with EnvMapPath returned an error: %v", err)
	}
	env, ok := sc.Environment.(*emitter.Environment)
	if !ok {
		t.Fatalf("expected a bound *emitter.Environment, got %T", sc.Environment)
	}
	if env.Image == nil {
		t.Fatalf("expected the environment to carry the decoded PFM image")
	}
}

func TestDefaultWithInvalidTextureReturnsError(t *testing.T) {
	objPath := writeTempFile(t, "tri.obj", triangleOBJ())
	badTexture := writeTempFile(t, "bad.webp", []byte("not a webp file"))

	if _, err := Default(Options{Width: 8, Height: 8, MeshPath: objPath, MeshTexturePath: badTexture}); err == nil {
		t.Fatalf("expected an error for an undecodable WebP texture")
	}
}
