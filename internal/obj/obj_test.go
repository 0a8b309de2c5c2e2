package obj

import (
	"strings"
	"testing"
)

func TestLoadTriangle(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	mesh, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load returned an error: %v", err)
	}
	if len(mesh.Positions) != 3 {
		t.Fatalf("expected 3 positions, got %d", len(mesh.Positions))
	}
	if len(mesh.Indices) != 3 {
		t.Fatalf("expected 3 indices, got %d", len(mesh.Indices))
	}
	if mesh.Normals != nil || mesh.UVs != nil {
		t.Fatalf("expected no normals/uvs for a file without vn/vt lines")
	}
}

func TestLoadQuadTriangulatesAsFan(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3 4\n"
	mesh, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load returned an error: %v", err)
	}
	if len(mesh.Indices) != 6 {
		t.Fatalf("expected a quad to triangulate into 2 triangles (6 indices), got %d", len(mesh.Indices))
	}
}

func TestLoadWithNormalsAndUVs(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\n" +
		"vt 0 0\nvt 1 0\nvt 0 1\n" +
		"vn 0 0 1\n" +
		"f 1/1/1 2/2/1 3/3/1\n"
	mesh, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load returned an error: %v", err)
	}
	if len(mesh.Normals) != 3 || len(mesh.UVs) != 3 {
		t.Fatalf("expected per-vertex normals and uvs, got %d normals, %d uvs", len(mesh.Normals), len(mesh.UVs))
	}
}

func TestLoadRejectsDegenerateFace(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nf 1 2\n"
	if _, err := Load(strings.NewReader(src)); err == nil {
		t.Fatalf("expected an error for a face with fewer than 3 vertices")
	}
}
