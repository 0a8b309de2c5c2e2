package ply

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"
)

func buildTriangle(t *testing.T, withNormals bool) []byte {
	t.Helper()
	var header strings.Builder
	header.WriteString("ply\n")
	header.WriteString("format binary_little_endian 1.0\n")
	header.WriteString("element vertex 3\n")
	header.WriteString("property float x\n")
	header.WriteString("property float y\n")
	header.WriteString("property float z\n")
	if withNormals {
		header.WriteString("property float nx\n")
		header.WriteString("property float ny\n")
		header.WriteString("property float nz\n")
	}
	header.WriteString("element face 1\n")
	header.WriteString("property list uchar int vertex_indices\n")
	header.WriteString("end_header\n")

	var buf bytes.Buffer
	buf.WriteString(header.String())

	verts := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	for _, v := range verts {
		for _, c := range v {
			binary.Write(&buf, binary.LittleEndian, c)
		}
		if withNormals {
			binary.Write(&buf, binary.LittleEndian, [3]float32{0, 0, 1})
		}
	}

	binary.Write(&buf, binary.LittleEndian, uint8(3))
	binary.Write(&buf, binary.LittleEndian, [3]int32{0, 1, 2})

	return buf.Bytes()
}

func TestLoadTriangleWithoutNormals(t *testing.T) {
	mesh, err := Load(bytes.NewReader(buildTriangle(t, false)))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(mesh.Positions) != 3 {
		t.Fatalf("expected 3 positions, got %d", len(mesh.Positions))
	}
	if mesh.Normals != nil {
		t.Fatalf("expected no normals when the file carries none")
	}
	if len(mesh.Indices) != 3 || mesh.Indices[0] != 0 || mesh.Indices[1] != 1 || mesh.Indices[2] != 2 {
		t.Fatalf("unexpected indices: %v", mesh.Indices)
	}
	if mesh.Positions[1].X != 1 || mesh.Positions[2].Y != 1 {
		t.Fatalf("unexpected vertex positions: %v", mesh.Positions)
	}
}

func TestLoadTriangleWithNormals(t *testing.T) {
	mesh, err := Load(bytes.NewReader(buildTriangle(t, true)))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(mesh.Normals) != 3 {
		t.Fatalf("expected 3 normals, got %d", len(mesh.Normals))
	}
	for _, n := range mesh.Normals {
		if n.Z != 1 {
			t.Fatalf("expected all normals to point +Z, got %v", n)
		}
	}
}

func TestLoadRejectsASCIIFormat(t *testing.T) {
	src := "ply\nformat ascii 1.0\nelement vertex 0\nend_header\n"
	if _, err := Load(strings.NewReader(src)); err == nil {
		t.Fatalf("expected an error for an unsupported ascii format")
	}
}

func TestLoadRejectsMissingMagic(t *testing.T) {
	src := "not_ply\nformat binary_little_endian 1.0\nend_header\n"
	if _, err := Load(strings.NewReader(src)); err == nil {
		t.Fatalf("expected an error for a missing ply magic")
	}
}
