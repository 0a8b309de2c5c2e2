// Package obj implements a minimal Wavefront OBJ loader: positions,
// normals, texture coordinates and triangulated faces, enough to feed
// shape.NewTriangleMesh. No ecosystem library in this codebase's
// dependency surface parses OBJ, so this follows the reference loaders'
// line-oriented scanning idiom directly rather than reaching for one.
package obj

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/asprenderer/aspirin/pkg/core"
)

// Mesh is the parsed buffers a TriangleMesh is built from: Normals and
// UVs are nil when the file carries none, matching
// shape.NewTriangleMesh's optional-attribute convention.
type Mesh struct {
	Positions []core.Vec3
	Normals   []core.Vec3
	UVs       []core.Vec2
	Indices   []int
}

// Load parses an OBJ stream, triangulating any polygonal face with a
// simple fan (v0,v1,v2),(v0,v2,v3),... The normal and UV buffers are
// rebuilt per unique (v,vt,vn) index triple the faces reference, since
// OBJ's three independent index spaces don't match TriangleMesh's
// single shared-per-vertex layout.
func Load(r io.Reader) (*Mesh, error) {
	var positions []core.Vec3
	var normals []core.Vec3
	var uvs []core.Vec2
	type faceVertex struct{ v, vt, vn int }
	var faces [][]faceVertex

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			p, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("obj: line %d: %w", lineNo, err)
			}
			positions = append(positions, p)
		case "vn":
			n, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("obj: line %d: %w", lineNo, err)
			}
			normals = append(normals, n)
		case "vt":
			uv, err := parseVec2(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("obj: line %d: %w", lineNo, err)
			}
			uvs = append(uvs, uv)
		case "f":
			face := make([]faceVertex, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				fv, err := parseFaceVertex(tok, len(positions), len(uvs), len(normals))
				if err != nil {
					return nil, fmt.Errorf("obj: line %d: %w", lineNo, err)
				}
				face = append(face, fv)
			}
			if len(face) < 3 {
				return nil, fmt.Errorf("obj: line %d: face has fewer than 3 vertices", lineNo)
			}
			faces = append(faces, face)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("obj: %w", err)
	}

	mesh := &Mesh{}
	if len(normals) > 0 {
		mesh.Normals = []core.Vec3{}
	}
	if len(uvs) > 0 {
		mesh.UVs = []core.Vec2{}
	}

	remapped := make(map[faceVertex]int)
	emit := func(fv faceVertex) int {
		if idx, ok := remapped[fv]; ok {
			return idx
		}
		idx := len(mesh.Positions)
		mesh.Positions = append(mesh.Positions, positions[fv.v])
		if mesh.Normals != nil {
			if fv.vn >= 0 {
				mesh.Normals = append(mesh.Normals, normals[fv.vn])
			} else {
				mesh.Normals = append(mesh.Normals, core.Vec3{})
			}
		}
		if mesh.UVs != nil {
			if fv.vt >= 0 {
				mesh.UVs = append(mesh.UVs, uvs[fv.vt])
			} else {
				mesh.UVs = append(mesh.UVs, core.Vec2{})
			}
		}
		remapped[fv] = idx
		return idx
	}

	for _, face := range faces {
		i0 := emit(face[0])
		prev := emit(face[1])
		for k := 2; k < len(face); k++ {
			cur := emit(face[k])
			mesh.Indices = append(mesh.Indices, i0, prev, cur)
			prev = cur
		}
	}
	return mesh, nil
}

func parseVec3(fields []string) (core.Vec3, error) {
	if len(fields) < 3 {
		return core.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(fields))
	}
	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return core.Vec3{}, err
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return core.Vec3{}, err
	}
	z, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return core.Vec3{}, err
	}
	return core.Vec3{X: x, Y: y, Z: z}, nil
}

func parseVec2(fields []string) (core.Vec2, error) {
	if len(fields) < 2 {
		return core.Vec2{}, fmt.Errorf("expected 2 components, got %d", len(fields))
	}
	u, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return core.Vec2{}, err
	}
	v, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return core.Vec2{}, err
	}
	return core.Vec2{X: u, Y: v}, nil
}

// parseFaceVertex parses one "v", "v/vt", "v//vn" or "v/vt/vn" token,
// resolving OBJ's 1-based (or negative, relative-to-end) indices into
// 0-based slice indices. A missing vt or vn is reported as -1.
func parseFaceVertex(tok string, nv, nvt, nvn int) (struct{ v, vt, vn int }, error) {
	parts := strings.Split(tok, "/")
	result := struct{ v, vt, vn int }{vt: -1, vn: -1}

	v, err := resolveIndex(parts[0], nv)
	if err != nil {
		return result, err
	}
	result.v = v

	if len(parts) > 1 && parts[1] != "" {
		vt, err := resolveIndex(parts[1], nvt)
		if err != nil {
			return result, err
		}
		result.vt = vt
	}
	if len(parts) > 2 && parts[2] != "" {
		vn, err := resolveIndex(parts[2], nvn)
		if err != nil {
			return result, err
		}
		result.vn = vn
	}
	return result, nil
}

func resolveIndex(s string, count int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q: %w", s, err)
	}
	if n < 0 {
		return count + n, nil
	}
	return n - 1, nil
}
