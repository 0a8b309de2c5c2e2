// Package gltfmesh loads triangle meshes out of glTF documents via
// github.com/qmuntal/gltf, a richer mesh-input path alongside the
// hand-rolled OBJ loader for asset pipelines that already export glTF.
package gltfmesh

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/asprenderer/aspirin/pkg/core"
)

// Mesh mirrors internal/obj.Mesh's buffer layout so both loaders feed
// shape.NewTriangleMesh identically.
type Mesh struct {
	Positions []core.Vec3
	Normals   []core.Vec3
	UVs       []core.Vec2
	Indices   []int
}

// Load reads meshIndex/primitiveIndex out of the glTF document at path,
// triangle-indexed positions, normals (if present) and the first UV set
// (if present).
func Load(path string, meshIndex, primitiveIndex int) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltfmesh: opening %s: %w", path, err)
	}
	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return nil, fmt.Errorf("gltfmesh: mesh index %d out of range", meshIndex)
	}
	mesh := doc.Meshes[meshIndex]
	if primitiveIndex < 0 || primitiveIndex >= len(mesh.Primitives) {
		return nil, fmt.Errorf("gltfmesh: primitive index %d out of range", primitiveIndex)
	}
	prim := mesh.Primitives[primitiveIndex]

	posAccessorIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("gltfmesh: primitive has no POSITION attribute")
	}
	rawPos, err := modeler.ReadPosition(doc, doc.Accessors[posAccessorIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("gltfmesh: reading positions: %w", err)
	}
	positions := make([]core.Vec3, len(rawPos))
	for i, p := range rawPos {
		positions[i] = core.Vec3{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
	}

	var normals []core.Vec3
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		rawNormals, err := modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, fmt.Errorf("gltfmesh: reading normals: %w", err)
		}
		normals = make([]core.Vec3, len(rawNormals))
		for i, n := range rawNormals {
			normals[i] = core.Vec3{X: float64(n[0]), Y: float64(n[1]), Z: float64(n[2])}
		}
	}

	var uvs []core.Vec2
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		rawUVs, err := modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, fmt.Errorf("gltfmesh: reading texcoords: %w", err)
		}
		uvs = make([]core.Vec2, len(rawUVs))
		for i, uv := range rawUVs {
			uvs[i] = core.Vec2{X: float64(uv[0]), Y: float64(uv[1])}
		}
	}

	var indices []int
	if prim.Indices != nil {
		rawIdx, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("gltfmesh: reading indices: %w", err)
		}
		indices = make([]int, len(rawIdx))
		for i, v := range rawIdx {
			indices[i] = int(v)
		}
	} else {
		indices = make([]int, len(positions))
		for i := range indices {
			indices[i] = i
		}
	}

	return &Mesh{Positions: positions, Normals: normals, UVs: uvs, Indices: indices}, nil
}
