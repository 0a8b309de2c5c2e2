// Package ply reads binary little-endian Stanford PLY meshes into the
// same Positions/Normals/UVs/Indices buffer shape.NewTriangleMesh
// expects, alongside the pack's OBJ and glTF readers.
package ply

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/asprenderer/aspirin/pkg/core"
)

// Mesh is the parallel-slice buffer shape.NewTriangleMesh consumes.
type Mesh struct {
	Positions []core.Vec3
	Normals   []core.Vec3 // nil if the file carries no vertex normals
	UVs       []core.Vec2 // nil if the file carries no texture coordinates
	Indices   []int
}

type property struct {
	name     string
	dataType string
	isList   bool
	listType string
}

type header struct {
	format      string
	vertexCount int
	faceCount   int
	vertexProps []property
	faceProps   []property

	hasNormals bool
	hasUV      bool
	x, y, z    int
	nx, ny, nz int
	u, v       int
}

// Load parses a binary little-endian PLY stream with triangular faces.
func Load(r io.Reader) (*Mesh, error) {
	br := bufio.NewReaderSize(r, 1<<20)

	h, err := parseHeader(br)
	if err != nil {
		return nil, fmt.Errorf("ply: parsing header: %w", err)
	}
	if h.format != "binary_little_endian" {
		return nil, fmt.Errorf("ply: unsupported format %q (only binary_little_endian is supported)", h.format)
	}

	positions, normals, uvs, err := readVertices(br, h)
	if err != nil {
		return nil, fmt.Errorf("ply: reading vertices: %w", err)
	}
	indices, err := readFaces(br, h)
	if err != nil {
		return nil, fmt.Errorf("ply: reading faces: %w", err)
	}

	return &Mesh{Positions: positions, Normals: normals, UVs: uvs, Indices: indices}, nil
}

func parseHeader(br *bufio.Reader) (*header, error) {
	h := &header{x: -1, y: -1, z: -1, nx: -1, ny: -1, nz: -1, u: -1, v: -1}

	line, err := readLine(br)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(line) != "ply" {
		return nil, fmt.Errorf("missing ply magic")
	}

	var currentElement string
	for {
		line, err = readLine(br)
		if err != nil {
			return nil, err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "format":
			if len(fields) < 2 {
				return nil, fmt.Errorf("malformed format line")
			}
			h.format = fields[1]
		case "comment":
			// ignore
		case "element":
			if len(fields) < 3 {
				return nil, fmt.Errorf("malformed element line")
			}
			count, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, fmt.Errorf("invalid element count: %w", err)
			}
			currentElement = fields[1]
			switch currentElement {
			case "vertex":
				h.vertexCount = count
			case "face":
				h.faceCount = count
			}
		case "property":
			prop, err := parseProperty(fields[1:])
			if err != nil {
				return nil, err
			}
			switch currentElement {
			case "vertex":
				idx := len(h.vertexProps)
				h.vertexProps = append(h.vertexProps, prop)
				switch prop.name {
				case "x":
					h.x = idx
				case "y":
					h.y = idx
				case "z":
					h.z = idx
				case "nx":
					h.hasNormals, h.nx = true, idx
				case "ny":
					h.hasNormals, h.ny = true, idx
				case "nz":
					h.hasNormals, h.nz = true, idx
				case "u", "s":
					h.hasUV, h.u = true, idx
				case "v", "t":
					h.hasUV, h.v = true, idx
				}
			case "face":
				h.faceProps = append(h.faceProps, prop)
			}
		case "end_header":
			return h, nil
		}
	}
}

func parseProperty(fields []string) (property, error) {
	if len(fields) < 2 {
		return property{}, fmt.Errorf("malformed property line")
	}
	if fields[0] == "list" {
		if len(fields) < 4 {
			return property{}, fmt.Errorf("malformed list property line")
		}
		return property{isList: true, listType: fields[1], dataType: fields[2], name: fields[3]}, nil
	}
	return property{dataType: fields[0], name: fields[1]}, nil
}

func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func typeSize(dataType string) int {
	switch dataType {
	case "float", "float32", "int", "int32", "uint", "uint32":
		return 4
	case "double", "float64":
		return 8
	case "short", "int16", "ushort", "uint16":
		return 2
	case "char", "int8", "uchar", "uint8":
		return 1
	default:
		return 4
	}
}

func readScalar(r io.Reader, dataType string) (float64, error) {
	switch dataType {
	case "float", "float32":
		var v float32
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return 0, err
		}
		return float64(v), nil
	case "double", "float64":
		var v float64
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return 0, err
		}
		return v, nil
	case "int", "int32":
		var v int32
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return 0, err
		}
		return float64(v), nil
	case "uint", "uint32":
		var v uint32
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return 0, err
		}
		return float64(v), nil
	case "short", "int16":
		var v int16
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return 0, err
		}
		return float64(v), nil
	case "ushort", "uint16":
		var v uint16
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return 0, err
		}
		return float64(v), nil
	case "char", "int8":
		var v int8
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return 0, err
		}
		return float64(v), nil
	case "uchar", "uint8":
		var v uint8
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return 0, err
		}
		return float64(v), nil
	default:
		return 0, fmt.Errorf("unsupported scalar type %q", dataType)
	}
}

func readVertices(r io.Reader, h *header) ([]core.Vec3, []core.Vec3, []core.Vec2, error) {
	positions := make([]core.Vec3, 0, h.vertexCount)
	var normals []core.Vec3
	var uvs []core.Vec2
	if h.hasNormals {
		normals = make([]core.Vec3, 0, h.vertexCount)
	}
	if h.hasUV {
		uvs = make([]core.Vec2, 0, h.vertexCount)
	}

	for i := 0; i < h.vertexCount; i++ {
		var x, y, z, nx, ny, nz, u, v float64
		for idx, prop := range h.vertexProps {
			if prop.isList {
				return nil, nil, nil, fmt.Errorf("list properties on vertex elements are not supported")
			}
			val, err := readScalar(r, prop.dataType)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("vertex %d: %w", i, err)
			}
			switch idx {
			case h.x:
				x = val
			case h.y:
				y = val
			case h.z:
				z = val
			}
			if h.hasNormals {
				switch idx {
				case h.nx:
					nx = val
				case h.ny:
					ny = val
				case h.nz:
					nz = val
				}
			}
			if h.hasUV {
				switch idx {
				case h.u:
					u = val
				case h.v:
					v = val
				}
			}
		}
		positions = append(positions, core.Vec3{X: x, Y: y, Z: z})
		if h.hasNormals {
			normals = append(normals, core.Vec3{X: nx, Y: ny, Z: nz})
		}
		if h.hasUV {
			uvs = append(uvs, core.Vec2{X: u, Y: v})
		}
	}
	return positions, normals, uvs, nil
}

func readFaces(r io.Reader, h *header) ([]int, error) {
	indices := make([]int, 0, h.faceCount*3)

	for i := 0; i < h.faceCount; i++ {
		for _, prop := range h.faceProps {
			if !prop.isList || prop.name != "vertex_indices" && prop.name != "vertex_index" {
				if err := skipProperty(r, prop); err != nil {
					return nil, fmt.Errorf("face %d: %w", i, err)
				}
				continue
			}

			count, err := readScalar(r, prop.listType)
			if err != nil {
				return nil, fmt.Errorf("face %d: reading vertex count: %w", i, err)
			}
			n := int(count)
			if n < 3 {
				return nil, fmt.Errorf("face %d: degenerate face with %d vertices", i, n)
			}

			faceIdx := make([]int, n)
			for j := 0; j < n; j++ {
				v, err := readScalar(r, prop.dataType)
				if err != nil {
					return nil, fmt.Errorf("face %d: reading index %d: %w", i, j, err)
				}
				faceIdx[j] = int(v)
			}
			for j := 1; j < n-1; j++ {
				indices = append(indices, faceIdx[0], faceIdx[j], faceIdx[j+1])
			}
		}
	}
	return indices, nil
}

func skipProperty(r io.Reader, prop property) error {
	if !prop.isList {
		_, err := readScalar(r, prop.dataType)
		return err
	}
	count, err := readScalar(r, prop.listType)
	if err != nil {
		return err
	}
	buf := make([]byte, typeSize(prop.dataType)*int(count))
	_, err = io.ReadFull(r, buf)
	return err
}
