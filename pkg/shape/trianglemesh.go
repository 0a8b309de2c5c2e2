package shape

import (
	"math"

	"github.com/asprenderer/aspirin/pkg/core"
	"github.com/asprenderer/aspirin/pkg/interaction"
)

const triangleEpsilon = 1e-8

// TriangleMesh is an indexed triangle mesh: one traceable primitive per
// triangle, sharing a single BSDF/Emitter/Medium attachment. Position,
// normal and UV buffers are parallel per-vertex slices rather than a
// single packed stride buffer, the layout every Go mesh loader in this
// codebase's ecosystem (gltf accessors included) already hands back.
type TriangleMesh struct {
	Attachment
	Positions []core.Vec3
	Normals   []core.Vec3 // per-vertex; nil if the mesh carries no normals
	UVs       []core.Vec2 // per-vertex; nil if the mesh carries no UVs
	Indices   []int       // stride 3, one triple per triangle

	bbox      core.AABB
	areaDist  *Distribution1D
	totalArea float64
}

func NewTriangleMesh(positions []core.Vec3, indices []int, normals []core.Vec3, uvs []core.Vec2) *TriangleMesh {
	if len(indices)%3 != 0 {
		panic("shape: triangle mesh indices must be a multiple of 3")
	}
	tm := &TriangleMesh{Positions: positions, Normals: normals, UVs: uvs, Indices: indices}
	tm.computeBounds()
	tm.buildAreaDistribution()
	return tm
}

func (tm *TriangleMesh) triangleCount() int { return len(tm.Indices) / 3 }

func (tm *TriangleMesh) vertexIndices(tri int) (i0, i1, i2 int) {
	return tm.Indices[tri*3], tm.Indices[tri*3+1], tm.Indices[tri*3+2]
}

func (tm *TriangleMesh) vertices(tri int) (v0, v1, v2 core.Vec3) {
	i0, i1, i2 := tm.vertexIndices(tri)
	return tm.Positions[i0], tm.Positions[i1], tm.Positions[i2]
}

func triangleArea(v0, v1, v2 core.Vec3) float64 {
	return 0.5 * v1.Subtract(v0).Cross(v2.Subtract(v0)).Length()
}

func (tm *TriangleMesh) computeBounds() {
	if len(tm.Positions) == 0 {
		return
	}
	bbox := core.NewAABBFromPoints(tm.Positions...)
	tm.bbox = bbox
}

func (tm *TriangleMesh) buildAreaDistribution() {
	n := tm.triangleCount()
	weights := make([]float64, n)
	for i := 0; i < n; i++ {
		v0, v1, v2 := tm.vertices(i)
		weights[i] = triangleArea(v0, v1, v2)
	}
	tm.areaDist = NewDistribution1D(weights)
	tm.totalArea = tm.areaDist.Total()
}

func (tm *TriangleMesh) PrimitiveCount() int { return tm.triangleCount() }

func (tm *TriangleMesh) Bbox() core.AABB { return tm.bbox }

func (tm *TriangleMesh) PrimitiveBbox(i int) core.AABB {
	v0, v1, v2 := tm.vertices(i)
	return core.NewAABBFromPoints(v0, v1, v2)
}

func (tm *TriangleMesh) SurfaceArea() float64 { return tm.totalArea }

// IntersectPrimitive is the Moeller-Trumbore ray-triangle test; u, v are
// the barycentric coordinates of vertices 1 and 2 (vertex 0's weight is
// 1-u-v).
func (tm *TriangleMesh) IntersectPrimitive(ray core.Ray, i int) (t, u, v float64, ok bool) {
	v0, v1, v2 := tm.vertices(i)
	edge1 := v1.Subtract(v0)
	edge2 := v2.Subtract(v0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -triangleEpsilon && a < triangleEpsilon {
		return 0, 0, 0, false
	}
	f := 1 / a
	s := ray.Origin.Subtract(v0)
	u = f * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}
	q := s.Cross(edge1)
	v = f * ray.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}
	t = f * edge2.Dot(q)
	if t < ray.Mint || t > ray.Maxt {
		return 0, 0, 0, false
	}
	return t, u, v, true
}

// solveUVLinearSystem solves the 2x2 system mapping (du,dv) to a
// per-vertex quantity's difference vectors, used for both dp/du,dp/dv
// and dn/du,dn/dv. Falls back to ok=false on a degenerate UV triangle.
func solveUVLinearSystem(duv1, duv2 core.Vec2, d1, d2 core.Vec3) (a, b core.Vec3, ok bool) {
	det := duv1.X*duv2.Y - duv1.Y*duv2.X
	if math.Abs(det) < 1e-12 {
		return core.Vec3{}, core.Vec3{}, false
	}
	invDet := 1 / det
	a = d1.Multiply(duv2.Y).Subtract(d2.Multiply(duv1.Y)).Multiply(invDet)
	b = d2.Multiply(duv1.X).Subtract(d1.Multiply(duv2.X)).Multiply(invDet)
	return a, b, true
}

func (tm *TriangleMesh) ComputeSurfaceInteraction(ray core.Ray, pi interaction.PreliminaryIntersection) interaction.SurfaceInteraction {
	tri := pi.PrimIndex
	i0, i1, i2 := tm.vertexIndices(tri)
	v0, v1, v2 := tm.Positions[i0], tm.Positions[i1], tm.Positions[i2]

	u, v := pi.U, pi.V
	w := 1 - u - v
	p := v0.Multiply(w).Add(v1.Multiply(u)).Add(v2.Multiply(v))

	edge1 := v1.Subtract(v0)
	edge2 := v2.Subtract(v0)
	ng := edge1.Cross(edge2).Normalize()

	var uv0, uv1, uv2 core.Vec2
	if tm.UVs != nil {
		uv0, uv1, uv2 = tm.UVs[i0], tm.UVs[i1], tm.UVs[i2]
	} else {
		uv0, uv1, uv2 = core.Vec2{X: 0, Y: 0}, core.Vec2{X: 1, Y: 0}, core.Vec2{X: 1, Y: 1}
	}
	uv := uv0.Multiply(w).Add(uv1.Multiply(u)).Add(uv2.Multiply(v))

	dpdu, dpdv, uvOK := solveUVLinearSystem(uv1.Subtract(uv0), uv2.Subtract(uv0), edge1, edge2)
	if !uvOK {
		frame := core.NewFrame(ng)
		dpdu, dpdv = frame.S, frame.T
	}

	nShading := ng
	var dndu, dndv core.Vec3
	if tm.Normals != nil {
		n0, n1, n2 := tm.Normals[i0], tm.Normals[i1], tm.Normals[i2]
		nShading = n0.Multiply(w).Add(n1.Multiply(u)).Add(n2.Multiply(v)).Normalize()
		if nShading.Dot(ng) < 0 {
			ng = ng.Negate()
		}
		if dn0, dn1, ok := solveUVLinearSystem(uv1.Subtract(uv0), uv2.Subtract(uv0), n1.Subtract(n0), n2.Subtract(n0)); ok {
			dndu, dndv = dn0, dn1
		}
	}

	frame := core.NewFrame(nShading)
	return interaction.SurfaceInteraction{
		P: p, Ng: ng, ShFrame: frame, UV: uv,
		Dpdu: dpdu, Dpdv: dpdv, Dndu: dndu, Dndv: dndv,
		Wi: frame.ToLocal(ray.Direction.Negate()),
		T:  pi.T, PrimIndex: tri, Shape: tm,
	}
}

func (tm *TriangleMesh) SamplePosition(u core.Vec2) interaction.PositionSample {
	tri, triPdf, ur := tm.areaDist.SampleDiscrete(u.X)
	if triPdf <= 0 {
		return interaction.PositionSample{}
	}
	v0, v1, v2 := tm.vertices(tri)

	su := math.Sqrt(ur)
	b0 := 1 - su
	b1 := u.Y * su
	p := v0.Multiply(b0).Add(v1.Multiply(b1)).Add(v2.Multiply(1 - b0 - b1))

	n := v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
	area := triangleArea(v0, v1, v2)
	if area <= 0 {
		return interaction.PositionSample{}
	}
	return interaction.PositionSample{P: p, N: n, Pdf: triPdf / area}
}

func (tm *TriangleMesh) PdfPosition(ps interaction.PositionSample) float64 {
	if tm.totalArea <= 0 {
		return 0
	}
	return 1 / tm.totalArea
}

func (tm *TriangleMesh) SampleDirect(ref interaction.SurfaceInteraction, u core.Vec2) interaction.DirectIllumSample {
	return sampleDirectFromPosition(tm, ref, u)
}

func (tm *TriangleMesh) PdfDirect(ds interaction.DirectIllumSample) float64 {
	if tm.totalArea <= 0 {
		return 0
	}
	return pdfDirectFromPosition(1/tm.totalArea, ds)
}
