package core

import "math"

// Mat4 is a row-major affine 4x4 matrix.
type Mat4 [4][4]float64

// Identity4 returns the 4x4 identity matrix.
func Identity4() Mat4 {
	var m Mat4
	for i := 0; i < 4; i++ {
		m[i][i] = 1
	}
	return m
}

func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var s float64
			for k := 0; k < 4; k++ {
				s += m[i][k] * o[k][j]
			}
			r[i][j] = s
		}
	}
	return r
}

// Transform is an affine transform paired with its precomputed inverse, so
// that points, vectors, and normals can all be transformed without
// re-inverting the matrix on every call.
type Transform struct {
	M, MInv Mat4
}

// NewTransform wraps a matrix and its supplied inverse. Callers that do not
// have an inverse handy should use Inverse() to derive one instead.
func NewTransform(m, mInv Mat4) Transform {
	return Transform{M: m, MInv: mInv}
}

// IdentityTransform is the identity affine transform.
func IdentityTransform() Transform {
	id := Identity4()
	return Transform{M: id, MInv: id}
}

// Inverse returns the transform with M and MInv swapped.
func (t Transform) Inverse() Transform {
	return Transform{M: t.MInv, MInv: t.M}
}

// Compose returns the transform equivalent to applying t first, then o.
func (t Transform) Compose(o Transform) Transform {
	return Transform{M: o.M.Mul(t.M), MInv: t.MInv.Mul(o.MInv)}
}

// ApplyPoint transforms a point (homogeneous w=1), performing the
// perspective divide if the transform is projective.
func (t Transform) ApplyPoint(p Vec3) Vec3 {
	m := t.M
	x := m[0][0]*p.X + m[0][1]*p.Y + m[0][2]*p.Z + m[0][3]
	y := m[1][0]*p.X + m[1][1]*p.Y + m[1][2]*p.Z + m[1][3]
	z := m[2][0]*p.X + m[2][1]*p.Y + m[2][2]*p.Z + m[2][3]
	w := m[3][0]*p.X + m[3][1]*p.Y + m[3][2]*p.Z + m[3][3]
	if w == 1 {
		return Vec3{X: x, Y: y, Z: z}
	}
	return Vec3{X: x / w, Y: y / w, Z: z / w}
}

// ApplyVector transforms a direction using the 3x3 upper-left submatrix
// (no translation).
func (t Transform) ApplyVector(v Vec3) Vec3 {
	m := t.M
	return Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// ApplyNormal transforms a surface normal using the inverse-transpose of
// the 3x3 upper-left submatrix, preserving perpendicularity under
// non-uniform scale.
func (t Transform) ApplyNormal(n Vec3) Vec3 {
	mInv := t.MInv
	return Vec3{
		X: mInv[0][0]*n.X + mInv[1][0]*n.Y + mInv[2][0]*n.Z,
		Y: mInv[0][1]*n.X + mInv[1][1]*n.Y + mInv[2][1]*n.Z,
		Z: mInv[0][2]*n.X + mInv[1][2]*n.Y + mInv[2][2]*n.Z,
	}
}

// ApplyRay transforms both the origin and direction of a ray, preserving
// its Mint/Maxt interval.
func (t Transform) ApplyRay(r Ray) Ray {
	out := newRayWithBounds(t.ApplyPoint(r.Origin), t.ApplyVector(r.Direction), r.Mint, r.Maxt)
	return out
}

// Translate builds a translation transform.
func Translate(v Vec3) Transform {
	m := Identity4()
	m[0][3], m[1][3], m[2][3] = v.X, v.Y, v.Z
	mInv := Identity4()
	mInv[0][3], mInv[1][3], mInv[2][3] = -v.X, -v.Y, -v.Z
	return Transform{M: m, MInv: mInv}
}

// Scale builds a non-uniform scale transform.
func Scale(v Vec3) Transform {
	m := Identity4()
	m[0][0], m[1][1], m[2][2] = v.X, v.Y, v.Z
	mInv := Identity4()
	mInv[0][0], mInv[1][1], mInv[2][2] = 1/v.X, 1/v.Y, 1/v.Z
	return Transform{M: m, MInv: mInv}
}

// RotateX builds a rotation of theta radians about the X axis.
func RotateX(theta float64) Transform {
	s, c := math.Sincos(theta)
	m := Identity4()
	m[1][1], m[1][2] = c, -s
	m[2][1], m[2][2] = s, c
	return Transform{M: m, MInv: transpose3(m)}
}

// RotateY builds a rotation of theta radians about the Y axis.
func RotateY(theta float64) Transform {
	s, c := math.Sincos(theta)
	m := Identity4()
	m[0][0], m[0][2] = c, s
	m[2][0], m[2][2] = -s, c
	return Transform{M: m, MInv: transpose3(m)}
}

// RotateZ builds a rotation of theta radians about the Z axis.
func RotateZ(theta float64) Transform {
	s, c := math.Sincos(theta)
	m := Identity4()
	m[0][0], m[0][1] = c, -s
	m[1][0], m[1][1] = s, c
	return Transform{M: m, MInv: transpose3(m)}
}

func transpose3(m Mat4) Mat4 {
	r := Identity4()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[j][i]
		}
	}
	return r
}

// LookAt builds the camera-to-world transform for an eye positioned at
// origin looking toward target with the given up hint, matching the
// <lookat> scene element. Degenerates (up parallel to the view direction)
// are the caller's responsibility to avoid; this mirrors the reference
// renderer treating that case as a fatal configuration error rather than a
// silent fallback.
func LookAt(origin, target, up Vec3) Transform {
	dir := target.Subtract(origin).Normalize()
	right := up.Normalize().Cross(dir).Normalize()
	newUp := dir.Cross(right)

	m := Identity4()
	m[0][0], m[1][0], m[2][0] = right.X, right.Y, right.Z
	m[0][1], m[1][1], m[2][1] = newUp.X, newUp.Y, newUp.Z
	m[0][2], m[1][2], m[2][2] = dir.X, dir.Y, dir.Z
	m[0][3], m[1][3], m[2][3] = origin.X, origin.Y, origin.Z

	return NewTransform(m, rigidInverse(m))
}

// rigidInverse inverts a rotation+translation matrix analytically (the
// upper-left 3x3 is orthonormal, so its inverse is its transpose).
func rigidInverse(m Mat4) Mat4 {
	rt := transpose3(m)
	t := Vec3{X: m[0][3], Y: m[1][3], Z: m[2][3]}
	negRotT := Vec3{
		X: rt[0][0]*t.X + rt[0][1]*t.Y + rt[0][2]*t.Z,
		Y: rt[1][0]*t.X + rt[1][1]*t.Y + rt[1][2]*t.Z,
		Z: rt[2][0]*t.X + rt[2][1]*t.Y + rt[2][2]*t.Z,
	}
	rt[0][3], rt[1][3], rt[2][3] = -negRotT.X, -negRotT.Y, -negRotT.Z
	return rt
}
