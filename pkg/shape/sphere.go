package shape

import (
	"math"

	"github.com/asprenderer/aspirin/pkg/core"
	"github.com/asprenderer/aspirin/pkg/interaction"
)

// Sphere is an analytic sphere primitive: a single traceable primitive
// (PrimitiveCount always 1) solved with the standard quadratic
// ray-sphere intersection.
type Sphere struct {
	Attachment
	Center core.Vec3
	Radius float64
}

func NewSphere(center core.Vec3, radius float64) *Sphere {
	return &Sphere{Center: center, Radius: radius}
}

func (s *Sphere) PrimitiveCount() int { return 1 }

func (s *Sphere) Bbox() core.AABB {
	r := core.Vec3{X: s.Radius, Y: s.Radius, Z: s.Radius}
	return core.NewAABB(s.Center.Subtract(r), s.Center.Add(r))
}

func (s *Sphere) PrimitiveBbox(i int) core.AABB { return s.Bbox() }

func (s *Sphere) SurfaceArea() float64 { return 4 * core.Pi * s.Radius * s.Radius }

func (s *Sphere) IntersectPrimitive(ray core.Ray, i int) (t, u, v float64, ok bool) {
	oc := ray.Origin.Subtract(s.Center)
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return 0, 0, 0, false
	}
	sqrtD := math.Sqrt(discriminant)

	root := (-halfB - sqrtD) / a
	if root < ray.Mint || root > ray.Maxt {
		root = (-halfB + sqrtD) / a
		if root < ray.Mint || root > ray.Maxt {
			return 0, 0, 0, false
		}
	}

	point := ray.At(root)
	n := point.Subtract(s.Center).Multiply(1 / s.Radius)
	theta := math.Acos(math.Max(-1, math.Min(1, -n.Y)))
	phi := math.Atan2(-n.Z, n.X) + core.Pi
	return root, phi / (2 * core.Pi), theta / core.Pi, true
}

func (s *Sphere) ComputeSurfaceInteraction(ray core.Ray, pi interaction.PreliminaryIntersection) interaction.SurfaceInteraction {
	p := ray.At(pi.T)
	n := p.Subtract(s.Center).Multiply(1 / s.Radius)
	frame := core.NewFrame(n)
	return interaction.SurfaceInteraction{
		P: p, Ng: n, ShFrame: frame, UV: core.Vec2{X: pi.U, Y: pi.V},
		Wi: frame.ToLocal(ray.Direction.Negate()),
		T:  pi.T, PrimIndex: pi.PrimIndex, Shape: s,
	}
}

func (s *Sphere) SamplePosition(u core.Vec2) interaction.PositionSample {
	local := core.SquareToUniformSphere(u.X, u.Y)
	return interaction.PositionSample{
		P: s.Center.Add(local.Multiply(s.Radius)), N: local, Pdf: 1 / s.SurfaceArea(),
	}
}

func (s *Sphere) PdfPosition(ps interaction.PositionSample) float64 { return 1 / s.SurfaceArea() }

func (s *Sphere) SampleDirect(ref interaction.SurfaceInteraction, u core.Vec2) interaction.DirectIllumSample {
	return sampleDirectFromPosition(s, ref, u)
}

func (s *Sphere) PdfDirect(ds interaction.DirectIllumSample) float64 {
	return pdfDirectFromPosition(1/s.SurfaceArea(), ds)
}
