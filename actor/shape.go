package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeInterface is the interface that all body shapes must implement
type ShapeInterface interface {
	// ComputeMass returns the mass of the shape for a given density
	ComputeMass(density float64) float64
	ComputeInertia(mass float64) mgl64.Mat3
	// ContactFeature returns, in local space, the points of the shape that
	// are furthest along direction: a face, an edge or a single point.
	ContactFeature(direction mgl64.Vec3) []mgl64.Vec3
}

// Box is defined by its half-extents (half-width, half-height, half-depth)
type Box struct {
	HalfExtents mgl64.Vec3
}

// ComputeMass calculates mass data for the box
func (b *Box) ComputeMass(density float64) float64 {
	// full dimensions are 2*halfExtents
	volume := 8.0 * b.HalfExtents.X() * b.HalfExtents.Y() * b.HalfExtents.Z()

	return density * volume
}

func (b *Box) ComputeInertia(mass float64) mgl64.Mat3 {
	x := b.HalfExtents.X() * 2
	y := b.HalfExtents.Y() * 2
	z := b.HalfExtents.Z() * 2

	// I = (m/12) * (d1² + d2²)
	factor := mass / 12.0

	return mgl64.Diag3(mgl64.Vec3{
		factor * (y*y + z*z),
		factor * (x*x + z*z),
		factor * (x*x + y*y),
	})
}

// ContactFeature keeps the corners whose projection on direction is within
// featureTolerance of the furthest one, so an axis-aligned direction yields
// a face, a diagonal one a single corner.
func (b *Box) ContactFeature(direction mgl64.Vec3) []mgl64.Vec3 {
	const featureTolerance = 1e-9

	hx, hy, hz := b.HalfExtents.X(), b.HalfExtents.Y(), b.HalfExtents.Z()
	corners := [8]mgl64.Vec3{
		{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {-hx, hy, -hz},
		{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz},
	}

	best := -math.MaxFloat64
	for _, c := range corners {
		best = math.Max(best, c.Dot(direction))
	}

	var feature []mgl64.Vec3
	scale := featureTolerance * math.Max(1, direction.Len()*b.HalfExtents.Len())
	for _, c := range corners {
		if c.Dot(direction) >= best-scale {
			feature = append(feature, c)
		}
	}

	return feature
}

// Sphere represents a spherical shape
type Sphere struct {
	Radius float64
}

// ComputeMass calculates mass data for the sphere
func (s *Sphere) ComputeMass(density float64) float64 {
	// (4/3) * π * r³
	volume := (4.0 / 3.0) * math.Pi * math.Pow(s.Radius, 3)

	return density * volume
}

func (s *Sphere) ComputeInertia(mass float64) mgl64.Mat3 {
	// I = (2/5) * m * r²
	i := (2.0 / 5.0) * mass * s.Radius * s.Radius

	return mgl64.Diag3(mgl64.Vec3{i, i, i})
}

func (s *Sphere) ContactFeature(direction mgl64.Vec3) []mgl64.Vec3 {
	return []mgl64.Vec3{direction.Normalize().Mul(s.Radius)}
}

// Plane is an infinite static half-space: Normal · p + Distance = 0
// bounds it, Normal pointing out of the solid.
type Plane struct {
	Normal   mgl64.Vec3 // must be normalized
	Distance float64
}

// ComputeMass returns an infinite mass, planes are always static
func (p *Plane) ComputeMass(density float64) float64 {
	return math.Inf(1)
}

func (p *Plane) ComputeInertia(mass float64) mgl64.Mat3 {
	return mgl64.Mat3{}
}

// ContactFeature is empty: a plane never rests on anything.
func (p *Plane) ContactFeature(direction mgl64.Vec3) []mgl64.Vec3 {
	return nil
}

// SignedDistance returns the distance of a world point above the plane
func (p *Plane) SignedDistance(point mgl64.Vec3) float64 {
	return p.Normal.Dot(point) + p.Distance
}

// TangentBasis returns two unit vectors spanning the plane orthogonal to
// normal, forming a right-handed frame (t1, t2, normal).
func TangentBasis(normal mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	var tangent1 mgl64.Vec3
	if math.Abs(normal.X()) > 0.9 {
		tangent1 = mgl64.Vec3{0, 1, 0}
	} else {
		tangent1 = mgl64.Vec3{1, 0, 0}
	}

	tangent1 = tangent1.Sub(normal.Mul(tangent1.Dot(normal))).Normalize()
	tangent2 := normal.Cross(tangent1).Normalize()

	return tangent1, tangent2
}
