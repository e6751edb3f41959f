// Package slip computes how far along a straight velocity trajectory a sliding
// contact can be stepped before its slip either halts or turns too much.
//
// Every function takes the slip velocity at the start of the step (a) and the
// predicted slip velocity at the end of the full step (b); the trajectory is
// v(t) = a + t·(b−a) for t in [0,1]. Step lengths are returned as a fraction
// of the full step.
package slip

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MinSegmentSqr is the squared length below which a velocity change is too
// short to define a direction.
const MinSegmentSqr = 1e-14

// StepToOrigin2 returns the fraction at which the segment from a to b passes
// closest to the origin, and the velocity q reached there. An initial slip
// below maxRollingSpeed, or a segment too short to matter, yields (1, b).
func StepToOrigin2(a, b mgl64.Vec2, maxRollingSpeed float64) (float64, mgl64.Vec2) {
	if a.Dot(a) < maxRollingSpeed*maxRollingSpeed {
		return 1, b
	}

	ab := b.Sub(a)
	abSqr := ab.Dot(ab)
	if abSqr < MinSegmentSqr {
		return 1, b
	}

	t := mgl64.Clamp(a.Mul(-1).Dot(ab)/abSqr, 0, 1)

	return t, a.Add(ab.Mul(t))
}

// StepToOrigin3 is the 3D form of StepToOrigin2.
func StepToOrigin3(a, b mgl64.Vec3, maxRollingSpeed float64) (float64, mgl64.Vec3) {
	if a.Dot(a) < maxRollingSpeed*maxRollingSpeed {
		return 1, b
	}

	ab := b.Sub(a)
	abSqr := ab.Dot(ab)
	if abSqr < MinSegmentSqr {
		return 1, b
	}

	t := mgl64.Clamp(a.Mul(-1).Dot(ab)/abSqr, 0, 1)

	return t, a.Add(ab.Mul(t))
}

// StepToMaxChange2 returns the fraction at which the angle between a and the
// velocity on the trajectory reaches acos(cosMax). cosMax must lie in (0,1).
func StepToMaxChange2(a, b mgl64.Vec2, cosMax float64) float64 {
	w := b.Sub(a)
	cross := a.X()*w.Y() - a.Y()*w.X()

	return stepToMaxChange(a.Dot(a), a.Dot(w), w.Dot(w), cross*cross, cosMax)
}

// StepToMaxChange3 is the 3D form of StepToMaxChange2.
func StepToMaxChange3(a, b mgl64.Vec3, cosMax float64) float64 {
	w := b.Sub(a)
	cross := a.Cross(w)

	return stepToMaxChange(a.Dot(a), a.Dot(w), w.Dot(w), cross.Dot(cross), cosMax)
}

// stepToMaxChange solves cos∠(a, a+t·w) = c for t. Squaring gives
//
//	((a·w)² − c²|a|²|w|²)·t² + 2|a|²(a·w)(1−c²)·t + |a|⁴(1−c²) = 0
//
// whose discriminant reduces to 4|a|⁴c²(1−c²)|a×w|². The squared form also
// admits the cos = −c branch, which is always reached later along the
// trajectory, so the smaller non-negative root is the one wanted. The roots
// are formed without cancellation; a vanishing leading coefficient sends one
// of them to infinity instead of dividing a rounding error.
func stepToMaxChange(aa, aw, ww, crossSqr, c float64) float64 {
	c2 := c * c
	s2 := 1 - c2
	a2 := aw*aw - c2*aa*ww

	root := c * math.Sqrt(s2*crossSqr)
	num := -aw*s2 - math.Copysign(root, aw)
	if num == 0 {
		return 1
	}

	sol1 := aa * num / a2
	sol2 := aa * s2 / num

	var sol float64
	switch {
	case math.IsNaN(sol1) || math.IsNaN(sol2):
		return 1
	case sol1 < 0 && sol2 < 0:
		return 1
	case sol1 < 0:
		sol = sol2
	case sol2 < 0:
		sol = sol1
	default:
		sol = math.Min(sol1, sol2)
	}

	return mgl64.Clamp(sol, 0, 1)
}

// CosAngle returns the cosine of the angle between a and b clamped to [-1,1].
// Callers must ensure neither vector is zero.
func CosAngle(a, b mgl64.Vec2) float64 {
	return mgl64.Clamp(a.Dot(b)/(a.Len()*b.Len()), -1, 1)
}
