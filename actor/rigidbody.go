package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BodyType represents the type of rigid body
type BodyType int

const (
	// BodyTypeDynamic bodies have finite mass and respond to impulses
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic bodies are immovable and have infinite mass
	BodyTypeStatic
)

type Material struct {
	Density     float64
	mass        float64
	Restitution float64 // 0 = no rebound, 1 = perfect restitution
	Friction    float64 // Coulomb coefficient
}

func (material Material) GetMass() float64 {
	return material.mass
}

// CombineRestitution averages the restitution of two touching materials
func CombineRestitution(matA, matB Material) float64 {
	return (matA.Restitution + matB.Restitution) / 2.0
}

// CombineFriction returns the geometric mean of two friction coefficients
func CombineFriction(matA, matB Material) float64 {
	return math.Sqrt(matA.Friction * matB.Friction)
}

// RigidBody represents a rigid body driven by contact impulses
type RigidBody struct {
	Transform Transform

	Velocity        mgl64.Vec3 // m/s
	AngularVelocity mgl64.Vec3 // rad/s

	InertiaLocal        mgl64.Mat3
	InverseInertiaLocal mgl64.Mat3

	Material Material
	BodyType BodyType

	Shape ShapeInterface
}

// NewRigidBody creates a new rigid body with the given properties
// density is used to calculate mass for dynamic bodies (ignored for static)
func NewRigidBody(transform Transform, shape ShapeInterface, bodyType BodyType, density float64) *RigidBody {
	rb := &RigidBody{
		Transform: transform,
		Shape:     shape,
		BodyType:  bodyType,
	}

	if bodyType == BodyTypeStatic {
		rb.Material = Material{mass: math.Inf(1)}
		return rb
	}

	rb.Material = Material{
		Density: density,
		mass:    shape.ComputeMass(density),
	}
	rb.InertiaLocal = shape.ComputeInertia(rb.Material.mass)
	rb.InverseInertiaLocal = rb.InertiaLocal.Inv()

	return rb
}

// InverseMass is zero for static bodies
func (rb *RigidBody) InverseMass() float64 {
	if rb.BodyType == BodyTypeStatic {
		return 0
	}
	return 1.0 / rb.Material.GetMass()
}

// GetInverseInertiaWorld returns R * I_local^(-1) * R^T, zero for static bodies
func (rb *RigidBody) GetInverseInertiaWorld() mgl64.Mat3 {
	if rb.BodyType == BodyTypeStatic {
		return mgl64.Mat3{}
	}

	R := rb.Transform.Rotation.Mat4().Mat3()
	return R.Mul3(rb.InverseInertiaLocal).Mul3(R.Transpose())
}

// VelocityAt returns the world velocity of the body material at point
func (rb *RigidBody) VelocityAt(point mgl64.Vec3) mgl64.Vec3 {
	r := point.Sub(rb.Transform.Position)
	return rb.Velocity.Add(rb.AngularVelocity.Cross(r))
}

// ApplyImpulse changes the velocities as if impulse acted at point
func (rb *RigidBody) ApplyImpulse(impulse, point mgl64.Vec3) {
	if rb.BodyType == BodyTypeStatic {
		return
	}

	r := point.Sub(rb.Transform.Position)
	rb.Velocity = rb.Velocity.Add(impulse.Mul(rb.InverseMass()))
	rb.AngularVelocity = rb.AngularVelocity.Add(rb.GetInverseInertiaWorld().Mul3x1(r.Cross(impulse)))
}

// Integrate advances gravity, then the position and orientation over dt
func (rb *RigidBody) Integrate(dt float64, gravity mgl64.Vec3) {
	rb.Accelerate(dt, gravity)
	rb.Move(dt)
}

// Accelerate adds the velocity gained under gravity over dt
func (rb *RigidBody) Accelerate(dt float64, gravity mgl64.Vec3) {
	if rb.BodyType == BodyTypeStatic {
		return
	}

	rb.Velocity = rb.Velocity.Add(gravity.Mul(dt))
}

// Move advances the position and orientation at the current velocities
func (rb *RigidBody) Move(dt float64) {
	if rb.BodyType == BodyTypeStatic {
		return
	}

	rb.Transform.Position = rb.Transform.Position.Add(rb.Velocity.Mul(dt))

	omegaQuat := mgl64.Quat{V: rb.AngularVelocity, W: 0}
	qDot := omegaQuat.Mul(rb.Transform.Rotation).Scale(0.5)
	rb.Transform.Rotation = rb.Transform.Rotation.Add(qDot.Scale(dt)).Normalize()
	rb.Transform.InverseRotation = rb.Transform.Rotation.Inverse()
}

// KineticEnergy returns ½ m v² + ½ ω·Iω
func (rb *RigidBody) KineticEnergy() float64 {
	if rb.BodyType == BodyTypeStatic {
		return 0
	}

	R := rb.Transform.Rotation.Mat4().Mat3()
	inertia := R.Mul3(rb.InertiaLocal).Mul3(R.Transpose())
	linear := 0.5 * rb.Material.GetMass() * rb.Velocity.Dot(rb.Velocity)
	angular := 0.5 * rb.AngularVelocity.Dot(inertia.Mul3x1(rb.AngularVelocity))

	return linear + angular
}

// ContactPoints returns the world points of the body's contact feature
// facing direction
func (rb *RigidBody) ContactPoints(direction mgl64.Vec3) []mgl64.Vec3 {
	local := rb.Shape.ContactFeature(rb.Transform.DirectionToLocal(direction))

	points := make([]mgl64.Vec3, len(local))
	for i, p := range local {
		points[i] = rb.Transform.ToWorld(p)
	}

	return points
}
