package actor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// =============================================================================
// Construction
// =============================================================================

func TestNewRigidBody_Dynamic(t *testing.T) {
	box := &Box{HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}}
	rb := NewRigidBody(NewTransformAt(mgl64.Vec3{1, 2, 3}), box, BodyTypeDynamic, 6)

	if !floatEqual(rb.Material.GetMass(), 6, 1e-12) {
		t.Errorf("mass = %v, want 6", rb.Material.GetMass())
	}
	if !floatEqual(rb.InverseMass(), 1.0/6, 1e-12) {
		t.Errorf("InverseMass() = %v, want 1/6", rb.InverseMass())
	}
	// I = m/12 * (1+1) = 1
	if !vec3Equal(rb.InertiaLocal.Diag(), mgl64.Vec3{1, 1, 1}, 1e-12) {
		t.Errorf("InertiaLocal = %v, want identity", rb.InertiaLocal)
	}
	if !vec3Equal(rb.InverseInertiaLocal.Diag(), mgl64.Vec3{1, 1, 1}, 1e-12) {
		t.Errorf("InverseInertiaLocal = %v, want identity", rb.InverseInertiaLocal)
	}
}

func TestNewRigidBody_Static(t *testing.T) {
	plane := &Plane{Normal: mgl64.Vec3{0, 1, 0}}
	rb := NewRigidBody(NewTransform(), plane, BodyTypeStatic, 10)

	if !math.IsInf(rb.Material.GetMass(), 1) {
		t.Errorf("mass = %v, want +Inf", rb.Material.GetMass())
	}
	if rb.InverseMass() != 0 {
		t.Errorf("InverseMass() = %v, want 0", rb.InverseMass())
	}
	if !rb.GetInverseInertiaWorld().ApproxEqual(mgl64.Mat3{}) {
		t.Errorf("GetInverseInertiaWorld() = %v, want zero", rb.GetInverseInertiaWorld())
	}
}

func TestCombineMaterials(t *testing.T) {
	a := Material{Restitution: 0.2, Friction: 0.25}
	b := Material{Restitution: 0.6, Friction: 1}

	if got := CombineRestitution(a, b); !floatEqual(got, 0.4, 1e-12) {
		t.Errorf("CombineRestitution() = %v, want 0.4", got)
	}
	if got := CombineFriction(a, b); !floatEqual(got, 0.5, 1e-12) {
		t.Errorf("CombineFriction() = %v, want 0.5", got)
	}
}

// =============================================================================
// Impulses
// =============================================================================

func TestApplyImpulse(t *testing.T) {
	tests := []struct {
		name        string
		impulse     mgl64.Vec3
		point       mgl64.Vec3
		wantLinear  mgl64.Vec3
		wantAngular mgl64.Vec3
	}{
		{
			name:       "through center",
			impulse:    mgl64.Vec3{0, 6, 0},
			point:      mgl64.Vec3{0, 0, 0},
			wantLinear: mgl64.Vec3{0, 1, 0},
		},
		{
			name:        "off center",
			impulse:     mgl64.Vec3{0, 6, 0},
			point:       mgl64.Vec3{0.5, 0, 0},
			wantLinear:  mgl64.Vec3{0, 1, 0},
			wantAngular: mgl64.Vec3{0, 0, 3}, // r × J = (0.5,0,0)×(0,6,0)
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rb := NewRigidBody(NewTransform(), &Box{HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}}, BodyTypeDynamic, 6)
			rb.ApplyImpulse(tt.impulse, tt.point)

			if !vec3Equal(rb.Velocity, tt.wantLinear, 1e-12) {
				t.Errorf("Velocity = %v, want %v", rb.Velocity, tt.wantLinear)
			}
			if !vec3Equal(rb.AngularVelocity, tt.wantAngular, 1e-12) {
				t.Errorf("AngularVelocity = %v, want %v", rb.AngularVelocity, tt.wantAngular)
			}
		})
	}
}

func TestApplyImpulse_Static(t *testing.T) {
	rb := NewRigidBody(NewTransform(), &Plane{Normal: mgl64.Vec3{0, 1, 0}}, BodyTypeStatic, 0)
	rb.ApplyImpulse(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{1, 0, 0})

	if rb.Velocity != (mgl64.Vec3{}) || rb.AngularVelocity != (mgl64.Vec3{}) {
		t.Errorf("static body moved: %v %v", rb.Velocity, rb.AngularVelocity)
	}
}

func TestVelocityAt(t *testing.T) {
	rb := NewRigidBody(NewTransformAt(mgl64.Vec3{1, 0, 0}), &Sphere{Radius: 1}, BodyTypeDynamic, 1)
	rb.Velocity = mgl64.Vec3{1, 0, 0}
	rb.AngularVelocity = mgl64.Vec3{0, 0, 2}

	// r = (0,-1,0): ω × r = (2, 0, 0)
	got := rb.VelocityAt(mgl64.Vec3{1, -1, 0})
	if !vec3Equal(got, mgl64.Vec3{3, 0, 0}, 1e-12) {
		t.Errorf("VelocityAt() = %v, want (3,0,0)", got)
	}
}

// =============================================================================
// Integration
// =============================================================================

func TestIntegrate_Gravity(t *testing.T) {
	rb := NewRigidBody(NewTransform(), &Sphere{Radius: 1}, BodyTypeDynamic, 1)
	rb.Velocity = mgl64.Vec3{1, 0, 0}

	rb.Integrate(0.5, mgl64.Vec3{0, -10, 0})

	if !vec3Equal(rb.Velocity, mgl64.Vec3{1, -5, 0}, 1e-12) {
		t.Errorf("Velocity = %v, want (1,-5,0)", rb.Velocity)
	}
	if !vec3Equal(rb.Transform.Position, mgl64.Vec3{0.5, -2.5, 0}, 1e-12) {
		t.Errorf("Position = %v, want (0.5,-2.5,0)", rb.Transform.Position)
	}
}

func TestIntegrate_Static(t *testing.T) {
	rb := NewRigidBody(NewTransform(), &Plane{Normal: mgl64.Vec3{0, 1, 0}}, BodyTypeStatic, 0)
	rb.Integrate(1, mgl64.Vec3{0, -10, 0})

	if rb.Transform.Position != (mgl64.Vec3{}) || rb.Velocity != (mgl64.Vec3{}) {
		t.Errorf("static body moved: %v %v", rb.Transform.Position, rb.Velocity)
	}
}

func TestIntegrate_RotationStaysNormalized(t *testing.T) {
	rb := NewRigidBody(NewTransform(), &Box{HalfExtents: mgl64.Vec3{1, 1, 1}}, BodyTypeDynamic, 1)
	rb.AngularVelocity = mgl64.Vec3{3, -2, 5}

	for i := 0; i < 100; i++ {
		rb.Integrate(0.01, mgl64.Vec3{})
	}

	if !floatEqual(rb.Transform.Rotation.Len(), 1, 1e-9) {
		t.Errorf("|q| = %v, want 1", rb.Transform.Rotation.Len())
	}
	q := rb.Transform.Rotation.Mul(rb.Transform.InverseRotation)
	if !floatEqual(q.W, 1, 1e-9) {
		t.Errorf("q·q⁻¹ = %v, want identity", q)
	}
}

func TestAccelerateThenMove(t *testing.T) {
	rb := NewRigidBody(NewTransform(), &Sphere{Radius: 1}, BodyTypeDynamic, 1)

	rb.Accelerate(0.5, mgl64.Vec3{0, -10, 0})
	if rb.Transform.Position != (mgl64.Vec3{}) {
		t.Errorf("Accelerate moved the body to %v", rb.Transform.Position)
	}

	// A contact cancels the fall before the body moves.
	rb.Velocity = mgl64.Vec3{2, 0, 0}
	rb.Move(0.5)

	if !vec3Equal(rb.Transform.Position, mgl64.Vec3{1, 0, 0}, 1e-12) {
		t.Errorf("Position = %v, want (1,0,0)", rb.Transform.Position)
	}
}

func TestKineticEnergy(t *testing.T) {
	rb := NewRigidBody(NewTransform(), &Box{HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}}, BodyTypeDynamic, 6)
	rb.Velocity = mgl64.Vec3{1, 0, 0}
	rb.AngularVelocity = mgl64.Vec3{0, 2, 0}

	// ½·6·1 + ½·(2·1·2)
	if got := rb.KineticEnergy(); !floatEqual(got, 5, 1e-12) {
		t.Errorf("KineticEnergy() = %v, want 5", got)
	}
}

func TestContactPoints(t *testing.T) {
	box := &Box{HalfExtents: mgl64.Vec3{1, 0.5, 1}}
	rb := NewRigidBody(NewTransformAt(mgl64.Vec3{0, 2, 0}), box, BodyTypeDynamic, 1)

	points := rb.ContactPoints(mgl64.Vec3{0, -1, 0})
	if len(points) != 4 {
		t.Fatalf("ContactPoints() returned %d points, want 4", len(points))
	}
	for _, p := range points {
		if !floatEqual(p.Y(), 1.5, 1e-12) {
			t.Errorf("point %v not on the bottom face", p)
		}
	}

	// Rotated a quarter turn about z, the box rests on its 2-wide side.
	rb.Transform.Rotation = mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1})
	rb.Transform.InverseRotation = rb.Transform.Rotation.Inverse()

	for _, p := range rb.ContactPoints(mgl64.Vec3{0, -1, 0}) {
		if !floatEqual(p.Y(), 1, 1e-9) {
			t.Errorf("rotated point %v not at y=1", p)
		}
	}
}
