package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform places a body in world space
type Transform struct {
	Position        mgl64.Vec3
	Rotation        mgl64.Quat
	InverseRotation mgl64.Quat
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Rotation:        mgl64.QuatIdent(),
		InverseRotation: mgl64.QuatIdent(),
	}
}

// NewTransformAt creates an unrotated transform at position
func NewTransformAt(position mgl64.Vec3) Transform {
	t := NewTransform()
	t.Position = position

	return t
}

// ToWorld maps a body-local point to world space
func (t Transform) ToWorld(local mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Rotate(local).Add(t.Position)
}

// DirectionToLocal maps a world direction to body-local space
func (t Transform) DirectionToLocal(direction mgl64.Vec3) mgl64.Vec3 {
	return t.InverseRotation.Rotate(direction)
}
