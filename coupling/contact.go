// Package coupling turns rigid bodies touching at contact points into impulse
// problems: it builds the coupling matrix J·M⁻¹·Jᵀ, the contact velocities and
// the contact descriptors, and applies solved impulses back to the bodies.
//
// Every contact contributes a normal multiplier and, when it has friction,
// two tangential ones. A multiplier's velocity is the velocity of BodyB
// relative to BodyA along its direction, and an impulse π changes the bodies'
// velocities by −M⁻¹·Jᵀ·π, so a pushing normal impulse is negative.
package coupling

import (
	"github.com/akmonengine/plus/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Contact is one point where BodyB touches BodyA. Normal is a unit vector
// pointing from A towards B.
type Contact struct {
	BodyA  *actor.RigidBody
	BodyB  *actor.RigidBody
	Point  mgl64.Vec3
	Normal mgl64.Vec3

	Mu          float64
	Restitution float64
}

// NewContact creates a contact whose friction and restitution combine the
// two bodies' materials.
func NewContact(bodyA, bodyB *actor.RigidBody, point, normal mgl64.Vec3) Contact {
	return Contact{
		BodyA:       bodyA,
		BodyB:       bodyB,
		Point:       point,
		Normal:      normal.Normalize(),
		Mu:          actor.CombineFriction(bodyA.Material, bodyB.Material),
		Restitution: actor.CombineRestitution(bodyA.Material, bodyB.Material),
	}
}

// HasFriction reports whether the contact gets tangential multipliers.
func (c Contact) HasFriction() bool {
	return c.Mu > 0
}

// NormalVelocity returns the approach speed along the normal; negative when
// the bodies move towards each other.
func (c Contact) NormalVelocity() float64 {
	return c.Normal.Dot(c.BodyB.VelocityAt(c.Point).Sub(c.BodyA.VelocityAt(c.Point)))
}

// GroundContacts returns the contacts of every dynamic body whose contact
// feature facing the plane lies within slop of it. ground is the static body
// holding plane.
func GroundContacts(ground *actor.RigidBody, plane *actor.Plane, bodies []*actor.RigidBody, slop float64) []Contact {
	var contacts []Contact
	down := plane.Normal.Mul(-1)

	for _, body := range bodies {
		if body == ground || body.BodyType == actor.BodyTypeStatic {
			continue
		}
		for _, p := range body.ContactPoints(down) {
			if plane.SignedDistance(p) <= slop {
				contacts = append(contacts, NewContact(ground, body, p, plane.Normal))
			}
		}
	}

	return contacts
}
