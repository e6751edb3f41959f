package constraint

import (
	"math"

	"github.com/akmonengine/plus/activeset"
	"github.com/go-gl/mathgl/mgl64"
)

// ContactType is how a unilateral contact takes part in a solve.
type ContactType int

const (
	// Participating contacts have an unknown normal impulse to solve for.
	Participating ContactType = iota
	// Known contacts have their normal impulse fixed by an earlier stage
	// (expansion); only their friction is solved for.
	Known
	// Observing contacts are tracked but neither normal nor friction is solved.
	Observing
)

func (t ContactType) String() string {
	switch t {
	case Participating:
		return "participating"
	case Known:
		return "known"
	case Observing:
		return "observing"
	}
	return "unknown"
}

// ContactCondition is the current state of a unilateral normal.
type ContactCondition int

const (
	ContactOff ContactCondition = iota
	ContactKnown
	ContactActive
)

func (c ContactCondition) String() string {
	switch c {
	case ContactOff:
		return "off"
	case ContactKnown:
		return "known"
	case ContactActive:
		return "active"
	}
	return "unknown"
}

// FrictionCondition is the current state of a friction group.
//
//	Off       no friction equations
//	Rolling   no slip; linear equations, cone checked after each solve
//	Sliding   slip direction fixed for the interval; nonlinear equations
//	Impending Rolling released on a cone violation; slip direction follows
//	          the velocity change produced by the current impulse
//
// Rolling and Sliding are assigned only when an interval starts; Impending is
// only reached from Rolling while pruning.
type FrictionCondition int

const (
	FrictionOff FrictionCondition = iota
	Rolling
	Sliding
	Impending
)

func (c FrictionCondition) String() string {
	switch c {
	case FrictionOff:
		return "off"
	case Rolling:
		return "rolling"
	case Sliding:
		return "sliding"
	case Impending:
		return "impending"
	}
	return "unknown"
}

// Nonlinear reports whether the group is solved with the slip equations
// instead of the linear rolling equations.
func (c FrictionCondition) Nonlinear() bool {
	return c == Sliding || c == Impending
}

// Unconditional is a group of bilateral multipliers that are always enforced.
type Unconditional struct {
	Mults []activeset.MultiplierIndex
}

// UniContact is a unilateral contact: a normal multiplier restricted to be
// non-positive and an optional pair of Coulomb friction multipliers.
type UniContact struct {
	Type     ContactType
	Normal   activeset.MultiplierIndex
	Friction []activeset.MultiplierIndex // empty or exactly two
	Mu       float64

	ContactCond  ContactCondition
	FrictionCond FrictionCondition
	SlipVel      mgl64.Vec2
	SlipMag      float64
}

// HasFriction reports whether the contact carries friction multipliers.
func (c *UniContact) HasFriction() bool {
	return len(c.Friction) > 0
}

// Equations returns how many participating multipliers the contact holds.
func (c *UniContact) Equations() int {
	switch c.Type {
	case Participating:
		return 1 + len(c.Friction)
	case Known:
		return len(c.Friction)
	}
	return 0
}

// Classify resets the contact for a new sliding interval. verr is the
// remaining velocity residual; a frictional contact whose slip speed exceeds
// maxRollingSpeed starts Sliding, otherwise Rolling.
func (c *UniContact) Classify(verr []float64, maxRollingSpeed float64) {
	switch c.Type {
	case Participating:
		c.ContactCond = ContactActive
	case Known:
		c.ContactCond = ContactKnown
	default:
		c.ContactCond = ContactOff
	}

	if c.Type == Observing || !c.HasFriction() {
		c.FrictionCond = FrictionOff
		c.SlipVel = mgl64.Vec2{math.NaN(), math.NaN()}
		c.SlipMag = math.NaN()
		return
	}

	c.SlipVel = mgl64.Vec2{verr[c.Friction[0]], verr[c.Friction[1]]}
	c.SlipMag = c.SlipVel.Len()
	if c.SlipMag > maxRollingSpeed {
		c.FrictionCond = Sliding
	} else {
		c.FrictionCond = Rolling
	}
}

// Release switches Rolling friction to Impending. It reports false, leaving
// the contact unchanged, from any other condition.
func (c *UniContact) Release() bool {
	if c.FrictionCond != Rolling {
		return false
	}
	c.FrictionCond = Impending

	return true
}

// Disengage turns an active normal Off together with its friction, and
// returns the multipliers that leave the active set.
func (c *UniContact) Disengage() []activeset.MultiplierIndex {
	removed := make([]activeset.MultiplierIndex, 0, 1+len(c.Friction))
	if c.ContactCond == ContactActive {
		removed = append(removed, c.Normal)
	}
	if c.FrictionCond != FrictionOff {
		removed = append(removed, c.Friction...)
	}
	c.ContactCond = ContactOff
	c.FrictionCond = FrictionOff

	return removed
}

// UpdateSlip replaces the slip velocity used by the Impending equations.
func (c *UniContact) UpdateSlip(v mgl64.Vec2) {
	c.SlipVel = v
	c.SlipMag = v.Len()
}

// SpeedCondition is the state of a unilateral speed constraint.
type SpeedCondition int

const (
	SpeedOff SpeedCondition = iota
	SpeedActive
)

func (c SpeedCondition) String() string {
	if c == SpeedActive {
		return "active"
	}
	return "off"
}

// UniSpeed is a one-sided speed constraint: its impulse may only be
// non-positive, like a frictionless contact normal.
type UniSpeed struct {
	Index activeset.MultiplierIndex
	Cond  SpeedCondition
}

// BoundCondition is the state of a box-bounded multiplier.
type BoundCondition int

const (
	BoundFree BoundCondition = iota
	BoundAtLower
	BoundAtUpper
)

func (c BoundCondition) String() string {
	switch c {
	case BoundFree:
		return "free"
	case BoundAtLower:
		return "lower"
	case BoundAtUpper:
		return "upper"
	}
	return "unknown"
}

// Bounded is a scalar multiplier restricted to [Lower, Upper].
type Bounded struct {
	Index activeset.MultiplierIndex
	Lower float64
	Upper float64
	Cond  BoundCondition
}

// Project returns pi clamped into the bounds.
func (b *Bounded) Project(pi float64) float64 {
	return mgl64.Clamp(pi, b.Lower, b.Upper)
}

// Clamp pins the multiplier to the bound nearest pi and returns that bound.
func (b *Bounded) Clamp(pi float64) float64 {
	if math.Abs(pi-b.Lower) <= math.Abs(pi-b.Upper) {
		b.Cond = BoundAtLower
		return b.Lower
	}
	b.Cond = BoundAtUpper

	return b.Upper
}

// ConstraintLimitedFriction is a friction group whose maximum magnitude is
// Mu times the magnitude of another constraint's impulse.
type ConstraintLimitedFriction struct {
	Friction     []activeset.MultiplierIndex
	Limiter      activeset.MultiplierIndex
	Mu           float64
	FrictionCond FrictionCondition
}

// Limit returns the largest allowed friction magnitude for a limiting impulse.
func (f *ConstraintLimitedFriction) Limit(limiterImpulse float64) float64 {
	return f.Mu * math.Abs(limiterImpulse)
}

// Saturate marks the group as held at its limit for the rest of the interval
// and returns the multipliers that leave the active set.
func (f *ConstraintLimitedFriction) Saturate() []activeset.MultiplierIndex {
	f.FrictionCond = Impending
	return f.Friction
}

// StateLimitedFriction is a friction group bounded by a normal force known
// from the system state rather than solved for.
type StateLimitedFriction struct {
	Friction     []activeset.MultiplierIndex
	Mu           float64
	KnownNormal  float64
	FrictionCond FrictionCondition
}

// Limit returns the largest allowed friction magnitude.
func (f *StateLimitedFriction) Limit() float64 {
	return f.Mu * math.Abs(f.KnownNormal)
}

// Saturate marks the group as held at its limit for the rest of the interval
// and returns the multipliers that leave the active set.
func (f *StateLimitedFriction) Saturate() []activeset.MultiplierIndex {
	f.FrictionCond = Impending
	return f.Friction
}

// ResetLimited sets a limited-friction group's condition for a new interval.
func ResetLimited(friction []activeset.MultiplierIndex) FrictionCondition {
	if len(friction) == 0 {
		return FrictionOff
	}
	return Rolling
}
