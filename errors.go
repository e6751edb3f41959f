package plus

import "errors"

// Precondition errors returned by Solve before any work is done. They are
// wrapped with detail; match them with errors.Is.
var (
	// ErrDimensionMismatch indicates a matrix or vector whose size disagrees
	// with the multiplier space.
	ErrDimensionMismatch = errors.New("plus: dimension mismatch")

	// ErrIndexRange indicates a multiplier index outside [0, m).
	ErrIndexRange = errors.New("plus: multiplier index out of range")

	// ErrCategoryCount indicates that the descriptors do not account for
	// exactly the participating multipliers.
	ErrCategoryCount = errors.New("plus: descriptor equation count differs from participating set")

	// ErrNotParticipating indicates a descriptor that solves for a
	// multiplier missing from the participating set.
	ErrNotParticipating = errors.New("plus: descriptor multiplier is not participating")

	// ErrFrictionArity indicates a unilateral contact with neither zero nor
	// two friction multipliers.
	ErrFrictionArity = errors.New("plus: unilateral contact friction must have 0 or 2 multipliers")

	// ErrInvalidConfig indicates a configuration rejected by validation.
	ErrInvalidConfig = errors.New("plus: invalid config")
)
