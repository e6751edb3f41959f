// Package world steps rigid bodies resting on a ground plane, resolving
// their contacts with the impulse solver at every substep.
package world

import (
	"errors"
	"fmt"
	"math"

	"github.com/akmonengine/plus"
	"github.com/akmonengine/plus/actor"
	"github.com/akmonengine/plus/coupling"
	"github.com/go-gl/mathgl/mgl64"
)

const DEFAULT_WORKERS = 1

// ErrNonFinite is returned by Step when a body's state stops being finite.
var ErrNonFinite = errors.New("world: non-finite body state")

// DEFAULT_SLOP is how far above the ground a body still counts as touching.
const DEFAULT_SLOP = 1e-6

type World struct {
	// List of all rigid bodies in the world
	Bodies []*actor.RigidBody
	// Static body holding the ground plane; nil for a world without ground
	Ground *actor.RigidBody
	// Gravity acceleration (m/s², or N/kg)
	Gravity  mgl64.Vec3
	Substeps int
	Workers  int

	Slop           float64
	Regularization float64

	Solver *plus.Solver
}

// New creates a world whose ground is plane, with the given friction and
// restitution.
func New(solver *plus.Solver, plane *actor.Plane, friction, restitution float64) *World {
	ground := actor.NewRigidBody(actor.NewTransform(), plane, actor.BodyTypeStatic, 0)
	ground.Material.Friction = friction
	ground.Material.Restitution = restitution

	return &World{
		Ground:   ground,
		Substeps: 1,
		Slop:     DEFAULT_SLOP,
		Solver:   solver,
	}
}

// AddBody adds a rigid body to the world
func (w *World) AddBody(body *actor.RigidBody) {
	w.Bodies = append(w.Bodies, body)
}

// RemoveBody removes a rigid body from the world
func (w *World) RemoveBody(body *actor.RigidBody) {
	for i, b := range w.Bodies {
		if b == body {
			w.Bodies = append(w.Bodies[:i], w.Bodies[i+1:]...)
			return
		}
	}
}

// Step advances the world by dt. Each substep applies gravity, resolves the
// ground contacts, then moves the bodies. It returns the outcome of every
// substep that had contacts.
func (w *World) Step(dt float64) ([]coupling.Outcome, error) {
	w.Workers = max(DEFAULT_WORKERS, w.Workers)
	w.Substeps = max(1, w.Substeps)
	h := dt / float64(w.Substeps)

	var outcomes []coupling.Outcome
	for i := 0; i < w.Substeps; i++ {
		if err := w.accelerate(h); err != nil {
			return outcomes, fmt.Errorf("substep %d: %w", i, err)
		}

		contacts := w.detectContacts()
		if len(contacts) > 0 {
			out, err := coupling.Assemble(contacts, w.Regularization).Resolve(w.Solver)
			if err != nil {
				return outcomes, fmt.Errorf("substep %d: %w", i, err)
			}
			outcomes = append(outcomes, out)
		}

		if err := w.move(h); err != nil {
			return outcomes, fmt.Errorf("substep %d: %w", i, err)
		}
	}

	return outcomes, nil
}

// KineticEnergy returns the total kinetic energy of the bodies.
func (w *World) KineticEnergy() float64 {
	var e float64
	for _, body := range w.Bodies {
		e += body.KineticEnergy()
	}

	return e
}

func (w *World) accelerate(h float64) error {
	return task(w.Workers, w.Bodies, func(body *actor.RigidBody) error {
		body.Accelerate(h, w.Gravity)
		if !finite(body.Velocity) || !finite(body.AngularVelocity) {
			return fmt.Errorf("%w: velocity %v", ErrNonFinite, body.Velocity)
		}
		return nil
	})
}

func (w *World) detectContacts() []coupling.Contact {
	if w.Ground == nil {
		return nil
	}
	plane, ok := w.Ground.Shape.(*actor.Plane)
	if !ok {
		return nil
	}

	return coupling.GroundContacts(w.Ground, plane, w.Bodies, w.Slop)
}

func (w *World) move(h float64) error {
	return task(w.Workers, w.Bodies, func(body *actor.RigidBody) error {
		body.Move(h)
		if !finite(body.Transform.Position) {
			return fmt.Errorf("%w: position %v", ErrNonFinite, body.Transform.Position)
		}
		return nil
	})
}

func finite(v mgl64.Vec3) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
