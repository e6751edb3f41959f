package scenario

import (
	"fmt"

	"github.com/akmonengine/plus"
	"github.com/akmonengine/plus/actor"
	"github.com/akmonengine/plus/world"
	"github.com/go-gl/mathgl/mgl64"
)

// Scene is a set of bodies above a ground plane, stepped Steps times by Dt.
type Scene struct {
	Gravity mgl64.Vec3 `yaml:"gravity"`
	Ground  Ground     `yaml:"ground"`
	Bodies  []Body     `yaml:"bodies" validate:"required,min=1,dive"`

	Steps    int     `yaml:"steps" validate:"gte=1"`
	Dt       float64 `yaml:"dt" validate:"gt=0"`
	Substeps int     `yaml:"substeps" validate:"gte=1"`
	Workers  int     `yaml:"workers" validate:"gte=0"`

	Slop           float64 `yaml:"slop" validate:"gte=0"`
	Regularization float64 `yaml:"regularization" validate:"gte=0"`
}

type Ground struct {
	Normal      mgl64.Vec3 `yaml:"normal"`
	Distance    float64    `yaml:"distance"`
	Friction    float64    `yaml:"friction" validate:"gte=0"`
	Restitution float64    `yaml:"restitution" validate:"gte=0,lte=1"`
}

// Body is a box or a sphere. Static bodies are not supported; the ground is
// the only obstacle.
type Body struct {
	Shape       string     `yaml:"shape" validate:"required,oneof=box sphere"`
	HalfExtents mgl64.Vec3 `yaml:"half_extents,omitempty"`
	Radius      float64    `yaml:"radius,omitempty" validate:"required_if=Shape sphere,gte=0"`
	Density     float64    `yaml:"density" validate:"gt=0"`

	Position        mgl64.Vec3 `yaml:"position"`
	Velocity        mgl64.Vec3 `yaml:"velocity,omitempty"`
	AngularVelocity mgl64.Vec3 `yaml:"angular_velocity,omitempty"`

	Friction    float64 `yaml:"friction,omitempty" validate:"gte=0"`
	Restitution float64 `yaml:"restitution,omitempty" validate:"gte=0,lte=1"`
}

func (s *Scene) setDefaults() {
	if s.Ground.Normal == (mgl64.Vec3{}) {
		s.Ground.Normal = mgl64.Vec3{0, 1, 0}
	}
	if s.Steps == 0 {
		s.Steps = 1
	}
	if s.Substeps == 0 {
		s.Substeps = 1
	}
	if s.Dt == 0 {
		s.Dt = 1.0 / 60.0
	}
	if s.Slop == 0 {
		s.Slop = world.DEFAULT_SLOP
	}
}

func (b Body) shape() (actor.ShapeInterface, error) {
	switch b.Shape {
	case "box":
		if b.HalfExtents.X() <= 0 || b.HalfExtents.Y() <= 0 || b.HalfExtents.Z() <= 0 {
			return nil, fmt.Errorf("%w: box half extents %v must be positive", ErrInvalid, b.HalfExtents)
		}
		return &actor.Box{HalfExtents: b.HalfExtents}, nil
	case "sphere":
		return &actor.Sphere{Radius: b.Radius}, nil
	}

	return nil, fmt.Errorf("%w: unknown shape %q", ErrInvalid, b.Shape)
}

// Build creates the world described by the scene, solved by solver.
func (s *Scene) Build(solver *plus.Solver) (*world.World, error) {
	plane := &actor.Plane{Normal: s.Ground.Normal.Normalize(), Distance: s.Ground.Distance}
	w := world.New(solver, plane, s.Ground.Friction, s.Ground.Restitution)
	w.Gravity = s.Gravity
	w.Substeps = s.Substeps
	w.Workers = s.Workers
	w.Slop = s.Slop
	w.Regularization = s.Regularization

	for i, b := range s.Bodies {
		shape, err := b.shape()
		if err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}

		body := actor.NewRigidBody(actor.NewTransformAt(b.Position), shape, actor.BodyTypeDynamic, b.Density)
		body.Velocity = b.Velocity
		body.AngularVelocity = b.AngularVelocity
		body.Material.Friction = b.Friction
		body.Material.Restitution = b.Restitution
		w.AddBody(body)
	}

	return w, nil
}
