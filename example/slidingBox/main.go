package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/akmonengine/plus"
	"github.com/akmonengine/plus/actor"
	"github.com/akmonengine/plus/coupling"
	"github.com/akmonengine/plus/world"
	"github.com/go-gl/mathgl/mgl64"
)

// SetupScene creates a ground plane with a box sliding on it and a ball
// bouncing next to it.
func SetupScene(solver *plus.Solver) (*world.World, *actor.RigidBody, *actor.RigidBody) {
	w := world.New(solver, &actor.Plane{Normal: mgl64.Vec3{0, 1, 0}}, 0.6, 0.5)
	w.Gravity = mgl64.Vec3{0, -9.81, 0}
	w.Substeps = 2

	box := actor.NewRigidBody(
		actor.NewTransformAt(mgl64.Vec3{0, 0.5, 0}),
		&actor.Box{HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}},
		actor.BodyTypeDynamic,
		500,
	)
	box.Material.Friction = 0.6
	box.Velocity = mgl64.Vec3{4, 0, 1}
	w.AddBody(box)

	ball := actor.NewRigidBody(
		actor.NewTransformAt(mgl64.Vec3{3, 0.25, -2}),
		&actor.Sphere{Radius: 0.25},
		actor.BodyTypeDynamic,
		1000,
	)
	ball.Material.Friction = 0.2
	ball.Material.Restitution = 0.5
	ball.Velocity = mgl64.Vec3{-1, -3, 0}
	w.AddBody(ball)

	return w, box, ball
}

func main() {
	solver, err := plus.New(plus.DefaultConfig(),
		plus.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))),
	)
	if err != nil {
		log.Fatal(err)
	}

	w, box, ball := SetupScene(solver)

	const dt float64 = 1.0 / 60.0
	const maxSteps int = 90

	for step := 0; step < maxSteps; step++ {
		outcomes, err := w.Step(dt)
		if err != nil {
			log.Fatal(err)
		}

		if step%10 != 0 {
			continue
		}
		fmt.Printf("--- step %d ---\n", step+1)
		fmt.Printf("  box:  position %v velocity %v (|ω|=%.4f)\n", box.Transform.Position, box.Velocity, box.AngularVelocity.Len())
		fmt.Printf("  ball: position %v velocity %v\n", ball.Transform.Position, ball.Velocity)
		for i, out := range outcomes {
			fmt.Printf("  substep %d: intervals=%d newton=%d prune=%d bounced=%t max cone ratio=%.3f\n",
				i, out.Compression.Intervals, out.Compression.NewtonIterations, out.Compression.PruneSteps,
				out.Expanded, out.Report.MaxConeRatio)
		}
		fmt.Printf("  kinetic energy: %.4f\n", w.KineticEnergy())
	}

	fmt.Printf("solves: %d compression, %d expansion\n", solver.SolveCount(coupling.PhaseCompression), solver.SolveCount(coupling.PhaseExpansion))
}
