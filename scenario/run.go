package scenario

import (
	"github.com/akmonengine/plus"
	"github.com/go-gl/mathgl/mgl64"
)

// BodyState is the final state of a scene body.
type BodyState struct {
	Position        mgl64.Vec3 `yaml:"position"`
	Velocity        mgl64.Vec3 `yaml:"velocity"`
	AngularVelocity mgl64.Vec3 `yaml:"angular_velocity"`
}

// Summary is the outcome of running a scenario.
type Summary struct {
	Name      string `yaml:"name"`
	Converged bool   `yaml:"converged"`
	// Solves counts the solver calls made.
	Solves           int `yaml:"solves"`
	Intervals        int `yaml:"intervals"`
	NewtonIterations int `yaml:"newton_iterations"`
	PruneSteps       int `yaml:"prune_steps"`

	Pi   []float64 `yaml:"pi,omitempty"`
	Verr []float64 `yaml:"verr,omitempty"`
	// Report is the contact report of the last solve.
	Report plus.Report `yaml:"report"`

	Bodies []BodyState `yaml:"bodies,omitempty"`
}

func (s *Summary) add(r plus.Result) {
	s.Solves++
	s.Converged = s.Converged && r.Converged
	s.Intervals += r.Intervals
	s.NewtonIterations += r.NewtonIterations
	s.PruneSteps += r.PruneSteps
}

// Run solves the scenario with solver: a raw problem once, a scene for
// every step.
func (sc *Scenario) Run(solver *plus.Solver) (Summary, error) {
	sum := Summary{Name: sc.Name, Converged: true}

	if sc.Problem != nil {
		p, err := sc.Problem.Build()
		if err != nil {
			return sum, err
		}
		res, err := solver.Solve(p)
		if err != nil {
			return sum, err
		}
		sum.add(res)
		sum.Pi = p.Pi
		sum.Verr = p.Verr
		sum.Report = plus.Check(p)

		return sum, nil
	}

	w, err := sc.Scene.Build(solver)
	if err != nil {
		return sum, err
	}
	for i := 0; i < sc.Scene.Steps; i++ {
		outcomes, err := w.Step(sc.Scene.Dt)
		if err != nil {
			return sum, err
		}
		for _, out := range outcomes {
			sum.add(out.Compression)
			if out.Expanded {
				sum.add(out.Expansion)
			}
			sum.Report = out.Report
		}
	}

	for _, body := range w.Bodies {
		sum.Bodies = append(sum.Bodies, BodyState{
			Position:        body.Transform.Position,
			Velocity:        body.Velocity,
			AngularVelocity: body.AngularVelocity,
		})
	}

	return sum, nil
}
