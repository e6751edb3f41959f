// Package plus resolves simultaneous multi-contact collision and friction at
// the impulse level.
//
// Given the coupling matrix A between constraint impulses and the velocity
// changes they cause, Solve finds impulses that remove the velocity residual
// subject to unilateral contacts, Coulomb friction cones, bilateral and
// box-bounded constraints. It alternates a smoothed Newton solve over an
// active set with pruning of the worst violated constraint, and splits the
// impulse into sliding intervals so that no contact's slip direction turns
// too far in one step.
package plus

import (
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Solver holds configuration and counters shared by many solves. Solve is
// safe for concurrent use with distinct problems.
type Solver struct {
	cfg     Config
	logger  *slog.Logger
	reg     prometheus.Registerer
	metrics *metrics

	mu     sync.Mutex
	solves map[int]int
}

// Option customizes a Solver.
type Option func(*Solver)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Solver) {
		s.logger = logger
	}
}

// WithRegisterer registers the solver metrics with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(s *Solver) {
		s.reg = reg
	}
}

// New returns a solver using cfg.
func New(cfg Config, opts ...Option) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Solver{
		cfg:    cfg,
		solves: make(map[int]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.metrics = newMetrics(s.reg)

	return s, nil
}

// Config returns the solver configuration.
func (s *Solver) Config() Config {
	return s.cfg
}

// SolveCount returns how many solves were run for phase.
func (s *Solver) SolveCount(phase int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.solves[phase]
}

func (s *Solver) count(phase int) {
	s.mu.Lock()
	s.solves[phase]++
	s.mu.Unlock()
}

// Solve computes the impulse for p. On return p.Pi holds the impulse, which
// excludes the expansion impulse, and p.Verr the velocity residual left after
// applying both. An error is returned only for malformed problems, before
// anything is modified; failing to converge is reported in the Result.
func (s *Solver) Solve(p *Problem) (Result, error) {
	if err := p.validate(); err != nil {
		return Result{}, err
	}
	s.count(p.Phase)

	m := p.Size()
	if len(p.Pi) != m {
		p.Pi = make([]float64, m)
	}

	logger := s.logger.With("phase", p.Phase)
	ws := newWorkspace(p, s.cfg.RankTol)

	var res Result
	if len(p.Participating) == 0 {
		ws.beginInterval(p)
		ws.advance(p, 1)
		res.Converged = true
	} else {
		res = s.solveIntervals(p, ws, logger)
	}

	copy(p.Pi, ws.piTotal)
	copy(p.Verr, ws.verrLeft)

	logger.Debug("impulse solved",
		"m", m,
		"participating", len(p.Participating),
		"converged", res.Converged,
		"intervals", res.Intervals,
		"newton", res.NewtonIterations,
		"pruned", res.PruneSteps)
	s.metrics.observe(p.Phase, res)

	return res, nil
}

func (s *Solver) solveIntervals(p *Problem, ws *workspace, logger *slog.Logger) Result {
	res := Result{Converged: true}

	for frac := 0.0; frac < 1; {
		res.Intervals++
		ws.beginInterval(p)
		ws.classify(p, s.cfg.MaxRollingSpeed)
		logger.Debug("interval started", "interval", res.Intervals, "active", ws.active.Len(), "sliding", sliding(p))

		if !s.pruneToFeasible(p, ws, &res, logger) {
			res.Converged = false
		}

		frac = ws.slidingFraction(p, s.cfg.MaxRollingSpeed, s.cfg.CosMaxSlidingDirChange)
		if frac < 1 && res.Intervals >= s.cfg.MaxIntervals {
			logger.Warn("sliding interval cap reached", "intervals", res.Intervals, "fraction", frac)
			frac = 1
			res.Converged = false
		}
		logger.Debug("interval accepted", "interval", res.Intervals, "fraction", frac)
		ws.advance(p, frac)
	}

	return res
}

// pruneToFeasible alternates Newton solves and active-set changes until the
// in-bound guess violates nothing. It reports whether the final Newton solve
// converged within the caps.
func (s *Solver) pruneToFeasible(p *Problem, ws *workspace, res *Result, logger *slog.Logger) bool {
	for changes := 0; ; changes++ {
		ws.initializeNewton(p)
		ws.residual(p, ws.piActive, ws.errActive)
		if ws.active.Empty() {
			return true
		}

		iters, converged := s.newton(p, ws)
		res.NewtonIterations += iters

		v := ws.inspect(p)
		if v.within(s.cfg.ViolationTol) {
			return converged
		}
		if changes >= s.cfg.MaxPruningIters {
			logger.Warn("pruning cap reached", "interval", res.Intervals, "active", ws.active.Len(), "worst", v.worst())
			ws.acceptGuess()
			return false
		}

		logger.Debug("pruning",
			"interval", res.Intervals,
			"step", changes+1,
			"worst", v.worst(),
			"active", ws.active.Len())
		ws.prune(p, v, logger)
		res.PruneSteps++
	}
}
