package plus

import (
	"fmt"

	"github.com/akmonengine/plus/activeset"
	"github.com/akmonengine/plus/constraint"
	"gonum.org/v1/gonum/mat"
)

// Problem is one impulse solve. A, D, PiExpand and the index lists are read
// only. Verr is overwritten with the residual velocity left after the solve
// and Pi receives the impulse; descriptor conditions and slip velocities are
// left in their final state.
type Problem struct {
	// Phase tags the solve for counters and logs (e.g. 0 compression,
	// 1 expansion).
	Phase int

	// Participating lists the multipliers being solved for.
	Participating []activeset.MultiplierIndex

	// A is the m×m coupling matrix: A(i,j) is the velocity change at i per
	// unit impulse at j.
	A mat.Matrix
	// D is the diagonal regularization added to A. Nil means zero.
	D []float64

	// Expanding lists the multipliers whose impulse was decided by an earlier
	// stage; PiExpand holds those impulses. PiExpand may be nil when
	// Expanding is empty.
	Expanding []activeset.MultiplierIndex
	PiExpand  []float64

	Verr []float64
	// Pi is resized to m when it does not already have that length.
	Pi []float64

	Unconditional    []constraint.Unconditional
	UniContact       []constraint.UniContact
	UniSpeed         []constraint.UniSpeed
	Bounded          []constraint.Bounded
	ConsLtdFriction  []constraint.ConstraintLimitedFriction
	StateLtdFriction []constraint.StateLimitedFriction
}

// Result summarizes a solve.
type Result struct {
	// Converged is false when a Newton solve or a pruning/interval cap ran
	// out; the impulse returned is then the best one found.
	Converged bool

	Intervals        int
	NewtonIterations int
	PruneSteps       int
}

// Size returns m, the dimension of the multiplier space.
func (p *Problem) Size() int {
	if p.A == nil {
		return len(p.Verr)
	}
	r, _ := p.A.Dims()

	return r
}

func (p *Problem) validate() error {
	if p.A == nil {
		return fmt.Errorf("%w: nil coupling matrix", ErrDimensionMismatch)
	}
	m, c := p.A.Dims()
	if m != c {
		return fmt.Errorf("%w: coupling matrix is %dx%d", ErrDimensionMismatch, m, c)
	}
	if len(p.Verr) != m {
		return fmt.Errorf("%w: verr has %d entries, want %d", ErrDimensionMismatch, len(p.Verr), m)
	}
	if p.D != nil && len(p.D) != m {
		return fmt.Errorf("%w: D has %d entries, want %d", ErrDimensionMismatch, len(p.D), m)
	}
	if len(p.Expanding) > 0 && len(p.PiExpand) != m {
		return fmt.Errorf("%w: piExpand has %d entries, want %d", ErrDimensionMismatch, len(p.PiExpand), m)
	}

	check := func(what string, indices ...activeset.MultiplierIndex) error {
		for _, mx := range indices {
			if mx < 0 || int(mx) >= m {
				return fmt.Errorf("%w: %s index %d, m=%d", ErrIndexRange, what, mx, m)
			}
		}
		return nil
	}

	if err := check("participating", p.Participating...); err != nil {
		return err
	}
	if err := check("expanding", p.Expanding...); err != nil {
		return err
	}

	count := 0
	for _, u := range p.Unconditional {
		if err := check("unconditional", u.Mults...); err != nil {
			return err
		}
		count += len(u.Mults)
	}
	for k := range p.UniContact {
		c := &p.UniContact[k]
		if len(c.Friction) != 0 && len(c.Friction) != 2 {
			return fmt.Errorf("%w: contact %d has %d", ErrFrictionArity, k, len(c.Friction))
		}
		if err := check("contact", c.Normal); err != nil {
			return err
		}
		if err := check("contact friction", c.Friction...); err != nil {
			return err
		}
		count += c.Equations()
	}
	for _, s := range p.UniSpeed {
		if err := check("speed", s.Index); err != nil {
			return err
		}
		count++
	}
	for _, b := range p.Bounded {
		if err := check("bounded", b.Index); err != nil {
			return err
		}
		count++
	}
	for _, f := range p.ConsLtdFriction {
		if err := check("constraint-limited friction", f.Friction...); err != nil {
			return err
		}
		if err := check("friction limiter", f.Limiter); err != nil {
			return err
		}
		count += len(f.Friction)
	}
	for _, f := range p.StateLtdFriction {
		if err := check("state-limited friction", f.Friction...); err != nil {
			return err
		}
		count += len(f.Friction)
	}

	if count != len(p.Participating) {
		return fmt.Errorf("%w: descriptors hold %d, participating %d", ErrCategoryCount, count, len(p.Participating))
	}

	return p.validateParticipation(m)
}

// validateParticipation checks that every multiplier a descriptor solves for
// is participating. Indices are already known to be in range.
func (p *Problem) validateParticipation(m int) error {
	participating := make([]bool, m)
	for _, mx := range p.Participating {
		participating[mx] = true
	}

	check := func(what string, k int, indices ...activeset.MultiplierIndex) error {
		for _, mx := range indices {
			if !participating[mx] {
				return fmt.Errorf("%w: %s %d needs multiplier %d", ErrNotParticipating, what, k, mx)
			}
		}
		return nil
	}

	for k, u := range p.Unconditional {
		if err := check("unconditional", k, u.Mults...); err != nil {
			return err
		}
	}
	for k := range p.UniContact {
		c := &p.UniContact[k]
		if c.Type == constraint.Observing {
			continue
		}
		if c.Type == constraint.Participating {
			if err := check("contact", k, c.Normal); err != nil {
				return err
			}
		}
		if err := check("contact", k, c.Friction...); err != nil {
			return err
		}
	}
	for k, s := range p.UniSpeed {
		if err := check("speed", k, s.Index); err != nil {
			return err
		}
	}
	for k, b := range p.Bounded {
		if err := check("bounded", k, b.Index); err != nil {
			return err
		}
	}
	for k, f := range p.ConsLtdFriction {
		if err := check("constraint-limited friction", k, f.Friction...); err != nil {
			return err
		}
	}
	for k, f := range p.StateLtdFriction {
		if err := check("state-limited friction", k, f.Friction...); err != nil {
			return err
		}
	}

	return nil
}
