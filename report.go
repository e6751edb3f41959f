package plus

import (
	"math"

	"github.com/akmonengine/plus/constraint"
)

// ContactReport measures how well a solved impulse meets the conditions of
// one unilateral contact.
type ContactReport struct {
	Contact int

	// Normal is the normal impulse including any expansion impulse.
	Normal float64
	// Velocity is the normal velocity residual left after the solve.
	Velocity float64
	// Complementarity is Normal·Velocity; zero for an exact solution.
	Complementarity float64

	// Friction is the magnitude of the friction impulse.
	Friction float64
	// ConeRatio is Friction / (Mu·|Normal|); at most 1 inside the cone. It is
	// 0 without friction and +Inf for friction with no normal impulse.
	ConeRatio float64

	ContactCond  constraint.ContactCondition
	FrictionCond constraint.FrictionCondition
}

// Report collects the per-contact measures of a solved problem.
type Report struct {
	Contacts []ContactReport

	MaxComplementarity float64
	MaxConeRatio       float64
	// MaxSeparatingImpulse is the largest positive (pulling) normal impulse.
	MaxSeparatingImpulse float64
}

// Check measures the contact conditions of p after Solve.
func Check(p *Problem) Report {
	var r Report

	for k := range p.UniContact {
		c := &p.UniContact[k]
		if c.Type == constraint.Observing {
			continue
		}

		normal := p.Pi[c.Normal]
		if p.PiExpand != nil {
			normal += p.PiExpand[c.Normal]
		}
		cr := ContactReport{
			Contact:      k,
			Normal:       normal,
			Velocity:     p.Verr[c.Normal],
			ContactCond:  c.ContactCond,
			FrictionCond: c.FrictionCond,
		}
		cr.Complementarity = cr.Normal * cr.Velocity

		if c.HasFriction() {
			var sqr float64
			for _, mx := range c.Friction {
				sqr += p.Pi[mx] * p.Pi[mx]
			}
			cr.Friction = math.Sqrt(sqr)

			limit := c.Mu * math.Abs(normal)
			switch {
			case limit > 0:
				cr.ConeRatio = cr.Friction / limit
			case cr.Friction > 0:
				cr.ConeRatio = math.Inf(1)
			}
		}

		r.Contacts = append(r.Contacts, cr)
		r.MaxComplementarity = math.Max(r.MaxComplementarity, math.Abs(cr.Complementarity))
		r.MaxConeRatio = math.Max(r.MaxConeRatio, cr.ConeRatio)
		r.MaxSeparatingImpulse = math.Max(r.MaxSeparatingImpulse, cr.Normal)
	}

	return r
}
