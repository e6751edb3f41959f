package scenario

import (
	"fmt"

	"github.com/akmonengine/plus"
	"github.com/akmonengine/plus/activeset"
	"github.com/akmonengine/plus/constraint"
	"gonum.org/v1/gonum/mat"
)

// Problem is a raw impulse problem. Multipliers are referred to by their
// row in A.
type Problem struct {
	Phase int         `yaml:"phase" validate:"gte=0"`
	A     [][]float64 `yaml:"a" validate:"required,min=1"`
	D     []float64   `yaml:"d,omitempty"`
	Verr  []float64   `yaml:"verr" validate:"required"`

	Participating []int     `yaml:"participating" validate:"dive,gte=0"`
	Expanding     []int     `yaml:"expanding,omitempty" validate:"dive,gte=0"`
	PiExpand      []float64 `yaml:"pi_expand,omitempty"`

	Unconditional             [][]int                     `yaml:"unconditional,omitempty" validate:"dive,dive,gte=0"`
	Contacts                  []Contact                   `yaml:"contacts,omitempty" validate:"dive"`
	UniSpeed                  []int                       `yaml:"uni_speed,omitempty" validate:"dive,gte=0"`
	Bounded                   []Bounded                   `yaml:"bounded,omitempty" validate:"dive"`
	ConstraintLimitedFriction []ConstraintLimitedFriction `yaml:"constraint_limited_friction,omitempty" validate:"dive"`
	StateLimitedFriction      []StateLimitedFriction      `yaml:"state_limited_friction,omitempty" validate:"dive"`
}

// Contact is a unilateral contact. Type defaults to participating.
type Contact struct {
	Type     string  `yaml:"type,omitempty" validate:"omitempty,oneof=participating known observing"`
	Normal   int     `yaml:"normal" validate:"gte=0"`
	Friction []int   `yaml:"friction,omitempty" validate:"omitempty,len=2,dive,gte=0"`
	Mu       float64 `yaml:"mu,omitempty" validate:"gte=0"`
}

type Bounded struct {
	Index int     `yaml:"index" validate:"gte=0"`
	Lower float64 `yaml:"lower"`
	Upper float64 `yaml:"upper" validate:"gtefield=Lower"`
}

type ConstraintLimitedFriction struct {
	Friction []int   `yaml:"friction" validate:"required,dive,gte=0"`
	Limiter  int     `yaml:"limiter" validate:"gte=0"`
	Mu       float64 `yaml:"mu" validate:"gte=0"`
}

type StateLimitedFriction struct {
	Friction    []int   `yaml:"friction" validate:"required,dive,gte=0"`
	Mu          float64 `yaml:"mu" validate:"gte=0"`
	KnownNormal float64 `yaml:"known_normal"`
}

var contactTypes = map[string]constraint.ContactType{
	"":              constraint.Participating,
	"participating": constraint.Participating,
	"known":         constraint.Known,
	"observing":     constraint.Observing,
}

func indices(in []int) []activeset.MultiplierIndex {
	if len(in) == 0 {
		return nil
	}
	out := make([]activeset.MultiplierIndex, len(in))
	for i, v := range in {
		out[i] = activeset.MultiplierIndex(v)
	}

	return out
}

func copyFloats(in []float64) []float64 {
	if in == nil {
		return nil
	}
	return append([]float64(nil), in...)
}

// Build returns a fresh solver problem. Index ranges and vector lengths are
// left for the solver to check.
func (p *Problem) Build() (*plus.Problem, error) {
	m := len(p.A)
	if m == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrMatrixShape)
	}
	a := mat.NewDense(m, m, nil)
	for i, r := range p.A {
		if len(r) != m {
			return nil, fmt.Errorf("%w: row %d has %d entries, want %d", ErrMatrixShape, i, len(r), m)
		}
		a.SetRow(i, r)
	}

	out := &plus.Problem{
		Phase:         p.Phase,
		Participating: indices(p.Participating),
		A:             a,
		D:             copyFloats(p.D),
		Expanding:     indices(p.Expanding),
		PiExpand:      copyFloats(p.PiExpand),
		Verr:          copyFloats(p.Verr),
	}

	for _, u := range p.Unconditional {
		out.Unconditional = append(out.Unconditional, constraint.Unconditional{Mults: indices(u)})
	}
	for _, c := range p.Contacts {
		out.UniContact = append(out.UniContact, constraint.UniContact{
			Type:     contactTypes[c.Type],
			Normal:   activeset.MultiplierIndex(c.Normal),
			Friction: indices(c.Friction),
			Mu:       c.Mu,
		})
	}
	for _, s := range p.UniSpeed {
		out.UniSpeed = append(out.UniSpeed, constraint.UniSpeed{Index: activeset.MultiplierIndex(s)})
	}
	for _, b := range p.Bounded {
		out.Bounded = append(out.Bounded, constraint.Bounded{
			Index: activeset.MultiplierIndex(b.Index),
			Lower: b.Lower,
			Upper: b.Upper,
		})
	}
	for _, f := range p.ConstraintLimitedFriction {
		out.ConsLtdFriction = append(out.ConsLtdFriction, constraint.ConstraintLimitedFriction{
			Friction: indices(f.Friction),
			Limiter:  activeset.MultiplierIndex(f.Limiter),
			Mu:       f.Mu,
		})
	}
	for _, f := range p.StateLimitedFriction {
		out.StateLtdFriction = append(out.StateLtdFriction, constraint.StateLimitedFriction{
			Friction:    indices(f.Friction),
			Mu:          f.Mu,
			KnownNormal: f.KnownNormal,
		})
	}

	return out, nil
}
