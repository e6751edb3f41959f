package coupling

import (
	"fmt"

	"github.com/akmonengine/plus"
)

// Solve phases used by Resolve.
const (
	PhaseCompression = 0
	PhaseExpansion   = 1
)

// Outcome reports a collision resolution.
type Outcome struct {
	Compression plus.Result
	Expansion   plus.Result
	// Expanded is true when a restitution phase was solved.
	Expanded bool

	// Impulse is the total impulse applied per multiplier, expansion
	// included.
	Impulse []float64
	// Report measures the contact conditions of the last phase solved.
	Report plus.Report
}

// Resolve removes the approaching velocity at every contact: it solves the
// compression phase, applies it, then solves and applies the restitution
// phase when any contact bounces.
func (a *Assembly) Resolve(s *plus.Solver) (Outcome, error) {
	var out Outcome
	if a.Size() == 0 {
		return out, nil
	}

	compression := a.Problem(PhaseCompression)
	res, err := s.Solve(compression)
	if err != nil {
		return out, fmt.Errorf("compression: %w", err)
	}
	a.Apply(compression.Pi)

	out.Compression = res
	out.Impulse = append([]float64(nil), compression.Pi...)
	out.Report = plus.Check(compression)

	expansion := a.Expansion(compression, PhaseExpansion)
	if len(expansion.Expanding) == 0 {
		return out, nil
	}

	res, err = s.Solve(expansion)
	if err != nil {
		return out, fmt.Errorf("expansion: %w", err)
	}
	a.Apply(expansion.Pi)
	a.Apply(expansion.PiExpand)

	out.Expansion = res
	out.Expanded = true
	for i := range out.Impulse {
		out.Impulse[i] += expansion.Pi[i] + expansion.PiExpand[i]
	}
	out.Report = plus.Check(expansion)

	return out, nil
}
